// Package pipeline applies an ordered list of patches to shader sources and
// caches the results per file until the next reload.
package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/shaderpatch/shaderpatch/internal/cache"
	"github.com/shaderpatch/shaderpatch/internal/patch"
)

// Source supplies the declarative patch list. It is consulted on every Reload.
type Source interface {
	Patches() ([]patch.Patch, error)
}

// SourceFunc adapts a function to Source
type SourceFunc func() ([]patch.Patch, error)

// Patches implements Source
func (f SourceFunc) Patches() ([]patch.Patch, error) {
	return f()
}

// ReloadFunc is notified after a reload has repopulated the patch list and
// before any further Patch call. Listeners typically recompute values derived
// from patched sources.
type ReloadFunc func(p *Pipeline) error

// Pipeline applies patches in registration order.
//
// Thread Safety: Pipeline is NOT thread-safe. Reload, AddPatch and Patch must
// be serialized by the caller; a Reload must never overlap a Patch.
type Pipeline struct {
	source    Source
	patches   []patch.Patch
	cache     *cache.ResultCache
	listeners []ReloadFunc
	logger    *zap.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the logger used for debug output
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates an empty pipeline fed by source. source may be nil when patches
// are only added with AddPatch. Call Reload to load the initial list.
func New(source Source, opts ...Option) *Pipeline {
	p := &Pipeline{
		source: source,
		cache:  cache.NewResultCache(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AddPatch appends a patch. Patches run in the order they were added.
func (p *Pipeline) AddPatch(pt patch.Patch) {
	p.patches = append(p.patches, pt)
}

// Patches returns a copy of the current patch list
func (p *Pipeline) Patches() []patch.Patch {
	out := make([]patch.Patch, len(p.patches))
	copy(out, p.patches)
	return out
}

// Len returns the number of registered patches
func (p *Pipeline) Len() int {
	return len(p.patches)
}

// CacheSize returns the number of cached results
func (p *Pipeline) CacheSize() int {
	return p.cache.Size()
}

// OnReload registers a listener run at the end of every Reload
func (p *Pipeline) OnReload(fn ReloadFunc) {
	p.listeners = append(p.listeners, fn)
}

// Patch runs every applicable patch over code and returns the result.
//
// Each patch sees the output of the previous one, and ShouldPatch is evaluated
// against that current code rather than the original. With useCache set, a
// cached result for filename is returned without running anything, and a
// freshly computed result is stored. A patch error aborts and is returned as is.
func (p *Pipeline) Patch(filename, code string, useCache bool) (string, error) {
	if useCache {
		if entry, ok := p.cache.Get(filename); ok {
			p.logger.Debug("patch cache hit", zap.String("file", filename))
			return entry.Code, nil
		}
	}

	input := code
	applied := 0
	for _, pt := range p.patches {
		if !pt.ShouldPatch(filename, code) {
			continue
		}

		out, err := pt.Apply(filename, code)
		if err != nil {
			return "", err
		}
		code = out
		applied++
	}

	p.logger.Debug("patched shader",
		zap.String("file", filename),
		zap.Int("applied", applied),
		zap.Int("registered", len(p.patches)),
	)

	if useCache {
		p.cache.Set(filename, input, code)
	}
	return code, nil
}

// Invalidate drops the cached result for filename, e.g. after its source changed
func (p *Pipeline) Invalidate(filename string) {
	p.cache.Invalidate(filename)
}

// Reload discards every patch and cached result, repopulates the list from the
// source, then notifies reload listeners in registration order. The first
// listener error stops the notification and is returned.
func (p *Pipeline) Reload() error {
	p.patches = nil
	p.cache.InvalidateAll()

	if p.source != nil {
		patches, err := p.source.Patches()
		if err != nil {
			return fmt.Errorf("failed to load patches: %w", err)
		}
		p.patches = append(p.patches, patches...)
	}

	p.logger.Debug("pipeline reloaded", zap.Int("patches", len(p.patches)))

	for _, fn := range p.listeners {
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}
