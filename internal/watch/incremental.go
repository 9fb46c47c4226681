package watch

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shaderpatch/shaderpatch/internal/cache"
	"github.com/shaderpatch/shaderpatch/internal/cli/config"
	"github.com/shaderpatch/shaderpatch/internal/engine"
	"github.com/shaderpatch/shaderpatch/internal/utils"
)

// Engine is the part of *engine.Engine the incremental builder drives
type Engine interface {
	Reload() error
	Invalidate(name string)
	Build(outDir string, names ...string) (*engine.BuildResult, error)
}

// ChangeKind classifies a changed file
type ChangeKind int

const (
	// ChangeIgnored files have no effect on any output
	ChangeIgnored ChangeKind = iota
	// ChangeShader files only affect their own output
	ChangeShader
	// ChangeGlobal files (patch list, snippets, extraction sources) affect every output
	ChangeGlobal
)

// RebuildResult holds the result of handling one batch of changes
type RebuildResult struct {
	Full      bool
	Rebuilt   []string
	Unchanged []string
	Build     *engine.BuildResult
	Duration  time.Duration
}

// IncrementalBuilder rebuilds only the shaders whose content changed, and
// falls back to a reload plus full build when a global input changes.
type IncrementalBuilder struct {
	engine Engine
	cfg    *config.Config
	outDir string
	hasher *cache.FileHasher
	hashes map[string]string
	logger *zap.Logger
}

// NewIncrementalBuilder creates a builder writing to outDir
func NewIncrementalBuilder(e Engine, cfg *config.Config, outDir string, logger *zap.Logger) *IncrementalBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IncrementalBuilder{
		engine: e,
		cfg:    cfg,
		outDir: outDir,
		hasher: cache.NewFileHasher(),
		hashes: make(map[string]string),
		logger: logger,
	}
}

// Roots returns the directories that hold inputs of the build. The patch
// list directory is watched without its subdirectories.
func (b *IncrementalBuilder) Roots() []Root {
	roots := []Root{
		{Dir: b.cfg.Shaders.Dir, Recursive: true},
		{Dir: b.cfg.Snippets.Dir, Recursive: true},
	}
	patchDir := filepath.Dir(b.cfg.Patches.File)
	if !within(patchDir, b.cfg.Shaders.Dir) && !within(patchDir, b.cfg.Snippets.Dir) {
		roots = append(roots, Root{Dir: patchDir})
	}
	return roots
}

// Relevant reports whether a change to path can affect the build output
func (b *IncrementalBuilder) Relevant(path string) bool {
	kind, _ := b.Classify(path)
	return kind != ChangeIgnored
}

// Classify returns how a change to path affects the build, plus the shader
// name for shader changes.
func (b *IncrementalBuilder) Classify(path string) (ChangeKind, string) {
	if samePath(path, b.cfg.Patches.File) {
		return ChangeGlobal, ""
	}
	if within(path, b.cfg.Snippets.Dir) {
		return ChangeGlobal, ""
	}
	if !within(path, b.cfg.Shaders.Dir) || !b.cfg.IsShader(path) {
		return ChangeIgnored, ""
	}

	name := utils.ShaderName(b.cfg.Shaders.Dir, path)
	for _, ec := range b.cfg.Extract {
		if ec.File == name {
			return ChangeGlobal, name
		}
	}
	return ChangeShader, name
}

// FullBuild reloads the engine, builds every shader and records their hashes
func (b *IncrementalBuilder) FullBuild() (*RebuildResult, error) {
	start := time.Now()

	if err := b.engine.Reload(); err != nil {
		return &RebuildResult{Full: true, Duration: time.Since(start)}, err
	}

	build, err := b.engine.Build(b.outDir)
	result := &RebuildResult{Full: true, Build: build, Duration: time.Since(start)}
	if build != nil {
		result.Rebuilt = build.Written
	}
	b.rehashAll()
	return result, err
}

// HandleChanges processes one batch of changed paths
func (b *IncrementalBuilder) HandleChanges(files []string) (*RebuildResult, error) {
	start := time.Now()

	var shaders []string
	for _, file := range files {
		kind, name := b.Classify(file)
		switch kind {
		case ChangeGlobal:
			b.logger.Info("global input changed, rebuilding everything", zap.String("file", file))
			return b.FullBuild()
		case ChangeShader:
			shaders = append(shaders, name)
		}
	}

	result := &RebuildResult{}
	var changed []string
	for _, name := range shaders {
		path := filepath.Join(b.cfg.Shaders.Dir, filepath.FromSlash(name))
		hash, err := b.hasher.HashFile(path)
		if err != nil {
			// removed or unreadable; nothing to build
			delete(b.hashes, name)
			continue
		}
		if b.hashes[name] == hash {
			result.Unchanged = append(result.Unchanged, name)
			continue
		}
		b.hashes[name] = hash
		b.engine.Invalidate(name)
		changed = append(changed, name)
	}

	if len(changed) == 0 {
		result.Duration = time.Since(start)
		return result, nil
	}

	sort.Strings(changed)
	build, err := b.engine.Build(b.outDir, changed...)
	result.Build = build
	if build != nil {
		result.Rebuilt = build.Written
	}
	result.Duration = time.Since(start)
	return result, err
}

func (b *IncrementalBuilder) rehashAll() {
	b.hashes = make(map[string]string)
	files, err := utils.FindShaderFiles(b.cfg.Shaders.Dir, b.cfg.IsShader)
	if err != nil {
		b.logger.Warn("failed to scan shaders", zap.Error(err))
		return
	}
	for _, name := range files {
		hash, err := b.hasher.HashFile(filepath.Join(b.cfg.Shaders.Dir, filepath.FromSlash(name)))
		if err == nil {
			b.hashes[name] = hash
		}
	}
}

func samePath(a, b string) bool {
	absA, err1 := filepath.Abs(a)
	absB, err2 := filepath.Abs(b)
	return err1 == nil && err2 == nil && absA == absB
}

// within reports whether path is dir or lies below it
func within(path, dir string) bool {
	absPath, err1 := filepath.Abs(path)
	absDir, err2 := filepath.Abs(dir)
	if err1 != nil || err2 != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
