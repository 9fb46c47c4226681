// Package patch implements the text transforms applied to shader source before
// compilation: regular-expression patches, token patches that respect lexical
// boundaries, and start/end-of-file insertions.
//
// Patches are immutable once constructed. Each one targets either every file
// or the files whose name matches its Target.
package patch

import (
	"errors"
	"strings"
)

var errEmptyTokens = errors.New("token sequence is empty")

// Patch is a single transform over one shader file's source.
type Patch interface {
	// ShouldPatch reports whether the patch applies to the named file given its current code.
	ShouldPatch(filename, code string) bool
	// Apply returns the transformed code.
	Apply(filename, code string) (string, error)
}

// Describer is implemented by patches that can summarize themselves for listings.
type Describer interface {
	Kind() string
	Describe() string
}

// Target restricts a patch to particular files. The zero value matches every file.
type Target struct {
	// Filename is compared case-insensitively; empty matches everything.
	Filename string
	// Exact requires the whole name to match instead of a substring.
	Exact bool
}

// ShouldPatch implements Patch.
func (t Target) ShouldPatch(filename, code string) bool {
	if t.Filename == "" {
		return true
	}
	if t.Exact {
		return strings.EqualFold(filename, t.Filename)
	}
	return strings.Contains(strings.ToLower(filename), strings.ToLower(t.Filename))
}

// TargetDescription returns the file selector in human-readable form.
func (t Target) TargetDescription() string {
	switch {
	case t.Filename == "":
		return "*"
	case t.Exact:
		return t.Filename
	default:
		return "*" + t.Filename + "*"
	}
}

type options struct {
	target   Target
	optional bool
	multiple bool
}

// Option configures a patch at construction.
type Option func(*options)

// ForFile restricts the patch to files whose name contains name (case-insensitive).
func ForFile(name string) Option {
	return func(o *options) {
		o.target = Target{Filename: name}
	}
}

// ForExactFile restricts the patch to the file named exactly name (case-insensitive).
func ForExactFile(name string) Option {
	return func(o *options) {
		o.target = Target{Filename: name, Exact: true}
	}
}

// Optional makes a patch whose pattern is absent a no-op instead of an error.
func Optional() Option {
	return func(o *options) {
		o.optional = true
	}
}

// Multiple allows a patch to replace every occurrence instead of exactly one.
func Multiple() Option {
	return func(o *options) {
		o.multiple = true
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
