package patch

import (
	"fmt"
	"regexp"
	"strings"

	perrors "github.com/shaderpatch/shaderpatch/internal/errors"
)

// ReplaceFunc computes the replacement for one match. groups[0] is the whole
// match and groups[i] the i-th capture group ("" when the group did not participate).
type ReplaceFunc func(groups []string) string

// RegexPatch replaces matches of a regular expression.
//
// With no match the patch fails with PAT001 unless it is optional, in which
// case the input is returned unchanged. More than one match fails with PAT002
// unless Multiple is set; then every non-overlapping match is replaced left to right.
type RegexPatch struct {
	Target

	re       *regexp.Regexp
	name     string
	replace  func(code string, match []int) string
	find     func(code string) [][]int
	optional bool
	multiple bool
}

// NewRegexPatch compiles pattern and returns a patch replacing each match with
// replacement. $1 / ${name} references in replacement expand as in regexp.Expand.
func NewRegexPatch(pattern, replacement string, opts ...Option) (*RegexPatch, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, perrors.NewInvalidPatch(fmt.Sprintf("invalid regex %q", pattern), err)
	}

	p := newRegexPatch(re, pattern, opts)
	p.replace = func(code string, match []int) string {
		return string(re.ExpandString(nil, replacement, code, match))
	}
	return p, nil
}

// NewRegexPatchFunc returns a patch replacing each match of re with fn's result.
func NewRegexPatchFunc(re *regexp.Regexp, fn ReplaceFunc, opts ...Option) *RegexPatch {
	p := newRegexPatch(re, re.String(), opts)
	p.replace = func(code string, match []int) string {
		return fn(submatches(code, match))
	}
	return p
}

func newRegexPatch(re *regexp.Regexp, name string, opts []Option) *RegexPatch {
	o := buildOptions(opts)
	return &RegexPatch{
		Target:   o.target,
		re:       re,
		name:     name,
		optional: o.optional,
		multiple: o.multiple,
	}
}

// Apply implements Patch.
func (p *RegexPatch) Apply(filename, code string) (string, error) {
	matches := p.matches(code)

	switch {
	case len(matches) == 0 && p.optional:
		return code, nil
	case len(matches) == 0:
		return "", perrors.NewPatchNotFound(filename, p.name)
	case len(matches) > 1 && !p.multiple:
		return "", perrors.NewPatchAmbiguous(filename, p.name, len(matches))
	}

	var b strings.Builder
	b.Grow(len(code))
	last := 0
	for _, m := range matches {
		b.WriteString(code[last:m[0]])
		b.WriteString(p.replace(code, m))
		last = m[1]
	}
	b.WriteString(code[last:])

	return b.String(), nil
}

func (p *RegexPatch) matches(code string) [][]int {
	if p.find != nil {
		return p.find(code)
	}
	return p.re.FindAllStringSubmatchIndex(code, -1)
}

// Regexp returns the compiled pattern.
func (p *RegexPatch) Regexp() *regexp.Regexp {
	return p.re
}

// Kind implements Describer.
func (p *RegexPatch) Kind() string { return "regex" }

// Describe implements Describer.
func (p *RegexPatch) Describe() string {
	return describeFlags(p.name, p.optional, p.multiple)
}

func describeFlags(name string, optional, multiple bool) string {
	var flags []string
	if optional {
		flags = append(flags, "optional")
	}
	if multiple {
		flags = append(flags, "multiple")
	}
	if len(flags) == 0 {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, strings.Join(flags, ", "))
}

func submatches(code string, match []int) []string {
	groups := make([]string, len(match)/2)
	for i := range groups {
		start, end := match[2*i], match[2*i+1]
		if start >= 0 {
			groups[i] = code[start:end]
		}
	}
	return groups
}
