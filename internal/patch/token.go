package patch

import (
	"fmt"
	"regexp"

	perrors "github.com/shaderpatch/shaderpatch/internal/errors"
)

// TokenPatch is a RegexPatch whose pattern is built by TokenPattern, so it
// only matches tokens as a whole lexical unit and tolerates formatting
// differences in the source.
type TokenPatch struct {
	*RegexPatch

	tokens string
}

// NewTokenPatch returns a patch replacing tokens with content. The boundary
// characters on either side of each match are kept as they were.
func NewTokenPatch(tokens, content string, opts ...Option) (*TokenPatch, error) {
	return NewTokenPatchFunc(tokens, func(groups []string) string {
		return groups[1] + content + groups[2]
	}, opts...)
}

// NewTokenPatchFunc returns a token patch with a custom replacement. fn sees
// the leading boundary in groups[1] and the trailing one in groups[2] and is
// responsible for re-emitting them. A separator shared by two adjacent
// matches, as in "x+x", is handed to the first match only.
func NewTokenPatchFunc(tokens string, fn ReplaceFunc, opts ...Option) (*TokenPatch, error) {
	re, err := CompileTokens(tokens)
	if err != nil {
		return nil, perrors.NewInvalidPatch(fmt.Sprintf("invalid token sequence %q", tokens), err)
	}
	resume, err := compileResume(tokens)
	if err != nil {
		return nil, perrors.NewInvalidPatch(fmt.Sprintf("invalid token sequence %q", tokens), err)
	}

	p := NewRegexPatchFunc(re, fn, opts...)
	p.name = NormalizeTokens(tokens)
	p.find = func(code string) [][]int {
		return findTokens(re, resume, code)
	}

	return &TokenPatch{RegexPatch: p, tokens: tokens}, nil
}

// findTokens returns every token match in code. Each search resumes at the
// previous match's trailing boundary so that boundary can also lead the next
// match. A match whose leading boundary was already consumed gets an empty
// leading group starting where the previous match ended.
func findTokens(first, resume *regexp.Regexp, code string) [][]int {
	var matches [][]int
	re, pos, end := first, 0, 0
	for pos <= len(code) {
		m := re.FindStringSubmatchIndex(code[pos:])
		if m == nil {
			break
		}
		for i := range m {
			if m[i] >= 0 {
				m[i] += pos
			}
		}
		if m[0] < end {
			m[0], m[2], m[3] = end, end, end
		}
		matches = append(matches, m)

		pos, end = m[4], m[1]
		re = resume
	}
	return matches
}

// Tokens returns the token sequence the patch was built from.
func (p *TokenPatch) Tokens() string {
	return p.tokens
}

// Kind implements Describer.
func (p *TokenPatch) Kind() string { return "token" }
