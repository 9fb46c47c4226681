package patch

import (
	"regexp"
	"strings"
)

// separators are the characters that delimit tokens in shader source.
// Whitespace around them is optional when matching.
const separators = ".,+-*/;{}[]()=:|^&?#"

// boundaryClass matches a single whitespace or separator character.
const boundaryClass = `[\s.,+\-*/;{}\[\]()=:|^&?#]`

func isSeparator(c byte) bool {
	return strings.IndexByte(separators, c) >= 0
}

// NormalizeTokens collapses whitespace runs in s to a single space and removes
// whitespace adjacent to separator characters entirely.
//
//	NormalizeTokens("float   dropletnoise( in vec2  x )") == "float dropletnoise(in vec2 x)"
func NormalizeTokens(s string) string {
	fields := strings.Fields(s)

	var b strings.Builder
	b.Grow(len(s))
	for i, f := range fields {
		if i > 0 {
			prev := fields[i-1]
			if !isSeparator(prev[len(prev)-1]) && !isSeparator(f[0]) {
				b.WriteByte(' ')
			}
		}
		b.WriteString(f)
	}
	return b.String()
}

// TokenPattern returns the regular expression source matching tokens as a whole
// lexical unit. Capture group 1 holds the leading boundary character and
// capture group 2 the trailing one; either is empty at start or end of input.
//
// Words separated by a space in the normalized form require at least one
// whitespace character; whitespace next to a separator is optional.
func TokenPattern(tokens string) string {
	return tokenPattern(tokens, true)
}

// tokenPattern builds the token regexp source. Without anchored the leading
// boundary must be a character, so the pattern can resume matching inside
// code without treating the resume point as start of input.
func tokenPattern(tokens string, anchored bool) string {
	norm := NormalizeTokens(tokens)
	if norm == "" {
		return ""
	}

	var b strings.Builder
	b.WriteString("(?i)")

	// A leading or trailing separator is its own boundary.
	if isSeparator(norm[0]) {
		b.WriteString("()")
	} else if anchored {
		b.WriteString("(^|" + boundaryClass + ")")
	} else {
		b.WriteString("(" + boundaryClass + ")")
	}

	for i := 0; i < len(norm); i++ {
		c := norm[i]
		if c == ' ' {
			b.WriteString(`\s+`)
			continue
		}
		if i > 0 && norm[i-1] != ' ' && (isSeparator(c) || isSeparator(norm[i-1])) {
			b.WriteString(`\s*`)
		}
		b.WriteString(regexp.QuoteMeta(string(c)))
	}

	if isSeparator(norm[len(norm)-1]) {
		b.WriteString("()")
	} else {
		b.WriteString("($|" + boundaryClass + ")")
	}

	return b.String()
}

// CompileTokens compiles TokenPattern(tokens).
func CompileTokens(tokens string) (*regexp.Regexp, error) {
	pattern := TokenPattern(tokens)
	if pattern == "" {
		return nil, errEmptyTokens
	}
	return regexp.Compile(pattern)
}

// compileResume compiles the unanchored form of TokenPattern(tokens).
func compileResume(tokens string) (*regexp.Regexp, error) {
	pattern := tokenPattern(tokens, false)
	if pattern == "" {
		return nil, errEmptyTokens
	}
	return regexp.Compile(pattern)
}
