package patch

import (
	"regexp"
	"strings"
)

// headerLine matches preprocessor lines that must stay at the very top of a shader.
var headerLine = regexp.MustCompile(`^\s*#\s*(version|extension)\b`)

// InsertAfterHeader inserts content on its own line after the leading
// #version / #extension lines of code and before the first other line.
// The remainder of code is copied verbatim. If code consists only of header
// lines the content is appended at the end.
func InsertAfterHeader(code, content string) string {
	var b strings.Builder
	b.Grow(len(code) + len(content) + 1)

	offset := 0
	for offset < len(code) {
		end := strings.IndexByte(code[offset:], '\n')
		if end < 0 {
			end = len(code)
		} else {
			end += offset + 1
		}

		line := code[offset:end]
		if !headerLine.MatchString(line) {
			b.WriteString(content)
			b.WriteByte('\n')
			b.WriteString(code[offset:])
			return b.String()
		}

		b.WriteString(line)
		offset = end
	}

	if code != "" && !strings.HasSuffix(code, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString(content)
	b.WriteByte('\n')
	return b.String()
}

// StartPatch inserts content after a file's #version / #extension header.
type StartPatch struct {
	Target

	Content string
}

// NewStartPatch returns a start-of-file patch. Optional and Multiple have no
// effect: a start patch always applies exactly once.
func NewStartPatch(content string, opts ...Option) *StartPatch {
	return &StartPatch{Target: buildOptions(opts).target, Content: content}
}

// Apply implements Patch.
func (p *StartPatch) Apply(filename, code string) (string, error) {
	return InsertAfterHeader(code, p.Content), nil
}

// Kind implements Describer.
func (p *StartPatch) Kind() string { return "start" }

// Describe implements Describer.
func (p *StartPatch) Describe() string { return firstLine(p.Content) }

// EndPatch appends content on its own line at the end of a file.
type EndPatch struct {
	Target

	Content string
}

// NewEndPatch returns an end-of-file patch.
func NewEndPatch(content string, opts ...Option) *EndPatch {
	return &EndPatch{Target: buildOptions(opts).target, Content: content}
}

// Apply implements Patch.
func (p *EndPatch) Apply(filename, code string) (string, error) {
	var b strings.Builder
	b.Grow(len(code) + len(p.Content) + 2)
	b.WriteString(code)
	if code != "" && !strings.HasSuffix(code, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString(p.Content)
	b.WriteByte('\n')
	return b.String(), nil
}

// Kind implements Describer.
func (p *EndPatch) Kind() string { return "end" }

// Describe implements Describer.
func (p *EndPatch) Describe() string { return firstLine(p.Content) }

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}
