// Package extract isolates the full source of one named function from a
// shader file so it can be re-injected elsewhere.
//
// The scanner understands just enough of a C-like shading language to do this
// safely: line comments, block comments, backslash-continued preprocessor
// directives, statement terminators and brace nesting. It does not track
// string or character literals, so braces or comment markers inside a literal
// are mis-counted. Shading language sources essentially never contain them.
package extract

import (
	"regexp"
	"strings"

	perrors "github.com/shaderpatch/shaderpatch/internal/errors"
)

// prototype matches a function header up to and including its opening brace:
// optional qualifiers, a return type (an array type such as float[2] included),
// the name, and a parameter list.
var prototype = regexp.MustCompile(`^(?:[A-Za-z_]\w*(?:\s*\[\s*\w*\s*\])?\s+)+([A-Za-z_]\w*)\s*\(([^()]*)\)\s*\{$`)

type mode int

const (
	modeCode mode = iota
	modeLineComment
	modeBlockComment
	modeDirective
)

// Scanner walks shader source one byte at a time looking for function definitions.
//
// Thread Safety: a Scanner is NOT safe for concurrent use.
type Scanner struct {
	source string

	buf          []byte // current top-level statement or wanted function
	depth        int    // brace depth
	wanted       bool   // the block being scanned is the requested function
	mode         mode
	lineStart    bool // only whitespace seen since the last newline
	slashAt      int  // index of the last '/' seen in code
	commentStart int  // index of the '*' that opened the current block comment
	defined      []string
}

// NewScanner creates a scanner over source
func NewScanner(source string) *Scanner {
	return &Scanner{source: source}
}

// Extract returns the text of the function called name in source, including
// its prototype and body, followed by a newline. found is false when no such
// function exists; err is only set for malformed input.
func Extract(source, name string) (text string, found bool, err error) {
	return NewScanner(source).Find(name)
}

// ExtractAll extracts every named function present in source. Names that are
// not defined are absent from the result.
func ExtractAll(source string, names ...string) (map[string]string, error) {
	s := NewScanner(source)
	result := make(map[string]string, len(names))
	for _, name := range names {
		text, found, err := s.Find(name)
		if err != nil {
			return nil, err
		}
		if found {
			result[name] = text
		}
	}
	return result, nil
}

// Find scans from the beginning of the source for the function called name.
func (s *Scanner) Find(name string) (string, bool, error) {
	s.reset()

	src := s.source
	for i := 0; i < len(src); i++ {
		c := src[i]

		switch s.mode {
		case modeLineComment:
			if c == '\n' {
				s.mode = modeCode
				s.newline()
			}
			continue

		case modeBlockComment:
			if c == '/' && src[i-1] == '*' && i-1 > s.commentStart {
				s.mode = modeCode
				s.write(' ')
			}
			continue

		case modeDirective:
			if c == '\n' && !continued(src, i) {
				s.mode = modeCode
				s.newline()
			}
			continue
		}

		switch {
		case c == '/' && s.slashAt == i-1:
			s.unwrite()
			s.mode = modeLineComment

		case c == '*' && s.slashAt == i-1:
			s.unwrite()
			s.mode = modeBlockComment
			s.commentStart = i

		case c == '#' && s.lineStart:
			s.mode = modeDirective

		case c == '\n':
			s.newline()

		case c == '{':
			s.lineStart = false
			if s.depth == 0 {
				s.write(c)
				fn, ok := prototypeName(s.buf)
				if ok {
					s.defined = append(s.defined, fn)
				}
				s.wanted = ok && fn == name
				if s.wanted {
					s.buf = []byte(strings.TrimLeft(string(s.buf), " \t\r\n"))
				} else {
					s.buf = s.buf[:0]
				}
			} else {
				s.write(c)
			}
			s.depth++

		case c == '}':
			s.lineStart = false
			s.depth--
			if s.depth < 0 {
				return "", false, perrors.NewMalformedSource(i)
			}
			s.write(c)
			if s.depth == 0 {
				if s.wanted {
					s.buf = append(s.buf, '\n')
					return string(s.buf), true, nil
				}
				s.buf = s.buf[:0]
			}

		case c == ';' && s.depth == 0:
			s.lineStart = false
			s.buf = s.buf[:0]

		default:
			if c != ' ' && c != '\t' && c != '\r' {
				s.lineStart = false
			}
			if c == '/' {
				s.slashAt = i
			}
			s.write(c)
		}
	}

	return "", false, nil
}

// Functions returns the names of every top-level function definition in source order.
func (s *Scanner) Functions() ([]string, error) {
	// no function is named "", so the scan runs to the end
	if _, _, err := s.Find(""); err != nil {
		return nil, err
	}
	return append([]string(nil), s.defined...), nil
}

func (s *Scanner) reset() {
	s.buf = s.buf[:0]
	s.defined = s.defined[:0]
	s.depth = 0
	s.wanted = false
	s.mode = modeCode
	s.lineStart = true
	s.slashAt = -2
	s.commentStart = -1
}

// collecting reports whether code at the current position belongs in the buffer:
// either a top-level statement still being read or the body of the wanted function.
func (s *Scanner) collecting() bool {
	return s.depth == 0 || s.wanted
}

func (s *Scanner) write(c byte) {
	if s.collecting() {
		s.buf = append(s.buf, c)
	}
}

// unwrite drops the '/' that turned out to open a comment.
func (s *Scanner) unwrite() {
	if s.collecting() && len(s.buf) > 0 {
		s.buf = s.buf[:len(s.buf)-1]
	}
	s.slashAt = -2
}

func (s *Scanner) newline() {
	s.write('\n')
	s.lineStart = true
}

// continued reports whether the newline at i is escaped by a trailing backslash.
func continued(src string, i int) bool {
	j := i - 1
	if j >= 0 && src[j] == '\r' {
		j--
	}
	return j >= 0 && src[j] == '\\'
}

func prototypeName(buf []byte) (string, bool) {
	m := prototype.FindStringSubmatch(strings.TrimSpace(string(buf)))
	if m == nil {
		return "", false
	}
	return m[1], true
}
