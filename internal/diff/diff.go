// Package diff reports how patching and injection changed a shader.
package diff

import (
	"bytes"
	"fmt"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
)

// Result represents the difference between original and processed source
type Result struct {
	Original  string
	Processed string
	Changed   bool

	a, b    []string
	opcodes []difflib.OpCode
}

// Diff compares original and processed source line by line
func Diff(original, processed string) *Result {
	r := &Result{
		Original:  original,
		Processed: processed,
		Changed:   original != processed,
	}
	if r.Changed {
		r.a = difflib.SplitLines(original)
		r.b = difflib.SplitLines(processed)
		r.opcodes = difflib.NewMatcher(r.a, r.b).GetOpCodes()
	}
	return r
}

// String returns a human-readable diff with color highlighting
func (r *Result) String() string {
	if !r.Changed {
		return color.GreenString("No changes")
	}

	var buf bytes.Buffer

	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)

	for _, op := range r.opcodes {
		if op.Tag == 'e' {
			continue
		}

		cyan.Fprintf(&buf, "@@ Line %d @@\n", op.I1+1)
		for _, line := range r.a[op.I1:op.I2] {
			red.Fprintf(&buf, "- %s\n", trimNewline(line))
		}
		for _, line := range r.b[op.J1:op.J2] {
			green.Fprintf(&buf, "+ %s\n", trimNewline(line))
		}
	}

	return buf.String()
}

// UnifiedDiff returns a unified diff with three lines of context
func (r *Result) UnifiedDiff(filename string) string {
	if !r.Changed {
		return ""
	}

	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        r.a,
		B:        r.b,
		FromFile: "a/" + filename,
		ToFile:   "b/" + filename,
		Context:  3,
	})
	if err != nil {
		return ""
	}
	return text
}

// Stats returns statistics about the changes
func (r *Result) Stats() string {
	if !r.Changed {
		return "No changes"
	}

	added, removed, changed := r.Counts()
	return fmt.Sprintf("%d lines changed, %d added, %d removed", changed, added, removed)
}

// Counts returns the number of added, removed and changed lines. A replaced
// block counts its overlapping lines as changed and the rest as added or removed.
func (r *Result) Counts() (added, removed, changed int) {
	for _, op := range r.opcodes {
		n, m := op.I2-op.I1, op.J2-op.J1
		switch op.Tag {
		case 'i':
			added += m
		case 'd':
			removed += n
		case 'r':
			common := min(n, m)
			changed += common
			added += m - common
			removed += n - common
		}
	}
	return added, removed, changed
}

func trimNewline(line string) string {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		return line[:n-1]
	}
	return line
}
