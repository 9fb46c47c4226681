package errors

import (
	"fmt"
	"strings"
)

// FormatError returns a human-readable error message for terminal output
func FormatError(e *EngineError) string {
	var b strings.Builder

	file := e.File
	if file == "" {
		file = "<source>"
	}

	fmt.Fprintf(&b, "❌ %s in %s [%s]\n", categoryDisplayName(e.Category), file, e.Code)
	fmt.Fprintf(&b, "  %s\n", e.Message)

	if e.Err != nil {
		fmt.Fprintf(&b, "  Cause: %v\n", e.Err)
	}

	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\n💡 %s\n", e.Suggestion)
	}

	return b.String()
}

// FormatErrorList returns a formatted string of all errors
func FormatErrorList(errors ErrorList) string {
	if len(errors) == 0 {
		return "no errors"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Processing failed with %d error(s)\n\n", len(errors))

	for i, err := range errors {
		if i > 0 {
			b.WriteString("\n" + strings.Repeat("-", 80) + "\n\n")
		}
		b.WriteString(err.Format())
	}

	return b.String()
}

// FormatCompact returns a compact one-line error format
func FormatCompact(e *EngineError) string {
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	fmt.Fprintf(&b, " [%s]", e.Code)
	return b.String()
}

// categoryDisplayName returns a human-readable category name
func categoryDisplayName(category ErrorCategory) string {
	switch category {
	case CategoryPatch:
		return "Patch Error"
	case CategoryExtract:
		return "Extraction Error"
	case CategoryInject:
		return "Injection Error"
	case CategoryAsset:
		return "Asset Error"
	case CategoryConfig:
		return "Configuration Error"
	case CategoryIO:
		return "I/O Error"
	default:
		return "Engine Error"
	}
}
