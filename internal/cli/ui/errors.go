package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	perrors "github.com/shaderpatch/shaderpatch/internal/errors"
)

// ErrorLevel represents the severity of an error message
type ErrorLevel int

const (
	ErrorLevelError ErrorLevel = iota
	ErrorLevelWarning
	ErrorLevelInfo
)

// ErrorOptions configures the error message formatting
type ErrorOptions struct {
	Level        ErrorLevel
	Context      string
	Problem      string
	Consequence  string
	Suggestions  []string
	HelpCommands []string
	NoColor      bool
}

// FormatError creates a standardized error message with suggestions and help commands
//
// Example output:
//
//	❌ FUNCTION NOT FOUND: dropletNose
//	   No function 'dropletNose' in water.frag.
//
//	   Did you mean: dropletNoise?
//
//	   → List functions: shaderpatch extract water.frag --list
func FormatError(opts ErrorOptions) string {
	var b strings.Builder

	var headerColor, bodyColor *color.Color
	var symbol string

	switch opts.Level {
	case ErrorLevelWarning:
		headerColor = color.New(color.FgYellow, color.Bold)
		bodyColor = color.New(color.FgYellow)
		symbol = "⚠️"
	case ErrorLevelInfo:
		headerColor = color.New(color.FgCyan, color.Bold)
		bodyColor = color.New(color.FgCyan)
		symbol = "ℹ️"
	default:
		headerColor = color.New(color.FgRed, color.Bold)
		bodyColor = color.New(color.FgRed)
		symbol = "❌"
	}
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	if opts.NoColor {
		for _, c := range []*color.Color{headerColor, bodyColor, yellow, cyan} {
			c.DisableColor()
		}
	}

	if opts.Context != "" {
		headerColor.Fprintf(&b, "%s %s\n", symbol, strings.ToUpper(opts.Context))
		if opts.Problem != "" {
			bodyColor.Fprintf(&b, "   %s\n", opts.Problem)
		}
	} else {
		headerColor.Fprintf(&b, "%s %s\n", symbol, opts.Problem)
	}

	if opts.Consequence != "" {
		b.WriteString("\n")
		bodyColor.Fprintf(&b, "   %s\n", opts.Consequence)
	}

	if len(opts.Suggestions) > 0 {
		b.WriteString("\n")
		yellow.Fprintf(&b, "   Did you mean: %s?\n", strings.Join(opts.Suggestions, ", "))
	}

	if len(opts.HelpCommands) > 0 {
		b.WriteString("\n")
		for _, cmd := range opts.HelpCommands {
			cyan.Fprintf(&b, "   → %s\n", cmd)
		}
	}

	return b.String()
}

// WriteError writes a formatted error message to the writer
func WriteError(w io.Writer, opts ErrorOptions) {
	fmt.Fprint(w, FormatError(opts))
}

// FormatSuccess creates a success message
func FormatSuccess(message string, noColor bool) string {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	return green.Sprintf("✓ %s", message)
}

// WriteSuccess writes a success message to the writer
func WriteSuccess(w io.Writer, message string, noColor bool) {
	fmt.Fprintln(w, FormatSuccess(message, noColor))
}

// ShaderError renders an error raised while processing one shader. Engine
// errors get a context line and help commands chosen by their code.
func ShaderError(err error, noColor bool) string {
	var ee *perrors.EngineError
	if !errors.As(err, &ee) {
		return FormatError(ErrorOptions{
			Level:   ErrorLevelError,
			Context: "BUILD FAILED",
			Problem: err.Error(),
			NoColor: noColor,
		})
	}

	opts := ErrorOptions{
		Level:   ErrorLevelError,
		Context: fmt.Sprintf("%s [%s]", strings.ReplaceAll(ee.Type, "_", " "), ee.Code),
		Problem: ee.Message,
		NoColor: noColor,
	}
	if ee.File != "" {
		opts.Problem = ee.File + ": " + ee.Message
	}
	if ee.Err != nil {
		opts.Consequence = "Caused by: " + ee.Err.Error()
	}

	switch ee.Code {
	case perrors.ErrPatchNotFound, perrors.ErrPatchAmbiguous, perrors.ErrInvalidPatch:
		opts.HelpCommands = []string{"Inspect the patch list: shaderpatch list"}
	case perrors.ErrMissingGeneratedKey:
		opts.HelpCommands = []string{"See generated keys: shaderpatch list"}
	case perrors.ErrSourceUnreadable:
		opts.HelpCommands = []string{"Check shaders.dir in shaderpatch.yml"}
	case perrors.ErrAssetMissing:
		opts.HelpCommands = []string{"Check snippets.dir in shaderpatch.yml"}
	case perrors.ErrMalformedSource:
		opts.HelpCommands = []string{"Check for unbalanced braces in " + orDefault(ee.File, "the source")}
	case perrors.ErrInvalidConfig:
		opts.HelpCommands = []string{"View config: cat shaderpatch.yml"}
	}
	if ee.Suggestion != "" {
		opts.HelpCommands = append([]string{ee.Suggestion}, opts.HelpCommands...)
	}

	return FormatError(opts)
}

// FunctionNotFoundError reports a missing function with close matches
func FunctionNotFoundError(name, file string, suggestions []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:       ErrorLevelError,
		Context:     "FUNCTION NOT FOUND",
		Problem:     fmt.Sprintf("No function '%s' in %s.", name, file),
		Suggestions: suggestions,
		HelpCommands: []string{
			fmt.Sprintf("List functions: shaderpatch extract %s --list", file),
		},
		NoColor: noColor,
	})
}

// ConfigError creates a standardized configuration error
func ConfigError(message string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:   ErrorLevelError,
		Context: "CONFIGURATION ERROR",
		Problem: message,
		HelpCommands: []string{
			"Create a config: shaderpatch init",
			"Get help: shaderpatch --help",
		},
		NoColor: noColor,
	})
}

// Warning creates a standardized warning message
func Warning(message string, noColor bool) string {
	return FormatError(ErrorOptions{Level: ErrorLevelWarning, Problem: message, NoColor: noColor})
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
