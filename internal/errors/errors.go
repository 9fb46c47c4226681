// Package errors provides structured error handling for the shader patch engine.
// It defines error codes, categories, and formatting for both human-readable
// terminal output and machine-parseable JSON.
package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a unique error code in the engine.
//
// ErrorCode implements error so that the code constants double as sentinels:
// errors.Is(err, ErrPatchNotFound) is true for any *EngineError carrying that code.
type ErrorCode string

// Error implements the error interface
func (c ErrorCode) Error() string {
	return string(c)
}

// ErrorCategory represents the category of engine error
type ErrorCategory string

const (
	// CategoryPatch represents patch application errors (PAT001-099)
	CategoryPatch ErrorCategory = "patch"
	// CategoryExtract represents function extraction errors (EXT001-099)
	CategoryExtract ErrorCategory = "extract"
	// CategoryInject represents directive injection errors (INJ001-099)
	CategoryInject ErrorCategory = "inject"
	// CategoryAsset represents asset store errors (AST001-099)
	CategoryAsset ErrorCategory = "asset"
	// CategoryConfig represents configuration errors (CFG001-099)
	CategoryConfig ErrorCategory = "config"
	// CategoryIO represents shader file read and write errors (IO001-099)
	CategoryIO ErrorCategory = "io"
)

// EngineError represents a structured engine error. Every fatal condition the
// engine raises is an *EngineError; callers branch on Code (or errors.Is).
type EngineError struct {
	// Code is the unique error code (e.g., "PAT001")
	Code ErrorCode `json:"code"`
	// Type is a machine-readable error type identifier
	Type string `json:"type"`
	// Category is the error category
	Category ErrorCategory `json:"category"`
	// Message is the primary error message
	Message string `json:"message"`
	// File is the shader file being processed (optional)
	File string `json:"file,omitempty"`
	// Pattern is the pattern or token sequence involved (optional)
	Pattern string `json:"pattern,omitempty"`
	// Key is the directive key or asset name involved (optional)
	Key string `json:"key,omitempty"`
	// Suggestion provides a hint for fixing the error (optional)
	Suggestion string `json:"suggestion,omitempty"`
	// Err is the underlying cause (optional)
	Err error `json:"-"`
}

// Error implements the error interface
func (e *EngineError) Error() string {
	return FormatCompact(e)
}

// Unwrap returns the underlying cause
func (e *EngineError) Unwrap() error {
	return e.Err
}

// Is reports whether target is this error's code or an *EngineError with the same code
func (e *EngineError) Is(target error) bool {
	switch t := target.(type) {
	case ErrorCode:
		return e.Code == t
	case *EngineError:
		return e.Code == t.Code
	}
	return false
}

// Format returns a human-readable error message for terminal output
func (e *EngineError) Format() string {
	return FormatError(e)
}

// ToJSON returns the error as a JSON string
func (e *EngineError) ToJSON() (string, error) {
	bytes, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// WithFile sets the shader file name for the error
func (e *EngineError) WithFile(file string) *EngineError {
	e.File = file
	return e
}

// WithSuggestion sets a suggestion for fixing the error
func (e *EngineError) WithSuggestion(suggestion string) *EngineError {
	e.Suggestion = suggestion
	return e
}

// ErrorList is a collection of engine errors, one per failed file
type ErrorList []*EngineError

// Error implements the error interface
func (el ErrorList) Error() string {
	if len(el) == 0 {
		return "no errors"
	}
	return FormatErrorList(el)
}

// Unwrap exposes the individual errors to errors.Is and errors.As
func (el ErrorList) Unwrap() []error {
	errs := make([]error, len(el))
	for i, e := range el {
		errs[i] = e
	}
	return errs
}

// ToJSON returns all errors as a JSON array
func (el ErrorList) ToJSON() (string, error) {
	bytes, err := json.MarshalIndent(el, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// ErrOrNil returns nil for an empty list so callers can return it directly
func (el ErrorList) ErrOrNil() error {
	if len(el) == 0 {
		return nil
	}
	return el
}

// newError creates a new EngineError with the given parameters
func newError(code ErrorCode, typ string, category ErrorCategory, message string) *EngineError {
	return &EngineError{
		Code:     code,
		Type:     typ,
		Category: category,
		Message:  message,
	}
}

// Wrap converts an arbitrary error into an *EngineError. Engine errors pass
// through untouched; anything else becomes a generic error in the given category.
func Wrap(err error, category ErrorCategory, file string) *EngineError {
	if err == nil {
		return nil
	}
	if ee, ok := err.(*EngineError); ok {
		if ee.File == "" {
			ee.File = file
		}
		return ee
	}
	return &EngineError{
		Code:     ErrorCode(fmt.Sprintf("%s000", categoryPrefix(category))),
		Type:     "error",
		Category: category,
		Message:  err.Error(),
		File:     file,
		Err:      err,
	}
}

func categoryPrefix(category ErrorCategory) string {
	switch category {
	case CategoryPatch:
		return "PAT"
	case CategoryExtract:
		return "EXT"
	case CategoryInject:
		return "INJ"
	case CategoryAsset:
		return "AST"
	case CategoryConfig:
		return "CFG"
	case CategoryIO:
		return "IO"
	default:
		return "ERR"
	}
}
