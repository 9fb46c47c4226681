package errors

import "fmt"

// Error codes
const (
	// ErrPatchNotFound indicates a non-optional patch matched nothing
	ErrPatchNotFound ErrorCode = "PAT001"
	// ErrPatchAmbiguous indicates a single-match patch matched more than once
	ErrPatchAmbiguous ErrorCode = "PAT002"
	// ErrInvalidPatch indicates a patch could not be constructed
	ErrInvalidPatch ErrorCode = "PAT003"
	// ErrMalformedSource indicates unbalanced braces while scanning source
	ErrMalformedSource ErrorCode = "EXT001"
	// ErrMissingGeneratedKey indicates a #generated directive names an unset key
	ErrMissingGeneratedKey ErrorCode = "INJ001"
	// ErrMalformedDirective indicates a directive line with unexpected trailing text
	ErrMalformedDirective ErrorCode = "INJ002"
	// ErrAssetMissing indicates an asset could not be loaded
	ErrAssetMissing ErrorCode = "AST001"
	// ErrInvalidConfig indicates a configuration value failed validation
	ErrInvalidConfig ErrorCode = "CFG001"
	// ErrSourceUnreadable indicates a shader source file could not be read
	ErrSourceUnreadable ErrorCode = "IO001"
)

// NewPatchNotFound creates a PAT001 error
func NewPatchNotFound(file, pattern string) *EngineError {
	e := newError(
		ErrPatchNotFound,
		"patch_not_found",
		CategoryPatch,
		fmt.Sprintf("Pattern %q not found", pattern),
	)
	e.File = file
	e.Pattern = pattern
	e.Suggestion = "Mark the patch optional if the target may be absent"
	return e
}

// NewPatchAmbiguous creates a PAT002 error
func NewPatchAmbiguous(file, pattern string, matches int) *EngineError {
	e := newError(
		ErrPatchAmbiguous,
		"patch_ambiguous",
		CategoryPatch,
		fmt.Sprintf("Pattern %q matched %d times, expected exactly one", pattern, matches),
	)
	e.File = file
	e.Pattern = pattern
	e.Suggestion = "Set multiple to replace every occurrence, or tighten the pattern"
	return e
}

// NewInvalidPatch creates a PAT003 error
func NewInvalidPatch(message string, cause error) *EngineError {
	e := newError(ErrInvalidPatch, "invalid_patch", CategoryPatch, message)
	e.Err = cause
	return e
}

// NewMalformedSource creates an EXT001 error
func NewMalformedSource(offset int) *EngineError {
	return newError(
		ErrMalformedSource,
		"malformed_source",
		CategoryExtract,
		fmt.Sprintf("Unbalanced '}' at offset %d", offset),
	)
}

// NewMissingGeneratedKey creates an INJ001 error
func NewMissingGeneratedKey(key string) *EngineError {
	e := newError(
		ErrMissingGeneratedKey,
		"missing_generated_key",
		CategoryInject,
		fmt.Sprintf("No generated value for key %q", key),
	)
	e.Key = key
	e.Suggestion = "The producer for this key did not run before the shader was loaded"
	return e
}

// NewMalformedDirective creates an INJ002 error
func NewMalformedDirective(line string) *EngineError {
	e := newError(
		ErrMalformedDirective,
		"malformed_directive",
		CategoryInject,
		fmt.Sprintf("Unexpected text after directive: %q", line),
	)
	e.Suggestion = "Only whitespace or a // comment may follow the directive argument"
	return e
}

// NewAssetMissing creates an AST001 error
func NewAssetMissing(name string, cause error) *EngineError {
	e := newError(
		ErrAssetMissing,
		"asset_missing",
		CategoryAsset,
		fmt.Sprintf("Cannot load asset %q", name),
	)
	e.Key = name
	e.Err = cause
	return e
}

// NewInvalidConfig creates a CFG001 error
func NewInvalidConfig(message string) *EngineError {
	return newError(ErrInvalidConfig, "invalid_config", CategoryConfig, message)
}

// NewSourceUnreadable creates an IO001 error
func NewSourceUnreadable(file string, cause error) *EngineError {
	e := newError(
		ErrSourceUnreadable,
		"source_unreadable",
		CategoryIO,
		"Cannot read shader source",
	)
	e.File = file
	e.Err = cause
	return e
}
