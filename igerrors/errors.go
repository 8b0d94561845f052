// Package igerrors provides structured error types for igdiff.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between different categories
// of errors and implement appropriate recovery strategies.
//
// # Error Categories
//
//   - DocumentError: a referenced HTML document could not be loaded or parsed
//   - CardinalityError: a cardinality string does not parse as "min..max"
//   - RegionError: a configured merge region is absent from one document
//   - ConfigError: invalid configuration or input options
//
// # Recovery Policy
//
// CardinalityError is always recovered inside the differ: the change record
// falls back to the raw cardinality strings at info severity. RegionError is a
// recoverable warning: the affected region is skipped and the remaining regions
// are still merged. DocumentError aborts processing of a single artifact only,
// never the whole batch.
//
// # Usage with errors.Is
//
//	doc, err := htmldoc.Load("StructureDefinition-patient.html")
//	if errors.Is(err, igerrors.ErrDocument) {
//	    // skip this artifact, keep processing the rest
//	}
package igerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrDocument indicates a document could not be loaded or parsed.
	ErrDocument = errors.New("document error")

	// ErrCardinality indicates a cardinality string did not parse as "min..max".
	ErrCardinality = errors.New("malformed cardinality")

	// ErrRegion indicates a merge region was absent from one side.
	ErrRegion = errors.New("missing region")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// DocumentError represents a failure to load or parse an HTML document.
type DocumentError struct {
	// Path is the file path of the document
	Path string
	// Artifact is the artifact id being processed, if known
	Artifact string
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *DocumentError) Error() string {
	msg := "document error"
	if e.Artifact != "" {
		msg += " for artifact " + e.Artifact
	}
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *DocumentError) Is(target error) bool {
	return target == ErrDocument
}

// CardinalityError represents a cardinality string that does not have the
// "min..max" shape, or whose minimum is not an integer.
type CardinalityError struct {
	// Value is the raw cardinality string
	Value string
	// Cause is the underlying error, if any (e.g. a strconv failure)
	Cause error
}

// Error returns a human-readable error message.
func (e *CardinalityError) Error() string {
	msg := fmt.Sprintf("malformed cardinality %q", e.Value)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *CardinalityError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *CardinalityError) Is(target error) bool {
	return target == ErrCardinality
}

// RegionError represents a configured merge region that is present in one
// document but absent from the other. A region absent from both documents is
// not an error.
type RegionError struct {
	// ID is the region's element id
	ID string
	// MissingFrom names the side the region is absent from: "previous" or "current"
	MissingFrom string
}

// Error returns a human-readable error message.
func (e *RegionError) Error() string {
	msg := fmt.Sprintf("region %q missing", e.ID)
	if e.MissingFrom != "" {
		msg += " from " + e.MissingFrom + " document"
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *RegionError) Is(target error) bool {
	return target == ErrRegion
}

// ConfigError represents an invalid configuration value or option.
type ConfigError struct {
	// Option is the configuration key or option name
	Option string
	// Message describes what is wrong with the value
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
