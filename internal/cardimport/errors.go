package cardimport

import (
	"strings"
)

// ErrorCode classifies terminal import failures. The remedy differs per
// code, so callers branch on it rather than on message text.
type ErrorCode string

const (
	// ErrCodeInvalidFormat means the payload could not be decoded as JSON at all.
	ErrCodeInvalidFormat ErrorCode = "invalid_format"
	// ErrCodeSchemaViolation means decoding succeeded but one or more
	// structural or semantic rules failed. Violations carries all of them.
	ErrCodeSchemaViolation ErrorCode = "schema_violation"
	// ErrCodeDuplicateSet means a set with the same name already exists.
	ErrCodeDuplicateSet ErrorCode = "duplicate_set"
	// ErrCodeFileError means the underlying file read or pick failed, or the
	// user cancelled it.
	ErrCodeFileError ErrorCode = "file_error"
	// ErrCodeUnknown is the catch-all for unexpected failures inside a stage.
	ErrCodeUnknown ErrorCode = "unknown_error"
)

// ImportError is the terminal error of an import attempt.
type ImportError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	// Violations is populated for ErrCodeSchemaViolation only.
	Violations []ValidationError `json:"details,omitempty"`
	// Cancelled marks a file error caused by explicit user cancellation,
	// which callers may treat as a soft failure (no error banner).
	Cancelled bool `json:"-"`
}

func (e *ImportError) Error() string {
	return string(e.Code) + ": " + e.Message
}

// Summary returns a single human-readable string: the message followed by
// one "field: message" line per violation.
func (e *ImportError) Summary() string {
	if len(e.Violations) == 0 {
		return e.Message
	}
	lines := make([]string, 0, len(e.Violations)+1)
	lines = append(lines, e.Message)
	for _, v := range e.Violations {
		lines = append(lines, v.Field+": "+v.Message)
	}
	return strings.Join(lines, "\n")
}
