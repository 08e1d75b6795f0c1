// Package strataerrors provides structured error handling for strata with rich
// context, stack traces, and error categorization. Every failure surfaced by
// the loader and the binder is an *Error, so callers deal with a single error
// kind and branch on its Type.
//
// # Overview
//
// The strataerrors package extends Go's standard error handling with:
//   - Error categorization through ErrorType
//   - Structured context with key-value details
//   - Automatic stack trace capture
//   - Error wrapping with cause preservation
//   - Sentinel values usable with errors.Is
//
// # Basic Usage
//
//	// Create a new error
//	err := strataerrors.New(strataerrors.ErrorTypeConfigNotFound, "default configuration file not found")
//
//	// Add context
//	err = err.WithDetail("document", "application.yaml")
//
//	// Wrap existing errors
//	if err := yaml.Unmarshal(data, &node); err != nil {
//	    return strataerrors.Wrap(err, strataerrors.ErrorTypeDocumentParse, "error reading YAML document").
//	        WithDetail("document", name)
//	}
//
//	// Match by category
//	if errors.Is(err, strataerrors.ErrConfigNotFound) {
//	    // fall back to built-in defaults
//	}
//
// # Thread Safety
//
// Error instances are not thread-safe for modification. Create new
// instances or use WithDetail before sharing across goroutines.
package strataerrors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorType represents the category of error, used for error handling
// strategies, metrics labels and log fields.
type ErrorType string

const (
	// ErrorTypeConfigNotFound represents a missing or empty base document
	ErrorTypeConfigNotFound ErrorType = "config_not_found"
	// ErrorTypeDocumentParse represents a structured-data decoding failure
	ErrorTypeDocumentParse ErrorType = "document_parse"
	// ErrorTypeTypeCoercion represents a value that cannot be converted to a field kind
	ErrorTypeTypeCoercion ErrorType = "type_coercion"
	// ErrorTypeBindConstruction represents a bind target that cannot be instantiated
	ErrorTypeBindConstruction ErrorType = "bind_construction"
	// ErrorTypeSource represents an I/O failure while reading a document
	ErrorTypeSource ErrorType = "source"
	// ErrorTypeInternal represents internal errors
	ErrorTypeInternal ErrorType = "internal"
)

// Sentinels for errors.Is. A sentinel matches any *Error of the same Type.
var (
	ErrConfigNotFound   = &Error{Type: ErrorTypeConfigNotFound}
	ErrDocumentParse    = &Error{Type: ErrorTypeDocumentParse}
	ErrTypeCoercion     = &Error{Type: ErrorTypeTypeCoercion}
	ErrBindConstruction = &Error{Type: ErrorTypeBindConstruction}
	ErrSource           = &Error{Type: ErrorTypeSource}
)

// Error represents a structured error with context, providing rich debugging
// information and enabling category-based error handling.
//
// Fields:
//   - Type: Categorizes the error
//   - Message: Human-readable error description
//   - Cause: The underlying error that caused this error
//   - Details: Key-value pairs providing additional context
//   - Stack: Call stack at the point of error creation
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack, capturing
// the function name, file path, and line number for debugging.
type StackFrame struct {
	Function string // Fully qualified function name
	File     string // Source file path
	Line     int    // Line number in source file
}

// Error implements the error interface, returning a formatted error message
// that includes the error type, message, and cause (if present).
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error, enabling compatibility with errors.Is
// and errors.As for error chain inspection.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a category sentinel with the same Type.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Cause == nil && t.Type == e.Type
}

// WithDetail adds a key-value detail to the error. This method can be chained
// for adding multiple details.
//
// Example:
//
//	err := strataerrors.New(strataerrors.ErrorTypeTypeCoercion, "cannot convert value").
//	    WithDetail("field", "app.timeout").
//	    WithDetail("value", "abc").
//	    WithDetail("kind", "int")
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Detail returns a detail value previously attached with WithDetail.
func (e *Error) Detail(key string) (interface{}, bool) {
	v, ok := e.Details[key]
	return v, ok
}

// New creates a new error with the given type and message, automatically
// capturing the call stack at the point of creation.
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf is New with a formatted message.
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context, preserving the original
// error as the cause. If the error is already a structured Error, its stack
// trace is preserved. Returns nil if the input error is nil.
//
// Example:
//
//	data, err := src.Read(ctx, name)
//	if err != nil {
//	    return strataerrors.Wrap(err, strataerrors.ErrorTypeSource, "failed to read document").
//	        WithDetail("document", name)
//	}
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	// If already our error type, preserve the stack
	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// IsType checks if the error is of the given type. Only the outermost
// structured error in the chain is inspected.
//
// Example:
//
//	if strataerrors.IsType(err, strataerrors.ErrorTypeConfigNotFound) {
//	    return defaults(), nil
//	}
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// TypeOf returns the Type of the outermost structured error in the chain,
// or ErrorTypeInternal when err is not a structured error.
func TypeOf(err error) ErrorType {
	var e *Error
	if !errors.As(err, &e) {
		return ErrorTypeInternal
	}
	return e.Type
}

// captureStack captures the current call stack up to maxFrames deep,
// skipping the specified number of frames from the top.
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
