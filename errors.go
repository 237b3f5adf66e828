package pcre

import (
	"errors"
	"fmt"

	"github.com/coregx/pcre/engine"
)

var (
	// ErrSharedHandle is returned by Study and SetExtraOptions when the
	// compiled pattern has more than one owner. Study data is shared by
	// every owner and is never modified while aliased.
	ErrSharedHandle = errors.New("pcre: compiled pattern is shared")

	// ErrInvalidConfig indicates invalid configuration was provided.
	ErrInvalidConfig = errors.New("pcre: invalid configuration")

	// ErrClosed is wrapped by the Fault raised when a closed Regex or
	// MatchIterator is used.
	ErrClosed = errors.New("pcre: use of closed handle")

	// ErrMalformedNameTable is wrapped by the Fault raised when the engine
	// returns a name table that cannot be decoded.
	ErrMalformedNameTable = errors.New("pcre: malformed name table")
)

// CompilationError reports a pattern that could not be compiled.
type CompilationError struct {
	Pattern string
	Message string
	// Offset is the byte offset in Pattern where the problem was detected.
	Offset int
	Err    error
}

// Error implements the error interface
func (e *CompilationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("pcre: compilation of %q failed at offset %d", e.Pattern, e.Offset)
	}
	return fmt.Sprintf("pcre: compilation of %q failed at offset %d: %s", e.Pattern, e.Offset, e.Message)
}

// Unwrap returns the underlying error
func (e *CompilationError) Unwrap() error {
	return e.Err
}

// StudyError reports an engine failure while studying a pattern.
type StudyError struct {
	Pattern string
	Err     error
}

// Error implements the error interface
func (e *StudyError) Error() string {
	return fmt.Sprintf("pcre: study of %q failed: %v", e.Pattern, e.Err)
}

// Unwrap returns the underlying error
func (e *StudyError) Unwrap() error {
	return e.Err
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("pcre: invalid config %s: %s", e.Field, e.Message)
}

// Unwrap returns ErrInvalidConfig
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// Fault is the panic value for contract violations: engine results other
// than a match, no match or a partial match, use after Close, and malformed
// engine metadata. Faults are never returned as errors.
type Fault struct {
	// Op is the operation that failed.
	Op string
	// Code is the engine result code, one of the engine.Err* values.
	Code int
	Err  error
}

// Error implements the error interface
func (e *Fault) Error() string {
	msg := fmt.Sprintf("pcre: %s: %s (%d)", e.Op, engine.ResultString(e.Code), e.Code)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *Fault) Unwrap() error {
	return e.Err
}

func fault(op string, code int, err error) {
	panic(&Fault{Op: op, Code: code, Err: err})
}
