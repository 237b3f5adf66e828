package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateEngine is returned by Register for an already registered name.
	ErrDuplicateEngine = errors.New("engine: already registered")

	// ErrNoEngine indicates that no engine is registered.
	ErrNoEngine = errors.New("engine: none registered")

	// ErrWrongCode indicates a Code or Extra produced by a different engine.
	ErrWrongCode = errors.New("engine: foreign code or study data")
)

// CompileError reports a pattern the engine rejected.
type CompileError struct {
	Message string
	Offset  int
}

// Error implements the error interface
func (e *CompileError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("compilation failed at offset %d", e.Offset)
	}
	return fmt.Sprintf("compilation failed at offset %d: %s", e.Offset, e.Message)
}

// StudyError reports a failure while studying a compiled pattern.
type StudyError struct {
	Message string
}

// Error implements the error interface
func (e *StudyError) Error() string {
	return "study failed: " + e.Message
}

// InfoError reports a metadata query the engine could not answer.
type InfoError struct {
	What Info
	RC   int
}

// Error implements the error interface
func (e *InfoError) Error() string {
	return fmt.Sprintf("info %s failed: %s (%d)", e.What, ResultString(e.RC), e.RC)
}
