// Package engine defines the capability a pattern-matching engine exposes to
// the pcre package.
//
// The interface is deliberately narrow and mirrors the libpcre C API: compile
// a pattern into opaque code, study it into optional auxiliary data, execute it
// into a caller-supplied offset vector, query metadata, and free what was
// allocated. Option bits, info fields and result codes are the libpcre ABI
// values, so an engine backed by the C library can pass them through untouched
// and a pure Go engine can interpret the same numbers.
//
// Engines register themselves from an init function:
//
//	func init() {
//	    engine.Register(New())
//	}
//
// and are selected with Lookup or Default.
package engine

import "fmt"

// Code is an engine-owned compiled pattern. Its dynamic type is private to
// the engine that produced it.
type Code any

// Extra is engine-owned study data attached to a Code.
//
// The flag word selects which optional fields the engine honours during Exec
// (ExtraMark, ExtraMatchLimit, ...). Extra is shared by every owner of the
// Code it belongs to, so it must only be mutated while a single owner exists.
type Extra interface {
	Flags() uint32
	SetFlags(flags uint32)
	SetMatchLimit(limit uint32)
	SetMatchLimitRecursion(limit uint32)
}

// Info selects a metadata field for InfoInt and InfoBytes.
type Info int

// Metadata fields (PCRE_INFO_*).
const (
	InfoCaptureCount  Info = 2
	InfoNameEntrySize Info = 7
	InfoNameCount     Info = 8
	InfoNameTable     Info = 9
)

// String returns the libpcre name of the field.
func (i Info) String() string {
	switch i {
	case InfoCaptureCount:
		return "CAPTURECOUNT"
	case InfoNameEntrySize:
		return "NAMEENTRYSIZE"
	case InfoNameCount:
		return "NAMECOUNT"
	case InfoNameTable:
		return "NAMETABLE"
	}
	return fmt.Sprintf("Info(%d)", int(i))
}

// ExecResult is the outcome of one Exec call.
//
// RC >= 0 is a match: RC is one more than the highest group that was set, or
// zero if the offset vector was too small to hold every group. RC < 0 is one of
// the Err* result codes. Mark carries the tag of the last (*MARK) passed on the
// matching path; it is only reported when the study data has ExtraMark set.
type ExecResult struct {
	RC      int
	Mark    string
	HasMark bool
}

// Matched reports whether the result is a full match.
func (r ExecResult) Matched() bool {
	return r.RC >= 0
}

// Engine is the native matching capability.
//
// Implementations need not be safe for concurrent mutation of the same Code,
// but Exec on one Code from several goroutines must be safe as long as its
// Extra is not being modified.
type Engine interface {
	// Name identifies the engine in the registry.
	Name() string

	// Version describes the engine build.
	Version() string

	// Compile compiles pattern with the given option bits. On failure the
	// error is a *CompileError carrying the offset of the problem.
	Compile(pattern string, options uint32) (Code, error)

	// Exec runs one match attempt of code against subject starting at byte
	// offset start. The first two thirds of ovector receive start/end pairs,
	// the last third is engine scratch space. extra may be nil.
	Exec(code Code, extra Extra, subject string, start int, options uint32, ovector []int32) ExecResult

	// Study analyses code. A nil Extra with a nil error means nothing was
	// learned; a non-nil error is a *StudyError.
	Study(code Code, options uint32) (Extra, error)

	// Free releases code. Study data must be freed first.
	Free(code Code)

	// FreeStudy releases study data. A nil extra is ignored.
	FreeStudy(extra Extra)

	// InfoInt returns an integer metadata field.
	InfoInt(code Code, extra Extra, what Info) (int, error)

	// InfoBytes returns a byte-valued metadata field (InfoNameTable).
	InfoBytes(code Code, extra Extra, what Info) ([]byte, error)
}
