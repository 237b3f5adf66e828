package pcre

import (
	"errors"
	"log/slog"
	"runtime"
	"strings"

	"github.com/coregx/pcre/engine"
	"github.com/coregx/pcre/internal/refcount"
)

// Regex is one owner of a compiled pattern.
//
// The compiled pattern is shared: Clone and Matches create further owners of
// the same native code and study data, and the code is freed when the last
// owner is closed. Study and SetExtraOptions modify the shared study data and
// only succeed while the Regex is the sole owner.
//
// A Regex is not safe for concurrent use, because each owner has its own mark
// slot. Give every goroutine its own Clone.
//
// Example:
//
//	re := pcre.MustCompile(`(?<year>\d{4})-(?<month>\d\d)`)
//	defer re.Close()
//	if m := re.Exec("released 2024-05"); m != nil {
//	    fmt.Println(m.Group(1)) // "2024"
//	}
type Regex struct {
	owner   *owner
	cleanup runtime.Cleanup

	mark    string
	hasMark bool
}

func newRegex(o *owner) *Regex {
	r := &Regex{owner: o}
	r.cleanup = runtime.AddCleanup(r, releaseOwner, o)
	return r
}

// Compile compiles a pattern with no options and the default configuration.
//
// Example:
//
//	re, err := pcre.Compile(`\d+`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer re.Close()
func Compile(pattern string) (*Regex, error) {
	return CompileWithConfig(pattern, CompileOptions{}, DefaultConfig())
}

// CompileWithOptions compiles a pattern with the given options and the
// default configuration.
func CompileWithOptions(pattern string, options CompileOptions) (*Regex, error) {
	return CompileWithConfig(pattern, options, DefaultConfig())
}

// MustCompile is like Compile but panics if the pattern cannot be compiled.
// It simplifies safe initialization of global variables holding compiled
// patterns.
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic("pcre: Compile(`" + pattern + "`): " + err.Error())
	}
	return re
}

// CompileWithConfig compiles a pattern with options and a custom
// configuration.
//
// Patterns are always compiled in UTF-8 mode in addition to options. A
// pattern containing a NUL byte is rejected with a *CompilationError at the
// offset of the byte; use \0 or \x00 to match NUL.
func CompileWithConfig(pattern string, options CompileOptions, config Config) (*Regex, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	eng, err := config.engine()
	if err != nil {
		return nil, err
	}
	log := config.logger()

	if i := strings.IndexByte(pattern, 0); i >= 0 {
		return nil, &CompilationError{Pattern: pattern, Message: "NUL byte in pattern", Offset: i}
	}

	code, err := eng.Compile(pattern, options.Bits()|engine.UTF8)
	if err != nil {
		cerr := &CompilationError{Pattern: pattern, Message: err.Error(), Err: err}
		var eerr *engine.CompileError
		if errors.As(err, &eerr) {
			cerr.Message = eerr.Message
			cerr.Offset = eerr.Offset
		}
		log.Debug("pcre: compile failed",
			slog.String("pattern", pattern),
			slog.Int("offset", cerr.Offset),
			slog.String("error", cerr.Message))
		return nil, cerr
	}

	count, err := eng.InfoInt(code, nil, engine.InfoCaptureCount)
	if err != nil {
		eng.Free(code)
		return nil, &CompilationError{Pattern: pattern, Message: err.Error(), Err: err}
	}

	h := &handle{
		eng:          eng,
		code:         code,
		pattern:      pattern,
		captureCount: count,
		config:       config,
		log:          log,
	}
	if config.hasLimits() {
		if _, err := h.study(0); err != nil {
			h.free()
			return nil, err
		}
	}

	log.Debug("pcre: compiled pattern",
		slog.String("pattern", pattern),
		slog.String("engine", eng.Name()),
		slog.String("options", options.String()),
		slog.Int("captures", count))
	return newRegex(newOwner(refcount.New(h, (*handle).free))), nil
}

// String returns the source pattern.
func (r *Regex) String() string {
	return r.owner.shared.Value().pattern
}

// Engine returns the name of the engine that compiled the pattern.
func (r *Regex) Engine() string {
	return r.owner.shared.Value().eng.Name()
}

// CaptureCount returns the number of capturing groups, not counting the
// whole match.
func (r *Regex) CaptureCount() int {
	return r.owner.handle("capture count").captureCount
}

// RefCount returns the number of live owners of the compiled pattern,
// including this one.
func (r *Regex) RefCount() int {
	return r.owner.shared.Count()
}

// Clone returns a new owner of the same compiled pattern. The clone has its
// own mark slot and must be closed separately.
func (r *Regex) Clone() *Regex {
	return newRegex(r.owner.acquire("clone"))
}

// Close releases this owner. The compiled pattern and its study data are
// freed when the last owner is released. Close is idempotent; a Regex that
// becomes unreachable without Close is released by the garbage collector.
func (r *Regex) Close() {
	r.cleanup.Stop()
	r.owner.release()
}

// Exec looks for a match in subject starting at offset 0.
// It returns nil if there is no match.
func (r *Regex) Exec(subject string) *Match {
	return r.ExecFromWithOptions(subject, 0, ExecOptions{})
}

// ExecFrom looks for a match in subject starting at byte offset start.
// Characters before start are visible to lookbehind, \b and ^ in multiline
// mode but are never part of the match.
func (r *Regex) ExecFrom(subject string, start int) *Match {
	return r.ExecFromWithOptions(subject, start, ExecOptions{})
}

// ExecFromWithOptions is ExecFrom with match-time options.
//
// start must not exceed len(subject). Engine failures such as an invalid
// start offset, invalid UTF-8 or an exceeded match limit panic with a *Fault.
// A partial match (ExecPartialSoft, ExecPartialHard) is returned as a Match
// whose Partial method reports true.
func (r *Regex) ExecFromWithOptions(subject string, start int, options ExecOptions) *Match {
	h := r.owner.handle("exec")
	ovector := make([]int32, (h.captureCount+1)*3)
	res := h.exec("exec", subject, start, options.Bits(), ovector)
	if h.markEnabled() {
		r.mark, r.hasMark = res.Mark, res.HasMark
	}
	runtime.KeepAlive(r)

	if res.RC == engine.ErrNoMatch {
		return nil
	}
	return newMatch(subject, ovector, res, h.captureCount)
}

// Matches returns an iterator over the successive matches in subject,
// starting at offset 0. The iterator is an owner of the compiled pattern
// until it is exhausted or closed.
func (r *Regex) Matches(subject string) *MatchIterator {
	return r.MatchesWithOptions(subject, ExecOptions{})
}

// MatchesWithOptions is Matches with match-time options applied to every
// attempt.
func (r *Regex) MatchesWithOptions(subject string, options ExecOptions) *MatchIterator {
	it := newMatchIterator(r.owner.acquire("matches"), subject, options)
	runtime.KeepAlive(r)
	return it
}

// Study analyses the pattern with no study options.
func (r *Regex) Study() (bool, error) {
	return r.StudyWithOptions(StudyOptions{})
}

// StudyWithOptions replaces the study data of the compiled pattern.
//
// It reports whether study data was produced. The error is ErrSharedHandle
// when the pattern has other owners, in which case nothing is changed, or a
// *StudyError when the engine rejects the request. Any previous study data,
// including extra options set on it, is discarded.
func (r *Regex) StudyWithOptions(options StudyOptions) (bool, error) {
	h := r.owner.handle("study")
	if !r.owner.shared.Exclusive() {
		h.log.Debug("pcre: study refused on shared pattern",
			slog.String("pattern", h.pattern),
			slog.Int("owners", r.owner.shared.Count()))
		return false, ErrSharedHandle
	}
	ok, err := h.study(options.Bits())
	runtime.KeepAlive(r)
	return ok, err
}

// SetExtraOptions adds options to the study data.
//
// It reports false without an error when there is no study data yet, and
// false with ErrSharedHandle when the pattern has other owners. Once
// ExtraMark is set, every Exec on this Regex records the mark of the match
// for Mark.
func (r *Regex) SetExtraOptions(options ExtraOptions) (bool, error) {
	h := r.owner.handle("set extra options")
	if !r.owner.shared.Exclusive() {
		return false, ErrSharedHandle
	}
	if h.extra == nil {
		return false, nil
	}
	h.extra.SetFlags(h.extra.Flags() | options.Bits())
	h.log.Debug("pcre: set extra options",
		slog.String("pattern", h.pattern),
		slog.String("options", options.String()))
	runtime.KeepAlive(r)
	return true, nil
}

// Mark returns the tag of the last (*MARK) passed by the most recent Exec on
// this Regex. It reports false until ExtraMark is enabled and an Exec has
// produced a tag.
func (r *Regex) Mark() (string, bool) {
	return r.mark, r.hasMark
}

// NameCount returns the number of entries in the name table.
func (r *Regex) NameCount() int {
	n := r.owner.handle("name count").infoInt("name count", engine.InfoNameCount)
	runtime.KeepAlive(r)
	return n
}

// NameTable returns the named groups of the pattern.
func (r *Regex) NameTable() *NameTable {
	const op = "name table"
	h := r.owner.handle(op)
	count := h.infoInt(op, engine.InfoNameCount)
	if count == 0 {
		return &NameTable{groups: map[string][]int{}}
	}
	size := h.infoInt(op, engine.InfoNameEntrySize)
	raw, err := h.eng.InfoBytes(h.code, h.extra, engine.InfoNameTable)
	if err != nil {
		fault(op, engine.ErrInternal, err)
	}
	table, err := decodeNameTable(raw, count, size)
	if err != nil {
		fault(op, engine.ErrInternal, err)
	}
	runtime.KeepAlive(r)
	return table
}
