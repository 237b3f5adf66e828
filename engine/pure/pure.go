// Package pure implements engine.Engine in Go on top of coregex.
//
// Patterns are parsed with regexp/syntax, so the accepted syntax is Go's
// Perl-like dialect plus the (*MARK:NAME) and (*:NAME) verbs, which are
// rewritten into hidden empty groups. The coregex meta engine locates each
// match; when the pattern has groups, they are read by matching again with
// regexp anchored at the match start. Both are linear in the subject; there is
// no backtracking, so match limits are accepted and ignored.
//
// Differences from libpcre worth knowing:
//   - $ without Multiline matches only at the very end of the subject, as if
//     DollarEndOnly were always set.
//   - An empty match rejected by NotEmpty or NotEmptyAtStart is skipped by
//     searching again one character later, instead of backtracking into a
//     longer alternative at the same position.
//   - NotBol also keeps \A from matching at offset 0.
//   - Compile and exec options without a regexp/syntax equivalent are
//     rejected (compile error and ErrBadOption respectively).
//
// The package registers itself under the name "coregex".
package pure

import (
	"runtime/debug"

	"github.com/coregx/pcre/engine"
	"github.com/coregx/pcre/internal/conv"
)

// Name is the registry name of the pure engine.
const Name = "coregex"

const coregexModule = "github.com/coregx/coregex"

func init() {
	if err := engine.Register(New()); err != nil {
		panic(err.Error())
	}
}

// Engine is the pure Go engine. The zero value is ready to use.
type Engine struct{}

// New returns a pure Go engine.
func New() *Engine {
	return &Engine{}
}

// Name implements engine.Engine.
func (e *Engine) Name() string {
	return Name
}

// Version reports the coregex module version linked into the binary.
func (e *Engine) Version() string {
	version := "(devel)"
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range info.Deps {
			if dep.Path == coregexModule {
				version = dep.Version
				if dep.Replace != nil && dep.Replace.Version != "" {
					version = dep.Replace.Version
				}
				break
			}
		}
	}
	return "coregex " + version
}

// Compile implements engine.Engine.
func (e *Engine) Compile(pattern string, options uint32) (engine.Code, error) {
	c, err := compilePattern(pattern, options)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Exec implements engine.Engine.
func (e *Engine) Exec(cd engine.Code, extra engine.Extra, subject string, start int, options uint32, ovector []int32) engine.ExecResult {
	c, ok := liveCode(cd)
	if !ok {
		return engine.ExecResult{RC: engine.ErrBadMagic}
	}
	st, ok := asStudy(extra)
	if !ok {
		return engine.ExecResult{RC: engine.ErrBadMagic}
	}
	return e.exec(c, st, subject, start, options, ovector)
}

// Study implements engine.Engine.
func (e *Engine) Study(cd engine.Code, options uint32) (engine.Extra, error) {
	c, ok := liveCode(cd)
	if !ok {
		return nil, &engine.StudyError{Message: engine.ErrWrongCode.Error()}
	}
	st, err := e.study(c, options)
	if err != nil || st == nil {
		return nil, err
	}
	return st, nil
}

// Free implements engine.Engine.
func (e *Engine) Free(cd engine.Code) {
	c, ok := cd.(*code)
	if !ok || c == nil {
		return
	}
	c.release()
}

// FreeStudy implements engine.Engine.
func (e *Engine) FreeStudy(extra engine.Extra) {
	if st, ok := extra.(*study); ok && st != nil {
		st.freed = true
		st.prefilter = nil
		st.literals = nil
	}
}

// InfoInt implements engine.Engine.
func (e *Engine) InfoInt(cd engine.Code, extra engine.Extra, what engine.Info) (int, error) {
	c, ok := liveCode(cd)
	if !ok {
		return 0, &engine.InfoError{What: what, RC: engine.ErrBadMagic}
	}
	switch what {
	case engine.InfoCaptureCount:
		return len(c.groups) - 1, nil
	case engine.InfoNameCount:
		return len(c.names), nil
	case engine.InfoNameEntrySize:
		return c.nameEntrySize(), nil
	}
	return 0, &engine.InfoError{What: what, RC: engine.ErrBadOption}
}

// InfoBytes implements engine.Engine.
func (e *Engine) InfoBytes(cd engine.Code, extra engine.Extra, what engine.Info) ([]byte, error) {
	c, ok := liveCode(cd)
	if !ok {
		return nil, &engine.InfoError{What: what, RC: engine.ErrBadMagic}
	}
	if what != engine.InfoNameTable {
		return nil, &engine.InfoError{What: what, RC: engine.ErrBadOption}
	}
	return c.nameTable(), nil
}

func liveCode(cd engine.Code) (*code, bool) {
	c, ok := cd.(*code)
	if !ok || c == nil || c.freed.Load() {
		return nil, false
	}
	return c, true
}

func asStudy(extra engine.Extra) (*study, bool) {
	if extra == nil {
		return nil, true
	}
	st, ok := extra.(*study)
	if !ok || st == nil || st.freed {
		return nil, false
	}
	return st, true
}

// nameEntrySize is the libpcre record width: two bytes of group number, the
// longest name and its terminating NUL.
func (c *code) nameEntrySize() int {
	if len(c.names) == 0 {
		return 0
	}
	longest := 0
	for _, n := range c.names {
		longest = max(longest, len(n.name))
	}
	return longest + 3
}

// nameTable encodes the name table in libpcre layout.
func (c *code) nameTable() []byte {
	size := c.nameEntrySize()
	table := make([]byte, size*len(c.names))
	for i, n := range c.names {
		rec := table[i*size : (i+1)*size]
		group := conv.IntToUint16(n.group)
		rec[0] = byte(group >> 8)
		rec[1] = byte(group)
		copy(rec[2:], n.name)
	}
	return table
}
