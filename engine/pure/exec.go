package pure

import (
	"unicode/utf8"
	"unsafe"

	"github.com/coregx/pcre/engine"
	"github.com/coregx/pcre/internal/conv"
)

// Exec options the pure engine understands. NoStartOptimise and NewlineLF do
// not change its results and are accepted as no-ops.
const supportedExec = engine.Anchored | engine.NotBol | engine.NotEmpty |
	engine.NotEmptyAtStart | engine.NewlineLF | engine.NoStartOptimise

func (e *Engine) exec(c *code, st *study, subject string, start int, options uint32, ovector []int32) engine.ExecResult {
	switch {
	case len(ovector)%3 != 0:
		return engine.ExecResult{RC: engine.ErrBadCount}
	case options&^supportedExec != 0:
		return engine.ExecResult{RC: engine.ErrBadOption}
	case start < 0 || start > len(subject):
		return engine.ExecResult{RC: engine.ErrBadOffset}
	case !utf8.ValidString(subject):
		return engine.ExecResult{RC: engine.ErrBadUTF8}
	case start < len(subject) && !utf8.RuneStart(subject[start]):
		return engine.ExecResult{RC: engine.ErrBadUTF8Offset}
	}

	if st != nil && st.prefilter != nil && !st.prefilter.IsMatch(stringBytes(subject[start:])) {
		return engine.ExecResult{RC: engine.ErrNoMatch}
	}

	anchored := c.anchored || options&engine.Anchored != 0
	notBol := options&engine.NotBol != 0

	loc, rc := c.search(subject, start, anchored, notBol)
	// regexp/syntax has no way to reject an empty alternative and backtrack
	// into a longer one, so empty matches that are not allowed are skipped by
	// searching again one character further on.
	for rc == 0 && loc[0] == loc[1] {
		rejected := options&engine.NotEmpty != 0 ||
			(options&engine.NotEmptyAtStart != 0 && loc[0] == start)
		if !rejected {
			break
		}
		if anchored || loc[0] >= len(subject) {
			return engine.ExecResult{RC: engine.ErrNoMatch}
		}
		_, size := utf8.DecodeRuneInString(subject[loc[0]:])
		loc, rc = c.search(subject, loc[0]+size, false, notBol)
	}
	if rc != 0 {
		return engine.ExecResult{RC: rc}
	}

	res := engine.ExecResult{RC: c.fill(loc, ovector)}
	if st != nil && st.flags&engine.ExtraMark != 0 {
		res.Mark, res.HasMark = c.mark(loc)
	}
	return res
}

// search finds the leftmost match at or after start. The returned slice holds
// start/end pairs for every regexp/syntax capture index in subject
// coordinates. rc is 0 on a match and a negative result code otherwise.
//
// The finder sees the whole subject, so \b and (?m)^ look at the real
// character before start while \A and ^ cannot match there. NotBol at offset
// 0 gets a synthetic NUL as its preceding character.
func (c *code) search(subject string, start int, anchored, notBol bool) ([]int, int) {
	hay, at, base := subject, start, 0
	if notBol && start == 0 {
		hay, at, base = "\x00"+subject, 1, -1
	}

	m := c.finder.FindAt(stringBytes(hay), at)
	if m == nil || (anchored && m.Start() != at) {
		return nil, engine.ErrNoMatch
	}

	loc := []int{m.Start(), m.End()}
	if c.numCaps > 0 {
		groups, err := c.resolve(hay, m.Start())
		if err != nil {
			return nil, engine.ErrInternal
		}
		if groups != nil {
			loc = groups
		} else {
			for range c.numCaps {
				loc = append(loc, -1, -1)
			}
		}
	}
	if base != 0 {
		for i, v := range loc {
			if v >= 0 {
				loc[i] = v + base
			}
		}
	}
	return loc, 0
}

// resolve matches the pattern again at pos to read its capture groups, with
// one character of left context when pos is not the start of hay. It returns
// nil if the capture program finds no match there.
func (c *code) resolve(hay string, pos int) ([]int, error) {
	i, from := capHead, 0
	if pos > 0 {
		_, size := utf8.DecodeLastRuneInString(hay[:pos])
		i, from = capContext, pos-size
	}
	prog, err := c.captureProgram(i)
	if err != nil {
		return nil, err
	}
	sub := prog.FindStringSubmatchIndex(hay[from:])
	if sub == nil {
		return nil, nil
	}

	// Group 1 of the capture program is the pattern's group 0.
	loc := make([]int, 2*(c.numCaps+1))
	for i := range loc {
		v := sub[i+2]
		if v >= 0 {
			v += from
		}
		loc[i] = v
	}
	return loc, nil
}

// fill copies the visible groups of loc into ovector the way libpcre does and
// returns the match count.
func (c *code) fill(loc []int, ovector []int32) int {
	pairs := len(ovector) / 3
	highest := 0
	for n, capIndex := range c.groups {
		s, e := loc[2*capIndex], loc[2*capIndex+1]
		if n < pairs {
			ovector[2*n] = conv.IntToInt32(s)
			ovector[2*n+1] = conv.IntToInt32(e)
		}
		if s >= 0 {
			highest = n + 1
		}
	}
	if highest > pairs {
		return 0
	}
	return highest
}

// mark picks the tag of the last (*MARK) on the matching path: among the mark
// groups that participated, the one at the highest offset, with ties going to
// the later verb in the pattern.
func (c *code) mark(loc []int) (string, bool) {
	best := -1
	pos := -1
	for i, m := range c.marks {
		at := loc[2*m.cap]
		if at >= 0 && at >= pos {
			best, pos = i, at
		}
	}
	if best < 0 {
		return "", false
	}
	return c.marks[best].name, true
}

// stringBytes views s as a byte slice without copying. The slice must not be
// modified.
func stringBytes(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
