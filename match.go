package pcre

import "github.com/coregx/pcre/engine"

// Match is one successful match. It keeps its own copy of the group offsets,
// so it stays valid after further matching on the same Regex or iterator.
//
// Offsets are byte offsets into the subject. Group numbers range from 0 (the
// whole match) to CaptureCount of the pattern; other numbers panic.
type Match struct {
	subject string
	offsets []int
	count   int
	mark    string
	hasMark bool
	partial bool
}

// newMatch copies the committed offsets of res out of ovector. Groups the
// engine did not report are unset.
func newMatch(subject string, ovector []int32, res engine.ExecResult, captureCount int) *Match {
	m := &Match{
		subject: subject,
		offsets: make([]int, 2*(captureCount+1)),
		count:   res.RC,
		mark:    res.Mark,
		hasMark: res.HasMark,
	}
	if res.RC == engine.ErrPartial {
		m.partial = true
		m.count = 1
	}
	committed := 2 * m.count
	for i := range m.offsets {
		if i < committed {
			m.offsets[i] = int(ovector[i])
		} else {
			m.offsets[i] = -1
		}
	}
	return m
}

// GroupStart returns the start offset of group n, or -1 if it did not
// participate.
func (m *Match) GroupStart(n int) int {
	return m.offsets[2*n]
}

// GroupEnd returns the end offset of group n, or -1 if it did not
// participate.
func (m *Match) GroupEnd(n int) int {
	return m.offsets[2*n+1]
}

// GroupLen returns the length of group n in bytes.
func (m *Match) GroupLen(n int) int {
	return m.GroupEnd(n) - m.GroupStart(n)
}

// GroupSet reports whether group n participated in the match.
func (m *Match) GroupSet(n int) bool {
	return m.GroupStart(n) >= 0
}

// Group returns the text of group n, or "" if it did not participate.
func (m *Match) Group(n int) string {
	start, end := m.GroupStart(n), m.GroupEnd(n)
	if start < 0 {
		return ""
	}
	return m.subject[start:end]
}

// StringCount returns one more than the highest group that participated.
// Groups at or above StringCount are unset.
func (m *Match) StringCount() int {
	return m.count
}

// Mark returns the tag of the last (*MARK) on the matching path. It is only
// reported when ExtraMark is set on the study data.
func (m *Match) Mark() (string, bool) {
	return m.mark, m.hasMark
}

// Partial reports whether this is a partial match. Only group 0 is set on a
// partial match.
func (m *Match) Partial() bool {
	return m.partial
}

// Subject returns the string the match was found in.
func (m *Match) Subject() string {
	return m.subject
}
