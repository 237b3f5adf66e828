package pcre

import (
	"iter"
	"runtime"
	"unicode/utf8"

	"github.com/coregx/pcre/engine"
)

// MatchIterator yields the successive non-overlapping matches of a pattern
// in one subject.
//
// The iterator owns a reference to the compiled pattern, released when the
// iterator is exhausted or closed. Once Next returns nil the iterator is
// exhausted for good; a fresh scan needs a new iterator from Regex.Matches.
//
// After an empty match at offset o, the next attempt is anchored at o and must
// not be empty. If that fails, scanning resumes one character after o. So
// `a*` over "baaac" yields [0,0] [1,4] [4,4] [5,5].
//
// A MatchIterator is not safe for concurrent use.
type MatchIterator struct {
	owner   *owner
	cleanup runtime.Cleanup

	subject string
	options ExecOptions
	offset  int
	// retry is set after an empty match at offset.
	retry   bool
	done    bool
	ovector []int32
}

func newMatchIterator(o *owner, subject string, options ExecOptions) *MatchIterator {
	h := o.shared.Value()
	it := &MatchIterator{
		owner:   o,
		subject: subject,
		options: options,
		ovector: make([]int32, (h.captureCount+1)*3),
	}
	it.cleanup = runtime.AddCleanup(it, releaseOwner, o)
	return it
}

// Next returns the next match, or nil when the iterator is exhausted.
func (it *MatchIterator) Next() *Match {
	if it.done {
		return nil
	}
	h := it.owner.handle("next")
	defer runtime.KeepAlive(it)

	for {
		options := it.options.Bits()
		if it.retry {
			options |= engine.NotEmptyAtStart | engine.Anchored
		}
		res := h.exec("next", it.subject, it.offset, options, it.ovector)
		if res.RC == engine.ErrNoMatch {
			if !it.retry || it.offset >= len(it.subject) {
				it.finish()
				return nil
			}
			it.retry = false
			_, size := utf8.DecodeRuneInString(it.subject[it.offset:])
			it.offset += size
			continue
		}

		m := newMatch(it.subject, it.ovector, res, h.captureCount)
		if m.Partial() {
			it.finish()
			return m
		}
		it.offset = m.GroupEnd(0)
		it.retry = m.GroupStart(0) == m.GroupEnd(0)
		return m
	}
}

// All returns an iterator over the remaining matches.
//
// Example:
//
//	it := re.Matches("a1 b22 c333")
//	for m := range it.All() {
//	    fmt.Println(m.Group(0))
//	}
func (it *MatchIterator) All() iter.Seq[*Match] {
	return func(yield func(*Match) bool) {
		for m := it.Next(); m != nil; m = it.Next() {
			if !yield(m) {
				return
			}
		}
	}
}

// Clone returns an independent iterator positioned where it is now. Both
// iterators own the compiled pattern and advance separately. The clone of an
// exhausted iterator is exhausted.
func (it *MatchIterator) Clone() *MatchIterator {
	if it.done {
		return &MatchIterator{
			subject: it.subject,
			options: it.options,
			offset:  it.offset,
			done:    true,
		}
	}
	c := &MatchIterator{
		owner:   it.owner.acquire("clone iterator"),
		subject: it.subject,
		options: it.options,
		offset:  it.offset,
		retry:   it.retry,
		ovector: append([]int32(nil), it.ovector...),
	}
	c.cleanup = runtime.AddCleanup(c, releaseOwner, c.owner)
	return c
}

// Close exhausts the iterator and releases its reference to the compiled
// pattern. Close is idempotent.
func (it *MatchIterator) Close() {
	if !it.done {
		it.finish()
	}
}

// Offset returns the byte offset the next attempt starts from.
func (it *MatchIterator) Offset() int {
	return it.offset
}

// Done reports whether the iterator is exhausted.
func (it *MatchIterator) Done() bool {
	return it.done
}

func (it *MatchIterator) finish() {
	it.done = true
	it.ovector = nil
	it.cleanup.Stop()
	it.owner.release()
}
