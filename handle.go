package pcre

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/coregx/pcre/engine"
	"github.com/coregx/pcre/internal/refcount"
)

var errShortOvector = errors.New("offset vector too small")

// handle is the state shared by every owner of one compiled pattern.
type handle struct {
	eng          engine.Engine
	code         engine.Code
	extra        engine.Extra
	pattern      string
	captureCount int
	config       Config
	log          *slog.Logger
}

// free releases the study data and then the code. It is the release hook of
// the shared reference and runs once.
func (h *handle) free() {
	if h.extra != nil {
		h.eng.FreeStudy(h.extra)
		h.extra = nil
	}
	h.eng.Free(h.code)
	h.code = nil
	h.log.Debug("pcre: released pattern", slog.String("pattern", h.pattern))
}

// study replaces the study data. Configured match limits force the engine to
// produce data so they can be installed.
func (h *handle) study(options uint32) (bool, error) {
	if h.config.hasLimits() {
		options |= engine.StudyExtraNeeded
	}
	if h.extra != nil {
		h.eng.FreeStudy(h.extra)
		h.extra = nil
	}
	extra, err := h.eng.Study(h.code, options)
	if err != nil {
		return false, &StudyError{Pattern: h.pattern, Err: err}
	}
	if extra == nil {
		h.log.Debug("pcre: study produced no data", slog.String("pattern", h.pattern))
		return false, nil
	}
	if limit := h.config.MatchLimit; limit != 0 {
		extra.SetMatchLimit(limit)
		extra.SetFlags(extra.Flags() | engine.ExtraMatchLimit)
	}
	if limit := h.config.MatchLimitRecursion; limit != 0 {
		extra.SetMatchLimitRecursion(limit)
		extra.SetFlags(extra.Flags() | engine.ExtraMatchLimitRecursion)
	}
	h.extra = extra
	h.log.Debug("pcre: studied pattern",
		slog.String("pattern", h.pattern),
		slog.Uint64("flags", uint64(extra.Flags())))
	return true, nil
}

func (h *handle) markEnabled() bool {
	return h.extra != nil && h.extra.Flags()&engine.ExtraMark != 0
}

// exec runs one match attempt. Results other than a match, no match or a
// partial match are faults.
func (h *handle) exec(op, subject string, start int, options uint32, ovector []int32) engine.ExecResult {
	res := h.eng.Exec(h.code, h.extra, subject, start, options, ovector)
	switch {
	case res.RC > 0, res.RC == engine.ErrNoMatch, res.RC == engine.ErrPartial:
		return res
	case res.RC == 0:
		fault(op, res.RC, errShortOvector)
	default:
		fault(op, res.RC, nil)
	}
	return res
}

func (h *handle) infoInt(op string, what engine.Info) int {
	v, err := h.eng.InfoInt(h.code, h.extra, what)
	if err != nil {
		var ierr *engine.InfoError
		code := engine.ErrInternal
		if errors.As(err, &ierr) {
			code = ierr.RC
		}
		fault(op, code, err)
	}
	return v
}

// owner is one reference to a shared handle. Releasing it more than once is
// a no-op, so Close and the garbage collection cleanup can both call release.
type owner struct {
	shared   *refcount.Shared[*handle]
	released atomic.Bool
}

func newOwner(shared *refcount.Shared[*handle]) *owner {
	return &owner{shared: shared}
}

// handle returns the shared handle, faulting if this owner was released.
func (o *owner) handle(op string) *handle {
	if o.released.Load() {
		fault(op, engine.ErrBadMagic, ErrClosed)
	}
	return o.shared.Value()
}

// acquire returns a new owner of the same handle.
func (o *owner) acquire(op string) *owner {
	o.handle(op)
	return newOwner(o.shared.Acquire())
}

// release drops this owner and reports whether the handle was freed.
func (o *owner) release() bool {
	if !o.released.CompareAndSwap(false, true) {
		return false
	}
	return o.shared.Release()
}

func releaseOwner(o *owner) {
	o.release()
}
