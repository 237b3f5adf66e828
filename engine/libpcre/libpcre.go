//go:build cgo && libpcre

// Package libpcre implements engine.Engine on the system libpcre through cgo.
//
// Build with the libpcre tag and a pkg-config entry for libpcre available:
//
//	go build -tags libpcre
//
// Option bits, info fields and result codes are passed to the library as is.
// The package registers itself under the name "libpcre", which the pcre
// package prefers over the pure Go engine when both are linked in.
package libpcre

/*
#cgo pkg-config: libpcre
#include <stdlib.h>
#include <pcre.h>

// pcre_free is a function pointer variable and cannot be called from Go.
static void go_pcre_free(void *p) {
	pcre_free(p);
}

// go_pcre_exec runs pcre_exec with a private copy of the study data so that
// the mark pointer is local to the call and concurrent matches do not race on
// the shared pcre_extra.
static int go_pcre_exec(const pcre *code, const pcre_extra *extra,
		const char *subject, int length, int start, int options,
		int *ovector, int ovecsize, unsigned char **mark) {
	if (extra == NULL) {
		return pcre_exec(code, NULL, subject, length, start, options, ovector, ovecsize);
	}
	pcre_extra local = *extra;
	local.mark = mark;
	return pcre_exec(code, &local, subject, length, start, options, ovector, ovecsize);
}

static int go_pcre_info_int(const pcre *code, const pcre_extra *extra, int what, int *out) {
	return pcre_fullinfo(code, extra, what, out);
}

static int go_pcre_info_table(const pcre *code, const pcre_extra *extra, int what, unsigned char **out) {
	return pcre_fullinfo(code, extra, what, out);
}
*/
import "C"

import (
	"sync/atomic"
	"unsafe"

	"github.com/coregx/pcre/engine"
	"github.com/coregx/pcre/internal/conv"
)

// Name is the registry name of the libpcre engine.
const Name = "libpcre"

func init() {
	if err := engine.Register(New()); err != nil {
		panic(err.Error())
	}
}

// empty backs zero-length subjects; pcre_exec rejects a NULL subject.
var empty = C.CString("")

// Engine calls into the system libpcre. The zero value is ready to use.
type Engine struct{}

// New returns a libpcre engine.
func New() *Engine {
	return &Engine{}
}

type code struct {
	p     *C.pcre
	freed atomic.Bool
}

type extra struct {
	p     *C.pcre_extra
	freed atomic.Bool
}

func (x *extra) Flags() uint32 {
	return conv.Uint64ToUint32(uint64(x.p.flags))
}

func (x *extra) SetFlags(flags uint32) {
	x.p.flags = C.ulong(flags)
}

func (x *extra) SetMatchLimit(limit uint32) {
	x.p.match_limit = C.ulong(limit)
}

func (x *extra) SetMatchLimitRecursion(limit uint32) {
	x.p.match_limit_recursion = C.ulong(limit)
}

// Name implements engine.Engine.
func (e *Engine) Name() string {
	return Name
}

// Version returns the libpcre version string.
func (e *Engine) Version() string {
	return "libpcre " + C.GoString(C.pcre_version())
}

// Compile implements engine.Engine.
func (e *Engine) Compile(pattern string, options uint32) (engine.Code, error) {
	cpattern := C.CString(pattern)
	defer C.free(unsafe.Pointer(cpattern))

	var errptr *C.char
	var erroffset C.int
	p := C.pcre_compile(cpattern, C.int(options), &errptr, &erroffset, nil)
	if p == nil {
		return nil, &engine.CompileError{Message: C.GoString(errptr), Offset: int(erroffset)}
	}
	return &code{p: p}, nil
}

// Exec implements engine.Engine.
func (e *Engine) Exec(cd engine.Code, ex engine.Extra, subject string, start int, options uint32, ovector []int32) engine.ExecResult {
	c, ok := liveCode(cd)
	if !ok {
		return engine.ExecResult{RC: engine.ErrBadMagic}
	}
	var xp *C.pcre_extra
	if ex != nil {
		x, ok := liveExtra(ex)
		if !ok {
			return engine.ExecResult{RC: engine.ErrBadMagic}
		}
		xp = x.p
	}

	csubject := empty
	if len(subject) > 0 {
		csubject = (*C.char)(unsafe.Pointer(unsafe.StringData(subject)))
	}
	var cov *C.int
	if len(ovector) > 0 {
		cov = (*C.int)(unsafe.Pointer(&ovector[0]))
	}

	var mark *C.uchar
	rc := C.go_pcre_exec(c.p, xp, csubject, C.int(len(subject)), C.int(start),
		C.int(options), cov, C.int(len(ovector)), &mark)

	res := engine.ExecResult{RC: int(rc)}
	if mark != nil {
		res.Mark = C.GoString((*C.char)(unsafe.Pointer(mark)))
		res.HasMark = true
	}
	return res
}

// Study implements engine.Engine.
func (e *Engine) Study(cd engine.Code, options uint32) (engine.Extra, error) {
	c, ok := liveCode(cd)
	if !ok {
		return nil, &engine.StudyError{Message: engine.ErrWrongCode.Error()}
	}
	var errptr *C.char
	p := C.pcre_study(c.p, C.int(options), &errptr)
	if errptr != nil {
		if p != nil {
			C.pcre_free_study(p)
		}
		return nil, &engine.StudyError{Message: C.GoString(errptr)}
	}
	if p == nil {
		return nil, nil
	}
	return &extra{p: p}, nil
}

// Free implements engine.Engine.
func (e *Engine) Free(cd engine.Code) {
	c, ok := cd.(*code)
	if !ok || c == nil || c.freed.Swap(true) {
		return
	}
	C.go_pcre_free(unsafe.Pointer(c.p))
}

// FreeStudy implements engine.Engine.
func (e *Engine) FreeStudy(ex engine.Extra) {
	x, ok := ex.(*extra)
	if !ok || x == nil || x.freed.Swap(true) {
		return
	}
	C.pcre_free_study(x.p)
}

// InfoInt implements engine.Engine.
func (e *Engine) InfoInt(cd engine.Code, ex engine.Extra, what engine.Info) (int, error) {
	c, xp, err := e.infoArgs(cd, ex, what)
	if err != nil {
		return 0, err
	}
	var out C.int
	if rc := C.go_pcre_info_int(c.p, xp, C.int(what), &out); rc != 0 {
		return 0, &engine.InfoError{What: what, RC: int(rc)}
	}
	return int(out), nil
}

// InfoBytes implements engine.Engine. Only InfoNameTable is byte valued; the
// table is copied out of the compiled pattern.
func (e *Engine) InfoBytes(cd engine.Code, ex engine.Extra, what engine.Info) ([]byte, error) {
	if what != engine.InfoNameTable {
		return nil, &engine.InfoError{What: what, RC: engine.ErrBadOption}
	}
	c, xp, err := e.infoArgs(cd, ex, what)
	if err != nil {
		return nil, err
	}
	count, err := e.InfoInt(cd, ex, engine.InfoNameCount)
	if err != nil {
		return nil, err
	}
	size, err := e.InfoInt(cd, ex, engine.InfoNameEntrySize)
	if err != nil {
		return nil, err
	}
	var table *C.uchar
	if rc := C.go_pcre_info_table(c.p, xp, C.int(what), &table); rc != 0 {
		return nil, &engine.InfoError{What: what, RC: int(rc)}
	}
	if table == nil || count == 0 {
		return nil, nil
	}
	return C.GoBytes(unsafe.Pointer(table), C.int(count*size)), nil
}

func (e *Engine) infoArgs(cd engine.Code, ex engine.Extra, what engine.Info) (*code, *C.pcre_extra, error) {
	c, ok := liveCode(cd)
	if !ok {
		return nil, nil, &engine.InfoError{What: what, RC: engine.ErrBadMagic}
	}
	if ex == nil {
		return c, nil, nil
	}
	x, ok := liveExtra(ex)
	if !ok {
		return nil, nil, &engine.InfoError{What: what, RC: engine.ErrBadMagic}
	}
	return c, x.p, nil
}

func liveCode(cd engine.Code) (*code, bool) {
	c, ok := cd.(*code)
	if !ok || c == nil || c.freed.Load() {
		return nil, false
	}
	return c, true
}

func liveExtra(ex engine.Extra) (*extra, bool) {
	x, ok := ex.(*extra)
	if !ok || x == nil || x.freed.Load() {
		return nil, false
	}
	return x, true
}
