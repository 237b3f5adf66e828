package pcre

import (
	"fmt"
	"iter"
	"math/bits"
	"strings"

	"github.com/coregx/pcre/engine"
)

// Flag is the set of option enumerations an OptionSet can hold.
type Flag interface {
	CompileOption | StudyOption | ExecOption | ExtraOption
}

// CompileOption is a pattern compilation flag.
type CompileOption uint8

// Compile options.
const (
	Caseless CompileOption = iota
	Multiline
	DotAll
	Extended
	Anchored
	DollarEndOnly
	Extra
	Ungreedy
	NoAutoCapture
	AutoCallout
	FirstLine
	DupNames
	NewlineCR
	NewlineLF
	NewlineCRLF
	NewlineAny
	NewlineAnyCRLF
	BsrAnyCRLF
	BsrUnicode
	JavaScriptCompat
	Ucp
)

// StudyOption is a study flag.
type StudyOption uint8

// Study options.
const (
	StudyJitCompile StudyOption = iota
	StudyJitPartialSoftCompile
	StudyJitPartialHardCompile
	StudyExtraNeeded
)

// ExecOption is a match-time flag.
type ExecOption uint8

// Exec options.
const (
	ExecAnchored ExecOption = iota
	ExecNotBol
	ExecNotEol
	ExecNotEmpty
	ExecPartialSoft
	ExecNewlineCR
	ExecNewlineLF
	ExecNewlineCRLF
	ExecNewlineAny
	ExecNewlineAnyCRLF
	ExecBsrAnyCRLF
	ExecBsrUnicode
	ExecNoStartOptimise
	ExecPartialHard
	ExecNotEmptyAtStart

	ExecPartial         = ExecPartialSoft
	ExecNoStartOptimize = ExecNoStartOptimise
)

// ExtraOption selects an optional field of study data.
type ExtraOption uint8

// Extra options.
const (
	ExtraStudyData ExtraOption = iota
	ExtraMatchLimit
	ExtraCalloutData
	ExtraTables
	ExtraMatchLimitRecursion
	ExtraMark
	ExtraExecutableJIT
)

type flagDef struct {
	name string
	bits uint32
}

var compileFlags = [...]flagDef{
	Caseless:         {"Caseless", engine.Caseless},
	Multiline:        {"Multiline", engine.Multiline},
	DotAll:           {"DotAll", engine.DotAll},
	Extended:         {"Extended", engine.Extended},
	Anchored:         {"Anchored", engine.Anchored},
	DollarEndOnly:    {"DollarEndOnly", engine.DollarEndOnly},
	Extra:            {"Extra", engine.ExtraSyntax},
	Ungreedy:         {"Ungreedy", engine.Ungreedy},
	NoAutoCapture:    {"NoAutoCapture", engine.NoAutoCapture},
	AutoCallout:      {"AutoCallout", engine.AutoCallout},
	FirstLine:        {"FirstLine", engine.FirstLine},
	DupNames:         {"DupNames", engine.DupNames},
	NewlineCR:        {"NewlineCR", engine.NewlineCR},
	NewlineLF:        {"NewlineLF", engine.NewlineLF},
	NewlineCRLF:      {"NewlineCRLF", engine.NewlineCRLF},
	NewlineAny:       {"NewlineAny", engine.NewlineAny},
	NewlineAnyCRLF:   {"NewlineAnyCRLF", engine.NewlineAnyCRLF},
	BsrAnyCRLF:       {"BsrAnyCRLF", engine.BsrAnyCRLF},
	BsrUnicode:       {"BsrUnicode", engine.BsrUnicode},
	JavaScriptCompat: {"JavaScriptCompat", engine.JavaScriptCompat},
	Ucp:              {"Ucp", engine.Ucp},
}

var studyFlags = [...]flagDef{
	StudyJitCompile:            {"StudyJitCompile", engine.StudyJitCompile},
	StudyJitPartialSoftCompile: {"StudyJitPartialSoftCompile", engine.StudyJitPartialSoftCompile},
	StudyJitPartialHardCompile: {"StudyJitPartialHardCompile", engine.StudyJitPartialHardCompile},
	StudyExtraNeeded:           {"StudyExtraNeeded", engine.StudyExtraNeeded},
}

var execFlags = [...]flagDef{
	ExecAnchored:        {"ExecAnchored", engine.Anchored},
	ExecNotBol:          {"ExecNotBol", engine.NotBol},
	ExecNotEol:          {"ExecNotEol", engine.NotEol},
	ExecNotEmpty:        {"ExecNotEmpty", engine.NotEmpty},
	ExecPartialSoft:     {"ExecPartialSoft", engine.PartialSoft},
	ExecNewlineCR:       {"ExecNewlineCR", engine.NewlineCR},
	ExecNewlineLF:       {"ExecNewlineLF", engine.NewlineLF},
	ExecNewlineCRLF:     {"ExecNewlineCRLF", engine.NewlineCRLF},
	ExecNewlineAny:      {"ExecNewlineAny", engine.NewlineAny},
	ExecNewlineAnyCRLF:  {"ExecNewlineAnyCRLF", engine.NewlineAnyCRLF},
	ExecBsrAnyCRLF:      {"ExecBsrAnyCRLF", engine.BsrAnyCRLF},
	ExecBsrUnicode:      {"ExecBsrUnicode", engine.BsrUnicode},
	ExecNoStartOptimise: {"ExecNoStartOptimise", engine.NoStartOptimise},
	ExecPartialHard:     {"ExecPartialHard", engine.PartialHard},
	ExecNotEmptyAtStart: {"ExecNotEmptyAtStart", engine.NotEmptyAtStart},
}

var extraFlags = [...]flagDef{
	ExtraStudyData:           {"ExtraStudyData", engine.ExtraStudyData},
	ExtraMatchLimit:          {"ExtraMatchLimit", engine.ExtraMatchLimit},
	ExtraCalloutData:         {"ExtraCalloutData", engine.ExtraCalloutData},
	ExtraTables:              {"ExtraTables", engine.ExtraTables},
	ExtraMatchLimitRecursion: {"ExtraMatchLimitRecursion", engine.ExtraMatchLimitRecursion},
	ExtraMark:                {"ExtraMark", engine.ExtraMark},
	ExtraExecutableJIT:       {"ExtraExecutableJIT", engine.ExtraExecutableJIT},
}

// defs returns the declaration table of F.
func defs[F Flag]() []flagDef {
	var zero F
	switch any(zero).(type) {
	case CompileOption:
		return compileFlags[:]
	case StudyOption:
		return studyFlags[:]
	case ExecOption:
		return execFlags[:]
	case ExtraOption:
		return extraFlags[:]
	}
	return nil
}

// def looks up a declared flag and panics on anything else.
func def[F Flag](f F) flagDef {
	d := defs[F]()
	if int(f) >= len(d) {
		panic(fmt.Sprintf("pcre: undeclared %T(%d)", f, int(f)))
	}
	return d[f]
}

// Value returns the libpcre bit value of the option.
func (o CompileOption) Value() uint32 { return def(o).bits }

func (o CompileOption) String() string { return def(o).name }

// Value returns the libpcre bit value of the option.
func (o StudyOption) Value() uint32 { return def(o).bits }

func (o StudyOption) String() string { return def(o).name }

// Value returns the libpcre bit value of the option.
func (o ExecOption) Value() uint32 { return def(o).bits }

func (o ExecOption) String() string { return def(o).name }

// Value returns the libpcre bit value of the option.
func (o ExtraOption) Value() uint32 { return def(o).bits }

func (o ExtraOption) String() string { return def(o).name }

// OptionSet is a set of flags of one option family. The zero value is the
// empty set.
//
// Membership is tracked per declared flag, not per bit: NewlineCRLF is its own
// member even though its value is NewlineCR|NewlineLF. Bits folds the members
// into the raw value passed to the engine.
type OptionSet[F Flag] struct {
	members uint64
}

// Option set aliases, one per family.
type (
	CompileOptions = OptionSet[CompileOption]
	StudyOptions   = OptionSet[StudyOption]
	ExecOptions    = OptionSet[ExecOption]
	ExtraOptions   = OptionSet[ExtraOption]
)

// NewOptionSet returns a set holding flags.
func NewOptionSet[F Flag](flags ...F) OptionSet[F] {
	var s OptionSet[F]
	for _, f := range flags {
		s.Add(f)
	}
	return s
}

// Add inserts f. It panics if f is not a declared flag.
func (s *OptionSet[F]) Add(f F) {
	def(f)
	s.members |= 1 << uint(f)
}

// With returns a copy of s with flags added.
func (s OptionSet[F]) With(flags ...F) OptionSet[F] {
	for _, f := range flags {
		s.Add(f)
	}
	return s
}

// Contains reports whether f is a member.
func (s OptionSet[F]) Contains(f F) bool {
	return s.members&(1<<uint(f)) != 0
}

// Len returns the number of members.
func (s OptionSet[F]) Len() int {
	return bits.OnesCount64(s.members)
}

// All iterates the members in declaration order.
func (s OptionSet[F]) All() iter.Seq[F] {
	return func(yield func(F) bool) {
		for i := range defs[F]() {
			if s.members&(1<<uint(i)) == 0 {
				continue
			}
			if !yield(F(i)) {
				return
			}
		}
	}
}

// Members returns the members in declaration order.
func (s OptionSet[F]) Members() []F {
	out := make([]F, 0, s.Len())
	for f := range s.All() {
		out = append(out, f)
	}
	return out
}

// Bits folds the members into the libpcre option word.
func (s OptionSet[F]) Bits() uint32 {
	var v uint32
	for f := range s.All() {
		v |= def(f).bits
	}
	return v
}

// String lists the members joined by '|', or "none".
func (s OptionSet[F]) String() string {
	if s.members == 0 {
		return "none"
	}
	var b strings.Builder
	for f := range s.All() {
		if b.Len() > 0 {
			b.WriteByte('|')
		}
		b.WriteString(def(f).name)
	}
	return b.String()
}
