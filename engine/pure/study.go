package pure

import (
	"regexp/syntax"

	"github.com/coregx/ahocorasick"
	"golang.org/x/sys/cpu"

	"github.com/coregx/pcre/engine"
)

// maxLiterals bounds the prefix set a study will build a prefilter from.
const maxLiterals = 64

// maxClassRunes bounds the character classes expanded into literals.
const maxClassRunes = 4

const jitOptions = engine.StudyJitCompile | engine.StudyJitPartialSoftCompile |
	engine.StudyJitPartialHardCompile

// study is the pure engine's study data.
type study struct {
	flags          uint32
	matchLimit     uint32
	recursionLimit uint32

	// literals holds prefixes of which every match starts with one.
	literals  []string
	prefilter *ahocorasick.Automaton
	freed     bool
}

func (s *study) Flags() uint32 { return s.flags }

func (s *study) SetFlags(flags uint32) { s.flags = flags }

// SetMatchLimit records the limit. Matching is linear in the subject, so the
// pure engine never reaches it.
func (s *study) SetMatchLimit(limit uint32) { s.matchLimit = limit }

func (s *study) SetMatchLimitRecursion(limit uint32) { s.recursionLimit = limit }

func (e *Engine) study(c *code, options uint32) (*study, error) {
	if bad := options &^ (jitOptions | engine.StudyExtraNeeded); bad != 0 {
		return nil, &engine.StudyError{Message: "unknown or incorrect option bit(s) set"}
	}

	st := &study{flags: engine.ExtraStudyData}
	if lits, _ := literalPrefixes(c.tree); usable(lits) {
		b := ahocorasick.NewBuilder()
		for _, lit := range lits {
			b.AddPattern([]byte(lit))
		}
		auto, err := b.Build()
		if err == nil {
			st.literals = lits
			st.prefilter = auto
		}
	}
	if options&jitOptions != 0 && simdAvailable() {
		st.flags |= engine.ExtraExecutableJIT
	}

	if st.prefilter == nil && options&(jitOptions|engine.StudyExtraNeeded) == 0 {
		return nil, nil
	}
	return st, nil
}

// simdAvailable reports whether coregex runs its vectorised search paths on
// this CPU, which is what the JIT flag of the study data advertises.
func simdAvailable() bool {
	return cpu.X86.HasAVX2 || cpu.X86.HasSSSE3 || cpu.ARM64.HasASIMD
}

func usable(lits []string) bool {
	if len(lits) == 0 || len(lits) > maxLiterals {
		return false
	}
	for _, lit := range lits {
		if lit == "" {
			return false
		}
	}
	return true
}

// literalPrefixes returns a set of strings one of which starts every match of
// re, and whether the set is complete (each string is an entire match). A nil
// set means nothing is known.
func literalPrefixes(re *syntax.Regexp) ([]string, bool) {
	switch re.Op {
	case syntax.OpLiteral:
		if re.Flags&syntax.FoldCase != 0 {
			return nil, false
		}
		return []string{string(re.Rune)}, true

	case syntax.OpCharClass:
		if re.Flags&syntax.FoldCase != 0 {
			return nil, false
		}
		var out []string
		for i := 0; i+1 < len(re.Rune); i += 2 {
			for r := re.Rune[i]; r <= re.Rune[i+1]; r++ {
				if len(out) == maxClassRunes {
					return nil, false
				}
				out = append(out, string(r))
			}
		}
		return out, len(out) > 0

	case syntax.OpEmptyMatch, syntax.OpBeginLine, syntax.OpEndLine,
		syntax.OpBeginText, syntax.OpEndText,
		syntax.OpWordBoundary, syntax.OpNoWordBoundary:
		return []string{""}, true

	case syntax.OpCapture:
		return literalPrefixes(re.Sub[0])

	case syntax.OpConcat:
		acc := []string{""}
		for _, sub := range re.Sub {
			lits, complete := literalPrefixes(sub)
			if lits == nil || len(acc)*len(lits) > maxLiterals {
				return acc, false
			}
			acc = cross(acc, lits)
			if !complete {
				return acc, false
			}
		}
		return acc, true

	case syntax.OpAlternate:
		var out []string
		complete := true
		for _, sub := range re.Sub {
			lits, c := literalPrefixes(sub)
			if lits == nil {
				return nil, false
			}
			out = append(out, lits...)
			complete = complete && c
		}
		if len(out) > maxLiterals {
			return nil, false
		}
		return out, complete

	case syntax.OpPlus:
		lits, _ := literalPrefixes(re.Sub[0])
		return lits, false

	case syntax.OpRepeat:
		if re.Min == 0 {
			return []string{""}, false
		}
		lits, complete := literalPrefixes(re.Sub[0])
		return lits, complete && re.Min == 1 && re.Max == 1

	case syntax.OpStar, syntax.OpQuest:
		return []string{""}, false
	}
	return nil, false
}

func cross(prefixes, suffixes []string) []string {
	out := make([]string, 0, len(prefixes)*len(suffixes))
	for _, p := range prefixes {
		for _, s := range suffixes {
			out = append(out, p+s)
		}
	}
	return out
}
