package engine

// Compile option bits (PCRE_*).
const (
	Caseless         uint32 = 0x00000001
	Multiline        uint32 = 0x00000002
	DotAll           uint32 = 0x00000004
	Extended         uint32 = 0x00000008
	Anchored         uint32 = 0x00000010
	DollarEndOnly    uint32 = 0x00000020
	ExtraSyntax      uint32 = 0x00000040
	Ungreedy         uint32 = 0x00000200
	UTF8             uint32 = 0x00000800
	NoAutoCapture    uint32 = 0x00001000
	AutoCallout      uint32 = 0x00004000
	FirstLine        uint32 = 0x00040000
	DupNames         uint32 = 0x00080000
	NewlineCR        uint32 = 0x00100000
	NewlineLF        uint32 = 0x00200000
	NewlineCRLF      uint32 = 0x00300000
	NewlineAny       uint32 = 0x00400000
	NewlineAnyCRLF   uint32 = 0x00500000
	BsrAnyCRLF       uint32 = 0x00800000
	BsrUnicode       uint32 = 0x01000000
	JavaScriptCompat uint32 = 0x02000000
	Ucp              uint32 = 0x20000000
)

// Exec option bits. Anchored and the newline/bsr bits share the compile
// values above.
const (
	NotBol          uint32 = 0x00000080
	NotEol          uint32 = 0x00000100
	NotEmpty        uint32 = 0x00000400
	PartialSoft     uint32 = 0x00008000
	NoStartOptimise uint32 = 0x04000000
	PartialHard     uint32 = 0x08000000
	NotEmptyAtStart uint32 = 0x10000000
)

// Study option bits (PCRE_STUDY_*).
const (
	StudyJitCompile            uint32 = 0x0001
	StudyJitPartialSoftCompile uint32 = 0x0002
	StudyJitPartialHardCompile uint32 = 0x0004
	StudyExtraNeeded           uint32 = 0x0008
)

// Study data flag bits (PCRE_EXTRA_*).
const (
	ExtraStudyData           uint32 = 0x0001
	ExtraMatchLimit          uint32 = 0x0002
	ExtraCalloutData         uint32 = 0x0004
	ExtraTables              uint32 = 0x0008
	ExtraMatchLimitRecursion uint32 = 0x0010
	ExtraMark                uint32 = 0x0020
	ExtraExecutableJIT       uint32 = 0x0040
)

// Exec result codes (PCRE_ERROR_*).
const (
	ErrNoMatch        = -1
	ErrNull           = -2
	ErrBadOption      = -3
	ErrBadMagic       = -4
	ErrUnknownOpcode  = -5
	ErrNoMemory       = -6
	ErrNoSubstring    = -7
	ErrMatchLimit     = -8
	ErrCallout        = -9
	ErrBadUTF8        = -10
	ErrBadUTF8Offset  = -11
	ErrPartial        = -12
	ErrBadPartial     = -13
	ErrInternal       = -14
	ErrBadCount       = -15
	ErrRecursionLimit = -21
	ErrBadNewline     = -23
	ErrBadOffset      = -24
	ErrShortUTF8      = -25
	ErrRecurseLoop    = -26
	ErrJITStackLimit  = -27
	ErrBadMode        = -28
)

var resultNames = map[int]string{
	ErrNoMatch:        "no match",
	ErrNull:           "null argument",
	ErrBadOption:      "bad option",
	ErrBadMagic:       "bad magic number",
	ErrUnknownOpcode:  "unknown opcode",
	ErrNoMemory:       "out of memory",
	ErrNoSubstring:    "no substring",
	ErrMatchLimit:     "match limit exceeded",
	ErrCallout:        "callout error",
	ErrBadUTF8:        "invalid UTF-8 subject",
	ErrBadUTF8Offset:  "start offset inside a UTF-8 character",
	ErrPartial:        "partial match",
	ErrBadPartial:     "partial matching not supported by pattern",
	ErrInternal:       "internal error",
	ErrBadCount:       "bad offset vector size",
	ErrRecursionLimit: "recursion limit exceeded",
	ErrBadNewline:     "bad newline option",
	ErrBadOffset:      "start offset out of range",
	ErrShortUTF8:      "truncated UTF-8 character",
	ErrRecurseLoop:    "recursion loop",
	ErrJITStackLimit:  "JIT stack limit exceeded",
	ErrBadMode:        "pattern compiled in a different mode",
}

// ResultString describes an Exec result code.
func ResultString(rc int) string {
	if rc >= 0 {
		return "match"
	}
	if s, ok := resultNames[rc]; ok {
		return s
	}
	return "unknown error"
}
