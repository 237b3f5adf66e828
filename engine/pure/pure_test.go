package pure

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/coregx/pcre/engine"
)

func mustCompile(t *testing.T, pattern string, options uint32) *code {
	t.Helper()
	c, err := compilePattern(pattern, options|engine.UTF8)
	if err != nil {
		t.Fatalf("compilePattern(%q) error: %v", pattern, err)
	}
	return c
}

// run executes c and returns the committed ovector pairs.
func run(t *testing.T, c engine.Code, extra engine.Extra, subject string, start int, options uint32) (engine.ExecResult, []int32) {
	t.Helper()
	e := New()
	count, err := e.InfoInt(c, nil, engine.InfoCaptureCount)
	if err != nil {
		t.Fatal(err)
	}
	ovector := make([]int32, (count+1)*3)
	res := e.Exec(c, extra, subject, start, options, ovector)
	return res, ovector[:(count+1)*2]
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name       string
		pattern    string
		options    uint32
		wantOffset int
	}{
		{"unterminated class", "[", 0, 1},
		{"unterminated class with body", "[abc", 0, 4},
		{"missing paren", "(abc", 0, 4},
		{"nul byte", "ab\x00c", 0, 2},
		{"unsupported option", "abc", engine.Extended, 0},
		{"mark without name", "a(*MARK:)b", 0, 1},
		{"offset after mark", "(*MARK:long)[", 0, 13},
		{"reserved prefix", "(?P<pcre_mark_0>a)", 0, 4},
		{"duplicate names", "(?<n>a)(?<n>b)", 0, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compilePattern(tt.pattern, tt.options)
			var cerr *engine.CompileError
			if !errors.As(err, &cerr) {
				t.Fatalf("compilePattern(%q) error = %v, want *engine.CompileError", tt.pattern, err)
			}
			if cerr.Offset != tt.wantOffset {
				t.Errorf("offset = %d, want %d (%s)", cerr.Offset, tt.wantOffset, cerr.Message)
			}
			if cerr.Message == "" {
				t.Error("empty message")
			}
		})
	}
}

func TestCaptureCountSkipsHiddenGroups(t *testing.T) {
	tests := []struct {
		pattern string
		options uint32
		want    int
	}{
		{"(?:abc)(def)", 0, 1},
		{"X(*MARK:A)Y|X(*MARK:B)Z", 0, 0},
		{"(a)(?<n>b)(c)", engine.NoAutoCapture, 1},
		{"(a)(*:m)(b)", 0, 2},
	}
	e := New()
	for _, tt := range tests {
		c := mustCompile(t, tt.pattern, tt.options)
		got, err := e.InfoInt(c, nil, engine.InfoCaptureCount)
		if err != nil || got != tt.want {
			t.Errorf("%q: capture count = %d, %v; want %d", tt.pattern, got, err, tt.want)
		}
	}
}

func TestExecOffsetsAndContext(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		subject string
		start   int
		options uint32
		want    []int32 // nil means no match
	}{
		{"simple", "abc", "xxabc", 0, 0, []int32{2, 5}},
		{"from offset", "abc", "abcabc", 1, 0, []int32{3, 6}},
		{"caret fails past start", "^abc", "abcabc", 1, 0, nil},
		{"word boundary sees left context", `\bbc`, "abc bc", 1, 0, []int32{4, 6}},
		{"multiline caret after newline", "(?m)^b", "a\nb", 2, 0, []int32{2, 3}},
		{"anchored at offset", "abc", "xabc", 1, engine.Anchored, []int32{1, 4}},
		{"anchored misses", "abc", "xxabc", 1, engine.Anchored, nil},
		{"notbol", "^a", "abc", 0, engine.NotBol, nil},
		{"notbol multiline", "(?m)^b", "a\nb", 0, engine.NotBol, []int32{2, 3}},
		{"nul in subject", `abc\0def`, "abc\x00def", 0, 0, []int32{0, 7}},
		{"empty at end", "x*", "ab", 2, 0, []int32{2, 2}},
		{"notempty skips", "a*", "baa", 0, engine.NotEmpty, []int32{1, 3}},
		{"notempty_atstart anchored", "a*", "baa", 0, engine.NotEmptyAtStart | engine.Anchored, nil},
		{"multibyte offset", "é", "aéé", 3, 0, []int32{3, 5}},
		{"lazy prefix from offset", "a+?b", "xab aab", 4, 0, []int32{4, 7}},
		{"notbol keeps left context", `\bb`, "ab b", 1, engine.NotBol, []int32{3, 4}},

		// A rejected empty match is not retried as a longer alternative at
		// the same position.
		{"empty alternative under notempty_atstart", "(?:|a)", "a", 0, engine.NotEmptyAtStart | engine.Anchored, nil},
		{"empty alternative under notempty", "(?:|a)", "a", 0, engine.NotEmpty, nil},
		{"empty alternative skipped forward", "(?:|a)b", "ab", 0, engine.NotEmpty, []int32{0, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := mustCompile(t, tt.pattern, 0)
			res, ov := run(t, c, nil, tt.subject, tt.start, tt.options)
			if tt.want == nil {
				if res.RC != engine.ErrNoMatch {
					t.Fatalf("rc = %d, want no match (ovector %v)", res.RC, ov)
				}
				return
			}
			if res.RC != 1 {
				t.Fatalf("rc = %d, want 1", res.RC)
			}
			if diff := cmp.Diff(tt.want, ov[:2]); diff != "" {
				t.Errorf("group 0 mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExecGroups(t *testing.T) {
	c := mustCompile(t, `(a)(x)?(b)`, 0)
	res, ov := run(t, c, nil, "zab", 0, 0)
	if res.RC != 4 {
		t.Fatalf("rc = %d, want 4", res.RC)
	}
	want := []int32{1, 3, 1, 2, -1, -1, 2, 3}
	if diff := cmp.Diff(want, ov); diff != "" {
		t.Errorf("ovector mismatch (-want +got):\n%s", diff)
	}

	// Trailing unset groups are not counted.
	c = mustCompile(t, `(a)(x)?`, 0)
	res, _ = run(t, c, nil, "a", 0, 0)
	if res.RC != 2 {
		t.Errorf("rc = %d, want 2", res.RC)
	}

	// Offsets of a context search are reported in subject coordinates.
	c = mustCompile(t, `(\d+)-(\d+)`, 0)
	res, ov = run(t, c, nil, "12-34 56-78", 3, 0)
	if res.RC != 3 {
		t.Fatalf("rc = %d, want 3", res.RC)
	}
	if diff := cmp.Diff([]int32{6, 11, 6, 8, 9, 11}, ov); diff != "" {
		t.Errorf("ovector mismatch (-want +got):\n%s", diff)
	}
}

func TestExecSmallOvector(t *testing.T) {
	c := mustCompile(t, `(a)(b)`, 0)
	ovector := make([]int32, 3)
	res := New().Exec(c, nil, "ab", 0, 0, ovector)
	if res.RC != 0 {
		t.Errorf("rc = %d, want 0 for an ovector that cannot hold every group", res.RC)
	}
	if ovector[0] != 0 || ovector[1] != 2 {
		t.Errorf("group 0 = %v, want [0 2]", ovector[:2])
	}
}

func TestExecFaults(t *testing.T) {
	c := mustCompile(t, "a", 0)
	e := New()
	tests := []struct {
		name    string
		subject string
		start   int
		options uint32
		ovsize  int
		want    int
	}{
		{"offset past end", "abc", 4, 0, 3, engine.ErrBadOffset},
		{"negative offset", "abc", -1, 0, 3, engine.ErrBadOffset},
		{"bad ovector size", "abc", 0, 0, 4, engine.ErrBadCount},
		{"invalid utf8", "a\xffb", 0, 0, 3, engine.ErrBadUTF8},
		{"offset inside rune", "é", 1, 0, 3, engine.ErrBadUTF8Offset},
		{"unsupported option", "abc", 0, engine.PartialHard, 3, engine.ErrBadOption},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.Exec(c, nil, tt.subject, tt.start, tt.options, make([]int32, tt.ovsize))
			if res.RC != tt.want {
				t.Errorf("rc = %d (%s), want %d", res.RC, engine.ResultString(res.RC), tt.want)
			}
		})
	}

	e.Free(c)
	if res := e.Exec(c, nil, "a", 0, 0, make([]int32, 3)); res.RC != engine.ErrBadMagic {
		t.Errorf("exec after Free: rc = %d, want ErrBadMagic", res.RC)
	}
}

func TestMark(t *testing.T) {
	e := New()
	c := mustCompile(t, "X(*MARK:A)Y|X(*MARK:B)Z", 0)

	extra, err := e.Study(c, engine.StudyJitCompile)
	if err != nil || extra == nil {
		t.Fatalf("Study() = %v, %v", extra, err)
	}

	// Without the mark flag nothing is reported.
	res, _ := run(t, c, extra, "XY", 0, 0)
	if !res.Matched() || res.HasMark {
		t.Fatalf("res = %+v, want match without mark", res)
	}

	extra.SetFlags(extra.Flags() | engine.ExtraMark)
	for subject, want := range map[string]string{"XY": "A", "XZ": "B", "aXY": "A", "aXZ": "B", "XYXZ": "A"} {
		res, _ := run(t, c, extra, subject, 0, 0)
		if !res.Matched() || !res.HasMark || res.Mark != want {
			t.Errorf("%s: res = %+v, want mark %q", subject, res, want)
		}
	}

	// The last mark on the path wins.
	c = mustCompile(t, "(*:first)a(*:second)b", 0)
	extra, _ = e.Study(c, engine.StudyExtraNeeded)
	extra.SetFlags(extra.Flags() | engine.ExtraMark)
	res, _ = run(t, c, extra, "ab", 0, 0)
	if res.Mark != "second" {
		t.Errorf("mark = %q, want second", res.Mark)
	}
}

func TestStudy(t *testing.T) {
	e := New()

	c := mustCompile(t, "abc|abd", 0)
	extra, err := e.Study(c, 0)
	if err != nil || extra == nil {
		t.Fatalf("Study(abc|abd) = %v, %v", extra, err)
	}
	st := extra.(*study)
	if diff := cmp.Diff([]string{"abc", "abd"}, st.literals); diff != "" {
		t.Errorf("literals mismatch (-want +got):\n%s", diff)
	}
	if extra.Flags()&engine.ExtraStudyData == 0 {
		t.Error("study data flag not set")
	}
	if res, _ := run(t, c, extra, "xxabd", 0, 0); res.RC != 1 {
		t.Errorf("studied exec rc = %d, want 1", res.RC)
	}
	if res, _ := run(t, c, extra, "xxab", 0, 0); res.RC != engine.ErrNoMatch {
		t.Errorf("prefiltered exec rc = %d, want no match", res.RC)
	}

	// Nothing to learn from a leading class.
	c = mustCompile(t, `\d+`, 0)
	if extra, err := e.Study(c, 0); extra != nil || err != nil {
		t.Errorf("Study(\\d+) = %v, %v, want nil, nil", extra, err)
	}
	if extra, err := e.Study(c, engine.StudyExtraNeeded); extra == nil || err != nil {
		t.Errorf("Study(\\d+, ExtraNeeded) = %v, %v, want data", extra, err)
	}

	if _, err := e.Study(c, 0x100); err == nil {
		t.Error("Study with unknown bits succeeded")
	}
}

func TestLiteralPrefixes(t *testing.T) {
	tests := []struct {
		pattern string
		want    []string
	}{
		{"abc", []string{"abc"}},
		{"ab(c|d)e", []string{"abce", "abde"}},
		{"ab+c", []string{"ab"}},
		{`ab\d`, []string{"ab"}},
		{"(?i)abc", nil},
		{"a*b", []string{""}},
	}
	for _, tt := range tests {
		c := mustCompile(t, tt.pattern, 0)
		got, _ := literalPrefixes(c.tree)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("%q: literal prefixes mismatch (-want +got):\n%s", tt.pattern, diff)
		}
	}
}

func TestNameTableLayout(t *testing.T) {
	e := New()
	c := mustCompile(t, `(?<year>\d{4})-(?<mo>\d\d)-(?<year>x)?`, engine.DupNames)

	count, _ := e.InfoInt(c, nil, engine.InfoNameCount)
	size, _ := e.InfoInt(c, nil, engine.InfoNameEntrySize)
	table, err := e.InfoBytes(c, nil, engine.InfoNameTable)
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 || size != 7 {
		t.Fatalf("count = %d, size = %d, want 3 and 7", count, size)
	}
	want := []byte{
		0, 2, 'm', 'o', 0, 0, 0,
		0, 1, 'y', 'e', 'a', 'r', 0,
		0, 3, 'y', 'e', 'a', 'r', 0,
	}
	if diff := cmp.Diff(want, table); diff != "" {
		t.Errorf("name table mismatch (-want +got):\n%s", diff)
	}

	if _, err := e.InfoInt(c, nil, engine.Info(42)); err == nil {
		t.Error("InfoInt(42) succeeded")
	}
}

func TestOptionMapping(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		options uint32
		subject string
		want    []int32
	}{
		{"caseless", "abc", engine.Caseless, "xABC", []int32{1, 4}},
		{"dotall", "a.b", engine.DotAll, "a\nb", []int32{0, 3}},
		{"multiline", "^b$", engine.Multiline, "a\nb\nc", []int32{2, 3}},
		{"ungreedy", "a+", engine.Ungreedy, "aaa", []int32{0, 1}},
		{"anchored pattern", "b", engine.Anchored, "ab", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := mustCompile(t, tt.pattern, tt.options)
			res, ov := run(t, c, nil, tt.subject, 0, 0)
			if tt.want == nil {
				if res.Matched() {
					t.Errorf("matched %v, want no match", ov)
				}
				return
			}
			if !res.Matched() {
				t.Fatalf("rc = %d, want match", res.RC)
			}
			if diff := cmp.Diff(tt.want, ov[:2]); diff != "" {
				t.Errorf("group 0 mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRewriteMarks(t *testing.T) {
	tests := []struct {
		pattern   string
		wantText  string
		wantMarks []string
	}{
		{"a(*MARK:x)b", "a(?P<pcre_mark_0>)b", []string{"x"}},
		{"(*:p)|(*:q)", "(?P<pcre_mark_0>)|(?P<pcre_mark_1>)", []string{"p", "q"}},
		{`[(*:x)]`, `[(*:x)]`, nil},
		{`\(*:x)`, `\(*:x)`, nil},
		{`\Q(*:x)\E`, `\Q(*:x)\E`, nil},
		{`[]](*:y)`, `[]](?P<pcre_mark_0>)`, []string{"y"}},
	}
	for _, tt := range tests {
		rw, _, ok := rewriteMarks(tt.pattern)
		if !ok {
			t.Errorf("rewriteMarks(%q) failed", tt.pattern)
			continue
		}
		if rw.text != tt.wantText {
			t.Errorf("rewriteMarks(%q) = %q, want %q", tt.pattern, rw.text, tt.wantText)
		}
		if diff := cmp.Diff(tt.wantMarks, rw.marks); diff != "" {
			t.Errorf("rewriteMarks(%q) marks (-want +got):\n%s", tt.pattern, diff)
		}
	}

	rw, _, _ := rewriteMarks("ab(*MARK:xyz)cd")
	// "ab(?P<pcre_mark_0>)cd": rewritten offset 19 is 'c', original 13.
	if got := rw.origOffset(19); got != 13 {
		t.Errorf("origOffset(19) = %d, want 13", got)
	}
	if got := rw.origOffset(5); got != 2 {
		t.Errorf("origOffset(5) = %d, want 2", got)
	}
	if got := rw.origOffset(1); got != 1 {
		t.Errorf("origOffset(1) = %d, want 1", got)
	}
}

func TestRegistered(t *testing.T) {
	e, ok := engine.Lookup(Name)
	if !ok {
		t.Fatal("pure engine not registered")
	}
	if e.Name() != Name {
		t.Errorf("Name() = %q", e.Name())
	}
	if v := e.Version(); len(v) <= len("coregex ") {
		t.Errorf("Version() = %q", v)
	}
}
