package pure

import (
	"errors"
	"fmt"
	"regexp"
	"regexp/syntax"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/coregx/coregex/meta"

	"github.com/coregx/pcre/engine"
)

// Compile options the pure engine understands. DollarEndOnly, ExtraSyntax and
// NewlineLF describe what regexp/syntax does anyway and are accepted as no-ops.
const supportedCompile = engine.Caseless | engine.Multiline | engine.DotAll |
	engine.Anchored | engine.DollarEndOnly | engine.ExtraSyntax | engine.Ungreedy |
	engine.UTF8 | engine.NoAutoCapture | engine.DupNames | engine.NewlineLF

// Capture programs. Both match the pattern as group 1 at the start of their
// input; capContext first consumes one character of left context.
const (
	capHead = iota
	capContext
	numCaptureProgs
)

// markGroup is a hidden group standing in for one (*MARK:NAME).
type markGroup struct {
	cap  int
	name string
}

// namedGroup is one entry of the name table.
type namedGroup struct {
	name  string
	group int
}

// code is the pure engine's compiled pattern.
type code struct {
	pattern   string
	canonical string
	tree      *syntax.Regexp
	anchored  bool

	// groups maps a visible group number to its regexp/syntax capture index.
	// groups[0] is the whole match.
	groups  []int
	numCaps int
	marks   []markGroup
	names   []namedGroup

	// finder locates matches. Capture programs resolve the groups of a match
	// once its start is known.
	finder *meta.Engine

	mu       sync.Mutex
	captures [numCaptureProgs]*regexp.Regexp
	freed    atomic.Bool
}

func compileError(format string, offset int, args ...any) error {
	return &engine.CompileError{Message: fmt.Sprintf(format, args...), Offset: offset}
}

func compilePattern(pattern string, options uint32) (*code, error) {
	if i := strings.IndexByte(pattern, 0); i >= 0 {
		return nil, compileError("NUL byte in pattern", i)
	}
	if bad := options &^ supportedCompile; bad != 0 {
		return nil, compileError("option bits %#x not supported by the %s engine", 0, bad, Name)
	}
	if !utf8.ValidString(pattern) {
		return nil, compileError("invalid UTF-8 string", invalidUTF8Offset(pattern))
	}
	if i := strings.Index(pattern, markPrefix); i >= 0 {
		return nil, compileError("group name prefix %q is reserved", i, markPrefix)
	}

	rw, at, ok := rewriteMarks(pattern)
	if !ok {
		return nil, compileError("(*MARK) must have an argument", at)
	}

	flags := syntax.Perl
	if options&engine.Caseless != 0 {
		flags |= syntax.FoldCase
	}
	if options&engine.Multiline != 0 {
		flags &^= syntax.OneLine
	}
	if options&engine.DotAll != 0 {
		flags |= syntax.DotNL
	}
	if options&engine.Ungreedy != 0 {
		flags |= syntax.NonGreedy
	}

	tree, err := syntax.Parse(rw.text, flags)
	if err != nil {
		var serr *syntax.Error
		if errors.As(err, &serr) {
			return nil, compileError("%s", rw.origOffset(syntaxErrorOffset(rw.text, serr)), serr.Code.String())
		}
		return nil, compileError("%v", len(pattern), err)
	}

	c := &code{
		pattern:  pattern,
		tree:     tree,
		anchored: options&engine.Anchored != 0,
		numCaps:  tree.MaxCap(),
	}
	if err := c.analyze(rw, options); err != nil {
		return nil, err
	}
	c.canonical = tree.String()

	c.finder, err = meta.Compile(c.canonical)
	if err != nil {
		return nil, compileError("%v", 0, err)
	}
	return c, nil
}

// analyze assigns visible group numbers, collects mark groups and the name
// table, and enforces unique names unless DupNames is set.
func (c *code) analyze(rw *rewrite, options uint32) error {
	caps := make([]*syntax.Regexp, c.numCaps+1)
	var walk func(re *syntax.Regexp)
	walk = func(re *syntax.Regexp) {
		if re.Op == syntax.OpCapture {
			caps[re.Cap] = re
		}
		for _, sub := range re.Sub {
			walk(sub)
		}
	}
	walk(c.tree)

	c.groups = append(c.groups, 0)
	seen := make(map[string]bool)
	for i := 1; i < len(caps); i++ {
		re := caps[i]
		if re == nil {
			continue
		}
		if n, ok := markIndex(re.Name); ok && n < len(rw.marks) {
			c.marks = append(c.marks, markGroup{cap: i, name: rw.marks[n]})
			continue
		}
		if re.Name == "" && options&engine.NoAutoCapture != 0 {
			continue
		}
		group := len(c.groups)
		c.groups = append(c.groups, i)
		if re.Name == "" {
			continue
		}
		if seen[re.Name] && options&engine.DupNames == 0 {
			return compileError("two named subpatterns have the same name", duplicateNameOffset(c.pattern, re.Name))
		}
		seen[re.Name] = true
		c.names = append(c.names, namedGroup{name: re.Name, group: group})
	}

	// libpcre keeps its name table sorted by name.
	sort.SliceStable(c.names, func(i, j int) bool {
		if c.names[i].name != c.names[j].name {
			return c.names[i].name < c.names[j].name
		}
		return c.names[i].group < c.names[j].group
	})
	return nil
}

// captureProgram returns capture program i, building it on first use.
func (c *code) captureProgram(i int) (*regexp.Regexp, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p := c.captures[i]; p != nil {
		return p, nil
	}
	expr := `\A(` + c.canonical + `)`
	if i == capContext {
		expr = `\A(?s:.)(` + c.canonical + `)`
	}
	p, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	c.captures[i] = p
	return p, nil
}

// release drops the capture programs. Exec on released code fails with
// ErrBadMagic.
func (c *code) release() {
	c.freed.Store(true)
	c.mu.Lock()
	c.captures = [numCaptureProgs]*regexp.Regexp{}
	c.mu.Unlock()
}

// syntaxErrorOffset locates a regexp/syntax error in the parsed text. The
// offset points just past the offending expression, which is where libpcre
// reports errors such as an unterminated class.
func syntaxErrorOffset(text string, err *syntax.Error) int {
	if err.Expr == "" {
		return len(text)
	}
	i := strings.Index(text, err.Expr)
	if i < 0 {
		return len(text)
	}
	return i + len(err.Expr)
}

func duplicateNameOffset(pattern, name string) int {
	needle := "<" + name + ">"
	first := strings.Index(pattern, needle)
	if first < 0 {
		return 0
	}
	second := strings.Index(pattern[first+len(needle):], needle)
	if second < 0 {
		return first + 1
	}
	return first + len(needle) + second + 1 + len(name)
}

func invalidUTF8Offset(s string) int {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return len(s)
}
