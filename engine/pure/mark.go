package pure

import (
	"strconv"
	"strings"
)

// markPrefix names the hidden empty groups that stand in for (*MARK:NAME).
const markPrefix = "pcre_mark_"

// span records one replacement made by rewriteMarks, as half-open byte ranges
// in the rewritten and the original pattern.
type span struct {
	rw   [2]int
	orig [2]int
}

// rewrite is a pattern with its (*MARK) verbs replaced by named empty groups.
type rewrite struct {
	text  string
	marks []string
	spans []span
}

// origOffset maps an offset in the rewritten text back to the original
// pattern. Offsets inside a replacement map to the start of the verb.
func (r *rewrite) origOffset(off int) int {
	shift := 0
	for _, s := range r.spans {
		if off < s.rw[0] {
			break
		}
		if off < s.rw[1] {
			return s.orig[0]
		}
		shift = s.orig[1] - s.rw[1]
	}
	return off + shift
}

// rewriteMarks replaces every (*MARK:NAME) and (*:NAME) outside character
// classes and quoted sequences with (?P<pcre_mark_N>), recording NAME as
// marks[N]. It returns the offset of the verb and false when a mark verb is
// not terminated or has an empty name.
func rewriteMarks(pattern string) (*rewrite, int, bool) {
	r := &rewrite{}
	var b strings.Builder
	inClass := false
	for i := 0; i < len(pattern); {
		c := pattern[i]
		switch {
		case c == '\\' && strings.HasPrefix(pattern[i:], `\Q`):
			end := strings.Index(pattern[i+2:], `\E`)
			if end < 0 {
				b.WriteString(pattern[i:])
				i = len(pattern)
				continue
			}
			end += i + 4
			b.WriteString(pattern[i:end])
			i = end
			continue
		case c == '\\':
			n := 2
			if i+1 >= len(pattern) {
				n = 1
			}
			b.WriteString(pattern[i : i+n])
			i += n
			continue
		case inClass:
			if c == ']' {
				inClass = false
			} else if c == '[' && strings.HasPrefix(pattern[i:], "[:") {
				if end := strings.Index(pattern[i+2:], ":]"); end >= 0 {
					b.WriteString(pattern[i : i+end+4])
					i += end + 4
					continue
				}
			}
		case c == '[':
			inClass = true
			b.WriteByte(c)
			i++
			// A ']' right after '[' or '[^' is a literal.
			if strings.HasPrefix(pattern[i:], "^") {
				b.WriteByte('^')
				i++
			}
			if strings.HasPrefix(pattern[i:], "]") {
				b.WriteByte(']')
				i++
			}
			continue
		case c == '(':
			verb := ""
			switch {
			case strings.HasPrefix(pattern[i:], "(*MARK:"):
				verb = "(*MARK:"
			case strings.HasPrefix(pattern[i:], "(*:"):
				verb = "(*:"
			}
			if verb != "" {
				end := strings.IndexByte(pattern[i+len(verb):], ')')
				if end <= 0 {
					return nil, i, false
				}
				name := pattern[i+len(verb) : i+len(verb)+end]
				group := "(?P<" + markPrefix + strconv.Itoa(len(r.marks)) + ">)"
				start := b.Len()
				b.WriteString(group)
				next := i + len(verb) + end + 1
				r.spans = append(r.spans, span{
					rw:   [2]int{start, b.Len()},
					orig: [2]int{i, next},
				})
				r.marks = append(r.marks, name)
				i = next
				continue
			}
		}
		b.WriteByte(c)
		i++
	}
	r.text = b.String()
	return r, 0, true
}

// markIndex parses the N out of a hidden group name.
func markIndex(name string) (int, bool) {
	digits, ok := strings.CutPrefix(name, markPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
