package pcre_test

import (
	"errors"
	"fmt"

	"github.com/coregx/pcre"
)

// ExampleCompile demonstrates compiling a pattern and reading its groups.
func ExampleCompile() {
	re, err := pcre.Compile(`(\d+)-(\d+)`)
	if err != nil {
		panic(err)
	}
	defer re.Close()

	m := re.Exec("call 555-1234")
	fmt.Println(m.Group(0), m.Group(1), m.Group(2))
	// Output: 555-1234 555 1234
}

// ExampleCompilationError demonstrates inspecting a compile failure.
func ExampleCompilationError() {
	_, err := pcre.Compile(`ab[`)
	var cerr *pcre.CompilationError
	if errors.As(err, &cerr) {
		fmt.Println(cerr.Offset)
	}
	// Output: 3
}

// ExampleRegex_Matches demonstrates iterating over every match.
func ExampleRegex_Matches() {
	re := pcre.MustCompile(`\d+`)
	defer re.Close()

	for m := range re.Matches("a1 b22 c333").All() {
		fmt.Println(m.Group(0), m.GroupStart(0))
	}
	// Output:
	// 1 1
	// 22 4
	// 333 8
}

// ExampleMatchIterator demonstrates how empty matches advance.
func ExampleMatchIterator() {
	re := pcre.MustCompile(`a*`)
	defer re.Close()

	it := re.Matches("baaac")
	for m := it.Next(); m != nil; m = it.Next() {
		fmt.Print("[", m.GroupStart(0), " ", m.GroupEnd(0), "] ")
	}
	fmt.Println(it.Done())
	// Output: [0 0] [1 4] [4 4] [5 5] true
}

// ExampleRegex_Mark demonstrates reading the tag of the matching branch.
func ExampleRegex_Mark() {
	re := pcre.MustCompile(`X(*MARK:A)Y|X(*MARK:B)Z`)
	defer re.Close()

	re.StudyWithOptions(pcre.NewOptionSet(pcre.StudyExtraNeeded))
	re.SetExtraOptions(pcre.NewOptionSet(pcre.ExtraMark))

	re.Exec("XZ")
	mark, ok := re.Mark()
	fmt.Println(mark, ok)
	// Output: B true
}

// ExampleRegex_NameTable demonstrates looking up named groups.
func ExampleRegex_NameTable() {
	re, err := pcre.CompileWithOptions(`(?<d>\d)|(?<w>\w)|(?<d>-)`, pcre.NewOptionSet(pcre.DupNames))
	if err != nil {
		panic(err)
	}
	defer re.Close()

	for name, groups := range re.NameTable().All() {
		fmt.Println(name, groups)
	}
	// Output:
	// d [1 3]
	// w [2]
}

// ExampleRegex_Study demonstrates that study data is only changed by the
// sole owner.
func ExampleRegex_Study() {
	re := pcre.MustCompile(`foo|bar`)
	defer re.Close()

	clone := re.Clone()
	_, err := re.Study()
	fmt.Println(err)
	clone.Close()

	ok, err := re.Study()
	fmt.Println(ok, err)
	// Output:
	// pcre: compiled pattern is shared
	// true <nil>
}

// ExampleNewOptionSet demonstrates building option sets.
func ExampleNewOptionSet() {
	opts := pcre.NewOptionSet(pcre.Multiline, pcre.Caseless)
	fmt.Println(opts, opts.Bits())
	// Output: Caseless|Multiline 3
}
