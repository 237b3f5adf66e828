// Package pcre provides PCRE-style regular expressions with explicit,
// reference-counted ownership of compiled patterns.
//
// A compiled pattern lives in a matching engine (see package engine). The
// pure Go engine built on coregex is always linked in; building with
// -tags libpcre adds the system libpcre and makes it the default:
//   - engine/pure: regexp/syntax dialect, linear-time matching, no cgo
//   - engine/libpcre: full PCRE 8.x syntax through cgo
//
// Basic usage:
//
//	re, err := pcre.Compile(`(?<key>\w+)=(?<value>\w+)`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer re.Close()
//
//	// One match
//	if m := re.Exec("a=1 b=2"); m != nil {
//	    fmt.Println(m.Group(1), m.Group(2)) // "a 1"
//	}
//
//	// Every match
//	for m := range re.Matches("a=1 b=2").All() {
//	    fmt.Println(m.Group(0))
//	}
//
// Ownership:
//   - Compile returns the first owner of a compiled pattern
//   - Clone and Matches add owners; Close (or exhaustion, for iterators)
//     releases one
//   - the pattern and its study data are freed with the last owner
//   - Study and SetExtraOptions only run while a Regex is the sole owner and
//     return ErrSharedHandle otherwise
//
// Engine failures that indicate misuse, such as a start offset beyond the
// subject or use of a closed Regex, panic with a *Fault instead of being
// returned as errors. Absence of a match is reported as a nil *Match.
//
// Marks:
//
//	re := pcre.MustCompile(`X(*MARK:A)Y|X(*MARK:B)Z`)
//	re.Study()
//	re.SetExtraOptions(pcre.NewOptionSet(pcre.ExtraMark))
//	re.Exec("XZ")
//	mark, _ := re.Mark() // "B"
package pcre
