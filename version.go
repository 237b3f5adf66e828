package pcre

import "github.com/coregx/pcre/engine"

// Version describes the default engine, for example "coregex v0.10.0" or
// "libpcre 8.45 2021-06-15". It is empty when no engine is linked in.
func Version() string {
	e, err := engine.Default()
	if err != nil {
		return ""
	}
	return e.Version()
}

// Engines returns the names of the registered engines.
func Engines() []string {
	return engine.Names()
}
