package pcre

// The pure Go engine is always available.
import _ "github.com/coregx/pcre/engine/pure"
