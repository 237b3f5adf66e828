//go:build cgo && libpcre

package pcre

// Built with -tags libpcre, the system library becomes the default engine.
import _ "github.com/coregx/pcre/engine/libpcre"
