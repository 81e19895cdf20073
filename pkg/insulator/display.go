package insulator

import (
	"fmt"
	"unicode/utf8"

	"github.com/valyala/bytebufferpool"
)

// DisplayBytes renders b for human consumption: valid UTF-8 is emitted
// as-is, each invalid byte is escaped as \x'hh'. The rendering of content
// that is entirely valid UTF-8 equals the content itself.
func DisplayBytes(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}

	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)

	for i := 0; i < len(b); {
		r, n := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && n == 1 {
			fmt.Fprintf(bb, "\\x'%02x'", b[i])
			i++
			continue
		}
		bb.Write(b[i : i+n])
		i += n
	}
	return bb.String()
}

// String renders the buffer content with invalid UTF-8 bytes escaped.
// It implements fmt.Stringer.
func (b *Buf) String() string {
	return DisplayBytes(b.Bytes())
}
