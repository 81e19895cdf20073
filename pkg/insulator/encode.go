package insulator

import (
	"unicode"
	"unicode/utf8"
)

// Case-mapped encoding helpers, UTF-8 aware. These are rendering
// conveniences only; the package's equivalence relation stays ASCII
// folding. Valid UTF-8 sequences are case-mapped via the unicode tables,
// invalid bytes are copied through unchanged.

// AppendLower appends a lowercase rendering of src to dst and returns the
// extended slice. Invalid UTF-8 bytes are appended as-is.
func AppendLower(dst, src []byte) []byte {
	return appendMapped(dst, src, unicode.ToLower)
}

// AppendUpper appends an uppercase rendering of src to dst and returns the
// extended slice. Invalid UTF-8 bytes are appended as-is.
func AppendUpper(dst, src []byte) []byte {
	return appendMapped(dst, src, unicode.ToUpper)
}

// ToLower returns a lowercase rendering of src as a fresh slice.
func ToLower(src []byte) []byte {
	return AppendLower(make([]byte, 0, len(src)), src)
}

// ToUpper returns an uppercase rendering of src as a fresh slice.
func ToUpper(src []byte) []byte {
	return AppendUpper(make([]byte, 0, len(src)), src)
}

func appendMapped(dst, src []byte, mapping func(rune) rune) []byte {
	for i := 0; i < len(src); {
		if c := src[i]; c < utf8.RuneSelf {
			dst = append(dst, byte(mapping(rune(c))))
			i++
			continue
		}

		r, n := utf8.DecodeRune(src[i:])
		if r == utf8.RuneError && n == 1 {
			// Invalid byte, passes through unchanged.
			dst = append(dst, src[i])
			i++
			continue
		}

		dst = utf8.AppendRune(dst, mapping(r))
		i += n
	}
	return dst
}
