package memory

import "unsafe"

// unsafeBytes converts a string to a byte slice without allocation.
// SAFETY: The caller must not modify the returned byte slice.
//
//go:inline
func unsafeBytes(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
