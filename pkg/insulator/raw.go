package insulator

import (
	"encoding/binary"
	"fmt"
	"unsafe"
)

// RawSize is the size in bytes of the raw block form of an inline Buf:
// a little-endian uint32 length followed by InlineSize content bytes.
// The unused content tail is zero-filled, so the block is a plain,
// padding-free record safe to store, memcmp, or ship as fixed-size memory.
const RawSize = 4 + InlineSize

// Static assertion that the inline record (length + array) occupies
// exactly the first RawSize bytes of Buf, with no padding holes. The
// zero-copy reinterpretation in Raw depends on this layout.
var _ = [1]struct{}{}[unsafe.Offsetof(Buf{}.inline)+InlineSize-RawSize]

// Raw returns the fixed-size raw block form of the buffer content.
// Content longer than InlineSize has no raw form and yields ErrNotInline.
//
// For a Buf in the inline representation this is a zero-copy
// reinterpretation of the value's own memory; for a heap-backed Buf whose
// content happens to fit (for example after Truncate) the block is built
// by copy. Either way the returned block round-trips through FromRaw.
func (b *Buf) Raw() ([RawSize]byte, error) {
	if int(b.length) > InlineSize {
		var zero [RawSize]byte
		return zero, fmt.Errorf("raw conversion of %d byte buffer: %w", b.length, ErrNotInline)
	}

	if b.heap == nil {
		out := *(*[RawSize]byte)(unsafe.Pointer(b))
		// The reinterpretation copies the length field in native byte
		// order; the block format is little-endian on every platform.
		binary.LittleEndian.PutUint32(out[:4], b.length)
		return out, nil
	}

	var out [RawSize]byte
	binary.LittleEndian.PutUint32(out[:4], b.length)
	copy(out[4:], b.heap[:b.length])
	return out, nil
}

// FromRaw reconstructs a Buf from a raw memory block produced by Raw (or
// by anything else that writes the same layout). The embedded length is
// validated against InlineSize before any content is trusted: a block
// declaring an out-of-range length yields a RawLayoutError wrapping
// ErrInvalidRawLayout and no Buf is constructed. Content beyond the
// declared length is ignored.
func FromRaw(block []byte) (Buf, error) {
	var b Buf

	if len(block) < RawSize {
		return b, fmt.Errorf("raw block of %d bytes: %w", len(block), ErrShortBlock)
	}

	n := binary.LittleEndian.Uint32(block[:4])
	if int(n) > InlineSize {
		debugf("raw layout validation failed", "declared", n, "capacity", InlineSize)
		return b, &RawLayoutError{Len: int(n), Cap: InlineSize, Err: ErrInvalidRawLayout}
	}

	b.length = n
	copy(b.inline[:n], block[4:4+n])
	return b, nil
}
