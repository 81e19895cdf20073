package insulator

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"
	"unsafe"
)

func TestRawLayoutSize(t *testing.T) {
	if RawSize != 4+InlineSize {
		t.Fatalf("RawSize = %d, want %d", RawSize, 4+InlineSize)
	}
	if off := unsafe.Offsetof(Buf{}.inline); off != 4 {
		t.Fatalf("inline array offset = %d, want 4", off)
	}
}

func TestRawRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 5, InlineSize - 1, InlineSize} {
		src := bytes.Repeat([]byte{'K'}, n)
		if n > 0 {
			src[0] = 'a'
		}

		b := New(src)
		raw, err := b.Raw()
		if err != nil {
			t.Fatalf("len %d: Raw() failed: %v", n, err)
		}

		if got := binary.LittleEndian.Uint32(raw[:4]); int(got) != n {
			t.Fatalf("len %d: embedded length = %d", n, got)
		}
		for i := 4 + n; i < RawSize; i++ {
			if raw[i] != 0 {
				t.Fatalf("len %d: tail byte %d not zero", n, i)
			}
		}

		back, err := FromRaw(raw[:])
		if err != nil {
			t.Fatalf("len %d: FromRaw failed: %v", n, err)
		}
		if !bytes.Equal(back.Bytes(), src) {
			t.Fatalf("len %d: round trip altered content", n)
		}
		if !back.Inline() {
			t.Fatalf("len %d: reconstructed buffer must be inline", n)
		}
	}
}

// The inline fast path and the heap-backed copy path must emit identical
// blocks for the same content. The copy path encodes the length explicitly
// little-endian, so agreement here pins the fast path to the documented
// byte order on every platform.
func TestRawPathsAgree(t *testing.T) {
	content := "portable"

	inline := NewString(content)
	if !inline.Inline() {
		t.Fatal("test setup: expected inline representation")
	}

	heap := NewString(strings.Repeat("x", InlineSize+1))
	heap.Truncate(0)
	heap.AppendString(content)
	if heap.Inline() {
		t.Fatal("test setup: expected heap representation")
	}

	fast, err := inline.Raw()
	if err != nil {
		t.Fatalf("inline Raw() failed: %v", err)
	}
	copied, err := heap.Raw()
	if err != nil {
		t.Fatalf("heap Raw() failed: %v", err)
	}

	if fast != copied {
		t.Fatalf("raw blocks diverge between paths:\n fast   %x\n copied %x", fast, copied)
	}

	var want [4]byte
	binary.LittleEndian.PutUint32(want[:], uint32(len(content)))
	if !bytes.Equal(fast[:4], want[:]) {
		t.Fatalf("length prefix %x is not little-endian %x", fast[:4], want)
	}
}

func TestRawNotInline(t *testing.T) {
	b := NewString(strings.Repeat("x", InlineSize+1))

	_, err := b.Raw()
	if !errors.Is(err, ErrNotInline) {
		t.Fatalf("Raw() on oversized content: err = %v, want ErrNotInline", err)
	}
}

// Heap-backed content that fits the inline capacity still has a raw form;
// the block is built by copy instead of reinterpretation.
func TestRawHeapBackedShortContent(t *testing.T) {
	b := NewString(strings.Repeat("x", InlineSize+1))
	b.Truncate(5)
	if b.Inline() {
		t.Fatal("test setup: expected heap representation")
	}

	raw, err := b.Raw()
	if err != nil {
		t.Fatalf("Raw() failed: %v", err)
	}

	back, err := FromRaw(raw[:])
	if err != nil {
		t.Fatalf("FromRaw failed: %v", err)
	}
	if got := string(back.Bytes()); got != "xxxxx" {
		t.Fatalf("round trip content = %q", got)
	}
}

func TestFromRawShortBlock(t *testing.T) {
	for _, n := range []int{0, 1, RawSize - 1} {
		_, err := FromRaw(make([]byte, n))
		if !errors.Is(err, ErrShortBlock) {
			t.Errorf("FromRaw with %d bytes: err = %v, want ErrShortBlock", n, err)
		}
	}
}

func TestFromRawInvalidLength(t *testing.T) {
	var block [RawSize]byte
	binary.LittleEndian.PutUint32(block[:4], InlineSize+1)

	_, err := FromRaw(block[:])
	if !IsInvalidRawLayout(err) {
		t.Fatalf("err = %v, want ErrInvalidRawLayout", err)
	}

	var layoutErr *RawLayoutError
	if !errors.As(err, &layoutErr) {
		t.Fatalf("err = %v, want *RawLayoutError", err)
	}
	if layoutErr.Len != InlineSize+1 || layoutErr.Cap != InlineSize {
		t.Errorf("RawLayoutError = {Len: %d, Cap: %d}", layoutErr.Len, layoutErr.Cap)
	}

	// A wildly out-of-range length must be rejected the same way.
	binary.LittleEndian.PutUint32(block[:4], 0xffffffff)
	if _, err := FromRaw(block[:]); !IsInvalidRawLayout(err) {
		t.Fatalf("err = %v, want ErrInvalidRawLayout", err)
	}
}

// Bytes beyond the declared length are not part of the content and must
// not leak into the reconstructed buffer.
func TestFromRawIgnoresTailGarbage(t *testing.T) {
	var block [RawSize]byte
	binary.LittleEndian.PutUint32(block[:4], 3)
	copy(block[4:], "abcGARBAGE")

	b, err := FromRaw(block[:])
	if err != nil {
		t.Fatalf("FromRaw failed: %v", err)
	}
	if got := string(b.Bytes()); got != "abc" {
		t.Fatalf("content = %q, want %q", got, "abc")
	}

	// The reconstructed buffer re-canonicalizes: its own raw form has a
	// zero tail regardless of the input block's.
	raw, err := b.Raw()
	if err != nil {
		t.Fatalf("Raw() failed: %v", err)
	}
	for i := 4 + 3; i < RawSize; i++ {
		if raw[i] != 0 {
			t.Fatalf("tail byte %d = 0x%02x, want zero", i, raw[i])
		}
	}
}

func TestFromRawAcceptsOversizedBlock(t *testing.T) {
	block := make([]byte, RawSize+10)
	binary.LittleEndian.PutUint32(block[:4], 2)
	copy(block[4:], "hi")

	b, err := FromRaw(block)
	if err != nil {
		t.Fatalf("FromRaw failed: %v", err)
	}
	if got := string(b.Bytes()); got != "hi" {
		t.Fatalf("content = %q", got)
	}
}
