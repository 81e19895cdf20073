package insulator

// InlineSize is the inline capacity of a Buf in bytes. Content at or below
// this length is stored directly in the Buf value with no heap allocation.
// 24 bytes (three machine words) covers typical header names, file names,
// and identifiers.
const InlineSize = 24

// Buf is a byte buffer that compares, orders, and hashes
// case-insensitively while preserving the exact bytes stored in it.
//
// A Buf has two storage representations:
//
//   - inline: content of up to InlineSize bytes lives in a fixed array
//     inside the value. The unused tail is always zero-filled, so the
//     inline record (length + array) is a plain, padding-free block that
//     can be reinterpreted as raw memory (see Raw and FromRaw).
//   - heap: content longer than InlineSize lives in a heap-allocated slice.
//     The transition is one-way; once a Buf is heap-backed it stays
//     heap-backed even if later truncated below InlineSize, avoiding
//     representation churn on workloads that oscillate around the boundary.
//
// The zero value is an empty, inline Buf ready for use.
//
// A Buf owns its bytes exclusively. Copying a Buf value that has
// transitioned to heap storage aliases the underlying slice; use Clone for
// an independent copy. A Buf must not be mutated concurrently with reads,
// the same discipline bytes.Buffer requires.
//
// Example:
//
//	a := insulator.NewString("Hello")
//	b := insulator.NewString("HELLO")
//	a.Equal(&b)          // true  (folded comparison)
//	string(a.Bytes())    // "Hello" (original case preserved)
type Buf struct {
	// length and inline together form the raw-castable record; they must
	// stay the first fields, in this order (see raw.go).
	length uint32
	inline [InlineSize]byte

	// heap is nil while inline; non-nil marks the irreversible heap
	// representation. Content is heap[:length].
	heap []byte
}

// New constructs a Buf holding a copy of src. Content that fits InlineSize
// is stored inline; longer content gets an exact-fit heap allocation (no
// headroom, since post-construction growth is rare for key-like data).
func New(src []byte) Buf {
	var b Buf
	if len(src) <= InlineSize {
		b.length = uint32(copy(b.inline[:], src))
		return b
	}
	b.heap = make([]byte, len(src))
	copy(b.heap, src)
	b.length = uint32(len(src))
	return b
}

// NewString constructs a Buf holding a copy of the bytes of s.
func NewString(s string) Buf {
	var b Buf
	if len(s) <= InlineSize {
		b.length = uint32(copy(b.inline[:], s))
		return b
	}
	b.heap = []byte(s)
	b.length = uint32(len(s))
	return b
}

// Bytes returns the raw stored bytes, original case intact, without
// copying. The slice is valid until the Buf is next mutated. Folding is
// never applied to stored content; it exists only inside comparisons.
func (b *Buf) Bytes() []byte {
	if b.heap != nil {
		return b.heap[:b.length]
	}
	return b.inline[:b.length]
}

// Len returns the content length in bytes. Two equal Bufs always have
// equal lengths (folding never changes length).
func (b *Buf) Len() int {
	return int(b.length)
}

// IsEmpty returns true if the Buf holds no bytes.
func (b *Buf) IsEmpty() bool {
	return b.length == 0
}

// Inline reports whether the Buf currently uses the inline representation.
func (b *Buf) Inline() bool {
	return b.heap == nil
}

// Append appends p to the buffer content.
//
// While inline, content that still fits InlineSize is copied in place.
// An append that would overflow the inline capacity stages a heap
// allocation holding existing plus new bytes before committing, then
// transitions the Buf irreversibly to heap storage. Heap-backed appends
// grow with amortized doubling and preserve existing content order.
func (b *Buf) Append(p []byte) {
	if len(p) == 0 {
		return
	}

	if b.heap == nil {
		n := int(b.length)
		if n+len(p) <= InlineSize {
			copy(b.inline[n:], p)
			b.length = uint32(n + len(p))
			return
		}

		// Stage the heap copy fully before committing the transition.
		grown := make([]byte, n+len(p))
		copy(grown, b.inline[:n])
		copy(grown[n:], p)
		b.heap = grown
		b.length = uint32(len(grown))

		// Zero the stale inline content so the record never leaks bytes
		// through raw reinterpretation of a heap-backed value.
		b.inline = [InlineSize]byte{}

		debugf("transitioned to heap storage", "len", len(grown))
		return
	}

	b.heap = append(b.heap, p...)
	b.length = uint32(len(b.heap))
}

// AppendString appends the bytes of s to the buffer content.
func (b *Buf) AppendString(s string) {
	if len(s) == 0 {
		return
	}
	if b.heap == nil && int(b.length)+len(s) <= InlineSize {
		copy(b.inline[b.length:], s)
		b.length += uint32(len(s))
		return
	}
	b.Append([]byte(s))
}

// AppendByte appends a single byte to the buffer content.
func (b *Buf) AppendByte(c byte) {
	if b.heap == nil && int(b.length) < InlineSize {
		b.inline[b.length] = c
		b.length++
		return
	}
	b.Append([]byte{c})
}

// AppendReversed appends the bytes of p in reverse order.
func (b *Buf) AppendReversed(p []byte) {
	start := b.Len()
	b.Append(p)
	s := b.Bytes()
	for i, j := start, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// Truncate shortens the content to n bytes. It panics if n is negative or
// greater than the current length. Truncating a heap-backed Buf does not
// revert it to the inline representation.
func (b *Buf) Truncate(n int) {
	if n < 0 || n > b.Len() {
		panic("insulator: truncation out of range")
	}
	if b.heap != nil {
		b.heap = b.heap[:n]
		b.length = uint32(n)
		return
	}
	// Re-zero the inline tail to keep the raw record canonical.
	for i := n; i < int(b.length); i++ {
		b.inline[i] = 0
	}
	b.length = uint32(n)
}

// Reset truncates the content to zero bytes. The representation is
// retained: a heap-backed Buf keeps its allocation for reuse.
func (b *Buf) Reset() {
	b.Truncate(0)
}

// Clone returns an independent deep copy of the Buf.
func (b *Buf) Clone() Buf {
	return New(b.Bytes())
}

// Equal reports whether b and other hold equal byte sequences under the
// folded equivalence relation. Raw-byte equality is intentionally not a
// method; callers that need it compare Bytes() themselves:
//
//	bytes.Equal(a.Bytes(), b.Bytes())
func (b *Buf) Equal(other *Buf) bool {
	return Equal(b.Bytes(), other.Bytes())
}

// Compare lexicographically orders b against other over folded bytes,
// returning -1, 0, or +1.
func (b *Buf) Compare(other *Buf) int {
	return Compare(b.Bytes(), other.Bytes())
}

// Hash returns the folded FNV-1a hash of the content. Equal Bufs always
// hash identically, whatever their representations or original casing.
func (b *Buf) Hash() uint64 {
	return Hash(b.Bytes())
}
