package insulator

import (
	"math/rand"
	"testing"
)

func TestFoldTotalAndIdempotent(t *testing.T) {
	for i := 0; i < 256; i++ {
		b := byte(i)
		f := Fold(b)

		if Fold(f) != f {
			t.Errorf("Fold not idempotent for 0x%02x: Fold(0x%02x) = 0x%02x", b, f, Fold(f))
		}

		switch {
		case b >= 'A' && b <= 'Z':
			if f != b+0x20 {
				t.Errorf("Fold(0x%02x) = 0x%02x, want 0x%02x", b, f, b+0x20)
			}
		default:
			if f != b {
				t.Errorf("Fold(0x%02x) = 0x%02x, want identity", b, f)
			}
		}
	}
}

func TestFoldNonASCIIPassThrough(t *testing.T) {
	// Bytes outside the ASCII uppercase range fold to themselves, so
	// sequences differing only in such bytes are never equal, even when
	// they would be case variants in a multi-byte encoding.
	a := []byte("\xc3\x85") // "Å"
	b := []byte("\xc3\xa5") // "å"

	if Equal(a, b) {
		t.Error("non-ASCII case variants must not compare equal")
	}
	if !Equal(a, a) {
		t.Error("non-ASCII bytes must equal themselves")
	}
}

func TestEqualBasic(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"", "", true},
		{"abc", "abc", true},
		{"abc", "Abc", true},
		{"abc", "ABC", true},
		{"Content-Type", "content-type", true},
		{"", "ABC", false},
		{"ABC", "ABCD", false},
		{"abc", "abd", false},
		{"a{c", "a[c", false}, // '{' and '[' differ only by 0x20, must not fold
		{"a@c", "a`c", false}, // '@' and '`' likewise
	}

	for _, tt := range tests {
		if got := Equal([]byte(tt.a), []byte(tt.b)); got != tt.want {
			t.Errorf("Equal(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
		if got := EqualString(tt.a, tt.b); got != tt.want {
			t.Errorf("EqualString(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCompareOrdering(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "ABC", 0},
		{"apple", "Banana", -1},
		{"Banana", "apple", 1},
		{"app", "apple", -1}, // folded prefix sorts first
		{"apple", "app", 1},
		{"a", "b", -1},
		{"Z", "a", 1}, // 'Z' folds to 'z', which sorts after 'a'
	}

	for _, tt := range tests {
		if got := Compare([]byte(tt.a), []byte(tt.b)); got != tt.want {
			t.Errorf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

// TestEqualCompareConsistency verifies Equal(a,b) == (Compare(a,b) == 0)
// over random byte sequences, including ones that differ only in case or
// only in non-ASCII bytes.
func TestEqualCompareConsistency(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	mutate := func(b []byte) []byte {
		out := make([]byte, len(b))
		copy(out, b)
		if len(out) == 0 {
			return out
		}
		i := rng.Intn(len(out))
		switch rng.Intn(3) {
		case 0:
			out[i] ^= 0x20 // flip the case bit
		case 1:
			out[i] = byte(rng.Intn(256))
		case 2:
			// leave unchanged
		}
		return out
	}

	for trial := 0; trial < 2000; trial++ {
		a := make([]byte, rng.Intn(48))
		rng.Read(a)
		b := mutate(a)

		eq := Equal(a, b)
		cmp := Compare(a, b)

		if eq != (cmp == 0) {
			t.Fatalf("Equal and Compare disagree on %q vs %q: eq=%v cmp=%d", a, b, eq, cmp)
		}
		if eq && Hash(a) != Hash(b) {
			t.Fatalf("equal sequences hash differently: %q vs %q", a, b)
		}
		if got, want := Compare(b, a), -cmp; got != want {
			t.Fatalf("Compare not antisymmetric on %q vs %q: %d vs %d", a, b, cmp, got)
		}
	}
}

func TestHashEmpty(t *testing.T) {
	if Hash(nil) != EmptyHash {
		t.Errorf("Hash(nil) = %d, want EmptyHash (%d)", Hash(nil), EmptyHash)
	}
	if Hash([]byte{}) != EmptyHash {
		t.Error("Hash of empty slice must equal EmptyHash")
	}
	if EmptyHash == 0 {
		t.Error("EmptyHash must be non-zero")
	}
}

func TestHashStringParity(t *testing.T) {
	for _, s := range []string{"", "a", "Hello, World", "\xc3\x85\xfeABC"} {
		if Hash([]byte(s)) != HashString(s) {
			t.Errorf("Hash and HashString disagree on %q", s)
		}
	}
}

func TestHashCaseInsensitive(t *testing.T) {
	variants := []string{"content-type", "Content-Type", "CONTENT-TYPE", "cOnTeNt-TyPe"}
	want := HashString(variants[0])
	for _, v := range variants[1:] {
		if HashString(v) != want {
			t.Errorf("HashString(%q) differs from HashString(%q)", v, variants[0])
		}
	}

	if HashString("content-type") == HashString("content-length") {
		t.Error("distinct keys should hash differently")
	}
}

func TestHasPrefix(t *testing.T) {
	tests := []struct {
		b, prefix string
		want      bool
	}{
		{"Content-Type", "content-", true},
		{"Content-Type", "CONTENT-TYPE", true},
		{"Content", "Content-Type", false},
		{"anything", "", true},
		{"Content-Type", "Type", false},
	}

	for _, tt := range tests {
		if got := HasPrefix([]byte(tt.b), []byte(tt.prefix)); got != tt.want {
			t.Errorf("HasPrefix(%q, %q) = %v, want %v", tt.b, tt.prefix, got, tt.want)
		}
	}
}
