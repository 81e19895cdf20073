package insulator

import (
	"bytes"
	"testing"
)

func TestToLowerToUpperASCII(t *testing.T) {
	src := []byte("Hello, World! 123")

	if got := ToLower(src); string(got) != "hello, world! 123" {
		t.Errorf("ToLower = %q", got)
	}
	if got := ToUpper(src); string(got) != "HELLO, WORLD! 123" {
		t.Errorf("ToUpper = %q", got)
	}
	if string(src) != "Hello, World! 123" {
		t.Error("source mutated")
	}
}

func TestCaseMappingUTF8(t *testing.T) {
	upper := []byte("ÅÄÖ")
	lower := []byte("åäö")

	if got := ToLower(upper); !bytes.Equal(got, lower) {
		t.Errorf("ToLower(%q) = %q, want %q", upper, got, lower)
	}
	if got := ToUpper(lower); !bytes.Equal(got, upper) {
		t.Errorf("ToUpper(%q) = %q, want %q", lower, got, upper)
	}
}

// Invalid UTF-8 bytes pass through case mapping unchanged, mixed freely
// with valid sequences.
func TestCaseMappingInvalidBytes(t *testing.T) {
	src := []byte("A\xfeB\xc3\x85c")
	want := []byte("a\xfeb\xc3\xa5c")

	if got := ToLower(src); !bytes.Equal(got, want) {
		t.Errorf("ToLower = %q, want %q", got, want)
	}
}

func TestAppendLowerExtendsDst(t *testing.T) {
	dst := []byte("prefix:")
	got := AppendLower(dst, []byte("ABC"))

	if string(got) != "prefix:abc" {
		t.Errorf("AppendLower = %q", got)
	}
}
