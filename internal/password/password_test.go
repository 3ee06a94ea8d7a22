package password

import (
	"strings"
	"testing"
)

func TestGenerateLength(t *testing.T) {
	for _, n := range []int{1, 8, 20, 64} {
		pw, err := Generate(n)
		if err != nil {
			t.Fatalf("generate %d: %v", n, err)
		}
		if len(pw) != n {
			t.Fatalf("generate %d: got length %d", n, len(pw))
		}
	}
}

func TestGenerateRejectsNonPositive(t *testing.T) {
	for _, n := range []int{0, -1, -20} {
		if _, err := Generate(n); err == nil {
			t.Fatalf("generate %d: expected error", n)
		}
	}
}

func TestGenerateAlphabet(t *testing.T) {
	pw, err := Generate(512)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, c := range pw {
		if !strings.ContainsRune(Alphabet, c) {
			t.Fatalf("character %q outside alphabet", c)
		}
	}
}

// Passwords are never reused across files in a run; collisions across a
// large sample would indicate a broken random source.
func TestGenerateUniqueness(t *testing.T) {
	const samples = 10000
	seen := make(map[string]struct{}, samples)
	for i := 0; i < samples; i++ {
		pw, err := Generate(DefaultLength)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if _, dup := seen[pw]; dup {
			t.Fatalf("duplicate password after %d draws", i)
		}
		seen[pw] = struct{}{}
	}
}

func TestGenerateCoversAlphabet(t *testing.T) {
	// A long enough sample should touch most of the alphabet; a stuck
	// generator (single repeated byte) fails this immediately.
	pw, err := Generate(4096)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	distinct := make(map[rune]struct{})
	for _, c := range pw {
		distinct[c] = struct{}{}
	}
	if len(distinct) < len(Alphabet)/2 {
		t.Fatalf("only %d distinct characters in 4096 draws", len(distinct))
	}
}
