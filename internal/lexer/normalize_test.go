package lexer

import (
	"bytes"
	"testing"
)

func TestBOMStripping(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected []byte
	}{
		{"with_bom", []byte{0xEF, 0xBB, 0xBF, '(', 'U', ')'}, []byte("(U)")},
		{"without_bom", []byte("(U)"), []byte("(U)")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if !bytes.Equal(got, tt.expected) {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	src := []byte("(claim x Nat) (define x zero)")
	once := Normalize(src)
	twice := Normalize(once)
	if !bytes.Equal(once, twice) {
		t.Errorf("Normalize is not idempotent: %q vs %q", once, twice)
	}
}
