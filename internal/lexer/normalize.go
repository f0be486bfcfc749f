package lexer

import (
	"bytes"

	"golang.org/x/text/unicode/norm"
)

// bomUTF8 is the UTF-8 Byte Order Mark
var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Normalize performs input normalization at the lexer boundary:
// 1. Strips UTF-8 BOM if present
// 2. Applies Unicode NFC normalization
//
// The grammar admits non-ASCII keyword glyphs (λ, Π, Σ, →), so NFC
// ensures lexically equivalent source produces identical token streams
// regardless of how an editor encoded them.
func Normalize(src []byte) []byte {
	src = bytes.TrimPrefix(src, bomUTF8)

	// IsNormal() is fast and avoids allocation if already normalized
	if !norm.NFC.IsNormal(src) {
		src = norm.NFC.Bytes(src)
	}

	return src
}
