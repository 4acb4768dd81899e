// Package ascii provides a fast all-ASCII screen for byte slices.
//
// Matching at grapheme level and comparison under canonical equivalence are
// both far cheaper when the relevant bytes are plain ASCII: every ASCII byte
// is its own grapheme cluster (with the single CR LF exception) and every
// ASCII span is already in normal form. The engine and the boundary services
// use this package to decide when those shortcuts apply.
package ascii

import (
	"encoding/binary"
)

// hi8 masks the high bit of each byte in a 64-bit word. ASCII bytes have
// bit 7 clear, so a nonzero result after AND means a non-ASCII byte.
const hi8 = uint64(0x8080808080808080)

// Valid reports whether every byte in data is ASCII (< 0x80).
// It processes eight bytes per step (SWAR), falling back to a scalar loop
// for short inputs and tails.
func Valid(data []byte) bool {
	n := len(data)
	if n < 8 {
		for i := 0; i < n; i++ {
			if data[i] >= 0x80 {
				return false
			}
		}
		return true
	}

	i := 0
	for i+8 <= n {
		if binary.LittleEndian.Uint64(data[i:])&hi8 != 0 {
			return false
		}
		i += 8
	}
	for ; i < n; i++ {
		if data[i] >= 0x80 {
			return false
		}
	}
	return true
}

// ValidString is Valid for strings.
func ValidString(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// Index returns the index of the first non-ASCII byte in data, or -1 if the
// whole slice is ASCII. Callers use it to split an input into an ASCII head
// that takes the fast path and a tail that needs full Unicode handling.
func Index(data []byte) int {
	n := len(data)
	i := 0
	for i+8 <= n {
		w := binary.LittleEndian.Uint64(data[i:]) & hi8
		if w != 0 {
			// Locate the first set high bit within the word.
			for ; i < n; i++ {
				if data[i] >= 0x80 {
					return i
				}
			}
		}
		i += 8
	}
	for ; i < n; i++ {
		if data[i] >= 0x80 {
			return i
		}
	}
	return -1
}
