package segment

import (
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/coregx/uregex/charclass"
	"github.com/coregx/uregex/option"
)

// IsWordBoundary reports whether pos is a word boundary under the given
// algorithm. The simple kind classifies the elements on each side of pos at
// the given semantic level and reports a boundary where exactly one side is
// a word element. The default kind reports the boundaries of Unicode word
// segmentation, for which the semantic level is irrelevant.
func (t *Text) IsWordBoundary(pos int, kind option.WordBoundary, level option.Level) bool {
	if pos < 0 || pos > len(t.data) {
		return false
	}
	if kind == option.WordBoundarySimple {
		return t.simpleWordBoundary(pos, level)
	}
	return t.defaultWordBoundary(pos)
}

func (t *Text) simpleWordBoundary(pos int, level option.Level) bool {
	before := false
	if pos > 0 {
		start := t.PrevElement(pos, level)
		before = isWordElement(t.data[start:pos])
	}
	after := false
	if pos < len(t.data) {
		end := t.NextElement(pos, level)
		after = isWordElement(t.data[pos:end])
	}
	return before != after
}

// isWordElement classifies an element by its first scalar, matching the word
// class's extension rule so that \b and \w agree.
func isWordElement(el []byte) bool {
	r, _ := utf8.DecodeRune(el)
	return charclass.IsWordScalar(r)
}

func (t *Text) defaultWordBoundary(pos int) bool {
	if pos == 0 || pos == len(t.data) {
		return true
	}
	if !t.wordOK {
		t.buildWordBoundaries()
	}
	return t.wordBits[pos>>6]&(1<<(pos&63)) != 0
}

// buildWordBoundaries runs Unicode word segmentation once and records every
// segment start.
func (t *Text) buildWordBoundaries() {
	need := (len(t.data) + 63) / 64
	if cap(t.wordBits) < need {
		t.wordBits = make([]uint64, need)
	} else {
		t.wordBits = t.wordBits[:need]
		for i := range t.wordBits {
			t.wordBits[i] = 0
		}
	}
	state := -1
	rest := t.data
	pos := 0
	var word []byte
	for len(rest) > 0 {
		word, rest, state = uniseg.FirstWord(rest, state)
		t.wordBits[pos>>6] |= 1 << (pos & 63)
		pos += len(word)
	}
	t.wordOK = true
}

// Words returns the input's words under Unicode word segmentation, dropping
// whitespace-only segments. For "I can't do that." it keeps the contraction
// whole and the final period as its own segment:
//
//	["I", "can't", "do", "that", "."]
func Words(data []byte) [][]byte {
	var out [][]byte
	state := -1
	rest := data
	var word []byte
	for len(rest) > 0 {
		word, rest, state = uniseg.FirstWord(rest, state)
		if !allWhitespace(word) {
			out = append(out, word)
		}
	}
	return out
}

// SimpleWords returns the maximal runs of word scalars, the words of the
// simple classification. For "I can't do that." the apostrophe splits the
// contraction and the period is dropped:
//
//	["I", "can", "t", "do", "that"]
func SimpleWords(data []byte) [][]byte {
	var out [][]byte
	start := -1
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if charclass.IsWordScalar(r) {
			if start < 0 {
				start = i
			}
		} else if start >= 0 {
			out = append(out, data[start:i])
			start = -1
		}
		i += size
	}
	if start >= 0 {
		out = append(out, data[start:])
	}
	return out
}

func allWhitespace(b []byte) bool {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if !unicode.IsSpace(r) {
			return false
		}
		i += size
	}
	return true
}
