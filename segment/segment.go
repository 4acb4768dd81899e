// Package segment provides the Unicode boundary services the matching engine
// builds on: extended grapheme cluster segmentation, canonical-equivalence
// comparison, and the two word-boundary algorithms.
//
// Cluster segmentation follows UAX #29 extended grapheme clusters via
// github.com/rivo/uniseg. Canonical equivalence compares NFD forms via
// golang.org/x/text/unicode/norm. Word boundaries come in two kinds: the
// simple kind places a boundary wherever adjacent elements change between
// word and non-word, and the default kind uses Unicode word segmentation,
// which keeps contractions like "can't" whole.
//
// A Text wraps one immutable input and lazily builds the boundary indexes a
// match needs. It is cheap to construct; nothing is segmented until asked
// for. A Text is not safe for concurrent use.
package segment

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/coregx/uregex/option"
)

// Text is the boundary-service view of one input. The engine creates one per
// match call and reuses it across backtracking, so segmentation runs at most
// once per input regardless of how often the matcher revisits a position.
type Text struct {
	data []byte

	clusters *Clusters

	wordBits []uint64 // default word-boundary bitset
	wordOK   bool
}

// NewText returns a Text over data. The input must not be mutated while the
// Text is in use.
func NewText(data []byte) *Text {
	return &Text{data: data}
}

// Reset points the Text at new input, dropping cached boundary indexes but
// keeping their storage where possible.
func (t *Text) Reset(data []byte) {
	t.data = data
	t.clusters = nil
	t.wordBits = t.wordBits[:0]
	t.wordOK = false
}

// Data returns the underlying input.
func (t *Text) Data() []byte { return t.data }

// Len returns the input length in bytes.
func (t *Text) Len() int { return len(t.data) }

// Clusters returns the grapheme-cluster boundary index, building it on first
// use.
func (t *Text) Clusters() *Clusters {
	if t.clusters == nil {
		t.clusters = NewClusters(t.data)
	}
	return t.clusters
}

// IsClusterBoundary reports whether pos lies on an extended grapheme cluster
// boundary. Both 0 and len(data) are boundaries.
func (t *Text) IsClusterBoundary(pos int) bool {
	return t.Clusters().IsBoundary(pos)
}

// NextElement returns the end of the element starting at pos under the given
// semantic level: one cluster at grapheme level, one scalar at scalar level.
// pos must be a valid element start below Len.
func (t *Text) NextElement(pos int, level option.Level) int {
	if level == option.LevelScalar {
		_, size := utf8.DecodeRune(t.data[pos:])
		return pos + size
	}
	return t.Clusters().Next(pos)
}

// PrevElement returns the start of the element ending at pos. pos must be a
// valid element end above 0.
func (t *Text) PrevElement(pos int, level option.Level) int {
	if level == option.LevelScalar {
		_, size := utf8.DecodeLastRune(t.data[:pos])
		return pos - size
	}
	return t.Clusters().Prev(pos)
}

// ElementAt returns the element starting at pos and its end position.
func (t *Text) ElementAt(pos int, level option.Level) ([]byte, int) {
	end := t.NextElement(pos, level)
	return t.data[pos:end], end
}

// Elements splits s into its elements at the given level: grapheme clusters
// or scalar values.
func Elements(s string, level option.Level) []string {
	if s == "" {
		return nil
	}
	var out []string
	if level == option.LevelScalar {
		for _, r := range s {
			out = append(out, string(r))
		}
		return out
	}
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		out = append(out, cluster)
	}
	return out
}
