// Package prefilter finds candidate match start positions from literals a
// pattern is known to begin with.
//
// Searching for a first match otherwise probes every element position.
// When every match must start with one of a small set of byte literals,
// scanning for those literals skips positions that cannot possibly match;
// the engine then verifies each candidate. A single literal scans with
// bytes.Index, several scan with an Aho-Corasick automaton.
//
// Extraction is conservative. Only case-sensitive ASCII literals
// participate: ASCII spans are untouched by canonical normalization, so a
// byte scan can never miss a canonically equivalent form, which is not
// true of non-ASCII literals. A pattern with no sound literal set simply
// has no prefilter.
package prefilter

import (
	"bytes"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/uregex/ir"
)

// Scanner reports candidate match start positions. A candidate is a
// position where a required literal occurs; the caller verifies whether a
// match actually starts there.
type Scanner interface {
	// Next returns the first candidate position at or after start, or -1
	// when no candidate remains.
	Next(haystack []byte, start int) int
}

// FromTree extracts the tree's required starting literals and builds a
// scanner for them. It returns nil when the pattern yields no sound
// literal set; matching then probes every position directly.
func FromTree(t *ir.Tree) Scanner {
	if t == nil || t.Root == nil || t.Options.CaseInsensitive {
		return nil
	}
	ls, ok := prefixes(t.Root, false)
	if !ok || len(ls.set) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(ls.set))
	lits := make([][]byte, 0, len(ls.set))
	for _, l := range ls.set {
		if len(l) == 0 {
			return nil
		}
		if seen[string(l)] {
			continue
		}
		seen[string(l)] = true
		lits = append(lits, l)
	}
	if len(lits) == 1 {
		return &literalScanner{lit: lits[0]}
	}
	b := ahocorasick.NewBuilder()
	for _, l := range lits {
		b.AddPattern(l)
	}
	auto, err := b.Build()
	if err != nil {
		return nil
	}
	return &automatonScanner{auto: auto}
}

// literalScanner scans for a single literal.
type literalScanner struct {
	lit []byte
}

func (s *literalScanner) Next(haystack []byte, start int) int {
	if start > len(haystack) {
		return -1
	}
	i := bytes.Index(haystack[start:], s.lit)
	if i < 0 {
		return -1
	}
	return start + i
}

// automatonScanner scans for any of several literals at once.
type automatonScanner struct {
	auto *ahocorasick.Automaton
}

func (s *automatonScanner) Next(haystack []byte, start int) int {
	if start > len(haystack) {
		return -1
	}
	m := s.auto.Find(haystack, start)
	if m == nil {
		return -1
	}
	return m.Start
}
