package uregex

import (
	"github.com/coregx/uregex/segment"
)

// collect gathers successive non-overlapping matches left to right, at most
// n when n > 0. A non-empty match resumes at its end; an empty match is
// recorded and the scan steps one element forward at the pattern's top-level
// semantic level so it cannot stall.
func (p *Pattern) collect(b []byte, n int) ([]*Match, error) {
	if n == 0 {
		return nil, nil
	}
	var (
		out  []*Match
		text *segment.Text
	)
	level := p.eng.Tree().Options.Level
	pos := 0
	for {
		m, err := p.eng.FirstMatchAt(b, pos)
		if err != nil {
			return nil, err
		}
		if m == nil {
			break
		}
		out = append(out, m)
		if n > 0 && len(out) >= n {
			break
		}
		if !m.IsEmpty() {
			pos = m.End()
			continue
		}
		if m.End() >= len(b) {
			break
		}
		if text == nil {
			text = segment.NewText(b)
		}
		pos = text.NextElement(m.End(), level)
	}
	return out, nil
}

// Matches reports whether the input contains any match of the pattern.
//
// Example:
//
//	p := uregex.MustCompile(`\d+`)
//	ok, _ := p.Matches([]byte("hello 123")) // true
func (p *Pattern) Matches(b []byte) (bool, error) {
	m, err := p.eng.FirstMatch(b)
	return m != nil, err
}

// MatchesString is Matches for a string input.
func (p *Pattern) MatchesString(s string) (bool, error) {
	return p.Matches([]byte(s))
}

// Find returns the text of the leftmost match, nil when there is none. The
// returned bytes alias the input.
//
// Example:
//
//	p := uregex.MustCompile(`\d+`)
//	b, _ := p.Find([]byte("hello 123 world"))
//	// b = []byte("123")
func (p *Pattern) Find(b []byte) ([]byte, error) {
	m, err := p.eng.FirstMatch(b)
	if err != nil || m == nil {
		return nil, err
	}
	return m.Bytes(), nil
}

// FindString returns the text of the leftmost match. An empty return means
// no match or an empty match; use FindStringIndex to tell them apart.
func (p *Pattern) FindString(s string) (string, error) {
	m, err := p.eng.FirstMatch([]byte(s))
	if err != nil || m == nil {
		return "", err
	}
	return m.String(), nil
}

// FindIndex returns the span of the leftmost match as [start, end), nil
// when there is none.
func (p *Pattern) FindIndex(b []byte) ([]int, error) {
	m, err := p.eng.FirstMatch(b)
	if err != nil || m == nil {
		return nil, err
	}
	return []int{m.Start(), m.End()}, nil
}

// FindStringIndex is FindIndex for a string input.
func (p *Pattern) FindStringIndex(s string) ([]int, error) {
	return p.FindIndex([]byte(s))
}

// FindAll returns the text of every match, at most n when n > 0. A nil
// result means no matches.
//
// Example:
//
//	p := uregex.MustCompile(`\d+`)
//	all, _ := p.FindAll([]byte("1 22 333"), -1)
//	// all = [][]byte{[]byte("1"), []byte("22"), []byte("333")}
func (p *Pattern) FindAll(b []byte, n int) ([][]byte, error) {
	ms, err := p.collect(b, n)
	if err != nil || len(ms) == 0 {
		return nil, err
	}
	out := make([][]byte, len(ms))
	for i, m := range ms {
		out[i] = m.Bytes()
	}
	return out, nil
}

// FindAllString is FindAll for a string input.
func (p *Pattern) FindAllString(s string, n int) ([]string, error) {
	ms, err := p.collect([]byte(s), n)
	if err != nil || len(ms) == 0 {
		return nil, err
	}
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.String()
	}
	return out, nil
}

// FindAllIndex returns the spans of every match as [start, end) pairs, at
// most n when n > 0.
//
// Example:
//
//	p := uregex.MustCompile(`\d+`)
//	spans, _ := p.FindAllIndex([]byte("1 2 3"), -1)
//	// spans = [][]int{{0,1}, {2,3}, {4,5}}
func (p *Pattern) FindAllIndex(b []byte, n int) ([][]int, error) {
	ms, err := p.collect(b, n)
	if err != nil || len(ms) == 0 {
		return nil, err
	}
	out := make([][]int, len(ms))
	for i, m := range ms {
		out[i] = []int{m.Start(), m.End()}
	}
	return out, nil
}

// FindAllStringIndex is FindAllIndex for a string input.
func (p *Pattern) FindAllStringIndex(s string, n int) ([][]int, error) {
	return p.FindAllIndex([]byte(s), n)
}

// FindAllMatches returns every match with its capture slots, at most n when
// n > 0.
func (p *Pattern) FindAllMatches(b []byte, n int) ([]*Match, error) {
	return p.collect(b, n)
}

// Count returns the number of non-overlapping matches, at most n when
// n > 0.
//
// Example:
//
//	p := uregex.MustCompile(`\d+`)
//	c, _ := p.Count([]byte("1 2 3 4 5"), -1) // 5
func (p *Pattern) Count(b []byte, n int) (int, error) {
	ms, err := p.collect(b, n)
	return len(ms), err
}

// CountString is Count for a string input.
func (p *Pattern) CountString(s string, n int) (int, error) {
	return p.Count([]byte(s), n)
}

// TrimPrefix returns the input with a leading match removed. Input without
// a leading match comes back unchanged.
//
// Example:
//
//	p := uregex.MustCompile(`\s+`)
//	b, _ := p.TrimPrefix([]byte("   x")) // []byte("x")
func (p *Pattern) TrimPrefix(b []byte) ([]byte, error) {
	m, err := p.eng.PrefixMatch(b)
	if err != nil || m == nil {
		return b, err
	}
	return b[m.End():], nil
}

// TrimPrefixString is TrimPrefix for a string input.
func (p *Pattern) TrimPrefixString(s string) (string, error) {
	m, err := p.eng.PrefixMatch([]byte(s))
	if err != nil || m == nil {
		return s, err
	}
	return s[m.End():], nil
}
