package segment

import (
	"testing"

	"github.com/coregx/uregex/option"
)

func TestClustersASCII(t *testing.T) {
	c := NewClusters([]byte("abc"))

	if got := c.Count(); got != 3 {
		t.Errorf("Count() = %d, want 3", got)
	}
	for _, pos := range []int{0, 1, 2, 3} {
		if !c.IsBoundary(pos) {
			t.Errorf("IsBoundary(%d) = false, want true", pos)
		}
	}
	if c.IsBoundary(-1) || c.IsBoundary(4) {
		t.Error("out-of-range positions must not be boundaries")
	}
	if got := c.Next(0); got != 1 {
		t.Errorf("Next(0) = %d, want 1", got)
	}
	if got := c.Prev(3); got != 2 {
		t.Errorf("Prev(3) = %d, want 2", got)
	}
}

func TestClustersCRLF(t *testing.T) {
	c := NewClusters([]byte("a\r\nb"))

	if got := c.Count(); got != 3 {
		t.Errorf("Count() = %d, want 3 (CRLF is one cluster)", got)
	}
	if c.IsBoundary(2) {
		t.Error("IsBoundary(2) = true, want false between CR and LF")
	}
	if got := c.Next(1); got != 3 {
		t.Errorf("Next(1) = %d, want 3", got)
	}
	if got := c.Prev(3); got != 1 {
		t.Errorf("Prev(3) = %d, want 1", got)
	}
}

func TestClustersUnicode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		count int
	}{
		{"decomposed accent", "é", 1},
		{"composed accent", "é", 1},
		{"cafe decomposed", "café", 4},
		{"astronaut zwj sequence", "\U0001F469‍\U0001F680", 1},
		{"flag pair", "\U0001F1EB\U0001F1F7", 1},
		{"hangul jamo", "각", 1},
		{"mixed", "aé\U0001F600", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClusters([]byte(tt.input))
			if got := c.Count(); got != tt.count {
				t.Errorf("Count(%q) = %d, want %d", tt.input, got, tt.count)
			}
		})
	}
}

func TestClustersNextPrevDecomposed(t *testing.T) {
	// "e" + combining acute is 3 bytes, one cluster.
	c := NewClusters([]byte("xéy"))

	if got := c.Next(1); got != 4 {
		t.Errorf("Next(1) = %d, want 4", got)
	}
	if got := c.Prev(4); got != 1 {
		t.Errorf("Prev(4) = %d, want 1", got)
	}
	if c.IsBoundary(2) || c.IsBoundary(3) {
		t.Error("positions inside the cluster must not be boundaries")
	}
}

func TestTextElements(t *testing.T) {
	data := []byte("éx")
	tx := NewText(data)

	// Grapheme level steps over the whole cluster.
	if got := tx.NextElement(0, option.LevelGrapheme); got != 3 {
		t.Errorf("NextElement(0, grapheme) = %d, want 3", got)
	}
	// Scalar level steps one scalar.
	if got := tx.NextElement(0, option.LevelScalar); got != 1 {
		t.Errorf("NextElement(0, scalar) = %d, want 1", got)
	}
	if got := tx.PrevElement(3, option.LevelGrapheme); got != 0 {
		t.Errorf("PrevElement(3, grapheme) = %d, want 0", got)
	}
	if got := tx.PrevElement(3, option.LevelScalar); got != 1 {
		t.Errorf("PrevElement(3, scalar) = %d, want 1", got)
	}

	el, end := tx.ElementAt(0, option.LevelGrapheme)
	if string(el) != "é" || end != 3 {
		t.Errorf("ElementAt(0, grapheme) = %q, %d", el, end)
	}
}

func TestTextReset(t *testing.T) {
	tx := NewText([]byte("abc"))
	tx.Clusters()
	tx.IsWordBoundary(1, option.WordBoundaryDefault, option.LevelGrapheme)

	tx.Reset([]byte("xyzw"))
	if tx.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", tx.Len())
	}
	if got := tx.Clusters().Count(); got != 4 {
		t.Errorf("Count() after Reset = %d, want 4", got)
	}
	if !tx.IsWordBoundary(4, option.WordBoundaryDefault, option.LevelGrapheme) {
		t.Error("end of new input should be a word boundary")
	}
}

func TestDecompose(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abc", "abc"},
		{"café", "café"},
		{"café", "café"},
		{"ṩ", "ṩ"}, // s with dot below and dot above
	}

	for _, tt := range tests {
		if got := Decompose(tt.in); got != tt.want {
			t.Errorf("Decompose(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCompose(t *testing.T) {
	if got := Compose("é"); got != "é" {
		t.Errorf("Compose(e+mark) = %q, want é", got)
	}
	if got := Compose("plain"); got != "plain" {
		t.Errorf("Compose(plain) = %q", got)
	}
}

func TestEqualNFD(t *testing.T) {
	tests := []struct {
		name string
		span string
		nfd  string
		fold bool
		want bool
	}{
		{"ascii equal", "abc", "abc", false, true},
		{"ascii unequal", "abc", "abd", false, false},
		{"ascii folded", "ABC", "abc", true, true},
		{"composed span vs decomposed literal", "é", "é", false, true},
		{"decomposed span vs decomposed literal", "é", "é", false, true},
		{"folded composed", "É", "é", true, true},
		{"unrelated", "è", "é", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EqualNFD([]byte(tt.span), tt.nfd, tt.fold); got != tt.want {
				t.Errorf("EqualNFD(%q, %q, %v) = %v, want %v", tt.span, tt.nfd, tt.fold, got, tt.want)
			}
		})
	}
}

func TestCanonicalEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"identical ascii", "cafe", "cafe", true},
		{"different ascii", "cafe", "face", false},
		{"composed vs decomposed", "café", "café", true},
		{"mark order normalizes", "q̣̇", "q̣̇", true},
		{"distinct accents", "é", "è", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanonicalEqual([]byte(tt.a), []byte(tt.b)); got != tt.want {
				t.Errorf("CanonicalEqual(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCanonicalEqualFold(t *testing.T) {
	if !CanonicalEqualFold([]byte("CAFÉ"), []byte("café")) {
		t.Error("folded canonical comparison should match")
	}
	if CanonicalEqualFold([]byte("cafe"), []byte("cafes")) {
		t.Error("different lengths must not match")
	}
}
