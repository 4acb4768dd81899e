package uregex

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    bool
	}{
		{`\d+`, "abc123", true},
		{`^x`, "yx", false},
		{"", "", true},
		{"é", "évent", true},
		{"z", "abc", false},
	}
	for _, tt := range tests {
		p := MustCompile(tt.pattern)
		got, err := p.MatchesString(tt.input)
		if err != nil {
			t.Fatalf("MatchesString(%q, %q): %v", tt.pattern, tt.input, err)
		}
		if got != tt.want {
			t.Errorf("MatchesString(%q, %q) = %v, want %v", tt.pattern, tt.input, got, tt.want)
		}
	}
}

func TestFindString(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    string
	}{
		{`\d+`, "abc123def", "123"},
		{`q+`, "abc", ""},
		{`\p{L}+`, "1héllo2", "héllo"},
	}
	for _, tt := range tests {
		p := MustCompile(tt.pattern)
		got, err := p.FindString(tt.input)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("FindString(%q, %q) = %q, want %q", tt.pattern, tt.input, got, tt.want)
		}
	}
}

func TestFindNilOnMiss(t *testing.T) {
	p := MustCompile("q")
	b, err := p.Find([]byte("abc"))
	if err != nil {
		t.Fatal(err)
	}
	if b != nil {
		t.Errorf("Find = %q, want nil", b)
	}
	idx, err := p.FindIndex([]byte("abc"))
	if err != nil {
		t.Fatal(err)
	}
	if idx != nil {
		t.Errorf("FindIndex = %v, want nil", idx)
	}
}

func TestFindIndex(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    []int
	}{
		{`\d+`, "ab12", []int{2, 4}},
		{"", "ab", []int{0, 0}},
		{"b+", "abba", []int{1, 3}},
	}
	for _, tt := range tests {
		p := MustCompile(tt.pattern)
		got, err := p.FindStringIndex(tt.input)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("FindStringIndex(%q, %q) mismatch (-want +got):\n%s", tt.pattern, tt.input, diff)
		}
	}
}

func TestFindAllStringIndex(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    [][]int
	}{
		{"a*", "baa", [][]int{{0, 0}, {1, 3}, {3, 3}}},
		{"", "ab", [][]int{{0, 0}, {1, 1}, {2, 2}}},
		{"", "", [][]int{{0, 0}}},
		{`\d+`, "1 22 333", [][]int{{0, 1}, {2, 4}, {5, 8}}},
		{"q", "ab", nil},
	}
	for _, tt := range tests {
		p := MustCompile(tt.pattern)
		got, err := p.FindAllStringIndex(tt.input, -1)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("FindAllStringIndex(%q, %q) mismatch (-want +got):\n%s", tt.pattern, tt.input, diff)
		}
	}
}

func TestFindAllString(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		n       int
		want    []string
	}{
		{`\w+`, "go is fun", -1, []string{"go", "is", "fun"}},
		{`\w+`, "go is fun", 2, []string{"go", "is"}},
		{`\w+`, "go is fun", 0, nil},
		{"a*", "baa", -1, []string{"", "aa", ""}},
	}
	for _, tt := range tests {
		p := MustCompile(tt.pattern)
		got, err := p.FindAllString(tt.input, tt.n)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("FindAllString(%q, %q, %d) mismatch (-want +got):\n%s", tt.pattern, tt.input, tt.n, diff)
		}
	}
}

// An empty match must advance by one grapheme cluster, not one byte, or the
// scan would report positions inside a cluster.
func TestFindAllEmptyAdvancesByCluster(t *testing.T) {
	p := MustCompile("")
	got, err := p.FindAllStringIndex("éx", -1)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]int{{0, 0}, {3, 3}, {4, 4}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("empty pattern over cluster mismatch (-want +got):\n%s", diff)
	}
}

func TestFindAllClusters(t *testing.T) {
	p := MustCompile(`\X`)
	got, err := p.FindAllString("aé", -1)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a", "é"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FindAllString(\\X) mismatch (-want +got):\n%s", diff)
	}
}

func TestFindAllMatches(t *testing.T) {
	p := MustCompile(`(\w+)=(\w+)`)
	ms, err := p.FindAllMatches([]byte("a=1 b=2"), -1)
	if err != nil {
		t.Fatal(err)
	}
	if len(ms) != 2 {
		t.Fatalf("FindAllMatches returned %d matches, want 2", len(ms))
	}
	if got := string(ms[0].Group(1)); got != "a" {
		t.Errorf("match 0 group 1 = %q, want \"a\"", got)
	}
	if got := string(ms[1].Group(2)); got != "2" {
		t.Errorf("match 1 group 2 = %q, want \"2\"", got)
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		n       int
		want    int
	}{
		{"a", "banana", -1, 3},
		{`\d+`, "1 2 3", 2, 2},
		{"", "ab", -1, 3},
		{"q", "ab", -1, 0},
	}
	for _, tt := range tests {
		p := MustCompile(tt.pattern)
		got, err := p.CountString(tt.input, tt.n)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("CountString(%q, %q, %d) = %d, want %d", tt.pattern, tt.input, tt.n, got, tt.want)
		}
	}
}

func TestTrimPrefix(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    string
	}{
		{`\s+`, "  x", "x"},
		{`\d+`, "abc", "abc"},
		{`#+\s*`, "## title", "title"},
		{"a*", "aab", "b"},
	}
	for _, tt := range tests {
		p := MustCompile(tt.pattern)
		got, err := p.TrimPrefixString(tt.input)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("TrimPrefixString(%q, %q) = %q, want %q", tt.pattern, tt.input, got, tt.want)
		}
	}
}
