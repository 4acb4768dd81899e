package segment

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/coregx/uregex/option"
)

func toStrings(bs [][]byte) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = string(b)
	}
	return out
}

func TestWordsContraction(t *testing.T) {
	input := []byte("I can't do that.")

	got := toStrings(Words(input))
	want := []string{"I", "can't", "do", "that", "."}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Words() mismatch (-want +got):\n%s", diff)
	}

	got = toStrings(SimpleWords(input))
	want = []string{"I", "can", "t", "do", "that"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SimpleWords() mismatch (-want +got):\n%s", diff)
	}
}

func TestWordsUnicode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"spaces only", "   ", nil},
		{"accented", "café au lait", []string{"café", "au", "lait"}},
		{"numbers stay whole", "3.14 is pi", []string{"3.14", "is", "pi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toStrings(Words([]byte(tt.input)))
			if tt.want == nil {
				if len(got) != 0 {
					t.Errorf("Words(%q) = %v, want none", tt.input, got)
				}
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Words(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestIsWordBoundarySimple(t *testing.T) {
	// I=0 space=1 c=2 a=3 n=4 '=5 t=6 space=7 d=8 o=9 space=10
	// t=11 h=12 a=13 t=14 .=15 end=16
	input := []byte("I can't do that.")
	tx := NewText(input)

	boundaries := map[int]bool{
		0: true, 1: true, 2: true, 5: true, 6: true, 7: true,
		8: true, 10: true, 11: true, 15: true,
	}
	for pos := 0; pos <= len(input); pos++ {
		want := boundaries[pos]
		got := tx.IsWordBoundary(pos, option.WordBoundarySimple, option.LevelGrapheme)
		if got != want {
			t.Errorf("simple boundary at %d = %v, want %v", pos, got, want)
		}
	}
}

func TestIsWordBoundaryDefault(t *testing.T) {
	input := []byte("I can't do that.")
	tx := NewText(input)

	// Unicode word segmentation keeps "can't" whole, so the positions
	// around the apostrophe are not boundaries; both input ends are.
	boundaries := map[int]bool{
		0: true, 1: true, 2: true, 7: true,
		8: true, 10: true, 11: true, 15: true, 16: true,
	}
	for pos := 0; pos <= len(input); pos++ {
		want := boundaries[pos]
		got := tx.IsWordBoundary(pos, option.WordBoundaryDefault, option.LevelGrapheme)
		if got != want {
			t.Errorf("default boundary at %d = %v, want %v", pos, got, want)
		}
	}
}

func TestWordBoundaryAlgorithmsDiverge(t *testing.T) {
	input := []byte("can't")
	tx := NewText(input)

	// Between "n" and the apostrophe.
	if !tx.IsWordBoundary(3, option.WordBoundarySimple, option.LevelGrapheme) {
		t.Error("simple algorithm should put a boundary before the apostrophe")
	}
	if tx.IsWordBoundary(3, option.WordBoundaryDefault, option.LevelGrapheme) {
		t.Error("default algorithm should keep the contraction whole")
	}
}

func TestWordBoundaryOutOfRange(t *testing.T) {
	tx := NewText([]byte("ab"))
	if tx.IsWordBoundary(-1, option.WordBoundarySimple, option.LevelGrapheme) {
		t.Error("negative position is not a boundary")
	}
	if tx.IsWordBoundary(3, option.WordBoundaryDefault, option.LevelGrapheme) {
		t.Error("past-the-end position is not a boundary")
	}
}

func TestWordBoundaryScalarLevel(t *testing.T) {
	// A combining mark is a word scalar, so at scalar level the position
	// between base and mark separates two word elements.
	input := []byte("é x")
	tx := NewText(input)

	if tx.IsWordBoundary(1, option.WordBoundarySimple, option.LevelScalar) {
		t.Error("no boundary between base and combining mark")
	}
	if !tx.IsWordBoundary(3, option.WordBoundarySimple, option.LevelScalar) {
		t.Error("boundary expected between mark and space")
	}
}
