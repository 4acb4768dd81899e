package uregex

import (
	"errors"
	"strings"
	"testing"

	"github.com/coregx/uregex/builder"
	"github.com/coregx/uregex/ir"
	"github.com/coregx/uregex/option"
	"github.com/coregx/uregex/syntax"
)

func TestCompile(t *testing.T) {
	patterns := []string{
		"",
		"abc",
		`\d+`,
		`(?P<user>\w+)@(?P<host>\w+)`,
		`(?i)café`,
		`a{2,5}?`,
		`(?>x+)y`,
		`(?<=ab)c`,
		`[\q{ch}a-z]+`,
	}
	for _, pat := range patterns {
		p, err := Compile(pat)
		if err != nil {
			t.Errorf("Compile(%q) = %v, want nil error", pat, err)
			continue
		}
		if got := p.String(); got != pat {
			t.Errorf("Compile(%q).String() = %q", pat, got)
		}
	}
}

func TestCompileErrors(t *testing.T) {
	bad := []string{
		"a(",
		"[a-",
		"a{3,2}",
		"*a",
		"(?P<x>a)(?P<x>b)",
		"(?C{nope})",
		`\p{Zzzz}`,
		"(?Q)a",
	}
	for _, pat := range bad {
		_, err := Compile(pat)
		if err == nil {
			t.Errorf("Compile(%q) succeeded, want error", pat)
			continue
		}
		var ce *CompileError
		if !errors.As(err, &ce) {
			t.Errorf("Compile(%q) error is %T, want *CompileError", pat, err)
			continue
		}
		if ce.Pattern != pat {
			t.Errorf("Compile(%q): CompileError.Pattern = %q", pat, ce.Pattern)
		}
	}
}

func TestCompileSyntaxErrorUnwraps(t *testing.T) {
	_, err := Compile("a(b")
	var se *syntax.Error
	if !errors.As(err, &se) {
		t.Fatalf("Compile(\"a(b\") error = %v, want wrapped *syntax.Error", err)
	}
	if se.Pos != 3 {
		t.Errorf("syntax.Error.Pos = %d, want 3", se.Pos)
	}
}

func TestCompileUnboundedLookbehind(t *testing.T) {
	_, err := Compile(`(?<=a*)b`)
	if !errors.Is(err, ir.ErrUnboundedLookbehind) {
		t.Errorf("Compile((?<=a*)b) error = %v, want ErrUnboundedLookbehind", err)
	}
}

func TestMustCompilePanic(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("MustCompile(\"a(\") did not panic")
		}
		msg, ok := r.(string)
		if !ok || !strings.HasPrefix(msg, "uregex: Compile(`a(`)") {
			t.Errorf("panic value = %v", r)
		}
	}()
	MustCompile("a(")
}

func TestQuoteMeta(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"abc", "abc"},
		{"3.14 (approx)", `3\.14 \(approx\)`},
		{"a+b*c?", `a\+b\*c\?`},
		{`x\y`, `x\\y`},
		{"[a]{1}", `\[a\]\{1\}`},
		{"^up|down$", `\^up\|down\$`},
		{"café", "café"},
	}
	for _, tt := range tests {
		if got := QuoteMeta(tt.in); got != tt.want {
			t.Errorf("QuoteMeta(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestQuoteMetaMatchesLiteral(t *testing.T) {
	lit := "a.b+c (d)"
	p := MustCompile(QuoteMeta(lit))
	if ok, _ := p.MatchesString(lit); !ok {
		t.Errorf("quoted pattern does not match %q", lit)
	}
	if ok, _ := p.MatchesString("axbbc (d)"); ok {
		t.Error("quoted pattern matched an unescaped variant")
	}
}

func TestSlotNames(t *testing.T) {
	p := MustCompile(`(?P<area>\d{3})-(\d{4})`)
	if got := p.NumSlots(); got != 3 {
		t.Fatalf("NumSlots() = %d, want 3", got)
	}
	want := []string{"", "area", ""}
	got := p.SlotNames()
	if len(got) != len(want) {
		t.Fatalf("SlotNames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SlotNames()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.Level != option.LevelGrapheme {
		t.Errorf("Level = %v, want LevelGrapheme", opts.Level)
	}
	if opts.WordBoundary != option.WordBoundaryDefault {
		t.Errorf("WordBoundary = %v, want WordBoundaryDefault", opts.WordBoundary)
	}
	if opts.Repetition != option.RepeatEager {
		t.Errorf("Repetition = %v, want RepeatEager", opts.Repetition)
	}
}

func TestPatternOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.Level = option.LevelScalar
	p, err := CompileWithOptions(".", opts)
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Options().Level; got != option.LevelScalar {
		t.Errorf("Options().Level = %v, want LevelScalar", got)
	}
}

func TestCanonicalMatching(t *testing.T) {
	p := MustCompile("café")
	composed := "café"
	decomposed := "café"
	for _, input := range []string{composed, decomposed} {
		m, err := p.WholeMatchString(input)
		if err != nil {
			t.Fatal(err)
		}
		if m == nil {
			t.Errorf("WholeMatchString(%q) = nil, want match", input)
		}
	}
}

func TestFirstMatchAtString(t *testing.T) {
	p := MustCompile("ab")
	m, err := p.FirstMatchAtString("ab ab", 1)
	if err != nil {
		t.Fatal(err)
	}
	if m == nil || m.Start() != 3 || m.End() != 5 {
		t.Errorf("FirstMatchAtString(\"ab ab\", 1) = %v, want [3,5)", m)
	}
}

func TestComponentNumber(t *testing.T) {
	p := MustCompile(`(?C{number})`)

	m, err := p.FirstMatchString("x 42 y")
	if err != nil {
		t.Fatal(err)
	}
	if m == nil || m.Start() != 2 || m.End() != 4 {
		t.Fatalf("FirstMatchString(\"x 42 y\") = %v, want [2,4)", m)
	}
	n, err := As[int64](m, 1)
	if err != nil || n != 42 {
		t.Errorf("As[int64] = %d, %v, want 42", n, err)
	}

	m, err = p.FirstMatchString("pi=3.5!")
	if err != nil {
		t.Fatal(err)
	}
	if m == nil || m.String() != "3.5" {
		t.Fatalf("FirstMatchString(\"pi=3.5!\") = %v, want \"3.5\"", m)
	}
	f, err := As[float64](m, 1)
	if err != nil || f != 3.5 {
		t.Errorf("As[float64] = %v, %v, want 3.5", f, err)
	}
}

func TestCompileExpr(t *testing.T) {
	word := builder.NewRef("word")
	expr := builder.Seq(
		builder.Text("<"),
		builder.Capture(builder.OneOrMore(builder.Word()), word),
		builder.Text(">"),
	)
	p, err := CompileExpr(expr)
	if err != nil {
		t.Fatal(err)
	}
	m, err := p.FirstMatchString("a <hi> b")
	if err != nil {
		t.Fatal(err)
	}
	if m == nil || m.Start() != 2 || m.End() != 6 {
		t.Fatalf("FirstMatchString(\"a <hi> b\") = %v, want [2,6)", m)
	}
	if got := string(m.Group(word.Slot())); got != "hi" {
		t.Errorf("Group(%d) = %q, want \"hi\"", word.Slot(), got)
	}
	if got := string(m.GroupByName("word")); got != "hi" {
		t.Errorf("GroupByName(\"word\") = %q, want \"hi\"", got)
	}
	if p.String() == "" {
		t.Error("String() is empty for a built expression")
	}
}

func TestStatsReset(t *testing.T) {
	p := MustCompile(`b+`)
	if _, err := p.FirstMatchString("aabba"); err != nil {
		t.Fatal(err)
	}
	if p.Stats().Steps == 0 {
		t.Error("Stats().Steps = 0 after a search")
	}
	p.ResetStats()
	if s := p.Stats(); s.Steps != 0 || s.Backtracks != 0 {
		t.Errorf("Stats() after reset = %+v, want zeros", s)
	}
}
