package charclass

import (
	"testing"

	"github.com/coregx/uregex/option"
)

func opts() option.Options { return option.Defaults() }

func TestBuiltinScalar(t *testing.T) {
	tests := []struct {
		name    string
		builtin Builtin
		r       rune
		want    bool
	}{
		{"ascii digit", Digit, '5', true},
		{"arabic-indic digit", Digit, '٥', true},
		{"letter is not digit", Digit, 'x', false},
		{"hex digit", HexDigit, 'f', true},
		{"fullwidth hex digit", HexDigit, 'Ａ', true}, // ＡFULLWIDTH A
		{"g is not hex", HexDigit, 'g', false},
		{"word letter", Word, 'a', true},
		{"word underscore", Word, '_', true},
		{"word accented", Word, 'é', true},
		{"word combining mark", Word, '́', true},
		{"space is not word", Word, ' ', false},
		{"space", Whitespace, ' ', true},
		{"no-break space", Whitespace, ' ', true},
		{"letter is not space", Whitespace, 'x', false},
		{"horiz tab", HorizSpace, '\t', true},
		{"horiz nbsp", HorizSpace, ' ', true},
		{"newline is not horiz", HorizSpace, '\n', false},
		{"vert newline", VertSpace, '\n', true},
		{"vert line sep", VertSpace, ' ', true},
		{"tab is not vert", VertSpace, '\t', false},
		{"alpha", Alpha, 'Ω', true},
		{"upper", Upper, 'A', true},
		{"upper rejects lower", Upper, 'a', false},
		{"punct", Punct, '!', true},
		{"punct symbol", Punct, '+', true},
		{"ascii class", ASCII, '~', true},
		{"ascii class rejects high", ASCII, 'é', false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := FromBuiltin(tt.builtin)
			if got := c.ContainsScalar(tt.r, opts()); got != tt.want {
				t.Errorf("ContainsScalar(%q) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

func TestBuiltinASCIIMode(t *testing.T) {
	tests := []struct {
		name    string
		builtin Builtin
		mode    option.ASCIIMode
		r       rune
		want    bool
	}{
		{"digit gated", Digit, option.ASCIIDigit, '٥', false},
		{"digit kept", Digit, option.ASCIIDigit, '7', true},
		{"digit ungated by word flag", Digit, option.ASCIIWord, '٥', true},
		{"word gated", Word, option.ASCIIWord, 'é', false},
		{"word kept", Word, option.ASCIIWord, '_', true},
		{"space gated", Whitespace, option.ASCIISpace, ' ', false},
		{"space kept", Whitespace, option.ASCIISpace, '\t', true},
		{"alpha gated by other", Alpha, option.ASCIIOther, 'Ω', false},
		{"alpha under all", Alpha, option.ASCIIAll, 'Ω', false},
		{"alpha kept under all", Alpha, option.ASCIIAll, 'q', true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := opts()
			o.ASCIIClasses = tt.mode
			c := FromBuiltin(tt.builtin)
			if got := c.ContainsScalar(tt.r, o); got != tt.want {
				t.Errorf("ContainsScalar(%q) mode %v = %v, want %v", tt.r, tt.mode, got, tt.want)
			}
		})
	}
}

func TestSetScalar(t *testing.T) {
	vowels := FromScalars('a', 'e', 'i', 'o', 'u')
	lower := FromRanges(Range{'a', 'z'})

	tests := []struct {
		name  string
		class *Class
		fold  bool
		r     rune
		want  bool
	}{
		{"scalar member", vowels, false, 'e', true},
		{"scalar non-member", vowels, false, 'x', false},
		{"range member", lower, false, 'q', true},
		{"range edge lo", lower, false, 'a', true},
		{"range edge hi", lower, false, 'z', true},
		{"range non-member", lower, false, 'A', false},
		{"folded range member", lower, true, 'A', true},
		{"folded scalar member", vowels, true, 'E', true},
		{"fold does not invent", vowels, true, 'x', false},
		{"kelvin folds to k", FromScalars('k'), true, 'K', true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := opts()
			o.CaseInsensitive = tt.fold
			if got := tt.class.ContainsScalar(tt.r, o); got != tt.want {
				t.Errorf("ContainsScalar(%q) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

func TestAlgebra(t *testing.T) {
	lower := FromRanges(Range{'a', 'z'})
	vowels := FromScalars('a', 'e', 'i', 'o', 'u')

	tests := []struct {
		name  string
		class *Class
		r     rune
		want  bool
	}{
		{"union hit left", Union(vowels, FromScalars('9')), 'a', true},
		{"union hit right", Union(vowels, FromScalars('9')), '9', true},
		{"union miss", Union(vowels, FromScalars('9')), 'b', false},
		{"intersect consonant", Intersect(lower, Negate(vowels)), 'b', true},
		{"intersect vowel", Intersect(lower, Negate(vowels)), 'a', false},
		{"subtract keeps", Subtract(lower, vowels), 'z', true},
		{"subtract removes", Subtract(lower, vowels), 'o', false},
		{"symdiff one side", SymDiff(lower, vowels), 'b', true},
		{"symdiff both sides", SymDiff(lower, vowels), 'a', false},
		{"negate member", Negate(lower), 'g', false},
		{"negate non-member", Negate(lower), '!', true},
		{"double negate collapses", Negate(Negate(lower)), 'g', true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.class.ContainsScalar(tt.r, opts()); got != tt.want {
				t.Errorf("ContainsScalar(%q) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

func TestUnionMergesSetLeaves(t *testing.T) {
	c := Union(FromScalars('a'), FromRanges(Range{'0', '9'}), FromScalars('_'))
	if c.op != opSet {
		t.Fatalf("Union of set leaves has op %d, want single set leaf", c.op)
	}
	for _, r := range []rune{'a', '5', '_'} {
		if !c.ContainsScalar(r, opts()) {
			t.Errorf("merged set should contain %q", r)
		}
	}
	if c.ContainsScalar('b', opts()) {
		t.Error("merged set should not contain 'b'")
	}
}

func TestProperty(t *testing.T) {
	greek, ok := LookupProperty("Greek")
	if !ok {
		t.Fatal("LookupProperty(Greek) failed")
	}
	lu, ok := LookupProperty("Lu")
	if !ok {
		t.Fatal("LookupProperty(Lu) failed")
	}
	if _, ok := LookupProperty("NoSuchProperty"); ok {
		t.Error("LookupProperty accepted an unknown name")
	}
	anyT, ok := LookupProperty("Any")
	if !ok {
		t.Fatal("LookupProperty(Any) failed")
	}

	tests := []struct {
		name  string
		class *Class
		fold  bool
		r     rune
		want  bool
	}{
		{"greek alpha", FromProperty("Greek", greek), false, 'α', true},
		{"latin not greek", FromProperty("Greek", greek), false, 'a', false},
		{"uppercase", FromProperty("Lu", lu), false, 'A', true},
		{"lowercase not Lu", FromProperty("Lu", lu), false, 'a', false},
		{"folded Lu takes lowercase", FromProperty("Lu", lu), true, 'a', true},
		{"any property", FromProperty("Any", anyT), false, '\U0001F600', true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := opts()
			o.CaseInsensitive = tt.fold
			if got := tt.class.ContainsScalar(tt.r, o); got != tt.want {
				t.Errorf("ContainsScalar(%q) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

func TestContainsCluster(t *testing.T) {
	decomposedE := "é" // é as base plus combining acute
	digitWithMark := "5́"

	tests := []struct {
		name    string
		class   *Class
		cluster string
		want    bool
	}{
		// Numeric classes take only single-scalar clusters.
		{"digit plain", FromBuiltin(Digit), "5", true},
		{"digit with mark", FromBuiltin(Digit), digitWithMark, false},
		// Word classifies by first scalar.
		{"word accented cluster", FromBuiltin(Word), decomposedE, true},
		{"word space cluster", FromBuiltin(Word), " ", false},
		// Ranges admit clusters that compose to one scalar.
		{"composed into latin-1 range", FromRanges(Range{'À', 'ÿ'}), decomposedE, true},
		{"no spurious ascii range hit", FromRanges(Range{'a', 'z'}), decomposedE, false},
		{"digit cluster in ascii range", FromRanges(Range{'0', '9'}), digitWithMark, false},
		// Explicit sequence members compare canonically.
		{"decomposed member composed probe", FromSequences(decomposedE), "é", true},
		{"composed member decomposed probe", FromSequences("é"), decomposedE, true},
		{"sequence member mismatch", FromSequences(decomposedE), "e", false},
		// Any and its newline-excluding variant.
		{"any takes emoji", Any(), "\U0001F469‍\U0001F680", true},
		{"any takes newline", Any(), "\n", true},
		{"dot rejects newline", AnyNoNewline(), "\n", false},
		{"dot rejects crlf cluster", AnyNoNewline(), "\r\n", false},
		{"dot takes emoji", AnyNoNewline(), "\U0001F600", true},
		// Negation at cluster level.
		{"negated digit takes letter", Negate(FromBuiltin(Digit)), "x", true},
		{"negated digit rejects digit", Negate(FromBuiltin(Digit)), "8", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.class.ContainsCluster([]byte(tt.cluster), opts()); got != tt.want {
				t.Errorf("ContainsCluster(%q) = %v, want %v", tt.cluster, got, tt.want)
			}
		})
	}
}

func TestContainsClusterFold(t *testing.T) {
	o := opts()
	o.CaseInsensitive = true

	upper := FromRanges(Range{'A', 'Z'})
	if !upper.ContainsCluster([]byte("q"), o) {
		t.Error("folded [A-Z] should take 'q'")
	}

	seq := FromSequences("É")
	if !seq.ContainsCluster([]byte("é"), o) {
		t.Error("folded sequence member should take composed lowercase probe")
	}
}

func TestSequencesSplitSingleScalars(t *testing.T) {
	c := FromSequences("a", "é")
	if !c.ContainsScalar('a', opts()) {
		t.Error("single-scalar sequence member should match at scalar level")
	}
	if c.ContainsScalar('e', opts()) {
		t.Error("multi-scalar member must not match a lone scalar")
	}
}

func TestIsWordScalar(t *testing.T) {
	tests := []struct {
		r    rune
		want bool
	}{
		{'a', true},
		{'Z', true},
		{'0', true},
		{'_', true},
		{'é', true},
		{'́', true}, // combining mark
		{'‍', true}, // zero-width joiner
		{' ', false},
		{'-', false},
		{'\'', false},
	}

	for _, tt := range tests {
		if got := IsWordScalar(tt.r); got != tt.want {
			t.Errorf("IsWordScalar(%q) = %v, want %v", tt.r, got, tt.want)
		}
	}
}

func TestStrings(t *testing.T) {
	if got := FromBuiltin(Digit).String(); got != `\d` {
		t.Errorf("Digit.String() = %q", got)
	}
	if got := FromScalars('a', 'b').String(); got != "[ab]" {
		t.Errorf("set String() = %q", got)
	}
	if got := Negate(FromBuiltin(Word)).String(); got != `[^\w]` {
		t.Errorf("negate String() = %q", got)
	}
	if got := Intersect(FromRanges(Range{'a', 'z'}), FromScalars('q')).String(); got != "[[a-z]&&[q]]" {
		t.Errorf("intersect String() = %q", got)
	}
	if got := RuleFirstScalar.String(); got != "first-scalar" {
		t.Errorf("Rule.String() = %q", got)
	}
}
