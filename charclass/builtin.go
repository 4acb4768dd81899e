package charclass

import (
	"unicode"

	"github.com/coregx/uregex/option"
)

// Builtin names a built-in class. The core escapes (\d, \w, \s, \h, \v) and
// the POSIX bracket names ([[:alpha:]], ...) share one namespace; [[:digit:]]
// is Digit, [[:space:]] is Whitespace, and so on.
type Builtin uint8

const (
	// Digit is \d: decimal digits (Unicode Nd).
	Digit Builtin = iota
	// HexDigit is \h in some dialects and [[:xdigit:]] here: scalars with
	// the Hex_Digit property.
	HexDigit
	// Word is \w: letters, marks, decimal digits, connector punctuation
	// and join controls.
	Word
	// Whitespace is \s: scalars with the White_Space property.
	Whitespace
	// HorizSpace is horizontal whitespace: tab and space separators (Zs).
	HorizSpace
	// VertSpace is vertical whitespace: line and paragraph separators.
	VertSpace
	// Alnum is [[:alnum:]].
	Alnum
	// Alpha is [[:alpha:]].
	Alpha
	// ASCII is [[:ascii:]]: scalars below U+0080.
	ASCII
	// Blank is [[:blank:]]: tab and space separators.
	Blank
	// Cntrl is [[:cntrl:]].
	Cntrl
	// Graph is [[:graph:]]: graphic scalars excluding whitespace.
	Graph
	// Lower is [[:lower:]].
	Lower
	// Print is [[:print:]]: graphic scalars and spaces.
	Print
	// Punct is [[:punct:]]: punctuation and symbols.
	Punct
	// Upper is [[:upper:]].
	Upper

	numBuiltins // count; keep last
)

// String returns the escape or POSIX spelling of the builtin.
func (b Builtin) String() string {
	switch b {
	case Digit:
		return `\d`
	case HexDigit:
		return "[:xdigit:]"
	case Word:
		return `\w`
	case Whitespace:
		return `\s`
	case HorizSpace:
		return `\h`
	case VertSpace:
		return `\v`
	case Alnum:
		return "[:alnum:]"
	case Alpha:
		return "[:alpha:]"
	case ASCII:
		return "[:ascii:]"
	case Blank:
		return "[:blank:]"
	case Cntrl:
		return "[:cntrl:]"
	case Graph:
		return "[:graph:]"
	case Lower:
		return "[:lower:]"
	case Print:
		return "[:print:]"
	case Punct:
		return "[:punct:]"
	case Upper:
		return "[:upper:]"
	default:
		return "[:invalid:]"
	}
}

// rule returns the builtin's grapheme extension rule. Numeric classes accept
// only clusters that compose to one scalar; everything else classifies a
// cluster by its first scalar.
func (b Builtin) rule() Rule {
	switch b {
	case Digit, HexDigit:
		return RuleSingleScalar
	default:
		return RuleFirstScalar
	}
}

// family returns the ASCII-only option bit that switches the builtin to its
// ASCII definition.
func (b Builtin) family() option.ASCIIMode {
	switch b {
	case Digit, HexDigit:
		return option.ASCIIDigit
	case Whitespace, HorizSpace, VertSpace, Blank:
		return option.ASCIISpace
	case Word:
		return option.ASCIIWord
	case ASCII:
		return 0 // ASCII by definition
	default:
		return option.ASCIIOther
	}
}

// memberUnicode reports scalar membership under the full Unicode definition.
func (b Builtin) memberUnicode(r rune) bool {
	switch b {
	case Digit:
		return unicode.IsDigit(r)
	case HexDigit:
		return unicode.Is(unicode.Hex_Digit, r)
	case Word:
		return IsWordScalar(r)
	case Whitespace:
		return unicode.IsSpace(r)
	case HorizSpace, Blank:
		return r == '\t' || unicode.Is(unicode.Zs, r)
	case VertSpace:
		switch r {
		case '\n', '\v', '\f', '\r', 0x85, 0x2028, 0x2029:
			return true
		}
		return false
	case Alnum:
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	case Alpha:
		return unicode.IsLetter(r)
	case ASCII:
		return r < 0x80
	case Cntrl:
		return unicode.IsControl(r)
	case Graph:
		return unicode.IsGraphic(r) && !unicode.IsSpace(r)
	case Lower:
		return unicode.IsLower(r)
	case Print:
		return unicode.IsPrint(r)
	case Punct:
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	case Upper:
		return unicode.IsUpper(r)
	default:
		return false
	}
}

// memberASCII reports scalar membership under the ASCII-only definition.
func (b Builtin) memberASCII(r rune) bool {
	if r >= 0x80 {
		return false
	}
	c := byte(r)
	switch b {
	case Digit:
		return c >= '0' && c <= '9'
	case HexDigit:
		return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
	case Word:
		return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
	case Whitespace:
		return c == ' ' || c >= '\t' && c <= '\r'
	case HorizSpace, Blank:
		return c == ' ' || c == '\t'
	case VertSpace:
		return c >= '\n' && c <= '\r'
	default:
		// The remaining POSIX classes coincide with their Unicode
		// definitions below U+0080.
		return b.memberUnicode(r)
	}
}

// member reports scalar membership, honoring the ASCII-only option for the
// builtin's family.
func (b Builtin) member(r rune, mode option.ASCIIMode) bool {
	if f := b.family(); f != 0 && mode.Has(f) {
		return b.memberASCII(r)
	}
	return b.memberUnicode(r)
}

// IsWordScalar reports whether r is a word scalar: a letter, mark, decimal
// digit, connector punctuation, or join control. The simple word-boundary
// algorithm classifies elements with this predicate, so \b and \w agree.
func IsWordScalar(r rune) bool {
	return unicode.IsLetter(r) ||
		unicode.Is(unicode.M, r) ||
		unicode.Is(unicode.Nd, r) ||
		unicode.Is(unicode.Pc, r) ||
		unicode.Is(unicode.Join_Control, r)
}

// LookupProperty resolves a \p{...} name against the general categories,
// scripts and binary properties of the unicode package. The special name
// "Any" matches every scalar.
func LookupProperty(name string) (*unicode.RangeTable, bool) {
	if name == "Any" {
		return anyTable, true
	}
	if t, ok := unicode.Categories[name]; ok {
		return t, true
	}
	if t, ok := unicode.Scripts[name]; ok {
		return t, true
	}
	if t, ok := unicode.Properties[name]; ok {
		return t, true
	}
	return nil, false
}

var anyTable = &unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0, Hi: 0xFFFF, Stride: 1}},
	R32: []unicode.Range32{{Lo: 0x10000, Hi: 0x10FFFF, Stride: 1}},
}
