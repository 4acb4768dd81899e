// Package uregex provides Unicode-aware pattern matching for Go.
//
// uregex matches at the level of what a reader sees rather than raw code
// points:
//   - Grapheme clusters are the default unit: `.` consumes one user-visible
//     character, however many scalars encode it
//   - Canonical equivalence: composed and decomposed forms of the same text
//     match each other, in both pattern and input
//   - Ordered choice: alternation tries branches left to right and commits
//     to the first that lets the rest of the pattern succeed
//   - Possessive and atomic constructs, lookaround, and external component
//     parsers spliced into a pattern as single matching steps
//
// Basic usage:
//
//	// Compile a pattern
//	p, err := uregex.Compile(`(?P<word>\w+)`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Find the first match
//	m, err := p.FirstMatchString("¡hola mundo!")
//	if m != nil {
//	    fmt.Println(m.String()) // "hola"
//	}
//
// A nil match with a nil error means the input simply did not match. Errors
// report failures of evaluation: an aborted external component or an
// exhausted step budget.
//
// Advanced usage:
//
//	// Custom options
//	opts := uregex.DefaultOptions()
//	opts.Level = option.LevelScalar // match code points, not clusters
//	p, err := uregex.CompileWithOptions(`a.c`, opts)
//
// Patterns can also be assembled programmatically with the builder package
// and compiled with CompileExpr; captures then resolve through builder.Ref
// identities instead of group numbers.
package uregex

import (
	"github.com/coregx/uregex/builder"
	"github.com/coregx/uregex/component"
	"github.com/coregx/uregex/engine"
	"github.com/coregx/uregex/option"
	"github.com/coregx/uregex/syntax"
)

// Match is one successful match with its capture slots. See engine.Match
// for the accessor set.
type Match = engine.Match

// Stats counts matching work across all calls on one Pattern.
type Stats = engine.Stats

// Pattern is a compiled pattern.
//
// A Pattern is immutable and safe for concurrent use; per-call match state
// lives in a pool inside the engine.
//
// Example:
//
//	p := uregex.MustCompile(`café`)
//	ok, _ := p.MatchesString("café") // true: canonically equivalent
type Pattern struct {
	eng     *engine.Engine
	pattern string
}

// Compile compiles a pattern under default options: grapheme-cluster level,
// Unicode default word boundaries, eager repetition.
//
// Example:
//
//	p, err := uregex.Compile(`\d{3}-\d{4}`)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string) (*Pattern, error) {
	return CompileWithOptions(pattern, option.Defaults())
}

// CompileWithOptions compiles a pattern under the given global options.
// External component names resolve against component.Default; use
// CompileWithRegistry to supply your own consumers.
func CompileWithOptions(pattern string, opts option.Options) (*Pattern, error) {
	return CompileWithRegistry(pattern, opts, nil)
}

// CompileWithRegistry compiles a pattern resolving (?C{name}) references
// against reg. A nil reg means component.Default.
func CompileWithRegistry(pattern string, opts option.Options, reg *component.Registry) (*Pattern, error) {
	tree, err := syntax.Parse(pattern, opts, reg)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	eng, err := engine.New(tree)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	return &Pattern{eng: eng, pattern: pattern}, nil
}

// MustCompile is Compile for patterns known to be valid; it panics on error.
//
// Example:
//
//	var emailPattern = uregex.MustCompile(`[a-z]+@[a-z]+\.[a-z]+`)
func MustCompile(pattern string) *Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic("uregex: Compile(`" + pattern + "`): " + err.Error())
	}
	return p
}

// CompileExpr compiles a builder expression under default options.
//
// Example:
//
//	num := builder.NewRef("num")
//	expr := builder.Seq(
//	    builder.Capture(builder.OneOrMore(builder.Digit()), num),
//	    builder.Text("px"),
//	)
//	p, err := uregex.CompileExpr(expr)
func CompileExpr(e builder.Expr) (*Pattern, error) {
	return CompileExprWithOptions(e, option.Defaults())
}

// CompileExprWithOptions compiles a builder expression under the given
// global options.
func CompileExprWithOptions(e builder.Expr, opts option.Options) (*Pattern, error) {
	tree, err := builder.Build(e, opts, nil)
	if err != nil {
		return nil, &CompileError{Err: err}
	}
	eng, err := engine.New(tree)
	if err != nil {
		return nil, &CompileError{Err: err}
	}
	return &Pattern{eng: eng, pattern: tree.String()}, nil
}

// DefaultOptions returns the default global options. Callers mutate the
// copy and pass it to CompileWithOptions.
func DefaultOptions() option.Options {
	return option.Defaults()
}

// QuoteMeta returns a string that escapes all pattern metacharacters in
// text; the result is a pattern matching the literal text.
//
// Example:
//
//	escaped := uregex.QuoteMeta("3.14 (approx)")
//	// escaped = `3\.14 \(approx\)`
func QuoteMeta(text string) string {
	const special = `\.+*?()|[]{}^$`

	n := 0
	for i := 0; i < len(text); i++ {
		if isSpecial(text[i], special) {
			n++
		}
	}
	if n == 0 {
		return text
	}

	buf := make([]byte, 0, len(text)+n)
	for i := 0; i < len(text); i++ {
		if isSpecial(text[i], special) {
			buf = append(buf, '\\')
		}
		buf = append(buf, text[i])
	}
	return string(buf)
}

func isSpecial(c byte, special string) bool {
	for i := 0; i < len(special); i++ {
		if c == special[i] {
			return true
		}
	}
	return false
}

// WholeMatch matches the pattern against the entire input. A nil Match with
// a nil error means no match.
//
// Example:
//
//	p := uregex.MustCompile(`a+`)
//	m, _ := p.WholeMatch([]byte("aaa")) // non-nil
//	m, _ = p.WholeMatch([]byte("aab")) // nil
func (p *Pattern) WholeMatch(b []byte) (*Match, error) {
	return p.eng.WholeMatch(b)
}

// WholeMatchString is WholeMatch for a string input.
func (p *Pattern) WholeMatchString(s string) (*Match, error) {
	return p.eng.WholeMatch([]byte(s))
}

// PrefixMatch matches the pattern at the start of the input, consuming as
// much as the pattern's repetition policies choose.
//
// Example:
//
//	p := uregex.MustCompile(`a+`)
//	m, _ := p.PrefixMatch([]byte("aaab"))
//	// m spans [0,3)
func (p *Pattern) PrefixMatch(b []byte) (*Match, error) {
	return p.eng.PrefixMatch(b)
}

// PrefixMatchString is PrefixMatch for a string input.
func (p *Pattern) PrefixMatchString(s string) (*Match, error) {
	return p.eng.PrefixMatch([]byte(s))
}

// FirstMatch finds the leftmost match in the input.
//
// Example:
//
//	p := uregex.MustCompile(`\d+`)
//	m, _ := p.FirstMatch([]byte("order 66 shipped"))
//	// m.String() == "66"
func (p *Pattern) FirstMatch(b []byte) (*Match, error) {
	return p.eng.FirstMatch(b)
}

// FirstMatchString is FirstMatch for a string input.
func (p *Pattern) FirstMatchString(s string) (*Match, error) {
	return p.eng.FirstMatch([]byte(s))
}

// FirstMatchAt finds the leftmost match starting at or after byte position
// at. The whole input stays visible to lookbehind and word-boundary
// classification; only the search start moves.
func (p *Pattern) FirstMatchAt(b []byte, at int) (*Match, error) {
	return p.eng.FirstMatchAt(b, at)
}

// FirstMatchAtString is FirstMatchAt for a string input.
func (p *Pattern) FirstMatchAtString(s string, at int) (*Match, error) {
	return p.eng.FirstMatchAt([]byte(s), at)
}

// String returns the source text the pattern was compiled from. Patterns
// built with CompileExpr return a rendering of their compiled form.
func (p *Pattern) String() string {
	return p.pattern
}

// NumSlots returns the number of capture slots, counting slot 0, the
// full match.
func (p *Pattern) NumSlots() int {
	return p.eng.Tree().Schema.Len()
}

// SlotNames returns the capture slot names indexed by slot. Slot 0 and
// unnamed groups have an empty name.
//
// Example:
//
//	p := uregex.MustCompile(`(?P<area>\d{3})-(\d{4})`)
//	p.SlotNames() // []string{"", "area", ""}
func (p *Pattern) SlotNames() []string {
	return p.eng.Tree().Schema.Names()
}

// Options returns the global options the pattern was compiled under.
func (p *Pattern) Options() option.Options {
	return p.eng.Tree().Options
}

// Stats returns a snapshot of the pattern's work counters.
func (p *Pattern) Stats() Stats {
	return p.eng.Stats()
}

// ResetStats zeroes the pattern's work counters.
func (p *Pattern) ResetStats() {
	p.eng.ResetStats()
}
