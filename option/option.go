// Package option defines the matching options of a compiled pattern and the
// scoped option stack the engine maintains while matching.
//
// Options come in three groups:
//   - matching semantics (case sensitivity, ASCII-only classes, semantic
//     level, word-boundary algorithm, default repetition policy), which can
//     be overridden for a sub-pattern region and are therefore tracked on a
//     per-match stack,
//   - parse-time behavior (multiline anchors, dot-matches-newline), which the
//     parser resolves into distinct IR nodes and which never changes at match
//     time,
//   - engine limits (repeat cap, nesting cap, optional backtracking budget).
package option

import "fmt"

// Level selects the unit of matching: user-perceived characters (extended
// grapheme clusters) or raw Unicode scalar values.
type Level uint8

const (
	// LevelGrapheme matches one extended grapheme cluster at a time and
	// compares literals under canonical equivalence. This is the default.
	LevelGrapheme Level = iota

	// LevelScalar matches one Unicode scalar value at a time using scalar
	// identity. Multi-scalar clusters are visible as their components.
	LevelScalar
)

// String returns a human-readable name for the level.
func (l Level) String() string {
	switch l {
	case LevelGrapheme:
		return "grapheme"
	case LevelScalar:
		return "scalar"
	default:
		return fmt.Sprintf("Level(%d)", uint8(l))
	}
}

// WordBoundary selects the algorithm behind the \b anchor.
type WordBoundary uint8

const (
	// WordBoundaryDefault uses Unicode word segmentation (UAX#29), which
	// keeps contractions like "can't" together and treats emoji sequences
	// as single words. This is the default.
	WordBoundaryDefault WordBoundary = iota

	// WordBoundarySimple places a boundary wherever adjacent elements
	// differ in word / non-word classification.
	WordBoundarySimple
)

// String returns a human-readable name for the word-boundary kind.
func (w WordBoundary) String() string {
	switch w {
	case WordBoundaryDefault:
		return "default"
	case WordBoundarySimple:
		return "simple"
	default:
		return fmt.Sprintf("WordBoundary(%d)", uint8(w))
	}
}

// Repetition is the policy a quantifier follows when the pattern writer does
// not pick one explicitly with a ? or + suffix.
type Repetition uint8

const (
	// RepeatEager matches as many repetitions as possible and gives them
	// back one at a time on backtracking. This is the default.
	RepeatEager Repetition = iota

	// RepeatReluctant matches as few repetitions as possible and adds more
	// only when the remainder of the pattern fails.
	RepeatReluctant

	// RepeatPossessive matches as many repetitions as possible and refuses
	// to give any back: once the quantifier completes, backtracking cannot
	// re-enter it.
	RepeatPossessive
)

// String returns a human-readable name for the repetition policy.
func (r Repetition) String() string {
	switch r {
	case RepeatEager:
		return "eager"
	case RepeatReluctant:
		return "reluctant"
	case RepeatPossessive:
		return "possessive"
	default:
		return fmt.Sprintf("Repetition(%d)", uint8(r))
	}
}

// ASCIIMode is a bitmask selecting which built-in class families use their
// ASCII-only definitions instead of the full Unicode ones.
type ASCIIMode uint8

const (
	// ASCIIDigit restricts digit and hex-digit classes to 0-9 (a-f, A-F).
	ASCIIDigit ASCIIMode = 1 << iota

	// ASCIISpace restricts whitespace classes to the ASCII whitespace set.
	ASCIISpace

	// ASCIIWord restricts the word class to [0-9A-Za-z_].
	ASCIIWord

	// ASCIIOther restricts every remaining named class (POSIX classes,
	// Unicode properties) to its intersection with the ASCII range.
	ASCIIOther

	// ASCIIAll selects the ASCII-only definition for every class family.
	ASCIIAll = ASCIIDigit | ASCIISpace | ASCIIWord | ASCIIOther
)

// Has reports whether every bit of family is set in m.
func (m ASCIIMode) Has(family ASCIIMode) bool {
	return m&family == family
}

// Options is the effective option set at one point of a pattern.
//
// The zero value is not the default configuration; use Defaults. A pattern
// compiled with a given Options never mutates it, and one Options value may
// back any number of concurrent matches.
type Options struct {
	// CaseInsensitive folds case (simple case folding) when comparing
	// literals, class members and ranges.
	CaseInsensitive bool

	// ASCIIClasses selects ASCII-only definitions for built-in classes.
	ASCIIClasses ASCIIMode

	// Level is the semantic level: grapheme clusters or scalar values.
	Level Level

	// WordBoundary selects the \b algorithm.
	WordBoundary WordBoundary

	// Repetition is the policy of quantifiers written without an explicit
	// ? (reluctant) or + (possessive) suffix.
	Repetition Repetition

	// Multiline makes ^ and $ match at line boundaries in addition to the
	// input boundaries. Resolved at compile time into line-anchor nodes.
	Multiline bool

	// DotNewline lets the "any" class written as . also match a newline.
	// Resolved at compile time.
	DotNewline bool

	// MaxRepeat caps the n and m of counted quantifiers {n,m}.
	// Compilation fails on larger bounds. Default: 1000.
	MaxRepeat int

	// MaxNesting caps group/class nesting depth during parsing.
	// Default: 250.
	MaxNesting int

	// StepLimit, when nonzero, bounds the number of engine steps a single
	// match call may take before it aborts with a budget error. Zero means
	// unlimited; pathological patterns can then backtrack exponentially.
	StepLimit uint64
}

// Defaults returns the default option set: case-sensitive, full Unicode
// classes, grapheme-level matching, Unicode word boundaries, eager
// repetition, single-line anchors, and no step budget.
func Defaults() Options {
	return Options{
		Level:        LevelGrapheme,
		WordBoundary: WordBoundaryDefault,
		Repetition:   RepeatEager,
		MaxRepeat:    1000,
		MaxNesting:   250,
	}
}

// Validate checks the limit fields for sane ranges.
//
// Valid ranges:
//   - MaxRepeat: 1 to 100,000
//   - MaxNesting: 1 to 10,000
func (o Options) Validate() error {
	if o.MaxRepeat < 1 || o.MaxRepeat > 100_000 {
		return &Error{Field: "MaxRepeat", Message: "must be between 1 and 100,000"}
	}
	if o.MaxNesting < 1 || o.MaxNesting > 10_000 {
		return &Error{Field: "MaxNesting", Message: "must be between 1 and 10,000"}
	}
	if o.Level != LevelGrapheme && o.Level != LevelScalar {
		return &Error{Field: "Level", Message: "unknown semantic level"}
	}
	if o.WordBoundary != WordBoundaryDefault && o.WordBoundary != WordBoundarySimple {
		return &Error{Field: "WordBoundary", Message: "unknown word-boundary kind"}
	}
	if o.Repetition > RepeatPossessive {
		return &Error{Field: "Repetition", Message: "unknown repetition policy"}
	}
	return nil
}

// Error reports an invalid option field.
type Error struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return "uregex: invalid option: " + e.Field + ": " + e.Message
}
