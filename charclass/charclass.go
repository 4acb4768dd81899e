// Package charclass resolves character-class membership.
//
// A Class is an immutable predicate over input elements. Leaves are built-in
// classes (digit, word, POSIX names, ...), Unicode property tables, or
// explicit sets of scalars, scalar ranges and scalar sequences. Interior
// nodes combine classes by union, intersection, subtraction and symmetric
// difference, or negate a class.
//
// Membership is asked at one of two semantic levels. At scalar level the
// probe is a single Unicode scalar value. At grapheme level the probe is one
// extended grapheme cluster, and each leaf extends its scalar-level
// definition to the cluster by a fixed extension rule; see Rule.
package charclass

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Rule is the extension rule a leaf applies when probed with a grapheme
// cluster that may hold several scalar values.
type Rule uint8

const (
	// RuleSingleScalar matches only clusters that canonically compose to
	// exactly one scalar, and tests that scalar. Numeric classes use this:
	// a digit glyph wrapped in combining marks is not a digit.
	RuleSingleScalar Rule = iota

	// RuleFirstScalar tests the cluster's first scalar. Word, whitespace
	// and property classes use this: "e" plus a combining accent is still
	// a word character.
	RuleFirstScalar

	// RuleAnyScalar matches if any scalar of the cluster matches.
	RuleAnyScalar

	// RuleAllScalars matches if every scalar of the cluster matches.
	RuleAllScalars
)

// String returns the rule's name.
func (r Rule) String() string {
	switch r {
	case RuleSingleScalar:
		return "single-scalar"
	case RuleFirstScalar:
		return "first-scalar"
	case RuleAnyScalar:
		return "any-scalar"
	case RuleAllScalars:
		return "all-scalars"
	default:
		return "unknown"
	}
}

// Range is an inclusive scalar range. Both endpoints must be single scalars
// after canonical composition; the parser enforces that before construction.
type Range struct {
	Lo, Hi rune
}

// Valid reports whether the range is ordered.
func (r Range) Valid() bool { return r.Lo <= r.Hi && r.Lo >= 0 && r.Hi <= utf8.MaxRune }

type opKind uint8

const (
	opAny opKind = iota
	opBuiltin
	opProperty
	opSet
	opUnion
	opIntersect
	opSubtract
	opSymDiff
	opNegate
)

// Class is an immutable character-class predicate. Construct one with the
// package's constructor functions; the zero value matches nothing.
type Class struct {
	op opKind

	// opAny
	noNewline bool

	// opBuiltin
	builtin Builtin

	// opProperty
	table    *unicode.RangeTable
	propName string

	// opSet
	scalars []rune
	ranges  []Range
	seqs    []string // multi-scalar members, as written
	seqsNFD []string // canonical decompositions of seqs

	// interior nodes
	kids []*Class
}

// Any returns the class matching every element.
func Any() *Class { return &Class{op: opAny} }

// AnyNoNewline returns the class matching every element that does not
// contain a line feed. This is the "." class outside dot-matches-newline
// mode; it rejects both "\n" and the "\r\n" cluster.
func AnyNoNewline() *Class { return &Class{op: opAny, noNewline: true} }

// FromBuiltin returns the class for a built-in name.
func FromBuiltin(b Builtin) *Class { return &Class{op: opBuiltin, builtin: b} }

// FromProperty returns the class for a Unicode property table, typically
// obtained from LookupProperty. The name is kept for diagnostics.
func FromProperty(name string, table *unicode.RangeTable) *Class {
	return &Class{op: opProperty, table: table, propName: name}
}

// FromScalars returns the class holding exactly the given scalars.
func FromScalars(rs ...rune) *Class {
	c := &Class{op: opSet}
	c.scalars = append(c.scalars, rs...)
	return c
}

// FromRanges returns the class holding the given inclusive ranges.
func FromRanges(rs ...Range) *Class {
	c := &Class{op: opSet}
	c.ranges = append(c.ranges, rs...)
	return c
}

// FromSequences returns the class holding the given explicit members. A
// member of a single scalar behaves like FromScalars; longer members match
// whole grapheme clusters under canonical equivalence and can never match at
// scalar level.
func FromSequences(seqs ...string) *Class {
	c := &Class{op: opSet}
	for _, s := range seqs {
		if r, size := utf8.DecodeRuneInString(s); size == len(s) && r != utf8.RuneError {
			c.scalars = append(c.scalars, r)
			continue
		}
		c.seqs = append(c.seqs, s)
		c.seqsNFD = append(c.seqsNFD, norm.NFD.String(s))
	}
	return c
}

// Union returns the class matching whatever any of the operands matches.
// Adjacent set leaves are merged so that simple classes like [a-z0-9_.]
// stay a single leaf.
func Union(cs ...*Class) *Class {
	switch len(cs) {
	case 0:
		return &Class{op: opSet}
	case 1:
		return cs[0]
	}
	merged := make([]*Class, 0, len(cs))
	for _, c := range cs {
		if c.op == opSet {
			if n := len(merged); n > 0 && merged[n-1].op == opSet {
				merged[n-1] = mergeSets(merged[n-1], c)
				continue
			}
		}
		merged = append(merged, c)
	}
	if len(merged) == 1 {
		return merged[0]
	}
	return &Class{op: opUnion, kids: merged}
}

func mergeSets(a, b *Class) *Class {
	m := &Class{op: opSet}
	m.scalars = append(append(m.scalars, a.scalars...), b.scalars...)
	m.ranges = append(append(m.ranges, a.ranges...), b.ranges...)
	m.seqs = append(append(m.seqs, a.seqs...), b.seqs...)
	m.seqsNFD = append(append(m.seqsNFD, a.seqsNFD...), b.seqsNFD...)
	return m
}

// Intersect returns the class matching only what both operands match.
func Intersect(a, b *Class) *Class {
	return &Class{op: opIntersect, kids: []*Class{a, b}}
}

// Subtract returns the class matching what a matches and b does not.
func Subtract(a, b *Class) *Class {
	return &Class{op: opSubtract, kids: []*Class{a, b}}
}

// SymDiff returns the class matching what exactly one of the operands
// matches.
func SymDiff(a, b *Class) *Class {
	return &Class{op: opSymDiff, kids: []*Class{a, b}}
}

// Negate returns the complement of c over the element domain.
func Negate(c *Class) *Class {
	if c.op == opNegate {
		return c.kids[0]
	}
	return &Class{op: opNegate, kids: []*Class{c}}
}

// IsAny reports whether the class is the unrestricted "any" class.
// The engine uses this to skip membership checks entirely.
func (c *Class) IsAny() bool { return c.op == opAny && !c.noNewline }

// String renders an approximate class expression for diagnostics. It is not
// guaranteed to re-parse; explicit sets render their members, operators
// render with the class-algebra syntax.
func (c *Class) String() string {
	var b strings.Builder
	c.render(&b)
	return b.String()
}

func (c *Class) render(b *strings.Builder) {
	switch c.op {
	case opAny:
		if c.noNewline {
			b.WriteByte('.')
		} else {
			b.WriteString(`\p{Any}`)
		}
	case opBuiltin:
		b.WriteString(c.builtin.String())
	case opProperty:
		b.WriteString(`\p{`)
		b.WriteString(c.propName)
		b.WriteByte('}')
	case opSet:
		b.WriteByte('[')
		for _, r := range c.scalars {
			b.WriteRune(r)
		}
		for _, rg := range c.ranges {
			b.WriteRune(rg.Lo)
			b.WriteByte('-')
			b.WriteRune(rg.Hi)
		}
		for _, s := range c.seqs {
			b.WriteString(s)
		}
		b.WriteByte(']')
	case opUnion:
		b.WriteByte('[')
		for _, k := range c.kids {
			k.render(b)
		}
		b.WriteByte(']')
	case opIntersect, opSubtract, opSymDiff:
		op := "&&"
		switch c.op {
		case opSubtract:
			op = "--"
		case opSymDiff:
			op = "~~"
		}
		b.WriteByte('[')
		c.kids[0].render(b)
		b.WriteString(op)
		c.kids[1].render(b)
		b.WriteByte(']')
	case opNegate:
		b.WriteString("[^")
		c.kids[0].render(b)
		b.WriteByte(']')
	}
}
