// Package ir defines the compiled form of a pattern: an immutable tree of
// matching constructs shared by the textual syntax front-end, the builder
// API and the matching engine.
//
// A node never changes after construction, so a compiled tree can back any
// number of concurrent matches. Literal nodes hold exactly one element (one
// grapheme cluster, or one scalar when compiled at scalar level) with its
// canonical decomposition precomputed; longer literal runs compile to a
// Concat of element nodes.
//
// Example tree for the pattern "ab+":
//
//	Concat
//	├── Literal "a"
//	└── Quantifier{1,∞, eager}
//	    └── Literal "b"
package ir

import (
	"github.com/coregx/uregex/charclass"
	"github.com/coregx/uregex/component"
	"github.com/coregx/uregex/option"
	"github.com/coregx/uregex/segment"
)

// Kind discriminates the node variants.
type Kind uint8

const (
	// KindLiteral matches one input element against a fixed element.
	KindLiteral Kind = iota
	// KindClass matches one input element against a character class.
	KindClass
	// KindConcat matches its children in sequence.
	KindConcat
	// KindAlternation tries its children in order; the first to succeed
	// wins, later ones are kept as backtracking alternatives.
	KindAlternation
	// KindQuantifier repeats its child between Min and Max times under a
	// repetition policy.
	KindQuantifier
	// KindGroup brackets its child; an atomic group additionally discards
	// the child's backtracking alternatives once it succeeds.
	KindGroup
	// KindCapture records the child's matched span into a slot.
	KindCapture
	// KindLook is a zero-width assertion over its child.
	KindLook
	// KindAnchor is a zero-width position test.
	KindAnchor
	// KindScope overrides matching options for the child.
	KindScope
	// KindExternal invokes an external consumer as one atomic step.
	KindExternal
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "Literal"
	case KindClass:
		return "Class"
	case KindConcat:
		return "Concat"
	case KindAlternation:
		return "Alternation"
	case KindQuantifier:
		return "Quantifier"
	case KindGroup:
		return "Group"
	case KindCapture:
		return "Capture"
	case KindLook:
		return "Look"
	case KindAnchor:
		return "Anchor"
	case KindScope:
		return "Scope"
	case KindExternal:
		return "External"
	default:
		return "Unknown"
	}
}

// AnchorKind identifies a zero-width position test.
type AnchorKind uint8

const (
	// AnchorInputStart holds only at position 0.
	AnchorInputStart AnchorKind = iota
	// AnchorInputEnd holds only at the end of the input.
	AnchorInputEnd
	// AnchorLineStart holds at position 0 and after a line feed.
	AnchorLineStart
	// AnchorLineEnd holds at the end of the input and before a line feed.
	AnchorLineEnd
	// AnchorWordBoundary holds at a word boundary of the active kind.
	AnchorWordBoundary
	// AnchorNoWordBoundary holds everywhere but a word boundary.
	AnchorNoWordBoundary
	// AnchorClusterBoundary holds on extended grapheme cluster boundaries.
	// The compiler inserts it where matching transitions from scalar level
	// back to grapheme level, keeping grapheme matching cluster-aligned.
	AnchorClusterBoundary
)

// String returns the anchor's pattern spelling.
func (a AnchorKind) String() string {
	switch a {
	case AnchorInputStart:
		return `\A`
	case AnchorInputEnd:
		return `\z`
	case AnchorLineStart:
		return "^"
	case AnchorLineEnd:
		return "$"
	case AnchorWordBoundary:
		return `\b`
	case AnchorNoWordBoundary:
		return `\B`
	case AnchorClusterBoundary:
		return `\y`
	default:
		return `\?`
	}
}

// Unbounded marks a quantifier with no upper repetition bound.
const Unbounded = -1

// Transform converts a captured span into a value. Returning an error is an
// ordinary match failure at the capture node and triggers backtracking; it
// does not abort the match call.
type Transform func(span []byte) (any, error)

// Node is one compiled pattern construct. Fields beyond Kind are meaningful
// only for the kinds documented on them. Nodes are immutable once built.
type Node struct {
	Kind     Kind
	Children []*Node

	// KindLiteral: the element as written and its canonical decomposition.
	Text string
	NFD  string

	// KindClass
	Class *charclass.Class

	// KindQuantifier
	Min    int
	Max    int // Unbounded for no upper limit
	Policy option.Repetition

	// KindGroup
	Atomic bool

	// KindCapture and KindExternal: destination slot in the schema.
	Slot int
	// KindCapture
	Name      string
	Transform Transform

	// KindLook
	Behind   bool
	Negative bool

	// KindAnchor
	Anchor AnchorKind

	// KindScope
	Delta option.Delta

	// KindExternal
	Component string
	Consumer  component.Consumer
}

// Literal returns a node matching one element. The element's canonical
// decomposition is computed here, once, so match-time comparison does not
// normalize the pattern side again.
func Literal(element string) *Node {
	return &Node{Kind: KindLiteral, Text: element, NFD: segment.Decompose(element)}
}

// Class returns a node matching one element of the class.
func Class(c *charclass.Class) *Node {
	return &Node{Kind: KindClass, Class: c}
}

// Concat returns a node matching its children in sequence. Nested concats
// flatten; a single child returns as itself; no children yields an empty
// match.
func Concat(children ...*Node) *Node {
	flat := make([]*Node, 0, len(children))
	for _, c := range children {
		if c.Kind == KindConcat {
			flat = append(flat, c.Children...)
			continue
		}
		flat = append(flat, c)
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return &Node{Kind: KindConcat, Children: flat}
}

// Alternation returns a node trying its children in order.
func Alternation(children ...*Node) *Node {
	if len(children) == 1 {
		return children[0]
	}
	return &Node{Kind: KindAlternation, Children: children}
}

// Quantify returns a node repeating child min to max times. Pass Unbounded
// for no upper limit.
func Quantify(child *Node, min, max int, policy option.Repetition) *Node {
	return &Node{Kind: KindQuantifier, Children: []*Node{child}, Min: min, Max: max, Policy: policy}
}

// Group returns a grouping node. With atomic set, backtracking cannot
// revisit choices made inside once the group has matched.
func Group(child *Node, atomic bool) *Node {
	return &Node{Kind: KindGroup, Children: []*Node{child}, Atomic: atomic}
}

// Capture returns a node recording child's span into slot. name may be
// empty; transform may be nil.
func Capture(child *Node, slot int, name string, transform Transform) *Node {
	return &Node{Kind: KindCapture, Children: []*Node{child}, Slot: slot, Name: name, Transform: transform}
}

// Look returns a lookaround assertion over child.
func Look(child *Node, behind, negative bool) *Node {
	return &Node{Kind: KindLook, Children: []*Node{child}, Behind: behind, Negative: negative}
}

// Anchor returns a zero-width position test.
func Anchor(kind AnchorKind) *Node {
	return &Node{Kind: KindAnchor, Anchor: kind}
}

// Scope returns a node matching child under modified options.
func Scope(child *Node, delta option.Delta) *Node {
	return &Node{Kind: KindScope, Children: []*Node{child}, Delta: delta}
}

// External returns a node invoking a resolved consumer, recording its
// consumed span and output into slot.
func External(name string, consumer component.Consumer, slot int) *Node {
	return &Node{Kind: KindExternal, Component: name, Consumer: consumer, Slot: slot}
}

// Tree is a complete compiled pattern: the root node, the capture schema,
// and the options in effect at the root.
type Tree struct {
	Root    *Node
	Schema  *Schema
	Options option.Options
}
