// Package builder constructs compiled patterns declaratively, without
// pattern text. Expressions compose as values; captures bind through Ref
// identities instead of positional numbering, and a capture may carry a
// transform that turns its span into a typed output at match time.
//
//	year := builder.NewRef("year")
//	expr := builder.Seq(
//		builder.Convert(builder.Repeat(builder.Digit(), 4, 4), year, toInt),
//		builder.Text("-"),
//	)
//	tree, err := builder.Build(expr, option.Defaults(), nil)
//
// Build binds each Ref to its schema slot as a side effect, so the caller
// can read the capture back from a match without knowing slot numbers. A
// Ref may be captured once per Build.
package builder

import (
	"errors"
	"fmt"

	"github.com/coregx/uregex/charclass"
	"github.com/coregx/uregex/component"
	"github.com/coregx/uregex/ir"
	"github.com/coregx/uregex/option"
	"github.com/coregx/uregex/segment"
)

// Unbounded marks a repetition with no upper limit.
const Unbounded = ir.Unbounded

var (
	ErrRefReuse         = errors.New("builder: ref captured more than once")
	ErrNilRef           = errors.New("builder: capture with nil ref")
	ErrEmptyText        = errors.New("builder: empty literal text")
	ErrNilClass         = errors.New("builder: nil class")
	ErrEmptyAlternation = errors.New("builder: empty alternation")
	ErrUnknownComponent = errors.New("builder: unknown component")
)

// Ref identifies one capture across construction and matching. Use NewRef;
// the zero value is not valid.
type Ref struct {
	name string
	slot int
}

// NewRef returns a capture reference. name may be empty for an unnamed
// capture.
func NewRef(name string) *Ref { return &Ref{name: name, slot: -1} }

// Name returns the name the Ref was created with.
func (r *Ref) Name() string { return r.name }

// Slot returns the schema slot the last Build bound this Ref to, or -1 if
// it has not been built.
func (r *Ref) Slot() int { return r.slot }

type exprKind uint8

const (
	exprEmpty exprKind = iota
	exprText
	exprClass
	exprSeq
	exprAlt
	exprRepeat
	exprAtomic
	exprCapture
	exprLook
	exprAnchor
	exprScope
	exprComponent
)

// Expr is one pattern expression. Exprs are plain values and may be shared
// between larger expressions. The zero Expr matches the empty string.
type Expr struct {
	kind      exprKind
	kids      []Expr
	text      string
	class     *charclass.Class
	min, max  int
	policy    option.Repetition
	hasPolicy bool
	ref       *Ref
	transform ir.Transform
	behind    bool
	negative  bool
	anchor    ir.AnchorKind
	delta     option.Delta
	component string
}

// Text matches literal text, segmented into elements at the semantic level
// in effect where it appears.
func Text(s string) Expr { return Expr{kind: exprText, text: s} }

// Class matches one element of the class.
func Class(c *charclass.Class) Expr { return Expr{kind: exprClass, class: c} }

// Any matches any one element, newlines included.
func Any() Expr { return Class(charclass.Any()) }

// Digit matches one element of the built-in digit class.
func Digit() Expr { return Class(charclass.FromBuiltin(charclass.Digit)) }

// Word matches one element of the built-in word class.
func Word() Expr { return Class(charclass.FromBuiltin(charclass.Word)) }

// Whitespace matches one element of the built-in whitespace class.
func Whitespace() Expr { return Class(charclass.FromBuiltin(charclass.Whitespace)) }

// Seq matches its parts in order.
func Seq(parts ...Expr) Expr { return Expr{kind: exprSeq, kids: parts} }

// Alt tries its alternatives in order; the first that lets the rest of the
// pattern succeed wins.
func Alt(alternatives ...Expr) Expr { return Expr{kind: exprAlt, kids: alternatives} }

// Repeat matches e between min and max times under the scoped default
// repetition policy. Pass Unbounded for no upper limit.
func Repeat(e Expr, min, max int) Expr {
	return Expr{kind: exprRepeat, kids: []Expr{e}, min: min, max: max}
}

// RepeatPolicy is Repeat with an explicit policy.
func RepeatPolicy(e Expr, min, max int, p option.Repetition) Expr {
	return Expr{kind: exprRepeat, kids: []Expr{e}, min: min, max: max, policy: p, hasPolicy: true}
}

// ZeroOrMore matches e any number of times.
func ZeroOrMore(e Expr) Expr { return Repeat(e, 0, Unbounded) }

// OneOrMore matches e at least once.
func OneOrMore(e Expr) Expr { return Repeat(e, 1, Unbounded) }

// Optional matches e at most once.
func Optional(e Expr) Expr { return Repeat(e, 0, 1) }

// Atomic matches e and then discards the choice points made inside it, so
// backtracking cannot re-enter.
func Atomic(e Expr) Expr { return Expr{kind: exprAtomic, kids: []Expr{e}} }

// Capture records the span e matched under ref.
func Capture(e Expr, ref *Ref) Expr {
	return Expr{kind: exprCapture, kids: []Expr{e}, ref: ref}
}

// Convert is Capture plus a transform: at match time fn turns the matched
// span into the slot's output value. A transform error is an ordinary
// failure at that position and matching backtracks; it does not abort.
func Convert(e Expr, ref *Ref, fn ir.Transform) Expr {
	return Expr{kind: exprCapture, kids: []Expr{e}, ref: ref, transform: fn}
}

// Lookahead succeeds when e matches at the cursor, consuming nothing.
func Lookahead(e Expr) Expr { return Expr{kind: exprLook, kids: []Expr{e}} }

// NegLookahead succeeds when e does not match at the cursor.
func NegLookahead(e Expr) Expr { return Expr{kind: exprLook, kids: []Expr{e}, negative: true} }

// Lookbehind succeeds when e matches ending exactly at the cursor. e must
// have bounded width.
func Lookbehind(e Expr) Expr { return Expr{kind: exprLook, kids: []Expr{e}, behind: true} }

// NegLookbehind succeeds when e does not match ending at the cursor.
func NegLookbehind(e Expr) Expr {
	return Expr{kind: exprLook, kids: []Expr{e}, behind: true, negative: true}
}

// InputStart asserts the cursor is at the start of the input.
func InputStart() Expr { return Expr{kind: exprAnchor, anchor: ir.AnchorInputStart} }

// InputEnd asserts the cursor is at the end of the input.
func InputEnd() Expr { return Expr{kind: exprAnchor, anchor: ir.AnchorInputEnd} }

// LineStart asserts the cursor is at the start of the input or of a line.
func LineStart() Expr { return Expr{kind: exprAnchor, anchor: ir.AnchorLineStart} }

// LineEnd asserts the cursor is at the end of the input or of a line.
func LineEnd() Expr { return Expr{kind: exprAnchor, anchor: ir.AnchorLineEnd} }

// WordBoundary asserts a word boundary under the scoped algorithm.
func WordBoundary() Expr { return Expr{kind: exprAnchor, anchor: ir.AnchorWordBoundary} }

// NotWordBoundary asserts the absence of a word boundary.
func NotWordBoundary() Expr { return Expr{kind: exprAnchor, anchor: ir.AnchorNoWordBoundary} }

// ClusterBoundary asserts the cursor is on a grapheme cluster boundary.
func ClusterBoundary() Expr { return Expr{kind: exprAnchor, anchor: ir.AnchorClusterBoundary} }

// WithOptions matches e under the option changes in delta, restored on
// every exit from e.
func WithOptions(e Expr, delta option.Delta) Expr {
	return Expr{kind: exprScope, kids: []Expr{e}, delta: delta}
}

// Component delegates matching to the named external component. ref may be
// nil when the component's output is not needed by name; the output is
// still recorded in its slot.
func Component(name string, ref *Ref) Expr {
	return Expr{kind: exprComponent, component: name, ref: ref}
}

// Build compiles the expression under the given global options, resolving
// components against reg (nil means the default registry). Refs used in
// captures are bound to their slots as a side effect; a Ref belongs to the
// most recent Build it appeared in.
func Build(e Expr, opts option.Options, reg *component.Registry) (*ir.Tree, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if reg == nil {
		reg = component.Default
	}
	b := &build{schema: ir.NewSchema(), reg: reg, seen: make(map[*Ref]bool)}
	root, err := b.node(e, opts)
	if err != nil {
		return nil, err
	}
	t := &ir.Tree{Root: root, Schema: b.schema, Options: opts}
	if err := ir.Validate(t); err != nil {
		return nil, err
	}
	return t, nil
}

type build struct {
	schema *ir.Schema
	reg    *component.Registry
	seen   map[*Ref]bool
}

func (b *build) node(e Expr, cur option.Options) (*ir.Node, error) {
	switch e.kind {
	case exprEmpty:
		return ir.Concat(), nil
	case exprText:
		if e.text == "" {
			return nil, ErrEmptyText
		}
		elems := segment.Elements(e.text, cur.Level)
		nodes := make([]*ir.Node, len(elems))
		for i, el := range elems {
			nodes[i] = ir.Literal(el)
		}
		return ir.Concat(nodes...), nil
	case exprClass:
		if e.class == nil {
			return nil, ErrNilClass
		}
		return ir.Class(e.class), nil
	case exprSeq:
		kids, err := b.nodes(e.kids, cur)
		if err != nil {
			return nil, err
		}
		return ir.Concat(kids...), nil
	case exprAlt:
		if len(e.kids) == 0 {
			return nil, ErrEmptyAlternation
		}
		kids, err := b.nodes(e.kids, cur)
		if err != nil {
			return nil, err
		}
		return ir.Alternation(kids...), nil
	case exprRepeat:
		if e.min > cur.MaxRepeat || (e.max != Unbounded && e.max > cur.MaxRepeat) {
			return nil, fmt.Errorf("builder: repetition count above limit %d", cur.MaxRepeat)
		}
		child, err := b.node(e.kids[0], cur)
		if err != nil {
			return nil, err
		}
		pol := cur.Repetition
		if e.hasPolicy {
			pol = e.policy
		}
		return ir.Quantify(child, e.min, e.max, pol), nil
	case exprAtomic:
		child, err := b.node(e.kids[0], cur)
		if err != nil {
			return nil, err
		}
		return ir.Group(child, true), nil
	case exprCapture:
		if e.ref == nil {
			return nil, ErrNilRef
		}
		if b.seen[e.ref] {
			return nil, fmt.Errorf("%w: %q", ErrRefReuse, e.ref.name)
		}
		b.seen[e.ref] = true
		slot, err := b.schema.Add(e.ref.name, e.transform != nil)
		if err != nil {
			return nil, err
		}
		e.ref.slot = slot
		child, err := b.node(e.kids[0], cur)
		if err != nil {
			return nil, err
		}
		return ir.Capture(child, slot, e.ref.name, e.transform), nil
	case exprLook:
		child, err := b.node(e.kids[0], cur)
		if err != nil {
			return nil, err
		}
		return ir.Look(child, e.behind, e.negative), nil
	case exprAnchor:
		return ir.Anchor(e.anchor), nil
	case exprScope:
		inner := e.delta.ApplyTo(cur)
		child, err := b.node(e.kids[0], inner)
		if err != nil {
			return nil, err
		}
		if e.delta.IsZero() {
			return child, nil
		}
		if cur.Level == option.LevelScalar && inner.Level == option.LevelGrapheme {
			child = ir.Concat(ir.Anchor(ir.AnchorClusterBoundary), child)
		}
		n := ir.Scope(child, e.delta)
		if cur.Level == option.LevelGrapheme && inner.Level == option.LevelScalar {
			return ir.Concat(n, ir.Anchor(ir.AnchorClusterBoundary)), nil
		}
		return n, nil
	case exprComponent:
		consumer, ok := b.reg.Lookup(e.component)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownComponent, e.component)
		}
		name := ""
		if e.ref != nil {
			if b.seen[e.ref] {
				return nil, fmt.Errorf("%w: %q", ErrRefReuse, e.ref.name)
			}
			b.seen[e.ref] = true
			name = e.ref.name
		}
		slot, err := b.schema.Add(name, true)
		if err != nil {
			return nil, err
		}
		if e.ref != nil {
			e.ref.slot = slot
		}
		return ir.External(e.component, consumer, slot), nil
	}
	return nil, fmt.Errorf("builder: unknown expression kind %d", e.kind)
}

func (b *build) nodes(es []Expr, cur option.Options) ([]*ir.Node, error) {
	out := make([]*ir.Node, len(es))
	for i, e := range es {
		n, err := b.node(e, cur)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}
