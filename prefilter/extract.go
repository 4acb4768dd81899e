package prefilter

import (
	"github.com/coregx/uregex/internal/ascii"
	"github.com/coregx/uregex/ir"
	"github.com/coregx/uregex/option"
)

// Caps on the extracted set. Crossing a concatenation multiplies
// alternatives; past these sizes scanning stops paying for itself.
const (
	maxLiterals   = 32
	maxLiteralLen = 64
)

// lits is a set of byte literals of which every match of a node must start
// with one. exact reports that the set covers the node completely, so a
// following node's literals may still be appended.
type lits struct {
	set   [][]byte
	exact bool
}

// epsilon is the prefix set of a zero-width node: one empty literal, exact.
func epsilon() lits { return lits{set: [][]byte{nil}, exact: true} }

// prefixes computes the literal prefix set of n. fold reports whether case
// folding is in effect at n; folded literals are excluded, since a byte
// scan would have to cover every case variant. ok is false when no sound
// set exists for n.
func prefixes(n *ir.Node, fold bool) (lits, bool) {
	switch n.Kind {
	case ir.KindLiteral:
		if fold || !ascii.ValidString(n.Text) {
			return lits{}, false
		}
		return lits{set: [][]byte{[]byte(n.Text)}, exact: true}, true

	case ir.KindConcat:
		cur := epsilon()
		for _, c := range n.Children {
			child, ok := prefixes(c, fold)
			if !ok {
				cur.exact = false
				break
			}
			cur = cross(cur, child)
			if !cur.exact {
				break
			}
		}
		return cur, true

	case ir.KindAlternation:
		out := lits{exact: true}
		for _, c := range n.Children {
			child, ok := prefixes(c, fold)
			if !ok {
				return lits{}, false
			}
			out.set = append(out.set, child.set...)
			out.exact = out.exact && child.exact
			if len(out.set) > maxLiterals {
				return lits{}, false
			}
		}
		return out, true

	case ir.KindQuantifier:
		if n.Max == 0 {
			return epsilon(), true
		}
		if n.Min == 0 {
			// The child may be skipped entirely, so it constrains nothing.
			return lits{}, false
		}
		child, ok := prefixes(n.Children[0], fold)
		if !ok {
			return lits{}, false
		}
		child.exact = child.exact && n.Min == 1 && n.Max == 1
		return child, true

	case ir.KindGroup, ir.KindCapture:
		return prefixes(n.Children[0], fold)

	case ir.KindScope:
		if n.Delta.Set&option.FieldCase != 0 {
			fold = n.Delta.CaseInsensitive
		}
		return prefixes(n.Children[0], fold)

	case ir.KindLook, ir.KindAnchor:
		return epsilon(), true

	default: // KindClass, KindExternal
		return lits{}, false
	}
}

// cross appends each literal of b to each literal of a. When the product
// would exceed maxLiterals the accumulated set is kept as an inexact
// prefix instead; literals over maxLiteralLen truncate, which likewise
// drops exactness.
func cross(a, b lits) lits {
	if len(a.set)*len(b.set) > maxLiterals {
		a.exact = false
		return a
	}
	out := lits{set: make([][]byte, 0, len(a.set)*len(b.set)), exact: a.exact && b.exact}
	for _, x := range a.set {
		for _, y := range b.set {
			l := make([]byte, 0, len(x)+len(y))
			l = append(l, x...)
			l = append(l, y...)
			if len(l) > maxLiteralLen {
				l = l[:maxLiteralLen]
				out.exact = false
			}
			out.set = append(out.set, l)
		}
	}
	return out
}
