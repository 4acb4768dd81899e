package ir

import (
	"errors"
	"fmt"
)

// Validation failure reasons.
var (
	ErrNilNode             = errors.New("ir: nil node")
	ErrBadQuantifier       = errors.New("ir: invalid quantifier bounds")
	ErrBadSlot             = errors.New("ir: capture slot outside schema")
	ErrUnboundedLookbehind = errors.New("ir: lookbehind over unbounded pattern")
	ErrUnresolvedComponent = errors.New("ir: unresolved external component")
)

// Validate checks a compiled tree's structural invariants: children are
// present where required, quantifier bounds are ordered, capture slots fit
// the schema, lookbehind children have bounded width, and external nodes
// carry a resolved consumer. The front-ends run it before handing a tree to
// the engine.
func Validate(t *Tree) error {
	if t == nil || t.Root == nil {
		return ErrNilNode
	}
	if t.Schema == nil {
		return errors.New("ir: tree without schema")
	}
	return validateNode(t.Root, t.Schema)
}

func validateNode(n *Node, schema *Schema) error {
	if n == nil {
		return ErrNilNode
	}
	switch n.Kind {
	case KindLiteral:
		if n.Text == "" {
			return errors.New("ir: empty literal element")
		}
	case KindClass:
		if n.Class == nil {
			return errors.New("ir: class node without class")
		}
	case KindQuantifier:
		if n.Min < 0 || (n.Max != Unbounded && n.Max < n.Min) {
			return fmt.Errorf("%w: {%d,%d}", ErrBadQuantifier, n.Min, n.Max)
		}
	case KindCapture:
		if n.Slot <= 0 || n.Slot >= schema.Len() {
			return fmt.Errorf("%w: slot %d of %d", ErrBadSlot, n.Slot, schema.Len())
		}
	case KindExternal:
		if n.Consumer == nil {
			return fmt.Errorf("%w: %q", ErrUnresolvedComponent, n.Component)
		}
		if n.Slot <= 0 || n.Slot >= schema.Len() {
			return fmt.Errorf("%w: slot %d of %d", ErrBadSlot, n.Slot, schema.Len())
		}
	case KindLook:
		if n.Behind {
			if _, max := Width(n.Children[0]); max < 0 {
				return ErrUnboundedLookbehind
			}
		}
	}
	for _, c := range n.Children {
		if err := validateNode(c, schema); err != nil {
			return err
		}
	}
	return nil
}
