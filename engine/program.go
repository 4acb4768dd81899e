package engine

import (
	"fmt"

	"github.com/coregx/uregex/charclass"
	"github.com/coregx/uregex/component"
	"github.com/coregx/uregex/ir"
	"github.com/coregx/uregex/option"
)

// opcode identifies one instruction of the flat program a tree lowers to.
type opcode uint8

const (
	// opElement matches one literal element at the cursor and advances.
	opElement opcode = iota
	// opClass matches one element against a class and advances.
	opClass
	// opSplit continues at x and stacks y as the backtracking alternative.
	opSplit
	// opJmp continues at x.
	opJmp
	// opLoop is a quantifier loop head: x is the body, y the exit, reg the
	// progress register guarding empty iterations.
	opLoop
	// opAnchor is a zero-width position test.
	opAnchor
	// opCaptureOpen records the cursor as the start of a capture slot.
	opCaptureOpen
	// opCaptureClose records the slot's end and runs its transform.
	opCaptureClose
	// opScopePush enters an option scope.
	opScopePush
	// opScopePop leaves it.
	opScopePop
	// opAtomicEnter marks the choice-stack depth of an atomic region.
	opAtomicEnter
	// opAtomicLeave discards the choices made since the matching enter.
	opAtomicLeave
	// opLook evaluates a zero-width sub-program.
	opLook
	// opExternal invokes an external consumer as one step.
	opExternal
	// opAccept ends the program.
	opAccept
)

// inst is one instruction. Fields beyond op are meaningful only for the
// opcodes documented on them.
type inst struct {
	op opcode

	// opSplit, opJmp, opLoop: continuation PCs.
	x, y int

	// opLoop
	reg   int
	eager bool

	// opElement
	text string
	nfd  string

	// opClass
	class *charclass.Class

	// opAnchor
	anchor ir.AnchorKind

	// opCaptureOpen/Close, opExternal
	slot      int
	transform ir.Transform

	// opScopePush
	delta option.Delta

	// opLook: the compiled child plus its element-width bounds for the
	// behind direction.
	sub       *program
	behind    bool
	negative  bool
	minBehind int
	maxBehind int

	// opExternal
	name     string
	consumer component.Consumer
}

// program is a lowered pattern: a flat instruction sequence executed from
// pc 0 with fallthrough to pc+1 except where an instruction carries
// explicit continuations.
type program struct {
	insts   []inst
	numRegs int

	// anchoredStart is set when every match must begin at position 0, so
	// searching can stop after the first start position.
	anchoredStart bool
}

// compile lowers a validated tree to a program. Lookaround children lower
// to sub-programs evaluated recursively by nesting depth; everything else,
// repetition included, runs on the explicit choice stack.
func compile(t *ir.Tree) (*program, error) {
	c := &compiler{}
	if err := c.node(t.Root); err != nil {
		return nil, err
	}
	c.emit(inst{op: opAccept})
	p := &program{insts: c.insts, numRegs: c.numRegs}
	p.anchoredStart = startAnchored(p.insts)
	return p, nil
}

type compiler struct {
	insts   []inst
	numRegs int
}

func (c *compiler) emit(i inst) int {
	c.insts = append(c.insts, i)
	return len(c.insts) - 1
}

func (c *compiler) node(n *ir.Node) error {
	switch n.Kind {
	case ir.KindLiteral:
		c.emit(inst{op: opElement, text: n.Text, nfd: n.NFD})
		return nil

	case ir.KindClass:
		c.emit(inst{op: opClass, class: n.Class})
		return nil

	case ir.KindConcat:
		for _, child := range n.Children {
			if err := c.node(child); err != nil {
				return err
			}
		}
		return nil

	case ir.KindAlternation:
		return c.alternation(n.Children)

	case ir.KindQuantifier:
		return c.quantifier(n)

	case ir.KindGroup:
		if !n.Atomic {
			return c.node(n.Children[0])
		}
		c.emit(inst{op: opAtomicEnter})
		if err := c.node(n.Children[0]); err != nil {
			return err
		}
		c.emit(inst{op: opAtomicLeave})
		return nil

	case ir.KindCapture:
		c.emit(inst{op: opCaptureOpen, slot: n.Slot})
		if err := c.node(n.Children[0]); err != nil {
			return err
		}
		c.emit(inst{op: opCaptureClose, slot: n.Slot, transform: n.Transform})
		return nil

	case ir.KindLook:
		sub, err := compile(&ir.Tree{Root: n.Children[0]})
		if err != nil {
			return err
		}
		i := inst{op: opLook, sub: sub, behind: n.Behind, negative: n.Negative}
		if n.Behind {
			i.minBehind, i.maxBehind = ir.Width(n.Children[0])
			if i.maxBehind < 0 {
				return fmt.Errorf("engine: unbounded lookbehind survived validation")
			}
		}
		c.emit(i)
		return nil

	case ir.KindAnchor:
		c.emit(inst{op: opAnchor, anchor: n.Anchor})
		return nil

	case ir.KindScope:
		c.emit(inst{op: opScopePush, delta: n.Delta})
		if err := c.node(n.Children[0]); err != nil {
			return err
		}
		c.emit(inst{op: opScopePop})
		return nil

	case ir.KindExternal:
		c.emit(inst{op: opExternal, name: n.Component, consumer: n.Consumer, slot: n.Slot})
		return nil

	default:
		return fmt.Errorf("engine: cannot lower node kind %v", n.Kind)
	}
}

// alternation lowers ordered branches to a split chain: each split prefers
// its branch and stacks the rest.
func (c *compiler) alternation(branches []*ir.Node) error {
	var jumps []int
	for i, branch := range branches {
		last := i == len(branches)-1
		var s int
		if !last {
			s = c.emit(inst{op: opSplit})
			c.insts[s].x = len(c.insts)
		}
		if err := c.node(branch); err != nil {
			return err
		}
		if !last {
			jumps = append(jumps, c.emit(inst{op: opJmp}))
			c.insts[s].y = len(c.insts)
		}
	}
	end := len(c.insts)
	for _, j := range jumps {
		c.insts[j].x = end
	}
	return nil
}

// quantifier lowers min..max repetition. The minimum expands to mandatory
// copies; a bounded remainder expands to optional copies; an unbounded
// remainder becomes a loop with an empty-iteration guard. Possessive policy
// brackets the whole construct in an atomic region.
func (c *compiler) quantifier(n *ir.Node) error {
	child := n.Children[0]
	policy := n.Policy

	if policy == option.RepeatPossessive {
		c.emit(inst{op: opAtomicEnter})
	}

	for i := 0; i < n.Min; i++ {
		if err := c.node(child); err != nil {
			return err
		}
	}

	switch {
	case n.Max == n.Min:
		// Nothing optional.
	case n.Max == ir.Unbounded:
		l := c.emit(inst{op: opLoop, reg: c.numRegs, eager: policy != option.RepeatReluctant})
		c.numRegs++
		c.insts[l].x = len(c.insts)
		if err := c.node(child); err != nil {
			return err
		}
		c.emit(inst{op: opJmp, x: l})
		c.insts[l].y = len(c.insts)
	default:
		var exits []int
		for i := n.Min; i < n.Max; i++ {
			s := c.emit(inst{op: opSplit})
			if policy == option.RepeatReluctant {
				c.insts[s].y = len(c.insts)
			} else {
				c.insts[s].x = len(c.insts)
			}
			if err := c.node(child); err != nil {
				return err
			}
			exits = append(exits, s)
		}
		end := len(c.insts)
		for _, s := range exits {
			if policy == option.RepeatReluctant {
				c.insts[s].x = end
			} else {
				c.insts[s].y = end
			}
		}
	}

	if policy == option.RepeatPossessive {
		c.emit(inst{op: opAtomicLeave})
	}
	return nil
}

// startAnchored reports whether the program's first effective instruction
// pins the match to position 0.
func startAnchored(insts []inst) bool {
	for _, i := range insts {
		switch i.op {
		case opCaptureOpen, opScopePush, opAtomicEnter:
			continue
		case opAnchor:
			return i.anchor == ir.AnchorInputStart
		default:
			return false
		}
	}
	return false
}
