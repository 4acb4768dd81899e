package engine

import (
	"unicode/utf8"

	"github.com/coregx/uregex/charclass"
	"github.com/coregx/uregex/ir"
	"github.com/coregx/uregex/option"
	"github.com/coregx/uregex/segment"
)

// choice is one backtracking alternative: where to resume and how much
// recorded state to unwind to resume there. The scope pointer restores the
// full option-scope state; frames are immutable, so the pointer stays valid
// however execution moved between scopes after the choice was stacked.
type choice struct {
	pc      int
	cursor  int
	journal int
	scope   *option.Scope
	atomics int
}

// capSpan is one capture slot's recorded state. start -1 means unset; an
// open group has its start set and end -1 until it closes.
type capSpan struct {
	start, end int
	value      any
	hasValue   bool
}

// undo restores one capture slot when backtracking unwinds the journal.
type undo struct {
	slot int
	prev capSpan
}

// machine executes programs over one input. It serves a single match call
// at a time; the Engine pools machines for reuse across calls.
type machine struct {
	prog *program
	root *option.Scope

	input []byte
	text  *segment.Text
	scope *option.Scope

	choices []choice
	journal []undo
	caps    []capSpan
	atomics []int
	regs    []int

	limit      uint64
	steps      uint64
	backtracks uint64
	external   uint64
	prefHits   uint64
	prefMisses uint64
}

func newMachine(prog *program, global option.Options, numSlots int) *machine {
	return &machine{
		prog: prog,
		root: option.NewScope(global),
		text: segment.NewText(nil),
		caps: make([]capSpan, numSlots),
		regs: make([]int, prog.numRegs),
	}
}

// attempt runs the whole program once from start. mustEnd pins the accepted
// end position; pass -1 to accept any end. The returned end is meaningful
// only when ok.
func (m *machine) attempt(start, mustEnd int) (end int, ok bool, err error) {
	m.choices = m.choices[:0]
	m.journal = m.journal[:0]
	m.atomics = m.atomics[:0]
	m.scope = m.root
	for i := range m.caps {
		m.caps[i] = capSpan{start: -1, end: -1}
	}
	resetRegs(m.regs)
	return m.exec(m.prog, m.regs, start, mustEnd)
}

func resetRegs(regs []int) {
	for i := range regs {
		regs[i] = -1
	}
}

func (m *machine) push(pc, cursor int) {
	m.choices = append(m.choices, choice{
		pc:      pc,
		cursor:  cursor,
		journal: len(m.journal),
		scope:   m.scope,
		atomics: len(m.atomics),
	})
}

func (m *machine) saveCap(slot int) {
	m.journal = append(m.journal, undo{slot: slot, prev: m.caps[slot]})
}

func (m *machine) unwind(n int) {
	for len(m.journal) > n {
		u := m.journal[len(m.journal)-1]
		m.journal = m.journal[:len(m.journal)-1]
		m.caps[u.slot] = u.prev
	}
}

// exec is the dispatch loop. It never recurses for repetition or
// alternation; only opLook re-enters it, once per lookaround nesting level.
// Failure pops the newest choice point; an empty stack (relative to the
// entry depth) is overall failure. A non-nil error aborts everything,
// in-flight choices included.
func (m *machine) exec(p *program, regs []int, start, mustEnd int) (int, bool, error) {
	base := len(m.choices)
	pc, cursor := 0, start
	for {
		if m.limit > 0 && m.steps >= m.limit {
			return 0, false, ErrStepBudget
		}
		m.steps++

		i := &p.insts[pc]
		ok := true
		switch i.op {
		case opJmp:
			pc = i.x
			continue

		case opSplit:
			m.push(i.y, cursor)
			pc = i.x
			continue

		case opLoop:
			// An iteration starting where the previous one started made no
			// progress; leave without stacking another entry.
			if regs[i.reg] == cursor {
				pc = i.y
				continue
			}
			regs[i.reg] = cursor
			if i.eager {
				m.push(i.y, cursor)
				pc = i.x
			} else {
				m.push(i.x, cursor)
				pc = i.y
			}
			continue

		case opElement:
			if cursor < len(m.input) {
				o := m.scope.Options()
				el, end := m.text.ElementAt(cursor, o.Level)
				if segment.EqualNFD(el, i.nfd, o.CaseInsensitive) {
					cursor = end
					pc++
					continue
				}
			}
			ok = false

		case opClass:
			if cursor < len(m.input) {
				o := m.scope.Options()
				el, end := m.text.ElementAt(cursor, o.Level)
				if classContains(i.class, el, o) {
					cursor = end
					pc++
					continue
				}
			}
			ok = false

		case opAnchor:
			ok = m.anchorHolds(i.anchor, cursor)

		case opCaptureOpen:
			m.saveCap(i.slot)
			m.caps[i.slot] = capSpan{start: cursor, end: -1}

		case opCaptureClose:
			c := m.caps[i.slot]
			c.end = cursor
			if i.transform != nil {
				v, terr := i.transform(m.input[c.start:c.end])
				if terr != nil {
					// A transform rejection is an ordinary failure at this
					// node, not an abort.
					ok = false
					break
				}
				c.value, c.hasValue = v, true
			}
			m.saveCap(i.slot)
			m.caps[i.slot] = c

		case opScopePush:
			m.scope = m.scope.Enter(i.delta)

		case opScopePop:
			m.scope = m.scope.Leave()

		case opAtomicEnter:
			m.atomics = append(m.atomics, len(m.choices))

		case opAtomicLeave:
			d := m.atomics[len(m.atomics)-1]
			m.atomics = m.atomics[:len(m.atomics)-1]
			if d < base {
				d = base
			}
			m.choices = m.choices[:d]

		case opLook:
			holds, lerr := m.evalLook(i, cursor)
			if lerr != nil {
				return 0, false, lerr
			}
			ok = holds

		case opExternal:
			m.external++
			res, cerr := i.consumer.Consume(m.input, cursor, len(m.input))
			if cerr != nil {
				return 0, false, &AbortError{Component: i.name, Err: cerr}
			}
			if res == nil {
				ok = false
				break
			}
			m.saveCap(i.slot)
			m.caps[i.slot] = capSpan{start: cursor, end: res.End, value: res.Output, hasValue: true}
			cursor = res.End

		case opAccept:
			if mustEnd < 0 || cursor == mustEnd {
				return cursor, true, nil
			}
			ok = false
		}

		if ok {
			pc++
			continue
		}

		if len(m.choices) == base {
			return 0, false, nil
		}
		cp := m.choices[len(m.choices)-1]
		m.choices = m.choices[:len(m.choices)-1]
		m.unwind(cp.journal)
		m.scope = cp.scope
		m.atomics = m.atomics[:cp.atomics]
		pc, cursor = cp.pc, cp.cursor
		m.backtracks++
	}
}

func classContains(c *charclass.Class, el []byte, o option.Options) bool {
	if o.Level == option.LevelScalar {
		r, _ := utf8.DecodeRune(el)
		return c.ContainsScalar(r, o)
	}
	return c.ContainsCluster(el, o)
}

func (m *machine) anchorHolds(kind ir.AnchorKind, cursor int) bool {
	switch kind {
	case ir.AnchorInputStart:
		return cursor == 0
	case ir.AnchorInputEnd:
		return cursor == len(m.input)
	case ir.AnchorLineStart:
		return cursor == 0 || m.input[cursor-1] == '\n'
	case ir.AnchorLineEnd:
		return cursor == len(m.input) || m.input[cursor] == '\n'
	case ir.AnchorWordBoundary, ir.AnchorNoWordBoundary:
		o := m.scope.Options()
		b := m.text.IsWordBoundary(cursor, o.WordBoundary, o.Level)
		if kind == ir.AnchorNoWordBoundary {
			return !b
		}
		return b
	case ir.AnchorClusterBoundary:
		return m.text.IsClusterBoundary(cursor)
	default:
		return false
	}
}

// evalLook evaluates a lookaround at cursor. The sub-program runs on the
// machine's own capture table and scope chain: a successful positive look
// keeps the captures it recorded, every other outcome unwinds them. Choices
// made inside never survive; a lookaround that has matched is not re-entered
// by outer backtracking.
//
// Lookbehind enumerates candidate starts nearest-first: the child must end
// exactly at the cursor, so each candidate runs with a pinned end. Candidate
// starts step back one scalar at a time, bounded below by the child's
// maximum width in clusters; one element never spans more than one cluster,
// so no match can start earlier.
func (m *machine) evalLook(i *inst, cursor int) (bool, error) {
	choiceBase := len(m.choices)
	journalBase := len(m.journal)
	optScope := m.scope
	atomicBase := len(m.atomics)

	var regs []int
	if i.sub.numRegs > 0 {
		regs = make([]int, i.sub.numRegs)
	}

	matched := false
	if !i.behind {
		resetRegs(regs)
		_, ok, err := m.exec(i.sub, regs, cursor, -1)
		if err != nil {
			return false, err
		}
		matched = ok
	} else {
		low := cursor
		for k := 0; k < i.maxBehind && low > 0; k++ {
			low = m.text.PrevElement(low, option.LevelGrapheme)
		}
		s := cursor
		for k := 0; k < i.minBehind; k++ {
			if s == 0 {
				s = -1
				break
			}
			s = m.text.PrevElement(s, option.LevelScalar)
		}
		for s >= low {
			resetRegs(regs)
			_, ok, err := m.exec(i.sub, regs, s, cursor)
			if err != nil {
				return false, err
			}
			if ok {
				matched = true
				break
			}
			m.choices = m.choices[:choiceBase]
			m.unwind(journalBase)
			m.scope = optScope
			m.atomics = m.atomics[:atomicBase]
			if s == 0 {
				break
			}
			s = m.text.PrevElement(s, option.LevelScalar)
		}
	}

	m.choices = m.choices[:choiceBase]
	m.atomics = m.atomics[:atomicBase]
	if i.negative {
		m.unwind(journalBase)
		m.scope = optScope
		return !matched, nil
	}
	if !matched {
		m.unwind(journalBase)
		m.scope = optScope
		return false, nil
	}
	return true, nil
}

// buildMatch snapshots the capture table into an immutable Match. Slot 0 is
// written here from the attempt's boundaries.
func (m *machine) buildMatch(schema *ir.Schema, start, end int) *Match {
	spans := make([]Span, len(m.caps))
	values := make([]any, len(m.caps))
	has := make([]bool, len(m.caps))
	for i, c := range m.caps {
		if c.start >= 0 && c.end >= 0 {
			spans[i] = Span{Start: c.start, End: c.end}
		} else {
			spans[i] = Span{Start: -1, End: -1}
		}
		values[i], has[i] = c.value, c.hasValue
	}
	spans[0] = Span{Start: start, End: end}
	return &Match{input: m.input, schema: schema, spans: spans, values: values, has: has}
}
