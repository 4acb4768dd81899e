// Package engine executes compiled patterns. A tree from ir lowers once
// into a flat instruction program; matching runs that program with an
// explicit choice stack, so repetition never grows the Go call stack and a
// possessive or atomic region can discard its alternatives by truncating
// the stack to a recorded depth. Lookarounds are the one recursive
// construct, nesting the dispatch loop once per lookaround level.
//
// An Engine is immutable after New and safe for concurrent use: all mutable
// match state lives in pooled per-call machines.
//
// Example:
//
//	tree, _ := syntax.Parse(`(?P<word>\w+)`, option.Defaults(), nil)
//	eng, _ := engine.New(tree)
//	m, _ := eng.FirstMatch([]byte("¡hola!"))
//	m.GroupByName("word") // "hola"
package engine

import (
	"sync"
	"sync/atomic"

	"github.com/coregx/uregex/ir"
	"github.com/coregx/uregex/option"
	"github.com/coregx/uregex/prefilter"
)

// Engine is an executable pattern. Compile once, match from any number of
// goroutines.
type Engine struct {
	// stats must be the first field so its uint64 counters stay 8-byte
	// aligned for atomic access on 32-bit platforms.
	stats Stats

	tree *ir.Tree
	prog *program
	pf   prefilter.Scanner

	pool sync.Pool
}

// Stats counts engine work across all calls on one Engine. Counters update
// atomically when a call finishes; a snapshot is consistent per counter,
// not across counters.
type Stats struct {
	// Steps counts executed instructions.
	Steps uint64

	// Backtracks counts restored choice points.
	Backtracks uint64

	// ExternalCalls counts consumer invocations.
	ExternalCalls uint64

	// PrefilterHits counts candidate positions the prefilter produced.
	PrefilterHits uint64

	// PrefilterMisses counts candidates that failed verification.
	PrefilterMisses uint64
}

// New builds an executable engine from a compiled tree. The tree is
// validated again here so hand-built trees fail fast rather than corrupt a
// match.
func New(tree *ir.Tree) (*Engine, error) {
	if err := tree.Options.Validate(); err != nil {
		return nil, err
	}
	if err := ir.Validate(tree); err != nil {
		return nil, err
	}
	prog, err := compile(tree)
	if err != nil {
		return nil, err
	}
	e := &Engine{tree: tree, prog: prog, pf: prefilter.FromTree(tree)}
	e.pool.New = func() any {
		return newMachine(e.prog, e.tree.Options, e.tree.Schema.Len())
	}
	return e, nil
}

// Tree returns the compiled tree the engine executes.
func (e *Engine) Tree() *ir.Tree { return e.tree }

// WholeMatch matches the pattern against the entire input. A nil Match with
// a nil error means no match; the error is only an external-component abort
// or an exhausted step budget.
func (e *Engine) WholeMatch(input []byte) (*Match, error) {
	m := e.get(input)
	defer e.put(m)
	end, ok, err := m.attempt(0, len(input))
	if err != nil || !ok {
		return nil, err
	}
	return m.buildMatch(e.tree.Schema, 0, end), nil
}

// PrefixMatch matches the pattern at the start of the input, consuming as
// much as the pattern's semantics choose.
func (e *Engine) PrefixMatch(input []byte) (*Match, error) {
	m := e.get(input)
	defer e.put(m)
	end, ok, err := m.attempt(0, -1)
	if err != nil || !ok {
		return nil, err
	}
	return m.buildMatch(e.tree.Schema, 0, end), nil
}

// FirstMatch finds the leftmost match in the input.
func (e *Engine) FirstMatch(input []byte) (*Match, error) {
	return e.FirstMatchAt(input, 0)
}

// FirstMatchAt finds the leftmost match starting at or after position at.
// The whole input stays visible to lookbehind and word-boundary
// classification; only the search start moves. An at outside [0, len]
// reports no match.
//
// Start positions advance one element at a time at the pattern's top-level
// semantic level. When the pattern yields a prefilter, candidate positions
// come from a literal scan instead, snapped forward to the next element
// boundary.
func (e *Engine) FirstMatchAt(input []byte, at int) (*Match, error) {
	if at < 0 || at > len(input) {
		return nil, nil
	}
	m := e.get(input)
	defer e.put(m)

	pos, scan := at, at
	for {
		if e.pf != nil {
			cand := e.pf.Next(input, scan)
			if cand < 0 {
				return nil, nil
			}
			m.prefHits++
			pos = cand
			if e.tree.Options.Level == option.LevelGrapheme && !m.text.IsClusterBoundary(pos) {
				pos = m.text.Clusters().Next(pos)
			}
		}
		if e.prog.anchoredStart && pos > 0 {
			return nil, nil
		}
		end, ok, err := m.attempt(pos, -1)
		if err != nil {
			return nil, err
		}
		if ok {
			return m.buildMatch(e.tree.Schema, pos, end), nil
		}
		if e.pf != nil {
			m.prefMisses++
			scan = pos + 1
			continue
		}
		if pos >= len(input) {
			return nil, nil
		}
		pos = m.text.NextElement(pos, e.tree.Options.Level)
	}
}

// Stats returns a snapshot of the engine's counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Steps:           atomic.LoadUint64(&e.stats.Steps),
		Backtracks:      atomic.LoadUint64(&e.stats.Backtracks),
		ExternalCalls:   atomic.LoadUint64(&e.stats.ExternalCalls),
		PrefilterHits:   atomic.LoadUint64(&e.stats.PrefilterHits),
		PrefilterMisses: atomic.LoadUint64(&e.stats.PrefilterMisses),
	}
}

// ResetStats zeroes the counters.
func (e *Engine) ResetStats() {
	atomic.StoreUint64(&e.stats.Steps, 0)
	atomic.StoreUint64(&e.stats.Backtracks, 0)
	atomic.StoreUint64(&e.stats.ExternalCalls, 0)
	atomic.StoreUint64(&e.stats.PrefilterHits, 0)
	atomic.StoreUint64(&e.stats.PrefilterMisses, 0)
}

func (e *Engine) get(input []byte) *machine {
	m := e.pool.Get().(*machine)
	m.input = input
	m.text.Reset(input)
	m.limit = e.tree.Options.StepLimit
	return m
}

func (e *Engine) put(m *machine) {
	atomic.AddUint64(&e.stats.Steps, m.steps)
	atomic.AddUint64(&e.stats.Backtracks, m.backtracks)
	atomic.AddUint64(&e.stats.ExternalCalls, m.external)
	atomic.AddUint64(&e.stats.PrefilterHits, m.prefHits)
	atomic.AddUint64(&e.stats.PrefilterMisses, m.prefMisses)
	m.steps, m.backtracks, m.external, m.prefHits, m.prefMisses = 0, 0, 0, 0, 0
	m.input = nil
	m.text.Reset(nil)
	e.pool.Put(m)
}
