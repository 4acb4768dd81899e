// Package component defines the protocol for splicing external parsers into
// a pattern as atomic matching steps, and a registry for resolving them by
// name at compile time.
//
// A Consumer examines the input at a position and either consumes a span,
// declines, or aborts. Declining is ordinary match failure and triggers
// backtracking like any failed node. Aborting is different: the error
// propagates out of the entire match call, because it means the consumer
// could not evaluate, not that the input merely did not match. The engine
// preserves that distinction exactly.
//
// Example:
//
//	reg := component.NewRegistry()
//	reg.Register("uuid", component.UUID{})
//
//	// In a pattern: "id=(?C{uuid})"
package component

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Consumed is the successful outcome of a consumer step. The consumed span
// runs from the position the consumer was invoked at up to End; Output is
// recorded in the match like a capture's value.
type Consumed struct {
	End    int
	Output any
}

// Consumer is an external parser acting as one all-or-nothing matching step.
//
// Consume inspects data[start:bounds]. It returns (nil, nil) when the input
// does not match, a Consumed with start < End <= bounds when it does, and a
// non-nil error only when evaluation itself failed; the engine aborts the
// whole match call on an error. Consume must not retain data and must be
// safe for concurrent calls.
type Consumer interface {
	Consume(data []byte, start, bounds int) (*Consumed, error)
}

// Registry resolves component names to consumers. Compilation looks names
// up once and stores the resolved consumer in the compiled pattern, so
// later registry changes do not affect existing patterns.
type Registry struct {
	mu sync.RWMutex
	m  map[string]Consumer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{m: make(map[string]Consumer)}
}

// ErrDuplicate is returned by Register for an already-registered name.
var ErrDuplicate = errors.New("component: name already registered")

// Register adds a consumer under a name.
func (r *Registry) Register(name string, c Consumer) error {
	if name == "" {
		return errors.New("component: empty name")
	}
	if c == nil {
		return errors.New("component: nil consumer")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.m[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicate, name)
	}
	r.m[name] = c
	return nil
}

// Lookup returns the consumer registered under name.
func (r *Registry) Lookup(name string) (Consumer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.m[name]
	return c, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.m))
	for name := range r.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default is the registry compilation consults when none is configured
// explicitly. The built-in consumers are registered here under the names
// "datetime", "number", "currency", "uuid" and "ipaddr".
var Default = NewRegistry()

func init() {
	mustRegister := func(name string, c Consumer) {
		if err := Default.Register(name, c); err != nil {
			panic(err)
		}
	}
	mustRegister("datetime", DateTime{})
	mustRegister("number", Number{})
	mustRegister("currency", Currency{})
	mustRegister("uuid", UUID{})
	mustRegister("ipaddr", IPAddr{})
}
