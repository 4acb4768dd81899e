package engine

import "github.com/coregx/uregex/ir"

// Span is a half-open byte range into the matched input. A Start of -1
// marks a capture slot that did not participate in the match.
type Span struct {
	Start int
	End   int
}

// IsSet reports whether the span participated in the match.
func (s Span) IsSet() bool { return s.Start >= 0 }

// Match is one successful match: the full range, every capture slot's span,
// and the transformed outputs of typed slots and components. A Match is
// immutable; the input is referenced, not copied.
//
// Slot 0 is always the full match. Further slots follow the pattern's
// capture schema in order; named groups are also reachable by name.
//
// Example:
//
//	m, _ := eng.FirstMatch([]byte("order 1542"))
//	m.String()            // "order 1542"
//	m.GroupByName("id")   // "1542"
type Match struct {
	input  []byte
	schema *ir.Schema
	spans  []Span
	values []any
	has    []bool
}

// Start returns the inclusive start position of the full match.
func (m *Match) Start() int { return m.spans[0].Start }

// End returns the exclusive end position of the full match.
func (m *Match) End() int { return m.spans[0].End }

// Len returns the length of the full match in bytes.
func (m *Match) Len() int { return m.spans[0].End - m.spans[0].Start }

// IsEmpty reports whether the match has zero length. Empty matches occur
// with patterns that can succeed without consuming input.
func (m *Match) IsEmpty() bool { return m.spans[0].Start == m.spans[0].End }

// Bytes returns the matched bytes as a view into the original input, not a
// copy.
func (m *Match) Bytes() []byte {
	return m.input[m.spans[0].Start:m.spans[0].End]
}

// String returns the matched text, copying it out of the input.
func (m *Match) String() string { return string(m.Bytes()) }

// NumSlots returns the number of capture slots, the full match included.
func (m *Match) NumSlots() int { return len(m.spans) }

// GroupSpan returns slot i's span. ok is false when the slot is out of
// range or did not participate in the match.
func (m *Match) GroupSpan(i int) (Span, bool) {
	if i < 0 || i >= len(m.spans) || !m.spans[i].IsSet() {
		return Span{Start: -1, End: -1}, false
	}
	return m.spans[i], true
}

// Group returns the bytes captured by slot i, or nil when the slot did not
// participate in the match.
func (m *Match) Group(i int) []byte {
	s, ok := m.GroupSpan(i)
	if !ok {
		return nil
	}
	return m.input[s.Start:s.End]
}

// GroupByName returns the bytes captured by the named group, or nil when no
// such group exists or it did not participate.
func (m *Match) GroupByName(name string) []byte {
	i, ok := m.schema.Index(name)
	if !ok {
		return nil
	}
	return m.Group(i)
}

// Value returns the transformed output recorded for slot i. ok is false for
// slots without a transform or component, and for slots that did not
// participate.
func (m *Match) Value(i int) (any, bool) {
	if i < 0 || i >= len(m.values) || !m.has[i] {
		return nil, false
	}
	return m.values[i], true
}

// ValueByName is Value looked up through the capture schema's names.
func (m *Match) ValueByName(name string) (any, bool) {
	i, ok := m.schema.Index(name)
	if !ok {
		return nil, false
	}
	return m.Value(i)
}

// Names returns the slot names in slot order; unnamed slots are empty
// strings.
func (m *Match) Names() []string { return m.schema.Names() }
