package ir

import (
	"errors"
	"fmt"
)

// SlotInfo describes one capture slot. Typed slots carry a value beyond the
// matched span: a capture transform's output or an external consumer's
// output.
type SlotInfo struct {
	Name  string
	Typed bool
}

// ErrDuplicateName is returned when two capture groups share a name.
var ErrDuplicateName = errors.New("ir: duplicate capture name")

// Schema is the ordered capture layout of a compiled pattern. Slot 0 is
// always the full match and is created by NewSchema. Construction happens
// during compilation; afterwards the schema is read-only.
type Schema struct {
	slots []SlotInfo
	names map[string]int
}

// NewSchema returns a schema holding only the full-match slot.
func NewSchema() *Schema {
	return &Schema{
		slots: []SlotInfo{{}},
		names: make(map[string]int),
	}
}

// Add appends a slot and returns its index. An empty name leaves the slot
// unnamed; a duplicate name fails.
func (s *Schema) Add(name string, typed bool) (int, error) {
	if name != "" {
		if _, ok := s.names[name]; ok {
			return 0, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		s.names[name] = len(s.slots)
	}
	s.slots = append(s.slots, SlotInfo{Name: name, Typed: typed})
	return len(s.slots) - 1, nil
}

// Len returns the number of slots, counting the full-match slot.
func (s *Schema) Len() int { return len(s.slots) }

// Slot returns the description of slot i.
func (s *Schema) Slot(i int) SlotInfo { return s.slots[i] }

// Index returns the slot of a named capture.
func (s *Schema) Index(name string) (int, bool) {
	i, ok := s.names[name]
	return i, ok
}

// Names returns the slot names in slot order; unnamed slots contribute an
// empty string. The result is freshly allocated.
func (s *Schema) Names() []string {
	out := make([]string, len(s.slots))
	for i, sl := range s.slots {
		out[i] = sl.Name
	}
	return out
}
