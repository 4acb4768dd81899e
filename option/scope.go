package option

// Field identifies one of the scope-overridable option fields.
type Field uint8

const (
	// FieldCase marks Delta.CaseInsensitive as meaningful.
	FieldCase Field = 1 << iota

	// FieldASCII marks Delta.ASCIIClasses as meaningful.
	FieldASCII

	// FieldLevel marks Delta.Level as meaningful.
	FieldLevel

	// FieldWordBoundary marks Delta.WordBoundary as meaningful.
	FieldWordBoundary

	// FieldRepetition marks Delta.Repetition as meaningful.
	FieldRepetition
)

// Delta is a partial override of the scope-sensitive option fields. Fields
// whose bit is absent from Set keep the enclosing scope's value.
//
// Parse-time behavior and engine limits cannot be overridden per scope; they
// belong to the pattern as a whole.
type Delta struct {
	Set             Field
	CaseInsensitive bool
	ASCIIClasses    ASCIIMode
	Level           Level
	WordBoundary    WordBoundary
	Repetition      Repetition
}

// IsZero reports whether the delta overrides nothing.
func (d Delta) IsZero() bool { return d.Set == 0 }

// ApplyTo returns base with the delta's overrides merged in.
func (d Delta) ApplyTo(base Options) Options {
	if d.Set&FieldCase != 0 {
		base.CaseInsensitive = d.CaseInsensitive
	}
	if d.Set&FieldASCII != 0 {
		base.ASCIIClasses = d.ASCIIClasses
	}
	if d.Set&FieldLevel != 0 {
		base.Level = d.Level
	}
	if d.Set&FieldWordBoundary != 0 {
		base.WordBoundary = d.WordBoundary
	}
	if d.Set&FieldRepetition != 0 {
		base.Repetition = d.Repetition
	}
	return base
}

// Scope is one frame in an immutable chain of option scopes. Entering a
// scope derives a child frame holding the fully merged option set; leaving
// returns to the parent. Frames never change after creation, so a *Scope
// saved at some point restores the complete scope state when assigned back.
// A backtracking matcher relies on that: unwinding to a saved choice may
// re-enter scopes left since the save or leave scopes entered after it, and
// a plain pointer swap covers both.
type Scope struct {
	opts   Options
	parent *Scope
}

// NewScope returns a root frame holding the global option set.
func NewScope(global Options) *Scope {
	return &Scope{opts: global}
}

// Enter derives the frame for a nested scope, merging delta over this
// frame's effective set.
func (s *Scope) Enter(d Delta) *Scope {
	return &Scope{opts: d.ApplyTo(s.opts), parent: s}
}

// Leave returns the enclosing frame. Leaving the root panics: scope entries
// and exits are balanced by construction of the pattern.
func (s *Scope) Leave() *Scope {
	if s.parent == nil {
		panic("option: unbalanced scope exit")
	}
	return s.parent
}

// Options returns the effective option set of this frame.
func (s *Scope) Options() Options {
	return s.opts
}
