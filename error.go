package uregex

import "fmt"

// CompileError wraps a compilation failure with the source pattern.
type CompileError struct {
	// Pattern is the source text, empty for builder expressions.
	Pattern string
	Err     error
}

func (e *CompileError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("uregex: compiling %q: %v", e.Pattern, e.Err)
	}
	return fmt.Sprintf("uregex: compiling expression: %v", e.Err)
}

// Unwrap returns the underlying parse, schema or validation error.
func (e *CompileError) Unwrap() error {
	return e.Err
}

// ValueError reports a type mismatch from As: the slot's recorded value is
// not of the requested type.
type ValueError struct {
	Slot int
	Want string
	Got  string
}

func (e *ValueError) Error() string {
	if e.Slot < 0 {
		return fmt.Sprintf("uregex: %s, want %s", e.Got, e.Want)
	}
	return fmt.Sprintf("uregex: slot %d holds %s, not %s", e.Slot, e.Got, e.Want)
}
