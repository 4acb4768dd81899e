package syntax

import "fmt"

// Error is a pattern syntax error with the byte offset it was detected at.
type Error struct {
	Pos int
	Msg string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("syntax: %s at offset %d", e.Msg, e.Pos)
}

func (p *parser) errorf(pos int, format string, args ...any) error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
