package eval

import (
	"errors"
	"fmt"
)

var (
	errEmpty    = errors.New("empty expression")
	errNoTarget = errors.New("no assignment target")
)

// Error reports a failure to compile or evaluate an expression.
type Error struct {
	Expr string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("eval %q: %v", e.Expr, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
