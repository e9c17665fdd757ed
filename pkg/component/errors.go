package component

import (
	"errors"
	"fmt"
)

var (
	// ErrTemplateDSD is returned for templates containing a declarative
	// shadow root.
	ErrTemplateDSD = errors.New("component: declarative shadow DOM is not allowed")

	// ErrInvalidName is returned for names that are not valid custom
	// element names.
	ErrInvalidName = errors.New("component: invalid name")

	// ErrNotDefined is returned when creating an element of an unknown
	// component.
	ErrNotDefined = errors.New("component: not defined")

	// ErrScript wraps failures of the script evaluator.
	ErrScript = errors.New("component: script failed")

	// ErrPlugin wraps failures of a parse or define plugin.
	ErrPlugin = errors.New("component: plugin failed")
)

// FetchError reports a template that could not be loaded.
type FetchError struct {
	Resolved string
	Reason   string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("component: fetching %q: %s", e.Resolved, e.Reason)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
