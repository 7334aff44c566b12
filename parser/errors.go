package parser

import (
	"errors"
	"fmt"
)

// ErrParse is the sentinel wrapped by every ParseError.
var ErrParse = errors.New("output parse error")

// ParseError reports model output that does not match the expected
// structure. Raw carries the unmodified text for diagnostics.
type ParseError struct {
	Raw    string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse output: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("parse output: %s", e.Reason)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error { return e.Err }

// Is reports ErrParse.
func (e *ParseError) Is(target error) bool { return target == ErrParse }
