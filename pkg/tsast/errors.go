package tsast

import (
	"errors"
	"fmt"
)

// ErrStaleHandle is returned when a node or handle acquired from an older
// generation of a file is used against a newer one. Callers recover by
// re-querying the current file.
var ErrStaleHandle = errors.New("stale node handle")

// ErrParse is the sentinel wrapped by every SyntaxError.
var ErrParse = errors.New("parse error")

// SyntaxError describes a source that could not be tokenized or whose
// brackets do not balance.
type SyntaxError struct {
	Path    string
	Offset  int
	Line    int
	Column  int
	Message string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, e.Message)
}

// Unwrap returns ErrParse.
func (e *SyntaxError) Unwrap() error {
	return ErrParse
}

func staleError(n Node, current uint64) error {
	span := n.Span()
	return fmt.Errorf("%w: %s [%d:%d] from generation %d, file is at generation %d",
		ErrStaleHandle, n.Kind(), span.Start, span.End, n.Generation(), current)
}
