package fix

import (
	"fmt"
	"slices"
)

// ValidationError describes an edit whose range does not fit the content.
type ValidationError struct {
	Edit    TextEdit
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit [%d:%d]: %s", e.Edit.StartOffset, e.Edit.EndOffset, e.Message)
}

// ConflictError describes two overlapping edits.
type ConflictError struct {
	Edit1 TextEdit
	Edit2 TextEdit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping edits: [%d:%d] and [%d:%d]",
		e.Edit1.StartOffset, e.Edit1.EndOffset,
		e.Edit2.StartOffset, e.Edit2.EndOffset)
}

// Composition is the outcome of composing a batch of proposed edits.
type Composition struct {
	// Accepted holds sorted, pairwise non-overlapping edits safe to apply
	// in a single batch.
	Accepted []TextEdit

	// Deferred holds edits that overlapped an accepted edit. They are not
	// dropped: the caller re-runs the proposing rule on the updated text.
	Deferred []TextEdit

	// Merged counts overlapping deletions that were folded into one.
	Merged int
}

// HasDeferred reports whether another pass is required.
func (c Composition) HasDeferred() bool {
	return len(c.Deferred) > 0
}

// ValidateEdits checks that all edits have valid ranges for the given content length.
func ValidateEdits(edits []TextEdit, contentLen int) error {
	for _, edit := range edits {
		switch {
		case edit.StartOffset < 0:
			return &ValidationError{Edit: edit, Message: "start offset is negative"}
		case edit.EndOffset < edit.StartOffset:
			return &ValidationError{Edit: edit, Message: "end offset is before start offset"}
		case edit.EndOffset > contentLen:
			return &ValidationError{
				Edit:    edit,
				Message: fmt.Sprintf("end offset %d exceeds content length %d", edit.EndOffset, contentLen),
			}
		}
	}
	return nil
}

// SortEdits orders edits by start offset, then by end offset. The sort is
// stable so that insertions at the same offset keep their proposal order.
func SortEdits(edits []TextEdit) {
	slices.SortStableFunc(edits, func(a, b TextEdit) int {
		if a.StartOffset != b.StartOffset {
			return a.StartOffset - b.StartOffset
		}
		return a.EndOffset - b.EndOffset
	})
}

// DetectConflicts returns the first overlap in a sorted slice, or nil.
func DetectConflicts(edits []TextEdit) error {
	for i := 1; i < len(edits); i++ {
		if edits[i].StartOffset < edits[i-1].EndOffset {
			return &ConflictError{Edit1: edits[i-1], Edit2: edits[i]}
		}
	}
	return nil
}

// PrepareEdits validates and sorts edits, failing on any overlap.
func PrepareEdits(edits []TextEdit, contentLen int) ([]TextEdit, error) {
	if len(edits) == 0 {
		return edits, nil
	}

	if err := ValidateEdits(edits, contentLen); err != nil {
		return nil, err
	}

	result := slices.Clone(edits)
	SortEdits(result)

	if err := DetectConflicts(result); err != nil {
		return nil, err
	}

	return result, nil
}

// Compose turns an arbitrary batch of proposed edits into an applicable one.
//
// Edits are sorted and accepted greedily: an edit that starts before the end
// of the last accepted edit is deferred, unless both are pure deletions, in
// which case they are merged into one deletion covering the union. The only
// error is a validation failure.
func Compose(edits []TextEdit, contentLen int) (Composition, error) {
	if len(edits) == 0 {
		return Composition{}, nil
	}

	if err := ValidateEdits(edits, contentLen); err != nil {
		return Composition{}, err
	}

	sorted := slices.Clone(edits)
	SortEdits(sorted)

	comp := Composition{Accepted: make([]TextEdit, 0, len(sorted))}
	current := sorted[0]
	for _, edit := range sorted[1:] {
		switch {
		case edit == current:
			// The same edit proposed twice is applied once.
			comp.Merged++
		case edit.StartOffset >= current.EndOffset:
			comp.Accepted = append(comp.Accepted, current)
			current = edit
		case current.IsDeletion() && edit.IsDeletion():
			current = TextEdit{
				StartOffset: min(current.StartOffset, edit.StartOffset),
				EndOffset:   max(current.EndOffset, edit.EndOffset),
			}
			comp.Merged++
		default:
			comp.Deferred = append(comp.Deferred, edit)
		}
	}
	comp.Accepted = append(comp.Accepted, current)

	return comp, nil
}
