// Package fix provides text edits, conflict-free edit composition and
// unified diffs for rewritten sources.
package fix

// TextEdit represents a single text replacement in a file.
// Edits are values: once proposed they are never mutated.
type TextEdit struct {
	// StartOffset is the byte index where the edit begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the edit ends (exclusive).
	EndOffset int

	// NewText is the replacement text.
	NewText string
}

// IsInsertion reports whether the edit replaces an empty range.
func (e TextEdit) IsInsertion() bool {
	return e.StartOffset == e.EndOffset
}

// IsDeletion reports whether the edit removes text without replacing it.
func (e TextEdit) IsDeletion() bool {
	return e.NewText == "" && e.EndOffset > e.StartOffset
}

// Overlaps reports whether the two edits cannot be applied in the same batch.
// Touching ranges do not overlap; an insertion overlaps a range only when it
// lands strictly inside it.
func (e TextEdit) Overlaps(other TextEdit) bool {
	if e.StartOffset > other.StartOffset || (e.StartOffset == other.StartOffset && e.EndOffset > other.EndOffset) {
		e, other = other, e
	}
	return other.StartOffset < e.EndOffset
}

// EditBuilder accumulates text edits proposed against one source snapshot.
type EditBuilder struct {
	Edits []TextEdit
}

// NewEditBuilder creates a new EditBuilder.
func NewEditBuilder() *EditBuilder {
	return &EditBuilder{
		Edits: make([]TextEdit, 0),
	}
}

// ReplaceRange adds an edit that replaces bytes [start, end) with newText.
func (b *EditBuilder) ReplaceRange(start, end int, newText string) {
	b.Edits = append(b.Edits, TextEdit{
		StartOffset: start,
		EndOffset:   end,
		NewText:     newText,
	})
}

// Insert adds an edit that inserts text at the given offset.
func (b *EditBuilder) Insert(offset int, text string) {
	b.ReplaceRange(offset, offset, text)
}

// Delete adds an edit that deletes bytes [start, end).
func (b *EditBuilder) Delete(start, end int) {
	b.ReplaceRange(start, end, "")
}

// Len returns the number of pending edits.
func (b *EditBuilder) Len() int {
	return len(b.Edits)
}

// Take returns the pending edits and empties the builder.
func (b *EditBuilder) Take() []TextEdit {
	edits := b.Edits
	b.Edits = make([]TextEdit, 0)
	return edits
}

// Reset discards all pending edits.
func (b *EditBuilder) Reset() {
	b.Edits = b.Edits[:0]
}
