package rules

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yaklabco/collation/pkg/lint"
	"github.com/yaklabco/collation/pkg/tsast"
)

// orderItem is one element of a collection that should be sorted.
type orderItem struct {
	// Key is compared byte-wise.
	Key string

	// Label names the element in messages.
	Label string

	// Span is reported; Full is moved and includes the element's leading
	// comments.
	Span tsast.Span
	Full tsast.Span
}

// misplaced is an element whose position changes, with a hint naming its
// nearest neighbour in sorted order.
type misplaced struct {
	item orderItem
	hint string
}

// reorder is the rewrite that sorts one collection.
type reorder struct {
	// Span runs from the first element's Full start to the end of the last
	// slot; Text replaces it.
	Span tsast.Span
	Text string

	Moved []misplaced
}

// slot is the text following one element position, up to the next
// position, split around the comment that ends the element's line.
type slot struct {
	before  string
	comment string
	after   string

	// end is where the slot stops; lineEnd reports whether a comment
	// written after before would end its line.
	end     int
	lineEnd bool
}

// with renders the slot carrying comment instead of its own.
func (s slot) with(comment string) string {
	switch {
	case s.comment != "" && comment == "":
		return strings.TrimRight(s.before, " \t") + s.after
	case s.comment == "" && comment != "":
		return s.before + " " + comment + s.after
	default:
		return s.before + comment + s.after
	}
}

// slotsOf splits the text between elements into slots. The last slot
// covers the element's separator and trailing comment.
func slotsOf(file *tsast.File, items []orderItem) []slot {
	slots := make([]slot, len(items))
	for j, item := range items {
		start := item.Full.End
		next := -1
		if j+1 < len(items) {
			next = items[j+1].Full.Start
		}

		sl := slot{end: next, lineEnd: true}
		if c, ok := file.TrailingComment(start); ok && (next < 0 || c.Span.End <= next) {
			sl.before = file.Slice(tsast.Span{Start: start, End: c.Span.Start})
			sl.comment = file.Slice(c.Span)
			if next < 0 {
				sl.end = c.Span.End
			} else {
				sl.after = file.Slice(tsast.Span{Start: c.Span.End, End: next})
			}
			slots[j] = sl
			continue
		}

		sep := separatorEnd(file.Content, start)
		if next < 0 {
			next = sep
			sl.end = sep
		}
		sl.before = file.Slice(tsast.Span{Start: start, End: sep})
		sl.after = file.Slice(tsast.Span{Start: sep, End: next})
		k := sep
		for k < len(file.Content) && (file.Content[k] == ' ' || file.Content[k] == '\t' || file.Content[k] == '\r') {
			k++
		}
		sl.lineEnd = k == len(file.Content) || file.Content[k] == '\n'
		slots[j] = sl
	}
	return slots
}

// separatorEnd returns the offset after the `,` or `;` following start, or
// start when there is none.
func separatorEnd(content []byte, start int) int {
	j := start
	for j < len(content) && (content[j] == ' ' || content[j] == '\t') {
		j++
	}
	if j < len(content) && (content[j] == ',' || content[j] == ';') {
		return j + 1
	}
	return start
}

// planReorder sorts items stably by Key. Sorted elements go back into the
// original slots, so separators and line breaks stay where they were. A
// comment ending an element's line moves with the element, unless it
// would land in a slot that does not end its line. It returns false when
// the collection is already sorted.
func planReorder(file *tsast.File, items []orderItem) (reorder, bool) {
	if len(items) < 2 {
		return reorder{}, false
	}

	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b orderItem) int {
		return strings.Compare(a.Key, b.Key)
	})

	var moved []misplaced
	for j, item := range sorted {
		if item.Full == items[j].Full {
			continue
		}
		var hint string
		if j == 0 {
			hint = fmt.Sprintf("should appear alphabetically before %q", sorted[1].Label)
		} else {
			hint = fmt.Sprintf("should appear alphabetically after %q", sorted[j-1].Label)
		}
		moved = append(moved, misplaced{item: item, hint: hint})
	}
	if len(moved) == 0 {
		return reorder{}, false
	}

	slots := slotsOf(file, items)
	trailing := make(map[tsast.Span]string, len(items))
	for j, item := range items {
		trailing[item.Full] = slots[j].comment
	}
	carry := true
	for j, item := range sorted {
		if trailing[item.Full] != "" && slots[j].comment == "" && !slots[j].lineEnd {
			carry = false
		}
	}

	var b strings.Builder
	for j, item := range sorted {
		b.WriteString(file.Slice(item.Full))
		if carry {
			b.WriteString(slots[j].with(trailing[item.Full]))
		} else {
			b.WriteString(slots[j].with(slots[j].comment))
		}
	}

	return reorder{
		Span:  tsast.Span{Start: items[0].Full.Start, End: slots[len(slots)-1].end},
		Text:  b.String(),
		Moved: moved,
	}, true
}

// applyReorder proposes the reorder of items, owned by owner, and returns
// one diagnostic per moved element.
func applyReorder(rc *lint.RuleContext, owner tsast.Node, items []orderItem, noun string) ([]lint.Diagnostic, error) {
	plan, ok := planReorder(rc.File, items)
	if !ok {
		return nil, nil
	}
	if err := rc.Replace(owner, plan.Span, plan.Text); err != nil {
		return nil, err
	}

	diags := make([]lint.Diagnostic, 0, len(plan.Moved))
	for _, m := range plan.Moved {
		diags = append(diags, rc.Report(m.item.Span,
			fmt.Sprintf("%s %q is not in alphabetical order", noun, m.item.Label)).
			WithSuggestion(fmt.Sprintf("%q %s", m.item.Label, m.hint)).
			Build())
	}
	return diags, nil
}
