package fix

import (
	"fmt"
	"strings"
)

// Diff is a unified, line-based diff between the text a rule saw and the
// text it produced.
type Diff struct {
	// Path is the file path for the diff header.
	Path string

	// Original is the content before the rewrite.
	Original []byte

	// Modified is the content after the rewrite.
	Modified []byte

	// Hunks contains the diff hunks.
	Hunks []DiffHunk

	// Additions is the number of lines added.
	Additions int

	// Deletions is the number of lines deleted.
	Deletions int
}

// DiffHunk is one contiguous region of change plus its context.
type DiffHunk struct {
	// OriginalStart is the 1-based first line of the hunk in the original.
	OriginalStart int
	OriginalCount int

	// ModifiedStart is the 1-based first line of the hunk in the modified text.
	ModifiedStart int
	ModifiedCount int

	Lines []DiffLine
}

// DiffLine is a single line in a hunk.
type DiffLine struct {
	Kind    DiffLineKind
	Content string
}

// DiffLineKind indicates the type of diff line.
type DiffLineKind int

const (
	// DiffLineContext is an unchanged context line.
	DiffLineContext DiffLineKind = iota

	// DiffLineAdd is a line present only in the modified text.
	DiffLineAdd

	// DiffLineRemove is a line present only in the original text.
	DiffLineRemove
)

// contextLines is the number of unchanged lines shown around a change.
const contextLines = 3

// GenerateDiff creates a unified diff between original and modified content.
// Returns nil if the contents are identical.
func GenerateDiff(path string, original, modified []byte) *Diff {
	if string(original) == string(modified) {
		return nil
	}

	ops := diffLines(splitLines(original), splitLines(modified))
	hunks := groupHunks(ops)
	if len(hunks) == 0 {
		return nil
	}

	diff := &Diff{
		Path:     path,
		Original: original,
		Modified: modified,
		Hunks:    hunks,
	}
	for _, op := range ops {
		switch op.kind {
		case DiffLineAdd:
			diff.Additions++
		case DiffLineRemove:
			diff.Deletions++
		}
	}

	return diff
}

// GitHeader returns the "diff --git" header line.
func (d *Diff) GitHeader() string {
	if d == nil {
		return ""
	}
	path := strings.TrimPrefix(d.Path, "/")
	return fmt.Sprintf("diff --git a/%s b/%s", path, path)
}

// String renders the diff in unified format without the git header.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}

	path := strings.TrimPrefix(d.Path, "/")

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", path, path)

	for _, hunk := range d.Hunks {
		fmt.Fprintf(&sb, "@@ -%d,%d +%d,%d @@\n",
			hunk.OriginalStart, hunk.OriginalCount,
			hunk.ModifiedStart, hunk.ModifiedCount)

		for _, line := range hunk.Lines {
			sb.WriteString(line.Kind.prefix())
			sb.WriteString(line.Content)
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

// FullString renders the diff including the git header.
func (d *Diff) FullString() string {
	if !d.HasChanges() {
		return ""
	}
	return d.GitHeader() + "\n" + d.String()
}

// HasChanges reports whether the diff contains any hunk.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

func (k DiffLineKind) prefix() string {
	switch k {
	case DiffLineAdd:
		return "+"
	case DiffLineRemove:
		return "-"
	default:
		return " "
	}
}

// splitLines splits content into lines, dropping the empty tail after a
// final newline.
func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
}

type diffOp struct {
	kind    DiffLineKind
	content string
}

// diffLines computes an edit script between two line slices from their
// longest common subsequence.
func diffLines(orig, mod []string) []diffOp {
	// table[i][j] is the LCS length of orig[i:] and mod[j:].
	table := make([][]int, len(orig)+1)
	for i := range table {
		table[i] = make([]int, len(mod)+1)
	}
	for i := len(orig) - 1; i >= 0; i-- {
		for j := len(mod) - 1; j >= 0; j-- {
			if orig[i] == mod[j] {
				table[i][j] = table[i+1][j+1] + 1
			} else {
				table[i][j] = max(table[i+1][j], table[i][j+1])
			}
		}
	}

	ops := make([]diffOp, 0, max(len(orig), len(mod)))
	i, j := 0, 0
	for i < len(orig) && j < len(mod) {
		switch {
		case orig[i] == mod[j]:
			ops = append(ops, diffOp{kind: DiffLineContext, content: orig[i]})
			i++
			j++
		case table[i+1][j] >= table[i][j+1]:
			ops = append(ops, diffOp{kind: DiffLineRemove, content: orig[i]})
			i++
		default:
			ops = append(ops, diffOp{kind: DiffLineAdd, content: mod[j]})
			j++
		}
	}
	for ; i < len(orig); i++ {
		ops = append(ops, diffOp{kind: DiffLineRemove, content: orig[i]})
	}
	for ; j < len(mod); j++ {
		ops = append(ops, diffOp{kind: DiffLineAdd, content: mod[j]})
	}

	return ops
}

// groupHunks slices an edit script into hunks, joining changes separated by
// at most twice the context size.
func groupHunks(ops []diffOp) []DiffHunk {
	var hunks []DiffHunk

	idx := 0
	for idx < len(ops) {
		if ops[idx].kind == DiffLineContext {
			idx++
			continue
		}

		// Extend the change region while the next change is close enough.
		end := idx
		for scan := idx; scan < len(ops); scan++ {
			if ops[scan].kind != DiffLineContext {
				end = scan + 1
				continue
			}
			if scan-end >= contextLines*2 {
				break
			}
		}

		hunks = append(hunks, buildHunk(ops, max(0, idx-contextLines), min(len(ops), end+contextLines)))
		idx = end
		if idx < len(ops) {
			idx += min(contextLines, len(ops)-idx)
		}
	}

	return hunks
}

func buildHunk(ops []diffOp, start, end int) DiffHunk {
	hunk := DiffHunk{OriginalStart: 1, ModifiedStart: 1}
	for _, op := range ops[:start] {
		if op.kind != DiffLineAdd {
			hunk.OriginalStart++
		}
		if op.kind != DiffLineRemove {
			hunk.ModifiedStart++
		}
	}

	for _, op := range ops[start:end] {
		hunk.Lines = append(hunk.Lines, DiffLine{Kind: op.kind, Content: op.content})
		if op.kind != DiffLineAdd {
			hunk.OriginalCount++
		}
		if op.kind != DiffLineRemove {
			hunk.ModifiedCount++
		}
	}

	return hunk
}
