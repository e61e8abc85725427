package rules

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/yaklabco/collation/pkg/casing"
	"github.com/yaklabco/collation/pkg/tsast"
)

// container is a statement list that may hold import and export
// statements: the file itself or an ambient `declare module "name"` block.
// Namespaces are not containers since they cannot hold `export { ... }`.
type container struct {
	module *tsast.Declaration
	stmts  []tsast.Statement
}

// containersOf lists the file followed by its ambient module blocks.
func containersOf(file *tsast.File) []container {
	out := []container{{stmts: file.Statements}}
	for _, stmt := range file.Statements {
		d, ok := stmt.(*tsast.Declaration)
		if ok && d.Decl == tsast.DeclModule && d.ModuleString && !d.Body.IsZero() {
			out = append(out, container{module: d, stmts: d.Statements})
		}
	}
	return out
}

func (c container) noun() string {
	if c.module != nil {
		return "module"
	}
	return "file"
}

// owner returns a node of the container for edit validation.
func (c container) owner() tsast.Node {
	if c.module != nil {
		return c.module
	}
	if len(c.stmts) > 0 {
		return c.stmts[len(c.stmts)-1]
	}
	return nil
}

// declaredNames collects the names bound by stmts: declarations and
// import bindings.
func declaredNames(stmts []tsast.Statement) map[string]bool {
	names := make(map[string]bool)
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *tsast.Declaration:
			for _, n := range s.Names() {
				names[n] = true
			}
		case *tsast.ImportDecl:
			if s.Default != nil {
				names[s.Default.Name] = true
			}
			if s.Namespace != nil {
				names[s.Namespace.Name] = true
			}
			for _, spec := range s.Named {
				names[spec.Local] = true
			}
		}
	}
	return names
}

// scopeNames returns the names visible in c: its own and, inside a module
// block, the file's.
func scopeNames(file *tsast.File, c container) map[string]bool {
	names := declaredNames(c.stmts)
	if c.module != nil {
		for n := range declaredNames(file.Statements) {
			names[n] = true
		}
	}
	return names
}

// fileStem returns the base name of path without its extension. Index
// files are named after their directory.
func fileStem(p string) string {
	base := filepath.Base(p)
	stripped := false
	for _, ext := range []string{".d.ts", ".d.mts", ".d.cts"} {
		if strings.HasSuffix(base, ext) {
			base = strings.TrimSuffix(base, ext)
			stripped = true
			break
		}
	}
	if !stripped {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if base == "index" {
		dir := filepath.Base(filepath.Dir(p))
		if dir == "." || dir == string(filepath.Separator) {
			return ""
		}
		return dir
	}
	return base
}

// defaultName derives the identifier a default export of c is named
// after. It is empty when nothing usable is left of the name.
func defaultName(file *tsast.File, c container, style casing.Style) string {
	stem := fileStem(file.Path)
	if c.module != nil {
		stem = path.Base(c.module.Name)
	}
	if casing.Words(stem) == nil {
		return ""
	}
	return casing.Identifier(stem, style)
}

// tailInsertion returns where and what to insert so that lines end up as
// the last statements of c. removed lists spans deleted in the same pass;
// a deletion that reaches the insertion point decides whether a line
// break is needed in front.
func tailInsertion(file *tsast.File, c container, removed []tsast.Span, lines []string) (int, string) {
	content := file.Content
	nl := file.Newline()

	if c.module == nil {
		offset := len(content)
		prev := offset
		for changed := true; changed; {
			changed = false
			for _, s := range removed {
				if s.End == prev && s.Start < prev {
					prev = s.Start
					changed = true
				}
			}
		}
		prefix := ""
		if prev > 0 && content[prev-1] != '\n' {
			prefix = nl
		}
		return offset, prefix + strings.Join(lines, nl) + nl
	}

	closing := c.module.Body.End - 1
	lineStart := closing
	for lineStart > 0 && (content[lineStart-1] == ' ' || content[lineStart-1] == '\t') {
		lineStart--
	}
	if lineStart > 0 && content[lineStart-1] == '\n' {
		indent := file.Indent(c.module.Span().Start) + "  "
		if len(c.stmts) > 0 {
			indent = file.Indent(c.stmts[0].Span().Start)
		}
		var b strings.Builder
		for _, line := range lines {
			b.WriteString(indent + line + nl)
		}
		return lineStart, b.String()
	}

	prefix := ""
	if content[closing-1] != ' ' {
		prefix = " "
	}
	return closing, prefix + strings.Join(lines, " ") + " "
}
