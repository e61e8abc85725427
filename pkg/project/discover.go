package project

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yaklabco/collation/pkg/tsast"
)

// alwaysSkipped are directory names discovery never descends into.
//
//nolint:gochecknoglobals // Constant list.
var alwaysSkipped = []string{"node_modules", "bower_components", "jspm_packages"}

// walker finds source files under a root.
type walker struct {
	root           string
	include        []pattern
	ignore         []pattern
	followSymlinks bool
	visited        map[string]bool
}

// walk returns the slash-separated paths, relative to w.root, of the
// source files under dir in lexical order.
func (w *walker) walk(ctx context.Context, dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		rel := w.rel(path)
		if entry.IsDir() {
			if path == dir {
				return nil
			}
			if w.skipDir(entry.Name(), rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil //nolint:nilerr // Broken symlinks are skipped.
			}
			info, err := os.Stat(target)
			if err != nil {
				return nil //nolint:nilerr // Inaccessible targets are skipped.
			}
			if info.IsDir() {
				if !w.followSymlinks || w.skipDir(entry.Name(), rel) || w.visited[target] {
					return nil
				}
				w.visited[target] = true
				// Walk the target, not the link: WalkDir does not follow a
				// symlinked root.
				sub, err := w.walkLinked(ctx, target, rel)
				if err != nil {
					return err
				}
				files = append(files, sub...)
				return nil
			}
		}

		if w.wantFile(entry.Name(), rel) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", dir, err)
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}

// walkLinked walks a symlinked directory and reports its files under the
// link's path.
func (w *walker) walkLinked(ctx context.Context, target, linkRel string) ([]string, error) {
	inner := &walker{root: target, followSymlinks: w.followSymlinks, visited: w.visited}
	found, err := inner.walk(ctx, target)
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(found))
	for _, f := range found {
		rel := linkRel + "/" + f
		if !matchAny(w.ignore, rel) && (len(w.include) == 0 || matchAny(w.include, rel)) {
			files = append(files, rel)
		}
	}
	return files, nil
}

func (w *walker) rel(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

func (w *walker) skipDir(name, rel string) bool {
	return strings.HasPrefix(name, ".") ||
		slices.Contains(alwaysSkipped, name) ||
		matchAny(w.ignore, rel) ||
		matchAny(w.ignore, rel+"/")
}

func (w *walker) wantFile(name, rel string) bool {
	if strings.HasPrefix(name, ".") || !IsSource(name) {
		return false
	}
	if matchAny(w.ignore, rel) {
		return false
	}
	return len(w.include) == 0 || matchAny(w.include, rel)
}

// IsSource reports whether path has a TypeScript or JavaScript extension.
func IsSource(path string) bool {
	return slices.Contains(tsast.Extensions, strings.ToLower(filepath.Ext(path)))
}
