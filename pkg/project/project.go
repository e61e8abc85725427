// Package project loads the TypeScript and JavaScript sources rules run
// on, tracks their rewritten content and writes changed files back.
//
// Loading discovers source files under a root (hidden directories,
// node_modules and ignore globs are skipped), classifies each with
// pkg/langdetect and reads the compiler facts rules depend on from
// tsconfig.json and package.json.
package project

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yaklabco/collation/internal/logging"
	"github.com/yaklabco/collation/pkg/fsutil"
	"github.com/yaklabco/collation/pkg/langdetect"
	"github.com/yaklabco/collation/pkg/lint"
	"github.com/yaklabco/collation/pkg/tsast"
)

// Options controls how a project is loaded.
type Options struct {
	// Root is the project directory. Empty means the working directory.
	Root string

	// Paths restricts the project to these files or directories, relative
	// to Root. Empty means every source file under Root.
	Paths []string

	// Include restricts discovery to files matching these globs.
	Include []string

	// Ignore skips files and directories matching these globs.
	Ignore []string

	// FollowSymlinks descends into symlinked directories.
	FollowSymlinks bool

	// IncludeGenerated keeps minified and generated files.
	IncludeGenerated bool

	// Backup keeps a sidecar copy of every file Save overwrites.
	Backup bool
}

// File is one source file and its current content.
type File struct {
	// Path is slash-separated and relative to the project root.
	Path string

	// Language is the dialect the file is parsed in.
	Language tsast.Language

	// Original is the content on disk when the project was loaded.
	Original []byte

	// Content is the current, possibly rewritten, content.
	Content []byte

	stamp *fsutil.Stamp
}

// Changed reports whether the content differs from what was loaded.
func (f *File) Changed() bool {
	return !bytes.Equal(f.Original, f.Content)
}

// Parse parses the current content.
func (f *File) Parse() (*tsast.File, error) {
	return tsast.Parse(f.Path, f.Content, tsast.WithLanguage(f.Language))
}

// Project is a set of source files under one root.
type Project struct {
	// Root is the absolute project directory.
	Root string

	// Settings are the compiler facts read from tsconfig.json and
	// package.json.
	Settings lint.Settings

	// Missing lists the requested paths that matched no source file.
	Missing []*NotFoundError

	files      []*File
	byPath     map[string]*File
	candidates []string
	backup     bool
}

// New creates an empty project rooted at root. Files are added with Add.
func New(root string, settings lint.Settings) *Project {
	return &Project{
		Root:     root,
		Settings: settings,
		byPath:   make(map[string]*File),
	}
}

// Load discovers and reads a project.
func Load(ctx context.Context, opts Options) (*Project, error) {
	logger := logging.FromContext(ctx)

	root := opts.Root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		root = wd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}

	settings, err := readSettings(root)
	if err != nil {
		return nil, err
	}
	p := New(root, settings)
	p.backup = opts.Backup

	include, err := compilePatterns(opts.Include)
	if err != nil {
		return nil, err
	}
	ignore, err := compilePatterns(opts.Ignore)
	if err != nil {
		return nil, err
	}
	w := &walker{
		root:           root,
		include:        include,
		ignore:         ignore,
		followSymlinks: opts.FollowSymlinks,
		visited:        make(map[string]bool),
	}

	p.candidates, err = w.walk(ctx, root)
	if err != nil {
		return nil, err
	}

	selected, err := p.selectPaths(opts.Paths)
	if err != nil {
		return nil, err
	}

	for _, rel := range selected {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		content, stamp, err := fsutil.ReadFile(ctx, abs)
		if err != nil {
			return nil, err
		}
		info := langdetect.Detect(rel, content)
		if !info.Known {
			p.Missing = append(p.Missing, &NotFoundError{Path: rel})
			continue
		}
		if (info.Vendored || info.Generated) && !opts.IncludeGenerated {
			logger.Debug("skipping generated file", logging.FieldPath, rel,
				logging.FieldReason, skipReason(info))
			continue
		}
		p.add(&File{Path: rel, Language: info.Language, Original: content, Content: content, stamp: stamp})
	}

	logger.Debug("project loaded",
		logging.FieldWorkingDir, root,
		logging.FieldFilesDiscovered, len(p.candidates),
		logging.FieldFiles, len(p.files))
	return p, nil
}

// selectPaths resolves requested paths against the discovered candidates.
// Directories select every candidate under them. Requested files outside
// the candidates are kept if they exist, so an ignored or extensionless
// file can still be named explicitly; the rest are recorded as Missing.
func (p *Project) selectPaths(paths []string) ([]string, error) {
	if len(paths) == 0 {
		return p.candidates, nil
	}

	seen := make(map[string]bool)
	var selected []string
	pick := func(rel string) {
		if !seen[rel] {
			seen[rel] = true
			selected = append(selected, rel)
		}
	}

	for _, requested := range paths {
		rel, err := p.relPath(requested)
		if err != nil {
			return nil, err
		}

		info, statErr := os.Stat(filepath.Join(p.Root, filepath.FromSlash(rel)))
		switch {
		case statErr == nil && info.IsDir():
			prefix := strings.TrimSuffix(rel, "/") + "/"
			for _, cand := range p.candidates {
				if rel == "." || strings.HasPrefix(cand, prefix) {
					pick(cand)
				}
			}
		case statErr == nil:
			pick(rel)
		default:
			p.Missing = append(p.Missing, &NotFoundError{Path: rel, Suggestions: suggest(rel, p.candidates)})
		}
	}

	sort.Strings(selected)
	return selected, nil
}

// relPath turns a path given on the command line into a slash-separated
// path relative to the root.
func (p *Project) relPath(requested string) (string, error) {
	abs := requested
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(p.Root, abs)
	}
	rel, err := filepath.Rel(p.Root, filepath.Clean(abs))
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", requested, err)
	}
	return filepath.ToSlash(rel), nil
}

// Add adds an in-memory file. Saving writes it without a modification
// check.
func (p *Project) Add(rel string, content []byte) *File {
	rel = path.Clean(filepath.ToSlash(rel))
	f := &File{
		Path:     rel,
		Language: langdetect.Detect(rel, content).Language,
		Original: content,
		Content:  content,
	}
	return p.add(f)
}

// add stores f, replacing the content of a file already at its path.
func (p *Project) add(f *File) *File {
	if old, ok := p.byPath[f.Path]; ok {
		*old = *f
		return old
	}
	p.byPath[f.Path] = f
	p.files = append(p.files, f)
	sort.Slice(p.files, func(i, j int) bool { return p.files[i].Path < p.files[j].Path })
	if !containsSorted(p.candidates, f.Path) {
		p.candidates = append(p.candidates, f.Path)
		sort.Strings(p.candidates)
	}
	return f
}

// Files returns the project's files sorted by path.
func (p *Project) Files() []*File {
	return p.files
}

// Lookup returns the file at path, relative to the root or absolute.
// A missing file yields a *NotFoundError carrying the closest paths.
func (p *Project) Lookup(requested string) (*File, error) {
	rel, err := p.relPath(requested)
	if err != nil {
		return nil, err
	}
	if f, ok := p.byPath[rel]; ok {
		return f, nil
	}
	return nil, &NotFoundError{Path: rel, Suggestions: suggest(rel, p.candidates)}
}

// Changed returns the files whose content was rewritten, sorted by path.
func (p *Project) Changed() []*File {
	var out []*File
	for _, f := range p.files {
		if f.Changed() {
			out = append(out, f)
		}
	}
	return out
}

// Save writes every changed file back to disk atomically and returns the
// paths written. A file that was modified on disk after loading is not
// overwritten; its error is joined with the others and the remaining
// files are still saved.
func (p *Project) Save(ctx context.Context) ([]string, error) {
	logger := logging.FromContext(ctx)

	var written []string
	var errs []error
	for _, f := range p.Changed() {
		abs := filepath.Join(p.Root, filepath.FromSlash(f.Path))
		if p.backup {
			if _, err := fsutil.CreateBackup(ctx, abs); err != nil {
				errs = append(errs, fmt.Errorf("back up %s: %w", f.Path, err))
				continue
			}
		}

		var err error
		if f.stamp != nil {
			err = fsutil.WriteStamped(ctx, f.stamp, f.Content)
		} else {
			err = fsutil.WriteAtomic(ctx, abs, f.Content, 0)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("save %s: %w", f.Path, err))
			continue
		}

		_, stamp, err := fsutil.ReadFile(ctx, abs)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		f.Original, f.stamp = f.Content, stamp
		written = append(written, f.Path)
		logger.Debug("saved file", logging.FieldPath, f.Path)
	}
	return written, errors.Join(errs...)
}

func readSettings(root string) (lint.Settings, error) {
	isolated, err := readIsolatedModules(filepath.Join(root, "tsconfig.json"))
	if err != nil {
		return lint.Settings{}, err
	}
	version, err := typeScriptVersion(root)
	if err != nil {
		return lint.Settings{}, err
	}
	return lint.Settings{IsolatedModules: isolated, TypeScriptVersion: version}, nil
}

func skipReason(info langdetect.Info) string {
	if info.Vendored {
		return "vendored"
	}
	return "generated"
}

func containsSorted(list []string, s string) bool {
	i := sort.SearchStrings(list, s)
	return i < len(list) && list[i] == s
}
