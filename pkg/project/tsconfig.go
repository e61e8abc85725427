package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
)

// maxExtendsDepth bounds "extends" chains.
const maxExtendsDepth = 16

// tsconfig is the part of tsconfig.json rules care about.
type tsconfig struct {
	Extends         json.RawMessage `json:"extends"`
	CompilerOptions struct {
		IsolatedModules *bool `json:"isolatedModules"`
		VerbatimModule  *bool `json:"verbatimModuleSyntax"`
	} `json:"compilerOptions"`
}

// readIsolatedModules resolves compilerOptions.isolatedModules for the
// tsconfig at path, following "extends". verbatimModuleSyntax implies it.
// A missing file yields false.
func readIsolatedModules(path string) (bool, error) {
	seen := make(map[string]bool)
	for depth := 0; depth < maxExtendsDepth; depth++ {
		abs, err := filepath.Abs(path)
		if err != nil {
			return false, fmt.Errorf("resolve %s: %w", path, err)
		}
		if seen[abs] {
			return false, fmt.Errorf("tsconfig %s: extends cycle", path)
		}
		seen[abs] = true

		cfg, err := parseTSConfig(abs)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return false, nil
			}
			return false, err
		}
		opts := cfg.CompilerOptions
		if opts.IsolatedModules != nil {
			return *opts.IsolatedModules, nil
		}
		if opts.VerbatimModule != nil && *opts.VerbatimModule {
			return true, nil
		}

		next := resolveExtends(filepath.Dir(abs), cfg.Extends)
		if next == "" {
			return false, nil
		}
		path = next
	}
	return false, fmt.Errorf("tsconfig %s: extends chain deeper than %d", path, maxExtendsDepth)
}

func parseTSConfig(path string) (*tsconfig, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg tsconfig
	if err := json.Unmarshal(jsonc.ToJSON(content), &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// resolveExtends returns the first existing file "extends" names, or "".
// An array of bases (TypeScript 5) is searched last to first: later
// entries override earlier ones.
func resolveExtends(baseDir string, raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var names []string
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		names = []string{single}
	} else if err := json.Unmarshal(raw, &names); err != nil {
		return ""
	}

	for i := len(names) - 1; i >= 0; i-- {
		name := strings.TrimSpace(names[i])
		if name == "" {
			continue
		}
		for _, cand := range extendsCandidates(baseDir, name) {
			if info, err := os.Stat(cand); err == nil && !info.IsDir() {
				return cand
			}
		}
	}
	return ""
}

func extendsCandidates(baseDir, name string) []string {
	if filepath.IsAbs(name) || strings.HasPrefix(name, ".") {
		p := name
		if !filepath.IsAbs(p) {
			p = filepath.Join(baseDir, p)
		}
		return []string{p, p + ".json"}
	}

	// Package-style bases resolve through node_modules up the tree.
	var out []string
	for dir := baseDir; ; dir = filepath.Dir(dir) {
		pkg := filepath.Join(dir, "node_modules", filepath.FromSlash(name))
		out = append(out, pkg, pkg+".json", filepath.Join(pkg, "tsconfig.json"))
		if filepath.Dir(dir) == dir {
			return out
		}
	}
}
