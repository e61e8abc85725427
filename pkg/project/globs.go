package project

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// pattern is one compiled include or ignore glob. Patterns use forward
// slashes and match paths relative to the project root with
// gitignore-like conveniences: a pattern without a slash matches a file
// or directory name at any depth, a trailing slash matches a whole
// directory and a leading "**/" also matches at the root.
type pattern struct {
	source   string
	globs    []glob.Glob
	anywhere bool
}

func compilePatterns(sources []string) ([]pattern, error) {
	patterns := make([]pattern, 0, len(sources))
	for _, src := range sources {
		norm := strings.TrimPrefix(strings.ReplaceAll(strings.TrimSpace(src), `\`, "/"), "./")
		if norm == "" {
			continue
		}
		if strings.HasSuffix(norm, "/") && !strings.Contains(norm, "*") {
			norm = "**/" + strings.Trim(norm, "/") + "/**"
		}

		p := pattern{source: src, anywhere: !strings.Contains(norm, "/")}
		exprs := []string{norm}
		if strings.HasPrefix(norm, "**/") {
			exprs = append(exprs, strings.TrimPrefix(norm, "**/"))
		}
		for _, expr := range exprs {
			g, err := glob.Compile(expr, '/')
			if err != nil {
				return nil, fmt.Errorf("invalid glob %q: %w", src, err)
			}
			p.globs = append(p.globs, g)
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

// match reports whether rel, a slash-separated path relative to the root,
// matches p.
func (p pattern) match(rel string) bool {
	candidates := []string{rel}
	if p.anywhere {
		candidates = append(candidates, strings.Split(rel, "/")...)
	}
	for _, c := range candidates {
		for _, g := range p.globs {
			if g.Match(c) {
				return true
			}
		}
	}
	return false
}

func matchAny(patterns []pattern, rel string) bool {
	for _, p := range patterns {
		if p.match(rel) {
			return true
		}
	}
	return false
}
