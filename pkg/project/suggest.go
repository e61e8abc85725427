package project

import (
	"path"
	"sort"
)

// maxSuggestions caps the paths offered for a missing file.
const maxSuggestions = 3

// suggest returns up to maxSuggestions candidates close to want, nearest
// first. A candidate is close when its path is within a third of the
// longer path's length in edit distance, or failing that, when its base
// name is within a third of the longer base name.
func suggest(want string, candidates []string) []string {
	type scored struct {
		path string
		dist int
	}

	wantBase := path.Base(want)
	var hits []scored
	for _, cand := range candidates {
		if d := levenshtein(want, cand); d <= max(max(len(want), len(cand))/3, 2) {
			hits = append(hits, scored{path: cand, dist: d})
			continue
		}
		base := path.Base(cand)
		if d := levenshtein(wantBase, base); d <= max(max(len(wantBase), len(base))/3, 1) {
			hits = append(hits, scored{path: cand, dist: d})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].dist != hits[j].dist {
			return hits[i].dist < hits[j].dist
		}
		return hits[i].path < hits[j].path
	})

	out := make([]string, 0, min(len(hits), maxSuggestions))
	for i := 0; i < len(hits) && i < maxSuggestions; i++ {
		out = append(out, hits[i].path)
	}
	return out
}

// levenshtein is the edit distance between a and b over bytes.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
