package catalog

import (
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/glorpus-work/wpm/pkg/model"
)

type packageSource []*model.Package

func (s packageSource) String(i int) string {
	return s[i].GetTitle() + " " + s[i].Name
}

func (s packageSource) Len() int {
	return len(s)
}

// Search ranks pkgs against every word of query. Packages must match all
// words. An empty query returns every package ordered by title.
func Search(pkgs []*model.Package, query string) []*model.Package {
	words := strings.Fields(query)
	if len(words) == 0 {
		out := slices.Clone(pkgs)
		slices.SortFunc(out, func(a, b *model.Package) int {
			return strings.Compare(strings.ToLower(a.GetTitle()), strings.ToLower(b.GetTitle()))
		})
		return out
	}

	src := packageSource(pkgs)
	scores := make(map[int]int)
	hits := make(map[int]int)
	for _, w := range words {
		for _, m := range fuzzy.FindFrom(w, src) {
			scores[m.Index] += m.Score
			hits[m.Index]++
		}
	}

	var idx []int
	for i, n := range hits {
		if n == len(words) {
			idx = append(idx, i)
		}
	}
	slices.SortFunc(idx, func(a, b int) int {
		if scores[a] != scores[b] {
			return scores[b] - scores[a]
		}
		return strings.Compare(pkgs[a].Name, pkgs[b].Name)
	})

	out := make([]*model.Package, len(idx))
	for i, k := range idx {
		out[i] = pkgs[k]
	}
	return out
}
