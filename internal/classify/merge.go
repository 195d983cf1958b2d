// internal/classify/merge.go
package classify

import (
	"sort"
	"strings"

	"github.com/Moldia/PLP-directRNA-design/internal/match"
)

// Merge unions per-round result sets, deduplicating by (gene, sequence).
// When duplicates disagree, the row with the larger matched-entry evidence
// wins; remaining ties break on sorted hit content and then the smaller round
// tag, so Merge is commutative and associative. Inputs are not mutated.
func Merge(sets ...[]match.Result) []match.Result {
	byKey := make(map[match.Key]match.Result)
	for _, set := range sets {
		for _, r := range set {
			k := match.Key{Gene: r.Gene, Seq: r.Seq}
			cur, ok := byKey[k]
			if !ok || prefer(r, cur) {
				byKey[k] = r
			}
		}
	}
	out := make([]match.Result, 0, len(byKey))
	for _, r := range byKey {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Gene != out[j].Gene {
			return out[i].Gene < out[j].Gene
		}
		return out[i].Seq < out[j].Seq
	})
	return out
}

// prefer reports whether a should replace b for the same key. The order is
// total and independent of which round a row came from first.
func prefer(a, b match.Result) bool {
	if len(a.Hits) != len(b.Hits) {
		return len(a.Hits) > len(b.Hits)
	}
	ah, bh := strings.Join(sortedCopy(a.Hits), "\x00"), strings.Join(sortedCopy(b.Hits), "\x00")
	if ah != bh {
		return ah < bh
	}
	return a.Round < b.Round
}

func sortedCopy(s []string) []string {
	c := append([]string(nil), s...)
	sort.Strings(c)
	return c
}
