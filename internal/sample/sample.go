// internal/sample/sample.go
package sample

import (
	"math/rand"

	"github.com/rdleal/intervalst/interval"

	"github.com/Moldia/PLP-directRNA-design/internal/kmer"
)

// Kmer is a candidate selected for one round.
type Kmer struct {
	kmer.Candidate
	Round string
}

// Draw picks up to n candidates for one gene and round: unselected candidates
// are drawn uniformly at random and accepted only if their alignment window
// does not overlap an already accepted one. Adjacent windows are allowed.
// Fewer than n eligible candidates is a normal outcome, not an error.
//
// rng must be scoped to this gene and round; concurrent draws across genes
// must not share it. Reproducibility is opt-in via the rng seed.
func Draw(cands []kmer.Candidate, n int, rng *rand.Rand, round string) []Kmer {
	if n <= 0 || len(cands) == 0 {
		return nil
	}
	taken := interval.NewSearchTree[struct{}, int](func(a, b int) int { return a - b })
	out := make([]Kmer, 0, n)
	for _, i := range rng.Perm(len(cands)) {
		c := cands[i]
		// The tree's intervals are endpoint-inclusive, so the window
		// [Start, Start+K) is stored as [Start, Start+K-1].
		lo, hi := c.Start, c.Start+len(c.Seq)-1
		if _, hit := taken.AnyIntersection(lo, hi); hit {
			continue
		}
		_ = taken.Insert(lo, hi, struct{}{})
		out = append(out, Kmer{Candidate: c, Round: round})
		if len(out) == n {
			break
		}
	}
	return out
}
