// internal/kmer/extract.go
package kmer

import (
	"github.com/pkg/errors"

	"github.com/Moldia/PLP-directRNA-design/internal/align"
)

// Config holds the extraction parameters. Chemistry-affecting values have no
// silent fallbacks: Validate rejects zero/contradictory settings instead of
// substituting defaults.
type Config struct {
	K          int
	GCMin      float64 // percent
	GCMax      float64 // percent
	Predicates []Predicate
}

// Validate checks the chemistry-affecting parameters.
func (c Config) Validate() error {
	if c.K <= 0 {
		return errors.New("k-mer length must be > 0")
	}
	if c.GCMin < 0 || c.GCMax > 100 || c.GCMin > c.GCMax {
		return errors.Errorf("bad GC bounds [%g, %g]", c.GCMin, c.GCMax)
	}
	return nil
}

// Extract slides a K-length window across every conserved run of the
// alignment and keeps windows that sit inside the GC bounds and pass all
// predicates, left to right, deduplicated by sequence within the gene.
// An empty result is not an error: the caller buckets the gene as having no
// valid candidate (distinct from the gene missing from the reference).
func Extract(a align.Alignment, cfg Config) ([]Candidate, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}

	row := a.Rows[0] // conserved columns agree across rows by construction
	seen := make(map[string]struct{})
	var out []Candidate
	for _, r := range ConservedRuns(a) {
		if r.End-r.Start < cfg.K {
			continue
		}
		for s := r.Start; s+cfg.K <= r.End; s++ {
			w := string(row[s : s+cfg.K])
			if _, dup := seen[w]; dup {
				continue
			}
			gc := GCPercent(w)
			if gc < cfg.GCMin || gc > cfg.GCMax {
				continue
			}
			if !passes(w, cfg.Predicates) {
				continue
			}
			seen[w] = struct{}{}
			out = append(out, Candidate{Gene: a.Gene, Start: s, Seq: w, GC: gc})
		}
	}
	return out, nil
}

func passes(s string, preds []Predicate) bool {
	for _, p := range preds {
		if !p.OK(s) {
			return false
		}
	}
	return true
}
