// internal/match/match.go
package match

import "context"

// Result is one specificity query outcome: the sampled k-mer plus every
// transcriptome entry containing a full-length window within the mismatch
// threshold. HitCount == 0 is a valid outcome, not an error.
type Result struct {
	Gene     string
	Seq      string
	Start    int // alignment column of the sampled window
	Round    string
	HitCount int
	Hits     []string // matched entry headers
}

// Key identifies a result for order-independent aggregation and cross-round
// deduplication.
type Key struct {
	Gene string
	Seq  string
}

// Searcher is the approximate-search collaborator: given a query sequence and
// a substitution-only mismatch threshold, it returns the headers of every
// corpus entry containing a full-length match. Implementations must be safe
// for concurrent use.
type Searcher interface {
	Search(ctx context.Context, query string, maxMM int) ([]string, error)
}
