// internal/match/hamming.go
package match

import (
	"bytes"
	"context"

	"github.com/Moldia/PLP-directRNA-design/internal/transcriptome"
)

// HammingSearcher scans the in-memory corpus directly: an entry is a hit when
// it contains a window of the query's length at Hamming distance <= maxMM
// (substitutions only, no indels).
type HammingSearcher struct {
	Corpus *transcriptome.Corpus
}

// Search returns the headers of all entries hit by query.
func (h *HammingSearcher) Search(ctx context.Context, query string, maxMM int) ([]string, error) {
	q := []byte(query)
	var hits []string
	for _, e := range h.Corpus.Entries() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if containsWithin(e.Seq, q, maxMM) {
			hits = append(hits, e.Header)
		}
	}
	return hits, nil
}

// containsWithin reports whether seq has a len(q) window at Hamming distance
// <= maxMM from q.
func containsWithin(seq, q []byte, maxMM int) bool {
	if len(q) == 0 || len(seq) < len(q) {
		return false
	}
	// Exact fast path: SIMD'd bytes scanning.
	if maxMM == 0 {
		return bytes.Contains(seq, q)
	}
	end := len(seq) - len(q)
window:
	for pos := 0; pos <= end; pos++ {
		mm := 0
		for j := 0; j < len(q); j++ {
			if seq[pos+j] != q[j] {
				mm++
				if mm > maxMM {
					continue window
				}
			}
		}
		return true
	}
	return false
}
