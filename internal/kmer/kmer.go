// internal/kmer/kmer.go
package kmer

import (
	"github.com/Moldia/PLP-directRNA-design/internal/align"
)

// Candidate is a fixed-length k-mer cut from the conserved part of a gene's
// isoform alignment. Start is the 0-based alignment column of the window.
// Candidates are immutable; rounds reference them, they carry no round state.
type Candidate struct {
	Gene  string
	Start int
	Seq   string
	GC    float64 // percent
}

// Run is a maximal conserved, gap-free span of alignment columns.
type Run struct {
	Start, End int // half-open [Start, End)
}

// ConservedRuns returns the maximal spans where every isoform row carries the
// same unambiguous base. A single-row alignment is conserved wherever the base
// is unambiguous.
func ConservedRuns(a align.Alignment) []Run {
	cols := a.Columns()
	var (
		runs  []Run
		start = -1
	)
	for c := 0; c < cols; c++ {
		if conservedColumn(a, c) {
			if start < 0 {
				start = c
			}
			continue
		}
		if start >= 0 {
			runs = append(runs, Run{Start: start, End: c})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, Run{Start: start, End: cols})
	}
	return runs
}

func conservedColumn(a align.Alignment, c int) bool {
	b := a.Rows[0][c]
	if !unambiguous(b) {
		return false
	}
	for _, row := range a.Rows[1:] {
		if row[c] != b {
			return false
		}
	}
	return true
}

func unambiguous(b byte) bool {
	return b == 'A' || b == 'C' || b == 'G' || b == 'T'
}

// RevComp returns the reverse complement of an unambiguous DNA sequence.
// Non-ACGT bytes map to N.
func RevComp(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		var c byte
		switch s[len(s)-1-i] {
		case 'A':
			c = 'T'
		case 'C':
			c = 'G'
		case 'G':
			c = 'C'
		case 'T':
			c = 'A'
		default:
			c = 'N'
		}
		out[i] = c
	}
	return string(out)
}

// GCPercent returns the G+C fraction of s as a percentage.
func GCPercent(s string) float64 {
	if len(s) == 0 {
		return 0
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == 'G' || s[i] == 'C' {
			n++
		}
	}
	return 100 * float64(n) / float64(len(s))
}
