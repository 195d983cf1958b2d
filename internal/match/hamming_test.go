package match

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Moldia/PLP-directRNA-design/internal/transcriptome"
)

func TestContainsWithin(t *testing.T) {
	tests := []struct {
		seq   string
		q     string
		maxMM int
		want  bool
	}{
		{"ACGTACGT", "ACGT", 0, true},
		{"ACGTACGT", "AAAA", 0, false},
		{"ACGTACGT", "ACTT", 0, false},
		{"ACGTACGT", "ACTT", 1, true},  // one substitution
		{"ACGTACGT", "TTTT", 2, false}, // best window has 3 mismatches
		{"ACGTACGT", "TTTT", 3, true},
		{"ACG", "ACGT", 0, false}, // query longer than entry
		{"ACGTACGT", "", 1, false},
	}
	for _, tc := range tests {
		got := containsWithin([]byte(tc.seq), []byte(tc.q), tc.maxMM)
		if got != tc.want {
			t.Errorf("containsWithin(%q, %q, %d) = %v, want %v",
				tc.seq, tc.q, tc.maxMM, got, tc.want)
		}
	}
}

func TestContainsWithinMonotonicInMismatches(t *testing.T) {
	seq := []byte("ACGTACGTACGTTTTT")
	q := []byte("ACGAACGA")
	prev := false
	for mm := 0; mm <= len(q); mm++ {
		got := containsWithin(seq, q, mm)
		if prev && !got {
			t.Fatalf("hit at maxMM=%d lost at maxMM=%d", mm-1, mm)
		}
		prev = got
	}
	if !prev {
		t.Fatal("expected a hit at maxMM == len(query)")
	}
}

func corpusFixture(t *testing.T) *transcriptome.Corpus {
	t.Helper()
	fa := `>NM_1 Homo sapiens test one (GENEA), mRNA
AAAACCCCGGGGTTTT
>NM_2 Homo sapiens test two (GENEB), mRNA
AAAACCCCGGGATTTT
>NM_3 Homo sapiens test three (GENEC), mRNA
TTTTTTTTTTTTTTTT
`
	path := filepath.Join(t.TempDir(), "ref.fa")
	if err := os.WriteFile(path, []byte(fa), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := transcriptome.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestHammingSearcherHitCounts(t *testing.T) {
	s := &HammingSearcher{Corpus: corpusFixture(t)}
	ctx := context.Background()

	// Exact: only NM_1 contains CCCCGGGG.
	hits, err := s.Search(ctx, "CCCCGGGG", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("exact: got %d hits %v, want 1", len(hits), hits)
	}

	// One substitution pulls in NM_2 as well; count may only grow with M.
	hits1, err := s.Search(ctx, "CCCCGGGG", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits1) != 2 {
		t.Fatalf("maxMM=1: got %d hits %v, want 2", len(hits1), hits1)
	}

	// Zero hits is a valid outcome, not an error.
	none, err := s.Search(ctx, "GAGAGAGAGAGA", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no hits, got %v", none)
	}
}
