package kmer

import (
	"strings"
	"testing"

	"github.com/Moldia/PLP-directRNA-design/internal/align"
)

func aln(gene string, rows ...string) align.Alignment {
	a := align.Alignment{Gene: gene}
	for _, r := range rows {
		a.IDs = append(a.IDs, gene+"_iso")
		a.Rows = append(a.Rows, []byte(r))
	}
	return a
}

func TestConservedRuns(t *testing.T) {
	tests := []struct {
		rows []string
		want []Run
	}{
		{[]string{"ACGT"}, []Run{{0, 4}}},
		{[]string{"ACGT", "ACGT"}, []Run{{0, 4}}},
		{[]string{"ACGT", "ACCT"}, []Run{{0, 2}, {3, 4}}},
		{[]string{"AC-T", "AC-T"}, []Run{{0, 2}, {3, 4}}}, // gap breaks the run
		{[]string{"ACNT"}, []Run{{0, 2}, {3, 4}}},         // ambiguous base breaks the run
		{[]string{"A-GT", "ACGT"}, []Run{{0, 1}, {2, 4}}},
	}
	for _, tc := range tests {
		got := ConservedRuns(aln("g", tc.rows...))
		if len(got) != len(tc.want) {
			t.Errorf("ConservedRuns(%v) = %v, want %v", tc.rows, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("ConservedRuns(%v)[%d] = %v, want %v", tc.rows, i, got[i], tc.want[i])
			}
		}
	}
}

func TestExtractLengthAndGCBounds(t *testing.T) {
	// 50% GC everywhere, window 4.
	a := aln("g", "ACGTACGTACGT")
	cands, err := Extract(a, Config{K: 4, GCMin: 50, GCMax: 65})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(cands) == 0 {
		t.Fatal("expected candidates")
	}
	for _, c := range cands {
		if len(c.Seq) != 4 {
			t.Errorf("candidate %q length %d, want 4", c.Seq, len(c.Seq))
		}
		if c.GC < 50 || c.GC > 65 {
			t.Errorf("candidate %q GC %g outside [50, 65]", c.Seq, c.GC)
		}
	}
}

func TestExtractDedupBySequence(t *testing.T) {
	a := aln("g", "ACGTACGTACGT")
	cands, err := Extract(a, Config{K: 4, GCMin: 0, GCMax: 100})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	seen := map[string]bool{}
	for _, c := range cands {
		if seen[c.Seq] {
			t.Fatalf("duplicate candidate sequence %q", c.Seq)
		}
		seen[c.Seq] = true
	}
	// ACGT, CGTA, GTAC, TACG and nothing more.
	if len(cands) != 4 {
		t.Fatalf("got %d candidates, want 4", len(cands))
	}
}

func TestExtractSkipsNonConserved(t *testing.T) {
	a := aln("g", "AAAACGTTTT", "AAAGCGTTTT")
	cands, err := Extract(a, Config{K: 4, GCMin: 0, GCMax: 100})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	for _, c := range cands {
		if c.Start <= 3 && c.Start+4 > 3 {
			t.Errorf("candidate %q at %d spans the disagreeing column", c.Seq, c.Start)
		}
	}
}

func TestExtractNoConservedRegion(t *testing.T) {
	a := aln("g", "ACGT", "TGCA")
	cands, err := Extract(a, Config{K: 2, GCMin: 0, GCMax: 100})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(cands) != 0 {
		t.Fatalf("expected no candidates, got %v", cands)
	}
}

func TestExtractValidatesConfig(t *testing.T) {
	a := aln("g", "ACGT")
	if _, err := Extract(a, Config{K: 0, GCMin: 50, GCMax: 65}); err == nil {
		t.Error("expected error for K=0")
	}
	if _, err := Extract(a, Config{K: 4, GCMin: 70, GCMax: 60}); err == nil {
		t.Error("expected error for inverted GC bounds")
	}
}

func TestPredicates(t *testing.T) {
	hp := MaxHomopolymer(3)
	if hp.OK("AAAACGT") {
		t.Error("homopolymer AAAA should fail cap 3")
	}
	if !hp.OK("AAACGTT") {
		t.Error("AAA should pass cap 3")
	}

	ft := ForbiddenTerminal("G", "C")
	if ft.OK("GACT") {
		t.Error("leading G should fail")
	}
	if ft.OK("AGTC") {
		t.Error("trailing C should fail")
	}
	if !ft.OK("ACTG") {
		t.Error("ACTG should pass")
	}

	gd := MaxArmGCDiff(25)
	if gd.OK("GGGGAAAA") {
		t.Error("100 vs 0 GC arms should fail diff 25")
	}
	if !gd.OK("GAGAGAGA") {
		t.Error("balanced arms should pass")
	}
}

func TestExtractAppliesPredicates(t *testing.T) {
	a := aln("g", strings.Repeat("ACG", 8))
	cfg := Config{K: 6, GCMin: 0, GCMax: 100, Predicates: []Predicate{
		{Name: "no-cg-start", OK: func(s string) bool { return s[0] == 'A' }},
	}}
	cands, err := Extract(a, cfg)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(cands) == 0 {
		t.Fatal("expected candidates")
	}
	for _, c := range cands {
		if c.Seq[0] != 'A' {
			t.Errorf("predicate not applied, got %q", c.Seq)
		}
	}
}
