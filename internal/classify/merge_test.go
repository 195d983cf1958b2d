package classify

import (
	"reflect"
	"testing"

	"github.com/Moldia/PLP-directRNA-design/internal/match"
)

func TestMergeDedupByGeneSeq(t *testing.T) {
	r1 := []match.Result{
		res("A", "AAAA", "round1", "NM_1 (A)"),
		res("B", "CCCC", "round1", "NM_2 (B)"),
	}
	r2 := []match.Result{
		res("A", "AAAA", "round2", "NM_1 (A)", "NM_9 (X)"), // larger evidence wins
		res("B", "GGGG", "round2", "NM_2 (B)"),
	}
	got := Merge(r1, r2)
	if len(got) != 3 {
		t.Fatalf("merged %d rows, want 3", len(got))
	}
	for _, r := range got {
		if r.Gene == "A" && r.Seq == "AAAA" && len(r.Hits) != 2 {
			t.Errorf("duplicate kept smaller evidence: %+v", r)
		}
	}
}

func TestMergeCommutativeAssociative(t *testing.T) {
	a := []match.Result{res("A", "AAAA", "round1", "NM_1 (A)")}
	b := []match.Result{
		res("A", "AAAA", "round2", "NM_1 (A)", "NM_9 (X)"),
		res("B", "CCCC", "round2", "NM_2 (B)"),
	}
	c := []match.Result{res("C", "TTTT", "round3")}

	ab := Merge(a, b)
	ba := Merge(b, a)
	if !reflect.DeepEqual(ab, ba) {
		t.Fatalf("merge not commutative:\n%v\n%v", ab, ba)
	}
	abc1 := Merge(Merge(a, b), c)
	abc2 := Merge(a, Merge(b, c))
	if !reflect.DeepEqual(abc1, abc2) {
		t.Fatalf("merge not associative:\n%v\n%v", abc1, abc2)
	}
}

func TestMergeThenClassifyOrderIndependent(t *testing.T) {
	roster := []string{"A", "B"}
	r1 := []match.Result{res("A", "AAAA", "round1", "NM_1 (A)")}
	r2 := []match.Result{
		res("A", "CCCC", "round2", "NM_1 (A)"),
		res("B", "GGGG", "round2", "NM_2 (B)"),
	}
	c12, err := Classify("merged", roster, nil, Merge(r1, r2), cfg(2, ModeGene))
	if err != nil {
		t.Fatal(err)
	}
	c21, err := Classify("merged", roster, nil, Merge(r2, r1), cfg(2, ModeGene))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(c12.Buckets, c21.Buckets) {
		t.Fatalf("buckets differ by merge order: %v vs %v", c12.Buckets, c21.Buckets)
	}
	if c12.Buckets["A"] != Good {
		t.Errorf("A should be Good after merging rounds, got %v", c12.Buckets["A"])
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	r1 := []match.Result{res("A", "AAAA", "round1", "NM_1 (A)")}
	r2 := []match.Result{res("A", "AAAA", "round2", "NM_1 (A)", "NM_9 (X)")}
	before := append([]match.Result(nil), r1...)
	_ = Merge(r1, r2)
	if !reflect.DeepEqual(r1, before) {
		t.Fatal("Merge mutated its input")
	}
}
