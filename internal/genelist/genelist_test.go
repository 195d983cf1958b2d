package genelist

import (
	"strings"
	"testing"
)

func TestReadPreservesOrder(t *testing.T) {
	in := "Gene\nGLI3\nMSI2\nNR2E1\n"
	genes, err := Read(strings.NewReader(in), ',')
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := []string{"GLI3", "MSI2", "NR2E1"}
	if len(genes) != len(want) {
		t.Fatalf("got %d genes, want %d", len(genes), len(want))
	}
	for i := range want {
		if genes[i] != want[i] {
			t.Errorf("gene[%d] = %q, want %q", i, genes[i], want[i])
		}
	}
}

func TestReadDropsDuplicatesAndBlanks(t *testing.T) {
	in := "Gene,Notes\nGLI3,x\n,\nGLI3,y\nMSI2,\n"
	genes, err := Read(strings.NewReader(in), ',')
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(genes) != 2 || genes[0] != "GLI3" || genes[1] != "MSI2" {
		t.Fatalf("got %v, want [GLI3 MSI2]", genes)
	}
}

func TestReadRejectsMissingColumn(t *testing.T) {
	if _, err := Read(strings.NewReader("Symbol\nGLI3\n"), ','); err == nil {
		t.Fatal("expected error for missing Gene column")
	}
}

func TestReadRejectsEmptyInput(t *testing.T) {
	if _, err := Read(strings.NewReader(""), ','); err == nil {
		t.Fatal("expected error for empty input")
	}
	if _, err := Read(strings.NewReader("Gene\n"), ','); err == nil {
		t.Fatal("expected error for header-only input")
	}
}
