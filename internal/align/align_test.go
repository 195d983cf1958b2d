package align

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIdentitySingleIsoform(t *testing.T) {
	a := Identity("GLI3", "NM_1", []byte("ACGT"))
	if a.Columns() != 4 {
		t.Fatalf("Columns = %d, want 4", a.Columns())
	}
	if err := a.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(a.Rows) != 1 || string(a.Rows[0]) != "ACGT" {
		t.Fatalf("unexpected rows %v", a.Rows)
	}
}

func TestValidateRaggedRows(t *testing.T) {
	a := Alignment{Gene: "g", Rows: [][]byte{[]byte("ACGT"), []byte("ACG")}}
	if err := a.Validate(); err == nil {
		t.Fatal("expected error for ragged rows")
	}
}

func TestParseFASTA(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aln.fa")
	content := ">NM_1\nAC-GT\n>NM_2\nacTgt\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	a, err := ParseFASTA("MSI2", path)
	if err != nil {
		t.Fatalf("ParseFASTA: %v", err)
	}
	if a.Columns() != 5 || len(a.Rows) != 2 {
		t.Fatalf("got %d cols x %d rows, want 5x2", a.Columns(), len(a.Rows))
	}
	if string(a.Rows[1]) != "ACTGT" {
		t.Errorf("row 1 = %q, want uppercased ACTGT", a.Rows[1])
	}
}

func TestParseFASTARejectsRagged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aln.fa")
	if err := os.WriteFile(path, []byte(">a\nACGT\n>b\nAC\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseFASTA("g", path); err == nil {
		t.Fatal("expected error for ragged alignment")
	}
}
