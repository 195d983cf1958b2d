// internal/genelist/genelist.go
package genelist

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Load reads the gene list table: one column headed "Gene", CSV or TSV.
// Order is preserved (barcode assignment in start/end mode depends on it) and
// duplicate names are dropped, keeping the first occurrence.
func Load(path string) ([]string, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "gene list %s", path)
	}
	defer func() { _ = fh.Close() }()
	genes, err := Read(fh, delimFor(path))
	if err != nil {
		return nil, errors.Wrapf(err, "gene list %s", path)
	}
	return genes, nil
}

// Read parses the gene list from r using the given field delimiter.
func Read(r io.Reader, delim rune) ([]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("empty gene list")
	}
	if err != nil {
		return nil, err
	}
	col := -1
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), "Gene") {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, errors.Errorf("no %q column in header %v", "Gene", header)
	}

	var (
		genes []string
		seen  = make(map[string]struct{})
	)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if col >= len(rec) {
			continue
		}
		g := strings.TrimSpace(rec[col])
		if g == "" {
			continue
		}
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		genes = append(genes, g)
	}
	if len(genes) == 0 {
		return nil, errors.New("gene list has a header but no genes")
	}
	return genes, nil
}

func delimFor(path string) rune {
	if strings.HasSuffix(path, ".tsv") || strings.HasSuffix(path, ".txt") {
		return '\t'
	}
	return ','
}
