// internal/barcode/library.go
package barcode

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Entry is one decoding barcode: the backbone/linker sequence spliced between
// the probe arms and the decoded readout code.
type Entry struct {
	ID       int
	Backbone string
	Code     string
}

// Library maps barcode ids to backbone entries.
type Library struct {
	byID map[int]Entry
}

// LoadLibrary reads the barcode library table. Header must name the
// "Lbar_ID", "Sequence" and "Code" columns (case-insensitive); CSV or TSV by
// extension.
func LoadLibrary(path string) (*Library, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "barcode library %s", path)
	}
	defer func() { _ = fh.Close() }()
	lib, err := ReadLibrary(fh, delimFor(path))
	if err != nil {
		return nil, errors.Wrapf(err, "barcode library %s", path)
	}
	return lib, nil
}

// ReadLibrary parses the library table from r.
func ReadLibrary(r io.Reader, delim rune) (*Library, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "library header")
	}
	idCol := findCol(header, "Lbar_ID")
	seqCol := findCol(header, "Sequence")
	codeCol := findCol(header, "Code")
	if idCol < 0 || seqCol < 0 || codeCol < 0 {
		return nil, errors.Errorf("library header %v must name Lbar_ID, Sequence and Code", header)
	}

	lib := &Library{byID: make(map[int]Entry)}
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		id, err := strconv.Atoi(strings.TrimSpace(rec[idCol]))
		if err != nil {
			return nil, errors.Errorf("library line %d: bad Lbar_ID %q", line, rec[idCol])
		}
		e := Entry{
			ID:       id,
			Backbone: strings.ToUpper(strings.TrimSpace(rec[seqCol])),
			Code:     strings.TrimSpace(rec[codeCol]),
		}
		if e.Backbone == "" {
			return nil, errors.Errorf("library line %d: empty backbone for id %d", line, id)
		}
		lib.byID[id] = e
	}
	if len(lib.byID) == 0 {
		return nil, errors.New("barcode library is empty")
	}
	return lib, nil
}

// Get returns the entry for id.
func (l *Library) Get(id int) (Entry, bool) {
	e, ok := l.byID[id]
	return e, ok
}

// Len returns the number of barcodes.
func (l *Library) Len() int { return len(l.byID) }

// LoadCustomTable reads an explicit gene → barcode assignment table with
// columns "Gene" and "Lbar_ID".
func LoadCustomTable(path string) (map[string]int, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "custom barcode table %s", path)
	}
	defer func() { _ = fh.Close() }()
	m, err := ReadCustomTable(fh, delimFor(path))
	if err != nil {
		return nil, errors.Wrapf(err, "custom barcode table %s", path)
	}
	return m, nil
}

// ReadCustomTable parses the custom table from r.
func ReadCustomTable(r io.Reader, delim rune) (map[string]int, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "custom table header")
	}
	geneCol := findCol(header, "Gene")
	idCol := findCol(header, "Lbar_ID")
	if geneCol < 0 || idCol < 0 {
		return nil, errors.Errorf("custom table header %v must name Gene and Lbar_ID", header)
	}
	out := make(map[string]int)
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		gene := strings.TrimSpace(rec[geneCol])
		if gene == "" {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(rec[idCol]))
		if err != nil {
			return nil, errors.Errorf("custom table line %d: bad Lbar_ID %q", line, rec[idCol])
		}
		out[gene] = id
	}
	return out, nil
}

func findCol(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

func delimFor(path string) rune {
	if strings.HasSuffix(path, ".tsv") || strings.HasSuffix(path, ".txt") {
		return '\t'
	}
	return ','
}
