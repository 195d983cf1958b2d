// internal/barcode/assign.go
package barcode

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/Moldia/PLP-directRNA-design/internal/kmer"
	"github.com/Moldia/PLP-directRNA-design/internal/match"
)

// Assignment modes.
const (
	ModeStart  = "start"  // ids on, on+1, on+2 ... over input gene order
	ModeEnd    = "end"    // ids on, on-1, on-2 ...
	ModeCustom = "custom" // explicit gene → id table
)

// Config controls barcode assignment and probe assembly.
type Config struct {
	Mode        string
	On          int            // starting (start) / ending-side (end) id
	Custom      map[string]int // required in custom mode
	TargetSense bool           // assemble arms from the k-mer as-is instead of its reverse complement
	MaxPerGene  int            // cap probe rows per gene; 0 = no cap
}

// RangeExhaustedError reports a start/end walk that left the library.
type RangeExhaustedError struct {
	Gene string
	ID   int
}

func (e *RangeExhaustedError) Error() string {
	return fmt.Sprintf("barcode id range exhausted at gene %s: id %d not in library", e.Gene, e.ID)
}

// MissingCustomEntryError reports a roster gene absent from the custom table.
type MissingCustomEntryError struct {
	Gene string
}

func (e *MissingCustomEntryError) Error() string {
	return fmt.Sprintf("no custom barcode entry for gene %s", e.Gene)
}

// Probe is one final assembled padlock probe row. One row per specific k-mer;
// genes with several specific k-mers share one barcode id.
type Probe struct {
	Gene      string
	BarcodeID int
	Code      string
	ProbeID   string // external annotation id, e.g. GLI3_227_1
	Target    string // the specific k-mer on the transcript
	Sequence  string // 5' arm + backbone + 3' arm
}

// AssignIDs maps every roster gene to a barcode id. In start/end mode the
// mapping is a total bijection over the input gene order; in custom mode each
// gene must appear in cfg.Custom. Missing entries and library misses are
// fatal, naming the offending gene.
func AssignIDs(roster []string, lib *Library, cfg Config) (map[string]int, error) {
	out := make(map[string]int, len(roster))
	for i, g := range roster {
		var id int
		switch cfg.Mode {
		case ModeStart:
			id = cfg.On + i
		case ModeEnd:
			id = cfg.On - i
		case ModeCustom:
			var ok bool
			id, ok = cfg.Custom[g]
			if !ok {
				return nil, &MissingCustomEntryError{Gene: g}
			}
		default:
			return nil, errors.Errorf("unknown assignment mode %q", cfg.Mode)
		}
		if _, ok := lib.Get(id); !ok {
			return nil, &RangeExhaustedError{Gene: g, ID: id}
		}
		out[g] = id
	}
	return out, nil
}

// Assemble builds the final probe table from the specific-sequence rows. Rows
// must already be deduplicated; order is preserved. Each k-mer is split at
// its midpoint into arms around the gene's barcode backbone. By default the
// arms come from the reverse complement of the target window, since the probe
// hybridizes the mRNA.
func Assemble(specific []match.Result, ids map[string]int, lib *Library, cfg Config) ([]Probe, error) {
	perGene := make(map[string]int)
	var out []Probe
	for _, r := range specific {
		id, ok := ids[r.Gene]
		if !ok {
			return nil, errors.Errorf("no barcode id assigned for gene %s", r.Gene)
		}
		entry, ok := lib.Get(id)
		if !ok {
			return nil, errors.Errorf("barcode id %d for gene %s not in library", id, r.Gene)
		}
		if cfg.MaxPerGene > 0 && perGene[r.Gene] >= cfg.MaxPerGene {
			continue
		}
		perGene[r.Gene]++

		arms := r.Seq
		if !cfg.TargetSense {
			arms = kmer.RevComp(r.Seq)
		}
		mid := len(arms) / 2
		out = append(out, Probe{
			Gene:      r.Gene,
			BarcodeID: id,
			Code:      entry.Code,
			ProbeID:   fmt.Sprintf("%s_%d_%d", r.Gene, id, perGene[r.Gene]),
			Target:    r.Seq,
			Sequence:  arms[:mid] + entry.Backbone + arms[mid:],
		})
	}
	return out, nil
}
