// internal/align/align.go
package align

import (
	"context"

	"github.com/pkg/errors"
)

// Gap is the gap marker used in aligned rows.
const Gap = '-'

// Alignment is a per-gene multi-isoform alignment: rows of equal length over
// A/C/G/T/N and Gap.
type Alignment struct {
	Gene string
	IDs  []string
	Rows [][]byte
}

// Columns returns the alignment width (0 for an empty alignment).
func (a Alignment) Columns() int {
	if len(a.Rows) == 0 {
		return 0
	}
	return len(a.Rows[0])
}

// Validate checks that all rows share one width.
func (a Alignment) Validate() error {
	for i, r := range a.Rows {
		if len(r) != a.Columns() {
			return errors.Errorf("alignment %s: row %d width %d != %d", a.Gene, i, len(r), a.Columns())
		}
	}
	return nil
}

// Aligner produces a multi-isoform alignment for one gene. Implementations
// must be safe for concurrent use across genes.
type Aligner interface {
	Align(ctx context.Context, gene string, ids []string, seqs [][]byte) (Alignment, error)
}

// Identity returns the trivial alignment for a single isoform. It is also the
// fast path tool-backed aligners should take, since no columns can disagree.
func Identity(gene, id string, seq []byte) Alignment {
	return Alignment{
		Gene: gene,
		IDs:  []string{id},
		Rows: [][]byte{append([]byte(nil), seq...)},
	}
}
