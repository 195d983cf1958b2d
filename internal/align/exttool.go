// internal/align/exttool.go
package align

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
)

// Tool runs an external MSA executable (mafft, clustalo, muscle ...) over a
// gene's isoforms. The tool must accept a FASTA file as its last argument and
// write aligned FASTA to stdout; Args lets callers pass tool-specific flags
// (e.g. "--quiet" for mafft).
type Tool struct {
	Path string
	Args []string
}

// NewTool returns a subprocess-backed Aligner.
func NewTool(path string, args ...string) *Tool {
	return &Tool{Path: path, Args: args}
}

// Align writes the isoforms to a temp FASTA, invokes the tool, and parses the
// aligned FASTA it prints. Tool failures are infrastructure errors: the run
// stops rather than misclassifying the gene.
func (t *Tool) Align(ctx context.Context, gene string, ids []string, seqs [][]byte) (Alignment, error) {
	if len(seqs) == 0 {
		return Alignment{}, errors.Errorf("aligner: gene %s has no isoforms", gene)
	}
	if len(seqs) == 1 {
		return Identity(gene, ids[0], seqs[0]), nil
	}

	dir, err := os.MkdirTemp("", "plpalign-")
	if err != nil {
		return Alignment{}, errors.Wrap(err, "aligner tempdir")
	}
	defer func() { _ = os.RemoveAll(dir) }()

	in := filepath.Join(dir, "in.fa")
	fh, err := os.Create(in)
	if err != nil {
		return Alignment{}, errors.Wrap(err, "aligner input")
	}
	for i, s := range seqs {
		fmt.Fprintf(fh, ">%s\n%s\n", ids[i], s)
	}
	if err := fh.Close(); err != nil {
		return Alignment{}, errors.Wrap(err, "aligner input")
	}

	out := filepath.Join(dir, "out.fa")
	ofh, err := os.Create(out)
	if err != nil {
		return Alignment{}, errors.Wrap(err, "aligner output")
	}
	cmd := exec.CommandContext(ctx, t.Path, append(append([]string(nil), t.Args...), in)...)
	cmd.Stdout = ofh
	cmd.Stderr = io.Discard
	runErr := cmd.Run()
	if cerr := ofh.Close(); runErr == nil {
		runErr = cerr
	}
	if runErr != nil {
		return Alignment{}, errors.Wrapf(runErr, "aligner %s failed on gene %s", t.Path, gene)
	}

	aln, err := ParseFASTA(gene, out)
	if err != nil {
		return Alignment{}, errors.Wrapf(err, "aligner %s output for gene %s", t.Path, gene)
	}
	return aln, nil
}

// ParseFASTA reads an aligned FASTA file into an Alignment.
func ParseFASTA(gene, path string) (Alignment, error) {
	seq.ValidateSeq = false
	reader, err := fastx.NewDefaultReader(path)
	if err != nil {
		return Alignment{}, err
	}
	aln := Alignment{Gene: gene}
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return Alignment{}, err
		}
		row := append([]byte(nil), record.Seq.Seq...)
		for i, c := range row {
			if c >= 'a' && c <= 'z' {
				row[i] = c - 32
			}
		}
		aln.IDs = append(aln.IDs, string(record.ID))
		aln.Rows = append(aln.Rows, row)
	}
	if len(aln.Rows) == 0 {
		return Alignment{}, errors.New("empty alignment")
	}
	if err := aln.Validate(); err != nil {
		return Alignment{}, err
	}
	return aln, nil
}
