// internal/writers/tables.go
package writers

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/twotwotwo/sorts/sortutil"

	"github.com/Moldia/PLP-directRNA-design/internal/barcode"
	"github.com/Moldia/PLP-directRNA-design/internal/classify"
	"github.com/Moldia/PLP-directRNA-design/internal/match"
)

// Artifact filenames are qualified by the round (or merge) tag so concurrent
// or repeated rounds cannot collide.

// MappedPath returns the per-round mapped-sequence table path.
func MappedPath(dir, tag string) string {
	return filepath.Join(dir, fmt.Sprintf("mapped_%s.tsv", tag))
}

// ClassificationPath returns the bucket table path for tag.
func ClassificationPath(dir, tag string) string {
	return filepath.Join(dir, fmt.Sprintf("classification_%s.tsv", tag))
}

// SpecificPath returns the specific-sequence table path for tag.
func SpecificPath(dir, tag string) string {
	return filepath.Join(dir, fmt.Sprintf("specific_%s.tsv", tag))
}

// ProbesPath returns the final probe table path.
func ProbesPath(dir string) string {
	return filepath.Join(dir, "probes.tsv")
}

// WriteMapped writes one round's match results: one row per queried k-mer,
// zero-hit rows included.
func WriteMapped(w io.Writer, results []match.Result) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "gene\tsequence\tstart\tround\thit_count\thits")
	for _, r := range results {
		fmt.Fprintf(bw, "%s\t%s\t%d\t%s\t%d\t%s\n",
			r.Gene, r.Seq, r.Start, r.Round, r.HitCount, strings.Join(r.Hits, ";"))
	}
	return bw.Flush()
}

// WriteClassification writes the gene buckets in sorted gene order.
func WriteClassification(w io.Writer, cl classify.Classification) error {
	genes := make([]string, 0, len(cl.Buckets))
	for g := range cl.Buckets {
		genes = append(genes, g)
	}
	sortutil.Strings(genes)

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "gene\tbucket\ttag")
	for _, g := range genes {
		fmt.Fprintf(bw, "%s\t%s\t%s\n", g, cl.Buckets[g], cl.Round)
	}
	return bw.Flush()
}

// WriteSpecific writes the specific-sequence table (one row per specific
// k-mer).
func WriteSpecific(w io.Writer, specific []match.Result) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "gene\tsequence\tstart\tround\tmatched_header")
	for _, r := range specific {
		hit := ""
		if len(r.Hits) > 0 {
			hit = r.Hits[0]
		}
		fmt.Fprintf(bw, "%s\t%s\t%d\t%s\t%s\n", r.Gene, r.Seq, r.Start, r.Round, hit)
	}
	return bw.Flush()
}

// WriteProbes writes the final probe table.
func WriteProbes(w io.Writer, probes []barcode.Probe) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "probe_id\tgene\tlbar_id\tcode\ttarget\tsequence")
	for _, p := range probes {
		fmt.Fprintf(bw, "%s\t%s\t%d\t%s\t%s\t%s\n",
			p.ProbeID, p.Gene, p.BarcodeID, p.Code, p.Target, p.Sequence)
	}
	return bw.Flush()
}

// ToFile writes a table through fn into path, creating parent directories.
func ToFile(path string, fn func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "artifact %s", path)
	}
	fh, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "artifact %s", path)
	}
	werr := fn(fh)
	if cerr := fh.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil && !IsBrokenPipe(werr) {
		return errors.Wrapf(werr, "artifact %s", path)
	}
	return nil
}
