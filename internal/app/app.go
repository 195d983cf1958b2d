// internal/app/app.go
package app

import (
	"context"
	"hash/fnv"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/shenwei356/util/pathutil"
	log "github.com/sirupsen/logrus"

	"github.com/Moldia/PLP-directRNA-design/internal/align"
	"github.com/Moldia/PLP-directRNA-design/internal/barcode"
	"github.com/Moldia/PLP-directRNA-design/internal/classify"
	"github.com/Moldia/PLP-directRNA-design/internal/genelist"
	"github.com/Moldia/PLP-directRNA-design/internal/kmer"
	"github.com/Moldia/PLP-directRNA-design/internal/match"
	"github.com/Moldia/PLP-directRNA-design/internal/sample"
	"github.com/Moldia/PLP-directRNA-design/internal/transcriptome"
	"github.com/Moldia/PLP-directRNA-design/internal/writers"
)

// Round tags carried on every value produced in a round and qualifying every
// artifact written for it.
const (
	RoundOne = "round1"
	RoundTwo = "round2"
	Merged   = "merged"
)

// Options is the full configuration surface. Nothing here falls back
// silently; the CLI validates and logs the effective values.
type Options struct {
	Output        string
	GeneList      string
	Transcriptome string

	AlignerPath string // external MSA executable; required for multi-isoform genes
	AlignerArgs []string

	SearchPath string // external search executable; empty = in-process scan
	SearchArgs []string

	BarcodeLibrary string
	AssignMode     string // start | end | custom
	On             int
	CustomTable    string // required in custom mode
	TargetSense    bool

	KmerLength     int
	Mismatches     int
	GCMin          float64
	GCMax          float64
	MaxHomopolymer int
	Forbidden5     string
	Forbidden3     string
	MaxArmGCDiff   float64 // 0 = off

	SampleSize      int
	RetrySampleSize int
	FinalDesigned   int // target specific k-mers per gene
	Attribution     string

	Seed    int64 // 0 = time-seeded (not reproducible)
	Threads int
	Timeout time.Duration
	Retries int
	Quiet   bool
}

// Run executes the whole design pipeline with default collaborators: a
// subprocess aligner (when configured) and the in-process Hamming searcher
// unless an external search tool is given.
func Run(ctx context.Context, opt Options) error {
	corpus, err := transcriptome.Load(opt.Transcriptome)
	if err != nil {
		return err
	}
	var aligner align.Aligner
	if opt.AlignerPath != "" {
		aligner = align.NewTool(opt.AlignerPath, opt.AlignerArgs...)
	} else {
		aligner = singleIsoformAligner{}
	}
	var searcher match.Searcher
	if opt.SearchPath != "" {
		searcher = match.NewTool(opt.SearchPath, opt.Transcriptome, opt.SearchArgs...)
	} else {
		searcher = &match.HammingSearcher{Corpus: corpus}
	}
	return RunWith(ctx, opt, corpus, aligner, searcher)
}

// RunWith runs the pipeline against injected collaborators.
func RunWith(ctx context.Context, opt Options, corpus *transcriptome.Corpus, aligner align.Aligner, searcher match.Searcher) error {
	seed := opt.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
		log.Warn("no --seed supplied; sampling is not reproducible across runs")
	}
	log.Infof("k=%d mismatches=%d gc=[%g,%g] sample=%d/%d target=%d attribution=%s",
		opt.KmerLength, opt.Mismatches, opt.GCMin, opt.GCMax,
		opt.SampleSize, opt.RetrySampleSize, opt.FinalDesigned, opt.Attribution)

	if ok, _ := pathutil.DirExists(opt.Output); !ok {
		if err := os.MkdirAll(opt.Output, 0o755); err != nil {
			return errors.Wrapf(err, "output dir %s", opt.Output)
		}
	}

	genes, err := genelist.Load(opt.GeneList)
	if err != nil {
		return err
	}
	log.Infof("designing probes for %d genes against %d transcripts", len(genes), corpus.Len())

	extractCfg := kmer.Config{
		K:     opt.KmerLength,
		GCMin: opt.GCMin,
		GCMax: opt.GCMax,
		Predicates: []kmer.Predicate{
			kmer.MaxHomopolymer(opt.MaxHomopolymer),
			kmer.ForbiddenTerminal(opt.Forbidden5, opt.Forbidden3),
		},
	}
	if opt.MaxArmGCDiff > 0 {
		extractCfg.Predicates = append(extractCfg.Predicates, kmer.MaxArmGCDiff(opt.MaxArmGCDiff))
	}

	candidates, notFound, err := extractAll(ctx, genes, corpus, aligner, extractCfg)
	if err != nil {
		return err
	}

	classifyCfg := classify.Config{
		Target: opt.FinalDesigned,
		Mode:   opt.Attribution,
		OwnHit: corpus.HeaderGene,
	}
	matchCfg := match.Config{
		MaxMM:    opt.Mismatches,
		Threads:  opt.Threads,
		Timeout:  opt.Timeout,
		Retries:  opt.Retries,
		Progress: !opt.Quiet,
	}

	// Round 1: every found gene.
	found := make([]string, 0, len(genes))
	for _, g := range genes {
		if !notFound[g] {
			found = append(found, g)
		}
	}
	results1, cl1, err := runRound(ctx, RoundOne, found, opt.SampleSize, seed,
		candidates, notFound, genes, matchCfg, classifyCfg, searcher, opt.Output)
	if err != nil {
		return err
	}

	// Round 2: genes that came back short get a larger sample.
	retry := append(cl1.Genes(genes, classify.NoSpecific), cl1.Genes(genes, classify.TooFew)...)
	merged := results1
	if len(retry) > 0 {
		log.Infof("round2: resampling %d genes with sample size %d", len(retry), opt.RetrySampleSize)
		results2, _, err := runRound(ctx, RoundTwo, retry, opt.RetrySampleSize, seed,
			candidates, notFound, genes, matchCfg, classifyCfg, searcher, opt.Output)
		if err != nil {
			return err
		}
		merged = classify.Merge(results1, results2)
	}

	clM, err := classify.Classify(Merged, genes, notFound, merged, classifyCfg)
	if err != nil {
		return err
	}
	if err := writeClassification(opt.Output, clM); err != nil {
		return err
	}
	if err := writers.ToFile(writers.SpecificPath(opt.Output, Merged), func(w io.Writer) error {
		return writers.WriteSpecific(w, clM.Specific)
	}); err != nil {
		return err
	}
	logBuckets(genes, clM)

	probes, err := assignAndAssemble(genes, clM, opt)
	if err != nil {
		return err
	}
	if err := writers.ToFile(writers.ProbesPath(opt.Output), func(w io.Writer) error {
		return writers.WriteProbes(w, probes)
	}); err != nil {
		return err
	}
	log.Infof("wrote %d probes to %s", len(probes), writers.ProbesPath(opt.Output))
	return nil
}

// extractAll aligns each gene's isoforms and extracts candidate k-mers.
// Genes absent from the reference (or violating the header convention) and
// genes with no valid window both end up notFound, logged distinctly so
// naming problems are tellable from biological lack of conserved sequence.
func extractAll(ctx context.Context, genes []string, corpus *transcriptome.Corpus, aligner align.Aligner, cfg kmer.Config) (map[string][]kmer.Candidate, map[string]bool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	candidates := make(map[string][]kmer.Candidate, len(genes))
	notFound := make(map[string]bool)
	for _, g := range genes {
		isoforms := corpus.IsoformsOf(g)
		if len(isoforms) == 0 {
			log.Warnf("gene %s: no transcript header carries (%s); check the gene name", g, g)
			notFound[g] = true
			continue
		}
		ids := make([]string, len(isoforms))
		seqs := make([][]byte, len(isoforms))
		for i, e := range isoforms {
			ids[i], seqs[i] = e.ID, e.Seq
		}
		aln, err := aligner.Align(ctx, g, ids, seqs)
		if err != nil {
			return nil, nil, err // aligner failures are infrastructure, not per-gene
		}
		cands, err := kmer.Extract(aln, cfg)
		if err != nil {
			return nil, nil, err
		}
		if len(cands) == 0 {
			log.Warnf("gene %s: no conserved window passes the chemistry filters", g)
			notFound[g] = true
			continue
		}
		candidates[g] = cands
	}
	return candidates, notFound, nil
}

// runRound samples, matches and classifies one round, writing its artifacts.
func runRound(ctx context.Context, tag string, roster []string, n int, seed int64,
	candidates map[string][]kmer.Candidate, notFound map[string]bool, allGenes []string,
	mcfg match.Config, ccfg classify.Config, searcher match.Searcher, outDir string,
) ([]match.Result, classify.Classification, error) {
	var sampled []sample.Kmer
	for _, g := range roster {
		picks := sample.Draw(candidates[g], n, rngFor(seed, g, tag), tag)
		if len(picks) < n {
			log.Debugf("%s: gene %s has only %d non-overlapping candidates (wanted %d)", tag, g, len(picks), n)
		}
		sampled = append(sampled, picks...)
	}
	results, err := match.Run(ctx, mcfg, searcher, sampled)
	if err != nil {
		return nil, classify.Classification{}, errors.Wrapf(err, "%s specificity scan", tag)
	}
	if err := writers.ToFile(writers.MappedPath(outDir, tag), func(w io.Writer) error {
		return writers.WriteMapped(w, results)
	}); err != nil {
		return nil, classify.Classification{}, err
	}
	cl, err := classify.Classify(tag, allGenes, notFound, results, ccfg)
	if err != nil {
		return nil, classify.Classification{}, err
	}
	if err := writeClassification(outDir, cl); err != nil {
		return nil, classify.Classification{}, err
	}
	return results, cl, nil
}

func writeClassification(dir string, cl classify.Classification) error {
	return writers.ToFile(writers.ClassificationPath(dir, cl.Round), func(w io.Writer) error {
		return writers.WriteClassification(w, cl)
	})
}

func assignAndAssemble(genes []string, cl classify.Classification, opt Options) ([]barcode.Probe, error) {
	lib, err := barcode.LoadLibrary(opt.BarcodeLibrary)
	if err != nil {
		return nil, err
	}
	bcfg := barcode.Config{
		Mode:        opt.AssignMode,
		On:          opt.On,
		TargetSense: opt.TargetSense,
		MaxPerGene:  opt.FinalDesigned,
	}
	roster := genes
	if opt.AssignMode == barcode.ModeCustom {
		custom, err := barcode.LoadCustomTable(opt.CustomTable)
		if err != nil {
			return nil, err
		}
		bcfg.Custom = custom
		// Custom mode only needs ids for genes that actually yielded probes.
		roster = genesWithSpecific(genes, cl)
	}
	ids, err := barcode.AssignIDs(roster, lib, bcfg)
	if err != nil {
		return nil, err
	}
	return barcode.Assemble(cl.Specific, ids, lib, bcfg)
}

func genesWithSpecific(genes []string, cl classify.Classification) []string {
	has := make(map[string]bool)
	for _, r := range cl.Specific {
		has[r.Gene] = true
	}
	var out []string
	for _, g := range genes {
		if has[g] {
			out = append(out, g)
		}
	}
	return out
}

func logBuckets(genes []string, cl classify.Classification) {
	counts := map[classify.Bucket]int{}
	for _, g := range genes {
		counts[cl.Buckets[g]]++
	}
	log.Infof("classification: %d good, %d too_few, %d no_specific, %d not_found",
		counts[classify.Good], counts[classify.TooFew], counts[classify.NoSpecific], counts[classify.NotFound])
	for _, g := range cl.Genes(genes, classify.NotFound) {
		log.Warnf("gene %s: not found", g)
	}
}

// rngFor derives a per-gene-per-round random source so concurrent sampling
// never shares RNG state and a fixed seed reproduces every round exactly.
func rngFor(seed int64, gene, round string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(gene))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(round))
	return rand.New(rand.NewSource(seed ^ int64(h.Sum64())))
}

// singleIsoformAligner is the no-tool default: genes with one isoform align
// trivially, anything else needs a configured MSA executable.
type singleIsoformAligner struct{}

func (singleIsoformAligner) Align(_ context.Context, gene string, ids []string, seqs [][]byte) (align.Alignment, error) {
	if len(seqs) == 1 {
		return align.Identity(gene, ids[0], seqs[0]), nil
	}
	return align.Alignment{}, errors.Errorf("gene %s has %d isoforms; --aligner is required for multi-isoform genes", gene, len(seqs))
}
