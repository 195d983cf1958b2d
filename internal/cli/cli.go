// internal/cli/cli.go
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Moldia/PLP-directRNA-design/internal/app"
	"github.com/Moldia/PLP-directRNA-design/internal/barcode"
	"github.com/Moldia/PLP-directRNA-design/internal/classify"
	"github.com/Moldia/PLP-directRNA-design/internal/version"
)

// NewCommand builds the plp-design root command.
func NewCommand() *cobra.Command {
	var (
		opt         app.Options
		timeoutSecs int
		showVersion bool
	)

	cmd := &cobra.Command{
		Use:   "plp-design",
		Short: "Design transcriptome-unique padlock probes for in-situ RNA detection",
		Long: `plp-design selects conserved, chemically valid k-mers per gene, tests each
against the full reference transcriptome under a substitution-only mismatch
threshold, reclassifies genes across sampling rounds, and binds every
transcriptome-unique k-mer to a decoding barcode.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintf(cmd.OutOrStdout(), "plp-design version %s\n", version.Version)
				return nil
			}
			if err := validate(&opt); err != nil {
				return err
			}
			opt.Timeout = time.Duration(timeoutSecs) * time.Second
			if opt.Quiet {
				log.SetLevel(log.WarnLevel)
			}
			return app.Run(context.Background(), opt)
		},
	}

	f := cmd.Flags()
	// Inputs and output
	f.StringVarP(&opt.Output, "output", "o", "", "output directory for round and probe tables [*]")
	f.StringVarP(&opt.GeneList, "genes", "g", "", "gene list table with a Gene column [*]")
	f.StringVarP(&opt.Transcriptome, "transcriptome", "t", "", "reference transcriptome FASTA(.gz) [*]")
	f.StringVar(&opt.AlignerPath, "aligner", "", "external MSA executable for multi-isoform genes")
	f.StringSliceVar(&opt.AlignerArgs, "aligner-arg", nil, "extra aligner argument (repeatable)")
	f.StringVar(&opt.SearchPath, "search-tool", "", "external approximate-search executable (default: built-in scan)")
	f.StringSliceVar(&opt.SearchArgs, "search-arg", nil, "search tool argument template; {query} {mismatches} {corpus} are substituted")

	// Barcodes
	f.StringVarP(&opt.BarcodeLibrary, "barcodes", "b", "", "barcode library table (Lbar_ID, Sequence, Code) [*]")
	f.StringVar(&opt.AssignMode, "assign", barcode.ModeStart, "barcode assignment mode: start | end | custom")
	f.IntVar(&opt.On, "on", 1, "starting (start) or ending-side (end) barcode id")
	f.StringVar(&opt.CustomTable, "custom-table", "", "gene→Lbar_ID table for --assign custom")
	f.BoolVar(&opt.TargetSense, "target-sense", false, "build arms from the target k-mer instead of its reverse complement")

	// Chemistry
	f.IntVarP(&opt.KmerLength, "kmer-length", "k", 30, "probe target length")
	f.IntVarP(&opt.Mismatches, "mismatches", "m", 4, "max substitutions for an off-target match")
	f.Float64Var(&opt.GCMin, "gc-min", 50, "minimum GC percent")
	f.Float64Var(&opt.GCMax, "gc-max", 65, "maximum GC percent")
	f.IntVar(&opt.MaxHomopolymer, "max-homopolymer", 4, "longest allowed single-base run")
	f.StringVar(&opt.Forbidden5, "forbid-5p", "", "bases disallowed at the 5' end of a window")
	f.StringVar(&opt.Forbidden3, "forbid-3p", "", "bases disallowed at the 3' end of a window")
	f.Float64Var(&opt.MaxArmGCDiff, "max-arm-gc-diff", 0, "max GC percent difference between arms (0 = off)")

	// Rounds
	f.IntVarP(&opt.SampleSize, "sample-size", "n", 6, "k-mers sampled per gene in round 1")
	f.IntVar(&opt.RetrySampleSize, "retry-sample-size", 18, "k-mers sampled per gene in round 2")
	f.IntVar(&opt.FinalDesigned, "final-designed", 4, "target specific k-mers per gene")
	f.StringVar(&opt.Attribution, "attribution", classify.ModeGene, "own-hit attribution: gene | transcript")

	// Execution
	f.Int64Var(&opt.Seed, "seed", 0, "sampling seed (0 = time-based, not reproducible)")
	f.IntVar(&opt.Threads, "threads", 0, "matcher worker threads (0 = all CPUs)")
	f.IntVar(&timeoutSecs, "timeout", 0, "per-query timeout in seconds (0 = none)")
	f.IntVar(&opt.Retries, "retries", 2, "retries per query on search collaborator failure")
	f.BoolVarP(&opt.Quiet, "quiet", "q", false, "suppress progress and info logging")
	f.BoolVarP(&showVersion, "version", "v", false, "print version and exit")

	return cmd
}

// usageError marks configuration mistakes so the binary can exit with a
// distinct status from runtime failures.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }

// IsUsageError reports whether err came from option validation.
func IsUsageError(err error) bool {
	_, ok := err.(usageError)
	return ok
}

func validate(o *app.Options) error {
	if err := check(o); err != nil {
		return usageError{err}
	}
	return nil
}

func check(o *app.Options) error {
	switch {
	case o.Output == "":
		return errors.New("--output is required")
	case o.GeneList == "":
		return errors.New("--genes is required")
	case o.Transcriptome == "":
		return errors.New("--transcriptome is required")
	case o.BarcodeLibrary == "":
		return errors.New("--barcodes is required")
	}
	if o.KmerLength <= 0 {
		return errors.New("--kmer-length must be > 0")
	}
	if o.Mismatches < 0 {
		return errors.New("--mismatches must be ≥ 0")
	}
	if o.GCMin < 0 || o.GCMax > 100 || o.GCMin > o.GCMax {
		return errors.Errorf("bad GC bounds [%g, %g]", o.GCMin, o.GCMax)
	}
	if o.SampleSize <= 0 || o.RetrySampleSize <= 0 {
		return errors.New("sample sizes must be > 0")
	}
	if o.FinalDesigned <= 0 {
		return errors.New("--final-designed must be > 0")
	}
	if o.Attribution != classify.ModeGene && o.Attribution != classify.ModeTranscript {
		return errors.Errorf("invalid --attribution %q", o.Attribution)
	}
	switch o.AssignMode {
	case barcode.ModeStart, barcode.ModeEnd:
	case barcode.ModeCustom:
		if o.CustomTable == "" {
			return errors.New("--assign custom requires --custom-table")
		}
	default:
		return errors.Errorf("invalid --assign %q", o.AssignMode)
	}
	if o.Threads < 0 {
		return errors.New("--threads must be ≥ 0")
	}
	return nil
}
