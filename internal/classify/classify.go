// internal/classify/classify.go
package classify

import (
	"github.com/pkg/errors"

	"github.com/Moldia/PLP-directRNA-design/internal/match"
)

// Bucket is a gene's classification for one round (or after a merge).
type Bucket int

const (
	// NotFound: the gene never produced a candidate (absent from the
	// reference, header convention violated, or no valid window).
	NotFound Bucket = iota
	// NoSpecific: candidates were tested but none came back specific.
	NoSpecific
	// TooFew: some specific k-mers exist, fewer than the target.
	TooFew
	// Good: at least the target number of specific k-mers exist.
	Good
)

func (b Bucket) String() string {
	switch b {
	case NotFound:
		return "not_found"
	case NoSpecific:
		return "no_specific"
	case TooFew:
		return "too_few"
	case Good:
		return "good"
	}
	return "unknown"
}

// Attribution modes for deciding whether a hit belongs to the query's source
// gene. With ModeGene, hits on the gene's own isoforms are collapsed into one
// before counting, so a conserved k-mer hitting every isoform still counts as
// specific. With ModeTranscript, any second hit disqualifies the k-mer even
// when it is the gene's own isoform.
const (
	ModeGene       = "gene"
	ModeTranscript = "transcript"
)

// Config holds the classification parameters. OwnHit reports whether a hit
// header is attributable to the gene (transcriptome.Corpus.HeaderGene in
// production).
type Config struct {
	Target int // required specific k-mers per gene (final_designed)
	Mode   string
	OwnHit func(header, gene string) bool
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Target <= 0 {
		return errors.New("target specific count must be > 0")
	}
	if c.Mode != ModeGene && c.Mode != ModeTranscript {
		return errors.Errorf("unknown attribution mode %q", c.Mode)
	}
	if c.OwnHit == nil {
		return errors.New("OwnHit attribution func is required")
	}
	return nil
}

// IsSpecific reports whether one match result counts as a specific k-mer
// under cfg. A result with zero hits or with any off-target hit is never
// specific.
func IsSpecific(r match.Result, cfg Config) bool {
	if r.HitCount == 0 || len(r.Hits) == 0 {
		return false
	}
	own, other := 0, 0
	for _, h := range r.Hits {
		if cfg.OwnHit(h, r.Gene) {
			own++
		} else {
			other++
		}
	}
	if other > 0 || own == 0 {
		return false
	}
	if cfg.Mode == ModeTranscript {
		return own == 1
	}
	return true // ModeGene: own-isoform hits collapse to one
}

// Classification is the outcome of one round (or merge): the specific rows
// and the four gene buckets. It is never mutated; reclassification builds a
// new value.
type Classification struct {
	Round    string
	Buckets  map[string]Bucket
	Specific []match.Result
}

// Classify buckets every gene on the roster. notFound marks genes that never
// produced a candidate. Classification of an unchanged result set is
// idempotent.
func Classify(round string, roster []string, notFound map[string]bool, results []match.Result, cfg Config) (Classification, error) {
	if err := cfg.Validate(); err != nil {
		return Classification{}, err
	}
	cl := Classification{Round: round, Buckets: make(map[string]Bucket, len(roster))}
	perGene := make(map[string]int)
	for _, r := range results {
		if IsSpecific(r, cfg) {
			perGene[r.Gene]++
			cl.Specific = append(cl.Specific, r)
		}
	}
	for _, g := range roster {
		switch s := perGene[g]; {
		case notFound[g]:
			cl.Buckets[g] = NotFound
		case s == 0:
			cl.Buckets[g] = NoSpecific
		case s < cfg.Target:
			cl.Buckets[g] = TooFew
		default:
			cl.Buckets[g] = Good
		}
	}
	return cl, nil
}

// Genes returns the roster genes currently in bucket b, in roster order.
func (c Classification) Genes(roster []string, b Bucket) []string {
	var out []string
	for _, g := range roster {
		if c.Buckets[g] == b {
			out = append(out, g)
		}
	}
	return out
}
