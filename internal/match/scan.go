// internal/match/scan.go
package match

import (
	"context"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/Moldia/PLP-directRNA-design/internal/sample"
)

// Config controls the concurrent specificity scan.
type Config struct {
	MaxMM    int
	Threads  int           // worker goroutines (0 = all CPUs)
	Timeout  time.Duration // per query attempt; 0 disables
	Retries  int           // extra attempts per query on collaborator failure
	Progress bool          // render an mpb bar on stderr
}

// Run queries every sampled k-mer against the searcher through a worker pool.
// Queries are independent and read-only against the corpus; completion order
// carries no meaning, so results are returned sorted by (Gene, Seq) for
// deterministic artifacts. A query that still fails after retries aborts the
// whole scan: a transient collaborator failure must not leak half a round
// into the accumulated results.
func Run(ctx context.Context, cfg Config, s Searcher, kmers []sample.Kmer) ([]Result, error) {
	if len(kmers) == 0 {
		return nil, nil
	}
	thr := cfg.Threads
	if thr <= 0 {
		thr = runtime.NumCPU()
	}
	if thr > len(kmers) {
		thr = len(kmers)
	}

	var (
		prog *mpb.Progress
		bar  *mpb.Bar
	)
	if cfg.Progress {
		prog = mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
		bar = prog.AddBar(int64(len(kmers)),
			mpb.PrependDecorators(decor.Name("matching "), decor.CountersNoUnit("%d / %d")),
			mpb.AppendDecorators(decor.Percentage()),
		)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan sample.Kmer, thr*2)
	results := make(chan Result, thr*2)
	errc := make(chan error, thr)

	var wg sync.WaitGroup
	wg.Add(thr)
	for w := 0; w < thr; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case k, ok := <-jobs:
					if !ok {
						return
					}
					hits, err := searchWithRetry(ctx, cfg, s, k.Seq)
					if bar != nil {
						bar.Increment()
					}
					if err != nil {
						select {
						case errc <- err:
						default:
						}
						cancel()
						return
					}
					r := Result{
						Gene:     k.Gene,
						Seq:      k.Seq,
						Start:    k.Start,
						Round:    k.Round,
						HitCount: len(hits),
						Hits:     hits,
					}
					select {
					case results <- r:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	var (
		out []Result
		cwg sync.WaitGroup
	)
	cwg.Add(1)
	go func() {
		defer cwg.Done()
		for r := range results {
			out = append(out, r)
		}
	}()

feed:
	for _, k := range kmers {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- k:
		}
	}
	close(jobs)
	wg.Wait()
	close(results)
	cwg.Wait()
	if bar != nil {
		bar.Abort(true)
		prog.Wait()
	}

	select {
	case err := <-errc:
		return nil, err
	default:
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Gene != out[j].Gene {
			return out[i].Gene < out[j].Gene
		}
		return out[i].Seq < out[j].Seq
	})
	return out, nil
}

func searchWithRetry(ctx context.Context, cfg Config, s Searcher, query string) ([]string, error) {
	var (
		hits []string
		err  error
	)
	for attempt := 0; attempt <= cfg.Retries; attempt++ {
		hits, err = searchOnce(ctx, cfg, s, query)
		if err == nil || ctx.Err() != nil {
			break
		}
	}
	return hits, err
}

func searchOnce(ctx context.Context, cfg Config, s Searcher, query string) ([]string, error) {
	if cfg.Timeout > 0 {
		tctx, tcancel := context.WithTimeout(ctx, cfg.Timeout)
		defer tcancel()
		return s.Search(tctx, query, cfg.MaxMM)
	}
	return s.Search(ctx, query, cfg.MaxMM)
}
