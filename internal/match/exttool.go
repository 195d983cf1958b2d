// internal/match/exttool.go
package match

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Tool adapts an external exact/approximate-match executable to the Searcher
// contract. Args is an argument template; the placeholders {query},
// {mismatches} and {corpus} are substituted per call. The tool must print one
// matched entry header per line on stdout.
type Tool struct {
	Path   string
	Corpus string
	Args   []string
}

// NewTool returns a subprocess-backed Searcher.
func NewTool(path, corpus string, args ...string) *Tool {
	return &Tool{Path: path, Corpus: corpus, Args: args}
}

func (t *Tool) Search(ctx context.Context, query string, maxMM int) ([]string, error) {
	argv := make([]string, len(t.Args))
	for i, a := range t.Args {
		a = strings.ReplaceAll(a, "{query}", query)
		a = strings.ReplaceAll(a, "{mismatches}", strconv.Itoa(maxMM))
		a = strings.ReplaceAll(a, "{corpus}", t.Corpus)
		argv[i] = a
	}
	cmd := exec.CommandContext(ctx, t.Path, argv...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrapf(err, "search tool %s (%s)", t.Path, strings.TrimSpace(errb.String()))
	}
	var hits []string
	sc := bufio.NewScanner(&out)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		hits = append(hits, strings.TrimPrefix(line, ">"))
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "search tool %s output", t.Path)
	}
	return hits, nil
}
