// internal/transcriptome/transcriptome.go
package transcriptome

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
)

// Entry is one transcriptome record. Headers follow the reference convention
// of carrying the gene symbol in parentheses, e.g.
//
//	>NM_000168.6 Homo sapiens GLI family zinc finger 3 (GLI3), mRNA
//
// Symbols holds every parenthesized token found in the header.
type Entry struct {
	ID      string
	Header  string
	Symbols []string
	Seq     []byte
}

// Corpus is the full reference transcriptome. It is immutable after Load and
// safe to share across matcher workers.
type Corpus struct {
	entries []Entry
	byGene  map[string][]int
}

// Load reads a FASTA(.gz) transcriptome from path.
func Load(path string) (*Corpus, error) {
	seq.ValidateSeq = false
	reader, err := fastx.NewDefaultReader(path)
	if err != nil {
		return nil, errors.Wrapf(err, "transcriptome %s", path)
	}
	c := &Corpus{byGene: make(map[string][]int)}
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrapf(err, "transcriptome %s", path)
		}
		header := string(record.Name)
		e := Entry{
			ID:      string(record.ID),
			Header:  header,
			Symbols: parenSymbols(header),
			Seq:     append([]byte(nil), record.Seq.Seq...),
		}
		upper(e.Seq)
		idx := len(c.entries)
		c.entries = append(c.entries, e)
		for _, s := range e.Symbols {
			c.byGene[s] = append(c.byGene[s], idx)
		}
	}
	if len(c.entries) == 0 {
		return nil, errors.Errorf("transcriptome %s: no records", path)
	}
	return c, nil
}

// Len returns the number of entries.
func (c *Corpus) Len() int { return len(c.entries) }

// Entries returns the full record list. Callers must not mutate it.
func (c *Corpus) Entries() []Entry { return c.entries }

// IsoformsOf returns the entries whose header carries gene in parentheses.
// An empty result means the header convention is violated for this gene (or
// the gene is absent) and the gene is a NotFound outcome upstream.
func (c *Corpus) IsoformsOf(gene string) []Entry {
	idxs := c.byGene[gene]
	if len(idxs) == 0 {
		return nil
	}
	out := make([]Entry, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, c.entries[i])
	}
	return out
}

// HeaderGene reports whether the header of entry id attributes to gene.
func (c *Corpus) HeaderGene(entryHeader, gene string) bool {
	for _, s := range parenSymbols(entryHeader) {
		if s == gene {
			return true
		}
	}
	return false
}

// parenSymbols extracts every "(TOKEN)" group from a FASTA header.
func parenSymbols(header string) []string {
	var out []string
	for i := 0; i < len(header); {
		open := strings.IndexByte(header[i:], '(')
		if open < 0 {
			break
		}
		open += i
		end := strings.IndexByte(header[open:], ')')
		if end < 0 {
			break
		}
		end += open
		if tok := strings.TrimSpace(header[open+1 : end]); tok != "" {
			out = append(out, tok)
		}
		i = end + 1
	}
	return out
}

func upper(b []byte) {
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 32
		}
	}
}
