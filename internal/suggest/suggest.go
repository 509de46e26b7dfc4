// Package suggest finds recorded words that look like a word the user typed,
// for "did you mean" hints when a lookup misses.
//
// The vocabulary is loaded into an in-memory bleve index with one keyword
// term per word. Queries combine a fuzzy match (edit distance) with a prefix
// match, so both typos and truncated words find their target.
package suggest

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"

	"github.com/Aman-CERP/wordtracker/internal/words"
)

// DefaultLimit is the number of suggestions returned when none is asked for.
const DefaultLimit = 5

const (
	textField = "text"
	batchSize = 1000
)

// Suggestion is one similar word.
type Suggestion struct {
	Word     string
	Distance int     // edit distance to the term
	Score    float64 // bleve relevance
}

// Suggester answers similarity queries over a fixed vocabulary.
type Suggester struct {
	index bleve.Index
	size  int
}

type document struct {
	Text string `json:"text"`
}

// New indexes every word of idx. Close releases the index.
func New(ctx context.Context, idx *words.Index) (*Suggester, error) {
	start := time.Now()

	m := bleve.NewIndexMapping()
	field := bleve.NewTextFieldMapping()
	field.Analyzer = keyword.Name
	field.Store = false
	field.IncludeTermVectors = false
	field.IncludeInAll = false
	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt(textField, field)
	m.DefaultMapping = doc

	bi, err := bleve.NewMemOnly(m)
	if err != nil {
		return nil, fmt.Errorf("create suggestion index: %w", err)
	}

	s := &Suggester{index: bi}
	batch := bi.NewBatch()
	for _, w := range idx.Words() {
		if err := ctx.Err(); err != nil {
			_ = bi.Close()
			return nil, err
		}
		if err := batch.Index(w.Text(), document{Text: w.Text()}); err != nil {
			_ = bi.Close()
			return nil, fmt.Errorf("index word %q: %w", w.Text(), err)
		}
		s.size++
		if batch.Size() >= batchSize {
			if err := bi.Batch(batch); err != nil {
				_ = bi.Close()
				return nil, fmt.Errorf("index words: %w", err)
			}
			batch.Reset()
		}
	}
	if batch.Size() > 0 {
		if err := bi.Batch(batch); err != nil {
			_ = bi.Close()
			return nil, fmt.Errorf("index words: %w", err)
		}
	}

	slog.Debug("suggestion_index_built",
		slog.Int("words", s.size),
		slog.Duration("duration", time.Since(start)))
	return s, nil
}

// Len returns the number of indexed words.
func (s *Suggester) Len() int {
	return s.size
}

// fuzziness allows one edit for short words and two otherwise.
func fuzziness(term string) int {
	if len(term) <= 4 {
		return 1
	}
	return 2
}

// Similar returns up to limit recorded words close to term, nearest first
// by edit distance, then by relevance, then alphabetically. The term itself
// is never suggested.
func (s *Suggester) Similar(ctx context.Context, term string, limit int) ([]Suggestion, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	fuzzy := bleve.NewFuzzyQuery(term)
	fuzzy.SetField(textField)
	fuzzy.SetFuzziness(fuzziness(term))

	prefix := bleve.NewPrefixQuery(term)
	prefix.SetField(textField)
	prefix.SetBoost(0.5)

	// Over-fetch: bleve ranks by relevance, the final order is by distance.
	size := limit * 4
	if size < 20 {
		size = 20
	}
	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(fuzzy, prefix), size+1, 0, false)
	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search suggestions: %w", err)
	}

	out := make([]Suggestion, 0, len(res.Hits))
	for _, hit := range res.Hits {
		if hit.ID == term {
			continue
		}
		out = append(out, Suggestion{Word: hit.ID, Distance: distance(term, hit.ID), Score: hit.Score})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Word < out[j].Word
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// distance is the Levenshtein distance between a and b, in bytes. Recorded
// words are ASCII.
func distance(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// Close releases the index.
func (s *Suggester) Close() error {
	return s.index.Close()
}

// Words returns the suggested words in order.
func Words(suggestions []Suggestion) []string {
	out := make([]string, len(suggestions))
	for i, s := range suggestions {
		out[i] = s.Word
	}
	return out
}
