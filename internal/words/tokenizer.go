package words

import (
	"regexp"
	"strings"
)

// DefaultMinLength is the shortest token kept by default.
const DefaultMinLength = 1

// letterRun matches maximal runs of ASCII letters; everything else separates
// tokens.
var letterRun = regexp.MustCompile(`[a-zA-Z]+`)

// Tokenizer splits lines into lowercased word tokens.
type Tokenizer struct {
	minLength int
	stopWords map[string]struct{}
}

// NewTokenizer returns a tokenizer dropping tokens shorter than minLength
// and any of stopWords (matched case-insensitively).
func NewTokenizer(minLength int, stopWords []string) *Tokenizer {
	if minLength < 1 {
		minLength = DefaultMinLength
	}
	return &Tokenizer{
		minLength: minLength,
		stopWords: BuildStopWordMap(stopWords),
	}
}

// Tokenize returns the tokens of line in order of appearance. Repeated
// tokens are kept.
func (t *Tokenizer) Tokenize(line string) []string {
	runs := letterRun.FindAllString(line, -1)
	tokens := make([]string, 0, len(runs))
	for _, r := range runs {
		if len(r) < t.minLength {
			continue
		}
		lower := strings.ToLower(r)
		if _, stop := t.stopWords[lower]; stop {
			continue
		}
		tokens = append(tokens, lower)
	}
	return tokens
}

// BuildStopWordMap converts a slice of stop words to a set.
func BuildStopWordMap(stopWords []string) map[string]struct{} {
	m := make(map[string]struct{}, len(stopWords))
	for _, word := range stopWords {
		if w := strings.ToLower(strings.TrimSpace(word)); w != "" {
			m[w] = struct{}{}
		}
	}
	return m
}
