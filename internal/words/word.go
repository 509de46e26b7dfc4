package words

import (
	"sort"
	"strings"

	"github.com/google/btree"
)

// lineDegree is the btree degree used for per-file line sets. Most words
// appear on a handful of lines, so a small degree keeps nodes compact.
const lineDegree = 8

// Word is a distinct token and the places it occurs.
//
// The text is fixed at construction; it is the ordering key inside an Index
// and must not change while the word is stored there.
type Word struct {
	text        string
	occurrences map[string]*btree.BTreeG[int]
}

// NewWord returns a word with no occurrences. The text is lowercased.
func NewWord(text string) *Word {
	return &Word{
		text:        strings.ToLower(text),
		occurrences: make(map[string]*btree.BTreeG[int]),
	}
}

// Compare orders words by their text, byte-wise.
func Compare(a, b *Word) int {
	return strings.Compare(a.text, b.text)
}

// Text returns the lowercased word.
func (w *Word) Text() string {
	return w.text
}

// AddOccurrence records that the word appears on line of file. A line is
// recorded at most once per file; it reports whether the line was new.
func (w *Word) AddOccurrence(file string, line int) bool {
	lines, ok := w.occurrences[file]
	if !ok {
		lines = btree.NewOrderedG[int](lineDegree)
		w.occurrences[file] = lines
	}
	_, replaced := lines.ReplaceOrInsert(line)
	return !replaced
}

// Files returns the files the word appears in, sorted.
func (w *Word) Files() []string {
	files := make([]string, 0, len(w.occurrences))
	for f := range w.occurrences {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// Lines returns the line numbers for file in ascending order, or nil if
// the word never appeared there.
func (w *Word) Lines(file string) []int {
	set, ok := w.occurrences[file]
	if !ok {
		return nil
	}
	out := make([]int, 0, set.Len())
	set.Ascend(func(line int) bool {
		out = append(out, line)
		return true
	})
	return out
}

// FileCount returns the number of distinct files.
func (w *Word) FileCount() int {
	return len(w.occurrences)
}

// TotalFrequency returns the number of distinct (file, line) pairs.
func (w *Word) TotalFrequency() int {
	total := 0
	for _, set := range w.occurrences {
		total += set.Len()
	}
	return total
}

// ForgetFile drops every occurrence in file and reports whether any existed.
func (w *Word) ForgetFile(file string) bool {
	if _, ok := w.occurrences[file]; !ok {
		return false
	}
	delete(w.occurrences, file)
	return true
}

func (w *Word) String() string {
	return w.text
}
