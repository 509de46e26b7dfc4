package words

import (
	"sort"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	apperrors "github.com/Aman-CERP/wordtracker/internal/errors"
	"github.com/Aman-CERP/wordtracker/internal/tree"
)

// DefaultHotWords is the default size of the hot-word cache.
const DefaultHotWords = 1024

// Occurrence is one token found on one line.
type Occurrence struct {
	Word string
	Line int
}

// Index is the set of tracked words. It is safe for concurrent use.
//
// Words returned by Lookup, Words, Preorder and Postorder share state with
// the index; read them only while no Record call for the same word can run.
type Index struct {
	mu   sync.RWMutex
	tree *tree.OrderedTree[*Word]
	hot  *lru.Cache[string, *Word] // nil when disabled
}

// NewIndex returns an empty index. hotWords bounds the lookup cache; zero or
// a negative value disables it.
func NewIndex(hotWords int) (*Index, error) {
	idx := &Index{tree: tree.New(Compare)}
	if hotWords > 0 {
		cache, err := lru.New[string, *Word](hotWords)
		if err != nil {
			return nil, apperrors.InternalError("failed to create hot-word cache", err)
		}
		idx.hot = cache
	}
	return idx, nil
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Record adds one occurrence of text on line of file and reports whether the
// word was new to the index.
func (idx *Index) Record(text, file string, line int) (bool, error) {
	key := normalize(text)
	if err := validateOccurrence(key, file, line); err != nil {
		return false, err
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	return idx.recordLocked(key, file, line)
}

// RecordAll adds a file's occurrences under a single lock acquisition and
// returns the number of words that were new to the index.
func (idx *Index) RecordAll(file string, occs []Occurrence) (int, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	added := 0
	for _, o := range occs {
		key := normalize(o.Word)
		if err := validateOccurrence(key, file, o.Line); err != nil {
			return added, err
		}
		isNew, err := idx.recordLocked(key, file, o.Line)
		if err != nil {
			return added, err
		}
		if isNew {
			added++
		}
	}
	return added, nil
}

func validateOccurrence(key, file string, line int) error {
	switch {
	case key == "":
		return apperrors.ValidationError("word must not be empty", nil)
	case file == "":
		return apperrors.ValidationError("file must not be empty", nil).WithDetail("word", key)
	case line < 1:
		return apperrors.ValidationError("line numbers start at 1", nil).WithDetail("word", key)
	}
	return nil
}

func (idx *Index) recordLocked(key, file string, line int) (bool, error) {
	w, err := idx.lookupLocked(key)
	if err != nil {
		return false, err
	}
	if w != nil {
		w.AddOccurrence(file, line)
		return false, nil
	}

	w = NewWord(key)
	w.AddOccurrence(file, line)
	if _, err := idx.tree.Insert(w); err != nil {
		return false, err
	}
	if idx.hot != nil {
		idx.hot.Add(key, w)
	}
	return true, nil
}

func (idx *Index) lookupLocked(key string) (*Word, error) {
	if idx.hot != nil {
		if w, ok := idx.hot.Get(key); ok {
			return w, nil
		}
	}

	n, err := idx.tree.Search(&Word{text: key})
	if err != nil || n == nil {
		return nil, err
	}
	w := n.Value()
	if idx.hot != nil {
		idx.hot.Add(key, w)
	}
	return w, nil
}

// Lookup returns the word for text, or nil if it is not tracked.
func (idx *Index) Lookup(text string) *Word {
	key := normalize(text)
	if key == "" {
		return nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	w, _ := idx.lookupLocked(key)
	return w
}

// Len returns the number of distinct words.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.tree.Size()
}

// Height returns the height of the underlying tree (-1 when empty).
func (idx *Index) Height() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.tree.Height()
}

// Bounds returns the alphabetically first and last words.
func (idx *Index) Bounds() (first, last string, ok bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	lo, ok := idx.tree.Min()
	if !ok {
		return "", "", false
	}
	hi, _ := idx.tree.Max()
	return lo.text, hi.text, true
}

// Words returns every word in alphabetical order.
func (idx *Index) Words() []*Word {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.tree.InorderTraversal()
}

// Files returns every file with at least one recorded occurrence, sorted.
func (idx *Index) Files() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	seen := make(map[string]bool)
	for _, w := range idx.tree.InorderTraversal() {
		for file := range w.occurrences {
			seen[file] = true
		}
	}
	files := make([]string, 0, len(seen))
	for file := range seen {
		files = append(files, file)
	}
	sort.Strings(files)
	return files
}

// Preorder returns the words in tree preorder, root first.
func (idx *Index) Preorder() []*Word {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.tree.PreorderTraversal()
}

// Postorder returns the words in tree postorder, root last.
func (idx *Index) Postorder() []*Word {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.tree.PostorderTraversal()
}

// Remove drops a word and all of its occurrences.
func (idx *Index) Remove(text string) (bool, error) {
	key := normalize(text)
	if key == "" {
		return false, apperrors.ValidationError("word must not be empty", nil)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.hot != nil {
		idx.hot.Remove(key)
	}
	return idx.tree.Remove(&Word{text: key})
}

// ReplaceFile swaps the occurrences recorded for file with occs. Words that
// end up without occurrences are removed. It returns the number of words
// new to the index and the number removed.
func (idx *Index) ReplaceFile(file string, occs []Occurrence) (added, removed int, err error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	var touched []*Word
	for _, w := range idx.tree.InorderTraversal() {
		if w.ForgetFile(file) {
			touched = append(touched, w)
		}
	}

	for _, o := range occs {
		key := normalize(o.Word)
		if err := validateOccurrence(key, file, o.Line); err != nil {
			return added, 0, err
		}
		isNew, err := idx.recordLocked(key, file, o.Line)
		if err != nil {
			return added, 0, err
		}
		if isNew {
			added++
		}
	}

	removed, err = idx.dropEmptyLocked(touched)
	return added, removed, err
}

func (idx *Index) dropEmptyLocked(candidates []*Word) (int, error) {
	removed := 0
	for _, w := range candidates {
		if w.FileCount() > 0 {
			continue
		}
		if idx.hot != nil {
			idx.hot.Remove(w.text)
		}
		if _, err := idx.tree.Remove(w); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// ForgetFile drops every occurrence recorded for file. Words left without
// any occurrence are removed. It returns the number of removed words.
func (idx *Index) ForgetFile(file string) (int, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	var touched []*Word
	for _, w := range idx.tree.InorderTraversal() {
		if w.ForgetFile(file) {
			touched = append(touched, w)
		}
	}
	return idx.dropEmptyLocked(touched)
}

// Clear removes every word.
func (idx *Index) Clear() {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.tree.Clear()
	if idx.hot != nil {
		idx.hot.Purge()
	}
}
