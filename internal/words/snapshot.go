package words

import (
	"fmt"

	apperrors "github.com/Aman-CERP/wordtracker/internal/errors"
)

// Snapshot is the persisted form of an Index. Words are listed in tree
// preorder so that reloading them reproduces the saved tree shape.
type Snapshot struct {
	Words []WordRecord `json:"words"`
}

// WordRecord is one word and its occurrences.
type WordRecord struct {
	Text  string      `json:"text"`
	Files []FileLines `json:"files"`
}

// FileLines lists the lines a word appears on within one file.
type FileLines struct {
	File  string `json:"file"`
	Lines []int  `json:"lines"`
}

// Snapshot captures the current contents of the index.
func (idx *Index) Snapshot() *Snapshot {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	ordered := idx.tree.PreorderTraversal()
	snap := &Snapshot{Words: make([]WordRecord, 0, len(ordered))}
	for _, w := range ordered {
		rec := WordRecord{Text: w.text}
		for _, f := range w.Files() {
			rec.Files = append(rec.Files, FileLines{File: f, Lines: w.Lines(f)})
		}
		snap.Words = append(snap.Words, rec)
	}
	return snap
}

// FromSnapshot rebuilds an index. A snapshot with empty or duplicate words,
// or non-positive line numbers, is rejected with ErrCodeSnapshotInvalid.
func FromSnapshot(snap *Snapshot, hotWords int) (*Index, error) {
	idx, err := NewIndex(hotWords)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return idx, nil
	}

	for i, rec := range snap.Words {
		key := normalize(rec.Text)
		if key == "" {
			return nil, invalidSnapshot(fmt.Sprintf("word %d has no text", i))
		}

		w := NewWord(key)
		for _, fl := range rec.Files {
			if fl.File == "" {
				return nil, invalidSnapshot(fmt.Sprintf("word %q has an occurrence without a file", key))
			}
			for _, line := range fl.Lines {
				if line < 1 {
					return nil, invalidSnapshot(fmt.Sprintf("word %q has line %d in %s", key, line, fl.File))
				}
				w.AddOccurrence(fl.File, line)
			}
		}

		added, err := idx.tree.Insert(w)
		if err != nil {
			return nil, err
		}
		if !added {
			return nil, invalidSnapshot(fmt.Sprintf("word %q appears twice", key))
		}
	}
	return idx, nil
}

func invalidSnapshot(msg string) error {
	return apperrors.New(apperrors.ErrCodeSnapshotInvalid, msg, nil)
}
