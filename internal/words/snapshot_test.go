package words

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Aman-CERP/wordtracker/internal/errors"
)

func TestSnapshot_ReloadPreservesShapeAndOccurrences(t *testing.T) {
	// Given: an index built in a non-sorted order
	idx := newTestIndex(t, 0)
	for i, w := range []string{"m", "c", "x", "a", "e", "z", "c"} {
		_, err := idx.Record(w, "f.txt", i+1)
		require.NoError(t, err)
	}
	_, err := idx.Record("a", "g.txt", 4)
	require.NoError(t, err)

	// When: snapshotting and reloading
	snap := idx.Snapshot()
	reloaded, err := FromSnapshot(snap, 8)
	require.NoError(t, err)

	// Then: same words, same tree shape, same occurrences
	assert.Equal(t, texts(idx.Preorder()), texts(reloaded.Preorder()))
	assert.Equal(t, idx.Height(), reloaded.Height())
	assert.Equal(t, []int{2, 7}, reloaded.Lookup("c").Lines("f.txt"))
	assert.Equal(t, []string{"f.txt", "g.txt"}, reloaded.Lookup("a").Files())
}

func TestSnapshot_EmptyIndex(t *testing.T) {
	idx := newTestIndex(t, 0)

	snap := idx.Snapshot()

	assert.Empty(t, snap.Words)
	reloaded, err := FromSnapshot(snap, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.Len())
}

func TestFromSnapshot_Nil(t *testing.T) {
	idx, err := FromSnapshot(nil, 0)

	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())
}

func TestFromSnapshot_Invalid(t *testing.T) {
	tests := []struct {
		name string
		snap *Snapshot
	}{
		{
			name: "empty text",
			snap: &Snapshot{Words: []WordRecord{{Text: " "}}},
		},
		{
			name: "duplicate word",
			snap: &Snapshot{Words: []WordRecord{{Text: "dog"}, {Text: "DOG"}}},
		},
		{
			name: "bad line",
			snap: &Snapshot{Words: []WordRecord{{Text: "dog", Files: []FileLines{{File: "a", Lines: []int{0}}}}}},
		},
		{
			name: "missing file",
			snap: &Snapshot{Words: []WordRecord{{Text: "dog", Files: []FileLines{{Lines: []int{1}}}}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromSnapshot(tt.snap, 0)
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodeSnapshotInvalid, apperrors.GetCode(err))
		})
	}
}
