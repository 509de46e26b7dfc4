package repository

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Aman-CERP/wordtracker/internal/errors"
	"github.com/Aman-CERP/wordtracker/internal/words"
)

func TestExportImportJSON(t *testing.T) {
	// Given: an exported index
	idx := buildIndex(t)
	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, idx.Snapshot()))
	assert.Contains(t, buf.String(), `"version": 1`)

	// When: importing it
	snap, err := ImportJSON(&buf)

	// Then: the snapshot is unchanged
	require.NoError(t, err)
	assert.Equal(t, idx.Snapshot().Words, snap.Words)
}

func TestExportJSON_EmptyWritesEmptyList(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, ExportJSON(&buf, nil))

	assert.Contains(t, buf.String(), `"words": []`)
}

func TestImportJSON_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", "{{{"},
		{"wrong version", `{"version": 9, "words": []}`},
		{"missing version", `{"words": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImportJSON(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodeSnapshotInvalid, apperrors.GetCode(err))
		})
	}
}

func TestImportJSON_FeedsFromSnapshot(t *testing.T) {
	doc := `{"version": 1, "words": [
		{"text": "m", "files": [{"file": "a.txt", "lines": [1]}]},
		{"text": "c", "files": [{"file": "a.txt", "lines": [2, 3]}]}
	]}`

	snap, err := ImportJSON(strings.NewReader(doc))
	require.NoError(t, err)
	idx, err := words.FromSnapshot(snap, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, []int{2, 3}, idx.Lookup("c").Lines("a.txt"))
}
