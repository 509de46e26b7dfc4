package repository

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	apperrors "github.com/Aman-CERP/wordtracker/internal/errors"
	"github.com/Aman-CERP/wordtracker/internal/words"
)

// exportVersion is the current JSON export format.
const exportVersion = 1

type exportFile struct {
	Version    int                `json:"version"`
	ExportedAt time.Time          `json:"exported_at"`
	Words      []words.WordRecord `json:"words"`
}

// ExportJSON writes snap as an indented JSON document.
func ExportJSON(w io.Writer, snap *words.Snapshot) error {
	doc := exportFile{
		Version:    exportVersion,
		ExportedAt: time.Now().UTC(),
		Words:      []words.WordRecord{},
	}
	if snap != nil && snap.Words != nil {
		doc.Words = snap.Words
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return apperrors.IOError("failed to write export", err)
	}
	return nil
}

// ImportJSON reads a document written by ExportJSON.
func ImportJSON(r io.Reader) (*words.Snapshot, error) {
	var doc exportFile
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, apperrors.New(apperrors.ErrCodeSnapshotInvalid, "export file is not valid JSON", err)
	}
	if doc.Version != exportVersion {
		return nil, apperrors.New(apperrors.ErrCodeSnapshotInvalid,
			fmt.Sprintf("unsupported export version %d", doc.Version), nil)
	}
	return &words.Snapshot{Words: doc.Words}, nil
}
