// Package report renders the word index as text or JSON.
//
// The text formats list words alphabetically:
//
//	pf  words with the files they appear in
//	pl  words with files and line numbers
//	po  words with files, line numbers and occurrence counts
package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	apperrors "github.com/Aman-CERP/wordtracker/internal/errors"
	"github.com/Aman-CERP/wordtracker/internal/ui"
	"github.com/Aman-CERP/wordtracker/internal/words"
)

// Format selects a report layout.
type Format string

const (
	FormatFiles       Format = "pf"
	FormatLines       Format = "pl"
	FormatOccurrences Format = "po"
	FormatJSON        Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{FormatFiles, FormatLines, FormatOccurrences, FormatJSON}

// ParseFormat accepts a format name with or without a leading dash.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimLeft(strings.TrimSpace(s), "-"))
	for _, f := range Formats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", apperrors.New(apperrors.ErrCodeInvalidReportFormat,
		fmt.Sprintf("invalid report format %q", s), nil).
		WithSuggestion("Use one of: pf, pl, po, json")
}

func (f Format) title() string {
	switch f {
	case FormatFiles:
		return "WORD REPORT: Files"
	case FormatLines:
		return "WORD REPORT: Files and Lines"
	default:
		return "WORD REPORT: Files, Lines and Occurrences"
	}
}

// Options controls rendering.
type Options struct {
	// Color styles headers and words with the lipgloss palette.
	Color bool
}

// Write renders idx to w in the given format.
func Write(w io.Writer, idx *words.Index, format Format, opts Options) error {
	list := idx.Words()

	var err error
	switch format {
	case FormatJSON:
		err = writeJSON(w, list)
	case FormatFiles, FormatLines, FormatOccurrences:
		err = writeText(w, list, format, ui.GetStyles(!opts.Color))
	default:
		_, err = ParseFormat(string(format))
		return err
	}
	if err != nil {
		return apperrors.New(apperrors.ErrCodeReportFailed, "failed to write report", err)
	}
	return nil
}

func writeText(w io.Writer, list []*words.Word, format Format, styles ui.Styles) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%s\n\n", styles.Header.Render("=== "+format.title()+" ==="))
	if len(list) == 0 {
		fmt.Fprintln(bw, styles.Dim.Render("(no words tracked)"))
	}

	for _, word := range list {
		fmt.Fprintf(bw, "%s %s\n", styles.Label.Render("Word:"), styles.Word.Render(word.Text()))
		if format == FormatOccurrences {
			fmt.Fprintf(bw, "  %s %d\n", styles.Label.Render("Total occurrences:"), word.TotalFrequency())
		}

		for _, file := range word.Files() {
			name := styles.File.Render(file)
			if format == FormatFiles {
				fmt.Fprintf(bw, "  - %s\n", name)
				continue
			}

			lines := word.Lines(file)
			if format == FormatLines {
				fmt.Fprintf(bw, "  - %s (lines: %s)\n", name, joinInts(lines))
				continue
			}
			fmt.Fprintf(bw, "  - %s (%s, lines: %s)\n", name, plural(len(lines), "occurrence"), joinInts(lines))
		}
		fmt.Fprintln(bw)
	}

	return bw.Flush()
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

type jsonWord struct {
	Word        string     `json:"word"`
	Occurrences int        `json:"occurrences"`
	Files       []jsonFile `json:"files"`
}

type jsonFile struct {
	File  string `json:"file"`
	Lines []int  `json:"lines"`
}

func writeJSON(w io.Writer, list []*words.Word) error {
	out := struct {
		Words []jsonWord `json:"words"`
	}{Words: make([]jsonWord, 0, len(list))}

	for _, word := range list {
		jw := jsonWord{Word: word.Text(), Occurrences: word.TotalFrequency(), Files: []jsonFile{}}
		for _, file := range word.Files() {
			jw.Files = append(jw.Files, jsonFile{File: file, Lines: word.Lines(file)})
		}
		out.Words = append(out.Words, jw)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
