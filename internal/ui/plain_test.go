package ui

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainRenderer_UpdateProgress_OutputFormat(t *testing.T) {
	// Given: a plain renderer
	buf := &bytes.Buffer{}
	r := NewPlainRenderer(NewConfig(buf))

	// When: updating progress
	r.UpdateProgress(ProgressEvent{
		Stage:       StageTokenizing,
		Current:     3,
		Total:       10,
		CurrentFile: "notes/a.txt",
	})

	// Then: output is correctly formatted
	assert.Equal(t, "[TOKEN] 3/10 - notes/a.txt\n", buf.String())
}

func TestPlainRenderer_UpdateProgress_MessageWins(t *testing.T) {
	buf := &bytes.Buffer{}
	r := NewPlainRenderer(NewConfig(buf))

	r.UpdateProgress(ProgressEvent{Stage: StageLoading, CurrentFile: "x", Message: "Loading repository"})

	assert.Equal(t, "[LOAD] Loading repository\n", buf.String())
}

func TestPlainRenderer_UpdateProgress_EmptyEventPrintsNothing(t *testing.T) {
	buf := &bytes.Buffer{}
	r := NewPlainRenderer(NewConfig(buf))

	r.UpdateProgress(ProgressEvent{Stage: StageSaving})

	assert.Empty(t, buf.String())
}

func TestPlainRenderer_UpdateProgress_NoANSICodes(t *testing.T) {
	buf := &bytes.Buffer{}
	r := NewPlainRenderer(NewConfig(buf))

	for _, stage := range []Stage{StageLoading, StageScanning, StageTokenizing, StageMerging, StageSaving} {
		r.UpdateProgress(ProgressEvent{Stage: stage, Current: 1, Total: 2, Message: "Processing..."})
	}
	r.Complete(CompletionStats{Files: 1})

	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestPlainRenderer_AddError(t *testing.T) {
	tests := []struct {
		name  string
		event ErrorEvent
		want  string
	}{
		{"warning with file", ErrorEvent{File: "a.txt", Err: errors.New("not found"), IsWarn: true}, "WARN: a.txt: not found\n"},
		{"error without file", ErrorEvent{Err: errors.New("boom")}, "ERROR: boom\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			r := NewPlainRenderer(NewConfig(buf))

			r.AddError(tt.event)

			assert.Equal(t, tt.want, buf.String())
			require.Len(t, r.Errors(), 1)
		})
	}
}

func TestPlainRenderer_Complete(t *testing.T) {
	buf := &bytes.Buffer{}
	r := NewPlainRenderer(NewConfig(buf))

	r.Complete(CompletionStats{
		Files:      2,
		Lines:      40,
		TotalWords: 30,
		NewWords:   12,
		Duration:   1234 * time.Millisecond,
		Warnings:   1,
	})

	assert.Equal(t, "Complete: 2 files, 40 lines, 30 words (12 new) in 1.2s (0 errors, 1 warnings)\n", buf.String())
}

func TestPlainRenderer_Quiet_KeepsWarnings(t *testing.T) {
	buf := &bytes.Buffer{}
	r := NewPlainRenderer(NewConfig(buf, WithQuiet(true)))

	r.UpdateProgress(ProgressEvent{Stage: StageScanning, Message: "hidden"})
	r.AddError(ErrorEvent{File: "b.txt", Err: errors.New("binary"), IsWarn: true})
	r.Complete(CompletionStats{})

	assert.Equal(t, "WARN: b.txt: binary\n", buf.String())
}

func TestStyledRenderer_ContainsText(t *testing.T) {
	buf := &bytes.Buffer{}
	r := NewStyledRenderer(NewConfig(buf))

	r.UpdateProgress(ProgressEvent{Stage: StageTokenizing, Current: 1, Total: 4, CurrentFile: "a.txt"})
	r.AddError(ErrorEvent{File: "b.txt", Err: errors.New("binary"), IsWarn: true})
	r.Complete(CompletionStats{Files: 4})

	out := buf.String()
	assert.Contains(t, out, "TOKEN")
	assert.Contains(t, out, "1/4")
	assert.Contains(t, out, "a.txt")
	assert.Contains(t, out, "WARN: b.txt: binary")
	assert.Contains(t, out, "Complete: 4 files")
}
