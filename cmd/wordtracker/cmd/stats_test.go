package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats_JSON(t *testing.T) {
	// Given: one tracked file
	p := newProject(t)
	input := p.write(t, "in.txt", "mango apple\nzebra\n")
	_, _, err := p.run(t, "track", input)
	require.NoError(t, err)

	// When: requesting JSON stats
	out, _, err := p.run(t, "stats", "--json")
	require.NoError(t, err)

	// Then: counts, bounds and the run are reported
	var s StatsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, 3, s.Words)
	assert.Equal(t, 1, s.Files)
	assert.Equal(t, "apple", s.FirstWord)
	assert.Equal(t, "zebra", s.LastWord)
	assert.GreaterOrEqual(t, s.Height, 1)
	assert.Equal(t, 1, s.TotalRuns)
	require.Len(t, s.RecentRuns, 1)
	assert.Equal(t, 2, s.RecentRuns[0].Lines)
	assert.Greater(t, s.SizeBytes, int64(0))
}

func TestStats_Formatted(t *testing.T) {
	p := newProject(t)
	input := p.write(t, "in.txt", "one two\n")
	_, _, err := p.run(t, "track", input)
	require.NoError(t, err)

	out, _, err := p.run(t, "stats")

	require.NoError(t, err)
	assert.Contains(t, out, "Repository")
	assert.Contains(t, out, "Words:")
	assert.Contains(t, out, "First word:")
	assert.Contains(t, out, "Runs (1 total)")
}

func TestStats_EmptyRepository(t *testing.T) {
	p := newProject(t)

	out, _, err := p.run(t, "stats")

	require.NoError(t, err)
	assert.Contains(t, out, "Height:")
	assert.Contains(t, out, "(none recorded yet)")
	assert.NotContains(t, out, "First word:")
}
