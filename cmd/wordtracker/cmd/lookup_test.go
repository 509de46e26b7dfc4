package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_PrintsFilesAndLines(t *testing.T) {
	// Given: a word on two lines of one file and one line of another
	p := newProject(t)
	a := p.write(t, "a.txt", "elephant\nnothing\nan elephant\n")
	b := p.write(t, "b.txt", "elephant\n")
	_, _, err := p.run(t, "track", a, b)
	require.NoError(t, err)

	// When: looking it up in another case
	out, _, err := p.run(t, "lookup", "Elephant")

	// Then: every file is listed with its lines
	require.NoError(t, err)
	assert.Contains(t, out, "elephant (3 occurrence(s) in 2 file(s))")
	assert.Contains(t, out, "a.txt: 1, 3")
	assert.Contains(t, out, "b.txt: 1")
	assert.NotContains(t, out, "not in the repository")
}

func TestLookup_SuggestsCloseWords(t *testing.T) {
	p := newProject(t)
	input := p.write(t, "in.txt", "elephant element giraffe\n")
	_, _, err := p.run(t, "track", input)
	require.NoError(t, err)

	out, _, err := p.run(t, "lookup", "elephent")

	require.NoError(t, err)
	assert.Contains(t, out, `"elephent" is not in the repository`)
	assert.Contains(t, out, "did you mean: elephant, element?")
}

func TestLookup_SuggestionsDisabled(t *testing.T) {
	p := newProject(t)
	input := p.write(t, "in.txt", "elephant\n")
	_, _, err := p.run(t, "track", input)
	require.NoError(t, err)

	out, _, err := p.run(t, "lookup", "--suggest", "0", "elephent")

	require.NoError(t, err)
	assert.Contains(t, out, "not in the repository")
	assert.NotContains(t, out, "did you mean")
}

func TestLookup_EmptyRepository(t *testing.T) {
	p := newProject(t)

	out, _, err := p.run(t, "lookup", "anything")

	require.NoError(t, err)
	assert.Contains(t, out, `"anything" is not in the repository`)
	assert.NotContains(t, out, "did you mean")
}
