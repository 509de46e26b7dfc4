package suggest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/wordtracker/internal/words"
)

func newSuggester(t *testing.T, vocabulary ...string) *Suggester {
	t.Helper()
	idx, err := words.NewIndex(0)
	require.NoError(t, err)
	for i, w := range vocabulary {
		_, err := idx.Record(w, "a.txt", i+1)
		require.NoError(t, err)
	}

	s, err := New(context.Background(), idx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSimilar_FindsTypos(t *testing.T) {
	// Given: a small vocabulary
	s := newSuggester(t, "elephant", "element", "elegant", "giraffe", "cat")
	require.Equal(t, 5, s.Len())

	// When: looking up a misspelling
	got, err := s.Similar(context.Background(), "elephent", 3)

	// Then: words within two edits come back, nearest first
	require.NoError(t, err)
	assert.Equal(t, []string{"elephant", "element"}, Words(got))
	assert.Equal(t, 1, got[0].Distance)
	assert.Equal(t, 2, got[1].Distance)
}

func TestSimilar_FindsPrefixes(t *testing.T) {
	s := newSuggester(t, "tracker", "tracking", "tree")

	got, err := s.Similar(context.Background(), "Track", 5)

	require.NoError(t, err)
	assert.Equal(t, []string{"tracker", "tracking"}, Words(got))
}

func TestSimilar_ExcludesTermAndHonorsLimit(t *testing.T) {
	s := newSuggester(t, "cat", "cot", "cut", "cap", "car", "can")

	got, err := s.Similar(context.Background(), "cat", 2)

	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.NotContains(t, Words(got), "cat")
}

func TestSimilar_EmptyTermAndVocabulary(t *testing.T) {
	s := newSuggester(t)

	got, err := s.Similar(context.Background(), "  ", 5)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = s.Similar(context.Background(), "word", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNew_Cancelled(t *testing.T) {
	idx, err := words.NewIndex(0)
	require.NoError(t, err)
	_, err = idx.Record("word", "a.txt", 1)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = New(ctx, idx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"cat", "", 3},
		{"cat", "cat", 0},
		{"cat", "cut", 1},
		{"kitten", "sitting", 3},
		{"elephent", "element", 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, distance(tt.a, tt.b), "%s/%s", tt.a, tt.b)
		assert.Equal(t, tt.want, distance(tt.b, tt.a), "%s/%s", tt.b, tt.a)
	}
}

func TestFuzziness(t *testing.T) {
	assert.Equal(t, 1, fuzziness("cat"))
	assert.Equal(t, 2, fuzziness("elephant"))
}
