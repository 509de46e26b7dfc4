package words

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizer_Tokenize(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect []string
	}{
		{
			name:   "whitespace",
			input:  "The quick  brown\tfox",
			expect: []string{"the", "quick", "brown", "fox"},
		},
		{
			name:   "punctuation splits",
			input:  "Hello, world! It's done.",
			expect: []string{"hello", "world", "it", "s", "done"},
		},
		{
			name:   "digits are separators",
			input:  "abc123def 42",
			expect: []string{"abc", "def"},
		},
		{
			name:   "non ascii letters are separators",
			input:  "café naïve",
			expect: []string{"caf", "na", "ve"},
		},
		{
			name:   "repeats kept",
			input:  "cat cat Cat",
			expect: []string{"cat", "cat", "cat"},
		},
		{
			name:   "empty line",
			input:  "",
			expect: []string{},
		},
		{
			name:   "only separators",
			input:  "--- 123 ...",
			expect: []string{},
		},
	}

	tok := NewTokenizer(0, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, tok.Tokenize(tt.input))
		})
	}
}

func TestTokenizer_MinLength(t *testing.T) {
	tok := NewTokenizer(3, nil)

	assert.Equal(t, []string{"the", "cat"}, tok.Tokenize("a the is cat"))
}

func TestTokenizer_StopWords(t *testing.T) {
	// Given: stop words with mixed case and padding
	tok := NewTokenizer(1, []string{"The", " and ", ""})

	// When: tokenizing
	tokens := tok.Tokenize("The cat and THE dog")

	// Then: stop words are removed case-insensitively
	assert.Equal(t, []string{"cat", "dog"}, tokens)
}

func TestBuildStopWordMap(t *testing.T) {
	m := BuildStopWordMap([]string{"A", "b", "  "})

	assert.Len(t, m, 2)
	assert.Contains(t, m, "a")
	assert.Contains(t, m, "b")
}
