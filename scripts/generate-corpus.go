//go:build ignore

// Package main generates a synthetic text corpus for benchmarking the tracker.
// Usage: go run scripts/generate-corpus.go -files 200 -lines 500 -output testdata/bench
//
// Word frequencies follow a Zipf distribution so common words repeat the way
// they do in prose, and the result is reproducible for a given seed.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

var (
	numFiles  = flag.Int("files", 200, "Number of files to generate")
	numLines  = flag.Int("lines", 500, "Lines per file")
	vocabSize = flag.Int("vocab", 20000, "Distinct words in the vocabulary")
	outputDir = flag.String("output", "testdata/bench", "Output directory")
	seed      = flag.Int64("seed", 42, "Random seed for reproducibility")
)

// Common words lead the vocabulary so they get the highest Zipf weight.
var common = []string{
	"the", "of", "and", "to", "in", "is", "was", "that", "for", "it",
	"with", "as", "on", "be", "at", "by", "this", "had", "not", "are",
	"but", "from", "or", "have", "an", "they", "which", "one", "you", "were",
}

var punctuation = []string{",", ".", ";", ":", "!", "?", ""}

func main() {
	flag.Parse()
	rng := rand.New(rand.NewSource(*seed))

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	vocab := buildVocabulary(rng, *vocabSize)
	zipf := rand.NewZipf(rng, 1.1, 2, uint64(len(vocab)-1))

	fmt.Printf("Generating %d files of %d lines in %s...\n", *numFiles, *numLines, *outputDir)

	generated := 0
	for i := 0; i < *numFiles; i++ {
		// Spread files over a few subdirectories to exercise the scanner.
		dir := filepath.Join(*outputDir, fmt.Sprintf("part%02d", i%8))
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating subdirectory %s: %v\n", dir, err)
			os.Exit(1)
		}
		path := filepath.Join(dir, fmt.Sprintf("doc_%04d.txt", i))
		if err := writeFile(path, rng, zipf, vocab); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating %s: %v\n", path, err)
			continue
		}
		generated++
	}

	fmt.Printf("Generated %d files successfully.\n", generated)
}

func buildVocabulary(rng *rand.Rand, size int) []string {
	if size < len(common) {
		size = len(common)
	}
	seen := make(map[string]struct{}, size)
	vocab := make([]string, 0, size)
	for _, w := range common {
		seen[w] = struct{}{}
		vocab = append(vocab, w)
	}
	const letters = "abcdefghijklmnopqrstuvwxyz"
	for len(vocab) < size {
		b := make([]byte, 3+rng.Intn(9))
		for i := range b {
			b[i] = letters[rng.Intn(len(letters))]
		}
		w := string(b)
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		vocab = append(vocab, w)
	}
	return vocab
}

func writeFile(path string, rng *rand.Rand, zipf *rand.Zipf, vocab []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)

	var line strings.Builder
	for l := 0; l < *numLines; l++ {
		line.Reset()
		n := 4 + rng.Intn(12)
		for i := 0; i < n; i++ {
			word := vocab[zipf.Uint64()]
			if i == 0 || rng.Intn(20) == 0 {
				word = strings.ToUpper(word[:1]) + word[1:]
			}
			if i > 0 {
				line.WriteByte(' ')
			}
			line.WriteString(word)
			if rng.Intn(6) == 0 {
				line.WriteString(punctuation[rng.Intn(len(punctuation))])
			}
		}
		line.WriteByte('\n')
		if _, err := w.WriteString(line.String()); err != nil {
			_ = f.Close()
			return err
		}
	}

	if err := w.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
