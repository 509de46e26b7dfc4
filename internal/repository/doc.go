// Package repository persists the word index between runs.
//
// The repository is a SQLite database (modernc.org/sqlite, WAL mode) holding
// the words in tree preorder and their occurrences. A sibling lock file
// serializes read-modify-write runs across processes.
package repository
