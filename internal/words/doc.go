// Package words holds the word index: every distinct word seen in the
// tracked files together with the files and line numbers it appears on.
//
// The index is an ordered tree of *Word keyed by the lowercased text, so
// report generation is a plain inorder walk. Index adds the locking that the
// underlying tree leaves to its callers.
package words
