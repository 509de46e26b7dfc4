package scanner

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/Aman-CERP/wordtracker/internal/errors"
)

// Directories never descended into.
var defaultExcludeDirs = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/vendor/**",
	"**/__pycache__/**",
}

// Scan expands paths into the files to index. Files are taken as given;
// directories are walked recursively and filtered by opts. The result is
// sorted by path with duplicates removed. Inputs that cannot be used are
// listed in Result.Skipped rather than failing the scan.
func Scan(ctx context.Context, paths []string, opts Options) (*Result, error) {
	maxFileSize := opts.MaxFileSize
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}

	res := &Result{}
	seen := make(map[string]bool)
	add := func(fi FileInfo) {
		if seen[fi.AbsPath] {
			return
		}
		seen[fi.AbsPath] = true
		res.Files = append(res.Files, fi)
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		clean := filepath.Clean(p)
		info, err := os.Stat(clean)
		if err != nil {
			reason := SkipUnreadable
			if errors.Is(err, fs.ErrNotExist) {
				reason = SkipNotFound
			}
			res.Skipped = append(res.Skipped, Skipped{Path: clean, Reason: reason})
			continue
		}

		if !info.IsDir() {
			fi, reason := inspect(clean, info, maxFileSize)
			if reason != "" {
				res.Skipped = append(res.Skipped, Skipped{Path: clean, Reason: reason})
				continue
			}
			add(fi)
			continue
		}

		if err := walk(ctx, clean, opts, maxFileSize, res, add); err != nil {
			return nil, err
		}
	}

	sort.Slice(res.Files, func(i, j int) bool { return res.Files[i].Path < res.Files[j].Path })
	return res, nil
}

// Accepts reports whether a path relative to a walked root passes the same
// filters Scan applies during a directory walk: hidden entries, default and
// configured excludes and, for files, the include patterns.
func (o Options) Accepts(relPath string, isDir bool) bool {
	relPath = filepath.ToSlash(filepath.Clean(relPath))
	if relPath == "." {
		return true
	}
	if !o.IncludeHidden {
		for _, part := range strings.Split(relPath, "/") {
			if strings.HasPrefix(part, ".") && part != ".." {
				return false
			}
		}
	}
	if excludedDir(relPath, o.ExcludePatterns) {
		return false
	}
	if isDir {
		return true
	}
	return len(o.IncludePatterns) == 0 || matchesAny(relPath, o.IncludePatterns)
}

func walk(ctx context.Context, root string, opts Options, maxFileSize int64, res *Result, add func(FileInfo)) error {
	var ignore *Ignore
	if opts.RespectGitignore {
		ignore = NewIgnore(root)
	}

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			slog.Debug("scan_walk_error", slog.String("path", p), slog.String("error", err.Error()))
			return nil // Skip entries we can't access
		}

		relPath, err := filepath.Rel(root, p)
		if err != nil || relPath == "." {
			return nil
		}

		hidden := strings.HasPrefix(d.Name(), ".") && !opts.IncludeHidden
		ignored := ignore != nil && ignore.Match(relPath, d.IsDir())
		if d.IsDir() {
			if hidden || ignored || excludedDir(relPath, opts.ExcludePatterns) {
				return filepath.SkipDir
			}
			return nil
		}

		if hidden || ignored || d.Type()&fs.ModeSymlink != 0 || !d.Type().IsRegular() {
			return nil
		}
		if matchesAny(relPath, opts.ExcludePatterns) {
			return nil
		}
		if len(opts.IncludePatterns) > 0 && !matchesAny(relPath, opts.IncludePatterns) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		fi, reason := inspect(p, info, maxFileSize)
		if reason != "" {
			res.Skipped = append(res.Skipped, Skipped{Path: p, Reason: reason})
			return nil
		}
		add(fi)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return apperrors.IOError("failed to scan directory", err).WithDetail("path", root)
	}
	return err
}

func inspect(p string, info fs.FileInfo, maxFileSize int64) (FileInfo, SkipReason) {
	if info.Size() > maxFileSize {
		return FileInfo{}, SkipTooLarge
	}
	if isBinaryFile(p) {
		return FileInfo{}, SkipBinary
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return FileInfo{}, SkipUnreadable
	}
	return FileInfo{
		Path:    p,
		AbsPath: abs,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, ""
}

func excludedDir(relPath string, patterns []string) bool {
	for _, pattern := range defaultExcludeDirs {
		if matchPattern(relPath, pattern) {
			return true
		}
	}
	return matchesAny(relPath, patterns)
}

func matchesAny(relPath string, patterns []string) bool {
	for _, pattern := range patterns {
		if matchPattern(relPath, pattern) {
			return true
		}
	}
	return false
}

// matchPattern reports whether relPath matches a glob pattern.
//
//   - "dir/**" matches dir and anything below it
//   - "**/x" matches x at any depth
//   - a pattern without a slash matches the base name at any depth
//   - anything else matches the whole relative path
func matchPattern(relPath, pattern string) bool {
	relPath = filepath.ToSlash(relPath)
	pattern = filepath.ToSlash(pattern)

	if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
		for p := relPath; p != "." && p != "/" && p != ""; p = path.Dir(p) {
			if matchPattern(p, prefix) {
				return true
			}
		}
		return false
	}

	if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
		parts := strings.Split(relPath, "/")
		for i := range parts {
			if matched, _ := path.Match(rest, strings.Join(parts[i:], "/")); matched {
				return true
			}
		}
		return false
	}

	if !strings.Contains(pattern, "/") {
		matched, _ := path.Match(pattern, path.Base(relPath))
		return matched
	}

	matched, _ := path.Match(pattern, relPath)
	return matched
}

// isBinaryFile checks if a file is binary by looking for null bytes.
func isBinaryFile(p string) bool {
	f, err := os.Open(p)
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil {
		return false
	}
	return bytes.Contains(buf[:n], []byte{0})
}

// ReadLines calls fn for every line of the file with its 1-based number.
// Line terminators are stripped. Reading stops at the first error from fn.
func ReadLines(ctx context.Context, p string, fn func(lineNo int, line string) error) error {
	f, err := os.Open(p)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return apperrors.New(apperrors.ErrCodeFileNotFound, "file not found", err).WithDetail("path", p)
		case errors.Is(err, fs.ErrPermission):
			return apperrors.New(apperrors.ErrCodeFilePermission, "permission denied", err).WithDetail("path", p)
		default:
			return apperrors.IOError("cannot open file", err).WithDetail("path", p)
		}
	}
	defer func() { _ = f.Close() }()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineLength)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		if lineNo%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := fn(lineNo, sc.Text()); err != nil {
			return err
		}
	}

	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return apperrors.New(apperrors.ErrCodeFileTooLarge, "line too long", err).
				WithDetail("path", p).
				WithDetail("after_line", strconv.Itoa(lineNo))
		}
		return apperrors.IOError("failed to read file", err).WithDetail("path", p)
	}
	return nil
}
