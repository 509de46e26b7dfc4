package scanner

import (
	"bufio"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// Ignore applies the .gitignore files found below one directory root.
// Each directory's .gitignore is read the first time a path under it is
// matched, so a walk only pays for the directories it visits.
type Ignore struct {
	root string

	mu     sync.Mutex
	rules  []ignoreRule
	loaded map[string]bool
}

type ignoreRule struct {
	re       *regexp.Regexp
	negate   bool
	dirOnly  bool
	anchored bool
	base     string // directory of the .gitignore, relative to root; "" for root
}

// NewIgnore creates a matcher for .gitignore files under root.
func NewIgnore(root string) *Ignore {
	return &Ignore{root: root, loaded: make(map[string]bool)}
}

// Match reports whether relPath, relative to the root, is ignored. Later
// rules win, so a "!pattern" re-includes what an earlier rule excluded.
func (ig *Ignore) Match(relPath string, isDir bool) bool {
	relPath = filepath.ToSlash(filepath.Clean(relPath))
	if relPath == "." || relPath == "" {
		return false
	}

	ig.mu.Lock()
	defer ig.mu.Unlock()

	ig.loadLocked("")
	for dir := path.Dir(relPath); dir != "."; dir = path.Dir(dir) {
		ig.loadLocked(dir)
	}

	ignored := false
	for _, r := range ig.rules {
		if r.matches(relPath, isDir) {
			ignored = !r.negate
		}
	}
	return ignored
}

// loadLocked reads dir/.gitignore once. Rules are kept in directory order so
// deeper files override shallower ones. Caller holds mu.
func (ig *Ignore) loadLocked(dir string) {
	if ig.loaded[dir] {
		return
	}
	ig.loaded[dir] = true

	file := filepath.Join(ig.root, filepath.FromSlash(dir), ".gitignore")
	f, err := os.Open(file)
	if err != nil {
		return
	}
	defer func() { _ = f.Close() }()

	s := bufio.NewScanner(f)
	for s.Scan() {
		if r, ok := parseIgnoreLine(s.Text(), dir); ok {
			ig.rules = append(ig.rules, r)
		}
	}
	if err := s.Err(); err != nil {
		slog.Debug("gitignore_read_error", slog.String("path", file), slog.String("error", err.Error()))
	}
}

// parseIgnoreLine compiles one .gitignore line. Blank lines and comments
// yield ok=false.
func parseIgnoreLine(line, base string) (ignoreRule, bool) {
	escapedSpace := strings.HasSuffix(line, `\ `)
	p := strings.TrimSpace(line)
	if p == "" || strings.HasPrefix(p, "#") {
		return ignoreRule{}, false
	}

	r := ignoreRule{base: base}
	switch {
	case strings.HasPrefix(p, `\#`), strings.HasPrefix(p, `\!`):
		p = p[1:]
	case strings.HasPrefix(p, "!"):
		r.negate = true
		p = p[1:]
	}
	if escapedSpace && strings.HasSuffix(p, `\`) {
		p = strings.TrimSuffix(p, `\`) + " "
	}
	if strings.HasSuffix(p, "/") {
		r.dirOnly = true
		p = strings.TrimSuffix(p, "/")
	}
	if strings.HasPrefix(p, "/") {
		r.anchored = true
		p = p[1:]
	}
	// "doc/frotz" is relative to the .gitignore, like "/doc/frotz".
	if strings.Contains(p, "/") && !strings.HasPrefix(p, "**/") {
		r.anchored = true
	}
	if p == "" {
		return ignoreRule{}, false
	}

	re, err := regexp.Compile("^" + ignoreGlobToRegex(p) + "$")
	if err != nil {
		return ignoreRule{}, false
	}
	r.re = re
	return r, true
}

func (r ignoreRule) matches(relPath string, isDir bool) bool {
	if r.base != "" {
		if !strings.HasPrefix(relPath, r.base+"/") {
			return false
		}
		relPath = strings.TrimPrefix(relPath, r.base+"/")
	}
	parts := strings.Split(relPath, "/")

	if r.anchored {
		if r.re.MatchString(relPath) {
			return !r.dirOnly || isDir
		}
		// Anything below a matched directory is ignored with it.
		for i := 1; i < len(parts); i++ {
			if r.re.MatchString(strings.Join(parts[:i], "/")) {
				return true
			}
		}
		return false
	}

	for i, part := range parts {
		if !r.re.MatchString(part) {
			continue
		}
		last := i == len(parts)-1
		if last && r.dirOnly {
			return isDir
		}
		return true
	}
	return r.re.MatchString(relPath)
}

// ignoreGlobToRegex translates gitignore glob syntax. "*" and "?" stop at
// "/", "**/" spans directories and "[...]" classes pass through.
func ignoreGlobToRegex(p string) string {
	var b strings.Builder
	for i := 0; i < len(p); i++ {
		c := p[i]
		switch c {
		case '*':
			if i+1 < len(p) && p[i+1] == '*' {
				if i+2 < len(p) && p[i+2] == '/' {
					b.WriteString("(?:.*/)?")
					i += 2
					continue
				}
				if i == 0 || p[i-1] == '/' {
					b.WriteString(".*")
					i++
					continue
				}
			}
			b.WriteString("[^/]*")
		case '?':
			b.WriteString("[^/]")
		case '[':
			end := strings.IndexByte(p[i+1:], ']')
			if end < 0 {
				b.WriteString(`\[`)
				continue
			}
			b.WriteString(p[i : i+end+2])
			i += end + 1
		case '\\':
			if i+1 < len(p) {
				i++
				b.WriteString(regexp.QuoteMeta(string(p[i])))
			} else {
				b.WriteString(`\\`)
			}
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	return b.String()
}
