// Package dockerignore answers whether a path inside the build context is excluded
// by the context's .dockerignore file.
package dockerignore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

const Filename = ".dockerignore"

type Matcher struct {
	rules *ignore.GitIgnore
}

// Load reads dir/.dockerignore. A missing file excludes nothing.
func Load(dir string) (*Matcher, error) {
	contents, err := os.ReadFile(filepath.Join(dir, Filename))
	if err != nil {
		if os.IsNotExist(err) {
			return &Matcher{}, nil
		}
		return nil, fmt.Errorf("Failed to read %s: %w", Filename, err)
	}
	return Parse(string(contents)), nil
}

// Parse compiles .dockerignore contents. Comment lines and blank lines are ignored.
func Parse(contents string) *Matcher {
	lines := []string{}
	for _, line := range strings.Split(contents, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// patterns are always relative to the context root
		line = strings.TrimPrefix(line, "/")
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return &Matcher{}
	}
	return &Matcher{rules: ignore.CompileIgnoreLines(lines...)}
}

// Excludes reports whether the slash separated path, relative to the context root,
// would be left out of the build context.
func (m *Matcher) Excludes(relPath string) bool {
	if m.rules == nil {
		return false
	}
	relPath = strings.TrimPrefix(filepath.ToSlash(relPath), "./")
	return m.rules.MatchesPath(relPath)
}
