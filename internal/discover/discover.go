// Package discover finds JavaScript source files under a directory,
// honoring .gitignore.
package discover

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

var skipDirs = map[string]struct{}{
	"node_modules": {},
	"vendor":       {},
	"dist":         {},
	"build":        {},
	".git":         {},
}

var extensions = map[string]struct{}{
	".js":  {},
	".mjs": {},
	".cjs": {},
}

// Supported reports whether path has a JavaScript extension the analyzer
// handles.
func Supported(path string) bool {
	_, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Files walks root and returns the JavaScript files to index, sorted by
// the walk order (lexical). A .gitignore at root is respected when
// present; hidden directories and the usual build/output directories are
// always skipped.
func Files(root string) ([]string, error) {
	gi := loadGitignore(root)

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		name := d.Name()
		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if gi != nil {
				if rel, relErr := filepath.Rel(root, path); relErr == nil && gi.MatchesPath(rel) {
					return filepath.SkipDir
				}
			}
			return nil
		}
		if !Supported(path) {
			return nil
		}
		if gi != nil {
			if rel, relErr := filepath.Rel(root, path); relErr == nil && gi.MatchesPath(rel) {
				return nil
			}
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}
