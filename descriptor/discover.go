package descriptor

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Discover walks a source tree and returns the dotted names of every
// package directory beneath root, sorted. A directory is a package when it
// contains an __init__.py file; subtrees without one are not descended
// into, matching find_packages semantics.
func Discover(root string) ([]string, error) {
	var packages []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path == root {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}

		if _, err := os.Stat(filepath.Join(path, "__init__.py")); err != nil {
			return filepath.SkipDir
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		packages = append(packages, strings.ReplaceAll(rel, string(filepath.Separator), "."))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(packages)
	return packages, nil
}
