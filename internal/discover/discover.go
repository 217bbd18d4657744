// Package discover finds the model files a fakergen run processes.
package discover

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/cockroachdb/errors"
)

// ErrNotDir is returned when the input path is missing or is not a directory.
var ErrNotDir = errors.New("input path is not a directory")

// ModelFiles returns the files under dir whose base name matches pattern,
// sorted by path. Only dir itself is scanned unless recursive is set.
func ModelFiles(dir, pattern string, recursive bool) ([]string, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, errors.Wrapf(err, "invalid pattern %q", pattern)
	}

	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Mark(errors.Newf("%s does not exist", dir), ErrNotDir)
		}
		return nil, errors.Wrapf(err, "failed to stat %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.Mark(errors.Newf("%s is a file", dir), ErrNotDir)
	}

	var paths []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if ok, _ := filepath.Match(pattern, d.Name()); ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to scan %s", dir)
	}

	sort.Strings(paths)
	return paths, nil
}
