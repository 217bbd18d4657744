package fakerjen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// ioLimit bounds the number of files read or written concurrently.
const ioLimit = 12

// FS holds generated files in memory until they are written to, or compared
// with, a directory on disk.
//
// Generated fakers are normally committed next to the tests that use them.
// Write puts the current output in place; Verify reports every file that is
// missing or differs, so a CI job can detect models that changed without
// their fakers being regenerated.
//
// FS does not track deletions: a faker whose model was removed is left
// behind on disk and is not reported by Verify.
//
// Files cannot be removed once added. Adding or merging a file at a path
// that is already taken is an error.
type FS struct {
	mu    sync.Mutex
	files map[string]*fsEntry
}

type fsEntry struct {
	data  []byte
	from  []NamedJenny
	owner string
}

// File represents a single file object within an FS.
type File struct {
	// The relative path to which the generated file should be written.
	RelativePath string

	// Contents of the generated file.
	Data []byte

	// From is the stack of jennies responsible for producing this File.
	From []NamedJenny
}

// Exists reports whether the File has been populated.
func (f File) Exists() bool {
	return f.RelativePath != "" || len(f.Data) > 0
}

// Files is a set of File objects.
type Files []File

// Validate checks that all paths in the set are non-empty, relative, and
// unique.
func (fl Files) Validate() error {
	var result *multierror.Error
	seen := make(map[string]bool, len(fl))
	for _, f := range fl {
		switch {
		case f.RelativePath == "":
			result = multierror.Append(result, fmt.Errorf("file from %s has an empty path", jennystack(f.From)))
		case filepath.IsAbs(f.RelativePath):
			result = multierror.Append(result, fmt.Errorf("files must have relative paths, got %s from %s", f.RelativePath, jennystack(f.From)))
		case seen[f.RelativePath]:
			result = multierror.Append(result, fmt.Errorf("multiple files at path %s", f.RelativePath))
		}
		seen[f.RelativePath] = true
	}
	return result.ErrorOrNil()
}

func jennystack(s []NamedJenny) string {
	if len(s) == 0 {
		return "<unknown>"
	}
	names := make([]string, len(s))
	for i, j := range s {
		names[i] = j.JennyName()
	}
	return strings.Join(names, ":")
}

// NewFS creates a new FS, ready for use.
func NewFS() *FS {
	return &FS{
		files: make(map[string]*fsEntry),
	}
}

// Len returns the number of files in the FS.
func (wd *FS) Len() int {
	wd.mu.Lock()
	defer wd.mu.Unlock()
	return len(wd.files)
}

// Get returns the File at the given relative path, if any.
func (wd *FS) Get(path string) (File, bool) {
	wd.mu.Lock()
	defer wd.mu.Unlock()
	e, has := wd.files[path]
	if !has {
		return File{}, false
	}
	return File{RelativePath: path, Data: e.data, From: e.from}, true
}

// AsFiles returns the contents of the FS as a path-sorted slice of File.
func (wd *FS) AsFiles() Files {
	wd.mu.Lock()
	defer wd.mu.Unlock()
	fl := make(Files, 0, len(wd.files))
	for k, v := range wd.files {
		fl = append(fl, File{RelativePath: k, Data: v.data, From: v.from})
	}
	sort.Slice(fl, func(i, j int) bool {
		return fl[i].RelativePath < fl[j].RelativePath
	})
	return fl
}

// eachFile calls fn, for every file, with its path under prefix and its
// contents. At most ioLimit calls run at once. The first error returned by fn
// is returned once all calls are done.
func (wd *FS) eachFile(ctx context.Context, prefix string, fn func(path string, data []byte) error) error {
	wd.mu.Lock()
	defer wd.mu.Unlock()

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(ioLimit)
	for path, e := range wd.files {
		path, data := filepath.Join(prefix, path), e.data
		g.Go(func() error {
			return fn(path, data)
		})
	}
	return g.Wait()
}

// Verify compares every file with its counterpart under prefix, which may be
// absolute. Missing and differing files are all reported in the returned
// error, differences as a go-cmp diff.
func (wd *FS) Verify(ctx context.Context, prefix string) error {
	var rmu sync.Mutex
	var result *multierror.Error
	report := func(err error) {
		rmu.Lock()
		result = multierror.Append(result, err)
		rmu.Unlock()
	}

	err := wd.eachFile(ctx, prefix, func(path string, data []byte) error {
		onDisk, err := os.ReadFile(path) //nolint:gosec
		switch {
		case errors.Is(err, os.ErrNotExist):
			report(fmt.Errorf("%s: generated file should exist, but does not", path))
			return nil
		case err != nil:
			return fmt.Errorf("%s: error reading file: %w", path, err)
		}
		if diff := cmp.Diff(string(onDisk), string(data)); diff != "" {
			report(fmt.Errorf("%s would have changed:\n\n%s", path, diff))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("io error while verifying generated files: %w", err)
	}

	if result != nil {
		sort.Slice(result.Errors, func(i, j int) bool {
			return result.Errors[i].Error() < result.Errors[j].Error()
		})
	}
	return result.ErrorOrNil()
}

// Write writes every file under prefix, which may be absolute, creating
// parent directories as needed.
func (wd *FS) Write(ctx context.Context, prefix string) error {
	return wd.eachFile(ctx, prefix, func(path string, data []byte) error {
		if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
			return fmt.Errorf("%s: failed to create parent directory: %w", path, err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("%s: error while writing file: %w", path, err)
		}
		return nil
	})
}

// Add adds one or more files to the FS. An error is returned if any of
// the provided files would conflict a file already added to the FS.
func (wd *FS) Add(flist ...File) error {
	wd.mu.Lock()
	err := wd.add(flist...)
	wd.mu.Unlock()
	return err
}

func (wd *FS) add(flist ...File) error {
	var result *multierror.Error
	for _, f := range flist {
		if rf, has := wd.files[f.RelativePath]; has {
			result = multierror.Append(result, fmt.Errorf("FS cannot create %s for %q, already created for %q", f.RelativePath, jennystack(f.From), rf.owner))
		}
		if filepath.IsAbs(f.RelativePath) {
			result = multierror.Append(result, fmt.Errorf("files added to FS must have relative paths, got %s from %q", f.RelativePath, jennystack(f.From)))
		}
	}
	if result.ErrorOrNil() != nil {
		return result
	}

	for _, f := range flist {
		wd.files[f.RelativePath] = &fsEntry{data: f.Data, from: f.From, owner: jennystack(f.From)}
	}
	return nil
}

// Merge combines all the entries from the provided FS into the callee
// FS. Duplicate paths result in an error.
func (wd *FS) Merge(wd2 *FS) error {
	if wd2 == nil {
		return nil
	}
	fl := wd2.AsFiles()

	wd.mu.Lock()
	defer wd.mu.Unlock()
	var result *multierror.Error
	for _, f := range fl {
		if err := wd.add(f); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}
