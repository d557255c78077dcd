// Package fs provides file system adapters for resolving, fingerprinting and writing assets.
package fs

import (
	"errors"
	iofs "io/fs"
	"iter"
	"os"
	"path"
)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields the slash-separated path, relative to root, of every regular
// file below the directory root. See WalkFS.
func (w *Walker) WalkFiles(root string, ignores []string) iter.Seq2[string, error] {
	return w.WalkFS(os.DirFS(root), ignores, nil)
}

// WalkFS yields every regular file of fsys in lexical order. Directories whose
// name matches one of ignores are not descended into; matching files are
// skipped. When descend is non-nil, directories for which it returns false are
// skipped too. A missing root yields nothing; any other read error is yielded
// once and ends the walk.
func (w *Walker) WalkFS(fsys iofs.FS, ignores []string, descend func(dir string) bool) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		err := iofs.WalkDir(fsys, ".", func(p string, d iofs.DirEntry, err error) error {
			if err != nil {
				if p == "." && errors.Is(err, iofs.ErrNotExist) {
					return iofs.SkipAll
				}
				return err
			}
			if p == "." {
				return nil
			}

			if w.ignored(d.Name(), ignores) {
				if d.IsDir() {
					return iofs.SkipDir
				}
				return nil
			}

			if d.IsDir() {
				if descend != nil && !descend(p) {
					return iofs.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}

			if !yield(p, nil) {
				return iofs.SkipAll
			}
			return nil
		})
		if err != nil {
			yield("", err)
		}
	}
}

func (w *Walker) ignored(name string, ignores []string) bool {
	for _, pattern := range ignores {
		if matched, _ := path.Match(pattern, name); matched {
			return true
		}
	}
	return false
}
