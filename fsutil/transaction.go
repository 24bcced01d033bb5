package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// Transaction groups a sequence of filesystem operations rooted at a
// directory. The first operation that fails sets Err; every call after
// that is a no-op, so a whole sequence can be written without checking
// errors at each step.
type Transaction struct {
	Root Path
	Err  error
}

// Exists reports whether file exists under the transaction root.
// Symbolic links are not followed, so a dangling link still counts
// as existing.
func (tr *Transaction) Exists(file Path) bool {
	if tr.Err != nil {
		return false
	}
	_, err := os.Lstat(tr.Root.JoinP(file).String())
	if err != nil && !os.IsNotExist(err) {
		tr.Err = fmt.Errorf("Exists `%s`: Lstat error: %w", file, err)
	}
	return err == nil
}

// MkDir creates dir and any missing parents.
func (tr *Transaction) MkDir(dir Path) {
	if tr.Err != nil {
		return
	}
	if err := os.MkdirAll(tr.Root.JoinP(dir).String(), os.FileMode(0755)); err != nil {
		tr.Err = fmt.Errorf("MkDir `%s`: MkdirAll error: %w", dir, err)
	}
}

// Link creates a symbolic link at `link` (relative to the root)
// pointing to the absolute path `target`.
func (tr *Transaction) Link(target, link Path) {
	if tr.Err != nil {
		return
	}
	if err := os.Symlink(target.String(), tr.Root.JoinP(link).String()); err != nil {
		tr.Err = fmt.Errorf("Link `%s` -> `%s`: Symlink error: %w", link, target, err)
	}
}

// RemoveGlob removes every file under the root matching pattern.
// Files that disappear before removal are not an error.
func (tr *Transaction) RemoveGlob(pattern string) {
	if tr.Err != nil {
		return
	}
	matches, err := filepath.Glob(tr.Root.Join(pattern).String())
	if err != nil {
		tr.Err = fmt.Errorf("RemoveGlob `%s`: bad pattern: %w", pattern, err)
		return
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			tr.Err = fmt.Errorf("RemoveGlob `%s`: Remove error: %w", pattern, err)
			return
		}
	}
}

// Save writes content to file, replacing it if present.
func (tr *Transaction) Save(file Path, content []byte) {
	if tr.Err != nil {
		return
	}
	if err := os.WriteFile(tr.Root.JoinP(file).String(), content, os.FileMode(0664)); err != nil {
		tr.Err = fmt.Errorf("Save `%s`: WriteFile error: %w", file, err)
	}
}

// SaveIfMissing writes content to file only when the file does not
// exist yet. A pre-existing file is left untouched.
func (tr *Transaction) SaveIfMissing(file Path, content []byte) {
	if tr.Err != nil {
		return
	}
	f, err := os.OpenFile(
		tr.Root.JoinP(file).String(),
		os.O_CREATE|os.O_EXCL|os.O_WRONLY,
		os.FileMode(0664),
	)
	if os.IsExist(err) {
		return
	}
	if err != nil {
		tr.Err = fmt.Errorf("SaveIfMissing `%s`: OpenFile error: %w", file, err)
		return
	}
	defer f.Close()
	if _, err := f.Write(content); err != nil {
		tr.Err = fmt.Errorf("SaveIfMissing `%s`: Write error: %w", file, err)
	}
}
