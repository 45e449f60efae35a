// Package cleanup deletes temporary build artifacts, refusing to touch anything
// outside of the project directory.
package cleanup

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dockerapp/dockerapp/pkg/errors"
	"github.com/dockerapp/dockerapp/pkg/util/console"
)

type Kind int

const (
	File Kind = iota
	Dir
)

func (k Kind) String() string {
	if k == Dir {
		return "directory"
	}
	return "file"
}

type Registration struct {
	Path string
	Kind Kind
}

// Tracker records paths to delete once a build is finished. The root is resolved
// when the tracker is created; registered paths are only resolved by Cleanup, so
// they don't need to exist when they are registered.
type Tracker struct {
	root          string
	registrations []Registration
}

func New(root string) (*Tracker, error) {
	if root == "" {
		return nil, errors.ConfigurationError("The cleanup root directory is empty.")
	}
	canonical, err := canonicalPath(root)
	if err != nil {
		return nil, errors.ConfigurationErrorf("The cleanup root directory %q does not exist.", root)
	}
	return &Tracker{root: canonical}, nil
}

// Root is the canonical absolute path everything deleted has to live under.
func (t *Tracker) Root() string {
	return t.root
}

func (t *Tracker) RegisterFile(path string) {
	t.Register(path, File)
}

func (t *Tracker) RegisterDir(path string) {
	t.Register(path, Dir)
}

func (t *Tracker) Register(path string, kind Kind) {
	t.registrations = append(t.registrations, Registration{Path: path, Kind: kind})
}

func (t *Tracker) Registrations() []Registration {
	return append([]Registration(nil), t.registrations...)
}

// Contains reports whether the canonical path is strictly below the root.
func (t *Tracker) Contains(canonical string) bool {
	rel, err := filepath.Rel(t.root, canonical)
	if err != nil || filepath.IsAbs(rel) {
		return false
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return true
}

// Cleanup deletes every registered path. Paths that can't be resolved any more are
// skipped. All registrations are resolved and checked before anything is deleted:
// if one of them is outside the root, Cleanup returns a security violation and
// deletes nothing. Files are removed before directories, and directories are
// removed bottom-up with every entry checked on its own.
func (t *Tracker) Cleanup() error {
	files := []string{}
	dirs := []string{}

	for _, reg := range t.registrations {
		canonical, err := canonicalPath(reg.Path)
		if err != nil {
			console.Debugf("Skipping %s %s, it does not exist", reg.Kind, reg.Path)
			continue
		}
		if err := t.ensureInside(canonical); err != nil {
			return err
		}
		if reg.Kind == Dir {
			dirs = append(dirs, canonical)
		} else {
			files = append(files, canonical)
		}
	}

	for _, path := range files {
		console.Debugf("Deleting file %s", path)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("Failed to delete %s: %w", path, err)
		}
	}

	for _, path := range dirs {
		console.Debugf("Deleting directory %s", path)
		if err := t.removeTree(path); err != nil {
			return err
		}
	}

	t.registrations = nil
	return nil
}

func (t *Tracker) ensureInside(canonical string) error {
	if !t.Contains(canonical) {
		return errors.SecurityViolation(fmt.Sprintf(
			"%s is outside of the project's directory %s. For security reasons deleting files outside of the project is prohibited.",
			canonical, t.root))
	}
	return nil
}

// removeTree deletes path and everything under it without following symlinks.
// Each entry is checked against the root right before it is removed.
func (t *Tracker) removeTree(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	canonical, err := canonicalEntry(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := t.ensureInside(canonical); err != nil {
		return err
	}

	if info.Mode()&fs.ModeSymlink == 0 && info.IsDir() {
		entries, err := os.ReadDir(canonical)
		if err != nil {
			return fmt.Errorf("Failed to read %s: %w", canonical, err)
		}
		for _, entry := range entries {
			if err := t.removeTree(filepath.Join(canonical, entry.Name())); err != nil {
				return err
			}
		}
	}

	if err := os.Remove(canonical); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("Failed to delete %s: %w", canonical, err)
	}
	return nil
}

func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// canonicalEntry resolves the parent directory of path but not path itself, so a
// symlink is checked, and later removed, as the link rather than its target.
func canonicalEntry(path string) (string, error) {
	parent, err := canonicalPath(filepath.Dir(path))
	if err != nil {
		return "", err
	}
	return filepath.Join(parent, filepath.Base(path)), nil
}
