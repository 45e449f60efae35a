package dockerfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dockerapp/dockerapp/pkg/errors"
	"github.com/dockerapp/dockerapp/pkg/global"
	"github.com/dockerapp/dockerapp/pkg/util/console"
)

// TempDirPath returns the fixed temporary directory of a source tree, without creating it.
func TempDirPath(dir string) string {
	return filepath.Join(dir, filepath.FromSlash(global.TmpDirName))
}

// RelativeTempDir is the temporary directory relative to the source tree, with forward
// slashes, as it is referenced from inside a Dockerfile.
func RelativeTempDir() string {
	return filepath.ToSlash(global.TmpDirName)
}

// BuildTempDir creates the temporary directory under dir if it doesn't exist yet.
func BuildTempDir(dir string) (string, error) {
	rootTmp := TempDirPath(dir)

	// a file in place of any path component is a conflict, not just the leaf
	current := dir
	for _, part := range strings.Split(global.TmpDirName, "/") {
		current = filepath.Join(current, part)
		if info, err := os.Lstat(current); err == nil && !info.IsDir() {
			return "", errors.FilesystemConflict(fmt.Sprintf("There is a file %q, where a directory needs to be created.", current))
		}
	}

	if err := os.MkdirAll(rootTmp, 0o755); err != nil {
		return "", fmt.Errorf("Failed to create %s: %w", rootTmp, err)
	}
	return rootTmp, nil
}

// ResetTempDir creates the temporary directory and removes anything left in it by a
// previous run.
func ResetTempDir(dir string) (string, error) {
	rootTmp, err := BuildTempDir(dir)
	if err != nil {
		return "", err
	}

	entries, err := os.ReadDir(rootTmp)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		path := filepath.Join(rootTmp, entry.Name())
		if info, err := entry.Info(); err == nil {
			console.Debugf("Removing stale %s from %s", path, console.FormatTime(info.ModTime()))
		}
		if err := os.RemoveAll(path); err != nil {
			return "", fmt.Errorf("Failed to remove stale %s: %w", path, err)
		}
	}
	return rootTmp, nil
}
