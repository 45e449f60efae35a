package dockerfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dockerapp/dockerapp/pkg/errors"
)

func TestBuildTempDir(t *testing.T) {
	tmpDir := t.TempDir()
	appTmpDir, err := BuildTempDir(tmpDir)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(tmpDir, ".dockerapp", "tmp"), appTmpDir)
	require.DirExists(t, appTmpDir)

	// creating it again is a no-op
	again, err := BuildTempDir(tmpDir)
	require.NoError(t, err)
	require.Equal(t, appTmpDir, again)
}

func TestBuildTempDirFileConflict(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, ".dockerapp"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".dockerapp", "tmp"), []byte("x"), 0o644))

	_, err := BuildTempDir(tmpDir)
	require.Error(t, err)
	require.True(t, errors.IsFilesystemConflict(err))
}

func TestBuildTempDirParentFileConflict(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".dockerapp"), []byte("x"), 0o644))

	_, err := BuildTempDir(tmpDir)
	require.True(t, errors.IsFilesystemConflict(err))
}

func TestResetTempDirRemovesStaleContents(t *testing.T) {
	tmpDir := t.TempDir()
	appTmpDir, err := BuildTempDir(tmpDir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(appTmpDir, "old.sh"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(appTmpDir, "nested", "dir"), 0o755))

	reset, err := ResetTempDir(tmpDir)
	require.NoError(t, err)
	require.Equal(t, appTmpDir, reset)

	entries, err := os.ReadDir(appTmpDir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestRelativeTempDir(t *testing.T) {
	require.Equal(t, ".dockerapp/tmp", RelativeTempDir())
}
