package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildContextPath(t *testing.T) {
	path, err := BuildContextPath("linux", "/home/me/project")
	require.NoError(t, err)
	require.Equal(t, "/home/me/project", path)

	path, err = BuildContextPath("windows", `C:\Users\me\project`)
	require.NoError(t, err)
	require.Equal(t, `c:\Users\me\project`, path)

	_, err = BuildContextPath("windows", `\\server\share`)
	require.Error(t, err)
}
