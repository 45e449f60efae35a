package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dockerapp/dockerapp/pkg/config"
)

const fakeDocker = `#!/bin/sh
echo "$*" > "$(dirname "$0")/args"
exit 0
`

func newProject(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dockerapp.yaml"), []byte(contents), 0o644))
	chdir(t, dir)
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd, err := NewRootCommand()
	require.NoError(t, err)
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), err
}

func TestDockerfileCommand(t *testing.T) {
	newProject(t, `
image: php:${PHP_VERSION}-cli
combine_run: true
keep_running: true
variables:
  "${PHP_VERSION}": 8.2
steps:
  - run: apt-get update
  - run: apt-get install -y git
  - workdir: /srv
  - command: EXPOSE 80
`)

	out, err := execute(t, "dockerfile")
	require.NoError(t, err)
	require.Equal(t, `FROM php:8.2-cli
RUN mkdir -p /app/
ADD ./ /app/
WORKDIR /app/
RUN apt-get update \
 && apt-get install -y git
WORKDIR /srv
EXPOSE 80
CMD ["sleep", "infinity"]
`, out)
}

func TestDockerfileCommandRemovesHelperScripts(t *testing.T) {
	dir := newProject(t, `
image: alpine
variables:
  __NAME__: demo
steps:
  - apply_variables: /app/config.ini
`)

	out, err := execute(t, "dockerfile")
	require.NoError(t, err)
	require.Contains(t, out, "ADD .dockerapp/tmp/apply-variables-")
	require.NoDirExists(t, filepath.Join(dir, ".dockerapp", "tmp"))
}

func TestDockerfileCommandWithAlternativeFile(t *testing.T) {
	dir := newProject(t, "image: alpine\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("image: debian\n"), 0o644))

	out, err := execute(t, "dockerfile", "--file", "other.yaml")
	require.NoError(t, err)
	require.Contains(t, out, "FROM debian\n")
}

func TestDockerfileCommandMissingConfig(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := execute(t, "dockerfile", "--file", "dockerapp-missing.yaml")
	require.Error(t, err)
}

func TestBuildCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs /bin/sh")
	}
	toolDir := t.TempDir()
	tool := filepath.Join(toolDir, "docker")
	require.NoError(t, os.WriteFile(tool, []byte(fakeDocker), 0o755))
	t.Setenv(config.ToolEnvVarName, tool)

	dir := newProject(t, "image: alpine\ntag: demo:1\nsteps:\n  - run: echo hi\n")

	_, err := execute(t, "build", "--no-cache", "--tag", "demo:2")
	require.NoError(t, err)

	args, err := os.ReadFile(filepath.Join(toolDir, "args"))
	require.NoError(t, err)
	require.Contains(t, string(args), "build --progress=plain --no-cache --build-arg CACHEBUST=")
	require.Contains(t, string(args), "--file .dockerapp/tmp/Dockerfile --tag demo:2 .")
	require.NoFileExists(t, filepath.Join(dir, ".dockerapp", "tmp", "Dockerfile"))
}

func TestBuildCommandKeepArtifacts(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs /bin/sh")
	}
	toolDir := t.TempDir()
	tool := filepath.Join(toolDir, "docker")
	require.NoError(t, os.WriteFile(tool, []byte(fakeDocker), 0o755))
	t.Setenv(config.ToolEnvVarName, tool)

	dir := newProject(t, "image: alpine\n")
	dockerfilePath := filepath.Join(dir, ".dockerapp", "tmp", "Dockerfile")

	_, err := execute(t, "build", "--keep-artifacts")
	require.NoError(t, err)
	require.FileExists(t, dockerfilePath)

	_, err = execute(t, "clean")
	require.NoError(t, err)
	require.NoDirExists(t, filepath.Join(dir, ".dockerapp", "tmp"))
	require.FileExists(t, filepath.Join(dir, "dockerapp.yaml"))
}

func TestFlagNamesAcceptUnderscores(t *testing.T) {
	cmd, err := NewRootCommand()
	require.NoError(t, err)
	buildCmd, _, err := cmd.Find([]string{"build"})
	require.NoError(t, err)
	require.NotNil(t, buildCmd.Flags().Lookup("keep_artifacts"))
}
