package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dockerapp/dockerapp/pkg/errors"
)

const testConfig = `
image: php:${PHP_VERSION}-cli
source: src
tool: sudo docker
tag: demo:latest
timeout: 600
combine_run: true
variables:
  "${PHP_VERSION}": 8.2
  "${APP_NAME}": demo
  "${WORKERS}": 4
steps:
  - run: apt-get update
  - command: EXPOSE 80
  - workdir: /srv
  - disable_cache: true
  - apply_variables: /app/config.ini
`

func TestFromYAML(t *testing.T) {
	config, err := FromYAML([]byte(testConfig))
	require.NoError(t, err)

	require.Equal(t, "php:${PHP_VERSION}-cli", config.Image)
	require.Equal(t, "sudo docker", config.Tool)
	require.True(t, config.CombineRun)
	require.False(t, config.KeepRunning)
	require.Equal(t, []Step{
		{Run: "apt-get update"},
		{Command: "EXPOSE 80"},
		{Workdir: "/srv"},
		{DisableCache: true},
		{ApplyVariables: "/app/config.ini"},
	}, config.Steps)

	names, values, err := config.ParsedVariables()
	require.NoError(t, err)
	require.Equal(t, []string{"${PHP_VERSION}", "${APP_NAME}", "${WORKERS}"}, names)
	require.Equal(t, "8.2", values[0].String())
	require.True(t, values[0].IsFloat())
	require.Equal(t, "demo", values[1].String())
	require.True(t, values[2].IsInt())
}

func TestFromYAMLRejectsInvalidConfig(t *testing.T) {
	for _, contents := range []string{
		"",
		"source: .",
		"image: alpine\nunknown: 1",
		"image: alpine\ntimeout: -5",
		"image: alpine\nsteps:\n  - run: a\n    workdir: b",
		"image: alpine\nsteps:\n  - {}",
		"image: alpine\nvariables:\n  A: [1, 2]",
	} {
		_, err := FromYAML([]byte(contents))
		require.Error(t, err, contents)
	}
}

func TestValidationErrorNamesField(t *testing.T) {
	_, err := FromYAML([]byte("image: alpine\ncombine_run: sometimes"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "combine_run must be a boolean")
}

func TestTimeouts(t *testing.T) {
	config, err := FromYAML([]byte("image: alpine\ntimeout: 600"))
	require.NoError(t, err)
	require.Equal(t, 10*time.Minute, config.TimeoutDuration())
	require.Equal(t, 10*time.Minute, config.IdleTimeoutDuration())

	config, err = FromYAML([]byte("image: alpine\ntimeout: 600\nidle_timeout: 30"))
	require.NoError(t, err)
	require.Equal(t, 30*time.Second, config.IdleTimeoutDuration())

	t.Setenv(TimeoutEnvVarName, "0")
	t.Setenv(IdleTimeoutEnvVarName, "5")
	require.Equal(t, time.Duration(0), config.TimeoutDuration())
	require.Equal(t, 5*time.Second, config.IdleTimeoutDuration())
}

func TestToolCommand(t *testing.T) {
	config, err := FromYAML([]byte("image: alpine\ntool: podman"))
	require.NoError(t, err)
	require.Equal(t, "podman", config.ToolCommand())

	t.Setenv(ToolEnvVarName, "sudo docker")
	require.Equal(t, "sudo docker", config.ToolCommand())
}

func TestSourceDir(t *testing.T) {
	config := &Config{}
	require.Equal(t, "/project", config.SourceDir("/project"))

	config.Source = "src"
	require.Equal(t, filepath.Join("/project", "src"), config.SourceDir("/project"))

	config.Source = "/elsewhere"
	require.Equal(t, "/elsewhere", config.SourceDir("/project"))
}

func TestParsedVariablesRejectsNonScalars(t *testing.T) {
	config := &Config{}
	config.Variables = append(config.Variables, mapItem("A", []interface{}{1}))
	_, _, err := config.ParsedVariables()
	require.True(t, errors.IsConfigurationError(err))
}

func TestParsedVariablesKeepsLargeIntegers(t *testing.T) {
	config, err := FromYAML([]byte("image: alpine\nvariables:\n  BIG: 18446744073709551615\n"))
	require.NoError(t, err)
	_, values, err := config.ParsedVariables()
	require.NoError(t, err)
	require.Equal(t, "18446744073709551615", values[0].String())
}
