package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("DOCKERAPP_TEST_TIMEOUT", "90")
	require.Equal(t, 90*time.Second, GetEnvOrDefault("DOCKERAPP_TEST_TIMEOUT", time.Minute, ParseSeconds))

	t.Setenv("DOCKERAPP_TEST_TIMEOUT", "soon")
	require.Equal(t, time.Minute, GetEnvOrDefault("DOCKERAPP_TEST_TIMEOUT", time.Minute, ParseSeconds))

	require.Equal(t, "docker", GetEnvOrDefault("DOCKERAPP_TEST_UNSET", "docker", ParseString))
}

func TestParseSeconds(t *testing.T) {
	d, err := ParseSeconds("0")
	require.NoError(t, err)
	require.Equal(t, time.Duration(0), d)

	_, err = ParseSeconds("-1")
	require.Error(t, err)
}
