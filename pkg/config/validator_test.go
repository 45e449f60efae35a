package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateMinimalConfig(t *testing.T) {
	require.NoError(t, Validate("image: alpine", defaultVersion))
	require.NoError(t, Validate("image: alpine\nvariables:\nsteps:\n", ""))
}

func TestValidateUnknownVersion(t *testing.T) {
	require.Error(t, Validate("image: alpine", "9.9"))
}

func TestValidateBadStep(t *testing.T) {
	err := Validate("image: alpine\nsteps:\n  - copy: a b\n", defaultVersion)
	require.Error(t, err)
	require.Contains(t, err.Error(), "There is a problem in your dockerapp.yaml file.")
}

func TestHumanReadableType(t *testing.T) {
	require.Equal(t, "mapping", humanReadableType("object"))
	require.Equal(t, "list", humanReadableType("array"))
	require.Equal(t, "mapping or null", humanReadableType("[object,null]"))
}
