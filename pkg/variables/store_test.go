package variables

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dockerapp/dockerapp/pkg/errors"
)

func TestApplyAndInvalidate(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.SetText("${A}", "1"))
	require.NoError(t, s.SetText("${B}", "2"))

	require.Equal(t, "x=1,y=2", s.Apply("x=${A},y=${B}"))

	require.NoError(t, s.SetText("${A}", "9"))
	require.Equal(t, "x=9,y=2", s.Apply("x=${A},y=${B}"))
}

func TestProjectionIsCachedUntilMutation(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.SetInt("N", 1))
	require.True(t, s.dirty)

	names, values := s.Projection()
	require.Equal(t, []string{"N"}, names)
	require.Equal(t, []string{"1"}, values)
	require.False(t, s.dirty)

	_, ok := s.Get("N")
	require.True(t, ok)
	require.False(t, s.dirty, "Get must not invalidate the projection")

	s.Apply("N")
	require.False(t, s.dirty)

	require.NoError(t, s.SetFloat("F", 1.5))
	require.True(t, s.dirty)
	names, values = s.Projection()
	require.Equal(t, []string{"N", "F"}, names)
	require.Equal(t, []string{"1", "1.5"}, values)
}

func TestOverwriteKeepsInsertionOrder(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.SetText("a", "1"))
	require.NoError(t, s.SetText("b", "2"))
	require.NoError(t, s.SetText("a", "3"))

	require.Equal(t, []string{"a", "b"}, s.Names())
	require.Equal(t, 2, s.Len())
	require.Equal(t, map[string]string{"a": "3", "b": "2"}, s.Map())
}

func TestEnvironmentHasLowerPrecedence(t *testing.T) {
	s := New([]string{"HOME=/root", "USER=builder", "BROKEN", "=nothing"})
	require.Equal(t, "/root builder", s.Apply("${HOME} ${USER}"))

	require.NoError(t, s.SetText("${USER}", "explicit"))
	require.Equal(t, "/root explicit", s.Apply("${HOME} ${USER}"))

	names, values := s.Projection()
	require.Equal(t, []string{"${HOME}", "${USER}"}, names)
	require.Equal(t, []string{"/root", "explicit"}, values)
}

func TestApplyIsNotRecursive(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.SetText("${A}", "${B}"))
	require.NoError(t, s.SetText("${B}", "b"))

	require.Equal(t, "${B} b", s.Apply("${A} ${B}"))
}

func TestApplyLeftmostMatchFirst(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.SetText("bc", "X"))
	require.NoError(t, s.SetText("ab", "Y"))

	require.Equal(t, "Yc", s.Apply("abc"))
}

func TestApplyWithoutVariables(t *testing.T) {
	s := New(nil)
	require.Equal(t, "FROM php:${VERSION}", s.Apply("FROM php:${VERSION}"))
}

func TestEmptyNameIsRejected(t *testing.T) {
	s := New(nil)
	err := s.SetText("", "x")
	require.Error(t, err)
	require.True(t, errors.IsConfigurationError(err))
	require.Equal(t, 0, s.Len())
}

func TestEnvironmentSnapshotIsCopied(t *testing.T) {
	environ := []string{"TAG=one"}
	s := New(environ)
	environ[0] = "TAG=two"

	require.Equal(t, "one", s.Apply("${TAG}"))
}
