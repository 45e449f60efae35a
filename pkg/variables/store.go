// Package variables holds the named values that are substituted into a rendered Dockerfile.
package variables

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dockerapp/dockerapp/pkg/errors"
)

// EnvironmentToken is the format under which process environment variables can be referenced.
const EnvironmentToken = "${%s}"

// Store maps variable names to values. The names are literal tokens: whatever
// text is used as a name is replaced verbatim, so "${VERSION}" and "%VERSION%" are
// both valid names.
//
// The (names, values) projection and the replacer built from it are cached and
// rebuilt on the first read after a mutation. A Store is not safe for concurrent use.
type Store struct {
	order  []string
	values map[string]Scalar

	environ []string

	dirty     bool
	names     []string
	projected []string
	replacer  *strings.Replacer
}

// New creates a Store. environ is a snapshot of the process environment in
// os.Environ() format; pass nil to leave the environment out of substitution.
func New(environ []string) *Store {
	return &Store{
		values:  map[string]Scalar{},
		environ: append([]string(nil), environ...),
		dirty:   true,
	}
}

// Set inserts or overwrites a variable.
func (s *Store) Set(name string, value Scalar) error {
	if name == "" {
		return errors.ConfigurationError("A variable name can't be empty")
	}
	if _, ok := s.values[name]; !ok {
		s.order = append(s.order, name)
	}
	s.values[name] = value
	s.dirty = true
	return nil
}

func (s *Store) SetText(name string, value string) error {
	return s.Set(name, Text(value))
}

func (s *Store) SetInt(name string, value int64) error {
	return s.Set(name, Int(value))
}

func (s *Store) SetFloat(name string, value float64) error {
	return s.Set(name, Float(value))
}

// Get returns the value of an explicitly set variable.
func (s *Store) Get(name string) (Scalar, bool) {
	v, ok := s.values[name]
	return v, ok
}

func (s *Store) Len() int {
	return len(s.order)
}

// Names returns the explicitly set variable names in the order they were first set.
func (s *Store) Names() []string {
	return append([]string(nil), s.order...)
}

// Map returns the explicitly set variables rendered as strings.
func (s *Store) Map() map[string]string {
	m := make(map[string]string, len(s.order))
	for _, name := range s.order {
		m[name] = s.values[name].String()
	}
	return m
}

// Projection returns the parallel name and value sequences used for substitution.
// Environment variables come first, as ${NAME} tokens sorted by name, followed by
// the explicit variables in insertion order. An environment token that is also set
// explicitly is left out, so explicit values always win.
func (s *Store) Projection() ([]string, []string) {
	s.build()
	return append([]string(nil), s.names...), append([]string(nil), s.projected...)
}

// Apply replaces every occurrence of a variable name in template with its value.
// Matching is literal and leftmost-first; when two names match at the same offset
// the one earlier in the projection wins. Substituted values are not scanned again.
func (s *Store) Apply(template string) string {
	s.build()
	if s.replacer == nil {
		return template
	}
	return s.replacer.Replace(template)
}

func (s *Store) build() {
	if !s.dirty {
		return
	}

	names := []string{}
	values := []string{}

	env := parseEnviron(s.environ)
	envNames := make([]string, 0, len(env))
	for name := range env {
		envNames = append(envNames, name)
	}
	sort.Strings(envNames)
	for _, name := range envNames {
		token := fmt.Sprintf(EnvironmentToken, name)
		if _, ok := s.values[token]; ok {
			continue
		}
		names = append(names, token)
		values = append(values, env[name])
	}

	for _, name := range s.order {
		names = append(names, name)
		values = append(values, s.values[name].String())
	}

	s.names = names
	s.projected = values
	s.replacer = nil
	if len(names) > 0 {
		pairs := make([]string, 0, len(names)*2)
		for i := range names {
			pairs = append(pairs, names[i], values[i])
		}
		s.replacer = strings.NewReplacer(pairs...)
	}
	s.dirty = false
}

// parseEnviron turns KEY=VALUE entries into a map. Later duplicates win, like the shell.
func parseEnviron(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		env[name] = value
	}
	return env
}
