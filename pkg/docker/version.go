package docker

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-version"

	"github.com/dockerapp/dockerapp/pkg/util/shell"
)

// MinimumVersion is the first docker release with BuildKit and --progress.
const MinimumVersion = "18.09"

// ClientVersion asks the build tool for its client version.
func ClientVersion(ctx context.Context, runner *shell.Runner, tool []string) (*version.Version, error) {
	var out bytes.Buffer
	cmd := append(append([]string{}, tool...), "version", "--format", "{{.Client.Version}}")
	if _, err := runner.Run(ctx, shell.Options{Command: cmd, Output: &out}); err != nil {
		return nil, err
	}
	return ParseVersion(out.String())
}

// ParseVersion parses the output of `docker version --format {{.Client.Version}}`.
// Docker versions are not always strict semver, e.g. "20.10.7" or "24.0.7-rd".
func ParseVersion(s string) (*version.Version, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = s[:i]
	}
	v, err := version.NewVersion(strings.TrimPrefix(s, "v"))
	if err != nil {
		return nil, fmt.Errorf("Failed to parse build tool version %q: %w", s, err)
	}
	return v, nil
}

// CheckMinimumVersion returns an error if v is older than MinimumVersion.
func CheckMinimumVersion(v *version.Version) error {
	minimum := version.Must(version.NewVersion(MinimumVersion))
	if v.Core().LessThan(minimum) {
		return fmt.Errorf("Docker %s is too old, %s or later is required for BuildKit progress output", v, MinimumVersion)
	}
	return nil
}
