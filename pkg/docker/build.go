package docker

import (
	"fmt"
	"sort"

	"github.com/kballard/go-shellquote"

	"github.com/dockerapp/dockerapp/pkg/errors"
	"github.com/dockerapp/dockerapp/pkg/global"
)

// CacheBustArg is the build argument used to invalidate the build cache from the
// line it is declared on.
const CacheBustArg = "CACHEBUST"

type BuildOptions struct {
	// Tool is the build program and any leading arguments, e.g. ["sudo", "docker"]
	Tool        []string
	ContextPath string
	// Dockerfile is passed with --file when it is not the default one in the context
	Dockerfile string
	Progress   string
	NoCache    bool
	BuildArgs  map[string]string
	Tag        string
}

// BuildArgs assembles `<tool> build [--progress=...] [--no-cache] [--build-arg K=V]... <context>`.
// Build arguments are sorted by name so the command line is stable.
func BuildArgs(opts BuildOptions) []string {
	tool := opts.Tool
	if len(tool) == 0 {
		tool = []string{global.DefaultTool}
	}

	args := append([]string{}, tool...)
	args = append(args, "build")

	if opts.Progress != "" {
		args = append(args, "--progress="+opts.Progress)
	}

	if opts.NoCache {
		args = append(args, "--no-cache")
	}

	names := make([]string, 0, len(opts.BuildArgs))
	for name := range opts.BuildArgs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		args = append(args, "--build-arg", name+"="+opts.BuildArgs[name])
	}

	if opts.Dockerfile != "" {
		args = append(args, "--file", opts.Dockerfile)
	}

	if opts.Tag != "" {
		args = append(args, "--tag", opts.Tag)
	}

	contextPath := opts.ContextPath
	if contextPath == "" {
		contextPath = "."
	}
	return append(args, contextPath)
}

// ParseTool splits a configured build tool such as "sudo docker" or "podman" using
// shell quoting rules. An empty string means docker.
func ParseTool(s string) ([]string, error) {
	words, err := shellquote.Split(s)
	if err != nil {
		return nil, errors.ConfigurationErrorf("Failed to parse the build tool %q: %s", s, err)
	}
	if len(words) == 0 {
		return []string{global.DefaultTool}, nil
	}
	return words, nil
}

// CacheBustValue renders a unique value for the cache bust build argument.
func CacheBustValue(nanos int64) string {
	return fmt.Sprintf("%d", nanos)
}
