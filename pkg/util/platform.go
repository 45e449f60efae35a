package util

import (
	"fmt"
	"regexp"
	"strings"
)

var windowsDrive = regexp.MustCompile(`^[a-zA-Z]:`)

// IsWindows returns whether goos is Windows. It takes goos so it can be tested on any platform.
func IsWindows(goos string) bool {
	return goos == "windows"
}

// BuildContextPath adapts an absolute source path for use as a docker build context.
// On Windows the path has to start with a drive letter, which is lowercased; on every
// other platform the path is returned unchanged.
func BuildContextPath(goos string, path string) (string, error) {
	if !IsWindows(goos) {
		return path, nil
	}
	if !windowsDrive.MatchString(path) {
		return "", fmt.Errorf("Source path %q does not start with a drive letter", path)
	}
	return strings.ToLower(path[:1]) + path[1:], nil
}
