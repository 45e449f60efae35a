package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dockerapp/dockerapp/pkg/errors"
	"github.com/dockerapp/dockerapp/pkg/util/files"
)

const maxSearchDepth = 100

// Returns the project's root directory: the closest directory, starting from the
// working directory, that holds configFilename. An absolute configFilename is not
// looked up, its directory is the project directory.
func GetProjectDir(configFilename string) (string, error) {
	if filepath.IsAbs(configFilename) {
		return filepath.Dir(configFilename), nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return findProjectRootDir(cwd, configFilename)
}

// Loads the config file and returns it with the directory it was found in
func GetConfig(configFilename string) (*Config, string, error) {
	rootDir, err := GetProjectDir(configFilename)
	if err != nil {
		return nil, "", err
	}

	configPath := configFilename
	if !filepath.IsAbs(configPath) {
		configPath = filepath.Join(rootDir, configFilename)
	}
	config, err := loadConfigFromFile(configPath)
	if err != nil {
		return nil, "", err
	}
	config.filename = configFilename
	return config, rootDir, nil
}

// Given a file path, attempt to load a config from that file
func loadConfigFromFile(file string) (*Config, error) {
	exists, err := files.Exists(file)
	if err != nil {
		return nil, err
	}

	if !exists {
		return nil, errors.ConfigNotFound(fmt.Sprintf("%s does not exist in %s. Are you in the right directory?", filepath.Base(file), filepath.Dir(file)))
	}

	contents, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	return FromYAML(contents)
}

// Given a directory, find the config file in that directory
func findConfigPathInDirectory(dir string, configFilename string) (configPath string, err error) {
	filePath := filepath.Join(dir, configFilename)
	exists, err := files.Exists(filePath)
	if err != nil {
		return "", fmt.Errorf("Failed to scan directory %s for %s: %s", dir, filePath, err)
	} else if exists {
		return filePath, nil
	}

	return "", errors.ConfigNotFound(fmt.Sprintf("%s not found in %s", configFilename, dir))
}

// Walk up the directory tree to find the root of the project.
// The project root is defined as the directory housing the config file.
func findProjectRootDir(startDir string, configFilename string) (string, error) {
	dir := startDir
	for i := 0; i < maxSearchDepth; i++ {
		switch _, err := findConfigPathInDirectory(dir, configFilename); {
		case err != nil && !errors.IsConfigNotFound(err):
			return "", err
		case err == nil:
			return dir, nil
		case dir == "." || dir == filepath.Dir(dir):
			return "", errors.ConfigNotFound(fmt.Sprintf("%s not found in %s (or in any parent directories)", configFilename, startDir))
		}

		dir = filepath.Dir(dir)
	}

	return "", errors.ConfigNotFound(fmt.Sprintf("No %s found in parent directories.", configFilename))
}
