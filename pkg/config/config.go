package config

import (
	"fmt"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/dockerapp/dockerapp/pkg/errors"
	"github.com/dockerapp/dockerapp/pkg/util"
	"github.com/dockerapp/dockerapp/pkg/variables"
)

const (
	TimeoutEnvVarName     = "DOCKERAPP_TIMEOUT"
	IdleTimeoutEnvVarName = "DOCKERAPP_IDLE_TIMEOUT"
	ToolEnvVarName        = "DOCKERAPP_TOOL"
)

// Step is one entry of `steps`. Exactly one field is set.
type Step struct {
	Run            string `json:"run,omitempty" yaml:"run"`
	Command        string `json:"command,omitempty" yaml:"command"`
	Workdir        string `json:"workdir,omitempty" yaml:"workdir"`
	ApplyVariables string `json:"apply_variables,omitempty" yaml:"apply_variables"`
	DisableCache   bool   `json:"disable_cache,omitempty" yaml:"disable_cache"`
}

type Config struct {
	Image         string        `json:"image" yaml:"image"`
	Source        string        `json:"source,omitempty" yaml:"source"`
	Tool          string        `json:"tool,omitempty" yaml:"tool"`
	Tag           string        `json:"tag,omitempty" yaml:"tag"`
	Progress      string        `json:"progress,omitempty" yaml:"progress"`
	Timeout       *int          `json:"timeout,omitempty" yaml:"timeout"`
	IdleTimeout   *int          `json:"idle_timeout,omitempty" yaml:"idle_timeout"`
	CombineRun    bool          `json:"combine_run,omitempty" yaml:"combine_run"`
	KeepRunning   bool          `json:"keep_running,omitempty" yaml:"keep_running"`
	InsideAppPath string        `json:"inside_app_path,omitempty" yaml:"inside_app_path"`
	Variables     yaml.MapSlice `json:"variables,omitempty" yaml:"variables"`
	Steps         []Step        `json:"steps,omitempty" yaml:"steps"`

	filename string
}

func FromYAML(contents []byte) (*Config, error) {
	if err := Validate(string(contents), defaultVersion); err != nil {
		return nil, err
	}
	config := &Config{}
	if err := yaml.UnmarshalStrict(contents, config); err != nil {
		return nil, fmt.Errorf("Failed to parse config yaml: %w", err)
	}
	for i, step := range config.Steps {
		if step.Run == "" && step.Command == "" && step.Workdir == "" && step.ApplyVariables == "" && !step.DisableCache {
			return nil, errors.ConfigurationErrorf("Step %d is empty.", i+1)
		}
	}
	return config, nil
}

func (c *Config) Filename() string {
	return c.filename
}

// SourceDir resolves `source` against the directory holding the config file.
func (c *Config) SourceDir(projectDir string) string {
	if c.Source == "" {
		return projectDir
	}
	if filepath.IsAbs(c.Source) {
		return c.Source
	}
	return filepath.Join(projectDir, c.Source)
}

// TimeoutDuration is the overall build timeout. DOCKERAPP_TIMEOUT wins over the file.
func (c *Config) TimeoutDuration() time.Duration {
	return util.GetEnvOrDefault(TimeoutEnvVarName, seconds(c.Timeout), util.ParseSeconds)
}

// IdleTimeoutDuration is the idle timeout. It defaults to the overall timeout.
func (c *Config) IdleTimeoutDuration() time.Duration {
	idle := c.TimeoutDuration()
	if c.IdleTimeout != nil {
		idle = seconds(c.IdleTimeout)
	}
	return util.GetEnvOrDefault(IdleTimeoutEnvVarName, idle, util.ParseSeconds)
}

func (c *Config) ToolCommand() string {
	return util.GetEnvOrDefault(ToolEnvVarName, c.Tool, util.ParseString)
}

// ParsedVariables converts `variables` into scalars, keeping the order of the file.
func (c *Config) ParsedVariables() ([]string, []variables.Scalar, error) {
	names := []string{}
	values := []variables.Scalar{}
	for _, item := range c.Variables {
		name := fmt.Sprint(item.Key)
		value, ok := variables.FromAny(item.Value)
		if !ok {
			return nil, nil, errors.ConfigurationErrorf("Variable %q must be a string or a number.", name)
		}
		names = append(names, name)
		values = append(values, value)
	}
	return names, values, nil
}

func seconds(n *int) time.Duration {
	if n == nil {
		return 0
	}
	return time.Duration(*n) * time.Second
}
