package cli

import (
	"github.com/dockerapp/dockerapp/pkg/app"
	"github.com/dockerapp/dockerapp/pkg/config"
	"github.com/dockerapp/dockerapp/pkg/docker"
	"github.com/dockerapp/dockerapp/pkg/errors"
)

func toolCommand(cfg *config.Config) ([]string, error) {
	return docker.ParseTool(cfg.ToolCommand())
}

// newApp turns a loaded config into an App with its variables and steps applied.
func newApp(cfg *config.Config, projectDir string, opts ...app.Option) (*app.App, error) {
	tool, err := toolCommand(cfg)
	if err != nil {
		return nil, err
	}

	appOpts := []app.Option{
		app.WithTool(tool),
		app.WithTimeout(cfg.TimeoutDuration()),
		app.WithIdleTimeout(cfg.IdleTimeoutDuration()),
		app.WithCombineRunCommands(cfg.CombineRun),
	}
	if cfg.Progress != "" {
		appOpts = append(appOpts, app.WithProgress(cfg.Progress))
	}
	if cfg.Tag != "" {
		appOpts = append(appOpts, app.WithTag(cfg.Tag))
	}
	if cfg.InsideAppPath != "" {
		appOpts = append(appOpts, app.WithInsideAppPath(cfg.InsideAppPath))
	}
	appOpts = append(appOpts, opts...)

	a, err := app.New(cfg.Image, cfg.SourceDir(projectDir), appOpts...)
	if err != nil {
		return nil, err
	}

	names, values, err := cfg.ParsedVariables()
	if err != nil {
		return nil, err
	}
	for i, name := range names {
		if err := a.SetVariable(name, values[i]); err != nil {
			return nil, err
		}
	}

	for i, step := range cfg.Steps {
		switch {
		case step.Run != "":
			a.AddRunCommand(step.Run)
		case step.Command != "":
			a.AddCommand(step.Command)
		case step.Workdir != "":
			a.AddWorkdirCommand(step.Workdir)
		case step.ApplyVariables != "":
			if err := a.ApplyVariablesToFile(step.ApplyVariables); err != nil {
				_ = a.Cleanup()
				return nil, err
			}
		case step.DisableCache:
			a.DisableCacheAfterThisLine()
		default:
			_ = a.Cleanup()
			return nil, errors.ConfigurationErrorf("Step %d is empty.", i+1)
		}
	}

	if cfg.KeepRunning {
		a.KeepContainerRunning()
	}
	return a, nil
}
