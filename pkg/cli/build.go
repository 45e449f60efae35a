package cli

import (
	"github.com/spf13/cobra"

	"github.com/dockerapp/dockerapp/pkg/app"
	"github.com/dockerapp/dockerapp/pkg/config"
	"github.com/dockerapp/dockerapp/pkg/docker"
	"github.com/dockerapp/dockerapp/pkg/util/console"
	"github.com/dockerapp/dockerapp/pkg/util/shell"
)

var buildTag string
var buildNoCache bool
var buildKeepArtifacts bool
var buildCheckVersion bool

func newBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build an image from dockerapp.yaml",
		Args:  cobra.NoArgs,
		RunE:  buildCommand,
	}
	addNoCacheFlag(cmd)
	cmd.Flags().StringVarP(&buildTag, "tag", "t", "", "A name for the built image in the form 'repository:tag'")
	cmd.Flags().BoolVar(&buildKeepArtifacts, "keep-artifacts", false, "Keep the generated Dockerfile and helper scripts after the build")
	cmd.Flags().BoolVar(&buildCheckVersion, "check-version", false, "Check that the build tool is recent enough before building")
	return cmd
}

func buildCommand(cmd *cobra.Command, args []string) error {
	cfg, projectDir, err := config.GetConfig(configFilename)
	if err != nil {
		return err
	}

	if buildCheckVersion {
		if err := checkToolVersion(cmd, cfg); err != nil {
			return err
		}
	}

	opts := []app.Option{}
	if buildTag != "" {
		opts = append(opts, app.WithTag(buildTag))
	}
	a, err := newApp(cfg, projectDir, opts...)
	if err != nil {
		return err
	}
	if !buildKeepArtifacts {
		defer func() {
			if err := a.Cleanup(); err != nil {
				console.Errorf("Failed to clean up: %s", err)
			}
		}()
	}

	if buildNoCache {
		err = a.BuildWithoutCache(cmd.Context())
	} else {
		err = a.Build(cmd.Context())
	}
	if err != nil {
		return err
	}

	if buildTag != "" {
		console.Infof("\nImage built as %s", buildTag)
	} else if cfg.Tag != "" {
		console.Infof("\nImage built as %s", cfg.Tag)
	} else {
		console.Info("\nImage built")
	}
	return nil
}

func checkToolVersion(cmd *cobra.Command, cfg *config.Config) error {
	tool, err := toolCommand(cfg)
	if err != nil {
		return err
	}
	v, err := docker.ClientVersion(cmd.Context(), shell.NewRunner(), tool)
	if err != nil {
		return err
	}
	console.Debugf("Build tool version %s", v)
	return docker.CheckMinimumVersion(v)
}

func addNoCacheFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&buildNoCache, "no-cache", false, "Do not use cache when building the image")
}
