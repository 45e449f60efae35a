package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dockerapp/dockerapp/pkg/config"
	"github.com/dockerapp/dockerapp/pkg/util/console"
)

func newDockerfileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dockerfile",
		Short: "Print the Dockerfile that build would use",
		Args:  cobra.NoArgs,
		RunE:  dockerfileCommand,
	}
}

func dockerfileCommand(cmd *cobra.Command, args []string) error {
	cfg, projectDir, err := config.GetConfig(configFilename)
	if err != nil {
		return err
	}
	a, err := newApp(cfg, projectDir)
	if err != nil {
		return err
	}
	// apply_variables steps write helper scripts even when nothing is built
	defer func() {
		if err := a.Cleanup(); err != nil {
			console.Errorf("Failed to clean up: %s", err)
		}
	}()

	contents, err := a.Dockerfile()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), contents)
	return err
}
