package cli

import (
	"github.com/spf13/cobra"

	"github.com/dockerapp/dockerapp/pkg/cleanup"
	"github.com/dockerapp/dockerapp/pkg/config"
	"github.com/dockerapp/dockerapp/pkg/dockerfile"
	"github.com/dockerapp/dockerapp/pkg/util/console"
)

func newCleanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove temporary files left behind by builds run with --keep-artifacts",
		Args:  cobra.NoArgs,
		RunE:  cleanCommand,
	}
}

func cleanCommand(cmd *cobra.Command, args []string) error {
	cfg, projectDir, err := config.GetConfig(configFilename)
	if err != nil {
		return err
	}

	tracker, err := cleanup.New(cfg.SourceDir(projectDir))
	if err != nil {
		return err
	}
	tmpDir := dockerfile.TempDirPath(tracker.Root())
	tracker.RegisterDir(tmpDir)
	if err := tracker.Cleanup(); err != nil {
		return err
	}
	console.Infof("Removed %s", tmpDir)
	return nil
}
