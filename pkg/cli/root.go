package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dockerapp/dockerapp/pkg/global"
	"github.com/dockerapp/dockerapp/pkg/util"
	"github.com/dockerapp/dockerapp/pkg/util/console"
)

// LogLevelEnvVarName sets the console level when --verbose isn't passed
const LogLevelEnvVarName = "DOCKERAPP_LOG_LEVEL"

var configFilename string
var machineOutput bool

func NewRootCommand() (*cobra.Command, error) {
	rootCmd := cobra.Command{
		Use:     "dockerapp",
		Short:   "Build Docker images from a dockerapp.yaml file",
		Version: fmt.Sprintf("%s (built %s)", global.Version, global.BuildTime),
		// This stops errors being printed because we print them in cmd/dockerapp/main.go
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			console.SetLevel(util.GetEnvOrDefault(LogLevelEnvVarName, console.InfoLevel, console.ParseLevel))
			if global.Verbose {
				console.SetLevel(console.DebugLevel)
			}
			console.SetMachine(machineOutput)
			console.SetColor(!machineOutput && console.ShouldColor())
			cmd.SilenceUsage = true
		},
		SilenceErrors: true,
	}
	setPersistentFlags(&rootCmd)
	rootCmd.SetGlobalNormalizationFunc(normalizeFlagName)

	rootCmd.AddCommand(
		newBuildCommand(),
		newDockerfileCommand(),
		newCleanCommand(),
	)

	return &rootCmd, nil
}

func setPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().StringVarP(&configFilename, "file", "f", global.ConfigFilename, "The config file, looked up in the working directory and its parents")
	cmd.PersistentFlags().BoolVar(&machineOutput, "machine", false, "Print log lines as 'level: message' without colors")
	_ = cmd.PersistentFlags().MarkHidden("machine")
}

// normalizeFlagName accepts the config file spelling of a flag, e.g. --keep_artifacts.
func normalizeFlagName(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}
