package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dockerapp/dockerapp/pkg/cli"
	"github.com/dockerapp/dockerapp/pkg/errors"
	"github.com/dockerapp/dockerapp/pkg/util/console"
)

func main() {
	cmd, err := cli.NewRootCommand()
	if err != nil {
		console.Fatalf("%s", err)
	}

	// an interrupt kills the build tool, then the deferred cleanup runs
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		console.Error(err.Error())
		if code := errors.ExitCode(err); code > 0 {
			os.Exit(code)
		}
		os.Exit(1)
	}
}
