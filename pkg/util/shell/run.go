package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/alessio/shellescape"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/dockerapp/dockerapp/pkg/errors"
	"github.com/dockerapp/dockerapp/pkg/util/console"
)

const maxLineSize = 1024 * 1024

// exitDrainTimeout bounds how long output is still read once the process has exited.
// Anything it left running in the background that keeps the output open is killed.
const exitDrainTimeout = time.Second

// Options describe one process to run. A zero Timeout or IdleTimeout disables that timer.
type Options struct {
	Command []string
	Dir     string
	// Env replaces the environment of the process when it is not nil
	Env []string

	// Timeout bounds the whole run
	Timeout time.Duration
	// IdleTimeout bounds the time between two lines of output
	IdleTimeout time.Duration

	// Output receives stdout and stderr, merged, one line at a time. Defaults to the console.
	Output io.Writer
}

type Result struct {
	ExitCode int
	Lines    int
	Duration time.Duration
}

// Runner runs a process to completion while streaming its output and enforcing
// the idle and overall timeouts. It never retries.
type Runner struct {
	Clock clockwork.Clock
}

func NewRunner() *Runner {
	return &Runner{Clock: clockwork.NewRealClock()}
}

// CommandLine renders args as a command line that can be pasted into a shell.
func CommandLine(args []string) string {
	return shellescape.QuoteCommand(args)
}

// Run starts the process and blocks until it exits, a timer elapses or ctx is done.
// A non-zero exit status is returned as a ProcessFailure and an elapsed timer as a
// ProcessTimeout naming the timer. In both cases the Result is still returned.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if len(opts.Command) == 0 {
		return nil, errors.ConfigurationError("There is no command to run.")
	}
	clock := r.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	out := opts.Output
	if out == nil {
		out = console.ConsoleInstance
	}
	commandLine := CommandLine(opts.Command)

	cmd := exec.Command(opts.Command[0], opts.Command[1:]...) //#nosec G204
	cmd.Dir = opts.Dir
	if opts.Env != nil {
		cmd.Env = opts.Env
	}
	setProcessGroup(cmd)

	// one pipe for both streams keeps the lines in the order they were written
	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	console.Debug("$ " + commandLine)
	start := clock.Now()
	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return nil, fmt.Errorf("Failed to start %s: %w", commandLine, err)
	}
	// the child holds its own copy, ours would keep the reader from seeing EOF
	pw.Close()

	lines := make(chan string)
	exited := make(chan error, 1)
	done := make(chan struct{})

	var g errgroup.Group
	g.Go(func() error {
		defer close(lines)
		scanner := bufio.NewScanner(pr)
		scanner.Buffer(make([]byte, 64*1024), maxLineSize)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimRight(scanner.Text(), "\r"):
			case <-done:
				return nil
			}
		}
		select {
		case <-done:
			return nil
		default:
			return scanner.Err()
		}
	})
	g.Go(func() error {
		exited <- cmd.Wait()
		return nil
	})

	var idleC, overallC <-chan time.Time
	var idleTimer clockwork.Timer
	if opts.IdleTimeout > 0 {
		idleTimer = clock.NewTimer(opts.IdleTimeout)
		defer idleTimer.Stop()
		idleC = idleTimer.Chan()
	}
	if opts.Timeout > 0 {
		overallTimer := clock.NewTimer(opts.Timeout)
		defer overallTimer.Stop()
		overallC = overallTimer.Chan()
	}

	result := &Result{ExitCode: -1}
	stop := func(cause error) (*Result, error) {
		killProcess(cmd)
		close(done)
		pr.Close()
		if exited != nil {
			<-exited
		}
		_ = g.Wait()
		result.Duration = clock.Since(start)
		return result, cause
	}

	linesC := lines
	var waitErr error
	var drainC <-chan time.Time
	for linesC != nil || exited != nil {
		select {
		case line, ok := <-linesC:
			if !ok {
				linesC = nil
				continue
			}
			result.Lines++
			if _, err := fmt.Fprintln(out, line); err != nil {
				return stop(fmt.Errorf("Failed to write output of %s: %w", commandLine, err))
			}
			if idleTimer != nil {
				idleTimer.Reset(opts.IdleTimeout)
			}
		case waitErr = <-exited:
			exited = nil
			// the exit status decides the result from here on
			idleC, overallC = nil, nil
			if linesC != nil {
				drainTimer := clock.NewTimer(exitDrainTimeout)
				defer drainTimer.Stop()
				drainC = drainTimer.Chan()
			}
		case <-drainC:
			console.Debugf("%s exited but its output is still open, stopping what it left running", commandLine)
			killProcess(cmd)
			linesC = nil
		case <-idleC:
			return stop(errors.ProcessTimeout(errors.IdleTimeout, opts.IdleTimeout, commandLine))
		case <-overallC:
			return stop(errors.ProcessTimeout(errors.OverallTimeout, opts.Timeout, commandLine))
		case <-ctx.Done():
			return stop(ctx.Err())
		}
	}

	close(done)
	pr.Close()
	readErr := g.Wait()
	result.Duration = clock.Since(start)

	if waitErr != nil {
		if exitErr, ok := waitErr.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
			return result, errors.ProcessFailure(result.ExitCode, commandLine)
		}
		return result, fmt.Errorf("Failed to run %s: %w", commandLine, waitErr)
	}
	result.ExitCode = 0
	if readErr != nil {
		return result, fmt.Errorf("Failed to read output of %s: %w", commandLine, readErr)
	}
	return result, nil
}
