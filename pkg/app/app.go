// Package app assembles a Dockerfile from high-level commands, builds it with the
// docker CLI and removes the temporary files it created along the way.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/go-containerregistry/pkg/name"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/dockerapp/dockerapp/pkg/cleanup"
	"github.com/dockerapp/dockerapp/pkg/docker"
	"github.com/dockerapp/dockerapp/pkg/dockerfile"
	"github.com/dockerapp/dockerapp/pkg/dockerignore"
	"github.com/dockerapp/dockerapp/pkg/errors"
	"github.com/dockerapp/dockerapp/pkg/global"
	"github.com/dockerapp/dockerapp/pkg/util"
	"github.com/dockerapp/dockerapp/pkg/util/console"
	"github.com/dockerapp/dockerapp/pkg/util/files"
	"github.com/dockerapp/dockerapp/pkg/util/shell"
	"github.com/dockerapp/dockerapp/pkg/variables"
)

// App owns one build: its instructions, its variables and the temporary files it
// leaves behind. It is not safe for concurrent use.
type App struct {
	sourcePath string
	list       *dockerfile.List
	vars       *variables.Store
	tracker    *cleanup.Tracker

	runner   *shell.Runner
	clock    clockwork.Clock
	output   io.Writer
	tool     []string
	progress string
	tag      string
	goos     string

	timeout            time.Duration
	idleTimeout        time.Duration
	combineRunCommands bool
	cacheBust          bool
	insideAppPath      string

	tmpDir        string
	lastCacheBust int64
}

type Option func(*App)

// WithEnviron replaces the environment snapshot available as ${NAME} tokens.
func WithEnviron(environ []string) Option {
	return func(a *App) { a.vars = variables.New(environ) }
}

func WithRunner(runner *shell.Runner) Option {
	return func(a *App) { a.runner = runner }
}

func WithClock(clock clockwork.Clock) Option {
	return func(a *App) { a.clock = clock }
}

// WithOutput sets where the build tool output is streamed. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(a *App) { a.output = w }
}

func WithTool(tool []string) Option {
	return func(a *App) { a.tool = tool }
}

func WithTimeout(d time.Duration) Option {
	return func(a *App) { a.timeout = d }
}

func WithIdleTimeout(d time.Duration) Option {
	return func(a *App) { a.idleTimeout = d }
}

func WithCombineRunCommands(combine bool) Option {
	return func(a *App) { a.combineRunCommands = combine }
}

func WithProgress(progress string) Option {
	return func(a *App) { a.progress = progress }
}

func WithTag(tag string) Option {
	return func(a *App) { a.tag = tag }
}

// WithInsideAppPath sets where the source tree is added inside the image. Defaults to /app/.
func WithInsideAppPath(path string) Option {
	return func(a *App) { a.insideAppPath = path }
}

// New creates an App building on top of image, with sourcePath as build context and
// project root. Nothing outside sourcePath is ever deleted by Cleanup.
func New(image string, sourcePath string, opts ...Option) (*App, error) {
	if strings.TrimSpace(image) == "" {
		return nil, errors.ConfigurationError("The image name is empty.")
	}
	if sourcePath == "" {
		sourcePath = "./"
	}
	absSource, err := files.AbsPath(sourcePath)
	if err != nil {
		return nil, errors.ConfigurationErrorf("Failed to resolve the source path %q: %s", sourcePath, err)
	}
	if isDir, err := files.IsDir(absSource); err != nil || !isDir {
		return nil, errors.ConfigurationErrorf("The source path %q is not a directory.", sourcePath)
	}
	tracker, err := cleanup.New(absSource)
	if err != nil {
		return nil, err
	}

	a := &App{
		sourcePath:    tracker.Root(),
		list:          dockerfile.NewList(image),
		vars:          variables.New(os.Environ()),
		tracker:       tracker,
		runner:        shell.NewRunner(),
		clock:         clockwork.NewRealClock(),
		output:        console.ConsoleInstance,
		tool:          []string{global.DefaultTool},
		progress:      global.DefaultProgress,
		goos:          runtime.GOOS,
		insideAppPath: global.InsideAppPath,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *App) SourcePath() string {
	return a.sourcePath
}

func (a *App) InsideAppPath() string {
	return a.insideAppPath
}

func (a *App) SetFromImage(image string) error {
	if strings.TrimSpace(image) == "" {
		return errors.ConfigurationError("The image name is empty.")
	}
	a.list.SetBaseImage(image)
	return nil
}

func (a *App) SetVariable(name string, value variables.Scalar) error {
	return a.vars.Set(name, value)
}

// SetTimeout sets both the overall and the idle timeout. Zero means no limit.
func (a *App) SetTimeout(d time.Duration) {
	a.timeout = d
	a.idleTimeout = d
}

func (a *App) SetCombineRunCommands(combine bool) {
	a.combineRunCommands = combine
}

// AddCommand appends a raw Dockerfile line. RUN lines still take part in combining.
func (a *App) AddCommand(line string) {
	a.list.Append(dockerfile.Parse(line))
}

func (a *App) PrependCommand(line string) {
	a.list.Prepend(dockerfile.Parse(line))
}

// AddRunCommand appends a RUN instruction. A multi-line command stays one instruction.
func (a *App) AddRunCommand(command string) {
	a.list.Append(dockerfile.NewRun(command))
}

func (a *App) AddWorkdirCommand(path string) {
	a.list.Append(dockerfile.NewWorkdir(path))
}

// KeepContainerRunning makes containers of the image idle instead of exiting.
func (a *App) KeepContainerRunning() {
	a.list.Append(dockerfile.NewCmd(`["sleep", "infinity"]`))
}

// DisableCacheAfterThisLine makes every instruction added after this call run
// without the build cache.
func (a *App) DisableCacheAfterThisLine() {
	a.cacheBust = true
	a.list.Append(dockerfile.NewArg(docker.CacheBustArg))
}

// Dockerfile renders the Dockerfile as Build would write it.
func (a *App) Dockerfile() (string, error) {
	return a.render(false)
}

func (a *App) render(noCache bool) (string, error) {
	l := a.list.Clone()
	if noCache {
		l.Prepend(dockerfile.NewArg(docker.CacheBustArg))
	}
	l.Prepend(
		dockerfile.NewRun("mkdir -p "+a.insideAppPath),
		dockerfile.NewAdd("./", a.insideAppPath),
		dockerfile.NewWorkdir(a.insideAppPath),
	)

	lines := dockerfile.Render(l, a.combineRunCommands, a.vars.Apply)
	if err := validateImage(strings.TrimPrefix(lines[0], "FROM ")); err != nil {
		return "", err
	}
	return dockerfile.Join(lines), nil
}

// validateImage checks the base image once variables are applied. Images that still
// reference build arguments can only be checked by the build tool.
func validateImage(image string) error {
	if strings.TrimSpace(image) == "" {
		return errors.ConfigurationError("The image name is empty.")
	}
	if strings.Contains(image, "$") {
		return nil
	}
	for _, field := range strings.Fields(image) {
		if strings.HasPrefix(field, "--") {
			continue
		}
		if _, err := name.ParseReference(field); err != nil {
			return errors.ConfigurationErrorf("%q is not a valid image name: %s", field, err)
		}
		return nil
	}
	return errors.ConfigurationErrorf("%q does not name an image.", image)
}

// Build writes the Dockerfile and runs the build tool with the build cache.
func (a *App) Build(ctx context.Context) error {
	return a.build(ctx, false)
}

// BuildWithoutCache declares the cache bust argument before the first instruction
// added by the caller and passes --no-cache to the build tool.
func (a *App) BuildWithoutCache(ctx context.Context) error {
	return a.build(ctx, true)
}

func (a *App) build(ctx context.Context, noCache bool) error {
	contents, err := a.render(noCache)
	if err != nil {
		return err
	}
	console.Debug(contents)

	contextPath, err := a.SourcePathForBuildContext()
	if err != nil {
		return errors.ConfigurationError(err.Error())
	}

	tmpDir, err := a.tempDir()
	if err != nil {
		return err
	}
	dockerfilePath := filepath.Join(tmpDir, global.DockerfileName)
	a.tracker.RegisterFile(dockerfilePath)
	if err := files.WriteIfDifferent(dockerfilePath, contents); err != nil {
		return fmt.Errorf("Failed to write %s: %w", dockerfilePath, err)
	}

	buildArgs := map[string]string{}
	if a.cacheBust || noCache {
		buildArgs[docker.CacheBustArg] = docker.CacheBustValue(a.nextCacheBust())
	}
	args := docker.BuildArgs(docker.BuildOptions{
		Tool:        a.tool,
		ContextPath: ".",
		Dockerfile:  dockerfile.RelativeTempDir() + "/" + global.DockerfileName,
		Progress:    a.progress,
		NoCache:     noCache,
		BuildArgs:   buildArgs,
		Tag:         a.tag,
	})

	console.Infof("Executing the command\n%s\n", shell.CommandLine(args))
	result, err := a.runner.Run(ctx, shell.Options{
		Command:     args,
		Dir:         contextPath,
		Timeout:     a.timeout,
		IdleTimeout: a.idleTimeout,
		Output:      a.output,
	})
	if err != nil {
		return err
	}
	console.Debugf("Build finished in %s", result.Duration.Round(time.Millisecond))
	return nil
}

// nextCacheBust returns the current time in nanoseconds, moved forward if needed so
// no two builds of this App share a value.
func (a *App) nextCacheBust() int64 {
	now := a.clock.Now().UnixNano()
	if now <= a.lastCacheBust {
		now = a.lastCacheBust + 1
	}
	a.lastCacheBust = now
	return now
}

// ApplyVariablesToFile replaces the variables inside filePathInImage during the build.
// A helper script holding the variables set so far is written to the temporary
// directory and instructions are added to copy it into the image and run it.
func (a *App) ApplyVariablesToFile(filePathInImage string) error {
	tmpDir, err := a.tempDir()
	if err != nil {
		return err
	}

	script, err := renderApplyVariablesScript(a.vars, filePathInImage)
	if err != nil {
		return err
	}

	scriptName := "apply-variables-" + uuid.NewString() + ".sh"
	hostPath := filepath.Join(tmpDir, scriptName)
	a.tracker.RegisterFile(hostPath)
	if err := os.WriteFile(hostPath, script, 0o755); err != nil { //#nosec G306
		return fmt.Errorf("Failed to write %s: %w", hostPath, err)
	}

	relPath := dockerfile.RelativeTempDir() + "/" + scriptName
	a.warnIfIgnored(relPath)

	insidePath := global.ScriptsDirInside + scriptName
	a.AddRunCommand("mkdir -p " + global.ScriptsDirInside)
	a.list.Append(dockerfile.NewAdd(relPath, insidePath))
	a.AddRunCommand("chmod +x " + insidePath)
	a.AddRunCommand(insidePath)
	return nil
}

func (a *App) warnIfIgnored(relPath string) {
	matcher, err := dockerignore.Load(a.sourcePath)
	if err != nil {
		console.Warnf("Failed to check %s: %s", dockerignore.Filename, err)
		return
	}
	if matcher.Excludes(relPath) {
		console.Warnf("%s excludes %s, the build won't be able to add it", dockerignore.Filename, relPath)
	}
}

// tempDir creates the temporary directory on first use, removing anything a
// previous run left in it, and registers it for cleanup.
func (a *App) tempDir() (string, error) {
	if a.tmpDir != "" {
		return dockerfile.BuildTempDir(a.sourcePath)
	}
	tmpDir, err := dockerfile.ResetTempDir(a.sourcePath)
	if err != nil {
		return "", err
	}
	a.tmpDir = tmpDir
	a.tracker.RegisterDir(tmpDir)
	return tmpDir, nil
}

// SourcePathForBuildContext is the source path in the form the build tool expects
// for the current platform.
func (a *App) SourcePathForBuildContext() (string, error) {
	return util.BuildContextPath(a.goos, a.sourcePath)
}

// Cleanup deletes the Dockerfile, helper scripts and temporary directory.
func (a *App) Cleanup() error {
	if err := a.tracker.Cleanup(); err != nil {
		return err
	}
	a.tmpDir = ""
	return nil
}
