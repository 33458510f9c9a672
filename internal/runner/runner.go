// Package runner executes rendered media commands, either as a local
// process or inside a container.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	mdwerror "github.com/msto63/ff/foundation/core/error"
	mdwlog "github.com/msto63/ff/foundation/core/log"
	"github.com/msto63/ff/foundation/utils/stringx"
	"github.com/msto63/ff/internal/docker"
	"github.com/msto63/ff/pkg/core/config"
)

// Result describes one finished run
type Result struct {
	Backend  string
	Program  string
	Args     []string
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// Success reports whether the command exited with status zero
func (r *Result) Success() bool {
	return r != nil && r.ExitCode == 0
}

// Runner executes a command line
type Runner interface {
	// Run executes command. A non-zero exit returns both the Result and an
	// error with code COMMAND_FAILED.
	Run(ctx context.Context, command string) (*Result, error)
	// Name identifies the backend
	Name() string
	Close() error
}

// Options are shared by all backends
type Options struct {
	// Stdout and Stderr receive the command's output as it is collected
	Stdout io.Writer
	Stderr io.Writer
	// Timeout bounds a single run; zero means no limit
	Timeout time.Duration
	Logger  *mdwlog.Logger
}

func (o Options) withDefaults(component string) Options {
	if o.Stdout == nil {
		o.Stdout = io.Discard
	}
	if o.Stderr == nil {
		o.Stderr = io.Discard
	}
	if o.Logger == nil {
		o.Logger = mdwlog.Discard()
	}
	o.Logger = o.Logger.WithField("component", component)
	return o
}

// Split separates a command line into program and arguments. Double-quoted
// spans stay together so quoted paths survive.
func Split(command string) (string, []string, error) {
	parts, err := stringx.SplitQuoted(command)
	if err != nil {
		return "", nil, mdwerror.Wrap(err, "invalid command").
			WithCode(mdwerror.CodeInvalidCommand).
			WithOperation("runner.Split").
			WithDetail("command", command)
	}
	if len(parts) == 0 {
		return "", nil, mdwerror.New("command is empty").
			WithCode(mdwerror.CodeInvalidCommand).
			WithOperation("runner.Split")
	}
	return parts[0], parts[1:], nil
}

// New builds the runner selected by cfg.Runner.Backend
func New(cfg *config.Config, opts Options) (Runner, error) {
	opts.Timeout = cfg.Runner.Timeout.Duration

	switch cfg.Runner.Backend {
	case config.BackendDocker:
		client, err := docker.NewClient()
		if err != nil {
			return nil, mdwerror.Wrap(err, "docker backend unavailable").
				WithCode(mdwerror.CodeConnectionFailed).
				WithOperation("runner.New")
		}
		hostDir, err := os.Getwd()
		if err != nil {
			client.Close()
			return nil, mdwerror.Wrap(err, "resolving working directory").
				WithCode(mdwerror.CodeEnvironmentError).
				WithOperation("runner.New")
		}
		return NewDocker(client, DockerOptions{
			Options: opts,
			Image:   cfg.Runner.Docker.Image,
			Workdir: cfg.Runner.Docker.Workdir,
			HostDir: hostDir,
			Pull:    cfg.Runner.Docker.Pull,
		}), nil

	case config.BackendLocal, "":
		return NewLocal(LocalOptions{
			Options:           opts,
			CheckAvailability: cfg.Tool.CheckAvailability,
		}), nil
	}

	return nil, mdwerror.New(fmt.Sprintf("unknown runner backend: %s", cfg.Runner.Backend)).
		WithCode(mdwerror.CodeInvalidConfig).
		WithOperation("runner.New")
}

// withTimeout applies the configured run timeout to ctx
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}

// failure builds the error for a non-zero exit
func failure(op string, res *Result) error {
	err := mdwerror.New(fmt.Sprintf("command exited with status %d", res.ExitCode)).
		WithCode(mdwerror.CodeCommandFailed).
		WithOperation(op).
		WithDetail("exit_code", res.ExitCode).
		WithDetail("program", res.Program)
	if tail := lastLine(res.Stderr); tail != "" {
		err = err.WithDetail("stderr", tail)
	}
	return err
}

// lastLine returns the last non-empty line of output, truncated
func lastLine(out []byte) string {
	lines := bytes.Split(bytes.TrimSpace(out), []byte("\n"))
	if len(lines) == 0 {
		return ""
	}
	return stringx.Truncate(string(bytes.TrimSpace(lines[len(lines)-1])), 200, "...")
}
