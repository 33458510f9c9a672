package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"sync"
	"time"

	mdwerror "github.com/msto63/ff/foundation/core/error"
	mdwlog "github.com/msto63/ff/foundation/core/log"
)

// LocalOptions configure a LocalRunner
type LocalOptions struct {
	Options
	// CheckAvailability runs "<program> -version" before the first run
	CheckAvailability bool
	// Dir is the process working directory; empty uses the current one
	Dir string
}

// LocalRunner runs commands as child processes
type LocalRunner struct {
	opts    LocalOptions
	logger  *mdwlog.Logger
	mu      sync.Mutex
	checked map[string]bool
}

// NewLocal creates a LocalRunner
func NewLocal(opts LocalOptions) *LocalRunner {
	opts.Options = opts.Options.withDefaults("runner")
	return &LocalRunner{
		opts:    opts,
		logger:  opts.Logger.WithField("backend", "local"),
		checked: make(map[string]bool),
	}
}

// Name returns "local"
func (r *LocalRunner) Name() string { return "local" }

// Close is a no-op
func (r *LocalRunner) Close() error { return nil }

// CheckAvailability verifies that program can be launched. Only a failed
// launch counts; the exit status of "-version" is ignored.
func (r *LocalRunner) CheckAvailability(ctx context.Context, program string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.checked[program] {
		return nil
	}

	cmd := exec.CommandContext(ctx, program, "-version")
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Start(); err != nil {
		return mdwerror.Wrap(err, program+" is not available in PATH").
			WithCode(mdwerror.CodeToolUnavailable).
			WithOperation("runner.CheckAvailability").
			WithDetail("program", program)
	}
	_ = cmd.Wait()

	r.checked[program] = true
	return nil
}

// Run executes command and waits for it to finish
func (r *LocalRunner) Run(ctx context.Context, command string) (*Result, error) {
	program, args, err := Split(command)
	if err != nil {
		return nil, err
	}

	if r.opts.CheckAvailability {
		if err := r.CheckAvailability(ctx, program); err != nil {
			return nil, err
		}
	}

	ctx, cancel := withTimeout(ctx, r.opts.Timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Dir = r.opts.Dir
	cmd.Stdout = io.MultiWriter(&stdout, r.opts.Stdout)
	cmd.Stderr = io.MultiWriter(&stderr, r.opts.Stderr)

	timer := r.logger.StartTimer("local run").WithField("program", program)
	start := time.Now()
	runErr := cmd.Run()

	res := &Result{
		Backend:  r.Name(),
		Program:  program,
		Args:     args,
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	if runErr == nil {
		timer.Stop()
		return res, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		res.ExitCode = -1
		timer.StopWithError(ctxErr)
		code := mdwerror.CodeTimeout
		if errors.Is(ctxErr, context.Canceled) {
			code = mdwerror.CodeCommandFailed
		}
		return res, mdwerror.Wrap(ctxErr, "command interrupted").
			WithCode(code).
			WithOperation("runner.Run").
			WithDetail("program", program).
			WithDetail("timeout", r.opts.Timeout.String())
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		err := failure("runner.Run", res)
		timer.StopWithError(err)
		return res, err
	}

	timer.StopWithError(runErr)
	code := mdwerror.CodeCommandFailed
	if errors.Is(runErr, exec.ErrNotFound) {
		code = mdwerror.CodeToolUnavailable
	}
	return nil, mdwerror.Wrap(runErr, "failed to execute command").
		WithCode(code).
		WithOperation("runner.Run").
		WithDetail("program", program)
}
