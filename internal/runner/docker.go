package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	mdwerror "github.com/msto63/ff/foundation/core/error"
	mdwlog "github.com/msto63/ff/foundation/core/log"
	"github.com/msto63/ff/internal/docker"
)

// ContainerAPI is the subset of the docker client used by DockerRunner
type ContainerAPI interface {
	PullImage(ctx context.Context, image string) error
	CreateContainer(ctx context.Context, cfg docker.ContainerConfig) (string, error)
	StartContainer(ctx context.Context, id string) error
	WaitContainer(ctx context.Context, id string) (int64, error)
	CopyLogs(ctx context.Context, id string, stdout, stderr io.Writer) error
	RemoveContainer(ctx context.Context, id string, force bool) error
	Close() error
}

// DockerOptions configure a DockerRunner
type DockerOptions struct {
	Options
	Image string
	// Workdir is where HostDir is mounted inside the container
	Workdir string
	// HostDir is bind-mounted read-write; relative paths resolve against it
	HostDir string
	// Pull fetches the image when it is not present locally
	Pull bool
}

// DockerRunner runs commands in a throwaway container
type DockerRunner struct {
	api    ContainerAPI
	opts   DockerOptions
	logger *mdwlog.Logger
}

// NewDocker creates a DockerRunner on top of api
func NewDocker(api ContainerAPI, opts DockerOptions) *DockerRunner {
	opts.Options = opts.Options.withDefaults("runner")
	if opts.Workdir == "" {
		opts.Workdir = "/work"
	}
	return &DockerRunner{
		api:    api,
		opts:   opts,
		logger: opts.Logger.WithFields(mdwlog.Fields{"backend": "docker", "image": opts.Image}),
	}
}

// Name returns "docker"
func (r *DockerRunner) Name() string { return "docker" }

// Close releases the docker client
func (r *DockerRunner) Close() error { return r.api.Close() }

// Run executes command in a new container and removes it afterwards
func (r *DockerRunner) Run(ctx context.Context, command string) (*Result, error) {
	program, args, err := Split(command)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, r.opts.Timeout)
	defer cancel()

	if r.opts.Pull {
		if err := r.api.PullImage(ctx, r.opts.Image); err != nil {
			return nil, r.wrap(err, "pulling image", mdwerror.CodeToolUnavailable)
		}
	}

	mapped := make([]string, len(args))
	for i, arg := range args {
		mapped[i] = r.containerPath(arg)
	}

	cfg := docker.ContainerConfig{
		Image:      r.opts.Image,
		WorkDir:    r.opts.Workdir,
		Entrypoint: []string{program},
		Cmd:        mapped,
		Labels:     map[string]string{"ff.run": "true"},
		Mounts: []docker.Mount{
			{Source: r.opts.HostDir, Target: r.opts.Workdir},
		},
	}
	// keep output files owned by the invoking user
	if uid, gid := os.Getuid(), os.Getgid(); uid >= 0 && gid >= 0 {
		cfg.User = fmt.Sprintf("%d:%d", uid, gid)
	}

	timer := r.logger.StartTimer("docker run").WithField("program", program)
	start := time.Now()

	id, err := r.api.CreateContainer(ctx, cfg)
	if err != nil {
		timer.StopWithError(err)
		return nil, r.wrap(err, "creating container", mdwerror.CodeCommandFailed)
	}
	defer func() {
		// the run context may already be cancelled
		if err := r.api.RemoveContainer(context.Background(), id, true); err != nil {
			r.logger.WarnWithErr("container not removed", err, mdwlog.Fields{"container": id})
		}
	}()

	if err := r.api.StartContainer(ctx, id); err != nil {
		timer.StopWithError(err)
		return nil, r.wrap(err, "starting container", mdwerror.CodeCommandFailed)
	}

	status, waitErr := r.api.WaitContainer(ctx, id)

	var stdout, stderr bytes.Buffer
	if err := r.api.CopyLogs(context.Background(), id,
		io.MultiWriter(&stdout, r.opts.Stdout),
		io.MultiWriter(&stderr, r.opts.Stderr)); err != nil {
		r.logger.WarnWithErr("container logs unavailable", err, mdwlog.Fields{"container": id})
	}

	res := &Result{
		Backend:  r.Name(),
		Program:  program,
		Args:     mapped,
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: int(status),
		Duration: time.Since(start),
	}

	if waitErr != nil {
		timer.StopWithError(waitErr)
		code := mdwerror.CodeCommandFailed
		if ctx.Err() == context.DeadlineExceeded {
			code = mdwerror.CodeTimeout
		}
		return res, r.wrap(waitErr, "waiting for container", code)
	}
	if res.ExitCode != 0 {
		err := failure("runner.DockerRun", res)
		timer.StopWithError(err)
		return res, err
	}

	timer.Stop()
	return res, nil
}

// containerPath rewrites absolute paths under HostDir to the mount target
func (r *DockerRunner) containerPath(arg string) string {
	if !filepath.IsAbs(arg) || r.opts.HostDir == "" {
		return arg
	}
	rel, err := filepath.Rel(r.opts.HostDir, arg)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		r.logger.Warn("path outside the mounted directory", mdwlog.Fields{"path": arg})
		return arg
	}
	return path.Join(r.opts.Workdir, filepath.ToSlash(rel))
}

func (r *DockerRunner) wrap(err error, msg string, code mdwerror.Code) error {
	return mdwerror.Wrap(err, msg).
		WithCode(code).
		WithOperation("runner.DockerRun").
		WithDetail("image", r.opts.Image)
}
