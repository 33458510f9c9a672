package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"runtime"
	"strings"
	"testing"
	"time"

	mdwerror "github.com/msto63/ff/foundation/core/error"
	"github.com/msto63/ff/internal/docker"
	"github.com/msto63/ff/pkg/core/config"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name     string
		command  string
		program  string
		args     []string
		wantCode mdwerror.Code
	}{
		{
			name:    "rendered convert",
			command: `ffmpeg -i "video.mp4" "video.avi"`,
			program: "ffmpeg",
			args:    []string{"-i", "video.mp4", "video.avi"},
		},
		{
			name:    "quoted path with spaces",
			command: `ffmpeg -i "my clips/a.mp4" -vf scale=1920:1080 "out.mp4"`,
			program: "ffmpeg",
			args:    []string{"-i", "my clips/a.mp4", "-vf", "scale=1920:1080", "out.mp4"},
		},
		{
			name:    "program only",
			command: "  ffmpeg  ",
			program: "ffmpeg",
			args:    []string{},
		},
		{name: "empty", command: "", wantCode: mdwerror.CodeInvalidCommand},
		{name: "blank", command: " \t ", wantCode: mdwerror.CodeInvalidCommand},
		{name: "unterminated quote", command: `ffmpeg -i "a.mp4`, wantCode: mdwerror.CodeInvalidCommand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, args, err := Split(tt.command)
			if tt.wantCode != "" {
				if !mdwerror.HasCode(err, tt.wantCode) {
					t.Fatalf("Split() error = %v, want %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Split() error = %v", err)
			}
			if program != tt.program {
				t.Errorf("program = %q, want %q", program, tt.program)
			}
			if strings.Join(args, "|") != strings.Join(tt.args, "|") || len(args) != len(tt.args) {
				t.Errorf("args = %q, want %q", args, tt.args)
			}
		})
	}
}

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestLocalRunner_Success(t *testing.T) {
	requireShell(t)

	var stdout bytes.Buffer
	r := NewLocal(LocalOptions{Options: Options{Stdout: &stdout}})

	res, err := r.Run(context.Background(), `sh -c "echo converted"`)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !res.Success() || res.Backend != "local" || res.Program != "sh" {
		t.Errorf("result = %+v", res)
	}
	if strings.TrimSpace(string(res.Stdout)) != "converted" {
		t.Errorf("Stdout = %q", res.Stdout)
	}
	if strings.TrimSpace(stdout.String()) != "converted" {
		t.Errorf("forwarded stdout = %q", stdout.String())
	}
}

func TestLocalRunner_NonZeroExit(t *testing.T) {
	requireShell(t)

	var stderr bytes.Buffer
	r := NewLocal(LocalOptions{Options: Options{Stderr: &stderr}})

	res, err := r.Run(context.Background(), `sh -c "echo broken input >&2; exit 3"`)
	if !mdwerror.HasCode(err, mdwerror.CodeCommandFailed) {
		t.Fatalf("Run() error = %v, want COMMAND_FAILED", err)
	}
	if res == nil || res.ExitCode != 3 || res.Success() {
		t.Fatalf("result = %+v, want exit code 3", res)
	}

	var mdwErr *mdwerror.Error
	if !errors.As(err, &mdwErr) {
		t.Fatal("error is not an mdwerror.Error")
	}
	if v, _ := mdwErr.Detail("exit_code"); v != 3 {
		t.Errorf("exit_code detail = %v", v)
	}
	if v, _ := mdwErr.Detail("stderr"); v != "broken input" {
		t.Errorf("stderr detail = %v", v)
	}
	if !strings.Contains(stderr.String(), "broken input") {
		t.Errorf("forwarded stderr = %q", stderr.String())
	}
}

func TestLocalRunner_MissingProgram(t *testing.T) {
	r := NewLocal(LocalOptions{})
	_, err := r.Run(context.Background(), "ff-no-such-program-xyz -i a.mp4 b.avi")
	if !mdwerror.HasCode(err, mdwerror.CodeToolUnavailable) {
		t.Errorf("Run() error = %v, want TOOL_UNAVAILABLE", err)
	}

	checked := NewLocal(LocalOptions{CheckAvailability: true})
	err = checked.CheckAvailability(context.Background(), "ff-no-such-program-xyz")
	if !mdwerror.HasCode(err, mdwerror.CodeToolUnavailable) {
		t.Errorf("CheckAvailability() error = %v, want TOOL_UNAVAILABLE", err)
	}
}

func TestLocalRunner_Timeout(t *testing.T) {
	requireShell(t)
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}

	r := NewLocal(LocalOptions{Options: Options{Timeout: 50 * time.Millisecond}})
	start := time.Now()
	_, err := r.Run(context.Background(), "sleep 5")
	if !mdwerror.HasCode(err, mdwerror.CodeTimeout) {
		t.Fatalf("Run() error = %v, want TIMEOUT", err)
	}
	if time.Since(start) > 3*time.Second {
		t.Error("timeout did not stop the process")
	}
}

func TestLocalRunner_InvalidCommand(t *testing.T) {
	r := NewLocal(LocalOptions{})
	if _, err := r.Run(context.Background(), ""); !mdwerror.HasCode(err, mdwerror.CodeInvalidCommand) {
		t.Errorf("Run(\"\") error = %v, want INVALID_COMMAND", err)
	}
}

type fakeContainers struct {
	pulled  []string
	created docker.ContainerConfig
	removed []string
	exit    int64
	waitErr error
	stdout  string
	stderr  string
	closed  bool
}

func (f *fakeContainers) PullImage(ctx context.Context, image string) error {
	f.pulled = append(f.pulled, image)
	return nil
}

func (f *fakeContainers) CreateContainer(ctx context.Context, cfg docker.ContainerConfig) (string, error) {
	f.created = cfg
	return "c1", nil
}

func (f *fakeContainers) StartContainer(ctx context.Context, id string) error { return nil }

func (f *fakeContainers) WaitContainer(ctx context.Context, id string) (int64, error) {
	return f.exit, f.waitErr
}

func (f *fakeContainers) CopyLogs(ctx context.Context, id string, stdout, stderr io.Writer) error {
	io.WriteString(stdout, f.stdout)
	io.WriteString(stderr, f.stderr)
	return nil
}

func (f *fakeContainers) RemoveContainer(ctx context.Context, id string, force bool) error {
	f.removed = append(f.removed, id)
	return nil
}

func (f *fakeContainers) Close() error {
	f.closed = true
	return nil
}

func TestDockerRunner_Run(t *testing.T) {
	hostDir := t.TempDir()
	api := &fakeContainers{stdout: "done\n"}
	var stdout bytes.Buffer
	r := NewDocker(api, DockerOptions{
		Options: Options{Stdout: &stdout},
		Image:   "ffmpeg:test",
		HostDir: hostDir,
		Pull:    true,
	})

	command := `ffmpeg -i "` + hostDir + `/clips/a.mp4" "out/a.avi"`
	res, err := r.Run(context.Background(), command)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(api.pulled) != 1 || api.pulled[0] != "ffmpeg:test" {
		t.Errorf("pulled = %v", api.pulled)
	}
	cfg := api.created
	if cfg.Image != "ffmpeg:test" || cfg.WorkDir != "/work" {
		t.Errorf("container config = %+v", cfg)
	}
	if len(cfg.Entrypoint) != 1 || cfg.Entrypoint[0] != "ffmpeg" {
		t.Errorf("Entrypoint = %v", cfg.Entrypoint)
	}
	wantCmd := []string{"-i", "/work/clips/a.mp4", "out/a.avi"}
	if strings.Join(cfg.Cmd, "|") != strings.Join(wantCmd, "|") {
		t.Errorf("Cmd = %q, want %q", cfg.Cmd, wantCmd)
	}
	if len(cfg.Mounts) != 1 || cfg.Mounts[0].Source != hostDir || cfg.Mounts[0].Target != "/work" {
		t.Errorf("Mounts = %+v", cfg.Mounts)
	}
	if len(api.removed) != 1 {
		t.Errorf("container not removed: %v", api.removed)
	}
	if res.Backend != "docker" || !res.Success() || stdout.String() != "done\n" {
		t.Errorf("result = %+v, forwarded %q", res, stdout.String())
	}

	if err := r.Close(); err != nil || !api.closed {
		t.Errorf("Close() = %v, closed = %v", err, api.closed)
	}
}

func TestDockerRunner_Failure(t *testing.T) {
	api := &fakeContainers{exit: 1, stderr: "Unknown encoder 'x'\n"}
	r := NewDocker(api, DockerOptions{Image: "ffmpeg:test", HostDir: t.TempDir()})

	res, err := r.Run(context.Background(), `ffmpeg -i "a.mp4" "b.avi"`)
	if !mdwerror.HasCode(err, mdwerror.CodeCommandFailed) {
		t.Fatalf("Run() error = %v, want COMMAND_FAILED", err)
	}
	if res == nil || res.ExitCode != 1 {
		t.Fatalf("result = %+v", res)
	}
	if len(api.pulled) != 0 {
		t.Errorf("image pulled although Pull is false")
	}
	if len(api.removed) != 1 {
		t.Error("failed container not removed")
	}

	api = &fakeContainers{waitErr: errors.New("daemon went away")}
	r = NewDocker(api, DockerOptions{Image: "ffmpeg:test"})
	if _, err := r.Run(context.Background(), "ffmpeg -version"); !mdwerror.HasCode(err, mdwerror.CodeCommandFailed) {
		t.Errorf("wait error = %v, want COMMAND_FAILED", err)
	}
}

func TestDockerRunner_PathOutsideMount(t *testing.T) {
	r := NewDocker(&fakeContainers{}, DockerOptions{Image: "x", HostDir: "/home/user/project"})

	tests := []struct {
		in, want string
	}{
		{"/home/user/project/a.mp4", "/work/a.mp4"},
		{"/home/user/project", "/work"},
		{"/home/user/other/a.mp4", "/home/user/other/a.mp4"},
		{"/home/user/project-two/a.mp4", "/home/user/project-two/a.mp4"},
		{"relative/a.mp4", "relative/a.mp4"},
		{"-i", "-i"},
	}
	for _, tt := range tests {
		if got := r.containerPath(tt.in); got != tt.want {
			t.Errorf("containerPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	cfg := config.Default()
	cfg.Runner.Timeout.Duration = time.Minute

	r, err := New(cfg, Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	local, ok := r.(*LocalRunner)
	if !ok {
		t.Fatalf("New() = %T, want *LocalRunner", r)
	}
	if !local.opts.CheckAvailability || local.opts.Timeout != time.Minute {
		t.Errorf("local options = %+v", local.opts)
	}

	cfg.Runner.Backend = "ssh"
	if _, err := New(cfg, Options{}); !mdwerror.HasCode(err, mdwerror.CodeInvalidConfig) {
		t.Errorf("New(ssh) error = %v, want INVALID_CONFIG", err)
	}
}
