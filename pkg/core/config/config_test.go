package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	mdwerror "github.com/msto63/ff/foundation/core/error"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"seconds", "30s", 30 * time.Second, false},
		{"minutes", "5m", 5 * time.Minute, false},
		{"complex", "1h30m", 90 * time.Minute, false},
		{"invalid", "invalid", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))

			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && d.Duration != tt.expected {
				t.Errorf("UnmarshalText() = %v, want %v", d.Duration, tt.expected)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Tool.Program != "ffmpeg" {
		t.Errorf("Tool.Program = %q, want ffmpeg", cfg.Tool.Program)
	}
	if !cfg.Tool.CheckAvailability {
		t.Error("Tool.CheckAvailability should default to true")
	}
	if cfg.Render.Width != 1920 || cfg.Render.Height != 1080 {
		t.Errorf("Render size = %dx%d, want 1920x1080", cfg.Render.Width, cfg.Render.Height)
	}
	if cfg.Render.VideoCodec != "libx264" || cfg.Render.AudioCodec != "aac" {
		t.Errorf("Render codecs = %s/%s", cfg.Render.VideoCodec, cfg.Render.AudioCodec)
	}
	if cfg.Runner.Backend != BackendLocal {
		t.Errorf("Runner.Backend = %q, want local", cfg.Runner.Backend)
	}
	if !cfg.History.Enabled || cfg.History.ListLimit != 20 {
		t.Errorf("History = %+v", cfg.History)
	}
	if cfg.History.Path != filepath.Join("~/.ff", "history.db") {
		t.Errorf("History.Path = %q", cfg.History.Path)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v", err)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_TOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ff.toml", `
[general]
log_level = "debug"
data_dir = "`+dir+`"

[tool]
check_availability = false

[render]
width = 1280
height = 720

[runner]
backend = "docker"
timeout = "90s"

[runner.docker]
image = "ffmpeg:test"

[history]
enabled = false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.General.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.General.LogLevel)
	}
	if cfg.Tool.CheckAvailability {
		t.Error("explicit check_availability = false was overridden")
	}
	if cfg.Tool.Program != "ffmpeg" {
		t.Errorf("Program default lost: %q", cfg.Tool.Program)
	}
	if cfg.Render.Width != 1280 || cfg.Render.Height != 720 {
		t.Errorf("Render = %+v", cfg.Render)
	}
	if cfg.Render.VideoCodec != "libx264" {
		t.Errorf("VideoCodec default lost: %q", cfg.Render.VideoCodec)
	}
	if cfg.Runner.Backend != BackendDocker || cfg.Runner.Timeout.Duration != 90*time.Second {
		t.Errorf("Runner = %+v", cfg.Runner)
	}
	if cfg.Runner.Docker.Image != "ffmpeg:test" || cfg.Runner.Docker.Workdir != "/work" {
		t.Errorf("Docker = %+v", cfg.Runner.Docker)
	}
	if cfg.History.Enabled {
		t.Error("history should be disabled")
	}
	if cfg.History.Path != filepath.Join(dir, "history.db") {
		t.Errorf("History.Path = %q, want under data_dir", cfg.History.Path)
	}
	if cfg.Source() != path {
		t.Errorf("Source() = %q, want %q", cfg.Source(), path)
	}
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ff.yaml", `
render:
  video_codec: libx265
interactive:
  prompt: "ff> "
  plain: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Render.VideoCodec != "libx265" || cfg.Render.Width != 1920 {
		t.Errorf("Render = %+v", cfg.Render)
	}
	if cfg.Interactive.Prompt != "ff> " || !cfg.Interactive.Plain {
		t.Errorf("Interactive = %+v", cfg.Interactive)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		file     string
		content  string
		wantCode mdwerror.Code
	}{
		{"unknown backend", "a.toml", "[runner]\nbackend = \"ssh\"\n", mdwerror.CodeInvalidConfig},
		{"zero width", "b.toml", "[render]\nwidth = 0\n", mdwerror.CodeInvalidConfig},
		{"unknown key", "c.toml", "[render]\ncolour = 1\n", mdwerror.CodeInvalidConfig},
		{"bad duration", "d.toml", "[runner]\ntimeout = \"soon\"\n", mdwerror.CodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.content)
			_, err := Load(path)
			if !mdwerror.HasCode(err, tt.wantCode) {
				t.Errorf("Load() error = %v, want code %s", err, tt.wantCode)
			}
		})
	}

	_, err := Load(filepath.Join(dir, "missing.toml"))
	if !mdwerror.HasCode(err, mdwerror.CodeNotFound) {
		t.Errorf("missing file error = %v, want NOT_FOUND", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ff.toml", "[general]\nlog_level = \"warn\"\n")

	t.Setenv("FF_LOG_LEVEL", "trace")
	t.Setenv("FF_LOG_FORMAT", "json")
	t.Setenv("FF_RUNNER", "docker")
	t.Setenv("FF_FFMPEG", "/opt/ffmpeg/bin/ffmpeg")
	t.Setenv("FF_HISTORY_PATH", "$FF_TEST_HOME/runs.db")
	t.Setenv("FF_TEST_HOME", dir)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.General.LogLevel != "trace" || cfg.General.LogFormat != "json" {
		t.Errorf("General = %+v", cfg.General)
	}
	if cfg.Runner.Backend != BackendDocker {
		t.Errorf("Backend = %q", cfg.Runner.Backend)
	}
	if cfg.Tool.Program != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("Program = %q", cfg.Tool.Program)
	}
	if cfg.History.Path != filepath.Join(dir, "runs.db") {
		t.Errorf("History.Path = %q", cfg.History.Path)
	}
}

func TestLoadDefault(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)
	t.Setenv("HOME", dir)
	t.Setenv("FF_CONFIG", "")

	cfg, err := LoadDefault("")
	if err != nil {
		t.Fatalf("LoadDefault() without files error = %v", err)
	}
	if cfg.Source() != "" {
		t.Errorf("Source() = %q, want empty for defaults", cfg.Source())
	}
	if cfg.General.DataDir != filepath.Join(dir, ".ff") {
		t.Errorf("DataDir = %q, want expanded home", cfg.General.DataDir)
	}

	if err := os.Mkdir("configs", 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, "configs", "ff.toml", "[render]\nwidth = 640\n")

	cfg, err = LoadDefault("")
	if err != nil {
		t.Fatalf("LoadDefault() error = %v", err)
	}
	if cfg.Render.Width != 640 {
		t.Errorf("Width = %d, want 640 from ./configs/ff.toml", cfg.Render.Width)
	}

	explicit := writeFile(t, dir, "other.yaml", "render:\n  width: 320\n")
	t.Setenv("FF_CONFIG", explicit)
	cfg, err = LoadDefault("")
	if err != nil {
		t.Fatalf("LoadDefault() with FF_CONFIG error = %v", err)
	}
	if cfg.Render.Width != 320 {
		t.Errorf("Width = %d, want 320 from FF_CONFIG", cfg.Render.Width)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "test.env", "FF_DOTENV_A=from-file\nFF_DOTENV_B=from-file\n")

	t.Setenv("FF_DOTENV_B", "from-env")
	os.Unsetenv("FF_DOTENV_A")
	defer os.Unsetenv("FF_DOTENV_A")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	if got := os.Getenv("FF_DOTENV_A"); got != "from-file" {
		t.Errorf("FF_DOTENV_A = %q, want from-file", got)
	}
	if got := os.Getenv("FF_DOTENV_B"); got != "from-env" {
		t.Errorf("FF_DOTENV_B = %q, existing variables must win", got)
	}

	err := LoadDotEnv(filepath.Join(dir, "missing.env"))
	if !mdwerror.HasCode(err, mdwerror.CodeEnvironmentError) {
		t.Errorf("missing env file error = %v, want ENVIRONMENT_ERROR", err)
	}
}
