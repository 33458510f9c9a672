package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	fconfig "github.com/msto63/ff/foundation/core/config"
	mdwerror "github.com/msto63/ff/foundation/core/error"
	"github.com/msto63/ff/foundation/utils/filex"
)

// Runner backends
const (
	BackendLocal  = "local"
	BackendDocker = "docker"
)

// Config holds the complete application configuration
type Config struct {
	General     GeneralConfig     `toml:"general" yaml:"general"`
	Tool        ToolConfig        `toml:"tool" yaml:"tool"`
	Render      RenderConfig      `toml:"render" yaml:"render"`
	Runner      RunnerConfig      `toml:"runner" yaml:"runner"`
	History     HistoryConfig     `toml:"history" yaml:"history"`
	Interactive InteractiveConfig `toml:"interactive" yaml:"interactive"`

	// path of the file the configuration was read from, empty for defaults
	source string
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`
	LogFile   string `toml:"log_file" yaml:"log_file"`
	DataDir   string `toml:"data_dir" yaml:"data_dir"`
}

// ToolConfig describes the external media tool
type ToolConfig struct {
	Program           string `toml:"program" yaml:"program"`
	CheckAvailability bool   `toml:"check_availability" yaml:"check_availability"`
}

// RenderConfig holds the defaults used when rendering commands
type RenderConfig struct {
	Width      int    `toml:"width" yaml:"width"`
	Height     int    `toml:"height" yaml:"height"`
	VideoCodec string `toml:"video_codec" yaml:"video_codec"`
	AudioCodec string `toml:"audio_codec" yaml:"audio_codec"`
}

// RunnerConfig selects and configures the execution backend
type RunnerConfig struct {
	Backend string       `toml:"backend" yaml:"backend"`
	Timeout Duration     `toml:"timeout" yaml:"timeout"`
	Docker  DockerConfig `toml:"docker" yaml:"docker"`
}

// DockerConfig holds settings for the container backend
type DockerConfig struct {
	Image   string `toml:"image" yaml:"image"`
	Workdir string `toml:"workdir" yaml:"workdir"`
	Pull    bool   `toml:"pull" yaml:"pull"`
}

// HistoryConfig holds run history settings
type HistoryConfig struct {
	Enabled   bool   `toml:"enabled" yaml:"enabled"`
	Path      string `toml:"path" yaml:"path"`
	ListLimit int    `toml:"list_limit" yaml:"list_limit"`
}

// InteractiveConfig holds settings for interactive mode
type InteractiveConfig struct {
	Prompt string `toml:"prompt" yaml:"prompt"`
	Plain  bool   `toml:"plain" yaml:"plain"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration
func Default() *Config {
	cfg := &Config{
		General: GeneralConfig{
			LogLevel:  "error",
			LogFormat: "console",
			DataDir:   "~/.ff",
		},
		Tool: ToolConfig{
			Program:           "ffmpeg",
			CheckAvailability: true,
		},
		Render: RenderConfig{
			Width:      1920,
			Height:     1080,
			VideoCodec: "libx264",
			AudioCodec: "aac",
		},
		Runner: RunnerConfig{
			Backend: BackendLocal,
			Docker: DockerConfig{
				Image:   "jrottenberg/ffmpeg:6.1-ubuntu",
				Workdir: "/work",
				Pull:    true,
			},
		},
		History: HistoryConfig{
			Enabled:   true,
			ListLimit: 20,
		},
		Interactive: InteractiveConfig{
			Prompt: "> ",
		},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads the configuration at path on top of the defaults
func Load(path string) (*Config, error) {
	cfg := Default()
	// derived paths are recomputed after decoding
	cfg.History.Path = ""

	if err := fconfig.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.source = os.ExpandEnv(path)

	cfg.applyDefaults()
	cfg.applyEnv()
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SearchOptions lists the locations LoadDefault looks at, in order
func SearchOptions() []fconfig.DiscoveryOptions {
	return []fconfig.DiscoveryOptions{
		{Paths: []string{".", "./configs"}, Filenames: []string{"ff"}},
		{Paths: []string{filex.ExpandHome("~/.config/ff")}, Filenames: []string{"config"}},
	}
}

// LoadDefault resolves the configuration file: explicit path, FF_CONFIG,
// then the search locations. Without a file the defaults are used.
func LoadDefault(explicit string) (*Config, error) {
	path := explicit
	if path == "" {
		path = os.Getenv("FF_CONFIG")
	}
	if path != "" {
		return Load(path)
	}

	if found, err := fconfig.FindConfigFile(SearchOptions()...); err == nil {
		return Load(found)
	}

	cfg := Default()
	cfg.applyEnv()
	cfg.expandEnvVars()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads .env files into the process environment. Variables that
// are already set win. A missing default file is not an error; a missing
// explicit file is.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		if filex.IsFile(".env") {
			return wrapDotEnv(godotenv.Load(".env"), ".env")
		}
		return nil
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			return wrapDotEnv(err, f)
		}
	}
	return nil
}

func wrapDotEnv(err error, file string) error {
	if err == nil {
		return nil
	}
	return mdwerror.Wrap(err, fmt.Sprintf("loading env file %s", file)).
		WithCode(mdwerror.CodeEnvironmentError).
		WithOperation("config.LoadDotEnv")
}

// Source returns the file the configuration was read from
func (c *Config) Source() string {
	return c.source
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.General.LogLevel == "" {
		c.General.LogLevel = "error"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "console"
	}
	if c.General.DataDir == "" {
		c.General.DataDir = "~/.ff"
	}
	if c.Tool.Program == "" {
		c.Tool.Program = "ffmpeg"
	}
	if c.Render.VideoCodec == "" {
		c.Render.VideoCodec = "libx264"
	}
	if c.Render.AudioCodec == "" {
		c.Render.AudioCodec = "aac"
	}
	if c.Runner.Backend == "" {
		c.Runner.Backend = BackendLocal
	}
	if c.Runner.Docker.Workdir == "" {
		c.Runner.Docker.Workdir = "/work"
	}
	if c.History.Path == "" {
		c.History.Path = filepath.Join(c.General.DataDir, "history.db")
	}
	if c.History.ListLimit <= 0 {
		c.History.ListLimit = 20
	}
}

// applyEnv applies FF_* environment overrides
func (c *Config) applyEnv() {
	if v := os.Getenv("FF_LOG_LEVEL"); v != "" {
		c.General.LogLevel = v
	}
	if v := os.Getenv("FF_LOG_FORMAT"); v != "" {
		c.General.LogFormat = v
	}
	if v := os.Getenv("FF_RUNNER"); v != "" {
		c.Runner.Backend = v
	}
	if v := os.Getenv("FF_FFMPEG"); v != "" {
		c.Tool.Program = v
	}
	if v := os.Getenv("FF_HISTORY_PATH"); v != "" {
		c.History.Path = v
	}
}

// expandEnvVars expands environment variables and ~ in path values
func (c *Config) expandEnvVars() {
	c.General.DataDir = filex.ExpandHome(os.ExpandEnv(c.General.DataDir))
	c.General.LogFile = filex.ExpandHome(os.ExpandEnv(c.General.LogFile))
	c.History.Path = filex.ExpandHome(os.ExpandEnv(c.History.Path))
	c.Tool.Program = filex.ExpandHome(os.ExpandEnv(c.Tool.Program))
}

// Validate rejects values no component can work with
func (c *Config) Validate() error {
	var problems []string

	switch c.Runner.Backend {
	case BackendLocal, BackendDocker:
	default:
		problems = append(problems, fmt.Sprintf("runner.backend: unknown backend %q", c.Runner.Backend))
	}
	if c.Render.Width <= 0 {
		problems = append(problems, fmt.Sprintf("render.width: must be positive, got %d", c.Render.Width))
	}
	if c.Render.Height <= 0 {
		problems = append(problems, fmt.Sprintf("render.height: must be positive, got %d", c.Render.Height))
	}
	if c.Runner.Timeout.Duration < 0 {
		problems = append(problems, "runner.timeout: must not be negative")
	}
	if c.Runner.Backend == BackendDocker && c.Runner.Docker.Image == "" {
		problems = append(problems, "runner.docker.image: required for the docker backend")
	}

	if len(problems) == 0 {
		return nil
	}
	return mdwerror.New("invalid configuration: " + strings.Join(problems, "; ")).
		WithCode(mdwerror.CodeInvalidConfig).
		WithOperation("config.Validate").
		WithDetail("problems", problems)
}
