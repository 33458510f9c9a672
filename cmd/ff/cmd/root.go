package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	mdwlog "github.com/msto63/ff/foundation/core/log"
	"github.com/msto63/ff/internal/translator"
	"github.com/msto63/ff/pkg/core/config"
	"github.com/msto63/ff/pkg/core/logging"
)

var (
	cfgFile     string
	envFiles    []string
	verbose     bool
	logFormat   string
	interactive bool
	dryRun      bool
	outputDir   string
	setParams   []string
	strict      bool
	backend     string
	plain       bool
	noHistory   bool

	// resolved in PersistentPreRunE
	appConfig *config.Config
	logger    *mdwlog.Logger
)

var errNoPhrase = errors.New("no command provided, use --help for usage information")

var rootCmd = &cobra.Command{
	Use:   "ff [phrase]",
	Short: "Translate plain-English phrases into ffmpeg commands",
	Long: `ff translates short phrases into ffmpeg command lines and runs them.

Phrases follow the shape "<operation> <input> to <output>":

  convert video.mp4 to video.avi
  resize clip.mov to small.mov
  transcode movie.mkv to movie.mp4
  extract video.mp4 to .mp3

Operations: convert, resize, transcode, extract (extractaudio).
The output may be a file name or just a format such as .mp3, in which
case the input name is reused with the new extension.

Examples:
  ff convert video.mp4 to video.avi
  ff --dry-run "resize clip.mov to small.mov" --set width=1280 --set height=-2
  ff --output out/ transcode movie.mkv to .mp4
  ff -i`,
	Args:              cobra.ArbitraryArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runRoot,
}

// Execute runs the root command. An interrupt cancels the running command.
func Execute() error {
	defer logging.CloseGlobalFileWriter()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./ff.toml, ./configs/ff.toml, ~/.config/ff/config.toml)")
	pf.StringSliceVar(&envFiles, "env-file", nil, "load environment variables from these files (default: ./.env if present)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	pf.StringVar(&logFormat, "log-format", "", "log format: console, text, json, logfmt")
	pf.BoolVar(&strict, "strict", false, "report skipped characters as unknown tokens")
	pf.BoolVar(&noHistory, "no-history", false, "do not record this session in the run history")

	addRunFlags(rootCmd)
	rootCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "start interactive mode")
}

// addRunFlags registers the flags shared by every command that processes phrases
func addRunFlags(c *cobra.Command) {
	f := c.Flags()
	f.BoolVar(&dryRun, "dry-run", false, "print the command without running it")
	f.StringVar(&outputDir, "output", "", "write the output file into this directory")
	f.StringArrayVar(&setParams, "set", nil, "renderer parameter key=value (width, height, vcodec, acodec)")
	f.StringVar(&backend, "runner", "", "execution backend: local or docker")
	f.BoolVar(&plain, "plain", false, "use the line-oriented interactive mode")
}

// setup loads the environment, configuration and logger
func setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(envFiles...); err != nil {
		return err
	}

	cfg, err := config.LoadDefault(cfgFile)
	if err != nil {
		return err
	}
	if backend != "" {
		cfg.Runner.Backend = backend
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if plain {
		cfg.Interactive.Plain = true
	}
	if noHistory {
		cfg.History.Enabled = false
	}

	level := cfg.General.LogLevel
	if verbose {
		level = "debug"
	}
	format := cfg.General.LogFormat
	if logFormat != "" {
		format = logFormat
	}

	appConfig = cfg
	logger = logging.NewLogger(logging.LoggerConfig{
		Name:   "ff",
		Level:  level,
		Format: format,
		File:   cfg.General.LogFile,
		Output: os.Stderr,
	})
	logger.Debug("Configuration loaded", mdwlog.Fields{
		"source":  cfg.Source(),
		"backend": cfg.Runner.Backend,
		"history": cfg.History.Enabled,
	})
	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	if interactive {
		return runInteractive(cmd)
	}

	phrase := strings.TrimSpace(strings.Join(args, " "))
	if phrase == "" {
		return errNoPhrase
	}

	params, err := parseParams(setParams)
	if err != nil {
		return err
	}

	a, err := newApp(appOptions{Run: !dryRun})
	if err != nil {
		return err
	}
	defer a.Close()

	_, err = a.service.Process(cmd.Context(), translator.Request{
		Phrase:    phrase,
		DryRun:    dryRun,
		OutputDir: outputDir,
		Params:    params,
	})
	if err != nil {
		translator.Report(os.Stderr, err)
	}
	return err
}
