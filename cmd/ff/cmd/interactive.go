package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/msto63/ff/internal/tui/repl"
	"github.com/msto63/ff/pkg/core/version"
)

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"repl", "shell"},
	Short:   "Translate phrases one after another",
	Long: `Starts an interactive session. Each line is translated, printed and
(unless --dry-run is set) executed. Errors are shown without leaving the
session. Enter 'quit' or 'exit' to leave.

On a terminal a full-screen interface is used; with --plain, or when input
is not a terminal, ff falls back to a simple prompt loop.

Keys (full-screen interface):
  Enter       Run the phrase
  ↑/↓         Previous phrases
  PgUp/PgDn   Scroll
  Ctrl+L      Clear
  Ctrl+C      Quit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd)
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
	addRunFlags(interactiveCmd)
}

func runInteractive(cmd *cobra.Command) error {
	params, err := parseParams(setParams)
	if err != nil {
		return err
	}

	useTUI := !appConfig.Interactive.Plain && repl.IsTerminal(os.Stdin) && repl.IsTerminal(os.Stdout)

	a, err := newApp(appOptions{Run: !dryRun, Quiet: useTUI})
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := repl.Config{
		Processor: a.service,
		Prompt:    appConfig.Interactive.Prompt,
		DryRun:    dryRun,
		OutputDir: outputDir,
		Params:    params,
		DataDir:   appConfig.General.DataDir,
		Version:   version.Version,
		Logger:    logger,
	}

	if useTUI {
		return repl.Run(cfg)
	}
	return repl.RunPlain(cmd.Context(), cfg, os.Stdin, os.Stdout, os.Stderr)
}
