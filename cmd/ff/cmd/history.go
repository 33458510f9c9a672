package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/ff/foundation/core/error"
	"github.com/msto63/ff/foundation/utils/stringx"
	"github.com/msto63/ff/internal/history"
)

var (
	historyOutput    string
	historyLimit     int
	historyOffset    int
	historyStatus    string
	historyOperation string
	historyYes       bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show previously processed phrases",
	Long: `Lists the phrases ff has processed, newest first, with their command
and outcome.

Examples:
  ff history
  ff history list --status failed --limit 5
  ff history show 3f2a
  ff history stats -o json
  ff history clear --yes`,
	Args: cobra.NoArgs,
	RunE: runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one run; a unique ID prefix is enough",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise recorded runs",
	Args:  cobra.NoArgs,
	RunE:  runHistoryStats,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all recorded runs",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyStatsCmd, historyClearCmd)

	historyCmd.PersistentFlags().StringVarP(&historyOutput, "output-format", "o", outputText, "output format: text, json, yaml")
	for _, c := range []*cobra.Command{historyCmd, historyListCmd} {
		c.Flags().IntVarP(&historyLimit, "limit", "n", 0, "maximum number of runs (default: history.list_limit)")
		c.Flags().IntVar(&historyOffset, "offset", 0, "skip this many runs")
		c.Flags().StringVar(&historyStatus, "status", "", "only runs with this status (parsed, dry_run, succeeded, failed, rejected)")
		c.Flags().StringVar(&historyOperation, "operation", "", "only runs of this operation")
	}
	historyClearCmd.Flags().BoolVarP(&historyYes, "yes", "y", false, "confirm deletion")
}

// openHistoryStore opens the database even when recording is disabled, so
// earlier runs stay visible
func openHistoryStore() (history.Store, error) {
	if err := checkOutputFormat(historyOutput); err != nil {
		return nil, err
	}
	store, err := history.NewSQLiteStore(history.SQLiteConfig{Path: appConfig.History.Path})
	if err != nil {
		return nil, err
	}
	return store, nil
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	status := history.Status(historyStatus)
	if status != "" && !status.Valid() {
		return mdwerror.New(fmt.Sprintf("unknown status %q", historyStatus)).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("cmd.history")
	}

	store, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer store.Close()

	limit := historyLimit
	if limit <= 0 {
		limit = appConfig.History.ListLimit
	}

	runs, err := store.List(cmd.Context(), history.Filter{
		Status:    status,
		Operation: historyOperation,
		Limit:     limit,
		Offset:    historyOffset,
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if historyOutput != outputText {
		if runs == nil {
			runs = []*history.Run{}
		}
		return writeStructured(w, historyOutput, runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIME\tSTATUS\tPHRASE")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			shortID(r.ID),
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.Status,
			stringx.Truncate(r.Phrase, 60, "..."))
	}
	return tw.Flush()
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if historyOutput != outputText {
		return writeStructured(w, historyOutput, run)
	}
	printRun(w, run)
	return nil
}

func printRun(w io.Writer, r *history.Run) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	row := func(label, value string) {
		if value != "" {
			fmt.Fprintf(tw, "%s:\t%s\n", label, value)
		}
	}
	row("ID", r.ID)
	row("Time", r.CreatedAt.Local().Format(time.RFC3339))
	row("Phrase", r.Phrase)
	row("Status", string(r.Status))
	row("Operation", r.Operation)
	row("Input", r.InputPath)
	row("Output", r.OutputPath)
	row("Command", r.Command)
	row("Backend", r.Backend)
	if r.Status == history.StatusSucceeded || r.Status == history.StatusFailed {
		row("Exit code", fmt.Sprint(r.ExitCode))
		row("Duration", (time.Duration(r.DurationMS) * time.Millisecond).String())
	}
	row("Error code", r.ErrorCode)
	row("Error", r.Error)
	tw.Flush()
}

func runHistoryStats(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Stats(cmd.Context())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if historyOutput != outputText {
		return writeStructured(w, historyOutput, stats)
	}

	fmt.Fprintf(w, "Total runs: %d\n", stats.Total)
	if stats.Total == 0 {
		return nil
	}
	fmt.Fprintf(w, "Last run:   %s\n", stats.LastRun.Local().Format("2006-01-02 15:04:05"))
	printCounts(w, "By status", stats.ByStatus)
	printCounts(w, "By operation", stats.ByOperation)
	return nil
}

func printCounts(w io.Writer, title string, counts map[string]int64) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(w, "\n%s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-14s %d\n", k, counts[k])
	}
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	if !historyYes {
		return mdwerror.New("refusing to delete the run history without --yes").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("cmd.history")
	}

	store, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.Clear(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d run(s).\n", n)
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return strings.TrimSpace(id)
}
