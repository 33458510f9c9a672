package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msto63/ff/internal/translator"
)

var explainOutput string

var explainCmd = &cobra.Command{
	Use:   "explain <phrase>",
	Short: "Show how a phrase is tokenized, parsed and rendered",
	Long: `Shows the tokens, the parsed intent and the resulting command for a
phrase without running anything.

Examples:
  ff explain convert video.mp4 to .mp3
  ff explain -o json "resize clip.mov to small.mov" --set width=640`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExplain,
}

func init() {
	rootCmd.AddCommand(explainCmd)
	explainCmd.Flags().StringVarP(&explainOutput, "output-format", "o", outputText, "output format: text, json, yaml")
	explainCmd.Flags().StringArrayVar(&setParams, "set", nil, "renderer parameter key=value (width, height, vcodec, acodec)")
	explainCmd.Flags().StringVar(&outputDir, "output", "", "write the output file into this directory")
}

func runExplain(cmd *cobra.Command, args []string) error {
	if err := checkOutputFormat(explainOutput); err != nil {
		return err
	}
	params, err := parseParams(setParams)
	if err != nil {
		return err
	}

	a, err := newApp(appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	outcome, err := a.service.Explain(cmd.Context(), translator.Request{
		Phrase:    strings.Join(args, " "),
		OutputDir: outputDir,
		Params:    params,
	})

	if explainOutput != outputText {
		if werr := writeStructured(cmd.OutOrStdout(), explainOutput, outcome); werr != nil {
			return werr
		}
		return err
	}

	printExplanation(cmd.OutOrStdout(), outcome)
	if err != nil {
		translator.Report(os.Stderr, err)
	}
	return err
}

func printExplanation(w io.Writer, o *translator.Outcome) {
	fmt.Fprintf(w, "Phrase:  %s\n", o.Phrase)
	fmt.Fprintln(w, "Tokens:")
	for i, tok := range o.Tokens {
		fmt.Fprintf(w, "  %2d  %-8s %-20q pos %d\n", i, tok.Kind, tok.Text, tok.Pos)
	}

	if o.Intent == nil {
		return
	}
	fmt.Fprintln(w, "Intent:")
	fmt.Fprintf(w, "  operation  %s\n", o.Intent.Operation)
	fmt.Fprintf(w, "  input      %s\n", o.Intent.InputPath)
	fmt.Fprintf(w, "  output     %s\n", o.Intent.OutputPath)

	keys := make([]string, 0, len(o.Intent.Parameters))
	for k := range o.Intent.Parameters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-10s %s\n", k, o.Intent.Parameters[k])
	}

	if o.Command != "" {
		fmt.Fprintf(w, "Command: %s\n", o.Command)
	}
}
