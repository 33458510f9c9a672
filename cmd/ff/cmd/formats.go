package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msto63/ff/foundation/media"
	"github.com/msto63/ff/foundation/phrase/intent"
)

var formatsOutput string

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported file formats and operations",
	Args:  cobra.NoArgs,
	// no configuration needed
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE:              runFormats,
}

func init() {
	rootCmd.AddCommand(formatsCmd)
	formatsCmd.Flags().StringVarP(&formatsOutput, "output-format", "o", outputText, "output format: text, json, yaml")
}

func runFormats(cmd *cobra.Command, args []string) error {
	if err := checkOutputFormat(formatsOutput); err != nil {
		return err
	}

	formats := media.Formats()
	w := cmd.OutOrStdout()

	if formatsOutput != outputText {
		return writeStructured(w, formatsOutput, struct {
			Formats    []media.Format `json:"formats" yaml:"formats"`
			Operations []string       `json:"operations" yaml:"operations"`
		}{formats, intent.Keywords()})
	}

	fmt.Fprintln(w, "Supported formats")
	fmt.Fprintln(w, "=================")
	var kind media.Kind
	for _, f := range formats {
		if f.Kind != kind {
			kind = f.Kind
			fmt.Fprintf(w, "\n%s:\n", strings.ToUpper(string(kind[:1]))+string(kind[1:]))
		}
		fmt.Fprintf(w, "  %-6s %s\n", f.Extension, f.Description)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Operations: %s\n", strings.Join(intent.Keywords(), ", "))
	return nil
}
