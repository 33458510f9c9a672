package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/ff/pkg/core/version"
)

var versionOutput string

var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Show version information",
	Args:              cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkOutputFormat(versionOutput); err != nil {
			return err
		}
		info := version.Get()
		w := cmd.OutOrStdout()
		if versionOutput != outputText {
			return writeStructured(w, versionOutput, info)
		}
		fmt.Fprintf(w, "ff v%s\n", info.Version)
		fmt.Fprintf(w, "  Git Commit: %s\n", info.GitCommit)
		fmt.Fprintf(w, "  Build Date: %s\n", info.BuildDate)
		fmt.Fprintf(w, "  Go Version: %s\n", info.GoVersion)
		fmt.Fprintf(w, "  OS/Arch:    %s\n", info.Platform)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().StringVarP(&versionOutput, "output-format", "o", outputText, "output format: text, json, yaml")
}
