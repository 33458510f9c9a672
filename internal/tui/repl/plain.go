// ============================================================================
// ff - plain-English media command translator
// ============================================================================
//
// Package:     repl
// Description: Line-oriented session for terminals without TUI support
// Author:      msto63
// Created:     2026-10-19
// Modified:    2026-10-19
// License:     MIT
// ============================================================================

package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/msto63/ff/internal/translator"
)

// Banner lines printed when a plain session starts
const (
	BannerTitle = Logo + " (Interactive Mode)"
	BannerHint  = "Enter 'quit' or 'exit' to exit the program"
)

// IsTerminal reports whether f is an interactive terminal
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// RunPlain reads phrases from in until quit, exit or end of input. Commands
// go to out, errors and guidance to errOut. Phrase failures never end the
// session; only a read error is returned.
func RunPlain(ctx context.Context, cfg Config, in io.Reader, out, errOut io.Writer) error {
	prompt := cfg.Prompt
	if prompt == "" {
		prompt = "> "
	}

	fmt.Fprintln(out, BannerTitle)
	fmt.Fprintln(out, BannerHint)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				fmt.Fprintf(errOut, "Error reading input: %v\n", err)
				return err
			}
			fmt.Fprintln(out)
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if IsExit(line) {
			return nil
		}
		if line == "" {
			continue
		}

		_, err := cfg.Processor.Process(ctx, translator.Request{
			Phrase:    line,
			DryRun:    cfg.DryRun,
			OutputDir: cfg.OutputDir,
			Params:    cfg.Params,
		})
		if err != nil {
			translator.Report(errOut, err)
			fmt.Fprintf(errOut, "Error: %v\n", err)
		}
	}
}
