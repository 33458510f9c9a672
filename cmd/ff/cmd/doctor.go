package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/ff/foundation/core/error"
	"github.com/msto63/ff/internal/docker"
	"github.com/msto63/ff/internal/history"
	"github.com/msto63/ff/internal/runner"
	"github.com/msto63/ff/pkg/core/config"
	"github.com/msto63/ff/pkg/core/health"
	"github.com/msto63/ff/pkg/core/version"
)

var doctorOutput string

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that ffmpeg, the runner backend and the history database are usable",
	Args:  cobra.NoArgs,
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().StringVarP(&doctorOutput, "output-format", "o", outputText, "output format: text, json, yaml")
	doctorCmd.Flags().StringVar(&backend, "runner", "", "execution backend to check: local or docker")
}

// buildChecks registers one check per external dependency of cfg
func buildChecks(cfg *config.Config) *health.Registry {
	registry := health.NewRegistry("ff", version.Version)

	registry.Register(health.NewChecker("config", func(ctx context.Context) health.CheckResult {
		source := cfg.Source()
		if source == "" {
			return health.CheckResult{Status: health.StatusHealthy, Message: "built-in defaults"}
		}
		return health.CheckResult{Status: health.StatusHealthy, Message: source}
	}))

	switch cfg.Runner.Backend {
	case config.BackendDocker:
		registry.Register(health.Skipped("tool", "runs inside "+cfg.Runner.Docker.Image))
		registry.Register(health.ErrorCheck("docker", "daemon reachable", func(ctx context.Context) error {
			client, err := docker.NewClient()
			if err != nil {
				return err
			}
			defer client.Close()
			if err := client.Ping(ctx); err != nil {
				return err
			}
			ok, err := client.ImageExists(ctx, cfg.Runner.Docker.Image)
			if err != nil {
				return err
			}
			if !ok && !cfg.Runner.Docker.Pull {
				return mdwerror.New("image " + cfg.Runner.Docker.Image + " missing and runner.docker.pull is off").
					WithCode(mdwerror.CodeToolUnavailable)
			}
			return nil
		}))
	default:
		registry.Register(health.ErrorCheck("tool", cfg.Tool.Program+" available", func(ctx context.Context) error {
			local := runner.NewLocal(runner.LocalOptions{Options: runner.Options{Logger: logger}})
			return local.CheckAvailability(ctx, cfg.Tool.Program)
		}))
		registry.Register(health.Skipped("docker", "runner backend is local"))
	}

	if cfg.History.Enabled {
		registry.Register(health.ErrorCheck("history", cfg.History.Path, func(ctx context.Context) error {
			store, err := history.NewSQLiteStore(history.SQLiteConfig{Path: cfg.History.Path})
			if err != nil {
				return err
			}
			defer store.Close()
			_, err = store.Stats(ctx)
			return err
		}))
	} else {
		registry.Register(health.Skipped("history", "disabled"))
	}

	registry.Register(health.ErrorCheck("data_dir", cfg.General.DataDir, func(ctx context.Context) error {
		if err := os.MkdirAll(cfg.General.DataDir, 0o755); err != nil {
			return err
		}
		probe, err := os.CreateTemp(cfg.General.DataDir, ".probe-*")
		if err != nil {
			return err
		}
		probe.Close()
		return os.Remove(probe.Name())
	}))

	return registry
}

func runDoctor(cmd *cobra.Command, args []string) error {
	if err := checkOutputFormat(doctorOutput); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()
	report := buildChecks(appConfig).Check(ctx)

	w := cmd.OutOrStdout()
	if doctorOutput != outputText {
		if err := writeStructured(w, doctorOutput, report); err != nil {
			return err
		}
	} else {
		for _, c := range report.Checks {
			fmt.Fprintf(w, "%-10s %-10s %s\n", c.Name, c.Status, c.Message)
		}
		fmt.Fprintf(w, "\nOverall: %s\n", report.Status)
	}

	if !report.Healthy() {
		return mdwerror.New("environment check failed").
			WithCode(mdwerror.CodeToolUnavailable).
			WithOperation("cmd.doctor")
	}
	return nil
}
