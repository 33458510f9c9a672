package cmd

import (
	"io"
	"os"
	"strings"

	mdwerror "github.com/msto63/ff/foundation/core/error"
	mdwlog "github.com/msto63/ff/foundation/core/log"
	"github.com/msto63/ff/foundation/phrase"
	"github.com/msto63/ff/foundation/phrase/render"
	"github.com/msto63/ff/internal/history"
	"github.com/msto63/ff/internal/runner"
	"github.com/msto63/ff/internal/translator"
)

// appOptions select which parts of the pipeline a command needs
type appOptions struct {
	// Run builds an execution backend
	Run bool
	// Quiet sends command lines and process output nowhere
	Quiet bool
}

// app bundles the engine, runner and history of one invocation
type app struct {
	engine  *phrase.Engine
	runner  runner.Runner
	history history.Store
	service *translator.Service
}

func newEngine() *phrase.Engine {
	return phrase.NewEngine(phrase.Options{
		Logger: logger,
		Strict: strict,
		Render: render.Options{
			Program: appConfig.Tool.Program,
			Defaults: render.Defaults{
				Width:      appConfig.Render.Width,
				Height:     appConfig.Render.Height,
				VideoCodec: appConfig.Render.VideoCodec,
				AudioCodec: appConfig.Render.AudioCodec,
			},
		},
	})
}

// openHistory opens the configured store, or an in-memory one when history
// is disabled
func openHistory() (history.Store, error) {
	if !appConfig.History.Enabled {
		return history.NewMemoryStore(), nil
	}
	store, err := history.NewSQLiteStore(history.SQLiteConfig{Path: appConfig.History.Path})
	if err != nil {
		return nil, err
	}
	return store, nil
}

func newApp(opts appOptions) (*app, error) {
	var out, procOut, procErr io.Writer = os.Stdout, os.Stdout, os.Stderr
	if opts.Quiet {
		out, procOut, procErr = io.Discard, io.Discard, io.Discard
	}

	a := &app{engine: newEngine()}

	store, err := openHistory()
	if err != nil {
		logger.WarnWithErr("run history unavailable", err, mdwlog.Fields{"path": appConfig.History.Path})
		store = history.NewMemoryStore()
	}
	a.history = store

	if opts.Run {
		r, err := runner.New(appConfig, runner.Options{
			Stdout: procOut,
			Stderr: procErr,
			Logger: logger,
		})
		if err != nil {
			a.Close()
			return nil, err
		}
		a.runner = r
	}

	a.service = translator.New(translator.Options{
		Engine:  a.engine,
		Runner:  a.runner,
		History: a.history,
		Out:     out,
		Logger:  logger,
	})
	return a, nil
}

// Close releases the runner and the history store
func (a *app) Close() {
	if a.runner != nil {
		if err := a.runner.Close(); err != nil {
			logger.WarnWithErr("closing runner", err)
		}
	}
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			logger.WarnWithErr("closing run history", err)
		}
	}
}

// parseParams turns repeated key=value flags into a map
func parseParams(values []string) (map[string]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	params := make(map[string]string, len(values))
	for _, v := range values {
		key, value, ok := strings.Cut(v, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		if !ok || key == "" {
			return nil, mdwerror.New("invalid --set value " + v + ", expected key=value").
				WithCode(mdwerror.CodeInvalidInput).
				WithOperation("cmd.parseParams")
		}
		params[key] = strings.TrimSpace(value)
	}
	return params, nil
}
