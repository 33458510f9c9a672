// Package translator turns a phrase into a command, prints it, optionally
// runs it and records the outcome.
package translator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	mdwerror "github.com/msto63/ff/foundation/core/error"
	mdwlog "github.com/msto63/ff/foundation/core/log"
	"github.com/msto63/ff/foundation/phrase"
	"github.com/msto63/ff/foundation/phrase/intent"
	"github.com/msto63/ff/foundation/phrase/parser"
	"github.com/msto63/ff/foundation/phrase/render"
	"github.com/msto63/ff/foundation/utils/filex"
	"github.com/msto63/ff/foundation/utils/stringx"
	"github.com/msto63/ff/internal/history"
	"github.com/msto63/ff/internal/runner"
)

// Stage names the step a phrase failed in
type Stage string

const (
	StageParse   Stage = "parse"
	StageRender  Stage = "render"
	StageOutput  Stage = "output"
	StageExecute Stage = "execute"
)

// Request is one phrase to process
type Request struct {
	Phrase string
	// DryRun prints the command without running it
	DryRun bool
	// OutputDir places the output file in this directory
	OutputDir string
	// Params are renderer parameters such as width or vcodec
	Params map[string]string
}

// Outcome describes what happened to a phrase. Fields are filled as far as
// processing got.
type Outcome struct {
	Phrase  string         `json:"phrase" yaml:"phrase"`
	Tokens  []parser.Token `json:"tokens,omitempty" yaml:"tokens,omitempty"`
	Intent  *intent.Intent `json:"intent,omitempty" yaml:"intent,omitempty"`
	Command string         `json:"command,omitempty" yaml:"command,omitempty"`
	Status  history.Status `json:"status" yaml:"status"`
	RunID   string         `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Result  *runner.Result `json:"-" yaml:"-"`
}

// Options configure a Service
type Options struct {
	Engine *phrase.Engine
	// Runner executes commands; required unless every request is a dry run
	Runner runner.Runner
	// History records outcomes; nil disables recording
	History history.Store
	// Out receives the final command line
	Out    io.Writer
	Logger *mdwlog.Logger
}

// Service processes phrases
type Service struct {
	engine  *phrase.Engine
	runner  runner.Runner
	history history.Store
	out     io.Writer
	logger  *mdwlog.Logger
}

// New creates a Service
func New(opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = mdwlog.Discard()
	}
	if opts.Engine == nil {
		opts.Engine = phrase.NewEngine(phrase.Options{Logger: opts.Logger})
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	return &Service{
		engine:  opts.Engine,
		runner:  opts.Runner,
		history: opts.History,
		out:     opts.Out,
		logger:  opts.Logger.WithField("component", "translator"),
	}
}

// Process parses, renders, prints and (unless DryRun) runs the phrase
func (s *Service) Process(ctx context.Context, req Request) (*Outcome, error) {
	out, err := s.build(req)
	if err != nil {
		out.Status = history.StatusRejected
		s.record(ctx, out, nil, err)
		return out, err
	}

	fmt.Fprintln(s.out, out.Command)

	if req.DryRun {
		out.Status = history.StatusDryRun
		s.record(ctx, out, nil, nil)
		return out, nil
	}

	if s.runner == nil {
		err := withStage(mdwerror.New("no runner configured").
			WithCode(mdwerror.CodeToolUnavailable).
			WithOperation("translator.Process"), StageExecute)
		out.Status = history.StatusFailed
		s.record(ctx, out, nil, err)
		return out, err
	}

	res, runErr := s.runner.Run(ctx, out.Command)
	out.Result = res
	if runErr != nil {
		out.Status = history.StatusFailed
		err := withStage(runErr, StageExecute)
		s.record(ctx, out, res, err)
		return out, err
	}

	out.Status = history.StatusSucceeded
	s.record(ctx, out, res, nil)
	return out, nil
}

// Explain parses and renders the phrase without running or printing it
func (s *Service) Explain(ctx context.Context, req Request) (*Outcome, error) {
	out, err := s.build(req)
	if err != nil {
		out.Status = history.StatusRejected
		s.record(ctx, out, nil, err)
		return out, err
	}
	out.Status = history.StatusParsed
	s.record(ctx, out, nil, nil)
	return out, nil
}

// build runs every step up to the final command line
func (s *Service) build(req Request) (*Outcome, error) {
	out := &Outcome{Phrase: strings.TrimSpace(req.Phrase)}
	out.Tokens = s.engine.Tokenize(out.Phrase)

	in, err := s.engine.Parse(out.Phrase)
	if err != nil {
		return out, withStage(err, StageParse)
	}
	out.Intent = in

	if err := applyParams(in, req.Params); err != nil {
		return out, withStage(err, StageRender)
	}

	output := ""
	if req.OutputDir != "" {
		relocated, ok := filex.Relocate(req.OutputDir, in.OutputPath)
		if !ok {
			return out, withStage(mdwerror.New("invalid output path: "+in.OutputPath).
				WithCode(mdwerror.CodeInvalidPath).
				WithOperation("translator.Process").
				WithDetail("output_dir", req.OutputDir), StageOutput)
		}
		output = relocated
	}

	cmd, err := s.engine.Render(in, output)
	if err != nil {
		return out, withStage(mdwerror.Wrap(err, "command build error"), StageRender)
	}
	out.Command = cmd

	s.logger.Debug("Command built", mdwlog.Fields{
		"operation": in.Operation.String(),
		"command":   cmd,
	})
	return out, nil
}

// applyParams copies renderer parameters onto the intent
func applyParams(in *intent.Intent, params map[string]string) error {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if !render.IsParam(k) {
			return mdwerror.New(fmt.Sprintf("unknown parameter %q (known: %s)", k, strings.Join(render.ParamNames(), ", "))).
				WithCode(mdwerror.CodeInvalidInput).
				WithOperation("translator.applyParams").
				WithDetail("parameter", k)
		}
		in.SetParam(k, params[k])
	}
	return nil
}

// record stores the outcome; failures are logged, never returned
func (s *Service) record(ctx context.Context, out *Outcome, res *runner.Result, err error) {
	if s.history == nil || out.Phrase == "" {
		return
	}

	run := &history.Run{
		CreatedAt: time.Now().UTC(),
		Phrase:    out.Phrase,
		Command:   out.Command,
		Status:    out.Status,
	}
	if out.Intent != nil {
		run.Operation = out.Intent.Operation.String()
		run.InputPath = out.Intent.InputPath
		run.OutputPath = out.Intent.OutputPath
	}
	if res != nil {
		run.Backend = res.Backend
		run.ExitCode = res.ExitCode
		run.DurationMS = res.Duration.Milliseconds()
	}
	if err != nil {
		run.ErrorCode = mdwerror.GetCode(err).String()
		run.Error = stringx.Truncate(err.Error(), 500, "...")
	}

	if recErr := s.history.Record(ctx, run); recErr != nil {
		s.logger.WarnWithErr("history not recorded", recErr)
		return
	}
	out.RunID = run.ID
}

func withStage(err error, stage Stage) error {
	var e *mdwerror.Error
	if !errors.As(err, &e) {
		e = mdwerror.Wrap(err, string(stage)+" failed")
	}
	return e.WithDetail("stage", string(stage))
}

// StageOf reports the stage recorded on err, or "" if none
func StageOf(err error) Stage {
	var e *mdwerror.Error
	if !errors.As(err, &e) {
		return ""
	}
	v, ok := e.Detail("stage")
	if !ok {
		return ""
	}
	stage, _ := v.(string)
	return Stage(stage)
}
