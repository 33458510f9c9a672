// File: phrase.go
// Title: Phrase Engine
// Description: High-level API that tokenizes, parses and renders media
//              phrases. Parse failures are returned as structured errors
//              carrying a phrase code, the token index and byte position.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial phrase engine implementation

package phrase

import (
	mdwerror "github.com/msto63/ff/foundation/core/error"
	mdwlog "github.com/msto63/ff/foundation/core/log"
	"github.com/msto63/ff/foundation/media"
	"github.com/msto63/ff/foundation/phrase/intent"
	"github.com/msto63/ff/foundation/phrase/parser"
	"github.com/msto63/ff/foundation/phrase/render"
)

// DefaultMaxPhraseLength bounds the accepted phrase size in bytes
const DefaultMaxPhraseLength = 4096

// Options configures the phrase engine
type Options struct {
	// Logger for engine operations (optional, defaults to default logger)
	Logger *mdwlog.Logger

	// Strict surfaces characters the lexer would skip as Unknown tokens
	Strict bool

	// MaxPhraseLength limits input length (default: 4096)
	MaxPhraseLength int

	// Supported overrides the supported-format predicate
	Supported func(path string) bool

	// Render configures command rendering
	Render render.Options
}

// Translation is the full result of processing one phrase
type Translation struct {
	Phrase  string         `json:"phrase" yaml:"phrase"`
	Tokens  []parser.Token `json:"tokens" yaml:"tokens"`
	Intent  *intent.Intent `json:"intent" yaml:"intent"`
	Command string         `json:"command" yaml:"command"`
}

// Engine coordinates lexer, parser and renderer
type Engine struct {
	logger  *mdwlog.Logger
	builder *render.Builder
	options Options
}

// NewEngine creates an engine; the first Options value, if any, overrides
// the defaults
func NewEngine(opts ...Options) *Engine {
	options := Options{
		Logger:          mdwlog.GetDefault(),
		MaxPhraseLength: DefaultMaxPhraseLength,
		Supported:       media.IsSupported,
	}

	if len(opts) > 0 {
		provided := opts[0]
		if provided.Logger != nil {
			options.Logger = provided.Logger
		}
		if provided.MaxPhraseLength > 0 {
			options.MaxPhraseLength = provided.MaxPhraseLength
		}
		if provided.Supported != nil {
			options.Supported = provided.Supported
		}
		options.Strict = provided.Strict
		options.Render = provided.Render
	}

	return &Engine{
		logger:  options.Logger.WithField("component", "phrase-engine"),
		builder: render.NewBuilder(options.Render),
		options: options,
	}
}

// Tokenize returns the tokens of phrase as the engine's lexer sees them
func (e *Engine) Tokenize(phrase string) []parser.Token {
	var lexOpts []parser.LexerOption
	if e.options.Strict {
		lexOpts = append(lexOpts, parser.WithStrict())
	}
	return parser.Tokenize(phrase, lexOpts...)
}

// Parse turns phrase into an Intent
func (e *Engine) Parse(phrase string) (*intent.Intent, error) {
	if err := e.checkLength(phrase); err != nil {
		return nil, err
	}
	return e.parseTokens(e.Tokenize(phrase))
}

// Render renders in as a command line. A non-empty output replaces the
// intent's output path.
func (e *Engine) Render(in *intent.Intent, output string) (string, error) {
	if output == "" {
		return e.builder.Build(in)
	}
	return e.builder.BuildWithOutput(in, output)
}

// Translate tokenizes, parses and renders phrase
func (e *Engine) Translate(phrase string) (*Translation, error) {
	if err := e.checkLength(phrase); err != nil {
		return nil, err
	}

	tokens := e.Tokenize(phrase)
	in, err := e.parseTokens(tokens)
	if err != nil {
		return &Translation{Phrase: phrase, Tokens: tokens}, err
	}

	cmd, err := e.builder.Build(in)
	if err != nil {
		return &Translation{Phrase: phrase, Tokens: tokens, Intent: in}, err
	}

	e.logger.Debug("Phrase translated", mdwlog.Fields{
		"operation": in.Operation.String(),
		"command":   cmd,
	})
	return &Translation{Phrase: phrase, Tokens: tokens, Intent: in, Command: cmd}, nil
}

// Builder exposes the renderer
func (e *Engine) Builder() *render.Builder {
	return e.builder
}

func (e *Engine) parseTokens(tokens []parser.Token) (*intent.Intent, error) {
	p := parser.New(tokens, parser.Options{
		Logger:    e.options.Logger,
		Supported: e.options.Supported,
	})

	in, err := p.Parse()
	if err != nil {
		return nil, wrapParseError(err)
	}
	return in, nil
}

func (e *Engine) checkLength(phrase string) error {
	if len(phrase) <= e.options.MaxPhraseLength {
		return nil
	}
	return mdwerror.Newf("phrase exceeds maximum length: %d > %d", len(phrase), e.options.MaxPhraseLength).
		WithCode(mdwerror.CodeInvalidInput).
		WithOperation("phrase.Parse")
}

// CodeFor maps a parse error kind to its structured error code
func CodeFor(kind parser.ErrorKind) mdwerror.Code {
	switch kind {
	case parser.KindMissingToken:
		return mdwerror.CodeMissingToken
	case parser.KindInvalidPath:
		return mdwerror.CodeInvalidPath
	case parser.KindUnsupportedFormat:
		return mdwerror.CodeUnsupportedFormat
	default:
		return mdwerror.CodeUnexpectedToken
	}
}

func wrapParseError(err error) error {
	pe, ok := parser.AsParseError(err)
	if !ok {
		return mdwerror.Wrap(err, "parse error").WithCode(mdwerror.CodeInternal)
	}
	return mdwerror.Wrap(pe, "parse error").
		WithCode(CodeFor(pe.Kind)).
		WithOperation("phrase.Parse").
		WithDetail("kind", pe.Kind.String()).
		WithDetail("index", pe.Index).
		WithDetail("position", pe.Pos)
}
