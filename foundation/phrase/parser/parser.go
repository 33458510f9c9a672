// File: parser.go
// Title: Phrase Recursive Descent Parser
// Description: Turns a token sequence into an Intent using the grammar
//              Operation Path "to" (Path | Format | Word-with-dot). Input and
//              output extensions are checked against the supported-format
//              predicate. The first error is returned; there is no recovery.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial parser implementation

package parser

import (
	"fmt"
	"strings"

	mdwlog "github.com/msto63/ff/foundation/core/log"
	"github.com/msto63/ff/foundation/media"
	"github.com/msto63/ff/foundation/phrase/intent"
	"github.com/msto63/ff/foundation/utils/filex"
)

// Parser implements recursive descent parsing over a token sequence. A
// Parser is single-use and not safe for concurrent use; create one per
// phrase.
type Parser struct {
	tokens    []Token
	pos       int
	logger    *mdwlog.Logger
	supported func(path string) bool
}

// Options configures parser behavior
type Options struct {
	Logger *mdwlog.Logger
	// Supported decides whether a path has an acceptable extension.
	// Defaults to media.IsSupported.
	Supported func(path string) bool
}

// New creates a parser over tokens
func New(tokens []Token, opts Options) *Parser {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	if opts.Supported == nil {
		opts.Supported = media.IsSupported
	}

	return &Parser{
		tokens:    tokens,
		logger:    opts.Logger.WithField("component", "phrase-parser"),
		supported: opts.Supported,
	}
}

// ParseString tokenizes input and parses the result
func ParseString(input string, opts Options, lexOpts ...LexerOption) (*intent.Intent, error) {
	return New(Tokenize(input, lexOpts...), opts).Parse()
}

// Parse consumes the token sequence and returns the Intent it describes.
// Tokens after the output are ignored.
func (p *Parser) Parse() (*intent.Intent, error) {
	p.logger.Debug("Starting phrase parsing", mdwlog.Fields{
		"tokens": len(p.tokens),
	})

	in, err := p.parsePhrase()
	if err != nil {
		p.logger.Warn("Phrase parsing failed", mdwlog.Fields{
			"error": err.Error(),
			"index": p.pos,
		})
		return nil, err
	}

	p.logger.Debug("Phrase parsing completed successfully", mdwlog.Fields{
		"operation": in.Operation.String(),
		"input":     in.InputPath,
		"output":    in.OutputPath,
		"ignored":   len(p.tokens) - p.pos,
	})
	return in, nil
}

func (p *Parser) parsePhrase() (*intent.Intent, error) {
	op, err := p.parseOperation()
	if err != nil {
		return nil, err
	}

	input, err := p.parsePath()
	if err != nil {
		return nil, err
	}
	inputIdx := p.pos - 1
	if !p.supported(input) {
		return nil, p.errorAt(KindUnsupportedFormat, input, inputIdx)
	}

	if err := p.expectWord("to"); err != nil {
		return nil, err
	}

	output, err := p.parseOutput(input, inputIdx)
	if err != nil {
		return nil, err
	}
	if strings.Contains(output, ".") && !p.supported(output) {
		return nil, p.errorAt(KindUnsupportedFormat, output, p.pos-1)
	}

	return intent.New(op, input, output), nil
}

// parseOperation reads the leading operation keyword
func (p *Parser) parseOperation() (intent.Operation, error) {
	tok, ok := p.next()
	if !ok {
		return 0, p.missing("operation keyword")
	}
	if tok.Kind != TokenWord {
		return 0, p.unexpected(fmt.Sprintf("expected operation, got %s", tok))
	}

	op, ok := intent.LookupKeyword(tok.Text)
	if !ok {
		return 0, p.unexpected("unknown operation: " + tok.Text)
	}
	return op, nil
}

// parsePath reads the input path
func (p *Parser) parsePath() (string, error) {
	tok, ok := p.next()
	if !ok {
		return "", p.missing("input path")
	}
	if isPathLike(tok) {
		return tok.Text, nil
	}
	return "", p.unexpected(fmt.Sprintf("expected path, got %s", tok))
}

func (p *Parser) expectWord(word string) error {
	tok, ok := p.next()
	if !ok {
		return p.missing(fmt.Sprintf("'%s'", word))
	}
	if tok.Kind != TokenWord || tok.Text != word {
		return p.unexpected(fmt.Sprintf("expected '%s', got %s", word, tok))
	}
	return nil
}

// parseOutput reads the output path. A format token keeps the input's
// directory and stem and swaps the extension.
func (p *Parser) parseOutput(input string, inputIdx int) (string, error) {
	tok, ok := p.next()
	if !ok {
		return "", p.missing("output path or format")
	}

	switch {
	case tok.Kind == TokenFormat:
		output, ok := filex.ReplaceExt(input, strings.TrimPrefix(tok.Text, "."))
		if !ok {
			return "", p.errorAt(KindInvalidPath, input, inputIdx)
		}
		return output, nil
	case isPathLike(tok):
		return tok.Text, nil
	default:
		return "", p.unexpected(fmt.Sprintf("expected output path or format, got %s", tok))
	}
}

func (p *Parser) next() (Token, bool) {
	if p.pos >= len(p.tokens) {
		return Token{}, false
	}
	tok := p.tokens[p.pos]
	p.pos++
	return tok, true
}

// unexpected reports a problem with the token just consumed
func (p *Parser) unexpected(detail string) *ParseError {
	return p.errorAt(KindUnexpectedToken, detail, p.pos-1)
}

func (p *Parser) missing(what string) *ParseError {
	return &ParseError{Kind: KindMissingToken, Detail: what, Index: len(p.tokens), Pos: -1}
}

func (p *Parser) errorAt(kind ErrorKind, detail string, index int) *ParseError {
	return &ParseError{Kind: kind, Detail: detail, Index: index, Pos: p.tokens[index].Pos}
}

// isPathLike accepts path tokens and words that contain a dot
func isPathLike(tok Token) bool {
	return tok.Kind == TokenPath || (tok.Kind == TokenWord && strings.Contains(tok.Text, "."))
}
