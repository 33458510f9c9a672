// File: lexer.go
// Title: Phrase Lexical Analyzer
// Description: Splits a plain-English media phrase into word, path, format
//              and number tokens. Classification is driven by the first
//              character of each token; characters that cannot start a token
//              are skipped. Tokenization never fails.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial lexer implementation

package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// TokenKind classifies a lexical token
type TokenKind int

const (
	// TokenWord is a lowercased bare word such as a keyword
	TokenWord TokenKind = iota
	// TokenPath is a file path with its original case
	TokenPath
	// TokenFormat is a lowercased extension with its leading dot (".avi")
	TokenFormat
	// TokenNumber is a decimal literal
	TokenNumber
	// TokenUnknown holds text the lexer could not classify
	TokenUnknown
)

// String returns the name of the token kind
func (k TokenKind) String() string {
	switch k {
	case TokenWord:
		return "Word"
	case TokenPath:
		return "Path"
	case TokenFormat:
		return "Format"
	case TokenNumber:
		return "Number"
	case TokenUnknown:
		return "Unknown"
	default:
		return "Invalid"
	}
}

// MarshalText renders the kind by name
func (k TokenKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Token is a single classified piece of a phrase. Number tokens carry their
// value in Number and the scanned digits in Text.
type Token struct {
	Kind   TokenKind `json:"kind" yaml:"kind"`
	Text   string    `json:"text" yaml:"text"`
	Number float64   `json:"number,omitempty" yaml:"number,omitempty"`
	Pos    int       `json:"pos" yaml:"pos"`
}

// Word builds a word token
func Word(text string) Token { return Token{Kind: TokenWord, Text: text} }

// Path builds a path token
func Path(text string) Token { return Token{Kind: TokenPath, Text: text} }

// Format builds a format token; text includes the leading dot
func Format(text string) Token { return Token{Kind: TokenFormat, Text: text} }

// Number builds a number token
func Number(value float64) Token {
	return Token{Kind: TokenNumber, Text: strconv.FormatFloat(value, 'f', -1, 64), Number: value}
}

// Unknown builds an unknown token
func Unknown(text string) Token { return Token{Kind: TokenUnknown, Text: text} }

// String returns a representation such as Path(video.mp4)
func (t Token) String() string {
	if t.Kind == TokenNumber {
		return fmt.Sprintf("%s(%s)", t.Kind, strconv.FormatFloat(t.Number, 'f', -1, 64))
	}
	return fmt.Sprintf("%s(%s)", t.Kind, t.Text)
}

// Equal compares kind and value, ignoring position and raw number text
func (t Token) Equal(other Token) bool {
	if t.Kind != other.Kind {
		return false
	}
	if t.Kind == TokenNumber {
		return t.Number == other.Number
	}
	return t.Text == other.Text
}

// LexerOption configures a Lexer
type LexerOption func(*Lexer)

// WithStrict makes the lexer emit an Unknown token for every character it
// would otherwise skip
func WithStrict() LexerOption {
	return func(l *Lexer) { l.strict = true }
}

// Lexer performs lexical analysis of a phrase. It works on bytes and only
// recognizes ASCII letters and digits; other characters are skipped.
type Lexer struct {
	input    string
	position int  // current position in input (points to current char)
	readPos  int  // current reading position (after current char)
	ch       byte // current char under examination
	strict   bool
}

// NewLexer creates a new lexer for the given input
func NewLexer(input string, opts ...LexerOption) *Lexer {
	l := &Lexer{input: input}
	for _, opt := range opts {
		opt(l)
	}
	l.readChar()
	return l
}

// Tokenize returns all tokens of the phrase. It may be called repeatedly and
// always starts from the beginning of the input.
func (l *Lexer) Tokenize() []Token {
	l.position, l.readPos = 0, 0
	l.readChar()

	var tokens []Token
	for {
		l.skipWhitespace()
		if l.atEnd() {
			return tokens
		}
		if tok, ok := l.nextToken(); ok {
			tokens = append(tokens, tok)
		}
	}
}

// Tokenize is a convenience wrapper around NewLexer(input).Tokenize()
func Tokenize(input string, opts ...LexerOption) []Token {
	return NewLexer(input, opts...).Tokenize()
}

func (l *Lexer) nextToken() (Token, bool) {
	pos := l.position

	switch {
	case l.ch == '.':
		return Token{Kind: TokenFormat, Text: strings.ToLower(l.readFormat()), Pos: pos}, true
	case l.ch == '/':
		return Token{Kind: TokenPath, Text: l.readPath(), Pos: pos}, true
	case isDigit(l.ch):
		text := l.readNumber()
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Token{Kind: TokenUnknown, Text: text, Pos: pos}, true
		}
		return Token{Kind: TokenNumber, Text: text, Number: value, Pos: pos}, true
	}

	text := l.readWord()
	if text == "" {
		skipped := l.skipRune()
		if l.strict {
			return Token{Kind: TokenUnknown, Text: skipped, Pos: pos}, true
		}
		return Token{}, false
	}
	if strings.ContainsAny(text, "./") {
		return Token{Kind: TokenPath, Text: text, Pos: pos}, true
	}
	return Token{Kind: TokenWord, Text: strings.ToLower(text), Pos: pos}, true
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.position = l.readPos
	l.readPos++
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) atEnd() bool {
	return l.position >= len(l.input)
}

// readFormat reads a dot followed by letters and digits
func (l *Lexer) readFormat() string {
	start := l.position
	l.readChar()
	for !l.atEnd() && isAlnum(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readPath reads a path starting with '/'. A dot is part of the path only
// when a letter or digit follows it.
func (l *Lexer) readPath() string {
	start := l.position
	for !l.atEnd() {
		if isAlnum(l.ch) || l.ch == '/' || l.ch == '_' || l.ch == '-' || l.ch == '~' {
			l.readChar()
			continue
		}
		if l.ch == '.' && isAlnum(l.peekChar()) {
			l.readChar()
			continue
		}
		break
	}
	return l.input[start:l.position]
}

// readNumber reads digits with at most one decimal point
func (l *Lexer) readNumber() string {
	start := l.position
	seenDot := false
	for !l.atEnd() {
		if isDigit(l.ch) {
			l.readChar()
			continue
		}
		if l.ch == '.' && !seenDot {
			seenDot = true
			l.readChar()
			continue
		}
		break
	}
	return l.input[start:l.position]
}

// readWord reads letters, digits, underscores, dots and slashes. A slash
// keeps relative paths such as "dir/video.mp4" in one token.
func (l *Lexer) readWord() string {
	start := l.position
	for !l.atEnd() && (isAlnum(l.ch) || l.ch == '_' || l.ch == '.' || l.ch == '/') {
		l.readChar()
	}
	return l.input[start:l.position]
}

// skipRune advances past one UTF-8 encoded character and returns it
func (l *Lexer) skipRune() string {
	_, size := utf8.DecodeRuneInString(l.input[l.position:])
	text := l.input[l.position : l.position+size]
	l.readPos = l.position + size
	l.readChar()
	return text
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() && isSpace(l.ch) {
		l.readChar()
	}
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isLetter(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isAlnum(ch byte) bool {
	return isLetter(ch) || isDigit(ch)
}

func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
