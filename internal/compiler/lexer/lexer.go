package lexer

import (
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/arnavsurve/minipas/internal/compiler/token"
)

// Error reports a character the lexer has no rule for.
type Error struct {
	Char   rune
	Line   int
	Column int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: Lexical Error: unexpected character %q", e.Line, e.Column, e.Char)
}

func (e *Error) Pos() token.Position {
	return token.Position{Line: e.Line, Column: e.Column}
}

type Lexer struct {
	input        string
	position     int  // current char index
	readPosition int  // next char index
	ch           byte // current char

	line   int // current line number (1-indexed)
	column int // current column number (1-indexed)
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

// readChar advances the lexer's position and updates the current character
// It handles EOF and tracks line/column numbers correctly
func (l *Lexer) readChar() {
	if l.readPosition > 0 && l.atEOF() {
		return
	}
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0 // ASCII NULL (EOF)
	} else {
		l.ch = l.input[l.readPosition]
	}

	l.position = l.readPosition
	l.readPosition++
	// Columns count characters, not UTF-8 continuation bytes.
	if utf8.RuneStart(l.ch) {
		l.column++
	}
}

// Returns the next character without consuming it
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

// NextToken returns the next token in the input. Once the input is exhausted
// it keeps returning an EOF token.
func (l *Lexer) NextToken() (token.Token, error) {
	l.skipWhitespace()

	startLine := l.line
	startCol := l.column

	if l.atEOF() {
		return l.newToken(token.TokenEOF, "", startLine, startCol), nil
	}

	switch {
	case isDigit(l.ch):
		return l.readInteger(startLine, startCol), nil
	case isLetter(l.ch):
		ident := l.readIdentifier()
		return l.newToken(token.LookupIdent(ident), ident, startLine, startCol), nil
	case l.ch == ':' && l.peekChar() == '=':
		l.readChar()
		l.readChar()
		return l.newToken(token.TokenAssign, ":=", startLine, startCol), nil
	}

	tokType, ok := singleCharTokens[l.ch]
	if !ok {
		ch, _ := utf8.DecodeRuneInString(l.input[l.position:])
		return token.Token{}, &Error{Char: ch, Line: startLine, Column: startCol}
	}
	tok := l.newToken(tokType, string(l.ch), startLine, startCol)
	l.readChar()
	return tok, nil
}

var singleCharTokens = map[byte]token.TokenType{
	'.': token.TokenDot,
	';': token.TokenSemicolon,
	'+': token.TokenPlus,
	'-': token.TokenMinus,
	'*': token.TokenAsterisk,
	'/': token.TokenSlash,
	'(': token.TokenLParen,
	')': token.TokenRParen,
}

// newToken is a helper to create a token.Token struct
func (l *Lexer) newToken(tokenType token.TokenType, literal string, line, col int) token.Token {
	return token.Token{Type: tokenType, Literal: literal, Line: line, Column: col}
}

func (l *Lexer) skipWhitespace() {
	for !l.atEOF() && isSpace(l.ch) {
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for !l.atEOF() && (isLetter(l.ch) || isDigit(l.ch)) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readInteger(startLine, startCol int) token.Token {
	start := l.position
	for !l.atEOF() && isDigit(l.ch) {
		l.readChar()
	}
	literal := l.input[start:l.position]
	// A run of ASCII digits always parses.
	val, _ := new(big.Int).SetString(literal, 10)
	return token.Token{Type: token.TokenInteger, Literal: literal, Value: val, Line: startLine, Column: startCol}
}

// Tokenize lexes the whole input, including the trailing EOF token.
func Tokenize(input string) ([]token.Token, error) {
	l := New(input)
	var toks []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
		if tok.Type == token.TokenEOF {
			return toks, nil
		}
	}
}

func isLetter(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
