package token

import (
	"fmt"
	"math/big"
)

type TokenType string

const (
	// Literals & Identifiers
	TokenInteger TokenType = "INTEGER" // 42
	TokenIdent   TokenType = "IDENT"   // Identifier (e.g. variable name)

	// Operators
	TokenPlus     TokenType = "PLUS"     // +
	TokenMinus    TokenType = "MINUS"    // -
	TokenAsterisk TokenType = "ASTERISK" // *
	TokenSlash    TokenType = "SLASH"    // / (true division)

	// Delimiters
	TokenLParen    TokenType = "LPAREN"    // (
	TokenRParen    TokenType = "RPAREN"    // )
	TokenDot       TokenType = "DOT"       // . (ends a program)
	TokenSemicolon TokenType = "SEMICOLON" // ;
	TokenAssign    TokenType = "ASSIGN"    // :=

	// Keywords
	TokenBegin TokenType = "BEGIN" // BEGIN
	TokenEnd   TokenType = "END"   // END

	// Special
	TokenEOF TokenType = "EOF"
)

// Position is a 1-indexed line/column location in the source text.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Token struct {
	Type    TokenType
	Literal string
	Value   *big.Int // only set for TokenInteger
	Line    int
	Column  int
}

func (t Token) Pos() Position {
	return Position{Line: t.Line, Column: t.Column}
}

// String renders the token the way the debug dump prints it, e.g. Token(INTEGER, 3).
func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "Token(EOF)"
	case TokenInteger:
		if t.Value != nil {
			return fmt.Sprintf("Token(%s, %s)", t.Type, t.Value.String())
		}
	}
	return fmt.Sprintf("Token(%s, %q)", t.Type, t.Literal)
}

// Describe is the short form used in diagnostics: the literal text, or "end of input".
func (t Token) Describe() string {
	if t.Type == TokenEOF {
		return "end of input"
	}
	return fmt.Sprintf("%s %q", t.Type, t.Literal)
}

// keywords maps reserved words to their token types. Lookup is case-sensitive.
var keywords = map[string]TokenType{
	"BEGIN": TokenBegin,
	"END":   TokenEnd,
}

// LookupIdent returns the keyword token type for ident, or TokenIdent if it
// isn't reserved.
func LookupIdent(ident string) TokenType {
	if tokType, ok := keywords[ident]; ok {
		return tokType
	}
	return TokenIdent
}
