package parser

import (
	"fmt"
	"strings"

	"github.com/arnavsurve/minipas/internal/compiler/ast"
	"github.com/arnavsurve/minipas/internal/compiler/lexer"
	"github.com/arnavsurve/minipas/internal/compiler/token"
)

// Error is a syntax error: the lookahead token didn't fit the grammar.
type Error struct {
	Line     int
	Column   int
	Found    token.Token
	Expected []token.TokenType // empty when no single kind would have fit
	Msg      string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: Syntax Error: %s", e.Line, e.Column, e.Msg)
}

func (e *Error) Pos() token.Position {
	return token.Position{Line: e.Line, Column: e.Column}
}

type Parser struct {
	l      *lexer.Lexer
	curTok token.Token
}

// New primes the lookahead with the first token, so lexical errors at the very
// start of the input surface here.
func New(l *lexer.Lexer) (*Parser, error) {
	p := &Parser{l: l}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	return p, nil
}

// --- Token Handling ---
func (p *Parser) nextToken() error {
	tok, err := p.l.NextToken()
	if err != nil {
		return err
	}
	p.curTok = tok
	return nil
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curTok.Type == t
}

// expect consumes the current token if it has type t.
func (p *Parser) expect(t token.TokenType) (token.Token, error) {
	tok := p.curTok
	if tok.Type != t {
		return tok, p.unexpected(t)
	}
	return tok, p.nextToken()
}

// --- Error Handling ---
func (p *Parser) errorf(expected []token.TokenType, format string, args ...any) *Error {
	return &Error{
		Line:     p.curTok.Line,
		Column:   p.curTok.Column,
		Found:    p.curTok,
		Expected: expected,
		Msg:      fmt.Sprintf(format, args...),
	}
}

func (p *Parser) unexpected(expected ...token.TokenType) *Error {
	names := make([]string, len(expected))
	for i, t := range expected {
		names[i] = string(t)
	}
	return p.errorf(expected, "expected %s, found %s", strings.Join(names, " or "), p.curTok.Describe())
}

// --- Program Parsing ---

// ParseProgram parses `program -> compound_statement '.'` and requires the
// input to end there.
func (p *Parser) ParseProgram() (*ast.Compound, error) {
	prog, err := p.parseCompoundStatement()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.TokenDot); err != nil {
		return nil, err
	}
	if !p.curTokenIs(token.TokenEOF) {
		return nil, p.errorf([]token.TokenType{token.TokenEOF},
			"unexpected %s after end of program", p.curTok.Describe())
	}
	return prog, nil
}

// ParseExpression parses a bare arithmetic expression followed by end of input.
func (p *Parser) ParseExpression() (ast.Expression, error) {
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.curTokenIs(token.TokenEOF) {
		return nil, p.errorf([]token.TokenType{token.TokenEOF},
			"unexpected %s after expression", p.curTok.Describe())
	}
	return expr, nil
}

// --- Statement Parsing ---

// compound_statement -> 'BEGIN' statement_list 'END'
func (p *Parser) parseCompoundStatement() (*ast.Compound, error) {
	if _, err := p.expect(token.TokenBegin); err != nil {
		return nil, err
	}
	stmts, err := p.parseStatementList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.TokenEnd); err != nil {
		return nil, err
	}
	return &ast.Compound{Statements: stmts}, nil
}

// statement_list -> statement (';' statement)*
func (p *Parser) parseStatementList() ([]ast.Statement, error) {
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	stmts := []ast.Statement{stmt}

	for p.curTokenIs(token.TokenSemicolon) {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}

	// An identifier here means two statements ran together.
	if p.curTokenIs(token.TokenIdent) {
		return nil, p.errorf([]token.TokenType{token.TokenSemicolon, token.TokenEnd},
			"missing ';' before %s", p.curTok.Describe())
	}
	return stmts, nil
}

// statement -> compound_statement | assignment_statement | empty
func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.curTok.Type {
	case token.TokenBegin:
		return p.parseCompoundStatement()
	case token.TokenIdent:
		return p.parseAssignment()
	default:
		return &ast.NoOp{}, nil
	}
}

// assignment_statement -> variable ':=' expr
func (p *Parser) parseAssignment() (*ast.Assignment, error) {
	target, err := p.parseVariable()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.TokenAssign); err != nil {
		return nil, err
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Assignment{Target: target, Value: val}, nil
}

// variable -> IDENTIFIER
func (p *Parser) parseVariable() (*ast.Variable, error) {
	tok, err := p.expect(token.TokenIdent)
	if err != nil {
		return nil, err
	}
	return &ast.Variable{Name: tok.Literal, Pos: tok.Pos()}, nil
}

// --- Expression Parsing ---

var additiveOps = map[token.TokenType]ast.Operator{
	token.TokenPlus:  ast.OpAdd,
	token.TokenMinus: ast.OpSub,
}

var multiplicativeOps = map[token.TokenType]ast.Operator{
	token.TokenAsterisk: ast.OpMul,
	token.TokenSlash:    ast.OpDiv,
}

// expr -> term (('+' | '-') term)*
func (p *Parser) parseExpr() (ast.Expression, error) {
	return p.parseBinaryLevel(additiveOps, p.parseTerm)
}

// term -> factor (('*' | '/') factor)*
func (p *Parser) parseTerm() (ast.Expression, error) {
	return p.parseBinaryLevel(multiplicativeOps, p.parseFactor)
}

// parseBinaryLevel folds `operand (op operand)*` into a left-deep BinaryOp
// chain, which makes the operators left-associative.
func (p *Parser) parseBinaryLevel(ops map[token.TokenType]ast.Operator, operand func() (ast.Expression, error)) (ast.Expression, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := ops[p.curTok.Type]
		if !ok {
			return left, nil
		}
		opTok := p.curTok
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Op: op, Left: left, Right: right, Pos: opTok.Pos()}
	}
}

// factor -> INTEGER | '(' expr ')' | ('+' | '-') factor | variable
func (p *Parser) parseFactor() (ast.Expression, error) {
	tok := p.curTok
	switch tok.Type {
	case token.TokenInteger:
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		return &ast.Number{Value: tok.Value}, nil

	case token.TokenLParen:
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.TokenRParen); err != nil {
			return nil, err
		}
		return expr, nil

	case token.TokenPlus, token.TokenMinus:
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: additiveOps[tok.Type], Operand: operand}, nil

	case token.TokenIdent:
		return p.parseVariable()
	}

	return nil, p.errorf(
		[]token.TokenType{token.TokenInteger, token.TokenLParen, token.TokenPlus, token.TokenMinus, token.TokenIdent},
		"unexpected %s at start of expression", tok.Describe())
}
