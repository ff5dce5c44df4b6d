// Package eval walks an AST and computes its effect on a variable environment.
package eval

import (
	"errors"
	"fmt"

	"github.com/arnavsurve/minipas/internal/compiler/ast"
	"github.com/arnavsurve/minipas/internal/compiler/scope"
	"github.com/arnavsurve/minipas/internal/compiler/token"
	"github.com/arnavsurve/minipas/internal/compiler/value"
)

type Kind int

const (
	UndefinedVariable Kind = iota + 1
	DivisionByZero
)

func (k Kind) String() string {
	switch k {
	case UndefinedVariable:
		return "undefined variable"
	case DivisionByZero:
		return "division by zero"
	}
	return "unknown"
}

// Error is a failure evaluating a well-formed program.
type Error struct {
	Kind   Kind
	Name   string // variable name, for UndefinedVariable
	Line   int
	Column int
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Kind == UndefinedVariable {
		msg = fmt.Sprintf("undefined variable %q", e.Name)
	}
	return fmt.Sprintf("%d:%d: Evaluation Error: %s", e.Line, e.Column, msg)
}

func (e *Error) Pos() token.Position {
	return token.Position{Line: e.Line, Column: e.Column}
}

// Is lets errors.Is match on value.ErrDivisionByZero.
func (e *Error) Is(target error) bool {
	return e.Kind == DivisionByZero && target == value.ErrDivisionByZero
}

// ErrUnhandledNode means the evaluator met a node type it has no case for.
// It indicates a bug, not a problem with the program being run.
var ErrUnhandledNode = errors.New("internal error: unhandled AST node")

// Evaluate runs node against env. Expressions yield their value; statements
// mutate env and yield the zero Number.
func Evaluate(node ast.Node, env *scope.Environment) (value.Number, error) {
	switch n := node.(type) {
	case ast.Expression:
		return evalExpression(n, env)
	case ast.Statement:
		return value.Number{}, execStatement(n, env)
	}
	return value.Number{}, fmt.Errorf("%w: %T", ErrUnhandledNode, node)
}

func execStatement(stmt ast.Statement, env *scope.Environment) error {
	switch s := stmt.(type) {
	case *ast.Compound:
		for _, child := range s.Statements {
			if err := execStatement(child, env); err != nil {
				return err
			}
		}
		return nil

	case *ast.Assignment:
		val, err := evalExpression(s.Value, env)
		if err != nil {
			return err
		}
		env.Set(s.Target.Name, val)
		return nil

	case *ast.NoOp:
		return nil
	}
	return fmt.Errorf("%w: %T", ErrUnhandledNode, stmt)
}

func evalExpression(expr ast.Expression, env *scope.Environment) (value.Number, error) {
	switch e := expr.(type) {
	case *ast.Number:
		return value.FromInt(e.Value), nil

	case *ast.Variable:
		val, ok := env.Get(e.Name)
		if !ok {
			return value.Number{}, &Error{Kind: UndefinedVariable, Name: e.Name, Line: e.Pos.Line, Column: e.Pos.Column}
		}
		return val, nil

	case *ast.UnaryOp:
		operand, err := evalExpression(e.Operand, env)
		if err != nil {
			return value.Number{}, err
		}
		switch e.Op {
		case ast.OpAdd:
			return operand, nil
		case ast.OpSub:
			return operand.Neg(), nil
		}
		return value.Number{}, fmt.Errorf("%w: unary operator %s", ErrUnhandledNode, e.Op)

	case *ast.BinaryOp:
		left, err := evalExpression(e.Left, env)
		if err != nil {
			return value.Number{}, err
		}
		right, err := evalExpression(e.Right, env)
		if err != nil {
			return value.Number{}, err
		}
		return applyBinary(e, left, right)
	}
	return value.Number{}, fmt.Errorf("%w: %T", ErrUnhandledNode, expr)
}

func applyBinary(e *ast.BinaryOp, left, right value.Number) (value.Number, error) {
	switch e.Op {
	case ast.OpAdd:
		return left.Add(right), nil
	case ast.OpSub:
		return left.Sub(right), nil
	case ast.OpMul:
		return left.Mul(right), nil
	case ast.OpDiv:
		q, err := left.Quo(right)
		if errors.Is(err, value.ErrDivisionByZero) {
			return value.Number{}, &Error{Kind: DivisionByZero, Line: e.Pos.Line, Column: e.Pos.Column}
		}
		return q, err
	}
	return value.Number{}, fmt.Errorf("%w: binary operator %s", ErrUnhandledNode, e.Op)
}
