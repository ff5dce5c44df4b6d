package ast

import (
	"bytes"
	"math/big"

	"github.com/arnavsurve/minipas/internal/compiler/token"
)

// --- Interfaces ---

// Node is implemented only by the node types in this package. The unexported
// marker keeps the set closed so evaluators can switch over it exhaustively.
type Node interface {
	String() string
	node()
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
}

// --- Operators ---

type Operator int

const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
)

func (op Operator) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	}
	return "?"
}

// --- Statements ---

// Compound -> BEGIN stmt; stmt; ... END
type Compound struct {
	Statements []Statement
}

func (c *Compound) node()          {}
func (c *Compound) statementNode() {}
func (c *Compound) String() string {
	var out bytes.Buffer
	out.WriteString("BEGIN ")
	for i, s := range c.Statements {
		if i > 0 {
			out.WriteString("; ")
		}
		out.WriteString(s.String())
	}
	out.WriteString(" END")
	return out.String()
}

// Assignment -> x := expr
type Assignment struct {
	Target *Variable
	Value  Expression
}

func (a *Assignment) node()          {}
func (a *Assignment) statementNode() {}
func (a *Assignment) String() string {
	return a.Target.String() + " := " + a.Value.String()
}

// NoOp is the empty statement, e.g. between ";;" or before END.
type NoOp struct{}

func (n *NoOp) node()          {}
func (n *NoOp) statementNode() {}
func (n *NoOp) String() string { return "" }

// --- Expressions ---

// Number -> 123. Literals are never negative; sign comes from UnaryOp.
type Number struct {
	Value *big.Int
}

func (n *Number) node()           {}
func (n *Number) expressionNode() {}
func (n *Number) String() string  { return n.Value.String() }

// UnaryOp -> -x, +x
type UnaryOp struct {
	Op      Operator // OpAdd or OpSub
	Operand Expression
}

func (u *UnaryOp) node()           {}
func (u *UnaryOp) expressionNode() {}
func (u *UnaryOp) String() string {
	return "(" + u.Op.String() + u.Operand.String() + ")"
}

// BinaryOp -> (left op right)
type BinaryOp struct {
	Op    Operator
	Left  Expression
	Right Expression
	Pos   token.Position // operator position, for runtime diagnostics
}

func (b *BinaryOp) node()           {}
func (b *BinaryOp) expressionNode() {}
func (b *BinaryOp) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(b.Left.String())
	out.WriteString(" " + b.Op.String() + " ")
	out.WriteString(b.Right.String())
	out.WriteString(")")
	return out.String()
}

// Variable -> x
type Variable struct {
	Name string
	Pos  token.Position
}

func (v *Variable) node()           {}
func (v *Variable) expressionNode() {}
func (v *Variable) String() string  { return v.Name }
