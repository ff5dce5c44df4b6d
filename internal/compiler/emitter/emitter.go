package emitter

import (
	"fmt"
	"strings"

	"github.com/arnavsurve/minipas/internal/compiler/ast"
)

// Format selects the target notation.
type Format string

const (
	FormatPascal Format = "pascal" // canonical, re-indented source
	FormatRPN    Format = "rpn"    // postfix: 2 3 4 * +
	FormatLisp   Format = "lisp"   // prefix: (+ 2 (* 3 4))
)

var Formats = []Format{FormatPascal, FormatRPN, FormatLisp}

func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown emit format %q (want pascal, rpn or lisp)", s)
}

// Extension is the file extension written for each format.
func (f Format) Extension() string {
	switch f {
	case FormatRPN:
		return ".rpn"
	case FormatLisp:
		return ".lisp"
	}
	return ".pas"
}

const indentUnit = "    "

type Emitter struct {
	builder strings.Builder
	errors  []string
	format  Format
	indent  int
}

func NewEmitter(format Format) *Emitter {
	return &Emitter{
		errors: []string{},
		format: format,
	}
}

func (e *Emitter) addError(format string, args ...any) {
	errMsg := fmt.Sprintf(format, args...)
	e.errors = append(e.errors, errMsg)
}

func (e *Emitter) Errors() []string {
	return e.errors
}

// Emit translates node. A *ast.Compound at the top is treated as a whole
// program; any expression is translated on its own.
func (e *Emitter) Emit(node ast.Node) string {
	e.builder.Reset()
	e.indent = 0

	switch e.format {
	case FormatPascal:
		e.emitPascal(node)
	case FormatRPN:
		e.emitRPN(node)
	case FormatLisp:
		e.builder.WriteString(e.lisp(node))
		e.builder.WriteString("\n")
	default:
		e.addError("unknown emit format %q", e.format)
	}
	return e.builder.String()
}

// --- Pascal ---

func (e *Emitter) emitPascal(node ast.Node) {
	switch n := node.(type) {
	case *ast.Compound:
		e.emitCompound(n)
		e.builder.WriteString(".\n")
	case ast.Expression:
		e.builder.WriteString(e.pascalExpr(n))
		e.builder.WriteString("\n")
	default:
		e.emitLine(e.pascalSimpleStatement(n))
	}
}

func (e *Emitter) emitLine(line string) {
	if line == "" {
		e.builder.WriteString("\n")
		return
	}
	e.builder.WriteString(strings.Repeat(indentUnit, e.indent) + line + "\n")
}

// emitCompound writes BEGIN ... END without a trailing newline so the caller
// can append ";" or ".".
func (e *Emitter) emitCompound(c *ast.Compound) {
	e.builder.WriteString(strings.Repeat(indentUnit, e.indent) + "BEGIN\n")
	e.indent++
	for i, stmt := range c.Statements {
		sep := ";"
		if i == len(c.Statements)-1 {
			sep = ""
		}
		if inner, ok := stmt.(*ast.Compound); ok {
			e.emitCompound(inner)
			e.builder.WriteString(sep + "\n")
			continue
		}
		line := e.pascalSimpleStatement(stmt)
		if line == "" && sep == "" {
			// The trailing empty statement is implied by the previous ";".
			continue
		}
		e.emitLine(line + sep)
	}
	e.indent--
	e.builder.WriteString(strings.Repeat(indentUnit, e.indent) + "END")
}

func (e *Emitter) pascalSimpleStatement(stmt ast.Node) string {
	switch s := stmt.(type) {
	case *ast.Assignment:
		return s.Target.Name + " := " + e.pascalExpr(s.Value)
	case *ast.NoOp:
		return ""
	}
	e.addError("cannot emit statement %T", stmt)
	return ""
}

func precedence(op ast.Operator) int {
	if op == ast.OpMul || op == ast.OpDiv {
		return 2
	}
	return 1
}

// pascalExpr prints with the fewest parentheses that preserve the tree.
func (e *Emitter) pascalExpr(expr ast.Expression) string {
	switch x := expr.(type) {
	case *ast.Number:
		return x.Value.String()
	case *ast.Variable:
		return x.Name
	case *ast.UnaryOp:
		operand := e.pascalExpr(x.Operand)
		switch x.Operand.(type) {
		case *ast.BinaryOp:
			operand = "(" + operand + ")"
		case *ast.UnaryOp:
			operand = " " + operand
		}
		return x.Op.String() + operand
	case *ast.BinaryOp:
		left := e.pascalExpr(x.Left)
		if l, ok := x.Left.(*ast.BinaryOp); ok && precedence(l.Op) < precedence(x.Op) {
			left = "(" + left + ")"
		}
		right := e.pascalExpr(x.Right)
		if r, ok := x.Right.(*ast.BinaryOp); ok && precedence(r.Op) <= precedence(x.Op) {
			right = "(" + right + ")"
		}
		return left + " " + x.Op.String() + " " + right
	}
	e.addError("cannot emit expression %T", expr)
	return ""
}

// --- RPN ---

func (e *Emitter) emitRPN(node ast.Node) {
	switch n := node.(type) {
	case *ast.Compound:
		for _, stmt := range n.Statements {
			e.emitRPN(stmt)
		}
	case *ast.Assignment:
		e.builder.WriteString(e.rpn(n.Value) + " " + n.Target.Name + " :=\n")
	case *ast.NoOp:
	case ast.Expression:
		e.builder.WriteString(e.rpn(n) + "\n")
	default:
		e.addError("cannot emit %T as rpn", node)
	}
}

func (e *Emitter) rpn(expr ast.Expression) string {
	switch x := expr.(type) {
	case *ast.Number:
		return x.Value.String()
	case *ast.Variable:
		return x.Name
	case *ast.UnaryOp:
		if x.Op == ast.OpSub {
			return e.rpn(x.Operand) + " neg"
		}
		return e.rpn(x.Operand)
	case *ast.BinaryOp:
		return e.rpn(x.Left) + " " + e.rpn(x.Right) + " " + x.Op.String()
	}
	e.addError("cannot emit expression %T", expr)
	return ""
}

// --- LISP ---

func (e *Emitter) lisp(node ast.Node) string {
	switch x := node.(type) {
	case *ast.Compound:
		parts := []string{"begin"}
		for _, stmt := range x.Statements {
			if _, ok := stmt.(*ast.NoOp); ok {
				continue
			}
			parts = append(parts, e.lisp(stmt))
		}
		return "(" + strings.Join(parts, " ") + ")"
	case *ast.Assignment:
		return "(:= " + x.Target.Name + " " + e.lisp(x.Value) + ")"
	case *ast.NoOp:
		return "()"
	case *ast.Number:
		return x.Value.String()
	case *ast.Variable:
		return x.Name
	case *ast.UnaryOp:
		return "(" + x.Op.String() + " " + e.lisp(x.Operand) + ")"
	case *ast.BinaryOp:
		return "(" + x.Op.String() + " " + e.lisp(x.Left) + " " + e.lisp(x.Right) + ")"
	}
	e.addError("cannot emit %T as lisp", node)
	return ""
}
