package compiler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arnavsurve/minipas/internal/compiler/ast"
	"github.com/arnavsurve/minipas/internal/compiler/emitter"
	"github.com/arnavsurve/minipas/internal/compiler/eval"
	"github.com/arnavsurve/minipas/internal/compiler/lexer"
	"github.com/arnavsurve/minipas/internal/compiler/lib"
	"github.com/arnavsurve/minipas/internal/compiler/parser"
	"github.com/arnavsurve/minipas/internal/compiler/scope"
	"github.com/arnavsurve/minipas/internal/compiler/token"
	"github.com/arnavsurve/minipas/internal/compiler/value"
)

const SourceExt = ".pas"

// ErrorKind classifies a pipeline failure by the stage that produced it.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindLexical
	KindSyntax
	KindEvaluation
	KindInternal
)

func (k ErrorKind) String() string {
	switch k {
	case KindLexical:
		return "lexical"
	case KindSyntax:
		return "syntax"
	case KindEvaluation:
		return "evaluation"
	case KindInternal:
		return "internal"
	}
	return ""
}

// Run parses and evaluates a complete program in a fresh environment and
// returns the final variable bindings.
func Run(src string) (*scope.Environment, error) {
	prog, err := Parse(src)
	if err != nil {
		return nil, err
	}
	env := scope.New()
	if _, err := eval.Evaluate(prog, env); err != nil {
		return nil, err
	}
	return env, nil
}

// EvalExpression evaluates a bare arithmetic expression such as "7 + 3 * (10 / 4)".
func EvalExpression(src string) (value.Number, error) {
	expr, err := ParseExpression(src)
	if err != nil {
		return value.Number{}, err
	}
	return eval.Evaluate(expr, scope.New())
}

func Parse(src string) (*ast.Compound, error) {
	p, err := parser.New(lexer.New(src))
	if err != nil {
		return nil, err
	}
	return p.ParseProgram()
}

func ParseExpression(src string) (ast.Expression, error) {
	p, err := parser.New(lexer.New(src))
	if err != nil {
		return nil, err
	}
	return p.ParseExpression()
}

// IsProgram reports whether src opens with BEGIN, i.e. should go through Run
// rather than EvalExpression.
func IsProgram(src string) bool {
	tok, err := lexer.New(src).NextToken()
	return err == nil && tok.Type == token.TokenBegin
}

func Classify(err error) ErrorKind {
	var (
		lexErr  *lexer.Error
		synErr  *parser.Error
		evalErr *eval.Error
	)
	switch {
	case err == nil:
		return KindNone
	case errors.As(err, &lexErr):
		return KindLexical
	case errors.As(err, &synErr):
		return KindSyntax
	case errors.As(err, &evalErr):
		return KindEvaluation
	}
	return KindInternal
}

// Position returns where in the source err occurred, if it carries one.
func Position(err error) (token.Position, bool) {
	var p interface{ Pos() token.Position }
	if errors.As(err, &p) {
		pos := p.Pos()
		return pos, pos.Line > 0
	}
	return token.Position{}, false
}

// Describe formats err for a terminal: the message followed by a caret
// snippet of src when the error has a position.
func Describe(err error, src string) string {
	pos, ok := Position(err)
	if !ok {
		return err.Error()
	}
	return err.Error() + "\n" + lib.Snippet(src, pos.Line, pos.Column)
}

// --- Files ---

// RunFile runs the program stored at srcPath. The source is returned too so
// callers can render diagnostics against it.
func RunFile(srcPath string) (*scope.Environment, string, error) {
	if err := validateExtension(srcPath); err != nil {
		return nil, "", err
	}
	content, err := readSource(srcPath)
	if err != nil {
		return nil, "", err
	}
	env, err := Run(content)
	return env, content, err
}

// EmitFile translates srcPath into format and writes it under outDir,
// returning the written path.
func EmitFile(srcPath, outDir string, format emitter.Format) (string, error) {
	if err := validateExtension(srcPath); err != nil {
		return "", err
	}

	content, err := readSource(srcPath)
	if err != nil {
		return "", err
	}

	prog, err := Parse(content)
	if err != nil {
		return "", err
	}

	em := emitter.NewEmitter(format)
	out := em.Emit(prog)
	if errs := em.Errors(); len(errs) > 0 {
		return "", fmt.Errorf("emitter errors: %v", errs)
	}

	return writeOutput(out, srcPath, outDir, format.Extension())
}

func validateExtension(path string) error {
	if filepath.Ext(path) != SourceExt {
		return fmt.Errorf("source must have %s extension: %s", SourceExt, path)
	}
	return nil
}

func readSource(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read source: %w", err)
	}
	return string(b), nil
}

func writeOutput(content, srcPath, outDir, ext string) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	outFile := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(srcPath), SourceExt)+ext)
	return outFile, os.WriteFile(outFile, []byte(content), 0o644)
}

// FormatBindings lists env as "name = value" lines in name order.
func FormatBindings(env *scope.Environment) string {
	var out strings.Builder
	for _, name := range env.Names() {
		val, _ := env.Get(name)
		fmt.Fprintf(&out, "%s = %s\n", name, val)
	}
	return out.String()
}
