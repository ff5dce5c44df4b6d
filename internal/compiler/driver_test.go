package compiler

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arnavsurve/minipas/internal/compiler/emitter"
	"github.com/arnavsurve/minipas/internal/compiler/eval"
	"github.com/arnavsurve/minipas/internal/compiler/parser"
	"github.com/arnavsurve/minipas/internal/compiler/token"
	"github.com/arnavsurve/minipas/internal/compiler/value"
)

// --- Golden programs ---

func TestGoodPrograms(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "good", "*.pas"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no good test programs found")
	}
	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			env, src, err := RunFile(file)
			if err != nil {
				t.Fatalf("unexpected error:\n%s", Describe(err, src))
			}
			want, err := os.ReadFile(strings.TrimSuffix(file, SourceExt) + ".out")
			if err != nil {
				t.Fatal(err)
			}
			if got := FormatBindings(env); got != string(want) {
				t.Errorf("bindings mismatch.\nexpected:\n%s\ngot:\n%s", want, got)
			}
		})
	}
}

func TestBadPrograms(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "bad", "*.pas"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no bad test programs found")
	}
	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			env, _, err := RunFile(file)
			if err == nil {
				t.Fatalf("expected failure, got bindings:\n%s", FormatBindings(env))
			}
			if env != nil {
				t.Errorf("failed run should not return an environment")
			}
			want, rerr := os.ReadFile(strings.TrimSuffix(file, SourceExt) + ".err")
			if rerr != nil {
				t.Fatal(rerr)
			}
			if got := err.Error(); got != strings.TrimSpace(string(want)) {
				t.Errorf("error mismatch.\nexpected: %s\ngot:      %s", strings.TrimSpace(string(want)), got)
			}
		})
	}
}

// --- Entry points ---

func TestRun(t *testing.T) {
	env, err := Run("BEGIN a := 3; b := a + 2 * 5 END.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := FormatBindings(env); got != "a = 3\nb = 13\n" {
		t.Fatalf("unexpected bindings:\n%s", got)
	}

	env, err = Run("BEGIN a := 10 / 4 END.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a, _ := env.Get("a"); !a.Equal(value.Frac(5, 2)) {
		t.Fatalf("10 / 4 expected=2.5, got=%s", a)
	}

	env, err = Run("BEGIN a := - - 5 END.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a, _ := env.Get("a"); !a.Equal(value.Int64(5)) {
		t.Fatalf("- - 5 expected=5, got=%s", a)
	}
}

func TestEvalExpression(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"7 + 3 * (10 / (12 / (3 + 1) - 1)) / (2 + 3) - 5 - 3 + (8)", 10},
		{"7 + (((3 + 2)))", 12},
		{"7 + 3 * (10 / (12 / (3 + 1) - 1))", 22},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"- 3 + 5", 2},
		{"5 - - - + - 3", 8},
		{"5 - - - + - (3 + 4) - +2", 10},
	}
	for _, tt := range tests {
		got, err := EvalExpression(tt.input)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.input, err)
		}
		if !got.Equal(value.Int64(tt.expected)) {
			t.Errorf("%q: expected=%d, got=%s", tt.input, tt.expected, got)
		}
	}
}

func TestEvalExpressionRejectsStatements(t *testing.T) {
	for _, src := range []string{"BEGIN END.", "a := 1", "1 + 2."} {
		if _, err := EvalExpression(src); Classify(err) != KindSyntax {
			t.Errorf("%q: expected syntax error, got=%v", src, err)
		}
	}
}

func TestRunIsIdempotent(t *testing.T) {
	src := "BEGIN a := 1; b := a * 7 / 2; a := a + b END."
	first, err := Run(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := Run(src)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if FormatBindings(again) != FormatBindings(first) {
			t.Fatalf("run %d differs:\n%s\nvs\n%s", i, FormatBindings(again), FormatBindings(first))
		}
	}

	// A later run must not see earlier bindings.
	if _, err := Run("BEGIN c := a END."); Classify(err) != KindEvaluation {
		t.Fatalf("expected undefined variable, got=%v", err)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		src  string
		want ErrorKind
	}{
		{"BEGIN a := 1 END.", KindNone},
		{"BEGIN a := 1 & 2 END.", KindLexical},
		{"BEGIN a := END.", KindSyntax},
		{"BEGIN a := b END.", KindEvaluation},
		{"BEGIN a := 1 / 0 END.", KindEvaluation},
	}
	for _, tt := range tests {
		_, err := Run(tt.src)
		if got := Classify(err); got != tt.want {
			t.Errorf("%q: expected=%s, got=%s (%v)", tt.src, tt.want, got, err)
		}
	}
	if got := Classify(eval.ErrUnhandledNode); got != KindInternal {
		t.Errorf("ErrUnhandledNode expected=internal, got=%s", got)
	}
}

func TestMissingExpressionNamesEndToken(t *testing.T) {
	_, err := Run("BEGIN a := END.")
	var synErr *parser.Error
	if !errors.As(err, &synErr) {
		t.Fatalf("expected *parser.Error, got=%v", err)
	}
	if synErr.Found.Type != token.TokenEnd {
		t.Fatalf("expected the error to point at END, got=%s", synErr.Found.Type)
	}
}

func TestDescribe(t *testing.T) {
	src := "BEGIN\n  a := 1 / 0\nEND."
	_, err := Run(src)
	got := Describe(err, src)
	want := "2:10: Evaluation Error: division by zero\n" +
		"  1 | BEGIN\n" +
		"  2 |   a := 1 / 0\n" +
		"    |          ^\n" +
		"  3 | END.\n"
	if got != want {
		t.Fatalf("expected:\n%s\ngot:\n%s", want, got)
	}

	plain := errors.New("boom")
	if Describe(plain, src) != "boom" {
		t.Fatalf("errors without a position should be returned as-is")
	}
}

func TestIsProgram(t *testing.T) {
	if !IsProgram("  \n BEGIN a := 1 END.") {
		t.Errorf("expected program")
	}
	if IsProgram("1 + 2") || IsProgram("") || IsProgram("? BEGIN") {
		t.Errorf("expected expression")
	}
}

func TestEmitFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "calc.pas")
	if err := os.WriteFile(src, []byte("BEGIN a:=(1+2)*3;b:=a END."), 0o644); err != nil {
		t.Fatal(err)
	}
	outDir := filepath.Join(dir, "out")

	out, err := EmitFile(src, outDir, emitter.FormatLisp)
	if err != nil {
		t.Fatalf("EmitFile error: %v", err)
	}
	if out != filepath.Join(outDir, "calc.lisp") {
		t.Fatalf("unexpected output path %s", out)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "(begin (:= a (* (+ 1 2) 3)) (:= b a))\n" {
		t.Fatalf("unexpected lisp output %q", b)
	}
}

func TestFileExtensionIsChecked(t *testing.T) {
	if _, _, err := RunFile("program.txt"); err == nil || !strings.Contains(err.Error(), ".pas") {
		t.Fatalf("expected extension error, got=%v", err)
	}
	if _, err := EmitFile("program.txt", t.TempDir(), emitter.FormatPascal); err == nil {
		t.Fatalf("expected extension error")
	}
}

func TestTinyResultIsNotZero(t *testing.T) {
	ten := strings.TrimSuffix(strings.Repeat("10 * ", 10), " * ")
	src := "BEGIN a := " + ten + "; b := a * a * a * a * a; c := b * b * b * b * b * b * b; d := 1 / c END."
	env, err := Run(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d, _ := env.Get("d")
	if d.Sign() != 1 || d.String() != "1e-350" {
		t.Fatalf("d expected=1e-350, got=%s", d)
	}
	if !strings.Contains(FormatBindings(env), "d = 1e-350\n") {
		t.Fatalf("unexpected bindings:\n%s", FormatBindings(env))
	}
}
