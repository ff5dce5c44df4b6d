package emitter

import (
	"testing"

	"github.com/arnavsurve/minipas/internal/compiler/ast"
	"github.com/arnavsurve/minipas/internal/compiler/lexer"
	"github.com/arnavsurve/minipas/internal/compiler/parser"
)

func mustParseProgram(t *testing.T, src string) *ast.Compound {
	t.Helper()
	p, err := parser.New(lexer.New(src))
	if err != nil {
		t.Fatalf("parser.New error: %v", err)
	}
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram(%q) error: %v", src, err)
	}
	return prog
}

func mustParseExpression(t *testing.T, src string) ast.Expression {
	t.Helper()
	p, err := parser.New(lexer.New(src))
	if err != nil {
		t.Fatalf("parser.New error: %v", err)
	}
	expr, err := p.ParseExpression()
	if err != nil {
		t.Fatalf("ParseExpression(%q) error: %v", src, err)
	}
	return expr
}

func checkEmitterErrors(t *testing.T, e *Emitter) {
	t.Helper()
	errors := e.Errors()
	if len(errors) == 0 {
		return
	}
	t.Errorf("Emitter has %d errors:", len(errors))
	for i, msg := range errors {
		t.Errorf("   Error %d: %q", i+1, msg)
	}
	t.FailNow()
}

func TestEmitExpressions(t *testing.T) {
	tests := []struct {
		input  string
		pascal string
		rpn    string
		lisp   string
	}{
		{"2 + 3", "2 + 3", "2 3 +", "(+ 2 3)"},
		{"2 + 3 * 5", "2 + 3 * 5", "2 3 5 * +", "(+ 2 (* 3 5))"},
		{"(5 + 3) * 12 / 3", "(5 + 3) * 12 / 3", "5 3 + 12 * 3 /", "(/ (* (+ 5 3) 12) 3)"},
		{"7 + (((3 + 2)))", "7 + (3 + 2)", "7 3 2 + +", "(+ 7 (+ 3 2))"},
		{"1 - (2 - 3)", "1 - (2 - 3)", "1 2 3 - -", "(- 1 (- 2 3))"},
		{"- - a", "- -a", "a neg neg", "(- (- a))"},
		{"-(1 + b) * +2", "-(1 + b) * +2", "1 b + neg 2 *", "(* (- (+ 1 b)) (+ 2))"},
	}
	for _, tt := range tests {
		expr := mustParseExpression(t, tt.input)
		for format, want := range map[Format]string{FormatPascal: tt.pascal, FormatRPN: tt.rpn, FormatLisp: tt.lisp} {
			e := NewEmitter(format)
			got := e.Emit(expr)
			checkEmitterErrors(t, e)
			if got != want+"\n" {
				t.Errorf("%q as %s: expected=%q, got=%q", tt.input, format, want+"\n", got)
			}
		}
	}
}

func TestEmitPascalProgram(t *testing.T) {
	src := "BEGIN BEGIN number := 2; a := number ; END; ; x := (11) END ."
	want := `BEGIN
    BEGIN
        number := 2;
        a := number;
    END;
    ;
    x := 11
END.
`
	e := NewEmitter(FormatPascal)
	got := e.Emit(mustParseProgram(t, src))
	checkEmitterErrors(t, e)
	if got != want {
		t.Fatalf("expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestPascalRoundTrip(t *testing.T) {
	sources := []string{
		"BEGIN END.",
		"BEGIN a := 3; b := a + 2 * 5 END.",
		"BEGIN a := - - 5; b := 10 / 4 / (2 - a); ; BEGIN c := -(a * b) END; END.",
		"BEGIN x := 1 - (2 - (3 - 4)) * ((5)) END.",
	}
	for _, src := range sources {
		orig := mustParseProgram(t, src)
		e := NewEmitter(FormatPascal)
		out := e.Emit(orig)
		checkEmitterErrors(t, e)

		again := mustParseProgram(t, out)
		if orig.String() != again.String() {
			t.Errorf("round trip changed the tree.\nsource: %s\nemitted:\n%s\nbefore: %s\nafter:  %s", src, out, orig, again)
		}
	}
}

func TestEmitRPNAndLispProgram(t *testing.T) {
	prog := mustParseProgram(t, "BEGIN a := 3; ; b := a + -2 END.")

	e := NewEmitter(FormatRPN)
	if got, want := e.Emit(prog), "3 a :=\na 2 neg + b :=\n"; got != want {
		t.Errorf("rpn expected=%q, got=%q", want, got)
	}
	checkEmitterErrors(t, e)

	e = NewEmitter(FormatLisp)
	if got, want := e.Emit(prog), "(begin (:= a 3) (:= b (+ a (- 2))))\n"; got != want {
		t.Errorf("lisp expected=%q, got=%q", want, got)
	}
	checkEmitterErrors(t, e)
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats {
		got, err := ParseFormat(string(f))
		if err != nil || got != f {
			t.Errorf("ParseFormat(%q) = %q, %v", f, got, err)
		}
	}
	if _, err := ParseFormat("fortran"); err == nil {
		t.Errorf("ParseFormat(fortran) should fail")
	}
}

func TestUnknownFormatIsReported(t *testing.T) {
	e := NewEmitter(Format("fortran"))
	e.Emit(&ast.NoOp{})
	if len(e.Errors()) != 1 {
		t.Fatalf("expected one error, got=%v", e.Errors())
	}
}
