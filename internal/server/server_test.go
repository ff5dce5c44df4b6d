package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/valyala/fasthttp"

	"github.com/arnavsurve/minipas/internal/history"
)

type memRecorder struct {
	entries []*history.Entry
}

func (m *memRecorder) Record(e *history.Entry) error {
	m.entries = append(m.entries, e)
	return nil
}

func newTestServer(opts ...Option) *Server {
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return New(1024, opts...)
}

func do(s *Server, method, path, body string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	ctx.Request.SetBodyString(body)
	s.Handler(&ctx)
	return &ctx
}

type decoded struct {
	Vars  map[string]json.Number `json:"vars"`
	Value *json.Number           `json:"value"`
	Error *struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
		Line    int    `json:"line"`
		Column  int    `json:"column"`
	} `json:"error"`
}

func decode(t *testing.T, ctx *fasthttp.RequestCtx) decoded {
	t.Helper()
	var d decoded
	dec := json.NewDecoder(strings.NewReader(string(ctx.Response.Body())))
	dec.UseNumber()
	if err := dec.Decode(&d); err != nil {
		t.Fatalf("invalid JSON %q: %v", ctx.Response.Body(), err)
	}
	return d
}

func TestRunEndpoint(t *testing.T) {
	rec := &memRecorder{}
	s := newTestServer(WithRecorder(rec))

	ctx := do(s, "POST", "/run", "BEGIN a := 3; b := a + 2 * 5; c := 10 / 4 END.")
	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("expected 200, got=%d body=%s", ctx.Response.StatusCode(), ctx.Response.Body())
	}
	d := decode(t, ctx)
	if d.Vars["a"] != "3" || d.Vars["b"] != "13" || d.Vars["c"] != "2.5" {
		t.Fatalf("unexpected vars: %v", d.Vars)
	}
	if len(rec.entries) != 1 || rec.entries[0].Mode != history.ModeProgram || rec.entries[0].Failed() {
		t.Fatalf("unexpected history: %+v", rec.entries)
	}
}

func TestRunEndpointEmptyProgram(t *testing.T) {
	s := newTestServer()
	ctx := do(s, "POST", "/run", "BEGIN END.")
	if got := string(ctx.Response.Body()); got != `{"vars":{}}` {
		t.Fatalf("expected empty vars object, got=%s", got)
	}
}

func TestEvalEndpoint(t *testing.T) {
	s := newTestServer()
	ctx := do(s, "POST", "/eval", "7 + 3 * (10 / (12 / (3 + 1) - 1))")
	d := decode(t, ctx)
	if ctx.Response.StatusCode() != fasthttp.StatusOK || d.Value == nil || *d.Value != "22" {
		t.Fatalf("expected value 22, got status=%d body=%s", ctx.Response.StatusCode(), ctx.Response.Body())
	}
}

func TestErrorsAreStructured(t *testing.T) {
	rec := &memRecorder{}
	s := newTestServer(WithRecorder(rec))

	tests := []struct {
		path, body string
		kind       string
		line, col  int
	}{
		{"/run", "BEGIN a := END.", "syntax", 1, 12},
		{"/run", "BEGIN x := y END.", "evaluation", 1, 12},
		{"/eval", "1 / 0", "evaluation", 1, 3},
		{"/eval", "1 @ 2", "lexical", 1, 3},
	}
	for _, tt := range tests {
		ctx := do(s, "POST", tt.path, tt.body)
		if ctx.Response.StatusCode() != fasthttp.StatusUnprocessableEntity {
			t.Fatalf("%q: expected 422, got=%d", tt.body, ctx.Response.StatusCode())
		}
		d := decode(t, ctx)
		if d.Error == nil || d.Error.Kind != tt.kind || d.Error.Line != tt.line || d.Error.Column != tt.col {
			t.Errorf("%q: unexpected error body %s", tt.body, ctx.Response.Body())
		}
		if d.Vars != nil || d.Value != nil {
			t.Errorf("%q: failed requests must not return results", tt.body)
		}
	}
	if len(rec.entries) != len(tests) {
		t.Fatalf("expected every request recorded, got=%d", len(rec.entries))
	}
	for _, e := range rec.entries {
		if !e.Failed() {
			t.Errorf("entry should be marked failed: %+v", e)
		}
	}
}

func TestRouting(t *testing.T) {
	s := newTestServer()
	tests := []struct {
		method, path, body string
		status             int
	}{
		{"GET", "/healthz", "", fasthttp.StatusOK},
		{"POST", "/healthz", "", fasthttp.StatusMethodNotAllowed},
		{"GET", "/run", "", fasthttp.StatusMethodNotAllowed},
		{"GET", "/nope", "", fasthttp.StatusNotFound},
		{"POST", "/eval", strings.Repeat("1+", 600) + "1", fasthttp.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		ctx := do(s, tt.method, tt.path, tt.body)
		if ctx.Response.StatusCode() != tt.status {
			t.Errorf("%s %s: expected=%d, got=%d", tt.method, tt.path, tt.status, ctx.Response.StatusCode())
		}
	}
}
