// Package server exposes the evaluator over HTTP.
package server

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/arnavsurve/minipas/internal/compiler"
	"github.com/arnavsurve/minipas/internal/compiler/value"
	"github.com/arnavsurve/minipas/internal/history"
)

type Server struct {
	maxBody  int
	recorder history.Recorder // optional
	log      *slog.Logger
}

type Option func(*Server)

func WithRecorder(r history.Recorder) Option {
	return func(s *Server) { s.recorder = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

func New(maxBody int, opts ...Option) *Server {
	s := &Server{maxBody: maxBody, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

type runResponse struct {
	Vars map[string]value.Number `json:"vars"`
}

type evalResponse struct {
	Value value.Number `json:"value"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// Handler routes requests. Every request is evaluated in its own environment.
func (s *Server) Handler(ctx *fasthttp.RequestCtx) {
	start := time.Now()
	defer func() {
		s.log.Info("request",
			"method", string(ctx.Method()),
			"path", string(ctx.Path()),
			"status", ctx.Response.StatusCode(),
			"elapsed", time.Since(start))
	}()

	switch string(ctx.Path()) {
	case "/healthz":
		if !ctx.IsGet() {
			ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
			return
		}
		ctx.SetContentType("text/plain; charset=utf-8")
		ctx.SetBodyString("ok")
	case "/run":
		s.evaluate(ctx, history.ModeProgram)
	case "/eval":
		s.evaluate(ctx, history.ModeExpression)
	default:
		ctx.Error("not found", fasthttp.StatusNotFound)
	}
}

func (s *Server) evaluate(ctx *fasthttp.RequestCtx, mode string) {
	if !ctx.IsPost() {
		ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
		return
	}
	body := ctx.PostBody()
	if len(body) > s.maxBody {
		ctx.Error("request body too large", fasthttp.StatusRequestEntityTooLarge)
		return
	}
	src := string(body)

	var (
		payload any
		result  string
		err     error
	)
	if mode == history.ModeProgram {
		env, runErr := compiler.Run(src)
		if err = runErr; err == nil {
			payload = runResponse{Vars: env.Snapshot()}
			result = compiler.FormatBindings(env)
		}
	} else {
		val, evalErr := compiler.EvalExpression(src)
		if err = evalErr; err == nil {
			payload = evalResponse{Value: val}
			result = val.String()
		}
	}

	status := fasthttp.StatusOK
	entry := &history.Entry{Mode: mode, Source: src, Result: result}
	if err != nil {
		kind := compiler.Classify(err)
		body := errorBody{Kind: kind.String(), Message: err.Error()}
		if pos, ok := compiler.Position(err); ok {
			body.Line, body.Column = pos.Line, pos.Column
		}
		payload = errorResponse{Error: body}
		status = fasthttp.StatusUnprocessableEntity
		if kind == compiler.KindInternal {
			status = fasthttp.StatusInternalServerError
		}
		entry.ErrorKind, entry.Error = kind.String(), err.Error()
	}

	if s.recorder != nil {
		if recErr := s.recorder.Record(entry); recErr != nil {
			s.log.Warn("history record failed", "err", recErr)
		}
	}
	writeJSON(ctx, status, payload)
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(b)
}

// ListenAndServe serves until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	srv := &fasthttp.Server{
		Handler:            s.Handler,
		Name:               "minipas",
		MaxRequestBodySize: s.maxBody,
		ReadTimeout:        10 * time.Second,
		WriteTimeout:       10 * time.Second,
	}
	s.log.Info("listening", "addr", addr)
	return srv.ListenAndServe(addr)
}
