package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/haulmatch/taxadmin/pkg/httpx"
	"github.com/haulmatch/taxadmin/pkg/slogx"
)

// PathPrefix is where the procedures are mounted.
const PathPrefix = "/api/rpc/"

const maxInputBytes = 1 << 20

// Observer records call outcomes. *metrics.Metrics satisfies it.
type Observer interface {
	ObserveRPC(procedure, code string, seconds float64)
	ObserveGateRejection(procedure, tier, reason string)
}

type Server struct {
	procedures map[string]Procedure
	observer   Observer
	dev        bool
}

type ServerOption func(*Server)

func WithObserver(o Observer) ServerOption {
	return func(s *Server) { s.observer = o }
}

// WithDevErrors includes stack traces in internal error responses.
func WithDevErrors(dev bool) ServerOption {
	return func(s *Server) { s.dev = dev }
}

func NewServer(opts ...ServerOption) *Server {
	s := &Server{procedures: make(map[string]Procedure)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds procedures. It panics on a duplicate name or a missing handler.
func (s *Server) Register(procs ...Procedure) {
	for _, p := range procs {
		if p.Name == "" || p.Handler == nil {
			panic("rpc: procedure needs a name and a handler")
		}
		if _, dup := s.procedures[p.Name]; dup {
			panic(fmt.Sprintf("rpc: procedure %q registered twice", p.Name))
		}
		s.procedures[p.Name] = p
	}
}

func (s *Server) Lookup(name string) (Procedure, bool) {
	p, ok := s.procedures[name]
	return p, ok
}

// ServeHTTP dispatches GET|POST /api/rpc/{procedure}.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	name := ProcedureName(r)

	code, err := s.serve(w, r, name)
	if err != nil {
		rpcErr := s.writeError(w, r, name, err)
		code = rpcErr.Code
	}

	if s.observer != nil {
		if _, known := s.procedures[name]; !known {
			name = "unknown"
		}
		s.observer.ObserveRPC(name, code, time.Since(start).Seconds())
	}

	slogx.FromContext(ctx).Debug("rpc call", "procedure", name, "code", code)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request, name string) (string, error) {
	ctx := r.Context()

	proc, ok := s.procedures[name]
	if !ok {
		return "", ErrProcedureNotFound
	}
	if r.Method != proc.Kind.method() {
		w.Header().Set("Allow", proc.Kind.method())
		return "", ErrMethodNotSupported
	}

	if err := httpx.Authorize(ctx, proc.Tier); err != nil {
		if s.observer != nil {
			s.observer.ObserveGateRejection(name, proc.Tier.String(), gateReason(err))
		}
		return "", err
	}

	var raw json.RawMessage
	if !proc.ignoreInput {
		var err error
		if raw, err = readInput(w, r, proc.Kind); err != nil {
			return "", err
		}
	}

	out, err := proc.Handler(ctx, &Call{Path: name, Request: r, Writer: w}, raw)
	if err != nil {
		return "", err
	}

	httpx.WriteJSON(w, http.StatusOK, resultEnvelope{Result: resultBody{Data: out}})
	return "OK", nil
}

func readInput(w http.ResponseWriter, r *http.Request, kind Kind) (json.RawMessage, error) {
	if kind == KindQuery {
		return json.RawMessage(r.URL.Query().Get("input")), nil
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxInputBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, NewError(http.StatusRequestEntityTooLarge, CodeBadRequest, "Input too large")
		}
		return nil, &Error{StatusCode: ErrParse.StatusCode, Code: ErrParse.Code, Message: "Could not read input", cause: err}
	}
	return body, nil
}

func gateReason(err error) string {
	if errors.Is(err, httpx.ErrForbidden) {
		return "forbidden"
	}
	return "unauthenticated"
}

// ProcedureName extracts the procedure from the request path.
func ProcedureName(r *http.Request) string {
	if name := r.PathValue("procedure"); name != "" {
		return name
	}
	return strings.TrimPrefix(r.URL.Path, PathPrefix)
}

type resultEnvelope struct {
	Result resultBody `json:"result"`
}

type resultBody struct {
	Data any `json:"data"`
}

type errorEnvelope struct {
	Error errorShape `json:"error"`
}

type errorShape struct {
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Data    errorData `json:"data"`
}

type errorData struct {
	Code       string `json:"code"`
	HTTPStatus int    `json:"httpStatus"`
	Path       string `json:"path,omitempty"`
	Stack      string `json:"stack,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, path string, err error) *Error {
	rpcErr := ErrorFrom(err)

	var stack string
	if rpcErr.StatusCode >= http.StatusInternalServerError {
		slogx.FromContext(r.Context()).Error("procedure failed", "procedure", path, "err", err)
		if s.dev {
			stack = string(debug.Stack())
		}
	}

	WriteError(w, path, rpcErr, stack)
	return rpcErr
}

// WriteError writes e in the RPC error envelope.
func WriteError(w http.ResponseWriter, path string, e *Error, stack string) {
	httpx.WriteJSON(w, e.StatusCode, errorEnvelope{Error: errorShape{
		Message: e.Message,
		Code:    e.JSONRPCCode(),
		Data: errorData{
			Code:       e.Code,
			HTTPStatus: e.StatusCode,
			Path:       path,
			Stack:      stack,
		},
	}})
}

// LimitExceeded answers a rate-limited procedure call with TOO_MANY_REQUESTS.
func LimitExceeded(w http.ResponseWriter, r *http.Request) {
	WriteError(w, ProcedureName(r), ErrTooManyRequests, "")
}
