package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/haulmatch/taxadmin/internal/admin/service"
	"github.com/haulmatch/taxadmin/pkg/httpx"
)

type observed struct {
	calls      []string
	rejections []string
}

func (o *observed) ObserveRPC(procedure, code string, _ float64) {
	o.calls = append(o.calls, procedure+"="+code)
}

func (o *observed) ObserveGateRejection(procedure, tier, reason string) {
	o.rejections = append(o.rejections, procedure+"/"+tier+"/"+reason)
}

type echoInput struct {
	Name string `json:"name"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
		Data    struct {
			Code       string `json:"code"`
			HTTPStatus int    `json:"httpStatus"`
			Path       string `json:"path"`
			Stack      string `json:"stack"`
		} `json:"data"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func newTestServer(obs *observed, counter *int, opts ...ServerOption) http.Handler {
	s := NewServer(append([]ServerOption{WithObserver(obs)}, opts...)...)
	s.Register(
		Query("test.echo", httpx.TierPublic, func(_ context.Context, _ *Call, in echoInput) (map[string]string, error) {
			return map[string]string{"hello": in.Name}, nil
		}),
		Mutation("test.sideEffect", httpx.TierAdmin, func(_ context.Context, _ *Call, in echoInput) (int, error) {
			*counter++
			return *counter, nil
		}),
		Query("test.whoami", httpx.TierAuthenticated, func(ctx context.Context, _ *Call, _ NoInput) (string, error) {
			p, _ := httpx.PrincipalFromContext(ctx)
			return p.UserID, nil
		}),
		Query("test.boom", httpx.TierPublic, func(context.Context, *Call, NoInput) (any, error) {
			return nil, errors.New("database on fire")
		}),
	)

	mux := http.NewServeMux()
	mux.Handle("GET "+PathPrefix+"{procedure}", s)
	mux.Handle("POST "+PathPrefix+"{procedure}", s)
	return mux
}

func withPrincipal(r *http.Request, roles ...string) *http.Request {
	return r.WithContext(httpx.WithPrincipal(r.Context(), httpx.Principal{UserID: "u1", Roles: roles}))
}

func TestServer_Query(t *testing.T) {
	obs := &observed{}
	h := newTestServer(obs, new(int))

	input := url.QueryEscape(`{"name":"ana"}`)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rpc/test.echo?input="+input, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"result":{"data":{"hello":"ana"}}}`, rec.Body.String())
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.Equal(t, []string{"test.echo=OK"}, obs.calls)
}

func TestServer_AdminOnlyBodyNeverRunsWhenRejected(t *testing.T) {
	tests := []struct {
		name       string
		roles      []string
		anonymous  bool
		wantStatus int
		wantCode   string
		wantRuns   int
		rejection  string
	}{
		{"anonymous", nil, true, http.StatusUnauthorized, CodeUnauthorized, 0, "test.sideEffect/admin/unauthenticated"},
		{"non-admin", []string{"editor"}, false, http.StatusForbidden, CodeForbidden, 0, "test.sideEffect/admin/forbidden"},
		{"admin", []string{"admin"}, false, http.StatusOK, "", 1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := &observed{}
			counter := 0
			h := newTestServer(obs, &counter)

			req := httptest.NewRequest(http.MethodPost, "/api/rpc/test.sideEffect", strings.NewReader(`{"name":"x"}`))
			if !tt.anonymous {
				req = withPrincipal(req, tt.roles...)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			require.Equal(t, tt.wantRuns, counter)
			if tt.wantCode != "" {
				body := decodeError(t, rec)
				require.Equal(t, tt.wantCode, body.Error.Data.Code)
				require.Equal(t, "test.sideEffect", body.Error.Data.Path)
				require.Equal(t, []string{tt.rejection}, obs.rejections)
			} else {
				require.Empty(t, obs.rejections)
			}
		})
	}
}

func TestServer_GateRunsBeforeDecoding(t *testing.T) {
	counter := 0
	h := newTestServer(&observed{}, &counter)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/rpc/test.sideEffect", strings.NewReader(`{not json`)))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, CodeUnauthorized, decodeError(t, rec).Error.Data.Code)
}

func TestServer_AuthenticatedTier(t *testing.T) {
	h := newTestServer(&observed{}, new(int))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rpc/test.whoami", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, withPrincipal(httptest.NewRequest(http.MethodGet, "/api/rpc/test.whoami", nil)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"result":{"data":"u1"}}`, rec.Body.String())
}

func TestServer_Errors(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
		wantCode   string
		wantRPC    int
	}{
		{"unknown procedure", http.MethodGet, "/api/rpc/nope.nothing", "", http.StatusNotFound, CodeNotFound, -32004},
		{"query over POST", http.MethodPost, "/api/rpc/test.echo", `{}`, http.StatusMethodNotAllowed, CodeMethodNotSupported, -32005},
		{"malformed query input", http.MethodGet, "/api/rpc/test.echo?input=" + url.QueryEscape("{"), "", http.StatusBadRequest, CodeParseError, -32700},
		{"wrong input type", http.MethodGet, "/api/rpc/test.echo?input=" + url.QueryEscape(`{"name":5}`), "", http.StatusBadRequest, CodeBadRequest, -32600},
		{"internal error", http.MethodGet, "/api/rpc/test.boom", "", http.StatusInternalServerError, CodeInternalServerError, -32603},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(&observed{}, new(int))

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body)))

			require.Equal(t, tt.wantStatus, rec.Code)
			got := decodeError(t, rec)
			require.Equal(t, tt.wantCode, got.Error.Data.Code)
			require.Equal(t, tt.wantStatus, got.Error.Data.HTTPStatus)
			require.Equal(t, tt.wantRPC, got.Error.Code)
		})
	}
}

func TestServer_InputErrorsNameNoGoTypes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"field of wrong type", `{"name":5}`, "Invalid input: name must be a string, got number"},
		{"array instead of object", `[1]`, "Invalid input: expected an object, got array"},
		{"string instead of object", `"x"`, "Invalid input: expected an object, got string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(&observed{}, new(int))

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rpc/test.echo?input="+url.QueryEscape(tt.input), nil))

			require.Equal(t, http.StatusBadRequest, rec.Code)
			got := decodeError(t, rec)
			require.Equal(t, CodeBadRequest, got.Error.Data.Code)
			require.Equal(t, tt.wantMsg, got.Error.Message)
			require.NotContains(t, rec.Body.String(), "Go value")
			require.NotContains(t, rec.Body.String(), "rpc.")
		})
	}
}

func TestServer_NoInputIgnoresBody(t *testing.T) {
	runs := 0
	s := NewServer()
	s.Register(Mutation("test.reset", httpx.TierPublic, func(context.Context, *Call, NoInput) (bool, error) {
		runs++
		return true, nil
	}))

	bodies := []string{"", "null", "{}", "[1]", `"x"`, "not json", strings.Repeat("a", maxInputBytes+1)}
	for i, body := range bodies {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/rpc/test.reset", strings.NewReader(body)))

		require.Equal(t, http.StatusOK, rec.Code, "body %d: %s", i, rec.Body.String())
		require.JSONEq(t, `{"result":{"data":true}}`, rec.Body.String())
	}
	require.Equal(t, len(bodies), runs)
}

func TestServer_InternalErrorsHideCause(t *testing.T) {
	t.Run("production", func(t *testing.T) {
		h := newTestServer(&observed{}, new(int))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rpc/test.boom", nil))

		got := decodeError(t, rec)
		require.Equal(t, "internal server error", got.Error.Message)
		require.Empty(t, got.Error.Data.Stack)
		require.NotContains(t, rec.Body.String(), "database on fire")
	})

	t.Run("dev", func(t *testing.T) {
		h := newTestServer(&observed{}, new(int), WithDevErrors(true))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rpc/test.boom", nil))

		got := decodeError(t, rec)
		require.Equal(t, "internal server error", got.Error.Message)
		require.NotEmpty(t, got.Error.Data.Stack)
	})
}

func TestServer_RegisterDuplicatePanics(t *testing.T) {
	s := NewServer()
	p := Query("a.b", httpx.TierPublic, func(context.Context, *Call, NoInput) (bool, error) { return true, nil })
	s.Register(p)
	require.Panics(t, func() { s.Register(p) })
	require.Panics(t, func() { s.Register(Procedure{Name: "x.y"}) })

	got, ok := s.Lookup("a.b")
	require.True(t, ok)
	require.Equal(t, KindQuery, got.Kind)
}

func TestErrorFrom(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{service.ErrInvalidCredentials, http.StatusUnauthorized, CodeUnauthorized, "Invalid email or password"},
		{service.ErrAccessDenied, http.StatusForbidden, CodeForbidden, "Access denied. Admin role required."},
		{httpx.ErrForbidden, http.StatusForbidden, CodeForbidden, "Access denied. Admin role required."},
		{httpx.ErrUnauthenticated, http.StatusUnauthorized, CodeUnauthorized, ""},
		{service.ErrOTPRequired, http.StatusPreconditionFailed, CodePreconditionFailed, ""},
		{fmt.Errorf("form value 3: %w", service.ErrNotFound), http.StatusNotFound, CodeNotFound, ""},
		{fmt.Errorf("%w: email: must be a valid email address", service.ErrInvalidInput), http.StatusBadRequest, CodeBadRequest, ""},
		{errors.New("boom"), http.StatusInternalServerError, CodeInternalServerError, "internal server error"},
		{ErrTooManyRequests, http.StatusTooManyRequests, CodeTooManyRequests, ""},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			got := ErrorFrom(tt.err)
			require.Equal(t, tt.wantStatus, got.StatusCode)
			require.Equal(t, tt.wantCode, got.Code)
			if tt.wantMsg != "" {
				require.Equal(t, tt.wantMsg, got.Message)
			}
		})
	}
}

func TestLimitExceeded(t *testing.T) {
	limited := httpx.Chain(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }),
		httpx.RateLimitByIP(httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}, httpx.WithLimitExceeded(LimitExceeded)),
	)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/rpc/auth.login", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusNoContent, send().Code)

	rec := send()
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	got := decodeError(t, rec)
	require.Equal(t, CodeTooManyRequests, got.Error.Data.Code)
	require.Equal(t, -32029, got.Error.Code)
	require.Equal(t, "auth.login", got.Error.Data.Path)
}
