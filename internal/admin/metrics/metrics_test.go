package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/haulmatch/taxadmin/internal/admin/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := metrics.New()

	m.ObserveLogin(metrics.LoginSuccess)
	m.ObserveLogin(metrics.LoginInvalidCredentials)
	m.ObserveLogin(metrics.LoginInvalidCredentials)
	m.ObserveSession("anonymous")
	m.ObserveRPC("auth.me", "OK", 0.01)
	m.ObserveGateRejection("formValues.update", "admin", "FORBIDDEN")

	count, err := testutil.GatherAndCount(m.Registry(), "taxadmin_login_attempts_total")
	require.NoError(t, err)
	require.Equal(t, 2, count, "one series per outcome")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	require.Contains(t, body, `taxadmin_login_attempts_total{outcome="invalid_credentials"} 2`)
	require.Contains(t, body, `taxadmin_session_resolutions_total{result="anonymous"} 1`)
	require.Contains(t, body, `taxadmin_rpc_calls_total{code="OK",procedure="auth.me"} 1`)
	require.Contains(t, body, `taxadmin_gate_rejections_total{procedure="formValues.update",reason="FORBIDDEN",tier="admin"} 1`)
}

func TestIndependentRegistries(t *testing.T) {
	a, b := metrics.New(), metrics.New()
	a.ObserveLogin(metrics.LoginSuccess)

	count, err := testutil.GatherAndCount(b.Registry(), "taxadmin_login_attempts_total")
	require.NoError(t, err)
	require.Zero(t, count)
}
