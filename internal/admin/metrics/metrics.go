// Package metrics holds the service's Prometheus collectors on a private
// registry so tests can build independent instances.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "taxadmin"

// Login outcomes.
const (
	LoginSuccess            = "success"
	LoginInvalidInput       = "invalid_input"
	LoginInvalidCredentials = "invalid_credentials"
	LoginAccessDenied       = "access_denied"
	LoginOTPRequired        = "otp_required"
	LoginError              = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	logins         *prometheus.CounterVec
	sessions       *prometheus.CounterVec
	rpcCalls       *prometheus.CounterVec
	rpcDuration    *prometheus.HistogramVec
	gateRejections *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_resolutions_total",
			Help:      "Session cookie resolutions by result.",
		}, []string{"result"}),
		rpcCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_calls_total",
			Help:      "RPC procedure calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC procedure latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		gateRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gate_rejections_total",
			Help:      "Calls rejected by the authorization gate.",
		}, []string{"procedure", "tier", "reason"}),
	}

	m.registry.MustRegister(
		m.logins,
		m.sessions,
		m.rpcCalls,
		m.rpcDuration,
		m.gateRejections,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveLogin(outcome string) {
	m.logins.WithLabelValues(outcome).Inc()
}

// ObserveSession satisfies httpx.SessionObserver.
func (m *Metrics) ObserveSession(result string) {
	m.sessions.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveRPC(procedure, code string, seconds float64) {
	m.rpcCalls.WithLabelValues(procedure, code).Inc()
	m.rpcDuration.WithLabelValues(procedure).Observe(seconds)
}

func (m *Metrics) ObserveGateRejection(procedure, tier, reason string) {
	m.gateRejections.WithLabelValues(procedure, tier, reason).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
