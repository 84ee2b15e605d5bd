package http

import (
	"log/slog"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/haulmatch/taxadmin/api/taxadmin" // Swagger docs
	"github.com/haulmatch/taxadmin/internal/admin/metrics"
	"github.com/haulmatch/taxadmin/internal/admin/rpc"
	"github.com/haulmatch/taxadmin/internal/admin/service"
	"github.com/haulmatch/taxadmin/internal/admin/store"
	"github.com/haulmatch/taxadmin/pkg/httpx"
	"github.com/haulmatch/taxadmin/pkg/jwtx"
	"github.com/haulmatch/taxadmin/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	codec        jwtx.Codec
	metrics      *metrics.Metrics
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store
	rpc          *rpc.Server

	// SecureCookies marks the session cookie Secure; set when BASE_URL is https.
	SecureCookies bool
	// DevErrors exposes stack traces of internal errors in RPC responses.
	DevErrors bool
	// RateLimits is read by ApplyRoutes; NewRouter sets the production buckets.
	RateLimits httpx.RateLimits

	AuthService      *service.AuthService
	CategoryService  *service.CategoryService
	FormFieldService *service.FormFieldService
	FormValueService *service.FormValueService
}

func NewRouter(
	codec jwtx.Codec,
	buildVersion string,
	st store.Store,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		codec:        codec,
		metrics:      m,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		RateLimits:   httpx.DefaultRateLimits(),
	}

	// Request logger first so session failures are logged with the request id.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.SessionMiddleware(codec, m),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.rpc = rpc.NewServer(
		rpc.WithObserver(r.metrics),
		rpc.WithDevErrors(r.DevErrors),
	)

	r.registerAuth()
	r.registerTaxonomy()
	r.registerRPC()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Taxonomy Admin API
//	@version		0.1.0
//	@description	RPC procedures for managing transportation categories, form fields and form values.
//	@description
//	@description	Queries are served over GET with the JSON input in the `input` query parameter,
//	@description	mutations over POST with the JSON input as the body. Responses use the envelope
//	@description	`{"result":{"data":...}}` or `{"error":{...}}`.
//
//	@contact.name	HaulMatch Platform Team
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	SessionCookie
//	@in							cookie
//	@name						auth-token
//	@description				Signed session token set by auth.login.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerRPC() {
	// Logins are rate limited per IP on top of the shared dispatcher.
	r.Mux.Handle("POST "+rpc.PathPrefix+"auth.login",
		httpx.Chain(r.rpc,
			httpx.RateLimitByIP(r.RateLimits.Login, httpx.WithLimitExceeded(rpc.LimitExceeded)),
		),
	)

	r.Mux.Handle("GET "+rpc.PathPrefix+"{procedure}",
		httpx.Chain(r.rpc,
			httpx.RateLimitByIP(r.RateLimits.Query, httpx.WithLimitExceeded(rpc.LimitExceeded)),
		),
	)
	r.Mux.Handle("POST "+rpc.PathPrefix+"{procedure}",
		httpx.Chain(r.rpc,
			httpx.RateLimitByUser(r.RateLimits.Mutation, httpx.WithLimitExceeded(rpc.LimitExceeded)),
		),
	)
}

func (r *Router) registerSystem() {
	// One bucket shared by both probes.
	health := httpx.RateLimitByIP(r.RateLimits.Health)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			health,
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.codec),
			health,
		),
	)
	r.Mux.Handle("GET /metrics",
		httpx.Chain(r.metrics.Handler(),
			httpx.RequireTier(httpx.TierAdmin),
		),
	)
}
