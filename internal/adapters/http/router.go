package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/banguela/school-admin/internal/core/ports"
	"github.com/banguela/school-admin/internal/observability/metrics"
)

const serviceName = "school-admin-api"

type Limits struct {
	MaxUploadBytes  int64
	PreviewMaxChars int
	RateLimitRPS    int
	RateLimitBurst  int
	MaxInFlight     int
}

func (l Limits) normalize() Limits {
	out := l
	if out.MaxUploadBytes <= 0 {
		out.MaxUploadBytes = 10 << 20
	}
	if out.PreviewMaxChars <= 0 {
		out.PreviewMaxChars = 500
	}
	if out.RateLimitRPS <= 0 {
		out.RateLimitRPS = 20
	}
	if out.RateLimitBurst <= 0 {
		out.RateLimitBurst = out.RateLimitRPS
	}
	if out.MaxInFlight <= 0 {
		out.MaxInFlight = 32
	}
	return out
}

type Router struct {
	students ports.StudentDirectory
	exporter ports.DocumentExporter
	content  ports.ContentProducer
	sessions ports.SessionRegistries
	auth     AuthConfig
	limits   Limits
	metrics  *metrics.HTTPServerMetrics
}

func NewRouter(
	students ports.StudentDirectory,
	exporter ports.DocumentExporter,
	content ports.ContentProducer,
	sessions ports.SessionRegistries,
	auth AuthConfig,
	limits Limits,
	serverMetrics *metrics.HTTPServerMetrics,
) *Router {
	if serverMetrics == nil {
		serverMetrics = metrics.NewHTTPServerMetrics(serviceName)
	}
	return &Router{
		students: students,
		exporter: exporter,
		content:  content,
		sessions: sessions,
		auth:     auth.normalize(),
		limits:   limits.normalize(),
		metrics:  serverMetrics,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.Handle("/metrics", rt.metrics.Handler())
	mux.HandleFunc("/v1/auth/login", rt.login)

	mux.Handle("/v1/students", rt.requireSession(http.HandlerFunc(rt.handleStudents)))
	mux.Handle("/v1/dashboard", rt.requireSession(http.HandlerFunc(rt.dashboard)))
	mux.Handle("/v1/dashboard/charts/", rt.requireSession(http.HandlerFunc(rt.dashboardChart)))
	mux.Handle("/v1/documents/extract", rt.requireSession(http.HandlerFunc(rt.extractDocument)))
	mux.Handle("/v1/exports", rt.requireSession(http.HandlerFunc(rt.handleExports)))
	mux.Handle("/v1/exports/", rt.requireSession(http.HandlerFunc(rt.downloadExport)))
	mux.Handle("/v1/content", rt.requireSession(http.HandlerFunc(rt.generateContent)))

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.limits.MaxInFlight, 50*time.Millisecond)
	handler = rateLimitMiddleware(handler, rate.Limit(rt.limits.RateLimitRPS), rt.limits.RateLimitBurst)
	handler = rt.metrics.Middleware(serviceName, handler)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}
