// Package metrics expone métricas Prometheus del servicio: tráfico HTTP,
// decisiones del gate, intentos de login y estado del pool de Postgres.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	reg      *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inflight prometheus.Gauge
	gate     *prometheus.CounterVec
	logins   *prometheus.CounterVec
}

// New registra todo en un registry propio (más el collector de Go/proceso),
// así los tests pueden crear instancias sin chocar con el global.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Requests procesadas por método, ruta y status",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latencia de los requests HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Requests en vuelo",
		}),
		gate: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_gate_decisions_total",
			Help: "Decisiones del gate por rol requerido y resultado",
		}, []string{"required_role", "result"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_login_attempts_total",
			Help: "Intentos de login por rol y resultado",
		}, []string{"role", "result"}),
	}
	m.reg.MustRegister(
		m.requests, m.duration, m.inflight, m.gate, m.logins,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Registry se expone para tests (testutil) y collectors extra.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// GateDecision: result es ok, missing_token, invalid_token o forbidden.
func (m *Metrics) GateDecision(requiredRole, result string) {
	if m == nil {
		return
	}
	if requiredRole == "" {
		requiredRole = "any"
	}
	m.gate.WithLabelValues(requiredRole, result).Inc()
}

// LoginAttempt: result es ok, invalid_credentials, invalid_role o error.
func (m *Metrics) LoginAttempt(role, result string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(role, result).Inc()
}

// RegisterPool agrega gauges del pgxpool.
func (m *Metrics) RegisterPool(pool *pgxpool.Pool) error {
	return m.reg.Register(newPoolCollector(pool))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// Middleware instrumenta requests. La ruta es el patrón de chi
// (/api/admin/students/{id}), no el path crudo, para acotar la cardinalidad.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.inflight.Inc()
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		defer func() {
			m.inflight.Dec()
			route := "unmatched"
			if rc := chi.RouteContext(r.Context()); rc != nil {
				if p := rc.RoutePattern(); p != "" {
					route = p
				}
			}
			method := strings.ToUpper(r.Method)
			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		}()

		next.ServeHTTP(rec, r)
	})
}

type poolCollector struct {
	pool     *pgxpool.Pool
	acquired *prometheus.Desc
	idle     *prometheus.Desc
	total    *prometheus.Desc
}

func newPoolCollector(pool *pgxpool.Pool) *poolCollector {
	return &poolCollector{
		pool:     pool,
		acquired: prometheus.NewDesc("pg_pool_acquired_conns", "Conexiones adquiridas", nil, nil),
		idle:     prometheus.NewDesc("pg_pool_idle_conns", "Conexiones inactivas", nil, nil),
		total:    prometheus.NewDesc("pg_pool_total_conns", "Conexiones totales", nil, nil),
	}
}

func (c *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquired
	ch <- c.idle
	ch <- c.total
}

func (c *poolCollector) Collect(ch chan<- prometheus.Metric) {
	if c.pool == nil {
		return
	}
	s := c.pool.Stat()
	ch <- prometheus.MustNewConstMetric(c.acquired, prometheus.GaugeValue, float64(s.AcquiredConns()))
	ch <- prometheus.MustNewConstMetric(c.idle, prometheus.GaugeValue, float64(s.IdleConns()))
	ch <- prometheus.MustNewConstMetric(c.total, prometheus.GaugeValue, float64(s.TotalConns()))
}
