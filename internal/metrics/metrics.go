// Package metrics owns the Prometheus registry of the server and the
// collectors recorded by middleware and handlers.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors.  A nil *Metrics is valid and records
// nothing, which keeps handler tests free of registry setup.
type Metrics struct {
	reg *prometheus.Registry

	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	showsScheduled prometheus.Counter
	quizPicks      *prometheus.CounterVec
	searches       *prometheus.CounterVec
}

// New registers every collector on a fresh registry, together with the
// Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.3, 0.6, 1, 3},
		}, []string{"method", "route"}),
		showsScheduled: f.NewCounter(prometheus.CounterOpts{
			Name: "shows_scheduled_total",
			Help: "Total number of shows created.",
		}),
		quizPicks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_picks_total",
			Help: "Quiz selections by outcome (question or exhausted).",
		}, []string{"outcome"}),
		searches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "search_requests_total",
			Help: "Substring searches by entity.",
		}, []string{"entity"}),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Middleware records request count and latency per route template.
// Requests that match no route are labelled "unmatched" to bound the
// label cardinality.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil {
				return next(c)
			}
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if !c.Response().Committed {
					status = http.StatusInternalServerError
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// ShowScheduled counts a created show.
func (m *Metrics) ShowScheduled() {
	if m != nil {
		m.showsScheduled.Inc()
	}
}

// QuizPick counts a quiz selection; exhausted is true when no question
// was left.
func (m *Metrics) QuizPick(exhausted bool) {
	if m == nil {
		return
	}
	outcome := "question"
	if exhausted {
		outcome = "exhausted"
	}
	m.quizPicks.WithLabelValues(outcome).Inc()
}

// Search counts a substring search over entity.
func (m *Metrics) Search(entity string) {
	if m != nil {
		m.searches.WithLabelValues(entity).Inc()
	}
}
