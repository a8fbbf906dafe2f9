package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_CountsByRouteAndStatus(t *testing.T) {
	m := New()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/v1/venues/:id", func(c echo.Context) error {
		if c.Param("id") == "0" {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		return c.NoContent(http.StatusOK)
	})

	for _, path := range []string{"/v1/venues/1", "/v1/venues/2", "/v1/venues/0"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/v1/venues/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/v1/venues/:id", "404")))
}

func TestDomainCounters(t *testing.T) {
	m := New()
	m.ShowScheduled()
	m.QuizPick(false)
	m.QuizPick(true)
	m.QuizPick(true)
	m.Search("venues")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.showsScheduled))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.quizPicks.WithLabelValues("exhausted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.searches.WithLabelValues("venues")))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() {
		nilMetrics.ShowScheduled()
		nilMetrics.QuizPick(true)
		nilMetrics.Search("artists")
	})
}

func TestHandler_Exposes(t *testing.T) {
	m := New()
	m.ShowScheduled()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "shows_scheduled_total 1")
}
