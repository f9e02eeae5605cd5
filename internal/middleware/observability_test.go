package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deeperweave/backend/pkg/metrics"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_CountsByRouteTemplate(t *testing.T) {
	e := echo.New()
	e.Use(echomw.RequestID(), RequestLogger(), Metrics())
	e.GET("/things/:id", func(c echo.Context) error {
		if c.Param("id") == "missing" {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		return c.NoContent(http.StatusOK)
	})

	okCounter := metrics.HTTPRequestsTotal.WithLabelValues("/things/:id", http.MethodGet, "200")
	notFound := metrics.HTTPRequestsTotal.WithLabelValues("/things/:id", http.MethodGet, "404")
	okBefore, nfBefore := testutil.ToFloat64(okCounter), testutil.ToFloat64(notFound)

	for _, path := range []string{"/things/1", "/things/2", "/things/missing"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
	}

	assert.Equal(t, okBefore+2, testutil.ToFloat64(okCounter))
	assert.Equal(t, nfBefore+1, testutil.ToFloat64(notFound))
}
