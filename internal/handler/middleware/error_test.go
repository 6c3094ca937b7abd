//go:build unit

package middleware_test

import (
	"errors"
	"net/http"
	"testing"

	"clinic-scheduler/internal/handler/httperr"
	"clinic-scheduler/internal/handler/middleware"
	"clinic-scheduler/internal/pkg/config"
	"clinic-scheduler/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newErrorRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.CustomRecovery())
	r.Use(middleware.LoggingMiddleware(middleware.NewLogger(config.LogConfig{Level: "error", TimeZone: "UTC", TimeFormat: "15:04:05"})))
	r.Use(middleware.ErrorHandler())
	return r
}

func TestErrorHandler(t *testing.T) {
	r := newErrorRouter()
	r.GET("/public-error", func(c *gin.Context) {
		resp := httperr.Response{Status: http.StatusConflict}
		resp.Error.Message = "slot taken"
		_ = c.Error(&gin.Error{Err: errors.New("conflict"), Type: gin.ErrorTypePublic, Meta: resp})
	})
	r.GET("/private-error", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
	})
	r.GET("/abort", func(c *gin.Context) {
		httperr.AbortWithError(c, http.StatusConflict, errors.New("conflict"), "slot taken", nil)
	})
	r.GET("/no-content", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/panic", func(_ *gin.Context) {
		panic("unexpected")
	})

	t.Run("public error is rendered from its meta", func(t *testing.T) {
		rec := httptest.PerformRequest(t, r, http.MethodGet, "/public-error", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusConflict, "slot taken")
	})

	t.Run("abort records a public error carrying its response", func(t *testing.T) {
		var recorded *gin.Error
		capture := gin.New()
		capture.Use(func(c *gin.Context) {
			c.Next()
			recorded = c.Errors.Last()
		})
		capture.GET("/abort", func(c *gin.Context) {
			httperr.AbortWithError(c, http.StatusConflict, errors.New("conflict"), "slot taken", nil)
		})

		rec := httptest.PerformRequest(t, capture, http.MethodGet, "/abort", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusConflict, "slot taken")
		require.NotNil(t, recorded)
		assert.True(t, recorded.IsType(gin.ErrorTypePublic))
		resp, ok := recorded.Meta.(httperr.Response)
		require.True(t, ok)
		assert.Equal(t, http.StatusConflict, resp.Status)

		rec = httptest.PerformRequest(t, r, http.MethodGet, "/abort", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusConflict, "slot taken")
	})

	t.Run("private error becomes a generic 500", func(t *testing.T) {
		rec := httptest.PerformRequest(t, r, http.MethodGet, "/private-error", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusInternalServerError, "Internal server error")
	})

	t.Run("explicit status without body is kept", func(t *testing.T) {
		rec := httptest.PerformRequest(t, r, http.MethodGet, "/no-content", nil, "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("panic is recovered", func(t *testing.T) {
		rec := httptest.PerformRequest(t, r, http.MethodGet, "/panic", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusInternalServerError, "Internal server error")
	})

	t.Run("request id is echoed", func(t *testing.T) {
		rec := httptest.PerformRequest(t, r, http.MethodGet, "/no-content", nil, "")
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})
}
