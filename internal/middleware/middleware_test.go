package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"easymove_notifier/internal/common"
	"easymove_notifier/internal/config"
)

func newRouter(t *testing.T) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	router := gin.New()
	router.Use(ZapLogger(logger, &config.Config{GinMode: gin.ReleaseMode}))
	router.Use(ErrorHandler(logger))
	return router, logs
}

func TestZapLogger_AssignsRequestID(t *testing.T) {
	router, logs := newRouter(t)
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	id := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, id)
	entries := logs.FilterMessage("Request handled").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, id, entries[0].ContextMap()["request_id"])
	}
}

func TestZapLogger_KeepsIncomingRequestIDAndEventID(t *testing.T) {
	router, logs := newRouter(t)
	router.POST("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	req.Header.Set("Ce-Id", "evt-7")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Equal(t, "evt-7", fields["ce_id"])
}

func TestErrorHandler_UnknownRoute(t *testing.T) {
	router, _ := newRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestErrorHandler_LogsInternalErrorOnce(t *testing.T) {
	router, logs := newRouter(t)
	router.POST("/", func(c *gin.Context) {
		common.RespondWithError(c, errors.New("firestore unavailable"))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"code":"INTERNAL_SERVER_ERROR","message":"An unexpected error occurred on the server."}`, w.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("Unhandled application error").Len())
	assert.Equal(t, 1, logs.FilterMessage("Server error").Len())
}

func TestErrorHandler_RendersAttachedErrorWhenNothingWritten(t *testing.T) {
	router, _ := newRouter(t)
	router.POST("/", func(c *gin.Context) {
		_ = c.Error(common.ErrBadRequest)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "BAD_REQUEST")
}
