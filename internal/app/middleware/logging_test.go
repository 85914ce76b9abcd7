package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/parelius/plinth/internal/logger"
	"github.com/parelius/plinth/theme"
)

func discardStyled() *logger.StyledLogger {
	return logger.NewStyledLogger(slog.New(slog.NewTextHandler(io.Discard, nil)), theme.Default())
}

func TestRequestLogging(t *testing.T) {
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetLogger(r.Context()) == nil {
			t.Error("expected context logger to be available")
			return
		}
		if GetRequestID(r.Context()) == "" {
			t.Error("expected request ID to be available")
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("test response"))
	})

	handler := RequestLogging(discardStyled())(testHandler)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set(HeaderXRequestID, "test-request-123")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "test-request-123", rr.Header().Get(HeaderRequestIDReply),
		"inbound request ID is echoed back")
	assert.Equal(t, "test response", rr.Body.String())
}

func TestRequestLoggingGeneratesID(t *testing.T) {
	handler := RequestLogging(discardStyled())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/test", nil))

	assert.NotEmpty(t, rr.Header().Get(HeaderRequestIDReply))
}

func TestAccessLogging(t *testing.T) {
	handler := AccessLogging(discardStyled())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/test?x=1", nil))

	assert.Equal(t, http.StatusTeapot, rr.Code)
}

func TestIsInternalRequest(t *testing.T) {
	assert.True(t, isInternalRequest("/internal/health"))
	assert.True(t, isInternalRequest("/internal/status"))
	assert.False(t, isInternalRequest("/foo"))
	assert.False(t, isInternalRequest("/internalish"))
}

func TestResponseWriterCapturesStatusAndSize(t *testing.T) {
	rr := httptest.NewRecorder()
	wrapped := &responseWriter{ResponseWriter: rr, status: http.StatusOK}

	wrapped.WriteHeader(http.StatusAccepted)
	n, err := wrapped.Write([]byte("hello"))

	assert.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, http.StatusAccepted, wrapped.status)
	assert.Equal(t, int64(5), wrapped.size)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512B", formatBytes(512))
	assert.Equal(t, "1.0KB", formatBytes(1024))
	assert.Equal(t, "1.5MB", formatBytes(1536*1024))
}
