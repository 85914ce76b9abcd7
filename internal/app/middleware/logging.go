package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/parelius/plinth/internal/logger"
	"github.com/parelius/plinth/internal/util"
)

// Context keys for request ID and logger
type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	LoggerKey    contextKey = "logger"

	HeaderXRequestID     = "X-Request-ID"
	HeaderRequestIDReply = "X-Plinth-Request-ID"
)

// isInternalRequest reports whether a path targets plinth's own endpoints
// rather than the forwarded application.
func isInternalRequest(path string) bool {
	return strings.HasPrefix(path, "/internal/")
}

// responseWriter wraps http.ResponseWriter to capture response size and status
type responseWriter struct {
	http.ResponseWriter
	status int
	size   int64
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.size += int64(size)
	return size, err
}

func (rw *responseWriter) WriteHeader(s int) {
	rw.status = s
	rw.ResponseWriter.WriteHeader(s)
}

// Flush implements http.Flusher so streamed upstream responses are not
// buffered behind the wrapper.
func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// GetLogger retrieves a logger with request ID from context
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(LoggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// RequestLogging adds a request ID to the logger context and logs
// request/response details, including how the mount point was corrected.
func RequestLogging(styledLogger *logger.StyledLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(HeaderXRequestID)
			if requestID == "" {
				requestID = util.GenerateRequestID()
			}

			ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
			baseLogger := slog.Default().With("request_id", requestID)
			ctx = context.WithValue(ctx, LoggerKey, baseLogger)

			w.Header().Set(HeaderRequestIDReply, requestID)

			wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			startFields := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			}
			if isInternalRequest(r.URL.Path) {
				baseLogger.Debug("Request started", startFields...)
			} else {
				baseLogger.Info("Request started", startFields...)
			}

			next.ServeHTTP(wrapped, r.WithContext(ctx))

			duration := time.Since(start)

			completionFields := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.status,
				"duration_ms", duration.Milliseconds(),
				"response_bytes", wrapped.size,
				"response_size", formatBytes(wrapped.size),
			}
			// ProxyFix sits outside this middleware in the chain, so the
			// corrected scope is already on the context.
			if scope := ScopeFromContext(r.Context()); scope != nil && scope.ConsumedPrefix != "" {
				completionFields = append(completionFields,
					"mount_prefix", scope.ConsumedPrefix,
					"external_path", scope.FullPath(),
				)
			}
			if isInternalRequest(r.URL.Path) {
				baseLogger.Debug("Request completed", completionFields...)
			} else {
				baseLogger.Info("Request completed", completionFields...)
			}
		})
	}
}

// AccessLogging writes a detailed access record to the file handler only
func AccessLogging(styledLogger *logger.StyledLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := GetRequestID(r.Context())
			if requestID == "" {
				requestID = util.GenerateRequestID()
				r = r.WithContext(context.WithValue(r.Context(), RequestIDKey, requestID))
			}

			wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)
			detailedCtx := context.WithValue(r.Context(), logger.DefaultDetailedCookie, true)

			slog.Default().InfoContext(detailedCtx, "Access log",
				"timestamp", start.Format(time.RFC3339),
				"request_id", requestID,
				"remote_addr", r.RemoteAddr,
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				"status", wrapped.status,
				"response_bytes", wrapped.size,
				"duration_ms", duration.Milliseconds(),
				"user_agent", r.UserAgent(),
				"referer", r.Referer())
		})
	}
}

// formatBytes converts byte count to human-readable form for log lines
func formatBytes(bytes int64) string {
	const unit = 1024
	const suffixes = "KMGTPE"

	if bytes < unit {
		return fmt.Sprintf("%dB", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	if exp >= len(suffixes) {
		exp = len(suffixes) - 1
	}
	size := float64(bytes) / float64(div)
	return fmt.Sprintf("%.1f%cB", size, suffixes[exp])
}
