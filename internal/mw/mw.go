package mw

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

type logmwkey int

const key logmwkey = iota

// ResponseWriterWrapper records the status and size of a response.
type ResponseWriterWrapper struct {
	w          http.ResponseWriter
	written    int
	statusCode int
}

func (i *ResponseWriterWrapper) Write(buf []byte) (int, error) {
	written, err := i.w.Write(buf)
	i.written += written
	return written, err
}

func (i *ResponseWriterWrapper) WriteHeader(statusCode int) {
	i.statusCode = statusCode
	i.w.WriteHeader(statusCode)
}

func (i *ResponseWriterWrapper) Header() http.Header {
	return i.w.Header()
}

func (i *ResponseWriterWrapper) Flush() {
	if f, ok := i.w.(http.Flusher); ok {
		f.Flush()
	}
}

// NewLoggerMiddleware logs one line per request on logger, at a level
// derived from the response status. Handlers can fetch the request scoped
// logger with Extract.
func NewLoggerMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			l := logger.With(
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)

			ctx := context.WithValue(r.Context(), key, l)

			ww := ResponseWriterWrapper{w: w, statusCode: http.StatusOK}
			next.ServeHTTP(&ww, r.WithContext(ctx))

			l = l.With(
				"duration", time.Since(start),
				"status", ww.statusCode,
				"bytes_written", ww.written,
			)

			logHTTPStatus(r.Context(), l, ww.statusCode)
		})
	}
}

func statusLevel(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

func logHTTPStatus(ctx context.Context, l *slog.Logger, status int) {
	var msg string
	if msg = http.StatusText(status); msg == "" {
		msg = "unknown status " + strconv.Itoa(status)
	}

	l.Log(ctx, statusLevel(status), msg)
}

// Extract returns the logger set by mw.
func Extract(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(key).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
