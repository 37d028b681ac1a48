// ABOUTME: HTTP logging middleware that writes one structured zap entry per request.
// ABOUTME: Tags each request with a ULID request id and feeds the Prometheus collectors.
package web

import (
	"net/http"
	"time"

	"github.com/2389-research/blocksite/metrics"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// requestIDHeader carries the request id in both directions. An incoming
// value is kept so ids can be correlated across a proxy.
const requestIDHeader = "X-Request-Id"

func requestID(r *http.Request) string {
	if id := r.Header.Get(requestIDHeader); id != "" && len(id) <= 128 {
		return id
	}
	return ulid.Make().String()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(p)
	r.bytes += n
	return n, err
}

func requestLogger(logger *zap.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			id := requestID(r)
			w.Header().Set(requestIDHeader, id)
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)

			m.RecordHTTPRequest(r.Method, status, elapsed)
			logger.Info("web request",
				zap.String("request_id", id),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("bytes", rec.bytes),
				zap.Duration("duration", elapsed.Round(time.Microsecond)),
				zap.String("remote", r.RemoteAddr),
			)
		})
	}
}
