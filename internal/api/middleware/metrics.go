package middleware

import (
	"net/http"
	"sync/atomic"
	"time"
)

// MetricsCollector counts requests and error responses.
type MetricsCollector struct {
	started  time.Time
	requests atomic.Int64
	errors   atomic.Int64
}

func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{started: time.Now()}
}

type MetricsSnapshot struct {
	UptimeSeconds float64 `json:"uptime_seconds"`
	Requests      int64   `json:"request_count"`
	Errors        int64   `json:"error_count"`
}

func (mc *MetricsCollector) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		UptimeSeconds: time.Since(mc.started).Seconds(),
		Requests:      mc.requests.Load(),
		Errors:        mc.errors.Load(),
	}
}

// Middleware counts every request and every 4xx/5xx response.
func (mc *MetricsCollector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mc.requests.Add(1)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		if rw.statusCode >= 400 {
			mc.errors.Add(1)
		}
	})
}
