package middleware

import (
	"net/http"
	"sync/atomic"
)

// Counters are the request counters exposed on /metrics.
type Counters struct {
	Requests     atomic.Int64
	ClientErrors atomic.Int64
	ServerErrors atomic.Int64
	InFlight     atomic.Int64
}

// Snapshot returns the current counter values keyed for JSON output.
func (c *Counters) Snapshot() map[string]int64 {
	return map[string]int64{
		"request_count":      c.Requests.Load(),
		"client_error_count": c.ClientErrors.Load(),
		"server_error_count": c.ServerErrors.Load(),
		"in_flight":          c.InFlight.Load(),
	}
}

// Metrics returns middleware that updates c for every request.
func Metrics(c *Counters) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Requests.Add(1)
			c.InFlight.Add(1)
			defer c.InFlight.Add(-1)

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)

			switch {
			case rw.statusCode >= 500:
				c.ServerErrors.Add(1)
			case rw.statusCode >= 400:
				c.ClientErrors.Add(1)
			}
		})
	}
}
