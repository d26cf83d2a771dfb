package middleware

import (
	"net/http"

	"github.com/iudanet/rulekeeper/internal/metrics"
)

// Metrics counts handled requests under the given route label.
// route should be the registered pattern, not the raw path.
func Metrics(m *metrics.Metrics, route string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)
			m.ServerRequest(route, rec.status)
		})
	}
}
