package metrics

import (
	"net/http"
	"strconv"
	"time"

	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/joeydtaylor/steeze-codec/pkg/middleware/auth"
)

// Collect produces the HTTP middleware that records the counters/histogram.
func Collect(ca *auth.Middleware) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimd.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				if isSkipPath(r) {
					return
				}
				role := ""
				if ca != nil {
					role = ca.GetUser(r.Context()).Role.Name
				}
				code := strconv.Itoa(ww.Status())

				totalHttpRequestsFromRole.WithLabelValues(role).Inc()
				totalHttpRequestsToUri.WithLabelValues(code, normalizePath(r), r.Method).Inc()
				totalHttpRequests.WithLabelValues(code, r.Method).Inc()
				responseTime.Observe(time.Since(start).Seconds())
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
