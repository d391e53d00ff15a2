package metrics

import (
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Unmatched is the URI label for requests no route matched.
const Unmatched = "unmatched"

var (
	skipMu    sync.RWMutex
	skipPaths = map[string]struct{}{"/metrics": {}, "/ping": {}}

	normMu         sync.RWMutex
	pathNormalizer = RoutePattern
)

// AddMetricsSkipPaths extends the skip list ("/metrics" and "/ping" by default).
func AddMetricsSkipPaths(paths ...string) {
	skipMu.Lock()
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p != "" {
			skipPaths[p] = struct{}{}
		}
	}
	skipMu.Unlock()
}

// SetPathNormalizer replaces the URI label function. nil restores RoutePattern.
func SetPathNormalizer(fn func(*http.Request) string) {
	if fn == nil {
		fn = RoutePattern
	}
	normMu.Lock()
	pathNormalizer = fn
	normMu.Unlock()
}

// RoutePattern labels a request with the chi pattern it matched, so manifest
// routes with URL params stay one series. It must run after routing, which
// holds for the deferred observation in Collect.
func RoutePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
		return Unmatched
	}
	return r.URL.Path
}

func isSkipPath(r *http.Request) bool {
	p := r.URL.Path
	skipMu.RLock()
	_, ok := skipPaths[p]
	skipMu.RUnlock()
	return ok
}

func normalizePath(r *http.Request) string {
	normMu.RLock()
	fn := pathNormalizer
	normMu.RUnlock()
	return fn(r)
}
