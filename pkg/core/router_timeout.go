package core

import (
	"net/http"
	"time"
)

// withTimeout bounds the handler; on expiry the client gets 503 and the
// handler's context is cancelled.
func withTimeout(next http.Handler, d time.Duration) http.Handler {
	return http.TimeoutHandler(next, d, `{"error":"request timed out","kind":"timeout"}`)
}
