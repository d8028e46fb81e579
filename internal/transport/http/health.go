package http

import "net/http"

// HealthHandler is the liveness probe. Plain text on purpose; load
// balancers should not have to parse JSON.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
