// internal/adapters/in/http/middleware/readonly.go
package middleware

import (
	"encoding/json"
	"log"
	"net/http"
)

// ReadOnly は認証が無い構成で書き込み系（mint / admin 付与）を拒否する。
// GET / HEAD のみ通す。
func ReadOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}
		log.Printf("[readonly] refused method=%s path=%s (auth not configured)", r.Method, r.URL.Path)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "authentication is not configured"})
	})
}
