// internal/adapters/in/http/middleware/recover.go
package middleware

import (
	"encoding/json"
	"log"
	"net/http"
	"runtime/debug"
)

// Recover turns a handler panic into a 500 JSON body and logs the route.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			log.Printf("[recover] PANIC method=%s path=%s remote=%s: %v\n%s",
				r.Method, r.URL.Path, r.RemoteAddr, rec, debug.Stack())

			// CORS ヘッダは外側で付与済み
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error": "internal server error",
				"path":  r.URL.Path,
			})
		}()

		next.ServeHTTP(w, r)
	})
}
