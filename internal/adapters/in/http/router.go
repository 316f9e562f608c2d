package httpin

import (
	"log"
	"net/http"

	"certnft/internal/adapters/in/http/handlers"
	"certnft/internal/adapters/in/http/middleware"
	certdom "certnft/internal/domain/certificate"
)

// RouterDeps collects everything injected from main.go.
type RouterDeps struct {
	Certificates handlers.CertificateService
	Verifier     handlers.CertificateVerifier
	Journal      certdom.JournalRepository

	FirebaseAuth middleware.IDTokenVerifier
	// FirebaseAuth が nil のときだけ意味を持つ。
	// false なら mint / admin 付与（POST）は 503 で拒否する。
	AuthDisabled bool

	CORSAllowOrigin string
}

// NewRouter sets up HTTP routing.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	// Health check (always on, no auth)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	protect := func(h http.Handler) http.Handler { return h }
	switch {
	case deps.FirebaseAuth != nil:
		auth := &middleware.AuthMiddleware{FirebaseAuth: deps.FirebaseAuth}
		protect = auth.Handler
	case deps.AuthDisabled:
		log.Printf("[router] WARN: auth disabled; API is unauthenticated")
	default:
		log.Printf("[router] WARN: firebase auth is not configured; mint and admin grant are refused")
		protect = middleware.ReadOnly
	}

	// 以降、依存が存在するものだけマウントする
	if deps.Certificates != nil {
		certH := protect(handlers.NewCertificateHandler(deps.Certificates, deps.Verifier))
		mux.Handle("/certificates/", certH)

		adminH := protect(handlers.NewAdminHandler(deps.Certificates))
		mux.Handle("/admins", adminH)
		mux.Handle("/admins/", adminH)
	}

	if deps.Journal != nil {
		mintsH := protect(handlers.NewMintsHandler(deps.Journal))
		mux.Handle("/mints", mintsH)
		mux.Handle("/mints/", mintsH)
	}

	// CORS は Recover の外側
	return middleware.CORS(deps.CORSAllowOrigin)(middleware.Recover(mux))
}
