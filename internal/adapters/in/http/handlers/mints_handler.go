// internal/adapters/in/http/handlers/mints_handler.go
package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	certdom "certnft/internal/domain/certificate"
)

// MintsHandler は mint / addAdmin の試行記録（journal）を返します。
//
//	GET /mints?limit=50&kind=mint,add_admin
//	GET /mints/{id}
type MintsHandler struct {
	repo certdom.JournalRepository
}

func NewMintsHandler(repo certdom.JournalRepository) http.Handler {
	return &MintsHandler{repo: repo}
}

func (h *MintsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	switch {
	case r.URL.Path == "/mints" || r.URL.Path == "/mints/":
		h.list(w, r)
	case strings.HasPrefix(r.URL.Path, "/mints/"):
		h.get(w, r)
	default:
		notFound(w)
	}
}

func (h *MintsHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := certdom.JournalFilter{Limit: parseIntDefault(q.Get("limit"), certdom.DefaultJournalLimit)}
	for _, k := range splitCSV(q.Get("kind")) {
		kind := certdom.EntryKind(k)
		if kind != certdom.KindMint && kind != certdom.KindAddAdmin {
			writeError(w, http.StatusBadRequest, "invalid kind: "+k)
			return
		}
		f.Kinds = append(f.Kinds, kind)
	}

	items, err := h.repo.List(r.Context(), f)
	if err != nil {
		log.Printf("[mints_handler] list error: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if items == nil {
		items = []certdom.JournalEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *MintsHandler) get(w http.ResponseWriter, r *http.Request) {
	id := pathTail(r.URL.Path, "/mints/")

	e, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, certdom.ErrEntryNotFound) {
			notFound(w)
			return
		}
		log.Printf("[mints_handler] get id=%s error: %v", id, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, e)
}
