// internal/adapters/in/http/handlers/admin_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"certnft/internal/adapters/in/http/middleware"
	certdom "certnft/internal/domain/certificate"
)

type AdminHandler struct {
	svc CertificateService
}

func NewAdminHandler(svc CertificateService) http.Handler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch {
	// POST /admins
	case r.URL.Path == "/admins" || r.URL.Path == "/admins/":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.add(w, r)

	// GET /admins/{address}
	case strings.HasPrefix(r.URL.Path, "/admins/"):
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.check(w, r)

	default:
		notFound(w)
	}
}

type addAdminRequest struct {
	AdminAddress string `json:"adminAddress"`
}

func (h *AdminHandler) add(w http.ResponseWriter, r *http.Request) {
	var req addAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	// admin 付与は誰が依頼したかを必ず残す
	uid, email, _ := middleware.CurrentUIDAndEmail(r)
	log.Printf("[admin_handler] add admin requested address=%q uid=%q email=%q", req.AdminAddress, uid, email)

	res := h.svc.AddAdmin(r.Context(), req.AdminAddress)
	if !res.Success {
		log.Printf("[admin_handler] add admin failed address=%q code=%s err=%s", req.AdminAddress, res.Code, res.Error)
	}
	writeJSON(w, resultStatus(res), res)
}

func (h *AdminHandler) check(w http.ResponseWriter, r *http.Request) {
	addr := pathTail(r.URL.Path, "/admins/")

	ok, err := h.svc.IsAdmin(r.Context(), addr)
	if err != nil {
		if errors.Is(err, certdom.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[admin_handler] is_admin address=%q error: %v", addr, err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"address": addr, "isAdmin": ok})
}
