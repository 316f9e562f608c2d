// internal/adapters/in/http/handlers/certificate_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	mintapp "certnft/internal/application/mint"
	certdom "certnft/internal/domain/certificate"
)

// CertificateService は handler が依存する最小 IF（実装は mint.Orchestrator）
type CertificateService interface {
	Mint(ctx context.Context, studentAddress string) certdom.TransactionResult
	AddAdmin(ctx context.Context, adminAddress string) certdom.TransactionResult
	IsAdmin(ctx context.Context, address string) (bool, error)
	State(ctx context.Context) (certdom.ContractState, error)
}

type CertificateVerifier interface {
	Verify(ctx context.Context, id int64) (certdom.Certificate, error)
}

type CertificateHandler struct {
	svc      CertificateService
	verifier CertificateVerifier

	// フォームの loading フラグ相当: プロセス内で同時に 1 件だけ mint を受け付ける
	minting atomic.Bool
}

func NewCertificateHandler(svc CertificateService, verifier CertificateVerifier) *CertificateHandler {
	return &CertificateHandler{svc: svc, verifier: verifier}
}

func (h *CertificateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch {
	// POST /certificates/mint
	case r.URL.Path == "/certificates/mint":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.mint(w, r)

	// GET /certificates/state
	case r.URL.Path == "/certificates/state":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.state(w, r)

	// GET /certificates/{id}
	case strings.HasPrefix(r.URL.Path, "/certificates/"):
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.get(w, r)

	default:
		notFound(w)
	}
}

type mintRequest struct {
	StudentAddress string `json:"studentAddress"`
}

func (h *CertificateHandler) mint(w http.ResponseWriter, r *http.Request) {
	var req mintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if !h.minting.CompareAndSwap(false, true) {
		writeError(w, http.StatusConflict, "a mint is already in progress")
		return
	}
	defer h.minting.Store(false)

	res := h.svc.Mint(r.Context(), req.StudentAddress)
	if !res.Success {
		log.Printf("[certificate_handler] mint failed student=%q code=%s err=%s", req.StudentAddress, res.Code, res.Error)
	}
	writeJSON(w, resultStatus(res), res)
}

func (h *CertificateHandler) state(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.State(r.Context())
	if err != nil {
		log.Printf("[certificate_handler] state error: %v", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"nextId": st.NextID})
}

type certificateView struct {
	ID            int64            `json:"id"`
	Address       string           `json:"address"`
	Owner         string           `json:"owner,omitempty"`
	Collection    string           `json:"collection,omitempty"`
	MetadataURI   string           `json:"metadataUri,omitempty"`
	Name          string           `json:"name,omitempty"`
	Description   string           `json:"description,omitempty"`
	Image         string           `json:"image,omitempty"`
	Metadata      certdom.Metadata `json:"metadata,omitempty"`
	MetadataError string           `json:"metadataError,omitempty"`
}

func (h *CertificateHandler) get(w http.ResponseWriter, r *http.Request) {
	if h.verifier == nil {
		writeError(w, http.StatusServiceUnavailable, "verifier not configured")
		return
	}

	raw := pathTail(r.URL.Path, "/certificates/")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		writeError(w, http.StatusBadRequest, "invalid certificate id")
		return
	}

	c, err := h.verifier.Verify(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, certdom.ErrTokenNotFound):
			notFound(w)
		case errors.Is(err, mintapp.ErrInvalidTokenID):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("[certificate_handler] verify id=%d error: %v", id, err)
			writeError(w, http.StatusBadGateway, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, certificateView{
		ID:            c.Token.ID,
		Address:       c.Token.Address,
		Owner:         c.Token.Owner,
		Collection:    c.Token.Collection,
		MetadataURI:   c.MetadataURI,
		Name:          c.Metadata.Name(),
		Description:   c.Metadata.Description(),
		Image:         c.Metadata.Image(),
		Metadata:      c.Metadata,
		MetadataError: c.MetadataError,
	})
}
