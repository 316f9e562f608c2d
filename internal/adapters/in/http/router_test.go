package httpin

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	fbauth "firebase.google.com/go/v4/auth"

	mintapp "certnft/internal/application/mint"
	certdom "certnft/internal/domain/certificate"
)

type stubService struct {
	requester   string
	mints       int
	adminGrants int
}

func (s *stubService) Mint(ctx context.Context, _ string) certdom.TransactionResult {
	s.mints++
	s.requester = mintapp.RequesterFrom(ctx)
	return certdom.Succeeded("h", certdom.IDPtr(1))
}

func (s *stubService) AddAdmin(context.Context, string) certdom.TransactionResult {
	s.adminGrants++
	return certdom.Succeeded("h", nil)
}

func (s *stubService) IsAdmin(context.Context, string) (bool, error) { return true, nil }

func (s *stubService) State(context.Context) (certdom.ContractState, error) {
	return certdom.ContractState{NextID: 1}, nil
}

type stubVerifier struct{}

func (stubVerifier) VerifyIDToken(_ context.Context, tok string) (*fbauth.Token, error) {
	if tok != "good" {
		return nil, errors.New("bad token")
	}
	return &fbauth.Token{UID: "uid-1", Claims: map[string]interface{}{"email": "ops@example.com"}}, nil
}

func serve(h http.Handler, method, path, auth, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouterHealthzIsPublic(t *testing.T) {
	h := NewRouter(RouterDeps{Certificates: &stubService{}, FirebaseAuth: stubVerifier{}})
	rec := serve(h, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("unexpected healthz %d %q", rec.Code, rec.Body.String())
	}
}

func TestRouterRequiresBearerToken(t *testing.T) {
	svc := &stubService{}
	h := NewRouter(RouterDeps{Certificates: svc, FirebaseAuth: stubVerifier{}})

	if rec := serve(h, http.MethodPost, "/certificates/mint", "", `{}`); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}
	if rec := serve(h, http.MethodPost, "/certificates/mint", "Bearer nope", `{}`); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for invalid token, got %d", rec.Code)
	}

	rec := serve(h, http.MethodPost, "/certificates/mint", "Bearer good", `{"studentAddress":"EQx"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.requester != "uid-1" {
		t.Errorf("requester should come from the token, got %q", svc.requester)
	}
}

func TestRouterWithoutAuthRefusesWrites(t *testing.T) {
	svc := &stubService{}
	h := NewRouter(RouterDeps{Certificates: svc})

	rec := serve(h, http.MethodPost, "/admins", "", `{"adminAddress":"EQattacker"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 for admin grant without auth, got %d", rec.Code)
	}
	if svc.adminGrants != 0 {
		t.Errorf("admin grant must not reach the service, got %d calls", svc.adminGrants)
	}
	if rec := serve(h, http.MethodPost, "/certificates/mint", "", `{"studentAddress":"EQx"}`); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 for mint without auth, got %d", rec.Code)
	}
	if svc.mints != 0 {
		t.Errorf("mint must not reach the service, got %d calls", svc.mints)
	}

	if rec := serve(h, http.MethodGet, "/admins/EQx", "", ""); rec.Code != http.StatusOK {
		t.Errorf("reads stay available, got %d", rec.Code)
	}
}

func TestRouterAuthDisabledOptOut(t *testing.T) {
	svc := &stubService{}
	h := NewRouter(RouterDeps{Certificates: svc, AuthDisabled: true})

	if rec := serve(h, http.MethodPost, "/admins", "", `{"adminAddress":"EQx"}`); rec.Code != http.StatusOK {
		t.Errorf("expected 200 with AuthDisabled, got %d", rec.Code)
	}
	if svc.adminGrants != 1 {
		t.Errorf("expected one admin grant, got %d", svc.adminGrants)
	}
}

func TestRouterWithoutAuth(t *testing.T) {
	h := NewRouter(RouterDeps{Certificates: &stubService{}, CORSAllowOrigin: "https://console.example.com"})

	rec := serve(h, http.MethodGet, "/admins/EQx", "", "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://console.example.com" {
		t.Errorf("unexpected CORS origin %q", got)
	}

	if rec := serve(h, http.MethodOptions, "/certificates/mint", "", ""); rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 preflight, got %d", rec.Code)
	}
	if rec := serve(h, http.MethodGet, "/mints", "", ""); rec.Code != http.StatusNotFound {
		t.Errorf("journal routes should not be mounted without a journal, got %d", rec.Code)
	}
}

func TestRouterAdminGrantLogsRequester(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	h := NewRouter(RouterDeps{Certificates: &stubService{}, FirebaseAuth: stubVerifier{}})
	rec := serve(h, http.MethodPost, "/admins", "Bearer good", `{"adminAddress":"EQnew"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if out := buf.String(); !strings.Contains(out, `uid="uid-1"`) || !strings.Contains(out, `email="ops@example.com"`) {
		t.Errorf("admin grant should log the requester, got %q", out)
	}
}
