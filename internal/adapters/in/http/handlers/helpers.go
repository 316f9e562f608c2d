// internal/adapters/in/http/handlers/helpers.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	certdom "certnft/internal/domain/certificate"
)

func methodNotAllowed(w http.ResponseWriter) {
	w.WriteHeader(http.StatusMethodNotAllowed)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "method_not_allowed"})
}

func notFound(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNotFound)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// resultStatus maps a flattened result to an HTTP status.
// The body is always the TransactionResult itself.
func resultStatus(res certdom.TransactionResult) int {
	if res.Success {
		return http.StatusOK
	}
	switch res.Code {
	case certdom.CodeValidation, certdom.CodeEncoding:
		return http.StatusBadRequest
	case certdom.CodeUnauthorized:
		return http.StatusForbidden
	case certdom.CodeNoWallet:
		return http.StatusServiceUnavailable
	case certdom.CodeSubmission, certdom.CodeStateNotAdvanced:
		return http.StatusBadGateway
	case certdom.CodeTokenNotFound:
		return http.StatusGatewayTimeout
	case certdom.CodeCanceled:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func parseIntDefault(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// splitCSV parses "a,b,c" / "a, b, c" into []string (empty trimmed items are removed).
func splitCSV(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// pathTail returns the segment after prefix ("/certificates/12" -> "12").
func pathTail(path, prefix string) string {
	return strings.Trim(strings.TrimPrefix(path, prefix), "/")
}
