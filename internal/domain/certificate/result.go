// internal/domain/certificate/result.go
package certificate

// TransactionResult is the only output contract of Mint and AddAdmin.
// Once returned it is not mutated or retried by the orchestrator.
type TransactionResult struct {
	Success bool      `json:"success"`
	Hash    string    `json:"hash,omitempty"`
	TokenID *int64    `json:"tokenId,omitempty"`
	Error   string    `json:"error,omitempty"`
	Code    ErrorCode `json:"code,omitempty"`
}

// Succeeded builds a successful result. tokenID may be nil (admin grant).
func Succeeded(hash string, tokenID *int64) TransactionResult {
	return TransactionResult{Success: true, Hash: hash, TokenID: tokenID}
}

// Failed flattens err into a failed result. hash is kept when the wallet
// already broadcast something (ambiguous outcome).
func Failed(hash string, err error) TransactionResult {
	msg := "Transaction failed"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return TransactionResult{
		Success: false,
		Hash:    hash,
		Error:   msg,
		Code:    CodeOf(err),
	}
}

// IDPtr returns a pointer to a copy of id.
func IDPtr(id int64) *int64 {
	v := id
	return &v
}
