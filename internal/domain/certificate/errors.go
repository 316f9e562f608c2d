// internal/domain/certificate/errors.go
package certificate

import (
	"errors"
	"strings"
)

// ------------------------------------------------------
// Errors
// ------------------------------------------------------

var (
	ErrValidation       = errors.New("certificate: invalid address")
	ErrNoWallet         = errors.New("certificate: no wallet connected")
	ErrUnauthorized     = errors.New("certificate: caller is not an admin")
	ErrSubmission       = errors.New("certificate: wallet submission failed")
	ErrStateNotAdvanced = errors.New("certificate: contract state did not advance")
	ErrTokenNotFound    = errors.New("certificate: token not found")
	ErrEncoding         = errors.New("certificate: transaction encoding failed")
	ErrMetadataFetch    = errors.New("certificate: metadata fetch failed")
	ErrCanceled         = errors.New("certificate: canceled")
)

// ErrorCode は TransactionResult に載せる機械判定用のコードです。
type ErrorCode string

const (
	CodeNone             ErrorCode = ""
	CodeValidation       ErrorCode = "validation"
	CodeNoWallet         ErrorCode = "no_wallet"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeSubmission       ErrorCode = "submission"
	CodeStateNotAdvanced ErrorCode = "state_not_advanced"
	CodeTokenNotFound    ErrorCode = "token_not_found"
	CodeEncoding         ErrorCode = "encoding"
	CodeCanceled         ErrorCode = "canceled"
	CodeInternal         ErrorCode = "internal"
)

var codeBySentinel = []struct {
	err  error
	code ErrorCode
}{
	{ErrValidation, CodeValidation},
	{ErrNoWallet, CodeNoWallet},
	{ErrUnauthorized, CodeUnauthorized},
	{ErrSubmission, CodeSubmission},
	{ErrStateNotAdvanced, CodeStateNotAdvanced},
	{ErrTokenNotFound, CodeTokenNotFound},
	{ErrEncoding, CodeEncoding},
	{ErrCanceled, CodeCanceled},
}

// CodeOf maps err to its ErrorCode. Unknown errors are CodeInternal.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return CodeNone
	}
	for _, c := range codeBySentinel {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeInternal
}

// StageError は sentinel（Kind）と利用者向けメッセージを束ねたエラーです。
// Error() は Message をそのまま返す（フォームにそのまま出す文言）。
type StageError struct {
	Kind    error
	Message string
	Err     error
}

func (e *StageError) Error() string {
	if msg := strings.TrimSpace(e.Message); msg != "" {
		return msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Kind != nil {
		return e.Kind.Error()
	}
	return "transaction failed"
}

func (e *StageError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// NewStageError builds a StageError. When msg is empty the cause's message is used.
func NewStageError(kind error, msg string, cause error) *StageError {
	return &StageError{Kind: kind, Message: msg, Err: cause}
}
