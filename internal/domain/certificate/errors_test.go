package certificate

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestCodeOf(t *testing.T) {
	cases := []struct {
		err  error
		want ErrorCode
	}{
		{nil, CodeNone},
		{ErrValidation, CodeValidation},
		{NewStageError(ErrSubmission, "", errors.New("user rejected")), CodeSubmission},
		{fmt.Errorf("wrapped: %w", ErrTokenNotFound), CodeTokenNotFound},
		{NewStageError(ErrStateNotAdvanced, "did not advance", nil), CodeStateNotAdvanced},
		{errors.New("boom"), CodeInternal},
	}
	for _, c := range cases {
		if got := CodeOf(c.err); got != c.want {
			t.Errorf("CodeOf(%v): expected %q, got %q", c.err, c.want, got)
		}
	}
}

func TestStageErrorMessage(t *testing.T) {
	cause := errors.New("user rejected")

	e := NewStageError(ErrSubmission, "", cause)
	if e.Error() != "user rejected" {
		t.Errorf("expected cause message, got %q", e.Error())
	}
	if !errors.Is(e, ErrSubmission) || !errors.Is(e, cause) {
		t.Error("expected both kind and cause to match")
	}

	e = NewStageError(ErrNoWallet, "No wallet connected", nil)
	if e.Error() != "No wallet connected" {
		t.Errorf("unexpected message %q", e.Error())
	}

	e = NewStageError(ErrCanceled, "", nil)
	if e.Error() != ErrCanceled.Error() {
		t.Errorf("expected kind message, got %q", e.Error())
	}
}

func TestFailedFlattensError(t *testing.T) {
	res := Failed("boc", NewStageError(ErrStateNotAdvanced, "Transaction did not update contract state - minting failed", nil))
	if res.Success || res.Hash != "boc" || res.Code != CodeStateNotAdvanced {
		t.Errorf("unexpected result %+v", res)
	}
	if res.Error != "Transaction did not update contract state - minting failed" {
		t.Errorf("unexpected error %q", res.Error)
	}

	if res := Failed("", nil); res.Error != "Transaction failed" {
		t.Errorf("nil error should use generic message, got %q", res.Error)
	}
}

func TestNewJournalEntry(t *testing.T) {
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("JST", 9*3600))
	e, err := NewJournalEntry(" id-1 ", KindMint, " EQx ", Succeeded("h", IDPtr(3)), started, started.Add(time.Second))
	if err != nil {
		t.Fatalf("NewJournalEntry: %v", err)
	}
	if e.ID != "id-1" || e.Target != "EQx" || e.StartedAt.Location() != time.UTC {
		t.Errorf("unexpected entry %+v", e)
	}
	if e.TokenID == nil || *e.TokenID != 3 {
		t.Errorf("unexpected token id %v", e.TokenID)
	}

	if _, err := NewJournalEntry("", KindMint, "x", TransactionResult{}, started, started); !errors.Is(err, ErrInvalidEntryID) {
		t.Errorf("expected ErrInvalidEntryID, got %v", err)
	}
	if _, err := NewJournalEntry("id", "burn", "x", TransactionResult{}, started, started); !errors.Is(err, ErrInvalidEntryKind) {
		t.Errorf("expected ErrInvalidEntryKind, got %v", err)
	}
	if _, err := NewJournalEntry("id", KindMint, "x", TransactionResult{}, time.Time{}, started); !errors.Is(err, ErrInvalidStartedAt) {
		t.Errorf("expected ErrInvalidStartedAt, got %v", err)
	}
}

func TestMetadataAccessors(t *testing.T) {
	m := Metadata{"name": " Diploma ", "image": "ipfs://x", "description": 12}
	if m.Name() != "Diploma" || m.Image() != "ipfs://x" || m.Description() != "" {
		t.Errorf("unexpected accessors %q %q %q", m.Name(), m.Image(), m.Description())
	}
	var empty Metadata
	if empty.Name() != "" {
		t.Error("nil metadata should be empty")
	}
}
