// internal/domain/certificate/journal.go
package certificate

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ------------------------------------------------------
// Journal (mint / addAdmin の試行記録)
// ------------------------------------------------------
//
// 想定テーブル構造:
//
// - id          : string (uuid)
// - kind        : "mint" | "add_admin"
// - target      : string   // student / admin address
// - operator    : string   // wallet account that signed
// - requestedBy : string   // API caller (firebase uid / cli)
// - success     : bool
// - hash        : string
// - tokenId     : *int64
// - error       : string
// - code        : string
// - startedAt   : time.Time
// - finishedAt  : time.Time

type EntryKind string

const (
	KindMint     EntryKind = "mint"
	KindAddAdmin EntryKind = "add_admin"
)

type JournalEntry struct {
	ID          string    `json:"id"`
	Kind        EntryKind `json:"kind"`
	Target      string    `json:"target"`
	Operator    string    `json:"operator,omitempty"`
	RequestedBy string    `json:"requestedBy,omitempty"`
	Success     bool      `json:"success"`
	Hash        string    `json:"hash,omitempty"`
	TokenID     *int64    `json:"tokenId,omitempty"`
	Error       string    `json:"error,omitempty"`
	Code        ErrorCode `json:"code,omitempty"`
	StartedAt   time.Time `json:"startedAt"`
	FinishedAt  time.Time `json:"finishedAt"`
}

var (
	ErrInvalidEntryID   = errors.New("certificate: invalid journal entry id")
	ErrInvalidEntryKind = errors.New("certificate: invalid journal entry kind")
	ErrInvalidStartedAt = errors.New("certificate: invalid startedAt")
	ErrEntryNotFound    = errors.New("certificate: journal entry not found")
)

// NewJournalEntry builds an entry from a finished result.
func NewJournalEntry(
	id string,
	kind EntryKind,
	target string,
	res TransactionResult,
	startedAt time.Time,
	finishedAt time.Time,
) (JournalEntry, error) {
	e := JournalEntry{
		ID:         strings.TrimSpace(id),
		Kind:       kind,
		Target:     strings.TrimSpace(target),
		Success:    res.Success,
		Hash:       res.Hash,
		TokenID:    res.TokenID,
		Error:      res.Error,
		Code:       res.Code,
		StartedAt:  startedAt.UTC(),
		FinishedAt: finishedAt.UTC(),
	}
	if err := e.Validate(); err != nil {
		return JournalEntry{}, err
	}
	return e, nil
}

func (e JournalEntry) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrInvalidEntryID
	}
	switch e.Kind {
	case KindMint, KindAddAdmin:
	default:
		return ErrInvalidEntryKind
	}
	if e.StartedAt.IsZero() {
		return ErrInvalidStartedAt
	}
	return nil
}

// JournalFilter narrows List. Empty Kinds means every kind.
type JournalFilter struct {
	Kinds []EntryKind
	Limit int
}

const (
	DefaultJournalLimit = 50
	MaxJournalLimit     = 200
)

// NormalizedLimit clamps Limit to (0, MaxJournalLimit].
func (f JournalFilter) NormalizedLimit() int {
	switch {
	case f.Limit <= 0:
		return DefaultJournalLimit
	case f.Limit > MaxJournalLimit:
		return MaxJournalLimit
	default:
		return f.Limit
	}
}

// KindStrings は DB / Firestore の in 句に渡す用
func (f JournalFilter) KindStrings() []string {
	out := make([]string, 0, len(f.Kinds))
	for _, k := range f.Kinds {
		if k = EntryKind(strings.TrimSpace(string(k))); k != "" {
			out = append(out, string(k))
		}
	}
	return out
}

// JournalRepository は mints コレクション / テーブルへの出力ポートです。
type JournalRepository interface {
	Create(ctx context.Context, e JournalEntry) (JournalEntry, error)
	GetByID(ctx context.Context, id string) (JournalEntry, error)
	// List returns the newest entries first.
	List(ctx context.Context, f JournalFilter) ([]JournalEntry, error)
}

// JournalTableDDL defines the SQL for the postgres journal.
const JournalTableDDL = `
-- Migration: certificate mint journal

BEGIN;

CREATE TABLE IF NOT EXISTS certificate_mints (
  id            UUID        PRIMARY KEY,
  kind          TEXT        NOT NULL,
  target        TEXT        NOT NULL,
  operator      TEXT        NOT NULL DEFAULT '',
  requested_by  TEXT        NOT NULL DEFAULT '',
  success       BOOLEAN     NOT NULL,
  hash          TEXT        NOT NULL DEFAULT '',
  token_id      BIGINT,
  error         TEXT        NOT NULL DEFAULT '',
  code          TEXT        NOT NULL DEFAULT '',
  started_at    TIMESTAMPTZ NOT NULL,
  finished_at   TIMESTAMPTZ NOT NULL,

  CONSTRAINT chk_certificate_mints_kind CHECK (kind IN ('mint', 'add_admin'))
);

CREATE INDEX IF NOT EXISTS idx_certificate_mints_started_at ON certificate_mints(started_at);
CREATE INDEX IF NOT EXISTS idx_certificate_mints_token_id   ON certificate_mints(token_id);

COMMIT;
`
