// internal/adapters/out/db/journal_repository_pg.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	certdom "certnft/internal/domain/certificate"
)

// PG implementation of certificate.JournalRepository
type JournalRepositoryPG struct {
	DB *sql.DB
}

func NewJournalRepositoryPG(db *sql.DB) *JournalRepositoryPG {
	return &JournalRepositoryPG{DB: db}
}

const journalColumns = `
  id, kind, target, operator, requested_by, success, hash,
  token_id, error, code, started_at, finished_at`

func (r *JournalRepositoryPG) Create(ctx context.Context, e certdom.JournalEntry) (certdom.JournalEntry, error) {
	if err := e.Validate(); err != nil {
		return certdom.JournalEntry{}, err
	}

	q := `
INSERT INTO certificate_mints (` + journalColumns + `
) VALUES (
  $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
)
RETURNING` + journalColumns

	var tokenID sql.NullInt64
	if e.TokenID != nil {
		tokenID = sql.NullInt64{Int64: *e.TokenID, Valid: true}
	}

	row := r.DB.QueryRowContext(ctx, q,
		strings.TrimSpace(e.ID),
		string(e.Kind),
		e.Target,
		e.Operator,
		e.RequestedBy,
		e.Success,
		e.Hash,
		tokenID,
		e.Error,
		string(e.Code),
		e.StartedAt.UTC(),
		e.FinishedAt.UTC(),
	)
	out, err := scanJournalEntry(row)
	if err != nil {
		return certdom.JournalEntry{}, fmt.Errorf("journal insert %s: %w", e.ID, err)
	}
	return out, nil
}

func (r *JournalRepositoryPG) GetByID(ctx context.Context, id string) (certdom.JournalEntry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return certdom.JournalEntry{}, certdom.ErrEntryNotFound
	}

	q := `SELECT` + journalColumns + `
FROM certificate_mints
WHERE id::text = $1`
	e, err := scanJournalEntry(r.DB.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return certdom.JournalEntry{}, certdom.ErrEntryNotFound
		}
		return certdom.JournalEntry{}, err
	}
	return e, nil
}

func (r *JournalRepositoryPG) List(ctx context.Context, f certdom.JournalFilter) ([]certdom.JournalEntry, error) {
	where := []string{}
	args := []any{}

	if kinds := f.KindStrings(); len(kinds) > 0 {
		where = append(where, fmt.Sprintf("kind = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(kinds))
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = "WHERE " + strings.Join(where, " AND ")
	}

	q := fmt.Sprintf(`SELECT%s
FROM certificate_mints
%s
ORDER BY started_at DESC, id DESC
LIMIT $%d`, journalColumns, whereSQL, len(args)+1)
	args = append(args, f.NormalizedLimit())

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []certdom.JournalEntry
	for rows.Next() {
		e, err := scanJournalEntry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJournalEntry(s rowScanner) (certdom.JournalEntry, error) {
	var (
		e       certdom.JournalEntry
		kind    string
		code    string
		tokenID sql.NullInt64
	)
	if err := s.Scan(
		&e.ID, &kind, &e.Target, &e.Operator, &e.RequestedBy, &e.Success, &e.Hash,
		&tokenID, &e.Error, &code, &e.StartedAt, &e.FinishedAt,
	); err != nil {
		return certdom.JournalEntry{}, err
	}
	e.Kind = certdom.EntryKind(kind)
	e.Code = certdom.ErrorCode(code)
	if tokenID.Valid {
		v := tokenID.Int64
		e.TokenID = &v
	}
	e.StartedAt = e.StartedAt.UTC()
	e.FinishedAt = e.FinishedAt.UTC()
	return e, nil
}
