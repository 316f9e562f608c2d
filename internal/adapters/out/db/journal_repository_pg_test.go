package db

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	certdom "certnft/internal/domain/certificate"
)

// TEST_DATABASE_URL が無ければ skip
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(certdom.JournalTableDDL); err != nil {
		t.Fatalf("ddl: %v", err)
	}
	return db
}

func TestJournalRepositoryPG(t *testing.T) {
	db := openTestDB(t)
	repo := NewJournalRepositoryPG(db)
	ctx := context.Background()

	started := time.Now().UTC().Truncate(time.Millisecond)
	mintEntry, err := certdom.NewJournalEntry(uuid.NewString(), certdom.KindMint, "EQstudent",
		certdom.Succeeded("abcd", certdom.IDPtr(41)), started, started.Add(9*time.Second))
	if err != nil {
		t.Fatalf("NewJournalEntry: %v", err)
	}
	mintEntry.RequestedBy = "uid-1"

	adminEntry, err := certdom.NewJournalEntry(uuid.NewString(), certdom.KindAddAdmin, "EQadmin",
		certdom.Failed("", certdom.NewStageError(certdom.ErrSubmission, "", errors.New("user rejected"))),
		started.Add(time.Minute), started.Add(time.Minute))
	if err != nil {
		t.Fatalf("NewJournalEntry: %v", err)
	}

	for _, e := range []certdom.JournalEntry{mintEntry, adminEntry} {
		if _, err := repo.Create(ctx, e); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := repo.GetByID(ctx, mintEntry.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.TokenID == nil || *got.TokenID != 41 || got.RequestedBy != "uid-1" || !got.Success {
		t.Errorf("unexpected entry %+v", got)
	}

	if _, err := repo.GetByID(ctx, uuid.NewString()); !errors.Is(err, certdom.ErrEntryNotFound) {
		t.Errorf("expected ErrEntryNotFound, got %v", err)
	}

	admins, err := repo.List(ctx, certdom.JournalFilter{Kinds: []certdom.EntryKind{certdom.KindAddAdmin}, Limit: 200})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	found := false
	for _, e := range admins {
		if e.Kind != certdom.KindAddAdmin {
			t.Errorf("kind filter leaked %+v", e)
		}
		if e.ID == adminEntry.ID {
			found = true
			if e.Code != certdom.CodeSubmission || e.Error != "user rejected" || e.TokenID != nil {
				t.Errorf("unexpected admin entry %+v", e)
			}
		}
	}
	if !found {
		t.Error("admin entry not listed")
	}
}
