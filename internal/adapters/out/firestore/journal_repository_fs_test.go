package firestore

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	certdom "certnft/internal/domain/certificate"
)

// FIRESTORE_EMULATOR_HOST が無ければ skip
func newEmulatorRepo(t *testing.T) *JournalRepositoryFS {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	client, err := firestore.NewClient(context.Background(), "certnft-test")
	if err != nil {
		t.Fatalf("firestore.NewClient: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return NewJournalRepositoryFS(client, "journal_test_"+uuid.NewString()[:8])
}

func TestJournalRepositoryFS(t *testing.T) {
	repo := newEmulatorRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	older, _ := certdom.NewJournalEntry("m-1", certdom.KindMint, "EQa", certdom.Succeeded("h1", certdom.IDPtr(1)), base, base)
	newer, _ := certdom.NewJournalEntry("m-2", certdom.KindMint, "EQb", certdom.Succeeded("h2", certdom.IDPtr(2)), base.Add(time.Hour), base.Add(time.Hour))
	admin, _ := certdom.NewJournalEntry("a-1", certdom.KindAddAdmin, "EQc", certdom.Succeeded("h3", nil), base.Add(2*time.Hour), base.Add(2*time.Hour))

	for _, e := range []certdom.JournalEntry{older, newer, admin} {
		if _, err := repo.Create(ctx, e); err != nil {
			t.Fatalf("Create %s: %v", e.ID, err)
		}
	}
	if _, err := repo.Create(ctx, older); err == nil {
		t.Error("duplicate id should be rejected")
	}

	got, err := repo.GetByID(ctx, "m-2")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.TokenID == nil || *got.TokenID != 2 || !got.StartedAt.Equal(newer.StartedAt) {
		t.Errorf("unexpected entry %+v", got)
	}
	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, certdom.ErrEntryNotFound) {
		t.Errorf("expected ErrEntryNotFound, got %v", err)
	}

	mints, err := repo.List(ctx, certdom.JournalFilter{Kinds: []certdom.EntryKind{certdom.KindMint}})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(mints) != 2 || mints[0].ID != "m-2" || mints[1].ID != "m-1" {
		t.Errorf("expected newest mint first, got %+v", mints)
	}
}
