// internal/adapters/out/firestore/journal_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	certdom "certnft/internal/domain/certificate"
)

const defaultJournalCollection = "certificate_mints"

// JournalRepositoryFS implements certificate.JournalRepository using Firestore.
type JournalRepositoryFS struct {
	Client     *firestore.Client
	Collection string
}

func NewJournalRepositoryFS(client *firestore.Client, collection string) *JournalRepositoryFS {
	collection = strings.TrimSpace(collection)
	if collection == "" {
		collection = defaultJournalCollection
	}
	return &JournalRepositoryFS{Client: client, Collection: collection}
}

func (r *JournalRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection(r.Collection)
}

func (r *JournalRepositoryFS) Create(ctx context.Context, e certdom.JournalEntry) (certdom.JournalEntry, error) {
	if r == nil || r.Client == nil {
		return certdom.JournalEntry{}, errors.New("firestore client is nil")
	}

	var docRef *firestore.DocumentRef
	if strings.TrimSpace(e.ID) == "" {
		docRef = r.col().NewDoc()
		e.ID = docRef.ID
	} else {
		docRef = r.col().Doc(strings.TrimSpace(e.ID))
	}

	if err := e.Validate(); err != nil {
		return certdom.JournalEntry{}, err
	}

	// 🔸 ドメインのフィールドを落とさないように明示的にマッピングする
	data := map[string]interface{}{
		"kind":        string(e.Kind),
		"target":      e.Target,
		"operator":    e.Operator,
		"requestedBy": e.RequestedBy,
		"success":     e.Success,
		"hash":        e.Hash,
		"error":       e.Error,
		"code":        string(e.Code),
		"startedAt":   e.StartedAt.UTC(),
		"finishedAt":  e.FinishedAt.UTC(),
	}
	if e.TokenID != nil {
		data["tokenId"] = *e.TokenID
	}

	// 同じ ID の二重書き込みは Create が AlreadyExists で弾く
	if _, err := docRef.Create(ctx, data); err != nil {
		return certdom.JournalEntry{}, fmt.Errorf("journal create %s: %w", e.ID, err)
	}
	return e, nil
}

func (r *JournalRepositoryFS) GetByID(ctx context.Context, id string) (certdom.JournalEntry, error) {
	if r == nil || r.Client == nil {
		return certdom.JournalEntry{}, errors.New("firestore client is nil")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return certdom.JournalEntry{}, certdom.ErrEntryNotFound
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return certdom.JournalEntry{}, certdom.ErrEntryNotFound
	}
	if err != nil {
		return certdom.JournalEntry{}, err
	}
	return docToJournalEntry(snap)
}

func (r *JournalRepositoryFS) List(ctx context.Context, f certdom.JournalFilter) ([]certdom.JournalEntry, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("firestore client is nil")
	}

	q := r.col().Query
	if kinds := f.KindStrings(); len(kinds) > 0 {
		q = q.Where("kind", "in", kinds)
	}
	q = q.OrderBy("startedAt", firestore.Desc).Limit(f.NormalizedLimit())

	iter := q.Documents(ctx)
	defer iter.Stop()

	var items []certdom.JournalEntry
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		e, err := docToJournalEntry(doc)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, nil
}

func docToJournalEntry(doc *firestore.DocumentSnapshot) (certdom.JournalEntry, error) {
	var raw struct {
		Kind        string    `firestore:"kind"`
		Target      string    `firestore:"target"`
		Operator    string    `firestore:"operator"`
		RequestedBy string    `firestore:"requestedBy"`
		Success     bool      `firestore:"success"`
		Hash        string    `firestore:"hash"`
		TokenID     *int64    `firestore:"tokenId"`
		Error       string    `firestore:"error"`
		Code        string    `firestore:"code"`
		StartedAt   time.Time `firestore:"startedAt"`
		FinishedAt  time.Time `firestore:"finishedAt"`
	}
	if err := doc.DataTo(&raw); err != nil {
		return certdom.JournalEntry{}, fmt.Errorf("journal decode %s: %w", doc.Ref.ID, err)
	}

	return certdom.JournalEntry{
		ID:          doc.Ref.ID,
		Kind:        certdom.EntryKind(raw.Kind),
		Target:      raw.Target,
		Operator:    raw.Operator,
		RequestedBy: raw.RequestedBy,
		Success:     raw.Success,
		Hash:        raw.Hash,
		TokenID:     raw.TokenID,
		Error:       raw.Error,
		Code:        certdom.ErrorCode(raw.Code),
		StartedAt:   raw.StartedAt.UTC(),
		FinishedAt:  raw.FinishedAt.UTC(),
	}, nil
}
