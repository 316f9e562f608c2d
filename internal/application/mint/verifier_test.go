package mint

import (
	"context"
	"errors"
	"testing"

	certdom "certnft/internal/domain/certificate"
)

func TestVerifyFound(t *testing.T) {
	q := &fakeQuery{}
	f := &fakeFetcher{}
	v := NewVerifier(q, f)

	c, err := v.Verify(context.Background(), 7)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if c.Token.ID != 7 || c.MetadataURI != "https://example.com/meta.json" {
		t.Errorf("unexpected certificate %+v", c)
	}
	if c.Metadata.Name() != "Certificate #41" || c.MetadataError != "" {
		t.Errorf("unexpected metadata %+v / %q", c.Metadata, c.MetadataError)
	}
}

func TestVerifyNotFound(t *testing.T) {
	q := &fakeQuery{GetTokenFn: func(context.Context, int64, int) (*certdom.Token, error) { return nil, nil }}
	v := NewVerifier(q, nil)

	_, err := v.Verify(context.Background(), 9)
	if !errors.Is(err, certdom.ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}
}

func TestVerifyMetadataFailureIsReported(t *testing.T) {
	q := &fakeQuery{}
	f := &fakeFetcher{Fn: func(context.Context, string) (certdom.Metadata, error) {
		return nil, errors.New("status=502")
	}}
	v := NewVerifier(q, f)

	c, err := v.Verify(context.Background(), 1)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if c.Metadata != nil || c.MetadataError != "status=502" {
		t.Errorf("unexpected certificate %+v", c)
	}
}

func TestVerifyRejectsNegativeID(t *testing.T) {
	v := NewVerifier(&fakeQuery{}, nil)
	if _, err := v.Verify(context.Background(), -1); !errors.Is(err, ErrInvalidTokenID) {
		t.Fatalf("expected ErrInvalidTokenID, got %v", err)
	}
}
