// internal/application/mint/verifier.go
package mint

import (
	"context"
	"errors"
	"fmt"

	certdom "certnft/internal/domain/certificate"
)

var ErrInvalidTokenID = errors.New("mint: invalid token id")

// Verifier は mint 済み証明書の読み取り確認を行います。
type Verifier struct {
	query    ContractQuery
	metadata MetadataFetcher
}

func NewVerifier(query ContractQuery, metadata MetadataFetcher) *Verifier {
	return &Verifier{query: query, metadata: metadata}
}

// Verify loads token id and, best-effort, its metadata document.
// A missing token yields certdom.ErrTokenNotFound.
func (v *Verifier) Verify(ctx context.Context, id int64) (certdom.Certificate, error) {
	if v == nil || v.query == nil {
		return certdom.Certificate{}, ErrQueryNotConfigured
	}
	if id < 0 {
		return certdom.Certificate{}, ErrInvalidTokenID
	}

	token, err := v.query.GetToken(ctx, id)
	if err != nil {
		return certdom.Certificate{}, err
	}
	if token == nil {
		return certdom.Certificate{}, fmt.Errorf("%w: id=%d", certdom.ErrTokenNotFound, id)
	}

	out := certdom.Certificate{Token: *token}

	uri, err := v.query.GetTokenURI(ctx, id)
	if err != nil {
		out.MetadataError = err.Error()
		return out, nil
	}
	out.MetadataURI = uri

	if v.metadata == nil {
		return out, nil
	}
	md, err := v.metadata.Fetch(ctx, uri)
	if err != nil {
		out.MetadataError = err.Error()
		return out, nil
	}
	out.Metadata = md
	return out, nil
}
