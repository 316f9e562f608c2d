// internal/infra/ton/wallet_session.go
package ton

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/ton"
	"github.com/xssnick/tonutils-go/ton/wallet"
	"github.com/xssnick/tonutils-go/tvm/cell"

	certdom "certnft/internal/domain/certificate"
)

// send modes (TL-B `mode` of the outgoing message)
const (
	modePayGasSeparately = 1
	modeIgnoreErrors     = 2
)

var ErrWalletDetached = errors.New("ton: no wallet loaded")

// WalletSession は server 側で保持する運営ウォレット（V4R2）です。
// w == nil の場合は「未接続」として振る舞います。
type WalletSession struct {
	api ton.APIClientWrapped
	w   *wallet.Wallet
}

// NewWalletSession derives a V4R2 wallet from the 24-word mnemonic.
func NewWalletSession(api ton.APIClientWrapped, words []string) (*WalletSession, error) {
	if len(words) == 0 {
		return nil, errors.New("ton: mnemonic is empty")
	}
	w, err := wallet.FromSeed(api, words, wallet.V4R2)
	if err != nil {
		return nil, fmt.Errorf("ton: wallet from seed: %w", err)
	}
	return &WalletSession{api: api, w: w}, nil
}

// DetachedSession reports no account and refuses to sign.
func DetachedSession() *WalletSession {
	return &WalletSession{}
}

func (s *WalletSession) Account(_ context.Context) (string, bool) {
	if s == nil || s.w == nil {
		return "", false
	}
	return s.w.WalletAddress().String(), true
}

// SendTransaction signs the message with the wallet and broadcasts it as an
// external message. The returned ID is the base64 BOC of that message.
func (s *WalletSession) SendTransaction(ctx context.Context, tx certdom.Transaction) (certdom.Broadcast, error) {
	if s == nil || s.w == nil {
		return certdom.Broadcast{}, ErrWalletDetached
	}

	dst, err := ParseAddress(tx.Destination)
	if err != nil {
		return certdom.Broadcast{}, fmt.Errorf("ton: destination: %w", err)
	}
	body, err := cell.FromBOC(tx.Body)
	if err != nil {
		return certdom.Broadcast{}, fmt.Errorf("ton: body: %w", err)
	}

	msg := &wallet.Message{
		Mode: modePayGasSeparately + modeIgnoreErrors,
		InternalMessage: &tlb.InternalMessage{
			IHRDisabled: true,
			Bounce:      true,
			DstAddr:     dst,
			Amount:      tlb.FromNanoTONU(tx.Value),
			Body:        body,
		},
	}

	ext, err := s.w.BuildExternalMessageForMany(ctx, []*wallet.Message{msg})
	if err != nil {
		return certdom.Broadcast{}, fmt.Errorf("ton: build external message: %w", err)
	}
	extCell, err := tlb.ToCell(ext)
	if err != nil {
		return certdom.Broadcast{}, fmt.Errorf("ton: serialize external message: %w", err)
	}

	if err := s.api.SendExternalMessage(ctx, ext); err != nil {
		return certdom.Broadcast{}, fmt.Errorf("ton: send external message: %w", err)
	}

	return certdom.Broadcast{
		ID:   base64.StdEncoding.EncodeToString(extCell.ToBOC()),
		Hash: hex.EncodeToString(extCell.Hash()),
	}, nil
}
