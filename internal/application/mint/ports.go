// internal/application/mint/ports.go
package mint

import (
	"context"

	certdom "certnft/internal/domain/certificate"
)

// ============================================================
// 外部コラボレータ（Orchestrator はこのインターフェースだけを見る）
// ============================================================

// AddressValidator はユーザー入力のアドレス文字列を構文チェックする純関数です。
type AddressValidator func(address string) bool

// WalletSession は接続中ウォレットの能力を表します。
// グローバル参照はせず、必ずコンストラクタで注入する。
type WalletSession interface {
	// Account returns the connected account, or ok=false when no wallet is connected.
	Account(ctx context.Context) (address string, ok bool)

	// SendTransaction signs and broadcasts tx. It may block for as long as the
	// wallet needs; the orchestrator imposes no timeout of its own.
	SendTransaction(ctx context.Context, tx certdom.Transaction) (certdom.Broadcast, error)
}

// ContractQuery は collection コントラクトへの読み取り専用ポートです。
type ContractQuery interface {
	IsAdmin(ctx context.Context, address string) (bool, error)
	GetState(ctx context.Context) (certdom.ContractState, error)
	// GetToken returns certdom.ErrTokenNotFound (or a nil token) when the item does not exist yet.
	GetToken(ctx context.Context, id int64) (*certdom.Token, error)
	GetTokenURI(ctx context.Context, id int64) (string, error)
}

// TransactionBuilder turns a target address into a chain transaction.
// Implementations are pure: no I/O, no randomness.
type TransactionBuilder interface {
	BuildMint(studentAddress string) (certdom.Transaction, error)
	BuildAddAdmin(adminAddress string) (certdom.Transaction, error)
}

// MetadataFetcher retrieves the JSON document behind a token URI.
type MetadataFetcher interface {
	Fetch(ctx context.Context, uri string) (certdom.Metadata, error)
}

// MintNotifier は mint 成功時の通知ポート（メール等）です。
type MintNotifier interface {
	NotifyMinted(ctx context.Context, n MintNotice) error
}

// MintNotice carries what a notifier needs about a successful mint.
type MintNotice struct {
	TokenID        int64
	StudentAddress string
	Hash           string
	MetadataURI    string
	Metadata       certdom.Metadata
}

// ============================================================
// requester（API 呼び出し元）を context で運ぶ
// ============================================================

type ctxKey struct{ name string }

var ctxKeyRequester = ctxKey{name: "requester"}

// WithRequester stores the caller identity (firebase uid, "cli", ...) for the journal.
func WithRequester(ctx context.Context, requester string) context.Context {
	return context.WithValue(ctx, ctxKeyRequester, requester)
}

// RequesterFrom returns the identity stored by WithRequester.
func RequesterFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	s, _ := ctx.Value(ctxKeyRequester).(string)
	return s
}
