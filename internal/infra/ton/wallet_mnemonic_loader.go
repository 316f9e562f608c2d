// internal/infra/ton/wallet_mnemonic_loader.go
package ton

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	smpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrMnemonicNotConfigured = errors.New("wallet_mnemonic: not configured")
	ErrMnemonicNotFound      = errors.New("wallet_mnemonic: secret not found")
	ErrMnemonicMalformed     = errors.New("wallet_mnemonic: malformed")
)

// 24 words (V4R2 / tonkeeper 互換)
const mnemonicWords = 24

// LoadMnemonicSM は GCP Secret Manager から運営ウォレットの mnemonic を読み込みます。
//
// projectID: GCP_PROJECT_ID
// secretID : TON_WALLET_SECRET (例: "certnft-ton-wallet")
func LoadMnemonicSM(ctx context.Context, client *secretmanager.Client, projectID, secretID string) ([]string, error) {
	projectID = strings.TrimSpace(projectID)
	secretID = strings.TrimSpace(secretID)
	if client == nil || projectID == "" || secretID == "" {
		return nil, ErrMnemonicNotConfigured
	}

	name := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, secretID)
	res, err := client.AccessSecretVersion(ctx, &smpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%w: %s", ErrMnemonicNotFound, name)
		}
		return nil, fmt.Errorf("access secret version %s: %w", name, err)
	}
	if res == nil || res.Payload == nil {
		return nil, fmt.Errorf("%w: %s", ErrMnemonicNotFound, name)
	}
	return ParseMnemonic(res.Payload.Data)
}

// ParseMnemonic accepts either whitespace separated words or a JSON string
// array (the walletgen -json output).
func ParseMnemonic(raw []byte) ([]string, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrMnemonicMalformed)
	}

	var words []string
	if strings.HasPrefix(s, "[") {
		if err := json.Unmarshal([]byte(s), &words); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMnemonicMalformed, err)
		}
	} else {
		words = strings.Fields(s)
	}

	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out = append(out, w)
		}
	}
	if len(out) != mnemonicWords {
		return nil, fmt.Errorf("%w: got %d words, want %d", ErrMnemonicMalformed, len(out), mnemonicWords)
	}
	return out, nil
}
