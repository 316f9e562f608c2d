// internal/adapters/out/mail/mint_notifier.go
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mintapp "certnft/internal/application/mint"
)

var ErrNotifierNotConfigured = errors.New("mail: mint notifier not configured")

// MintNotifier は mint 成功時に運営宛てに通知メールを送ります。
type MintNotifier struct {
	client      EmailClient
	fromAddress string
	toAddresses []string
}

// NewMintNotifier accepts a comma separated recipient list.
func NewMintNotifier(client EmailClient, fromAddress, to string) *MintNotifier {
	var recipients []string
	for _, a := range strings.Split(to, ",") {
		if a = strings.TrimSpace(a); a != "" {
			recipients = append(recipients, a)
		}
	}
	return &MintNotifier{
		client:      client,
		fromAddress: strings.TrimSpace(fromAddress),
		toAddresses: recipients,
	}
}

func (m *MintNotifier) NotifyMinted(ctx context.Context, n mintapp.MintNotice) error {
	if m == nil || m.client == nil || len(m.toAddresses) == 0 {
		return ErrNotifierNotConfigured
	}

	subject, body := buildMintNotice(n)

	var errs []error
	for _, to := range m.toAddresses {
		if err := m.client.Send(ctx, m.fromAddress, to, subject, body); err != nil {
			errs = append(errs, fmt.Errorf("notify %s: %w", to, err))
		}
	}
	return errors.Join(errs...)
}

func buildMintNotice(n mintapp.MintNotice) (string, string) {
	title := n.Metadata.Name()
	if title == "" {
		title = fmt.Sprintf("Certificate #%d", n.TokenID)
	}
	subject := fmt.Sprintf("[certnft] minted %s", title)

	var b strings.Builder
	fmt.Fprintf(&b, "A certificate NFT was minted.\n\n")
	fmt.Fprintf(&b, "Token ID : %d\n", n.TokenID)
	fmt.Fprintf(&b, "Student  : %s\n", n.StudentAddress)
	fmt.Fprintf(&b, "Tx       : %s\n", n.Hash)
	if n.MetadataURI != "" {
		fmt.Fprintf(&b, "Metadata : %s\n", n.MetadataURI)
	}
	if d := n.Metadata.Description(); d != "" {
		fmt.Fprintf(&b, "\n%s\n", d)
	}
	return subject, b.String()
}
