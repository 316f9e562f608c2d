package mail

import (
	"context"
	"errors"
	"strings"
	"testing"

	mintapp "certnft/internal/application/mint"
	certdom "certnft/internal/domain/certificate"
)

type sentMail struct {
	from, to, subject, body string
}

type fakeEmailClient struct {
	sent  []sentMail
	errTo map[string]error
}

func (c *fakeEmailClient) Send(_ context.Context, from, to, subject, body string) error {
	if err := c.errTo[to]; err != nil {
		return err
	}
	c.sent = append(c.sent, sentMail{from, to, subject, body})
	return nil
}

func TestMintNotifierSendsToEveryRecipient(t *testing.T) {
	c := &fakeEmailClient{}
	n := NewMintNotifier(c, "no-reply@example.com", " ops@example.com, ,dean@example.com ")

	err := n.NotifyMinted(context.Background(), mintapp.MintNotice{
		TokenID:        41,
		StudentAddress: "EQstudent",
		Hash:           "abcd",
		MetadataURI:    "https://example.com/41.json",
		Metadata:       certdom.Metadata{"name": "Diploma 41"},
	})
	if err != nil {
		t.Fatalf("NotifyMinted: %v", err)
	}
	if len(c.sent) != 2 || c.sent[0].to != "ops@example.com" || c.sent[1].to != "dean@example.com" {
		t.Fatalf("unexpected recipients %+v", c.sent)
	}
	m := c.sent[0]
	if m.subject != "[certnft] minted Diploma 41" {
		t.Errorf("unexpected subject %q", m.subject)
	}
	for _, want := range []string{"41", "EQstudent", "abcd", "https://example.com/41.json"} {
		if !strings.Contains(m.body, want) {
			t.Errorf("body missing %q:\n%s", want, m.body)
		}
	}
}

func TestMintNotifierFallbackTitle(t *testing.T) {
	c := &fakeEmailClient{}
	n := NewMintNotifier(c, "from@example.com", "ops@example.com")
	if err := n.NotifyMinted(context.Background(), mintapp.MintNotice{TokenID: 7}); err != nil {
		t.Fatalf("NotifyMinted: %v", err)
	}
	if c.sent[0].subject != "[certnft] minted Certificate #7" {
		t.Errorf("unexpected subject %q", c.sent[0].subject)
	}
}

func TestMintNotifierJoinsErrors(t *testing.T) {
	boom := errors.New("status=500")
	c := &fakeEmailClient{errTo: map[string]error{"a@example.com": boom}}
	n := NewMintNotifier(c, "from@example.com", "a@example.com,b@example.com")

	err := n.NotifyMinted(context.Background(), mintapp.MintNotice{TokenID: 1})
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if len(c.sent) != 1 || c.sent[0].to != "b@example.com" {
		t.Errorf("remaining recipients should still be mailed, got %+v", c.sent)
	}
}

func TestMintNotifierNotConfigured(t *testing.T) {
	n := NewMintNotifier(&fakeEmailClient{}, "from@example.com", "")
	if err := n.NotifyMinted(context.Background(), mintapp.MintNotice{}); !errors.Is(err, ErrNotifierNotConfigured) {
		t.Fatalf("expected ErrNotifierNotConfigured, got %v", err)
	}
}

func TestSendGridClientRejectsMissingFields(t *testing.T) {
	if err := NewSendGridClient("").Send(context.Background(), "a", "b", "s", "x"); err == nil {
		t.Error("expected api key error")
	}
	if err := NewSendGridClient("k").Send(context.Background(), "", "b", "s", "x"); err == nil {
		t.Error("expected from error")
	}
}
