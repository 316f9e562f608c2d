// internal/application/mint/events.go
package mint

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	certdom "certnft/internal/domain/certificate"
)

// Stage is a step of the mint pipeline.
type Stage string

const (
	StageValidating               Stage = "validating"
	StageCheckingAuthorization    Stage = "checking_authorization"
	StageSnapshot                 Stage = "snapshot"
	StageBuildingTransaction      Stage = "building_transaction"
	StageAwaitingWalletSubmission Stage = "awaiting_wallet_submission"
	StageConfirmingOnChain        Stage = "confirming_on_chain"
	StageVerifyingToken           Stage = "verifying_token"
	StageTokenAttemptFailed       Stage = "token_attempt_failed"
	StageVerifyingMetadata        Stage = "verifying_metadata"
	StageMetadataWarning          Stage = "metadata_warning"
	StageJournalWarning           Stage = "journal_warning"
	StageNotifyWarning            Stage = "notify_warning"
	StageSucceeded                Stage = "succeeded"
	StageFailed                   Stage = "failed"
)

// Event is a typed stage transition emitted by the Orchestrator.
// Only the fields relevant to Stage are set.
type Event struct {
	Stage       Stage
	Kind        certdom.EntryKind
	Target      string
	Account     string
	NextID      int64
	TokenID     int64
	Attempt     int
	MaxAttempts int
	Hash        string
	URI         string
	Err         error
	At          time.Time
}

// Observer receives stage events. Implementations must not block for long.
type Observer interface {
	OnEvent(ctx context.Context, ev Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, ev Event)

func (f ObserverFunc) OnEvent(ctx context.Context, ev Event) { f(ctx, ev) }

type nopObserver struct{}

func (nopObserver) OnEvent(context.Context, Event) {}

// LogObserver writes events through the standard logger as "[mint] ..." lines.
type LogObserver struct {
	Logger *log.Logger // nil = log.Default()
}

func (o LogObserver) OnEvent(_ context.Context, ev Event) {
	l := o.Logger
	if l == nil {
		l = log.Default()
	}
	l.Print(formatEvent(ev))
}

func formatEvent(ev Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[mint] kind=%s stage=%s", ev.Kind, ev.Stage)
	if ev.Target != "" {
		fmt.Fprintf(&b, " target=%s", ev.Target)
	}
	if ev.Account != "" {
		fmt.Fprintf(&b, " account=%s", ev.Account)
	}
	switch ev.Stage {
	case StageSnapshot, StageConfirmingOnChain:
		fmt.Fprintf(&b, " nextId=%d", ev.NextID)
	case StageVerifyingToken, StageTokenAttemptFailed:
		fmt.Fprintf(&b, " tokenId=%d attempt=%d/%d", ev.TokenID, ev.Attempt, ev.MaxAttempts)
	case StageSucceeded:
		fmt.Fprintf(&b, " tokenId=%d", ev.TokenID)
	}
	if ev.Hash != "" {
		fmt.Fprintf(&b, " hash=%s", ev.Hash)
	}
	if ev.URI != "" {
		fmt.Fprintf(&b, " uri=%s", ev.URI)
	}
	if ev.Err != nil {
		fmt.Fprintf(&b, " err=%v", ev.Err)
	}
	return b.String()
}
