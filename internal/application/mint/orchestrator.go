// internal/application/mint/orchestrator.go
package mint

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	certdom "certnft/internal/domain/certificate"
)

// 利用者向けメッセージ（フォームにそのまま表示される）
const (
	msgEnterAddress     = "Enter student address"
	msgInvalidAddress   = "Invalid TON address"
	msgNoWallet         = "No wallet connected"
	msgUnauthorized     = "Current wallet is not authorized to mint NFTs. Only admins can mint certificates."
	msgStateNotAdvanced = "Transaction did not update contract state - minting failed"
	msgTokenNotFound    = "Token was not minted successfully - check admin status and transaction details"
)

var (
	ErrWalletNotConfigured  = errors.New("mint: wallet session is not configured")
	ErrQueryNotConfigured   = errors.New("mint: contract query is not configured")
	ErrBuilderNotConfigured = errors.New("mint: transaction builder is not configured")
)

// Deps は Orchestrator の依存一式です。
// Validator / Wallet / Query / Builder は必須、それ以外は nil 可。
type Deps struct {
	Validator AddressValidator
	Wallet    WalletSession
	Query     ContractQuery
	Builder   TransactionBuilder

	Metadata MetadataFetcher
	Journal  certdom.JournalRepository
	Notifier MintNotifier
	Observer Observer

	Sleep SleepFunc
	Now   func() time.Time
	NewID func() string
}

// Orchestrator sequences authorization, snapshot, submission, confirmation
// and metadata verification into a single mint attempt.
//
// It holds no lock: concurrent Mint calls may snapshot the same NextID and
// report the same predicted token id.
type Orchestrator struct {
	validate AddressValidator
	wallet   WalletSession
	query    ContractQuery
	builder  TransactionBuilder
	metadata MetadataFetcher
	journal  certdom.JournalRepository
	notifier MintNotifier
	observer Observer

	opts  Options
	sleep SleepFunc
	now   func() time.Time
	newID func() string
}

// NewOrchestrator validates required deps and applies defaults.
func NewOrchestrator(d Deps, opts Options) (*Orchestrator, error) {
	if d.Wallet == nil {
		return nil, ErrWalletNotConfigured
	}
	if d.Query == nil {
		return nil, ErrQueryNotConfigured
	}
	if d.Builder == nil {
		return nil, ErrBuilderNotConfigured
	}
	o := &Orchestrator{
		validate: d.Validator,
		wallet:   d.Wallet,
		query:    d.Query,
		builder:  d.Builder,
		metadata: d.Metadata,
		journal:  d.Journal,
		notifier: d.Notifier,
		observer: d.Observer,
		opts:     opts,
		sleep:    d.Sleep,
		now:      d.Now,
		newID:    d.NewID,
	}
	if o.validate == nil {
		o.validate = func(s string) bool { return strings.TrimSpace(s) != "" }
	}
	if o.observer == nil {
		o.observer = nopObserver{}
	}
	if o.sleep == nil {
		o.sleep = sleepContext
	}
	if o.now == nil {
		o.now = func() time.Time { return time.Now().UTC() }
	}
	if o.newID == nil {
		o.newID = func() string { return uuid.NewString() }
	}
	if o.opts.SettleDelay < 0 {
		o.opts.SettleDelay = 0
	}
	o.opts.TokenRetry = o.opts.TokenRetry.normalized()
	return o, nil
}

// ============================================================
// Mint
// ============================================================

// Mint runs the whole pipeline for studentAddress. It never returns an
// error: every failure is flattened into TransactionResult.
func (o *Orchestrator) Mint(ctx context.Context, studentAddress string) (res certdom.TransactionResult) {
	started := o.now()
	target := strings.TrimSpace(studentAddress)
	var at attempt

	// panic 時も送信済みなら hash を残す
	defer func() {
		if rec := recover(); rec != nil {
			res = certdom.Failed(at.hash, fmt.Errorf("mint: panic: %v", rec))
		}
		o.finish(ctx, certdom.KindMint, target, at.operator, started, res)
	}()

	res, err := o.mint(ctx, target, &at)
	if err != nil {
		return certdom.Failed(at.hash, err)
	}
	return res
}

// attempt は mint 途中で判明した値（operator / broadcast hash）
type attempt struct {
	operator string
	hash     string
}

func (o *Orchestrator) mint(ctx context.Context, target string, at *attempt) (certdom.TransactionResult, error) {
	none := certdom.TransactionResult{}

	// 1) 入力チェック（ネットワーク呼び出しより必ず先）
	o.emit(ctx, Event{Stage: StageValidating, Kind: certdom.KindMint, Target: target})
	if err := o.checkAddress(target); err != nil {
		return none, err
	}

	// 2) 権限チェック（UX 用の事前チェック。実際の強制はコントラクト側）
	o.emit(ctx, Event{Stage: StageCheckingAuthorization, Kind: certdom.KindMint, Target: target})
	account, ok := o.wallet.Account(ctx)
	account = strings.TrimSpace(account)
	if !ok || account == "" {
		return none, certdom.NewStageError(certdom.ErrNoWallet, msgNoWallet, nil)
	}
	at.operator = account
	isAdmin, err := o.query.IsAdmin(ctx, account)
	if err != nil {
		return none, err
	}
	if !isAdmin {
		return none, certdom.NewStageError(certdom.ErrUnauthorized, msgUnauthorized, nil)
	}

	// 3) mint 前の nextId を読む（これが予測 tokenId）
	before, err := o.query.GetState(ctx)
	if err != nil {
		return none, err
	}
	predicted := before.NextID
	o.emit(ctx, Event{Stage: StageSnapshot, Kind: certdom.KindMint, Target: target, Account: account, NextID: before.NextID})

	// 4) build & submit
	o.emit(ctx, Event{Stage: StageBuildingTransaction, Kind: certdom.KindMint, Target: target, Account: account})
	tx, err := o.builder.BuildMint(target)
	if err != nil {
		return none, encodingError(err)
	}

	o.emit(ctx, Event{Stage: StageAwaitingWalletSubmission, Kind: certdom.KindMint, Target: target, Account: account})
	b, err := o.wallet.SendTransaction(ctx, tx)
	if err != nil {
		return none, certdom.NewStageError(certdom.ErrSubmission, "", err)
	}
	hash := b.ID
	at.hash = hash

	// 5) settle → nextId が進んだか確認
	if err := o.sleep(ctx, o.opts.SettleDelay); err != nil {
		return none, certdom.NewStageError(certdom.ErrCanceled, "", err)
	}
	after, err := o.query.GetState(ctx)
	if err != nil {
		return none, err
	}
	o.emit(ctx, Event{Stage: StageConfirmingOnChain, Kind: certdom.KindMint, Target: target, NextID: after.NextID, Hash: hash})
	if after.NextID <= before.NextID {
		return none, certdom.NewStageError(
			certdom.ErrStateNotAdvanced,
			msgStateNotAdvanced,
			fmt.Errorf("nextId before=%d after=%d", before.NextID, after.NextID),
		)
	}

	// 6) 予測 tokenId の存在確認（RetryPolicy）
	if _, err := o.awaitToken(ctx, target, predicted); err != nil {
		return none, err
	}

	// 7) metadata（ベストエフォート。失敗しても成功は覆さない）
	uri, md := o.enrich(ctx, certdom.KindMint, target, predicted)

	if o.notifier != nil {
		n := MintNotice{TokenID: predicted, StudentAddress: target, Hash: hash, MetadataURI: uri, Metadata: md}
		if err := o.notifier.NotifyMinted(context.WithoutCancel(ctx), n); err != nil {
			o.emit(ctx, Event{Stage: StageNotifyWarning, Kind: certdom.KindMint, Target: target, TokenID: predicted, Err: err})
		}
	}

	return certdom.Succeeded(hash, certdom.IDPtr(predicted)), nil
}

func (o *Orchestrator) awaitToken(ctx context.Context, target string, id int64) (*certdom.Token, error) {
	p := o.opts.TokenRetry
	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		o.emit(ctx, Event{
			Stage: StageVerifyingToken, Kind: certdom.KindMint, Target: target,
			TokenID: id, Attempt: attempt, MaxAttempts: p.MaxAttempts,
		})

		token, err := o.query.GetToken(ctx, id)
		if err == nil && token != nil {
			return token, nil
		}
		if err == nil {
			err = certdom.ErrTokenNotFound
		}
		lastErr = err
		o.emit(ctx, Event{
			Stage: StageTokenAttemptFailed, Kind: certdom.KindMint, Target: target,
			TokenID: id, Attempt: attempt, MaxAttempts: p.MaxAttempts, Err: err,
		})

		if attempt < p.MaxAttempts {
			if serr := o.sleep(ctx, p.DelayAfter(attempt)); serr != nil {
				return nil, certdom.NewStageError(certdom.ErrCanceled, "", serr)
			}
		}
	}
	return nil, certdom.NewStageError(certdom.ErrTokenNotFound, msgTokenNotFound, lastErr)
}

// enrich fetches the token URI and its document. Failures are reported as
// MetadataFetchWarning events and swallowed.
func (o *Orchestrator) enrich(ctx context.Context, kind certdom.EntryKind, target string, id int64) (string, certdom.Metadata) {
	o.emit(ctx, Event{Stage: StageVerifyingMetadata, Kind: kind, Target: target, TokenID: id})

	uri, err := o.query.GetTokenURI(ctx, id)
	if err != nil {
		o.emit(ctx, Event{Stage: StageMetadataWarning, Kind: kind, Target: target, TokenID: id,
			Err: fmt.Errorf("%w: token uri: %v", certdom.ErrMetadataFetch, err)})
		return "", nil
	}
	if o.metadata == nil {
		return uri, nil
	}
	md, err := o.metadata.Fetch(ctx, uri)
	if err != nil {
		o.emit(ctx, Event{Stage: StageMetadataWarning, Kind: kind, Target: target, TokenID: id, URI: uri,
			Err: fmt.Errorf("%w: %v", certdom.ErrMetadataFetch, err)})
		return uri, nil
	}
	return uri, md
}

// ============================================================
// AddAdmin（単段: build → submit。反映確認はしない）
// ============================================================

// AddAdmin submits an admin-grant transaction. Success only means the wallet
// accepted the message; the grant may not have taken effect yet.
func (o *Orchestrator) AddAdmin(ctx context.Context, adminAddress string) (res certdom.TransactionResult) {
	started := o.now()
	target := strings.TrimSpace(adminAddress)
	var operator string

	defer func() {
		if rec := recover(); rec != nil {
			res = certdom.Failed(res.Hash, fmt.Errorf("add admin: panic: %v", rec))
		}
		o.finish(ctx, certdom.KindAddAdmin, target, operator, started, res)
	}()

	o.emit(ctx, Event{Stage: StageValidating, Kind: certdom.KindAddAdmin, Target: target})
	if err := o.checkAddress(target); err != nil {
		return certdom.Failed("", err)
	}
	operator, _ = o.wallet.Account(ctx)

	o.emit(ctx, Event{Stage: StageBuildingTransaction, Kind: certdom.KindAddAdmin, Target: target})
	tx, err := o.builder.BuildAddAdmin(target)
	if err != nil {
		return certdom.Failed("", encodingError(err))
	}

	o.emit(ctx, Event{Stage: StageAwaitingWalletSubmission, Kind: certdom.KindAddAdmin, Target: target})
	b, err := o.wallet.SendTransaction(ctx, tx)
	if err != nil {
		return certdom.Failed("", certdom.NewStageError(certdom.ErrSubmission, "", err))
	}
	return certdom.Succeeded(b.ID, nil)
}

// ============================================================
// 読み取り系（HTTP API 用のパススルー）
// ============================================================

// IsAdmin validates address and asks the contract whether it is an admin.
func (o *Orchestrator) IsAdmin(ctx context.Context, address string) (bool, error) {
	address = strings.TrimSpace(address)
	if err := o.checkAddress(address); err != nil {
		return false, err
	}
	return o.query.IsAdmin(ctx, address)
}

// State returns the current contract state.
func (o *Orchestrator) State(ctx context.Context) (certdom.ContractState, error) {
	return o.query.GetState(ctx)
}

// ============================================================
// helpers
// ============================================================

func (o *Orchestrator) checkAddress(addr string) error {
	if addr == "" {
		return certdom.NewStageError(certdom.ErrValidation, msgEnterAddress, nil)
	}
	if !o.validate(addr) {
		return certdom.NewStageError(certdom.ErrValidation, msgInvalidAddress, nil)
	}
	return nil
}

func encodingError(err error) error {
	if errors.Is(err, certdom.ErrEncoding) {
		return err
	}
	return fmt.Errorf("%w: %v", certdom.ErrEncoding, err)
}

func (o *Orchestrator) emit(ctx context.Context, ev Event) {
	if ev.At.IsZero() {
		ev.At = o.now()
	}
	o.observer.OnEvent(ctx, ev)
}

// finish emits the terminal event and records the attempt (best-effort).
func (o *Orchestrator) finish(
	ctx context.Context,
	kind certdom.EntryKind,
	target string,
	operator string,
	started time.Time,
	res certdom.TransactionResult,
) {
	ev := Event{Stage: StageSucceeded, Kind: kind, Target: target, Account: operator, Hash: res.Hash}
	if res.TokenID != nil {
		ev.TokenID = *res.TokenID
	}
	if !res.Success {
		ev.Stage = StageFailed
		ev.Err = errors.New(res.Error)
	}
	o.emit(ctx, ev)

	if o.journal == nil {
		return
	}
	entry, err := certdom.NewJournalEntry(o.newID(), kind, target, res, started, o.now())
	if err != nil {
		o.emit(ctx, Event{Stage: StageJournalWarning, Kind: kind, Target: target, Err: err})
		return
	}
	entry.Operator = strings.TrimSpace(operator)
	entry.RequestedBy = RequesterFrom(ctx)

	// 呼び出し元が ctx をキャンセルしていても記録は残す
	if _, err := o.journal.Create(context.WithoutCancel(ctx), entry); err != nil {
		o.emit(ctx, Event{Stage: StageJournalWarning, Kind: kind, Target: target, Err: err})
	}
}
