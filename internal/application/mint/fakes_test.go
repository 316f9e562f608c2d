package mint

import (
	"context"
	"errors"
	"sync"
	"time"

	certdom "certnft/internal/domain/certificate"
)

// fakeWallet is a configurable WalletSession. Unset funcs use defaults.
type fakeWallet struct {
	mu sync.Mutex

	AccountFn func(context.Context) (string, bool)
	SendFn    func(context.Context, certdom.Transaction) (certdom.Broadcast, error)

	accountCalls int
	sendCalls    int
	sent         []certdom.Transaction
}

func (w *fakeWallet) Account(ctx context.Context) (string, bool) {
	w.mu.Lock()
	w.accountCalls++
	w.mu.Unlock()
	if w.AccountFn != nil {
		return w.AccountFn(ctx)
	}
	return "EQadmin", true
}

func (w *fakeWallet) SendTransaction(ctx context.Context, tx certdom.Transaction) (certdom.Broadcast, error) {
	w.mu.Lock()
	w.sendCalls++
	w.sent = append(w.sent, tx)
	w.mu.Unlock()
	if w.SendFn != nil {
		return w.SendFn(ctx, tx)
	}
	return certdom.Broadcast{ID: "te6cc-boc", Hash: "abcd"}, nil
}

func (w *fakeWallet) calls() (account, send int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.accountCalls, w.sendCalls
}

// fakeQuery is a configurable ContractQuery.
type fakeQuery struct {
	mu sync.Mutex

	IsAdminFn     func(context.Context, string) (bool, error)
	GetStateFn    func(context.Context, int) (certdom.ContractState, error) // int = 1-based call number
	GetTokenFn    func(context.Context, int64, int) (*certdom.Token, error) // int = 1-based attempt
	GetTokenURIFn func(context.Context, int64) (string, error)

	isAdminCalls  int
	stateCalls    int
	tokenCalls    int
	tokenURICalls int
	tokenIDs      []int64
}

func (q *fakeQuery) IsAdmin(ctx context.Context, addr string) (bool, error) {
	q.mu.Lock()
	q.isAdminCalls++
	q.mu.Unlock()
	if q.IsAdminFn != nil {
		return q.IsAdminFn(ctx, addr)
	}
	return true, nil
}

func (q *fakeQuery) GetState(ctx context.Context) (certdom.ContractState, error) {
	q.mu.Lock()
	q.stateCalls++
	n := q.stateCalls
	q.mu.Unlock()
	if q.GetStateFn != nil {
		return q.GetStateFn(ctx, n)
	}
	return certdom.ContractState{NextID: int64(40 + n)}, nil
}

func (q *fakeQuery) GetToken(ctx context.Context, id int64) (*certdom.Token, error) {
	q.mu.Lock()
	q.tokenCalls++
	n := q.tokenCalls
	q.tokenIDs = append(q.tokenIDs, id)
	q.mu.Unlock()
	if q.GetTokenFn != nil {
		return q.GetTokenFn(ctx, id, n)
	}
	return &certdom.Token{ID: id, Address: "EQitem", Initialized: true}, nil
}

func (q *fakeQuery) GetTokenURI(ctx context.Context, id int64) (string, error) {
	q.mu.Lock()
	q.tokenURICalls++
	q.mu.Unlock()
	if q.GetTokenURIFn != nil {
		return q.GetTokenURIFn(ctx, id)
	}
	return "https://example.com/meta.json", nil
}

func (q *fakeQuery) totalCalls() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.isAdminCalls + q.stateCalls + q.tokenCalls + q.tokenURICalls
}

// fakeBuilder records built targets.
type fakeBuilder struct {
	Err   error
	built []string
}

func (b *fakeBuilder) BuildMint(student string) (certdom.Transaction, error) {
	b.built = append(b.built, "mint:"+student)
	if b.Err != nil {
		return certdom.Transaction{}, b.Err
	}
	return certdom.Transaction{Destination: "EQcollection", Value: 50_000_000, Body: []byte{0x01}}, nil
}

func (b *fakeBuilder) BuildAddAdmin(admin string) (certdom.Transaction, error) {
	b.built = append(b.built, "admin:"+admin)
	if b.Err != nil {
		return certdom.Transaction{}, b.Err
	}
	return certdom.Transaction{Destination: "EQcollection", Value: 20_000_000, Body: []byte{0x02}}, nil
}

type fakeFetcher struct {
	Fn    func(context.Context, string) (certdom.Metadata, error)
	calls int
}

func (f *fakeFetcher) Fetch(ctx context.Context, uri string) (certdom.Metadata, error) {
	f.calls++
	if f.Fn != nil {
		return f.Fn(ctx, uri)
	}
	return certdom.Metadata{"name": "Certificate #41"}, nil
}

type fakeJournal struct {
	mu      sync.Mutex
	entries []certdom.JournalEntry
	Err     error
}

func (j *fakeJournal) Create(_ context.Context, e certdom.JournalEntry) (certdom.JournalEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Err != nil {
		return certdom.JournalEntry{}, j.Err
	}
	j.entries = append(j.entries, e)
	return e, nil
}

func (j *fakeJournal) GetByID(_ context.Context, id string) (certdom.JournalEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, e := range j.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return certdom.JournalEntry{}, certdom.ErrEntryNotFound
}

func (j *fakeJournal) List(context.Context, certdom.JournalFilter) ([]certdom.JournalEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]certdom.JournalEntry(nil), j.entries...), nil
}

type fakeNotifier struct {
	notices []MintNotice
	Err     error
}

func (n *fakeNotifier) NotifyMinted(_ context.Context, notice MintNotice) error {
	n.notices = append(n.notices, notice)
	return n.Err
}

// recorder collects events and sleeps.
type recorder struct {
	mu     sync.Mutex
	events []Event
	sleeps []time.Duration
}

func (r *recorder) OnEvent(_ context.Context, ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.sleeps = append(r.sleeps, d)
	r.mu.Unlock()
	return ctx.Err()
}

func (r *recorder) stages() []Stage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Stage, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Stage)
	}
	return out
}

func (r *recorder) has(s Stage) bool {
	for _, got := range r.stages() {
		if got == s {
			return true
		}
	}
	return false
}

var errUserRejected = errors.New("user rejected")

func acceptAll(s string) bool { return s != "" && s != "bad-address" }
