// internal/platform/di/container.go
package di

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	httpin "certnft/internal/adapters/in/http"
	pgrepo "certnft/internal/adapters/out/db"
	fsrepo "certnft/internal/adapters/out/firestore"
	mailadapter "certnft/internal/adapters/out/mail"
	metadataadapter "certnft/internal/adapters/out/metadata"
	mintapp "certnft/internal/application/mint"
	certdom "certnft/internal/domain/certificate"
	appcfg "certnft/internal/infra/config"
	toninfra "certnft/internal/infra/ton"
)

// Container は main.go から使う依存オブジェクトの束。
// main.go を極限まで薄くするのが目的。
type Container struct {
	Config *appcfg.Config
	Infra  *Infra

	TON          *toninfra.Conn
	Wallet       *toninfra.WalletSession
	Orchestrator *mintapp.Orchestrator
	Verifier     *mintapp.Verifier

	// nil = journal 無効
	Journal certdom.JournalRepository
}

// NewContainer wires config → infra → TON → adapters → orchestrator.
// The liteserver pool, the selected journal backend and a configured
// Firebase project are strict; the wallet and mail are best-effort.
func NewContainer(ctx context.Context) (*Container, error) {
	cfg := appcfg.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("di: invalid config: %w", err)
	}

	c := &Container{Config: cfg}

	inf, err := NewInfra(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c.Infra = inf

	// ─────────────────────────────────────────────
	// TON (strict)
	// ─────────────────────────────────────────────
	tonConfig := toninfra.ResolveConfigURL(cfg.TONConfigURL)
	conn, err := toninfra.Connect(ctx, tonConfig)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.TON = conn
	log.Printf("[di] TON liteserver pool connected config=%s", tonConfig)

	builder, err := toninfra.NewTxBuilder(cfg.TONCollectionAddress, cfg.TONMintValue, cfg.TONAdminValue)
	if err != nil {
		c.Close()
		return nil, err
	}
	builder.QueryID = func() uint64 { return uint64(time.Now().Unix()) }

	query := toninfra.NewCollectionClient(conn.API, builder.Collection)

	c.Wallet = loadWallet(ctx, cfg, inf, conn)

	// ─────────────────────────────────────────────
	// Outbound adapters
	// ─────────────────────────────────────────────
	fetcher := metadataadapter.NewFetcher(nil, inf.GCS, cfg.MetadataIPFSGateway, cfg.MetadataTimeout)

	switch {
	case inf.Firestore != nil:
		c.Journal = fsrepo.NewJournalRepositoryFS(inf.Firestore, cfg.MintsCollection)
	case inf.DB != nil:
		c.Journal = pgrepo.NewJournalRepositoryPG(inf.DB.Client)
	default:
		log.Printf("[di] journal disabled (JOURNAL_BACKEND=%s)", cfg.JournalBackend)
	}

	deps := mintapp.Deps{
		Validator: toninfra.ValidateAddress,
		Wallet:    c.Wallet,
		Query:     query,
		Builder:   builder,
		Metadata:  fetcher,
		Observer:  mintapp.LogObserver{},
	}
	if c.Journal != nil {
		deps.Journal = c.Journal
	}
	if cfg.MailEnabled() {
		deps.Notifier = mailadapter.NewMintNotifier(
			mailadapter.NewSendGridClient(cfg.SendGridAPIKey),
			cfg.SendGridFrom,
			cfg.MintNotifyTo,
		)
		log.Printf("[di] mint notice mail enabled to=%s", cfg.MintNotifyTo)
	}

	opts := mintapp.Options{
		SettleDelay: cfg.MintSettleDelay,
		TokenRetry: mintapp.RetryPolicy{
			MaxAttempts: cfg.MintTokenMaxAttempts,
			Delay:       cfg.MintTokenRetryDelay,
			Multiplier:  cfg.MintTokenRetryMultiplier,
			MaxDelay:    cfg.MintTokenRetryMaxDelay,
		},
	}

	orch, err := mintapp.NewOrchestrator(deps, opts)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("di: orchestrator: %w", err)
	}
	c.Orchestrator = orch
	c.Verifier = mintapp.NewVerifier(query, fetcher)

	return c, nil
}

// loadWallet は env の mnemonic → Secret Manager の順で運営ウォレットを探す。
// 見つからなければ detached（mint は "No wallet connected" で失敗する）。
func loadWallet(ctx context.Context, cfg *appcfg.Config, inf *Infra, conn *toninfra.Conn) *toninfra.WalletSession {
	if !cfg.HasWallet() {
		log.Printf("[di] WARN: no wallet configured (TON_WALLET_MNEMONIC / TON_WALLET_SECRET); minting disabled")
		return toninfra.DetachedSession()
	}

	var (
		words  []string
		err    error
		source string
	)
	if strings.TrimSpace(cfg.TONWalletMnemonic) != "" {
		source = "env"
		words, err = toninfra.ParseMnemonic([]byte(cfg.TONWalletMnemonic))
	} else {
		source = "secretmanager"
		words, err = toninfra.LoadMnemonicSM(ctx, inf.SecretManager, cfg.GCPProjectID, cfg.TONWalletSecret)
	}
	if err != nil {
		log.Printf("[di] WARN: failed to load wallet mnemonic from %s: %v", source, err)
		return toninfra.DetachedSession()
	}

	ws, err := toninfra.NewWalletSession(conn.API, words)
	if err != nil {
		log.Printf("[di] WARN: wallet init failed: %v", err)
		return toninfra.DetachedSession()
	}

	acc, _ := ws.Account(ctx)
	log.Printf("[di] wallet loaded source=%s account=%s", source, acc)
	return ws
}

// RouterDeps builds the HTTP router dependencies.
func (c *Container) RouterDeps() httpin.RouterDeps {
	deps := httpin.RouterDeps{
		Certificates:    c.Orchestrator,
		Verifier:        c.Verifier,
		CORSAllowOrigin: c.Config.CORSAllowOrigin,
		AuthDisabled:    c.Config.AuthDisabled,
	}
	if c.Journal != nil {
		deps.Journal = c.Journal
	}
	// typed nil を interface に入れない
	if c.Infra != nil && c.Infra.FirebaseAuth != nil {
		deps.FirebaseAuth = c.Infra.FirebaseAuth
	}
	return deps
}

// Close releases the liteserver pool and every infra client.
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.TON != nil {
		c.TON.Close()
	}
	if c.Infra != nil {
		_ = c.Infra.Close()
	}
}
