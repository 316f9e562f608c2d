// internal/infra/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// journal backends
const (
	JournalFirestore = "firestore"
	JournalPostgres  = "postgres"
	JournalNone      = "none"
)

// Config はアプリケーション全体の環境変数設定を保持します。
type Config struct {
	Port    string
	LogFile string

	GCPProjectID             string
	GCPCreds                 string
	FirestoreProjectID       string
	FirestoreCredentialsFile string

	// Firebase Auth 用のプロジェクトID
	FirebaseProjectID string
	// true の場合のみ、認証なしで mint / admin 付与を受け付ける（ローカル開発用）
	AuthDisabled bool

	// ===== TON =====
	// global config の URL、または "mainnet" / "testnet"
	TONConfigURL         string
	TONCollectionAddress string
	// mnemonic をそのまま渡す場合（ローカル開発用）
	TONWalletMnemonic string
	// Secret Manager の secret ID（本番）
	TONWalletSecret string
	TONMintValue    string
	TONAdminValue   string

	// ===== mint orchestration =====
	MintSettleDelay      time.Duration
	MintTokenMaxAttempts int
	MintTokenRetryDelay  time.Duration

	// <= 1 なら固定間隔
	MintTokenRetryMultiplier float64
	MintTokenRetryMaxDelay   time.Duration

	// ===== metadata =====
	MetadataTimeout     time.Duration
	MetadataIPFSGateway string

	// ===== journal =====
	JournalBackend  string
	DatabaseURL     string
	MintsCollection string

	// ===== mail =====
	SendGridAPIKey string
	SendGridFrom   string
	MintNotifyTo   string

	CORSAllowOrigin string
}

// Load は環境変数を読み込み Config を返します。
// 数値・期間のパースに失敗した値は範囲外（-1 / 0）になり、Validate で検出されます。
func Load() *Config {
	defaultProject := os.Getenv("GCP_PROJECT_ID")

	cfg := &Config{
		Port:    getenvDefault("PORT", "8080"),
		LogFile: os.Getenv("LOG_FILE"),

		GCPProjectID:             defaultProject,
		GCPCreds:                 os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
		FirebaseProjectID:        os.Getenv("FIREBASE_PROJECT_ID"),
		AuthDisabled:             getenvBool("AUTH_DISABLED"),

		TONConfigURL:         getenvDefault("TON_CONFIG_URL", "testnet"),
		TONCollectionAddress: strings.TrimSpace(os.Getenv("TON_COLLECTION_ADDRESS")),
		TONWalletMnemonic:    os.Getenv("TON_WALLET_MNEMONIC"),
		TONWalletSecret:      os.Getenv("TON_WALLET_SECRET"),
		TONMintValue:         getenvDefault("TON_MINT_VALUE", "0.05"),
		TONAdminValue:        getenvDefault("TON_ADMIN_VALUE", "0.02"),

		MintSettleDelay:      getenvDuration("MINT_SETTLE_DELAY", 5*time.Second),
		MintTokenMaxAttempts: getenvInt("MINT_TOKEN_MAX_ATTEMPTS", 3),
		MintTokenRetryDelay:  getenvDuration("MINT_TOKEN_RETRY_DELAY", 2*time.Second),

		MintTokenRetryMultiplier: getenvFloat("MINT_TOKEN_RETRY_MULTIPLIER", 1),
		MintTokenRetryMaxDelay:   getenvDuration("MINT_TOKEN_RETRY_MAX_DELAY", 0),

		MetadataTimeout:     getenvDuration("METADATA_TIMEOUT", 10*time.Second),
		MetadataIPFSGateway: getenvDefault("METADATA_IPFS_GATEWAY", "https://ipfs.io/ipfs/"),

		JournalBackend:  strings.ToLower(getenvDefault("JOURNAL_BACKEND", JournalFirestore)),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		MintsCollection: getenvDefault("MINTS_COLLECTION", "certificate_mints"),

		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		SendGridFrom:   os.Getenv("SENDGRID_FROM"),
		MintNotifyTo:   os.Getenv("MINT_NOTIFY_TO"),

		CORSAllowOrigin: getenvDefault("CORS_ALLOW_ORIGIN", "*"),
	}

	return cfg
}

// Validate checks cross-field requirements. It does not touch the network.
func (c *Config) Validate() error {
	var errs []error

	if c.TONCollectionAddress == "" {
		errs = append(errs, errors.New("TON_COLLECTION_ADDRESS is required"))
	}
	if c.MintSettleDelay < 0 {
		errs = append(errs, fmt.Errorf("MINT_SETTLE_DELAY must be >= 0 (got %s)", c.MintSettleDelay))
	}
	if c.MintTokenMaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("MINT_TOKEN_MAX_ATTEMPTS must be >= 1 (got %d)", c.MintTokenMaxAttempts))
	}
	if c.MintTokenRetryDelay < 0 {
		errs = append(errs, fmt.Errorf("MINT_TOKEN_RETRY_DELAY must be >= 0 (got %s)", c.MintTokenRetryDelay))
	}
	if c.MintTokenRetryMultiplier < 0 {
		errs = append(errs, fmt.Errorf("MINT_TOKEN_RETRY_MULTIPLIER must be >= 0 (got %g)", c.MintTokenRetryMultiplier))
	}
	if c.MintTokenRetryMaxDelay < 0 {
		errs = append(errs, fmt.Errorf("MINT_TOKEN_RETRY_MAX_DELAY must be >= 0 (got %s)", c.MintTokenRetryMaxDelay))
	}
	if c.MetadataTimeout <= 0 {
		errs = append(errs, fmt.Errorf("METADATA_TIMEOUT must be > 0 (got %s)", c.MetadataTimeout))
	}

	switch c.JournalBackend {
	case JournalFirestore:
		if c.FirestoreProjectID == "" {
			errs = append(errs, errors.New("JOURNAL_BACKEND=firestore requires FIRESTORE_PROJECT_ID or GCP_PROJECT_ID"))
		}
	case JournalPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("JOURNAL_BACKEND=postgres requires DATABASE_URL"))
		}
	case JournalNone:
	default:
		errs = append(errs, fmt.Errorf("JOURNAL_BACKEND must be firestore|postgres|none (got %q)", c.JournalBackend))
	}

	if c.AuthDisabled && strings.TrimSpace(c.FirebaseProjectID) != "" {
		errs = append(errs, errors.New("AUTH_DISABLED=true conflicts with FIREBASE_PROJECT_ID"))
	}
	if c.TONWalletSecret != "" && c.GCPProjectID == "" {
		errs = append(errs, errors.New("TON_WALLET_SECRET requires GCP_PROJECT_ID"))
	}
	if c.SendGridAPIKey != "" && (c.SendGridFrom == "" || c.MintNotifyTo == "") {
		errs = append(errs, errors.New("SENDGRID_API_KEY requires SENDGRID_FROM and MINT_NOTIFY_TO"))
	}

	return errors.Join(errs...)
}

// HasWallet は署名用ウォレットの設定があるかどうか
func (c *Config) HasWallet() bool {
	return strings.TrimSpace(c.TONWalletMnemonic) != "" || strings.TrimSpace(c.TONWalletSecret) != ""
}

func (c *Config) MailEnabled() bool {
	return c.SendGridAPIKey != "" && c.SendGridFrom != "" && c.MintNotifyTo != ""
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// "5s" / "1500ms" のほか、単位なしは秒として扱う
func getenvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return -1
	}
	return d
}

// "1" / "true" / "yes" のみ true
func getenvBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func getenvFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return -1
	}
	return f
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
