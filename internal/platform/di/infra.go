// internal/platform/di/infra.go
package di

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"cloud.google.com/go/firestore"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/storage"

	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	appcfg "certnft/internal/infra/config"
	"certnft/internal/infra/database"
)

// Infra is shared runtime infrastructure for DI.
// - owns external GCP / Firebase / Postgres clients (Close-managed)
//
// Firestore / Postgres are strict only when selected as the journal backend.
// Firebase Auth is strict whenever FIREBASE_PROJECT_ID is set.
// GCS and SecretManager are best-effort (warn + continue).
type Infra struct {
	Config *appcfg.Config

	Firestore     *firestore.Client
	GCS           *storage.Client
	SecretManager *secretmanager.Client
	FirebaseAuth  *firebaseauth.Client
	DB            *database.DB
}

func NewInfra(ctx context.Context, cfg *appcfg.Config) (*Infra, error) {
	inf := &Infra{Config: cfg}
	clientOpts := credentialOptions(cfg)

	// 1) Firestore (strict when JOURNAL_BACKEND=firestore)
	if cfg.JournalBackend == appcfg.JournalFirestore {
		fsClient, err := firestore.NewClient(ctx, cfg.FirestoreProjectID, clientOpts...)
		if err != nil {
			return nil, fmt.Errorf("di.infra: firestore.NewClient failed (project=%s): %w", cfg.FirestoreProjectID, err)
		}
		inf.Firestore = fsClient
		log.Printf("[di.infra] Firestore connected project=%s", cfg.FirestoreProjectID)
	}

	// 2) Postgres (strict when JOURNAL_BACKEND=postgres)
	if cfg.JournalBackend == appcfg.JournalPostgres {
		db, err := database.NewConnection(ctx, cfg.DatabaseURL)
		if err != nil {
			_ = inf.Close()
			return nil, fmt.Errorf("di.infra: postgres: %w", err)
		}
		inf.DB = db
	}

	// 3) GCS (best-effort; gs:// metadata only)
	if gcsClient, err := storage.NewClient(ctx, clientOpts...); err != nil {
		log.Printf("[di.infra] WARN: storage.NewClient failed: %v (gs:// metadata disabled)", err)
	} else {
		inf.GCS = gcsClient
		log.Printf("[di.infra] GCS storage client initialized")
	}

	// 4) Secret Manager (best-effort; only needed for TON_WALLET_SECRET)
	if strings.TrimSpace(cfg.TONWalletSecret) != "" {
		sm, err := secretmanager.NewClient(ctx, clientOpts...)
		if err != nil {
			log.Printf("[di.infra] WARN: secretmanager.NewClient failed: %v (wallet secret cannot be loaded)", err)
		} else {
			inf.SecretManager = sm
		}
	}

	// 5) Firebase App/Auth (strict when FIREBASE_PROJECT_ID is set)
	if pid := strings.TrimSpace(cfg.FirebaseProjectID); pid != "" {
		fbApp, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: pid}, clientOpts...)
		if err != nil {
			_ = inf.Close()
			return nil, fmt.Errorf("di.infra: firebase app init failed (project=%s): %w", pid, err)
		}
		authClient, err := fbApp.Auth(ctx)
		if err != nil {
			_ = inf.Close()
			return nil, fmt.Errorf("di.infra: firebase auth init failed (project=%s): %w", pid, err)
		}
		inf.FirebaseAuth = authClient
		log.Printf("[di.infra] Firebase Auth initialized project=%s", pid)
	} else if cfg.AuthDisabled {
		log.Printf("[di.infra] WARN: AUTH_DISABLED=true; mint and admin grant accept unauthenticated requests")
	}

	return inf, nil
}

func (i *Infra) Close() error {
	if i == nil {
		return nil
	}
	if i.Firestore != nil {
		_ = i.Firestore.Close()
	}
	if i.GCS != nil {
		_ = i.GCS.Close()
	}
	if i.SecretManager != nil {
		_ = i.SecretManager.Close()
	}
	if i.DB != nil {
		_ = i.DB.Close()
	}
	return nil
}

// Credentials file (optional; mainly for local dev)
func credentialOptions(cfg *appcfg.Config) []option.ClientOption {
	credFile := strings.TrimSpace(cfg.FirestoreCredentialsFile)
	if credFile == "" {
		credFile = strings.TrimSpace(cfg.GCPCreds) // GOOGLE_APPLICATION_CREDENTIALS
	}
	if credFile == "" {
		log.Printf("[di.infra] Using Application Default Credentials (no credentials file configured)")
		return nil
	}
	log.Printf("[di.infra] Using credentials file for GCP clients: %s", redactPath(credFile))
	return []option.ClientOption{option.WithCredentialsFile(credFile)}
}

func redactPath(p string) string {
	return ".../" + filepath.Base(p)
}
