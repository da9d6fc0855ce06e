package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/tracklight-app/tracklight-backend/config"
)

// Firestore collection names. The document database owns all persisted state;
// everything the service holds in memory is a derived copy.
const (
	CollUsers        = "users"
	CollProjects     = "projects"
	CollInvitations  = "invitations"
	CollPendingUsers = "pendingUsers"
	CollSessions     = "sessions"
)

// Clients bundles the Firebase Auth and Firestore clients. Constructed once at
// process start and handed to the repositories.
type Clients struct {
	Auth      *auth.Client
	Firestore *firestore.Client
}

// NewClients initializes the Firebase Admin SDK and returns the Auth and
// Firestore clients.
func NewClients(ctx context.Context, cfg *config.FirebaseConfig) (*Clients, error) {
	if cfg.CredentialsPath == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required")
	}

	opt := option.WithCredentialsFile(cfg.CredentialsPath)
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Auth client: %w", err)
	}

	fsClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Firestore client: %w", err)
	}

	return &Clients{Auth: authClient, Firestore: fsClient}, nil
}

func (c *Clients) Close() error {
	return c.Firestore.Close()
}
