package client

import (
	"context"
	"fmt"

	"creator-commerce/internal/config"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"google.golang.org/api/option"
)

// NewFirestoreClient boots a Firebase Admin app and returns its Firestore
// client. Without a credentials file the application default credentials
// (or FIRESTORE_EMULATOR_HOST) are used.
func NewFirestoreClient(ctx context.Context, cfg *config.Firebase) (*firestore.Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firestore client: %w", err)
	}
	return fs, nil
}
