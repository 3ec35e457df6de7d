// Package firebase creates the single Firebase app of the process and the
// clients derived from it.
package firebase

import (
	"context"
	"fmt"

	fb "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"equipos-backend/internal/config"
	"equipos-backend/internal/docstore"
	"equipos-backend/internal/logger"
)

// NewApp initializes the Firebase app from a service-account file. With an
// empty credentials file the application default credentials are used.
func NewApp(ctx context.Context, cfg config.FirebaseConfig) (*fb.App, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	app, err := fb.NewApp(ctx, &fb.Config{
		ProjectID:     cfg.ProjectID,
		StorageBucket: cfg.StorageBucket,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	logger.Info("Firebase app initialized", "project_id", cfg.ProjectID)
	return app, nil
}

// NewDocStore returns the document store selected by cfg.Mode, along with the
// Firebase app when one was created.
func NewDocStore(ctx context.Context, cfg config.FirebaseConfig) (docstore.Store, *fb.App, error) {
	if cfg.Mode == "memory" {
		logger.Warn("Using in-memory document store, data will not persist")
		return docstore.NewMemoryStore(), nil, nil
	}

	app, err := NewApp(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return docstore.NewFirestoreStore(client), app, nil
}
