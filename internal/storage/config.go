package storage

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"

	"equipos-backend/internal/config"
)

// New builds the attachment store selected by cfg.Type. app is only needed
// for the firebase backend.
func New(ctx context.Context, cfg config.StorageConfig, bucket string, app *firebase.App) (AttachmentStore, error) {
	switch cfg.Type {
	case "local":
		return NewLocalStore(cfg.BaseURL, cfg.UploadDir)
	case "firebase":
		if app == nil {
			return nil, fmt.Errorf("firebase storage requires a firebase app")
		}
		return NewFirebaseStore(ctx, app, bucket)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
