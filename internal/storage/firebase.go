package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"

	"equipos-backend/internal/logger"
)

// FirebaseStore keeps attachments in the project's Firebase Storage bucket.
type FirebaseStore struct {
	bucket     *gcs.BucketHandle
	bucketName string
}

// NewFirebaseStore opens bucketName through the Firebase app.
func NewFirebaseStore(ctx context.Context, app *firebase.App, bucketName string) (*FirebaseStore, error) {
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to open bucket %s: %w", bucketName, err)
	}
	return &FirebaseStore{bucket: bucket, bucketName: bucketName}, nil
}

// Upload writes the object and makes it publicly readable. Buckets with
// uniform access reject object ACLs; that is logged and the URL is still returned.
func (s *FirebaseStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	logger.ExternalServiceCall("firebase-storage", "upload", "key", key)

	obj := s.bucket.Object(key)
	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		logger.ExternalServiceResult("firebase-storage", "upload", err, "key", key)
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		logger.ExternalServiceResult("firebase-storage", "upload", err, "key", key)
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	if err := obj.ACL().Set(ctx, gcs.AllUsers, gcs.RoleReader); err != nil {
		logger.Warn("Could not make attachment public", "key", key, "error", err)
	}
	logger.ExternalServiceResult("firebase-storage", "upload", nil, "key", key)
	return s.URL(ctx, key)
}

func (s *FirebaseStore) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	key, err := cleanKey(key)
	if err != nil {
		return nil, err
	}
	rc, err := s.bucket.Object(key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", key, err)
	}
	return rc, nil
}

func (s *FirebaseStore) Delete(ctx context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	err = s.bucket.Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		logger.ExternalServiceResult("firebase-storage", "delete", err, "key", key)
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *FirebaseStore) URL(ctx context.Context, key string) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, strings.Join(segments, "/")), nil
}

func (s *FirebaseStore) SignedURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	u, err := s.bucket.SignedURL(key, &gcs.SignedURLOptions{
		Scheme:  gcs.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(expiresIn),
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign url for %s: %w", key, err)
	}
	return u, nil
}
