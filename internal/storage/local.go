package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"equipos-backend/internal/logger"
)

// LocalStore keeps attachments on the local filesystem and serves them
// through the /api/v1/files routes. Used for development and tests.
type LocalStore struct {
	baseURL string // Server URL (e.g., "http://localhost:8080")
	rootDir string
}

// NewLocalStore creates the root directory if needed.
func NewLocalStore(baseURL, rootDir string) (*LocalStore, error) {
	if err := os.MkdirAll(rootDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{baseURL: baseURL, rootDir: rootDir}, nil
}

func (s *LocalStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	if err := s.SaveFile(key, r); err != nil {
		return "", err
	}
	logger.Info("Attachment stored", "key", key, "content_type", contentType, "backend", "local")
	return s.URL(ctx, key)
}

func (s *LocalStore) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.ReadFile(key)
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	fullPath, err := s.LocalPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalStore) URL(ctx context.Context, key string) (string, error) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/api/v1/files/%s?key=%s", s.baseURL, encodeKey(cleaned), url.QueryEscape(cleaned)), nil
}

// SignedURL adds a one-off token and an expiry to the download URL. The local
// routes do not enforce either.
func (s *LocalStore) SignedURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	u, err := s.URL(ctx, key)
	if err != nil {
		return "", err
	}
	expires := time.Now().Add(expiresIn).Unix()
	return fmt.Sprintf("%s&token=%s&expires=%d", u, uuid.NewString(), expires), nil
}

// SaveFile writes r under key, creating parent directories.
func (s *LocalStore) SaveFile(key string, r io.Reader) error {
	fullPath, err := s.LocalPath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, r); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// ReadFile opens the file stored under key.
func (s *LocalStore) ReadFile(key string) (io.ReadCloser, error) {
	fullPath, err := s.LocalPath(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// LocalPath returns the filesystem path for a key.
func (s *LocalStore) LocalPath(key string) (string, error) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.rootDir, filepath.FromSlash(cleaned)), nil
}

// encodeKey creates a URL-safe hash of the key
func encodeKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:16])
}
