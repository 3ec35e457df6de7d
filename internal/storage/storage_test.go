package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equipos-backend/internal/config"
)

func TestConduceObjectPath(t *testing.T) {
	now := time.Date(2026, 7, 9, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "conduces/2025/03/C-1001.jpg", ConduceObjectPath("2025-03-14", "C-1001", ".JPG", now))
	assert.Equal(t, "conduces/2026/07/abc.pdf", ConduceObjectPath("bad", "abc", "pdf", now))
	assert.Equal(t, "conduces/2025/12/temp", ConduceObjectPath("2025-12-01", "", "", now))
	assert.Equal(t, "conduces/2025/12/12-A", ConduceObjectPath("2025-12-01", "12/A", "", now))
}

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewLocalStore("http://localhost:8080", dir)
	require.NoError(t, err)

	t.Run("Upload and download", func(t *testing.T) {
		u, err := s.Upload(ctx, "conduces/2025/03/C-1.jpg", strings.NewReader("scan"), "image/jpeg")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(u, "http://localhost:8080/api/v1/files/"))
		assert.Contains(t, u, "key=conduces%2F2025%2F03%2FC-1.jpg")

		_, err = os.Stat(filepath.Join(dir, "conduces", "2025", "03", "C-1.jpg"))
		require.NoError(t, err)

		rc, err := s.Download(ctx, "conduces/2025/03/C-1.jpg")
		require.NoError(t, err)
		defer rc.Close()
		body, _ := io.ReadAll(rc)
		assert.Equal(t, "scan", string(body))
	})

	t.Run("Signed url carries expiry", func(t *testing.T) {
		u, err := s.SignedURL(ctx, "conduces/2025/03/C-1.jpg", time.Hour)
		require.NoError(t, err)
		assert.Contains(t, u, "&token=")
		assert.Contains(t, u, "&expires=")
	})

	t.Run("Delete is idempotent", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "conduces/2025/03/C-1.jpg"))
		require.NoError(t, s.Delete(ctx, "conduces/2025/03/C-1.jpg"))
		_, err := s.Download(ctx, "conduces/2025/03/C-1.jpg")
		assert.Error(t, err)
	})

	t.Run("Keys cannot escape the root", func(t *testing.T) {
		err := s.SaveFile("../outside.txt", strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrInvalidKey)
		_, err = s.URL(ctx, "")
		assert.ErrorIs(t, err, ErrInvalidKey)
	})
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("Local", func(t *testing.T) {
		store, err := New(ctx, config.StorageConfig{Type: "local", UploadDir: t.TempDir(), BaseURL: "http://x"}, "", nil)
		require.NoError(t, err)
		assert.IsType(t, &LocalStore{}, store)
	})

	t.Run("Firebase without app", func(t *testing.T) {
		_, err := New(ctx, config.StorageConfig{Type: "firebase"}, "bucket", nil)
		assert.Error(t, err)
	})

	t.Run("Unknown type", func(t *testing.T) {
		_, err := New(ctx, config.StorageConfig{Type: "s3"}, "", nil)
		assert.Error(t, err)
	})
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "image/jpeg", ContentTypeFor("a/b.JPEG"))
	assert.Equal(t, "application/pdf", ContentTypeFor("x.pdf"))
	assert.Equal(t, "application/octet-stream", ContentTypeFor("x"))
}
