package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"equipos-backend/internal/utils"
)

// ErrInvalidKey is returned for object keys that are empty or escape the store root.
var ErrInvalidKey = errors.New("invalid object key")

// AttachmentStore keeps attachment files (rental conduces, expense receipts).
// Records only hold the object key and the URL returned by Upload.
type AttachmentStore interface {
	// Upload writes the object and returns its public URL.
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)

	// Download opens the object for reading.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error

	// URL returns the public URL of the object.
	URL(ctx context.Context, key string) (string, error)

	// SignedURL returns a time-limited download URL.
	SignedURL(ctx context.Context, key string, expiresIn time.Duration) (string, error)
}

// ConduceObjectPath builds conduces/YYYY/MM/<conduce><ext>. The year and month
// come from the rental date, or from now when the date does not parse.
func ConduceObjectPath(date, conduce, ext string, now time.Time) string {
	year, month, ok := utils.PeriodOf(date)
	if !ok {
		year, month = now.Year(), int(now.Month())
	}
	name := strings.ReplaceAll(strings.TrimSpace(conduce), "/", "-")
	if name == "" {
		name = "temp"
	}
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return fmt.Sprintf("conduces/%04d/%02d/%s%s", year, month, name, ext)
}

// cleanKey normalizes key and rejects keys that would leave the store root.
func cleanKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean("/" + key)[1:]
	if cleaned == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return cleaned, nil
}

// ContentTypeFor guesses the MIME type of an attachment from its extension.
func ContentTypeFor(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".pdf":
		return "application/pdf"
	}
	return "application/octet-stream"
}
