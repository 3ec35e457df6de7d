package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"equipos-backend/internal/domain"
	"equipos-backend/internal/logger"
	"equipos-backend/internal/repository"
	"equipos-backend/internal/storage"
)

type attachmentService struct {
	rentalRepo repository.RentalRepository
	store      storage.AttachmentStore
	now        func() time.Time
}

func NewAttachmentService(rentalRepo repository.RentalRepository, store storage.AttachmentStore) AttachmentService {
	return &attachmentService{
		rentalRepo: rentalRepo,
		store:      store,
		now:        time.Now,
	}
}

func (s *attachmentService) rental(ctx context.Context, rentalID string) (*domain.Rental, error) {
	if rentalID == "" {
		return nil, fmt.Errorf("%w: rental id is required", ErrInvalidInput)
	}
	r, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("%w: rental %s not found", ErrInvalidInput, rentalID)
	}
	return r, nil
}

// AttachConduce stores the file under the rental's conduce number, or its id
// when the rental has none, and replaces any previous attachment.
func (s *attachmentService) AttachConduce(ctx context.Context, rentalID, filename string, r io.Reader) (string, error) {
	rental, err := s.rental(ctx, rentalID)
	if err != nil {
		return "", err
	}
	ext := filepath.Ext(filename)
	if ext == "" {
		return "", fmt.Errorf("%w: file %q has no extension", ErrInvalidInput, filename)
	}

	name := rental.Reference
	if name == "" {
		name = rental.ID
	}
	key := storage.ConduceObjectPath(rental.Date, name, ext, s.now())

	url, err := s.store.Upload(ctx, key, r, storage.ContentTypeFor(key))
	if err != nil {
		return "", fmt.Errorf("failed to upload conduce: %w", err)
	}

	if err := s.rentalRepo.Update(ctx, rental.ID, domain.Fields{
		domain.FieldConducePath: key,
		domain.FieldConduceURL:  url,
	}); err != nil {
		return "", err
	}

	if old := rental.ConducePath; old != "" && old != key {
		if err := s.store.Delete(ctx, old); err != nil {
			logger.Warn("Failed to delete replaced conduce", "alquiler_id", rental.ID, "path", old, "error", err)
		}
	}
	logger.Info("Conduce attached", "alquiler_id", rental.ID, "path", key)
	return url, nil
}

func (s *attachmentService) RemoveConduce(ctx context.Context, rentalID string) error {
	rental, err := s.rental(ctx, rentalID)
	if err != nil {
		return err
	}
	if rental.ConducePath == "" {
		return nil
	}
	if err := s.store.Delete(ctx, rental.ConducePath); err != nil {
		return fmt.Errorf("failed to delete conduce: %w", err)
	}
	return s.rentalRepo.Update(ctx, rental.ID, domain.Fields{
		domain.FieldConducePath: "",
		domain.FieldConduceURL:  "",
	})
}

// ConduceURL returns a signed download URL for the rental's conduce.
func (s *attachmentService) ConduceURL(ctx context.Context, rentalID string, expiresIn time.Duration) (string, error) {
	rental, err := s.rental(ctx, rentalID)
	if err != nil {
		return "", err
	}
	if rental.ConducePath == "" {
		return "", fmt.Errorf("%w: rental %s has no conduce", ErrInvalidInput, rentalID)
	}
	if expiresIn <= 0 {
		expiresIn = time.Hour
	}
	return s.store.SignedURL(ctx, rental.ConducePath, expiresIn)
}
