package service

import (
	"context"
	"errors"
	"io"
	"time"

	"equipos-backend/internal/domain"
)

var (
	// ErrPreloadFailed means the startup catalog could not be read.
	ErrPreloadFailed = errors.New("catalog preload failed")
	ErrInvalidInput  = errors.New("invalid input")
)

type CatalogService interface {
	// Preload reads every id to name map the application needs. A failure is
	// fatal for the caller.
	Preload(ctx context.Context) (*domain.Catalog, error)

	// Options return an empty list when the store fails.
	EquipmentOptions(ctx context.Context) []domain.Option
	ClientOptions(ctx context.Context) []domain.Option
	OperatorOptions(ctx context.Context) []domain.Option
	LookupOptions(ctx context.Context, collection string) []domain.Option
}

type DashboardService interface {
	GetDashboard(ctx context.Context, filter domain.StatsFilter) (*domain.Dashboard, error)
}

type ClientAccountService interface {
	GetDebt(ctx context.Context, clientID, start, end string) (domain.Debt, error)
	RegisterAdvance(ctx context.Context, advance *domain.Advance) (string, error)
	ListAdvances(ctx context.Context, clientID, start, end string) ([]domain.Advance, error)
	FirstTransactionDate(ctx context.Context, clientID string) (string, bool, error)
}

type PerformanceService interface {
	EquipmentPerformance(ctx context.Context, equipmentID, start, end string) (*domain.EquipmentPerformance, error)
}

type AttachmentService interface {
	// AttachConduce uploads the delivery note of a rental and records its
	// path and url on the rental. It returns the url.
	AttachConduce(ctx context.Context, rentalID, filename string, r io.Reader) (string, error)
	RemoveConduce(ctx context.Context, rentalID string) error
	ConduceURL(ctx context.Context, rentalID string, expiresIn time.Duration) (string, error)
}
