package repository

import (
	"context"
	"errors"
	"fmt"

	"equipos-backend/internal/docstore"
	"equipos-backend/internal/domain"
)

// Error is returned by every repository operation that fails in the store.
type Error struct {
	Op         string
	Collection string
	ID         string
	Err        error
}

func (e *Error) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s/%s: %v", e.Op, e.Collection, e.ID, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err means the target document does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, docstore.ErrNotFound)
}

type EquipmentRepository interface {
	List(ctx context.Context, filter domain.Filter) ([]domain.Equipment, error)
	GetByID(ctx context.Context, id string) (*domain.Equipment, error)
	Create(ctx context.Context, equipment *domain.Equipment) (string, error)
	Update(ctx context.Context, id string, fields domain.Fields) error
	Delete(ctx context.Context, id string) error
	Deactivate(ctx context.Context, id string) error
}

type EntityRepository interface {
	List(ctx context.Context, filter domain.Filter) ([]domain.Entity, error)
	GetByID(ctx context.Context, id string) (*domain.Entity, error)
	Create(ctx context.Context, entity *domain.Entity) (string, error)
	Update(ctx context.Context, id string, fields domain.Fields) error
	Delete(ctx context.Context, id string) error
	Deactivate(ctx context.Context, id string) error
}

type RentalRepository interface {
	List(ctx context.Context, filter domain.Filter) ([]domain.Rental, error)
	GetByID(ctx context.Context, id string) (*domain.Rental, error)
	Create(ctx context.Context, rental *domain.Rental) (string, error)
	Update(ctx context.Context, id string, fields domain.Fields) error
	Delete(ctx context.Context, id string) error
}

type ExpenseRepository interface {
	List(ctx context.Context, filter domain.Filter) ([]domain.Expense, error)
	GetByID(ctx context.Context, id string) (*domain.Expense, error)
	Create(ctx context.Context, expense *domain.Expense) (string, error)
	Update(ctx context.Context, id string, fields domain.Fields) error
	Delete(ctx context.Context, id string) error
}

type OperatorPaymentRepository interface {
	List(ctx context.Context, filter domain.Filter) ([]domain.OperatorPayment, error)
	GetByID(ctx context.Context, id string) (*domain.OperatorPayment, error)
	Create(ctx context.Context, payment *domain.OperatorPayment) (string, error)
	Update(ctx context.Context, id string, fields domain.Fields) error
	Delete(ctx context.Context, id string) error
}

type AdvanceRepository interface {
	List(ctx context.Context, filter domain.Filter) ([]domain.Advance, error)
	GetByID(ctx context.Context, id string) (*domain.Advance, error)
	// Create writes the advance and, for a rental payment, its copy under
	// the rental. Either both documents are stored or Create returns an
	// error and an empty id; the abonos document is removed best effort.
	Create(ctx context.Context, advance *domain.Advance) (string, error)
	Update(ctx context.Context, id string, fields domain.Fields) error
	Delete(ctx context.Context, id string) error

	// ListPayments reads the payments subcollection of a rental.
	ListPayments(ctx context.Context, rentalID string) ([]domain.Advance, error)
}

type MaintenanceRepository interface {
	List(ctx context.Context, filter domain.Filter) ([]domain.Maintenance, error)
	GetByID(ctx context.Context, id string) (*domain.Maintenance, error)
	Create(ctx context.Context, maintenance *domain.Maintenance) (string, error)
	Update(ctx context.Context, id string, fields domain.Fields) error
	Delete(ctx context.Context, id string) error
}

// LookupRepository serves the global accounts, categories and subcategories collections.
type LookupRepository interface {
	ListLookups(ctx context.Context, collection string) ([]domain.Lookup, error)
	GetLookup(ctx context.Context, collection, id string) (*domain.Lookup, error)
	CreateLookup(ctx context.Context, collection string, lookup *domain.Lookup) (string, error)
	UpdateLookup(ctx context.Context, collection, id string, fields domain.Fields) error
	DeleteLookup(ctx context.Context, collection, id string) error
	// FindByName matches names case-insensitively. categoryID scopes
	// subcategory lookups when not empty.
	FindByName(ctx context.Context, collection, name, categoryID string) (*domain.Lookup, error)
}

type ReportRepository interface {
	DashboardStats(ctx context.Context, filter domain.StatsFilter) (*domain.DashboardStats, error)
	// EarliestDate returns the minimum fecha of collection, optionally
	// restricted to fkField == fkValue. ok is false when nothing matches.
	EarliestDate(ctx context.Context, collection, fkField, fkValue string) (date string, ok bool, err error)
	ClientDebt(ctx context.Context, clientID, start, end string) (domain.Debt, error)
}

// BulkStats describes the batches committed by a BulkWriter.
type BulkStats struct {
	Batches []int
	Writes  int
}

// BulkWriter groups writes into batches and commits each batch as soon as it
// is full. Only one batch is ever outstanding. Flush commits the remainder.
type BulkWriter interface {
	Set(ctx context.Context, collection, id string, fields domain.Fields, merge bool) error
	Update(ctx context.Context, collection, id string, fields domain.Fields) error
	Flush(ctx context.Context) error
	Stats() BulkStats
}

// RawRepository exposes untyped records for migrations and backups.
type RawRepository interface {
	Scan(ctx context.Context, collection string, filters ...docstore.Filter) ([]domain.Record, error)
	Get(ctx context.Context, collection, id string) (*domain.Record, error)
	NewBulkWriter(size int) BulkWriter
}
