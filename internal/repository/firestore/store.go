// Package firestore implements the repositories on a docstore.Store, which is
// Firestore in production and the in-memory store in tests.
package firestore

import (
	"equipos-backend/internal/docstore"
	"equipos-backend/internal/repository"
)

type Store struct {
	db docstore.Store
	repository.EquipmentRepository
	repository.EntityRepository
	repository.RentalRepository
	repository.ExpenseRepository
	repository.OperatorPaymentRepository
	repository.AdvanceRepository
	repository.MaintenanceRepository
	repository.LookupRepository
	repository.ReportRepository
	repository.RawRepository
}

func NewStore(db docstore.Store) *Store {
	return &Store{
		db:                        db,
		EquipmentRepository:       NewEquipmentRepository(db),
		EntityRepository:          NewEntityRepository(db),
		RentalRepository:          NewRentalRepository(db),
		ExpenseRepository:         NewExpenseRepository(db),
		OperatorPaymentRepository: NewOperatorPaymentRepository(db),
		AdvanceRepository:         NewAdvanceRepository(db),
		MaintenanceRepository:     NewMaintenanceRepository(db),
		LookupRepository:          NewLookupRepository(db),
		ReportRepository:          NewReportRepository(db),
		RawRepository:             NewRawRepository(db),
	}
}

// Close releases the underlying store client.
func (s *Store) Close() error {
	return s.db.Close()
}
