package firestore

import (
	"context"

	"equipos-backend/internal/docstore"
	"equipos-backend/internal/domain"
	"equipos-backend/internal/repository"
)

type expenseRepository struct {
	base
}

func NewExpenseRepository(db docstore.Store) repository.ExpenseRepository {
	return &expenseRepository{base: newBase(db, domain.CollectionExpenses)}
}

func (r *expenseRepository) List(ctx context.Context, f domain.Filter) ([]domain.Expense, error) {
	q := dated(r.collection, f,
		eq{domain.FieldEquipmentID, f.EquipmentID},
		eq{domain.FieldAccountID, f.AccountID},
		eq{domain.FieldCategoryID, f.CategoryID},
		eq{domain.FieldSubcategoryID, f.SubcategoryID},
	)
	records, err := r.query(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Expense, 0, len(records))
	for _, rec := range records {
		out = append(out, domain.ExpenseFromRecord(rec))
	}
	return out, nil
}

func (r *expenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	rec, err := r.get(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	e := domain.ExpenseFromRecord(*rec)
	return &e, nil
}

func (r *expenseRepository) Create(ctx context.Context, e *domain.Expense) (string, error) {
	id, err := r.create(ctx, e.ToFields())
	if err != nil {
		return "", err
	}
	e.ID = id
	return id, nil
}

func (r *expenseRepository) Update(ctx context.Context, id string, fields domain.Fields) error {
	return r.update(ctx, id, fields)
}

func (r *expenseRepository) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}

type operatorPaymentRepository struct {
	base
}

func NewOperatorPaymentRepository(db docstore.Store) repository.OperatorPaymentRepository {
	return &operatorPaymentRepository{base: newBase(db, domain.CollectionOperatorPayments)}
}

func (r *operatorPaymentRepository) List(ctx context.Context, f domain.Filter) ([]domain.OperatorPayment, error) {
	q := dated(r.collection, f,
		eq{domain.FieldOperatorID, f.OperatorID},
		eq{domain.FieldEquipmentID, f.EquipmentID},
		eq{domain.FieldAccountID, f.AccountID},
	)
	records, err := r.query(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]domain.OperatorPayment, 0, len(records))
	for _, rec := range records {
		out = append(out, domain.OperatorPaymentFromRecord(rec))
	}
	return out, nil
}

func (r *operatorPaymentRepository) GetByID(ctx context.Context, id string) (*domain.OperatorPayment, error) {
	rec, err := r.get(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	p := domain.OperatorPaymentFromRecord(*rec)
	return &p, nil
}

func (r *operatorPaymentRepository) Create(ctx context.Context, p *domain.OperatorPayment) (string, error) {
	id, err := r.create(ctx, p.ToFields())
	if err != nil {
		return "", err
	}
	p.ID = id
	return id, nil
}

func (r *operatorPaymentRepository) Update(ctx context.Context, id string, fields domain.Fields) error {
	return r.update(ctx, id, fields)
}

func (r *operatorPaymentRepository) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}

type maintenanceRepository struct {
	base
}

func NewMaintenanceRepository(db docstore.Store) repository.MaintenanceRepository {
	return &maintenanceRepository{base: newBase(db, domain.CollectionMaintenance)}
}

func (r *maintenanceRepository) List(ctx context.Context, f domain.Filter) ([]domain.Maintenance, error) {
	records, err := r.query(ctx, dated(r.collection, f, eq{domain.FieldEquipmentID, f.EquipmentID}))
	if err != nil {
		return nil, err
	}
	out := make([]domain.Maintenance, 0, len(records))
	for _, rec := range records {
		out = append(out, domain.MaintenanceFromRecord(rec))
	}
	return out, nil
}

func (r *maintenanceRepository) GetByID(ctx context.Context, id string) (*domain.Maintenance, error) {
	rec, err := r.get(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	m := domain.MaintenanceFromRecord(*rec)
	return &m, nil
}

func (r *maintenanceRepository) Create(ctx context.Context, m *domain.Maintenance) (string, error) {
	id, err := r.create(ctx, m.ToFields())
	if err != nil {
		return "", err
	}
	m.ID = id
	return id, nil
}

func (r *maintenanceRepository) Update(ctx context.Context, id string, fields domain.Fields) error {
	return r.update(ctx, id, fields)
}

func (r *maintenanceRepository) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}
