package firestore

import (
	"context"
	"sort"

	"equipos-backend/internal/docstore"
	"equipos-backend/internal/domain"
	"equipos-backend/internal/logger"
	"equipos-backend/internal/repository"
)

type advanceRepository struct {
	base
}

func NewAdvanceRepository(db docstore.Store) repository.AdvanceRepository {
	return &advanceRepository{base: newBase(db, domain.CollectionAdvances)}
}

func (r *advanceRepository) List(ctx context.Context, f domain.Filter) ([]domain.Advance, error) {
	q := dated(r.collection, f,
		eq{domain.FieldClientID, f.ClientID},
		eq{domain.FieldTransactionID, f.TransactionID},
		eq{domain.FieldAccountID, f.AccountID},
	)
	records, err := r.query(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Advance, 0, len(records))
	for _, rec := range records {
		out = append(out, domain.AdvanceFromRecord(rec))
	}
	return out, nil
}

func (r *advanceRepository) GetByID(ctx context.Context, id string) (*domain.Advance, error) {
	rec, err := r.get(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	a := domain.AdvanceFromRecord(*rec)
	return &a, nil
}

// Create stores the advance in abonos and, when it is linked to a rental,
// mirrors it into the rental's payments subcollection under the same id.
// A failed mirror removes the abonos document again.
func (r *advanceRepository) Create(ctx context.Context, a *domain.Advance) (string, error) {
	id, err := r.create(ctx, a.ToFields())
	if err != nil {
		return "", err
	}
	if a.TransactionID != "" {
		if err := r.mirror(ctx, a.TransactionID, id); err != nil {
			if derr := r.delete(ctx, id); derr != nil {
				logger.Error("Advance left without its rental payment", "id", id, "transaccion_id", a.TransactionID, "error", derr)
			}
			return "", err
		}
	}
	a.ID = id
	return id, nil
}

func (r *advanceRepository) Update(ctx context.Context, id string, fields domain.Fields) error {
	if err := r.update(ctx, id, fields); err != nil {
		return err
	}
	current, err := r.get(ctx, id)
	if err != nil || current == nil {
		return err
	}
	if txn := current.Fields.String(domain.FieldTransactionID); txn != "" {
		return r.mirror(ctx, txn, id)
	}
	return nil
}

func (r *advanceRepository) Delete(ctx context.Context, id string) error {
	current, err := r.get(ctx, id)
	if err != nil {
		return err
	}
	if err := r.delete(ctx, id); err != nil {
		return err
	}
	if current == nil {
		return nil
	}
	if txn := current.Fields.String(domain.FieldTransactionID); txn != "" {
		if err := r.db.Delete(ctx, domain.RentalPaymentsPath(txn), id); err != nil {
			return r.fail("delete-payment", id, err)
		}
	}
	return nil
}

// mirror copies the stored advance into alquileres/{txn}/pagos/{id}.
func (r *advanceRepository) mirror(ctx context.Context, txn, id string) error {
	doc, err := r.db.Get(ctx, r.collection, id)
	if err != nil {
		return r.fail("mirror-payment", id, err)
	}
	if err := r.db.Set(ctx, domain.RentalPaymentsPath(txn), id, doc.Data, false); err != nil {
		return r.fail("mirror-payment", id, err)
	}
	return nil
}

// ListPayments returns the payments stored under a rental, newest first.
// Payments without fecha are kept and sorted last.
func (r *advanceRepository) ListPayments(ctx context.Context, rentalID string) ([]domain.Advance, error) {
	path := domain.RentalPaymentsPath(rentalID)
	docs, err := r.db.Query(ctx, docstore.NewQuery(path))
	if err != nil {
		return nil, r.fail("list-payments", rentalID, err)
	}
	out := make([]domain.Advance, 0, len(docs))
	for _, rec := range toRecords(docs) {
		a := domain.AdvanceFromRecord(rec)
		if a.TransactionID == "" {
			a.TransactionID = rentalID
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
