package firestore

import (
	"context"
	"fmt"

	"equipos-backend/internal/docstore"
	"equipos-backend/internal/domain"
	"equipos-backend/internal/repository"
	"equipos-backend/internal/utils"
)

type rentalRepository struct {
	base
}

func NewRentalRepository(db docstore.Store) repository.RentalRepository {
	return &rentalRepository{base: newBase(db, domain.CollectionRentals)}
}

func (r *rentalRepository) List(ctx context.Context, f domain.Filter) ([]domain.Rental, error) {
	q := dated(r.collection, f,
		eq{domain.FieldEquipmentID, f.EquipmentID},
		eq{domain.FieldClientID, f.ClientID},
		eq{domain.FieldOperatorID, f.OperatorID},
	)
	if f.Paid != nil {
		q = q.Where(domain.FieldPaid, docstore.OpEqual, *f.Paid)
	}
	records, err := r.query(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Rental, 0, len(records))
	for _, rec := range records {
		out = append(out, domain.RentalFromRecord(rec))
	}
	return out, nil
}

func (r *rentalRepository) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	rec, err := r.get(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	rental := domain.RentalFromRecord(*rec)
	return &rental, nil
}

// Create stores a rental. The amount is always recomputed from hours and
// unit price; any amount set by the caller is overwritten.
func (r *rentalRepository) Create(ctx context.Context, rental *domain.Rental) (string, error) {
	rental.Amount = utils.ComputeAmount(rental.Hours, rental.UnitPrice)
	if rental.Paid == nil {
		rental.Paid = domain.BoolPtr(false)
	}
	id, err := r.create(ctx, rental.ToFields())
	if err != nil {
		return "", err
	}
	rental.ID = id
	return id, nil
}

// Update merges fields into a rental. When the patch touches horas,
// precio_por_hora or monto, monto is recomputed, reading the factor that is
// not in the patch from the stored document.
func (r *rentalRepository) Update(ctx context.Context, id string, fields domain.Fields) error {
	patch := fields.Clone()
	if patch.Has(domain.FieldHours) || patch.Has(domain.FieldUnitPrice) || patch.Has(domain.FieldAmount) {
		hours := patch.Float(domain.FieldHours)
		price := patch.Float(domain.FieldUnitPrice)
		if !patch.Has(domain.FieldHours) || !patch.Has(domain.FieldUnitPrice) {
			current, err := r.get(ctx, id)
			if err != nil {
				return err
			}
			if current == nil {
				return r.fail("update", id, fmt.Errorf("%w: %s/%s", docstore.ErrNotFound, r.collection, id))
			}
			if !patch.Has(domain.FieldHours) {
				hours = current.Fields.Float(domain.FieldHours)
			}
			if !patch.Has(domain.FieldUnitPrice) {
				price = current.Fields.Float(domain.FieldUnitPrice)
			}
		}
		patch[domain.FieldAmount] = utils.ComputeAmount(hours, price)
	}
	return r.update(ctx, id, patch)
}

func (r *rentalRepository) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}
