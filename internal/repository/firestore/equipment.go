package firestore

import (
	"context"

	"equipos-backend/internal/docstore"
	"equipos-backend/internal/domain"
	"equipos-backend/internal/repository"
)

type equipmentRepository struct {
	base
}

func NewEquipmentRepository(db docstore.Store) repository.EquipmentRepository {
	return &equipmentRepository{base: newBase(db, domain.CollectionEquipment)}
}

func (r *equipmentRepository) List(ctx context.Context, f domain.Filter) ([]domain.Equipment, error) {
	q := docstore.NewQuery(r.collection)
	if f.Active != nil {
		q = q.Where(domain.FieldActive, docstore.OpEqual, *f.Active)
	}
	q = q.Order(domain.FieldName, docstore.Ascending)

	records, err := r.query(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Equipment, 0, len(records))
	for _, rec := range records {
		out = append(out, domain.EquipmentFromRecord(rec))
	}
	return out, nil
}

func (r *equipmentRepository) GetByID(ctx context.Context, id string) (*domain.Equipment, error) {
	rec, err := r.get(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	e := domain.EquipmentFromRecord(*rec)
	return &e, nil
}

func (r *equipmentRepository) Create(ctx context.Context, e *domain.Equipment) (string, error) {
	if e.Active == nil {
		e.Active = domain.BoolPtr(true)
	}
	id, err := r.create(ctx, e.ToFields())
	if err != nil {
		return "", err
	}
	e.ID = id
	return id, nil
}

func (r *equipmentRepository) Update(ctx context.Context, id string, fields domain.Fields) error {
	return r.update(ctx, id, fields)
}

func (r *equipmentRepository) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}

func (r *equipmentRepository) Deactivate(ctx context.Context, id string) error {
	return r.deactivate(ctx, id)
}

type entityRepository struct {
	base
}

func NewEntityRepository(db docstore.Store) repository.EntityRepository {
	return &entityRepository{base: newBase(db, domain.CollectionEntities)}
}

func (r *entityRepository) List(ctx context.Context, f domain.Filter) ([]domain.Entity, error) {
	q := docstore.NewQuery(r.collection)
	if f.Type != "" {
		q = q.Where(domain.FieldType, docstore.OpEqual, string(f.Type))
	}
	if f.Active != nil {
		q = q.Where(domain.FieldActive, docstore.OpEqual, *f.Active)
	}
	q = q.Order(domain.FieldName, docstore.Ascending)

	records, err := r.query(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Entity, 0, len(records))
	for _, rec := range records {
		out = append(out, domain.EntityFromRecord(rec))
	}
	return out, nil
}

func (r *entityRepository) GetByID(ctx context.Context, id string) (*domain.Entity, error) {
	rec, err := r.get(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	e := domain.EntityFromRecord(*rec)
	return &e, nil
}

func (r *entityRepository) Create(ctx context.Context, e *domain.Entity) (string, error) {
	if e.Active == nil {
		e.Active = domain.BoolPtr(true)
	}
	id, err := r.create(ctx, e.ToFields())
	if err != nil {
		return "", err
	}
	e.ID = id
	return id, nil
}

func (r *entityRepository) Update(ctx context.Context, id string, fields domain.Fields) error {
	return r.update(ctx, id, fields)
}

func (r *entityRepository) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}

func (r *entityRepository) Deactivate(ctx context.Context, id string) error {
	return r.deactivate(ctx, id)
}
