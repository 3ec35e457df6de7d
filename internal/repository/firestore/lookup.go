package firestore

import (
	"context"
	"fmt"
	"strings"

	"equipos-backend/internal/docstore"
	"equipos-backend/internal/domain"
	"equipos-backend/internal/repository"
)

type lookupRepository struct {
	db docstore.Store
}

func NewLookupRepository(db docstore.Store) repository.LookupRepository {
	return &lookupRepository{db: db}
}

func (r *lookupRepository) forCollection(collection string) (*base, error) {
	for _, c := range domain.LookupCollections {
		if c == collection {
			b := newBase(r.db, collection)
			return &b, nil
		}
	}
	return nil, fmt.Errorf("%q is not a lookup collection", collection)
}

func (r *lookupRepository) ListLookups(ctx context.Context, collection string) ([]domain.Lookup, error) {
	b, err := r.forCollection(collection)
	if err != nil {
		return nil, err
	}
	records, err := b.query(ctx, docstore.NewQuery(collection).Order(domain.FieldName, docstore.Ascending))
	if err != nil {
		return nil, err
	}
	out := make([]domain.Lookup, 0, len(records))
	for _, rec := range records {
		out = append(out, domain.LookupFromRecord(rec))
	}
	return out, nil
}

func (r *lookupRepository) GetLookup(ctx context.Context, collection, id string) (*domain.Lookup, error) {
	b, err := r.forCollection(collection)
	if err != nil {
		return nil, err
	}
	rec, err := b.get(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	l := domain.LookupFromRecord(*rec)
	return &l, nil
}

func (r *lookupRepository) CreateLookup(ctx context.Context, collection string, l *domain.Lookup) (string, error) {
	b, err := r.forCollection(collection)
	if err != nil {
		return "", err
	}
	id, err := b.create(ctx, l.ToFields())
	if err != nil {
		return "", err
	}
	l.ID = id
	return id, nil
}

func (r *lookupRepository) UpdateLookup(ctx context.Context, collection, id string, fields domain.Fields) error {
	b, err := r.forCollection(collection)
	if err != nil {
		return err
	}
	return b.update(ctx, id, fields)
}

func (r *lookupRepository) DeleteLookup(ctx context.Context, collection, id string) error {
	b, err := r.forCollection(collection)
	if err != nil {
		return err
	}
	return b.delete(ctx, id)
}

func (r *lookupRepository) FindByName(ctx context.Context, collection, name, categoryID string) (*domain.Lookup, error) {
	all, err := r.ListLookups(ctx, collection)
	if err != nil {
		return nil, err
	}
	want := strings.ToLower(strings.TrimSpace(name))
	for i := range all {
		if categoryID != "" && all[i].CategoryID != categoryID {
			continue
		}
		if strings.ToLower(strings.TrimSpace(all[i].Name)) == want {
			return &all[i], nil
		}
	}
	return nil, nil
}
