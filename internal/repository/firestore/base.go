package firestore

import (
	"context"
	"time"

	"equipos-backend/internal/docstore"
	"equipos-backend/internal/domain"
	"equipos-backend/internal/logger"
	"equipos-backend/internal/repository"
	"equipos-backend/internal/utils"
)

// base holds the write-path rules shared by every collection: timestamps,
// period stamping and canonical foreign keys.
type base struct {
	db         docstore.Store
	collection string
	now        func() time.Time
}

func newBase(db docstore.Store, collection string) base {
	return base{db: db, collection: collection, now: func() time.Time { return time.Now().UTC() }}
}

func (b *base) fail(op, id string, err error) error {
	logger.Error("Repository operation failed", "operation", op, "collection", b.collection, "id", id, "error", err)
	return &repository.Error{Op: op, Collection: b.collection, ID: id, Err: err}
}

func (b *base) query(ctx context.Context, q docstore.Query) ([]domain.Record, error) {
	docs, err := b.db.Query(ctx, q)
	if err != nil {
		return nil, b.fail("list", "", err)
	}
	return toRecords(docs), nil
}

// get returns nil, nil when the document does not exist.
func (b *base) get(ctx context.Context, id string) (*domain.Record, error) {
	doc, err := b.db.Get(ctx, b.collection, id)
	if err != nil {
		if docstore.IsNotFound(err) {
			return nil, nil
		}
		return nil, b.fail("get", id, err)
	}
	return &domain.Record{ID: doc.ID, Fields: doc.Data}, nil
}

func (b *base) create(ctx context.Context, fields domain.Fields) (string, error) {
	data := prepareWrite(fields)
	now := b.now()
	data[domain.FieldCreatedAt] = now
	data[domain.FieldUpdatedAt] = now

	id, err := b.db.Add(ctx, b.collection, data)
	if err != nil {
		return "", b.fail("create", "", err)
	}
	logger.Info("Document created", "collection", b.collection, "id", id)
	return id, nil
}

// update merges fields into an existing document. A fecha that does not
// parse clears the stored period.
func (b *base) update(ctx context.Context, id string, fields domain.Fields) error {
	data := prepareWrite(fields)
	if f := domain.Fields(data); f.Has(domain.FieldDate) {
		if _, _, ok := utils.PeriodOf(f.String(domain.FieldDate)); !ok {
			data[domain.FieldYear] = docstore.DeleteField
			data[domain.FieldMonth] = docstore.DeleteField
		}
	}
	delete(data, domain.FieldCreatedAt)
	data[domain.FieldUpdatedAt] = b.now()

	if err := b.db.Update(ctx, b.collection, id, data); err != nil {
		return b.fail("update", id, err)
	}
	logger.Info("Document updated", "collection", b.collection, "id", id, "fields", len(fields))
	return nil
}

func (b *base) delete(ctx context.Context, id string) error {
	if err := b.db.Delete(ctx, b.collection, id); err != nil {
		return b.fail("delete", id, err)
	}
	logger.Info("Document deleted", "collection", b.collection, "id", id)
	return nil
}

func (b *base) deactivate(ctx context.Context, id string) error {
	return b.update(ctx, id, domain.Fields{domain.FieldActive: false})
}

// prepareWrite canonicalizes foreign keys and stamps the period when fecha is
// present. The document id is never written as a field.
func prepareWrite(fields domain.Fields) map[string]any {
	data := domain.CanonicalizeForeignKeys(fields)
	delete(data, "id")
	if data.Has(domain.FieldDate) {
		data = utils.StampPeriod(data)
	}
	return data
}

func toRecords(docs []docstore.Document) []domain.Record {
	records := make([]domain.Record, 0, len(docs))
	for _, d := range docs {
		records = append(records, domain.Record{ID: d.ID, Fields: d.Data})
	}
	return records
}

// eq is an optional equality filter; empty values are skipped.
type eq struct {
	field string
	value string
}

// dated builds the common query of a dated collection: range on fecha,
// optional equality filters, newest first.
func dated(collection string, f domain.Filter, equal ...eq) docstore.Query {
	q := docstore.NewQuery(collection)
	for _, e := range equal {
		if e.value != "" {
			q = q.Where(e.field, docstore.OpEqual, e.value)
		}
	}
	if f.Start != "" {
		q = q.Where(domain.FieldDate, docstore.OpGreaterOrEqual, f.Start)
	}
	if f.End != "" {
		q = q.Where(domain.FieldDate, docstore.OpLessOrEqual, f.End)
	}
	if f.Year > 0 {
		q = q.Where(domain.FieldYear, docstore.OpEqual, f.Year)
	}
	if f.Month > 0 {
		q = q.Where(domain.FieldMonth, docstore.OpEqual, f.Month)
	}
	q = q.Order(domain.FieldDate, docstore.Descending)
	if f.Limit > 0 {
		q = q.Take(f.Limit)
	}
	return q
}
