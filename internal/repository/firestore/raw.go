package firestore

import (
	"context"

	"equipos-backend/internal/docstore"
	"equipos-backend/internal/domain"
	"equipos-backend/internal/logger"
	"equipos-backend/internal/repository"
)

type rawRepository struct {
	db docstore.Store
}

func NewRawRepository(db docstore.Store) repository.RawRepository {
	return &rawRepository{db: db}
}

func (r *rawRepository) Scan(ctx context.Context, collection string, filters ...docstore.Filter) ([]domain.Record, error) {
	q := docstore.NewQuery(collection)
	for _, f := range filters {
		q = q.Where(f.Field, f.Op, f.Value)
	}
	docs, err := r.db.Query(ctx, q)
	if err != nil {
		logger.Error("Scan failed", "collection", collection, "error", err)
		return nil, &repository.Error{Op: "scan", Collection: collection, Err: err}
	}
	return toRecords(docs), nil
}

func (r *rawRepository) Get(ctx context.Context, collection, id string) (*domain.Record, error) {
	doc, err := r.db.Get(ctx, collection, id)
	if err != nil {
		if docstore.IsNotFound(err) {
			return nil, nil
		}
		return nil, &repository.Error{Op: "get", Collection: collection, ID: id, Err: err}
	}
	return &domain.Record{ID: doc.ID, Fields: doc.Data}, nil
}

// NewBulkWriter returns a writer committing every size writes. Sizes outside
// 1..MaxBatchSize are clamped to MaxBatchSize.
func (r *rawRepository) NewBulkWriter(size int) repository.BulkWriter {
	if size <= 0 || size > docstore.MaxBatchSize {
		size = docstore.MaxBatchSize
	}
	return &bulkWriter{db: r.db, size: size}
}

type bulkWriter struct {
	db    docstore.Store
	size  int
	batch docstore.Batch
	stats repository.BulkStats
}

func (w *bulkWriter) current() docstore.Batch {
	if w.batch == nil {
		w.batch = w.db.NewBatch()
	}
	return w.batch
}

func (w *bulkWriter) Set(ctx context.Context, collection, id string, fields domain.Fields, merge bool) error {
	w.current().Set(collection, id, domain.CanonicalizeForeignKeys(fields), merge)
	return w.flushIfFull(ctx)
}

func (w *bulkWriter) Update(ctx context.Context, collection, id string, fields domain.Fields) error {
	w.current().Update(collection, id, domain.CanonicalizeForeignKeys(fields))
	return w.flushIfFull(ctx)
}

func (w *bulkWriter) flushIfFull(ctx context.Context) error {
	if w.batch.Len() < w.size {
		return nil
	}
	return w.Flush(ctx)
}

// Flush commits the pending batch, if any. A failed batch is discarded;
// batches committed before it stay written.
func (w *bulkWriter) Flush(ctx context.Context) error {
	if w.batch == nil || w.batch.Len() == 0 {
		return nil
	}
	n := w.batch.Len()
	err := w.batch.Commit(ctx)
	w.batch = nil
	if err != nil {
		logger.Error("Batch commit failed", "writes", n, "committed_batches", len(w.stats.Batches), "error", err)
		return &repository.Error{Op: "commit", Collection: "batch", Err: err}
	}
	w.stats.Batches = append(w.stats.Batches, n)
	w.stats.Writes += n
	logger.Info("Batch committed", "writes", n, "batch", len(w.stats.Batches), "total", w.stats.Writes)
	return nil
}

func (w *bulkWriter) Stats() repository.BulkStats {
	return repository.BulkStats{
		Batches: append([]int(nil), w.stats.Batches...),
		Writes:  w.stats.Writes,
	}
}
