package docstore

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"equipos-backend/internal/logger"
)

// FirestoreStore implements Store on the Firestore SDK.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore wraps an initialized Firestore client.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	logger.StoreCall("get", collection, "id", id)
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		err = Classify(err)
		if IsNotFound(err) {
			logger.StoreResult("get", collection, 0, nil, "id", id)
			return nil, ErrNotFound
		}
		logger.StoreResult("get", collection, 0, err, "id", id)
		return nil, err
	}
	if !snap.Exists() {
		return nil, ErrNotFound
	}
	logger.StoreResult("get", collection, 1, nil, "id", id)
	return &Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (s *FirestoreStore) Query(ctx context.Context, q Query) ([]Document, error) {
	logger.StoreCall("query", q.Collection, "filters", len(q.Filters), "order_by", q.OrderBy)

	fq := s.client.Collection(q.Collection).Query
	for _, f := range q.Filters {
		fq = fq.WherePath(firestore.FieldPath{f.Field}, string(f.Op), f.Value)
	}
	if q.OrderBy != "" {
		dir := firestore.Asc
		if q.Direction == Descending {
			dir = firestore.Desc
		}
		fq = fq.OrderByPath(firestore.FieldPath{q.OrderBy}, dir)
	}
	if q.Limit > 0 {
		fq = fq.Limit(q.Limit)
	}

	iter := fq.Documents(ctx)
	defer iter.Stop()

	var docs []Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			err = Classify(err)
			logger.StoreResult("query", q.Collection, len(docs), err)
			return nil, err
		}
		docs = append(docs, Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	logger.StoreResult("query", q.Collection, len(docs), nil)
	return docs, nil
}

func (s *FirestoreStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	logger.StoreCall("add", collection)
	ref, _, err := s.client.Collection(collection).Add(ctx, data)
	if err != nil {
		err = Classify(err)
		logger.StoreResult("add", collection, 0, err)
		return "", err
	}
	logger.StoreResult("add", collection, 1, nil, "id", ref.ID)
	return ref.ID, nil
}

func (s *FirestoreStore) Set(ctx context.Context, collection, id string, data map[string]any, merge bool) error {
	logger.StoreCall("set", collection, "id", id, "merge", merge)
	var opts []firestore.SetOption
	if merge {
		opts = append(opts, firestore.MergeAll)
	}
	_, err := s.client.Collection(collection).Doc(id).Set(ctx, toFirestore(data), opts...)
	err = Classify(err)
	logger.StoreResult("set", collection, 1, err, "id", id)
	return err
}

func (s *FirestoreStore) Update(ctx context.Context, collection, id string, data map[string]any) error {
	logger.StoreCall("update", collection, "id", id, "fields", len(data))
	_, err := s.client.Collection(collection).Doc(id).Update(ctx, toUpdates(data))
	err = Classify(err)
	logger.StoreResult("update", collection, 1, err, "id", id)
	return err
}

func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	logger.StoreCall("delete", collection, "id", id)
	_, err := s.client.Collection(collection).Doc(id).Delete(ctx)
	err = Classify(err)
	logger.StoreResult("delete", collection, 1, err, "id", id)
	return err
}

func (s *FirestoreStore) NewBatch() Batch {
	return &firestoreBatch{client: s.client, wb: s.client.Batch()}
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

type firestoreBatch struct {
	client *firestore.Client
	wb     *firestore.WriteBatch
	n      int
}

func (b *firestoreBatch) Set(collection, id string, data map[string]any, merge bool) {
	var opts []firestore.SetOption
	if merge {
		opts = append(opts, firestore.MergeAll)
	}
	b.wb.Set(b.client.Collection(collection).Doc(id), toFirestore(data), opts...)
	b.n++
}

func (b *firestoreBatch) Update(collection, id string, data map[string]any) {
	b.wb.Update(b.client.Collection(collection).Doc(id), toUpdates(data))
	b.n++
}

func (b *firestoreBatch) Delete(collection, id string) {
	b.wb.Delete(b.client.Collection(collection).Doc(id))
	b.n++
}

func (b *firestoreBatch) Len() int {
	return b.n
}

func (b *firestoreBatch) Commit(ctx context.Context) error {
	logger.StoreCall("commit", "batch", "writes", b.n)
	_, err := b.wb.Commit(ctx)
	err = Classify(err)
	logger.StoreResult("commit", "batch", b.n, err)
	return err
}

// toUpdates turns a field map into top-level field updates. Keys are used as
// single path segments so names containing dots are not split.
func toUpdates(data map[string]any) []firestore.Update {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	updates := make([]firestore.Update, 0, len(keys))
	for _, k := range keys {
		updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: fieldValue(data[k])})
	}
	return updates
}

// toFirestore swaps DeleteField for the SDK sentinel. Maps without it are
// returned as is.
func toFirestore(data map[string]any) map[string]any {
	var out map[string]any
	for k, v := range data {
		if v != DeleteField {
			continue
		}
		if out == nil {
			out = make(map[string]any, len(data))
			for k2, v2 := range data {
				out[k2] = v2
			}
		}
		out[k] = firestore.Delete
	}
	if out == nil {
		return data
	}
	return out
}

func fieldValue(v any) any {
	if v == DeleteField {
		return firestore.Delete
	}
	return v
}
