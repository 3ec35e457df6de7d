package docstore

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Call describes a store operation seen by a MemoryStore fault hook.
type Call struct {
	Op         string // get, query, add, set, update, delete, commit
	Collection string
	Query      *Query
}

// MemoryStore is an in-process Store with Firestore query semantics:
// filters never match documents missing the field, comparisons are
// type-sensitive, and ordered queries skip documents without the order field.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]map[string]map[string]any
	commits     []int
	writes      int

	// Fault, when set, is consulted before every operation; a non-nil
	// return value is returned to the caller instead of running it.
	Fault func(call Call) error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]map[string]any)}
}

func (m *MemoryStore) fault(call Call) error {
	if m.Fault == nil {
		return nil
	}
	return m.Fault(call)
}

func (m *MemoryStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	if err := m.fault(Call{Op: "get", Collection: collection}); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return &Document{ID: id, Data: copyMap(data)}, nil
}

func (m *MemoryStore) Query(ctx context.Context, q Query) ([]Document, error) {
	if err := m.fault(Call{Op: "query", Collection: q.Collection, Query: &q}); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var docs []Document
	for id, data := range m.collections[q.Collection] {
		if !matchesAll(data, q.Filters) {
			continue
		}
		if q.OrderBy != "" {
			if _, ok := data[q.OrderBy]; !ok {
				continue
			}
		}
		docs = append(docs, Document{ID: id, Data: copyMap(data)})
	}

	sort.SliceStable(docs, func(i, j int) bool {
		if q.OrderBy != "" {
			c := compareValues(docs[i].Data[q.OrderBy], docs[j].Data[q.OrderBy])
			if c != 0 {
				if q.Direction == Descending {
					return c > 0
				}
				return c < 0
			}
		}
		return docs[i].ID < docs[j].ID
	})

	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	return docs, nil
}

func (m *MemoryStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	if err := m.fault(Call{Op: "add", Collection: collection}); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	m.put(collection, id, data, false)
	m.writes++
	return id, nil
}

func (m *MemoryStore) Set(ctx context.Context, collection, id string, data map[string]any, merge bool) error {
	if err := m.fault(Call{Op: "set", Collection: collection}); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.put(collection, id, data, merge)
	m.writes++
	return nil
}

func (m *MemoryStore) Update(ctx context.Context, collection, id string, data map[string]any) error {
	if err := m.fault(Call{Op: "update", Collection: collection}); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.update(collection, id, data); err != nil {
		return err
	}
	m.writes++
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	if err := m.fault(Call{Op: "delete", Collection: collection}); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.collections[collection], id)
	m.writes++
	return nil
}

func (m *MemoryStore) NewBatch() Batch {
	return &memoryBatch{store: m}
}

func (m *MemoryStore) Close() error {
	return nil
}

// Count returns the number of documents in collection.
func (m *MemoryStore) Count(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.collections[collection])
}

// Commits returns the size of every committed batch, in order.
func (m *MemoryStore) Commits() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.commits...)
}

// Writes returns the number of documents written, including batched writes.
func (m *MemoryStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Collections lists every collection path holding at least one document.
func (m *MemoryStore) Collections() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var names []string
	for name, docs := range m.collections {
		if len(docs) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (m *MemoryStore) put(collection, id string, data map[string]any, merge bool) {
	docs, ok := m.collections[collection]
	if !ok {
		docs = make(map[string]map[string]any)
		m.collections[collection] = docs
	}
	existing, ok := docs[id]
	if !merge || !ok {
		docs[id] = copyMap(data)
		for k, v := range docs[id] {
			if v == DeleteField {
				delete(docs[id], k)
			}
		}
		return
	}
	mergeInto(existing, data)
}

func (m *MemoryStore) update(collection, id string, data map[string]any) error {
	existing, ok := m.collections[collection][id]
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	for k, v := range data {
		if v == DeleteField {
			delete(existing, k)
			continue
		}
		existing[k] = copyValue(v)
	}
	return nil
}

type memoryOp struct {
	kind       string
	collection string
	id         string
	data       map[string]any
	merge      bool
}

type memoryBatch struct {
	store *MemoryStore
	ops   []memoryOp
}

func (b *memoryBatch) Set(collection, id string, data map[string]any, merge bool) {
	b.ops = append(b.ops, memoryOp{kind: "set", collection: collection, id: id, data: copyMap(data), merge: merge})
}

func (b *memoryBatch) Update(collection, id string, data map[string]any) {
	b.ops = append(b.ops, memoryOp{kind: "update", collection: collection, id: id, data: copyMap(data)})
}

func (b *memoryBatch) Delete(collection, id string) {
	b.ops = append(b.ops, memoryOp{kind: "delete", collection: collection, id: id})
}

func (b *memoryBatch) Len() int {
	return len(b.ops)
}

// Commit applies every write or none of them.
func (b *memoryBatch) Commit(ctx context.Context) error {
	collection := ""
	if len(b.ops) > 0 {
		collection = b.ops[0].collection
	}
	if err := b.store.fault(Call{Op: "commit", Collection: collection}); err != nil {
		return err
	}
	if len(b.ops) > MaxBatchSize {
		return fmt.Errorf("batch of %d writes exceeds limit of %d", len(b.ops), MaxBatchSize)
	}

	m := b.store
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, op := range b.ops {
		if op.kind != "update" {
			continue
		}
		if _, ok := m.collections[op.collection][op.id]; !ok {
			return fmt.Errorf("%w: %s/%s", ErrNotFound, op.collection, op.id)
		}
	}
	for _, op := range b.ops {
		switch op.kind {
		case "set":
			m.put(op.collection, op.id, op.data, op.merge)
		case "update":
			_ = m.update(op.collection, op.id, op.data)
		case "delete":
			delete(m.collections[op.collection], op.id)
		}
	}
	m.commits = append(m.commits, len(b.ops))
	m.writes += len(b.ops)
	b.ops = nil
	return nil
}

func matchesAll(data map[string]any, filters []Filter) bool {
	for _, f := range filters {
		v, ok := data[f.Field]
		if !ok || !matches(v, f.Op, f.Value) {
			return false
		}
	}
	return true
}

func matches(v any, op Operator, want any) bool {
	if op == OpIn {
		rv := reflect.ValueOf(want)
		if rv.Kind() != reflect.Slice {
			return false
		}
		for i := 0; i < rv.Len(); i++ {
			if sameType(v, rv.Index(i).Interface()) && compareValues(v, rv.Index(i).Interface()) == 0 {
				return true
			}
		}
		return false
	}

	if !sameType(v, want) {
		return op == OpNotEqual
	}
	c := compareValues(v, want)
	switch op {
	case OpEqual:
		return c == 0
	case OpNotEqual:
		return c != 0
	case OpLess:
		return c < 0
	case OpLessOrEqual:
		return c <= 0
	case OpGreater:
		return c > 0
	case OpGreaterOrEqual:
		return c >= 0
	}
	return false
}

// typeRank follows Firestore's cross-type ordering.
func typeRank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return 2
	case time.Time:
		return 3
	case string:
		return 4
	case []any:
		return 6
	case map[string]any:
		return 7
	}
	return 8
}

func sameType(a, b any) bool {
	return typeRank(a) == typeRank(b)
}

func compareValues(a, b any) int {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch av := a.(type) {
	case bool:
		bv := b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		}
		return 1
	case string:
		return strings.Compare(av, b.(string))
	case time.Time:
		return av.Compare(b.(time.Time))
	}
	if ra == 2 {
		af, bf := toFloat(a), toFloat(b)
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}
	if reflect.DeepEqual(a, b) {
		return 0
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v any) float64 {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	}
	return 0
}

func copyMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	}
	return v
}

// mergeInto merges src into dst, descending into nested maps.
func mergeInto(dst, src map[string]any) {
	for k, v := range src {
		if v == DeleteField {
			delete(dst, k)
			continue
		}
		if sub, ok := v.(map[string]any); ok {
			if existing, ok := dst[k].(map[string]any); ok {
				mergeInto(existing, sub)
				continue
			}
		}
		dst[k] = copyValue(v)
	}
}
