// Package docstore wraps the managed document database behind a narrow
// interface so repositories can run against Firestore or an in-memory store.
package docstore

import (
	"context"
)

// Operator is a query comparison operator.
type Operator string

const (
	OpEqual          Operator = "=="
	OpNotEqual       Operator = "!="
	OpLess           Operator = "<"
	OpLessOrEqual    Operator = "<="
	OpGreater        Operator = ">"
	OpGreaterOrEqual Operator = ">="
	OpIn             Operator = "in"
)

// Direction is the sort direction of an ordered query.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Filter is a single field predicate.
type Filter struct {
	Field string
	Op    Operator
	Value any
}

// Query describes a filtered, ordered read of one collection.
type Query struct {
	Collection string
	Filters    []Filter
	OrderBy    string
	Direction  Direction
	Limit      int
}

// NewQuery starts a query over collection.
func NewQuery(collection string) Query {
	return Query{Collection: collection}
}

// Where returns a copy of q with an additional filter.
func (q Query) Where(field string, op Operator, value any) Query {
	filters := make([]Filter, len(q.Filters), len(q.Filters)+1)
	copy(filters, q.Filters)
	q.Filters = append(filters, Filter{Field: field, Op: op, Value: value})
	return q
}

// Order returns a copy of q ordered by field.
func (q Query) Order(field string, dir Direction) Query {
	q.OrderBy = field
	q.Direction = dir
	return q
}

// Take returns a copy of q limited to n documents.
func (q Query) Take(n int) Query {
	q.Limit = n
	return q
}

// DeleteField, used as a value in Update or a merging Set, removes the
// field from the stored document.
var DeleteField any = deleteField{}

type deleteField struct{}

// Document is a stored document with its id.
type Document struct {
	ID   string
	Data map[string]any
}

// Store is the document database client. Collection arguments are slash
// separated paths, so "alquileres/abc/pagos" addresses a subcollection.
type Store interface {
	// Get returns ErrNotFound when the document does not exist.
	Get(ctx context.Context, collection, id string) (*Document, error)
	Query(ctx context.Context, q Query) ([]Document, error)
	// Add stores data under a generated id and returns it.
	Add(ctx context.Context, collection string, data map[string]any) (string, error)
	// Set replaces the document, or merges into it when merge is true.
	Set(ctx context.Context, collection, id string, data map[string]any, merge bool) error
	// Update merges data into an existing document; ErrNotFound if missing.
	Update(ctx context.Context, collection, id string, data map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	NewBatch() Batch
	Close() error
}

// Batch groups writes committed as a unit.
type Batch interface {
	Set(collection, id string, data map[string]any, merge bool)
	Update(collection, id string, data map[string]any)
	Delete(collection, id string)
	Len() int
	Commit(ctx context.Context) error
}

// MaxBatchSize is the largest number of writes the store accepts per commit.
const MaxBatchSize = 500
