package docstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func seed(t *testing.T, m *MemoryStore) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "alquileres", "a", map[string]any{"fecha": "2025-01-10", "cliente_id": "7", "monto": 100.0, "pagado": false}, false))
	require.NoError(t, m.Set(ctx, "alquileres", "b", map[string]any{"fecha": "2025-02-10", "cliente_id": "7", "monto": 250.0, "pagado": true}, false))
	require.NoError(t, m.Set(ctx, "alquileres", "c", map[string]any{"fecha": "2025-03-10", "cliente_id": int64(7), "monto": 50.0, "pagado": false}, false))
	require.NoError(t, m.Set(ctx, "alquileres", "d", map[string]any{"cliente_id": "7", "monto": 10.0}, false))
}

func TestMemoryStore_Query(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	seed(t, m)

	t.Run("Equality is type sensitive", func(t *testing.T) {
		docs, err := m.Query(ctx, NewQuery("alquileres").Where("cliente_id", OpEqual, "7"))
		require.NoError(t, err)
		ids := docIDs(docs)
		assert.ElementsMatch(t, []string{"a", "b", "d"}, ids)
	})

	t.Run("Range filter with descending order", func(t *testing.T) {
		q := NewQuery("alquileres").
			Where("fecha", OpGreaterOrEqual, "2025-01-01").
			Where("fecha", OpLessOrEqual, "2025-02-28").
			Order("fecha", Descending)
		docs, err := m.Query(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "a"}, docIDs(docs))
	})

	t.Run("Ordering skips documents without the field", func(t *testing.T) {
		docs, err := m.Query(ctx, NewQuery("alquileres").Order("fecha", Ascending))
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, docIDs(docs))
	})

	t.Run("Bool filter and limit", func(t *testing.T) {
		docs, err := m.Query(ctx, NewQuery("alquileres").Where("pagado", OpEqual, false).Order("fecha", Descending).Take(1))
		require.NoError(t, err)
		assert.Equal(t, []string{"c"}, docIDs(docs))
	})

	t.Run("In operator", func(t *testing.T) {
		docs, err := m.Query(ctx, NewQuery("alquileres").Where("fecha", OpIn, []string{"2025-01-10", "2025-03-10"}))
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"a", "c"}, docIDs(docs))
	})

	t.Run("Numbers compare across int and float", func(t *testing.T) {
		docs, err := m.Query(ctx, NewQuery("alquileres").Where("monto", OpGreater, 60))
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"a", "b"}, docIDs(docs))
	})
}

func TestMemoryStore_Writes(t *testing.T) {
	ctx := context.Background()

	t.Run("Get missing returns ErrNotFound", func(t *testing.T) {
		m := NewMemoryStore()
		_, err := m.Get(ctx, "equipos", "nope")
		assert.True(t, IsNotFound(err))
	})

	t.Run("Returned data is a copy", func(t *testing.T) {
		m := NewMemoryStore()
		id, err := m.Add(ctx, "equipos", map[string]any{"nombre": "Retro"})
		require.NoError(t, err)
		doc, err := m.Get(ctx, "equipos", id)
		require.NoError(t, err)
		doc.Data["nombre"] = "changed"
		again, _ := m.Get(ctx, "equipos", id)
		assert.Equal(t, "Retro", again.Data["nombre"])
	})

	t.Run("Update missing document fails", func(t *testing.T) {
		m := NewMemoryStore()
		err := m.Update(ctx, "equipos", "nope", map[string]any{"activo": false})
		assert.True(t, IsNotFound(err))
	})

	t.Run("Merge set keeps other fields", func(t *testing.T) {
		m := NewMemoryStore()
		require.NoError(t, m.Set(ctx, "gastos", "1", map[string]any{"monto": 5.0, "meta": map[string]any{"a": 1}}, false))
		require.NoError(t, m.Set(ctx, "gastos", "1", map[string]any{"fecha": "2025-01-01", "meta": map[string]any{"b": 2}}, true))
		doc, err := m.Get(ctx, "gastos", "1")
		require.NoError(t, err)
		assert.Equal(t, 5.0, doc.Data["monto"])
		assert.Equal(t, "2025-01-01", doc.Data["fecha"])
		assert.Equal(t, map[string]any{"a": 1, "b": 2}, doc.Data["meta"])
	})

	t.Run("DeleteField removes fields", func(t *testing.T) {
		m := NewMemoryStore()
		require.NoError(t, m.Set(ctx, "gastos", "1", map[string]any{"fecha": "2025-01-01", "ano": 2025, "mes": 1, "monto": 5.0}, false))
		require.NoError(t, m.Update(ctx, "gastos", "1", map[string]any{"fecha": "x", "ano": DeleteField}))
		require.NoError(t, m.Set(ctx, "gastos", "1", map[string]any{"mes": DeleteField}, true))
		require.NoError(t, m.Set(ctx, "gastos", "2", map[string]any{"monto": 1.0, "ano": DeleteField}, false))

		doc, err := m.Get(ctx, "gastos", "1")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"fecha": "x", "monto": 5.0}, doc.Data)
		doc, err = m.Get(ctx, "gastos", "2")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"monto": 1.0}, doc.Data)
	})

	t.Run("Subcollection paths are independent", func(t *testing.T) {
		m := NewMemoryStore()
		require.NoError(t, m.Set(ctx, "alquileres/x/pagos", "p1", map[string]any{"monto": 1.0}, false))
		assert.Equal(t, 1, m.Count("alquileres/x/pagos"))
		assert.Equal(t, 0, m.Count("alquileres"))
	})
}

func TestMemoryStore_Batch(t *testing.T) {
	ctx := context.Background()

	t.Run("Commit records size", func(t *testing.T) {
		m := NewMemoryStore()
		b := m.NewBatch()
		b.Set("equipos", "1", map[string]any{"nombre": "A"}, false)
		b.Set("equipos", "2", map[string]any{"nombre": "B"}, false)
		assert.Equal(t, 2, b.Len())
		require.NoError(t, b.Commit(ctx))
		assert.Equal(t, []int{2}, m.Commits())
		assert.Equal(t, 2, m.Count("equipos"))
		assert.Equal(t, 2, m.Writes())
	})

	t.Run("Failed update aborts whole batch", func(t *testing.T) {
		m := NewMemoryStore()
		b := m.NewBatch()
		b.Set("equipos", "1", map[string]any{"nombre": "A"}, false)
		b.Update("equipos", "missing", map[string]any{"activo": false})
		assert.Error(t, b.Commit(ctx))
		assert.Equal(t, 0, m.Count("equipos"))
		assert.Empty(t, m.Commits())
	})

	t.Run("Fault hook", func(t *testing.T) {
		m := NewMemoryStore()
		m.Fault = func(call Call) error {
			if call.Op == "commit" {
				return ErrQuotaExceeded
			}
			return nil
		}
		b := m.NewBatch()
		b.Set("equipos", "1", map[string]any{}, false)
		assert.True(t, IsQuotaExceeded(b.Commit(ctx)))
	})
}

func TestClassify(t *testing.T) {
	t.Run("Resource exhausted", func(t *testing.T) {
		err := Classify(status.Error(codes.ResourceExhausted, "quota"))
		assert.True(t, IsQuotaExceeded(err))
		assert.Equal(t, codes.ResourceExhausted, status.Code(err))
	})

	t.Run("Failed precondition", func(t *testing.T) {
		assert.True(t, IsIndexMissing(Classify(status.Error(codes.FailedPrecondition, "index"))))
	})

	t.Run("Not found", func(t *testing.T) {
		assert.True(t, IsNotFound(Classify(status.Error(codes.NotFound, "missing"))))
	})

	t.Run("Other errors untouched", func(t *testing.T) {
		plain := errors.New("boom")
		assert.Equal(t, plain, Classify(plain))
		assert.Nil(t, Classify(nil))
	})
}

func TestCompareValues(t *testing.T) {
	now := time.Now()
	assert.Equal(t, 0, compareValues(int64(3), 3.0))
	assert.Equal(t, -1, compareValues(false, true))
	assert.Equal(t, -1, compareValues(now, now.Add(time.Second)))
	assert.Equal(t, -1, compareValues(5, "5"))
}

func docIDs(docs []Document) []string {
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids
}
