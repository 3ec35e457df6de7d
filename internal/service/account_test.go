package service_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equipos-backend/internal/docstore"
	"equipos-backend/internal/domain"
	"equipos-backend/internal/repository/firestore"
	"equipos-backend/internal/service"
	"equipos-backend/internal/storage"
)

func seededStore(t *testing.T) (*firestore.Store, *docstore.MemoryStore) {
	t.Helper()
	ctx := context.Background()
	mem := docstore.NewMemoryStore()
	seed := map[string]map[string]map[string]any{
		domain.CollectionEntities: {
			"7": {"nombre": "Acme", "tipo": "Cliente", "activo": true},
			"9": {"nombre": "Juan", "tipo": "Operador", "activo": true},
		},
		domain.CollectionEquipment: {
			"1": {"nombre": "Retro", "activo": true},
		},
		domain.CollectionRentals: {
			"T1": {"fecha": "2025-01-10", "cliente_id": "7", "equipo_id": "1", "horas": 10.0, "precio_por_hora": 100.0, "monto": 1000.0, "descripcion": "Nivelacion", "conduce": "C-15"},
			"T2": {"fecha": "2025-03-02", "cliente_id": "7", "equipo_id": "1", "horas": 2.0, "precio_por_hora": 50.0, "monto": 100.0},
		},
		domain.CollectionExpenses: {
			"g1": {"fecha": "2025-01-12", "equipo_id": "1", "monto": 150.0},
			"g2": {"fecha": "2025-01-12", "monto": 999.0},
		},
		domain.CollectionOperatorPayments: {
			"p1": {"fecha": "2025-01-11", "equipo_id": "1", "operador_id": "9", "horas": 10.0, "monto": 200.0},
		},
		domain.CollectionMaintenance: {
			"m1": {"fecha": "2025-02-01", "equipo_id": "1", "costo": 75.5},
		},
	}
	for collection, docs := range seed {
		for id, data := range docs {
			require.NoError(t, mem.Set(ctx, collection, id, data, false))
		}
	}
	return firestore.NewStore(mem), mem
}

func newAccountService(s *firestore.Store) service.ClientAccountService {
	return service.NewClientAccountService(s.ReportRepository, s.AdvanceRepository, s.EntityRepository, s.RentalRepository)
}

func TestClientAccountService_RegisterAdvance(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		s, mem := seededStore(t)
		svc := newAccountService(s)

		advance := &domain.Advance{Date: "2025-01-20", ClientID: "7", TransactionID: "T1", Amount: 400}
		id, err := svc.RegisterAdvance(ctx, advance)
		require.NoError(t, err)
		assert.NotEmpty(t, id)

		doc, err := mem.Get(ctx, domain.CollectionAdvances, id)
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultConcept, doc.Data[domain.FieldConcept])
		assert.Equal(t, domain.PaymentMethodCash, doc.Data[domain.FieldMethod])
		assert.Equal(t, "Nivelacion", doc.Data["transaccion_descripcion"])
		assert.Equal(t, 1, mem.Count(domain.RentalPaymentsPath("T1")))

		debt, err := svc.GetDebt(ctx, "7", "2025-01-01", "2025-01-31")
		require.NoError(t, err)
		assert.Equal(t, domain.Debt{Invoiced: 1000, Paid: 400, Balance: 600}, debt)
	})

	t.Run("Validation", func(t *testing.T) {
		s, mem := seededStore(t)
		svc := newAccountService(s)

		cases := []*domain.Advance{
			{Date: "2025-01-20", Amount: 10},
			{Date: "2025-01-20", ClientID: "7", Amount: 0},
			{Date: "20/01/2025", ClientID: "7", Amount: 10},
			{Date: "2025-01-20", ClientID: "7", Amount: 10, PaymentMethod: "Bitcoin"},
			{Date: "2025-01-20", ClientID: "9", Amount: 10},
			{Date: "2025-01-20", ClientID: "404", Amount: 10},
			{Date: "2025-01-20", ClientID: "7", Amount: 10, TransactionID: "nope"},
		}
		for _, a := range cases {
			_, err := svc.RegisterAdvance(ctx, a)
			assert.ErrorIs(t, err, service.ErrInvalidInput)
		}
		assert.Equal(t, 0, mem.Count(domain.CollectionAdvances))
	})
}

func TestClientAccountService_Queries(t *testing.T) {
	ctx := context.Background()
	s, _ := seededStore(t)
	svc := newAccountService(s)

	t.Run("Empty debt", func(t *testing.T) {
		debt, err := svc.GetDebt(ctx, "7", "2024-01-01", "2024-12-31")
		require.NoError(t, err)
		assert.Equal(t, domain.Debt{}, debt)
	})

	t.Run("Client is required", func(t *testing.T) {
		_, err := svc.GetDebt(ctx, "", "", "")
		assert.ErrorIs(t, err, service.ErrInvalidInput)
		_, err = svc.ListAdvances(ctx, "", "", "")
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("First transaction", func(t *testing.T) {
		date, ok, err := svc.FirstTransactionDate(ctx, "7")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "2025-01-10", date)

		_, ok, err = svc.FirstTransactionDate(ctx, "404")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("List advances", func(t *testing.T) {
		_, err := svc.RegisterAdvance(ctx, &domain.Advance{Date: "2025-02-01", ClientID: "7", Amount: 50, PaymentMethod: domain.PaymentMethodTransfer})
		require.NoError(t, err)
		advances, err := svc.ListAdvances(ctx, "7", "", "")
		require.NoError(t, err)
		require.Len(t, advances, 1)
		assert.Equal(t, 50.0, advances[0].Amount)
	})
}

func TestPerformanceService_EquipmentPerformance(t *testing.T) {
	ctx := context.Background()
	s, _ := seededStore(t)
	svc := service.NewPerformanceService(s.EquipmentRepository, s.RentalRepository, s.ExpenseRepository,
		s.OperatorPaymentRepository, s.MaintenanceRepository)

	t.Run("Success", func(t *testing.T) {
		perf, err := svc.EquipmentPerformance(ctx, "1", "", "")
		require.NoError(t, err)
		assert.Equal(t, "Retro", perf.Name)
		assert.Equal(t, 2, perf.Rentals)
		assert.Equal(t, 12.0, perf.Hours)
		assert.Equal(t, 1100.0, perf.Income)
		assert.Equal(t, 150.0, perf.Expenses)
		assert.Equal(t, 200.0, perf.OperatorPayments)
		assert.Equal(t, 10.0, perf.OperatorHours)
		assert.Equal(t, 75.5, perf.Maintenance)
		assert.Equal(t, 674.5, perf.Net)
		assert.Equal(t, 61.32, perf.Margin)
	})

	t.Run("Range", func(t *testing.T) {
		perf, err := svc.EquipmentPerformance(ctx, "1", "2025-03-01", "2025-03-31")
		require.NoError(t, err)
		assert.Equal(t, 1, perf.Rentals)
		assert.Equal(t, 100.0, perf.Net)
	})

	t.Run("Unknown equipment", func(t *testing.T) {
		_, err := svc.EquipmentPerformance(ctx, "404", "", "")
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestAttachmentService(t *testing.T) {
	ctx := context.Background()
	s, mem := seededStore(t)
	files, err := storage.NewLocalStore("http://localhost:8080", t.TempDir())
	require.NoError(t, err)
	svc := service.NewAttachmentService(s.RentalRepository, files)

	t.Run("Success", func(t *testing.T) {
		url, err := svc.AttachConduce(ctx, "T1", "scan.PDF", strings.NewReader("pdf-bytes"))
		require.NoError(t, err)
		assert.Contains(t, url, "http://localhost:8080/api/v1/files/")

		doc, _ := mem.Get(ctx, domain.CollectionRentals, "T1")
		assert.Equal(t, "conduces/2025/01/C-15.pdf", doc.Data[domain.FieldConducePath])
		assert.Equal(t, url, doc.Data[domain.FieldConduceURL])

		rc, err := files.Download(ctx, "conduces/2025/01/C-15.pdf")
		require.NoError(t, err)
		data, _ := io.ReadAll(rc)
		rc.Close()
		assert.Equal(t, "pdf-bytes", string(data))

		signed, err := svc.ConduceURL(ctx, "T1", time.Minute)
		require.NoError(t, err)
		assert.Contains(t, signed, "token=")
	})

	t.Run("Rental without conduce number uses its id", func(t *testing.T) {
		_, err := svc.AttachConduce(ctx, "T2", "foto.jpg", bytes.NewReader([]byte{1, 2}))
		require.NoError(t, err)
		doc, _ := mem.Get(ctx, domain.CollectionRentals, "T2")
		assert.Equal(t, "conduces/2025/03/T2.jpg", doc.Data[domain.FieldConducePath])
	})

	t.Run("Remove", func(t *testing.T) {
		require.NoError(t, svc.RemoveConduce(ctx, "T2"))
		doc, _ := mem.Get(ctx, domain.CollectionRentals, "T2")
		assert.Equal(t, "", doc.Data[domain.FieldConducePath])
		_, err := svc.ConduceURL(ctx, "T2", time.Minute)
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("Invalid input", func(t *testing.T) {
		_, err := svc.AttachConduce(ctx, "T1", "noext", strings.NewReader("x"))
		assert.ErrorIs(t, err, service.ErrInvalidInput)
		_, err = svc.AttachConduce(ctx, "missing", "a.pdf", strings.NewReader("x"))
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}
