package http_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	apihttp "equipos-backend/internal/api/http"
	"equipos-backend/internal/docstore"
	"equipos-backend/internal/domain"
	"equipos-backend/internal/repository/firestore"
	"equipos-backend/internal/retry"
	"equipos-backend/internal/service"
	"equipos-backend/internal/storage"
)

type testServer struct {
	router *mux.Router
	mem    *docstore.MemoryStore
}

func newTestServer(t *testing.T) *testServer {
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
			"T1": {"fecha": "2025-01-10", "cliente_id": "7", "equipo_id": "1", "horas": 10.0, "precio_por_hora": 100.0, "monto": 1000.0, "conduce": "C-15"},
			"T2": {"fecha": "2025-03-02", "cliente_id": "7", "equipo_id": "1", "horas": 2.0, "precio_por_hora": 50.0, "monto": 100.0},
		},
	}
	for collection, docs := range seed {
		for id, data := range docs {
			require.NoError(t, mem.Set(ctx, collection, id, data, false))
		}
	}

	store := firestore.NewStore(mem)
	files, err := storage.NewLocalStore("", t.TempDir())
	require.NoError(t, err)

	policy := retry.DefaultPolicy()
	policy.BaseDelay = 0
	h := apihttp.NewHandler(apihttp.Deps{
		Equipment:        store.EquipmentRepository,
		Entities:         store.EntityRepository,
		Rentals:          store.RentalRepository,
		Expenses:         store.ExpenseRepository,
		OperatorPayments: store.OperatorPaymentRepository,
		Advances:         store.AdvanceRepository,
		Maintenance:      store.MaintenanceRepository,
		Catalog: service.NewCatalogService(store.EquipmentRepository, store.EntityRepository, store.LookupRepository,
			policy, rate.NewLimiter(rate.Inf, 1)),
		Dashboard:   service.NewDashboardService(store.ReportRepository, store.EquipmentRepository, store.EntityRepository),
		Accounts:    service.NewClientAccountService(store.ReportRepository, store.AdvanceRepository, store.EntityRepository, store.RentalRepository),
		Performance: service.NewPerformanceService(store.EquipmentRepository, store.RentalRepository, store.ExpenseRepository, store.OperatorPaymentRepository, store.MaintenanceRepository),
		Attachments: service.NewAttachmentService(store.RentalRepository, files),
	})

	router := mux.NewRouter()
	apihttp.RegisterFileRoutes(router, files, 0)
	apihttp.RegisterRoutes(router, h)
	return &testServer{router: router, mem: mem}
}

func (s *testServer) do(t *testing.T, method, target string, body io.Reader, contentType string) (*httptest.ResponseRecorder, apihttp.Response) {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var resp apihttp.Response
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func (s *testServer) doJSON(t *testing.T, method, target, body string) (*httptest.ResponseRecorder, apihttp.Response) {
	return s.do(t, method, target, strings.NewReader(body), "application/json")
}

func TestHandler_Records(t *testing.T) {
	t.Run("List equipment", func(t *testing.T) {
		s := newTestServer(t)
		rec, resp := s.do(t, http.MethodGet, "/api/v1/equipos", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, apihttp.StatusOK, resp.Status)
		assert.Len(t, resp.Data, 1)
	})

	t.Run("List rentals filtered by period", func(t *testing.T) {
		s := newTestServer(t)
		rec, resp := s.do(t, http.MethodGet, "/api/v1/alquileres?start=2025-03-01&end=2025-03-31", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		items := resp.Data.([]any)
		require.Len(t, items, 1)
		assert.Equal(t, "T2", items[0].(map[string]any)["id"])
	})

	t.Run("Get missing rental", func(t *testing.T) {
		s := newTestServer(t)
		rec, resp := s.do(t, http.MethodGet, "/api/v1/alquileres/nope", nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, apihttp.StatusError, resp.Status)
	})

	t.Run("Create rental recomputes amount", func(t *testing.T) {
		s := newTestServer(t)
		rec, resp := s.doJSON(t, http.MethodPost, "/api/v1/alquileres",
			`{"fecha":"2025-03-14","cliente_id":"7","equipo_id":"1","horas":5,"precio_por_hora":120.5,"monto":1}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		id := resp.Data.(map[string]any)["id"].(string)

		doc, err := s.mem.Get(context.Background(), domain.CollectionRentals, id)
		require.NoError(t, err)
		assert.Equal(t, 602.5, doc.Data[domain.FieldAmount])
		assert.Equal(t, "1", doc.Data[domain.FieldEquipmentID])
	})

	t.Run("Create rental with bad date", func(t *testing.T) {
		s := newTestServer(t)
		rec, _ := s.doJSON(t, http.MethodPost, "/api/v1/alquileres",
			`{"fecha":"14/03/2025","cliente_id":"7","equipo_id":"1","horas":5,"precio_por_hora":10}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, 2, s.mem.Count(domain.CollectionRentals))
	})

	t.Run("Create rental with malformed body", func(t *testing.T) {
		s := newTestServer(t)
		rec, _ := s.doJSON(t, http.MethodPost, "/api/v1/alquileres", `{"fecha":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Patch hours recomputes amount", func(t *testing.T) {
		s := newTestServer(t)
		rec, resp := s.doJSON(t, http.MethodPatch, "/api/v1/alquileres/T1", `{"horas":4}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, 400.0, resp.Data.(map[string]any)["monto"])
	})

	t.Run("Patch missing rental", func(t *testing.T) {
		s := newTestServer(t)
		rec, _ := s.doJSON(t, http.MethodPatch, "/api/v1/alquileres/nope", `{"horas":4}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Store quota maps to 503", func(t *testing.T) {
		s := newTestServer(t)
		s.mem.Fault = func(call docstore.Call) error {
			if call.Op == "query" {
				return docstore.ErrQuotaExceeded
			}
			return nil
		}
		rec, _ := s.do(t, http.MethodGet, "/api/v1/gastos", nil, "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestHandler_Advances(t *testing.T) {
	t.Run("Advance is mirrored under the rental", func(t *testing.T) {
		s := newTestServer(t)
		rec, _ := s.doJSON(t, http.MethodPost, "/api/v1/abonos",
			`{"fecha":"2025-01-15","cliente_id":"7","transaccion_id":"T1","monto":300}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		rec, resp := s.do(t, http.MethodGet, "/api/v1/alquileres/T1/pagos", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, resp.Data, 1)

		rec, resp = s.do(t, http.MethodGet, "/api/v1/clientes/7/deuda", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		debt := resp.Data.(map[string]any)
		assert.Equal(t, 1100.0, debt["facturado"])
		assert.Equal(t, 300.0, debt["abonado"])
		assert.Equal(t, 800.0, debt["saldo"])
	})

	t.Run("Advance for unknown client", func(t *testing.T) {
		s := newTestServer(t)
		rec, _ := s.doJSON(t, http.MethodPost, "/api/v1/abonos",
			`{"fecha":"2025-01-15","cliente_id":"9","monto":300}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("First transaction", func(t *testing.T) {
		s := newTestServer(t)
		rec, resp := s.do(t, http.MethodGet, "/api/v1/clientes/7/primera_transaccion", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2025-01-10", resp.Data.(map[string]any)["fecha"])

		rec, _ = s.do(t, http.MethodGet, "/api/v1/clientes/404/primera_transaccion", nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandler_Reports(t *testing.T) {
	t.Run("Dashboard rejects bad year", func(t *testing.T) {
		s := newTestServer(t)
		rec, _ := s.do(t, http.MethodGet, "/api/v1/dashboard?ano=abc", nil, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Dashboard requires a year", func(t *testing.T) {
		s := newTestServer(t)
		rec, _ := s.do(t, http.MethodGet, "/api/v1/dashboard", nil, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Dashboard for a month", func(t *testing.T) {
		s := newTestServer(t)
		rec, _ := s.do(t, http.MethodGet, "/api/v1/dashboard?ano=2025&mes=1", nil, "")
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("Options", func(t *testing.T) {
		s := newTestServer(t)
		rec, resp := s.do(t, http.MethodGet, "/api/v1/opciones/clientes", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, resp.Data, 1)

		rec, _ = s.do(t, http.MethodGet, "/api/v1/opciones/planetas", nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Catalog", func(t *testing.T) {
		s := newTestServer(t)
		rec, _ := s.do(t, http.MethodGet, "/api/v1/catalogo", nil, "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestHandler_Conduce(t *testing.T) {
	upload := func(t *testing.T, s *testServer, filename, content string) (*httptest.ResponseRecorder, apihttp.Response) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, mw.Close())
		return s.do(t, http.MethodPost, "/api/v1/alquileres/T1/conduce", &buf, mw.FormDataContentType())
	}

	t.Run("Upload, download and delete", func(t *testing.T) {
		s := newTestServer(t)
		rec, resp := upload(t, s, "scan.pdf", "pdf-bytes")
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		link := resp.Data.(map[string]any)["url"].(string)
		assert.Contains(t, link, "/api/v1/files/")

		doc, err := s.mem.Get(context.Background(), domain.CollectionRentals, "T1")
		require.NoError(t, err)
		assert.Equal(t, "conduces/2025/01/C-15.pdf", doc.Data[domain.FieldConducePath])

		u, err := url.Parse(link)
		require.NoError(t, err)
		rec, _ = s.do(t, http.MethodGet, u.RequestURI(), nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.Equal(t, "pdf-bytes", rec.Body.String())

		rec, resp = s.do(t, http.MethodGet, "/api/v1/alquileres/T1/conduce", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, resp.Data.(map[string]any)["url"], "token=")

		rec, _ = s.do(t, http.MethodDelete, "/api/v1/alquileres/T1/conduce", nil, "")
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec, _ = s.do(t, http.MethodGet, u.RequestURI(), nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("File without extension", func(t *testing.T) {
		s := newTestServer(t)
		rec, _ := upload(t, s, "scan", "x")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("No conduce to sign", func(t *testing.T) {
		s := newTestServer(t)
		rec, _ := s.do(t, http.MethodGet, "/api/v1/alquileres/T2/conduce", nil, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Missing file field", func(t *testing.T) {
		s := newTestServer(t)
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("other", "x"))
		require.NoError(t, mw.Close())
		rec, _ := s.do(t, http.MethodPost, "/api/v1/alquileres/T1/conduce", &buf, mw.FormDataContentType())
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestFileHandler(t *testing.T) {
	t.Run("Put then get", func(t *testing.T) {
		s := newTestServer(t)
		rec, _ := s.do(t, http.MethodPut, "/api/v1/files/abc?key=recibos/r1.png", strings.NewReader("png"), "image/png")
		require.Equal(t, http.StatusOK, rec.Code)

		rec, _ = s.do(t, http.MethodGet, "/api/v1/files/abc?key=recibos/r1.png", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "png", rec.Body.String())
	})

	t.Run("Missing key", func(t *testing.T) {
		s := newTestServer(t)
		rec, _ := s.do(t, http.MethodGet, "/api/v1/files/abc", nil, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Key escaping the root", func(t *testing.T) {
		s := newTestServer(t)
		rec, _ := s.do(t, http.MethodPut, "/api/v1/files/abc?key=../x.png", strings.NewReader("x"), "image/png")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
