// Package http exposes the repositories and services as a JSON API under
// /api/v1, plus the file routes of the local attachment store.
package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"equipos-backend/internal/domain"
	"equipos-backend/internal/logger"
	"equipos-backend/internal/repository"
	"equipos-backend/internal/service"
)

// Handler serves the /api/v1 routes.
type Handler struct {
	equipment        repository.EquipmentRepository
	entities         repository.EntityRepository
	rentals          repository.RentalRepository
	expenses         repository.ExpenseRepository
	operatorPayments repository.OperatorPaymentRepository
	advances         repository.AdvanceRepository
	maintenance      repository.MaintenanceRepository

	catalog     service.CatalogService
	dashboard   service.DashboardService
	accounts    service.ClientAccountService
	performance service.PerformanceService
	attachments service.AttachmentService

	maxUploadBytes int64
	signedURLTTL   time.Duration
}

// Deps groups the handler dependencies.
type Deps struct {
	Equipment        repository.EquipmentRepository
	Entities         repository.EntityRepository
	Rentals          repository.RentalRepository
	Expenses         repository.ExpenseRepository
	OperatorPayments repository.OperatorPaymentRepository
	Advances         repository.AdvanceRepository
	Maintenance      repository.MaintenanceRepository

	Catalog     service.CatalogService
	Dashboard   service.DashboardService
	Accounts    service.ClientAccountService
	Performance service.PerformanceService
	Attachments service.AttachmentService

	MaxUploadBytes int64
	SignedURLTTL   time.Duration
}

func NewHandler(d Deps) *Handler {
	if d.MaxUploadBytes <= 0 {
		d.MaxUploadBytes = 10 << 20
	}
	if d.SignedURLTTL <= 0 {
		d.SignedURLTTL = time.Hour
	}
	return &Handler{
		equipment:        d.Equipment,
		entities:         d.Entities,
		rentals:          d.Rentals,
		expenses:         d.Expenses,
		operatorPayments: d.OperatorPayments,
		advances:         d.Advances,
		maintenance:      d.Maintenance,
		catalog:          d.Catalog,
		dashboard:        d.Dashboard,
		accounts:         d.Accounts,
		performance:      d.Performance,
		attachments:      d.Attachments,
		maxUploadBytes:   d.MaxUploadBytes,
		signedURLTTL:     d.SignedURLTTL,
	}
}

// RegisterRoutes mounts the API on router.
func RegisterRoutes(router *mux.Router, h *Handler) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(logRequests)

	api.HandleFunc("/catalogo", h.GetCatalog).Methods(http.MethodGet)
	api.HandleFunc("/opciones/{tipo}", h.GetOptions).Methods(http.MethodGet)

	api.HandleFunc("/equipos", h.ListEquipment).Methods(http.MethodGet)
	api.HandleFunc("/equipos/{id}/rendimiento", h.GetEquipmentPerformance).Methods(http.MethodGet)
	api.HandleFunc("/entidades", h.ListEntities).Methods(http.MethodGet)
	api.HandleFunc("/gastos", h.ListExpenses).Methods(http.MethodGet)
	api.HandleFunc("/pagos_operadores", h.ListOperatorPayments).Methods(http.MethodGet)
	api.HandleFunc("/mantenimientos", h.ListMaintenance).Methods(http.MethodGet)
	api.HandleFunc("/abonos", h.ListAdvances).Methods(http.MethodGet)
	api.HandleFunc("/abonos", h.CreateAdvance).Methods(http.MethodPost)

	api.HandleFunc("/alquileres", h.ListRentals).Methods(http.MethodGet)
	api.HandleFunc("/alquileres", h.CreateRental).Methods(http.MethodPost)
	api.HandleFunc("/alquileres/{id}", h.GetRental).Methods(http.MethodGet)
	api.HandleFunc("/alquileres/{id}", h.UpdateRental).Methods(http.MethodPatch)
	api.HandleFunc("/alquileres/{id}/pagos", h.ListRentalPayments).Methods(http.MethodGet)
	api.HandleFunc("/alquileres/{id}/conduce", h.UploadConduce).Methods(http.MethodPost)
	api.HandleFunc("/alquileres/{id}/conduce", h.GetConduceURL).Methods(http.MethodGet)
	api.HandleFunc("/alquileres/{id}/conduce", h.DeleteConduce).Methods(http.MethodDelete)

	api.HandleFunc("/dashboard", h.GetDashboard).Methods(http.MethodGet)
	api.HandleFunc("/clientes/{id}/deuda", h.GetClientDebt).Methods(http.MethodGet)
	api.HandleFunc("/clientes/{id}/abonos", h.ListClientAdvances).Methods(http.MethodGet)
	api.HandleFunc("/clientes/{id}/primera_transaccion", h.GetFirstTransaction).Methods(http.MethodGet)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.DebugContext(r.Context(), "HTTP request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

// queryFilter feeds the first value of every query parameter to ParseFilter.
func queryFilter(r *http.Request) domain.Filter {
	values := map[string]string{}
	for key, v := range r.URL.Query() {
		if len(v) > 0 {
			values[key] = v[0]
		}
	}
	return domain.ParseFilter(values)
}
