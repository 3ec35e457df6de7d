package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"equipos-backend/internal/domain"
)

func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.catalog.Preload(r.Context())
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, catalog)
}

// GetOptions returns the active entries of a dropdown. Store failures
// produce an empty list.
func (h *Handler) GetOptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var opts []domain.Option
	switch kind := mux.Vars(r)["tipo"]; kind {
	case domain.CollectionEquipment:
		opts = h.catalog.EquipmentOptions(ctx)
	case "clientes":
		opts = h.catalog.ClientOptions(ctx)
	case "operadores":
		opts = h.catalog.OperatorOptions(ctx)
	case domain.CollectionAccounts, domain.CollectionCategories, domain.CollectionSubcategories:
		opts = h.catalog.LookupOptions(ctx, kind)
	default:
		writeError(w, http.StatusNotFound, "unknown option list: "+kind)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.StatsFilter{EquipmentID: q.Get(domain.FieldEquipmentID)}
	var err error
	if filter.Year, err = optionalInt(q.Get(domain.FieldYear)); err != nil {
		writeError(w, http.StatusBadRequest, "invalid ano")
		return
	}
	if filter.Month, err = optionalInt(q.Get(domain.FieldMonth)); err != nil {
		writeError(w, http.StatusBadRequest, "invalid mes")
		return
	}
	dash, err := h.dashboard.GetDashboard(r.Context(), filter)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

func optionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func (h *Handler) GetClientDebt(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	debt, err := h.accounts.GetDebt(r.Context(), mux.Vars(r)["id"], q.Get(domain.FilterStart), q.Get(domain.FilterEnd))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, debt)
}

func (h *Handler) ListClientAdvances(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	advances, err := h.accounts.ListAdvances(r.Context(), mux.Vars(r)["id"], q.Get(domain.FilterStart), q.Get(domain.FilterEnd))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, advances)
}

func (h *Handler) GetFirstTransaction(w http.ResponseWriter, r *http.Request) {
	date, ok, err := h.accounts.FirstTransactionDate(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "client has no transactions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{domain.FieldDate: date})
}

func (h *Handler) GetEquipmentPerformance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	perf, err := h.performance.EquipmentPerformance(r.Context(), mux.Vars(r)["id"], q.Get(domain.FilterStart), q.Get(domain.FilterEnd))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, perf)
}
