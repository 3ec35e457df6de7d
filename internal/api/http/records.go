package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"equipos-backend/internal/domain"
	"equipos-backend/internal/service"
	"equipos-backend/internal/utils"
)

func (h *Handler) ListEquipment(w http.ResponseWriter, r *http.Request) {
	items, err := h.equipment.List(r.Context(), queryFilter(r))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) ListEntities(w http.ResponseWriter, r *http.Request) {
	items, err := h.entities.List(r.Context(), queryFilter(r))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) ListRentals(w http.ResponseWriter, r *http.Request) {
	items, err := h.rentals.List(r.Context(), queryFilter(r))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	items, err := h.expenses.List(r.Context(), queryFilter(r))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) ListOperatorPayments(w http.ResponseWriter, r *http.Request) {
	items, err := h.operatorPayments.List(r.Context(), queryFilter(r))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) ListMaintenance(w http.ResponseWriter, r *http.Request) {
	items, err := h.maintenance.List(r.Context(), queryFilter(r))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) ListAdvances(w http.ResponseWriter, r *http.Request) {
	items, err := h.advances.List(r.Context(), queryFilter(r))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) CreateAdvance(w http.ResponseWriter, r *http.Request) {
	var advance domain.Advance
	if err := decodeBody(r, &advance); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id, err := h.accounts.RegisterAdvance(r.Context(), &advance)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) GetRental(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rental, err := h.rentals.GetByID(r.Context(), id)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	if rental == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("rental %s not found", id))
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

// CreateRental stores a rental. The amount is recomputed by the repository
// from hours and unit price.
func (h *Handler) CreateRental(w http.ResponseWriter, r *http.Request) {
	var rental domain.Rental
	if err := decodeBody(r, &rental); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateRental(rental); err != nil {
		writeFailure(w, r, err)
		return
	}
	id, err := h.rentals.Create(r.Context(), &rental)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func validateRental(rental domain.Rental) error {
	if _, err := utils.ParseDate(rental.Date); err != nil {
		return fmt.Errorf("%w: fecha: %v", service.ErrInvalidInput, err)
	}
	if strings.TrimSpace(rental.ClientID) == "" || strings.TrimSpace(rental.EquipmentID) == "" {
		return fmt.Errorf("%w: cliente_id and equipo_id are required", service.ErrInvalidInput)
	}
	if rental.Hours < 0 || rental.UnitPrice < 0 {
		return fmt.Errorf("%w: horas and precio_por_hora must not be negative", service.ErrInvalidInput)
	}
	return nil
}

// UpdateRental merges the body into the rental. Changing horas or
// precio_por_hora recomputes monto from the stored values.
func (h *Handler) UpdateRental(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var patch map[string]any
	if err := decodeBody(r, &patch); err != nil || len(patch) == 0 {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	delete(patch, "id")
	if raw, ok := patch[domain.FieldDate].(string); ok {
		if _, err := utils.ParseDate(raw); err != nil {
			writeFailure(w, r, fmt.Errorf("%w: fecha: %v", service.ErrInvalidInput, err))
			return
		}
	}
	if err := h.rentals.Update(r.Context(), id, domain.Fields(patch)); err != nil {
		writeFailure(w, r, err)
		return
	}
	rental, err := h.rentals.GetByID(r.Context(), id)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *Handler) ListRentalPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.advances.ListPayments(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}
