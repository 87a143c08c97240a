package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/diewo77/parkgate/internal/auth"
	"github.com/diewo77/parkgate/internal/httpx"
	"github.com/diewo77/parkgate/internal/pagination"
	"github.com/diewo77/parkgate/internal/services"
	"github.com/diewo77/parkgate/internal/validation"
)

type PermitHandler struct {
	permits *services.PermitService
}

func NewPermitHandler(permits *services.PermitService) *PermitHandler {
	return &PermitHandler{permits: permits}
}

// Add handles POST /apartments/{id}/vehicles.
func (h *PermitHandler) Add(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var in services.AddPermitInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_body", nil)
		return
	}

	v := make(validation.Violations)
	validation.Required("plate", in.Plate, v)
	validation.MaxLen("plate", in.Plate, 50, v)
	validation.MaxLen("parking_spot", in.ParkingSpot, 50, v)
	validation.MaxLen("notes", in.Notes, 500, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_argument", v)
		return
	}

	permit, err := h.permits.Add(r.Context(), id, r.PathValue("id"), in)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, permit)
}

// List handles GET /apartments/{id}/vehicles.
func (h *PermitHandler) List(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	page, err := pagination.FromRequest(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	permits, total, err := h.permits.List(r.Context(), id, r.PathValue("id"), page)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, pagination.NewResult(permits, total, page))
}

// Check handles GET /apartments/{id}/vehicles/check/{plate}.
func (h *PermitHandler) Check(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	check, err := h.permits.Check(r.Context(), id, r.PathValue("id"), r.PathValue("plate"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, check)
}

// Update handles PATCH /apartments/{id}/vehicles/{plate}.
func (h *PermitHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var in services.UpdatePermitInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_body", nil)
		return
	}

	v := make(validation.Violations)
	if in.ParkingSpot != nil {
		validation.MaxLen("parking_spot", *in.ParkingSpot, 50, v)
	}
	if in.Notes != nil {
		validation.MaxLen("notes", *in.Notes, 500, v)
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_argument", v)
		return
	}

	permit, err := h.permits.Update(r.Context(), id, r.PathValue("id"), r.PathValue("plate"), in)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, permit)
}

// Remove handles DELETE /apartments/{id}/vehicles/{plate} (soft).
func (h *PermitHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	if err := h.permits.Remove(r.Context(), id, r.PathValue("id"), r.PathValue("plate")); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "vehicle removed from permitted list"})
}
