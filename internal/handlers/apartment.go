package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/diewo77/parkgate/internal/auth"
	"github.com/diewo77/parkgate/internal/httpx"
	"github.com/diewo77/parkgate/internal/pagination"
	"github.com/diewo77/parkgate/internal/policy"
	"github.com/diewo77/parkgate/internal/services"
	"github.com/diewo77/parkgate/internal/validation"
)

type ApartmentHandler struct {
	apartments *services.ApartmentService
}

func NewApartmentHandler(apartments *services.ApartmentService) *ApartmentHandler {
	return &ApartmentHandler{apartments: apartments}
}

// Create handles POST /apartments (super admin only).
func (h *ApartmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var in services.CreateApartmentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_body", nil)
		return
	}

	v := make(validation.Violations)
	validation.Required("name", in.Name, v)
	validation.MaxLen("name", in.Name, 200, v)
	validation.Required("address", in.Address, v)
	validation.MaxLen("address", in.Address, 500, v)
	validation.Required("admin_id", in.AdminID, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_argument", v)
		return
	}

	apt, err := h.apartments.Create(r.Context(), id, in)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, apt)
}

// List handles GET /apartments (super admin only).
func (h *ApartmentHandler) List(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	page, err := pagination.FromRequest(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	apts, total, err := h.apartments.List(r.Context(), id, page)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, pagination.NewResult(apts, total, page))
}

// ListMine handles GET /apartments/my — the apartments the caller administers.
func (h *ApartmentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	page, err := pagination.FromRequest(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	apts, total, err := h.apartments.ListByAdmin(r.Context(), id, page)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, pagination.NewResult(apts, total, page))
}

// Get handles GET /apartments/{id}.
func (h *ApartmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	apt, err := h.apartments.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	if err := policy.Decide(id, apt, policy.ActionReadApartment); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, apt)
}

// Update handles PUT /apartments/{id} (super admin only).
func (h *ApartmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var in services.UpdateApartmentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_body", nil)
		return
	}

	v := make(validation.Violations)
	if in.Name != nil {
		validation.Required("name", *in.Name, v)
		validation.MaxLen("name", *in.Name, 200, v)
	}
	if in.Address != nil {
		validation.Required("address", *in.Address, v)
		validation.MaxLen("address", *in.Address, 500, v)
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_argument", v)
		return
	}

	apt, err := h.apartments.Update(r.Context(), id, r.PathValue("id"), in)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, apt)
}

// Delete handles DELETE /apartments/{id} (super admin only, soft).
func (h *ApartmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	if err := h.apartments.SoftDelete(r.Context(), id, r.PathValue("id")); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "apartment deleted"})
}
