package devserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	apperrors "github.com/vin2grow/storefront-go/pkg/errors"
	"github.com/vin2grow/storefront-go/pkg/middleware"
	"github.com/vin2grow/storefront-go/pkg/validator"
)

// AddressRequest is the JSON body for POST /addresses and
// PUT /addresses/{addressId}.
type AddressRequest struct {
	Label      string `json:"label"`
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code" validate:"required"`
	Phone      string `json:"phone"`
	IsDefault  bool   `json:"is_default"`
}

type addressesResponse struct {
	Addresses []AddressRecord `json:"addresses"`
}

// ListAddresses handles GET /addresses.
func (h *Handler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	addresses, err := h.repo.GetAddresses(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, addressesResponse{Addresses: addresses})
}

// AddAddress handles POST /addresses. The first saved address becomes the
// default; a later one takes over only when flagged explicitly.
func (h *Handler) AddAddress(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req AddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()))
		return
	}
	if err := validator.Validate(req); err != nil {
		h.writeValidationError(w, err)
		return
	}

	addresses, err := h.repo.GetAddresses(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	record := AddressRecord{
		ID:         uuid.New().String(),
		Label:      req.Label,
		Street:     req.Street,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Phone:      req.Phone,
		IsDefault:  req.IsDefault || len(addresses) == 0,
	}
	if record.IsDefault {
		for i := range addresses {
			addresses[i].IsDefault = false
		}
	}
	addresses = append(addresses, record)

	if err := h.repo.SaveAddresses(r.Context(), userID, addresses); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, addressesResponse{Addresses: addresses})
}

// UpdateAddress handles PUT /addresses/{addressId}. The default flag only
// moves when the request asserts it; it never silently drops off the
// addressed record.
func (h *Handler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	addressID := chi.URLParam(r, "addressId")

	var req AddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()))
		return
	}
	if err := validator.Validate(req); err != nil {
		h.writeValidationError(w, err)
		return
	}

	addresses, err := h.repo.GetAddresses(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	found := false
	for i := range addresses {
		if addresses[i].ID != addressID {
			continue
		}
		addresses[i].Label = req.Label
		addresses[i].Street = req.Street
		addresses[i].City = req.City
		addresses[i].State = req.State
		addresses[i].PostalCode = req.PostalCode
		addresses[i].Phone = req.Phone
		if req.IsDefault {
			for j := range addresses {
				addresses[j].IsDefault = j == i
			}
		}
		found = true
		break
	}
	if !found {
		h.writeError(w, r, apperrors.NotFound("address", addressID))
		return
	}

	if err := h.repo.SaveAddresses(r.Context(), userID, addresses); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, addressesResponse{Addresses: addresses})
}

// DeleteAddress handles DELETE /addresses/{addressId}. Deleting the default
// promotes the first remaining address so there is always a default while
// any address exists.
func (h *Handler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	addressID := chi.URLParam(r, "addressId")

	addresses, err := h.repo.GetAddresses(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	remaining := addresses[:0]
	found := false
	wasDefault := false
	for _, addr := range addresses {
		if addr.ID == addressID {
			found = true
			wasDefault = addr.IsDefault
			continue
		}
		remaining = append(remaining, addr)
	}
	if !found {
		h.writeError(w, r, apperrors.NotFound("address", addressID))
		return
	}
	if wasDefault && len(remaining) > 0 {
		remaining[0].IsDefault = true
	}

	if err := h.repo.SaveAddresses(r.Context(), userID, remaining); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, addressesResponse{Addresses: remaining})
}

// SetDefaultAddress handles POST /addresses/{addressId}/default.
func (h *Handler) SetDefaultAddress(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	addressID := chi.URLParam(r, "addressId")

	addresses, err := h.repo.GetAddresses(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	found := false
	for i := range addresses {
		addresses[i].IsDefault = addresses[i].ID == addressID
		if addresses[i].IsDefault {
			found = true
		}
	}
	if !found {
		h.writeError(w, r, apperrors.NotFound("address", addressID))
		return
	}

	if err := h.repo.SaveAddresses(r.Context(), userID, addresses); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, addressesResponse{Addresses: addresses})
}
