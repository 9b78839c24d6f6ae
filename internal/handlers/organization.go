package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"orgboard-backend/internal/auth"
	"orgboard-backend/internal/models"
	"orgboard-backend/internal/response"
	"orgboard-backend/internal/storage"
)

// CreateOrganization creates an organization with the requester as its
// founding ADMIN.
func (h *Handler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.CreateOrganizationInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		response.Error(w, http.StatusBadRequest, "Organization name is required.")
		return
	}

	org, err := h.store.CreateOrganization(r.Context(), req.Name, userID)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateName) {
			response.Error(w, http.StatusBadRequest, "An organization with this name already exists.")
			return
		}
		log.Printf("ERROR Create organization failed: %v", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	h.publish(models.ActivityOrgCreated, userID, org.ID, "")
	response.JSON(w, http.StatusCreated, org)
}

// ListMyOrganizations returns the organizations the requester belongs to,
// each with its member list.
func (h *Handler) ListMyOrganizations(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	orgs, err := h.store.ListOrganizationsByMember(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR List organizations failed: %v", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{"organizations": orgs})
}

// GetOrganization returns the organization plus the requester's own
// membership. Non-members get the organization with isAdmin=false; the read
// itself is open to any authenticated user.
func (h *Handler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	orgID := chi.URLParam(r, "id")
	org, err := h.store.GetOrganization(r.Context(), orgID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			response.Error(w, http.StatusNotFound, "Organization not found.")
			return
		}
		log.Printf("ERROR Get organization failed: %v", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	membership, err := h.store.GetMembership(r.Context(), orgID, userID)
	if err != nil {
		log.Printf("ERROR Get membership failed: %v", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"organization": org,
		"membership":   membership,
		"isAdmin":      membership.IsAdmin(),
	})
}

// ListAvailableOrganizations returns organizations the requester can join.
func (h *Handler) ListAvailableOrganizations(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	orgs, err := h.store.ListAvailableOrganizations(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR List available organizations failed: %v", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{"organizations": orgs})
}
