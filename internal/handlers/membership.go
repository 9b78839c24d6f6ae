package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"orgboard-backend/internal/auth"
	"orgboard-backend/internal/models"
	"orgboard-backend/internal/response"
	"orgboard-backend/internal/storage"
)

// JoinOrganization adds the requester as a MEMBER.
func (h *Handler) JoinOrganization(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.JoinOrganizationInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.OrganizationID == "" {
		response.Error(w, http.StatusBadRequest, "Organization ID is required.")
		return
	}

	membership, err := h.store.JoinOrganization(r.Context(), req.OrganizationID, userID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyMember):
			response.Error(w, http.StatusBadRequest, "Already a member of this organization.")
		case errors.Is(err, storage.ErrNotFound):
			response.Error(w, http.StatusNotFound, "Organization not found.")
		default:
			log.Printf("ERROR Join organization failed: %v", err)
			response.Error(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	h.publish(models.ActivityOrgJoined, userID, req.OrganizationID, "")
	response.JSON(w, http.StatusOK, membership)
}

// ListMembers returns the organization's memberships with user info plus the
// requester's own role (null when not a member).
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	orgID := r.URL.Query().Get("orgId")
	if orgID == "" {
		response.Error(w, http.StatusBadRequest, "Organization ID is required")
		return
	}

	members, err := h.store.ListMembers(r.Context(), orgID)
	if err != nil {
		log.Printf("ERROR List members failed: %v", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	var currentUserRole *string
	for i := range members {
		if members[i].UserID == userID {
			currentUserRole = &members[i].Role
			break
		}
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"members":         members,
		"currentUserRole": currentUserRole,
	})
}

// RemoveMember deletes another member's membership. Admin only. Admins
// cannot remove themselves here; leaving goes through LeaveOrganization so
// the admin-reassignment rule cannot be bypassed.
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.RemoveMemberInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.OrganizationID == "" || req.MemberID == "" {
		response.Error(w, http.StatusBadRequest, "Organization ID and member ID are required")
		return
	}

	membership, err := h.store.GetMembership(r.Context(), req.OrganizationID, userID)
	if err != nil {
		log.Printf("ERROR Get membership failed: %v", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !membership.IsAdmin() {
		response.Error(w, http.StatusForbidden, "Not authorized to remove members")
		return
	}

	if req.MemberID == userID {
		response.Error(w, http.StatusBadRequest, "Use leave to remove your own membership")
		return
	}

	if err := h.store.RemoveMember(r.Context(), req.OrganizationID, req.MemberID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			response.Error(w, http.StatusNotFound, "Membership not found")
			return
		}
		log.Printf("ERROR Remove member failed: %v", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.publish(models.ActivityMemberRemoved, userID, req.OrganizationID, req.MemberID)
	response.JSON(w, http.StatusOK, map[string]string{"message": "Member removed"})
}

// LeaveOrganization removes the requester's membership, promoting a
// successor admin in the same transaction when needed. Identity comes from
// the authenticated session only.
func (h *Handler) LeaveOrganization(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.LeaveOrganizationInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.OrganizationID == "" {
		response.Error(w, http.StatusBadRequest, "Organization ID is required.")
		return
	}

	newAdminID, err := h.store.LeaveOrganization(r.Context(), req.OrganizationID, userID, req.NewAdminID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotMember):
			response.Error(w, http.StatusNotFound, "Not a member of this organization.")
		case errors.Is(err, storage.ErrSuccessorNotFound):
			response.Error(w, http.StatusBadRequest, "New admin must be an existing member.")
		default:
			log.Printf("ERROR Leave organization failed: %v", err)
			response.Error(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	h.publish(models.ActivityOrgLeft, userID, req.OrganizationID, newAdminID)

	body := map[string]interface{}{"message": "Left organization"}
	if newAdminID != "" {
		body["newAdminId"] = newAdminID
	}
	response.JSON(w, http.StatusOK, body)
}
