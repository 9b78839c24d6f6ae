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

// ListPosts returns all posts for an organization. The read is open to any
// authenticated user; membership is not required.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	orgID := r.URL.Query().Get("orgId")
	if orgID == "" {
		response.Error(w, http.StatusBadRequest, "Organization ID is required.")
		return
	}

	posts, err := h.store.ListPosts(r.Context(), orgID)
	if err != nil {
		log.Printf("ERROR List posts failed: %v", err)
		response.Error(w, http.StatusInternalServerError, "Error fetching posts")
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{"posts": posts})
}

// CreatePost creates a post in an organization the requester is a member of.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.CreatePostInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	orgID := req.OrganizationID
	if orgID == "" {
		orgID = r.URL.Query().Get("orgId")
	}
	if orgID == "" {
		response.Error(w, http.StatusBadRequest, "Organization ID is required.")
		return
	}
	if req.Content == "" {
		response.Error(w, http.StatusBadRequest, "Post content is required.")
		return
	}

	membership, err := h.store.GetMembership(r.Context(), orgID, userID)
	if err != nil {
		log.Printf("ERROR Get membership failed: %v", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if membership == nil {
		response.Error(w, http.StatusForbidden, "Not a member of this organization")
		return
	}

	post, err := h.store.CreatePost(r.Context(), orgID, userID, req.Content)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			response.Error(w, http.StatusNotFound, "Organization not found.")
			return
		}
		log.Printf("ERROR Create post failed: %v", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.publish(models.ActivityPostCreated, userID, orgID, post.ID)
	response.JSON(w, http.StatusCreated, post)
}

// GetPost returns a single post plus whether the requester administers its
// organization.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	post, err := h.store.GetPost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			response.Error(w, http.StatusNotFound, "Post not found.")
			return
		}
		log.Printf("ERROR Get post failed: %v", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	membership, err := h.store.GetMembership(r.Context(), post.OrganizationID, userID)
	if err != nil {
		log.Printf("ERROR Get membership failed: %v", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"post":    post,
		"isAdmin": membership.IsAdmin(),
	})
}

// DeletePost deletes a post; only an ADMIN of the post's organization may.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	h.deletePost(w, r, chi.URLParam(r, "id"))
}

// DeletePostByQuery handles DELETE /post?id= for clients that pass the post
// id as a query parameter.
func (h *Handler) DeletePostByQuery(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		response.Error(w, http.StatusBadRequest, "Post ID is required.")
		return
	}
	h.deletePost(w, r, id)
}

func (h *Handler) deletePost(w http.ResponseWriter, r *http.Request, postID string) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	post, err := h.store.GetPost(r.Context(), postID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			response.Error(w, http.StatusNotFound, "Post not found.")
			return
		}
		log.Printf("ERROR Get post failed: %v", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	membership, err := h.store.GetMembership(r.Context(), post.OrganizationID, userID)
	if err != nil {
		log.Printf("ERROR Get membership failed: %v", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	if !membership.IsAdmin() {
		response.Error(w, http.StatusForbidden, "Only ADMIN can delete posts.")
		return
	}

	if err := h.store.DeletePost(r.Context(), post.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			response.Error(w, http.StatusNotFound, "Post not found.")
			return
		}
		log.Printf("ERROR Delete post failed: %v", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	h.publish(models.ActivityPostDeleted, userID, post.OrganizationID, post.ID)
	response.JSON(w, http.StatusOK, map[string]string{"message": "Post deleted successfully."})
}
