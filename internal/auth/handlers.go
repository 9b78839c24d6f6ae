package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"orgboard-backend/internal/models"
	"orgboard-backend/internal/response"
	"orgboard-backend/internal/storage"
)

// UserStore is the slice of storage the auth handlers need.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// TokenRevoker marks a token id revoked until its natural expiry.
type TokenRevoker interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
}

type Handler struct {
	store   UserStore
	revoker TokenRevoker
}

func NewHandler(store UserStore, revoker TokenRevoker) *Handler {
	return &Handler{store: store, revoker: revoker}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Auth dispatches POST /auth on the type query parameter.
// @Summary Signup or login
// @Description type=signup creates a user; type=login verifies credentials and returns a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param type query string true "signup or login"
// @Param credentials body credentialsRequest true "Credentials"
// @Success 200 {object} map[string]interface{} "Token and user (login)"
// @Success 201 {object} models.User "Created user (signup)"
// @Failure 400 {object} map[string]string "Invalid body, missing fields or duplicate email"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /auth [post]
func (h *Handler) Auth(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		response.Error(w, http.StatusBadRequest, "Email and password required")
		return
	}

	switch r.URL.Query().Get("type") {
	case "signup":
		h.signup(w, r, req)
	case "login":
		h.login(w, r, req)
	default:
		response.Error(w, http.StatusBadRequest, "Unknown auth type")
	}
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request, req credentialsRequest) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user, err := h.store.CreateUser(r.Context(), req.Email, string(hash))
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			response.Error(w, http.StatusBadRequest, "User already exists")
			return
		}
		log.Printf("ERROR Signup failed: %v", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response.JSON(w, http.StatusCreated, user)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request, req credentialsRequest) {
	user, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			response.Error(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		log.Printf("ERROR Login lookup failed: %v", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		response.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := GenerateToken(user.ID)
	if err != nil {
		log.Printf("ERROR Token generation failed: %v", err)
		response.Error(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// Me returns the current authenticated user.
// @Summary Get current user
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{} "User data"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.store.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			response.Error(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("ERROR Me lookup failed: %v", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// Logout revokes the presented token until it would have expired anyway.
// @Summary Logout
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string "Confirmation"
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if ok && h.revoker != nil && claims.ID != "" && claims.ExpiresAt != nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		if ttl > 0 {
			if err := h.revoker.RevokeToken(r.Context(), claims.ID, ttl); err != nil {
				log.Printf("WARN Token revocation failed: %v", err)
			}
		}
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}
