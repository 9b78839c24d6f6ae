package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"orgboard-backend/internal/models"
	"orgboard-backend/internal/storage"
)

type fakeUserStore struct {
	byEmail map[string]*models.User
	nextID  int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: map[string]*models.User{}, nextID: 1}
}

func (s *fakeUserStore) CreateUser(_ context.Context, email, passwordHash string) (*models.User, error) {
	if _, exists := s.byEmail[email]; exists {
		return nil, storage.ErrDuplicateEmail
	}
	user := &models.User{
		ID:           "user-" + email,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	s.byEmail[email] = user
	return user, nil
}

func (s *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return user, nil
}

func (s *fakeUserStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	for _, user := range s.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, storage.ErrNotFound
}

type fakeRevoker struct {
	revoked []string
}

func (r *fakeRevoker) RevokeToken(_ context.Context, jti string, _ time.Duration) error {
	r.revoked = append(r.revoked, jti)
	return nil
}

func postAuth(t *testing.T, h *Handler, authType string, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/auth?type="+authType, bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	h.Auth(rec, req)
	return rec
}

func TestAuthSignup(t *testing.T) {
	store := newFakeUserStore()
	h := NewHandler(store, nil)

	rec := postAuth(t, h, "signup", map[string]string{"email": "a@b.co", "password": "hunter2"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "a@b.co", user.Email)

	// The stored hash must verify, and must not be the raw password.
	stored := store.byEmail["a@b.co"]
	assert.NotEqual(t, "hunter2", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("hunter2")))
}

func TestAuthSignupDuplicateEmail(t *testing.T) {
	store := newFakeUserStore()
	h := NewHandler(store, nil)

	rec := postAuth(t, h, "signup", map[string]string{"email": "a@b.co", "password": "hunter2"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postAuth(t, h, "signup", map[string]string{"email": "a@b.co", "password": "other"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")
}

func TestAuthMissingFields(t *testing.T) {
	h := NewHandler(newFakeUserStore(), nil)

	rec := postAuth(t, h, "signup", map[string]string{"email": "a@b.co"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postAuth(t, h, "login", map[string]string{"password": "hunter2"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthUnknownType(t *testing.T) {
	h := NewHandler(newFakeUserStore(), nil)
	rec := postAuth(t, h, "refresh", map[string]string{"email": "a@b.co", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unknown auth type")
}

func TestAuthLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	store := newFakeUserStore()
	h := NewHandler(store, nil)

	rec := postAuth(t, h, "signup", map[string]string{"email": "a@b.co", "password": "hunter2"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postAuth(t, h, "login", map[string]string{"email": "a@b.co", "password": "hunter2"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, "a@b.co", resp.User.Email)

	claims, err := ParseToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.Subject)
}

func TestAuthLoginInvalidCredentials(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	store := newFakeUserStore()
	h := NewHandler(store, nil)

	rec := postAuth(t, h, "signup", map[string]string{"email": "a@b.co", "password": "hunter2"})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Wrong password and unknown user must be indistinguishable.
	rec = postAuth(t, h, "login", map[string]string{"email": "a@b.co", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")

	rec = postAuth(t, h, "login", map[string]string{"email": "nobody@b.co", "password": "hunter2"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
}

func TestMe(t *testing.T) {
	store := newFakeUserStore()
	h := NewHandler(store, nil)

	user, err := store.CreateUser(context.Background(), "a@b.co", "hash")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req = req.WithContext(ContextWithUserID(req.Context(), user.ID))
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		User models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "a@b.co", resp.User.Email)
}

func TestMeUnknownUser(t *testing.T) {
	h := NewHandler(newFakeUserStore(), nil)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req = req.WithContext(ContextWithUserID(req.Context(), "ghost"))
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	revoker := &fakeRevoker{}
	h := NewHandler(newFakeUserStore(), revoker)

	token, err := GenerateToken("user-42")
	require.NoError(t, err)
	claims, err := ParseToken(token)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	ctx := context.WithValue(req.Context(), claimsKey, claims)
	rec := httptest.NewRecorder()
	h.Logout(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, revoker.revoked, 1)
	assert.Equal(t, claims.ID, revoker.revoked[0])
}
