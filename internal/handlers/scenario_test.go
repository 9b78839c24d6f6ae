package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orgboard-backend/internal/models"
)

// End-to-end walk through the post lifecycle: a founder posts, a later
// joiner cannot delete it, the founder can.
func TestAcmePostLifecycle(t *testing.T) {
	store := newFakeStore()
	r := newTestServer(store)

	// E founds "Acme" and becomes its ADMIN.
	rec := do(t, r, "eve", http.MethodPost, "/organization", map[string]string{"name": "Acme"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var org models.Organization
	decode(t, rec, &org)

	// E posts "hello".
	rec = do(t, r, "eve", http.MethodPost, "/post",
		map[string]string{"content": "hello", "organizationId": org.ID})
	require.Equal(t, http.StatusCreated, rec.Code)
	var post models.Post
	decode(t, rec, &post)

	rec = do(t, r, "eve", http.MethodGet, "/post?orgId="+org.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed struct {
		Posts []models.Post `json:"posts"`
	}
	decode(t, rec, &listed)
	require.Len(t, listed.Posts, 1)
	assert.Equal(t, "hello", listed.Posts[0].Content)

	// F joins as MEMBER and may not delete E's post.
	rec = do(t, r, "frank", http.MethodPost, "/organization/join", map[string]string{"organizationId": org.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	var m models.Membership
	decode(t, rec, &m)
	assert.Equal(t, models.RoleMember, m.Role)

	rec = do(t, r, "frank", http.MethodDelete, "/post/"+post.ID, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// E deletes; the organization's feed is empty again.
	rec = do(t, r, "eve", http.MethodDelete, "/post/"+post.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, r, "frank", http.MethodGet, "/post?orgId="+org.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &listed)
	assert.Empty(t, listed.Posts)
}
