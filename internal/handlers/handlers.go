package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"orgboard-backend/internal/bus"
	"orgboard-backend/internal/models"
	"orgboard-backend/internal/response"
)

// OrganizationStore is the organization slice of storage.
type OrganizationStore interface {
	CreateOrganization(ctx context.Context, name, founderID string) (*models.Organization, error)
	GetOrganization(ctx context.Context, id string) (*models.Organization, error)
	ListOrganizationsByMember(ctx context.Context, userID string) ([]models.OrganizationWithMembers, error)
	ListAvailableOrganizations(ctx context.Context, userID string) ([]models.Organization, error)
}

// MembershipStore is the membership slice of storage.
type MembershipStore interface {
	GetMembership(ctx context.Context, orgID, userID string) (*models.Membership, error)
	JoinOrganization(ctx context.Context, orgID, userID string) (*models.Membership, error)
	ListMembers(ctx context.Context, orgID string) ([]models.Member, error)
	RemoveMember(ctx context.Context, orgID, userID string) error
	LeaveOrganization(ctx context.Context, orgID, userID, newAdminID string) (string, error)
}

// PostStore is the post slice of storage.
type PostStore interface {
	CreatePost(ctx context.Context, orgID, authorID, content string) (*models.Post, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	ListPosts(ctx context.Context, orgID string) ([]models.Post, error)
	DeletePost(ctx context.Context, id string) error
}

// Store is everything the HTTP handlers need from storage.
type Store interface {
	OrganizationStore
	MembershipStore
	PostStore
}

type Handler struct {
	store Store
	bus   bus.Publisher
}

// New creates the handler set. publisher may be nil to disable activity
// events.
func New(store Store, publisher bus.Publisher) *Handler {
	return &Handler{store: store, bus: publisher}
}

// RegisterRoutes mounts all authenticated routes. authMW must resolve the
// bearer token to a user id.
func (h *Handler) RegisterRoutes(r chi.Router, authMW func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMW)

		r.Post("/organization", h.CreateOrganization)
		r.Get("/organization", h.ListMyOrganizations)
		r.Get("/organization/available", h.ListAvailableOrganizations)
		r.Post("/organization/join", h.JoinOrganization)
		r.Get("/organization/members", h.ListMembers)
		r.Delete("/organization/members", h.RemoveMember)
		r.Post("/organization/leave", h.LeaveOrganization)
		r.Get("/organization/{id}", h.GetOrganization)

		r.Get("/post", h.ListPosts)
		r.Post("/post", h.CreatePost)
		r.Delete("/post", h.DeletePostByQuery)
		r.Get("/post/{id}", h.GetPost)
		r.Delete("/post/{id}", h.DeletePost)
	})
}

func Health(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "up"})
}

// publish emits an activity event; failures are logged, never surfaced.
func (h *Handler) publish(eventType, actorID, orgID, subjectID string) {
	if h.bus == nil {
		return
	}
	event := models.ActivityEvent{
		V:              1,
		TS:             time.Now().UnixMilli(),
		Type:           eventType,
		ActorID:        actorID,
		OrganizationID: orgID,
		SubjectID:      subjectID,
	}
	if err := h.bus.Publish(event); err != nil {
		log.Printf("WARN Activity publish failed (%s): %v", eventType, err)
	}
}
