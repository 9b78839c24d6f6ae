package models

import (
	"strings"
	"time"
)

const (
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

type Membership struct {
	ID             string    `db:"id" json:"id"`
	UserID         string    `db:"user_id" json:"user_id"`
	OrganizationID string    `db:"organization_id" json:"organization_id"`
	Role           string    `db:"role" json:"role"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// IsAdmin reports whether the membership carries the ADMIN role.
// Role values are compared case-insensitively.
func (m *Membership) IsAdmin() bool {
	return m != nil && strings.EqualFold(m.Role, RoleAdmin)
}

// Member is a membership row joined with the member's user record,
// as returned by the list-members endpoint.
type Member struct {
	ID             string    `db:"id" json:"id"`
	UserID         string    `db:"user_id" json:"user_id"`
	OrganizationID string    `db:"organization_id" json:"organization_id"`
	Role           string    `db:"role" json:"role"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	Email          string    `db:"email" json:"email"`
}

type JoinOrganizationInput struct {
	OrganizationID string `json:"organizationId"`
}

type RemoveMemberInput struct {
	OrganizationID string `json:"organizationId"`
	MemberID       string `json:"memberId"`
}

type LeaveOrganizationInput struct {
	OrganizationID string `json:"organizationId"`
	NewAdminID     string `json:"newAdminId,omitempty"`
}
