package storage

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"orgboard-backend/internal/models"
)

// GetMembership returns the membership for the (org, user) pair, or
// (nil, nil) when the user is not a member. Absence is a normal state
// here, not an error.
func (s *Storage) GetMembership(ctx context.Context, orgID, userID string) (*models.Membership, error) {
	var m models.Membership
	query := `
		SELECT id, user_id, organization_id, role, created_at
		FROM memberships
		WHERE organization_id = $1 AND user_id = $2
	`
	if err := s.db.GetContext(ctx, &m, query, orgID, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// JoinOrganization creates a MEMBER membership. The unique constraint on
// (user_id, organization_id) rejects duplicate joins.
func (s *Storage) JoinOrganization(ctx context.Context, orgID, userID string) (*models.Membership, error) {
	var m models.Membership
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO memberships (id, user_id, organization_id, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, organization_id, role, created_at
	`, uuid.New().String(), userID, orgID, models.RoleMember).Scan(
		&m.ID,
		&m.UserID,
		&m.OrganizationID,
		&m.Role,
		&m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyMember
		}
		if isForeignKeyViolation(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// ListMembers returns all memberships for the organization with the member's
// user info, ordered by join time.
func (s *Storage) ListMembers(ctx context.Context, orgID string) ([]models.Member, error) {
	members := make([]models.Member, 0)
	err := s.db.SelectContext(ctx, &members, `
		SELECT m.id, m.user_id, m.organization_id, m.role, m.created_at, u.email
		FROM memberships m
		JOIN users u ON u.id = m.user_id
		WHERE m.organization_id = $1
		ORDER BY m.created_at
	`, orgID)
	if err != nil {
		return nil, err
	}
	return members, nil
}

// RemoveMember deletes the target user's membership.
func (s *Storage) RemoveMember(ctx context.Context, orgID, userID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM memberships
		WHERE organization_id = $1 AND user_id = $2
	`, orgID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// LeaveOrganization removes the user's membership. When the user is the sole
// ADMIN and other members remain, another member is promoted in the same
// transaction so the organization is never observably admin-less. The
// promoted user's id is returned, or "" when no promotion happened.
//
// The org's membership rows are locked for the duration of the transaction
// so two concurrent leaves cannot both see themselves as the sole admin.
func (s *Storage) LeaveOrganization(ctx context.Context, orgID, userID, newAdminID string) (string, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var memberships []models.Membership
	err = tx.SelectContext(ctx, &memberships, `
		SELECT id, user_id, organization_id, role, created_at
		FROM memberships
		WHERE organization_id = $1
		ORDER BY created_at
		FOR UPDATE
	`, orgID)
	if err != nil {
		return "", err
	}

	successorID, err := SuccessorAdmin(memberships, userID, newAdminID)
	if err != nil {
		return "", err
	}

	if successorID != "" {
		_, err = tx.ExecContext(ctx, `
			UPDATE memberships SET role = $1
			WHERE organization_id = $2 AND user_id = $3
		`, models.RoleAdmin, orgID, successorID)
		if err != nil {
			return "", err
		}
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM memberships
		WHERE organization_id = $1 AND user_id = $2
	`, orgID, userID)
	if err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}

	return successorID, nil
}

// SuccessorAdmin decides who, if anyone, must be promoted to ADMIN when
// leavingUserID leaves an organization with the given memberships.
//
// A promotion is needed only when the leaver is the last remaining ADMIN and
// other members stay behind. The successor is newAdminID when supplied (it
// must be a remaining member), otherwise the remaining member who joined
// earliest. Returns ErrNotMember when the leaver has no membership and
// ErrSuccessorNotFound when newAdminID is not a remaining member.
func SuccessorAdmin(memberships []models.Membership, leavingUserID, newAdminID string) (string, error) {
	var leaving *models.Membership
	remaining := make([]models.Membership, 0, len(memberships))
	for i := range memberships {
		if memberships[i].UserID == leavingUserID {
			leaving = &memberships[i]
			continue
		}
		remaining = append(remaining, memberships[i])
	}

	if leaving == nil {
		return "", ErrNotMember
	}
	if !leaving.IsAdmin() || len(remaining) == 0 {
		return "", nil
	}
	for _, m := range remaining {
		if m.IsAdmin() {
			return "", nil
		}
	}

	if newAdminID != "" {
		for _, m := range remaining {
			if m.UserID == newAdminID {
				return newAdminID, nil
			}
		}
		return "", ErrSuccessorNotFound
	}

	// remaining is already ordered by join time; promote the earliest.
	earliest := remaining[0]
	for _, m := range remaining[1:] {
		if m.CreatedAt.Before(earliest.CreatedAt) {
			earliest = m
		}
	}
	return earliest.UserID, nil
}
