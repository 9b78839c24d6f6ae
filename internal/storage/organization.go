package storage

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"orgboard-backend/internal/models"
)

// CreateOrganization inserts the organization and its founding ADMIN
// membership in a single transaction. Either both rows persist or neither.
func (s *Storage) CreateOrganization(ctx context.Context, name, founderID string) (*models.Organization, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var org models.Organization
	err = tx.QueryRowContext(ctx, `
		INSERT INTO organizations (id, name)
		VALUES ($1, $2)
		RETURNING id, name, created_at
	`, uuid.New().String(), name).Scan(&org.ID, &org.Name, &org.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO memberships (id, user_id, organization_id, role)
		VALUES ($1, $2, $3, $4)
	`, uuid.New().String(), founderID, org.ID, models.RoleAdmin)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &org, nil
}

func (s *Storage) GetOrganization(ctx context.Context, id string) (*models.Organization, error) {
	var org models.Organization
	query := `SELECT id, name, created_at FROM organizations WHERE id = $1`
	if err := s.db.GetContext(ctx, &org, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &org, nil
}

// ListOrganizationsByMember returns every organization the user belongs to,
// each annotated with its full member list.
func (s *Storage) ListOrganizationsByMember(ctx context.Context, userID string) ([]models.OrganizationWithMembers, error) {
	var orgs []models.Organization
	err := s.db.SelectContext(ctx, &orgs, `
		SELECT o.id, o.name, o.created_at
		FROM organizations o
		WHERE EXISTS (
			SELECT 1 FROM memberships m
			WHERE m.organization_id = o.id AND m.user_id = $1
		)
		ORDER BY o.created_at
	`, userID)
	if err != nil {
		return nil, err
	}

	result := make([]models.OrganizationWithMembers, len(orgs))
	if len(orgs) == 0 {
		return result, nil
	}

	ids := make([]string, len(orgs))
	for i, org := range orgs {
		ids[i] = org.ID
		result[i] = models.OrganizationWithMembers{Organization: org, Members: []models.Membership{}}
	}

	var memberships []models.Membership
	err = s.db.SelectContext(ctx, &memberships, `
		SELECT id, user_id, organization_id, role, created_at
		FROM memberships
		WHERE organization_id = ANY($1)
		ORDER BY created_at
	`, pq.Array(ids))
	if err != nil {
		return nil, err
	}

	byOrg := make(map[string]int, len(orgs))
	for i, org := range orgs {
		byOrg[org.ID] = i
	}
	for _, m := range memberships {
		if i, ok := byOrg[m.OrganizationID]; ok {
			result[i].Members = append(result[i].Members, m)
		}
	}

	return result, nil
}

// ListAvailableOrganizations returns organizations the user has no
// membership in.
func (s *Storage) ListAvailableOrganizations(ctx context.Context, userID string) ([]models.Organization, error) {
	orgs := make([]models.Organization, 0)
	err := s.db.SelectContext(ctx, &orgs, `
		SELECT o.id, o.name, o.created_at
		FROM organizations o
		WHERE NOT EXISTS (
			SELECT 1 FROM memberships m
			WHERE m.organization_id = o.id AND m.user_id = $1
		)
		ORDER BY o.created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	return orgs, nil
}
