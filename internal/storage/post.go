package storage

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"orgboard-backend/internal/models"
)

func (s *Storage) CreatePost(ctx context.Context, orgID, authorID, content string) (*models.Post, error) {
	var post models.Post
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO posts (id, content, organization_id, author_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, content, organization_id, author_id, created_at
	`, uuid.New().String(), content, orgID, authorID).Scan(
		&post.ID,
		&post.Content,
		&post.OrganizationID,
		&post.AuthorID,
		&post.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (s *Storage) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	query := `SELECT id, content, organization_id, author_id, created_at FROM posts WHERE id = $1`
	if err := s.db.GetContext(ctx, &post, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (s *Storage) ListPosts(ctx context.Context, orgID string) ([]models.Post, error) {
	posts := make([]models.Post, 0)
	err := s.db.SelectContext(ctx, &posts, `
		SELECT id, content, organization_id, author_id, created_at
		FROM posts
		WHERE organization_id = $1
		ORDER BY created_at DESC
	`, orgID)
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *Storage) DeletePost(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
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
