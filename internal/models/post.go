package models

import "time"

type Post struct {
	ID             string    `db:"id" json:"id"`
	Content        string    `db:"content" json:"content"`
	OrganizationID string    `db:"organization_id" json:"organization_id"`
	AuthorID       string    `db:"author_id" json:"author_id"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type CreatePostInput struct {
	Content        string `json:"content"`
	OrganizationID string `json:"organizationId"`
}
