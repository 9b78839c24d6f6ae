package storage

import "context"

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS organizations (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS memberships (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id),
		organization_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		role TEXT NOT NULL DEFAULT 'MEMBER',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, organization_id)
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id UUID PRIMARY KEY,
		content TEXT NOT NULL,
		organization_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		author_id UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS activity_log (
		id UUID PRIMARY KEY,
		type TEXT NOT NULL,
		actor_id UUID,
		organization_id UUID,
		subject_id TEXT,
		occurred_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_memberships_org ON memberships (organization_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_org ON posts (organization_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_activity_occurred ON activity_log (occurred_at)`,
}

// EnsureSchema creates the tables and indexes if they do not exist yet.
func (s *Storage) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
