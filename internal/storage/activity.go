package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"orgboard-backend/internal/models"
)

func (s *Storage) RecordActivity(ctx context.Context, rec models.ActivityRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.OccurredAt.IsZero() {
		rec.OccurredAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activity_log (id, type, actor_id, organization_id, subject_id, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rec.ID, rec.Type, nullIfEmpty(rec.ActorID), nullIfEmpty(rec.OrganizationID), rec.SubjectID, rec.OccurredAt)
	return err
}

// PruneActivity deletes activity rows older than the cutoff and reports how
// many were removed.
func (s *Storage) PruneActivity(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM activity_log WHERE occurred_at < $1`, olderThan)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
