package models

import "time"

// Activity event types published on the bus.
const (
	ActivityOrgCreated    = "org.created"
	ActivityOrgJoined     = "org.joined"
	ActivityOrgLeft       = "org.left"
	ActivityMemberRemoved = "member.removed"
	ActivityPostCreated   = "post.created"
	ActivityPostDeleted   = "post.deleted"
)

// ActivityEvent is the wire format for activity records on JetStream.
type ActivityEvent struct {
	V              int    `msgpack:"v"`
	TS             int64  `msgpack:"ts"`
	Type           string `msgpack:"type"`
	ActorID        string `msgpack:"actor_id"`
	OrganizationID string `msgpack:"organization_id"`
	SubjectID      string `msgpack:"subject_id,omitempty"`
}

// ActivityRecord is a persisted activity_log row.
type ActivityRecord struct {
	ID             string    `db:"id" json:"id"`
	Type           string    `db:"type" json:"type"`
	ActorID        string    `db:"actor_id" json:"actor_id"`
	OrganizationID string    `db:"organization_id" json:"organization_id"`
	SubjectID      *string   `db:"subject_id" json:"subject_id,omitempty"`
	OccurredAt     time.Time `db:"occurred_at" json:"occurred_at"`
}
