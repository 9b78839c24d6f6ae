package models

import "time"

type Organization struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// OrganizationWithMembers is the list-my-organizations shape: the
// organization plus every membership row it currently has.
type OrganizationWithMembers struct {
	Organization
	Members []Membership `json:"members"`
}

type CreateOrganizationInput struct {
	Name string `json:"name"`
}
