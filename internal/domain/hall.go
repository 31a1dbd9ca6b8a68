package domain

import "time"

// Hall is the tenant-scoping unit: every room, allocation, waitlist entry
// and renewal belongs to exactly one hall.
type Hall struct {
	ID        int32     `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Address   string    `json:"address,omitempty"`
	CreatedOn time.Time `json:"created_on"`
}
