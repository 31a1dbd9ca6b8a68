package domain

import "time"

type WaitlistStatus string

const (
	WaitlistStatusActive   WaitlistStatus = "ACTIVE"
	WaitlistStatusInactive WaitlistStatus = "INACTIVE"
	WaitlistStatusDeleted  WaitlistStatus = "DELETED"
)

// WaitlistEntry is a scored, eligible-but-unseated candidate in a hall's
// queue. Position is a dense 1..N rank over the ACTIVE entries of the hall
// only; INACTIVE and DELETED rows carry no position.
type WaitlistEntry struct {
	ID            int32          `json:"id"`
	HallID        int32          `json:"hall_id"`
	ApplicationID int32          `json:"application_id"`
	StudentID     int32          `json:"student_id"`
	Position      *int32         `json:"position,omitempty"`
	Score         float64        `json:"score"`
	Status        WaitlistStatus `json:"status"`
	AddedAt       time.Time      `json:"added_at"`
	RemovedAt     *time.Time     `json:"removed_at,omitempty"`
	RemovalReason string         `json:"removal_reason,omitempty"`
}

// Before reports whether e ranks ahead of other: higher score first,
// earlier enqueue breaks ties, entry id breaks exact ties.
func (e *WaitlistEntry) Before(other *WaitlistEntry) bool {
	if e.Score != other.Score {
		return e.Score > other.Score
	}
	if !e.AddedAt.Equal(other.AddedAt) {
		return e.AddedAt.Before(other.AddedAt)
	}
	return e.ID < other.ID
}
