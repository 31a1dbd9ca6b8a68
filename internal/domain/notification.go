package domain

import "time"

type NotificationStatus string

const (
	NotificationStatusPending   NotificationStatus = "PENDING"
	NotificationStatusDelivered NotificationStatus = "DELIVERED"
	NotificationStatusFailed    NotificationStatus = "FAILED"
)

// Notification is an outbox row. Services insert it inside the same
// transaction as the business write; the dispatcher drains PENDING rows
// after commit. A nil UserID means a hall-wide broadcast.
type Notification struct {
	ID     int32  `json:"id"`
	UserID *int32 `json:"user_id,omitempty"`
	HallID int32  `json:"hall_id"`
	Title  string `json:"title"`
	Message string `json:"message"`
	// DedupeKey suppresses duplicate sends; reminder notifications key on
	// allocation id plus calendar date so at most one goes out per day.
	DedupeKey   *string            `json:"-"`
	Status      NotificationStatus `json:"status"`
	IsRead      bool               `json:"is_read"`
	CreatedOn   time.Time          `json:"created_on"`
	DeliveredOn *time.Time         `json:"delivered_on,omitempty"`
}
