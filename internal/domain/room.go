package domain

import "time"

type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "AVAILABLE"
	RoomStatusOccupied    RoomStatus = "OCCUPIED"
	RoomStatusMaintenance RoomStatus = "MAINTENANCE"
	RoomStatusUnderRepair RoomStatus = "UNDER_REPAIR"
	RoomStatusReserved    RoomStatus = "RESERVED"
)

type Room struct {
	ID               int32      `json:"id"`
	HallID           int32      `json:"hall_id"`
	RoomNumber       string     `json:"room_number"`
	FloorNumber      int32      `json:"floor_number"`
	Capacity         int32      `json:"capacity"`
	CurrentOccupancy int32      `json:"current_occupancy"`
	RoomType         string     `json:"room_type"`
	Status           RoomStatus `json:"status"`
	CreatedOn        time.Time  `json:"created_on"`
	UpdatedOn        time.Time  `json:"updated_on"`
}

// Allocatable reports whether a seat may be taken in this room.
// MAINTENANCE, UNDER_REPAIR and RESERVED are administrative overrides
// that occupancy accounting never touches.
func (r *Room) Allocatable() bool {
	return r.Status == RoomStatusAvailable || r.Status == RoomStatusOccupied
}

// RecomputeStatus derives AVAILABLE/OCCUPIED from occupancy vs capacity.
// Administrative statuses are left as-is.
func (r *Room) RecomputeStatus() {
	if !r.Allocatable() {
		return
	}
	if r.CurrentOccupancy >= r.Capacity {
		r.Status = RoomStatusOccupied
	} else {
		r.Status = RoomStatusAvailable
	}
}
