package domain

import "time"

type AllocationStatus string

const (
	// AllocationStatusSeated is the single live state. The legacy system
	// carried two interchangeable labels (ALLOCATED and ACTIVE) for a seated
	// student; they are collapsed here and accepted as synonyms on input.
	AllocationStatusSeated  AllocationStatus = "SEATED"
	AllocationStatusVacated AllocationStatus = "VACATED"
	AllocationStatusExpired AllocationStatus = "EXPIRED"
)

// Terminal reports whether the allocation can no longer change.
func (s AllocationStatus) Terminal() bool {
	return s == AllocationStatusVacated || s == AllocationStatusExpired
}

// NormalizeAllocationStatus maps legacy status labels onto the current set.
// Unknown labels pass through untouched so filters fail loudly downstream.
func NormalizeAllocationStatus(s string) AllocationStatus {
	switch s {
	case "ALLOCATED", "ACTIVE", string(AllocationStatusSeated):
		return AllocationStatusSeated
	default:
		return AllocationStatus(s)
	}
}

// Allocation is the assignment of one student to one room for a bounded
// residency period. Rows are never deleted; terminal states are VACATED
// and EXPIRED.
type Allocation struct {
	ID             int32            `json:"id"`
	HallID         int32            `json:"hall_id"`
	StudentID      int32            `json:"student_id"`
	RoomID         int32            `json:"room_id"`
	ApplicationID  int32            `json:"application_id"`
	StartDate      *time.Time       `json:"start_date,omitempty"`
	EndDate        *time.Time       `json:"end_date,omitempty"`
	Status         AllocationStatus `json:"status"`
	VacatedDate    *time.Time       `json:"vacated_date,omitempty"`
	VacationReason string           `json:"vacation_reason,omitempty"`
	// Reason holds the justification for a manual (out-of-pipeline) grant.
	Reason    string    `json:"reason,omitempty"`
	CreatedBy int32     `json:"created_by"`
	UpdatedBy *int32    `json:"updated_by,omitempty"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}
