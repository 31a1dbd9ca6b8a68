package domain

import "time"

type RenewalStatus string

const (
	RenewalStatusPending     RenewalStatus = "PENDING"
	RenewalStatusUnderReview RenewalStatus = "UNDER_REVIEW"
	RenewalStatusApproved    RenewalStatus = "APPROVED"
	RenewalStatusRejected    RenewalStatus = "REJECTED"
)

// Open reports whether the renewal still awaits an admin decision.
func (s RenewalStatus) Open() bool {
	return s == RenewalStatusPending || s == RenewalStatusUnderReview
}

// Renewal is a student's request to extend residency beyond the effective
// expiry. The academic year is stored both as the raw label the student
// entered and as a normalized (start, end) year pair used for matching.
type Renewal struct {
	ID              int32         `json:"id"`
	HallID          int32         `json:"hall_id"`
	StudentID       int32         `json:"student_id"`
	AllocationID    int32         `json:"allocation_id"`
	AcademicYear    string        `json:"academic_year"`
	YearStart       int           `json:"year_start"`
	YearEnd         int           `json:"year_end"`
	Status          RenewalStatus `json:"status"`
	ApplicationDate time.Time     `json:"application_date"`
	ReviewedBy      *int32        `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time    `json:"reviewed_at,omitempty"`
	ApprovedAt      *time.Time    `json:"approved_at,omitempty"`
	RejectionReason string        `json:"rejection_reason,omitempty"`
	// Remarks is a running log: each admin note is appended, never overwritten.
	Remarks       string `json:"remarks,omitempty"`
	AttachmentKey string `json:"attachment_key,omitempty"`
}
