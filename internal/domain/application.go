package domain

import "time"

type FormStatus string

const (
	FormStatusActive FormStatus = "ACTIVE"
	FormStatusClosed FormStatus = "CLOSED"
)

// AdmissionForm is a hall's admission round. Applications reference one form;
// manual allocation requires the hall to have an active form.
type AdmissionForm struct {
	ID           int32      `json:"id"`
	HallID       int32      `json:"hall_id"`
	Title        string     `json:"title"`
	AcademicYear string     `json:"academic_year"`
	Status       FormStatus `json:"status"`
	CreatedOn    time.Time  `json:"created_on"`
}

type ApplicationStatus string

const (
	ApplicationStatusPending ApplicationStatus = "pending"
	// ApplicationStatusAlloted is the historical spelling used throughout the
	// admission pipeline; kept for compatibility with existing records.
	ApplicationStatusAlloted ApplicationStatus = "alloted"
	ApplicationStatusManual  ApplicationStatus = "manual"
)

// Application is a scored admission application produced by the admission
// pipeline. The allocation core treats it as read-mostly input; the only
// write-back is flipping the status to "alloted" on assignment.
type Application struct {
	ID        int32             `json:"id"`
	HallID    int32             `json:"hall_id"`
	FormID    int32             `json:"form_id"`
	StudentID int32             `json:"student_id"`
	Score     float64           `json:"score"`
	Status    ApplicationStatus `json:"status"`
	CreatedOn time.Time         `json:"created_on"`
}

type InterviewStatus string

const (
	InterviewStatusScheduled InterviewStatus = "SCHEDULED"
	InterviewStatusConfirmed InterviewStatus = "CONFIRMED"
)

type Interview struct {
	ID            int32           `json:"id"`
	ApplicationID int32           `json:"application_id"`
	Score         *float64        `json:"score,omitempty"`
	Status        InterviewStatus `json:"status"`
	InterviewedAt *time.Time      `json:"interviewed_at,omitempty"`
}

// Ready reports whether the interview qualifies the application for a seat:
// the score must be recorded and the result confirmed.
func (iv *Interview) Ready() bool {
	return iv != nil && iv.Score != nil && iv.Status == InterviewStatusConfirmed
}
