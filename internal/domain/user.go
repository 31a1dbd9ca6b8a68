package domain

import "time"

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleStudent Role = "STUDENT"
)

type User struct {
	ID           int32  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	HallID       *int32 `json:"hall_id,omitempty"`
	// RegistrationNo is the university registration number, unique within a
	// hall. Manual allocation resolves students by this value.
	RegistrationNo string `json:"registration_no,omitempty"`
	// Session is the admission cohort label as entered by the registry,
	// e.g. "2021-2022". The seat expiry horizon derives from its start year.
	Session   string    `json:"session,omitempty"`
	CreatedOn time.Time `json:"created_on"`
}
