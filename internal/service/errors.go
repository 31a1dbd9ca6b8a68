package service

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a business error so the transport layer can map it
// to a response status without inspecting messages.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation" // 400
	KindAuth       ErrorKind = "auth"       // 401
	KindForbidden  ErrorKind = "forbidden"  // 403
	KindNotFound   ErrorKind = "not_found"  // 404
	KindConflict   ErrorKind = "conflict"   // 409
	KindInternal   ErrorKind = "internal"   // 500
)

// Error is a typed business error raised at the point of detection inside
// a transaction; raising one rolls the transaction back.
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.cause }

// Is makes sentinel comparison work through wrapping.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e == t || (e.Kind == t.Kind && e.Message == t.Message)
}

var (
	// Room Inventory Ledger
	ErrRoomNotFound    = &Error{Kind: KindNotFound, Message: "room not found in this hall"}
	ErrRoomFull        = &Error{Kind: KindConflict, Message: "room has no free capacity"}
	ErrRoomUnavailable = &Error{Kind: KindConflict, Message: "room status does not permit allocation"}
	ErrRoomReferenced  = &Error{Kind: KindConflict, Message: "room is referenced by allocations and cannot be deleted"}

	// Allocation Manager
	ErrApplicationNotFound     = &Error{Kind: KindNotFound, Message: "application not found in this hall"}
	ErrInterviewNotReady       = &Error{Kind: KindConflict, Message: "interview is not scored and confirmed"}
	ErrSeatAlreadyAllocated    = &Error{Kind: KindConflict, Message: "a seat is already allocated for this candidate"}
	ErrStudentNotFound         = &Error{Kind: KindNotFound, Message: "student not found in this hall"}
	ErrNoActiveForm            = &Error{Kind: KindConflict, Message: "hall has no active admission form"}
	ErrDuplicateAllocation     = &Error{Kind: KindConflict, Message: "student already holds a seat in this hall"}
	ErrAllocationNotFound      = &Error{Kind: KindNotFound, Message: "allocation not found in this hall"}
	ErrAllocationNotModifiable = &Error{Kind: KindConflict, Message: "allocation is not in a modifiable state"}

	// Waitlist Ranker
	ErrAlreadyQueued         = &Error{Kind: KindConflict, Message: "application is already on the waitlist"}
	ErrWaitlistEntryNotFound = &Error{Kind: KindNotFound, Message: "waitlist entry not found in this hall"}

	// Renewals
	ErrRenewalNotFound       = &Error{Kind: KindNotFound, Message: "renewal not found in this hall"}
	ErrInvalidStatus         = &Error{Kind: KindValidation, Message: "invalid renewal decision status"}
	ErrExtendTooLarge        = &Error{Kind: KindValidation, Message: "extension exceeds the permitted maximum"}
	ErrExpiryUndetermined    = &Error{Kind: KindConflict, Message: "allocation has no determinable expiry date"}
	ErrRenewalWindowClosed   = &Error{Kind: KindValidation, Message: "outside the renewal submission window"}
	ErrRenewalAlreadyDecided = &Error{Kind: KindConflict, Message: "a renewal for this year was already decided"}
	ErrAttachmentRequired    = &Error{Kind: KindValidation, Message: "a proof-of-payment attachment is required"}

	// Halls
	ErrHallNotFound = &Error{Kind: KindNotFound, Message: "hall not found"}

	// Auth
	ErrInvalidCredentials = &Error{Kind: KindAuth, Message: "invalid email or password"}
)

// Validationf builds a one-off validation error.
func Validationf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected failure; the detail stays server-side.
func Internal(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: KindInternal, Message: "internal error", cause: err}
}

// KindOf extracts the kind of an error, defaulting to internal.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
