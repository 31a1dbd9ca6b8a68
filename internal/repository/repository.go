package repository

import (
	"context"

	"hallms-backend/internal/domain"
)

// TxManager runs fn inside a single database transaction. The transaction
// travels in the context; repository methods pick it up transparently, so a
// service composes multi-table mutations that commit or roll back as one.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type HallRepository interface {
	Create(ctx context.Context, hall *domain.Hall) error
	GetByID(ctx context.Context, id int32) (*domain.Hall, error)
	List(ctx context.Context) ([]domain.Hall, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// GetStudentByRegistration resolves a student by registration number
	// within one hall. Returns (nil, nil) when no such student exists.
	GetStudentByRegistration(ctx context.Context, hallID int32, registrationNo string) (*domain.User, error)
}

type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	GetByID(ctx context.Context, hallID, id int32) (*domain.Room, error)
	// GetByIDForUpdate locks the room row for the rest of the transaction.
	GetByIDForUpdate(ctx context.Context, hallID, id int32) (*domain.Room, error)
	Update(ctx context.Context, room *domain.Room) error
	List(ctx context.Context, hallID int32, page, pageSize int32) ([]domain.Room, int32, error)
	Delete(ctx context.Context, hallID, id int32) error
	// CountAllocations reports how many allocation rows reference the room,
	// in any state. A referenced room must not be deleted.
	CountAllocations(ctx context.Context, roomID int32) (int32, error)
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	GetByID(ctx context.Context, hallID, id int32) (*domain.Application, error)
	GetInterview(ctx context.Context, applicationID int32) (*domain.Interview, error)
	UpdateStatus(ctx context.Context, id int32, status domain.ApplicationStatus) error
	// GetActiveForm returns the hall's open admission form, (nil, nil) if none.
	GetActiveForm(ctx context.Context, hallID int32) (*domain.AdmissionForm, error)
	GetByStudentAndForm(ctx context.Context, studentID, formID int32) (*domain.Application, error)
}

// SeatedAllocation is the scheduler's scan unit: a live allocation joined
// with the student's admission session and contact details.
type SeatedAllocation struct {
	Allocation   domain.Allocation
	Session      string
	StudentName  string
	StudentEmail string
}

type AllocationRepository interface {
	Create(ctx context.Context, a *domain.Allocation) error
	GetByID(ctx context.Context, hallID, id int32) (*domain.Allocation, error)
	GetByIDForUpdate(ctx context.Context, hallID, id int32) (*domain.Allocation, error)
	// GetSeatedByStudent returns the student's live allocation, (nil, nil)
	// if the student holds no seat.
	GetSeatedByStudent(ctx context.Context, studentID int32) (*domain.Allocation, error)
	GetSeatedByApplication(ctx context.Context, applicationID int32) (*domain.Allocation, error)
	Update(ctx context.Context, a *domain.Allocation) error
	List(ctx context.Context, hallID int32, status domain.AllocationStatus, page, pageSize int32) ([]domain.Allocation, int32, error)
	// ListSeated returns every live allocation across halls for the expiry cycle.
	ListSeated(ctx context.Context) ([]SeatedAllocation, error)
}

type WaitlistRepository interface {
	Create(ctx context.Context, e *domain.WaitlistEntry) error
	GetByID(ctx context.Context, hallID, id int32) (*domain.WaitlistEntry, error)
	// GetActiveByApplication returns (nil, nil) when the application is not
	// actively queued.
	GetActiveByApplication(ctx context.Context, applicationID int32) (*domain.WaitlistEntry, error)
	// ListActiveForUpdate locks all ACTIVE entries of a hall and returns them
	// in rank order (score desc, added_at asc, id asc). Re-ranks within a
	// hall serialize on this lock.
	ListActiveForUpdate(ctx context.Context, hallID int32) ([]domain.WaitlistEntry, error)
	// UpdatePositions assigns dense ranks 1..N to the given entry ids, in order.
	UpdatePositions(ctx context.Context, hallID int32, orderedIDs []int32) error
	Update(ctx context.Context, e *domain.WaitlistEntry) error
	List(ctx context.Context, hallID int32, status domain.WaitlistStatus, page, pageSize int32) ([]domain.WaitlistEntry, int32, error)
}

type RenewalRepository interface {
	Create(ctx context.Context, r *domain.Renewal) error
	GetByID(ctx context.Context, hallID, id int32) (*domain.Renewal, error)
	Update(ctx context.Context, r *domain.Renewal) error
	// GetOpenByAllocationYear returns the undecided renewal for the
	// (allocation, year-start) pair, (nil, nil) if none.
	GetOpenByAllocationYear(ctx context.Context, allocationID int32, yearStart int) (*domain.Renewal, error)
	// GetDecidedByAllocationYear returns the most recent APPROVED/REJECTED
	// renewal for the pair, (nil, nil) if none.
	GetDecidedByAllocationYear(ctx context.Context, allocationID int32, yearStart int) (*domain.Renewal, error)
	// LatestForCancelYear returns the most recent renewal whose normalized
	// academic year covers the cancellation year, (nil, nil) if none.
	LatestForCancelYear(ctx context.Context, allocationID int32, cancelYear int) (*domain.Renewal, error)
	ListByHall(ctx context.Context, hallID int32, status domain.RenewalStatus, page, pageSize int32) ([]domain.Renewal, int32, error)
	ListByStudent(ctx context.Context, studentID int32) ([]domain.Renewal, error)
}

type NotificationRepository interface {
	// Create inserts an outbox row. When the row carries a dedupe key that
	// already exists, the insert is silently skipped.
	Create(ctx context.Context, n *domain.Notification) error
	ListPending(ctx context.Context, limit int32) ([]domain.Notification, error)
	MarkDelivered(ctx context.Context, id int32) error
	MarkFailed(ctx context.Context, id int32) error
	ListForUser(ctx context.Context, userID, hallID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}
