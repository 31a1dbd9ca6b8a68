package service

import (
	"context"
	"time"

	"hallms-backend/internal/domain"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

type HallService interface {
	CreateHall(ctx context.Context, hall *domain.Hall) error
	GetHall(ctx context.Context, id int32) (*domain.Hall, error)
	ListHalls(ctx context.Context) ([]domain.Hall, error)
}

type RoomService interface {
	CreateRoom(ctx context.Context, room *domain.Room) error
	UpdateRoom(ctx context.Context, room *domain.Room) error
	GetRoom(ctx context.Context, hallID, id int32) (*domain.Room, error)
	ListRooms(ctx context.Context, hallID int32, page, pageSize int32) ([]domain.Room, int32, error)
	DeleteRoom(ctx context.Context, hallID, id int32) error
}

// RoomLedger is the occupancy accounting contract. Both operations must be
// called inside an ambient transaction owned by the caller; they never
// commit on their own.
type RoomLedger interface {
	ReserveSeat(ctx context.Context, hallID, roomID int32) (*domain.Room, error)
	ReleaseSeat(ctx context.Context, hallID, roomID int32) (*domain.Room, error)
}

type AllocationService interface {
	Assign(ctx context.Context, hallID, applicationID, roomID, createdBy int32) (*domain.Allocation, error)
	ManualAssign(ctx context.Context, hallID int32, registrationNo string, roomID int32, reason string, createdBy int32) (*domain.Allocation, error)
	Move(ctx context.Context, hallID, allocationID, newRoomID, updatedBy int32) (*domain.Allocation, error)
	Vacate(ctx context.Context, hallID, allocationID int32, reason string, updatedBy int32) (*domain.Allocation, error)
	// Expire is the scheduler-only terminal transition; calling it on an
	// already-terminal allocation is a no-op.
	Expire(ctx context.Context, hallID, allocationID int32, reason string) error
	// ExtendTo moves the end date of a live allocation, scheduler-only.
	ExtendTo(ctx context.Context, hallID, allocationID int32, newEnd time.Time) (*domain.Allocation, error)
	GetAllocation(ctx context.Context, hallID, id int32) (*domain.Allocation, error)
	ListAllocations(ctx context.Context, hallID int32, status string, page, pageSize int32) ([]domain.Allocation, int32, error)
}

type WaitlistService interface {
	Enqueue(ctx context.Context, hallID, applicationID int32) (*domain.WaitlistEntry, error)
	Remove(ctx context.Context, hallID int32, entryIDs []int32, reason string) error
	// PromoteAndAssign allocates a seat for the entry's application and, in
	// the same transaction, retires the entry from the active queue.
	PromoteAndAssign(ctx context.Context, hallID, entryID, roomID, createdBy int32) (*domain.Allocation, error)
	List(ctx context.Context, hallID int32, status string, page, pageSize int32) ([]domain.WaitlistEntry, int32, error)
}

type RenewalService interface {
	Submit(ctx context.Context, studentID, hallID int32, academicYear, attachmentKey string) (*domain.Renewal, error)
	Decide(ctx context.Context, hallID, renewalID int32, status domain.RenewalStatus, reviewedBy int32, note string, extendMonths int) (*domain.Renewal, error)
	ListByHall(ctx context.Context, hallID int32, status string, page, pageSize int32) ([]domain.Renewal, int32, error)
	ListMine(ctx context.Context, studentID int32) ([]domain.Renewal, error)
}

type NotificationService interface {
	List(ctx context.Context, userID, hallID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

// EmailService delivers a single message. Failures are always non-fatal to
// the caller; the outbox dispatcher logs and retries nothing.
type EmailService interface {
	Send(ctx context.Context, to, toName, subject, body string) error
}
