package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hallms-backend/internal/clock"
	"hallms-backend/internal/domain"
	"hallms-backend/internal/repository"
)

// ExpiredByScheduler is the standard reason recorded when the expiry cycle
// cancels a seat whose residency horizon passed without an approved renewal.
const ExpiredByScheduler = "seat expired: residency period ended without renewal"

type allocationService struct {
	txm    repository.TxManager
	ledger RoomLedger
	allocs repository.AllocationRepository
	apps   repository.ApplicationRepository
	users  repository.UserRepository
	notes  repository.NotificationRepository
	clock  clock.Clock
	// residencyYears is the cohort horizon: a seat granted to a student
	// admitted in session year Y expires January 1 of Y+residencyYears.
	residencyYears int
}

func NewAllocationService(
	txm repository.TxManager,
	ledger RoomLedger,
	allocs repository.AllocationRepository,
	apps repository.ApplicationRepository,
	users repository.UserRepository,
	notes repository.NotificationRepository,
	clk clock.Clock,
	residencyYears int,
) AllocationService {
	return &allocationService{
		txm:            txm,
		ledger:         ledger,
		allocs:         allocs,
		apps:           apps,
		users:          users,
		notes:          notes,
		clock:          clk,
		residencyYears: residencyYears,
	}
}

// EffectiveExpiry computes the expiry for an allocation given the student's
// admission session label, applying the service's residency horizon.
func (s *allocationService) effectiveExpiry(a *domain.Allocation, session string) *time.Time {
	sessionStart := 0
	if ay, err := domain.ParseAcademicYear(session); err == nil {
		sessionStart = ay.Start
	}
	return domain.EffectiveExpiry(a.EndDate, sessionStart, a.StartDate, s.residencyYears)
}

func (s *allocationService) Assign(ctx context.Context, hallID, applicationID, roomID, createdBy int32) (*domain.Allocation, error) {
	var alloc *domain.Allocation
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		app, err := s.apps.GetByID(ctx, hallID, applicationID)
		if err != nil {
			return Internal(err)
		}
		if app == nil {
			return ErrApplicationNotFound
		}

		iv, err := s.apps.GetInterview(ctx, app.ID)
		if err != nil {
			return Internal(err)
		}
		if !iv.Ready() {
			return ErrInterviewNotReady
		}

		if existing, err := s.allocs.GetSeatedByApplication(ctx, app.ID); err != nil {
			return Internal(err)
		} else if existing != nil {
			return ErrSeatAlreadyAllocated
		}
		if existing, err := s.allocs.GetSeatedByStudent(ctx, app.StudentID); err != nil {
			return Internal(err)
		} else if existing != nil {
			return ErrSeatAlreadyAllocated
		}

		if _, err := s.ledger.ReserveSeat(ctx, hallID, roomID); err != nil {
			return err
		}

		student, err := s.users.GetByID(ctx, app.StudentID)
		if err != nil {
			return Internal(err)
		}
		session := ""
		if student != nil {
			session = student.Session
		}

		start := s.clock.Now()
		alloc = &domain.Allocation{
			HallID:        hallID,
			StudentID:     app.StudentID,
			RoomID:        roomID,
			ApplicationID: app.ID,
			StartDate:     &start,
			Status:        domain.AllocationStatusSeated,
			CreatedBy:     createdBy,
		}
		alloc.EndDate = s.effectiveExpiry(alloc, session)

		if err := s.allocs.Create(ctx, alloc); err != nil {
			return Internal(err)
		}
		if err := s.apps.UpdateStatus(ctx, app.ID, domain.ApplicationStatusAlloted); err != nil {
			return Internal(err)
		}

		return s.queueNote(ctx, &app.StudentID, hallID, "Seat Allocated",
			fmt.Sprintf("You have been allocated a seat. Allocation #%d.", alloc.ID), nil)
	})
	if err != nil {
		return nil, err
	}
	return alloc, nil
}

func (s *allocationService) ManualAssign(ctx context.Context, hallID int32, registrationNo string, roomID int32, reason string, createdBy int32) (*domain.Allocation, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, Validationf("a justification reason is required for manual allocation")
	}

	var alloc *domain.Allocation
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		student, err := s.users.GetStudentByRegistration(ctx, hallID, registrationNo)
		if err != nil {
			return Internal(err)
		}
		if student == nil {
			return ErrStudentNotFound
		}

		if existing, err := s.allocs.GetSeatedByStudent(ctx, student.ID); err != nil {
			return Internal(err)
		} else if existing != nil {
			return ErrDuplicateAllocation
		}

		form, err := s.apps.GetActiveForm(ctx, hallID)
		if err != nil {
			return Internal(err)
		}
		if form == nil {
			return ErrNoActiveForm
		}

		// A manual grant still needs an application row to hang off; reuse
		// the student's application for the active form or synthesize a
		// minimal one.
		app, err := s.apps.GetByStudentAndForm(ctx, student.ID, form.ID)
		if err != nil {
			return Internal(err)
		}
		if app == nil {
			app = &domain.Application{
				HallID:    hallID,
				FormID:    form.ID,
				StudentID: student.ID,
				Status:    domain.ApplicationStatusManual,
			}
			if err := s.apps.Create(ctx, app); err != nil {
				return Internal(err)
			}
		}

		if _, err := s.ledger.ReserveSeat(ctx, hallID, roomID); err != nil {
			return err
		}

		start := s.clock.Now()
		alloc = &domain.Allocation{
			HallID:        hallID,
			StudentID:     student.ID,
			RoomID:        roomID,
			ApplicationID: app.ID,
			StartDate:     &start,
			Status:        domain.AllocationStatusSeated,
			Reason:        reason,
			CreatedBy:     createdBy,
		}
		alloc.EndDate = s.effectiveExpiry(alloc, student.Session)

		if err := s.allocs.Create(ctx, alloc); err != nil {
			return Internal(err)
		}
		if err := s.apps.UpdateStatus(ctx, app.ID, domain.ApplicationStatusAlloted); err != nil {
			return Internal(err)
		}

		return s.queueNote(ctx, &student.ID, hallID, "Seat Allocated",
			fmt.Sprintf("You have been allocated a seat. Allocation #%d.", alloc.ID), nil)
	})
	if err != nil {
		return nil, err
	}
	return alloc, nil
}

func (s *allocationService) Move(ctx context.Context, hallID, allocationID, newRoomID, updatedBy int32) (*domain.Allocation, error) {
	var alloc *domain.Allocation
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		alloc, err = s.allocs.GetByIDForUpdate(ctx, hallID, allocationID)
		if err != nil {
			return Internal(err)
		}
		if alloc == nil {
			return ErrAllocationNotFound
		}
		if alloc.Status != domain.AllocationStatusSeated {
			return ErrAllocationNotModifiable
		}
		if alloc.RoomID == newRoomID {
			return nil // moving into the same room is a no-op success
		}

		oldRoomID := alloc.RoomID
		if _, err := s.ledger.ReserveSeat(ctx, hallID, newRoomID); err != nil {
			return err
		}
		if _, err := s.ledger.ReleaseSeat(ctx, hallID, oldRoomID); err != nil {
			return err
		}

		alloc.RoomID = newRoomID
		alloc.UpdatedBy = &updatedBy
		if err := s.allocs.Update(ctx, alloc); err != nil {
			return Internal(err)
		}

		return s.queueNote(ctx, &alloc.StudentID, hallID, "Room Changed",
			fmt.Sprintf("Your seat has been moved to a new room. Allocation #%d.", alloc.ID), nil)
	})
	if err != nil {
		return nil, err
	}
	return alloc, nil
}

func (s *allocationService) Vacate(ctx context.Context, hallID, allocationID int32, reason string, updatedBy int32) (*domain.Allocation, error) {
	var alloc *domain.Allocation
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		alloc, err = s.allocs.GetByIDForUpdate(ctx, hallID, allocationID)
		if err != nil {
			return Internal(err)
		}
		if alloc == nil {
			return ErrAllocationNotFound
		}
		if alloc.Status != domain.AllocationStatusSeated {
			return ErrAllocationNotModifiable
		}

		now := s.clock.Now()
		alloc.Status = domain.AllocationStatusVacated
		alloc.VacatedDate = &now
		alloc.VacationReason = reason
		alloc.UpdatedBy = &updatedBy
		if err := s.allocs.Update(ctx, alloc); err != nil {
			return Internal(err)
		}
		if _, err := s.ledger.ReleaseSeat(ctx, hallID, alloc.RoomID); err != nil {
			return err
		}

		return s.queueNote(ctx, &alloc.StudentID, hallID, "Seat Vacated",
			fmt.Sprintf("Your seat allocation #%d has been vacated.", alloc.ID), nil)
	})
	if err != nil {
		return nil, err
	}
	return alloc, nil
}

func (s *allocationService) Expire(ctx context.Context, hallID, allocationID int32, reason string) error {
	return s.txm.WithinTx(ctx, func(ctx context.Context) error {
		alloc, err := s.allocs.GetByIDForUpdate(ctx, hallID, allocationID)
		if err != nil {
			return Internal(err)
		}
		if alloc == nil {
			return ErrAllocationNotFound
		}
		if alloc.Status.Terminal() {
			// Idempotent: a second expiry must not touch the seat again.
			return nil
		}

		now := s.clock.Now()
		alloc.Status = domain.AllocationStatusExpired
		alloc.VacatedDate = &now
		alloc.VacationReason = reason
		if err := s.allocs.Update(ctx, alloc); err != nil {
			return Internal(err)
		}
		if _, err := s.ledger.ReleaseSeat(ctx, hallID, alloc.RoomID); err != nil {
			return err
		}

		return s.queueNote(ctx, &alloc.StudentID, hallID, "Seat Cancelled",
			fmt.Sprintf("Your seat allocation #%d has expired: %s", alloc.ID, reason), nil)
	})
}

func (s *allocationService) ExtendTo(ctx context.Context, hallID, allocationID int32, newEnd time.Time) (*domain.Allocation, error) {
	var alloc *domain.Allocation
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		alloc, err = s.allocs.GetByIDForUpdate(ctx, hallID, allocationID)
		if err != nil {
			return Internal(err)
		}
		if alloc == nil {
			return ErrAllocationNotFound
		}
		if alloc.Status != domain.AllocationStatusSeated {
			return ErrAllocationNotModifiable
		}

		alloc.EndDate = &newEnd
		if err := s.allocs.Update(ctx, alloc); err != nil {
			return Internal(err)
		}

		return s.queueNote(ctx, &alloc.StudentID, hallID, "Residency Extended",
			fmt.Sprintf("Your seat allocation #%d now runs until %s.", alloc.ID, newEnd.Format("2006-01-02")), nil)
	})
	if err != nil {
		return nil, err
	}
	return alloc, nil
}

func (s *allocationService) GetAllocation(ctx context.Context, hallID, id int32) (*domain.Allocation, error) {
	alloc, err := s.allocs.GetByID(ctx, hallID, id)
	if err != nil {
		return nil, Internal(err)
	}
	if alloc == nil {
		return nil, ErrAllocationNotFound
	}
	return alloc, nil
}

func (s *allocationService) ListAllocations(ctx context.Context, hallID int32, status string, page, pageSize int32) ([]domain.Allocation, int32, error) {
	var st domain.AllocationStatus
	if status != "" {
		st = domain.NormalizeAllocationStatus(status)
	}
	allocations, count, err := s.allocs.List(ctx, hallID, st, page, pageSize)
	if err != nil {
		return nil, 0, Internal(err)
	}
	return allocations, count, nil
}

// queueNote writes an outbox notification inside the ambient transaction.
// It is delivered only after the transaction commits.
func (s *allocationService) queueNote(ctx context.Context, userID *int32, hallID int32, title, message string, dedupeKey *string) error {
	n := &domain.Notification{
		UserID:    userID,
		HallID:    hallID,
		Title:     title,
		Message:   message,
		DedupeKey: dedupeKey,
	}
	if err := s.notes.Create(ctx, n); err != nil {
		return Internal(err)
	}
	return nil
}
