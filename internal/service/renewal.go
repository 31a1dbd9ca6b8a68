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

// RenewalPolicy bundles the tunables of the renewal lifecycle.
type RenewalPolicy struct {
	WindowDays          int // renewals may be filed at most this many days before expiry
	DefaultExtendMonths int
	MaxExtendMonths     int
	ResidencyYears      int
}

type renewalService struct {
	txm      repository.TxManager
	renewals repository.RenewalRepository
	allocs   repository.AllocationRepository
	users    repository.UserRepository
	notes    repository.NotificationRepository
	clock    clock.Clock
	policy   RenewalPolicy
}

func NewRenewalService(
	txm repository.TxManager,
	renewals repository.RenewalRepository,
	allocs repository.AllocationRepository,
	users repository.UserRepository,
	notes repository.NotificationRepository,
	clk clock.Clock,
	policy RenewalPolicy,
) RenewalService {
	return &renewalService{
		txm:      txm,
		renewals: renewals,
		allocs:   allocs,
		users:    users,
		notes:    notes,
		clock:    clk,
		policy:   policy,
	}
}

func (s *renewalService) Submit(ctx context.Context, studentID, hallID int32, academicYear, attachmentKey string) (*domain.Renewal, error) {
	if strings.TrimSpace(attachmentKey) == "" {
		return nil, ErrAttachmentRequired
	}
	ay, err := domain.ParseAcademicYear(academicYear)
	if err != nil {
		return nil, Validationf("invalid academic year: %v", err)
	}

	var renewal *domain.Renewal
	txErr := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		alloc, err := s.allocs.GetSeatedByStudent(ctx, studentID)
		if err != nil {
			return Internal(err)
		}
		if alloc == nil || alloc.HallID != hallID {
			return ErrAllocationNotFound
		}

		student, err := s.users.GetByID(ctx, studentID)
		if err != nil {
			return Internal(err)
		}
		session := ""
		if student != nil {
			session = student.Session
		}
		expiry := effectiveExpiry(alloc, session, s.policy.ResidencyYears)
		if expiry == nil {
			return ErrExpiryUndetermined
		}

		days := domain.DaysUntil(s.clock.Now(), *expiry)
		if days > s.policy.WindowDays || days < 0 {
			return ErrRenewalWindowClosed
		}

		if decided, err := s.renewals.GetDecidedByAllocationYear(ctx, alloc.ID, ay.Start); err != nil {
			return Internal(err)
		} else if decided != nil {
			return ErrRenewalAlreadyDecided
		}

		// A still-open request for the same year is superseded in place
		// rather than duplicated.
		open, err := s.renewals.GetOpenByAllocationYear(ctx, alloc.ID, ay.Start)
		if err != nil {
			return Internal(err)
		}
		if open != nil {
			open.AcademicYear = academicYear
			open.AttachmentKey = attachmentKey
			open.ApplicationDate = s.clock.Now()
			open.Status = domain.RenewalStatusPending
			if err := s.renewals.Update(ctx, open); err != nil {
				return Internal(err)
			}
			renewal = open
		} else {
			renewal = &domain.Renewal{
				HallID:        hallID,
				StudentID:     studentID,
				AllocationID:  alloc.ID,
				AcademicYear:  academicYear,
				YearStart:     ay.Start,
				YearEnd:       ay.End,
				Status:        domain.RenewalStatusPending,
				AttachmentKey: attachmentKey,
			}
			if err := s.renewals.Create(ctx, renewal); err != nil {
				return Internal(err)
			}
			renewal.ApplicationDate = s.clock.Now()
		}

		// Broadcast so the hall office sees the new request.
		return s.queueNote(ctx, nil, hallID, "Renewal Submitted",
			fmt.Sprintf("A seat renewal request for %s awaits review.", ay.String()), nil)
	})
	if txErr != nil {
		return nil, txErr
	}
	return renewal, nil
}

func (s *renewalService) Decide(ctx context.Context, hallID, renewalID int32, status domain.RenewalStatus, reviewedBy int32, note string, extendMonths int) (*domain.Renewal, error) {
	switch status {
	case domain.RenewalStatusUnderReview, domain.RenewalStatusApproved, domain.RenewalStatusRejected:
	default:
		return nil, ErrInvalidStatus
	}
	if extendMonths == 0 {
		extendMonths = s.policy.DefaultExtendMonths
	}
	if extendMonths < 0 || extendMonths > s.policy.MaxExtendMonths {
		return nil, ErrExtendTooLarge
	}

	var renewal *domain.Renewal
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		renewal, err = s.renewals.GetByID(ctx, hallID, renewalID)
		if err != nil {
			return Internal(err)
		}
		if renewal == nil {
			return ErrRenewalNotFound
		}
		if !renewal.Status.Open() {
			return ErrRenewalAlreadyDecided
		}

		now := s.clock.Now()
		renewal.Status = status
		renewal.ReviewedBy = &reviewedBy
		renewal.ReviewedAt = &now
		if note != "" {
			renewal.Remarks = appendRemark(renewal.Remarks, now.Format("2006-01-02"), reviewedBy, note)
		}

		switch status {
		case domain.RenewalStatusApproved:
			alloc, err := s.allocs.GetByIDForUpdate(ctx, hallID, renewal.AllocationID)
			if err != nil {
				return Internal(err)
			}
			if alloc == nil {
				return ErrAllocationNotFound
			}
			if alloc.Status != domain.AllocationStatusSeated {
				return ErrAllocationNotModifiable
			}

			student, err := s.users.GetByID(ctx, renewal.StudentID)
			if err != nil {
				return Internal(err)
			}
			session := ""
			if student != nil {
				session = student.Session
			}
			// The extension is anchored on the current effective expiry,
			// not on the decision date.
			expiry := effectiveExpiry(alloc, session, s.policy.ResidencyYears)
			if expiry == nil {
				return ErrExpiryUndetermined
			}
			newEnd := domain.AddMonthsClamped(*expiry, extendMonths)
			alloc.EndDate = &newEnd
			if err := s.allocs.Update(ctx, alloc); err != nil {
				return Internal(err)
			}

			renewal.ApprovedAt = &now
			if err := s.queueNote(ctx, &renewal.StudentID, hallID, "Renewal Approved",
				fmt.Sprintf("Your residency has been extended until %s.", newEnd.Format("2006-01-02")), nil); err != nil {
				return err
			}

		case domain.RenewalStatusRejected:
			renewal.RejectionReason = note
			if err := s.queueNote(ctx, &renewal.StudentID, hallID, "Renewal Rejected",
				"Your seat renewal request has been rejected.", nil); err != nil {
				return err
			}
		}

		if err := s.renewals.Update(ctx, renewal); err != nil {
			return Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return renewal, nil
}

func (s *renewalService) ListByHall(ctx context.Context, hallID int32, status string, page, pageSize int32) ([]domain.Renewal, int32, error) {
	renewals, count, err := s.renewals.ListByHall(ctx, hallID, domain.RenewalStatus(status), page, pageSize)
	if err != nil {
		return nil, 0, Internal(err)
	}
	return renewals, count, nil
}

func (s *renewalService) ListMine(ctx context.Context, studentID int32) ([]domain.Renewal, error) {
	renewals, err := s.renewals.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, Internal(err)
	}
	return renewals, nil
}

func (s *renewalService) queueNote(ctx context.Context, userID *int32, hallID int32, title, message string, dedupeKey *string) error {
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

// appendRemark adds one dated admin note to the running remarks log.
func appendRemark(remarks, date string, reviewerID int32, note string) string {
	line := fmt.Sprintf("[%s #%d] %s", date, reviewerID, note)
	if remarks == "" {
		return line
	}
	return remarks + "\n" + line
}

// effectiveExpiry mirrors the Allocation Manager's expiry computation for
// callers that already hold the student's session label.
func effectiveExpiry(a *domain.Allocation, session string, residencyYears int) *time.Time {
	sessionStart := 0
	if ay, err := domain.ParseAcademicYear(session); err == nil {
		sessionStart = ay.Start
	}
	return domain.EffectiveExpiry(a.EndDate, sessionStart, a.StartDate, residencyYears)
}
