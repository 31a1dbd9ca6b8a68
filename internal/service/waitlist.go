package service

import (
	"context"
	"sort"

	"hallms-backend/internal/clock"
	"hallms-backend/internal/domain"
	"hallms-backend/internal/repository"
)

type waitlistService struct {
	txm      repository.TxManager
	waitlist repository.WaitlistRepository
	apps     repository.ApplicationRepository
	allocs   repository.AllocationRepository
	allocSvc AllocationService
	clock    clock.Clock
}

func NewWaitlistService(
	txm repository.TxManager,
	waitlist repository.WaitlistRepository,
	apps repository.ApplicationRepository,
	allocs repository.AllocationRepository,
	allocSvc AllocationService,
	clk clock.Clock,
) WaitlistService {
	return &waitlistService{
		txm:      txm,
		waitlist: waitlist,
		apps:     apps,
		allocs:   allocs,
		allocSvc: allocSvc,
		clock:    clk,
	}
}

func (s *waitlistService) Enqueue(ctx context.Context, hallID, applicationID int32) (*domain.WaitlistEntry, error) {
	var entry *domain.WaitlistEntry
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		app, err := s.apps.GetByID(ctx, hallID, applicationID)
		if err != nil {
			return Internal(err)
		}
		if app == nil {
			return ErrApplicationNotFound
		}

		if queued, err := s.waitlist.GetActiveByApplication(ctx, app.ID); err != nil {
			return Internal(err)
		} else if queued != nil {
			return ErrAlreadyQueued
		}
		if seated, err := s.allocs.GetSeatedByStudent(ctx, app.StudentID); err != nil {
			return Internal(err)
		} else if seated != nil {
			return ErrSeatAlreadyAllocated
		}

		// Queue score is the admission score plus the interview score; an
		// unscored interview simply contributes nothing.
		score := app.Score
		if iv, err := s.apps.GetInterview(ctx, app.ID); err != nil {
			return Internal(err)
		} else if iv != nil && iv.Score != nil {
			score += *iv.Score
		}

		// Locking the hall's active rows serializes every re-rank in the
		// hall, so two concurrent enqueues cannot interleave.
		active, err := s.waitlist.ListActiveForUpdate(ctx, hallID)
		if err != nil {
			return Internal(err)
		}

		entry = &domain.WaitlistEntry{
			HallID:        hallID,
			ApplicationID: app.ID,
			StudentID:     app.StudentID,
			Score:         score,
			Status:        domain.WaitlistStatusActive,
			AddedAt:       s.clock.Now(),
		}
		if err := s.waitlist.Create(ctx, entry); err != nil {
			return Internal(err)
		}

		return s.reRank(ctx, hallID, append(active, *entry))
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *waitlistService) Remove(ctx context.Context, hallID int32, entryIDs []int32, reason string) error {
	if len(entryIDs) == 0 {
		return Validationf("no waitlist entries given")
	}
	return s.txm.WithinTx(ctx, func(ctx context.Context) error {
		active, err := s.waitlist.ListActiveForUpdate(ctx, hallID)
		if err != nil {
			return Internal(err)
		}
		activeByID := make(map[int32]*domain.WaitlistEntry, len(active))
		for i := range active {
			activeByID[active[i].ID] = &active[i]
		}

		now := s.clock.Now()
		removed := make(map[int32]bool, len(entryIDs))
		for _, id := range entryIDs {
			e, ok := activeByID[id]
			if !ok {
				return ErrWaitlistEntryNotFound
			}
			e.Status = domain.WaitlistStatusDeleted
			e.Position = nil
			e.RemovedAt = &now
			e.RemovalReason = reason
			if err := s.waitlist.Update(ctx, e); err != nil {
				return Internal(err)
			}
			removed[id] = true
		}

		var remaining []domain.WaitlistEntry
		for _, e := range active {
			if !removed[e.ID] {
				remaining = append(remaining, e)
			}
		}
		return s.reRank(ctx, hallID, remaining)
	})
}

func (s *waitlistService) PromoteAndAssign(ctx context.Context, hallID, entryID, roomID, createdBy int32) (*domain.Allocation, error) {
	var alloc *domain.Allocation
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		active, err := s.waitlist.ListActiveForUpdate(ctx, hallID)
		if err != nil {
			return Internal(err)
		}
		var entry *domain.WaitlistEntry
		for i := range active {
			if active[i].ID == entryID {
				entry = &active[i]
				break
			}
		}
		if entry == nil {
			return ErrWaitlistEntryNotFound
		}

		// Allocate first; the entry leaves the queue only if the seat grant
		// succeeded, and both land in the same transaction.
		alloc, err = s.allocSvc.Assign(ctx, hallID, entry.ApplicationID, roomID, createdBy)
		if err != nil {
			return err
		}

		entry.Status = domain.WaitlistStatusInactive
		entry.Position = nil
		if err := s.waitlist.Update(ctx, entry); err != nil {
			return Internal(err)
		}

		var remaining []domain.WaitlistEntry
		for _, e := range active {
			if e.ID != entryID {
				remaining = append(remaining, e)
			}
		}
		return s.reRank(ctx, hallID, remaining)
	})
	if err != nil {
		return nil, err
	}
	return alloc, nil
}

func (s *waitlistService) List(ctx context.Context, hallID int32, status string, page, pageSize int32) ([]domain.WaitlistEntry, int32, error) {
	entries, count, err := s.waitlist.List(ctx, hallID, domain.WaitlistStatus(status), page, pageSize)
	if err != nil {
		return nil, 0, Internal(err)
	}
	return entries, count, nil
}

// reRank assigns dense positions 1..N to the hall's active entries ordered
// by (score desc, added_at asc, id asc). Callers must hold the hall's
// waitlist lock.
func (s *waitlistService) reRank(ctx context.Context, hallID int32, active []domain.WaitlistEntry) error {
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Before(&active[j])
	})
	ids := make([]int32, len(active))
	for i := range active {
		ids[i] = active[i].ID
	}
	if err := s.waitlist.UpdatePositions(ctx, hallID, ids); err != nil {
		return Internal(err)
	}
	return nil
}
