package jobs

import (
	"context"
	"fmt"
	"time"

	"hallms-backend/internal/domain"
	"hallms-backend/internal/logger"
	"hallms-backend/internal/repository"
	"hallms-backend/internal/service"
)

// reminderLadder is the set of days-before-expiry on which a renewal
// reminder goes out.
var reminderLadder = []int{60, 30, 15, 7, 3, 1}

// RunExpiryCycle walks every live allocation, sends renewal reminders as the
// effective expiry approaches, and expires seats whose date has passed
// without an approved renewal. The cycle is idempotent: reminders carry
// dedupe keys and the expiry transition skips terminal allocations, so
// running it twice in one day changes nothing.
func (jr *JobRunner) RunExpiryCycle() {
	if !jr.expiryRunning.CompareAndSwap(false, true) {
		logger.Warn("Expiry cycle already running, skipping")
		return
	}
	defer jr.expiryRunning.Store(false)

	jr.runWithRecovery("RunExpiryCycle", func() {
		ctx := context.Background()

		seats, err := jr.store.ListSeated(ctx)
		if err != nil {
			logger.Error("Failed to list seated allocations", "error", err)
			return
		}

		processed, failed := 0, 0
		for _, seat := range seats {
			if err := jr.processSeat(ctx, seat); err != nil {
				logger.Error("Failed to process seat",
					"allocation_id", seat.Allocation.ID,
					"hall_id", seat.Allocation.HallID,
					"error", err)
				failed++
				continue
			}
			processed++
		}

		logger.Info("Expiry cycle finished", "processed", processed, "failed", failed)
	})
}

func (jr *JobRunner) processSeat(ctx context.Context, seat repository.SeatedAllocation) error {
	alloc := seat.Allocation

	sessionStart := 0
	if ay, err := domain.ParseAcademicYear(seat.Session); err == nil {
		sessionStart = ay.Start
	}
	cancel := domain.EffectiveExpiry(alloc.EndDate, sessionStart, alloc.StartDate, jr.config.Allocation.ResidencyYears)
	if cancel == nil {
		logger.Debug("Seat has no determinable expiry, skipping", "allocation_id", alloc.ID)
		return nil
	}

	daysLeft := domain.DaysUntil(jr.clock.Now(), *cancel)

	if daysLeft > 0 {
		for _, d := range reminderLadder {
			if daysLeft == d {
				return jr.queueReminder(ctx, alloc, *cancel, daysLeft)
			}
		}
		return nil
	}

	// Past or on the expiry date. A renewal covering the cancellation year
	// decides what happens next.
	renewal, err := jr.store.LatestForCancelYear(ctx, alloc.ID, cancel.Year())
	if err != nil {
		return err
	}

	switch {
	case renewal != nil && renewal.Status.Open():
		// Decision pending: hold the seat, nudge the hall office once a day.
		key := fmt.Sprintf("renewal-grace:alloc=%d:sent=%s", alloc.ID, jr.clock.Now().Format("2006-01-02"))
		return jr.queueNote(ctx, nil, alloc.HallID, "Renewal Decision Pending",
			fmt.Sprintf("Seat of %s expired on %s but renewal request #%d awaits a decision.",
				seat.StudentName, cancel.Format("2006-01-02"), renewal.ID), &key)

	case renewal != nil && renewal.Status == domain.RenewalStatusApproved:
		// Approval normally moves the end date at decision time; if the seat
		// still reads expired the extension was lost, so reapply it.
		newEnd := time.Date(cancel.Year()+1, time.January, 1, 0, 0, 0, 0, time.UTC)
		if _, err := jr.services.Allocation.ExtendTo(ctx, alloc.HallID, alloc.ID, newEnd); err != nil {
			return err
		}
		logger.Info("Reapplied approved renewal extension",
			"allocation_id", alloc.ID, "new_end", newEnd.Format("2006-01-02"))
		return nil

	default:
		return jr.services.Allocation.Expire(ctx, alloc.HallID, alloc.ID, service.ExpiredByScheduler)
	}
}

// queueReminder keys the dedupe on the send date, not the expiry date, so
// each ladder step gets its own reminder while reruns within a day stay
// silent.
func (jr *JobRunner) queueReminder(ctx context.Context, alloc domain.Allocation, cancel time.Time, daysLeft int) error {
	key := fmt.Sprintf("renewal-reminder:alloc=%d:sent=%s", alloc.ID, jr.clock.Now().Format("2006-01-02"))
	return jr.queueNote(ctx, &alloc.StudentID, alloc.HallID, "Residency Expiry Reminder",
		fmt.Sprintf("Your seat expires on %s (%d days left). Submit a renewal request to keep it.",
			cancel.Format("2006-01-02"), daysLeft), &key)
}

func (jr *JobRunner) queueNote(ctx context.Context, userID *int32, hallID int32, title, message string, dedupeKey *string) error {
	return jr.store.NotificationRepository.Create(ctx, &domain.Notification{
		UserID:    userID,
		HallID:    hallID,
		Title:     title,
		Message:   message,
		DedupeKey: dedupeKey,
	})
}
