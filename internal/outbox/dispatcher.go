// Package outbox drains notification rows written by the services into
// delivery channels. Rows are created inside business transactions; the
// dispatcher only ever runs after those transactions have committed, so a
// delivery failure can never undo a seat change.
package outbox

import (
	"context"
	"time"

	"hallms-backend/internal/logger"
	"hallms-backend/internal/repository"
	"hallms-backend/internal/service"
)

const defaultBatchSize = 100

type Dispatcher struct {
	notes  repository.NotificationRepository
	users  repository.UserRepository
	sender service.EmailService
	// interval between drain passes
	interval time.Duration
	batch    int32
}

func NewDispatcher(notes repository.NotificationRepository, users repository.UserRepository, sender service.EmailService, interval time.Duration) *Dispatcher {
	return &Dispatcher{
		notes:    notes,
		users:    users,
		sender:   sender,
		interval: interval,
		batch:    defaultBatchSize,
	}
}

// Start drains the outbox on a fixed interval until ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	log := logger.WithService("outbox")
	go func() {
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Info("outbox dispatcher stopped")
				return
			case <-ticker.C:
				d.Drain(ctx)
			}
		}
	}()
	log.Info("outbox dispatcher started", "interval", d.interval.String())
}

// Drain runs a single delivery pass. Errors are logged and never propagated;
// a failed row is marked FAILED and the pass moves on.
func (d *Dispatcher) Drain(ctx context.Context) {
	log := logger.WithService("outbox")

	pending, err := d.notes.ListPending(ctx, d.batch)
	if err != nil {
		log.Error("failed to list pending notifications", "error", err)
		return
	}

	for _, n := range pending {
		// Broadcast rows have no recipient address; they live as in-app
		// notices only.
		if n.UserID == nil {
			if err := d.notes.MarkDelivered(ctx, n.ID); err != nil {
				log.Error("failed to mark notification delivered", "notification_id", n.ID, "error", err)
			}
			continue
		}

		user, err := d.users.GetByID(ctx, *n.UserID)
		if err != nil || user == nil {
			log.Error("failed to resolve notification recipient", "notification_id", n.ID, "user_id", *n.UserID, "error", err)
			if err := d.notes.MarkFailed(ctx, n.ID); err != nil {
				log.Error("failed to mark notification failed", "notification_id", n.ID, "error", err)
			}
			continue
		}

		if err := d.sender.Send(ctx, user.Email, user.Name, n.Title, n.Message); err != nil {
			log.Error("email delivery failed", "notification_id", n.ID, "user_id", user.ID, "error", err)
			if err := d.notes.MarkFailed(ctx, n.ID); err != nil {
				log.Error("failed to mark notification failed", "notification_id", n.ID, "error", err)
			}
			continue
		}

		if err := d.notes.MarkDelivered(ctx, n.ID); err != nil {
			log.Error("failed to mark notification delivered", "notification_id", n.ID, "error", err)
		}
	}

	if len(pending) > 0 {
		log.Info("outbox drain pass complete", "processed", len(pending))
	}
}
