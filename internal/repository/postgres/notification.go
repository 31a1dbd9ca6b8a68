package postgres

import (
	"context"
	"database/sql"
	"time"

	"hallms-backend/internal/domain"
	"hallms-backend/internal/repository"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

const notificationColumns = `id, user_id, hall_id, title, message, dedupe_key, status, is_read, created_on, delivered_on`

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	// ON CONFLICT on the dedupe key makes repeat reminders for the same
	// allocation and calendar date a silent no-op.
	query := `INSERT INTO notifications (user_id, hall_id, title, message, dedupe_key, status, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (dedupe_key) DO NOTHING
	          RETURNING id`
	err := q(ctx, r.db).QueryRowContext(ctx, query,
		n.UserID, n.HallID, n.Title, n.Message, n.DedupeKey,
		domain.NotificationStatusPending, time.Now()).Scan(&n.ID)
	if err == sql.ErrNoRows {
		// Conflict path: nothing inserted, nothing to deliver.
		return nil
	}
	return err
}

func (r *notificationRepository) ListPending(ctx context.Context, limit int32) ([]domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications
	          WHERE status = $1 ORDER BY created_on ASC LIMIT $2`
	rows, err := q(ctx, r.db).QueryContext(ctx, query, domain.NotificationStatusPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectNotifications(rows)
}

func (r *notificationRepository) MarkDelivered(ctx context.Context, id int32) error {
	_, err := q(ctx, r.db).ExecContext(ctx,
		`UPDATE notifications SET status = $1, delivered_on = $2 WHERE id = $3`,
		domain.NotificationStatusDelivered, time.Now(), id)
	return err
}

func (r *notificationRepository) MarkFailed(ctx context.Context, id int32) error {
	_, err := q(ctx, r.db).ExecContext(ctx,
		`UPDATE notifications SET status = $1 WHERE id = $2`,
		domain.NotificationStatusFailed, id)
	return err
}

func (r *notificationRepository) ListForUser(ctx context.Context, userID, hallID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	offset := (page - 1) * pageSize
	base := `FROM notifications WHERE hall_id = $1 AND (user_id = $2 OR user_id IS NULL)`

	var count int32
	if err := q(ctx, r.db).QueryRowContext(ctx, `SELECT count(*) `+base, hallID, userID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + notificationColumns + ` ` + base + ` ORDER BY created_on DESC LIMIT $3 OFFSET $4`
	rows, err := q(ctx, r.db).QueryContext(ctx, query, hallID, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	notes, err := collectNotifications(rows)
	if err != nil {
		return nil, 0, err
	}
	return notes, count, nil
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID int32) error {
	_, err := q(ctx, r.db).ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	return err
}

func collectNotifications(rows *sql.Rows) ([]domain.Notification, error) {
	var notes []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.HallID, &n.Title, &n.Message,
			&n.DedupeKey, &n.Status, &n.IsRead, &n.CreatedOn, &n.DeliveredOn); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
