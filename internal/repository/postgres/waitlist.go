package postgres

import (
	"context"
	"database/sql"
	"time"

	"hallms-backend/internal/domain"
	"hallms-backend/internal/repository"
)

type waitlistRepository struct {
	db *sql.DB
}

func NewWaitlistRepository(db *sql.DB) repository.WaitlistRepository {
	return &waitlistRepository{db: db}
}

const waitlistColumns = `id, hall_id, application_id, student_id, position, score, status, added_at, removed_at, removal_reason`

func scanWaitlistEntry(row *sql.Row) (*domain.WaitlistEntry, error) {
	e := &domain.WaitlistEntry{}
	err := row.Scan(&e.ID, &e.HallID, &e.ApplicationID, &e.StudentID, &e.Position,
		&e.Score, &e.Status, &e.AddedAt, &e.RemovedAt, &e.RemovalReason)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *waitlistRepository) Create(ctx context.Context, e *domain.WaitlistEntry) error {
	query := `INSERT INTO waitlist_entries (hall_id, application_id, student_id, position, score, status, added_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	return q(ctx, r.db).QueryRowContext(ctx, query,
		e.HallID, e.ApplicationID, e.StudentID, e.Position, e.Score, e.Status, time.Now()).Scan(&e.ID)
}

func (r *waitlistRepository) GetByID(ctx context.Context, hallID, id int32) (*domain.WaitlistEntry, error) {
	query := `SELECT ` + waitlistColumns + ` FROM waitlist_entries WHERE id = $1 AND hall_id = $2`
	return scanWaitlistEntry(q(ctx, r.db).QueryRowContext(ctx, query, id, hallID))
}

func (r *waitlistRepository) GetActiveByApplication(ctx context.Context, applicationID int32) (*domain.WaitlistEntry, error) {
	query := `SELECT ` + waitlistColumns + ` FROM waitlist_entries
	          WHERE application_id = $1 AND status = $2`
	return scanWaitlistEntry(q(ctx, r.db).QueryRowContext(ctx, query, applicationID, domain.WaitlistStatusActive))
}

func (r *waitlistRepository) ListActiveForUpdate(ctx context.Context, hallID int32) ([]domain.WaitlistEntry, error) {
	query := `SELECT ` + waitlistColumns + ` FROM waitlist_entries
	          WHERE hall_id = $1 AND status = $2
	          ORDER BY score DESC, added_at ASC, id ASC
	          FOR UPDATE`
	rows, err := q(ctx, r.db).QueryContext(ctx, query, hallID, domain.WaitlistStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.WaitlistEntry
	for rows.Next() {
		var e domain.WaitlistEntry
		if err := rows.Scan(&e.ID, &e.HallID, &e.ApplicationID, &e.StudentID, &e.Position,
			&e.Score, &e.Status, &e.AddedAt, &e.RemovedAt, &e.RemovalReason); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// UpdatePositions writes dense ranks 1..N in the order given. Positions are
// cleared first so a reorder never trips the per-hall uniqueness constraint
// mid-update.
func (r *waitlistRepository) UpdatePositions(ctx context.Context, hallID int32, orderedIDs []int32) error {
	db := q(ctx, r.db)
	if _, err := db.ExecContext(ctx,
		`UPDATE waitlist_entries SET position = NULL WHERE hall_id = $1 AND status = $2`,
		hallID, domain.WaitlistStatusActive); err != nil {
		return err
	}
	for i, id := range orderedIDs {
		if _, err := db.ExecContext(ctx,
			`UPDATE waitlist_entries SET position = $1 WHERE id = $2 AND hall_id = $3`,
			i+1, id, hallID); err != nil {
			return err
		}
	}
	return nil
}

func (r *waitlistRepository) Update(ctx context.Context, e *domain.WaitlistEntry) error {
	query := `UPDATE waitlist_entries SET position=$1, score=$2, status=$3, removed_at=$4, removal_reason=$5
	          WHERE id=$6 AND hall_id=$7`
	_, err := q(ctx, r.db).ExecContext(ctx, query,
		e.Position, e.Score, e.Status, e.RemovedAt, e.RemovalReason, e.ID, e.HallID)
	return err
}

func (r *waitlistRepository) List(ctx context.Context, hallID int32, status domain.WaitlistStatus, page, pageSize int32) ([]domain.WaitlistEntry, int32, error) {
	offset := (page - 1) * pageSize
	base := `FROM waitlist_entries WHERE hall_id = $1`
	args := []interface{}{hallID}
	if status != "" {
		base += ` AND status = $2`
		args = append(args, status)
	}

	var count int32
	if err := q(ctx, r.db).QueryRowContext(ctx, `SELECT count(*) `+base, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + waitlistColumns + ` ` + base + ` ORDER BY position ASC NULLS LAST, added_at ASC`
	if status != "" {
		query += ` LIMIT $3 OFFSET $4`
	} else {
		query += ` LIMIT $2 OFFSET $3`
	}
	args = append(args, pageSize, offset)

	rows, err := q(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []domain.WaitlistEntry
	for rows.Next() {
		var e domain.WaitlistEntry
		if err := rows.Scan(&e.ID, &e.HallID, &e.ApplicationID, &e.StudentID, &e.Position,
			&e.Score, &e.Status, &e.AddedAt, &e.RemovedAt, &e.RemovalReason); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, count, rows.Err()
}
