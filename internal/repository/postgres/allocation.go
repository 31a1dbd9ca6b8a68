package postgres

import (
	"context"
	"database/sql"
	"time"

	"hallms-backend/internal/domain"
	"hallms-backend/internal/repository"
)

type allocationRepository struct {
	db *sql.DB
}

func NewAllocationRepository(db *sql.DB) repository.AllocationRepository {
	return &allocationRepository{db: db}
}

const allocationColumns = `id, hall_id, student_id, room_id, application_id, start_date, end_date,
	status, vacated_date, vacation_reason, reason, created_by, updated_by, created_on, updated_on`

func scanAllocation(row *sql.Row) (*domain.Allocation, error) {
	a := &domain.Allocation{}
	err := row.Scan(&a.ID, &a.HallID, &a.StudentID, &a.RoomID, &a.ApplicationID,
		&a.StartDate, &a.EndDate, &a.Status, &a.VacatedDate, &a.VacationReason,
		&a.Reason, &a.CreatedBy, &a.UpdatedBy, &a.CreatedOn, &a.UpdatedOn)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *allocationRepository) Create(ctx context.Context, a *domain.Allocation) error {
	query := `INSERT INTO allocations (hall_id, student_id, room_id, application_id, start_date, end_date,
	          status, vacation_reason, reason, created_by, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	now := time.Now()
	return q(ctx, r.db).QueryRowContext(ctx, query,
		a.HallID, a.StudentID, a.RoomID, a.ApplicationID, a.StartDate, a.EndDate,
		a.Status, a.VacationReason, a.Reason, a.CreatedBy, now, now).Scan(&a.ID)
}

func (r *allocationRepository) GetByID(ctx context.Context, hallID, id int32) (*domain.Allocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM allocations WHERE id = $1 AND hall_id = $2`
	return scanAllocation(q(ctx, r.db).QueryRowContext(ctx, query, id, hallID))
}

func (r *allocationRepository) GetByIDForUpdate(ctx context.Context, hallID, id int32) (*domain.Allocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM allocations WHERE id = $1 AND hall_id = $2 FOR UPDATE`
	return scanAllocation(q(ctx, r.db).QueryRowContext(ctx, query, id, hallID))
}

func (r *allocationRepository) GetSeatedByStudent(ctx context.Context, studentID int32) (*domain.Allocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM allocations
	          WHERE student_id = $1 AND status = $2 LIMIT 1`
	return scanAllocation(q(ctx, r.db).QueryRowContext(ctx, query, studentID, domain.AllocationStatusSeated))
}

func (r *allocationRepository) GetSeatedByApplication(ctx context.Context, applicationID int32) (*domain.Allocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM allocations
	          WHERE application_id = $1 AND status = $2 LIMIT 1`
	return scanAllocation(q(ctx, r.db).QueryRowContext(ctx, query, applicationID, domain.AllocationStatusSeated))
}

func (r *allocationRepository) Update(ctx context.Context, a *domain.Allocation) error {
	query := `UPDATE allocations SET room_id=$1, start_date=$2, end_date=$3, status=$4,
	          vacated_date=$5, vacation_reason=$6, reason=$7, updated_by=$8, updated_on=$9
	          WHERE id=$10`
	_, err := q(ctx, r.db).ExecContext(ctx, query,
		a.RoomID, a.StartDate, a.EndDate, a.Status, a.VacatedDate, a.VacationReason,
		a.Reason, a.UpdatedBy, time.Now(), a.ID)
	return err
}

func (r *allocationRepository) List(ctx context.Context, hallID int32, status domain.AllocationStatus, page, pageSize int32) ([]domain.Allocation, int32, error) {
	offset := (page - 1) * pageSize
	base := `FROM allocations WHERE hall_id = $1`
	args := []interface{}{hallID}
	if status != "" {
		base += ` AND status = $2`
		args = append(args, status)
	}

	var count int32
	if err := q(ctx, r.db).QueryRowContext(ctx, `SELECT count(*) `+base, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + allocationColumns + ` ` + base
	if status != "" {
		query += ` ORDER BY created_on DESC LIMIT $3 OFFSET $4`
	} else {
		query += ` ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	}
	args = append(args, pageSize, offset)

	rows, err := q(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var allocations []domain.Allocation
	for rows.Next() {
		var a domain.Allocation
		if err := rows.Scan(&a.ID, &a.HallID, &a.StudentID, &a.RoomID, &a.ApplicationID,
			&a.StartDate, &a.EndDate, &a.Status, &a.VacatedDate, &a.VacationReason,
			&a.Reason, &a.CreatedBy, &a.UpdatedBy, &a.CreatedOn, &a.UpdatedOn); err != nil {
			return nil, 0, err
		}
		allocations = append(allocations, a)
	}
	return allocations, count, rows.Err()
}

func (r *allocationRepository) ListSeated(ctx context.Context) ([]repository.SeatedAllocation, error) {
	query := `SELECT a.id, a.hall_id, a.student_id, a.room_id, a.application_id, a.start_date, a.end_date,
	                 a.status, a.vacated_date, a.vacation_reason, a.reason, a.created_by, a.updated_by,
	                 a.created_on, a.updated_on,
	                 u.session, u.name, u.email
	          FROM allocations a
	          JOIN users u ON u.id = a.student_id
	          WHERE a.status = $1
	          ORDER BY a.id`
	rows, err := q(ctx, r.db).QueryContext(ctx, query, domain.AllocationStatusSeated)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seated []repository.SeatedAllocation
	for rows.Next() {
		var s repository.SeatedAllocation
		var session sql.NullString
		a := &s.Allocation
		if err := rows.Scan(&a.ID, &a.HallID, &a.StudentID, &a.RoomID, &a.ApplicationID,
			&a.StartDate, &a.EndDate, &a.Status, &a.VacatedDate, &a.VacationReason,
			&a.Reason, &a.CreatedBy, &a.UpdatedBy, &a.CreatedOn, &a.UpdatedOn,
			&session, &s.StudentName, &s.StudentEmail); err != nil {
			return nil, err
		}
		// A NULL cohort session is a valid state; expiry falls back to the
		// start-date rule for it.
		s.Session = session.String
		seated = append(seated, s)
	}
	return seated, rows.Err()
}
