package postgres

import (
	"context"
	"database/sql"
	"time"

	"hallms-backend/internal/domain"
	"hallms-backend/internal/repository"
)

type renewalRepository struct {
	db *sql.DB
}

func NewRenewalRepository(db *sql.DB) repository.RenewalRepository {
	return &renewalRepository{db: db}
}

const renewalColumns = `id, hall_id, student_id, allocation_id, academic_year, year_start, year_end,
	status, application_date, reviewed_by, reviewed_at, approved_at, rejection_reason, remarks, attachment_key`

func scanRenewal(row *sql.Row) (*domain.Renewal, error) {
	rn := &domain.Renewal{}
	err := row.Scan(&rn.ID, &rn.HallID, &rn.StudentID, &rn.AllocationID, &rn.AcademicYear,
		&rn.YearStart, &rn.YearEnd, &rn.Status, &rn.ApplicationDate, &rn.ReviewedBy,
		&rn.ReviewedAt, &rn.ApprovedAt, &rn.RejectionReason, &rn.Remarks, &rn.AttachmentKey)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rn, nil
}

func (r *renewalRepository) Create(ctx context.Context, rn *domain.Renewal) error {
	query := `INSERT INTO renewals (hall_id, student_id, allocation_id, academic_year, year_start, year_end,
	          status, application_date, remarks, attachment_key)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	return q(ctx, r.db).QueryRowContext(ctx, query,
		rn.HallID, rn.StudentID, rn.AllocationID, rn.AcademicYear, rn.YearStart, rn.YearEnd,
		rn.Status, time.Now(), rn.Remarks, rn.AttachmentKey).Scan(&rn.ID)
}

func (r *renewalRepository) GetByID(ctx context.Context, hallID, id int32) (*domain.Renewal, error) {
	query := `SELECT ` + renewalColumns + ` FROM renewals WHERE id = $1 AND hall_id = $2`
	return scanRenewal(q(ctx, r.db).QueryRowContext(ctx, query, id, hallID))
}

func (r *renewalRepository) Update(ctx context.Context, rn *domain.Renewal) error {
	query := `UPDATE renewals SET academic_year=$1, year_start=$2, year_end=$3, status=$4,
	          application_date=$5, reviewed_by=$6, reviewed_at=$7, approved_at=$8,
	          rejection_reason=$9, remarks=$10, attachment_key=$11 WHERE id=$12`
	_, err := q(ctx, r.db).ExecContext(ctx, query,
		rn.AcademicYear, rn.YearStart, rn.YearEnd, rn.Status, rn.ApplicationDate,
		rn.ReviewedBy, rn.ReviewedAt, rn.ApprovedAt, rn.RejectionReason,
		rn.Remarks, rn.AttachmentKey, rn.ID)
	return err
}

func (r *renewalRepository) GetOpenByAllocationYear(ctx context.Context, allocationID int32, yearStart int) (*domain.Renewal, error) {
	query := `SELECT ` + renewalColumns + ` FROM renewals
	          WHERE allocation_id = $1 AND year_start = $2 AND status IN ($3, $4)
	          ORDER BY application_date DESC LIMIT 1`
	return scanRenewal(q(ctx, r.db).QueryRowContext(ctx, query, allocationID, yearStart,
		domain.RenewalStatusPending, domain.RenewalStatusUnderReview))
}

func (r *renewalRepository) GetDecidedByAllocationYear(ctx context.Context, allocationID int32, yearStart int) (*domain.Renewal, error) {
	query := `SELECT ` + renewalColumns + ` FROM renewals
	          WHERE allocation_id = $1 AND year_start = $2 AND status IN ($3, $4)
	          ORDER BY application_date DESC LIMIT 1`
	return scanRenewal(q(ctx, r.db).QueryRowContext(ctx, query, allocationID, yearStart,
		domain.RenewalStatusApproved, domain.RenewalStatusRejected))
}

func (r *renewalRepository) LatestForCancelYear(ctx context.Context, allocationID int32, cancelYear int) (*domain.Renewal, error) {
	query := `SELECT ` + renewalColumns + ` FROM renewals
	          WHERE allocation_id = $1 AND (year_end = $2 OR year_start = $3)
	          ORDER BY application_date DESC LIMIT 1`
	return scanRenewal(q(ctx, r.db).QueryRowContext(ctx, query, allocationID, cancelYear, cancelYear-1))
}

func (r *renewalRepository) ListByHall(ctx context.Context, hallID int32, status domain.RenewalStatus, page, pageSize int32) ([]domain.Renewal, int32, error) {
	offset := (page - 1) * pageSize
	base := `FROM renewals WHERE hall_id = $1`
	args := []interface{}{hallID}
	if status != "" {
		base += ` AND status = $2`
		args = append(args, status)
	}

	var count int32
	if err := q(ctx, r.db).QueryRowContext(ctx, `SELECT count(*) `+base, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + renewalColumns + ` ` + base + ` ORDER BY application_date DESC`
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

	renewals, err := collectRenewals(rows)
	if err != nil {
		return nil, 0, err
	}
	return renewals, count, nil
}

func (r *renewalRepository) ListByStudent(ctx context.Context, studentID int32) ([]domain.Renewal, error) {
	query := `SELECT ` + renewalColumns + ` FROM renewals WHERE student_id = $1 ORDER BY application_date DESC`
	rows, err := q(ctx, r.db).QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRenewals(rows)
}

func collectRenewals(rows *sql.Rows) ([]domain.Renewal, error) {
	var renewals []domain.Renewal
	for rows.Next() {
		var rn domain.Renewal
		if err := rows.Scan(&rn.ID, &rn.HallID, &rn.StudentID, &rn.AllocationID, &rn.AcademicYear,
			&rn.YearStart, &rn.YearEnd, &rn.Status, &rn.ApplicationDate, &rn.ReviewedBy,
			&rn.ReviewedAt, &rn.ApprovedAt, &rn.RejectionReason, &rn.Remarks, &rn.AttachmentKey); err != nil {
			return nil, err
		}
		renewals = append(renewals, rn)
	}
	return renewals, rows.Err()
}
