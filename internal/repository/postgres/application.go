package postgres

import (
	"context"
	"database/sql"
	"time"

	"hallms-backend/internal/domain"
	"hallms-backend/internal/repository"
)

type applicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) repository.ApplicationRepository {
	return &applicationRepository{db: db}
}

const applicationColumns = `id, hall_id, form_id, student_id, score, status, created_on`

func scanApplication(row *sql.Row) (*domain.Application, error) {
	a := &domain.Application{}
	err := row.Scan(&a.ID, &a.HallID, &a.FormID, &a.StudentID, &a.Score, &a.Status, &a.CreatedOn)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *applicationRepository) Create(ctx context.Context, app *domain.Application) error {
	query := `INSERT INTO applications (hall_id, form_id, student_id, score, status, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return q(ctx, r.db).QueryRowContext(ctx, query,
		app.HallID, app.FormID, app.StudentID, app.Score, app.Status, time.Now()).Scan(&app.ID)
}

func (r *applicationRepository) GetByID(ctx context.Context, hallID, id int32) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1 AND hall_id = $2`
	return scanApplication(q(ctx, r.db).QueryRowContext(ctx, query, id, hallID))
}

func (r *applicationRepository) GetInterview(ctx context.Context, applicationID int32) (*domain.Interview, error) {
	iv := &domain.Interview{}
	query := `SELECT id, application_id, score, status, interviewed_at FROM interviews WHERE application_id = $1`
	err := q(ctx, r.db).QueryRowContext(ctx, query, applicationID).
		Scan(&iv.ID, &iv.ApplicationID, &iv.Score, &iv.Status, &iv.InterviewedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return iv, nil
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id int32, status domain.ApplicationStatus) error {
	_, err := q(ctx, r.db).ExecContext(ctx, `UPDATE applications SET status = $1 WHERE id = $2`, status, id)
	return err
}

func (r *applicationRepository) GetActiveForm(ctx context.Context, hallID int32) (*domain.AdmissionForm, error) {
	f := &domain.AdmissionForm{}
	query := `SELECT id, hall_id, title, academic_year, status, created_on FROM admission_forms
	          WHERE hall_id = $1 AND status = $2 ORDER BY created_on DESC LIMIT 1`
	err := q(ctx, r.db).QueryRowContext(ctx, query, hallID, domain.FormStatusActive).
		Scan(&f.ID, &f.HallID, &f.Title, &f.AcademicYear, &f.Status, &f.CreatedOn)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *applicationRepository) GetByStudentAndForm(ctx context.Context, studentID, formID int32) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE student_id = $1 AND form_id = $2`
	return scanApplication(q(ctx, r.db).QueryRowContext(ctx, query, studentID, formID))
}
