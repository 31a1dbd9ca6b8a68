package postgres

import (
	"context"
	"database/sql"
	"time"

	"hallms-backend/internal/domain"
	"hallms-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, name, email, password_hash, role, hall_id, registration_no, session, created_on`

// registration_no and session are nullable: admins carry neither, and a
// student row may predate cohort entry. NULL reads back as the empty string.
func scanUser(row *sql.Row) (*domain.User, error) {
	u := &domain.User{}
	var regNo, session sql.NullString
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.HallID, &regNo, &session, &u.CreatedOn)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.RegistrationNo = regNo.String
	u.Session = session.String
	return u, nil
}

// nullIfEmpty keeps blank values out of the partial unique index on
// (hall_id, registration_no).
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (name, email, password_hash, role, hall_id, registration_no, session, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	return q(ctx, r.db).QueryRowContext(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.Role, user.HallID,
		nullIfEmpty(user.RegistrationNo), nullIfEmpty(user.Session), time.Now()).Scan(&user.ID)
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(q(ctx, r.db).QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(q(ctx, r.db).QueryRowContext(ctx, query, email))
}

func (r *userRepository) GetStudentByRegistration(ctx context.Context, hallID int32, registrationNo string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE hall_id = $1 AND registration_no = $2 AND role = $3`
	return scanUser(q(ctx, r.db).QueryRowContext(ctx, query, hallID, registrationNo, domain.RoleStudent))
}
