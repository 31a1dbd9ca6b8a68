package postgres

import (
	"context"
	"database/sql"
	"time"

	"hallms-backend/internal/domain"
	"hallms-backend/internal/repository"
)

type hallRepository struct {
	db *sql.DB
}

func NewHallRepository(db *sql.DB) repository.HallRepository {
	return &hallRepository{db: db}
}

func (r *hallRepository) Create(ctx context.Context, hall *domain.Hall) error {
	query := `INSERT INTO halls (name, code, address, created_on) VALUES ($1, $2, $3, $4) RETURNING id`
	return q(ctx, r.db).QueryRowContext(ctx, query, hall.Name, hall.Code, hall.Address, time.Now()).Scan(&hall.ID)
}

func (r *hallRepository) GetByID(ctx context.Context, id int32) (*domain.Hall, error) {
	h := &domain.Hall{}
	query := `SELECT id, name, code, address, created_on FROM halls WHERE id = $1`
	err := q(ctx, r.db).QueryRowContext(ctx, query, id).Scan(&h.ID, &h.Name, &h.Code, &h.Address, &h.CreatedOn)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (r *hallRepository) List(ctx context.Context) ([]domain.Hall, error) {
	query := `SELECT id, name, code, address, created_on FROM halls ORDER BY name`
	rows, err := q(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var halls []domain.Hall
	for rows.Next() {
		var h domain.Hall
		if err := rows.Scan(&h.ID, &h.Name, &h.Code, &h.Address, &h.CreatedOn); err != nil {
			return nil, err
		}
		halls = append(halls, h)
	}
	return halls, rows.Err()
}
