package postgres

import (
	"context"
	"database/sql"
	"time"

	"hallms-backend/internal/domain"
	"hallms-backend/internal/repository"
)

type roomRepository struct {
	db *sql.DB
}

func NewRoomRepository(db *sql.DB) repository.RoomRepository {
	return &roomRepository{db: db}
}

const roomColumns = `id, hall_id, room_number, floor_number, capacity, current_occupancy, room_type, status, created_on, updated_on`

func scanRoom(row *sql.Row) (*domain.Room, error) {
	rm := &domain.Room{}
	err := row.Scan(&rm.ID, &rm.HallID, &rm.RoomNumber, &rm.FloorNumber, &rm.Capacity,
		&rm.CurrentOccupancy, &rm.RoomType, &rm.Status, &rm.CreatedOn, &rm.UpdatedOn)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rm, nil
}

func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	query := `INSERT INTO rooms (hall_id, room_number, floor_number, capacity, current_occupancy, room_type, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	now := time.Now()
	return q(ctx, r.db).QueryRowContext(ctx, query,
		room.HallID, room.RoomNumber, room.FloorNumber, room.Capacity,
		room.CurrentOccupancy, room.RoomType, room.Status, now, now).Scan(&room.ID)
}

func (r *roomRepository) GetByID(ctx context.Context, hallID, id int32) (*domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1 AND hall_id = $2`
	return scanRoom(q(ctx, r.db).QueryRowContext(ctx, query, id, hallID))
}

func (r *roomRepository) GetByIDForUpdate(ctx context.Context, hallID, id int32) (*domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1 AND hall_id = $2 FOR UPDATE`
	return scanRoom(q(ctx, r.db).QueryRowContext(ctx, query, id, hallID))
}

func (r *roomRepository) Update(ctx context.Context, room *domain.Room) error {
	query := `UPDATE rooms SET room_number=$1, floor_number=$2, capacity=$3, current_occupancy=$4,
	          room_type=$5, status=$6, updated_on=$7 WHERE id=$8 AND hall_id=$9`
	_, err := q(ctx, r.db).ExecContext(ctx, query,
		room.RoomNumber, room.FloorNumber, room.Capacity, room.CurrentOccupancy,
		room.RoomType, room.Status, time.Now(), room.ID, room.HallID)
	return err
}

func (r *roomRepository) List(ctx context.Context, hallID int32, page, pageSize int32) ([]domain.Room, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	if err := q(ctx, r.db).QueryRowContext(ctx,
		`SELECT count(*) FROM rooms WHERE hall_id = $1`, hallID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + roomColumns + ` FROM rooms WHERE hall_id = $1
	          ORDER BY floor_number, room_number LIMIT $2 OFFSET $3`
	rows, err := q(ctx, r.db).QueryContext(ctx, query, hallID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var rooms []domain.Room
	for rows.Next() {
		var rm domain.Room
		if err := rows.Scan(&rm.ID, &rm.HallID, &rm.RoomNumber, &rm.FloorNumber, &rm.Capacity,
			&rm.CurrentOccupancy, &rm.RoomType, &rm.Status, &rm.CreatedOn, &rm.UpdatedOn); err != nil {
			return nil, 0, err
		}
		rooms = append(rooms, rm)
	}
	return rooms, count, rows.Err()
}

func (r *roomRepository) Delete(ctx context.Context, hallID, id int32) error {
	_, err := q(ctx, r.db).ExecContext(ctx, `DELETE FROM rooms WHERE id = $1 AND hall_id = $2`, id, hallID)
	return err
}

func (r *roomRepository) CountAllocations(ctx context.Context, roomID int32) (int32, error) {
	var count int32
	err := q(ctx, r.db).QueryRowContext(ctx,
		`SELECT count(*) FROM allocations WHERE room_id = $1`, roomID).Scan(&count)
	return count, err
}
