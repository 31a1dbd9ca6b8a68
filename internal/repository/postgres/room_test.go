package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hallms-backend/internal/domain"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestRoomRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("Found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "hall_id", "room_number", "floor_number", "capacity",
			"current_occupancy", "room_type", "status", "created_on", "updated_on"}).
			AddRow(3, 1, "101-A", 1, 2, 1, "double", "AVAILABLE", now, now)
		mock.ExpectQuery(`SELECT .+ FROM rooms WHERE id = \$1 AND hall_id = \$2`).
			WithArgs(int32(3), int32(1)).
			WillReturnRows(rows)

		room, err := repo.GetByID(ctx, 1, 3)
		require.NoError(t, err)
		require.NotNil(t, room)
		assert.Equal(t, "101-A", room.RoomNumber)
		assert.Equal(t, int32(2), room.Capacity)
		assert.Equal(t, domain.RoomStatusAvailable, room.Status)
	})

	t.Run("MissingIsNilNil", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .+ FROM rooms WHERE id = \$1 AND hall_id = \$2`).
			WithArgs(int32(99), int32(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		room, err := repo.GetByID(ctx, 1, 99)
		require.NoError(t, err)
		assert.Nil(t, room)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`INSERT INTO rooms`).
		WithArgs(int32(1), "101-A", int32(1), int32(2), int32(0), "double",
			domain.RoomStatusAvailable, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	room := &domain.Room{HallID: 1, RoomNumber: "101-A", FloorNumber: 1, Capacity: 2,
		RoomType: "double", Status: domain.RoomStatusAvailable}
	require.NoError(t, repo.Create(ctx, room))
	assert.Equal(t, int32(7), room.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepository_CountAllocations(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT count\(\*\) FROM allocations WHERE room_id = \$1`).
		WithArgs(int32(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountAllocations(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int32(4), count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_WithinTx(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)
	ctx := context.Background()

	t.Run("CommitsOnSuccess", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE rooms`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := store.WithinTx(ctx, func(ctx context.Context) error {
			return store.RoomRepository.Update(ctx, &domain.Room{ID: 3, HallID: 1})
		})
		require.NoError(t, err)
	})

	t.Run("RollsBackOnError", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := store.WithinTx(ctx, func(ctx context.Context) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("NestedCallsShareOneTransaction", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE rooms`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := store.WithinTx(ctx, func(ctx context.Context) error {
			// The inner WithinTx must not open a second transaction.
			return store.WithinTx(ctx, func(ctx context.Context) error {
				return store.RoomRepository.Update(ctx, &domain.Room{ID: 3, HallID: 1})
			})
		})
		require.NoError(t, err)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
