package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hallms-backend/internal/domain"
)

func TestWaitlistRepository_ListActiveForUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewWaitlistRepository(db)
	ctx := context.Background()
	now := time.Now()

	cols := []string{"id", "hall_id", "application_id", "student_id", "position",
		"score", "status", "added_at", "removed_at", "removal_reason"}
	rows := sqlmock.NewRows(cols).
		AddRow(11, 1, 101, 201, 1, 92.5, "ACTIVE", now, nil, "").
		AddRow(12, 1, 102, 202, 2, 85.0, "ACTIVE", now, nil, "")
	mock.ExpectQuery(`SELECT .+ FROM waitlist_entries\s+WHERE hall_id = \$1 AND status = \$2\s+ORDER BY score DESC, added_at ASC, id ASC\s+FOR UPDATE`).
		WithArgs(int32(1), domain.WaitlistStatusActive).
		WillReturnRows(rows)

	entries, err := repo.ListActiveForUpdate(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int32(11), entries[0].ID)
	assert.Equal(t, 92.5, entries[0].Score)
	require.NotNil(t, entries[1].Position)
	assert.Equal(t, int32(2), *entries[1].Position)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWaitlistRepository_UpdatePositions(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewWaitlistRepository(db)
	ctx := context.Background()

	// All active positions are cleared before the dense ranks land, so the
	// per-hall uniqueness index never sees a transient duplicate.
	mock.ExpectExec(`UPDATE waitlist_entries SET position = NULL WHERE hall_id = \$1 AND status = \$2`).
		WithArgs(int32(1), domain.WaitlistStatusActive).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`UPDATE waitlist_entries SET position = \$1 WHERE id = \$2 AND hall_id = \$3`).
		WithArgs(1, int32(12), int32(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE waitlist_entries SET position = \$1 WHERE id = \$2 AND hall_id = \$3`).
		WithArgs(2, int32(11), int32(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdatePositions(ctx, 1, []int32{12, 11}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWaitlistRepository_List_FiltersByStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewWaitlistRepository(db)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery(`SELECT count\(\*\) FROM waitlist_entries WHERE hall_id = \$1 AND status = \$2`).
		WithArgs(int32(1), domain.WaitlistStatusActive).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT .+ FROM waitlist_entries WHERE hall_id = \$1 AND status = \$2 ORDER BY position ASC NULLS LAST, added_at ASC LIMIT \$3 OFFSET \$4`).
		WithArgs(int32(1), domain.WaitlistStatusActive, int32(20), int32(0)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hall_id", "application_id", "student_id", "position",
			"score", "status", "added_at", "removed_at", "removal_reason"}).
			AddRow(11, 1, 101, 201, 1, 92.5, "ACTIVE", now, nil, ""))

	entries, total, err := repo.List(ctx, 1, domain.WaitlistStatusActive, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int32(1), total)
	require.Len(t, entries, 1)
	assert.Equal(t, int32(201), entries[0].StudentID)
	require.NoError(t, mock.ExpectationsWereMet())
}
