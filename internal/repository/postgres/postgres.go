package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"hallms-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.HallRepository
	repository.UserRepository
	repository.RoomRepository
	repository.ApplicationRepository
	repository.AllocationRepository
	repository.WaitlistRepository
	repository.RenewalRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		HallRepository:         NewHallRepository(db),
		UserRepository:         NewUserRepository(db),
		RoomRepository:         NewRoomRepository(db),
		ApplicationRepository:  NewApplicationRepository(db),
		AllocationRepository:   NewAllocationRepository(db),
		WaitlistRepository:     NewWaitlistRepository(db),
		RenewalRepository:      NewRenewalRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}

type txKey struct{}

// WithinTx runs fn in one transaction. The *sql.Tx rides in the context so
// every repository call inside fn joins the same transaction. Nested calls
// reuse the ambient transaction instead of opening another.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return fmt.Errorf("rollback after %v: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// q returns the ambient transaction if one is in flight, else the pool.
func q(ctx context.Context, db *sql.DB) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}
