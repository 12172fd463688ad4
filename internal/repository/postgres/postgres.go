package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"carrent-backend/internal/logger"
	"carrent-backend/internal/repository"

	_ "github.com/lib/pq"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so repositories can run
// inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
	repository.Repos
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:    db,
		Repos: *newRepos(db),
	}
}

func newRepos(db DBTX) *repository.Repos {
	return &repository.Repos{
		Cars:      NewCarRepository(db),
		Rentals:   NewRentalRepository(db),
		Customers: NewCustomerRepository(db),
		Users:     NewUserRepository(db),
	}
}

// RunInTx runs fn in a READ COMMITTED transaction. Check-then-insert
// sequences stay atomic because callers take the car row lock first
// (CarRepository.GetForUpdate), and each statement after the lock sees rows
// committed by the previous holder.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, repos *repository.Repos) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(ctx, newRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		logger.Error("Transaction commit failed", "error", err)
		return mapError(err, "transaction")
	}
	return nil
}
