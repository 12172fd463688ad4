package postgres_test

import (
	"context"
	"errors"
	"testing"

	"carrent-backend/internal/repository"
	"carrent-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RunInTx_Commits(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := postgres.NewStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE cars SET available=\\$1").
		WithArgs(true, sqlmock.AnyArg(), int32(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = store.RunInTx(context.Background(), func(ctx context.Context, repos *repository.Repos) error {
		return repos.Cars.SetAvailability(ctx, 1, true)
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_RunInTx_RollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := postgres.NewStore(db)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err = store.RunInTx(context.Background(), func(ctx context.Context, repos *repository.Repos) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_RunInTx_SerializationFailureIsConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := postgres.NewStore(db)

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(pqErr("40001"))

	err = store.RunInTx(context.Background(), func(ctx context.Context, repos *repository.Repos) error {
		return nil
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "concurrent update")
}
