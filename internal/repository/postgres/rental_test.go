package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"carrent-backend/internal/domain"
	"carrent-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rentalCols = []string{"id", "car_id", "customer_id", "start_date", "end_date", "status", "price_per_day_cents", "day_count", "total_amount_cents", "created_on", "updated_on"}

func date(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestRentalRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewRentalRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rental := &domain.Rental{
			CarID:            2,
			CustomerID:       3,
			StartDate:        date("2030-01-10"),
			EndDate:          date("2030-01-12"),
			Status:           domain.RentalStatusPending,
			PricePerDayCents: 10000,
			DayCount:         3,
			TotalAmountCents: 30000,
		}

		mock.ExpectQuery("INSERT INTO rentals").
			WithArgs(rental.CarID, rental.CustomerID, rental.StartDate, rental.EndDate, rental.Status, rental.PricePerDayCents, rental.DayCount, rental.TotalAmountCents, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

		err := repo.Create(ctx, rental)
		assert.NoError(t, err)
		assert.Equal(t, int32(7), rental.ID)
		assert.False(t, rental.CreatedOn.IsZero())
	})

	t.Run("Exclusion violation maps to unavailable", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO rentals").
			WillReturnError(&pq.Error{Code: "23P01", Message: "conflicting key value violates exclusion constraint"})

		err := repo.Create(ctx, &domain.Rental{CarID: 2, CustomerID: 3, Status: domain.RentalStatusPending})
		assert.ErrorIs(t, err, domain.ErrCarUnavailable)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewRentalRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		rows := sqlmock.NewRows(rentalCols).
			AddRow(1, 2, 3, date("2030-01-10"), date("2030-01-12"), "ACTIVE", 10000, 3, 30000, now, now)
		mock.ExpectQuery("SELECT (.+) FROM rentals WHERE id = \\$1").
			WithArgs(int32(1)).
			WillReturnRows(rows)

		rental, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusActive, rental.Status)
		assert.Equal(t, domain.Cents(30000), rental.TotalAmountCents)
		assert.Equal(t, date("2030-01-12"), rental.EndDate)
	})

	t.Run("Missing", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM rentals WHERE id = \\$1").
			WithArgs(int32(99)).
			WillReturnRows(sqlmock.NewRows(rentalCols))

		rental, err := repo.GetByID(ctx, 99)
		assert.Nil(t, rental)
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestRentalRepository_HasOverlap(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewRentalRepository(db)
	ctx := context.Background()

	// The query compares start_date <= requested end and end_date >= requested start.
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int32(5), pq.Array([]string{"PENDING", "ACTIVE"}), date("2030-01-12"), date("2030-01-10")).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	overlap, err := repo.HasOverlap(ctx, 5, date("2030-01-10"), date("2030-01-12"))
	assert.NoError(t, err)
	assert.True(t, overlap)

	mock.ExpectQuery("SELECT EXISTS").
		WillReturnError(errors.New("connection reset"))
	_, err = repo.HasOverlap(ctx, 5, date("2030-01-10"), date("2030-01-12"))
	assert.Error(t, err)
	assert.False(t, domain.IsClientError(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalRepository_CountHolding(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewRentalRepository(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM rentals WHERE car_id = \\$1 AND status = ANY\\(\\$2\\)").
		WithArgs(int32(5), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := repo.CountHolding(context.Background(), 5)
	assert.NoError(t, err)
	assert.Equal(t, int32(2), n)
}

func TestRentalRepository_ListStatuses(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewRentalRepository(db)

	mock.ExpectQuery("SELECT DISTINCT status FROM rentals WHERE car_id = \\$1").
		WithArgs(int32(5)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("COMPLETED").AddRow("PENDING"))

	statuses, err := repo.ListStatuses(context.Background(), 5)
	assert.NoError(t, err)
	assert.Equal(t, []domain.RentalStatus{domain.RentalStatusCompleted, domain.RentalStatusPending}, statuses)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewRentalRepository(db)
	ctx := context.Background()

	mock.ExpectExec("UPDATE rentals SET status").
		WithArgs(domain.RentalStatusCancelled, sqlmock.AnyArg(), int32(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	err = repo.UpdateStatus(ctx, &domain.Rental{ID: 4, Status: domain.RentalStatusCancelled})
	assert.NoError(t, err)

	mock.ExpectExec("UPDATE rentals SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))
	err = repo.UpdateStatus(ctx, &domain.Rental{ID: 5, Status: domain.RentalStatusCancelled})
	assert.True(t, domain.IsNotFound(err))
}

func TestRentalRepository_ListByCustomer(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewRentalRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows(rentalCols).
		AddRow(2, 1, 3, date("2030-02-01"), date("2030-02-02"), "PENDING", 5000, 2, 10000, now, now).
		AddRow(1, 1, 3, date("2030-01-01"), date("2030-01-01"), "COMPLETED", 5000, 1, 5000, now.Add(-time.Hour), now)
	mock.ExpectQuery("SELECT (.+) FROM rentals WHERE customer_id = \\$1 ORDER BY created_on DESC").
		WithArgs(int32(3)).
		WillReturnRows(rows)

	rentals, err := repo.ListByCustomer(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, rentals, 2)
	assert.Equal(t, int32(2), rentals[0].ID)
}

func TestRentalRepository_DeleteByCustomer(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewRentalRepository(db)

	mock.ExpectQuery("DELETE FROM rentals WHERE customer_id = \\$1 RETURNING car_id").
		WithArgs(int32(3)).
		WillReturnRows(sqlmock.NewRows([]string{"car_id"}).AddRow(1).AddRow(4).AddRow(1))

	carIDs, err := repo.DeleteByCustomer(context.Background(), 3)
	assert.NoError(t, err)
	assert.Equal(t, []int32{1, 4}, carIDs)
}
