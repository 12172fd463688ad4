package postgres

import (
	"context"
	"fmt"
	"time"

	"carrent-backend/internal/domain"
	"carrent-backend/internal/logger"
	"carrent-backend/internal/repository"

	"github.com/lib/pq"
)

const rentalColumns = `id, car_id, customer_id, start_date, end_date, status, price_per_day_cents, day_count, total_amount_cents, created_on, updated_on`

type rentalRepository struct {
	db DBTX
}

func NewRentalRepository(db DBTX) repository.RentalRepository {
	return &rentalRepository{db: db}
}

func scanRental(row rowScanner) (*domain.Rental, error) {
	rt := &domain.Rental{}
	err := row.Scan(&rt.ID, &rt.CarID, &rt.CustomerID, &rt.StartDate, &rt.EndDate, &rt.Status, &rt.PricePerDayCents, &rt.DayCount, &rt.TotalAmountCents, &rt.CreatedOn, &rt.UpdatedOn)
	if err != nil {
		return nil, err
	}
	rt.StartDate = domain.ToDate(rt.StartDate)
	rt.EndDate = domain.ToDate(rt.EndDate)
	return rt, nil
}

func holdingStatusArray() interface{} {
	statuses := make([]string, len(domain.HoldingStatuses))
	for i, s := range domain.HoldingStatuses {
		statuses[i] = string(s)
	}
	return pq.Array(statuses)
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	query := `INSERT INTO rentals (car_id, customer_id, start_date, end_date, status, price_per_day_cents, day_count, total_amount_cents, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9) RETURNING id`
	now := time.Now().UTC()
	logger.DatabaseCall("insert rental", query, "car_id", rt.CarID, "customer_id", rt.CustomerID)
	err := r.db.QueryRowContext(ctx, query, rt.CarID, rt.CustomerID, rt.StartDate, rt.EndDate, rt.Status, rt.PricePerDayCents, rt.DayCount, rt.TotalAmountCents, now).Scan(&rt.ID)
	if err != nil {
		err = mapError(err, "rental")
		logger.DatabaseResult("insert rental", 0, err, "car_id", rt.CarID)
		return err
	}
	rt.CreatedOn, rt.UpdatedOn = now, now
	logger.DatabaseResult("insert rental", 1, nil, "rental_id", rt.ID)
	return nil
}

func (r *rentalRepository) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("rental %d", id))
	}
	return rt, nil
}

func (r *rentalRepository) UpdateStatus(ctx context.Context, rt *domain.Rental) error {
	query := `UPDATE rentals SET status=$1, updated_on=$2 WHERE id=$3`
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, rt.Status, now, rt.ID)
	if err != nil {
		return mapError(err, "rental")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundf("rental %d", rt.ID)
	}
	rt.UpdatedOn = now
	return nil
}

func (r *rentalRepository) HasOverlap(ctx context.Context, carID int32, start, end time.Time) (bool, error) {
	query := `SELECT EXISTS (
	            SELECT 1 FROM rentals
	            WHERE car_id = $1 AND status = ANY($2) AND start_date <= $3 AND end_date >= $4)`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, carID, holdingStatusArray(), domain.ToDate(end), domain.ToDate(start)).Scan(&exists)
	if err != nil {
		return false, mapError(err, "rentals")
	}
	return exists, nil
}

func (r *rentalRepository) CountHolding(ctx context.Context, carID int32) (int32, error) {
	query := `SELECT count(*) FROM rentals WHERE car_id = $1 AND status = ANY($2)`
	var count int32
	if err := r.db.QueryRowContext(ctx, query, carID, holdingStatusArray()).Scan(&count); err != nil {
		return 0, mapError(err, "rentals")
	}
	return count, nil
}

func (r *rentalRepository) ListStatuses(ctx context.Context, carID int32) ([]domain.RentalStatus, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT status FROM rentals WHERE car_id = $1`, carID)
	if err != nil {
		return nil, mapError(err, "rentals")
	}
	defer rows.Close()

	var statuses []domain.RentalStatus
	for rows.Next() {
		var st domain.RentalStatus
		if err := rows.Scan(&st); err != nil {
			return nil, err
		}
		statuses = append(statuses, st)
	}
	return statuses, rows.Err()
}

func (r *rentalRepository) list(ctx context.Context, where string, args ...interface{}) ([]domain.Rental, error) {
	return r.query(ctx, `SELECT `+rentalColumns+` FROM rentals`+where+` ORDER BY created_on DESC, id DESC`, args...)
}

func (r *rentalRepository) query(ctx context.Context, query string, args ...interface{}) ([]domain.Rental, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "rentals")
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, rows.Err()
}

func (r *rentalRepository) ListByCustomer(ctx context.Context, customerID int32) ([]domain.Rental, error) {
	return r.list(ctx, ` WHERE customer_id = $1`, customerID)
}

func (r *rentalRepository) ListByStatus(ctx context.Context, status domain.RentalStatus) ([]domain.Rental, error) {
	return r.list(ctx, ` WHERE status = $1`, status)
}

func (r *rentalRepository) ListAll(ctx context.Context) ([]domain.Rental, error) {
	return r.list(ctx, "")
}

func (r *rentalRepository) Count(ctx context.Context) (int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM rentals`).Scan(&count); err != nil {
		return 0, mapError(err, "rentals")
	}
	return count, nil
}

func (r *rentalRepository) ListRecent(ctx context.Context, limit int32) ([]domain.Rental, error) {
	return r.query(ctx, `SELECT `+rentalColumns+` FROM rentals ORDER BY created_on DESC, id DESC LIMIT $1`, limit)
}

func (r *rentalRepository) DeleteByCustomer(ctx context.Context, customerID int32) ([]int32, error) {
	query := `DELETE FROM rentals WHERE customer_id = $1 RETURNING car_id`
	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, mapError(err, "rentals")
	}
	defer rows.Close()

	seen := make(map[int32]bool)
	var carIDs []int32
	for rows.Next() {
		var carID int32
		if err := rows.Scan(&carID); err != nil {
			return nil, err
		}
		if !seen[carID] {
			seen[carID] = true
			carIDs = append(carIDs, carID)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.DatabaseResult("delete customer rentals", int64(len(carIDs)), nil, "customer_id", customerID)
	return carIDs, nil
}
