package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"carrent-backend/internal/domain"
	"carrent-backend/internal/logger"
	"carrent-backend/internal/repository"

	"github.com/lib/pq"
)

const carColumns = `id, make, model, vehicle_class, transmission, year, daily_rate_cents, available, catalog, photo_url, created_on, updated_on`

type carRepository struct {
	db DBTX
}

func NewCarRepository(db DBTX) repository.CarRepository {
	return &carRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCar(row rowScanner) (*domain.Car, error) {
	c := &domain.Car{}
	err := row.Scan(&c.ID, &c.Make, &c.Model, &c.VehicleClass, &c.Transmission, &c.Year, &c.DailyRateCents, &c.Available, &c.Catalog, &c.PhotoURL, &c.CreatedOn, &c.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *carRepository) Create(ctx context.Context, c *domain.Car) error {
	query := `INSERT INTO cars (make, model, vehicle_class, transmission, year, daily_rate_cents, available, catalog, photo_url, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10) RETURNING id`
	now := time.Now().UTC()
	err := r.db.QueryRowContext(ctx, query, c.Make, c.Model, c.VehicleClass, c.Transmission, c.Year, c.DailyRateCents, c.Available, c.Catalog, c.PhotoURL, now).Scan(&c.ID)
	if err != nil {
		return mapError(err, "car")
	}
	c.CreatedOn, c.UpdatedOn = now, now
	return nil
}

func (r *carRepository) GetByID(ctx context.Context, id int32) (*domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1`
	c, err := scanCar(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("car %d", id))
	}
	return c, nil
}

func (r *carRepository) GetForUpdate(ctx context.Context, id int32) (*domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1 FOR UPDATE`
	logger.DatabaseCall("lock car", query, "car_id", id)
	c, err := scanCar(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		err = mapError(err, fmt.Sprintf("car %d", id))
		logger.DatabaseResult("lock car", 0, err, "car_id", id)
		return nil, err
	}
	logger.DatabaseResult("lock car", 1, nil, "car_id", id)
	return c, nil
}

func (r *carRepository) Update(ctx context.Context, c *domain.Car) error {
	query := `UPDATE cars SET make=$1, model=$2, vehicle_class=$3, transmission=$4, year=$5, daily_rate_cents=$6, catalog=$7, photo_url=$8, updated_on=$9 WHERE id=$10`
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, c.Make, c.Model, c.VehicleClass, c.Transmission, c.Year, c.DailyRateCents, c.Catalog, c.PhotoURL, now, c.ID)
	if err != nil {
		return mapError(err, "car")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundf("car %d", c.ID)
	}
	c.UpdatedOn = now
	return nil
}

func (r *carRepository) SetAvailability(ctx context.Context, id int32, available bool) error {
	query := `UPDATE cars SET available=$1, updated_on=$2 WHERE id=$3`
	res, err := r.db.ExecContext(ctx, query, available, time.Now().UTC(), id)
	if err != nil {
		return mapError(err, "car")
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("set car availability", n, err, "car_id", id, "available", available)
	if err == nil && n == 0 {
		return domain.NotFoundf("car %d", id)
	}
	return nil
}

func (r *carRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "car")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundf("car %d", id)
	}
	return nil
}

func (r *carRepository) List(ctx context.Context, filter domain.CarFilter, page, pageSize int32) ([]domain.Car, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	var conds []string
	var args []interface{}
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		add("(make ILIKE $%[1]d OR model ILIKE $%[1]d)", "%"+q+"%")
	}
	if filter.VehicleClass != "" {
		add("lower(vehicle_class) = lower($%d)", filter.VehicleClass)
	}
	if filter.Transmission != "" {
		add("lower(transmission) = lower($%d)", filter.Transmission)
	}
	if filter.MaxRateCents > 0 {
		add("daily_rate_cents <= $%d", filter.MaxRateCents)
	}
	if len(filter.Catalogs) > 0 {
		catalogs := make([]string, len(filter.Catalogs))
		for i, c := range filter.Catalogs {
			catalogs[i] = string(c)
		}
		add("catalog = ANY($%d)", pq.Array(catalogs))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, "SELECT count(*) FROM cars"+where, args...).Scan(&count); err != nil {
		return nil, 0, mapError(err, "cars")
	}

	query := "SELECT " + carColumns + " FROM cars" + where +
		fmt.Sprintf(" ORDER BY id LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, mapError(err, "cars")
	}
	defer rows.Close()

	var cars []domain.Car
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, 0, err
		}
		cars = append(cars, *c)
	}
	return cars, count, rows.Err()
}

func (r *carRepository) ListIDs(ctx context.Context) ([]int32, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM cars ORDER BY id`)
	if err != nil {
		return nil, mapError(err, "cars")
	}
	defer rows.Close()

	var ids []int32
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *carRepository) Count(ctx context.Context) (int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM cars`).Scan(&count); err != nil {
		return 0, mapError(err, "cars")
	}
	return count, nil
}

func (r *carRepository) ListRecent(ctx context.Context, limit int32) ([]domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars ORDER BY created_on DESC, id DESC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, mapError(err, "cars")
	}
	defer rows.Close()

	var cars []domain.Car
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, *c)
	}
	return cars, rows.Err()
}
