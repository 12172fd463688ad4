package postgres

import (
	"context"
	"fmt"

	"carrent-backend/internal/domain"
	"carrent-backend/internal/repository"
)

type customerRepository struct {
	db DBTX
}

func NewCustomerRepository(db DBTX) repository.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	query := `INSERT INTO customers (user_id, full_name) VALUES ($1, $2) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, c.UserID, c.FullName).Scan(&c.ID); err != nil {
		return mapError(err, "customer")
	}
	return nil
}

func (r *customerRepository) GetByID(ctx context.Context, id int32) (*domain.Customer, error) {
	c := &domain.Customer{}
	query := `SELECT id, user_id, full_name FROM customers WHERE id = $1`
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.UserID, &c.FullName); err != nil {
		return nil, mapError(err, fmt.Sprintf("customer %d", id))
	}
	return c, nil
}

func (r *customerRepository) GetByUserID(ctx context.Context, userID int32) (*domain.Customer, error) {
	c := &domain.Customer{}
	query := `SELECT id, user_id, full_name FROM customers WHERE user_id = $1`
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&c.ID, &c.UserID, &c.FullName); err != nil {
		return nil, mapError(err, fmt.Sprintf("customer for user %d", userID))
	}
	return c, nil
}

func (r *customerRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "customer")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundf("customer %d", id)
	}
	return nil
}
