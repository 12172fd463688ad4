package postgres

import (
	"context"
	"fmt"
	"time"

	"carrent-backend/internal/domain"
	"carrent-backend/internal/repository"

	"github.com/lib/pq"
)

type userRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) repository.UserRepository {
	return &userRepository{db: db}
}

func rolesToStrings(roles []domain.Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

func stringsToRoles(in []string) []domain.Role {
	out := make([]domain.Role, len(in))
	for i, s := range in {
		out[i] = domain.Role(s)
	}
	return out
}

func scanUser(row rowScanner) (*domain.User, error) {
	u := &domain.User{}
	var roles []string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, pq.Array(&roles), &u.CreatedOn); err != nil {
		return nil, err
	}
	u.Roles = stringsToRoles(roles)
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (username, password_hash, roles, created_on) VALUES ($1, $2, $3, $4) RETURNING id`
	now := time.Now().UTC()
	err := r.db.QueryRowContext(ctx, query, u.Username, u.PasswordHash, pq.Array(rolesToStrings(u.Roles)), now).Scan(&u.ID)
	if err != nil {
		return mapError(err, fmt.Sprintf("user %q", u.Username))
	}
	u.CreatedOn = now
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	query := `SELECT id, username, password_hash, roles, created_on FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("user %d", id))
	}
	return u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT id, username, password_hash, roles, created_on FROM users WHERE username = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("user %q", username))
	}
	return u, nil
}

func (r *userRepository) UpdateRoles(ctx context.Context, id int32, roles []domain.Role) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET roles=$1 WHERE id=$2`, pq.Array(rolesToStrings(roles)), id)
	if err != nil {
		return mapError(err, "user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundf("user %d", id)
	}
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, username, password_hash, roles, created_on FROM users ORDER BY id`)
	if err != nil {
		return nil, mapError(err, "users")
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *userRepository) Count(ctx context.Context) (int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM users`).Scan(&count); err != nil {
		return 0, mapError(err, "users")
	}
	return count, nil
}

func (r *userRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundf("user %d", id)
	}
	return nil
}
