package memory

import (
	"context"
	"sort"
	"time"

	"carrent-backend/internal/domain"
)

type customerRepo struct {
	s  *Store
	tx *txState
}

func (r *customerRepo) Create(ctx context.Context, c *domain.Customer) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[c.UserID]; !ok {
		return domain.Conflictf("user %d does not exist", c.UserID)
	}
	for _, other := range s.customers {
		if other.UserID == c.UserID {
			return domain.Conflictf("customer for user %d already exists", c.UserID)
		}
	}
	c.ID = s.nextID()
	cp := *c
	s.customers[c.ID] = &cp
	id := c.ID
	r.tx.record(func() { delete(s.customers, id) })
	return nil
}

func (r *customerRepo) GetByID(ctx context.Context, id int32) (*domain.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, domain.NotFoundf("customer %d", id)
	}
	cp := *c
	return &cp, nil
}

func (r *customerRepo) GetByUserID(ctx context.Context, userID int32) (*domain.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.customers {
		if c.UserID == userID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.NotFoundf("customer for user %d", userID)
}

func (r *customerRepo) Delete(ctx context.Context, id int32) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[id]
	if !ok {
		return domain.NotFoundf("customer %d", id)
	}
	for _, rt := range s.rentals {
		if rt.CustomerID == id {
			return domain.Conflictf("customer %d is still referenced", id)
		}
	}
	delete(s.customers, id)
	r.tx.record(func() { s.customers[id] = c })
	return nil
}

type userRepo struct {
	s  *Store
	tx *txState
}

func (r *userRepo) Create(ctx context.Context, u *domain.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.users {
		if other.Username == u.Username {
			return domain.Conflictf("user %q already exists", u.Username)
		}
	}
	u.ID = s.nextID()
	u.CreatedOn = time.Now().UTC()
	s.users[u.ID] = copyUser(u)
	id := u.ID
	r.tx.record(func() { delete(s.users, id) })
	return nil
}

func copyUser(u *domain.User) *domain.User {
	cp := *u
	cp.Roles = append([]domain.Role(nil), u.Roles...)
	return &cp
}

func (r *userRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.NotFoundf("user %d", id)
	}
	return copyUser(u), nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, domain.NotFoundf("user %q", username)
}

func (r *userRepo) UpdateRoles(ctx context.Context, id int32, roles []domain.Role) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.NotFoundf("user %d", id)
	}
	prev := u.Roles
	u.Roles = append([]domain.Role(nil), roles...)
	r.tx.record(func() { u.Roles = prev })
	return nil
}

func (r *userRepo) List(ctx context.Context) ([]domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	users := make([]domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, *copyUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *userRepo) Count(ctx context.Context) (int32, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int32(len(r.s.users)), nil
}

func (r *userRepo) Delete(ctx context.Context, id int32) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.NotFoundf("user %d", id)
	}
	for _, c := range s.customers {
		if c.UserID == id {
			return domain.Conflictf("user %d is still referenced", id)
		}
	}
	delete(s.users, id)
	r.tx.record(func() { s.users[id] = u })
	return nil
}
