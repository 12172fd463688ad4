// Package memory is an in-process implementation of the repository
// interfaces. It backs the "memory" database driver for development and
// the service tests. Reads inside a transaction are not isolated from other
// transactions' uncommitted writes; only the car locks serialise work.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"carrent-backend/internal/domain"
	"carrent-backend/internal/repository"
)

// Store keeps every table in maps guarded by one mutex. Car locks are
// separate channels so a transaction can hold a car across several calls
// while other cars stay free.
type Store struct {
	mu        sync.Mutex
	cars      map[int32]*domain.Car
	rentals   map[int32]*domain.Rental
	customers map[int32]*domain.Customer
	users     map[int32]*domain.User
	seq       int32
	// Monotonic creation stamp so newest-first ordering is stable even when
	// two rows share a wall-clock instant.
	stamp int64
	order map[int32]int64

	lockMu   sync.Mutex
	carLocks map[int32]chan struct{}

	repository.Repos
}

func NewStore() *Store {
	s := &Store{
		cars:      make(map[int32]*domain.Car),
		rentals:   make(map[int32]*domain.Rental),
		customers: make(map[int32]*domain.Customer),
		users:     make(map[int32]*domain.User),
		order:     make(map[int32]int64),
		carLocks:  make(map[int32]chan struct{}),
	}
	s.Repos = *s.bind(nil)
	return s
}

func (s *Store) bind(tx *txState) *repository.Repos {
	return &repository.Repos{
		Cars:      &carRepo{s: s, tx: tx},
		Rentals:   &rentalRepo{s: s, tx: tx},
		Customers: &customerRepo{s: s, tx: tx},
		Users:     &userRepo{s: s, tx: tx},
	}
}

func (s *Store) nextID() int32 {
	s.seq++
	return s.seq
}

func (s *Store) carLock(id int32) chan struct{} {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	l, ok := s.carLocks[id]
	if !ok {
		l = make(chan struct{}, 1)
		s.carLocks[id] = l
	}
	return l
}

// txState tracks the car locks a transaction holds and the undo steps that
// restore the maps on rollback.
type txState struct {
	held map[int32]chan struct{}
	undo []func()
}

func (tx *txState) record(fn func()) {
	if tx != nil {
		tx.undo = append(tx.undo, fn)
	}
}

func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, repos *repository.Repos) error) (err error) {
	tx := &txState{held: make(map[int32]chan struct{})}
	defer func() {
		if r := recover(); r != nil {
			s.rollback(tx)
			s.release(tx)
			panic(r)
		}
		if err != nil {
			s.rollback(tx)
		}
		s.release(tx)
	}()
	return fn(ctx, s.bind(tx))
}

func (s *Store) rollback(tx *txState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
}

func (s *Store) release(tx *txState) {
	for id, l := range tx.held {
		<-l
		delete(tx.held, id)
	}
}

// lockCar blocks until the car lock is free or ctx ends. A transaction that
// already holds the lock re-enters without waiting.
func (s *Store) lockCar(ctx context.Context, tx *txState, id int32) error {
	if tx == nil {
		return nil
	}
	if _, ok := tx.held[id]; ok {
		return nil
	}
	l := s.carLock(id)
	select {
	case l <- struct{}{}:
		tx.held[id] = l
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type carRepo struct {
	s  *Store
	tx *txState
}

func (r *carRepo) Create(ctx context.Context, c *domain.Car) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.nextID()
	now := time.Now().UTC()
	c.CreatedOn, c.UpdatedOn = now, now
	cp := *c
	s.cars[c.ID] = &cp
	id := c.ID
	r.tx.record(func() { delete(s.cars, id) })
	return nil
}

func (r *carRepo) GetByID(ctx context.Context, id int32) (*domain.Car, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.cars[id]
	if !ok {
		return nil, domain.NotFoundf("car %d", id)
	}
	cp := *c
	return &cp, nil
}

func (r *carRepo) GetForUpdate(ctx context.Context, id int32) (*domain.Car, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := r.s.lockCar(ctx, r.tx, id); err != nil {
		return nil, err
	}
	// Re-read under the lock; a concurrent delete may have won.
	return r.GetByID(ctx, id)
}

func (r *carRepo) put(id int32, mutate func(c *domain.Car)) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cars[id]
	if !ok {
		return domain.NotFoundf("car %d", id)
	}
	prev := *c
	mutate(c)
	c.UpdatedOn = time.Now().UTC()
	r.tx.record(func() {
		if cur, ok := s.cars[id]; ok {
			*cur = prev
		}
	})
	return nil
}

func (r *carRepo) Update(ctx context.Context, c *domain.Car) error {
	return r.put(c.ID, func(cur *domain.Car) {
		cur.Make, cur.Model = c.Make, c.Model
		cur.VehicleClass, cur.Transmission = c.VehicleClass, c.Transmission
		cur.Year = c.Year
		cur.DailyRateCents = c.DailyRateCents
		cur.Catalog = c.Catalog
		cur.PhotoURL = c.PhotoURL
	})
}

func (r *carRepo) SetAvailability(ctx context.Context, id int32, available bool) error {
	return r.put(id, func(cur *domain.Car) { cur.Available = available })
}

func (r *carRepo) Delete(ctx context.Context, id int32) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cars[id]
	if !ok {
		return domain.NotFoundf("car %d", id)
	}
	for _, rt := range s.rentals {
		if rt.CarID == id {
			return domain.Conflictf("car %d is still referenced", id)
		}
	}
	delete(s.cars, id)
	r.tx.record(func() { s.cars[id] = c })
	return nil
}

func (r *carRepo) List(ctx context.Context, filter domain.CarFilter, page, pageSize int32) ([]domain.Car, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	r.s.mu.Lock()
	var matched []domain.Car
	for _, c := range r.s.cars {
		if matchesFilter(c, filter) {
			matched = append(matched, *c)
		}
	}
	r.s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	total := int32(len(matched))
	start := (page - 1) * pageSize
	if start >= total {
		return nil, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func matchesFilter(c *domain.Car, f domain.CarFilter) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(c.Make), q) && !strings.Contains(strings.ToLower(c.Model), q) {
			return false
		}
	}
	if f.VehicleClass != "" && !strings.EqualFold(c.VehicleClass, f.VehicleClass) {
		return false
	}
	if f.Transmission != "" && !strings.EqualFold(c.Transmission, f.Transmission) {
		return false
	}
	if f.MaxRateCents > 0 && c.DailyRateCents > f.MaxRateCents {
		return false
	}
	if len(f.Catalogs) > 0 {
		found := false
		for _, cat := range f.Catalogs {
			if c.Catalog == cat {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (r *carRepo) ListIDs(ctx context.Context) ([]int32, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := make([]int32, 0, len(r.s.cars))
	for id := range r.s.cars {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *carRepo) Count(ctx context.Context) (int32, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int32(len(r.s.cars)), nil
}

func (r *carRepo) ListRecent(ctx context.Context, limit int32) ([]domain.Car, error) {
	r.s.mu.Lock()
	cars := make([]domain.Car, 0, len(r.s.cars))
	for _, c := range r.s.cars {
		cars = append(cars, *c)
	}
	r.s.mu.Unlock()

	// Ids come from one increasing sequence.
	sort.Slice(cars, func(i, j int) bool { return cars[i].ID > cars[j].ID })
	if limit >= 0 && int(limit) < len(cars) {
		cars = cars[:limit]
	}
	return cars, nil
}
