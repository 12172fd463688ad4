package memory

import (
	"context"
	"sort"
	"time"

	"carrent-backend/internal/domain"
)

type rentalRepo struct {
	s  *Store
	tx *txState
}

func (r *rentalRepo) Create(ctx context.Context, rt *domain.Rental) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cars[rt.CarID]; !ok {
		return domain.Conflictf("car %d does not exist", rt.CarID)
	}
	if _, ok := s.customers[rt.CustomerID]; !ok {
		return domain.Conflictf("customer %d does not exist", rt.CustomerID)
	}
	// Mirrors the exclusion constraint of the relational schema.
	if rt.Status.HoldsAvailability() {
		for _, other := range s.rentals {
			if other.CarID == rt.CarID && other.Status.HoldsAvailability() && other.Period().Overlaps(rt.Period()) {
				return domain.ErrCarUnavailable
			}
		}
	}
	rt.ID = s.nextID()
	now := time.Now().UTC()
	rt.CreatedOn, rt.UpdatedOn = now, now
	cp := *rt
	s.rentals[rt.ID] = &cp
	s.stamp++
	s.order[rt.ID] = s.stamp
	id := rt.ID
	r.tx.record(func() {
		delete(s.rentals, id)
		delete(s.order, id)
	})
	return nil
}

func (r *rentalRepo) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rt, ok := r.s.rentals[id]
	if !ok {
		return nil, domain.NotFoundf("rental %d", id)
	}
	cp := *rt
	return &cp, nil
}

func (r *rentalRepo) UpdateStatus(ctx context.Context, rt *domain.Rental) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.rentals[rt.ID]
	if !ok {
		return domain.NotFoundf("rental %d", rt.ID)
	}
	prev := *cur
	cur.Status = rt.Status
	cur.UpdatedOn = time.Now().UTC()
	rt.UpdatedOn = cur.UpdatedOn
	r.tx.record(func() {
		if c, ok := s.rentals[prev.ID]; ok {
			*c = prev
		}
	})
	return nil
}

func (r *rentalRepo) HasOverlap(ctx context.Context, carID int32, start, end time.Time) (bool, error) {
	want := domain.NewDateRange(start, end)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rt := range r.s.rentals {
		if rt.CarID == carID && rt.Status.HoldsAvailability() && rt.Period().Overlaps(want) {
			return true, nil
		}
	}
	return false, nil
}

func (r *rentalRepo) CountHolding(ctx context.Context, carID int32) (int32, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int32
	for _, rt := range r.s.rentals {
		if rt.CarID == carID && rt.Status.HoldsAvailability() {
			n++
		}
	}
	return n, nil
}

func (r *rentalRepo) ListStatuses(ctx context.Context, carID int32) ([]domain.RentalStatus, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := make(map[domain.RentalStatus]bool)
	var statuses []domain.RentalStatus
	for _, rt := range r.s.rentals {
		if rt.CarID == carID && !seen[rt.Status] {
			seen[rt.Status] = true
			statuses = append(statuses, rt.Status)
		}
	}
	return statuses, nil
}

func (r *rentalRepo) list(match func(rt *domain.Rental) bool) []domain.Rental {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Rental
	for _, rt := range r.s.rentals {
		if match(rt) {
			out = append(out, *rt)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return r.s.order[out[i].ID] > r.s.order[out[j].ID]
	})
	return out
}

func (r *rentalRepo) ListByCustomer(ctx context.Context, customerID int32) ([]domain.Rental, error) {
	return r.list(func(rt *domain.Rental) bool { return rt.CustomerID == customerID }), nil
}

func (r *rentalRepo) ListByStatus(ctx context.Context, status domain.RentalStatus) ([]domain.Rental, error) {
	return r.list(func(rt *domain.Rental) bool { return rt.Status == status }), nil
}

func (r *rentalRepo) ListAll(ctx context.Context) ([]domain.Rental, error) {
	return r.list(func(*domain.Rental) bool { return true }), nil
}

func (r *rentalRepo) Count(ctx context.Context) (int32, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int32(len(r.s.rentals)), nil
}

func (r *rentalRepo) ListRecent(ctx context.Context, limit int32) ([]domain.Rental, error) {
	all := r.list(func(*domain.Rental) bool { return true })
	if limit >= 0 && int(limit) < len(all) {
		all = all[:limit]
	}
	return all, nil
}

// DeleteByCustomer inside a transaction only removes rentals on cars the
// transaction has locked. Rentals another transaction is still writing are
// left alone, and the customer delete that follows then fails.
func (r *rentalRepo) DeleteByCustomer(ctx context.Context, customerID int32) ([]int32, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[int32]bool)
	var carIDs []int32
	for id, rt := range s.rentals {
		if rt.CustomerID != customerID {
			continue
		}
		if r.tx != nil {
			if _, held := r.tx.held[rt.CarID]; !held {
				continue
			}
		}
		removed, stamp := rt, s.order[id]
		delete(s.rentals, id)
		delete(s.order, id)
		r.tx.record(func() {
			s.rentals[removed.ID] = removed
			s.order[removed.ID] = stamp
		})
		if !seen[rt.CarID] {
			seen[rt.CarID] = true
			carIDs = append(carIDs, rt.CarID)
		}
	}
	sort.Slice(carIDs, func(i, j int) bool { return carIDs[i] < carIDs[j] })
	return carIDs, nil
}
