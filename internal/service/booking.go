package service

import (
	"context"
	"fmt"
	"time"

	"carrent-backend/internal/domain"
	"carrent-backend/internal/logger"
	"carrent-backend/internal/repository"
	"carrent-backend/internal/utils"
)

type bookingService struct {
	tx     repository.TxManager
	repos  *repository.Repos
	policy domain.TransitionPolicy
	now    func() time.Time
}

type BookingOption func(*bookingService)

// WithClock replaces time.Now when deciding whether a start date is in the past.
func WithClock(now func() time.Time) BookingOption {
	return func(s *bookingService) { s.now = now }
}

func NewBookingService(tx repository.TxManager, repos *repository.Repos, policy domain.TransitionPolicy, opts ...BookingOption) BookingService {
	s := &bookingService{
		tx:     tx,
		repos:  repos,
		policy: policy,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *bookingService) Book(ctx context.Context, carID, customerID int32, start, end time.Time) (*domain.Rental, error) {
	logger.EnterMethod("bookingService.Book", "carID", carID, "customerID", customerID)

	if start.IsZero() || end.IsZero() {
		err := fmt.Errorf("%w: start and end dates are required", domain.ErrInvalidDateRange)
		logger.ExitMethodWithError("bookingService.Book", err, "carID", carID)
		return nil, err
	}
	period := domain.NewDateRange(start, end)
	today := domain.ToDate(s.now())
	if period.Start.Before(today) {
		err := fmt.Errorf("%w: start date %s is in the past", domain.ErrInvalidDateRange, period.Start.Format(domain.DateLayout))
		logger.ExitMethodWithError("bookingService.Book", err, "carID", carID)
		return nil, err
	}
	if !period.End.After(period.Start) {
		err := fmt.Errorf("%w: end date must be after start date", domain.ErrInvalidDateRange)
		logger.ExitMethodWithError("bookingService.Book", err, "carID", carID)
		return nil, err
	}

	var rental *domain.Rental
	err := s.tx.RunInTx(ctx, func(ctx context.Context, repos *repository.Repos) error {
		car, err := repos.Cars.GetForUpdate(ctx, carID)
		if err != nil {
			return err
		}
		if _, err := repos.Customers.GetByID(ctx, customerID); err != nil {
			return err
		}

		overlap, err := repos.Rentals.HasOverlap(ctx, carID, period.Start, period.End)
		if err != nil {
			return err
		}
		if overlap {
			return fmt.Errorf("%w: car %d is booked within %s", domain.ErrCarUnavailable, carID, period)
		}

		cost, err := utils.CalculateRentalCost(period.Start, period.End, car.DailyRateCents)
		if err != nil {
			return err
		}

		rental = &domain.Rental{
			CarID:            carID,
			CustomerID:       customerID,
			StartDate:        period.Start,
			EndDate:          period.End,
			Status:           domain.RentalStatusPending,
			PricePerDayCents: cost.DailyRate,
			DayCount:         cost.Days,
			TotalAmountCents: cost.TotalCost,
		}
		if err := repos.Rentals.Create(ctx, rental); err != nil {
			return err
		}
		return repos.Cars.SetAvailability(ctx, carID, false)
	})
	if err != nil {
		logger.ExitMethodWithError("bookingService.Book", err, "carID", carID, "customerID", customerID)
		return nil, err
	}

	logger.InfoContext(ctx, "Rental requested", "rental_id", rental.ID, "car_id", carID, "customer_id", customerID,
		"period", period.String(), "total", rental.TotalAmountCents.String())
	logger.ExitMethod("bookingService.Book", "rentalID", rental.ID)
	return rental, nil
}

// transition runs one lifecycle step under the car lock. check sees the
// reservation as re-read under the lock and may veto it. An empty target
// leaves the reservation unchanged.
func (s *bookingService) transition(ctx context.Context, method string, rentalID int32,
	check func(r *domain.Rental) (target domain.RentalStatus, actor domain.Actor, err error)) (*domain.Rental, error) {
	logger.EnterMethod(method, "rentalID", rentalID)

	var result *domain.Rental
	var applied bool
	err := s.tx.RunInTx(ctx, func(ctx context.Context, repos *repository.Repos) error {
		rental, err := repos.Rentals.GetByID(ctx, rentalID)
		if err != nil {
			return err
		}
		if _, err := repos.Cars.GetForUpdate(ctx, rental.CarID); err != nil {
			return err
		}
		// Another transition may have committed while we waited for the lock.
		if rental, err = repos.Rentals.GetByID(ctx, rentalID); err != nil {
			return err
		}
		result = rental

		target, actor, err := check(rental)
		if err != nil || target == "" {
			return err
		}
		if applied, err = s.policy.Transition(rental, target, actor); err != nil || !applied {
			return err
		}
		if err := repos.Rentals.UpdateStatus(ctx, rental); err != nil {
			return err
		}
		if target == domain.RentalStatusActive {
			// Approval keeps the car held, nothing to recompute.
			return nil
		}
		_, err = recompute(ctx, repos, rental.CarID)
		return err
	})
	if err != nil {
		logger.ExitMethodWithError(method, err, "rentalID", rentalID)
		return nil, err
	}

	if applied {
		logger.InfoContext(ctx, "Rental status changed", "rental_id", rentalID, "car_id", result.CarID, "status", result.Status)
	}
	logger.ExitMethod(method, "rentalID", rentalID, "status", result.Status, "applied", applied)
	return result, nil
}

func (s *bookingService) Cancel(ctx context.Context, rentalID, customerID int32) (*domain.Rental, error) {
	return s.transition(ctx, "bookingService.Cancel", rentalID, func(r *domain.Rental) (domain.RentalStatus, domain.Actor, error) {
		if r.CustomerID != customerID {
			return "", "", fmt.Errorf("%w: rental %d belongs to another customer", domain.ErrForbidden, r.ID)
		}
		if r.Status.IsTerminal() {
			return "", "", nil
		}
		return domain.RentalStatusCancelled, domain.ActorCustomer, nil
	})
}

func (s *bookingService) Approve(ctx context.Context, rentalID int32) (*domain.Rental, error) {
	return s.transition(ctx, "bookingService.Approve", rentalID, func(r *domain.Rental) (domain.RentalStatus, domain.Actor, error) {
		return domain.RentalStatusActive, domain.ActorManager, nil
	})
}

func (s *bookingService) Reject(ctx context.Context, rentalID int32) (*domain.Rental, error) {
	return s.transition(ctx, "bookingService.Reject", rentalID, func(r *domain.Rental) (domain.RentalStatus, domain.Actor, error) {
		return domain.RentalStatusRejected, domain.ActorManager, nil
	})
}

func (s *bookingService) Complete(ctx context.Context, rentalID int32, actor CompletionActor) (*domain.Rental, error) {
	return s.transition(ctx, "bookingService.Complete", rentalID, func(r *domain.Rental) (domain.RentalStatus, domain.Actor, error) {
		if actor.Manager {
			return domain.RentalStatusCompleted, domain.ActorManager, nil
		}
		if actor.CustomerID == 0 || r.CustomerID != actor.CustomerID {
			return "", "", fmt.Errorf("%w: rental %d belongs to another customer", domain.ErrForbidden, r.ID)
		}
		return domain.RentalStatusCompleted, domain.ActorCustomer, nil
	})
}

func (s *bookingService) IsAvailableForDates(ctx context.Context, carID int32, start, end time.Time) (bool, error) {
	if start.IsZero() || end.IsZero() {
		return false, nil
	}
	period := domain.NewDateRange(start, end)
	if !period.Valid() {
		return false, nil
	}
	if _, err := s.repos.Cars.GetByID(ctx, carID); err != nil {
		return false, err
	}
	overlap, err := s.repos.Rentals.HasOverlap(ctx, carID, period.Start, period.End)
	if err != nil {
		return false, err
	}
	return !overlap, nil
}

func (s *bookingService) Get(ctx context.Context, rentalID int32) (*domain.Rental, error) {
	return s.repos.Rentals.GetByID(ctx, rentalID)
}

func (s *bookingService) Customer(ctx context.Context, customerID int32) (*domain.Customer, error) {
	return s.repos.Customers.GetByID(ctx, customerID)
}

func (s *bookingService) ListByCustomer(ctx context.Context, customerID int32) ([]domain.Rental, error) {
	return s.repos.Rentals.ListByCustomer(ctx, customerID)
}

func (s *bookingService) ListByStatus(ctx context.Context, status domain.RentalStatus) ([]domain.Rental, error) {
	return s.repos.Rentals.ListByStatus(ctx, status)
}

func (s *bookingService) ListAll(ctx context.Context) ([]domain.Rental, error) {
	return s.repos.Rentals.ListAll(ctx)
}

func (s *bookingService) RecomputeAvailability(ctx context.Context, carID int32) (bool, error) {
	var changed bool
	err := s.tx.RunInTx(ctx, func(ctx context.Context, repos *repository.Repos) error {
		if _, err := repos.Cars.GetForUpdate(ctx, carID); err != nil {
			return err
		}
		var err error
		changed, err = recompute(ctx, repos, carID)
		return err
	})
	if err != nil {
		return false, err
	}
	return changed, nil
}

// recompute derives the availability flag from the holding reservations.
// The caller must hold the car lock.
func recompute(ctx context.Context, repos *repository.Repos, carID int32) (bool, error) {
	car, err := repos.Cars.GetByID(ctx, carID)
	if err != nil {
		return false, err
	}
	statuses, err := repos.Rentals.ListStatuses(ctx, carID)
	if err != nil {
		return false, err
	}
	available := domain.DeriveAvailability(statuses)
	if car.Available == available {
		return false, nil
	}
	if err := repos.Cars.SetAvailability(ctx, carID, available); err != nil {
		return false, err
	}
	logger.DebugContext(ctx, "Car availability recomputed", "car_id", carID, "available", available, "statuses", statuses)
	return true, nil
}
