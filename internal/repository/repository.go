package repository

import (
	"context"
	"time"

	"carrent-backend/internal/domain"
)

type CarRepository interface {
	Create(ctx context.Context, car *domain.Car) error
	GetByID(ctx context.Context, id int32) (*domain.Car, error)
	// GetForUpdate loads the car and holds its exclusive lock until the
	// surrounding transaction ends. Bookings and transitions on the same car
	// serialise on this lock.
	GetForUpdate(ctx context.Context, id int32) (*domain.Car, error)
	// Update writes the static attributes only; the availability flag is left alone.
	Update(ctx context.Context, car *domain.Car) error
	SetAvailability(ctx context.Context, id int32, available bool) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, filter domain.CarFilter, page, pageSize int32) ([]domain.Car, int32, error)
	ListIDs(ctx context.Context) ([]int32, error)
	Count(ctx context.Context) (int32, error)
	// ListRecent returns up to limit cars, newest first.
	ListRecent(ctx context.Context, limit int32) ([]domain.Car, error)
}

type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id int32) (*domain.Rental, error)
	UpdateStatus(ctx context.Context, rental *domain.Rental) error
	// HasOverlap reports whether a PENDING or ACTIVE rental of the car
	// intersects the inclusive range [start, end].
	HasOverlap(ctx context.Context, carID int32, start, end time.Time) (bool, error)
	// CountHolding counts the car's rentals that hold its availability.
	CountHolding(ctx context.Context, carID int32) (int32, error)
	// ListStatuses returns the distinct statuses of the car's rentals.
	ListStatuses(ctx context.Context, carID int32) ([]domain.RentalStatus, error)
	ListByCustomer(ctx context.Context, customerID int32) ([]domain.Rental, error)
	ListByStatus(ctx context.Context, status domain.RentalStatus) ([]domain.Rental, error)
	ListAll(ctx context.Context) ([]domain.Rental, error)
	Count(ctx context.Context) (int32, error)
	// ListRecent returns up to limit rentals, newest first.
	ListRecent(ctx context.Context, limit int32) ([]domain.Rental, error)
	// DeleteByCustomer removes every rental of the customer and returns the
	// distinct car ids they referenced.
	DeleteByCustomer(ctx context.Context, customerID int32) ([]int32, error)
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id int32) (*domain.Customer, error)
	GetByUserID(ctx context.Context, userID int32) (*domain.Customer, error)
	Delete(ctx context.Context, id int32) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateRoles(ctx context.Context, id int32, roles []domain.Role) error
	List(ctx context.Context) ([]domain.User, error)
	Count(ctx context.Context) (int32, error)
	Delete(ctx context.Context, id int32) error
}

// Repos groups repositories bound to one connection or transaction.
type Repos struct {
	Cars      CarRepository
	Rentals   RentalRepository
	Customers CustomerRepository
	Users     UserRepository
}

type TxManager interface {
	// RunInTx runs fn inside one transaction. The transaction commits when fn
	// returns nil and rolls back otherwise.
	RunInTx(ctx context.Context, fn func(ctx context.Context, repos *Repos) error) error
}
