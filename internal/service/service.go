package service

import (
	"context"
	"io"
	"time"

	"carrent-backend/internal/domain"
)

// CompletionActor identifies who completes a rental. A zero CustomerID with
// Manager unset is rejected as forbidden.
type CompletionActor struct {
	Manager    bool
	CustomerID int32
}

func ManagerCompletion() CompletionActor {
	return CompletionActor{Manager: true}
}

func CustomerCompletion(customerID int32) CompletionActor {
	return CompletionActor{CustomerID: customerID}
}

type BookingService interface {
	Book(ctx context.Context, carID, customerID int32, start, end time.Time) (*domain.Rental, error)
	Cancel(ctx context.Context, rentalID, customerID int32) (*domain.Rental, error)
	Approve(ctx context.Context, rentalID int32) (*domain.Rental, error)
	Reject(ctx context.Context, rentalID int32) (*domain.Rental, error)
	Complete(ctx context.Context, rentalID int32, actor CompletionActor) (*domain.Rental, error)
	IsAvailableForDates(ctx context.Context, carID int32, start, end time.Time) (bool, error)
	Get(ctx context.Context, rentalID int32) (*domain.Rental, error)
	// Customer returns the profile a reservation belongs to.
	Customer(ctx context.Context, customerID int32) (*domain.Customer, error)
	ListByCustomer(ctx context.Context, customerID int32) ([]domain.Rental, error)
	ListByStatus(ctx context.Context, status domain.RentalStatus) ([]domain.Rental, error)
	ListAll(ctx context.Context) ([]domain.Rental, error)
	// RecomputeAvailability re-derives the car's availability flag and reports
	// whether the stored value changed.
	RecomputeAvailability(ctx context.Context, carID int32) (changed bool, err error)
}

type CarService interface {
	ListCars(ctx context.Context, viewerRoles []domain.Role, filter domain.CarFilter, page, pageSize int32) ([]domain.Car, int32, error)
	ListAvailableForDates(ctx context.Context, viewerRoles []domain.Role, start, end time.Time) ([]domain.Car, error)
	GetCar(ctx context.Context, viewerRoles []domain.Role, id int32) (*domain.Car, error)
	CreateCar(ctx context.Context, car *domain.Car) error
	UpdateCar(ctx context.Context, car *domain.Car) (*domain.Car, error)
	DeleteCar(ctx context.Context, id int32) error
	UploadPhoto(ctx context.Context, carID int32, contentType string, body io.Reader) (*domain.Car, error)
}

// Session is the result of a successful login.
type Session struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *domain.User
	CustomerID  int32
}

type AuthService interface {
	Register(ctx context.Context, username, password, fullName string) (*domain.User, *domain.Customer, error)
	Login(ctx context.Context, username, password string) (*Session, error)
}

// Overview summarises the fleet for the administration dashboard.
type Overview struct {
	CarCount      int32
	UserCount     int32
	RentalCount   int32
	RecentCars    []domain.Car
	RecentRentals []domain.Rental
}

type AdminService interface {
	Overview(ctx context.Context) (*Overview, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	SetRoles(ctx context.Context, userID int32, roles []domain.Role) (*domain.User, error)
	DeleteUser(ctx context.Context, userID int32) error
}
