package http

import (
	"fmt"
	"strings"
	"time"

	"carrent-backend/internal/domain"
	"carrent-backend/internal/service"
	"carrent-backend/internal/utils"
)

type CarResponse struct {
	ID           int32  `json:"id"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	VehicleClass string `json:"vehicle_class"`
	Transmission string `json:"transmission"`
	Year         int    `json:"year"`
	DailyRate    string `json:"daily_rate"`
	Available    bool   `json:"available"`
	Catalog      string `json:"catalog"`
	PhotoURL     string `json:"photo_url,omitempty"`
}

type CarRequest struct {
	Make         string `json:"make"`
	Model        string `json:"model"`
	VehicleClass string `json:"vehicle_class"`
	Transmission string `json:"transmission"`
	Year         int    `json:"year"`
	DailyRate    string `json:"daily_rate"`
	Catalog      string `json:"catalog"`
}

type CarListResponse struct {
	Cars     []CarResponse `json:"cars"`
	Total    int32         `json:"total"`
	Page     int32         `json:"page"`
	PageSize int32         `json:"page_size"`
}

type AvailabilityResponse struct {
	CarID     int32  `json:"car_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Available bool   `json:"available"`
}

type RentalResponse struct {
	ID          int32  `json:"id"`
	CarID       int32  `json:"car_id"`
	CustomerID  int32  `json:"customer_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Status      string `json:"status"`
	PricePerDay string `json:"price_per_day"`
	DayCount    int32  `json:"day_count"`
	TotalAmount string `json:"total_amount"`
	CreatedOn   string `json:"created_on"`
}

type BookRequest struct {
	CarID     int32  `json:"car_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID        int32    `json:"id"`
	Username  string   `json:"username"`
	Roles     []string `json:"roles"`
	CreatedOn string   `json:"created_on,omitempty"`
}

type OverviewResponse struct {
	CarCount      int32            `json:"car_count"`
	UserCount     int32            `json:"user_count"`
	RentalCount   int32            `json:"rental_count"`
	RecentCars    []CarResponse    `json:"recent_cars"`
	RecentRentals []RentalResponse `json:"recent_rentals"`
}

type RegisterResponse struct {
	User       UserResponse `json:"user"`
	CustomerID int32        `json:"customer_id"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   string       `json:"expires_at"`
	User        UserResponse `json:"user"`
	CustomerID  int32        `json:"customer_id,omitempty"`
}

type RolesRequest struct {
	Roles []string `json:"roles"`
}

type RecomputeResponse struct {
	CarID   int32 `json:"car_id"`
	Changed bool  `json:"changed"`
}

func MapDomainCarToResponse(c *domain.Car) CarResponse {
	return CarResponse{
		ID:           c.ID,
		Make:         c.Make,
		Model:        c.Model,
		VehicleClass: c.VehicleClass,
		Transmission: c.Transmission,
		Year:         c.Year,
		DailyRate:    c.DailyRateCents.String(),
		Available:    c.Available,
		Catalog:      string(c.Catalog),
		PhotoURL:     c.PhotoURL,
	}
}

func MapDomainCarsToResponse(cars []domain.Car) []CarResponse {
	out := make([]CarResponse, 0, len(cars))
	for i := range cars {
		out = append(out, MapDomainCarToResponse(&cars[i]))
	}
	return out
}

// MapCarRequestToDomain converts the payload; the availability flag is never
// taken from a client.
func MapCarRequestToDomain(req CarRequest) (*domain.Car, error) {
	rate, err := domain.ParseCents(req.DailyRate)
	if err != nil {
		return nil, err
	}
	return &domain.Car{
		Make:           strings.TrimSpace(req.Make),
		Model:          strings.TrimSpace(req.Model),
		VehicleClass:   strings.TrimSpace(req.VehicleClass),
		Transmission:   strings.TrimSpace(req.Transmission),
		Year:           req.Year,
		DailyRateCents: rate,
		Catalog:        domain.CatalogType(strings.ToUpper(strings.TrimSpace(req.Catalog))),
	}, nil
}

func MapDomainRentalToResponse(r *domain.Rental) RentalResponse {
	return RentalResponse{
		ID:          r.ID,
		CarID:       r.CarID,
		CustomerID:  r.CustomerID,
		StartDate:   r.StartDate.Format(domain.DateLayout),
		EndDate:     r.EndDate.Format(domain.DateLayout),
		Status:      string(r.Status),
		PricePerDay: r.PricePerDayCents.String(),
		DayCount:    r.DayCount,
		TotalAmount: r.TotalAmountCents.String(),
		CreatedOn:   r.CreatedOn.Format(time.RFC3339),
	}
}

func MapDomainRentalsToResponse(rentals []domain.Rental) []RentalResponse {
	out := make([]RentalResponse, 0, len(rentals))
	for i := range rentals {
		out = append(out, MapDomainRentalToResponse(&rentals[i]))
	}
	return out
}

func MapDomainUserToResponse(u *domain.User) UserResponse {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, string(r))
	}
	resp := UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Roles:    roles,
	}
	if !u.CreatedOn.IsZero() {
		resp.CreatedOn = u.CreatedOn.Format(domain.DateLayout)
	}
	return resp
}

func MapSessionToResponse(s *service.Session) LoginResponse {
	return LoginResponse{
		AccessToken: s.AccessToken,
		ExpiresAt:   s.ExpiresAt.UTC().Format(time.RFC3339),
		User:        MapDomainUserToResponse(s.User),
		CustomerID:  s.CustomerID,
	}
}

// parseBookingDates fails with ErrInvalidDateRange on malformed input.
func parseBookingDates(start, end string) (time.Time, time.Time, error) {
	s, err := utils.ParseDate(strings.TrimSpace(start))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date: %v", domain.ErrInvalidDateRange, err)
	}
	e, err := utils.ParseDate(strings.TrimSpace(end))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end_date: %v", domain.ErrInvalidDateRange, err)
	}
	return s, e, nil
}

func MapOverviewToResponse(o *service.Overview) OverviewResponse {
	return OverviewResponse{
		CarCount:      o.CarCount,
		UserCount:     o.UserCount,
		RentalCount:   o.RentalCount,
		RecentCars:    MapDomainCarsToResponse(o.RecentCars),
		RecentRentals: MapDomainRentalsToResponse(o.RecentRentals),
	}
}
