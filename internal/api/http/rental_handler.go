package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"carrent-backend/internal/domain"
	"carrent-backend/internal/service"
)

type RentalHandler struct {
	bookingSvc service.BookingService
	carSvc     service.CarService
}

func NewRentalHandler(bookingSvc service.BookingService, carSvc service.CarService) *RentalHandler {
	return &RentalHandler{bookingSvc: bookingSvc, carSvc: carSvc}
}

func (h *RentalHandler) Book(w http.ResponseWriter, r *http.Request) {
	custID, err := customerID(r)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	var req BookRequest
	if err := decodeJSON(r, &req); err != nil {
		RespondDomainError(w, r, err)
		return
	}
	if req.CarID <= 0 {
		RespondDomainError(w, r, domain.Validationf("car_id is required"))
		return
	}
	start, end, err := parseBookingDates(req.StartDate, req.EndDate)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	rental, err := h.bookingSvc.Book(r.Context(), req.CarID, custID, start, end)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, MapDomainRentalToResponse(rental))
}

func (h *RentalHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	custID, err := customerID(r)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	rentals, err := h.bookingSvc.ListByCustomer(r.Context(), custID)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapDomainRentalsToResponse(rentals))
}

func (h *RentalHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.customerTransition(w, r, func(rentalID, custID int32) (*domain.Rental, error) {
		return h.bookingSvc.Cancel(r.Context(), rentalID, custID)
	})
}

func (h *RentalHandler) CompleteMine(w http.ResponseWriter, r *http.Request) {
	h.customerTransition(w, r, func(rentalID, custID int32) (*domain.Rental, error) {
		return h.bookingSvc.Complete(r.Context(), rentalID, service.CustomerCompletion(custID))
	})
}

func (h *RentalHandler) customerTransition(w http.ResponseWriter, r *http.Request, apply func(rentalID, custID int32) (*domain.Rental, error)) {
	rentalID, err := pathID(r, "id")
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	custID, err := customerID(r)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	rental, err := apply(rentalID, custID)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapDomainRentalToResponse(rental))
}

// ListRentals serves the manager dashboard, optionally narrowed by ?status=.
func (h *RentalHandler) ListRentals(w http.ResponseWriter, r *http.Request) {
	var (
		rentals []domain.Rental
		err     error
	)
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, perr := domain.ParseRentalStatus(strings.ToUpper(raw))
		if perr != nil {
			RespondDomainError(w, r, perr)
			return
		}
		rentals, err = h.bookingSvc.ListByStatus(r.Context(), status)
	} else {
		rentals, err = h.bookingSvc.ListAll(r.Context())
	}
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapDomainRentalsToResponse(rentals))
}

func (h *RentalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.managerTransition(w, r, h.bookingSvc.Approve)
}

func (h *RentalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.managerTransition(w, r, h.bookingSvc.Reject)
}

func (h *RentalHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.managerTransition(w, r, func(ctx context.Context, rentalID int32) (*domain.Rental, error) {
		return h.bookingSvc.Complete(ctx, rentalID, service.ManagerCompletion())
	})
}

func (h *RentalHandler) managerTransition(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, rentalID int32) (*domain.Rental, error)) {
	rentalID, err := pathID(r, "id")
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	rental, err := apply(r.Context(), rentalID)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapDomainRentalToResponse(rental))
}

// Receipt renders a PDF for the owning customer or for managers.
func (h *RentalHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	rentalID, err := pathID(r, "id")
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		RespondDomainError(w, r, domain.ErrUnauthenticated)
		return
	}
	rental, err := h.bookingSvc.Get(r.Context(), rentalID)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	roles := claims.DomainRoles()
	if rental.CustomerID != claims.CustomerID && !domain.IsManager(roles) {
		// Other customers' rentals are reported as missing.
		RespondDomainError(w, r, domain.NotFoundf("rental %d", rentalID))
		return
	}

	car, err := h.carSvc.GetCar(r.Context(), roles, rental.CarID)
	if err != nil && !domain.IsNotFound(err) {
		RespondDomainError(w, r, err)
		return
	}
	// The customer profile may be gone with its account; the id is still printed.
	customer, err := h.bookingSvc.Customer(r.Context(), rental.CustomerID)
	if err != nil && !domain.IsNotFound(err) {
		RespondDomainError(w, r, err)
		return
	}
	pdfBytes, filename, err := buildReceiptPDF(rental, car, customer)
	if err != nil {
		RespondDomainError(w, r, fmt.Errorf("failed to render receipt: %w", err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}
