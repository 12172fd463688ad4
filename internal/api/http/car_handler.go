package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"carrent-backend/internal/domain"
	"carrent-backend/internal/service"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type CarHandler struct {
	carSvc     service.CarService
	bookingSvc service.BookingService
}

func NewCarHandler(carSvc service.CarService, bookingSvc service.BookingService) *CarHandler {
	return &CarHandler{carSvc: carSvc, bookingSvc: bookingSvc}
}

func (h *CarHandler) ListCars(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.CarFilter{
		Query:        strings.TrimSpace(q.Get("q")),
		VehicleClass: strings.TrimSpace(q.Get("class")),
		Transmission: strings.TrimSpace(q.Get("transmission")),
	}
	if raw := q.Get("max_rate"); raw != "" {
		rate, err := domain.ParseCents(raw)
		if err != nil {
			RespondDomainError(w, r, err)
			return
		}
		filter.MaxRateCents = rate
	}
	if raw := q.Get("catalog"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			catalog := domain.CatalogType(strings.ToUpper(strings.TrimSpace(part)))
			if !catalog.Valid() {
				RespondDomainError(w, r, domain.Validationf("unknown catalog %q", part))
				return
			}
			filter.Catalogs = append(filter.Catalogs, catalog)
		}
	}
	page := queryInt32(q.Get("page"), 1)
	pageSize := queryInt32(q.Get("page_size"), defaultPageSize)
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	cars, total, err := h.carSvc.ListCars(r.Context(), viewerRoles(r), filter, page, pageSize)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CarListResponse{
		Cars:     MapDomainCarsToResponse(cars),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *CarHandler) ListAvailableCars(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseBookingDates(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	cars, err := h.carSvc.ListAvailableForDates(r.Context(), viewerRoles(r), start, end)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapDomainCarsToResponse(cars))
}

func (h *CarHandler) GetCar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	car, err := h.carSvc.GetCar(r.Context(), viewerRoles(r), id)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapDomainCarToResponse(car))
}

// CheckAvailability answers false rather than 400 for missing or malformed dates.
func (h *CarHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	q := r.URL.Query()
	start, end, err := parseBookingDates(q.Get("start"), q.Get("end"))
	if err != nil {
		start, end = time.Time{}, time.Time{}
	}
	available, err := h.bookingSvc.IsAvailableForDates(r.Context(), id, start, end)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AvailabilityResponse{
		CarID:     id,
		StartDate: q.Get("start"),
		EndDate:   q.Get("end"),
		Available: available,
	})
}

func (h *CarHandler) CreateCar(w http.ResponseWriter, r *http.Request) {
	var req CarRequest
	if err := decodeJSON(r, &req); err != nil {
		RespondDomainError(w, r, err)
		return
	}
	car, err := MapCarRequestToDomain(req)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	if err := h.carSvc.CreateCar(r.Context(), car); err != nil {
		RespondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, MapDomainCarToResponse(car))
}

func (h *CarHandler) UpdateCar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	var req CarRequest
	if err := decodeJSON(r, &req); err != nil {
		RespondDomainError(w, r, err)
		return
	}
	car, err := MapCarRequestToDomain(req)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	car.ID = id
	updated, err := h.carSvc.UpdateCar(r.Context(), car)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapDomainCarToResponse(updated))
}

func (h *CarHandler) DeleteCar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	if err := h.carSvc.DeleteCar(r.Context(), id); err != nil {
		RespondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CarHandler) RecomputeAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	changed, err := h.bookingSvc.RecomputeAvailability(r.Context(), id)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RecomputeResponse{CarID: id, Changed: changed})
}

func queryInt32(raw string, def int32) int32 {
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v <= 0 {
		return def
	}
	return int32(v)
}
