package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Handlers bundles the endpoint groups served by the router.
type Handlers struct {
	Auth   *AuthHandler
	Cars   *CarHandler
	Rental *RentalHandler
	Admin  *AdminHandler
	Photos *PhotoHandler
}

// NewRouter registers every route under the name its security level is
// looked up by.
func NewRouter(h Handlers, auth *AuthMiddleware) http.Handler {
	router := mux.NewRouter()
	router.Use(auth.Handler)

	router.HandleFunc("/healthz", health).Methods(http.MethodGet).Name("Health")

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/register", h.Auth.Register).Methods(http.MethodPost).Name("Register")
	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost).Name("Login")

	api.HandleFunc("/cars", h.Cars.ListCars).Methods(http.MethodGet).Name("ListCars")
	api.HandleFunc("/cars", h.Cars.CreateCar).Methods(http.MethodPost).Name("CreateCar")
	api.HandleFunc("/cars/available", h.Cars.ListAvailableCars).Methods(http.MethodGet).Name("ListAvailableCars")
	api.HandleFunc("/cars/{id:[0-9]+}", h.Cars.GetCar).Methods(http.MethodGet).Name("GetCar")
	api.HandleFunc("/cars/{id:[0-9]+}", h.Cars.UpdateCar).Methods(http.MethodPut).Name("UpdateCar")
	api.HandleFunc("/cars/{id:[0-9]+}", h.Cars.DeleteCar).Methods(http.MethodDelete).Name("DeleteCar")
	api.HandleFunc("/cars/{id:[0-9]+}/availability", h.Cars.CheckAvailability).Methods(http.MethodGet).Name("CheckAvailability")
	api.HandleFunc("/cars/{id:[0-9]+}/photo", h.Photos.Upload).Methods(http.MethodPut).Name("UploadCarPhoto")
	api.HandleFunc("/photos/{key:.+}", h.Photos.Download).Methods(http.MethodGet).Name("GetCarPhoto")

	api.HandleFunc("/rentals", h.Rental.Book).Methods(http.MethodPost).Name("BookRental")
	api.HandleFunc("/rentals/mine", h.Rental.ListMine).Methods(http.MethodGet).Name("ListMyRentals")
	api.HandleFunc("/rentals/{id:[0-9]+}/cancel", h.Rental.Cancel).Methods(http.MethodPost).Name("CancelRental")
	api.HandleFunc("/rentals/{id:[0-9]+}/complete", h.Rental.CompleteMine).Methods(http.MethodPost).Name("CompleteMine")
	api.HandleFunc("/rentals/{id:[0-9]+}/receipt", h.Rental.Receipt).Methods(http.MethodGet).Name("GetRentalReceipt")

	api.HandleFunc("/manager/rentals", h.Rental.ListRentals).Methods(http.MethodGet).Name("ListRentals")
	api.HandleFunc("/manager/rentals/{id:[0-9]+}/approve", h.Rental.Approve).Methods(http.MethodPost).Name("ApproveRental")
	api.HandleFunc("/manager/rentals/{id:[0-9]+}/reject", h.Rental.Reject).Methods(http.MethodPost).Name("RejectRental")
	api.HandleFunc("/manager/rentals/{id:[0-9]+}/complete", h.Rental.Complete).Methods(http.MethodPost).Name("CompleteRental")
	api.HandleFunc("/manager/cars/{id:[0-9]+}/recompute", h.Cars.RecomputeAvailability).Methods(http.MethodPost).Name("RecomputeAvailable")

	api.HandleFunc("/admin/overview", h.Admin.Overview).Methods(http.MethodGet).Name("AdminOverview")
	api.HandleFunc("/admin/users", h.Admin.ListUsers).Methods(http.MethodGet).Name("ListUsers")
	api.HandleFunc("/admin/users/{id:[0-9]+}/roles", h.Admin.SetRoles).Methods(http.MethodPut).Name("SetUserRoles")
	api.HandleFunc("/admin/users/{id:[0-9]+}", h.Admin.DeleteUser).Methods(http.MethodDelete).Name("DeleteUser")

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, "not_found", "route not found")
	})

	return RequestID(RequestLogger(Recoverer(router)))
}

func health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
