package http

import (
	"net/http"

	"carrent-backend/internal/service"
)

type AuthHandler struct {
	authSvc service.AuthService
}

func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		RespondDomainError(w, r, err)
		return
	}
	user, customer, err := h.authSvc.Register(r.Context(), req.Username, req.Password, req.FullName)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, RegisterResponse{
		User:       MapDomainUserToResponse(user),
		CustomerID: customer.ID,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		RespondDomainError(w, r, err)
		return
	}
	session, err := h.authSvc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapSessionToResponse(session))
}
