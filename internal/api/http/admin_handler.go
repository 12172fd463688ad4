package http

import (
	"net/http"
	"strings"

	"carrent-backend/internal/domain"
	"carrent-backend/internal/service"
)

type AdminHandler struct {
	adminSvc service.AdminService
}

func NewAdminHandler(adminSvc service.AdminService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

func (h *AdminHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.adminSvc.Overview(r.Context())
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapOverviewToResponse(overview))
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminSvc.ListUsers(r.Context())
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, MapDomainUserToResponse(&users[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AdminHandler) SetRoles(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	var req RolesRequest
	if err := decodeJSON(r, &req); err != nil {
		RespondDomainError(w, r, err)
		return
	}
	roles := make([]domain.Role, 0, len(req.Roles))
	for _, raw := range req.Roles {
		role, err := domain.ParseRole(strings.ToUpper(strings.TrimSpace(raw)))
		if err != nil {
			RespondDomainError(w, r, err)
			return
		}
		roles = append(roles, role)
	}
	user, err := h.adminSvc.SetRoles(r.Context(), id, roles)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapDomainUserToResponse(user))
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	if claims, ok := ClaimsFromContext(r.Context()); ok && claims.UserID == id {
		RespondDomainError(w, r, domain.Conflictf("administrators cannot delete their own account"))
		return
	}
	if err := h.adminSvc.DeleteUser(r.Context(), id); err != nil {
		RespondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
