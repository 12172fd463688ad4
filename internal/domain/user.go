package domain

import "time"

type Role string

const (
	RoleClient   Role = "CLIENT"
	RoleEmployee Role = "EMPLOYEE"
	RoleManager  Role = "MANAGER"
	RoleAdmin    Role = "ADMIN"
)

func ParseRole(s string) (Role, error) {
	r := Role(s)
	switch r {
	case RoleClient, RoleEmployee, RoleManager, RoleAdmin:
		return r, nil
	}
	return "", Validationf("unknown role %q", s)
}

type User struct {
	ID           int32     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Roles        []Role    `json:"roles"`
	CreatedOn    time.Time `json:"created_on"`
}

func HasAnyRole(roles []Role, want ...Role) bool {
	for _, r := range roles {
		for _, w := range want {
			if r == w {
				return true
			}
		}
	}
	return false
}

// IsStaff reports whether roles may see restricted catalogs.
func IsStaff(roles []Role) bool {
	return HasAnyRole(roles, RoleEmployee, RoleManager, RoleAdmin)
}

func IsManager(roles []Role) bool {
	return HasAnyRole(roles, RoleManager, RoleAdmin)
}

// VisibleCatalogs lists the catalog segments a viewer with roles may browse.
func VisibleCatalogs(roles []Role) []CatalogType {
	if IsStaff(roles) {
		return []CatalogType{CatalogRegular, CatalogTaxi, CatalogDelivery}
	}
	return []CatalogType{CatalogRegular}
}
