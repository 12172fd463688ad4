// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic   SecurityLevel = iota // No authentication
	SecurityOptional                      // Token read when present, e.g. to widen the catalog
	SecurityAccess                        // Access token required
	SecurityManager                       // Access token with MANAGER or ADMIN
	SecurityAdmin                         // Access token with ADMIN
)

func (l SecurityLevel) String() string {
	switch l {
	case SecurityPublic:
		return "public"
	case SecurityOptional:
		return "optional"
	case SecurityAccess:
		return "access"
	case SecurityManager:
		return "manager"
	case SecurityAdmin:
		return "admin"
	}
	return "unknown"
}

// EndpointSecurityConfig maps route names to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	"Health": SecurityPublic,

	// Auth
	"Register": SecurityPublic,
	"Login":    SecurityPublic,

	// Catalog
	"ListCars":           SecurityOptional,
	"ListAvailableCars":  SecurityOptional,
	"GetCar":             SecurityOptional,
	"CheckAvailability":  SecurityPublic,
	"GetCarPhoto":        SecurityPublic,
	"CreateCar":          SecurityManager,
	"UpdateCar":          SecurityManager,
	"UploadCarPhoto":     SecurityManager,
	"DeleteCar":          SecurityAdmin,
	"RecomputeAvailable": SecurityManager,

	// Customer rentals
	"BookRental":       SecurityAccess,
	"ListMyRentals":    SecurityAccess,
	"CancelRental":     SecurityAccess,
	"CompleteMine":     SecurityAccess,
	"GetRentalReceipt": SecurityAccess,

	// Manager rentals
	"ListRentals":    SecurityManager,
	"ApproveRental":  SecurityManager,
	"RejectRental":   SecurityManager,
	"CompleteRental": SecurityManager,

	// Administration
	"AdminOverview": SecurityAdmin,
	"ListUsers":     SecurityAdmin,
	"SetUserRoles":  SecurityAdmin,
	"DeleteUser":    SecurityAdmin,
}

// GetSecurityLevel returns the security level for a given route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAdmin
}
