package http

import (
	"context"
	"net/http"
	"strconv"

	"carrent-backend/internal/domain"
	"carrent-backend/internal/security"

	"github.com/gorilla/mux"
)

type claimsKey struct{}

func withClaims(ctx context.Context, claims *security.UserClaims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the verified token claims, if the request carried any.
func ClaimsFromContext(ctx context.Context) (*security.UserClaims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*security.UserClaims)
	return claims, ok && claims != nil
}

// viewerRoles is empty for anonymous requests.
func viewerRoles(r *http.Request) []domain.Role {
	if claims, ok := ClaimsFromContext(r.Context()); ok {
		return claims.DomainRoles()
	}
	return nil
}

// customerID returns the caller's customer profile id or ErrForbidden for
// accounts without one.
func customerID(r *http.Request) (int32, error) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		return 0, domain.ErrUnauthenticated
	}
	if claims.CustomerID == 0 {
		return 0, domain.ErrForbidden
	}
	return claims.CustomerID, nil
}

func pathID(r *http.Request, name string) (int32, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 32)
	if err != nil || id <= 0 {
		return 0, domain.Validationf("invalid %s", name)
	}
	return int32(id), nil
}
