package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// OwnerHeader carries the authenticated caller identity, injected by the
// auth gateway in front of this service.
const OwnerHeader = "X-Scribe-Owner"

type ownerKey struct{}

// Owner returns middleware that extracts the caller identity header and
// stores it in the request context. Requests without a valid identity are
// rejected before reaching any handler.
func Owner() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(r.Header.Get(OwnerHeader))
			if err != nil {
				http.Error(w, "missing or invalid owner identity", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ownerKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OwnerFromContext returns the caller identity stored by the Owner middleware.
// The second return is false when no identity is present.
func OwnerFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ownerKey{}).(uuid.UUID)
	return id, ok
}
