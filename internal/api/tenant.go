package api

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const tenantContextKey contextKey = "tenant"

// RequireTenant is a chi-compatible middleware that extracts the tenant key
// from the Authorization: Bearer header and attaches it to the request
// context. Requests without one are rejected with 400 before any store is
// invoked. The token is opaque: it partitions data and is not verified
// against any identity provider.
func RequireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenant := bearerToken(r)
		if tenant == "" {
			writeError(w, http.StatusBadRequest, "missing tenant token")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), tenant)))
	})
}

// WithTenant returns a copy of ctx carrying the tenant key.
func WithTenant(ctx context.Context, tenant string) context.Context {
	return context.WithValue(ctx, tenantContextKey, tenant)
}

// TenantFromContext returns the tenant key attached by RequireTenant, or
// empty if none is present.
func TenantFromContext(ctx context.Context) string {
	if t, ok := ctx.Value(tenantContextKey).(string); ok {
		return t
	}
	return ""
}

// bearerToken extracts the token from an Authorization: Bearer header, or
// returns empty if the header is absent or malformed.
func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, prefix))
}
