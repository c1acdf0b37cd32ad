package tenant

import (
	"context"

	"github.com/nikhilbhutani/dinehub/internal/models"
)

type (
	restaurantCtxKey struct{}
	principalCtxKey  struct{}
)

// WithTenant attaches a validated restaurant. Only the middleware and tests call it.
func WithTenant(ctx context.Context, t *models.Tenant) context.Context {
	return context.WithValue(ctx, restaurantCtxKey{}, t)
}

// FromContext returns the validated restaurant attached by the middleware,
// or nil when the route runs without one.
func FromContext(ctx context.Context) *models.Tenant {
	if t, ok := ctx.Value(restaurantCtxKey{}).(*models.Tenant); ok {
		return t
	}
	return nil
}

// IDFromContext is FromContext(ctx).ID, or zero.
func IDFromContext(ctx context.Context) int64 {
	t := FromContext(ctx)
	if t == nil {
		return 0
	}
	return t.ID
}

func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, u)
}

// UserFromContext returns the authenticated principal, nil for anonymous requests.
func UserFromContext(ctx context.Context) *models.User {
	if u, ok := ctx.Value(principalCtxKey{}).(*models.User); ok {
		return u
	}
	return nil
}
