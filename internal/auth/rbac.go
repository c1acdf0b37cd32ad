package auth

import (
	"net/http"

	"github.com/nikhilbhutani/dinehub/internal/apperror"
	"github.com/nikhilbhutani/dinehub/internal/models"
	"github.com/nikhilbhutani/dinehub/internal/tenant"
)

type Capability int

const (
	CapPlaceOrders Capability = iota
	CapManageOrders
	CapManageWebhooks
	CapPlatformAdmin
)

func (c Capability) String() string {
	switch c {
	case CapPlaceOrders:
		return "orders:place"
	case CapManageOrders:
		return "orders:manage"
	case CapManageWebhooks:
		return "webhooks:manage"
	case CapPlatformAdmin:
		return "platform:admin"
	}
	return "unknown"
}

// Allowed reports whether role grants capability.
func Allowed(role models.Role, c Capability) bool {
	switch role {
	case models.RolePlatformAdmin:
		return true
	case models.RoleTenantOwner:
		return c == CapManageOrders || c == CapManageWebhooks
	case models.RoleCustomer:
		return c == CapPlaceOrders
	}
	return false
}

type RBAC struct {
	render apperror.Renderer
}

func NewRBAC(render apperror.Renderer) *RBAC {
	return &RBAC{render: render}
}

func (rb *RBAC) Require(c Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := tenant.UserFromContext(r.Context())
			if user == nil {
				rb.render.Write(w, r, apperror.ErrUnauthenticated)
				return
			}
			if !Allowed(user.Role, c) {
				rb.render.Write(w, r, apperror.ErrForbidden.WithDetails("role %s lacks %s", user.Role, c))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
