package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/nikhilbhutani/dinehub/internal/apperror"
	"github.com/nikhilbhutani/dinehub/internal/models"
	"github.com/nikhilbhutani/dinehub/internal/tenant"
)

// OrderHistory answers whether a customer has ordered from a restaurant.
type OrderHistory interface {
	CountForCustomer(ctx context.Context, customerID, tenantID int64) (int, error)
}

// Guard decides whether a principal may sign in to the restaurant app it is
// using. The restaurant here is the app being logged into, not the one the
// account belongs to.
type Guard struct {
	orders OrderHistory
	events tenant.EventRecorder
}

func NewGuard(orders OrderHistory, events tenant.EventRecorder) *Guard {
	return &Guard{orders: orders, events: events}
}

type LoginAttempt struct {
	User   *models.User
	Tenant *models.Tenant
	IP     string
}

func (g *Guard) CheckLogin(ctx context.Context, a LoginAttempt) error {
	if a.Tenant == nil {
		return nil
	}

	switch a.User.Role {
	case models.RolePlatformAdmin:
		return nil

	case models.RoleTenantOwner:
		if a.Tenant.OwnerID == a.User.ID {
			return nil
		}
		return g.deny(a, "owner signing in to a restaurant it does not own")

	case models.RoleCustomer:
		if a.User.DefaultTenantID != nil && *a.User.DefaultTenantID == a.Tenant.ID {
			return nil
		}
		n, err := g.orders.CountForCustomer(ctx, a.User.ID, a.Tenant.ID)
		if err != nil {
			return fmt.Errorf("count customer orders: %w", err)
		}
		if n > 0 {
			return nil
		}
		return g.deny(a, "customer has no link to this restaurant")
	}

	return g.deny(a, fmt.Sprintf("unknown role %q", a.User.Role))
}

func (g *Guard) deny(a LoginAttempt, reason string) error {
	tenantID := a.Tenant.ID
	userID := a.User.ID
	if g.events != nil {
		g.events.Record(models.SecurityEvent{
			Action:   models.ActionCrossTenantLoginDenied,
			TenantID: &tenantID,
			UserID:   &userID,
			Email:    a.User.Email,
			Reason:   reason,
			IP:       a.IP,
			At:       time.Now(),
		})
	}
	return apperror.ErrCrossTenantLoginDenied.WithDetails("user %d, restaurant %d: %s", userID, tenantID, reason)
}
