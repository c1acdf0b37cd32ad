package tenant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nikhilbhutani/dinehub/internal/apperror"
	"github.com/nikhilbhutani/dinehub/internal/models"
)

// Store is the read side the loader needs.
type Store interface {
	GetByID(ctx context.Context, id int64) (*models.Tenant, error)
	GetByOwnerID(ctx context.Context, ownerID int64) (*models.Tenant, error)
}

// EventRecorder receives security events. Record must not block.
type EventRecorder interface {
	Record(evt models.SecurityEvent)
}

type LoadRequest struct {
	// TenantID is the resolved id, zero when none was found.
	TenantID  int64
	Principal *models.User
	// AuthRoute marks login and registration: the resolved id is kept
	// verbatim and the cross-tenant decision is left to the auth guard.
	AuthRoute bool
	IP        string
}

type Loader struct {
	store  Store
	events EventRecorder
	now    func() time.Time
}

func NewLoader(store Store, events EventRecorder) *Loader {
	return &Loader{store: store, events: events, now: time.Now}
}

// Load settles the restaurant for a request and validates it.
func (l *Loader) Load(ctx context.Context, req LoadRequest) (*models.Tenant, error) {
	owner := req.Principal != nil && req.Principal.Role == models.RoleTenantOwner

	var t *models.Tenant
	if owner && !req.AuthRoute {
		owned, err := l.store.GetByOwnerID(ctx, req.Principal.ID)
		if errors.Is(err, ErrNotFound) {
			return nil, apperror.ErrTenantNotFoundForOwner.WithDetails("owner %d", req.Principal.ID)
		}
		if errors.Is(err, ErrAmbiguousOwner) {
			return nil, apperror.ErrTenantNotFoundForOwner.WithDetails("owner %d has more than one restaurant", req.Principal.ID)
		}
		if err != nil {
			return nil, fmt.Errorf("load owned restaurant: %w", err)
		}
		t = owned
	} else {
		if req.TenantID <= 0 {
			return nil, apperror.ErrTenantIDRequired
		}
		found, err := l.store.GetByID(ctx, req.TenantID)
		if errors.Is(err, ErrNotFound) {
			return nil, apperror.ErrTenantNotFound.WithDetails("restaurant %d", req.TenantID)
		}
		if err != nil {
			return nil, fmt.Errorf("load restaurant: %w", err)
		}
		t = found
	}

	if owner && !req.AuthRoute && t.OwnerID != req.Principal.ID {
		l.record(t.ID, req, "restaurant owned by another account")
		return nil, apperror.ErrTenantAccessDenied.WithDetails("restaurant %d", t.ID)
	}

	if !t.IsActive {
		return nil, apperror.ErrTenantInactive.WithDetails("restaurant %d", t.ID)
	}

	if !t.SubscriptionValid(l.now()) {
		return nil, apperror.ErrSubscriptionInvalid.WithDetails("restaurant %d status %s", t.ID, t.SubscriptionStatus)
	}

	return t, nil
}

func (l *Loader) record(tenantID int64, req LoadRequest, reason string) {
	if l.events == nil {
		return
	}
	evt := models.SecurityEvent{
		Action:   models.ActionTenantAccessDenied,
		TenantID: &tenantID,
		Reason:   reason,
		IP:       req.IP,
		At:       l.now(),
	}
	if req.Principal != nil {
		id := req.Principal.ID
		evt.UserID = &id
		evt.Email = req.Principal.Email
	}
	l.events.Record(evt)
}
