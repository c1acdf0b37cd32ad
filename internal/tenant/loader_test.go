package tenant

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilbhutani/dinehub/internal/apperror"
	"github.com/nikhilbhutani/dinehub/internal/models"
)

var fixedNow = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func activeTenant(id, owner int64) *models.Tenant {
	return &models.Tenant{
		ID:                 id,
		Name:               "restaurant",
		OwnerID:            owner,
		IsActive:           true,
		SubscriptionStatus: models.SubscriptionActive,
	}
}

func newTestLoader(store Store, rec EventRecorder) *Loader {
	l := NewLoader(store, rec)
	l.now = func() time.Time { return fixedNow }
	return l
}

var (
	customer = &models.User{ID: 1, Email: "c@example.com", Role: models.RoleCustomer}
	owner7   = &models.User{ID: 100, Email: "o@example.com", Role: models.RoleTenantOwner}
	admin    = &models.User{ID: 999, Email: "a@example.com", Role: models.RolePlatformAdmin}
)

func TestLoader_OwnerOverride(t *testing.T) {
	store := newFakeStore(activeTenant(7, 100), activeTenant(9, 200))
	l := newTestLoader(store, nil)

	got, err := l.Load(context.Background(), LoadRequest{TenantID: 9, Principal: owner7})
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)

	got, err = l.Load(context.Background(), LoadRequest{Principal: owner7})
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID, "owner resolves without any inbound id")
}

func TestLoader_AuthRouteKeepsResolvedID(t *testing.T) {
	store := newFakeStore(activeTenant(7, 100), activeTenant(9, 200))
	l := newTestLoader(store, nil)

	got, err := l.Load(context.Background(), LoadRequest{TenantID: 9, Principal: owner7, AuthRoute: true})
	require.NoError(t, err)
	assert.Equal(t, int64(9), got.ID)
}

func TestLoader_OwnerWithoutRestaurant(t *testing.T) {
	l := newTestLoader(newFakeStore(activeTenant(9, 200)), nil)

	_, err := l.Load(context.Background(), LoadRequest{TenantID: 9, Principal: owner7})
	assert.ErrorIs(t, err, apperror.ErrTenantNotFoundForOwner)
}

func TestLoader_OwnerWithSeveralRestaurants(t *testing.T) {
	l := newTestLoader(newFakeStore(activeTenant(7, 100), activeTenant(8, 100)), nil)

	_, err := l.Load(context.Background(), LoadRequest{TenantID: 7, Principal: owner7})
	assert.ErrorIs(t, err, apperror.ErrTenantNotFoundForOwner)
}

type wrongOwnerStore struct{ *fakeStore }

func (s wrongOwnerStore) GetByOwnerID(ctx context.Context, _ int64) (*models.Tenant, error) {
	return s.GetByID(ctx, 9)
}

func TestLoader_OwnerMismatchIsDenied(t *testing.T) {
	rec := &fakeRecorder{}
	store := wrongOwnerStore{newFakeStore(activeTenant(9, 200))}
	l := newTestLoader(store, rec)

	_, err := l.Load(context.Background(), LoadRequest{Principal: owner7, IP: "10.0.0.1"})
	assert.ErrorIs(t, err, apperror.ErrTenantAccessDenied)
	require.Len(t, rec.events, 1)
	assert.Equal(t, models.ActionTenantAccessDenied, rec.events[0].Action)
	assert.Equal(t, "o@example.com", rec.events[0].Email)
}

func TestLoader_MissingAndUnknown(t *testing.T) {
	l := newTestLoader(newFakeStore(), nil)

	_, err := l.Load(context.Background(), LoadRequest{Principal: customer})
	assert.ErrorIs(t, err, apperror.ErrTenantIDRequired)

	_, err = l.Load(context.Background(), LoadRequest{TenantID: 42, Principal: customer})
	assert.ErrorIs(t, err, apperror.ErrTenantNotFound)
}

func TestLoader_InactiveAppliesToEveryRole(t *testing.T) {
	inactive := activeTenant(7, 100)
	inactive.IsActive = false
	l := newTestLoader(newFakeStore(inactive), nil)

	for _, p := range []*models.User{nil, customer, owner7, admin} {
		_, err := l.Load(context.Background(), LoadRequest{TenantID: 7, Principal: p})
		assert.ErrorIs(t, err, apperror.ErrTenantInactive)
	}
}

func TestLoader_Subscription(t *testing.T) {
	yesterday := fixedNow.Add(-24 * time.Hour)
	tomorrow := fixedNow.Add(24 * time.Hour)

	tests := []struct {
		name    string
		status  models.SubscriptionStatus
		endDate *time.Time
		wantErr error
	}{
		{name: "active without end date", status: models.SubscriptionActive},
		{name: "trial until tomorrow", status: models.SubscriptionTrial, endDate: &tomorrow},
		{name: "expiry overrides active status", status: models.SubscriptionActive, endDate: &yesterday, wantErr: apperror.ErrSubscriptionInvalid},
		{name: "cancelled", status: models.SubscriptionCancelled, wantErr: apperror.ErrSubscriptionInvalid},
		{name: "inactive", status: models.SubscriptionInactive, endDate: &tomorrow, wantErr: apperror.ErrSubscriptionInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tn := activeTenant(7, 100)
			tn.SubscriptionStatus = tt.status
			tn.SubscriptionEndDate = tt.endDate
			l := newTestLoader(newFakeStore(tn), nil)

			_, err := l.Load(context.Background(), LoadRequest{TenantID: 7, Principal: admin})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
