package order

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nikhilbhutani/dinehub/internal/apperror"
	"github.com/nikhilbhutani/dinehub/internal/metrics"
	"github.com/nikhilbhutani/dinehub/internal/models"
	"github.com/nikhilbhutani/dinehub/internal/tenant"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"

	// totalTolerance is the largest accepted gap between a client total and
	// the recomputed one.
	totalTolerance = 0.01
)

// Notifier fans order events out to restaurant webhooks.
type Notifier interface {
	Dispatch(ctx context.Context, tenantID int64, event string, payload any) error
}

type Service struct {
	store    Store
	notifier Notifier
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewService(store Store, notifier Notifier, m *metrics.Metrics) *Service {
	return &Service{store: store, notifier: notifier, metrics: m, now: time.Now}
}

type ItemInput struct {
	MenuItemID int64        `json:"menu_item_id"`
	Name       string       `json:"name"`
	Quantity   int          `json:"quantity"`
	UnitPrice  float64      `json:"unit_price"`
	Options    OptionsInput `json:"selected_options"`
}

type CreateInput struct {
	Items           []ItemInput `json:"items"`
	DeliveryFee     float64     `json:"delivery_fee"`
	Tax             float64     `json:"tax"`
	Total           *float64    `json:"total,omitempty"`
	PaymentMethod   string      `json:"payment_method"`
	DeliveryAddress string      `json:"delivery_address"`
	Notes           string      `json:"notes"`
	OrderGroupID    *string     `json:"order_group_id,omitempty"`
}

// Create places an order for the signed-in customer against the restaurant
// in ctx. Totals are recomputed from the normalized lines.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Order, error) {
	t := tenant.FromContext(ctx)
	if t == nil {
		return nil, apperror.ErrTenantUnavailable
	}
	user := tenant.UserFromContext(ctx)
	if user == nil {
		return nil, apperror.ErrUnauthenticated
	}
	if len(in.Items) == 0 {
		return nil, apperror.ErrEmptyOrder
	}
	if in.DeliveryFee < 0 || in.Tax < 0 {
		return nil, apperror.ErrInvalidRequest.WithMessage("delivery fee and tax must not be negative")
	}

	var groupID *string
	if in.OrderGroupID != nil && *in.OrderGroupID != "" {
		id, err := uuid.Parse(*in.OrderGroupID)
		if err != nil {
			return nil, apperror.ErrInvalidRequest.WithMessage("order_group_id must be a UUID")
		}
		g := id.String()
		groupID = &g
	}

	items := make([]models.OrderItem, 0, len(in.Items))
	var subtotal float64
	for i, it := range in.Items {
		if it.UnitPrice < 0 {
			return nil, apperror.ErrInvalidOrderItem.WithDetails("item %d has a negative unit price", i)
		}
		qty := it.Quantity
		if qty <= 0 {
			qty = 1
		}
		price := round2(it.UnitPrice)
		line := round2(price * float64(qty))
		subtotal += line

		items = append(items, models.OrderItem{
			MenuItemID: it.MenuItemID,
			Name:       strings.TrimSpace(it.Name),
			Quantity:   qty,
			UnitPrice:  price,
			LineTotal:  line,
			Options:    it.Options.Normalize(),
		})
	}

	subtotal = round2(subtotal)
	fee := round2(in.DeliveryFee)
	tax := round2(in.Tax)
	total := round2(subtotal + fee + tax)
	if in.Total != nil && math.Abs(*in.Total-total) > totalTolerance+1e-9 {
		return nil, apperror.ErrTotalMismatch.WithDetails("client total %.2f, computed %.2f", *in.Total, total)
	}

	o := &models.Order{
		OrderNumber:     NewOrderNumber(s.now()),
		CustomerID:      user.ID,
		TenantID:        t.ID,
		OrderGroupID:    groupID,
		Items:           items,
		Status:          models.OrderPending,
		PaymentStatus:   models.PaymentPending,
		PaymentMethod:   strings.TrimSpace(in.PaymentMethod),
		Subtotal:        subtotal,
		DeliveryFee:     fee,
		Tax:             tax,
		Total:           total,
		DeliveryAddress: strings.TrimSpace(in.DeliveryAddress),
		Notes:           strings.TrimSpace(in.Notes),
	}
	if err := s.store.Insert(ctx, o); err != nil {
		return nil, err
	}

	s.metrics.Transition(string(models.OrderPending))
	s.notify(ctx, o.TenantID, EventOrderCreated, o)
	return o, nil
}

// UpdateStatus moves an order of the restaurant in ctx along the lifecycle.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (*models.Order, error) {
	t := tenant.FromContext(ctx)
	if t == nil {
		return nil, apperror.ErrTenantUnavailable
	}
	if err := canManage(tenant.UserFromContext(ctx), t); err != nil {
		return nil, err
	}

	to, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}

	current, err := s.store.GetByID(ctx, t.ID, id)
	if errors.Is(err, ErrNotFound) {
		return nil, apperror.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if !CanTransition(current.Status, to) {
		return nil, apperror.ErrInvalidStatusTransition.WithDetails("%s -> %s", current.Status, to)
	}

	updated, err := s.store.UpdateStatus(ctx, t.ID, id, current.Status, to)
	if errors.Is(err, ErrStale) {
		return nil, apperror.ErrInvalidStatusTransition.WithDetails("order %d is no longer %s", id, current.Status)
	}
	if err != nil {
		return nil, err
	}

	s.metrics.Transition(string(to))
	s.notify(ctx, updated.TenantID, EventOrderStatusChanged, map[string]any{
		"order":           updated,
		"previous_status": current.Status,
	})
	return updated, nil
}

// Get returns an order of the restaurant in ctx. Customers only see their own.
func (s *Service) Get(ctx context.Context, id int64) (*models.Order, error) {
	t := tenant.FromContext(ctx)
	if t == nil {
		return nil, apperror.ErrTenantUnavailable
	}
	user := tenant.UserFromContext(ctx)
	if user == nil {
		return nil, apperror.ErrUnauthenticated
	}

	o, err := s.store.GetByID(ctx, t.ID, id)
	if errors.Is(err, ErrNotFound) {
		return nil, apperror.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if user.Role == models.RoleCustomer && o.CustomerID != user.ID {
		return nil, apperror.ErrOrderNotFound
	}
	if user.Role == models.RoleTenantOwner && t.OwnerID != user.ID {
		return nil, apperror.ErrOrderNotFound
	}
	return o, nil
}

type ListParams struct {
	Status string
	Limit  int
	Offset int
}

func (s *Service) List(ctx context.Context, p ListParams) ([]models.Order, error) {
	t := tenant.FromContext(ctx)
	if t == nil {
		return nil, apperror.ErrTenantUnavailable
	}
	user := tenant.UserFromContext(ctx)
	if user == nil {
		return nil, apperror.ErrUnauthenticated
	}

	f := ListFilter{TenantID: t.ID, Limit: p.Limit, Offset: p.Offset}
	if p.Status != "" {
		st, err := ParseStatus(p.Status)
		if err != nil {
			return nil, err
		}
		f.Status = st
	}
	if p.Offset < 0 {
		f.Offset = 0
	}

	switch user.Role {
	case models.RoleCustomer:
		id := user.ID
		f.CustomerID = &id
	case models.RoleTenantOwner:
		if t.OwnerID != user.ID {
			return nil, apperror.ErrTenantAccessDenied
		}
	}

	orders, err := s.store.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

func canManage(user *models.User, t *models.Tenant) error {
	if user == nil {
		return apperror.ErrUnauthenticated
	}
	switch user.Role {
	case models.RolePlatformAdmin:
		return nil
	case models.RoleTenantOwner:
		if t.OwnerID == user.ID {
			return nil
		}
		return apperror.ErrTenantAccessDenied
	}
	return apperror.ErrForbidden.WithDetails("role %s cannot change order status", user.Role)
}

func (s *Service) notify(ctx context.Context, tenantID int64, event string, payload any) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Dispatch(ctx, tenantID, event, payload); err != nil {
		slog.Warn("order webhook dispatch failed", "event", event, "restaurant_id", tenantID, "error", err)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
