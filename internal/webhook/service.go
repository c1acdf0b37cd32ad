package webhook

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/nikhilbhutani/dinehub/internal/apperror"
	"github.com/nikhilbhutani/dinehub/internal/models"
	"github.com/nikhilbhutani/dinehub/internal/queue"
	"github.com/nikhilbhutani/dinehub/internal/tenant"
)

// Events restaurants can subscribe to.
var Events = []string{
	"order.created",
	"order.status_changed",
	"payment.succeeded",
	"payment.refunded",
}

// Enqueuer hands deliveries to the background worker.
type Enqueuer interface {
	EnqueueWebhookDeliver(ctx context.Context, payload queue.WebhookDeliverPayload) error
}

type Service struct {
	store Store
	queue Enqueuer
}

func NewService(store Store, q Enqueuer) *Service {
	return &Service{store: store, queue: q}
}

type CreateRequest struct {
	URL    string   `json:"url"`
	Events []string `json:"events"`
}

// Created is returned once, on registration; it is the only response that
// carries the signing secret.
type Created struct {
	models.Webhook
	Secret string `json:"secret"`
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Created, error) {
	tenantID := tenant.IDFromContext(ctx)
	if tenantID <= 0 {
		return nil, apperror.ErrTenantUnavailable
	}

	u, err := url.Parse(strings.TrimSpace(req.URL))
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return nil, apperror.ErrInvalidRequest.WithMessage("url must be an absolute http(s) URL")
	}
	if len(req.Events) == 0 {
		return nil, apperror.ErrInvalidRequest.WithMessage("at least one event is required")
	}
	for _, e := range req.Events {
		if !slices.Contains(Events, e) {
			return nil, apperror.ErrInvalidRequest.WithMessage(fmt.Sprintf("unknown event %q", e))
		}
	}

	secret, err := generateSecret()
	if err != nil {
		return nil, fmt.Errorf("generate secret: %w", err)
	}

	wh := models.Webhook{
		TenantID: tenantID,
		URL:      u.String(),
		Events:   slices.Compact(slices.Sorted(slices.Values(req.Events))),
		Secret:   secret,
	}
	if err := s.store.Create(ctx, &wh); err != nil {
		return nil, err
	}
	return &Created{Webhook: wh, Secret: secret}, nil
}

func (s *Service) List(ctx context.Context) ([]models.Webhook, error) {
	tenantID := tenant.IDFromContext(ctx)
	if tenantID <= 0 {
		return nil, apperror.ErrTenantUnavailable
	}
	webhooks, err := s.store.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if webhooks == nil {
		webhooks = []models.Webhook{}
	}
	return webhooks, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	tenantID := tenant.IDFromContext(ctx)
	if tenantID <= 0 {
		return apperror.ErrTenantUnavailable
	}
	err := s.store.Delete(ctx, tenantID, id)
	if errors.Is(err, ErrNotFound) {
		return apperror.ErrWebhookNotFound
	}
	return err
}

// Dispatch enqueues event for every active subscription of the restaurant.
func (s *Service) Dispatch(ctx context.Context, tenantID int64, event string, payload any) error {
	subs, err := s.store.Subscribers(ctx, tenantID, event)
	if err != nil {
		return err
	}
	if len(subs) == 0 || s.queue == nil {
		return nil
	}

	body, err := json.Marshal(map[string]any{
		"event":         event,
		"restaurant_id": tenantID,
		"data":          payload,
	})
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", event, err)
	}

	var errs []error
	for _, wh := range subs {
		err := s.queue.EnqueueWebhookDeliver(ctx, queue.WebhookDeliverPayload{
			WebhookID: wh.ID.String(),
			TenantID:  tenantID,
			Event:     event,
			Payload:   body,
		})
		if err != nil {
			slog.Warn("webhook enqueue failed", "webhook_id", wh.ID, "event", event, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func generateSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "whsec_" + hex.EncodeToString(b), nil
}
