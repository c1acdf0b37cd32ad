package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/nikhilbhutani/dinehub/internal/metrics"
	"github.com/nikhilbhutani/dinehub/internal/models"
	"github.com/nikhilbhutani/dinehub/internal/queue"
	"github.com/nikhilbhutani/dinehub/internal/webhook"
)

type WebhookLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Webhook, error)
}

type Deliverer interface {
	Deliver(ctx context.Context, req webhook.DeliveryRequest) error
}

type WebhookWorker struct {
	webhooks  WebhookLookup
	deliverer Deliverer
	metrics   *metrics.Metrics
}

func NewWebhookWorker(webhooks WebhookLookup, deliverer Deliverer, m *metrics.Metrics) *WebhookWorker {
	return &WebhookWorker{webhooks: webhooks, deliverer: deliverer, metrics: m}
}

func (w *WebhookWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.WebhookDeliverPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		w.metrics.Webhook("invalid_payload")
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	id, err := uuid.Parse(payload.WebhookID)
	if err != nil {
		w.metrics.Webhook("invalid_payload")
		return fmt.Errorf("parse webhook ID: %v: %w", err, asynq.SkipRetry)
	}

	wh, err := w.webhooks.Get(ctx, id)
	if errors.Is(err, webhook.ErrNotFound) {
		slog.Info("webhook removed before delivery", "webhook_id", id, "event", payload.Event)
		w.metrics.Webhook("skipped")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load webhook: %w", err)
	}
	if !wh.IsActive || wh.TenantID != payload.TenantID {
		w.metrics.Webhook("skipped")
		return nil
	}

	attempt, _ := asynq.GetRetryCount(ctx)
	err = w.deliverer.Deliver(ctx, webhook.DeliveryRequest{
		Webhook: *wh,
		Event:   payload.Event,
		Payload: payload.Payload,
		Attempt: attempt + 1,
	})
	if err != nil {
		w.metrics.Webhook("failed")
		return err
	}

	w.metrics.Webhook("delivered")
	return nil
}
