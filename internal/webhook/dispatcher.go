package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/nikhilbhutani/dinehub/internal/models"
)

const (
	HeaderEvent     = "X-Dinehub-Event"
	HeaderSignature = "X-Dinehub-Signature"
	HeaderWebhookID = "X-Dinehub-Webhook-ID"
	HeaderTimestamp = "X-Dinehub-Timestamp"
)

// Deliverer POSTs signed payloads to restaurant endpoints and records each
// attempt.
type Deliverer struct {
	store      Store
	httpClient *http.Client
	now        func() time.Time
}

func NewDeliverer(store Store, httpClient *http.Client) *Deliverer {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Deliverer{store: store, httpClient: httpClient, now: time.Now}
}

type DeliveryRequest struct {
	Webhook models.Webhook
	Event   string
	Payload []byte
	Attempt int
}

// StatusError is returned for non-2xx responses so the queue retries them.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook endpoint returned %d", e.StatusCode)
}

func (d *Deliverer) Deliver(ctx context.Context, req DeliveryRequest) error {
	ts := strconv.FormatInt(d.now().Unix(), 10)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.Webhook.URL, bytes.NewReader(req.Payload))
	if err != nil {
		d.record(ctx, req, 0)
		return fmt.Errorf("build webhook request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(HeaderEvent, req.Event)
	httpReq.Header.Set(HeaderWebhookID, req.Webhook.ID.String())
	httpReq.Header.Set(HeaderTimestamp, ts)
	httpReq.Header.Set(HeaderSignature, Sign(req.Webhook.Secret, ts, req.Payload))

	resp, err := d.httpClient.Do(httpReq)
	if err != nil {
		d.record(ctx, req, 0)
		return fmt.Errorf("deliver webhook %s: %w", req.Webhook.ID, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	d.record(ctx, req, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode}
	}
	return nil
}

func (d *Deliverer) record(ctx context.Context, req DeliveryRequest, status int) {
	var deliveredAt *time.Time
	if status >= 200 && status < 300 {
		now := d.now()
		deliveredAt = &now
	}

	err := d.store.RecordDelivery(ctx, models.WebhookDelivery{
		WebhookID:      req.Webhook.ID,
		Event:          req.Event,
		Payload:        req.Payload,
		ResponseStatus: status,
		Attempts:       req.Attempt,
		DeliveredAt:    deliveredAt,
	})
	if err != nil {
		slog.Error("failed to record webhook delivery", "webhook_id", req.Webhook.ID, "error", err)
	}
}

// Sign returns the signature header value for payload sent at timestamp ts.
func Sign(secret, ts string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a signature produced by Sign.
func Verify(secret, ts string, payload []byte, signature string) bool {
	return hmac.Equal([]byte(Sign(secret, ts, payload)), []byte(signature))
}
