package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nikhilbhutani/dinehub/internal/models"
)

var ErrNotFound = errors.New("webhook not found")

type Store interface {
	Create(ctx context.Context, wh *models.Webhook) error
	List(ctx context.Context, tenantID int64) ([]models.Webhook, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Webhook, error)
	Delete(ctx context.Context, tenantID int64, id uuid.UUID) error
	Subscribers(ctx context.Context, tenantID int64, event string) ([]models.Webhook, error)
	RecordDelivery(ctx context.Context, d models.WebhookDelivery) error
}

const webhookColumns = `id, restaurant_id, url, events, secret, is_active, created_at`

type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func scanWebhook(row pgx.Row) (*models.Webhook, error) {
	var (
		wh     models.Webhook
		events []byte
	)
	err := row.Scan(&wh.ID, &wh.TenantID, &wh.URL, &events, &wh.Secret, &wh.IsActive, &wh.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(events, &wh.Events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return &wh, nil
}

func (s *PGStore) Create(ctx context.Context, wh *models.Webhook) error {
	events, err := json.Marshal(wh.Events)
	if err != nil {
		return fmt.Errorf("encode events: %w", err)
	}
	err = s.db.QueryRow(ctx,
		`INSERT INTO webhooks (restaurant_id, url, events, secret, is_active)
		 VALUES ($1, $2, $3, $4, true)
		 RETURNING id, is_active, created_at`,
		wh.TenantID, wh.URL, events, wh.Secret,
	).Scan(&wh.ID, &wh.IsActive, &wh.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert webhook: %w", err)
	}
	return nil
}

func (s *PGStore) query(ctx context.Context, sql string, args ...any) ([]models.Webhook, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var webhooks []models.Webhook
	for rows.Next() {
		wh, err := scanWebhook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan webhook: %w", err)
		}
		webhooks = append(webhooks, *wh)
	}
	return webhooks, rows.Err()
}

func (s *PGStore) List(ctx context.Context, tenantID int64) ([]models.Webhook, error) {
	webhooks, err := s.query(ctx,
		"SELECT "+webhookColumns+" FROM webhooks WHERE restaurant_id = $1 ORDER BY created_at DESC", tenantID)
	if err != nil {
		return nil, fmt.Errorf("list webhooks: %w", err)
	}
	return webhooks, nil
}

func (s *PGStore) Get(ctx context.Context, id uuid.UUID) (*models.Webhook, error) {
	wh, err := scanWebhook(s.db.QueryRow(ctx, "SELECT "+webhookColumns+" FROM webhooks WHERE id = $1", id))
	if err != nil {
		return nil, fmt.Errorf("get webhook %s: %w", id, err)
	}
	return wh, nil
}

func (s *PGStore) Delete(ctx context.Context, tenantID int64, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM webhooks WHERE id = $1 AND restaurant_id = $2", id, tenantID)
	if err != nil {
		return fmt.Errorf("delete webhook %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) Subscribers(ctx context.Context, tenantID int64, event string) ([]models.Webhook, error) {
	filter, _ := json.Marshal([]string{event})
	webhooks, err := s.query(ctx,
		`SELECT `+webhookColumns+` FROM webhooks
		 WHERE restaurant_id = $1 AND is_active = true AND events @> $2::jsonb`,
		tenantID, string(filter),
	)
	if err != nil {
		return nil, fmt.Errorf("find webhooks for %s: %w", event, err)
	}
	return webhooks, nil
}

func (s *PGStore) RecordDelivery(ctx context.Context, d models.WebhookDelivery) error {
	attempts := d.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO webhook_deliveries (webhook_id, event, payload, response_status, attempts, delivered_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		d.WebhookID, d.Event, []byte(d.Payload), d.ResponseStatus, attempts, d.DeliveredAt, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("record delivery: %w", err)
	}
	return nil
}
