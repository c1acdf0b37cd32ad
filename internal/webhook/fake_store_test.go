package webhook

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nikhilbhutani/dinehub/internal/models"
	"github.com/nikhilbhutani/dinehub/internal/queue"
)

type memStore struct {
	mu         sync.Mutex
	webhooks   map[uuid.UUID]models.Webhook
	deliveries []models.WebhookDelivery
}

func newMemStore() *memStore {
	return &memStore{webhooks: map[uuid.UUID]models.Webhook{}}
}

func (m *memStore) Create(_ context.Context, wh *models.Webhook) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	wh.ID = uuid.New()
	wh.IsActive = true
	wh.CreatedAt = time.Now()
	m.webhooks[wh.ID] = *wh
	return nil
}

func (m *memStore) List(_ context.Context, tenantID int64) ([]models.Webhook, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Webhook
	for _, wh := range m.webhooks {
		if wh.TenantID == tenantID {
			out = append(out, wh)
		}
	}
	return out, nil
}

func (m *memStore) Get(_ context.Context, id uuid.UUID) (*models.Webhook, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wh, ok := m.webhooks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &wh, nil
}

func (m *memStore) Delete(_ context.Context, tenantID int64, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	wh, ok := m.webhooks[id]
	if !ok || wh.TenantID != tenantID {
		return ErrNotFound
	}
	delete(m.webhooks, id)
	return nil
}

func (m *memStore) Subscribers(_ context.Context, tenantID int64, event string) ([]models.Webhook, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Webhook
	for _, wh := range m.webhooks {
		if wh.TenantID == tenantID && wh.IsActive && slices.Contains(wh.Events, event) {
			out = append(out, wh)
		}
	}
	return out, nil
}

func (m *memStore) RecordDelivery(_ context.Context, d models.WebhookDelivery) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d.ID = int64(len(m.deliveries) + 1)
	m.deliveries = append(m.deliveries, d)
	return nil
}

type memQueue struct {
	mu    sync.Mutex
	tasks []queue.WebhookDeliverPayload
}

func (q *memQueue) EnqueueWebhookDeliver(_ context.Context, p queue.WebhookDeliverPayload) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, p)
	return nil
}
