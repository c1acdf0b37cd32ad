package webhook

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilbhutani/dinehub/internal/apperror"
	"github.com/nikhilbhutani/dinehub/internal/models"
	"github.com/nikhilbhutani/dinehub/internal/tenant"
)

func restaurantCtx(id int64) context.Context {
	return tenant.WithTenant(context.Background(), &models.Tenant{ID: id})
}

func TestService_CreateValidates(t *testing.T) {
	svc := NewService(newMemStore(), &memQueue{})

	_, err := svc.Create(context.Background(), CreateRequest{URL: "https://example.com/hook", Events: []string{"order.created"}})
	assert.ErrorIs(t, err, apperror.ErrTenantUnavailable)

	_, err = svc.Create(restaurantCtx(7), CreateRequest{URL: "ftp://example.com", Events: []string{"order.created"}})
	assert.ErrorIs(t, err, apperror.ErrInvalidRequest)

	_, err = svc.Create(restaurantCtx(7), CreateRequest{URL: "https://example.com/hook", Events: []string{"menu.updated"}})
	assert.ErrorIs(t, err, apperror.ErrInvalidRequest)

	created, err := svc.Create(restaurantCtx(7), CreateRequest{
		URL:    "https://example.com/hook",
		Events: []string{"payment.succeeded", "order.created", "order.created"},
	})
	require.NoError(t, err)
	assert.Contains(t, created.Secret, "whsec_")
	assert.Equal(t, []string{"order.created", "payment.succeeded"}, created.Events)

	out, err := json.Marshal(created)
	require.NoError(t, err)
	assert.Contains(t, string(out), created.Secret, "secret is shown on creation")

	listed, err := svc.List(restaurantCtx(7))
	require.NoError(t, err)
	require.Len(t, listed, 1)
	out, err = json.Marshal(listed)
	require.NoError(t, err)
	assert.NotContains(t, string(out), created.Secret)
}

func TestService_DeleteIsScoped(t *testing.T) {
	svc := NewService(newMemStore(), &memQueue{})
	created, err := svc.Create(restaurantCtx(7), CreateRequest{URL: "https://example.com/hook", Events: []string{"order.created"}})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(restaurantCtx(9), created.ID), apperror.ErrWebhookNotFound)
	assert.NoError(t, svc.Delete(restaurantCtx(7), created.ID))
	assert.ErrorIs(t, svc.Delete(restaurantCtx(7), uuid.New()), apperror.ErrWebhookNotFound)
}

func TestService_DispatchEnqueuesMatchingSubscriptions(t *testing.T) {
	q := &memQueue{}
	svc := NewService(newMemStore(), q)

	orders, err := svc.Create(restaurantCtx(7), CreateRequest{URL: "https://a.example.com", Events: []string{"order.created"}})
	require.NoError(t, err)
	_, err = svc.Create(restaurantCtx(7), CreateRequest{URL: "https://b.example.com", Events: []string{"payment.refunded"}})
	require.NoError(t, err)
	_, err = svc.Create(restaurantCtx(9), CreateRequest{URL: "https://c.example.com", Events: []string{"order.created"}})
	require.NoError(t, err)

	require.NoError(t, svc.Dispatch(context.Background(), 7, "order.created", map[string]any{"id": 42}))

	require.Len(t, q.tasks, 1)
	task := q.tasks[0]
	assert.Equal(t, orders.ID.String(), task.WebhookID)
	assert.Equal(t, int64(7), task.TenantID)

	var body map[string]any
	require.NoError(t, json.Unmarshal(task.Payload, &body))
	assert.Equal(t, "order.created", body["event"])
	assert.Equal(t, float64(42), body["data"].(map[string]any)["id"])
}
