package queue

import "encoding/json"

const TypeWebhookDeliver = "webhook:deliver"

// WebhookDeliverPayload identifies one delivery. The worker loads the URL
// and signing secret itself so secrets never sit in Redis.
type WebhookDeliverPayload struct {
	WebhookID string          `json:"webhook_id"`
	TenantID  int64           `json:"restaurant_id"`
	Event     string          `json:"event"`
	Payload   json.RawMessage `json:"payload"`
}
