package models

import (
	"encoding/json"
	"net/netip"
	"time"

	"github.com/google/uuid"
)

const (
	ActionCrossTenantLoginDenied = "security.cross_tenant_login_denied"
	ActionInvalidCredentials     = "security.invalid_credentials"
	ActionTenantAccessDenied     = "security.tenant_access_denied"
)

// SecurityEvent is a denied authentication or authorization attempt.
// It must never carry passwords or tokens.
type SecurityEvent struct {
	Action   string
	TenantID *int64
	UserID   *int64
	Email    string
	Reason   string
	IP       string
	At       time.Time
}

type AuditLog struct {
	ID           int64           `json:"id" db:"id"`
	TenantID     *int64          `json:"restaurant_id,omitempty" db:"restaurant_id"`
	UserID       *int64          `json:"user_id,omitempty" db:"user_id"`
	Action       string          `json:"action" db:"action"`
	ResourceType string          `json:"resource_type,omitempty" db:"resource_type"`
	ResourceID   *string         `json:"resource_id,omitempty" db:"resource_id"`
	Details      json.RawMessage `json:"details" db:"details"`
	IPAddress    *netip.Addr     `json:"ip_address,omitempty" db:"ip_address"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

type Webhook struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TenantID  int64     `json:"restaurant_id" db:"restaurant_id"`
	URL       string    `json:"url" db:"url"`
	Events    []string  `json:"events" db:"events"`
	Secret    string    `json:"-" db:"secret"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type WebhookDelivery struct {
	ID             int64           `json:"id" db:"id"`
	WebhookID      uuid.UUID       `json:"webhook_id" db:"webhook_id"`
	Event          string          `json:"event" db:"event"`
	Payload        json.RawMessage `json:"payload" db:"payload"`
	ResponseStatus int             `json:"response_status" db:"response_status"`
	Attempts       int             `json:"attempts" db:"attempts"`
	DeliveredAt    *time.Time      `json:"delivered_at,omitempty" db:"delivered_at"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}
