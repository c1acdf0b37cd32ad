package payment

import (
	"context"
	"fmt"
	"time"
)

// Intent statuses the service reacts to. Anything else is still in flight.
const (
	StatusSucceeded             = "succeeded"
	StatusRequiresPaymentMethod = "requires_payment_method"
	StatusCanceled              = "canceled"
	StatusProcessing            = "processing"
)

// Metadata keys written on every intent.
const (
	MetaCustomerID    = "customer_id"
	MetaTenantID      = "restaurant_id"
	MetaOrderID       = "order_id"
	MetaOrderGroupID  = "order_group_id"
	MetaPaymentMethod = "payment_method"
)

type Intent struct {
	ID           string            `json:"id"`
	ClientSecret string            `json:"client_secret,omitempty"`
	Amount       int64             `json:"amount"`
	Currency     string            `json:"currency"`
	Status       string            `json:"status"`
	Metadata     map[string]string `json:"metadata"`
	Created      time.Time         `json:"created"`
}

type CreateIntentParams struct {
	Amount      int64
	Currency    string
	Description string
	Metadata    map[string]string
}

type RefundParams struct {
	IntentID string
	// Amount in minor units; zero refunds the full amount.
	Amount int64
}

type Refund struct {
	ID       string `json:"id"`
	IntentID string `json:"payment_intent_id"`
	Amount   int64  `json:"amount"`
	Status   string `json:"status"`
}

type ListIntentsParams struct {
	Limit       int64
	CreatedFrom time.Time
	CreatedTo   time.Time
}

// Provider is the external payment processor.
type Provider interface {
	CreateIntent(ctx context.Context, p CreateIntentParams) (*Intent, error)
	RetrieveIntent(ctx context.Context, id string) (*Intent, error)
	Refund(ctx context.Context, p RefundParams) (*Refund, error)
	ListIntents(ctx context.Context, p ListIntentsParams) ([]Intent, error)
}

// ProviderError is a failure reported by the processor. HTTPStatus is zero
// when no response was received.
type ProviderError struct {
	Op         string
	HTTPStatus int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: provider returned %d: %s", e.Op, e.HTTPStatus, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }
