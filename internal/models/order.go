package models

import (
	"time"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderPreparing  OrderStatus = "preparing"
	OrderReady      OrderStatus = "ready"
	OrderOnDelivery OrderStatus = "on_delivery"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// SelectedOptions is the canonical shape of a line item's option choice.
type SelectedOptions struct {
	Accompaniments []string `json:"accompaniments"`
	Drinks         []string `json:"drinks"`
}

type OrderItem struct {
	MenuItemID int64           `json:"menu_item_id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  float64         `json:"unit_price"`
	LineTotal  float64         `json:"line_total"`
	Options    SelectedOptions `json:"options"`
}

type Order struct {
	ID              int64         `json:"id" db:"id"`
	OrderNumber     string        `json:"order_number" db:"order_number"`
	CustomerID      int64         `json:"customer_id" db:"customer_id"`
	TenantID        int64         `json:"restaurant_id" db:"restaurant_id"`
	OrderGroupID    *string       `json:"order_group_id,omitempty" db:"order_group_id"`
	Items           []OrderItem   `json:"items" db:"items"`
	Status          OrderStatus   `json:"status" db:"status"`
	PaymentStatus   PaymentStatus `json:"payment_status" db:"payment_status"`
	PaymentMethod   string        `json:"payment_method" db:"payment_method"`
	PaymentIntentID *string       `json:"payment_intent_id,omitempty" db:"payment_intent_id"`
	Subtotal        float64       `json:"subtotal" db:"subtotal"`
	DeliveryFee     float64       `json:"delivery_fee" db:"delivery_fee"`
	Tax             float64       `json:"tax" db:"tax"`
	Total           float64       `json:"total" db:"total"`
	DeliveryAddress string        `json:"delivery_address,omitempty" db:"delivery_address"`
	Notes           string        `json:"notes,omitempty" db:"notes"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at"`
}
