package models

import (
	"time"
)

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionTrial     SubscriptionStatus = "trial"
	SubscriptionInactive  SubscriptionStatus = "inactive"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

func (s SubscriptionStatus) Valid() bool {
	switch s {
	case SubscriptionActive, SubscriptionTrial, SubscriptionInactive, SubscriptionCancelled:
		return true
	}
	return false
}

// Tenant is one restaurant running its own white-label app.
type Tenant struct {
	ID                  int64              `json:"id" db:"id"`
	Name                string             `json:"name" db:"name"`
	Slug                string             `json:"slug" db:"slug"`
	OwnerID             int64              `json:"owner_id" db:"owner_id"`
	IsActive            bool               `json:"is_active" db:"is_active"`
	SubscriptionStatus  SubscriptionStatus `json:"subscription_status" db:"subscription_status"`
	SubscriptionEndDate *time.Time         `json:"subscription_end_date,omitempty" db:"subscription_end_date"`
	CreatedAt           time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at" db:"updated_at"`
}

// SubscriptionValid reports whether the subscription allows requests at now.
// An end date in the past wins over an active or trial status.
func (t *Tenant) SubscriptionValid(now time.Time) bool {
	if t.SubscriptionStatus != SubscriptionActive && t.SubscriptionStatus != SubscriptionTrial {
		return false
	}
	return t.SubscriptionEndDate == nil || !t.SubscriptionEndDate.Before(now)
}
