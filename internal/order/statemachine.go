package order

import (
	"strings"

	"github.com/nikhilbhutani/dinehub/internal/apperror"
	"github.com/nikhilbhutani/dinehub/internal/models"
)

// progression is the forward path an order travels. Cancellation sits
// outside it and is reachable from any non-terminal state.
var progression = []models.OrderStatus{
	models.OrderPending,
	models.OrderConfirmed,
	models.OrderPreparing,
	models.OrderReady,
	models.OrderOnDelivery,
	models.OrderCompleted,
}

func rank(s models.OrderStatus) int {
	for i, p := range progression {
		if p == s {
			return i
		}
	}
	return -1
}

// ParseStatus checks s against the allow-list of order statuses.
func ParseStatus(s string) (models.OrderStatus, error) {
	st := models.OrderStatus(strings.TrimSpace(s))
	if st == models.OrderCancelled || rank(st) >= 0 {
		return st, nil
	}
	return "", apperror.ErrInvalidStatus.WithDetails("unknown status %q", s)
}

// CanTransition reports whether an order may move from one status to another.
// Forward moves may skip steps; nothing leaves a terminal state.
func CanTransition(from, to models.OrderStatus) bool {
	if from.Terminal() || from == to {
		return false
	}
	if to == models.OrderCancelled {
		return true
	}
	f, t := rank(from), rank(to)
	return f >= 0 && t > f
}
