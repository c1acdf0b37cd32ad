// Package apperror holds the error taxonomy shared by the tenant, auth, order
// and payment layers and the JSON shape the HTTP surface renders it in.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Code      string
	Status    int
	Message   string
	Details   string
	Retryable bool
	Err       error
}

func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

func (e *Error) Error() string {
	switch {
	case e.Details != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Details, e.Err)
	case e.Details != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Details)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Code so sentinels compare equal to their annotated copies.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithDetails returns a copy carrying a diagnostic string.
func (e *Error) WithDetails(format string, args ...any) *Error {
	c := *e
	c.Details = fmt.Sprintf(format, args...)
	return &c
}

// WithMessage returns a copy with a different human message.
func (e *Error) WithMessage(msg string) *Error {
	c := *e
	c.Message = msg
	return &c
}

// Wrap returns a copy with cause attached.
func (e *Error) Wrap(cause error) *Error {
	c := *e
	c.Err = cause
	return &c
}

// From extracts the taxonomy error from err, if any.
func From(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

var (
	ErrTenantIDRequired       = New("TENANT_ID_REQUIRED", http.StatusBadRequest, "restaurant id is required")
	ErrTenantNotFound         = New("TENANT_NOT_FOUND", http.StatusNotFound, "restaurant not found")
	ErrTenantAccessDenied     = New("TENANT_ACCESS_DENIED", http.StatusForbidden, "access to this restaurant is denied")
	ErrTenantNotFoundForOwner = New("TENANT_NOT_FOUND_FOR_OWNER", http.StatusForbidden, "no restaurant is linked to this account")
	ErrTenantInactive         = New("TENANT_INACTIVE", http.StatusForbidden, "this restaurant is currently inactive")
	ErrSubscriptionInvalid    = New("SUBSCRIPTION_INVALID", http.StatusForbidden, "this restaurant's subscription is not active")
	ErrTenantUnavailable      = New("TENANT_UNAVAILABLE", http.StatusBadRequest, "restaurant context is unavailable")
	ErrTenantExists           = New("TENANT_EXISTS", http.StatusConflict, "a restaurant with this slug or owner already exists")

	ErrUnauthenticated        = New("UNAUTHENTICATED", http.StatusUnauthorized, "authentication required")
	ErrInvalidCredentials     = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid email or password")
	ErrForbidden              = New("FORBIDDEN", http.StatusForbidden, "insufficient permissions")
	ErrCrossTenantLoginDenied = New("CROSS_TENANT_LOGIN_DENIED", http.StatusForbidden, "this account cannot sign in to this restaurant")
	ErrEmailTaken             = New("EMAIL_TAKEN", http.StatusConflict, "an account with this email already exists")
	ErrUserNotFound           = New("USER_NOT_FOUND", http.StatusNotFound, "user not found")

	ErrInvalidRequest          = New("INVALID_REQUEST", http.StatusBadRequest, "invalid request")
	ErrEmptyOrder              = New("EMPTY_ORDER", http.StatusBadRequest, "an order needs at least one item")
	ErrInvalidOrderItem        = New("INVALID_ORDER_ITEM", http.StatusBadRequest, "invalid order item")
	ErrTotalMismatch           = New("TOTAL_MISMATCH", http.StatusBadRequest, "order total does not match its items")
	ErrInvalidStatus           = New("INVALID_STATUS", http.StatusBadRequest, "invalid order status")
	ErrInvalidStatusTransition = New("INVALID_STATUS_TRANSITION", http.StatusConflict, "order status cannot change this way")
	ErrOrderNotFound           = New("ORDER_NOT_FOUND", http.StatusNotFound, "order not found")
	ErrWebhookNotFound         = New("WEBHOOK_NOT_FOUND", http.StatusNotFound, "webhook not found")

	ErrInvalidAmount              = New("INVALID_AMOUNT", http.StatusBadRequest, "amount must be greater than zero")
	ErrOrderAlreadyPaid           = New("ORDER_ALREADY_PAID", http.StatusConflict, "order is already paid")
	ErrOrderNotPaid               = New("ORDER_NOT_PAID", http.StatusConflict, "order has no captured payment")
	ErrPaymentProviderUnavailable = New("PAYMENT_PROVIDER_UNAVAILABLE", http.StatusServiceUnavailable, "online payments are not configured")
	ErrPaymentNotAuthorized       = New("PAYMENT_NOT_AUTHORIZED", http.StatusForbidden, "this payment does not belong to you")
	ErrPaymentProviderError       = New("PAYMENT_PROVIDER_ERROR", http.StatusBadGateway, "payment provider error")
	ErrPaymentProviderTimeout     = &Error{Code: "PAYMENT_PROVIDER_TIMEOUT", Status: http.StatusServiceUnavailable, Message: "payment provider did not respond, please retry", Retryable: true}
	ErrPaymentFailed              = New("PAYMENT_FAILED", http.StatusPaymentRequired, "payment failed")

	ErrInternal = New("INTERNAL", http.StatusInternalServerError, "internal server error")
)
