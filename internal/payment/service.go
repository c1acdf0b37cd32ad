package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/nikhilbhutani/dinehub/internal/apperror"
	"github.com/nikhilbhutani/dinehub/internal/config"
	"github.com/nikhilbhutani/dinehub/internal/metrics"
	"github.com/nikhilbhutani/dinehub/internal/models"
	"github.com/nikhilbhutani/dinehub/internal/order"
)

const (
	EventPaymentSucceeded = "payment.succeeded"
	EventPaymentRefunded  = "payment.refunded"

	MethodCard = "card"

	defaultTimeout = 8 * time.Second

	// amountTolerance absorbs float rounding between client and stored totals.
	amountTolerance = 0.01
)

// MobileMethods is the closed set of mobile money tags. The first entry is
// used when a client sends an unknown tag.
var MobileMethods = []string{"orange_money", "mtn_money", "wave", "moov_money"}

// OrderStore is the part of the order store the payment flow needs.
type OrderStore interface {
	GetAny(ctx context.Context, id int64) (*models.Order, error)
	ListByGroup(ctx context.Context, groupID string) ([]models.Order, error)
	ListByIntentIDs(ctx context.Context, intentIDs []string) ([]models.Order, error)
	AttachIntent(ctx context.Context, orderIDs []int64, intentID, method string) error
	SetPaymentStatus(ctx context.Context, intentID string, to models.PaymentStatus, from ...models.PaymentStatus) ([]models.Order, error)
	SetOrderPaymentStatus(ctx context.Context, id int64, to models.PaymentStatus, from ...models.PaymentStatus) (*models.Order, error)
}

// Service reconciles provider payment intents with local orders. A nil
// provider means online payments are not configured.
type Service struct {
	provider Provider
	orders   OrderStore
	notifier order.Notifier
	metrics  *metrics.Metrics
	currency string
	timeout  time.Duration
}

func NewService(provider Provider, orders OrderStore, notifier order.Notifier, m *metrics.Metrics, cfg config.PaymentConfig) *Service {
	timeout := cfg.ProviderTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	currency := cfg.Currency
	if currency == "" {
		currency = "eur"
	}
	return &Service{
		provider: provider,
		orders:   orders,
		notifier: notifier,
		metrics:  m,
		currency: currency,
		timeout:  timeout,
	}
}

type IntentInput struct {
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	OrderID       *int64  `json:"order_id,omitempty"`
	OrderGroupID  *string `json:"order_group_id,omitempty"`
	PaymentMethod string  `json:"payment_method,omitempty"`
}

type IntentResult struct {
	IntentID      string  `json:"payment_intent_id"`
	ClientSecret  string  `json:"client_secret"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Status        string  `json:"status"`
	PaymentMethod string  `json:"payment_method"`
	OrderIDs      []int64 `json:"order_ids"`
}

// CreateIntent opens a card payment for one order or one order group of the
// caller.
func (s *Service) CreateIntent(ctx context.Context, caller *models.User, in IntentInput) (*IntentResult, error) {
	method := in.PaymentMethod
	if method == "" {
		method = MethodCard
	}
	return s.createIntent(ctx, "create_intent", caller, in, method)
}

// CreateMobilePayIntent is CreateIntent for mobile money wallets.
func (s *Service) CreateMobilePayIntent(ctx context.Context, caller *models.User, in IntentInput) (*IntentResult, error) {
	return s.createIntent(ctx, "create_mobile_intent", caller, in, NormalizeMobileMethod(in.PaymentMethod))
}

// NormalizeMobileMethod maps tag onto MobileMethods.
func NormalizeMobileMethod(tag string) string {
	for _, m := range MobileMethods {
		if m == tag {
			return m
		}
	}
	return MobileMethods[0]
}

func (s *Service) createIntent(ctx context.Context, op string, caller *models.User, in IntentInput, method string) (*IntentResult, error) {
	if s.provider == nil {
		return nil, apperror.ErrPaymentProviderUnavailable
	}
	if caller == nil {
		return nil, apperror.ErrUnauthenticated
	}
	if in.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount
	}

	orders, err := s.payableOrders(ctx, caller, in)
	if err != nil {
		return nil, err
	}
	var total float64
	for _, o := range orders {
		total += o.Total
	}
	if math.Abs(in.Amount-total) > amountTolerance {
		return nil, apperror.ErrInvalidAmount.
			WithMessage("amount does not match the order total").
			WithDetails("amount %.2f, orders total %.2f", in.Amount, total)
	}

	currency := in.Currency
	if currency == "" {
		currency = s.currency
	}
	currency = string(normalizeCurrency(currency))

	meta := map[string]string{
		MetaCustomerID:    strconv.FormatInt(caller.ID, 10),
		MetaTenantID:      strconv.FormatInt(orders[0].TenantID, 10),
		MetaPaymentMethod: method,
	}
	desc := "Order " + orders[0].OrderNumber
	if in.OrderGroupID != nil {
		meta[MetaOrderGroupID] = *orders[0].OrderGroupID
		desc = fmt.Sprintf("Order group %s (%d orders)", *orders[0].OrderGroupID, len(orders))
	} else {
		meta[MetaOrderID] = strconv.FormatInt(orders[0].ID, 10)
	}

	intent, err := callProvider(ctx, s, op, func(ctx context.Context) (*Intent, error) {
		return s.provider.CreateIntent(ctx, CreateIntentParams{
			Amount:      ToMinorUnits(in.Amount, currency),
			Currency:    currency,
			Description: desc,
			Metadata:    meta,
		})
	})
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	if err := s.orders.AttachIntent(ctx, ids, intent.ID, method); err != nil {
		s.metrics.Payment(op, "store_error")
		return nil, fmt.Errorf("link intent %s to orders: %w", intent.ID, err)
	}

	s.metrics.Payment(op, "ok")
	return &IntentResult{
		IntentID:      intent.ID,
		ClientSecret:  intent.ClientSecret,
		Amount:        FromMinorUnits(intent.Amount, currency),
		Currency:      currency,
		Status:        intent.Status,
		PaymentMethod: method,
		OrderIDs:      ids,
	}, nil
}

func (s *Service) payableOrders(ctx context.Context, caller *models.User, in IntentInput) ([]models.Order, error) {
	hasOrder := in.OrderID != nil
	hasGroup := in.OrderGroupID != nil && *in.OrderGroupID != ""
	if hasOrder == hasGroup {
		return nil, apperror.ErrInvalidRequest.WithMessage("exactly one of order_id or order_group_id is required")
	}

	var orders []models.Order
	if hasOrder {
		o, err := s.orders.GetAny(ctx, *in.OrderID)
		if errors.Is(err, order.ErrNotFound) {
			return nil, apperror.ErrOrderNotFound
		}
		if err != nil {
			return nil, err
		}
		orders = []models.Order{*o}
	} else {
		groupID, err := uuid.Parse(*in.OrderGroupID)
		if err != nil {
			return nil, apperror.ErrInvalidRequest.WithMessage("order_group_id must be a UUID")
		}
		orders, err = s.orders.ListByGroup(ctx, groupID.String())
		if err != nil {
			return nil, err
		}
		if len(orders) == 0 {
			return nil, apperror.ErrOrderNotFound
		}
	}

	for _, o := range orders {
		if o.CustomerID != caller.ID {
			return nil, apperror.ErrPaymentNotAuthorized.WithDetails("order %d belongs to another customer", o.ID)
		}
		if o.PaymentStatus == models.PaymentPaid || o.PaymentStatus == models.PaymentRefunded {
			return nil, apperror.ErrOrderAlreadyPaid.WithDetails("order %d is %s", o.ID, o.PaymentStatus)
		}
	}
	return orders, nil
}

type ConfirmResult struct {
	IntentID      string               `json:"payment_intent_id"`
	IntentStatus  string               `json:"intent_status"`
	PaymentStatus models.PaymentStatus `json:"payment_status"`
	Orders        []models.Order       `json:"orders"`
}

// ConfirmPayment brings local orders in line with the provider's view of
// intentID. Confirming an already-paid intent changes nothing.
func (s *Service) ConfirmPayment(ctx context.Context, caller *models.User, intentID string) (*ConfirmResult, error) {
	const op = "confirm"
	if s.provider == nil {
		return nil, apperror.ErrPaymentProviderUnavailable
	}
	if caller == nil {
		return nil, apperror.ErrUnauthenticated
	}
	if intentID == "" {
		return nil, apperror.ErrInvalidRequest.WithMessage("payment_intent_id is required")
	}

	intent, err := callProvider(ctx, s, op, func(ctx context.Context) (*Intent, error) {
		return s.provider.RetrieveIntent(ctx, intentID)
	})
	if err != nil {
		return nil, err
	}

	if intent.Metadata[MetaCustomerID] != strconv.FormatInt(caller.ID, 10) {
		s.metrics.Payment(op, "not_authorized")
		return nil, apperror.ErrPaymentNotAuthorized
	}

	result := &ConfirmResult{IntentID: intent.ID, IntentStatus: intent.Status}

	switch intent.Status {
	case StatusSucceeded:
		updated, err := s.orders.SetPaymentStatus(ctx, intent.ID, models.PaymentPaid, models.PaymentPending, models.PaymentFailed)
		if err != nil {
			s.metrics.Payment(op, "store_error")
			return nil, err
		}
		for _, o := range updated {
			s.notify(ctx, o.TenantID, EventPaymentSucceeded, o)
		}
		result.PaymentStatus = models.PaymentPaid

	case StatusRequiresPaymentMethod, StatusCanceled:
		if _, err := s.orders.SetPaymentStatus(ctx, intent.ID, models.PaymentFailed, models.PaymentPending); err != nil {
			s.metrics.Payment(op, "store_error")
			return nil, err
		}
		s.metrics.Payment(op, "failed")
		msg := "the payment was declined, please use another payment method"
		if intent.Status == StatusCanceled {
			msg = "the payment was canceled"
		}
		return nil, apperror.ErrPaymentFailed.WithMessage(msg).WithDetails("intent %s is %s", intent.ID, intent.Status)

	default:
		result.PaymentStatus = models.PaymentPending
	}

	orders, err := s.orders.ListByIntentIDs(ctx, []string{intent.ID})
	if err != nil {
		return nil, err
	}
	result.Orders = orders

	s.metrics.Payment(op, string(result.PaymentStatus))
	return result, nil
}

type RefundInput struct {
	OrderID int64    `json:"order_id"`
	Amount  *float64 `json:"amount,omitempty"`
	Reason  string   `json:"reason,omitempty"`
}

type RefundResult struct {
	Refund   *Refund        `json:"refund"`
	Amount   float64        `json:"amount"`
	Currency string         `json:"currency"`
	Orders   []models.Order `json:"orders"`
}

// RefundPayment refunds the payment behind an order, fully or partly. The
// amount defaults to the order total and is converted in the intent's own
// currency. Sibling orders sharing the intent move to refunded only when the
// refund covers the whole intent. The order status is left as is.
func (s *Service) RefundPayment(ctx context.Context, caller *models.User, in RefundInput) (*RefundResult, error) {
	const op = "refund"
	if err := requireAdmin(caller); err != nil {
		s.metrics.Payment(op, "forbidden")
		return nil, err
	}
	if s.provider == nil {
		return nil, apperror.ErrPaymentProviderUnavailable
	}

	o, err := s.orders.GetAny(ctx, in.OrderID)
	if errors.Is(err, order.ErrNotFound) {
		return nil, apperror.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if o.PaymentIntentID == nil || o.PaymentStatus != models.PaymentPaid {
		return nil, apperror.ErrOrderNotPaid.WithDetails("order %d payment is %s", o.ID, o.PaymentStatus)
	}

	amount := o.Total
	if in.Amount != nil {
		if *in.Amount <= 0 || *in.Amount > o.Total {
			return nil, apperror.ErrInvalidAmount.WithMessage("refund amount must be positive and at most the order total")
		}
		amount = *in.Amount
	}

	intentID := *o.PaymentIntentID
	intent, err := callProvider(ctx, s, op, func(ctx context.Context) (*Intent, error) {
		return s.provider.RetrieveIntent(ctx, intentID)
	})
	if err != nil {
		return nil, err
	}
	currency := intent.Currency
	if currency == "" {
		currency = s.currency
	}
	currency = string(normalizeCurrency(currency))

	minor := ToMinorUnits(amount, currency)
	if intent.Amount > 0 && minor > intent.Amount {
		minor = intent.Amount
	}

	refund, err := callProvider(ctx, s, op, func(ctx context.Context) (*Refund, error) {
		return s.provider.Refund(ctx, RefundParams{IntentID: intentID, Amount: minor})
	})
	if err != nil {
		return nil, err
	}

	var updated []models.Order
	if intent.Amount > 0 && minor >= intent.Amount {
		updated, err = s.orders.SetPaymentStatus(ctx, intentID, models.PaymentRefunded, models.PaymentPaid)
	} else {
		var u *models.Order
		if u, err = s.orders.SetOrderPaymentStatus(ctx, o.ID, models.PaymentRefunded, models.PaymentPaid); err == nil {
			updated = []models.Order{*u}
		}
	}
	if err != nil {
		slog.Error("refund recorded by provider but not locally", "order_id", o.ID, "refund_id", refund.ID, "error", err)
		s.metrics.Payment(op, "store_error")
		return nil, err
	}
	for _, u := range updated {
		s.notify(ctx, u.TenantID, EventPaymentRefunded, map[string]any{"order": u, "refund": refund, "reason": in.Reason})
	}

	s.metrics.Payment(op, "ok")
	return &RefundResult{Refund: refund, Amount: FromMinorUnits(refund.Amount, currency), Currency: currency, Orders: updated}, nil
}

type ListInput struct {
	Status string
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

type PaymentRecord struct {
	Intent
	AmountDecimal float64        `json:"amount_decimal"`
	Orders        []models.Order `json:"orders"`
}

type PaymentPage struct {
	Payments []PaymentRecord `json:"payments"`
	Total    int             `json:"total"`
	Limit    int             `json:"limit"`
	Offset   int             `json:"offset"`
}

// ListPayments returns one provider page of intents filtered and paginated
// locally, each joined with the orders it pays for.
func (s *Service) ListPayments(ctx context.Context, caller *models.User, in ListInput) (*PaymentPage, error) {
	const op = "list"
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if s.provider == nil {
		return nil, apperror.ErrPaymentProviderUnavailable
	}

	intents, err := callProvider(ctx, s, op, func(ctx context.Context) ([]Intent, error) {
		return s.provider.ListIntents(ctx, ListIntentsParams{Limit: 100})
	})
	if err != nil {
		return nil, err
	}

	filtered := make([]Intent, 0, len(intents))
	for _, it := range intents {
		if in.Status != "" && it.Status != in.Status {
			continue
		}
		if !in.From.IsZero() && it.Created.Before(in.From) {
			continue
		}
		if !in.To.IsZero() && !it.Created.Before(in.To) {
			continue
		}
		filtered = append(filtered, it)
	}
	sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Created.After(filtered[j].Created) })

	limit := in.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := max(in.Offset, 0)
	page := filtered[min(offset, len(filtered)):min(offset+limit, len(filtered))]

	ids := make([]string, len(page))
	for i, p := range page {
		ids[i] = p.ID
	}
	orders, err := s.orders.ListByIntentIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byIntent := make(map[string][]models.Order)
	for _, o := range orders {
		if o.PaymentIntentID != nil {
			byIntent[*o.PaymentIntentID] = append(byIntent[*o.PaymentIntentID], o)
		}
	}

	records := make([]PaymentRecord, len(page))
	for i, p := range page {
		linked := byIntent[p.ID]
		if linked == nil {
			linked = []models.Order{}
		}
		records[i] = PaymentRecord{Intent: p, AmountDecimal: FromMinorUnits(p.Amount, p.Currency), Orders: linked}
	}

	s.metrics.Payment(op, "ok")
	return &PaymentPage{Payments: records, Total: len(filtered), Limit: limit, Offset: offset}, nil
}

func requireAdmin(caller *models.User) error {
	if caller == nil {
		return apperror.ErrUnauthenticated
	}
	if caller.Role != models.RolePlatformAdmin {
		return apperror.ErrForbidden.WithDetails("role %s cannot manage payments", caller.Role)
	}
	return nil
}

// callProvider runs fn under the provider timeout and maps its failure into
// the error taxonomy.
func callProvider[T any](ctx context.Context, s *Service, op string, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	v, err := fn(ctx)
	if err != nil {
		mapped := providerFailure(err)
		outcome := "provider_error"
		if mapped.Retryable {
			outcome = "provider_timeout"
		}
		s.metrics.Payment(op, outcome)
		slog.Warn("payment provider call failed", "op", op, "error", err)
		var zero T
		return zero, mapped
	}
	return v, nil
}

func providerFailure(err error) *apperror.Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperror.ErrPaymentProviderTimeout.Wrap(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperror.ErrPaymentProviderTimeout.Wrap(err)
	}

	var pe *ProviderError
	if errors.As(err, &pe) {
		if pe.HTTPStatus >= 500 {
			return apperror.ErrPaymentProviderTimeout.Wrap(err)
		}
		if pe.Message != "" {
			return apperror.ErrPaymentProviderError.WithMessage(pe.Message).Wrap(err)
		}
	}
	return apperror.ErrPaymentProviderError.Wrap(err)
}

func (s *Service) notify(ctx context.Context, tenantID int64, event string, payload any) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Dispatch(ctx, tenantID, event, payload); err != nil {
		slog.Warn("payment webhook dispatch failed", "event", event, "restaurant_id", tenantID, "error", err)
	}
}
