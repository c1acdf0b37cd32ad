package payment_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nikhilbhutani/dinehub/internal/apperror"
	"github.com/nikhilbhutani/dinehub/internal/config"
	"github.com/nikhilbhutani/dinehub/internal/models"
	"github.com/nikhilbhutani/dinehub/internal/order/ordertest"
	"github.com/nikhilbhutani/dinehub/internal/payment"
	"github.com/nikhilbhutani/dinehub/internal/payment/mocks"
)

const groupID = "8f14e45f-ceea-467f-a0e6-12f3c0a1b2c4"

var (
	customer = &models.User{ID: 1, Role: models.RoleCustomer}
	admin    = &models.User{ID: 999, Role: models.RolePlatformAdmin}
)

type notes struct {
	mu     sync.Mutex
	events []string
}

func (n *notes) Dispatch(_ context.Context, _ int64, event string, _ any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

func setup(t *testing.T) (*payment.Service, *mocks.Provider, *ordertest.Store, *notes) {
	t.Helper()
	provider := &mocks.Provider{}
	store := ordertest.NewStore()
	n := &notes{}
	svc := payment.NewService(provider, store, n, nil, config.PaymentConfig{Currency: "eur", ProviderTimeout: time.Second})
	return svc, provider, store, n
}

func ptr[T any](v T) *T { return &v }

func seedGroup(store *ordertest.Store, intentID *string) (*models.Order, *models.Order) {
	a := store.Put(models.Order{CustomerID: customer.ID, TenantID: 7, OrderNumber: "ORD-A", OrderGroupID: ptr(groupID),
		PaymentIntentID: intentID, Status: models.OrderPending, PaymentStatus: models.PaymentPending, Total: 12})
	b := store.Put(models.Order{CustomerID: customer.ID, TenantID: 9, OrderNumber: "ORD-B", OrderGroupID: ptr(groupID),
		PaymentIntentID: intentID, Status: models.OrderPending, PaymentStatus: models.PaymentPending, Total: 8})
	return a, b
}

func succeeded(id string) *payment.Intent {
	return &payment.Intent{ID: id, Status: payment.StatusSucceeded, Amount: 2000, Currency: "eur",
		Metadata: map[string]string{payment.MetaCustomerID: "1"}}
}

func TestCreateIntent_Group(t *testing.T) {
	svc, provider, store, _ := setup(t)
	a, b := seedGroup(store, nil)

	provider.On("CreateIntent", mock.Anything, mock.MatchedBy(func(p payment.CreateIntentParams) bool {
		return p.Amount == 2000 && p.Currency == "eur" &&
			p.Metadata[payment.MetaOrderGroupID] == groupID &&
			p.Metadata[payment.MetaCustomerID] == "1" &&
			p.Metadata[payment.MetaPaymentMethod] == payment.MethodCard
	})).Return(&payment.Intent{ID: "pi_1", ClientSecret: "pi_1_secret", Amount: 2000, Status: "requires_payment_method"}, nil)

	res, err := svc.CreateIntent(context.Background(), customer, payment.IntentInput{Amount: 20, OrderGroupID: ptr(groupID)})
	require.NoError(t, err)
	assert.Equal(t, "pi_1", res.IntentID)
	assert.Equal(t, 20.0, res.Amount)
	assert.ElementsMatch(t, []int64{a.ID, b.ID}, res.OrderIDs)

	for _, id := range []int64{a.ID, b.ID} {
		o := store.Snapshot(id)
		require.NotNil(t, o.PaymentIntentID)
		assert.Equal(t, "pi_1", *o.PaymentIntentID)
		assert.Equal(t, payment.MethodCard, o.PaymentMethod)
	}
	provider.AssertExpectations(t)
}

func TestCreateIntent_Validation(t *testing.T) {
	svc, provider, store, _ := setup(t)
	mine := store.Put(models.Order{CustomerID: customer.ID, TenantID: 7, PaymentStatus: models.PaymentPending, Total: 5})
	paid := store.Put(models.Order{CustomerID: customer.ID, TenantID: 7, PaymentStatus: models.PaymentPaid})
	ctx := context.Background()

	_, err := svc.CreateIntent(ctx, customer, payment.IntentInput{Amount: 0, OrderID: ptr(mine.ID)})
	assert.ErrorIs(t, err, apperror.ErrInvalidAmount)

	_, err = svc.CreateIntent(ctx, customer, payment.IntentInput{Amount: 5})
	assert.ErrorIs(t, err, apperror.ErrInvalidRequest)

	_, err = svc.CreateIntent(ctx, customer, payment.IntentInput{Amount: 5, OrderID: ptr(mine.ID), OrderGroupID: ptr(groupID)})
	assert.ErrorIs(t, err, apperror.ErrInvalidRequest)

	_, err = svc.CreateIntent(ctx, customer, payment.IntentInput{Amount: 5, OrderID: ptr(int64(4040))})
	assert.ErrorIs(t, err, apperror.ErrOrderNotFound)

	_, err = svc.CreateIntent(ctx, &models.User{ID: 2, Role: models.RoleCustomer}, payment.IntentInput{Amount: 5, OrderID: ptr(mine.ID)})
	assert.ErrorIs(t, err, apperror.ErrPaymentNotAuthorized)

	_, err = svc.CreateIntent(ctx, customer, payment.IntentInput{Amount: 5, OrderID: ptr(paid.ID)})
	assert.ErrorIs(t, err, apperror.ErrOrderAlreadyPaid)

	_, err = svc.CreateIntent(ctx, customer, payment.IntentInput{Amount: 5.02, OrderID: ptr(mine.ID)})
	assert.ErrorIs(t, err, apperror.ErrInvalidAmount)
	_, err = svc.CreateIntent(ctx, customer, payment.IntentInput{Amount: 4, OrderID: ptr(mine.ID)})
	assert.ErrorIs(t, err, apperror.ErrInvalidAmount)

	provider.AssertNotCalled(t, "CreateIntent", mock.Anything, mock.Anything)
}

func TestCreateIntent_ProviderUnavailable(t *testing.T) {
	store := ordertest.NewStore()
	o := store.Put(models.Order{CustomerID: customer.ID, TenantID: 7})
	svc := payment.NewService(nil, store, nil, nil, config.PaymentConfig{})

	_, err := svc.CreateIntent(context.Background(), customer, payment.IntentInput{Amount: 5, OrderID: ptr(o.ID)})
	assert.ErrorIs(t, err, apperror.ErrPaymentProviderUnavailable)

	_, err = svc.ConfirmPayment(context.Background(), customer, "pi_1")
	assert.ErrorIs(t, err, apperror.ErrPaymentProviderUnavailable)
}

func TestCreateIntent_ProviderErrorLeavesOrdersUntouched(t *testing.T) {
	svc, provider, store, _ := setup(t)
	o := store.Put(models.Order{CustomerID: customer.ID, TenantID: 7, PaymentStatus: models.PaymentPending, Total: 0.1})

	provider.On("CreateIntent", mock.Anything, mock.Anything).
		Return(nil, &payment.ProviderError{Op: "create payment intent", HTTPStatus: 400, Message: "Amount must be at least 50 cents"})

	_, err := svc.CreateIntent(context.Background(), customer, payment.IntentInput{Amount: 0.1, OrderID: ptr(o.ID)})
	require.ErrorIs(t, err, apperror.ErrPaymentProviderError)
	e, _ := apperror.From(err)
	assert.Equal(t, "Amount must be at least 50 cents", e.Message)
	assert.Nil(t, store.Snapshot(o.ID).PaymentIntentID)
}

func TestCreateMobilePayIntent_FallsBackToFirstTag(t *testing.T) {
	svc, provider, store, _ := setup(t)
	o := store.Put(models.Order{CustomerID: customer.ID, TenantID: 7, PaymentStatus: models.PaymentPending, Total: 5})

	provider.On("CreateIntent", mock.Anything, mock.MatchedBy(func(p payment.CreateIntentParams) bool {
		return p.Metadata[payment.MetaPaymentMethod] == "orange_money"
	})).Return(&payment.Intent{ID: "pi_m", Amount: 500}, nil)

	res, err := svc.CreateMobilePayIntent(context.Background(), customer,
		payment.IntentInput{Amount: 5, OrderID: ptr(o.ID), PaymentMethod: "paypal"})
	require.NoError(t, err)
	assert.Equal(t, "orange_money", res.PaymentMethod)
	assert.Equal(t, "orange_money", store.Snapshot(o.ID).PaymentMethod)

	assert.Equal(t, "wave", payment.NormalizeMobileMethod("wave"))
	assert.Equal(t, "orange_money", payment.NormalizeMobileMethod(""))
}

func TestConfirmPayment_GroupIsIdempotent(t *testing.T) {
	svc, provider, store, n := setup(t)
	a, b := seedGroup(store, ptr("pi_g"))
	provider.On("RetrieveIntent", mock.Anything, "pi_g").Return(succeeded("pi_g"), nil)

	for i := 0; i < 2; i++ {
		res, err := svc.ConfirmPayment(context.Background(), customer, "pi_g")
		require.NoError(t, err)
		assert.Equal(t, models.PaymentPaid, res.PaymentStatus)
		assert.Len(t, res.Orders, 2)
	}

	assert.Equal(t, models.PaymentPaid, store.Snapshot(a.ID).PaymentStatus)
	assert.Equal(t, models.PaymentPaid, store.Snapshot(b.ID).PaymentStatus)
	assert.Equal(t, []string{payment.EventPaymentSucceeded, payment.EventPaymentSucceeded}, n.events,
		"one event per order, none on the second confirm")
}

func TestConfirmPayment_GroupUpdateFailureChangesNothing(t *testing.T) {
	svc, provider, store, _ := setup(t)
	a, b := seedGroup(store, ptr("pi_g"))
	store.FailPaymentUpdate = errors.New("connection reset")
	provider.On("RetrieveIntent", mock.Anything, "pi_g").Return(succeeded("pi_g"), nil)

	_, err := svc.ConfirmPayment(context.Background(), customer, "pi_g")
	require.Error(t, err)
	assert.Equal(t, models.PaymentPending, store.Snapshot(a.ID).PaymentStatus)
	assert.Equal(t, models.PaymentPending, store.Snapshot(b.ID).PaymentStatus)
}

func TestConfirmPayment_Outcomes(t *testing.T) {
	t.Run("declined marks failed", func(t *testing.T) {
		svc, provider, store, _ := setup(t)
		o := store.Put(models.Order{CustomerID: customer.ID, TenantID: 7, PaymentIntentID: ptr("pi_d"), PaymentStatus: models.PaymentPending})
		provider.On("RetrieveIntent", mock.Anything, "pi_d").Return(&payment.Intent{ID: "pi_d",
			Status: payment.StatusRequiresPaymentMethod, Metadata: map[string]string{payment.MetaCustomerID: "1"}}, nil)

		_, err := svc.ConfirmPayment(context.Background(), customer, "pi_d")
		assert.ErrorIs(t, err, apperror.ErrPaymentFailed)
		assert.Equal(t, models.PaymentFailed, store.Snapshot(o.ID).PaymentStatus)
	})

	t.Run("processing stays pending", func(t *testing.T) {
		svc, provider, store, _ := setup(t)
		o := store.Put(models.Order{CustomerID: customer.ID, TenantID: 7, PaymentIntentID: ptr("pi_p"), PaymentStatus: models.PaymentPending})
		provider.On("RetrieveIntent", mock.Anything, "pi_p").Return(&payment.Intent{ID: "pi_p",
			Status: payment.StatusProcessing, Metadata: map[string]string{payment.MetaCustomerID: "1"}}, nil)

		res, err := svc.ConfirmPayment(context.Background(), customer, "pi_p")
		require.NoError(t, err)
		assert.Equal(t, models.PaymentPending, res.PaymentStatus)
		assert.Equal(t, payment.StatusProcessing, res.IntentStatus)
		assert.Equal(t, models.PaymentPending, store.Snapshot(o.ID).PaymentStatus)
	})

	t.Run("someone else's intent", func(t *testing.T) {
		svc, provider, store, _ := setup(t)
		o := store.Put(models.Order{CustomerID: customer.ID, TenantID: 7, PaymentIntentID: ptr("pi_x"), PaymentStatus: models.PaymentPending})
		provider.On("RetrieveIntent", mock.Anything, "pi_x").Return(succeeded("pi_x"), nil)

		_, err := svc.ConfirmPayment(context.Background(), &models.User{ID: 2, Role: models.RoleCustomer}, "pi_x")
		assert.ErrorIs(t, err, apperror.ErrPaymentNotAuthorized)
		assert.Equal(t, models.PaymentPending, store.Snapshot(o.ID).PaymentStatus)
	})

	t.Run("provider timeout is retryable", func(t *testing.T) {
		svc, provider, _, _ := setup(t)
		provider.On("RetrieveIntent", mock.Anything, "pi_t").Return(nil, context.DeadlineExceeded)

		_, err := svc.ConfirmPayment(context.Background(), customer, "pi_t")
		require.ErrorIs(t, err, apperror.ErrPaymentProviderTimeout)
		e, _ := apperror.From(err)
		assert.True(t, e.Retryable)
	})

	t.Run("provider 5xx is retryable", func(t *testing.T) {
		svc, provider, _, _ := setup(t)
		provider.On("RetrieveIntent", mock.Anything, "pi_5").
			Return(nil, &payment.ProviderError{Op: "retrieve payment intent", HTTPStatus: 502, Message: "upstream"})

		_, err := svc.ConfirmPayment(context.Background(), customer, "pi_5")
		assert.ErrorIs(t, err, apperror.ErrPaymentProviderTimeout)
	})
}

func TestRefundPayment_CustomerDeniedBeforeProvider(t *testing.T) {
	svc, provider, store, _ := setup(t)
	o := store.Put(models.Order{CustomerID: customer.ID, TenantID: 7, PaymentIntentID: ptr("pi_r"), PaymentStatus: models.PaymentPaid, Total: 20})

	_, err := svc.RefundPayment(context.Background(), customer, payment.RefundInput{OrderID: o.ID})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	provider.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything)
	assert.Equal(t, models.PaymentPaid, store.Snapshot(o.ID).PaymentStatus)
}

func TestRefundPayment_Admin(t *testing.T) {
	svc, provider, store, n := setup(t)
	o := store.Put(models.Order{CustomerID: customer.ID, TenantID: 7, PaymentIntentID: ptr("pi_r"),
		Status: models.OrderCompleted, PaymentStatus: models.PaymentPaid, Total: 20})
	unpaid := store.Put(models.Order{CustomerID: customer.ID, TenantID: 7, PaymentStatus: models.PaymentPending, Total: 20})

	provider.On("RetrieveIntent", mock.Anything, "pi_r").Return(succeeded("pi_r"), nil)
	provider.On("Refund", mock.Anything, payment.RefundParams{IntentID: "pi_r", Amount: 550}).
		Return(&payment.Refund{ID: "re_1", IntentID: "pi_r", Amount: 550, Status: "succeeded"}, nil)

	_, err := svc.RefundPayment(context.Background(), admin, payment.RefundInput{OrderID: unpaid.ID})
	assert.ErrorIs(t, err, apperror.ErrOrderNotPaid)

	_, err = svc.RefundPayment(context.Background(), admin, payment.RefundInput{OrderID: o.ID, Amount: ptr(25.0)})
	assert.ErrorIs(t, err, apperror.ErrInvalidAmount)

	res, err := svc.RefundPayment(context.Background(), admin, payment.RefundInput{OrderID: o.ID, Amount: ptr(5.5)})
	require.NoError(t, err)
	assert.Equal(t, 5.5, res.Amount)

	after := store.Snapshot(o.ID)
	assert.Equal(t, models.PaymentRefunded, after.PaymentStatus)
	assert.Equal(t, models.OrderCompleted, after.Status)
	assert.Equal(t, []string{payment.EventPaymentRefunded}, n.events)
	provider.AssertExpectations(t)
}

func seedPaidGroup(store *ordertest.Store, intentID string) (*models.Order, *models.Order) {
	a, b := seedGroup(store, ptr(intentID))
	for _, o := range []*models.Order{a, b} {
		o.PaymentStatus = models.PaymentPaid
		store.Put(*o)
	}
	return a, b
}

func TestRefundPayment_PartialLeavesSiblingsPaid(t *testing.T) {
	svc, provider, store, n := setup(t)
	a, b := seedPaidGroup(store, "pi_g")

	provider.On("RetrieveIntent", mock.Anything, "pi_g").Return(succeeded("pi_g"), nil)
	provider.On("Refund", mock.Anything, payment.RefundParams{IntentID: "pi_g", Amount: 200}).
		Return(&payment.Refund{ID: "re_g", IntentID: "pi_g", Amount: 200, Status: "succeeded"}, nil)

	res, err := svc.RefundPayment(context.Background(), admin, payment.RefundInput{OrderID: a.ID, Amount: ptr(2.0)})
	require.NoError(t, err)
	assert.Equal(t, 2.0, res.Amount)
	require.Len(t, res.Orders, 1)
	assert.Equal(t, a.ID, res.Orders[0].ID)

	assert.Equal(t, models.PaymentRefunded, store.Snapshot(a.ID).PaymentStatus)
	assert.Equal(t, models.PaymentPaid, store.Snapshot(b.ID).PaymentStatus)
	assert.Equal(t, []string{payment.EventPaymentRefunded}, n.events)
	provider.AssertExpectations(t)
}

func TestRefundPayment_GroupOrdersRefundedOneByOne(t *testing.T) {
	svc, provider, store, _ := setup(t)
	a, b := seedPaidGroup(store, "pi_g")

	provider.On("RetrieveIntent", mock.Anything, "pi_g").Return(succeeded("pi_g"), nil)
	provider.On("Refund", mock.Anything, payment.RefundParams{IntentID: "pi_g", Amount: 1200}).
		Return(&payment.Refund{ID: "re_a", IntentID: "pi_g", Amount: 1200, Status: "succeeded"}, nil)
	provider.On("Refund", mock.Anything, payment.RefundParams{IntentID: "pi_g", Amount: 800}).
		Return(&payment.Refund{ID: "re_b", IntentID: "pi_g", Amount: 800, Status: "succeeded"}, nil)

	res, err := svc.RefundPayment(context.Background(), admin, payment.RefundInput{OrderID: a.ID})
	require.NoError(t, err)
	assert.Equal(t, 12.0, res.Amount)
	assert.Equal(t, models.PaymentPaid, store.Snapshot(b.ID).PaymentStatus)

	_, err = svc.RefundPayment(context.Background(), admin, payment.RefundInput{OrderID: b.ID})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRefunded, store.Snapshot(a.ID).PaymentStatus)
	assert.Equal(t, models.PaymentRefunded, store.Snapshot(b.ID).PaymentStatus)

	_, err = svc.RefundPayment(context.Background(), admin, payment.RefundInput{OrderID: a.ID})
	assert.ErrorIs(t, err, apperror.ErrOrderNotPaid)
	provider.AssertExpectations(t)
}

func TestRefundPayment_FullIntentMarksEveryLinkedOrder(t *testing.T) {
	svc, provider, store, n := setup(t)
	o := store.Put(models.Order{CustomerID: customer.ID, TenantID: 7, PaymentIntentID: ptr("pi_f"),
		PaymentStatus: models.PaymentPaid, Total: 20})

	provider.On("RetrieveIntent", mock.Anything, "pi_f").Return(succeeded("pi_f"), nil)
	provider.On("Refund", mock.Anything, payment.RefundParams{IntentID: "pi_f", Amount: 2000}).
		Return(&payment.Refund{ID: "re_f", IntentID: "pi_f", Amount: 2000, Status: "succeeded"}, nil)

	res, err := svc.RefundPayment(context.Background(), admin, payment.RefundInput{OrderID: o.ID})
	require.NoError(t, err)
	assert.Equal(t, 20.0, res.Amount)
	assert.Equal(t, "eur", res.Currency)
	assert.Equal(t, models.PaymentRefunded, store.Snapshot(o.ID).PaymentStatus)
	assert.Equal(t, []string{payment.EventPaymentRefunded}, n.events)
	provider.AssertExpectations(t)
}

func TestRefundPayment_UsesIntentCurrency(t *testing.T) {
	svc, provider, store, _ := setup(t)
	o := store.Put(models.Order{CustomerID: customer.ID, TenantID: 7, PaymentIntentID: ptr("pi_x"),
		PaymentStatus: models.PaymentPaid, Total: 5000})

	provider.On("RetrieveIntent", mock.Anything, "pi_x").
		Return(&payment.Intent{ID: "pi_x", Status: payment.StatusSucceeded, Amount: 5000, Currency: "XOF"}, nil)
	provider.On("Refund", mock.Anything, payment.RefundParams{IntentID: "pi_x", Amount: 1000}).
		Return(&payment.Refund{ID: "re_x", IntentID: "pi_x", Amount: 1000, Status: "succeeded"}, nil)

	res, err := svc.RefundPayment(context.Background(), admin, payment.RefundInput{OrderID: o.ID, Amount: ptr(1000.0)})
	require.NoError(t, err)
	assert.Equal(t, 1000.0, res.Amount)
	assert.Equal(t, "xof", res.Currency)
	provider.AssertExpectations(t)
}

func TestRefundPayment_RetrieveFailureSkipsRefund(t *testing.T) {
	svc, provider, store, _ := setup(t)
	o := store.Put(models.Order{CustomerID: customer.ID, TenantID: 7, PaymentIntentID: ptr("pi_e"),
		PaymentStatus: models.PaymentPaid, Total: 20})

	provider.On("RetrieveIntent", mock.Anything, "pi_e").
		Return(nil, &payment.ProviderError{Op: "retrieve payment intent", HTTPStatus: 404, Message: "No such payment_intent"})

	_, err := svc.RefundPayment(context.Background(), admin, payment.RefundInput{OrderID: o.ID})
	assert.ErrorIs(t, err, apperror.ErrPaymentProviderError)
	provider.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything)
	assert.Equal(t, models.PaymentPaid, store.Snapshot(o.ID).PaymentStatus)
}

func TestListPayments(t *testing.T) {
	svc, provider, store, _ := setup(t)
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	linked := store.Put(models.Order{CustomerID: customer.ID, TenantID: 7, PaymentIntentID: ptr("pi_2"), PaymentStatus: models.PaymentPaid})

	provider.On("ListIntents", mock.Anything, payment.ListIntentsParams{Limit: 100}).Return([]payment.Intent{
		{ID: "pi_1", Status: payment.StatusSucceeded, Amount: 1000, Currency: "eur", Created: base},
		{ID: "pi_2", Status: payment.StatusSucceeded, Amount: 2000, Currency: "eur", Created: base.Add(48 * time.Hour)},
		{ID: "pi_3", Status: payment.StatusCanceled, Amount: 3000, Currency: "eur", Created: base.Add(72 * time.Hour)},
		{ID: "pi_4", Status: payment.StatusSucceeded, Amount: 4000, Currency: "xof", Created: base.Add(96 * time.Hour)},
	}, nil)

	_, err := svc.ListPayments(context.Background(), customer, payment.ListInput{})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	page, err := svc.ListPayments(context.Background(), admin, payment.ListInput{
		Status: payment.StatusSucceeded,
		From:   base.Add(24 * time.Hour),
		Limit:  1,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Payments, 1)
	assert.Equal(t, "pi_4", page.Payments[0].ID, "newest first")
	assert.Equal(t, 4000.0, page.Payments[0].AmountDecimal)
	assert.Empty(t, page.Payments[0].Orders)

	page, err = svc.ListPayments(context.Background(), admin, payment.ListInput{
		Status: payment.StatusSucceeded,
		From:   base.Add(24 * time.Hour),
		Limit:  1,
		Offset: 1,
	})
	require.NoError(t, err)
	require.Len(t, page.Payments, 1)
	assert.Equal(t, "pi_2", page.Payments[0].ID)
	assert.Equal(t, 20.0, page.Payments[0].AmountDecimal)
	require.Len(t, page.Payments[0].Orders, 1)
	assert.Equal(t, linked.ID, page.Payments[0].Orders[0].ID)
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(1999), payment.ToMinorUnits(19.99, "eur"))
	assert.Equal(t, int64(1000), payment.ToMinorUnits(10.004, "EUR"))
	assert.Equal(t, int64(2500), payment.ToMinorUnits(2500, "xof"))
	assert.Equal(t, 19.99, payment.FromMinorUnits(1999, "eur"))
}
