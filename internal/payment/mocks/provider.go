package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/nikhilbhutani/dinehub/internal/payment"
)

type Provider struct {
	mock.Mock
}

func (m *Provider) CreateIntent(ctx context.Context, p payment.CreateIntentParams) (*payment.Intent, error) {
	args := m.Called(ctx, p)
	intent, _ := args.Get(0).(*payment.Intent)
	return intent, args.Error(1)
}

func (m *Provider) RetrieveIntent(ctx context.Context, id string) (*payment.Intent, error) {
	args := m.Called(ctx, id)
	intent, _ := args.Get(0).(*payment.Intent)
	return intent, args.Error(1)
}

func (m *Provider) Refund(ctx context.Context, p payment.RefundParams) (*payment.Refund, error) {
	args := m.Called(ctx, p)
	refund, _ := args.Get(0).(*payment.Refund)
	return refund, args.Error(1)
}

func (m *Provider) ListIntents(ctx context.Context, p payment.ListIntentsParams) ([]payment.Intent, error) {
	args := m.Called(ctx, p)
	intents, _ := args.Get(0).([]payment.Intent)
	return intents, args.Error(1)
}
