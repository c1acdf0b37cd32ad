package payment

import (
	"context"
	"errors"
	"time"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
)

// StripeProvider implements Provider on the Stripe PaymentIntents API.
type StripeProvider struct {
	api *client.API
}

func NewStripeProvider(secretKey string) *StripeProvider {
	var api client.API
	api.Init(secretKey, nil)
	return &StripeProvider{api: &api}
}

func (p *StripeProvider) CreateIntent(ctx context.Context, in CreateIntentParams) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(in.Amount),
		Currency: stripe.String(in.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if in.Description != "" {
		params.Description = stripe.String(in.Description)
	}
	for k, v := range in.Metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return nil, wrapStripeError("create payment intent", err)
	}
	return toIntent(pi), nil
}

func (p *StripeProvider) RetrieveIntent(ctx context.Context, id string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := p.api.PaymentIntents.Get(id, params)
	if err != nil {
		return nil, wrapStripeError("retrieve payment intent", err)
	}
	return toIntent(pi), nil
}

func (p *StripeProvider) Refund(ctx context.Context, in RefundParams) (*Refund, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(in.IntentID),
	}
	if in.Amount > 0 {
		params.Amount = stripe.Int64(in.Amount)
	}
	params.Context = ctx

	r, err := p.api.Refunds.New(params)
	if err != nil {
		return nil, wrapStripeError("create refund", err)
	}
	return &Refund{ID: r.ID, IntentID: in.IntentID, Amount: r.Amount, Status: string(r.Status)}, nil
}

// ListIntents returns at most one page of intents, newest first.
func (p *StripeProvider) ListIntents(ctx context.Context, in ListIntentsParams) ([]Intent, error) {
	limit := in.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	params := &stripe.PaymentIntentListParams{
		ListParams: stripe.ListParams{
			Limit:   stripe.Int64(limit),
			Single:  true,
			Context: ctx,
		},
	}
	if !in.CreatedFrom.IsZero() || !in.CreatedTo.IsZero() {
		params.CreatedRange = &stripe.RangeQueryParams{}
		if !in.CreatedFrom.IsZero() {
			params.CreatedRange.GreaterThanOrEqual = in.CreatedFrom.Unix()
		}
		if !in.CreatedTo.IsZero() {
			params.CreatedRange.LesserThan = in.CreatedTo.Unix()
		}
	}

	var out []Intent
	iter := p.api.PaymentIntents.List(params)
	for iter.Next() {
		out = append(out, *toIntent(iter.PaymentIntent()))
		if int64(len(out)) >= limit {
			break
		}
	}
	if err := iter.Err(); err != nil {
		return nil, wrapStripeError("list payment intents", err)
	}
	return out, nil
}

func toIntent(pi *stripe.PaymentIntent) *Intent {
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
		Metadata:     pi.Metadata,
		Created:      time.Unix(pi.Created, 0).UTC(),
	}
}

func wrapStripeError(op string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return &ProviderError{Op: op, HTTPStatus: stripeErr.HTTPStatusCode, Message: stripeErr.Msg, Err: err}
	}
	return &ProviderError{Op: op, Message: err.Error(), Err: err}
}
