package payments

import (
	"context"
	"errors"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"

	"github.com/bookwise/booking-widget/pkg/logging"
)

// StripeProvider collects charges through Stripe PaymentIntents. It confirms
// server-side with a configured payment method, which restricts it to test
// mode unless a tokenized method is supplied; the widget itself never sees
// card details.
type StripeProvider struct {
	paymentMethod string
	logger        *logging.Logger

	// create is swapped in tests to avoid network calls.
	create func(*stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// NewStripeProvider sets the account key and returns a provider. The key is
// process-global in stripe-go.
func NewStripeProvider(secretKey string, logger *logging.Logger) *StripeProvider {
	if logger == nil {
		logger = logging.Default()
	}
	stripe.Key = secretKey
	return &StripeProvider{
		paymentMethod: "pm_card_visa",
		logger:        logger,
		create:        paymentintent.New,
	}
}

// WithPaymentMethod overrides the payment method used to confirm intents.
func (p *StripeProvider) WithPaymentMethod(pm string) *StripeProvider {
	if pm != "" {
		p.paymentMethod = pm
	}
	return p
}

// Collect creates and confirms a PaymentIntent, then resolves the callbacks
// from the intent's terminal status. Resolution happens on a separate
// goroutine so the caller returns before either callback runs.
func (p *StripeProvider) Collect(ctx context.Context, charge Charge, cb Callbacks) error {
	if err := charge.validate(); err != nil {
		return err
	}

	params := &stripe.PaymentIntentParams{
		Params:        stripe.Params{Context: ctx},
		Amount:        stripe.Int64(charge.AmountCents),
		Currency:      stripe.String(strings.ToLower(charge.Currency)),
		Description:   stripe.String(charge.Description),
		Confirm:       stripe.Bool(true),
		PaymentMethod: stripe.String(p.paymentMethod),
	}
	if charge.Prefill.Email != "" {
		params.ReceiptEmail = stripe.String(charge.Prefill.Email)
	}
	params.AddMetadata("booking_name", charge.Name)
	for k, v := range charge.Notes {
		params.AddMetadata(k, v)
	}

	go func() {
		intent, err := p.create(params)
		if err != nil {
			reason := "Payment could not be processed."
			var stripeErr *stripe.Error
			if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
				reason = stripeErr.Msg
			}
			p.logger.Warn("stripe payment failed", "error", err)
			if cb.OnFailure != nil {
				cb.OnFailure(reason)
			}
			return
		}

		if intent.Status == stripe.PaymentIntentStatusSucceeded {
			p.logger.Info("stripe payment succeeded", "intent_id", intent.ID)
			if cb.OnSuccess != nil {
				cb.OnSuccess(intent.ID)
			}
			return
		}

		reason := "Payment did not complete."
		if intent.LastPaymentError != nil && intent.LastPaymentError.Msg != "" {
			reason = intent.LastPaymentError.Msg
		}
		p.logger.Warn("stripe payment not completed", "intent_id", intent.ID, "status", intent.Status)
		if cb.OnFailure != nil {
			cb.OnFailure(reason)
		}
	}()

	return nil
}
