// Package payments defines the payment collaborator port and its providers.
// The booking flow treats the collaborator as a black box: it dispatches a
// charge and hears back on exactly one of two callback channels.
package payments

import (
	"context"
	"errors"
)

var (
	// ErrInvalidCharge is returned before dispatch when the charge is unusable.
	ErrInvalidCharge = errors.New("payments: invalid charge")
	// ErrProviderClosed is returned when the provider no longer accepts charges.
	ErrProviderClosed = errors.New("payments: provider closed")
)

// Contact is the prefill information handed to the collaborator.
type Contact struct {
	Name  string
	Email string
	Phone string
}

// Charge is the configuration bundle dispatched to the collaborator.
type Charge struct {
	AmountCents int64
	Currency    string
	Name        string // display name, e.g. "1:1 Session Booking"
	Description string
	Prefill     Contact
	Notes       map[string]string // free-form, includes the formatted slot time
}

// Callbacks carries the collaborator's two outcome channels. Exactly one of
// the two is invoked per accepted charge, on the provider's own goroutine.
type Callbacks struct {
	OnSuccess func(providerRef string)
	OnFailure func(reason string)
}

// Provider dispatches a charge for asynchronous collection.
type Provider interface {
	Collect(ctx context.Context, charge Charge, cb Callbacks) error
}

func (c Charge) validate() error {
	if c.AmountCents <= 0 || c.Currency == "" {
		return ErrInvalidCharge
	}
	return nil
}
