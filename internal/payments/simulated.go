package payments

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/bookwise/booking-widget/pkg/logging"
)

// SimulatedProvider resolves charges on a timer without contacting any
// gateway. It is the default collaborator for local development and demos.
type SimulatedProvider struct {
	delay     time.Duration
	failEvery int // fail every Nth charge; 0 disables scripted failures
	count     atomic.Int64
	logger    *logging.Logger
	after     func(time.Duration, func()) *time.Timer
}

// NewSimulatedProvider creates a provider that confirms after the given delay.
func NewSimulatedProvider(delay time.Duration, failEvery int, logger *logging.Logger) *SimulatedProvider {
	if logger == nil {
		logger = logging.Default()
	}
	return &SimulatedProvider{
		delay:     delay,
		failEvery: failEvery,
		logger:    logger,
		after:     time.AfterFunc,
	}
}

// WithAfter overrides the timer hook (tests).
func (p *SimulatedProvider) WithAfter(after func(time.Duration, func()) *time.Timer) *SimulatedProvider {
	p.after = after
	return p
}

// Collect accepts the charge and schedules its resolution. Success mints a
// simulated provider reference; scripted failures carry a human-readable
// decline reason, as a real gateway would.
func (p *SimulatedProvider) Collect(_ context.Context, charge Charge, cb Callbacks) error {
	if err := charge.validate(); err != nil {
		return err
	}

	n := p.count.Add(1)
	fail := p.failEvery > 0 && n%int64(p.failEvery) == 0

	p.logger.Info("simulated payment dispatched",
		"amount_cents", charge.AmountCents,
		"currency", charge.Currency,
		"will_fail", fail,
	)

	p.after(p.delay, func() {
		if fail {
			if cb.OnFailure != nil {
				cb.OnFailure("Payment was declined by the demo gateway.")
			}
			return
		}
		if cb.OnSuccess != nil {
			cb.OnSuccess(fmt.Sprintf("sim_%s", uuid.New().String()))
		}
	})

	return nil
}
