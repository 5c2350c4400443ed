package payments

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bookwise/booking-widget/pkg/logging"
)

// ManualProvider parks each charge as a pending intent that a human resolves
// through the demo checkout page. It stands in for a hosted-checkout gateway
// without leaving the process.
type ManualProvider struct {
	mu      sync.Mutex
	intents map[uuid.UUID]*pendingIntent
	closed  bool

	publicBaseURL string
	logger        *logging.Logger
}

type pendingIntent struct {
	id        uuid.UUID
	charge    Charge
	cb        Callbacks
	createdAt time.Time
}

// NewManualProvider creates a provider whose checkout pages live under the
// given public base URL.
func NewManualProvider(publicBaseURL string, logger *logging.Logger) *ManualProvider {
	if logger == nil {
		logger = logging.Default()
	}
	return &ManualProvider{
		intents:       make(map[uuid.UUID]*pendingIntent),
		publicBaseURL: publicBaseURL,
		logger:        logger,
	}
}

// Collect registers a pending intent. The charge resolves when the demo
// checkout page posts a completion or a failure.
func (p *ManualProvider) Collect(_ context.Context, charge Charge, cb Callbacks) error {
	if err := charge.validate(); err != nil {
		return err
	}

	intent := &pendingIntent{
		id:        uuid.New(),
		charge:    charge,
		cb:        cb,
		createdAt: time.Now().UTC(),
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrProviderClosed
	}
	p.intents[intent.id] = intent
	p.mu.Unlock()

	p.logger.Info("manual payment intent created",
		"intent_id", intent.id,
		"amount_cents", charge.AmountCents,
		"checkout_url", p.CheckoutURL(intent.id),
	)
	return nil
}

// CheckoutURL returns the demo checkout page address for an intent.
func (p *ManualProvider) CheckoutURL(id uuid.UUID) string {
	return fmt.Sprintf("%s/demo/payments/%s", p.publicBaseURL, id)
}

// Lookup returns the charge behind a pending intent.
func (p *ManualProvider) Lookup(id uuid.UUID) (Charge, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	intent, ok := p.intents[id]
	if !ok {
		return Charge{}, false
	}
	return intent.charge, true
}

// Pending lists the IDs of unresolved intents, oldest first ordering is not
// guaranteed.
func (p *ManualProvider) Pending() []uuid.UUID {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]uuid.UUID, 0, len(p.intents))
	for id := range p.intents {
		out = append(out, id)
	}
	return out
}

// Complete resolves an intent successfully.
func (p *ManualProvider) Complete(id uuid.UUID) error {
	intent, err := p.take(id)
	if err != nil {
		return err
	}
	if intent.cb.OnSuccess != nil {
		intent.cb.OnSuccess("manual_" + id.String())
	}
	return nil
}

// Fail resolves an intent with a human-readable decline reason.
func (p *ManualProvider) Fail(id uuid.UUID, reason string) error {
	intent, err := p.take(id)
	if err != nil {
		return err
	}
	if reason == "" {
		reason = "Payment was cancelled at checkout."
	}
	if intent.cb.OnFailure != nil {
		intent.cb.OnFailure(reason)
	}
	return nil
}

// Close stops accepting charges and declines everything still pending.
func (p *ManualProvider) Close() {
	p.mu.Lock()
	p.closed = true
	pending := make([]*pendingIntent, 0, len(p.intents))
	for id, intent := range p.intents {
		pending = append(pending, intent)
		delete(p.intents, id)
	}
	p.mu.Unlock()

	for _, intent := range pending {
		if intent.cb.OnFailure != nil {
			intent.cb.OnFailure("Payment was cancelled at checkout.")
		}
	}
}

func (p *ManualProvider) take(id uuid.UUID) (*pendingIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	intent, ok := p.intents[id]
	if !ok {
		return nil, fmt.Errorf("payments: intent %s not found", id)
	}
	delete(p.intents, id)
	return intent, nil
}
