// Package booking owns the widget's booking flow: slot selection, contact
// entry, payment dispatch and confirmation.
package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bookwise/booking-widget/internal/observability/metrics"
	"github.com/bookwise/booking-widget/internal/payments"
	"github.com/bookwise/booking-widget/internal/schedule"
	"github.com/bookwise/booking-widget/internal/session"
	"github.com/bookwise/booking-widget/internal/validate"
	"github.com/bookwise/booking-widget/pkg/logging"
)

var (
	// ErrAlreadyConfirmed rejects operations after the flow reached Confirmed.
	ErrAlreadyConfirmed = errors.New("booking: already confirmed")
	// ErrPaymentInFlight rejects a second payment dispatch while one is pending.
	ErrPaymentInFlight = errors.New("booking: payment in flight")
)

// Surface receives the flow's UI mutations. Implementations missing a given
// element ignore the call rather than failing the flow.
type Surface interface {
	HighlightSlot(start time.Time)
	ShowFieldError(field, message string)
	ClearFieldError(field string)
	ShowBanner(text string)
	ClearBanner()
	SetProcessing(on bool)
	ShowConfirmation(link session.Link)
}

// Offer describes the charge presented to the payment collaborator.
type Offer struct {
	AmountCents int64
	Currency    string
	Name        string
	Description string
}

// Flow is the controller for one page instance. All entry points serialize on
// an internal mutex: interaction events and deferred payment callbacks mutate
// state strictly sequentially.
type Flow struct {
	mu       sync.Mutex
	state    State
	selected *schedule.TimeSlot
	fields   validate.Fields
	link     *session.Link

	offer    Offer
	provider payments.Provider
	service  *Service
	surface  Surface
	logger   *logging.Logger
	metrics  *metrics.WidgetMetrics
}

// NewFlow creates a flow in the Selecting state.
func NewFlow(offer Offer, provider payments.Provider, service *Service, surface Surface, logger *logging.Logger) *Flow {
	if provider == nil {
		panic("booking: payment provider required")
	}
	if service == nil {
		panic("booking: service required")
	}
	if surface == nil {
		surface = nopSurface{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Flow{
		state:    StateSelecting,
		offer:    offer,
		provider: provider,
		service:  service,
		surface:  surface,
		logger:   logger,
	}
}

// WithMetrics attaches widget metrics to the flow.
func (f *Flow) WithMetrics(m *metrics.WidgetMetrics) *Flow {
	f.metrics = m
	return f
}

// State returns the flow's current state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Selected returns the selected slot, or nil.
func (f *Flow) Selected() *schedule.TimeSlot {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.selected == nil {
		return nil
	}
	s := *f.selected
	return &s
}

// Fields returns the current contact fields.
func (f *Flow) Fields() validate.Fields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

// Link returns the minted session link, or nil before confirmation.
func (f *Flow) Link() *session.Link {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.link == nil {
		return nil
	}
	l := *f.link
	return &l
}

// SelectSlot makes the given slot the selection, displacing any prior one:
// at most one slot is selected at any moment. Selection is rejected once the
// booking is confirmed.
func (f *Flow) SelectSlot(slot schedule.TimeSlot) error {
	f.mu.Lock()
	if f.state == StateConfirmed {
		f.mu.Unlock()
		return ErrAlreadyConfirmed
	}
	f.selected = &slot
	f.mu.Unlock()

	f.surface.HighlightSlot(slot.Start)
	f.surface.ClearBanner()
	return nil
}

// SetField stores a contact field value and eagerly clears its inline error.
// Input never re-shows errors; only blur re-validates.
func (f *Flow) SetField(field, value string) {
	f.mu.Lock()
	switch field {
	case validate.FieldName:
		f.fields.Name = value
	case validate.FieldEmail:
		f.fields.Email = value
	case validate.FieldPhone:
		f.fields.Phone = value
	default:
		f.mu.Unlock()
		return
	}
	f.mu.Unlock()

	f.surface.ClearFieldError(field)
}

// FieldBlur re-validates a single field, annotating or clearing its inline
// error.
func (f *Flow) FieldBlur(field string) {
	f.mu.Lock()
	fields := f.fields
	f.mu.Unlock()

	res := validate.CheckField(field, fields)
	if res.OK {
		f.surface.ClearFieldError(field)
		return
	}
	f.surface.ShowFieldError(res.Field, res.Message)
}

// Pay runs the validation gate and, when it passes, transitions to
// AwaitingPayment and dispatches the charge. When validation fails the call
// is a no-op apart from surfacing the first error.
func (f *Flow) Pay(ctx context.Context) error {
	f.mu.Lock()
	switch f.state {
	case StateConfirmed:
		f.mu.Unlock()
		return ErrAlreadyConfirmed
	case StateAwaitingPayment:
		f.mu.Unlock()
		return ErrPaymentInFlight
	}

	res := validate.Check(f.fields, f.selected != nil)
	if !res.OK {
		f.mu.Unlock()
		f.surfaceValidationError(res)
		return nil
	}

	slot := *f.selected
	fields := f.fields
	f.state = StateAwaitingPayment
	f.mu.Unlock()

	f.surface.ClearBanner()
	f.surface.SetProcessing(true)

	charge := payments.Charge{
		AmountCents: f.offer.AmountCents,
		Currency:    f.offer.Currency,
		Name:        f.offer.Name,
		Description: f.offer.Description,
		Prefill: payments.Contact{
			Name:  fields.Name,
			Email: fields.Email,
			Phone: fields.Phone,
		},
		Notes: map[string]string{
			"session_time": slot.Start.Format("1/2/2006, 3:04:05 PM"),
		},
	}

	err := f.provider.Collect(ctx, charge, payments.Callbacks{
		OnSuccess: func(providerRef string) { f.confirm(providerRef) },
		OnFailure: func(reason string) { f.paymentFailed(reason) },
	})
	if err != nil {
		f.logger.Error("payment dispatch failed", "error", err)
		f.paymentFailed("Payment could not be started. Please try again.")
	}
	return nil
}

func (f *Flow) surfaceValidationError(res validate.Result) {
	if res.Field == validate.FieldSlot {
		f.surface.ShowBanner(res.Message)
		return
	}
	f.surface.ShowFieldError(res.Field, res.Message)
	f.surface.ShowBanner(res.Message)
}

// paymentFailed returns the flow to Selecting. Entered fields and the slot
// selection are left untouched so the visitor can retry.
func (f *Flow) paymentFailed(reason string) {
	f.mu.Lock()
	if f.state != StateAwaitingPayment {
		f.mu.Unlock()
		return
	}
	f.state = StateSelecting
	f.mu.Unlock()

	f.metrics.ObservePaymentFailure()
	f.logger.Warn("payment failed", "reason", reason)
	f.surface.SetProcessing(false)
	f.surface.ShowBanner("Payment failed: " + reason)
}

// confirm enters the terminal state, records the booking and mints the
// session link exactly once.
func (f *Flow) confirm(providerRef string) {
	f.mu.Lock()
	if f.state == StateConfirmed {
		f.mu.Unlock()
		return
	}
	f.state = StateConfirmed
	slot := *f.selected
	fields := f.fields
	f.mu.Unlock()

	record, link, err := f.service.ConfirmBooking(context.Background(), fields, slot.Start, providerRef)
	if err != nil {
		// Recording is best effort: the visitor still gets their link.
		f.logger.Error("booking record failed", "error", err)
	}
	if record != nil {
		f.logger.Info("booking confirmed", "booking_id", record.ID, "slot", slot.Start)
	}

	f.mu.Lock()
	f.link = &link
	f.mu.Unlock()

	f.surface.SetProcessing(false)
	f.surface.ShowConfirmation(link)
}

type nopSurface struct{}

func (nopSurface) HighlightSlot(time.Time)       {}
func (nopSurface) ShowFieldError(string, string) {}
func (nopSurface) ClearFieldError(string)        {}
func (nopSurface) ShowBanner(string)             {}
func (nopSurface) ClearBanner()                  {}
func (nopSurface) SetProcessing(bool)            {}
func (nopSurface) ShowConfirmation(session.Link) {}
