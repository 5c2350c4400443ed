package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/bookwise/booking-widget/internal/observability/metrics"
	"github.com/bookwise/booking-widget/internal/session"
	"github.com/bookwise/booking-widget/internal/validate"
	"github.com/bookwise/booking-widget/pkg/logging"
)

var bookingTracer = otel.Tracer("bookingwidget.internal.booking")

// Service records confirmed bookings and mints their session links.
type Service struct {
	repo    Repository
	minter  *session.Minter
	metrics *metrics.WidgetMetrics
	logger  *logging.Logger
	now     func() time.Time
}

// NewService constructs a booking service.
func NewService(repo Repository, minter *session.Minter, m *metrics.WidgetMetrics, logger *logging.Logger) *Service {
	if repo == nil {
		panic("booking: repository required")
	}
	if minter == nil {
		panic("booking: session minter required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:    repo,
		minter:  minter,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock overrides the service's clock (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// ConfirmBooking mints a session link and stores the confirmed booking. The
// link is always valid, even when recording fails; the widget's confirmation
// must not depend on the in-memory store.
func (s *Service) ConfirmBooking(ctx context.Context, contact validate.Fields, slotStart time.Time, providerRef string) (*Record, session.Link, error) {
	ctx, span := bookingTracer.Start(ctx, "booking.confirm")
	defer span.End()
	span.SetAttributes(
		attribute.String("booking.slot", slotStart.Format(time.RFC3339)),
		attribute.String("booking.provider_ref", providerRef),
	)

	link := s.minter.Generate()
	record := &Record{
		ID:           uuid.New().String(),
		Contact:      contact,
		SlotStart:    slotStart,
		SessionToken: link.Token,
		ProviderRef:  providerRef,
		ConfirmedAt:  s.now().UTC(),
	}

	if err := s.repo.Create(ctx, record); err != nil {
		span.RecordError(err)
		return nil, link, err
	}

	s.metrics.ObserveConfirmed()
	s.logger.Info("booking recorded",
		"booking_id", record.ID,
		"slot", slotStart,
		"session_token", link.Token,
	)
	return record, link, nil
}
