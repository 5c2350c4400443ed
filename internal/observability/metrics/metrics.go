package metrics

import "github.com/prometheus/client_golang/prometheus"

// WidgetMetrics exposes counters for the booking widget's flows.
type WidgetMetrics struct {
	bookingsConfirmed prometheus.Counter
	paymentFailures   prometheus.Counter
	chatMessages      *prometheus.CounterVec
	slotRequests      prometheus.Counter
	instances         prometheus.Gauge
}

func NewWidgetMetrics(reg prometheus.Registerer) *WidgetMetrics {
	m := &WidgetMetrics{
		bookingsConfirmed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bookingwidget",
			Subsystem: "booking",
			Name:      "confirmed_total",
			Help:      "Total confirmed bookings",
		}),
		paymentFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bookingwidget",
			Subsystem: "booking",
			Name:      "payment_failures_total",
			Help:      "Total failed payment attempts",
		}),
		chatMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookingwidget",
			Subsystem: "chat",
			Name:      "messages_total",
			Help:      "Total chat messages appended",
		}, []string{"sender"}),
		slotRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bookingwidget",
			Subsystem: "schedule",
			Name:      "slot_requests_total",
			Help:      "Total slot listing requests",
		}),
		instances: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bookingwidget",
			Subsystem: "widget",
			Name:      "instances_active",
			Help:      "Currently connected widget instances",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsConfirmed, m.paymentFailures, m.chatMessages, m.slotRequests, m.instances)
	return m
}

func (m *WidgetMetrics) ObserveConfirmed() {
	if m == nil {
		return
	}
	m.bookingsConfirmed.Inc()
}

func (m *WidgetMetrics) ObservePaymentFailure() {
	if m == nil {
		return
	}
	m.paymentFailures.Inc()
}

func (m *WidgetMetrics) ObserveChatMessage(sender string) {
	if m == nil {
		return
	}
	m.chatMessages.WithLabelValues(sender).Inc()
}

func (m *WidgetMetrics) ObserveSlotRequest() {
	if m == nil {
		return
	}
	m.slotRequests.Inc()
}

func (m *WidgetMetrics) InstanceOpened() {
	if m == nil {
		return
	}
	m.instances.Inc()
}

func (m *WidgetMetrics) InstanceClosed() {
	if m == nil {
		return
	}
	m.instances.Dec()
}
