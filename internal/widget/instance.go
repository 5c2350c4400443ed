package widget

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bookwise/booking-widget/internal/booking"
	"github.com/bookwise/booking-widget/internal/chat"
	"github.com/bookwise/booking-widget/internal/observability/metrics"
	"github.com/bookwise/booking-widget/internal/payments"
	"github.com/bookwise/booking-widget/internal/schedule"
	"github.com/bookwise/booking-widget/internal/session"
	"github.com/bookwise/booking-widget/pkg/logging"
)

// Sink receives UI patches in emit order.
type Sink func(Patch)

// Deps carries the shared collaborators every page instance binds to.
type Deps struct {
	Generator *schedule.Generator
	Offer     booking.Offer
	Provider  payments.Provider
	Service   *booking.Service
	AutoReply chat.AutoReply
	BannerTTL time.Duration
	Metrics   *metrics.WidgetMetrics
	Logger    *logging.Logger
}

// Instance is one connected page: its flow, its chat log, its banner timer.
// It is the Surface for both collaborators, translating their UI mutations
// into patches on the sink. The sink is invoked under an internal mutex so
// patches arrive strictly sequentially even when a deferred payment callback
// fires.
type Instance struct {
	flow    *booking.Flow
	chat    *chat.Widget
	gen     *schedule.Generator
	metrics *metrics.WidgetMetrics
	logger  *logging.Logger

	bannerTTL time.Duration
	now       func() time.Time
	after     func(time.Duration, func()) *time.Timer

	mu        sync.Mutex
	sink      Sink
	bannerSeq int
}

// NewInstance binds a fresh flow and chat widget to the sink.
func NewInstance(deps Deps, sink Sink) *Instance {
	if deps.Generator == nil {
		panic("widget: schedule generator required")
	}
	if sink == nil {
		sink = func(Patch) {}
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}

	inst := &Instance{
		gen:       deps.Generator,
		metrics:   deps.Metrics,
		logger:    logger,
		bannerTTL: deps.BannerTTL,
		now:       time.Now,
		after:     time.AfterFunc,
		sink:      sink,
	}
	inst.flow = booking.NewFlow(deps.Offer, deps.Provider, deps.Service, inst, logger).
		WithMetrics(deps.Metrics)
	inst.chat = chat.NewWidget(inst, deps.AutoReply)
	return inst
}

// WithClock overrides the instance's timers (tests).
func (i *Instance) WithClock(now func() time.Time, after func(time.Duration, func()) *time.Timer) *Instance {
	i.now = now
	i.after = after
	i.chat.WithClock(now, after)
	return i
}

// Flow exposes the instance's booking flow.
func (i *Instance) Flow() *booking.Flow { return i.flow }

// Chat exposes the instance's chat widget.
func (i *Instance) Chat() *chat.Widget { return i.chat }

// Open pushes the initial render: current state and the upcoming slot groups.
func (i *Instance) Open() {
	i.metrics.InstanceOpened()
	i.emit(Patch{Type: PatchState, State: i.flow.State().String()})
	i.emit(Patch{Type: PatchSlots, Days: i.gen.Upcoming(i.now())})
}

// Close releases the instance's timers and counters.
func (i *Instance) Close() {
	i.mu.Lock()
	i.bannerSeq++
	i.sink = func(Patch) {}
	i.mu.Unlock()
	i.metrics.InstanceClosed()
}

// HandleEvent applies one interaction event. Events for a connection are
// processed one at a time, in arrival order.
func (i *Instance) HandleEvent(ctx context.Context, ev Event) {
	switch ev.Type {
	case EventSelectSlot:
		i.selectSlot(ev.Slot)
	case EventInput:
		i.flow.SetField(ev.Field, ev.Value)
	case EventBlur:
		i.flow.FieldBlur(ev.Field)
	case EventPay:
		if err := i.flow.Pay(ctx); err != nil {
			if !errors.Is(err, booking.ErrPaymentInFlight) && !errors.Is(err, booking.ErrAlreadyConfirmed) {
				i.logger.Error("pay event failed", "error", err)
			}
		}
	case EventChatSend:
		i.chat.Send(ev.Text)
	case EventChatOpen:
		i.chat.OpenModal()
	case EventChatClose:
		i.chat.CloseModal()
	case EventCopyResult:
		// Purely informational: the page reports whether the clipboard
		// write succeeded or fell back to manual selection.
		i.logger.Info("session link copy", "result", ev.Value)
	case EventPing:
		i.emit(Patch{Type: PatchPong})
	default:
		i.logger.Debug("unknown event", "type", ev.Type)
	}
}

func (i *Instance) selectSlot(raw string) {
	start, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		i.logger.Debug("malformed slot start", "slot", raw, "error", err)
		return
	}
	slot, ok := i.gen.Resolve(i.now(), start)
	if !ok {
		i.ShowBanner("That time is no longer available. Please pick another slot.")
		return
	}
	if err := i.flow.SelectSlot(slot); err != nil {
		i.logger.Debug("slot selection rejected", "error", err)
	}
}

func (i *Instance) emit(p Patch) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.sink(p)
}

// booking.Surface

func (i *Instance) HighlightSlot(start time.Time) {
	i.emit(Patch{Type: PatchSelect, Slot: start.Format(time.RFC3339)})
}

func (i *Instance) ShowFieldError(field, message string) {
	i.emit(Patch{Type: PatchFieldError, Field: field, Message: message})
}

func (i *Instance) ClearFieldError(field string) {
	i.emit(Patch{Type: PatchClearFieldErr, Field: field})
}

// ShowBanner displays the banner and restarts its auto-clear countdown. A
// newer banner or an explicit clear invalidates any pending countdown.
func (i *Instance) ShowBanner(text string) {
	i.mu.Lock()
	i.bannerSeq++
	seq := i.bannerSeq
	i.sink(Patch{Type: PatchBanner, Message: text})
	i.mu.Unlock()

	if i.bannerTTL <= 0 {
		return
	}
	i.after(i.bannerTTL, func() {
		i.mu.Lock()
		defer i.mu.Unlock()
		if i.bannerSeq != seq {
			return
		}
		i.sink(Patch{Type: PatchBannerClear})
	})
}

func (i *Instance) ClearBanner() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.bannerSeq++
	i.sink(Patch{Type: PatchBannerClear})
}

func (i *Instance) SetProcessing(on bool) {
	i.emit(Patch{Type: PatchBusy, On: on})
}

func (i *Instance) ShowConfirmation(link session.Link) {
	i.emit(Patch{Type: PatchState, State: booking.StateConfirmed.String()})
	i.emit(Patch{Type: PatchConfirmed, Token: link.Token, URL: link.URL})
}

// chat.Surface

func (i *Instance) AppendMessage(m chat.Message) {
	i.metrics.ObserveChatMessage(string(m.Sender))
	i.emit(Patch{
		Type:      PatchChatMessage,
		Sender:    string(m.Sender),
		Message:   m.Text,
		Timestamp: m.At.Format(time.RFC3339),
	})
}

func (i *Instance) ClearInput() {
	i.emit(Patch{Type: PatchChatClearInput})
}

func (i *Instance) ScrollToLatest() {
	i.emit(Patch{Type: PatchChatScroll})
}

func (i *Instance) SetModalVisible(visible bool) {
	i.emit(Patch{Type: PatchChatModal, On: visible})
}
