package widget

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookwise/booking-widget/internal/booking"
	"github.com/bookwise/booking-widget/internal/chat"
	"github.com/bookwise/booking-widget/internal/payments"
	"github.com/bookwise/booking-widget/internal/schedule"
	"github.com/bookwise/booking-widget/internal/session"
)

// patchLog is a thread-safe recording sink.
type patchLog struct {
	mu      sync.Mutex
	patches []Patch
}

func (l *patchLog) sink(p Patch) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.patches = append(l.patches, p)
}

func (l *patchLog) all() []Patch {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Patch, len(l.patches))
	copy(out, l.patches)
	return out
}

func (l *patchLog) ofType(typ string) []Patch {
	var out []Patch
	for _, p := range l.all() {
		if p.Type == typ {
			out = append(out, p)
		}
	}
	return out
}

func (l *patchLog) last(typ string) (Patch, bool) {
	matches := l.ofType(typ)
	if len(matches) == 0 {
		return Patch{}, false
	}
	return matches[len(matches)-1], true
}

// parkedProvider holds the payment callbacks for explicit resolution.
type parkedProvider struct {
	cb payments.Callbacks
}

func (p *parkedProvider) Collect(_ context.Context, _ payments.Charge, cb payments.Callbacks) error {
	p.cb = cb
	return nil
}

// immediateAfter runs timer callbacks synchronously.
func immediateAfter(_ time.Duration, fn func()) *time.Timer {
	fn()
	return time.NewTimer(time.Hour)
}

// droppedAfter never fires.
func droppedAfter(time.Duration, func()) *time.Timer {
	return time.NewTimer(time.Hour)
}

// midweekMorning is a Wednesday, so the horizon spans both hour tables.
var midweekMorning = time.Date(2026, time.January, 7, 10, 0, 0, 0, time.UTC)

func testDeps(t *testing.T, provider payments.Provider) Deps {
	t.Helper()
	return Deps{
		Generator: schedule.NewGenerator(schedule.DefaultRules(), 7, time.UTC),
		Offer: booking.Offer{
			AmountCents: 39900,
			Currency:    "INR",
			Name:        "1:1 Session Booking",
			Description: "Expert Consultation Session",
		},
		Provider:  provider,
		Service:   booking.NewService(booking.NewInMemoryRepository(), session.NewMinter("http://localhost:8080"), nil, nil),
		AutoReply: chat.AutoReply{Enabled: true, Delay: time.Second, Text: "Thanks for your message! I'll get back to you soon."},
		BannerTTL: 5 * time.Second,
	}
}

func newTestInstance(t *testing.T, provider payments.Provider, after func(time.Duration, func()) *time.Timer) (*Instance, *patchLog) {
	t.Helper()
	log := &patchLog{}
	inst := NewInstance(testDeps(t, provider), log.sink).
		WithClock(func() time.Time { return midweekMorning }, after)
	return inst, log
}

func firstSlotStart(t *testing.T, inst *Instance) time.Time {
	t.Helper()
	days := inst.gen.Upcoming(midweekMorning)
	require.NotEmpty(t, days)
	require.NotEmpty(t, days[0].Slots)
	return days[0].Slots[0].Start
}

func TestOpenPushesInitialRender(t *testing.T) {
	inst, log := newTestInstance(t, &parkedProvider{}, droppedAfter)

	inst.Open()

	patches := log.all()
	require.Len(t, patches, 2)
	assert.Equal(t, PatchState, patches[0].Type)
	assert.Equal(t, "selecting", patches[0].State)
	assert.Equal(t, PatchSlots, patches[1].Type)
	assert.NotEmpty(t, patches[1].Days)
}

func TestSelectSlotEvent(t *testing.T) {
	inst, log := newTestInstance(t, &parkedProvider{}, droppedAfter)
	start := firstSlotStart(t, inst)

	inst.HandleEvent(context.Background(), Event{Type: EventSelectSlot, Slot: start.Format(time.RFC3339)})

	sel, ok := log.last(PatchSelect)
	require.True(t, ok)
	assert.Equal(t, start.Format(time.RFC3339), sel.Slot)
	require.NotNil(t, inst.Flow().Selected())
}

func TestSelectStaleSlotShowsBanner(t *testing.T) {
	inst, log := newTestInstance(t, &parkedProvider{}, droppedAfter)

	past := midweekMorning.Add(-time.Hour)
	inst.HandleEvent(context.Background(), Event{Type: EventSelectSlot, Slot: past.Format(time.RFC3339)})

	banner, ok := log.last(PatchBanner)
	require.True(t, ok)
	assert.Contains(t, banner.Message, "no longer available")
	assert.Nil(t, inst.Flow().Selected())
}

func TestMalformedSlotIgnored(t *testing.T) {
	inst, log := newTestInstance(t, &parkedProvider{}, droppedAfter)

	inst.HandleEvent(context.Background(), Event{Type: EventSelectSlot, Slot: "tomorrow-ish"})

	assert.Empty(t, log.all())
}

func TestBlurEmitsFieldError(t *testing.T) {
	inst, log := newTestInstance(t, &parkedProvider{}, droppedAfter)

	inst.HandleEvent(context.Background(), Event{Type: EventInput, Field: "email", Value: "ana@x"})
	inst.HandleEvent(context.Background(), Event{Type: EventBlur, Field: "email"})

	fieldErr, ok := log.last(PatchFieldError)
	require.True(t, ok)
	assert.Equal(t, "email", fieldErr.Field)
	assert.Equal(t, "Please enter a valid email address", fieldErr.Message)

	// Typing again clears the annotation.
	inst.HandleEvent(context.Background(), Event{Type: EventInput, Field: "email", Value: "ana@x."})
	cleared, ok := log.last(PatchClearFieldErr)
	require.True(t, ok)
	assert.Equal(t, "email", cleared.Field)
}

func TestPayEventConfirms(t *testing.T) {
	provider := &parkedProvider{}
	inst, log := newTestInstance(t, provider, droppedAfter)
	ctx := context.Background()
	start := firstSlotStart(t, inst)

	inst.HandleEvent(ctx, Event{Type: EventSelectSlot, Slot: start.Format(time.RFC3339)})
	inst.HandleEvent(ctx, Event{Type: EventInput, Field: "name", Value: "Ana"})
	inst.HandleEvent(ctx, Event{Type: EventInput, Field: "email", Value: "ana@x.com"})
	inst.HandleEvent(ctx, Event{Type: EventInput, Field: "phone", Value: "+12345"})
	inst.HandleEvent(ctx, Event{Type: EventPay})

	busy, ok := log.last(PatchBusy)
	require.True(t, ok)
	assert.True(t, busy.On)
	assert.Equal(t, booking.StateAwaitingPayment, inst.Flow().State())

	provider.cb.OnSuccess("pi_123")

	assert.Equal(t, booking.StateConfirmed, inst.Flow().State())
	confirmed, ok := log.last(PatchConfirmed)
	require.True(t, ok)
	assert.NotEmpty(t, confirmed.Token)
	assert.Contains(t, confirmed.URL, "?session="+confirmed.Token)

	state, ok := log.last(PatchState)
	require.True(t, ok)
	assert.Equal(t, "confirmed", state.State)

	busy, ok = log.last(PatchBusy)
	require.True(t, ok)
	assert.False(t, busy.On)
}

func TestPayEventPaymentFailureBanner(t *testing.T) {
	provider := &parkedProvider{}
	inst, log := newTestInstance(t, provider, droppedAfter)
	ctx := context.Background()
	start := firstSlotStart(t, inst)

	inst.HandleEvent(ctx, Event{Type: EventSelectSlot, Slot: start.Format(time.RFC3339)})
	inst.HandleEvent(ctx, Event{Type: EventInput, Field: "name", Value: "Ana"})
	inst.HandleEvent(ctx, Event{Type: EventInput, Field: "email", Value: "ana@x.com"})
	inst.HandleEvent(ctx, Event{Type: EventInput, Field: "phone", Value: "+12345"})
	inst.HandleEvent(ctx, Event{Type: EventPay})

	provider.cb.OnFailure("Declined.")

	banner, ok := log.last(PatchBanner)
	require.True(t, ok)
	assert.Equal(t, "Payment failed: Declined.", banner.Message)
	assert.Equal(t, booking.StateSelecting, inst.Flow().State())
}

func TestBannerAutoClears(t *testing.T) {
	inst, log := newTestInstance(t, &parkedProvider{}, immediateAfter)

	inst.ShowBanner("Please select a time slot.")

	patches := log.all()
	require.Len(t, patches, 2)
	assert.Equal(t, PatchBanner, patches[0].Type)
	assert.Equal(t, PatchBannerClear, patches[1].Type)
}

func TestBannerCountdownInvalidatedByNewBanner(t *testing.T) {
	var fired []func()
	capture := func(_ time.Duration, fn func()) *time.Timer {
		fired = append(fired, fn)
		return time.NewTimer(time.Hour)
	}
	inst, log := newTestInstance(t, &parkedProvider{}, capture)

	inst.ShowBanner("first")
	inst.ShowBanner("second")
	fired[0]() // stale countdown fires after the second banner

	clears := log.ofType(PatchBannerClear)
	assert.Empty(t, clears, "stale countdown must not clear the newer banner")

	fired[1]()
	assert.Len(t, log.ofType(PatchBannerClear), 1)
}

func TestChatSendEchoesAndReplies(t *testing.T) {
	inst, log := newTestInstance(t, &parkedProvider{}, immediateAfter)

	inst.HandleEvent(context.Background(), Event{Type: EventChatSend, Text: "  hello  "})

	messages := log.ofType(PatchChatMessage)
	require.Len(t, messages, 2)
	assert.Equal(t, "user", messages[0].Sender)
	assert.Equal(t, "hello", messages[0].Message)
	assert.Equal(t, "system", messages[1].Sender)
	assert.Equal(t, "Thanks for your message! I'll get back to you soon.", messages[1].Message)

	assert.Len(t, log.ofType(PatchChatClearInput), 1)
	assert.NotEmpty(t, log.ofType(PatchChatScroll))
}

func TestChatModalEvents(t *testing.T) {
	inst, log := newTestInstance(t, &parkedProvider{}, droppedAfter)
	ctx := context.Background()

	inst.HandleEvent(ctx, Event{Type: EventChatOpen})
	modal, ok := log.last(PatchChatModal)
	require.True(t, ok)
	assert.True(t, modal.On)
	assert.True(t, inst.Chat().ModalOpen())

	inst.HandleEvent(ctx, Event{Type: EventChatClose})
	modal, ok = log.last(PatchChatModal)
	require.True(t, ok)
	assert.False(t, modal.On)
	assert.False(t, inst.Chat().ModalOpen())
}

func TestPingPong(t *testing.T) {
	inst, log := newTestInstance(t, &parkedProvider{}, droppedAfter)

	inst.HandleEvent(context.Background(), Event{Type: EventPing})

	_, ok := log.last(PatchPong)
	assert.True(t, ok)
}

func TestCloseSilencesSink(t *testing.T) {
	inst, log := newTestInstance(t, &parkedProvider{}, droppedAfter)

	inst.Close()
	inst.HandleEvent(context.Background(), Event{Type: EventPing})

	assert.Empty(t, log.all())
}
