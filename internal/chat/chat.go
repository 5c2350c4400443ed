// Package chat implements the local-echo chat log and the join-session modal.
package chat

import (
	"strings"
	"sync"
	"time"
)

// Sender tags who authored a message.
type Sender string

const (
	SenderUser   Sender = "user"
	SenderSystem Sender = "system"
)

// Message is one entry in the append-only chat log.
type Message struct {
	Sender Sender    `json:"sender"`
	Text   string    `json:"text"`
	At     time.Time `json:"at"`
}

// Surface receives the chat widget's UI mutations. Implementations that lack
// a given element simply ignore the call.
type Surface interface {
	AppendMessage(Message)
	ClearInput()
	ScrollToLatest()
	SetModalVisible(bool)
}

// AutoReply configures the cosmetic scripted response.
type AutoReply struct {
	Enabled bool
	Delay   time.Duration
	Text    string
}

// Widget owns one chat log and the modal visibility for a page instance.
// There is no transport: messages are echoed locally, and the optional
// auto-reply is a canned system message on a timer.
type Widget struct {
	mu        sync.Mutex
	log       []Message
	modalOpen bool

	surface   Surface
	autoReply AutoReply

	now   func() time.Time
	after func(time.Duration, func()) *time.Timer
}

// NewWidget creates a chat widget bound to a surface.
func NewWidget(surface Surface, autoReply AutoReply) *Widget {
	if surface == nil {
		surface = nopSurface{}
	}
	return &Widget{
		surface:   surface,
		autoReply: autoReply,
		now:       time.Now,
		after:     time.AfterFunc,
	}
}

// WithClock overrides the widget's time sources (tests).
func (w *Widget) WithClock(now func() time.Time, after func(time.Duration, func()) *time.Timer) *Widget {
	w.now = now
	w.after = after
	return w
}

// Send appends a user message and clears the input. Empty or whitespace-only
// text is a no-op. When the auto-reply is enabled, a canned system message is
// appended after the configured delay.
func (w *Widget) Send(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	w.append(Message{Sender: SenderUser, Text: text, At: w.now()})
	w.surface.ClearInput()
	w.surface.ScrollToLatest()

	if w.autoReply.Enabled && w.autoReply.Text != "" {
		w.after(w.autoReply.Delay, func() {
			w.append(Message{Sender: SenderSystem, Text: w.autoReply.Text, At: w.now()})
			w.surface.ScrollToLatest()
		})
	}
}

// OpenModal shows the join-session detail surface.
func (w *Widget) OpenModal() {
	w.mu.Lock()
	w.modalOpen = true
	w.mu.Unlock()
	w.surface.SetModalVisible(true)
}

// CloseModal hides the modal. Explicit close, outside click and escape all
// arrive here; closing an already-closed modal is harmless.
func (w *Widget) CloseModal() {
	w.mu.Lock()
	w.modalOpen = false
	w.mu.Unlock()
	w.surface.SetModalVisible(false)
}

// ModalOpen reports the modal's current visibility.
func (w *Widget) ModalOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.modalOpen
}

// Messages returns a copy of the log in append order.
func (w *Widget) Messages() []Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Message, len(w.log))
	copy(out, w.log)
	return out
}

func (w *Widget) append(msg Message) {
	w.mu.Lock()
	w.log = append(w.log, msg)
	w.mu.Unlock()
	w.surface.AppendMessage(msg)
}

type nopSurface struct{}

func (nopSurface) AppendMessage(Message) {}
func (nopSurface) ClearInput()           {}
func (nopSurface) ScrollToLatest()       {}
func (nopSurface) SetModalVisible(bool)  {}
