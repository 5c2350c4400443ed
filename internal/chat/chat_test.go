package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSurface captures every surface mutation in order.
type recordingSurface struct {
	appended []Message
	clears   int
	scrolls  int
	modal    []bool
}

func (s *recordingSurface) AppendMessage(m Message) { s.appended = append(s.appended, m) }
func (s *recordingSurface) ClearInput()             { s.clears++ }
func (s *recordingSurface) ScrollToLatest()         { s.scrolls++ }
func (s *recordingSurface) SetModalVisible(v bool)  { s.modal = append(s.modal, v) }

// immediateAfter runs timer callbacks synchronously.
func immediateAfter(_ time.Duration, f func()) *time.Timer {
	f()
	return time.NewTimer(time.Hour)
}

// droppedAfter never fires.
func droppedAfter(time.Duration, func()) *time.Timer {
	return time.NewTimer(time.Hour)
}

func TestSendAppendsAndClearsInput(t *testing.T) {
	surface := &recordingSurface{}
	w := NewWidget(surface, AutoReply{}).WithClock(time.Now, droppedAfter)

	w.Send("hello")

	msgs := w.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, SenderUser, msgs[0].Sender)
	assert.Equal(t, "hello", msgs[0].Text)
	assert.Equal(t, 1, surface.clears)
	assert.Equal(t, 1, surface.scrolls)
}

func TestSendEmptyIsNoOp(t *testing.T) {
	surface := &recordingSurface{}
	w := NewWidget(surface, AutoReply{Enabled: true, Text: "hi"}).WithClock(time.Now, immediateAfter)

	w.Send("")
	w.Send("   \t\n")

	assert.Empty(t, w.Messages())
	assert.Empty(t, surface.appended)
	assert.Zero(t, surface.clears)
}

func TestSendTrimsText(t *testing.T) {
	w := NewWidget(nil, AutoReply{}).WithClock(time.Now, droppedAfter)

	w.Send("  hello  ")

	msgs := w.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello", msgs[0].Text)
}

func TestAutoReplyAppendsSystemMessage(t *testing.T) {
	surface := &recordingSurface{}
	reply := AutoReply{Enabled: true, Delay: time.Second, Text: "Thanks for your message! I'll get back to you soon."}
	w := NewWidget(surface, reply).WithClock(time.Now, immediateAfter)

	w.Send("hello")

	msgs := w.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, SenderUser, msgs[0].Sender)
	assert.Equal(t, SenderSystem, msgs[1].Sender)
	assert.Equal(t, reply.Text, msgs[1].Text)
	// Scroll once for the user echo, once for the reply.
	assert.Equal(t, 2, surface.scrolls)
}

func TestAutoReplyDisabled(t *testing.T) {
	w := NewWidget(nil, AutoReply{Enabled: false, Text: "hi"}).WithClock(time.Now, immediateAfter)

	w.Send("hello")

	assert.Len(t, w.Messages(), 1)
}

func TestLogPreservesAppendOrder(t *testing.T) {
	w := NewWidget(nil, AutoReply{}).WithClock(time.Now, droppedAfter)

	w.Send("one")
	w.Send("two")
	w.Send("three")

	msgs := w.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "one", msgs[0].Text)
	assert.Equal(t, "two", msgs[1].Text)
	assert.Equal(t, "three", msgs[2].Text)
}

func TestModalToggle(t *testing.T) {
	surface := &recordingSurface{}
	w := NewWidget(surface, AutoReply{})

	assert.False(t, w.ModalOpen())
	w.OpenModal()
	assert.True(t, w.ModalOpen())
	w.CloseModal()
	assert.False(t, w.ModalOpen())
	// Escape after an outside click: still closed, still harmless.
	w.CloseModal()
	assert.False(t, w.ModalOpen())

	assert.Equal(t, []bool{true, false, false}, surface.modal)
}

func TestMessagesReturnsCopy(t *testing.T) {
	w := NewWidget(nil, AutoReply{}).WithClock(time.Now, droppedAfter)
	w.Send("hello")

	msgs := w.Messages()
	msgs[0].Text = "mutated"

	assert.Equal(t, "hello", w.Messages()[0].Text)
}
