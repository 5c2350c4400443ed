// Package widget binds one connected page to its booking flow and chat
// widget. Each WebSocket connection gets its own Instance; interaction
// events arrive in order and UI patches flow back over the same connection.
package widget

import (
	"github.com/bookwise/booking-widget/internal/schedule"
)

// Event is one interaction from the page.
type Event struct {
	Type  string `json:"type"`
	Slot  string `json:"slot,omitempty"`  // RFC3339 start, for select_slot
	Field string `json:"field,omitempty"` // input and blur
	Value string `json:"value,omitempty"` // input and copy_result
	Text  string `json:"text,omitempty"`  // chat_send
}

// Event types.
const (
	EventSelectSlot = "select_slot"
	EventInput      = "input"
	EventBlur       = "blur"
	EventPay        = "pay"
	EventChatSend   = "chat_send"
	EventChatOpen   = "chat_open"
	EventChatClose  = "chat_close"
	EventCopyResult = "copy_result"
	EventPing       = "ping"
)

// Patch is one UI mutation pushed to the page.
type Patch struct {
	Type      string              `json:"type"`
	State     string              `json:"state,omitempty"`
	Days      []schedule.DayGroup `json:"days,omitempty"`
	Slot      string              `json:"slot,omitempty"`
	Field     string              `json:"field,omitempty"`
	Message   string              `json:"message,omitempty"`
	On        bool                `json:"on,omitempty"`
	Sender    string              `json:"sender,omitempty"`
	Timestamp string              `json:"timestamp,omitempty"`
	Token     string              `json:"token,omitempty"`
	URL       string              `json:"url,omitempty"`
}

// Patch types.
const (
	PatchState          = "state"
	PatchSlots          = "slots"
	PatchSelect         = "select"
	PatchFieldError     = "field_error"
	PatchClearFieldErr  = "clear_field_error"
	PatchBanner         = "banner"
	PatchBannerClear    = "banner_clear"
	PatchBusy           = "busy"
	PatchConfirmed      = "confirmed"
	PatchChatMessage    = "chat_message"
	PatchChatClearInput = "chat_clear_input"
	PatchChatScroll     = "chat_scroll"
	PatchChatModal      = "chat_modal"
	PatchPong           = "pong"
)
