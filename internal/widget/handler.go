package widget

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/websocket"

	"github.com/bookwise/booking-widget/pkg/logging"
)

// Handler serves the widget's transport: the WebSocket event loop plus the
// stateless HTTP endpoints pages use before (or without) a connection.
type Handler struct {
	deps   Deps
	logger *logging.Logger
	now    func() time.Time
}

// NewHandler creates a widget handler.
func NewHandler(deps Deps) *Handler {
	if deps.Generator == nil {
		panic("widget: schedule generator required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}
	deps.Logger = logger
	return &Handler{deps: deps, logger: logger, now: time.Now}
}

// WithClock overrides the handler's clock (tests).
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

// HandleWebSocket upgrades the request and runs one page instance for the
// lifetime of the connection. Events are read and applied sequentially, so a
// connection never observes two of its own events interleaving.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	inst := NewInstance(h.deps, func(p Patch) {
		_ = websocket.JSON.Send(conn, p)
	})
	defer inst.Close()

	h.logger.Info("widget: connection opened", "remote", r.RemoteAddr)
	inst.Open()

	for {
		var ev Event
		if err := websocket.JSON.Receive(conn, &ev); err != nil {
			h.logger.Debug("widget: connection closed", "error", err)
			return
		}
		inst.HandleEvent(r.Context(), ev)
	}
}

// HandleSlots returns the upcoming slot groups. Pages without a WebSocket
// connection poll this instead.
func (h *Handler) HandleSlots(w http.ResponseWriter, r *http.Request) {
	h.deps.Metrics.ObserveSlotRequest()
	days := h.deps.Generator.Upcoming(h.now())

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"days": days})
}

// HandleChatMessage is the HTTP fallback for chat. There is no transport
// behind the chat log, so the canned reply comes back in the response.
func (h *Handler) HandleChatMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	h.deps.Metrics.ObserveChatMessage("user")

	resp := map[string]string{"status": "ok"}
	if h.deps.AutoReply.Enabled {
		resp["reply"] = h.deps.AutoReply.Text
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
