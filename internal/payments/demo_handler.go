package payments

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bookwise/booking-widget/pkg/logging"
)

// DemoHandler exposes a tiny checkout page to resolve manual payment intents.
// Only mount it when the manual provider is active.
type DemoHandler struct {
	provider *ManualProvider
	logger   *logging.Logger
}

// NewDemoHandler creates the demo checkout handler.
func NewDemoHandler(provider *ManualProvider, logger *logging.Logger) *DemoHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &DemoHandler{provider: provider, logger: logger}
}

// Routes mounts the demo checkout endpoints.
func (h *DemoHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/payments/{intentID}", h.HandleCheckout)
	r.Post("/payments/{intentID}/complete", h.HandleComplete)
	r.Post("/payments/{intentID}/fail", h.HandleFail)
	return r
}

// HandleCheckout renders the pending charge with complete/decline controls.
func (h *DemoHandler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseIntentID(w, r)
	if !ok {
		return
	}
	charge, found := h.provider.Lookup(id)
	if !found {
		http.Error(w, "payment not found", http.StatusNotFound)
		return
	}

	amount := float64(charge.AmountCents) / 100.0
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Demo Checkout</title>
    <style>
      body{font-family:system-ui,-apple-system,Segoe UI,Roboto,Ubuntu,Cantarell,Noto Sans,sans-serif;max-width:680px;margin:40px auto;padding:0 16px;}
      .card{border:1px solid #e5e7eb;border-radius:12px;padding:18px;}
      .btn{display:inline-block;background:#111827;color:#fff;padding:12px 16px;border-radius:10px;border:0;cursor:pointer;}
      .btn.secondary{background:#9ca3af;}
      .muted{color:#6b7280;font-size:14px;}
    </style>
  </head>
  <body>
    <div class="card">
      <h1>%s</h1>
      <p>%s</p>
      <p><strong>%.2f %s</strong></p>
      <p class="muted">%s</p>
      <form method="post" action="/demo/payments/%s/complete" style="display:inline">
        <button class="btn" type="submit">Complete payment</button>
      </form>
      <form method="post" action="/demo/payments/%s/fail" style="display:inline">
        <button class="btn secondary" type="submit">Decline</button>
      </form>
    </div>
  </body>
</html>`,
		charge.Name, charge.Description, amount, charge.Currency,
		charge.Notes["session_time"], id, id)
}

// HandleComplete resolves the intent successfully.
func (h *DemoHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseIntentID(w, r)
	if !ok {
		return
	}
	if err := h.provider.Complete(id); err != nil {
		http.Error(w, "payment not found", http.StatusNotFound)
		return
	}
	h.logger.Info("demo checkout completed", "intent_id", id)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, `<!doctype html><html><body><h1>Payment complete</h1><p>You can close this tab and return to the booking page.</p></body></html>`)
}

// HandleFail resolves the intent as declined.
func (h *DemoHandler) HandleFail(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseIntentID(w, r)
	if !ok {
		return
	}
	if err := h.provider.Fail(id, "Payment was declined at checkout."); err != nil {
		http.Error(w, "payment not found", http.StatusNotFound)
		return
	}
	h.logger.Info("demo checkout declined", "intent_id", id)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, `<!doctype html><html><body><h1>Payment declined</h1><p>Return to the booking page to try again.</p></body></html>`)
}

func (h *DemoHandler) parseIntentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "intentID")
	id, err := uuid.Parse(raw)
	if err != nil {
		http.Error(w, "invalid intent id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}
