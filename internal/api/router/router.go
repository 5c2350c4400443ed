// Package router assembles the HTTP surface for the booking widget service.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/bookwise/booking-widget/internal/http/middleware"
	"github.com/bookwise/booking-widget/internal/payments"
	"github.com/bookwise/booking-widget/internal/widget"
	"github.com/bookwise/booking-widget/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	Widget             *widget.Handler
	DemoPayments       *payments.DemoHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	IndexHTML          []byte
	WidgetJS           []byte
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", handleHealth)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if len(cfg.IndexHTML) > 0 {
		page := servePage(cfg.IndexHTML)
		r.Get("/", page)
		r.Get("/widget", page)
	}
	if len(cfg.WidgetJS) > 0 {
		r.Get("/widget.js", serveScript(cfg.WidgetJS))
	}

	if cfg.Widget != nil {
		r.Get("/ws", cfg.Widget.HandleWebSocket)
		r.Route("/api", func(api chi.Router) {
			api.Get("/slots", cfg.Widget.HandleSlots)
			api.Post("/chat/message", cfg.Widget.HandleChatMessage)
		})
	}

	if cfg.DemoPayments != nil {
		r.Mount("/demo", cfg.DemoPayments.Routes())
	}

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func servePage(body []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(body)
	}
}

func serveScript(body []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/javascript")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write(body)
	}
}
