package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bookwise/booking-widget/internal/api/router"
	"github.com/bookwise/booking-widget/internal/booking"
	"github.com/bookwise/booking-widget/internal/chat"
	appconfig "github.com/bookwise/booking-widget/internal/config"
	"github.com/bookwise/booking-widget/internal/observability/metrics"
	"github.com/bookwise/booking-widget/internal/payments"
	"github.com/bookwise/booking-widget/internal/schedule"
	"github.com/bookwise/booking-widget/internal/session"
	"github.com/bookwise/booking-widget/internal/widget"
	"github.com/bookwise/booking-widget/pkg/logging"
	"github.com/bookwise/booking-widget/web"
)

func main() {
	// .env is optional; environment variables win.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.NewWithOptions(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	logger.Info("starting booking-widget server",
		"env", cfg.Env,
		"port", cfg.Port,
		"payment_provider", cfg.PaymentProvider,
	)

	loc, err := time.LoadLocation(cfg.SlotTimezone)
	if err != nil {
		logger.Warn("unknown slot timezone, using local", "tz", cfg.SlotTimezone, "error", err)
		loc = time.Local
	}
	generator := schedule.NewGenerator(schedule.Rules{
		WeekdayHours: cfg.WeekdayHours,
		WeekendHours: cfg.WeekendHours,
	}, cfg.SlotHorizonDays, loc)

	registry := prometheus.NewRegistry()
	widgetMetrics := metrics.NewWidgetMetrics(registry)

	repo := booking.NewInMemoryRepository()
	minter := session.NewMinter(cfg.PublicBaseURL)
	service := booking.NewService(repo, minter, widgetMetrics, logger)

	var demoPayments *payments.DemoHandler
	var provider payments.Provider
	switch cfg.PaymentProvider {
	case "stripe":
		if cfg.StripeSecretKey == "" {
			logger.Error("PAYMENT_PROVIDER=stripe requires STRIPE_SECRET_KEY")
			os.Exit(1)
		}
		provider = payments.NewStripeProvider(cfg.StripeSecretKey, logger)
	case "manual":
		manual := payments.NewManualProvider(cfg.PublicBaseURL, logger)
		defer manual.Close()
		demoPayments = payments.NewDemoHandler(manual, logger)
		provider = manual
	default:
		provider = payments.NewSimulatedProvider(cfg.PaymentConfirmDelay, cfg.PaymentFailEvery, logger)
	}

	widgetHandler := widget.NewHandler(widget.Deps{
		Generator: generator,
		Offer: booking.Offer{
			AmountCents: cfg.BookingAmountCents,
			Currency:    cfg.BookingCurrency,
			Name:        cfg.BookingName,
			Description: cfg.BookingDescription,
		},
		Provider: provider,
		Service:  service,
		AutoReply: chat.AutoReply{
			Enabled: cfg.ChatAutoReply,
			Delay:   cfg.ChatAutoReplyDelay,
			Text:    cfg.ChatAutoReplyText,
		},
		BannerTTL: cfg.BannerTTL,
		Metrics:   widgetMetrics,
		Logger:    logger,
	})

	r := router.New(&router.Config{
		Logger:             logger,
		Widget:             widgetHandler,
		DemoPayments:       demoPayments,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		IndexHTML:          web.IndexHTML,
		WidgetJS:           web.WidgetJS,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
