package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string
	LogFormat     string

	// Booking charge presented to the payment collaborator.
	BookingAmountCents int64
	BookingCurrency    string
	BookingName        string
	BookingDescription string

	// Slot generation.
	SlotHorizonDays int
	WeekdayHours    []int
	WeekendHours    []int
	SlotTimezone    string

	// Payment collaborator selection and simulated latency.
	PaymentProvider     string // "simulated", "manual" or "stripe"
	PaymentConfirmDelay time.Duration
	PaymentFailEvery    int // simulated provider: fail every Nth charge, 0 = never
	StripeSecretKey     string

	// Chat widget.
	ChatAutoReply      bool
	ChatAutoReplyDelay time.Duration
	ChatAutoReplyText  string

	// Error banner auto-clear.
	BannerTTL time.Duration

	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),

		BookingAmountCents: getEnvAsInt64("BOOKING_AMOUNT_CENTS", 39900),
		BookingCurrency:    getEnv("BOOKING_CURRENCY", "INR"),
		BookingName:        getEnv("BOOKING_NAME", "1:1 Session Booking"),
		BookingDescription: getEnv("BOOKING_DESCRIPTION", "Expert Consultation Session"),

		SlotHorizonDays: getEnvAsInt("SLOT_HORIZON_DAYS", 7),
		WeekdayHours:    getEnvAsHours("SLOT_WEEKDAY_HOURS", []int{22}),
		WeekendHours:    getEnvAsHours("SLOT_WEEKEND_HOURS", []int{9, 10, 11, 12, 14, 15, 16, 17}),
		SlotTimezone:    getEnv("SLOT_TZ", "Local"),

		PaymentProvider:     strings.ToLower(strings.TrimSpace(getEnv("PAYMENT_PROVIDER", "simulated"))),
		PaymentConfirmDelay: getEnvAsDuration("PAYMENT_CONFIRM_DELAY", 2*time.Second),
		PaymentFailEvery:    getEnvAsInt("PAYMENT_FAIL_EVERY", 0),
		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),

		ChatAutoReply:      getEnvAsBool("CHAT_AUTO_REPLY", true),
		ChatAutoReplyDelay: getEnvAsDuration("CHAT_AUTO_REPLY_DELAY", time.Second),
		ChatAutoReplyText:  getEnv("CHAT_AUTO_REPLY_TEXT", "Thanks for your message! I'll get back to you soon."),

		BannerTTL: getEnvAsDuration("BANNER_TTL", 5*time.Second),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", nil),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// getEnvAsHours parses a comma-separated list of hours (0..23). Entries
// outside that range or non-numeric entries are dropped; an empty result
// falls back to the default table.
func getEnvAsHours(key string, defaultValue []int) []int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		h, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || h < 0 || h > 23 {
			continue
		}
		out = append(out, h)
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
