// Package config centralises configuration parsing for the studio web server.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures runtime configuration values for the web server.
type Config struct {
	HTTPAddress       string
	LogLevel          string
	CORSAllowedOrigin string
	SessionSecret     string
	SessionIssuer     string
	SessionCookie     string
	SessionSecure     bool
	ChatSessionTTL    time.Duration
	ChatSweepInterval time.Duration
	ChatReplyMinDelay time.Duration
	ChatReplyMaxDelay time.Duration
	LiveClockInterval time.Duration
	SeedFile          string        // Empty selects the embedded seed.
	KafkaBrokers      []string      // Empty disables chat event publishing.
	ChatEventsTopic   string
	EventQueueSize    int
	ShutdownTimeout   time.Duration
}

// EventsEnabled reports whether chat events go to Kafka.
func (c Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads environment variables into Config, applying defaults for local dev.
func Load() Config {
	cfg := Config{
		HTTPAddress:       getEnv("HTTP_ADDRESS", ":8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "http://localhost:3000"),
		SessionSecret:     getEnv("SESSION_SECRET", "dev-secret-change-me"),
		SessionIssuer:     getEnv("SESSION_ISSUER", "fitgpt.studio"),
		SessionCookie:     getEnv("SESSION_COOKIE", "fitgpt_session"),
		SessionSecure:     getBoolEnv("SESSION_COOKIE_SECURE", false),
		ChatSessionTTL:    getDurationEnv("CHAT_SESSION_TTL", 30*time.Minute),
		ChatSweepInterval: getDurationEnv("CHAT_SWEEP_INTERVAL", time.Minute),
		ChatReplyMinDelay: getDurationEnv("CHAT_REPLY_MIN_DELAY", time.Second),
		ChatReplyMaxDelay: getDurationEnv("CHAT_REPLY_MAX_DELAY", 3*time.Second),
		LiveClockInterval: getDurationEnv("LIVE_CLOCK_INTERVAL", time.Second),
		SeedFile:          getEnv("SEED_FILE", ""),
		ChatEventsTopic:   getEnv("CHAT_EVENTS_TOPIC", "chat_events"),
		EventQueueSize:    getIntEnv("EVENT_QUEUE_SIZE", 256),
		ShutdownTimeout:   getDurationEnv("SHUTDOWN_TIMEOUT", 5*time.Second),
	}

	cfg.KafkaBrokers = splitAndTrim(getEnv("KAFKA_BROKERS", ""))
	return cfg
}

// LoadDotEnv loads the given files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadDotEnv(files ...string) ([]string, error) {
	loaded := make([]string, 0, len(files))
	for _, file := range files {
		if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return loaded, fmt.Errorf("load %s: %w", file, err)
		}
		loaded = append(loaded, file)
	}
	return loaded, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
