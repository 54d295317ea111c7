package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDRESS", "KAFKA_BROKERS", "CHAT_REPLY_MIN_DELAY", "SEED_FILE"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	require.Equal(t, ":8080", cfg.HTTPAddress)
	require.Equal(t, time.Second, cfg.ChatReplyMinDelay)
	require.Equal(t, 3*time.Second, cfg.ChatReplyMaxDelay)
	require.Equal(t, 30*time.Minute, cfg.ChatSessionTTL)
	require.Equal(t, "chat_events", cfg.ChatEventsTopic)
	require.Empty(t, cfg.SeedFile)
	require.Empty(t, cfg.KafkaBrokers)
	require.False(t, cfg.EventsEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDRESS", ":9090")
	t.Setenv("KAFKA_BROKERS", " kafka-1:9092, ,kafka-2:9092 ")
	t.Setenv("CHAT_REPLY_MAX_DELAY", "1500ms")
	t.Setenv("LIVE_CLOCK_INTERVAL", "not-a-duration")
	t.Setenv("EVENT_QUEUE_SIZE", "64")
	t.Setenv("SESSION_COOKIE_SECURE", "true")

	cfg := Load()
	require.Equal(t, ":9090", cfg.HTTPAddress)
	require.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	require.True(t, cfg.EventsEnabled())
	require.Equal(t, 1500*time.Millisecond, cfg.ChatReplyMaxDelay)
	require.Equal(t, time.Second, cfg.LiveClockInterval)
	require.Equal(t, 64, cfg.EventQueueSize)
	require.True(t, cfg.SessionSecure)
}

func TestLoadDotEnvKeepsProcessEnvironment(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("FITGPT_TEST_FROM_FILE=file\nFITGPT_TEST_PRESET=file\n"), 0o600))

	t.Setenv("FITGPT_TEST_PRESET", "process")
	t.Setenv("FITGPT_TEST_FROM_FILE", "")
	require.NoError(t, os.Unsetenv("FITGPT_TEST_FROM_FILE"))

	loaded, err := LoadDotEnv(filepath.Join(dir, "missing.env"), file)
	require.NoError(t, err)
	require.Equal(t, []string{file}, loaded)
	require.Equal(t, "file", os.Getenv("FITGPT_TEST_FROM_FILE"))
	require.Equal(t, "process", os.Getenv("FITGPT_TEST_PRESET"))
}
