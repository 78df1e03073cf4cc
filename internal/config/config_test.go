package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "7020", cfg.Port)
	require.Equal(t, "/data/audio", cfg.AudioDir)
	require.Equal(t, "/data/wav", cfg.WAVDir)
	require.Equal(t, "base", cfg.Model)
	require.Equal(t, EngineLocal, cfg.Engine)
	require.Equal(t, "auto", cfg.Language)
	require.Equal(t, "info", cfg.LogLevel)
	require.True(t, cfg.AutoDownload)
	require.False(t, cfg.SilenceGate)
	require.Equal(t, 60, cfg.RateLimit)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("AUDIO_DIR", "/tmp/in")
	t.Setenv("WHISPER_MODEL", "small")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("AUTO_DOWNLOAD", "false")
	t.Setenv("SILENCE_GATE", "true")
	t.Setenv("SILENCE_THRESHOLD_DBFS", "-50.5")
	t.Setenv("RATE_LIMIT", "10")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "9000", cfg.Port)
	require.Equal(t, "/tmp/in", cfg.AudioDir)
	require.Equal(t, "small", cfg.Model)
	require.Equal(t, "debug", cfg.LogLevel)
	require.False(t, cfg.AutoDownload)
	require.True(t, cfg.SilenceGate)
	require.InDelta(t, -50.5, cfg.SilenceThresholdDBFS, 0.001)
	require.Equal(t, 10, cfg.RateLimit)
}

func TestLoadRejectsUnknownEngine(t *testing.T) {
	t.Setenv("ENGINE", "deepgram")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown ENGINE")
}

func TestLoadOpenAIEngineRequiresKey(t *testing.T) {
	t.Setenv("ENGINE", "openai")
	t.Setenv("OPENAI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestLoadRejectsMalformedNumbers(t *testing.T) {
	t.Setenv("RATE_LIMIT", "lots")

	_, err := Load()
	require.Error(t, err)
}
