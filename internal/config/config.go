package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Engine backends.
const (
	EngineLocal  = "local"
	EngineOpenAI = "openai"
)

type Config struct {
	Port     string
	AudioDir string
	WAVDir   string
	ModelDir string

	Model      string
	Engine     string
	WhisperCLI string
	OpenAIKey  string
	Language   string

	LogLevel     string
	AutoDownload bool

	SilenceGate          bool
	SilenceThresholdDBFS float64

	RateLimit int
}

// Load reads the process configuration from the environment. A .env file in
// the working directory is honored but not required.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:                 getenv("PORT", "7020"),
		AudioDir:             getenv("AUDIO_DIR", "/data/audio"),
		WAVDir:               getenv("WAV_DIR", "/data/wav"),
		ModelDir:             getenv("MODEL_DIR", "/data/models"),
		Model:                getenv("WHISPER_MODEL", "base"),
		Engine:               strings.ToLower(getenv("ENGINE", EngineLocal)),
		WhisperCLI:           os.Getenv("WHISPER_CLI"),
		OpenAIKey:            os.Getenv("OPENAI_API_KEY"),
		Language:             strings.ToLower(getenv("LANGUAGE", "auto")),
		LogLevel:             strings.ToLower(getenv("LOG_LEVEL", "info")),
		AutoDownload:         true,
		SilenceGate:          false,
		SilenceThresholdDBFS: -65,
		RateLimit:            60,
	}

	var err error
	if cfg.AutoDownload, err = boolEnv("AUTO_DOWNLOAD", cfg.AutoDownload); err != nil {
		return Config{}, err
	}
	if cfg.SilenceGate, err = boolEnv("SILENCE_GATE", cfg.SilenceGate); err != nil {
		return Config{}, err
	}
	if cfg.SilenceThresholdDBFS, err = floatEnv("SILENCE_THRESHOLD_DBFS", cfg.SilenceThresholdDBFS); err != nil {
		return Config{}, err
	}
	if cfg.RateLimit, err = intEnv("RATE_LIMIT", cfg.RateLimit); err != nil {
		return Config{}, err
	}

	switch cfg.Engine {
	case EngineLocal:
	case EngineOpenAI:
		if cfg.OpenAIKey == "" {
			return Config{}, fmt.Errorf("ENGINE=openai requires OPENAI_API_KEY")
		}
	default:
		return Config{}, fmt.Errorf("unknown ENGINE %q (supported: %s, %s)", cfg.Engine, EngineLocal, EngineOpenAI)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func boolEnv(key string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return value, nil
}

func intEnv(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return value, nil
}

func floatEnv(key string, fallback float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return value, nil
}
