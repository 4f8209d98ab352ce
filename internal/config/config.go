package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"

	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderMock      = "mock"
)

type Config struct {
	Environment string
	LogLevel    slog.Level
	LogFile     string

	DataDir    string
	EmotionDir string
	MapsDir    string
	WorldFile  string

	StorageBackend string
	RedisURL       string
	SQLitePath     string

	LLMProvider     string
	ModelName       string
	GeminiAPIKeys   []string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	AnthropicAPIKey string

	GenerationAttempts int
	GenerationBackoff  time.Duration
	DialogueTemplate   string

	// EmotionSeed makes emotion drift reproducible when set.
	EmotionSeed    uint64
	HasEmotionSeed bool
}

func Load() (*Config, error) {
	cfg := &Config{
		Environment:     getEnv("ENVIRONMENT", "development"),
		LogLevel:        parseLogLevel(getEnv("LOG_LEVEL", "info")),
		LogFile:         getEnv("LOG_FILE", "hallway.log"),
		DataDir:         getEnv("DATA_DIR", "data"),
		EmotionDir:      getEnv("EMOTION_DIR", "emotion"),
		MapsDir:         getEnv("MAPS_DIR", "maps"),
		WorldFile:       os.Getenv("WORLD_FILE"),
		StorageBackend:  strings.ToLower(getEnv("STORAGE_BACKEND", BackendFile)),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379/0"),
		SQLitePath:      getEnv("SQLITE_PATH", "emotion/hallway.db"),
		LLMProvider:     strings.ToLower(getEnv("LLM_PROVIDER", ProviderGemini)),
		ModelName:       os.Getenv("MODEL_NAME"),
		GeminiAPIKeys:   splitList(os.Getenv("GEMINI_API_KEYS")),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:   os.Getenv("OPENAI_BASE_URL"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
	}

	cfg.DialogueTemplate = os.Getenv("DIALOGUE_TEMPLATE")

	var err error
	if cfg.GenerationAttempts, err = strconv.Atoi(getEnv("GENERATION_ATTEMPTS", "3")); err != nil {
		return nil, fmt.Errorf("invalid GENERATION_ATTEMPTS: %w", err)
	}
	if cfg.GenerationBackoff, err = time.ParseDuration(getEnv("GENERATION_BACKOFF", "1s")); err != nil {
		return nil, fmt.Errorf("invalid GENERATION_BACKOFF: %w", err)
	}
	if seed := os.Getenv("EMOTION_SEED"); seed != "" {
		if cfg.EmotionSeed, err = strconv.ParseUint(seed, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid EMOTION_SEED: %w", err)
		}
		cfg.HasEmotionSeed = true
	}
	if cfg.ModelName == "" {
		cfg.ModelName = defaultModel(cfg.LLMProvider)
	}

	return cfg, nil
}

// Validate checks that the selected backend and provider have what they need.
func (c *Config) Validate() error {
	var errs []error

	switch c.StorageBackend {
	case BackendFile:
		if c.EmotionDir == "" {
			errs = append(errs, errors.New("EMOTION_DIR is required for the file backend"))
		}
	case BackendRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required for the redis backend"))
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend))
	}

	switch c.LLMProvider {
	case ProviderGemini:
		if len(c.GeminiAPIKeys) == 0 {
			errs = append(errs, errors.New("GEMINI_API_KEYS is required for the gemini provider"))
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required for the openai provider"))
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			errs = append(errs, errors.New("ANTHROPIC_API_KEY is required for the anthropic provider"))
		}
	case ProviderMock:
	default:
		errs = append(errs, fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider))
	}

	if c.GenerationAttempts < 1 {
		errs = append(errs, fmt.Errorf("GENERATION_ATTEMPTS must be at least 1, got %d", c.GenerationAttempts))
	}
	if c.GenerationBackoff < 0 {
		errs = append(errs, fmt.Errorf("GENERATION_BACKOFF must not be negative, got %s", c.GenerationBackoff))
	}

	return errors.Join(errs...)
}

func defaultModel(provider string) string {
	switch provider {
	case ProviderGemini:
		return "gemini-2.0-flash"
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderAnthropic:
		return "claude-3-5-haiku-latest"
	default:
		return "mock"
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
