package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ENVIRONMENT", "LOG_LEVEL", "STORAGE_BACKEND", "LLM_PROVIDER", "MODEL_NAME",
		"GEMINI_API_KEYS", "GENERATION_ATTEMPTS", "GENERATION_BACKOFF", "EMOTION_SEED", "EMOTION_DIR"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Environment != "development" {
		t.Errorf("Expected development, got %s", cfg.Environment)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("Expected info level, got %v", cfg.LogLevel)
	}
	if cfg.StorageBackend != BackendFile || cfg.EmotionDir != "emotion" {
		t.Errorf("Unexpected storage defaults %s %s", cfg.StorageBackend, cfg.EmotionDir)
	}
	if cfg.GenerationAttempts != 3 || cfg.GenerationBackoff != time.Second {
		t.Errorf("Unexpected generation defaults %d %s", cfg.GenerationAttempts, cfg.GenerationBackoff)
	}
	if cfg.HasEmotionSeed {
		t.Error("Seed should be unset by default")
	}
	if cfg.ModelName != "gemini-2.0-flash" {
		t.Errorf("Expected gemini default model, got %s", cfg.ModelName)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("STORAGE_BACKEND", "SQLite")
	t.Setenv("GEMINI_API_KEYS", " k1, ,k2 ")
	t.Setenv("GENERATION_ATTEMPTS", "5")
	t.Setenv("GENERATION_BACKOFF", "250ms")
	t.Setenv("EMOTION_SEED", "42")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("Expected debug, got %v", cfg.LogLevel)
	}
	if cfg.StorageBackend != BackendSQLite {
		t.Errorf("Expected sqlite, got %s", cfg.StorageBackend)
	}
	if len(cfg.GeminiAPIKeys) != 2 || cfg.GeminiAPIKeys[1] != "k2" {
		t.Errorf("Unexpected keys %v", cfg.GeminiAPIKeys)
	}
	if cfg.GenerationAttempts != 5 || cfg.GenerationBackoff != 250*time.Millisecond {
		t.Errorf("Unexpected generation settings %d %s", cfg.GenerationAttempts, cfg.GenerationBackoff)
	}
	if !cfg.HasEmotionSeed || cfg.EmotionSeed != 42 {
		t.Errorf("Expected seed 42, got %d (%v)", cfg.EmotionSeed, cfg.HasEmotionSeed)
	}
}

func TestLoad_InvalidNumbers(t *testing.T) {
	tests := map[string]string{
		"GENERATION_ATTEMPTS": "three",
		"GENERATION_BACKOFF":  "soon",
		"EMOTION_SEED":        "-1",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(); err == nil || !strings.Contains(err.Error(), key) {
				t.Errorf("Expected error naming %s, got %v", key, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			StorageBackend:     BackendFile,
			EmotionDir:         "emotion",
			LLMProvider:        ProviderMock,
			GenerationAttempts: 3,
			GenerationBackoff:  time.Second,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "unknown backend", mutate: func(c *Config) { c.StorageBackend = "mongo" }, wantErr: "STORAGE_BACKEND"},
		{name: "gemini without keys", mutate: func(c *Config) { c.LLMProvider = ProviderGemini }, wantErr: "GEMINI_API_KEYS"},
		{name: "openai without key", mutate: func(c *Config) { c.LLMProvider = ProviderOpenAI }, wantErr: "OPENAI_API_KEY"},
		{name: "anthropic without key", mutate: func(c *Config) { c.LLMProvider = ProviderAnthropic }, wantErr: "ANTHROPIC_API_KEY"},
		{name: "zero attempts", mutate: func(c *Config) { c.GenerationAttempts = 0 }, wantErr: "GENERATION_ATTEMPTS"},
		{name: "redis without url", mutate: func(c *Config) { c.StorageBackend = BackendRedis }, wantErr: "REDIS_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %s, got %v", tt.wantErr, err)
			}
		})
	}
}
