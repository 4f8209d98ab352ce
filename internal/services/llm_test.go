package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/jwebster45206/hallway/internal/config"
)

func TestNew(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name     string
		cfg      config.Config
		wantType string
		wantErr  bool
	}{
		{name: "mock", cfg: config.Config{LLMProvider: config.ProviderMock}, wantType: "mock"},
		{name: "openai", cfg: config.Config{LLMProvider: config.ProviderOpenAI, OpenAIAPIKey: "k", ModelName: "gpt-4o-mini"}, wantType: "openai"},
		{name: "anthropic", cfg: config.Config{LLMProvider: config.ProviderAnthropic, AnthropicAPIKey: "k"}, wantType: "anthropic"},
		{name: "gemini without keys", cfg: config.Config{LLMProvider: config.ProviderGemini}, wantErr: true},
		{name: "unknown provider", cfg: config.Config{LLMProvider: "carrier-pigeon"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := New(context.Background(), &tt.cfg, log)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error, got %T", svc)
				}
				if svc != nil {
					t.Errorf("Expected nil service on error, got %T", svc)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			var got string
			switch svc.(type) {
			case *MockLLMAPI:
				got = "mock"
			case *OpenAIService:
				got = "openai"
			case *AnthropicService:
				got = "anthropic"
			}
			if got != tt.wantType {
				t.Errorf("Expected %s service, got %T", tt.wantType, svc)
			}
		})
	}
}
