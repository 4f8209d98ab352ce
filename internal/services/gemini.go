package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"
)

const (
	DefaultGeminiModel = "gemini-2.0-flash"
	geminiRotatePause  = time.Second
)

// textGenerator is one API key's view of the model.
type textGenerator interface {
	GenerateText(ctx context.Context, model, prompt string) (string, error)
}

type genaiGenerator struct {
	client *genai.Client
}

func (g *genaiGenerator) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}

// GeminiService implements LLMService over one or more Gemini API keys.
// A failing key hands the request to the next one; the key that last
// succeeded is tried first on the following call.
type GeminiService struct {
	modelName  string
	generators []textGenerator
	pause      time.Duration
	logger     *slog.Logger

	mu      sync.Mutex
	current int
}

func NewGeminiService(ctx context.Context, apiKeys []string, modelName string, logger *slog.Logger) (*GeminiService, error) {
	if len(apiKeys) == 0 {
		return nil, fmt.Errorf("at least one Gemini API key is required")
	}
	generators := make([]textGenerator, 0, len(apiKeys))
	for i, key := range apiKeys {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create genai client for key %d: %w", i+1, err)
		}
		generators = append(generators, &genaiGenerator{client: client})
	}
	return newGeminiService(generators, modelName, geminiRotatePause, logger), nil
}

func newGeminiService(generators []textGenerator, modelName string, pause time.Duration, logger *slog.Logger) *GeminiService {
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	return &GeminiService{
		modelName:  modelName,
		generators: generators,
		pause:      pause,
		logger:     logger,
	}
}

// Generate tries every key at most once, starting from the current one.
func (g *GeminiService) Generate(ctx context.Context, prompt string) (string, error) {
	if err := checkPrompt(prompt); err != nil {
		return "", err
	}

	g.mu.Lock()
	start := g.current
	g.mu.Unlock()

	var errs []error
	for i := range g.generators {
		idx := (start + i) % len(g.generators)
		text, err := g.generators[idx].GenerateText(ctx, g.modelName, prompt)
		if err == nil {
			g.mu.Lock()
			g.current = idx
			g.mu.Unlock()
			return text, nil
		}

		errs = append(errs, fmt.Errorf("key %d: %w", idx+1, err))
		g.logger.Warn("Gemini request failed, rotating key",
			"key_index", idx+1,
			"keys", len(g.generators),
			"error", err)

		if i == len(g.generators)-1 {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(g.pause):
		}
	}
	return "", fmt.Errorf("all Gemini API keys failed: %w", errors.Join(errs...))
}
