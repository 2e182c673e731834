package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"repairhub-backend/internal/types"
)

// Provider is the chat-completion contract both model providers
// implement: one system instruction plus an ordered conversation.
type Provider interface {
	Name() string
	Generate(ctx context.Context, systemPrompt string, turns []types.ChatTurn, contextPayload map[string]any) (string, error)
}

// ProviderError is raised on any non-success HTTP status from a
// provider. There is no retry and no fallback between providers.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: request failed with status %d: %s", e.Provider, e.StatusCode, e.Body)
}

type Config struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

var factories = map[string]func(Config) Provider{
	"openai":    newOpenAI,
	"anthropic": newAnthropic,
}

// New resolves the configured provider. Unknown names and missing API
// keys are configuration errors and fail before any network call.
func New(cfg Config) (Provider, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Provider))
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown LLM provider %q (supported: openai, anthropic)", cfg.Provider)
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing API key for LLM provider %q", name)
	}
	return factory(cfg), nil
}

// remapSystemTurns rewrites system-role turns appearing inside the
// conversation to user turns; providers accept only one system slot.
func remapSystemTurns(turns []types.ChatTurn) []types.ChatTurn {
	out := make([]types.ChatTurn, len(turns))
	copy(out, turns)
	for i := range out {
		if out[i].Role == "system" {
			out[i].Role = "user"
		}
	}
	return out
}

// appendContext attaches the assembled context as a JSON block to the
// content of the final user turn.
func appendContext(turns []types.ChatTurn, contextPayload map[string]any) []types.ChatTurn {
	if len(contextPayload) == 0 {
		return turns
	}
	blob, err := json.MarshalIndent(contextPayload, "", "  ")
	if err != nil {
		return turns
	}
	out := make([]types.ChatTurn, len(turns))
	copy(out, turns)
	for i := len(out) - 1; i >= 0; i-- {
		if out[i].Role == "user" {
			out[i].Content += "\n\nRelevant data:\n```json\n" + string(blob) + "\n```"
			break
		}
	}
	return out
}
