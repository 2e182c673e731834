package chat

import (
	"context"
	"fmt"
	"log/slog"

	"repairhub-backend/internal/devicecheck"
	"repairhub-backend/internal/intent"
	"repairhub-backend/internal/llm"
	"repairhub-backend/internal/policy"
	"repairhub-backend/internal/prompt"
	"repairhub-backend/internal/refdata"
	"repairhub-backend/internal/types"
)

// Verifier performs the external device-status lookup.
type Verifier interface {
	Verify(ctx context.Context, identifier string) devicecheck.Result
}

// ProviderFactory resolves the configured model provider. Resolution
// errors are configuration errors and surface before any network call.
type ProviderFactory func() (llm.Provider, error)

// Service runs the request pipeline: classify, optionally verify the
// device, assemble context, build the prompt, call the model provider
// and compose the reply envelope. It holds no per-request state.
type Service struct {
	classifier  *intent.Classifier
	cache       *refdata.Cache
	verifier    Verifier
	newProvider ProviderFactory
}

func NewService(classifier *intent.Classifier, cache *refdata.Cache, verifier Verifier, newProvider ProviderFactory) *Service {
	return &Service{
		classifier:  classifier,
		cache:       cache,
		verifier:    verifier,
		newProvider: newProvider,
	}
}

// Handle processes one conversational request. The returned error is
// always a hard failure (configuration or model provider); device and
// dataset problems degrade the reply instead of failing it.
func (s *Service) Handle(ctx context.Context, role string, turns []types.ChatTurn) (*types.ChatResponse, error) {
	provider, err := s.newProvider()
	if err != nil {
		return nil, fmt.Errorf("provider configuration: %w", err)
	}

	message := lastUserMessage(turns)
	it := s.classifier.Classify(message)

	var device *devicecheck.Result
	if it == intent.IMEICheck {
		if id := devicecheck.ExtractIdentifier(message); id != "" {
			res := s.verifier.Verify(ctx, id)
			device = &res
			if !res.Success {
				slog.Warn("device status lookup failed", "error", res.Error)
			}
		}
	}

	snap := s.cache.Snapshot(ctx)
	contextPayload := prompt.AssembleContext(it, snap, device)
	systemPrompt := prompt.Build(it, contextPayload, role)

	reply, err := provider.Generate(ctx, systemPrompt, turns, contextPayload)
	if err != nil {
		return nil, fmt.Errorf("%s completion: %w", provider.Name(), err)
	}

	slog.Debug("chat request handled", "intent", it, "provider", provider.Name(), "deviceChecked", device != nil)
	return compose(it, reply, device), nil
}

func lastUserMessage(turns []types.ChatTurn) string {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == "user" {
			return turns[i].Content
		}
	}
	return ""
}

func compose(it intent.Intent, reply string, device *devicecheck.Result) *types.ChatResponse {
	meta := types.Meta{SuggestedActions: policy.Suggest(it, device)}
	if device != nil {
		im := &types.IMEIMeta{
			Checked:  true,
			Summary:  device.Summary,
			Analysis: device.Analysis,
		}
		if !device.Success {
			im.Status = "error"
		} else if device.Analysis != nil {
			im.Status = device.Analysis.OverallStatus
		}
		meta.IMEI = im
	}
	return &types.ChatResponse{
		Success: true,
		Intent:  string(it),
		Reply:   reply,
		Meta:    meta,
	}
}
