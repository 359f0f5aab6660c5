package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/wonny/finbrief/pkg/config"
	"github.com/wonny/finbrief/pkg/logger"
)

// ErrEmptyResponse is returned when a provider answers without any text
var ErrEmptyResponse = errors.New("empty response from provider")

// Request is a provider-agnostic single-turn generation request
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int     // 0 leaves it to the provider
	Temperature float32 // 0 leaves it to the provider
}

// Provider generates text from a prompt
// ⭐ SSOT: LLM 호출은 Provider 인터페이스를 통해서만
type Provider interface {
	Name() string
	Model() string
	Generate(ctx context.Context, req Request) (string, error)
}

// NewProvider builds the provider selected by LLM_PROVIDER
func NewProvider(ctx context.Context, cfg config.LLMConfig, log *logger.Logger) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s API key is required", cfg.Provider)
	}

	var (
		provider Provider
		err      error
	)

	switch cfg.Provider {
	case config.ProviderOpenAI, "":
		provider = NewOpenAI(cfg)
	case config.ProviderClaude:
		provider = NewClaude(cfg)
	case config.ProviderGemini:
		provider, err = NewGemini(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	log.WithFields(map[string]interface{}{
		"provider": provider.Name(),
		"model":    provider.Model(),
	}).Info("LLM provider initialized")

	return provider, nil
}
