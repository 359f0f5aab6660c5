package briefing

import (
	"context"
	"errors"
	"strings"

	"github.com/wonny/finbrief/internal/contracts"
	"github.com/wonny/finbrief/internal/external/llm"
	"github.com/wonny/finbrief/pkg/logger"
)

// Resolver turns a Korean company name into the English name SEC lists
type Resolver struct {
	provider llm.Provider
	logger   *logger.Logger
}

// NewResolver creates a new resolver
func NewResolver(provider llm.Provider, log *logger.Logger) *Resolver {
	return &Resolver{provider: provider, logger: log}
}

// Resolve asks the provider for the corrected English company name
func (r *Resolver) Resolve(ctx context.Context, query string) (string, error) {
	text, err := r.provider.Generate(ctx, llm.Request{
		System:      resolveSystemPrompt,
		Prompt:      resolvePrompt(query),
		MaxTokens:   resolveMaxTokens,
		Temperature: resolveTemperature,
	})
	if err != nil {
		if errors.Is(err, llm.ErrEmptyResponse) {
			return "", contracts.Fail(contracts.StageResolve, contracts.KindNotFound, "no name resolved for %q", query)
		}
		return "", contracts.Classify(contracts.StageResolve, err)
	}

	name := strings.TrimSpace(text)
	if name == "" {
		return "", contracts.Fail(contracts.StageResolve, contracts.KindNotFound, "no name resolved for %q", query)
	}

	r.logger.WithFields(map[string]interface{}{
		"query":         query,
		"resolved_name": name,
	}).Debug("Company name resolved")

	return name, nil
}
