package briefing

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/wonny/finbrief/internal/contracts"
	"github.com/wonny/finbrief/internal/external/llm"
	"github.com/wonny/finbrief/internal/external/sec"
	"github.com/wonny/finbrief/pkg/config"
	"github.com/wonny/finbrief/pkg/logger"
	"github.com/wonny/finbrief/pkg/redis"
)

// runesPerToken is the rough size of one LLM token in document text
const runesPerToken = 4

// DocumentSource fetches a filing document
type DocumentSource interface {
	FetchDocument(ctx context.Context, url string) (string, error)
}

// Summary is the summarizer output
type Summary struct {
	Text      string `json:"text"`
	Model     string `json:"model"`
	Truncated bool   `json:"truncated"`
	Cached    bool   `json:"-"`
}

// Summarizer turns a filing document into a Korean investor summary
type Summarizer struct {
	documents DocumentSource
	provider  llm.Provider
	cache     *redis.Cache
	logger    *logger.Logger

	extract   func(string) (string, error)
	maxRunes  int
	maxTokens int
}

// NewSummarizer creates a summarizer. cache may be nil.
func NewSummarizer(documents DocumentSource, provider llm.Provider, cache *redis.Cache, cfg *config.Config, log *logger.Logger) *Summarizer {
	extract := sec.ExtractText
	if cfg.Summary.DocumentFormat == config.FormatMarkdown {
		extract = sec.ExtractMarkdown
	}

	return &Summarizer{
		documents: documents,
		provider:  provider,
		cache:     cache,
		logger:    log,
		extract:   extract,
		maxRunes:  cfg.Summary.MaxDocumentTokens * runesPerToken,
		maxTokens: cfg.LLM.SummaryMaxTokens,
	}
}

// Summarize fetches the filing document and summarizes it
func (s *Summarizer) Summarize(ctx context.Context, filing contracts.Filing) (Summary, error) {
	key := redis.SummaryKey(strings.ReplaceAll(filing.AccessionNumber, "-", ""), s.provider.Model())
	if cached, ok := s.cached(ctx, key); ok {
		return cached, nil
	}

	document, err := s.documents.FetchDocument(ctx, filing.URL)
	if err != nil {
		return Summary{}, classifySEC(contracts.StageSummarize, err)
	}

	text, err := s.extract(document)
	if err != nil {
		return Summary{}, contracts.Fail(contracts.StageSummarize, contracts.KindUpstreamUnavailable, "extract document text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return Summary{}, contracts.Fail(contracts.StageSummarize, contracts.KindUpstreamUnavailable, "document %s has no text", filing.URL)
	}

	text, truncated := Truncate(text, s.maxRunes)
	if truncated {
		s.logger.WithFields(map[string]interface{}{
			"accession": filing.AccessionNumber,
			"max_runes": s.maxRunes,
		}).Warn("Filing document truncated to token budget")
	}

	reply, err := s.provider.Generate(ctx, llm.Request{
		System:    summarizeSystemPrompt,
		Prompt:    summarizePrompt(text),
		MaxTokens: s.maxTokens,
	})
	if err != nil {
		if errors.Is(err, llm.ErrEmptyResponse) {
			return Summary{}, contracts.Fail(contracts.StageSummarize, contracts.KindUpstreamUnavailable, "empty summary")
		}
		return Summary{}, contracts.Classify(contracts.StageSummarize, err)
	}

	summary := Summary{
		Text:      reply,
		Model:     s.provider.Model(),
		Truncated: truncated,
	}

	if s.cache != nil && s.cache.Enabled() {
		if err := s.cache.Set(ctx, key, summary, redis.TTLSummary); err != nil {
			s.logger.WithError(err).Warn("Summary cache write failed")
		}
	}

	return summary, nil
}

func (s *Summarizer) cached(ctx context.Context, key string) (Summary, bool) {
	if s.cache == nil || !s.cache.Enabled() {
		return Summary{}, false
	}

	var summary Summary
	found, err := s.cache.Get(ctx, key, &summary)
	if err != nil {
		s.logger.WithError(err).Warn("Summary cache read failed")
		s.evict(ctx, key)
		return Summary{}, false
	}
	if !found {
		return Summary{}, false
	}
	if summary.Text == "" {
		s.evict(ctx, key)
		return Summary{}, false
	}

	summary.Cached = true
	return summary, true
}

// evict drops an unusable cache entry so the next run does not read it again
func (s *Summarizer) evict(ctx context.Context, key string) {
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.WithError(err).Debug("Summary cache delete failed")
	}
}

// Truncate cuts text to at most maxRunes runes. maxRunes <= 0 means no limit.
func Truncate(text string, maxRunes int) (string, bool) {
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text, false
	}

	count := 0
	for i := range text {
		if count == maxRunes {
			return text[:i], true
		}
		count++
	}
	return text, false
}
