package briefing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/finbrief/internal/contracts"
	"github.com/wonny/finbrief/pkg/logger"
)

// Observer is notified when a stage starts
type Observer func(stage contracts.Stage)

// Recorder stores finished runs
type Recorder interface {
	Record(ctx context.Context, b *contracts.Briefing) error
}

// recordTimeout bounds history writes, which run after the request context may be gone
const recordTimeout = 5 * time.Second

// Pipeline runs resolve → lookup → locate → summarize for one query
// ⭐ SSOT: 조회 실행은 Pipeline.Run 하나로만
type Pipeline struct {
	resolver   *Resolver
	lookup     *Lookup
	locator    *Locator
	summarizer *Summarizer
	recorder   Recorder
	timeout    time.Duration
	logger     *logger.Logger
	now        func() time.Time
}

// NewPipeline creates a pipeline. timeout <= 0 leaves runs bounded only by ctx.
func NewPipeline(resolver *Resolver, lookup *Lookup, locator *Locator, summarizer *Summarizer, timeout time.Duration, log *logger.Logger) *Pipeline {
	return &Pipeline{
		resolver:   resolver,
		lookup:     lookup,
		locator:    locator,
		summarizer: summarizer,
		timeout:    timeout,
		logger:     log,
		now:        time.Now,
	}
}

// WithRecorder stores every finished run through r
func (p *Pipeline) WithRecorder(r Recorder) *Pipeline {
	p.recorder = r
	return p
}

// Run executes one lookup. It never returns nil; failures are recorded on
// the Briefing with their stage and kind.
func (p *Pipeline) Run(ctx context.Context, query string, observe Observer) *contracts.Briefing {
	b := &contracts.Briefing{
		ID:        uuid.NewString(),
		Query:     strings.TrimSpace(query),
		StartedAt: p.now(),
	}

	log := p.logger.WithFields(map[string]interface{}{
		"run_id": b.ID,
		"query":  b.Query,
	})

	if b.Query == "" {
		p.finish(ctx, b, contracts.Fail(contracts.StageInput, contracts.KindInvalidInput, "empty company name"), log)
		return b
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	if observe == nil {
		observe = func(contracts.Stage) {}
	}

	err := p.run(ctx, b, observe, log)
	p.finish(ctx, b, err, log)
	return b
}

func (p *Pipeline) run(ctx context.Context, b *contracts.Briefing, observe Observer, log *logger.Logger) error {
	// 1. 회사명 번역
	observe(contracts.StageResolve)
	name, err := p.resolver.Resolve(ctx, b.Query)
	if err != nil {
		return err
	}
	b.ResolvedName = name

	// 2. CIK 조회
	observe(contracts.StageLookup)
	company, err := p.lookup.Find(ctx, name)
	if err != nil {
		return err
	}
	b.Company = &company

	// 3. 최신 10-K 탐색
	observe(contracts.StageLocate)
	filing, err := p.locator.Locate(ctx, company)
	if err != nil {
		return err
	}
	b.Filing = &filing

	log.WithFields(map[string]interface{}{
		"cik":       company.CIK,
		"accession": filing.AccessionNumber,
	}).Debug("Annual report located")

	// 4. 요약
	observe(contracts.StageSummarize)
	summary, err := p.summarizer.Summarize(ctx, filing)
	if err != nil {
		return err
	}
	b.Summary = summary.Text
	b.Model = summary.Model
	b.Truncated = summary.Truncated
	b.Cached = summary.Cached

	return nil
}

func (p *Pipeline) finish(ctx context.Context, b *contracts.Briefing, err error, log *logger.Logger) {
	b.FinishedAt = p.now()

	if err != nil {
		b.Status = contracts.StatusFailed
		b.FailureKind = contracts.KindOf(err)
		b.FailureStage = contracts.StageOf(err)
		b.Message = Message(b.FailureStage, b.FailureKind)
		b.Error = err.Error()

		log.WithFields(map[string]interface{}{
			"stage":    b.FailureStage,
			"kind":     b.FailureKind,
			"duration": b.Duration(),
		}).WithError(err).Warn("Briefing run failed")
	} else {
		b.Status = contracts.StatusSucceeded
		b.Message = MsgSucceeded

		log.WithFields(map[string]interface{}{
			"cik":       b.Company.CIK,
			"cached":    b.Cached,
			"truncated": b.Truncated,
			"duration":  b.Duration(),
		}).Info("Briefing run completed")
	}

	// Rejected input never reached a stage and an abandoned run says
	// nothing about upstream health; neither is kept
	if p.recorder == nil || b.FailureKind == contracts.KindInvalidInput || b.FailureKind == contracts.KindCanceled {
		return
	}

	recCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	if err := p.recorder.Record(recCtx, b); err != nil {
		log.WithError(err).Warn("Failed to record briefing run")
	}
}
