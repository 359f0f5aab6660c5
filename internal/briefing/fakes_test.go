package briefing

import (
	"context"
	"strings"
	"sync"

	"github.com/wonny/finbrief/internal/contracts"
	"github.com/wonny/finbrief/internal/external/llm"
	"github.com/wonny/finbrief/internal/external/sec"
	"github.com/wonny/finbrief/pkg/config"
	"github.com/wonny/finbrief/pkg/logger"
)

// fakeProvider answers the resolve prompt with name and everything else with summary
type fakeProvider struct {
	mu       sync.Mutex
	name     string
	summary  string
	err      error
	requests []llm.Request
}

func (f *fakeProvider) Name() string  { return "fake" }
func (f *fakeProvider) Model() string { return "fake-model" }

func (f *fakeProvider) Generate(ctx context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.err != nil {
		return "", f.err
	}
	if req.System == resolveSystemPrompt {
		return f.name, nil
	}
	return f.summary, nil
}

func (f *fakeProvider) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// fakeSEC serves a fixed directory, filing index and document
type fakeSEC struct {
	mu            sync.Mutex
	companies     []contracts.Company
	forms         []string
	document      string
	directoryErr  error
	submissionErr error
	documentErr   error

	directoryCalls int
	documentURLs   []string
}

func (f *fakeSEC) FetchDirectory(ctx context.Context) ([]contracts.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.directoryCalls++
	if f.directoryErr != nil {
		return nil, f.directoryErr
	}
	return f.companies, nil
}

func (f *fakeSEC) FetchSubmissions(ctx context.Context, cik string) (*sec.Submissions, error) {
	if f.submissionErr != nil {
		return nil, f.submissionErr
	}
	sub := &sec.Submissions{}
	for i, form := range f.forms {
		sub.Filings.Recent.Form = append(sub.Filings.Recent.Form, form)
		sub.Filings.Recent.AccessionNumber = append(sub.Filings.Recent.AccessionNumber, "0000320193-24-00012"+string(rune('0'+i)))
		sub.Filings.Recent.PrimaryDocument = append(sub.Filings.Recent.PrimaryDocument, strings.ToLower(form)+".htm")
	}
	return sub, nil
}

func (f *fakeSEC) FindAnnualReport(sub *sec.Submissions, cik string, forms []string) (contracts.Filing, bool, error) {
	client := sec.NewClient(nil, config.SECConfig{ArchivesURL: "https://www.sec.gov/Archives/edgar/data"}, logger.Nop())
	return client.FindAnnualReport(sub, cik, forms)
}

func (f *fakeSEC) FetchDocument(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.documentURLs = append(f.documentURLs, url)
	if f.documentErr != nil {
		return "", f.documentErr
	}
	return f.document, nil
}

const appleDocument = `<html><body><h1>Item 1. Business</h1><p>Apple designs smartphones.</p><script>x()</script></body></html>`

func newFakeSEC() *fakeSEC {
	return &fakeSEC{
		companies: []contracts.Company{
			{CIK: "0000320193", Ticker: "AAPL", Title: "Apple Inc."},
			{CIK: "0001418121", Ticker: "APLE", Title: "Apple Hospitality REIT, Inc."},
		},
		forms:    []string{"8-K", "10-K"},
		document: appleDocument,
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Summary: config.SummaryConfig{
			MaxDocumentTokens: 1000,
			DocumentFormat:    config.FormatText,
		},
	}
}

func newTestPipeline(provider llm.Provider, source *fakeSEC) *Pipeline {
	log := logger.Nop()
	return NewPipeline(
		NewResolver(provider, log),
		NewLookup(source, nil, log),
		NewLocator(source, []string{"10-K"}),
		NewSummarizer(source, provider, nil, testConfig(), log),
		0,
		log,
	)
}

// blockingProvider waits for the context to end
type blockingProvider struct{}

func (blockingProvider) Name() string  { return "blocking" }
func (blockingProvider) Model() string { return "blocking-model" }

func (blockingProvider) Generate(ctx context.Context, req llm.Request) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}
