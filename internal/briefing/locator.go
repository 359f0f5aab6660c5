package briefing

import (
	"context"

	"github.com/wonny/finbrief/internal/contracts"
	"github.com/wonny/finbrief/internal/external/sec"
)

// FilingSource fetches a company's filing index
type FilingSource interface {
	FetchSubmissions(ctx context.Context, cik string) (*sec.Submissions, error)
	FindAnnualReport(sub *sec.Submissions, cik string, forms []string) (contracts.Filing, bool, error)
}

// Locator finds the most recent annual report of a company
type Locator struct {
	source FilingSource
	forms  []string
}

// NewLocator creates a locator matching any of forms (e.g. "10-K")
func NewLocator(source FilingSource, forms []string) *Locator {
	if len(forms) == 0 {
		forms = []string{"10-K"}
	}
	return &Locator{source: source, forms: forms}
}

// Locate returns the first annual report in the recent filings window
func (l *Locator) Locate(ctx context.Context, company contracts.Company) (contracts.Filing, error) {
	sub, err := l.source.FetchSubmissions(ctx, company.CIK)
	if err != nil {
		return contracts.Filing{}, classifySEC(contracts.StageLocate, err)
	}

	filing, found, err := l.source.FindAnnualReport(sub, company.CIK, l.forms)
	if err != nil {
		return contracts.Filing{}, contracts.Fail(contracts.StageLocate, contracts.KindUpstreamUnavailable, "filing index: %w", err)
	}
	if !found {
		return contracts.Filing{}, contracts.Fail(contracts.StageLocate, contracts.KindNotFound, "no %v in recent filings of CIK %s", l.forms, company.CIK)
	}

	return filing, nil
}
