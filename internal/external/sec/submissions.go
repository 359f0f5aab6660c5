package sec

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wonny/finbrief/internal/contracts"
)

// Submissions is the subset of data.sec.gov/submissions/CIK##########.json we read
type Submissions struct {
	CIK     string `json:"cik"`
	Name    string `json:"name"`
	Filings struct {
		Recent RecentFilings `json:"recent"`
	} `json:"filings"`
}

// RecentFilings holds the parallel arrays of the most recent filings
type RecentFilings struct {
	AccessionNumber []string `json:"accessionNumber"`
	FilingDate      []string `json:"filingDate"`
	ReportDate      []string `json:"reportDate"`
	Form            []string `json:"form"`
	PrimaryDocument []string `json:"primaryDocument"`
}

// FetchSubmissions downloads the filings index of a CIK
func (c *Client) FetchSubmissions(ctx context.Context, cik string) (*Submissions, error) {
	url := fmt.Sprintf("%s/CIK%s.json", c.submissionsURL, cik)

	body, err := c.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	var sub Submissions
	if err := json.Unmarshal(body, &sub); err != nil {
		return nil, fmt.Errorf("decode submissions: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"cik":    cik,
		"recent": len(sub.Filings.Recent.Form),
	}).Debug("Fetched submissions")
	return &sub, nil
}

// FindAnnualReport scans the recent filings in their native order and returns
// the first whose form equals one of forms. Older paginated history is not
// consulted.
func (c *Client) FindAnnualReport(sub *Submissions, cik string, forms []string) (contracts.Filing, bool, error) {
	recent := sub.Filings.Recent

	for i, form := range recent.Form {
		if !containsForm(forms, form) {
			continue
		}

		if i >= len(recent.AccessionNumber) || i >= len(recent.PrimaryDocument) {
			return contracts.Filing{}, false, fmt.Errorf("malformed filings index: form at %d has no accession/document", i)
		}

		filing := contracts.Filing{
			CIK:             cik,
			Form:            form,
			AccessionNumber: recent.AccessionNumber[i],
			PrimaryDocument: recent.PrimaryDocument[i],
			FilingDate:      at(recent.FilingDate, i),
			ReportDate:      at(recent.ReportDate, i),
		}
		filing.URL = c.ArchiveURL(cik, filing.AccessionNumber, filing.PrimaryDocument)
		return filing, true, nil
	}

	return contracts.Filing{}, false, nil
}

// ArchiveURL builds the public URL of a filing document
func (c *Client) ArchiveURL(cik, accession, document string) string {
	return fmt.Sprintf("%s/%s/%s/%s", c.archivesURL, cik, strings.ReplaceAll(accession, "-", ""), document)
}

func containsForm(forms []string, form string) bool {
	for _, f := range forms {
		if f == form {
			return true
		}
	}
	return false
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}
