package sec

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/wonny/finbrief/internal/contracts"
)

// directoryEntry is one value of company_tickers.json
type directoryEntry struct {
	CIK    json.Number `json:"cik_str"`
	Ticker string      `json:"ticker"`
	Title  string      `json:"title"`
}

// FetchDirectory downloads the full company directory.
// Entries are returned in document order.
func (c *Client) FetchDirectory(ctx context.Context) ([]contracts.Company, error) {
	body, err := c.fetch(ctx, c.directoryURL)
	if err != nil {
		return nil, err
	}

	companies, err := ParseDirectory(body)
	if err != nil {
		return nil, fmt.Errorf("decode directory: %w", err)
	}

	c.logger.WithField("count", len(companies)).Debug("Fetched company directory")
	return companies, nil
}

// ParseDirectory decodes company_tickers.json, an object keyed "0", "1", ...
// A map would lose the source order, so the object is streamed token by token.
func ParseDirectory(data []byte) ([]contracts.Company, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var companies []contracts.Company
	for dec.More() {
		// key
		if _, err := dec.Token(); err != nil {
			return nil, err
		}

		var entry directoryEntry
		if err := dec.Decode(&entry); err != nil {
			return nil, err
		}

		cik, err := PadCIK(entry.CIK.String())
		if err != nil {
			return nil, err
		}

		companies = append(companies, contracts.Company{
			CIK:    cik,
			Ticker: entry.Ticker,
			Title:  entry.Title,
		})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	return companies, nil
}

// FindCompany returns the first company whose title contains name,
// case-insensitively. No ranking: the directory order decides.
func FindCompany(companies []contracts.Company, name string) (contracts.Company, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return contracts.Company{}, false
	}

	for _, company := range companies {
		if strings.Contains(strings.ToLower(company.Title), needle) {
			return company, true
		}
	}

	return contracts.Company{}, false
}

// PadCIK zero-pads a numeric CIK to 10 digits
func PadCIK(cik string) (string, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(cik), 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid CIK %q: %w", cik, err)
	}
	padded := fmt.Sprintf("%010d", n)
	if len(padded) > 10 {
		return "", fmt.Errorf("invalid CIK %q: more than 10 digits", cik)
	}
	return padded, nil
}
