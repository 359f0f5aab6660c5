package sec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/wonny/finbrief/pkg/config"
	"github.com/wonny/finbrief/pkg/httputil"
	"github.com/wonny/finbrief/pkg/logger"
)

// Client handles communication with SEC EDGAR
// ⭐ SSOT: EDGAR 호출은 이 클라이언트에서만
type Client struct {
	httpClient     *httputil.Client
	logger         *logger.Logger
	directoryURL   string
	submissionsURL string
	archivesURL    string
	maxBody        int64
}

// NewClient creates a new EDGAR client. httpClient must already carry the
// SEC User-Agent (httputil.New does this from config).
func NewClient(httpClient *httputil.Client, cfg config.SECConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient:     httpClient,
		logger:         log,
		directoryURL:   cfg.DirectoryURL,
		submissionsURL: strings.TrimRight(cfg.SubmissionsURL, "/"),
		archivesURL:    strings.TrimRight(cfg.ArchivesURL, "/"),
		maxBody:        maxBodyBytes,
	}
}

// StatusError is returned when EDGAR answers with a non-200 status
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
}

// IsNotFound reports whether err is a 404 from EDGAR
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// ErrBodyTooLarge is returned instead of silently cutting an oversized response
var ErrBodyTooLarge = errors.New("response body too large")

// maxBodyBytes caps any EDGAR response read into memory
const maxBodyBytes = 64 << 20

// fetch performs a GET and returns the body of a 200 response
func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrBodyTooLarge, url, c.maxBody)
	}

	return body, nil
}
