package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/finbrief/internal/contracts"
	"github.com/wonny/finbrief/pkg/logger"
)

// DirectoryRefresher re-fetches the SEC company directory into the cache
type DirectoryRefresher interface {
	Refresh(ctx context.Context) ([]contracts.Company, error)
}

// DirectoryRefreshJob keeps the cached company directory warm
type DirectoryRefreshJob struct {
	refresher DirectoryRefresher
	schedule  string
	logger    *logger.Logger
}

// NewDirectoryRefreshJob creates a new directory refresh job
func NewDirectoryRefreshJob(refresher DirectoryRefresher, schedule string, log *logger.Logger) *DirectoryRefreshJob {
	if schedule == "" {
		schedule = "0 0 6 * * *"
	}
	return &DirectoryRefreshJob{
		refresher: refresher,
		schedule:  schedule,
		logger:    log,
	}
}

// Name returns the job name
func (j *DirectoryRefreshJob) Name() string {
	return "directory_refresh"
}

// Schedule returns the cron schedule (daily at 06:00 by default)
func (j *DirectoryRefreshJob) Schedule() string {
	return j.schedule
}

// Run fetches company_tickers.json and stores it in the cache
func (j *DirectoryRefreshJob) Run(ctx context.Context) error {
	j.logger.Debug("Starting scheduled directory refresh")

	companies, err := j.refresher.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh company directory: %w", err)
	}

	j.logger.WithField("companies", len(companies)).Info("Company directory refreshed")
	return nil
}
