package briefing

import (
	"context"
	"strings"

	"github.com/wonny/finbrief/internal/contracts"
	"github.com/wonny/finbrief/internal/external/sec"
	"github.com/wonny/finbrief/pkg/logger"
	"github.com/wonny/finbrief/pkg/redis"
)

// DirectorySource fetches the SEC company directory
type DirectorySource interface {
	FetchDirectory(ctx context.Context) ([]contracts.Company, error)
}

// Lookup maps an English company name to its CIK
// ⭐ SSOT: 회사명 → CIK 매칭은 여기서만
type Lookup struct {
	source DirectorySource
	cache  *redis.Cache
	logger *logger.Logger
}

// NewLookup creates a lookup. cache may be nil.
func NewLookup(source DirectorySource, cache *redis.Cache, log *logger.Logger) *Lookup {
	return &Lookup{source: source, cache: cache, logger: log}
}

// Find returns the first directory entry whose title contains name
func (l *Lookup) Find(ctx context.Context, name string) (contracts.Company, error) {
	if strings.TrimSpace(name) == "" {
		return contracts.Company{}, contracts.Fail(contracts.StageLookup, contracts.KindNotFound, "empty company name")
	}

	companies, err := l.Directory(ctx)
	if err != nil {
		return contracts.Company{}, err
	}

	company, found := sec.FindCompany(companies, name)
	if !found {
		return contracts.Company{}, contracts.Fail(contracts.StageLookup, contracts.KindNotFound, "no company matches %q", name)
	}

	return company, nil
}

// Directory returns the company directory, from cache when available
func (l *Lookup) Directory(ctx context.Context) ([]contracts.Company, error) {
	if l.cacheEnabled() {
		var companies []contracts.Company
		found, err := l.cache.Get(ctx, redis.DirectoryKey(), &companies)
		if err != nil {
			l.logger.WithError(err).Warn("Directory cache read failed")
		} else if found && len(companies) > 0 {
			return companies, nil
		}
	}

	return l.Refresh(ctx)
}

// Refresh fetches the directory from EDGAR and stores it in the cache
func (l *Lookup) Refresh(ctx context.Context) ([]contracts.Company, error) {
	companies, err := l.source.FetchDirectory(ctx)
	if err != nil {
		return nil, classifySEC(contracts.StageLookup, err)
	}

	if l.cacheEnabled() {
		if err := l.cache.Set(ctx, redis.DirectoryKey(), companies, redis.TTLDirectory); err != nil {
			l.logger.WithError(err).Warn("Directory cache write failed")
		}
	}

	l.logger.WithField("companies", len(companies)).Debug("Company directory fetched")
	return companies, nil
}

func (l *Lookup) cacheEnabled() bool {
	return l.cache != nil && l.cache.Enabled()
}

// classifySEC maps an EDGAR error onto a Failure: 404 is not_found, the rest
// follow contracts.KindOf
func classifySEC(stage contracts.Stage, err error) error {
	if sec.IsNotFound(err) {
		return &contracts.Failure{Stage: stage, Kind: contracts.KindNotFound, Err: err}
	}
	return contracts.Classify(stage, err)
}
