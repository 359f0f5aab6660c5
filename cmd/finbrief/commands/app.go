package commands

import (
	"context"
	"fmt"

	"github.com/wonny/finbrief/internal/briefing"
	"github.com/wonny/finbrief/internal/external/llm"
	"github.com/wonny/finbrief/internal/external/sec"
	"github.com/wonny/finbrief/internal/history"
	"github.com/wonny/finbrief/pkg/config"
	"github.com/wonny/finbrief/pkg/database"
	"github.com/wonny/finbrief/pkg/httputil"
	"github.com/wonny/finbrief/pkg/logger"
	"github.com/wonny/finbrief/pkg/redis"
)

// memoryHistorySize is how many runs are kept when no database is configured
const memoryHistorySize = 200

// app holds the dependencies every command builds the same way
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	db       *database.DB // nil without DATABASE_URL
	redis    *redis.Client
	sec      *sec.Client
	lookup   *briefing.Lookup
	repo     *history.Repository // nil without DATABASE_URL
	store    history.Store
	pipeline *briefing.Pipeline
}

// loadConfig reads config and applies global flags
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// newApp wires config → logger → storage → EDGAR → LLM → pipeline
func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log}

	// 1. Redis (optional)
	redisClient, err := redis.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	a.redis = redisClient
	cache := redis.NewCache(redisClient)
	if redisClient.Enabled() {
		log.Info("Connected to Redis")
	}

	// 2. Database (optional)
	if cfg.Database.Enabled() {
		db, err := database.New(ctx, cfg)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.db = db
		a.repo = history.NewRepository(db.Pool)
		a.store = a.repo
		log.Info("Connected to database")
	} else {
		a.store = history.NewMemory(memoryHistorySize)
	}

	// 3. EDGAR client, rate limit shared through Redis when available
	httpClient := httputil.New(cfg, log)
	if redisClient.Enabled() {
		limiter := redis.NewRateLimiter(redisClient).Bind(redis.SECRateLimit(cfg.SEC.RateLimit))
		httpClient.WithLimiter(limiter)
	}
	a.sec = sec.NewClient(httpClient, cfg.SEC, log)

	// 4. LLM provider
	provider, err := llm.NewProvider(ctx, cfg.LLM, log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create LLM provider: %w", err)
	}

	// 5. Pipeline
	a.lookup = briefing.NewLookup(a.sec, cache, log)
	a.pipeline = briefing.NewPipeline(
		briefing.NewResolver(provider, log),
		a.lookup,
		briefing.NewLocator(a.sec, cfg.SEC.AnnualForms),
		briefing.NewSummarizer(a.sec, provider, cache, cfg, log),
		cfg.Pipeline.Timeout,
		log,
	).WithRecorder(a.store)

	return a, nil
}

// Close releases connections
func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.WithError(err).Warn("Failed to close Redis client")
		}
	}
}
