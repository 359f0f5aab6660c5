package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database (optional: run history)
	Database DatabaseConfig

	// Redis (optional: directory/summary cache, shared rate limit)
	Redis RedisConfig

	// External APIs
	SEC SECConfig
	LLM LLMConfig

	// Pipeline
	Summary  SummaryConfig
	Pipeline PipelineConfig

	// Scheduler
	Scheduler SchedulerConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
	Prefix   string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Enabled reports whether run history should be persisted
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// SECConfig holds SEC EDGAR configuration
type SECConfig struct {
	// UserAgent is sent on every EDGAR request. SEC requires a contact address.
	UserAgent      string
	DirectoryURL   string
	SubmissionsURL string // base, CIK##########.json is appended
	ArchivesURL    string // base, {cik}/{accession}/{doc} is appended
	RateLimit      int    // requests per second
	Timeout        time.Duration
	AnnualForms    []string
}

// LLMConfig holds text-generation provider configuration
type LLMConfig struct {
	Provider string // openai, claude, gemini
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration

	// SummaryMaxTokens bounds the summarization reply. 0 leaves it to the provider.
	SummaryMaxTokens int
}

// SummaryConfig controls how filing documents are fed to the summarizer
type SummaryConfig struct {
	MaxDocumentTokens int
	DocumentFormat    string // text, markdown
}

// PipelineConfig bounds a whole lookup run
type PipelineConfig struct {
	Timeout time.Duration
}

// SchedulerConfig holds cron schedules
type SchedulerConfig struct {
	DirectoryRefresh string
	HistoryCleanup   string
	HistoryRetention time.Duration
}

// Provider names
const (
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
	ProviderGemini = "gemini"
)

// Document formats
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit env file. An empty path searches the
// default .env locations. Variables already set in the environment win.
func LoadFile(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", path, err)
		}
	} else {
		// Try multiple paths for .env file
		loadEnvFile()
	}

	provider := strings.ToLower(getEnv("LLM_PROVIDER", ProviderOpenAI))

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Prefix:   getEnv("REDIS_PREFIX", "finbrief"),
		},

		// External APIs
		SEC: SECConfig{
			UserAgent:      getEnv("SEC_USER_AGENT", ""),
			DirectoryURL:   getEnv("SEC_DIRECTORY_URL", "https://www.sec.gov/files/company_tickers.json"),
			SubmissionsURL: getEnv("SEC_SUBMISSIONS_URL", "https://data.sec.gov/submissions"),
			ArchivesURL:    getEnv("SEC_ARCHIVES_URL", "https://www.sec.gov/Archives/edgar/data"),
			RateLimit:      getEnvAsInt("SEC_RATE_LIMIT", 10),
			Timeout:        getEnvAsDuration("SEC_TIMEOUT", "30s"),
			AnnualForms:    getEnvAsList("SEC_ANNUAL_FORMS", []string{"10-K"}),
		},

		LLM: LLMConfig{
			Provider:         provider,
			APIKey:           getEnv("LLM_API_KEY", getEnv(providerKeyEnv(provider), "")),
			Model:            getEnv("LLM_MODEL", defaultModel(provider)),
			BaseURL:          getEnv("LLM_BASE_URL", ""),
			Timeout:          getEnvAsDuration("LLM_TIMEOUT", "3m"),
			SummaryMaxTokens: getEnvAsInt("LLM_SUMMARY_MAX_TOKENS", 0),
		},

		Summary: SummaryConfig{
			MaxDocumentTokens: getEnvAsInt("SUMMARY_MAX_DOCUMENT_TOKENS", 100000),
			DocumentFormat:    strings.ToLower(getEnv("SUMMARY_DOCUMENT_FORMAT", FormatText)),
		},

		Pipeline: PipelineConfig{
			Timeout: getEnvAsDuration("PIPELINE_TIMEOUT", "5m"),
		},

		Scheduler: SchedulerConfig{
			DirectoryRefresh: getEnv("DIRECTORY_REFRESH_SCHEDULE", "0 0 6 * * *"),
			HistoryCleanup:   getEnv("HISTORY_CLEANUP_SCHEDULE", "0 30 3 * * 0"),
			HistoryRetention: getEnvAsDuration("HISTORY_RETENTION", "2160h"), // 90 days
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	// SEC fair access policy: declare who you are
	if c.SEC.UserAgent == "" {
		return fmt.Errorf("SEC_USER_AGENT is required (e.g. \"name contact@example.com\")")
	}
	if c.SEC.RateLimit <= 0 {
		return fmt.Errorf("SEC_RATE_LIMIT must be positive")
	}
	if len(c.SEC.AnnualForms) == 0 {
		return fmt.Errorf("SEC_ANNUAL_FORMS must name at least one form type")
	}

	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderClaude, ProviderGemini:
	default:
		return fmt.Errorf("LLM_PROVIDER must be one of: openai, claude, gemini")
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("LLM_API_KEY (or %s) is required", providerKeyEnv(c.LLM.Provider))
	}

	if c.Summary.MaxDocumentTokens <= 0 {
		return fmt.Errorf("SUMMARY_MAX_DOCUMENT_TOKENS must be positive")
	}
	if c.Summary.DocumentFormat != FormatText && c.Summary.DocumentFormat != FormatMarkdown {
		return fmt.Errorf("SUMMARY_DOCUMENT_FORMAT must be one of: text, markdown")
	}

	return nil
}

// providerKeyEnv returns the conventional API key variable of a provider
func providerKeyEnv(provider string) string {
	switch provider {
	case ProviderClaude:
		return "ANTHROPIC_API_KEY"
	case ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}

// defaultModel returns the model used when LLM_MODEL is unset
func defaultModel(provider string) string {
	switch provider {
	case ProviderClaude:
		return "claude-sonnet-4-20250514"
	case ProviderGemini:
		return "gemini-2.5-flash"
	default:
		return "gpt-4o-mini"
	}
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

// getEnvAsList splits a comma separated value, dropping empty items
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
