package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/finbrief/internal/contracts"
)

// ErrNotFound is returned when no run has the requested ID
var ErrNotFound = errors.New("briefing run not found")

// Store lists finished runs
type Store interface {
	Record(ctx context.Context, b *contracts.Briefing) error
	Recent(ctx context.Context, limit int) ([]*contracts.Briefing, error)
	Get(ctx context.Context, id string) (*contracts.Briefing, error)
}

// Repository persists briefing runs in PostgreSQL
// ⭐ SSOT: 실행 이력 저장/조회는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new history repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const schemaSQL = `
	CREATE SCHEMA IF NOT EXISTS briefing;

	CREATE TABLE IF NOT EXISTS briefing.runs (
		id            UUID PRIMARY KEY,
		query         TEXT NOT NULL,
		resolved_name TEXT NOT NULL DEFAULT '',
		cik           VARCHAR(10),
		company       JSONB,
		filing        JSONB,
		summary       TEXT NOT NULL DEFAULT '',
		truncated     BOOLEAN NOT NULL DEFAULT FALSE,
		cached        BOOLEAN NOT NULL DEFAULT FALSE,
		model         TEXT NOT NULL DEFAULT '',
		status        VARCHAR(16) NOT NULL,
		failure_kind  VARCHAR(32) NOT NULL DEFAULT '',
		failure_stage VARCHAR(16) NOT NULL DEFAULT '',
		message       TEXT NOT NULL DEFAULT '',
		error         TEXT NOT NULL DEFAULT '',
		started_at    TIMESTAMPTZ NOT NULL,
		finished_at   TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON briefing.runs (started_at DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_cik ON briefing.runs (cik);
`

// EnsureSchema creates the briefing schema and tables if missing
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create briefing schema: %w", err)
	}
	return nil
}

// Record saves a finished run
func (r *Repository) Record(ctx context.Context, b *contracts.Briefing) error {
	companyJSON, err := marshalNullable(b.Company)
	if err != nil {
		return fmt.Errorf("failed to marshal company: %w", err)
	}
	filingJSON, err := marshalNullable(b.Filing)
	if err != nil {
		return fmt.Errorf("failed to marshal filing: %w", err)
	}

	var cik *string
	if b.Company != nil {
		cik = &b.Company.CIK
	}

	query := `
		INSERT INTO briefing.runs (
			id, query, resolved_name, cik, company, filing, summary,
			truncated, cached, model, status, failure_kind, failure_stage,
			message, error, started_at, finished_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (id) DO NOTHING
	`

	_, err = r.pool.Exec(ctx, query,
		b.ID, b.Query, b.ResolvedName, cik, companyJSON, filingJSON, b.Summary,
		b.Truncated, b.Cached, b.Model, string(b.Status), string(b.FailureKind), string(b.FailureStage),
		b.Message, b.Error, b.StartedAt, b.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save briefing run: %w", err)
	}

	return nil
}

const selectColumns = `
	id::text, query, resolved_name, company, filing, summary,
	truncated, cached, model, status, failure_kind, failure_stage,
	message, error, started_at, finished_at
`

// Recent returns the latest runs, newest first
func (r *Repository) Recent(ctx context.Context, limit int) ([]*contracts.Briefing, error) {
	query := `SELECT ` + selectColumns + ` FROM briefing.runs ORDER BY started_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query briefing runs: %w", err)
	}
	defer rows.Close()

	runs := make([]*contracts.Briefing, 0, limit)
	for rows.Next() {
		b, err := scanBriefing(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating briefing runs: %w", err)
	}

	return runs, nil
}

// Get returns one run by ID
func (r *Repository) Get(ctx context.Context, id string) (*contracts.Briefing, error) {
	query := `SELECT ` + selectColumns + ` FROM briefing.runs WHERE id::text = $1`

	b, err := scanBriefing(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return b, nil
}

// Prune deletes runs started before cutoff and returns how many were removed
func (r *Repository) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM briefing.runs WHERE started_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune briefing runs: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanBriefing(row pgx.Row) (*contracts.Briefing, error) {
	var (
		b                         contracts.Briefing
		companyJSON, filingJSON   []byte
		status, kind, failedStage string
	)

	err := row.Scan(
		&b.ID, &b.Query, &b.ResolvedName, &companyJSON, &filingJSON, &b.Summary,
		&b.Truncated, &b.Cached, &b.Model, &status, &kind, &failedStage,
		&b.Message, &b.Error, &b.StartedAt, &b.FinishedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan briefing run: %w", err)
	}

	b.Status = contracts.Status(status)
	b.FailureKind = contracts.FailureKind(kind)
	b.FailureStage = contracts.Stage(failedStage)

	if len(companyJSON) > 0 {
		b.Company = &contracts.Company{}
		if err := json.Unmarshal(companyJSON, b.Company); err != nil {
			return nil, fmt.Errorf("failed to unmarshal company: %w", err)
		}
	}
	if len(filingJSON) > 0 {
		b.Filing = &contracts.Filing{}
		if err := json.Unmarshal(filingJSON, b.Filing); err != nil {
			return nil, fmt.Errorf("failed to unmarshal filing: %w", err)
		}
	}

	return &b, nil
}

// marshalNullable encodes v as JSON, or nil for a nil pointer
func marshalNullable[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
