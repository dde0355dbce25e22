package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/oklog/ulid/v2"

	"telegram-dns-assistant/internal/domain"
	"telegram-dns-assistant/internal/domain/model"
	"telegram-dns-assistant/internal/domain/ports/repository"
)

var _ repository.AnalysisRecordRepository = (*analysisRecordRepo)(nil)

// analysisRecordRepo persists zone analysis outcomes.
// DB columns: id TEXT PRIMARY KEY, zone TEXT, kind TEXT, ok BOOLEAN, message TEXT, created_at TIMESTAMPTZ
type analysisRecordRepo struct {
	pool *pgxpool.Pool
}

func NewAnalysisRecordRepo(pool *pgxpool.Pool) *analysisRecordRepo {
	return &analysisRecordRepo{pool: pool}
}

func (r *analysisRecordRepo) Save(ctx context.Context, rec *model.AnalysisRecord) error {
	if rec.ID == "" {
		rec.ID = ulid.Make().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	const q = `
INSERT INTO analysis_records (id, zone, kind, ok, message, created_at)
VALUES ($1, $2, $3, $4, $5, $6);`

	_, err := r.pool.Exec(ctx, q, rec.ID, rec.Zone, string(rec.Kind), rec.OK, rec.Message, rec.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return fmt.Errorf("postgres Save analysis record (%s): %w", pgErr.Code, err)
		}
		return fmt.Errorf("postgres Save analysis record: %w", err)
	}
	return nil
}

func (r *analysisRecordRepo) ListRecent(ctx context.Context, limit int) ([]*model.AnalysisRecord, error) {
	const q = `
SELECT id, zone, kind, ok, message, created_at
FROM analysis_records
ORDER BY created_at DESC
LIMIT $1;`
	return r.list(ctx, q, limit)
}

func (r *analysisRecordRepo) ListByZone(ctx context.Context, zone string, limit int) ([]*model.AnalysisRecord, error) {
	const q = `
SELECT id, zone, kind, ok, message, created_at
FROM analysis_records
WHERE zone = $2
ORDER BY created_at DESC
LIMIT $1;`
	return r.list(ctx, q, limit, zone)
}

func (r *analysisRecordRepo) list(ctx context.Context, q string, args ...any) ([]*model.AnalysisRecord, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("postgres list analysis records: %w", err)
	}
	defer rows.Close()

	var out []*model.AnalysisRecord
	for rows.Next() {
		var (
			rec  model.AnalysisRecord
			kind string
		)
		if err := rows.Scan(&rec.ID, &rec.Zone, &kind, &rec.OK, &rec.Message, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres scan analysis record: %w", err)
		}
		rec.Kind = model.TaskKind(kind)
		out = append(out, &rec)
	}
	return out, rows.Err()
}
