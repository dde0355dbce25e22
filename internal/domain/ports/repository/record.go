package repository

import (
	"context"

	"telegram-dns-assistant/internal/domain/model"
)

// AnalysisRecordRepository persists per-zone analysis outcomes. History
// is best-effort: a repository failure degrades /history, never a batch.
type AnalysisRecordRepository interface {
	Save(ctx context.Context, rec *model.AnalysisRecord) error
	ListRecent(ctx context.Context, limit int) ([]*model.AnalysisRecord, error)
	ListByZone(ctx context.Context, zone string, limit int) ([]*model.AnalysisRecord, error)
}
