// File: internal/usecase/batch_uc.go
package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"telegram-dns-assistant/internal/domain/model"
	"telegram-dns-assistant/internal/infra/logging"
	"telegram-dns-assistant/internal/infra/metrics"
	"telegram-dns-assistant/internal/infra/worker"
)

// Compile-time check
var _ BatchUseCase = (*batchUC)(nil)

// PipelineFunc processes one zone end to end (fetch + inference) and
// returns the produced summary text.
type PipelineFunc func(ctx context.Context, zone string) (string, error)

// BatchUseCase fans a list of zone names through a pipeline. Zones are
// fully independent: one zone's failure never aborts or reorders the
// others, and the returned outcomes match the input order exactly.
type BatchUseCase interface {
	Process(ctx context.Context, zones []string, pipeline string, fn PipelineFunc) []model.ZoneOutcome
}

type batchUC struct {
	pool *worker.Pool
	log  *zerolog.Logger
}

// NewBatchUseCase builds the orchestrator on a shared worker pool; pool
// size bounds concurrent pipelines across all in-flight batches. A
// single-worker pool degenerates to sequential processing.
func NewBatchUseCase(pool *worker.Pool, logger *zerolog.Logger) *batchUC {
	return &batchUC{pool: pool, log: logger}
}

func (b *batchUC) Process(ctx context.Context, zones []string, pipeline string, fn PipelineFunc) []model.ZoneOutcome {
	defer logging.TraceDuration(b.log, "BatchUC.Process")()

	outcomes := make([]model.ZoneOutcome, len(zones))
	var wg sync.WaitGroup
	for i, zone := range zones {
		i, zone := i, zone
		wg.Add(1)
		task := func(_ context.Context) error {
			defer wg.Done()
			outcome := b.runOne(ctx, zone, fn)
			metrics.IncBatchOutcome(pipeline, outcome.OK)
			outcomes[i] = outcome
			return nil
		}
		if err := b.pool.Submit(ctx, task); err != nil {
			wg.Done()
			outcomes[i] = model.ZoneOutcome{
				Zone:    zone,
				OK:      false,
				Message: fmt.Sprintf("Error processing zone %s: %v", zone, err),
			}
		}
	}
	wg.Wait()
	return outcomes
}

func (b *batchUC) runOne(ctx context.Context, zone string, fn PipelineFunc) model.ZoneOutcome {
	zctx := logging.WithZone(ctx, zone)
	if _, err := fn(zctx, zone); err != nil {
		logging.With(zctx, b.log).Warn().Err(err).Msg("pipeline failed")
		return model.ZoneOutcome{
			Zone:    zone,
			OK:      false,
			Message: fmt.Sprintf("Error processing zone %s: %v", zone, err),
		}
	}
	return model.ZoneOutcome{
		Zone:    zone,
		OK:      true,
		Message: fmt.Sprintf("Zone %s processed successfully.", zone),
	}
}
