package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-dns-assistant/internal/domain/model"
	"telegram-dns-assistant/internal/domain/ports/adapter"
	"telegram-dns-assistant/internal/domain/ports/repository"
	"telegram-dns-assistant/internal/infra/logging"
	"telegram-dns-assistant/internal/usecase"
)

// ProviderFactory builds a fresh authenticated DNS client. Each command
// invocation gets its own session; clients are never shared.
type ProviderFactory func(ctx context.Context) (adapter.ZoneDataProvider, error)

// SendFunc delivers one message to the chat that issued the command.
type SendFunc func(text string)

// BotFacade composes usecases into high-level bot commands.
// Methods return plain strings so the Telegram adapter just forwards
// them to the chat; per-zone analysis text is streamed through SendFunc
// as it becomes available.
type BotFacade struct {
	Analysis    usecase.AnalysisUseCase
	Batch       usecase.BatchUseCase
	Records     repository.AnalysisRecordRepository
	NewProvider ProviderFactory

	log *zerolog.Logger
}

func NewBotFacade(
	analysis usecase.AnalysisUseCase,
	batch usecase.BatchUseCase,
	records repository.AnalysisRecordRepository,
	newProvider ProviderFactory,
	logger *zerolog.Logger,
) *BotFacade {
	return &BotFacade{
		Analysis:    analysis,
		Batch:       batch,
		Records:     records,
		NewProvider: newProvider,
		log:         logger,
	}
}

// SplitZoneArgs normalizes free-text command arguments into zone names:
// whitespace-separated, trailing commas and dots trimmed. Anything past
// this point treats zone names as opaque strings.
func SplitZoneArgs(text string) []string {
	var zones []string
	for _, f := range strings.Fields(text) {
		z := strings.TrimRight(f, ",.")
		if z != "" {
			zones = append(zones, z)
		}
	}
	return zones
}

// HandleAnalyzeZones runs the export+analysis pipeline over the zones
// and returns the ordered per-zone report.
func (b *BotFacade) HandleAnalyzeZones(ctx context.Context, zones []string, send SendFunc) (string, error) {
	return b.handleBatch(ctx, zones, "analyze", model.TaskKindExport, send, b.Analysis.AnalyzeZone)
}

// HandleHealthCheck runs the health-check pipeline over the zones.
func (b *BotFacade) HandleHealthCheck(ctx context.Context, zones []string, send SendFunc) (string, error) {
	return b.handleBatch(ctx, zones, "healthcheck", model.TaskKindHealthCheck, send, b.Analysis.CheckZoneHealth)
}

func (b *BotFacade) handleBatch(
	ctx context.Context,
	zones []string,
	pipeline string,
	kind model.TaskKind,
	send SendFunc,
	analyze func(ctx context.Context, provider adapter.ZoneDataProvider, zone string) (string, error),
) (string, error) {
	if len(zones) == 0 {
		return "Please provide at least one zone name.", nil
	}
	ctx = logging.WithTraceID(ctx, uuid.NewString())

	provider, err := b.NewProvider(ctx)
	if err != nil {
		return "", fmt.Errorf("authentication failed: %w", err)
	}

	outcomes := b.Batch.Process(ctx, zones, pipeline, func(ctx context.Context, zone string) (string, error) {
		text, err := analyze(ctx, provider, zone)
		if err != nil {
			return "", err
		}
		send(text)
		return text, nil
	})

	b.recordOutcomes(ctx, kind, outcomes)
	return RenderReport(outcomes), nil
}

// recordOutcomes persists history best-effort; a repo failure only
// degrades /history.
func (b *BotFacade) recordOutcomes(ctx context.Context, kind model.TaskKind, outcomes []model.ZoneOutcome) {
	if b.Records == nil {
		return
	}
	for _, o := range outcomes {
		rec := &model.AnalysisRecord{Zone: o.Zone, Kind: kind, OK: o.OK, Message: o.Message}
		if err := b.Records.Save(ctx, rec); err != nil {
			logging.With(ctx, b.log).Warn().Err(err).Str("zone", o.Zone).Msg("save analysis record failed")
		}
	}
}

// RenderReport joins structured outcomes into the chat report, one line
// per input zone, preserving input order.
func RenderReport(outcomes []model.ZoneOutcome) string {
	lines := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		lines = append(lines, o.Message)
	}
	return strings.Join(lines, "\n")
}

// HandleSystemStatus fetches and explains the provider status page.
func (b *BotFacade) HandleSystemStatus(ctx context.Context) (string, error) {
	ctx = logging.WithTraceID(ctx, uuid.NewString())
	provider, err := b.NewProvider(ctx)
	if err != nil {
		return "", fmt.Errorf("authentication failed: %w", err)
	}
	text, err := b.Analysis.ExplainSystemStatus(ctx, provider)
	if err != nil {
		return "", fmt.Errorf("error fetching or analyzing system status: %w", err)
	}
	return text, nil
}

// HandleQuestion answers a free-form DNS question.
func (b *BotFacade) HandleQuestion(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "Please provide a question related to DNS.", nil
	}
	ctx = logging.WithTraceID(ctx, uuid.NewString())
	return b.Analysis.AnswerQuestion(ctx, question)
}

// HandleHistory formats recent analysis history, optionally filtered by
// zone.
func (b *BotFacade) HandleHistory(ctx context.Context, zone string, limit int) (string, error) {
	if b.Records == nil {
		return "History is not available.", nil
	}
	if limit <= 0 {
		limit = 10
	}
	var (
		recs []*model.AnalysisRecord
		err  error
	)
	if zone != "" {
		recs, err = b.Records.ListByZone(ctx, zone, limit)
	} else {
		recs, err = b.Records.ListRecent(ctx, limit)
	}
	if err != nil {
		return "", fmt.Errorf("list history: %w", err)
	}
	if len(recs) == 0 {
		return "No analysis history yet.", nil
	}

	sb := strings.Builder{}
	sb.WriteString("Recent analyses:\n")
	for _, r := range recs {
		status := "ok"
		if !r.OK {
			status = "error"
		}
		sb.WriteString(fmt.Sprintf("- %s %s (%s, %s): %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Zone, r.Kind, status, r.Message))
	}
	return sb.String(), nil
}
