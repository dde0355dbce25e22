// File: internal/usecase/analysis_uc.go
package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"telegram-dns-assistant/internal/domain/ports/adapter"
	"telegram-dns-assistant/internal/infra/metrics"
)

// Compile-time check
var _ AnalysisUseCase = (*analysisUC)(nil)

// AnalysisUseCase wraps fetched payloads into role-specific prompts and
// runs them through the configured assistants.
type AnalysisUseCase interface {
	// AnalyzeZone exports the zone through the provider and has the
	// zone_analyzer assistant review it.
	AnalyzeZone(ctx context.Context, provider adapter.ZoneDataProvider, zone string) (string, error)

	// CheckZoneHealth runs a health check and has the zone_healthcheck
	// assistant summarize it.
	CheckZoneHealth(ctx context.Context, provider adapter.ZoneDataProvider, zone string) (string, error)

	// ExplainSystemStatus summarizes the provider's status page.
	ExplainSystemStatus(ctx context.Context, provider adapter.ZoneDataProvider) (string, error)

	// AnswerQuestion answers a free-form DNS question.
	AnswerQuestion(ctx context.Context, question string) (string, error)
}

// PayloadCache caches fetched zone exports between analyses. A nil
// cache disables caching; cache errors never fail an analysis. Health
// checks are never cached: a stale check defeats their purpose.
type PayloadCache interface {
	Get(ctx context.Context, kind, zone string) (string, bool)
	Store(ctx context.Context, kind, zone, payload string) error
}

type analysisUC struct {
	assistant adapter.AssistantAdapter
	registry  *AssistantRegistry
	cache     PayloadCache
	log       *zerolog.Logger
}

func NewAnalysisUseCase(assistant adapter.AssistantAdapter, registry *AssistantRegistry, cache PayloadCache, logger *zerolog.Logger) *analysisUC {
	return &analysisUC{assistant: assistant, registry: registry, cache: cache, log: logger}
}

// runAs resolves the role and executes one assistant exchange, keeping
// token and latency accounting in one place.
func (a *analysisUC) runAs(ctx context.Context, role, prompt string) (string, error) {
	id, err := a.registry.Resolve(role)
	if err != nil {
		return "", err
	}
	tokens := a.assistant.CountTokens(prompt)
	start := time.Now()
	text, err := a.assistant.Run(ctx, id, prompt)
	metrics.ObserveAssistantRun(role, tokens, int(time.Since(start).Milliseconds()), err == nil)
	if err != nil {
		return "", err
	}
	return text, nil
}

// fetchCached consults the payload cache before hitting the provider.
func (a *analysisUC) fetchCached(ctx context.Context, kind, zone string, fetch func() (string, error)) (string, error) {
	if a.cache != nil {
		if payload, ok := a.cache.Get(ctx, kind, zone); ok {
			a.log.Debug().Str("zone", zone).Str("kind", kind).Msg("payload cache hit")
			return payload, nil
		}
	}
	payload, err := fetch()
	if err != nil {
		return "", err
	}
	if a.cache != nil {
		if err := a.cache.Store(ctx, kind, zone, payload); err != nil {
			a.log.Warn().Err(err).Str("zone", zone).Msg("payload cache store failed")
		}
	}
	return payload, nil
}

func (a *analysisUC) AnalyzeZone(ctx context.Context, provider adapter.ZoneDataProvider, zone string) (string, error) {
	zoneData, err := a.fetchCached(ctx, "export", zone, func() (string, error) {
		return provider.FetchZoneData(ctx, zone)
	})
	if err != nil {
		return "", err
	}
	return a.runAs(ctx, AssistantZoneAnalyzer, buildZoneAnalysisPrompt(zoneData))
}

func (a *analysisUC) CheckZoneHealth(ctx context.Context, provider adapter.ZoneDataProvider, zone string) (string, error) {
	// always a fresh check; only exports go through the cache
	health, err := provider.FetchHealthCheck(ctx, zone)
	if err != nil {
		return "", err
	}
	return a.runAs(ctx, AssistantZoneHealthCheck, buildHealthCheckPrompt(health))
}

func (a *analysisUC) ExplainSystemStatus(ctx context.Context, provider adapter.ZoneDataProvider) (string, error) {
	status, err := provider.FetchSystemStatus(ctx)
	if err != nil {
		return "", err
	}
	return a.runAs(ctx, AssistantSystemStatus, buildSystemStatusPrompt(status))
}

func (a *analysisUC) AnswerQuestion(ctx context.Context, question string) (string, error) {
	return a.runAs(ctx, AssistantDNSHelper, buildDNSQuestionPrompt(question))
}
