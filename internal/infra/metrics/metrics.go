// File: internal/infra/metrics/metrics.go
package metrics

import (
	"strconv"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	taskPolls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "udns_task_polls_total",
			Help: "Poll observations per task kind and observed state.",
		},
		[]string{"kind", "state"},
	)

	taskWaitSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "udns_task_wait_seconds",
			Help:    "Total wait until a task reached a terminal state.",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"kind", "state"},
	)

	assistantRunsLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assistant_run_latency_ms",
			Help:    "Assistant run latency distribution in milliseconds.",
			Buckets: []float64{250, 500, 1000, 2000, 4000, 8000, 16000, 30000, 60000},
		},
		[]string{"assistant", "success"},
	)

	assistantTokensIn = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_tokens_in",
			Help: "Sum of prompt (input) tokens per assistant.",
		},
		[]string{"assistant"},
	)

	batchOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "batch_outcomes_total",
			Help: "Per-zone batch outcomes by pipeline and result.",
		},
		[]string{"pipeline", "result"},
	)

	botCommands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Bot commands received, by command and disposition.",
		},
		[]string{"command", "disposition"},
	)
)

// MustRegister registers collectors with the default registry (idempotent).
func MustRegister() {
	once.Do(func() {
		prometheus.MustRegister(
			taskPolls, taskWaitSeconds,
			assistantRunsLatencyMs, assistantTokensIn,
			batchOutcomes, botCommands,
		)
	})
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// -------- Task helpers --------

func IncTaskPoll(kind, state string) {
	taskPolls.WithLabelValues(norm(kind), norm(state)).Inc()
}

func ObserveTaskWait(kind, state string, seconds float64) {
	taskWaitSeconds.WithLabelValues(norm(kind), norm(state)).Observe(seconds)
}

// -------- Assistant helpers --------

func ObserveAssistantRun(assistant string, tokensIn, latencyMs int, success bool) {
	assistantTokensIn.WithLabelValues(norm(assistant)).Add(float64(tokensIn))
	assistantRunsLatencyMs.WithLabelValues(norm(assistant), strconv.FormatBool(success)).
		Observe(float64(latencyMs))
}

// -------- Batch / bot helpers --------

func IncBatchOutcome(pipeline string, ok bool) {
	result := "error"
	if ok {
		result = "success"
	}
	batchOutcomes.WithLabelValues(norm(pipeline), result).Inc()
}

func IncBotCommand(command, disposition string) {
	botCommands.WithLabelValues(norm(command), norm(disposition)).Inc()
}
