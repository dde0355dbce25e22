package ultradns

import (
	"context"
	"encoding/json"
	"time"

	"telegram-dns-assistant/internal/domain/model"
	"telegram-dns-assistant/internal/infra/metrics"
)

// StateFunc translates a raw task response into the canonical task
// state space. It must be pure: the poller itself never inspects the
// payload.
type StateFunc func(raw json.RawMessage) (model.TaskState, error)

// ObserveFunc re-fetches the current task representation.
type ObserveFunc func(ctx context.Context) (json.RawMessage, error)

// Poller drives a remote async task to a terminal state. Each poll
// cycle re-observes the task, classifies the response and either
// returns, fails, or sleeps for Interval. Waiting is bounded by
// MaxWait; exceeding it yields *model.TimeoutError.
type Poller struct {
	Interval time.Duration
	MaxWait  time.Duration
}

// Await blocks until the task identified by handle reaches a terminal
// state. On success it returns the last observed raw payload; on a
// terminal failure it returns *model.RemoteTaskError carrying that
// payload. Context cancellation is honored between observations.
func (p *Poller) Await(ctx context.Context, kind model.TaskKind, handle string, observe ObserveFunc, classify StateFunc) (json.RawMessage, error) {
	start := time.Now()
	deadline := start.Add(p.MaxWait)

	for {
		raw, err := observe(ctx)
		if err != nil {
			return nil, err
		}
		state, err := classify(raw)
		if err != nil {
			return nil, err
		}
		metrics.IncTaskPoll(string(kind), string(state))

		switch state {
		case model.TaskSucceeded:
			metrics.ObserveTaskWait(string(kind), string(state), time.Since(start).Seconds())
			return raw, nil
		case model.TaskFailed:
			metrics.ObserveTaskWait(string(kind), string(state), time.Since(start).Seconds())
			return nil, &model.RemoteTaskError{Kind: kind, Handle: handle, Raw: raw}
		}

		if !time.Now().Add(p.Interval).Before(deadline) {
			return nil, &model.TimeoutError{Kind: kind, Handle: handle, Elapsed: time.Since(start)}
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.Interval):
		}
	}
}
