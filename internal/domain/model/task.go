package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// TaskState is the canonical state space shared by every remote async job.
// Each resource kind maps its own status vocabulary onto these three values.
type TaskState string

const (
	TaskPending   TaskState = "pending"
	TaskSucceeded TaskState = "succeeded"
	TaskFailed    TaskState = "failed"
)

// TaskKind identifies which remote resource a task belongs to.
type TaskKind string

const (
	TaskKindExport      TaskKind = "export"
	TaskKindHealthCheck TaskKind = "healthcheck"
)

// RemoteTaskError reports a task that reached a terminal failure state.
// Raw holds the last payload observed from the remote side.
type RemoteTaskError struct {
	Kind   TaskKind
	Handle string
	Raw    json.RawMessage
}

func (e *RemoteTaskError) Error() string {
	return fmt.Sprintf("%s task %s failed: %s", e.Kind, e.Handle, string(e.Raw))
}

// TimeoutError reports a task that did not reach a terminal state within
// the allowed polling window.
type TimeoutError struct {
	Kind    TaskKind
	Handle  string
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s task %s still pending after %s", e.Kind, e.Handle, e.Elapsed)
}

// ProtocolError reports a remote response whose shape violates the
// expected contract.
type ProtocolError struct {
	Endpoint string
	Detail   string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("unexpected response from %s: %s", e.Endpoint, e.Detail)
}
