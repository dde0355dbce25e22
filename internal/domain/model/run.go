package model

import "fmt"

// RunStatus mirrors the assistant run lifecycle. Terminal statuses are
// completed, failed, cancelled and expired.
type RunStatus string

const (
	RunQueued     RunStatus = "queued"
	RunInProgress RunStatus = "in_progress"
	RunCompleted  RunStatus = "completed"
	RunFailed     RunStatus = "failed"
	RunCancelled  RunStatus = "cancelled"
	RunExpired    RunStatus = "expired"
)

// SessionError reports a failure to create a conversation thread or to
// post a message into it.
type SessionError struct {
	Op  string // "create thread" | "post message"
	Err error
}

func (e *SessionError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *SessionError) Unwrap() error { return e.Err }

// RunError reports a run that reached a terminal status other than
// completed.
type RunError struct {
	Status RunStatus
}

func (e *RunError) Error() string { return fmt.Sprintf("run not completed, status: %s", e.Status) }

// ConfigError reports an assistant identity that could not be resolved
// or does not match the expected id format.
type ConfigError struct {
	Assistant string
	Detail    string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("assistant %q: %s", e.Assistant, e.Detail)
}
