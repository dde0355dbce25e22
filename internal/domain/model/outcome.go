package model

import "time"

// ZoneOutcome is the per-zone result of one batch pipeline invocation.
// The orchestrator emits one outcome per input zone, in input order.
type ZoneOutcome struct {
	Zone    string
	OK      bool
	Message string
}

// AnalysisRecord is one persisted zone analysis outcome (history).
type AnalysisRecord struct {
	ID        string
	Zone      string
	Kind      TaskKind
	OK        bool
	Message   string
	CreatedAt time.Time
}
