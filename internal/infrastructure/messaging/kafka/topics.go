package kafka

import "time"

// DefaultAuditTopic receives one event per completed lookup.
const DefaultAuditTopic = "rights.lookup.audit"

// LookupCompletedEvent is the audit record emitted after a lookup finishes,
// successfully or not.  Track identifiers are deliberately excluded: counts
// are enough for audit, and keeping catalog content off the bus keeps the
// topic retention policy simple.
type LookupCompletedEvent struct {
	EventID          string    `json:"event_id"`
	OccurredAt       time.Time `json:"occurred_at"`
	Territory        string    `json:"territory"`
	AsOf             time.Time `json:"as_of"`
	TracksQueried    int       `json:"tracks_queried"`
	TracksResolved   int       `json:"tracks_resolved"`
	TracksUnresolved int       `json:"tracks_unresolved"`
	MalformedSkipped int       `json:"malformed_skipped"`
	DurationMs       int64     `json:"duration_ms"`
	Outcome          string    `json:"outcome"`
	ErrorCode        string    `json:"error_code,omitempty"`
}

// Outcome values for LookupCompletedEvent.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)
