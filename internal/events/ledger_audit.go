package events

import "time"

const LedgerAuditTopic = "finance.ledger.audit.v1"

const (
	RateConfigUpdatedType = "rate_config.updated"
	CostEntryCreatedType  = "cost_entry.created"
)

// LedgerAuditEvent records a financial configuration or ledger write for
// downstream audit consumers.
type LedgerAuditEvent struct {
	EventType     string    `json:"event_type"`
	OrgID         string    `json:"org_id"`
	ActorID       string    `json:"actor_id"`
	AggregateType string    `json:"aggregate_type"`
	AggregateID   string    `json:"aggregate_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}
