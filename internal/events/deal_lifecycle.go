package events

import "time"

// DealLifecycleTopic is produced by the deals service; this engine only
// consumes it to invalidate cached reports.
const DealLifecycleTopic = "sales.deal.lifecycle.v1"

const DealWonType = "deal.won"

type DealLifecycleEvent struct {
	EventType  string    `json:"event_type"`
	DealID     string    `json:"deal_id"`
	OrgID      string    `json:"org_id"`
	ClosedDate time.Time `json:"closed_date"`
	OccurredAt time.Time `json:"occurred_at"`
}
