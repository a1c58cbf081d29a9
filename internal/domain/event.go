package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventSourceWebhook marks events derived from platform notifications.
const EventSourceWebhook = "webhook"

// ChangeEvent is an immutable record of a detected, classified change.
// Only DigestedAt is ever set after creation.
type ChangeEvent struct {
	ID             uuid.UUID
	Tenant         string
	EntityType     EntityType
	EntityID       string
	EventType      EventType
	ResourceName   string
	Before         *string
	After          *string
	Importance     Importance
	DetectedAt     time.Time
	Context        json.RawMessage
	Source         string
	IdempotencyKey *string
	DigestedAt     *time.Time
}

// EventFilter selects change events from the published stream.
type EventFilter struct {
	Tenant         string
	From           *time.Time
	To             *time.Time
	MinImportance  Importance
	EventTypes     []EventType
	UndigestedOnly bool
	Limit          int
}
