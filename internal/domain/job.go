package domain

import (
	"time"

	"github.com/google/uuid"
)

// Job is a queued webhook notification awaiting processing.
type Job struct {
	ID             uuid.UUID
	Tenant         string
	Topic          string
	EntityID       string
	Payload        []byte
	IdempotencyKey *string
	Status         JobStatus
	Attempts       int
	ScheduledAt    time.Time
	ClaimedAt      *time.Time
	LastError      *string
	CompletedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Key returns the idempotency key or an empty string.
func (j Job) Key() string {
	if j.IdempotencyKey == nil {
		return ""
	}
	return *j.IdempotencyKey
}

// JobStats holds queue counts by status.
type JobStats struct {
	Pending    int
	Processing int
	Completed  int
	Failed     int
}

// Total returns the sum of all buckets.
func (s JobStats) Total() int {
	return s.Pending + s.Processing + s.Completed + s.Failed
}
