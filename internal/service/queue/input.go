package queue

import (
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/heartmarshall/storewatch/internal/domain"
)

// EnqueueInput holds the parameters for queueing one notification.
type EnqueueInput struct {
	Tenant         string
	Topic          string
	EntityID       string
	Payload        []byte
	IdempotencyKey string
	Delay          time.Duration
}

// Validate checks all fields and collects all errors.
func (i EnqueueInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Tenant) == "" {
		errs = append(errs, domain.FieldError{Field: "tenant", Message: "required"})
	}
	if strings.TrimSpace(i.Topic) == "" {
		errs = append(errs, domain.FieldError{Field: "topic", Message: "required"})
	}
	if len(i.Payload) == 0 {
		errs = append(errs, domain.FieldError{Field: "payload", Message: "required"})
	} else if !json.Valid(i.Payload) {
		errs = append(errs, domain.FieldError{Field: "payload", Message: "must be valid JSON"})
	}
	if len(i.IdempotencyKey) > 255 {
		errs = append(errs, domain.FieldError{Field: "idempotency_key", Message: "max 255 characters"})
	}
	if i.Delay < 0 {
		errs = append(errs, domain.FieldError{Field: "delay", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// EnqueueResult reports the outcome of Enqueue.
type EnqueueResult struct {
	JobID     uuid.UUID
	Duplicate bool
}
