package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/heartmarshall/storewatch/internal/domain"
)

type eventLister interface {
	List(ctx context.Context, f domain.EventFilter) ([]domain.ChangeEvent, error)
}

// AdminHandler serves operator REST endpoints.
type AdminHandler struct {
	queue  queueStats
	events eventLister
	log    *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(queue queueStats, events eventLister, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		queue:  queue,
		events: events,
		log:    logger.With("handler", "admin"),
	}
}

// QueueStats returns job counts by status.
// GET /admin/queue/stats
func (h *AdminHandler) QueueStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.queue.Stats(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "get queue stats", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, QueueStatus{
		Pending:    stats.Pending,
		Processing: stats.Processing,
		Completed:  stats.Completed,
		Failed:     stats.Failed,
	})
}

type eventResponse struct {
	ID           string     `json:"id"`
	EntityType   string     `json:"entity_type"`
	EntityID     string     `json:"entity_id"`
	EventType    string     `json:"event_type"`
	ResourceName string     `json:"resource_name"`
	Before       *string    `json:"before,omitempty"`
	After        *string    `json:"after,omitempty"`
	Importance   string     `json:"importance"`
	DetectedAt   time.Time  `json:"detected_at"`
	DigestedAt   *time.Time `json:"digested_at,omitempty"`
	Context      rawJSON    `json:"context,omitempty"`
}

// Events lists a tenant's change events, newest first.
// GET /admin/events?tenant=shop&from=RFC3339&to=RFC3339&min_importance=medium&type=price_change&undigested=true&limit=100
func (h *AdminHandler) Events(w http.ResponseWriter, r *http.Request) {
	f, err := parseEventFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	events, err := h.events.List(r.Context(), f)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.ErrorContext(r.Context(), "list events", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	out := make([]eventResponse, len(events))
	for i, e := range events {
		out[i] = eventResponse{
			ID:           e.ID.String(),
			EntityType:   string(e.EntityType),
			EntityID:     e.EntityID,
			EventType:    e.EventType.String(),
			ResourceName: e.ResourceName,
			Before:       e.Before,
			After:        e.After,
			Importance:   e.Importance.String(),
			DetectedAt:   e.DetectedAt,
			DigestedAt:   e.DigestedAt,
			Context:      rawJSON(e.Context),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func parseEventFilter(r *http.Request) (domain.EventFilter, error) {
	q := r.URL.Query()
	f := domain.EventFilter{Tenant: strings.ToLower(strings.TrimSpace(q.Get("tenant")))}

	var errs []domain.FieldError
	for _, bound := range []struct {
		name string
		dst  **time.Time
	}{{"from", &f.From}, {"to", &f.To}} {
		v := q.Get(bound.name)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			errs = append(errs, domain.FieldError{Field: bound.name, Message: "must be RFC3339"})
			continue
		}
		*bound.dst = &t
	}

	if v := q.Get("min_importance"); v != "" {
		f.MinImportance = domain.Importance(v)
		if !f.MinImportance.IsValid() {
			errs = append(errs, domain.FieldError{Field: "min_importance", Message: "must be low, medium or high"})
		}
	}
	for _, v := range q["type"] {
		t := domain.EventType(v)
		if !t.IsValid() {
			errs = append(errs, domain.FieldError{Field: "type", Message: "unknown event type " + strconv.Quote(v)})
			continue
		}
		f.EventTypes = append(f.EventTypes, t)
	}
	if v := q.Get("undigested"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, domain.FieldError{Field: "undigested", Message: "must be a boolean"})
		}
		f.UndigestedOnly = b
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 1000 {
			errs = append(errs, domain.FieldError{Field: "limit", Message: "must be between 1 and 1000"})
		}
		f.Limit = n
	}

	if len(errs) > 0 {
		return f, domain.NewValidationErrors(errs)
	}
	return f, nil
}

// rawJSON embeds stored JSON as-is; empty becomes null.
type rawJSON []byte

func (j rawJSON) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}
