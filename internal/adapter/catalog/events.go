package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"

	"github.com/heartmarshall/storewatch/internal/webhook"
)

type eventsResponse struct {
	Events []apiEvent `json:"events"`
}

type apiEvent struct {
	ID          webhook.ID `json:"id"`
	SubjectID   webhook.ID `json:"subject_id"`
	SubjectType string     `json:"subject_type"`
	Verb        string     `json:"verb"`
	Author      string     `json:"author"`
	CreatedAt   time.Time  `json:"created_at"`
}

// FetchEvents returns the author of the most recent audit event matching the
// resource and verb, or nil when the platform recorded none.
// resourceType is the platform subject type, e.g. "Product".
func (c *Client) FetchEvents(ctx context.Context, tenant, resourceType, resourceID, verb string) (*string, error) {
	q := url.Values{}
	q.Set("filter", resourceType)
	q.Set("verb", verb)
	q.Set("limit", "50")

	body, err := c.do(ctx, tenant, "events", http.MethodGet, "events.json", q, nil)
	if err != nil {
		return nil, err
	}

	var resp eventsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("catalog: decode events: %w", err)
	}

	var latest *apiEvent
	for i := range resp.Events {
		e := &resp.Events[i]
		if e.SubjectID.String() != resourceID || e.Author == "" {
			continue
		}
		if latest == nil || e.CreatedAt.After(latest.CreatedAt) {
			latest = e
		}
	}
	if latest == nil {
		return nil, nil
	}

	author := latest.Author
	return &author, nil
}
