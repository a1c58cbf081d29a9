package rest

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/heartmarshall/storewatch/internal/config"
	"github.com/heartmarshall/storewatch/internal/domain"
	"github.com/heartmarshall/storewatch/internal/metrics"
	"github.com/heartmarshall/storewatch/internal/service/queue"
	"github.com/heartmarshall/storewatch/internal/webhook"
)

// Webhook delivery headers.
const (
	HeaderHmac      = "X-Shopify-Hmac-Sha256"
	HeaderTopic     = "X-Shopify-Topic"
	HeaderShop      = "X-Shopify-Shop-Domain"
	HeaderWebhookID = "X-Shopify-Webhook-Id"
)

type enqueuer interface {
	Enqueue(ctx context.Context, input queue.EnqueueInput) (queue.EnqueueResult, error)
}

// WebhookHandler accepts catalog notifications and queues them. It answers
// 200 for anything it will never need to see again, so the platform stops
// redelivering, and 5xx only when storing failed.
type WebhookHandler struct {
	queue   enqueuer
	secret  []byte
	maxBody int64
	log     *slog.Logger
}

// NewWebhookHandler creates a WebhookHandler.
func NewWebhookHandler(q enqueuer, cfg config.WebhookConfig, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		queue:   q,
		secret:  []byte(cfg.Secret),
		maxBody: cfg.MaxBodyBytes,
		log:     logger.With("handler", "webhook"),
	}
}

type webhookResponse struct {
	Status string `json:"status"`
	JobID  string `json:"job_id,omitempty"`
}

// ServeHTTP handles POST /webhooks.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.reject(w, r, http.StatusRequestEntityTooLarge, "payload too large")
			return
		}
		h.reject(w, r, http.StatusBadRequest, "unreadable body")
		return
	}

	if !VerifySignature(h.secret, body, r.Header.Get(HeaderHmac)) {
		h.reject(w, r, http.StatusUnauthorized, "invalid signature")
		return
	}

	topic := webhook.Normalize(r.Header.Get(HeaderTopic))
	shop := strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderShop)))
	if topic == "" || shop == "" {
		h.reject(w, r, http.StatusBadRequest, "missing topic or shop header")
		return
	}

	if !webhook.IsHandled(topic) {
		metrics.WebhooksReceived.WithLabelValues("ignored").Inc()
		h.log.DebugContext(ctx, "topic not handled", slog.String("topic", topic), slog.String("tenant", shop))
		writeJSON(w, http.StatusOK, webhookResponse{Status: "ignored"})
		return
	}

	// A body that does not decode is still queued; the worker owns the
	// malformed-payload failure path.
	var entityID string
	if p, err := webhook.Decode(topic, body); err == nil {
		entityID = p.Entity()
	} else {
		h.log.WarnContext(ctx, "payload does not decode",
			slog.String("topic", topic),
			slog.String("tenant", shop),
			slog.String("error", err.Error()),
		)
	}

	res, err := h.queue.Enqueue(ctx, queue.EnqueueInput{
		Tenant:         shop,
		Topic:          topic,
		EntityID:       entityID,
		Payload:        body,
		IdempotencyKey: r.Header.Get(HeaderWebhookID),
	})
	switch {
	case errors.Is(err, domain.ErrValidation):
		h.reject(w, r, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		metrics.WebhooksReceived.WithLabelValues("error").Inc()
		h.log.ErrorContext(ctx, "enqueue webhook", slog.String("topic", topic), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if res.Duplicate {
		metrics.WebhooksReceived.WithLabelValues("duplicate").Inc()
		writeJSON(w, http.StatusOK, webhookResponse{Status: "duplicate"})
		return
	}

	metrics.WebhooksReceived.WithLabelValues("queued").Inc()
	writeJSON(w, http.StatusOK, webhookResponse{Status: "queued", JobID: res.JobID.String()})
}

func (h *WebhookHandler) reject(w http.ResponseWriter, r *http.Request, status int, msg string) {
	metrics.WebhooksReceived.WithLabelValues("rejected").Inc()
	h.log.WarnContext(r.Context(), "webhook rejected", slog.Int("status", status), slog.String("reason", msg))
	writeError(w, status, msg)
}

// Sign returns the base64 HMAC-SHA256 of body under secret.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body) //nolint:errcheck
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether header is the signature of body.
func VerifySignature(secret, body []byte, header string) bool {
	if len(secret) == 0 || header == "" {
		return false
	}
	got, err := base64.StdEncoding.DecodeString(header)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write(body) //nolint:errcheck
	return hmac.Equal(got, mac.Sum(nil))
}
