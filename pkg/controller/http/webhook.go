package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/herald/pkg/domain/interfaces"
	"github.com/m-mizutani/herald/pkg/domain/model"
	"github.com/m-mizutani/herald/pkg/domain/types"
	"github.com/tidwall/gjson"
)

// Webhook headers sent by Gitea/Gogs. The fine-grained event type header
// distinguishes comments on pull requests from comments on issues; it is
// absent in replayed and fixture deliveries, so its absence is recovered
// with a sentinel default instead of failing the request.
const (
	headerEvent     = "X-Gogs-Event"
	headerEventType = "X-Gitea-Event-Type"
	headerDelivery  = "X-Gogs-Delivery"
	headerSignature = "X-Gogs-Signature"
)

// WebhookHandler handles Gitea/Gogs webhook deliveries
type WebhookHandler struct {
	secret    string
	webhookUC interfaces.WebhookUseCase
}

// NewWebhookHandler creates a new WebhookHandler. An empty secret disables
// signature verification.
func NewWebhookHandler(secret string, webhookUC interfaces.WebhookUseCase) *WebhookHandler {
	return &WebhookHandler{
		secret:    secret,
		webhookUC: webhookUC,
	}
}

// Handle processes one webhook delivery
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Error("Failed to read request body", "error", err)
		writeError(w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if h.secret != "" {
		if !h.verifySignature(body, r.Header.Get(headerSignature)) {
			logger.Warn("Invalid webhook signature")
			writeError(w, goerr.New("invalid signature"), http.StatusUnauthorized)
			return
		}
	}

	if !gjson.ValidBytes(body) {
		writeError(w, goerr.Wrap(types.ErrSchemaViolation, "payload is not valid JSON"), http.StatusBadRequest)
		return
	}

	rawKind := r.Header.Get(headerEvent)
	if rawKind == "" {
		writeError(w, goerr.Wrap(types.ErrMissingHeader, "event header is required",
			goerr.V("header", headerEvent)), http.StatusBadRequest)
		return
	}

	eventType := r.Header.Get(headerEventType)
	if eventType == "" {
		// expected for replayed fixtures; recover with the sentinel default
		eventType = model.DefaultEventType
	}

	deliveryID := r.Header.Get(headerDelivery)
	if deliveryID == "" {
		deliveryID = uuid.NewString()
	}

	event := &model.WebhookEvent{
		ID:         deliveryID,
		Kind:       model.ParseEventKind(rawKind),
		RawKind:    rawKind,
		EventType:  eventType,
		ReceivedAt: time.Now(),
		Payload:    model.NewPayload(body),
	}
	if branches := r.URL.Query().Get("branches"); branches != "" {
		event.Branches = &branches
	}
	if topic := r.URL.Query().Get("topic"); topic != "" {
		event.UserTopic = &topic
	}

	if err := h.webhookUC.ProcessEvent(ctx, event); err != nil {
		logger.Error("Failed to process webhook event",
			"error", err,
			"event", rawKind,
			"delivery_id", deliveryID,
		)
		writeError(w, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status": "success",
	}); err != nil {
		logger.Error("Failed to encode success response", "error", err)
	}
}

// statusFor maps processing errors to HTTP status codes. Schema and event
// kind problems are the caller's fault; everything else (notably delivery
// failures) is ours.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrUnsupportedEventType),
		errors.Is(err, types.ErrSchemaViolation),
		errors.Is(err, types.ErrMissingHeader):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// verifySignature verifies the webhook HMAC-SHA256 signature
func (h *WebhookHandler) verifySignature(payload []byte, signature string) bool {
	if signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(payload)
	expectedMAC := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(signature), []byte(expectedMAC))
}
