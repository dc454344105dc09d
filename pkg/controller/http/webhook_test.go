package http_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"

	controller "github.com/m-mizutani/herald/pkg/controller/http"
	"github.com/m-mizutani/herald/pkg/usecase"
)

// recordingMessenger captures outbound messages
type recordingMessenger struct {
	mu   sync.Mutex
	sent []sentMessage
}

type sentMessage struct {
	Topic     string
	Body      string
	EventKind string
}

func (m *recordingMessenger) SendMessage(ctx context.Context, topic, body, eventKind string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMessage{Topic: topic, Body: body, EventKind: eventKind})
	return nil
}

func (m *recordingMessenger) messages() []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMessage(nil), m.sent...)
}

// generateSignature generates HMAC-SHA256 signature for testing
func generateSignature(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

const pushPayload = `{
	"ref": "refs/heads/main",
	"compare_url": "http://gitea.example/repo/compare/a...b",
	"sender": {"username": "alice"},
	"repository": {"name": "repo", "html_url": "http://gitea.example/repo"},
	"commits": [
		{"id": "abc123def", "url": "http://gitea.example/repo/commit/abc123def", "message": "fix bug", "author": {"username": "alice", "name": "Alice Smith"}}
	]
}`

func newRequest(target, event string, payload []byte) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Gogs-Event", event)
	req.Header.Set("X-Gogs-Delivery", "test-delivery")
	return req
}

func TestWebhookHandler_SignatureVerification(t *testing.T) {
	secret := "test-secret"
	messenger := &recordingMessenger{}
	handler := controller.NewWebhookHandler(secret, usecase.NewWebhook(messenger))

	tests := []struct {
		name           string
		signature      string
		wantStatusCode int
	}{
		{
			name:           "Valid signature",
			signature:      generateSignature(secret, []byte(pushPayload)),
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "Invalid signature",
			signature:      "deadbeef",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "Missing signature",
			signature:      "",
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest("/hooks/gitea", "push", []byte(pushPayload))
			if tt.signature != "" {
				req.Header.Set("X-Gogs-Signature", tt.signature)
			}

			w := httptest.NewRecorder()
			handler.Handle(w, req)

			gt.Number(t, w.Code).Equal(tt.wantStatusCode)
		})
	}
}

func TestWebhookHandler_EventDispatch(t *testing.T) {
	t.Run("push delivers a message and reports success", func(t *testing.T) {
		messenger := &recordingMessenger{}
		handler := controller.NewWebhookHandler("", usecase.NewWebhook(messenger))

		w := httptest.NewRecorder()
		handler.Handle(w, newRequest("/hooks/gitea", "push", []byte(pushPayload)))

		gt.Number(t, w.Code).Equal(http.StatusOK)

		var response map[string]string
		gt.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		gt.Value(t, response["status"]).Equal("success")

		sent := messenger.messages()
		gt.Number(t, len(sent)).Equal(1)
		gt.Value(t, sent[0].Topic).Equal("repo / main")
		gt.Value(t, sent[0].EventKind).Equal("push")
	})

	t.Run("push to filtered branch succeeds without a message", func(t *testing.T) {
		messenger := &recordingMessenger{}
		handler := controller.NewWebhookHandler("", usecase.NewWebhook(messenger))

		w := httptest.NewRecorder()
		handler.Handle(w, newRequest("/hooks/gitea?branches=develop", "push", []byte(pushPayload)))

		gt.Number(t, w.Code).Equal(http.StatusOK)
		gt.Number(t, len(messenger.messages())).Equal(0)
	})

	t.Run("unknown event kind fails with UnsupportedWebhookEventTypeError", func(t *testing.T) {
		messenger := &recordingMessenger{}
		handler := controller.NewWebhookHandler("", usecase.NewWebhook(messenger))

		w := httptest.NewRecorder()
		handler.Handle(w, newRequest("/hooks/gitea", "unknown_event", []byte(`{"repository":{"name":"repo"}}`)))

		gt.Number(t, w.Code).Equal(http.StatusBadRequest)

		var response map[string]string
		gt.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		gt.Value(t, response["kind"]).Equal("UnsupportedWebhookEventTypeError")
		gt.Number(t, len(messenger.messages())).Equal(0)
	})

	t.Run("missing event header is rejected", func(t *testing.T) {
		messenger := &recordingMessenger{}
		handler := controller.NewWebhookHandler("", usecase.NewWebhook(messenger))

		req := newRequest("/hooks/gitea", "", []byte(pushPayload))
		req.Header.Del("X-Gogs-Event")

		w := httptest.NewRecorder()
		handler.Handle(w, req)

		gt.Number(t, w.Code).Equal(http.StatusBadRequest)

		var response map[string]string
		gt.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		gt.Value(t, response["kind"]).Equal("MissingHeader")
	})

	t.Run("schema violation is reported", func(t *testing.T) {
		messenger := &recordingMessenger{}
		handler := controller.NewWebhookHandler("", usecase.NewWebhook(messenger))

		// push payload missing compare_url and commits
		payload := `{"ref": "refs/heads/main", "repository": {"name": "repo"}, "sender": {"username": "alice"}}`
		w := httptest.NewRecorder()
		handler.Handle(w, newRequest("/hooks/gitea", "push", []byte(payload)))

		gt.Number(t, w.Code).Equal(http.StatusBadRequest)

		var response map[string]string
		gt.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		gt.Value(t, response["kind"]).Equal("SchemaViolation")
	})

	t.Run("invalid JSON is rejected", func(t *testing.T) {
		messenger := &recordingMessenger{}
		handler := controller.NewWebhookHandler("", usecase.NewWebhook(messenger))

		w := httptest.NewRecorder()
		handler.Handle(w, newRequest("/hooks/gitea", "push", []byte("{not json")))

		gt.Number(t, w.Code).Equal(http.StatusBadRequest)
	})

	t.Run("PR comment marker switches the rendering", func(t *testing.T) {
		messenger := &recordingMessenger{}
		handler := controller.NewWebhookHandler("", usecase.NewWebhook(messenger))

		payload := `{
			"action": "created",
			"sender": {"login": "alice"},
			"repository": {"name": "repo", "html_url": "http://gitea.example/repo"},
			"issue": {"number": 3, "title": "broken build", "html_url": "http://gitea.example/repo/issues/3"},
			"comment": {"html_url": "http://c", "body": "same here"}
		}`
		req := newRequest("/hooks/gitea", "issue_comment", []byte(payload))
		req.Header.Set("X-Gitea-Event-Type", "pull_request_comment")

		w := httptest.NewRecorder()
		handler.Handle(w, req)

		gt.Number(t, w.Code).Equal(http.StatusOK)
		sent := messenger.messages()
		gt.Number(t, len(sent)).Equal(1)
		gt.Value(t, sent[0].Topic).Equal("repo / PR #3 broken build")
		// PR-shaped comments always restate the title
		gt.String(t, sent[0].Body).Contains("broken build")
	})
}

func TestWebhookHandler_Integration(t *testing.T) {
	ctx := context.Background()
	messenger := &recordingMessenger{}
	secret := "integration-test-secret"

	server, err := controller.NewServer(
		ctx,
		usecase.NewWebhook(messenger),
		controller.WithAddr("localhost:0"),
		controller.WithWebhookSecret(secret),
	)
	gt.NoError(t, err)

	ts := httptest.NewServer(server.Handler)
	defer ts.Close()

	payload := []byte(pushPayload)
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/hooks/gitea", bytes.NewReader(payload))
	gt.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Gogs-Event", "push")
	req.Header.Set("X-Gogs-Delivery", "integration-test")
	req.Header.Set("X-Gogs-Signature", generateSignature(secret, payload))

	resp, err := http.DefaultClient.Do(req)
	gt.NoError(t, err)
	defer resp.Body.Close()

	gt.Number(t, resp.StatusCode).Equal(http.StatusOK)
	gt.Number(t, len(messenger.messages())).Equal(1)
}
