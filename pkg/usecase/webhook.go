package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/herald/pkg/domain/interfaces"
	"github.com/m-mizutani/herald/pkg/domain/model"
	"github.com/m-mizutani/herald/pkg/domain/types"
)

type webhookUseCase struct {
	messenger interfaces.Messenger
}

// NewWebhook creates a new instance of WebhookUseCase
func NewWebhook(messenger interfaces.Messenger) *webhookUseCase {
	return &webhookUseCase{
		messenger: messenger,
	}
}

// ProcessEvent dispatches one webhook delivery: look up the handler for
// the event kind, render topic and body, and send the message. Exactly
// zero or one message goes out per delivery.
func (uc *webhookUseCase) ProcessEvent(ctx context.Context, event *model.WebhookEvent) error {
	logger := ctxlog.From(ctx)

	handler, ok := eventHandlers[event.Kind]
	if !ok {
		return goerr.Wrap(types.ErrUnsupportedEventType, "unknown event kind",
			goerr.V("event", event.RawKind))
	}

	repo, err := event.Payload.String("repository.name")
	if err != nil {
		return err
	}

	ec := &model.EventContext{
		Payload:           event.Payload,
		Branches:          event.Branches,
		UserTopic:         event.UserTopic,
		Repo:              repo,
		EventType:         event.EventType,
		FormatPullRequest: FormatPullRequestEvent,
	}

	notification, err := handler(ec)
	if err != nil {
		return err
	}

	if notification == nil {
		if event.Kind == model.EventKindPush {
			// push to a branch outside the allow-list: success, no message
			logger.Info("Skipping push to non-notifiable branch",
				"id", event.ID,
				"repository", repo,
			)
			return nil
		}
		return goerr.Wrap(types.ErrUnsupportedEventType, "handler produced no message",
			goerr.V("event", event.RawKind))
	}

	topic := notification.Topic
	if event.UserTopic != nil {
		topic = *event.UserTopic
	}

	if err := uc.messenger.SendMessage(ctx, topic, notification.Body, event.RawKind); err != nil {
		return goerr.Wrap(err, "failed to deliver notification",
			goerr.V("topic", topic),
			goerr.V("event", event.RawKind))
	}

	logger.Info("Delivered webhook notification",
		"id", event.ID,
		"event", event.RawKind,
		"repository", repo,
		"topic", topic,
	)
	return nil
}
