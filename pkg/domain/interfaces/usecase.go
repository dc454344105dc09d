package interfaces

import (
	"context"

	"github.com/m-mizutani/herald/pkg/domain/model"
)

// WebhookUseCase defines the interface for webhook event processing
type WebhookUseCase interface {
	// ProcessEvent classifies the event, renders a notification and hands
	// it to the messenger. Returns nil when a message was sent, or when a
	// push targeted a branch outside the allow-list (the only silent skip).
	ProcessEvent(ctx context.Context, event *model.WebhookEvent) error
}
