package interfaces

import "context"

// Messenger delivers one rendered notification to the chat service.
// Implementations own authentication and transport; retry and redelivery
// are the upstream webhook sender's responsibility, not ours.
type Messenger interface {
	SendMessage(ctx context.Context, topic, body, eventKind string) error
}
