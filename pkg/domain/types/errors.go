package types

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors shared across layers. Match with errors.Is.
var (
	// ErrSchemaViolation indicates a required payload field is missing or
	// has an unexpected JSON type. Never recovered; the whole delivery fails.
	ErrSchemaViolation = goerr.New("schema violation in webhook payload")

	// ErrUnsupportedEventType indicates the event kind is not in the known
	// set, or a non-push handler produced no message. Surfaced to the caller
	// as UnsupportedWebhookEventTypeError.
	ErrUnsupportedEventType = goerr.New("UnsupportedWebhookEventTypeError")

	// ErrMissingHeader indicates a required HTTP header was absent. For the
	// fine-grained event type header this is recovered locally with a
	// sentinel default; for the main event header it is fatal.
	ErrMissingHeader = goerr.New("missing HTTP header")
)
