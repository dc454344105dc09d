package model

import "time"

// EventKind represents the classification of a webhook delivery, taken
// from the X-Gogs-Event header. The set is closed; anything else is
// EventKindUnknown and rejected by the dispatcher.
type EventKind string

const (
	EventKindPush         EventKind = "push"
	EventKindCreate       EventKind = "create"
	EventKindPullRequest  EventKind = "pull_request"
	EventKindIssues       EventKind = "issues"
	EventKindIssueComment EventKind = "issue_comment"
	EventKindRelease      EventKind = "release"
	EventKindUnknown      EventKind = "unknown"
)

// EventTypePullRequestComment is the value of the fine-grained event type
// header that marks an issue_comment delivery as a comment on a pull
// request rather than on an issue.
const EventTypePullRequestComment = "pull_request_comment"

// DefaultEventType is substituted when the fine-grained event type header
// is absent, which is expected in replay and test contexts.
const DefaultEventType = "default_event_type"

// ParseEventKind maps a header value to an EventKind.
func ParseEventKind(s string) EventKind {
	switch k := EventKind(s); k {
	case EventKindPush, EventKindCreate, EventKindPullRequest,
		EventKindIssues, EventKindIssueComment, EventKindRelease:
		return k
	default:
		return EventKindUnknown
	}
}

// WebhookEvent represents one webhook delivery received from Gitea/Gogs.
type WebhookEvent struct {
	ID         string    // X-Gogs-Delivery header, or a generated UUID
	Kind       EventKind // Parsed from the X-Gogs-Event header
	RawKind    string    // Verbatim X-Gogs-Event header value
	EventType  string    // X-Gitea-Event-Type header, or DefaultEventType
	Branches   *string   // Optional comma-separated branch allow-list
	UserTopic  *string   // Optional caller-specified topic override
	ReceivedAt time.Time // Time the delivery was received
	Payload    *Payload  // JSON body
}

// FormatPullRequestFunc renders a pull request event body. It is injected
// into the EventContext so service variants can swap the rendering while
// sharing the handler table.
type FormatPullRequestFunc func(payload *Payload, includeTitle bool) (string, error)

// EventContext bundles everything one handler invocation needs. Owned by a
// single request; never shared across goroutines.
type EventContext struct {
	Payload           *Payload
	Branches          *string
	UserTopic         *string
	Repo              string // repository.name, resolved before dispatch
	EventType         string // fine-grained event type for issue_comment disambiguation
	FormatPullRequest FormatPullRequestFunc
}

// Notification is the outcome of one handler: a destination topic and a
// rendered message body. Handlers return nil to signal "send nothing";
// a Notification always has both fields populated.
type Notification struct {
	Topic string
	Body  string
}
