package usecase

import (
	"github.com/m-mizutani/herald/pkg/domain/model"
	"github.com/m-mizutani/herald/pkg/gitmsg"
)

// handlerFunc turns one event context into a notification. A nil
// notification with a nil error means "send nothing"; the dispatcher
// decides whether that is legitimate (push to a filtered branch) or an
// error (everything else).
type handlerFunc func(ec *model.EventContext) (*model.Notification, error)

// eventHandlers is the closed event-kind dispatch table.
var eventHandlers = map[model.EventKind]handlerFunc{
	model.EventKindPush:         handlePushEvent,
	model.EventKindCreate:       handleCreateEvent,
	model.EventKindPullRequest:  handlePullRequestEvent,
	model.EventKindIssues:       handleIssuesEvent,
	model.EventKindIssueComment: handleIssueCommentEvent,
	model.EventKindRelease:      handleReleaseEvent,
}

func handlePushEvent(ec *model.EventContext) (*model.Notification, error) {
	ref, err := ec.Payload.String("ref")
	if err != nil {
		return nil, err
	}
	branch := trimHeadsPrefix(ref)
	if !gitmsg.IsBranchNotifiable(branch, ec.Branches) {
		return nil, nil
	}

	body, err := FormatPushEvent(ec.Payload)
	if err != nil {
		return nil, err
	}
	return &model.Notification{
		Topic: gitmsg.BranchTopic(ec.Repo, branch),
		Body:  body,
	}, nil
}

func handleCreateEvent(ec *model.EventContext) (*model.Notification, error) {
	body, err := FormatCreateBranchEvent(ec.Payload)
	if err != nil {
		return nil, err
	}
	// the topic uses the raw ref, not a stripped branch name
	ref, err := ec.Payload.String("ref")
	if err != nil {
		return nil, err
	}
	return &model.Notification{
		Topic: gitmsg.BranchTopic(ec.Repo, ref),
		Body:  body,
	}, nil
}

func handlePullRequestEvent(ec *model.EventContext) (*model.Notification, error) {
	// the rendered body restates the title exactly when the caller pinned
	// the topic to a fixed name, since the default topic already carries it
	body, err := ec.FormatPullRequest(ec.Payload, ec.UserTopic != nil)
	if err != nil {
		return nil, err
	}
	id, err := ec.Payload.Int("pull_request.id")
	if err != nil {
		return nil, err
	}
	title, err := ec.Payload.String("pull_request.title")
	if err != nil {
		return nil, err
	}
	return &model.Notification{
		Topic: gitmsg.PROrIssueTopic(ec.Repo, "PR", id, title),
		Body:  body,
	}, nil
}

func handleIssuesEvent(ec *model.EventContext) (*model.Notification, error) {
	body, err := FormatIssuesEvent(ec.Payload, ec.UserTopic != nil)
	if err != nil {
		return nil, err
	}
	number, err := ec.Payload.Int("issue.number")
	if err != nil {
		return nil, err
	}
	title, err := ec.Payload.String("issue.title")
	if err != nil {
		return nil, err
	}
	return &model.Notification{
		Topic: gitmsg.PROrIssueTopic(ec.Repo, "issue", number, title),
		Body:  body,
	}, nil
}

func handleIssueCommentEvent(ec *model.EventContext) (*model.Notification, error) {
	var body string
	var topicType string
	var err error

	if ec.EventType == model.EventTypePullRequestComment {
		body, err = FormatPullRequestCommentEvent(ec.Payload)
		topicType = "PR"
	} else {
		body, err = FormatIssueCommentEvent(ec.Payload, ec.UserTopic != nil)
		topicType = "issue"
	}
	if err != nil {
		return nil, err
	}

	// NOTE: reads repository.name from the payload instead of ec.Repo,
	// unlike every other handler. Kept for compatibility with existing
	// deployments; the two only differ if the transport resolves the repo
	// from another source.
	repo, err := ec.Payload.String("repository.name")
	if err != nil {
		return nil, err
	}
	number, err := ec.Payload.Int("issue.number")
	if err != nil {
		return nil, err
	}
	title, err := ec.Payload.String("issue.title")
	if err != nil {
		return nil, err
	}
	return &model.Notification{
		Topic: gitmsg.PROrIssueTopic(repo, topicType, number, title),
		Body:  body,
	}, nil
}

func handleReleaseEvent(ec *model.EventContext) (*model.Notification, error) {
	body, err := FormatReleaseEvent(ec.Payload)
	if err != nil {
		return nil, err
	}
	tag, err := ec.Payload.String("release.tag_name")
	if err != nil {
		return nil, err
	}
	name, err := ec.Payload.String("release.name")
	if err != nil {
		return nil, err
	}
	return &model.Notification{
		Topic: gitmsg.ReleaseTopic(ec.Repo, tag, name),
		Body:  body,
	}, nil
}
