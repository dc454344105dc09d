package usecase

import (
	"fmt"
	"strings"

	"github.com/m-mizutani/herald/pkg/domain/model"
	"github.com/m-mizutani/herald/pkg/gitmsg"
)

// Formatters: one pure function per event kind. Each extracts the fields
// it needs through the typed payload getters and renders a body via the
// shared gitmsg templates. A missing required field fails the whole
// delivery; only title and assignee are genuinely optional.

func issueURL(repoURL string, number int64) string {
	return fmt.Sprintf("%s/issues/%d", repoURL, number)
}

func trimHeadsPrefix(ref string) string {
	return strings.TrimPrefix(ref, "refs/heads/")
}

// FormatPushEvent renders the body for a push event.
func FormatPushEvent(p *model.Payload) (string, error) {
	userName, err := p.String("sender.username")
	if err != nil {
		return "", err
	}
	compareURL, err := p.String("compare_url")
	if err != nil {
		return "", err
	}
	ref, err := p.String("ref")
	if err != nil {
		return "", err
	}
	branch := trimHeadsPrefix(ref)

	commits, err := transformCommits(p)
	if err != nil {
		return "", err
	}
	return gitmsg.PushCommitsMessage(userName, compareURL, branch, commits), nil
}

// transformCommits converts the raw commit objects of a push payload into
// CommitSummary values. Author name preference: commit author username,
// else the first token of the author's full name.
func transformCommits(p *model.Payload) ([]gitmsg.CommitSummary, error) {
	elems, err := p.Array("commits")
	if err != nil {
		return nil, err
	}

	commits := make([]gitmsg.CommitSummary, 0, len(elems))
	for _, c := range elems {
		name, err := c.String("author.username")
		if err != nil {
			return nil, err
		}
		if name == "" {
			fullName, err := c.String("author.name")
			if err != nil {
				return nil, err
			}
			if fields := strings.Fields(fullName); len(fields) > 0 {
				name = fields[0]
			}
		}
		sha, err := c.String("id")
		if err != nil {
			return nil, err
		}
		url, err := c.String("url")
		if err != nil {
			return nil, err
		}
		message, err := c.String("message")
		if err != nil {
			return nil, err
		}
		commits = append(commits, gitmsg.CommitSummary{
			Name:    name,
			SHA:     sha,
			URL:     url,
			Message: message,
		})
	}
	return commits, nil
}

// FormatCreateBranchEvent renders the body for a branch creation event.
func FormatCreateBranchEvent(p *model.Payload) (string, error) {
	branch, err := p.String("ref")
	if err != nil {
		return "", err
	}
	repoURL, err := p.String("repository.html_url")
	if err != nil {
		return "", err
	}
	userName, err := p.String("sender.username")
	if err != nil {
		return "", err
	}
	return gitmsg.CreateBranchMessage(userName, fmt.Sprintf("%s/src/%s", repoURL, branch), branch), nil
}

// FormatPullRequestEvent renders the body for a pull_request event. When
// the PR is merged the actor is the merger and the action is "merged";
// otherwise the actor is the PR author and the action is taken verbatim.
func FormatPullRequestEvent(p *model.Payload, includeTitle bool) (string, error) {
	merged, err := p.Bool("pull_request.merged")
	if err != nil {
		return "", err
	}

	var userName, action string
	if merged {
		if userName, err = p.String("pull_request.merged_by.username"); err != nil {
			return "", err
		}
		action = "merged"
	} else {
		if userName, err = p.String("pull_request.user.username"); err != nil {
			return "", err
		}
		if action, err = p.String("action"); err != nil {
			return "", err
		}
	}

	url, err := p.String("pull_request.html_url")
	if err != nil {
		return "", err
	}
	number, err := p.Int("pull_request.number")
	if err != nil {
		return "", err
	}

	var headBranch, baseBranch *string
	if action != "edited" {
		head, err := p.String("pull_request.head_branch")
		if err != nil {
			return "", err
		}
		base, err := p.String("pull_request.base_branch")
		if err != nil {
			return "", err
		}
		headBranch, baseBranch = &head, &base
	}

	var title *string
	if includeTitle {
		v, err := p.String("pull_request.title")
		if err != nil {
			return "", err
		}
		title = &v
	}

	var assignee *string
	if p.Has("pull_request.assignee") {
		v, err := p.String("pull_request.assignee.login")
		if err != nil {
			return "", err
		}
		assignee = &v
	}

	return gitmsg.PROrIssueEventMessage(gitmsg.PROrIssueMessageOpts{
		User:            userName,
		Action:          action,
		URL:             url,
		Number:          number,
		Type:            "PR",
		Title:           title,
		HeadBranch:      headBranch,
		BaseBranch:      baseBranch,
		AssigneeUpdated: assignee,
	}), nil
}

// FormatIssuesEvent renders the body for an issues event. The assignee
// note is attached only when the action is "assigned" and an assignee is
// present on the payload.
func FormatIssuesEvent(p *model.Payload, includeTitle bool) (string, error) {
	userName, err := p.String("sender.login")
	if err != nil {
		return "", err
	}
	action, err := p.String("action")
	if err != nil {
		return "", err
	}
	number, err := p.Int("issue.number")
	if err != nil {
		return "", err
	}
	body, err := p.String("issue.body")
	if err != nil {
		return "", err
	}
	repoURL, err := p.String("repository.html_url")
	if err != nil {
		return "", err
	}

	var title *string
	if includeTitle {
		v, err := p.String("issue.title")
		if err != nil {
			return "", err
		}
		title = &v
	}

	var assigneeUpdated *string
	if action == "assigned" && p.Has("issue.assignee") {
		v, err := p.String("issue.assignee.login")
		if err != nil {
			return "", err
		}
		assigneeUpdated = &v
	}

	return gitmsg.PROrIssueEventMessage(gitmsg.PROrIssueMessageOpts{
		User:            userName,
		Action:          action,
		URL:             issueURL(repoURL, number),
		Number:          number,
		Type:            "issue",
		Title:           title,
		Message:         &body,
		AssigneeUpdated: assigneeUpdated,
	}), nil
}

// commentActionText renders the action phrase for comment events:
// "[commented]({url}) on" for creation, "{action} a [comment]({url}) on"
// for everything else.
func commentActionText(action, commentURL string) string {
	if action == "created" {
		return fmt.Sprintf("[commented](%s) on", commentURL)
	}
	return fmt.Sprintf("%s a [comment](%s) on", action, commentURL)
}

// FormatIssueCommentEvent renders the body for a comment on an issue.
func FormatIssueCommentEvent(p *model.Payload, includeTitle bool) (string, error) {
	userName, err := p.String("sender.login")
	if err != nil {
		return "", err
	}
	action, err := p.String("action")
	if err != nil {
		return "", err
	}
	commentURL, err := p.String("comment.html_url")
	if err != nil {
		return "", err
	}
	body, err := p.String("comment.body")
	if err != nil {
		return "", err
	}
	number, err := p.Int("issue.number")
	if err != nil {
		return "", err
	}
	repoURL, err := p.String("repository.html_url")
	if err != nil {
		return "", err
	}

	var title *string
	if includeTitle {
		v, err := p.String("issue.title")
		if err != nil {
			return "", err
		}
		title = &v
	}

	return gitmsg.PROrIssueEventMessage(gitmsg.PROrIssueMessageOpts{
		User:    userName,
		Action:  commentActionText(action, commentURL),
		URL:     issueURL(repoURL, number),
		Number:  number,
		Type:    "issue",
		Title:   title,
		Message: &body,
	}), nil
}

// FormatPullRequestCommentEvent renders the body for a comment on a pull
// request discussion. Unlike the issue-shaped variant the title is always
// included, regardless of any caller preference.
func FormatPullRequestCommentEvent(p *model.Payload) (string, error) {
	userName, err := p.String("sender.login")
	if err != nil {
		return "", err
	}
	action, err := p.String("action")
	if err != nil {
		return "", err
	}
	commentURL, err := p.String("comment.html_url")
	if err != nil {
		return "", err
	}
	url, err := p.String("issue.html_url")
	if err != nil {
		return "", err
	}
	number, err := p.Int("issue.number")
	if err != nil {
		return "", err
	}
	body, err := p.String("comment.body")
	if err != nil {
		return "", err
	}
	title, err := p.String("issue.title")
	if err != nil {
		return "", err
	}

	return gitmsg.PROrIssueEventMessage(gitmsg.PROrIssueMessageOpts{
		User:    userName,
		Action:  commentActionText(action, commentURL),
		URL:     url,
		Number:  number,
		Type:    "PR",
		Title:   &title,
		Message: &body,
	}), nil
}

// FormatReleaseEvent renders the body for a release event. The release
// name is always part of the body; there is no conditional title logic.
func FormatReleaseEvent(p *model.Payload) (string, error) {
	userName, err := p.String("release.author.username")
	if err != nil {
		return "", err
	}
	action, err := p.String("action")
	if err != nil {
		return "", err
	}
	tag, err := p.String("release.tag_name")
	if err != nil {
		return "", err
	}
	name, err := p.String("release.name")
	if err != nil {
		return "", err
	}
	repoURL, err := p.String("repository.html_url")
	if err != nil {
		return "", err
	}
	return gitmsg.ReleaseMessage(userName, action, tag, name, repoURL), nil
}
