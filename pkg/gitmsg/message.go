package gitmsg

import (
	"fmt"
	"sort"
	"strings"
)

// Rendering limits. Beyond commitLimit the push message shows a summary
// row instead of further bullets; quoted bodies are cut at quoteLimit.
const (
	commitLimit = 20
	quoteLimit  = 500
	shortSHALen = 7
)

// CommitSummary is the normalized view of one commit in a push payload,
// independent of the upstream schema.
type CommitSummary struct {
	Name    string // author display name
	SHA     string // full commit hash
	URL     string
	Message string
}

// PushCommitsMessage renders the body for a push event: a headline with
// the actor, commit count and branch, an author breakdown when more than
// one author is involved, and one bullet per commit.
func PushCommitsMessage(user, compareURL, branch string, commits []CommitSummary) string {
	var sb strings.Builder

	noun := "commits"
	if len(commits) == 1 {
		noun = "commit"
	}
	fmt.Fprintf(&sb, "%s [pushed](%s) %d %s to branch %s.", user, compareURL, len(commits), noun, branch)

	if summary := committersSummary(commits); summary != "" {
		sb.WriteString(" ")
		sb.WriteString(summary)
	}
	sb.WriteString("\n\n")

	for i, c := range commits {
		if i >= commitLimit {
			fmt.Fprintf(&sb, "[and %d more commit(s)]", len(commits)-commitLimit)
			break
		}
		fmt.Fprintf(&sb, "* %s ([%s](%s))\n", firstLine(c.Message), shortSHA(c.SHA), c.URL)
	}

	return strings.TrimRight(sb.String(), "\n")
}

// committersSummary returns "Commits by alice (2) and bob (1)." when the
// push contains work from more than one author, and "" otherwise.
func committersSummary(commits []CommitSummary) string {
	counts := map[string]int{}
	for _, c := range commits {
		counts[c.Name]++
	}
	if len(counts) < 2 {
		return ""
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s (%d)", name, counts[name]))
	}
	last := parts[len(parts)-1]
	return fmt.Sprintf("Commits by %s and %s.", strings.Join(parts[:len(parts)-1], ", "), last)
}

// CreateBranchMessage renders the body for a branch creation event.
func CreateBranchMessage(user, url, branch string) string {
	return fmt.Sprintf("%s created [%s](%s) branch.", user, branch, url)
}

// PROrIssueMessageOpts carries the optional parts of a pull request or
// issue event message. Nil pointer fields are omitted from the rendering.
type PROrIssueMessageOpts struct {
	User            string
	Action          string
	URL             string
	Number          int64
	Type            string // "PR" or "issue"
	Title           *string
	HeadBranch      *string
	BaseBranch      *string
	Message         *string
	AssigneeUpdated *string
}

// PROrIssueEventMessage renders the shared body shape used by pull
// request, issue and comment events:
//
//	{user} {action} [{type} #{number} {title}]({url}) from `head` to `base`
//	(assigned to {assignee}):
//	~~~ quote
//	{message}
//	~~~
func PROrIssueEventMessage(o PROrIssueMessageOpts) string {
	link := fmt.Sprintf("%s #%d", o.Type, o.Number)
	if o.Title != nil {
		link += " " + *o.Title
	}

	msg := fmt.Sprintf("%s %s [%s](%s)", o.User, o.Action, link, o.URL)
	if o.HeadBranch != nil && o.BaseBranch != nil {
		msg += fmt.Sprintf(" from `%s` to `%s`", *o.HeadBranch, *o.BaseBranch)
	}
	if o.AssigneeUpdated != nil {
		msg += fmt.Sprintf(" (assigned to %s)", *o.AssigneeUpdated)
	}

	if o.Message != nil && *o.Message != "" {
		msg += ":\n" + quoteBlock(*o.Message)
	} else {
		msg += "."
	}
	return msg
}

// ReleaseMessage renders the body for a release event.
func ReleaseMessage(user, action, tag, name, url string) string {
	return fmt.Sprintf("%s %s release [%s](%s) for tag %s.", user, action, name, url, tag)
}

func quoteBlock(message string) string {
	if len(message) > quoteLimit {
		message = message[:quoteLimit] + "…"
	}
	return fmt.Sprintf("~~~ quote\n%s\n~~~", message)
}

func firstLine(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		return strings.TrimSpace(message[:i])
	}
	return strings.TrimSpace(message)
}

func shortSHA(sha string) string {
	if len(sha) > shortSHALen {
		return sha[:shortSHALen]
	}
	return sha
}
