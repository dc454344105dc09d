package gitmsg

import "fmt"

// Topic builders shared by all event handlers. The shapes follow the
// Zulip integration conventions so existing subscriptions keep working.

// BranchTopic names the topic for push and branch-creation events.
func BranchTopic(repo, branch string) string {
	return fmt.Sprintf("%s / %s", repo, branch)
}

// PROrIssueTopic names the topic for pull request and issue events.
// typ is "PR" or "issue".
func PROrIssueTopic(repo, typ string, id int64, title string) string {
	return fmt.Sprintf("%s / %s #%d %s", repo, typ, id, title)
}

// ReleaseTopic names the topic for release events.
func ReleaseTopic(repo, tag, title string) string {
	return fmt.Sprintf("%s / %s %s", repo, tag, title)
}
