package gitmsg

import "strings"

// IsBranchNotifiable reports whether a push to branch should produce a
// notification. A nil allow-list means every branch is notifiable;
// otherwise the branch must appear in the comma-separated list. Entries
// are trimmed so "main, develop" behaves as expected.
func IsBranchNotifiable(branch string, branches *string) bool {
	if branches == nil {
		return true
	}
	for _, b := range strings.Split(*branches, ",") {
		if strings.TrimSpace(b) == branch {
			return true
		}
	}
	return false
}
