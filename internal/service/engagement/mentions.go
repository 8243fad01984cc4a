// internal/service/engagement/mentions.go

package engagement

import (
	"regexp"
)

var mentionPattern = regexp.MustCompile(`@([A-Za-z0-9_]+)`)

// ExtractMentions scans free text for @handle tokens. Duplicates collapse
// to a single entry and the order of first appearance is preserved.
func ExtractMentions(text string) []string {
	matches := mentionPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	var mentions []string
	for _, m := range matches {
		handle := m[1]
		if _, dup := seen[handle]; dup {
			continue
		}
		seen[handle] = struct{}{}
		mentions = append(mentions, handle)
	}

	return mentions
}
