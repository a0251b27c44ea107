package ai

import "strings"

// stripFences removes a surrounding markdown code fence from a model reply.
// Models regularly wrap JSON in ```json ... ``` despite instructions not to;
// the payload inside is returned trimmed.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
