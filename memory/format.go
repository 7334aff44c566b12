package memory

import (
	"strings"

	"github.com/hupe1980/chainmesh/core"
)

// BufferString renders messages as a "Human: ..." / "AI: ..." transcript.
func BufferString(messages []core.Message) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		var prefix string
		switch m.Role {
		case core.RoleSystem:
			prefix = "System"
		case core.RoleAssistant:
			prefix = "AI"
		default:
			prefix = "Human"
		}
		lines = append(lines, prefix+": "+m.Content)
	}
	return strings.Join(lines, "\n")
}
