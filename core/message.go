package core

import "strings"

// Role identifies the author of a message in a conversation.
type Role string

const (
	// RoleSystem carries instructions that frame the conversation.
	RoleSystem Role = "system"
	// RoleHuman is the end user (or the prompt acting on the user's behalf).
	RoleHuman Role = "human"
	// RoleAssistant is the model.
	RoleAssistant Role = "assistant"
)

// ParseRole maps common aliases ("user", "ai", ...) onto a Role.
// Unknown values are returned unchanged so callers can validate them.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "system":
		return RoleSystem
	case "human", "user":
		return RoleHuman
	case "assistant", "ai":
		return RoleAssistant
	default:
		return Role(s)
	}
}

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleHuman, RoleAssistant:
		return true
	}
	return false
}

// Message is a single role-tagged unit of text. It is a value type: once
// constructed it is never mutated in place, and sequences of messages keep
// their insertion order everywhere in the system.
type Message struct {
	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// SystemMessage creates a system message.
func SystemMessage(content string) Message { return Message{Role: RoleSystem, Content: content} }

// HumanMessage creates a human message.
func HumanMessage(content string) Message { return Message{Role: RoleHuman, Content: content} }

// AssistantMessage creates an assistant message.
func AssistantMessage(content string) Message { return Message{Role: RoleAssistant, Content: content} }

// CloneMessages returns a copy of the slice so callers can append without
// aliasing the source. A nil input yields an empty, non-nil slice.
func CloneMessages(in []Message) []Message {
	out := make([]Message, len(in))
	copy(out, in)
	return out
}

// LastByRole returns the most recent message with the given role.
func LastByRole(msgs []Message, role Role) (Message, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == role {
			return msgs[i], true
		}
	}
	return Message{}, false
}
