package testutil

import (
	"fmt"

	"github.com/hupe1980/chainmesh/core"
)

// ConversationBuilder provides a fluent helper for message sequences.
// Example:
//
//	msgs := NewConversationBuilder().System("be brief").Turn("hi", "hello").Build()
type ConversationBuilder struct {
	msgs []core.Message
}

// NewConversationBuilder creates an empty builder.
func NewConversationBuilder() *ConversationBuilder { return &ConversationBuilder{} }

// System appends a system message (chainable).
func (b *ConversationBuilder) System(text string) *ConversationBuilder {
	b.msgs = append(b.msgs, core.SystemMessage(text))
	return b
}

// Human appends a human message (chainable).
func (b *ConversationBuilder) Human(text string) *ConversationBuilder {
	b.msgs = append(b.msgs, core.HumanMessage(text))
	return b
}

// AI appends an assistant message (chainable).
func (b *ConversationBuilder) AI(text string) *ConversationBuilder {
	b.msgs = append(b.msgs, core.AssistantMessage(text))
	return b
}

// Turn appends a human/assistant pair (chainable).
func (b *ConversationBuilder) Turn(human, ai string) *ConversationBuilder {
	return b.Human(human).AI(ai)
}

// Turns appends n numbered turns "q1"/"a1" ... (chainable).
func (b *ConversationBuilder) Turns(n int) *ConversationBuilder {
	for i := 1; i <= n; i++ {
		b.Turn(fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}
	return b
}

// Build returns a copy of the accumulated messages.
func (b *ConversationBuilder) Build() []core.Message { return core.CloneMessages(b.msgs) }

// Action renders a ReAct completion that invokes a tool.
func Action(thought, tool, input string) string {
	return fmt.Sprintf("Thought: %s\nAction: %s\nAction Input: %s", thought, tool, input)
}

// Final renders a ReAct completion carrying a final answer.
func Final(thought, answer string) string {
	return fmt.Sprintf("Thought: %s\nFinal Answer: %s", thought, answer)
}
