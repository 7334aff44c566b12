package agent

import "github.com/hupe1980/chainmesh/prompt"

// StoppedMessage is returned when the iteration budget is exhausted.
const StoppedMessage = "Agent stopped after reaching max iterations."

// DefaultSystemPrompt is the generic system role sent with every model call.
const DefaultSystemPrompt = "You are an AI agent."

// DefaultPromptTemplate is the ReAct instruction rendered as the human
// message of each model call. Besides the caller's inputs it can reference
// tools, tool_names, input, agent_scratchpad and history.
const DefaultPromptTemplate = `
You are a helpful assistant that has access to the following tools.
Respond to the user's query by reasoning about the problem and using the tools
to find the answer.

Here are the available tools:
{{.tools}}

Use the following format for your response:

Thought: you should always think about what to do
Action: the action to take, should be one of [{{.tool_names}}]
Action Input: the input to the action
Observation: the result of the action
... (this Thought/Action/Action Input/Observation can repeat N times)
Thought: I now know the final answer
Final Answer: the final answer to the original input question

Begin!
{{if .history}}
Conversation so far:
{{.history}}
{{end}}
User Query: {{.input}}
Agent Scratchpad: {{.agent_scratchpad}}
`

// DefaultPrompt returns the default ReAct template.
func DefaultPrompt() *prompt.ChatTemplate {
	return prompt.MustChatTemplate(prompt.Human(DefaultPromptTemplate))
}
