package agent

import (
	"strings"

	"github.com/hupe1980/chainmesh/core"
)

// Step records one dispatched tool call.
type Step struct {
	Iteration   int    `json:"iteration"`
	Action      string `json:"action"`
	Input       string `json:"input"`
	Observation string `json:"observation"`
	// Log is the raw model output that requested the action.
	Log string `json:"log"`
	// Failed reports a missing tool or a tool execution error.
	Failed bool `json:"failed,omitempty"`
}

// runState is the transient state of one Run. It is created at START and
// discarded when the run ends; the Executor never stores it.
type runState struct {
	runID      string
	iteration  int
	scratchpad strings.Builder
	steps      []Step
}

func newRunState() *runState {
	return &runState{runID: core.NewID()}
}

// observe appends "<raw>\nObservation: <obs>\n" to the scratchpad.
func (s *runState) observe(step Step) {
	s.scratchpad.WriteString(step.Log)
	s.scratchpad.WriteString("\nObservation: ")
	s.scratchpad.WriteString(step.Observation)
	s.scratchpad.WriteString("\n")
	s.steps = append(s.steps, step)
}

// Result is the outcome of one Run.
type Result struct {
	RunID string `json:"run_id"`
	// Output is the final answer, the raw text of a malformed reply, or
	// StoppedMessage.
	Output     string `json:"output"`
	Iterations int    `json:"iterations"`
	Steps      []Step `json:"steps,omitempty"`
	// Malformed reports that the last model reply matched neither a final
	// answer nor an action and was used verbatim.
	Malformed bool `json:"malformed,omitempty"`
	// Stopped reports LIMIT_REACHED.
	Stopped    bool   `json:"stopped,omitempty"`
	Scratchpad string `json:"scratchpad,omitempty"`
}
