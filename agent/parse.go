package agent

import (
	"regexp"
	"strings"
)

type outcome int

const (
	outcomeMalformed outcome = iota
	outcomeFinal
	outcomeAction
)

func (o outcome) String() string {
	switch o {
	case outcomeFinal:
		return "final"
	case outcomeAction:
		return "action"
	default:
		return "malformed"
	}
}

const (
	finalAnswerMarker = "Final Answer:"
	observationMarker = "Observation:"
)

// actionPattern requires the tool name on the Action line itself, directly
// followed by the Action Input line.
var actionPattern = regexp.MustCompile(`(?s)Action:[ \t]*([^\n]*?)[ \t]*\r?\n\s*Action Input:[ \t]*(.*)`)

// parsed is the result of reading one model output.
type parsed struct {
	outcome outcome
	answer  string
	action  string
	input   string
}

// parseOutput checks, in order, for a final answer, then an action with its
// input, otherwise reports malformed output.
func parseOutput(text string) parsed {
	if i := strings.Index(text, finalAnswerMarker); i >= 0 {
		return parsed{outcome: outcomeFinal, answer: strings.TrimSpace(text[i+len(finalAnswerMarker):])}
	}
	if m := actionPattern.FindStringSubmatch(text); m != nil {
		input := m[2]
		if j := strings.Index(input, observationMarker); j >= 0 {
			input = input[:j]
		}
		return parsed{
			outcome: outcomeAction,
			action:  strings.TrimSpace(m[1]),
			input:   strings.TrimSpace(input),
		}
	}
	return parsed{outcome: outcomeMalformed, answer: strings.TrimSpace(text)}
}
