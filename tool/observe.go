package tool

import (
	"context"
	"errors"
	"fmt"
)

// ObservationPrefix starts the observation text of a failed tool call.
const ObservationPrefix = "tool execution error: "

// Observe calls t and always returns observation text. On failure the text is
// "tool execution error: ..." and err carries the *ToolError. Panics from
// Tool implementations that are not FunctionTools are recovered here as well.
func Observe(ctx context.Context, t Tool, input string) (obs string, err error) {
	defer func() {
		if r := recover(); r != nil {
			te := &ToolError{Tool: t.Name(), Message: fmt.Sprintf("panic: %v", r), Code: CodePanic}
			obs, err = ObservationPrefix+te.Message, te
		}
	}()

	out, err := t.Call(ctx, input)
	if err == nil {
		return out, nil
	}

	var te *ToolError
	if !errors.As(err, &te) {
		te = &ToolError{Tool: t.Name(), Message: err.Error(), Code: CodeExecution, Details: err}
	}
	return ObservationPrefix + te.Message, te
}
