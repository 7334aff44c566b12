// Package tool implements the tool abstraction used by the agent executor: a
// named, described capability invoked with the single action-input string
// the model produced, returning observation text.
//
// Tools never fail out of the abstraction at dispatch time: Observe and
// Registry.Dispatch convert errors and panics into observation text so the
// reasoning loop can treat them as something to reason about.
package tool

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/chainmesh/internal/util"
)

// Error codes carried by ToolError.
const (
	CodeNotFound   = "NOT_FOUND"
	CodeExecution  = "EXECUTION_ERROR"
	CodeValidation = "VALIDATION_ERROR"
	CodePanic      = "PANIC"
)

var (
	// ErrToolNotFound matches ToolErrors with code NOT_FOUND.
	ErrToolNotFound = errors.New("tool not found")
	// ErrToolExecution matches every other ToolError.
	ErrToolExecution = errors.New("tool execution failed")
)

// Tool defines a capability the agent may invoke mid-loop.
//
// Every tool receives only the action input string the model wrote after
// "Action Input:". Tools that need structured arguments decode that string
// themselves (see NewJSONTool).
type Tool interface {
	// Name returns the unique identifier the model uses in "Action: <name>".
	Name() string

	// Description returns a human-readable description shown in the tool catalogue.
	Description() string

	// Call executes the tool.
	Call(ctx context.Context, input string) (string, error)
}

// ValidationError represents action input that does not match a tool's schema.
type ValidationError = util.ValidationError

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`              // Name of the tool that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details any    `json:"details,omitempty"` // Additional error details
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// Is maps the code onto ErrToolNotFound / ErrToolExecution.
func (e *ToolError) Is(target error) bool {
	switch target {
	case ErrToolNotFound:
		return e.Code == CodeNotFound
	case ErrToolExecution:
		return e.Code != CodeNotFound
	}
	return false
}

// Unwrap exposes wrapped details when they are an error.
func (e *ToolError) Unwrap() error {
	if err, ok := e.Details.(error); ok {
		return err
	}
	return nil
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{
		Tool:    tool,
		Message: message,
		Code:    code,
	}
}
