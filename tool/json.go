package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/chainmesh/core"
	"github.com/hupe1980/chainmesh/internal/util"
	"github.com/hupe1980/chainmesh/logging"
)

// JSONTool decodes the action input as a JSON object into T before calling
// the typed function. The input is repaired and validated against the schema
// inferred from T; a mismatch is a VALIDATION_ERROR.
type JSONTool[T any] struct {
	inner  *FunctionTool
	schema *util.Schema
}

// NewJSONTool wraps fn. The tool description is extended with the argument schema.
func NewJSONTool[T any](fn func(ctx context.Context, args T) (string, error), optFns ...func(o *Options)) (*JSONTool[T], error) {
	if fn == nil {
		return nil, core.NewConfigurationError("tool", "function", "function is required")
	}
	opts, err := resolveOptions(fn, optFns)
	if err != nil {
		return nil, err
	}
	schema, err := util.SchemaFor[T]()
	if err != nil {
		return nil, err
	}

	t := &JSONTool[T]{schema: schema}
	description := fmt.Sprintf("%s Input must be a JSON object matching this schema: %s",
		strings.TrimSpace(opts.Description), compact(schema.JSON()))

	t.inner = &FunctionTool{
		name:        opts.Name,
		description: description,
		logger:      logging.OrNoOp(opts.Logger),
		fn: func(ctx context.Context, input string) (string, error) {
			var args T
			if err := schema.Decode(input, &args); err != nil {
				return "", &ToolError{Tool: opts.Name, Message: err.Error(), Code: CodeValidation, Details: err}
			}
			return fn(ctx, args)
		},
	}
	return t, nil
}

// Name returns the tool name.
func (t *JSONTool[T]) Name() string { return t.inner.Name() }

// Description returns the description including the argument schema.
func (t *JSONTool[T]) Description() string { return t.inner.Description() }

// Call decodes input and invokes the typed function.
func (t *JSONTool[T]) Call(ctx context.Context, input string) (string, error) {
	return t.inner.Call(ctx, input)
}

func compact(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
