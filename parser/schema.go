package parser

import (
	"context"
	"fmt"

	"github.com/hupe1980/chainmesh/internal/util"
)

const formatInstructions = `The output should be formatted as a JSON instance that conforms to the JSON schema below.
Return only the JSON object, without any surrounding prose.

Here is the output schema:
` + "```json\n%s\n```"

// SchemaParser parses model output into T after validating it against the
// JSON schema inferred from T. Fields without omitempty are required.
type SchemaParser[T any] struct {
	schema *util.Schema
}

// NewSchemaParser infers the schema of T.
func NewSchemaParser[T any]() (*SchemaParser[T], error) {
	s, err := util.SchemaFor[T]()
	if err != nil {
		return nil, err
	}
	return &SchemaParser[T]{schema: s}, nil
}

// FormatInstructions describes the expected output for injection into a prompt.
func (p *SchemaParser[T]) FormatInstructions() string {
	return fmt.Sprintf(formatInstructions, p.schema.JSON())
}

// Parse extracts, repairs, validates and decodes the JSON object in text.
// Every failure is a *ParseError carrying text unchanged.
func (p *SchemaParser[T]) Parse(text string) (T, error) {
	var out T
	raw, err := util.ExtractJSONObject(text)
	if err != nil {
		return out, &ParseError{Raw: text, Reason: "no json object", Err: err}
	}
	if err := p.schema.Decode(raw, &out); err != nil {
		var zero T
		return zero, &ParseError{Raw: text, Reason: "schema mismatch", Err: err}
	}
	return out, nil
}

// Invoke implements runnable.Runnable on top of StrOutputParser + Parse.
func (p *SchemaParser[T]) Invoke(ctx context.Context, input any) (any, error) {
	text, err := StrOutputParser{}.Invoke(ctx, input)
	if err != nil {
		return nil, &ParseError{Reason: "no text", Err: err}
	}
	return p.Parse(text.(string))
}
