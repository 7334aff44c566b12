package parser

import (
	"context"
	"fmt"

	"github.com/hupe1980/chainmesh/core"
	"github.com/hupe1980/chainmesh/runnable"
)

// StrOutputParser extracts the content of the most recent assistant message.
type StrOutputParser struct{}

// NewStrOutputParser returns a StrOutputParser.
func NewStrOutputParser() StrOutputParser { return StrOutputParser{} }

// Invoke accepts a core.Message, a []core.Message or a string.
func (StrOutputParser) Invoke(_ context.Context, input any) (any, error) {
	switch v := input.(type) {
	case core.Message:
		return v.Content, nil
	case []core.Message:
		if m, ok := core.LastByRole(v, core.RoleAssistant); ok {
			return m.Content, nil
		}
		return nil, fmt.Errorf("%w: no assistant message in input", runnable.ErrInputType)
	case string:
		return v, nil
	default:
		return nil, fmt.Errorf("%w: string parser expects messages or string, got %T", runnable.ErrInputType, input)
	}
}
