package prompt

import (
	"context"
	"fmt"
	"sort"
	"text/template"

	"github.com/hupe1980/chainmesh/core"
	"github.com/hupe1980/chainmesh/internal/util"
	"github.com/hupe1980/chainmesh/runnable"
)

// Part is one element of a ChatTemplate.
type Part interface {
	isPart()
}

type messagePart struct {
	role core.Role
	text string
}

func (messagePart) isPart() {}

type placeholderPart struct {
	key      string
	optional bool
}

func (placeholderPart) isPart() {}

// Message returns a message template with the given role.
func Message(role core.Role, text string) Part { return messagePart{role: role, text: text} }

// System returns a system message template.
func System(text string) Part { return Message(core.RoleSystem, text) }

// Human returns a human message template.
func Human(text string) Part { return Message(core.RoleHuman, text) }

// Assistant returns an assistant message template.
func Assistant(text string) Part { return Message(core.RoleAssistant, text) }

// Placeholder splices the []core.Message variable key into the output.
// The variable is required.
func Placeholder(key string) Part { return placeholderPart{key: key} }

// OptionalPlaceholder is like Placeholder but renders nothing when key is absent.
func OptionalPlaceholder(key string) Part { return placeholderPart{key: key, optional: true} }

type compiledPart struct {
	role        core.Role
	tmpl        *template.Template
	placeholder *placeholderPart
}

// ChatTemplate renders an ordered list of messages. It is immutable:
// WithPartial returns a new template and Format never mutates the receiver.
type ChatTemplate struct {
	parts    []compiledPart
	partials map[string]func() string
	vars     []string
}

// NewChatTemplate compiles the given parts.
func NewChatTemplate(parts ...Part) (*ChatTemplate, error) {
	if len(parts) == 0 {
		return nil, core.NewConfigurationError("prompt", "parts", "at least one message template is required")
	}

	seen := map[string]struct{}{}
	compiled := make([]compiledPart, 0, len(parts))
	for i, p := range parts {
		switch v := p.(type) {
		case messagePart:
			if !v.role.Valid() {
				return nil, core.NewConfigurationError("prompt", "role", fmt.Sprintf("invalid role %q", v.role))
			}
			tmpl, err := util.ParseTemplate(fmt.Sprintf("message_%d", i), v.text)
			if err != nil {
				return nil, core.NewConfigurationError("prompt", "template", err.Error())
			}
			for _, name := range util.TemplateVariables(tmpl) {
				seen[name] = struct{}{}
			}
			compiled = append(compiled, compiledPart{role: v.role, tmpl: tmpl})
		case placeholderPart:
			if v.key == "" {
				return nil, core.NewConfigurationError("prompt", "placeholder", "key must not be empty")
			}
			ph := v
			seen[v.key] = struct{}{}
			compiled = append(compiled, compiledPart{placeholder: &ph})
		default:
			return nil, core.NewConfigurationError("prompt", "parts", fmt.Sprintf("unsupported part %T", p))
		}
	}

	vars := make([]string, 0, len(seen))
	for k := range seen {
		vars = append(vars, k)
	}
	sort.Strings(vars)

	return &ChatTemplate{parts: compiled, partials: map[string]func() string{}, vars: vars}, nil
}

// MustChatTemplate is like NewChatTemplate but panics on error.
func MustChatTemplate(parts ...Part) *ChatTemplate {
	t, err := NewChatTemplate(parts...)
	if err != nil {
		panic(err)
	}
	return t
}

// FromTemplate builds a template consisting of a single human message.
func FromTemplate(text string) (*ChatTemplate, error) {
	return NewChatTemplate(Human(text))
}

// WithPartial returns a copy of t with name bound to fn. fn is evaluated at
// every Format call, so refreshed values are picked up automatically.
func (t *ChatTemplate) WithPartial(name string, fn func() string) *ChatTemplate {
	partials := make(map[string]func() string, len(t.partials)+1)
	for k, v := range t.partials {
		partials[k] = v
	}
	partials[name] = fn
	return &ChatTemplate{parts: t.parts, partials: partials, vars: t.vars}
}

// InputVariables returns the sorted variables a caller must supply
// (partials and optional placeholders excluded).
func (t *ChatTemplate) InputVariables() []string {
	optional := map[string]struct{}{}
	for _, p := range t.parts {
		if p.placeholder != nil && p.placeholder.optional {
			optional[p.placeholder.key] = struct{}{}
		}
	}
	out := make([]string, 0, len(t.vars))
	for _, v := range t.vars {
		if _, ok := t.partials[v]; ok {
			continue
		}
		if _, ok := optional[v]; ok {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Format renders the template into a message list preserving part order.
func (t *ChatTemplate) Format(vars map[string]any) ([]core.Message, error) {
	merged := make(map[string]any, len(vars)+len(t.partials))
	for k, fn := range t.partials {
		merged[k] = fn()
	}
	for k, v := range vars {
		merged[k] = v
	}

	out := make([]core.Message, 0, len(t.parts))
	for _, p := range t.parts {
		if p.placeholder != nil {
			msgs, err := placeholderMessages(p.placeholder, merged)
			if err != nil {
				return nil, err
			}
			out = append(out, msgs...)
			continue
		}
		text, err := util.Execute(p.tmpl, merged)
		if err != nil {
			return nil, fmt.Errorf("format %s message: %w", p.role, err)
		}
		out = append(out, core.Message{Role: p.role, Content: text})
	}
	return out, nil
}

func placeholderMessages(p *placeholderPart, vars map[string]any) ([]core.Message, error) {
	v, ok := vars[p.key]
	if !ok || v == nil {
		if p.optional {
			return nil, nil
		}
		return nil, fmt.Errorf("format placeholder: missing variable %q", p.key)
	}
	switch m := v.(type) {
	case []core.Message:
		return core.CloneMessages(m), nil
	case core.Message:
		return []core.Message{m}, nil
	default:
		return nil, fmt.Errorf("format placeholder %q: want []core.Message, got %T", p.key, v)
	}
}

// Invoke implements runnable.Runnable. A map[string]any input is used as the
// variable set; a string is bound to the sole input variable.
func (t *ChatTemplate) Invoke(_ context.Context, input any) (any, error) {
	switch v := input.(type) {
	case map[string]any:
		return t.Format(v)
	case string:
		vars := t.InputVariables()
		if len(vars) != 1 {
			return nil, fmt.Errorf("%w: string input needs exactly one input variable, template has %v", runnable.ErrInputType, vars)
		}
		return t.Format(map[string]any{vars[0]: v})
	default:
		return nil, fmt.Errorf("%w: prompt expects map[string]any or string, got %T", runnable.ErrInputType, input)
	}
}
