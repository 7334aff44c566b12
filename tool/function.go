package tool

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"runtime"
	"strings"
	"time"
	"unicode"

	"github.com/hupe1980/chainmesh/core"
	"github.com/hupe1980/chainmesh/logging"
)

// Options configure FunctionTool and JSONTool construction.
type Options struct {
	// Name overrides the name derived from the Go function name.
	Name string
	// Description is required: Go has no runtime docstrings.
	Description string
	Logger      logging.Logger
}

// FunctionTool exposes a plain Go function as a Tool.
//
// Error semantics of Call:
//
//	*ToolError returned by fn -> forwarded unchanged
//	other error               -> *ToolError{Code: "EXECUTION_ERROR"}
//	panic                     -> *ToolError{Code: "PANIC"}
//
// A FunctionTool has no mutable state after construction and is safe for
// concurrent use.
type FunctionTool struct {
	name        string
	description string
	fn          func(ctx context.Context, input string) (string, error)
	logger      logging.Logger
}

// NewFunctionTool wraps fn. The tool name defaults to the snake_cased Go
// function name, so a function wordCount becomes "word_count". Anonymous
// functions need an explicit name.
func NewFunctionTool(fn func(ctx context.Context, input string) (string, error), optFns ...func(o *Options)) (*FunctionTool, error) {
	if fn == nil {
		return nil, core.NewConfigurationError("tool", "function", "function is required")
	}
	opts, err := resolveOptions(fn, optFns)
	if err != nil {
		return nil, err
	}
	return &FunctionTool{
		name:        opts.Name,
		description: opts.Description,
		fn:          fn,
		logger:      opts.Logger,
	}, nil
}

// MustFunctionTool is like NewFunctionTool but panics on misconfiguration.
func MustFunctionTool(fn func(ctx context.Context, input string) (string, error), optFns ...func(o *Options)) *FunctionTool {
	t, err := NewFunctionTool(fn, optFns...)
	if err != nil {
		panic(err)
	}
	return t
}

func resolveOptions(fn any, optFns []func(o *Options)) (Options, error) {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, f := range optFns {
		f(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)

	if opts.Name == "" {
		name, ok := FunctionName(fn)
		if !ok {
			return opts, core.NewConfigurationError("tool", "name", "cannot derive a name from an anonymous function")
		}
		opts.Name = name
	}
	if strings.ContainsAny(opts.Name, " \t\n") {
		return opts, core.NewConfigurationError("tool", "name", fmt.Sprintf("name %q must not contain whitespace", opts.Name))
	}
	if strings.TrimSpace(opts.Description) == "" {
		return opts, core.NewConfigurationError("tool", "description", fmt.Sprintf("tool %s needs a description", opts.Name))
	}
	return opts, nil
}

// Name returns the unique tool name used in "Action:" lines.
func (t *FunctionTool) Name() string { return t.name }

// Description returns the short natural language description exposed to models.
func (t *FunctionTool) Description() string { return t.description }

// Call invokes the wrapped function. Failures and panics are returned as *ToolError.
func (t *FunctionTool) Call(ctx context.Context, input string) (out string, err error) {
	start := time.Now()
	t.logger.Debug("tool.call.start", "tool", t.name)

	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("tool.call.panic", "tool", t.name, "panic", fmt.Sprint(r))
			out, err = "", &ToolError{Tool: t.name, Message: fmt.Sprintf("panic: %v", r), Code: CodePanic}
		}
	}()

	result, err := t.fn(ctx, input)
	if err != nil {
		var toolErr *ToolError
		if errors.As(err, &toolErr) {
			t.logger.Error("tool.call.error", "tool", t.name, "error", toolErr.Message)
			return "", toolErr
		}
		t.logger.Error("tool.call.error", "tool", t.name, "error", err.Error())
		return "", &ToolError{Tool: t.name, Message: err.Error(), Code: CodeExecution, Details: err}
	}

	t.logger.Info("tool.call.success", "tool", t.name, "duration_ms", time.Since(start).Milliseconds())
	return result, nil
}

var anonymousFunc = regexp.MustCompile(`^func\d+$`)

// FunctionName derives a snake_case tool name from a Go function value.
// It reports false for anonymous functions.
func FunctionName(fn any) (string, bool) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return "", false
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return "", false
	}
	full := f.Name()
	if i := strings.LastIndexByte(full, '/'); i >= 0 {
		full = full[i+1:]
	}
	if i := strings.IndexByte(full, '['); i >= 0 {
		full = full[:i]
	}
	full = strings.TrimSuffix(full, "-fm")
	parts := strings.Split(full, ".")
	last := parts[len(parts)-1]
	if last == "" || anonymousFunc.MatchString(last) {
		return "", false
	}
	return SnakeCase(last), true
}

// SnakeCase converts a Go identifier to snake_case ("HTTPGet" -> "http_get").
func SnakeCase(s string) string {
	runes := []rune(s)
	var sb strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					sb.WriteByte('_')
				}
			}
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
