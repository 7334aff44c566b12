package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/chainmesh/core"
	"github.com/hupe1980/chainmesh/logging"
	"github.com/hupe1980/chainmesh/memory"
	"github.com/hupe1980/chainmesh/model"
	"github.com/hupe1980/chainmesh/prompt"
	"github.com/hupe1980/chainmesh/runnable"
	"github.com/hupe1980/chainmesh/tool"
)

// ErrMissingInput is returned when Run's inputs lack Options.InputKey.
var ErrMissingInput = errors.New("agent input missing")

// Reserved prompt variables filled by the executor.
const (
	VarTools      = "tools"
	VarToolNames  = "tool_names"
	VarInput      = "input"
	VarScratchpad = "agent_scratchpad"
	VarHistory    = "history"
)

// Options configure an Executor.
type Options struct {
	// MaxIterations bounds the number of model calls per Run. Must be > 0.
	MaxIterations int
	// Prompt renders the instruction messages. Defaults to DefaultPrompt().
	Prompt *prompt.ChatTemplate
	// SystemPrompt is sent as the leading system message of every model call.
	SystemPrompt string
	// Memory, when set, is rendered into the prompt and receives the exchange
	// after FINAL or LIMIT_REACHED.
	Memory memory.Memory
	// InputKey names the user input in Run's inputs.
	InputKey string
	// OutputKey names the answer in the outputs handed to Memory.SaveContext.
	OutputKey string
	Logger    logging.Logger
}

// Executor runs the ReAct loop. It only holds read-only configuration and is
// safe for concurrent use.
type Executor struct {
	model model.ChatModel
	tools *tool.Registry
	opts  Options
}

// NewExecutor validates the configuration and builds the tool registry.
// Duplicate tool names and a non-positive MaxIterations are configuration errors.
func NewExecutor(m model.ChatModel, tools []tool.Tool, optFns ...func(o *Options)) (*Executor, error) {
	opts := Options{
		MaxIterations: 5,
		SystemPrompt:  DefaultSystemPrompt,
		InputKey:      memory.DefaultInputKey,
		OutputKey:     memory.DefaultOutputKey,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)

	if m == nil {
		return nil, core.NewConfigurationError("agent executor", "model", "chat model is required")
	}
	if opts.MaxIterations <= 0 {
		return nil, core.NewConfigurationError("agent executor", "max_iterations", fmt.Sprintf("must be positive, got %d", opts.MaxIterations))
	}
	if opts.InputKey == "" {
		return nil, core.NewConfigurationError("agent executor", "input_key", "must not be empty")
	}
	if opts.Prompt == nil {
		opts.Prompt = DefaultPrompt()
	}

	registry, err := tool.NewRegistry(tools...)
	if err != nil {
		return nil, err
	}

	return &Executor{model: m, tools: registry, opts: opts}, nil
}

// Tools returns the executor's registry.
func (e *Executor) Tools() *tool.Registry { return e.tools }

// MaxIterations returns the configured iteration budget.
func (e *Executor) MaxIterations() int { return e.opts.MaxIterations }

// Run executes the loop for one request. inputs must contain InputKey; all
// other entries are available to custom prompt templates.
//
// Model failures abort the run and are returned as errors. When memory
// fails to save the exchange the Result is still returned with the error.
func (e *Executor) Run(ctx context.Context, inputs map[string]any) (*Result, error) {
	raw, ok := inputs[e.opts.InputKey]
	if !ok {
		return nil, fmt.Errorf("%w: key %q", ErrMissingInput, e.opts.InputKey)
	}
	input := fmt.Sprint(raw)

	state := newRunState()
	logger := withRun(e.opts.Logger, state.runID)
	logging.LogStep(logger, "START", 0, "tools", e.tools.Len(), "max_iterations", e.opts.MaxIterations)

	history, err := e.loadHistory(ctx, inputs)
	if err != nil {
		return nil, err
	}

	result, err := e.loop(ctx, state, logger, inputs, input, history)
	if err != nil {
		return nil, err
	}

	if e.opts.Memory != nil {
		outputs := map[string]any{e.opts.OutputKey: result.Output}
		if err := e.opts.Memory.SaveContext(ctx, inputs, outputs); err != nil {
			logger.Warn("agent.memory.save_failed", "error", err.Error())
			return result, fmt.Errorf("save agent memory: %w", err)
		}
	}
	return result, nil
}

func (e *Executor) loop(ctx context.Context, state *runState, logger logging.Logger, inputs map[string]any, input string, history map[string]string) (*Result, error) {
	catalogue := e.tools.Describe()
	toolNames := strings.Join(e.tools.Names(), ", ")

	for state.iteration < e.opts.MaxIterations {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("agent run cancelled at iteration %d: %w", state.iteration, err)
		}
		state.iteration++

		// THINK
		logging.LogStep(logger, "THINK", state.iteration)
		vars := make(map[string]any, len(inputs)+len(history)+4)
		for k, v := range inputs {
			vars[k] = v
		}
		vars[VarHistory] = ""
		for k, v := range history {
			vars[k] = v
		}
		vars[VarTools] = catalogue
		vars[VarToolNames] = toolNames
		vars[VarInput] = input
		vars[VarScratchpad] = state.scratchpad.String()

		rendered, err := e.opts.Prompt.Format(vars)
		if err != nil {
			return nil, fmt.Errorf("agent prompt: %w", err)
		}

		// MODEL_CALL
		messages := make([]core.Message, 0, len(rendered)+1)
		messages = append(messages, core.SystemMessage(e.opts.SystemPrompt))
		messages = append(messages, rendered...)

		logging.LogStep(logger, "MODEL_CALL", state.iteration)
		start := time.Now()
		reply, err := e.model.Invoke(ctx, messages)
		logging.LogModelCall(logger, e.model.Info().Name, len(messages), time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("agent model call failed at iteration %d: %w", state.iteration, err)
		}

		// PARSE
		p := parseOutput(reply.Content)
		logging.LogStep(logger, "PARSE", state.iteration, "outcome", p.outcome.String())

		switch p.outcome {
		case outcomeFinal:
			logging.LogStep(logger, "FINAL", state.iteration)
			return state.result(p.answer), nil
		case outcomeMalformed:
			logger.Warn("agent.output.malformed", "iteration", state.iteration, "output", p.answer)
			res := state.result(p.answer)
			res.Malformed = true
			return res, nil
		}

		// DISPATCH
		logging.LogStep(logger, "DISPATCH", state.iteration, "tool", p.action)
		start = time.Now()
		obs, toolErr := e.tools.Dispatch(ctx, p.action, p.input)
		logging.LogToolCall(logger, p.action, time.Since(start), toolErr)

		// OBSERVE
		state.observe(Step{
			Iteration:   state.iteration,
			Action:      p.action,
			Input:       p.input,
			Observation: obs,
			Log:         reply.Content,
			Failed:      toolErr != nil,
		})
		logging.LogStep(logger, "OBSERVE", state.iteration)
	}

	logging.LogStep(logger, "LIMIT_REACHED", state.iteration)
	res := state.result(StoppedMessage)
	res.Stopped = true
	return res, nil
}

func (s *runState) result(output string) *Result {
	return &Result{
		RunID:      s.runID,
		Output:     output,
		Iterations: s.iteration,
		Steps:      s.steps,
		Scratchpad: s.scratchpad.String(),
	}
}

// loadHistory renders the memory history as a transcript keyed by the
// memory key.
func (e *Executor) loadHistory(ctx context.Context, inputs map[string]any) (map[string]string, error) {
	if e.opts.Memory == nil {
		return nil, nil
	}
	vars, err := e.opts.Memory.LoadMemoryVariables(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("load agent memory: %w", err)
	}
	key := e.opts.Memory.MemoryKey()
	history := make([]core.Message, 0, len(vars[key]))
	for _, m := range vars[key] {
		if strings.TrimSpace(m.Content) != "" {
			history = append(history, m)
		}
	}
	return map[string]string{key: memory.BufferString(history)}, nil
}

// Invoke implements runnable.Runnable. The input is either the inputs map or
// a string bound to InputKey; the output is the answer string.
func (e *Executor) Invoke(ctx context.Context, input any) (any, error) {
	var inputs map[string]any
	switch v := input.(type) {
	case map[string]any:
		inputs = v
	case string:
		inputs = map[string]any{e.opts.InputKey: v}
	default:
		return nil, fmt.Errorf("%w: agent expects map[string]any or string, got %T", runnable.ErrInputType, input)
	}
	res, err := e.Run(ctx, inputs)
	if err != nil {
		return nil, err
	}
	return res.Output, nil
}

func withRun(l logging.Logger, runID string) logging.Logger {
	if sl, ok := l.(*logging.StructuredLogger); ok {
		return sl.WithComponent("agent").WithRun(runID)
	}
	return l
}
