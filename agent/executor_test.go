package agent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/hupe1980/chainmesh/core"
	"github.com/hupe1980/chainmesh/internal/testutil"
	"github.com/hupe1980/chainmesh/logging"
	"github.com/hupe1980/chainmesh/memory"
	"github.com/hupe1980/chainmesh/model"
	"github.com/hupe1980/chainmesh/prompt"
	"github.com/hupe1980/chainmesh/runnable"
	"github.com/hupe1980/chainmesh/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echo(_ context.Context, input string) (string, error) { return input, nil }

func brokenTool(_ context.Context, _ string) (string, error) { return "", errors.New("backend unavailable") }

func echoTool(t *testing.T) tool.Tool {
	t.Helper()
	return tool.MustFunctionTool(echo, func(o *tool.Options) { o.Description = "Returns its input verbatim." })
}

func newExecutor(t *testing.T, m model.ChatModel, tools []tool.Tool, optFns ...func(o *Options)) *Executor {
	t.Helper()
	e, err := NewExecutor(m, tools, optFns...)
	require.NoError(t, err)
	return e
}

func humanPrompt(t *testing.T, call []core.Message) string {
	t.Helper()
	require.Len(t, call, 2)
	assert.Equal(t, core.SystemMessage(DefaultSystemPrompt), call[0])
	assert.Equal(t, core.RoleHuman, call[1].Role)
	return call[1].Content
}

func TestExecutor_FinalAnswerOnFirstCall(t *testing.T) {
	m := model.NewMockModel("Final Answer: 42")
	e := newExecutor(t, m, nil)

	out, err := e.Invoke(context.Background(), map[string]any{"input": "anything"})
	require.NoError(t, err)
	assert.Equal(t, "42", out)
	assert.Equal(t, 1, m.CallCount())
}

func TestExecutor_StopsAfterMaxIterations(t *testing.T) {
	for _, n := range []int{1, 2, 5, 8} {
		t.Run(fmt.Sprintf("N=%d", n), func(t *testing.T) {
			m := model.NewMockModel().WithFallback("Thought: keep going\nAction: echo\nAction Input: again")
			e := newExecutor(t, m, []tool.Tool{echoTool(t)}, func(o *Options) { o.MaxIterations = n })

			res, err := e.Run(context.Background(), map[string]any{"input": "loop forever"})
			require.NoError(t, err)
			assert.Equal(t, StoppedMessage, res.Output)
			assert.True(t, res.Stopped)
			assert.Equal(t, n, res.Iterations)
			assert.Len(t, res.Steps, n)
			assert.Equal(t, n, m.CallCount())
		})
	}
}

func TestExecutor_EchoActionThenFinal(t *testing.T) {
	m := model.NewMockModel("Action: echo\nAction Input: hi", "Final Answer: done")
	e := newExecutor(t, m, []tool.Tool{echoTool(t)})

	res, err := e.Run(context.Background(), map[string]any{"input": "say hi"})
	require.NoError(t, err)
	assert.Equal(t, "done", res.Output)
	assert.Equal(t, 2, m.CallCount())

	calls := m.Calls()
	first := humanPrompt(t, calls[0])
	second := humanPrompt(t, calls[1])
	assert.NotContains(t, first, "Observation: hi")
	assert.Contains(t, second, "Observation: hi")
	assert.Contains(t, second, "Action: echo\nAction Input: hi\nObservation: hi\n")

	require.Len(t, res.Steps, 1)
	assert.Equal(t, Step{
		Iteration:   1,
		Action:      "echo",
		Input:       "hi",
		Observation: "hi",
		Log:         "Action: echo\nAction Input: hi",
	}, res.Steps[0])
}

func TestExecutor_PromptContainsCatalogue(t *testing.T) {
	m := model.NewMockModel("Final Answer: ok")
	e := newExecutor(t, m, []tool.Tool{echoTool(t)})

	_, err := e.Run(context.Background(), map[string]any{"input": "What is up?"})
	require.NoError(t, err)

	p := humanPrompt(t, m.Calls()[0])
	assert.Contains(t, p, "- echo: Returns its input verbatim.")
	assert.Contains(t, p, "should be one of [echo]")
	assert.Contains(t, p, "User Query: What is up?")
	assert.NotContains(t, p, "Conversation so far")
}

func TestExecutor_MissingToolContinues(t *testing.T) {
	m := model.NewMockModel("Action: missing_tool\nAction Input: x", "Final Answer: recovered")
	e := newExecutor(t, m, []tool.Tool{echoTool(t)})

	res, err := e.Run(context.Background(), map[string]any{"input": "q"})
	require.NoError(t, err)
	assert.Equal(t, "recovered", res.Output)
	assert.Equal(t, 2, m.CallCount())

	require.Len(t, res.Steps, 1)
	assert.Contains(t, res.Steps[0].Observation, "not found")
	assert.True(t, res.Steps[0].Failed)
	assert.Contains(t, humanPrompt(t, m.Calls()[1]), "not found")
}

func TestExecutor_ToolErrorBecomesObservation(t *testing.T) {
	broken := tool.MustFunctionTool(brokenTool, func(o *tool.Options) { o.Description = "Always fails." })
	m := model.NewMockModel("Action: broken_tool\nAction Input: x", "Final Answer: gave up")
	e := newExecutor(t, m, []tool.Tool{broken})

	res, err := e.Run(context.Background(), map[string]any{"input": "q"})
	require.NoError(t, err)
	assert.Equal(t, "gave up", res.Output)
	require.Len(t, res.Steps, 1)
	assert.Equal(t, "tool execution error: backend unavailable", res.Steps[0].Observation)
}

func TestExecutor_MalformedOutputIsFinalAnswer(t *testing.T) {
	m := model.NewMockModel("  I think the answer is blue.  \n")
	e := newExecutor(t, m, []tool.Tool{echoTool(t)})

	res, err := e.Run(context.Background(), map[string]any{"input": "sky colour?"})
	require.NoError(t, err)
	assert.Equal(t, "I think the answer is blue.", res.Output)
	assert.True(t, res.Malformed)
	assert.False(t, res.Stopped)
	assert.Equal(t, 1, m.CallCount())
}

func TestExecutor_FinalAnswerWinsOverAction(t *testing.T) {
	m := model.NewMockModel("Action: echo\nAction Input: hi\nFinal Answer: short-circuit")
	e := newExecutor(t, m, []tool.Tool{echoTool(t)})

	out, err := e.Invoke(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "short-circuit", out)
}

func TestExecutor_ModelErrorPropagates(t *testing.T) {
	boom := errors.New("connection reset")
	m := model.NewMockModel("Action: echo\nAction Input: a").AddError(boom)
	e := newExecutor(t, m, []tool.Tool{echoTool(t)})

	res, err := e.Run(context.Background(), map[string]any{"input": "q"})
	assert.Nil(t, res)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, model.ErrTransport)

	var me *model.Error
	assert.ErrorAs(t, err, &me)
}

func TestExecutor_Configuration(t *testing.T) {
	m := model.NewMockModel()

	_, err := NewExecutor(m, []tool.Tool{echoTool(t), echoTool(t)})
	assert.ErrorIs(t, err, core.ErrConfiguration)

	for _, n := range []int{0, -3} {
		_, err = NewExecutor(m, nil, func(o *Options) { o.MaxIterations = n })
		assert.ErrorIs(t, err, core.ErrConfiguration)
	}

	_, err = NewExecutor(nil, nil)
	assert.ErrorIs(t, err, core.ErrConfiguration)

	e := newExecutor(t, m, []tool.Tool{echoTool(t)})
	assert.Equal(t, 5, e.MaxIterations())
	assert.Equal(t, []string{"echo"}, e.Tools().Names())
}

func TestExecutor_InputValidation(t *testing.T) {
	e := newExecutor(t, model.NewMockModel("Final Answer: x"), nil)

	_, err := e.Run(context.Background(), map[string]any{"question": "q"})
	assert.ErrorIs(t, err, ErrMissingInput)

	_, err = e.Invoke(context.Background(), 12)
	assert.ErrorIs(t, err, runnable.ErrInputType)
}

func TestExecutor_Cancelled(t *testing.T) {
	m := model.NewMockModel("Final Answer: never")
	e := newExecutor(t, m, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Run(ctx, map[string]any{"input": "q"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, m.CallCount())
}

var queryPattern = regexp.MustCompile(`User Query: (\S+)`)

// routingModel asks for one echo of the query, then answers with the last observation.
func routingModel() model.ChatModel {
	return model.Func(func(_ context.Context, msgs []core.Message) (core.Message, error) {
		p := msgs[len(msgs)-1].Content
		pad := p[strings.LastIndex(p, "Agent Scratchpad:"):]
		if i := strings.LastIndex(pad, "Observation: "); i >= 0 {
			obs := strings.TrimSpace(pad[i+len("Observation: "):])
			return core.AssistantMessage("Final Answer: " + obs), nil
		}
		q := queryPattern.FindStringSubmatch(p)[1]
		return core.AssistantMessage("Action: echo\nAction Input: " + q), nil
	})
}

func TestExecutor_ConcurrentRunsDoNotShareState(t *testing.T) {
	e := newExecutor(t, routingModel(), []tool.Tool{echoTool(t)})

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			q := fmt.Sprintf("query-%d", i)
			res, err := e.Run(context.Background(), map[string]any{"input": q})
			if assert.NoError(t, err) {
				assert.Equal(t, q, res.Output)
				assert.Equal(t, 2, res.Iterations)
				assert.Len(t, res.Steps, 1)
			}
		}(i)
	}
	wg.Wait()
}

func TestExecutor_Memory(t *testing.T) {
	mem := memory.NewBuffer()
	m := model.NewMockModel("Final Answer: Paris", "Final Answer: About 2 million")
	e := newExecutor(t, m, nil, func(o *Options) { o.Memory = mem })

	_, err := e.Run(context.Background(), map[string]any{"input": "Capital of France?"})
	require.NoError(t, err)
	_, err = e.Run(context.Background(), map[string]any{"input": "Population?"})
	require.NoError(t, err)

	second := humanPrompt(t, m.Calls()[1])
	assert.Contains(t, second, "Conversation so far:\nHuman: Capital of France?\nAI: Paris")

	assert.Equal(t, []core.Message{
		core.HumanMessage("Capital of France?"),
		core.AssistantMessage("Paris"),
		core.HumanMessage("Population?"),
		core.AssistantMessage("About 2 million"),
	}, mem.Messages())
}

func TestExecutor_SummaryMemorySkipsEmptySynopsis(t *testing.T) {
	mem, err := memory.NewSummary(model.NewMockModel().WithFallback("The user asked for the capital of France."))
	require.NoError(t, err)
	m := model.NewMockModel("Final Answer: Paris", "Final Answer: About 2 million")
	e := newExecutor(t, m, nil, func(o *Options) { o.Memory = mem })

	_, err = e.Run(context.Background(), map[string]any{"input": "Capital of France?"})
	require.NoError(t, err)
	_, err = e.Run(context.Background(), map[string]any{"input": "Population?"})
	require.NoError(t, err)

	first := humanPrompt(t, m.Calls()[0])
	assert.NotContains(t, first, "Conversation so far")
	assert.NotContains(t, first, "System: ")

	second := humanPrompt(t, m.Calls()[1])
	assert.Contains(t, second, "Conversation so far:\nSystem: The user asked for the capital of France.")
}

func TestExecutor_MemorySavedOnLimit(t *testing.T) {
	mem := memory.NewBuffer()
	m := model.NewMockModel().WithFallback("Action: echo\nAction Input: x")
	e := newExecutor(t, m, []tool.Tool{echoTool(t)}, func(o *Options) {
		o.Memory = mem
		o.MaxIterations = 2
	})

	_, err := e.Run(context.Background(), map[string]any{"input": "q"})
	require.NoError(t, err)
	assert.Equal(t, core.AssistantMessage(StoppedMessage), mem.Messages()[1])
}

func TestExecutor_CustomPromptAndExtraInputs(t *testing.T) {
	tmpl := prompt.MustChatTemplate(
		prompt.Human("Article: {{.article_title}}\nTools: {{.tool_names}}\nQ: {{.input}}\n{{.agent_scratchpad}}"),
	)
	m := model.NewMockModel("Final Answer: ok")
	e := newExecutor(t, m, []tool.Tool{echoTool(t)}, func(o *Options) {
		o.Prompt = tmpl
		o.SystemPrompt = "You are an editor."
	})

	_, err := e.Run(context.Background(), map[string]any{"input": "tag it", "article_title": "Rates rise"})
	require.NoError(t, err)

	call := m.Calls()[0]
	assert.Equal(t, core.SystemMessage("You are an editor."), call[0])
	assert.Equal(t, "Article: Rates rise\nTools: echo\nQ: tag it\n", call[1].Content)
}

func TestExecutor_LogsStateTransitions(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(&logging.LoggerConfig{Level: logging.LogLevelDebug, Format: "json", Output: &buf})
	m := model.NewMockModel("Action: echo\nAction Input: hi", "no markers at all")
	e := newExecutor(t, m, []tool.Tool{echoTool(t)}, func(o *Options) { o.Logger = logger })

	_, err := e.Run(context.Background(), map[string]any{"input": "q"})
	require.NoError(t, err)

	out := buf.String()
	for _, s := range []string{"START", "THINK", "MODEL_CALL", "PARSE", "DISPATCH", "OBSERVE"} {
		assert.Contains(t, out, `"state":"`+s+`"`)
	}
	assert.Contains(t, out, "agent.output.malformed")
	assert.Contains(t, out, `"component":"agent"`)
	assert.Contains(t, out, "tool.call.completed")
}

func TestExecutor_ToolReceivesActionInput(t *testing.T) {
	lookup := testutil.NewRecordingTool("lookup", "Looks up facts.", func(context.Context, string) (string, error) {
		return "Paris", nil
	})
	m := model.NewMockModel(
		testutil.Action("I should look it up", "lookup", "capital of France"),
		testutil.Final("I know it now", "Paris"),
	)
	e := newExecutor(t, m, []tool.Tool{lookup})

	res, err := e.Run(context.Background(), map[string]any{"input": "What is the capital of France?"})
	require.NoError(t, err)
	assert.Equal(t, "Paris", res.Output)
	assert.Equal(t, []string{"capital of France"}, lookup.Inputs())
	require.Len(t, res.Steps, 1)
	assert.Equal(t, "Thought: I should look it up\nAction: lookup\nAction Input: capital of France", res.Steps[0].Log)
}
