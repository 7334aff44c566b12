package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hupe1980/chainmesh/core"
	"github.com/hupe1980/chainmesh/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const messageBody = `{
  "id": "msg_1",
  "type": "message",
  "role": "assistant",
  "model": "claude-3-5-sonnet-20241022",
  "content": [{"type": "text", "text": "Final Answer: "}, {"type": "text", "text": "42"}],
  "stop_reason": "end_turn",
  "usage": {"input_tokens": 3, "output_tokens": 2}
}`

func newTestModel(t *testing.T, h http.HandlerFunc) *Model {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	m, err := NewModel(func(o *Options) {
		o.APIKey = "test"
		o.BaseURL = srv.URL + "/"
	})
	require.NoError(t, err)
	return m
}

func TestModel_Invoke(t *testing.T) {
	var req struct {
		System []struct {
			Text string `json:"text"`
		} `json:"system"`
		Messages []struct {
			Role string `json:"role"`
		} `json:"messages"`
	}
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(messageBody))
	})

	out, err := m.Invoke(context.Background(), []core.Message{
		core.SystemMessage("You are an AI agent."),
		core.HumanMessage("q"),
	})
	require.NoError(t, err)
	assert.Equal(t, core.AssistantMessage("Final Answer: 42"), out)

	require.Len(t, req.System, 1)
	assert.Equal(t, "You are an AI agent.", req.System[0].Text)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, "user", req.Messages[0].Role)
}

func TestModel_TransportError(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`))
	})

	_, err := m.Invoke(context.Background(), []core.Message{core.HumanMessage("x")})
	assert.ErrorIs(t, err, model.ErrTransport)
	assert.NotErrorIs(t, err, model.ErrTimeout)
}

func TestModel_NoTextContent(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "id": "msg_2",
  "type": "message",
  "role": "assistant",
  "model": "claude-3-5-sonnet-20241022",
  "content": [{"type": "tool_use", "id": "toolu_1", "name": "search", "input": {"q": "go"}}],
  "stop_reason": "tool_use",
  "usage": {"input_tokens": 3, "output_tokens": 2}
}`))
	})

	_, err := m.Invoke(context.Background(), []core.Message{core.HumanMessage("x")})
	var me *model.Error
	require.ErrorAs(t, err, &me)
	assert.ErrorIs(t, err, model.ErrTransport)
	assert.Contains(t, err.Error(), "empty response content")
}

func TestNewModel_Configuration(t *testing.T) {
	_, err := NewModel(func(o *Options) { o.Model = "" })
	assert.ErrorIs(t, err, core.ErrConfiguration)

	_, err = NewModel(func(o *Options) { o.MaxTokens = 0 })
	assert.ErrorIs(t, err, core.ErrConfiguration)
}

func TestBuildMessages_SkipsSystem(t *testing.T) {
	msgs := []core.Message{core.SystemMessage("s"), core.HumanMessage("h"), core.AssistantMessage("a")}
	assert.Len(t, buildMessages(msgs), 2)
	assert.Len(t, extractSystem(msgs), 1)
}
