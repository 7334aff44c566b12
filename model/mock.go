package model

import (
	"context"
	"errors"
	"sync"

	"github.com/hupe1980/chainmesh/core"
)

// ErrScriptExhausted is returned by a MockModel that ran out of scripted
// responses and has no fallback.
var ErrScriptExhausted = errors.New("mock model script exhausted")

// MockModel is a lightweight, deterministic ChatModel for tests & examples.
// Responses are replayed in order; once the script is exhausted the fallback
// (if any) is returned forever. Every received message list is recorded.
// It is safe for concurrent use.
type MockModel struct {
	mu        sync.Mutex
	info      Info
	responses []mockResponse
	fallback  *mockResponse
	calls     [][]core.Message
}

type mockResponse struct {
	text string
	err  error
}

// NewMockModel constructs a MockModel scripted with the given responses.
func NewMockModel(responses ...string) *MockModel {
	m := &MockModel{info: Info{Name: "mock", Provider: "mock"}}
	for _, r := range responses {
		m.responses = append(m.responses, mockResponse{text: r})
	}
	return m
}

// AddResponse appends a canned completion to the script.
func (m *MockModel) AddResponse(text string) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, mockResponse{text: text})
	return m
}

// AddError appends a failure to the script. It is returned wrapped as *Error.
func (m *MockModel) AddError(err error) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, mockResponse{err: err})
	return m
}

// WithFallback sets the response returned after the script is exhausted.
func (m *MockModel) WithFallback(text string) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = &mockResponse{text: text}
	return m
}

// Invoke implements ChatModel.
func (m *MockModel) Invoke(ctx context.Context, messages []core.Message) (core.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, core.CloneMessages(messages))

	if err := ctx.Err(); err != nil {
		return core.Message{}, NewError(m.info.Provider, m.info.Name, err)
	}

	var next mockResponse
	switch {
	case len(m.responses) > 0:
		next = m.responses[0]
		m.responses = m.responses[1:]
	case m.fallback != nil:
		next = *m.fallback
	default:
		return core.Message{}, NewError(m.info.Provider, m.info.Name, ErrScriptExhausted)
	}
	if next.err != nil {
		return core.Message{}, NewError(m.info.Provider, m.info.Name, next.err)
	}
	return core.AssistantMessage(next.text), nil
}

// Calls returns a copy of every message list received so far.
func (m *MockModel) Calls() [][]core.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]core.Message, len(m.calls))
	for i, c := range m.calls {
		out[i] = core.CloneMessages(c)
	}
	return out
}

// CallCount returns how many times Invoke was called.
func (m *MockModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Info implements ChatModel.
func (m *MockModel) Info() Info { return m.info }
