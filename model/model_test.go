package model

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hupe1980/chainmesh/core"
	"github.com/hupe1980/chainmesh/runnable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockModel_ReplaysScriptThenFallback(t *testing.T) {
	m := NewMockModel("one", "two").WithFallback("again")
	ctx := context.Background()

	for _, want := range []string{"one", "two", "again", "again"} {
		got, err := m.Invoke(ctx, []core.Message{core.HumanMessage("hi")})
		require.NoError(t, err)
		assert.Equal(t, core.RoleAssistant, got.Role)
		assert.Equal(t, want, got.Content)
	}
	assert.Equal(t, 4, m.CallCount())
}

func TestMockModel_Exhausted(t *testing.T) {
	m := NewMockModel()
	_, err := m.Invoke(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrScriptExhausted)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestMockModel_RecordsCallsAsCopies(t *testing.T) {
	m := NewMockModel("ok")
	msgs := []core.Message{core.SystemMessage("s"), core.HumanMessage("h")}
	_, err := m.Invoke(context.Background(), msgs)
	require.NoError(t, err)

	msgs[0] = core.HumanMessage("mutated")
	calls := m.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "s", calls[0][0].Content)
}

func TestMockModel_ScriptedError(t *testing.T) {
	boom := errors.New("boom")
	m := NewMockModel().AddError(boom).AddResponse("after")

	_, err := m.Invoke(context.Background(), nil)
	assert.ErrorIs(t, err, boom)

	got, err := m.Invoke(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Content)
}

func TestError_Classification(t *testing.T) {
	timeout := NewError("openai", "gpt", fmt.Errorf("post: %w", context.DeadlineExceeded))
	assert.ErrorIs(t, timeout, ErrTimeout)
	assert.NotErrorIs(t, timeout, ErrTransport)
	assert.Contains(t, timeout.Error(), "timeout")

	transport := NewError("openai", "gpt", errors.New("connection refused"))
	assert.ErrorIs(t, transport, ErrTransport)
	assert.NotErrorIs(t, transport, ErrTimeout)

	assert.Nil(t, NewError("openai", "gpt", nil))

	// already wrapped errors are not double wrapped
	var me *Error
	require.ErrorAs(t, NewError("x", "y", transport), &me)
	assert.Equal(t, "openai", me.Provider)
}

func TestAsRunnable(t *testing.T) {
	m := NewMockModel("a", "b", "c")
	r := AsRunnable(m)
	ctx := context.Background()

	out, err := r.Invoke(ctx, []core.Message{core.HumanMessage("x")})
	require.NoError(t, err)
	assert.Equal(t, core.AssistantMessage("a"), out)

	_, err = r.Invoke(ctx, core.HumanMessage("x"))
	require.NoError(t, err)

	_, err = r.Invoke(ctx, "plain")
	require.NoError(t, err)
	assert.Equal(t, []core.Message{core.HumanMessage("plain")}, m.Calls()[2])

	_, err = r.Invoke(ctx, 42)
	assert.ErrorIs(t, err, runnable.ErrInputType)
}

func TestAsRunnable_NilModel(t *testing.T) {
	_, err := AsRunnable(nil).Invoke(context.Background(), "hi")
	assert.ErrorIs(t, err, core.ErrConfiguration)
}
