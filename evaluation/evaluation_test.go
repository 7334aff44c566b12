package evaluation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/chainmesh/core"
	"github.com/hupe1980/chainmesh/model"
	"github.com/hupe1980/chainmesh/runnable"
)

const datasetYAML = `
cases:
  - name: eiffel
    inputs:
      input: When was the Eiffel Tower completed?
    eval_args:
      query: When was the Eiffel Tower completed?
      context: The Eiffel Tower was completed in 1889.
  - name: moon
    inputs:
      input: Who first walked on the moon?
    eval_args:
      query: Who first walked on the moon?
      context: Neil Armstrong walked on the moon in 1969.
`

func echoInput() runnable.Runnable {
	return runnable.Func(func(_ context.Context, in any) (any, error) {
		return in.(map[string]any)["input"], nil
	})
}

func TestParseDataset(t *testing.T) {
	ds, err := ParseDataset([]byte(datasetYAML))
	require.NoError(t, err)
	require.Len(t, ds, 2)
	assert.Equal(t, "eiffel", ds[0].Name)
	assert.Equal(t, "The Eiffel Tower was completed in 1889.", ds[0].EvalArgs["context"])

	list, err := ParseDataset([]byte("- name: a\n  inputs: {input: x}\n"))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "x", list[0].Inputs["input"])
}

func TestLoadDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ds.yaml")
	require.NoError(t, os.WriteFile(path, []byte(datasetYAML), 0o600))
	ds, err := LoadDataset(path)
	require.NoError(t, err)
	assert.Len(t, ds, 2)
}

func TestHarness_Faithfulness(t *testing.T) {
	ds, err := ParseDataset([]byte(datasetYAML))
	require.NoError(t, err)

	judge := model.NewMockModel(" Yes ", "no")
	h, err := NewHarness(echoInput(), Faithfulness(judge), ds)
	require.NoError(t, err)

	report, err := h.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Cases, 2)
	assert.Equal(t, 1.0, report.Cases[0].Score)
	assert.Equal(t, 0.0, report.Cases[1].Score)
	assert.InDelta(t, 0.5, report.AverageScore, 1e-9)

	calls := judge.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, core.RoleSystem, calls[0][0].Role)
	assert.True(t, strings.Contains(calls[0][1].Content, "Context: The Eiffel Tower was completed in 1889."))
	assert.True(t, strings.Contains(calls[0][1].Content, "Answer: When was the Eiffel Tower completed?"))
}

func TestHarness_EmptyDataset(t *testing.T) {
	h, err := NewHarness(echoInput(), ExactMatch(), nil)
	require.NoError(t, err)
	report, err := h.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.0, report.AverageScore)
	assert.Empty(t, report.Cases)
}

func TestHarness_Errors(t *testing.T) {
	boom := errors.New("boom")
	failing := runnable.Func(func(context.Context, any) (any, error) { return nil, boom })

	h, err := NewHarness(failing, ExactMatch(), Dataset{{Name: "x", Inputs: map[string]any{"input": "a"}}})
	require.NoError(t, err)
	_, err = h.Run(context.Background())
	assert.ErrorIs(t, err, boom)

	h, err = NewHarness(echoInput(), Faithfulness(model.NewMockModel("yes")), Dataset{{Inputs: map[string]any{"input": "a"}}})
	require.NoError(t, err)
	_, err = h.Run(context.Background())
	assert.ErrorContains(t, err, `eval arg "query" is missing`)

	_, err = NewHarness(nil, ExactMatch(), nil)
	assert.ErrorIs(t, err, core.ErrConfiguration)
}

func TestExactMatch(t *testing.T) {
	ds := Dataset{
		{Name: "hit", Inputs: map[string]any{"input": "42"}, EvalArgs: map[string]any{"expected": "42"}},
		{Name: "miss", Inputs: map[string]any{"input": "41"}, EvalArgs: map[string]any{"expected": "42"}},
	}
	h, err := NewHarness(echoInput(), ExactMatch(), ds)
	require.NoError(t, err)
	report, err := h.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1.0, report.Cases[0].Score)
	assert.Equal(t, `expected "42"`, report.Cases[1].Reason)
}
