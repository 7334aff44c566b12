package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/chainmesh/evaluation"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// mockConfig writes a config scripting the mock provider with responses.
func mockConfig(t *testing.T, responses ...string) string {
	t.Helper()
	var sb strings.Builder
	sb.WriteString("model:\n  provider: mock\n  responses:\n")
	for _, r := range responses {
		b, err := json.Marshal(r)
		require.NoError(t, err)
		sb.WriteString("    - " + string(b) + "\n")
	}
	sb.WriteString("logging:\n  level: error\n  format: text\n")
	return writeFile(t, t.TempDir(), "chainmesh.yaml", sb.String())
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestAgentCmd(t *testing.T) {
	cfg := mockConfig(t, "Thought: compute it\nAction: calculator\nAction Input: 12 * (3 + 4)", "Final Answer: 84")
	out, err := run(t, "", "--config", cfg, "agent", "--steps", "What is 12 * (3 + 4)?")
	require.NoError(t, err)
	assert.Equal(t, "[1] calculator(12 * (3 + 4)) -> 84\n84\n", out)
}

func TestChatCmd_SingleTurn(t *testing.T) {
	out, err := run(t, "", "--config", mockConfig(t, "hi there"), "chat", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi there\n", out)
}

func TestChatCmd_Interactive(t *testing.T) {
	out, err := run(t, "hello\n\nexit\n", "--config", mockConfig(t, "hi there"), "chat")
	require.NoError(t, err)
	assert.Equal(t, "> hi there\n> > \n", out)
}

func TestRAGCmd(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "facts.txt", "The Eiffel Tower was completed in 1889.\n\nBananas are yellow.")
	out, err := run(t, "", "--config", mockConfig(t, "1889."), "rag", "--file", doc, "When was the Eiffel Tower completed?")
	require.NoError(t, err)
	assert.Equal(t, "1889.\n", out)

	_, err = run(t, "", "--config", mockConfig(t), "rag", "question")
	assert.ErrorContains(t, err, "--file")
}

func TestEvalCmd(t *testing.T) {
	ds := writeFile(t, t.TempDir(), "ds.yaml", `
- name: answer
  inputs: {input: "What is six times seven?"}
  eval_args: {expected: "42"}
`)
	out, err := run(t, "", "--config", mockConfig(t, "42"), "eval", "--dataset", ds, "--metric", "exact", "--json")
	require.NoError(t, err)

	var report evaluation.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 1.0, report.AverageScore)
	require.Len(t, report.Cases, 1)
	assert.Equal(t, "42", report.Cases[0].Output)
}

func TestInvalidConfig(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "bad.yaml", "model: {provider: nope}\n")
	_, err := run(t, "", "--config", cfg, "chat", "hi")
	assert.ErrorContains(t, err, "failed to load config")
}
