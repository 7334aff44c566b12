package parser

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/chainmesh/core"
	"github.com/hupe1980/chainmesh/runnable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type metadata struct {
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Keywords []string `json:"keywords"`
	Score    int      `json:"score,omitempty"`
}

func TestStrOutputParser(t *testing.T) {
	p := NewStrOutputParser()
	ctx := context.Background()

	out, err := p.Invoke(ctx, core.AssistantMessage("hi"))
	require.NoError(t, err)
	assert.Equal(t, "hi", out)

	out, err = p.Invoke(ctx, []core.Message{
		core.HumanMessage("q"),
		core.AssistantMessage("first"),
		core.AssistantMessage("last"),
		core.HumanMessage("after"),
	})
	require.NoError(t, err)
	assert.Equal(t, "last", out)

	_, err = p.Invoke(ctx, []core.Message{core.HumanMessage("q")})
	assert.ErrorIs(t, err, runnable.ErrInputType)

	_, err = p.Invoke(ctx, 1)
	assert.ErrorIs(t, err, runnable.ErrInputType)
}

func TestSchemaParser_Parse(t *testing.T) {
	p, err := NewSchemaParser[metadata]()
	require.NoError(t, err)

	got, err := p.Parse("```json\n{\"title\": \"T\", \"summary\": \"S\", \"keywords\": [\"a\", \"b\"]}\n```")
	require.NoError(t, err)
	assert.Equal(t, metadata{Title: "T", Summary: "S", Keywords: []string{"a", "b"}}, got)

	got, err = p.Parse(`Here you go: {"title": "T", "summary": "S", "keywords": [], "score": 3,}`)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Score)
}

func TestSchemaParser_IgnoresExtraKeys(t *testing.T) {
	p, err := NewSchemaParser[metadata]()
	require.NoError(t, err)

	got, err := p.Parse(`{"title":"T","summary":"S","keywords":[],"confidence":0.9}`)
	require.NoError(t, err)
	assert.Equal(t, metadata{Title: "T", Summary: "S", Keywords: []string{}}, got)
}

func TestSchemaParser_MissingRequiredField(t *testing.T) {
	p, err := NewSchemaParser[metadata]()
	require.NoError(t, err)

	raw := `{"title": "T", "keywords": []}`
	got, err := p.Parse(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
	assert.Equal(t, metadata{}, got)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, raw, pe.Raw)
}

func TestSchemaParser_WrongTypeAndNoJSON(t *testing.T) {
	p, err := NewSchemaParser[metadata]()
	require.NoError(t, err)

	_, err = p.Parse(`{"title": 1, "summary": "S", "keywords": []}`)
	assert.ErrorIs(t, err, ErrParse)

	_, err = p.Parse("I cannot help with that.")
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "I cannot help with that.", pe.Raw)
}

func TestSchemaParser_FormatInstructions(t *testing.T) {
	p, err := NewSchemaParser[metadata]()
	require.NoError(t, err)
	fi := p.FormatInstructions()
	assert.Contains(t, fi, "JSON schema")
	assert.Contains(t, fi, `"keywords"`)
	assert.Contains(t, fi, `"required"`)
}

func TestSchemaParser_Invoke(t *testing.T) {
	p, err := NewSchemaParser[metadata]()
	require.NoError(t, err)

	out, err := p.Invoke(context.Background(), core.AssistantMessage(`{"title":"T","summary":"S","keywords":["x"]}`))
	require.NoError(t, err)
	assert.Equal(t, "T", out.(metadata).Title)

	_, err = p.Invoke(context.Background(), 5)
	assert.ErrorIs(t, err, ErrParse)
}
