package retriever

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/chainmesh/core"
	"github.com/hupe1980/chainmesh/runnable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded() *InMemory {
	s := NewInMemory(2)
	s.Add(
		core.NewDocument("The Eiffel Tower was completed in 1889.", map[string]any{"source": "paris.txt"}),
		core.NewDocument("Berlin is the capital of Germany.", nil),
		core.NewDocument("The tower is 330 metres tall; the Eiffel Tower is in Paris.", nil),
	)
	return s
}

func TestInMemory_Retrieve(t *testing.T) {
	s := seeded()
	assert.Equal(t, 3, s.Len())

	docs, err := s.Retrieve(context.Background(), "When was the Eiffel Tower completed?")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "The Eiffel Tower was completed in 1889.", docs[0].Content)
	assert.Equal(t, "paris.txt", docs[0].Metadata["source"])
	assert.Equal(t, "doc_0", docs[0].Metadata["id"])
	assert.InDelta(t, 1.0, docs[0].Metadata["score"], 1e-9)

	none, err := s.Retrieve(context.Background(), "quantum chromodynamics")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestInMemory_DoesNotLeakMetadata(t *testing.T) {
	md := map[string]any{"source": "a"}
	s := NewInMemory(1)
	s.Add(core.NewDocument("alpha beta", md))
	md["source"] = "mutated"

	docs, err := s.Retrieve(context.Background(), "alpha")
	require.NoError(t, err)
	assert.Equal(t, "a", docs[0].Metadata["source"])
}

func TestRAGPipeline(t *testing.T) {
	ctx := context.Background()
	fanOut := runnable.MustParallel(
		runnable.Branch{Key: "context", Runnable: runnable.MustSequence(AsRunnable(seeded()), FormatDocuments())},
		runnable.Branch{Key: "question", Runnable: runnable.Passthrough()},
	)

	out, err := fanOut.Invoke(ctx, "Eiffel completed")
	require.NoError(t, err)
	m := out.(map[string]any)
	assert.Equal(t, "Eiffel completed", m["question"])
	assert.Contains(t, m["context"], "1889")
	assert.Contains(t, m["context"], DocumentSeparator)
}

func TestAsRunnable_Errors(t *testing.T) {
	boom := errors.New("index offline")
	r := AsRunnable(Func(func(context.Context, string) ([]core.Document, error) { return nil, boom }))
	_, err := r.Invoke(context.Background(), "q")
	assert.ErrorIs(t, err, boom)

	_, err = r.Invoke(context.Background(), 7)
	assert.ErrorIs(t, err, runnable.ErrInputType)
}

func TestJoinDocuments(t *testing.T) {
	assert.Equal(t, "a\n\nb", JoinDocuments([]core.Document{{Content: "a"}, {Content: "b"}}))
	assert.Equal(t, "", JoinDocuments(nil))
}
