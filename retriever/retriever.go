// Package retriever defines the document-retrieval boundary consumed as one
// stage of a runnable pipeline, plus a keyword-scored in-memory store for
// demos and tests. Vector stores are external collaborators that only need
// to implement Retriever.
package retriever

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/chainmesh/core"
	"github.com/hupe1980/chainmesh/runnable"
)

// Retriever returns the documents relevant to a query, most relevant first.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]core.Document, error)
}

// Func adapts a function to Retriever.
type Func func(ctx context.Context, query string) ([]core.Document, error)

// Retrieve calls f(ctx, query).
func (f Func) Retrieve(ctx context.Context, query string) ([]core.Document, error) {
	return f(ctx, query)
}

// AsRunnable exposes r as a pipeline stage mapping a query string to []core.Document.
func AsRunnable(r Retriever) runnable.Runnable {
	return runnable.Lambda(func(ctx context.Context, query string) ([]core.Document, error) {
		docs, err := r.Retrieve(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("retrieve: %w", err)
		}
		return docs, nil
	})
}

// DocumentSeparator joins document contents in FormatDocuments.
const DocumentSeparator = "\n\n"

// JoinDocuments concatenates document contents in order.
func JoinDocuments(docs []core.Document) string {
	parts := make([]string, len(docs))
	for i, d := range docs {
		parts[i] = d.Content
	}
	return strings.Join(parts, DocumentSeparator)
}

// FormatDocuments is a pipeline stage turning []core.Document into one context string.
func FormatDocuments() runnable.Runnable {
	return runnable.Lambda(func(_ context.Context, docs []core.Document) (string, error) {
		return JoinDocuments(docs), nil
	})
}
