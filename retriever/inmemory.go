package retriever

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/hupe1980/chainmesh/core"
)

// stored is the internal representation kept by InMemory.
type stored struct {
	id     string
	doc    core.Document
	tokens map[string]struct{}
}

// InMemory is a naive process-local document store. Search scores documents
// by the number of distinct query terms they contain (case insensitive) and
// returns the top K; ties keep insertion order. Documents without any
// matching term are never returned.
//
// Concurrency: protected by RWMutex. Suitable only for tests / demos; swap for
// a vector store for production retrieval.
type InMemory struct {
	k int

	mu   sync.RWMutex
	docs []stored
}

// NewInMemory creates an empty store returning at most k documents (k <= 0 means 4).
func NewInMemory(k int) *InMemory {
	if k <= 0 {
		k = 4
	}
	return &InMemory{k: k}
}

// Add stores documents and returns their generated ids.
func (m *InMemory) Add(docs ...core.Document) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		id := fmt.Sprintf("doc_%d", len(m.docs))
		m.docs = append(m.docs, stored{
			id:     id,
			doc:    core.NewDocument(d.Content, d.Metadata),
			tokens: tokenSet(d.Content),
		})
		ids = append(ids, id)
	}
	return ids
}

// Len returns the number of stored documents.
func (m *InMemory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

// Retrieve implements Retriever. Returned documents carry "id" and "score"
// metadata.
func (m *InMemory) Retrieve(ctx context.Context, query string) ([]core.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	terms := tokenSet(query)

	m.mu.RLock()
	defer m.mu.RUnlock()

	type hit struct {
		idx   int
		score int
	}
	hits := make([]hit, 0, len(m.docs))
	for i, s := range m.docs {
		score := 0
		for t := range terms {
			if _, ok := s.tokens[t]; ok {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, hit{idx: i, score: score})
		}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].score > hits[b].score })
	if len(hits) > m.k {
		hits = hits[:m.k]
	}

	out := make([]core.Document, 0, len(hits))
	for _, h := range hits {
		s := m.docs[h.idx]
		md := s.doc.CloneMetadata()
		md["id"] = s.id
		md["score"] = float64(h.score) / float64(len(terms))
		out = append(out, core.Document{Content: s.doc.Content, Metadata: md})
	}
	return out, nil
}

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "is": {}, "was": {}, "of": {}, "in": {}, "on": {},
	"to": {}, "and": {}, "or": {}, "what": {}, "when": {}, "who": {}, "how": {}, "why": {},
}

func tokenSet(text string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, stop := stopWords[f]; stop {
			continue
		}
		set[f] = struct{}{}
	}
	return set
}
