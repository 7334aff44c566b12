package chain

import (
	"github.com/hupe1980/chainmesh/core"
	"github.com/hupe1980/chainmesh/model"
	"github.com/hupe1980/chainmesh/parser"
	"github.com/hupe1980/chainmesh/prompt"
	"github.com/hupe1980/chainmesh/retriever"
	"github.com/hupe1980/chainmesh/runnable"
)

// DefaultRetrievalPrompt answers a question from retrieved context. It
// expects the variables "question" and "context".
func DefaultRetrievalPrompt() *prompt.ChatTemplate {
	return prompt.MustChatTemplate(
		prompt.System("You are an assistant for question-answering tasks. "+
			"Use the following retrieved context to answer the question. "+
			"If you don't know the answer, just say that you don't know."),
		prompt.Human("Question: {{.question}}\n\nContext:\n{{.context}}"),
	)
}

// NewRetrieval builds a retrieval-augmented pipeline taking the question
// string as input:
//
//	{context: retriever | join, question: passthrough} | prompt | model | text
//
// A nil prompt selects DefaultRetrievalPrompt.
func NewRetrieval(r retriever.Retriever, p *prompt.ChatTemplate, m model.ChatModel) (*runnable.Sequence, error) {
	if r == nil {
		return nil, core.NewConfigurationError("retrieval chain", "retriever", "must not be nil")
	}
	if m == nil {
		return nil, core.NewConfigurationError("retrieval chain", "model", "must not be nil")
	}
	if p == nil {
		p = DefaultRetrievalPrompt()
	}

	docs, err := runnable.NewSequence(retriever.AsRunnable(r), retriever.FormatDocuments())
	if err != nil {
		return nil, err
	}
	inputs, err := runnable.NewParallel(
		runnable.Branch{Key: "context", Runnable: docs},
		runnable.Branch{Key: "question", Runnable: runnable.Passthrough()},
	)
	if err != nil {
		return nil, err
	}
	return runnable.NewSequence(inputs, p, model.AsRunnable(m), parser.NewStrOutputParser())
}
