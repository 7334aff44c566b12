package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/chainmesh/chain"
	"github.com/hupe1980/chainmesh/core"
	"github.com/hupe1980/chainmesh/document"
	"github.com/hupe1980/chainmesh/retriever"
)

func newRAGCmd(a *app) *cobra.Command {
	var files []string
	cmd := &cobra.Command{
		Use:   "rag <question> --file <path>...",
		Short: "Answer a question from local text files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(files) == 0 {
				return fmt.Errorf("at least one --file is required")
			}
			ctx := cmd.Context()

			var docs []core.Document
			for _, f := range files {
				loaded, err := document.NewFileLoader(f).Load(ctx)
				if err != nil {
					return err
				}
				docs = append(docs, loaded...)
			}

			splitter, err := document.NewRecursiveCharacterSplitter(func(o *document.SplitterOptions) {
				o.ChunkSize = a.cfg.Retriever.ChunkSize
				o.ChunkOverlap = a.cfg.Retriever.ChunkOverlap
			})
			if err != nil {
				return err
			}
			chunks := splitter.SplitDocuments(docs)
			a.logger.Debug("rag.indexed", "files", len(files), "chunks", len(chunks))

			store := retriever.NewInMemory(a.cfg.Retriever.K)
			store.Add(chunks...)

			m, err := newModel(a.cfg.Model)
			if err != nil {
				return err
			}
			rag, err := chain.NewRetrieval(store, nil, m)
			if err != nil {
				return err
			}
			answer, err := rag.Invoke(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&files, "file", "f", nil, "text file to index (repeatable)")
	return cmd
}
