// Package document loads text into core.Documents and splits them into
// retrieval-sized chunks.
package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hupe1980/chainmesh/core"
)

// Loader produces documents from a source.
type Loader interface {
	Load(ctx context.Context) ([]core.Document, error)
}

// FileLoader loads one plain-text file into a single Document whose
// metadata carries the "source" path.
type FileLoader struct {
	Path string
}

// NewFileLoader returns a FileLoader for path.
func NewFileLoader(path string) *FileLoader { return &FileLoader{Path: path} }

// Load reads the file.
func (l *FileLoader) Load(ctx context.Context) ([]core.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", l.Path, err)
	}
	return []core.Document{core.NewDocument(string(data), map[string]any{
		"source": l.Path,
		"name":   filepath.Base(l.Path),
	})}, nil
}
