package document

import (
	"strings"
	"unicode/utf8"

	"github.com/hupe1980/chainmesh/core"
)

// DefaultSeparators try paragraphs, then lines, then words, then characters.
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// SplitterOptions configure a RecursiveCharacterSplitter.
type SplitterOptions struct {
	ChunkSize    int
	ChunkOverlap int
	Separators   []string
	// Length measures text; defaults to the rune count.
	Length func(string) int
}

// RecursiveCharacterSplitter splits text on the first separator that occurs,
// merges small pieces up to ChunkSize and recurses with the next separator
// into pieces that are still too large. Consecutive chunks share up to
// ChunkOverlap of trailing text.
type RecursiveCharacterSplitter struct {
	opts SplitterOptions
}

// NewRecursiveCharacterSplitter validates the options (defaults: 1000 / 200).
func NewRecursiveCharacterSplitter(optFns ...func(o *SplitterOptions)) (*RecursiveCharacterSplitter, error) {
	opts := SplitterOptions{
		ChunkSize:    1000,
		ChunkOverlap: 200,
		Separators:   DefaultSeparators,
		Length:       utf8.RuneCountInString,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.ChunkSize <= 0 {
		return nil, core.NewConfigurationError("splitter", "chunk_size", "must be positive")
	}
	if opts.ChunkOverlap < 0 || opts.ChunkOverlap >= opts.ChunkSize {
		return nil, core.NewConfigurationError("splitter", "chunk_overlap", "must be in [0, chunk_size)")
	}
	if len(opts.Separators) == 0 {
		opts.Separators = DefaultSeparators
	}
	if opts.Length == nil {
		opts.Length = utf8.RuneCountInString
	}
	return &RecursiveCharacterSplitter{opts: opts}, nil
}

// SplitText splits text into chunks.
func (s *RecursiveCharacterSplitter) SplitText(text string) []string {
	return s.split(text, s.opts.Separators)
}

// SplitDocuments splits every document; chunks inherit a copy of the
// source metadata plus a "chunk" index.
func (s *RecursiveCharacterSplitter) SplitDocuments(docs []core.Document) []core.Document {
	var out []core.Document
	for _, d := range docs {
		for i, chunk := range s.SplitText(d.Content) {
			md := d.CloneMetadata()
			md["chunk"] = i
			out = append(out, core.Document{Content: chunk, Metadata: md})
		}
	}
	return out
}

func (s *RecursiveCharacterSplitter) split(text string, separators []string) []string {
	sep := separators[len(separators)-1]
	var rest []string
	for i, candidate := range separators {
		if candidate == "" || strings.Contains(text, candidate) {
			sep = candidate
			rest = separators[i+1:]
			break
		}
	}

	var pieces []string
	if sep == "" {
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
	} else {
		pieces = strings.Split(text, sep)
	}

	var chunks, good []string
	for _, p := range pieces {
		if s.opts.Length(p) < s.opts.ChunkSize {
			good = append(good, p)
			continue
		}
		if len(good) > 0 {
			chunks = append(chunks, s.merge(good, sep)...)
			good = nil
		}
		if len(rest) == 0 {
			chunks = append(chunks, p)
		} else {
			chunks = append(chunks, s.split(p, rest)...)
		}
	}
	if len(good) > 0 {
		chunks = append(chunks, s.merge(good, sep)...)
	}
	return chunks
}

// merge joins pieces into chunks no longer than ChunkSize, carrying up to
// ChunkOverlap of the previous chunk into the next one.
func (s *RecursiveCharacterSplitter) merge(pieces []string, sep string) []string {
	sepLen := s.opts.Length(sep)
	var (
		out     []string
		current []string
		total   int
	)
	joinedLen := func(l int) int {
		if len(current) > 0 {
			return total + l + sepLen
		}
		return total + l
	}

	for _, p := range pieces {
		l := s.opts.Length(p)
		if joinedLen(l) > s.opts.ChunkSize && len(current) > 0 {
			if chunk := strings.TrimSpace(strings.Join(current, sep)); chunk != "" {
				out = append(out, chunk)
			}
			for total > s.opts.ChunkOverlap || (joinedLen(l) > s.opts.ChunkSize && total > 0) {
				total -= s.opts.Length(current[0])
				if len(current) > 1 {
					total -= sepLen
				}
				current = current[1:]
			}
		}
		total = joinedLen(l)
		current = append(current, p)
	}
	if chunk := strings.TrimSpace(strings.Join(current, sep)); chunk != "" {
		out = append(out, chunk)
	}
	return out
}
