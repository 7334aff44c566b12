package prompt

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// GuideSource produces style-guide text.
type GuideSource interface {
	Load(ctx context.Context) (string, error)
}

// GuideSourceFunc adapts a function to GuideSource.
type GuideSourceFunc func(ctx context.Context) (string, error)

// Load calls f(ctx).
func (f GuideSourceFunc) Load(ctx context.Context) (string, error) { return f(ctx) }

// StaticSource is a fixed style guide.
type StaticSource string

// Load returns the static text.
func (s StaticSource) Load(context.Context) (string, error) { return string(s), nil }

// StyleSheet is the YAML layout read by FileSource.
type StyleSheet struct {
	Preamble    string   `yaml:"preamble"`
	Guidelines  []string `yaml:"guidelines"`
	BannedWords []string `yaml:"banned_words"`
}

// Render formats the sheet as prompt text.
func (s StyleSheet) Render() string {
	var sb strings.Builder
	if p := strings.TrimSpace(s.Preamble); p != "" {
		sb.WriteString(p)
		sb.WriteString("\n")
	}
	if len(s.Guidelines) > 0 {
		sb.WriteString("Write following these guidelines:\n")
		for _, g := range s.Guidelines {
			sb.WriteString("- ")
			sb.WriteString(g)
			sb.WriteString("\n")
		}
	}
	if len(s.BannedWords) > 0 {
		sb.WriteString("Never use these words: ")
		quoted := make([]string, len(s.BannedWords))
		for i, w := range s.BannedWords {
			quoted[i] = fmt.Sprintf("%q", w)
		}
		sb.WriteString(strings.Join(quoted, ", "))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FileSource reads a YAML StyleSheet from Path on every Load.
type FileSource struct {
	Path string
}

// Load reads and renders the style sheet.
func (s FileSource) Load(context.Context) (string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return "", fmt.Errorf("read style guide: %w", err)
	}
	var sheet StyleSheet
	if err := yaml.Unmarshal(data, &sheet); err != nil {
		return "", fmt.Errorf("parse style guide %s: %w", s.Path, err)
	}
	return sheet.Render(), nil
}

// DefaultStyleSheet is used when no guide source is configured.
var DefaultStyleSheet = StyleSheet{
	Preamble: "You are a journalist for a news agency. Write in a news article style.",
	Guidelines: []string{
		"Formal, objective tone",
		"British English spelling",
		"Use digits for numbers 10 and above",
		"No summaries or analysis paragraphs",
	},
}

// Guide holds the current style-guide text. It is loaded explicitly by
// NewGuide and only changes through Refresh; safe for concurrent use.
type Guide struct {
	source GuideSource

	mu       sync.RWMutex
	text     string
	loadedAt time.Time
}

// NewGuide loads the guide from source once.
func NewGuide(ctx context.Context, source GuideSource) (*Guide, error) {
	if source == nil {
		source = StaticSource(DefaultStyleSheet.Render())
	}
	g := &Guide{source: source}
	if err := g.Refresh(ctx); err != nil {
		return nil, err
	}
	return g, nil
}

// Text returns the current guide text.
func (g *Guide) Text() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.text
}

// LoadedAt reports when the guide text was last refreshed.
func (g *Guide) LoadedAt() time.Time {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.loadedAt
}

// Refresh reloads the text from the source. On failure the previous text is kept.
func (g *Guide) Refresh(ctx context.Context) error {
	text, err := g.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("refresh style guide: %w", err)
	}
	g.mu.Lock()
	g.text = text
	g.loadedAt = time.Now()
	g.mu.Unlock()
	return nil
}

// Bind returns a copy of t with the guide text available as variable name.
func (g *Guide) Bind(t *ChatTemplate, name string) *ChatTemplate {
	return t.WithPartial(name, g.Text)
}
