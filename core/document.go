package core

// Document is a unit of retrieved content. Documents are produced by retriever
// collaborators and consumed by pipeline stages; the core never persists them.
type Document struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewDocument creates a Document with a copy of the supplied metadata.
func NewDocument(content string, metadata map[string]any) Document {
	md := make(map[string]any, len(metadata))
	for k, v := range metadata {
		md[k] = v
	}
	return Document{Content: content, Metadata: md}
}

// CloneMetadata returns a shallow copy of the document metadata.
func (d Document) CloneMetadata() map[string]any {
	md := make(map[string]any, len(d.Metadata))
	for k, v := range d.Metadata {
		md[k] = v
	}
	return md
}
