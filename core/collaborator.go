package core

import "context"

// Fetcher is the content-ingestion collaborator (e.g. a scraper). It is only
// ever consumed as a data source feeding a prompt template; its internals are
// not part of this module.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetcherFunc adapts a plain function to Fetcher.
type FetcherFunc func(ctx context.Context, url string) (string, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, url string) (string, error) { return f(ctx, url) }

// Article is the structured payload handed to a Publisher once a pipeline has
// produced a finished piece of content.
type Article struct {
	Title    string         `json:"title"`
	Body     string         `json:"body"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Credentials are passed through to the publisher untouched. The core neither
// stores nor manages secrets.
type Credentials struct {
	Username string
	Password string
	Endpoint string
}

// PublishStatus is the publisher's report for one submission.
type PublishStatus struct {
	ID      string `json:"id,omitempty"`
	URL     string `json:"url,omitempty"`
	Message string `json:"message,omitempty"`
}

// Publisher is the terminal sink collaborator (e.g. a CMS poster).
type Publisher interface {
	Submit(ctx context.Context, article Article, creds Credentials) (PublishStatus, error)
}

// PublisherFunc adapts a plain function to Publisher.
type PublisherFunc func(ctx context.Context, article Article, creds Credentials) (PublishStatus, error)

// Submit implements Publisher.
func (f PublisherFunc) Submit(ctx context.Context, article Article, creds Credentials) (PublishStatus, error) {
	return f(ctx, article, creds)
}
