package core

import "context"

// Fetcher retrieves raw HTML from a URL via a plain HTTP GET. A
// non-HTML response yields an empty HTML string, not an error.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// PageRenderer retrieves fully rendered HTML through a headless
// browser. It is the escalation path, used only when the fast path
// produced too little content.
type PageRenderer interface {
	Render(ctx context.Context, url string, locale string) (*RenderResult, error)
}

// Extractor pulls the main content and metadata out of raw HTML.
// Malformed HTML degrades to empty fields rather than failing.
type Extractor interface {
	Extract(html string, baseURL string) (*Extraction, error)
}

// OutputRenderer converts scraped page content into a final output
// format for the CLI.
type OutputRenderer interface {
	Render(content *PageContent) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md").
	Extension() string
}
