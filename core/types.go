// Package core defines the pipeline types and interfaces for sitescribe.
// Each stage of the scrape pipeline is a clean, testable interface.
package core

import "time"

// FetchResult holds the raw HTML and response metadata from the
// lightweight fast-path fetch.
type FetchResult struct {
	StatusCode int
	HTML       string
	FinalURL   string
}

// RenderResult holds the DOM serialization produced by a headless
// browser render, after any client-side redirects.
type RenderResult struct {
	StatusCode int
	HTML       string
	FinalURL   string
}

// Headings groups heading text by level, in order of appearance.
// H3 is reserved and currently always empty.
type Headings struct {
	H1 []string `json:"h1"`
	H2 []string `json:"h2"`
	H3 []string `json:"h3"`
}

// Link is an anchor found on the page. Internal links always share the
// page's own host.
type Link struct {
	Anchor string `json:"anchor"`
	Href   string `json:"href"`
}

// FAQEntry is one question/answer pair mined from FAQPage JSON-LD.
type FAQEntry struct {
	Question string `json:"q"`
	Answer   string `json:"a"`
}

// Extraction is the result of running the content extractor over one
// HTML document. Missing optional fields are simply empty.
type Extraction struct {
	Markdown        string
	Text            string
	Title           string
	MetaDescription string
	CanonicalURL    string
	Language        string
	Headings        Headings
	InternalLinks   []Link
	FAQ             []FAQEntry

	// FAQParseErrors counts JSON-LD blocks skipped because they did not
	// parse. Skipping is silent; the counter exists for diagnostics.
	FAQParseErrors int
}

// PageContent is the standardized output of one scrape request. It is
// built once by the orchestrator and never mutated afterwards;
// downstream consumers derive their own smaller payload from it.
type PageContent struct {
	URL             string     `json:"url"`
	CanonicalURL    string     `json:"canonical_url,omitempty"`
	StatusCode      int        `json:"status"`
	FetchedAt       time.Time  `json:"fetched_at"`
	Language        string     `json:"lang,omitempty"`
	Title           string     `json:"title,omitempty"`
	MetaDescription string     `json:"description,omitempty"`
	Markdown        string     `json:"markdown,omitempty"`
	Text            string     `json:"text,omitempty"`
	Headings        Headings   `json:"headings"`
	InternalLinks   []Link     `json:"internal_links"`
	FAQ             []FAQEntry `json:"faq"`
	Keywords        []string   `json:"keywords"`
	WordCount       int        `json:"wordCount"`
}
