// Package derive post-processes scraped page content into the compact
// payload transmitted to the blog workflow engine, and extracts
// fallback keywords when no external keyword source is attached.
package derive

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kv-sajeev/sitescribe/core"
)

// DefaultMaxKeywords bounds frequency-derived keyword candidates.
const DefaultMaxKeywords = 20

// Payload caps. Tighter than the canonical object's because this shape
// crosses a network boundary and must stay compact.
const (
	payloadMaxKeywords = 15
	payloadMaxH1       = 3
	payloadMaxH2       = 5
	payloadMaxLinks    = 5
	payloadMaxFAQ      = 3
)

// tokenCleaner keeps CJK ideographs, Latin letters, and whitespace.
var tokenCleaner = regexp.MustCompile(`[^\p{Han}a-z\s]`)

// Keywords derives up to max candidate keywords from content, ranked
// by descending frequency with an alphabetical tie-break so the result
// is deterministic. Tokens shorter than two characters are discarded.
func Keywords(content string, max int) []string {
	if max <= 0 {
		max = DefaultMaxKeywords
	}
	clean := tokenCleaner.ReplaceAllString(strings.ToLower(content), " ")
	counts := make(map[string]int)
	for _, word := range strings.Fields(clean) {
		if utf8.RuneCountInString(word) < 2 {
			continue
		}
		counts[word]++
	}
	if len(counts) == 0 {
		return []string{}
	}
	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})
	if len(words) > max {
		words = words[:max]
	}
	return words
}

// PayloadHeadings is the trimmed heading set sent over the wire.
type PayloadHeadings struct {
	H1 []string `json:"h1"`
	H2 []string `json:"h2"`
}

// Payload is the transmission shape consumed by the workflow engine.
// Optional fields are omitted entirely rather than sent as null.
type Payload struct {
	URL          string          `json:"url"`
	CanonicalURL string          `json:"canonical_url,omitempty"`
	Status       int             `json:"status"`
	Title        string          `json:"title,omitempty"`
	Description  string          `json:"description,omitempty"`
	Language     string          `json:"language,omitempty"`
	Content      string          `json:"content"`
	Markdown     string          `json:"markdown,omitempty"`
	Text         string          `json:"text,omitempty"`
	Headings     PayloadHeadings `json:"headings"`
	Keywords     []string        `json:"keywords"`
	Links        []core.Link     `json:"internal_links"`
	FAQ          []core.FAQEntry `json:"faq"`
	WordCount    int             `json:"wordCount"`
	FetchedAt    string          `json:"fetched_at"`
}

// ForTransmission builds the bounded payload from a scraped page.
// existingKeywords, when non-empty, takes precedence over derived ones.
// maxChars re-caps markdown/text defensively; zero means 12000.
func ForTransmission(content *core.PageContent, existingKeywords []string, maxChars int) *Payload {
	if maxChars <= 0 {
		maxChars = 12000
	}
	body := content.Markdown
	if body == "" {
		body = content.Text
	}

	keywords := existingKeywords
	if len(keywords) == 0 {
		keywords = content.Keywords
	}
	if len(keywords) == 0 {
		source := content.Text
		if source == "" {
			source = content.Markdown
		}
		keywords = Keywords(source, DefaultMaxKeywords)
	}

	return &Payload{
		URL:          content.URL,
		CanonicalURL: content.CanonicalURL,
		Status:       content.StatusCode,
		Title:        content.Title,
		Description:  content.MetaDescription,
		Language:     content.Language,
		Content:      truncate(body, maxChars),
		Markdown:     truncate(content.Markdown, maxChars),
		Text:         truncate(content.Text, maxChars),
		Headings: PayloadHeadings{
			H1: headStrings(content.Headings.H1, payloadMaxH1),
			H2: headStrings(content.Headings.H2, payloadMaxH2),
		},
		Keywords:  headStrings(keywords, payloadMaxKeywords),
		Links:     headLinks(content.InternalLinks, payloadMaxLinks),
		FAQ:       headFAQ(content.FAQ, payloadMaxFAQ),
		WordCount: content.WordCount,
		FetchedAt: content.FetchedAt.UTC().Format(time.RFC3339),
	}
}

// JSON serializes the payload the way the engine expects it: indented,
// with absent optional fields omitted.
func (p *Payload) JSON() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func headStrings(s []string, n int) []string {
	if s == nil {
		return []string{}
	}
	if len(s) > n {
		return s[:n]
	}
	return s
}

func headLinks(s []core.Link, n int) []core.Link {
	if s == nil {
		return []core.Link{}
	}
	if len(s) > n {
		return s[:n]
	}
	return s
}

func headFAQ(s []core.FAQEntry, n int) []core.FAQEntry {
	if s == nil {
		return []core.FAQEntry{}
	}
	if len(s) > n {
		return s[:n]
	}
	return s
}
