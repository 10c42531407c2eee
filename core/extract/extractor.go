// Package extract implements the Extractor interface. It isolates the
// main article of a full HTML page by:
//  1. Reading metadata, headings, internal links, and FAQ structured
//     data from the pristine document
//  2. Removing noise elements by tag and by class/id pattern
//  3. Picking the best content container, with a readability fallback
//  4. Rewriting anchors to absolute, tracking-free URLs
//  5. Converting the fragment to Markdown and deriving plain text
//
// The metadata pass runs before noise removal because the noise pass
// deletes every script element, which would erase the JSON-LD blocks.
package extract

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/kv-sajeev/sitescribe/core"
	"github.com/kv-sajeev/sitescribe/core/urlutil"
)

// Config is the static extraction configuration. It is fixed at
// construction time so that extraction stays a pure function of
// (html, baseURL, config).
type Config struct {
	// NoiseTags are removed outright before content selection.
	NoiseTags []string
	// NoisePattern removes elements whose class/id signature matches.
	// Structural tag removal alone misses framework-generated wrapper
	// divs that carry semantic noise only in their class names.
	NoisePattern *regexp.Regexp
	// ContainerSelectors are tried in priority order to locate the main
	// content region.
	ContainerSelectors []string
	// TrackingParams are stripped from every rewritten URL.
	TrackingParams []string

	// MaxContentChars caps markdown and text output.
	MaxContentChars int
	MaxH1           int
	MaxH2           int
	MaxLinks        int
	MaxFAQ          int
}

// DefaultConfig returns the tuned extraction configuration.
func DefaultConfig() Config {
	return Config{
		NoiseTags: []string{
			"script", "style", "noscript", "svg", "form",
			"iframe", "aside", "header", "footer", "nav",
		},
		NoisePattern: regexp.MustCompile(`(?i)(nav|menu|breadcrumb|share|cookie|banner|ad|promo|subscribe|comment|footer)`),
		ContainerSelectors: []string{
			"article", "main", "[role=main]", ".post", ".article", ".markdown-body",
		},
		TrackingParams: []string{
			"utm_source", "utm_medium", "utm_campaign", "utm_term",
			"utm_content", "gclid", "fbclid",
		},
		MaxContentChars: 12000,
		MaxH1:           5,
		MaxH2:           8,
		MaxLinks:        10,
		MaxFAQ:          5,
	}
}

// HTMLExtractor extracts the main content and metadata of a page.
type HTMLExtractor struct {
	cfg Config
}

// New creates an HTMLExtractor.
func New(cfg Config) *HTMLExtractor {
	def := DefaultConfig()
	if len(cfg.NoiseTags) == 0 {
		cfg.NoiseTags = def.NoiseTags
	}
	if cfg.NoisePattern == nil {
		cfg.NoisePattern = def.NoisePattern
	}
	if len(cfg.ContainerSelectors) == 0 {
		cfg.ContainerSelectors = def.ContainerSelectors
	}
	if len(cfg.TrackingParams) == 0 {
		cfg.TrackingParams = def.TrackingParams
	}
	if cfg.MaxContentChars <= 0 {
		cfg.MaxContentChars = def.MaxContentChars
	}
	if cfg.MaxH1 <= 0 {
		cfg.MaxH1 = def.MaxH1
	}
	if cfg.MaxH2 <= 0 {
		cfg.MaxH2 = def.MaxH2
	}
	if cfg.MaxLinks <= 0 {
		cfg.MaxLinks = def.MaxLinks
	}
	if cfg.MaxFAQ <= 0 {
		cfg.MaxFAQ = def.MaxFAQ
	}
	return &HTMLExtractor{cfg: cfg}
}

// Extract runs the full extraction over one document. Missing elements
// yield empty fields; only an unreadable input is an error.
func (e *HTMLExtractor) Extract(htmlSrc string, baseURL string) (*core.Extraction, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		base = &url.URL{}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlSrc))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	ex := &core.Extraction{
		Headings:      core.Headings{H1: []string{}, H2: []string{}, H3: []string{}},
		InternalLinks: []core.Link{},
		FAQ:           []core.FAQEntry{},
	}
	e.collectMetadata(doc, base, baseURL, ex)
	e.collectHeadings(doc, ex)
	e.collectInternalLinks(doc, base, ex)
	e.collectFAQ(doc, ex)

	// Second parse for the destructive content pass, keeping the
	// metadata document pristine.
	contentDoc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlSrc))
	if err != nil {
		return ex, nil
	}
	e.removeNoise(contentDoc)

	fragment := e.mainContent(contentDoc, base)
	fragment = e.rewriteAnchors(fragment, base)

	markdown, err := htmltomarkdown.ConvertString(fragment)
	if err != nil {
		markdown = ""
	}
	ex.Markdown = Truncate(markdown, e.cfg.MaxContentChars)
	ex.Text = Truncate(PlainText(markdown), e.cfg.MaxContentChars)
	return ex, nil
}

func (e *HTMLExtractor) collectMetadata(doc *goquery.Document, base *url.URL, baseURL string, ex *core.Extraction) {
	ex.Title = strings.TrimSpace(doc.Find("title").First().Text())
	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		ex.MetaDescription = strings.TrimSpace(desc)
	}
	ex.CanonicalURL = baseURL
	if href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok {
		if resolved := urlutil.Resolve(base, href); resolved != "" {
			ex.CanonicalURL = resolved
		}
	}
	if lang, ok := doc.Find("html").First().Attr("lang"); ok {
		ex.Language = strings.TrimSpace(lang)
	}
}

func (e *HTMLExtractor) collectHeadings(doc *goquery.Document, ex *core.Extraction) {
	collect := func(tag string, max int) []string {
		out := []string{}
		doc.Find(tag).Each(func(_ int, s *goquery.Selection) {
			if t := strings.TrimSpace(s.Text()); t != "" {
				out = append(out, t)
			}
		})
		if len(out) > max {
			out = out[:max]
		}
		return out
	}
	ex.Headings.H1 = collect("h1", e.cfg.MaxH1)
	ex.Headings.H2 = collect("h2", e.cfg.MaxH2)
}

func (e *HTMLExtractor) collectInternalLinks(doc *goquery.Document, base *url.URL, ex *core.Extraction) {
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if len(ex.InternalLinks) >= e.cfg.MaxLinks {
			return
		}
		anchor := strings.TrimSpace(s.Text())
		if anchor == "" {
			return
		}
		href, _ := s.Attr("href")
		resolved := urlutil.Resolve(base, href)
		if resolved == "" || !urlutil.SameHost(resolved, base.Host) {
			return
		}
		ex.InternalLinks = append(ex.InternalLinks, core.Link{
			Anchor: anchor,
			Href:   urlutil.StripParams(resolved, e.cfg.TrackingParams),
		})
	})
}

func (e *HTMLExtractor) collectFAQ(doc *goquery.Document, ex *core.Extraction) {
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var data any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			// One malformed block must not abort the others.
			ex.FAQParseErrors++
			return
		}
		blocks, ok := data.([]any)
		if !ok {
			blocks = []any{data}
		}
		for _, b := range blocks {
			obj, ok := b.(map[string]any)
			if !ok || obj["@type"] != "FAQPage" {
				continue
			}
			entities, ok := obj["mainEntity"].([]any)
			if !ok {
				continue
			}
			for _, ent := range entities {
				q, ok := ent.(map[string]any)
				if !ok {
					continue
				}
				name, _ := q["name"].(string)
				answer, _ := q["acceptedAnswer"].(map[string]any)
				text, _ := answer["text"].(string)
				if name != "" && text != "" && len(ex.FAQ) < e.cfg.MaxFAQ {
					ex.FAQ = append(ex.FAQ, core.FAQEntry{Question: name, Answer: text})
				}
			}
		}
	})
}

func (e *HTMLExtractor) removeNoise(doc *goquery.Document) {
	doc.Find(strings.Join(e.cfg.NoiseTags, ", ")).Remove()
	doc.Find("[class],[id]").Each(func(_ int, s *goquery.Selection) {
		class, _ := s.Attr("class")
		id, _ := s.Attr("id")
		if e.cfg.NoisePattern.MatchString(class + " " + id) {
			s.Remove()
		}
	})
}

// mainContent returns the inner HTML of the first matching container,
// falling back to a readability pass over the cleaned document.
func (e *HTMLExtractor) mainContent(doc *goquery.Document, base *url.URL) string {
	for _, sel := range e.cfg.ContainerSelectors {
		found := doc.Find(sel)
		if found.Length() == 0 {
			continue
		}
		if inner, err := found.First().Html(); err == nil {
			return inner
		}
	}

	cleaned, err := doc.Html()
	if err != nil {
		return ""
	}
	article, err := readability.FromReader(strings.NewReader(cleaned), base)
	if err != nil {
		return ""
	}
	return article.Content
}

// rewriteAnchors makes every anchor href in the fragment absolute and
// strips tracking parameters. Malformed hrefs are left untouched.
func (e *HTMLExtractor) rewriteAnchors(fragment string, base *url.URL) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		resolved := urlutil.Resolve(base, href)
		if resolved == "" {
			return
		}
		s.SetAttr("href", urlutil.StripParams(resolved, e.cfg.TrackingParams))
	})
	inner, err := doc.Find("body").Html()
	if err != nil {
		return fragment
	}
	return inner
}

// PlainText derives plain text from Markdown by stripping Markdown
// punctuation and collapsing runs of blank lines.
func PlainText(markdown string) string {
	text := mdPunct.Replace(markdown)
	return multiNewline.ReplaceAllString(text, "\n\n")
}

// Truncate bounds s to at most max characters, keeping a prefix.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

var (
	mdPunct      = strings.NewReplacer("#", "", ">", "", "*", "", "`", "", "_", "")
	multiNewline = regexp.MustCompile(`\n{3,}`)
)
