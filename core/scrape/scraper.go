// Package scrape drives the two-tier escalation policy: a fast HTTP
// fetch first, then a headless browser render when the fast path
// produced too little text to be a real article (SPA shells and
// JS-gated pages yield near-empty raw HTML).
package scrape

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/kv-sajeev/sitescribe/core"
	"github.com/kv-sajeev/sitescribe/core/derive"
)

// Options tunes the orchestrator.
type Options struct {
	// MinTextChars is the escalation threshold. Defaults to 200.
	MinTextChars int
	// Locale passed to the renderer. Defaults to "zh-CN".
	Locale string
	// DisableRender skips the browser path entirely.
	DisableRender bool
	// MaxKeywords bounds derived keywords. Defaults to 20.
	MaxKeywords int
}

// Scraper runs one URL through the fetch/extract/render pipeline and
// assembles the standardized page content. Each call is independent;
// Scraper holds no per-request state and is safe for concurrent use as
// long as its stages are.
type Scraper struct {
	fetcher   core.Fetcher
	renderer  core.PageRenderer
	extractor core.Extractor
	opts      Options
}

// New creates a Scraper. renderer may be nil, which disables
// escalation.
func New(fetcher core.Fetcher, renderer core.PageRenderer, extractor core.Extractor, opts Options) *Scraper {
	if opts.MinTextChars <= 0 {
		opts.MinTextChars = 200
	}
	if opts.Locale == "" {
		opts.Locale = "zh-CN"
	}
	if opts.MaxKeywords <= 0 {
		opts.MaxKeywords = derive.DefaultMaxKeywords
	}
	return &Scraper{fetcher: fetcher, renderer: renderer, extractor: extractor, opts: opts}
}

// ScrapePage fetches, extracts, and (when needed) renders the given
// URL. A fetch failure is the single fatal condition; every other
// anomaly degrades the output instead of failing it.
func (s *Scraper) ScrapePage(ctx context.Context, rawURL string) (*core.PageContent, error) {
	fetchedAt := time.Now().UTC()

	fetched, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	status := fetched.StatusCode
	finalURL := fetched.FinalURL

	var ex *core.Extraction
	if fetched.HTML != "" {
		ex, err = s.extractor.Extract(fetched.HTML, fetched.FinalURL)
		if err != nil {
			log.Debug().Err(err).Str("url", rawURL).Msg("fast-path extraction failed")
			ex = nil
		}
	}

	if s.needsRender(ex) {
		log.Debug().
			Str("url", rawURL).
			Int("text_chars", textChars(ex)).
			Msg("content too short, escalating to browser render")

		rendered, rerr := s.renderer.Render(ctx, rawURL, s.opts.Locale)
		if rerr != nil {
			// The render path is a best-effort upgrade: keep whatever
			// the fast path produced, possibly nothing.
			log.Warn().Err(rerr).Str("url", rawURL).Msg("browser render failed, keeping fast-path result")
		} else {
			if rendered.StatusCode != 0 {
				status = rendered.StatusCode
			}
			if rendered.FinalURL != "" {
				finalURL = rendered.FinalURL
			}
			rex, exErr := s.extractor.Extract(rendered.HTML, finalURL)
			if exErr != nil {
				log.Warn().Err(exErr).Str("url", rawURL).Msg("extraction of rendered HTML failed")
			} else {
				ex = rex
			}
		}
	}

	return s.assemble(rawURL, finalURL, status, fetchedAt, ex), nil
}

func (s *Scraper) needsRender(ex *core.Extraction) bool {
	if s.opts.DisableRender || s.renderer == nil {
		return false
	}
	return ex == nil || textChars(ex) < s.opts.MinTextChars
}

func textChars(ex *core.Extraction) int {
	if ex == nil {
		return 0
	}
	return utf8.RuneCountInString(ex.Text)
}

func (s *Scraper) assemble(rawURL, finalURL string, status int, fetchedAt time.Time, ex *core.Extraction) *core.PageContent {
	content := &core.PageContent{
		URL:           rawURL,
		CanonicalURL:  finalURL,
		StatusCode:    status,
		FetchedAt:     fetchedAt,
		Headings:      core.Headings{H1: []string{}, H2: []string{}, H3: []string{}},
		InternalLinks: []core.Link{},
		FAQ:           []core.FAQEntry{},
		Keywords:      []string{},
	}
	if ex != nil {
		if ex.CanonicalURL != "" {
			content.CanonicalURL = ex.CanonicalURL
		}
		content.Language = ex.Language
		content.Title = ex.Title
		content.MetaDescription = ex.MetaDescription
		content.Markdown = ex.Markdown
		content.Text = ex.Text
		content.Headings = ex.Headings
		content.InternalLinks = ex.InternalLinks
		content.FAQ = ex.FAQ
	}

	body := content.Text
	if body == "" {
		body = content.Markdown
	}
	content.Keywords = derive.Keywords(body, s.opts.MaxKeywords)
	content.WordCount = utf8.RuneCountInString(body)
	return content
}
