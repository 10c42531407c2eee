package extract

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

const articlePage = `<!doctype html>
<html lang="zh-CN">
<head>
<title>Test Page</title>
<meta name="description" content="A short description">
<link rel="canonical" href="/canonical-page">
</head>
<body>
<nav>Main navigation</nav>
<div class="cookie-banner">We use cookies</div>
<div id="promo-box">Buy now</div>
<article>
<h1>Main Heading</h1>
<p>This is the main content paragraph.</p>
<a href="/post?utm_source=abc&gclid=xyz&ref=keep">Read more</a>
</article>
<footer>Footer text</footer>
<a href="/about">About us</a>
<a href="https://other.example.net/page">Elsewhere</a>
<a href="/contact?utm_campaign=x&page=2">Contact</a>
</body>
</html>`

func TestExtract_Metadata(t *testing.T) {
	e := New(Config{})
	ex, err := e.Extract(articlePage, "https://example.com/page")
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}
	if ex.Title != "Test Page" {
		t.Fatalf("want title Test Page, got %q", ex.Title)
	}
	if ex.MetaDescription != "A short description" {
		t.Fatalf("want description, got %q", ex.MetaDescription)
	}
	if ex.CanonicalURL != "https://example.com/canonical-page" {
		t.Fatalf("canonical not resolved: %q", ex.CanonicalURL)
	}
	if ex.Language != "zh-CN" {
		t.Fatalf("want lang zh-CN, got %q", ex.Language)
	}
}

func TestExtract_CanonicalDefaultsToBase(t *testing.T) {
	e := New(Config{})
	ex, err := e.Extract("<html><body><p>x</p></body></html>", "https://example.com/a")
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}
	if ex.CanonicalURL != "https://example.com/a" {
		t.Fatalf("want base as canonical, got %q", ex.CanonicalURL)
	}
}

func TestExtract_NoiseRemoved(t *testing.T) {
	e := New(Config{})
	ex, err := e.Extract(articlePage, "https://example.com/page")
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}
	for _, noise := range []string{"Main navigation", "We use cookies", "Buy now", "Footer text"} {
		if strings.Contains(ex.Markdown, noise) {
			t.Fatalf("noise %q leaked into markdown", noise)
		}
	}
	if !strings.Contains(ex.Text, "This is the main content paragraph.") {
		t.Fatalf("main content missing from text: %q", ex.Text)
	}
}

func TestExtract_ContainerPriority(t *testing.T) {
	html := `<html><body>
<main><p>Main container</p></main>
<article><p>Article container</p></article>
</body></html>`
	e := New(Config{})
	ex, err := e.Extract(html, "https://example.com/")
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}
	if !strings.Contains(ex.Markdown, "Article container") {
		t.Fatalf("article should win over main, got %q", ex.Markdown)
	}
	if strings.Contains(ex.Markdown, "Main container") {
		t.Fatalf("unexpected main content in %q", ex.Markdown)
	}
}

func TestExtract_ReadabilityFallback(t *testing.T) {
	var para strings.Builder
	for i := 0; i < 25; i++ {
		para.WriteString("<p>The readability fallback should still find this long body of prose, because no semantic container exists anywhere on the page. ")
		para.WriteString("It scores subtrees by text density instead of trusting markup.</p>")
	}
	html := "<html><head><title>No containers</title></head><body><div>" + para.String() + "</div></body></html>"
	e := New(Config{})
	ex, err := e.Extract(html, "https://example.com/")
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}
	if !strings.Contains(ex.Text, "readability fallback") {
		t.Fatalf("fallback produced no content: %q", ex.Text)
	}
}

func TestExtract_AnchorsRewrittenAndTrackingStripped(t *testing.T) {
	e := New(Config{})
	ex, err := e.Extract(articlePage, "https://example.com/page")
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}
	if !strings.Contains(ex.Markdown, "https://example.com/post") {
		t.Fatalf("relative anchor not absolutized: %q", ex.Markdown)
	}
	if strings.Contains(ex.Markdown, "utm_source") || strings.Contains(ex.Markdown, "gclid") {
		t.Fatalf("tracking params survived: %q", ex.Markdown)
	}
	if !strings.Contains(ex.Markdown, "ref=keep") {
		t.Fatalf("unrelated query param dropped: %q", ex.Markdown)
	}
}

func TestExtract_InternalLinksHostScoped(t *testing.T) {
	e := New(Config{})
	ex, err := e.Extract(articlePage, "https://example.com/page")
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}
	if len(ex.InternalLinks) == 0 {
		t.Fatal("expected internal links")
	}
	for _, l := range ex.InternalLinks {
		if !strings.HasPrefix(l.Href, "https://example.com/") {
			t.Fatalf("cross-host link leaked: %+v", l)
		}
		if strings.Contains(l.Href, "utm_") {
			t.Fatalf("tracking param in internal link: %+v", l)
		}
	}
	found := false
	for _, l := range ex.InternalLinks {
		if l.Anchor == "Contact" {
			found = true
			if !strings.Contains(l.Href, "page=2") {
				t.Fatalf("unrelated param stripped from %q", l.Href)
			}
		}
	}
	if !found {
		t.Fatal("Contact link missing")
	}
}

func TestExtract_Headings(t *testing.T) {
	html := `<html><body>
<h1>First</h1><h1>  </h1><h2>Sub A</h2><h2>Sub B</h2><h3>Deep</h3>
</body></html>`
	e := New(Config{})
	ex, err := e.Extract(html, "https://example.com/")
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}
	if !reflect.DeepEqual(ex.Headings.H1, []string{"First"}) {
		t.Fatalf("h1 = %v", ex.Headings.H1)
	}
	if !reflect.DeepEqual(ex.Headings.H2, []string{"Sub A", "Sub B"}) {
		t.Fatalf("h2 = %v", ex.Headings.H2)
	}
	if len(ex.Headings.H3) != 0 {
		t.Fatalf("h3 is reserved, got %v", ex.Headings.H3)
	}
}

func TestExtract_FAQ(t *testing.T) {
	html := `<html><head>
<script type="application/ld+json">
{"@type":"FAQPage","mainEntity":[
 {"name":"Q1","acceptedAnswer":{"text":"A1"}},
 {"name":"Q2","acceptedAnswer":{}},
 {"acceptedAnswer":{"text":"orphan"}}
]}
</script>
<script type="application/ld+json">{"@type":"FAQPage","mainEntity":[{"name":"Q3","acceptedAnswer":{"text":"A3"</script>
<script type="application/ld+json">{"@type":"Organization","name":"Acme"}</script>
</head><body><p>hi</p></body></html>`
	e := New(Config{})
	ex, err := e.Extract(html, "https://example.com/")
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}
	want := []string{"Q1"}
	if len(ex.FAQ) != len(want) || ex.FAQ[0].Question != "Q1" || ex.FAQ[0].Answer != "A1" {
		t.Fatalf("faq = %+v", ex.FAQ)
	}
	if ex.FAQParseErrors != 1 {
		t.Fatalf("want 1 parse error counted, got %d", ex.FAQParseErrors)
	}
}

func TestExtract_FAQArrayRoot(t *testing.T) {
	html := `<html><head><script type="application/ld+json">
[{"@type":"FAQPage","mainEntity":[{"name":"Q1","acceptedAnswer":{"text":"A1"}}]}]
</script></head><body></body></html>`
	e := New(Config{})
	ex, err := e.Extract(html, "https://example.com/")
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}
	if len(ex.FAQ) != 1 || ex.FAQ[0].Question != "Q1" {
		t.Fatalf("faq = %+v", ex.FAQ)
	}
}

func TestExtract_TruncationInvariant(t *testing.T) {
	var body strings.Builder
	body.WriteString("<html><body><article><p>")
	for i := 0; i < 500; i++ {
		body.WriteString("lorem ipsum dolor sit amet ")
	}
	body.WriteString("</p></article></body></html>")

	capped := New(Config{MaxContentChars: 100})
	full := New(Config{MaxContentChars: 1_000_000})

	got, err := capped.Extract(body.String(), "https://example.com/")
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}
	ref, err := full.Extract(body.String(), "https://example.com/")
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}
	if n := utf8.RuneCountInString(got.Markdown); n != 100 {
		t.Fatalf("markdown length = %d, want exactly 100", n)
	}
	if n := utf8.RuneCountInString(got.Text); n != 100 {
		t.Fatalf("text length = %d, want exactly 100", n)
	}
	if !strings.HasPrefix(ref.Markdown, got.Markdown) {
		t.Fatal("truncated markdown is not a prefix of the full value")
	}
	if !strings.HasPrefix(ref.Text, got.Text) {
		t.Fatal("truncated text is not a prefix of the full value")
	}
}

func TestExtract_Idempotent(t *testing.T) {
	e := New(Config{})
	a, err := e.Extract(articlePage, "https://example.com/page")
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}
	b, err := e.Extract(articlePage, "https://example.com/page")
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("extraction is not deterministic for identical input")
	}
}

func TestExtract_MalformedHTMLDegrades(t *testing.T) {
	e := New(Config{})
	ex, err := e.Extract("<div><p>unclosed", "https://example.com/")
	if err != nil {
		t.Fatalf("malformed HTML must not error: %v", err)
	}
	if ex.Title != "" || len(ex.FAQ) != 0 {
		t.Fatalf("expected empty optional fields, got %+v", ex)
	}
}

func TestPlainText(t *testing.T) {
	got := PlainText("# Title\n\n\n\n> quote *bold* `code` _em_")
	if strings.ContainsAny(got, "#>*`_") {
		t.Fatalf("markdown punctuation survived: %q", got)
	}
	if strings.Contains(got, "\n\n\n") {
		t.Fatalf("blank lines not collapsed: %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("héllo", 3); got != "hél" {
		t.Fatalf("rune-safe truncation broken: %q", got)
	}
	if got := Truncate("ab", 5); got != "ab" {
		t.Fatalf("short string altered: %q", got)
	}
}
