// Package cmd — scrape command. Orchestrates the pipeline:
// fetch → (render) → extract → assemble → render output → write,
// optionally forwarding the trimmed payload to the workflow engine.
package cmd

import (
	"context"
	"fmt"
	"net/url"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kv-sajeev/sitescribe/config"
	"github.com/kv-sajeev/sitescribe/core"
	"github.com/kv-sajeev/sitescribe/core/browser"
	"github.com/kv-sajeev/sitescribe/core/derive"
	"github.com/kv-sajeev/sitescribe/core/extract"
	"github.com/kv-sajeev/sitescribe/core/fetch"
	"github.com/kv-sajeev/sitescribe/core/output"
	"github.com/kv-sajeev/sitescribe/core/render"
	"github.com/kv-sajeev/sitescribe/core/scrape"
	"github.com/kv-sajeev/sitescribe/core/workflow"
)

var (
	flagMarkdown  bool
	flagJSON      bool
	flagPDF       bool
	flagOutputDir string
	flagLocale    string
	flagNoRender  bool
	flagSend      bool
	flagKeywords  string
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape <url>",
	Short: "Scrape a URL into standardized page content",
	Long: `Scrape fetches a page, extracts the main article and metadata, and
writes the result in the chosen format.

Examples:
  sitescribe scrape https://example.com --json
  sitescribe scrape https://example.com --markdown --out ./out
  sitescribe scrape https://example.com --send --keywords '[{"keyword":"seo"}]'`,
	Args: cobra.ExactArgs(1),
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Write extracted Markdown")
	scrapeCmd.Flags().BoolVar(&flagJSON, "json", false, "Write the full structured JSON (default)")
	scrapeCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Write a PDF rendering")
	scrapeCmd.Flags().StringVar(&flagOutputDir, "out", "", "Output directory (default: current directory)")
	scrapeCmd.Flags().StringVar(&flagLocale, "locale", "", "Override the Accept-Language locale")
	scrapeCmd.Flags().BoolVar(&flagNoRender, "no-render", false, "Never escalate to the headless browser")
	scrapeCmd.Flags().BoolVar(&flagSend, "send", false, "Forward the payload to the workflow engine")
	scrapeCmd.Flags().StringVar(&flagKeywords, "keywords", "", "Keyword JSON array to send alongside the content")
}

func runScrape(cmd *cobra.Command, args []string) error {
	rawURL := args[0]

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid URL: %s (must include scheme, e.g. https://example.com)", rawURL)
	}

	cfg := config.Default()
	if flagConfig != "" {
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return err
		}
	}
	if flagLocale != "" {
		cfg.AcceptLanguage = flagLocale
	}

	renderer, err := selectOutputRenderer()
	if err != nil {
		return err
	}

	scraper := scrape.New(
		fetch.New(fetch.Options{
			UserAgent:      cfg.UserAgent,
			AcceptLanguage: cfg.AcceptLanguage,
			Timeout:        cfg.FetchTimeout(),
			MaxBytes:       cfg.MaxHTMLBytes,
		}),
		browser.New(browser.Options{
			UserAgent:      cfg.UserAgent,
			AcceptLanguage: cfg.AcceptLanguage,
			Timeout:        cfg.RenderTimeout(),
		}),
		extract.New(extract.Config{MaxContentChars: cfg.MaxContentChars}),
		scrape.Options{
			MinTextChars:  cfg.MinTextChars,
			Locale:        cfg.Locale(),
			DisableRender: flagNoRender,
		},
	)

	ctx := context.Background()
	content, err := scraper.ScrapePage(ctx, rawURL)
	if err != nil {
		return err
	}
	log.Info().
		Str("url", rawURL).
		Int("status", content.StatusCode).
		Int("text_chars", len(content.Text)).
		Msg("scrape complete")

	data, err := renderer.Render(content)
	if err != nil {
		return err
	}
	writer, err := output.New(flagOutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}
	path, err := writer.Write(rawURL, data, renderer.Extension())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Written: %s\n", path)

	if flagSend {
		if cfg.Workflow.URL == "" {
			return fmt.Errorf("--send requires workflow.url in the config file")
		}
		payload := derive.ForTransmission(content, nil, cfg.MaxContentChars)
		client := workflow.New(cfg.Workflow.URL, cfg.Workflow.APIKey, cfg.Workflow.User, cfg.Workflow.Timeout())
		blog, err := client.Run(ctx, payload, flagKeywords)
		if err != nil {
			return fmt.Errorf("workflow run: %w", err)
		}
		fmt.Fprintln(os.Stdout, blog)
	}
	return nil
}

// selectOutputRenderer picks the output format; JSON is the default.
func selectOutputRenderer() (core.OutputRenderer, error) {
	count := 0
	for _, f := range []bool{flagMarkdown, flagJSON, flagPDF} {
		if f {
			count++
		}
	}
	if count > 1 {
		return nil, fmt.Errorf("only one output format allowed per run")
	}
	switch {
	case flagMarkdown:
		return render.NewMarkdownRenderer(), nil
	case flagPDF:
		return render.NewPDFRenderer(), nil
	default:
		return render.NewJSONRenderer(), nil
	}
}
