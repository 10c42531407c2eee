// Package browser implements the PageRenderer interface with a
// headless Chrome instance driven over the DevTools protocol. A fresh
// browser is launched per invocation and torn down on every exit path;
// this path is the exception, not the common case, so simplicity wins
// over throughput.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/kv-sajeev/sitescribe/core"
)

// blockedPatterns aborts media downloads to cut bandwidth and speed up
// rendering. The text content never lives in these.
var blockedPatterns = []string{
	"*.png", "*.jpg", "*.jpeg", "*.gif", "*.webp", "*.mp4", "*.avi",
}

const defaultTimeout = 15 * time.Second

// Options configures a ChromeRenderer.
type Options struct {
	UserAgent      string
	AcceptLanguage string
	// Timeout bounds the whole launch-navigate-capture sequence.
	// Defaults to 15s.
	Timeout time.Duration
}

// ChromeRenderer renders pages in headless Chrome.
type ChromeRenderer struct {
	opts Options
}

// New creates a ChromeRenderer.
func New(opts Options) *ChromeRenderer {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &ChromeRenderer{opts: opts}
}

// Render navigates to rawURL in an isolated browsing context and
// returns the rendered DOM, the final URL after client-side redirects,
// and the document response status.
func (r *ChromeRenderer) Render(ctx context.Context, rawURL string, locale string) (*core.RenderResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
	)
	if r.opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(r.opts.UserAgent))
	}
	if locale != "" {
		allocOpts = append(allocOpts, chromedp.Flag("lang", locale))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	// The first document response carries the page's status code.
	statusCh := make(chan int, 1)
	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		if resp, ok := ev.(*network.EventResponseReceived); ok {
			if resp.Type == network.ResourceTypeDocument {
				select {
				case statusCh <- int(resp.Response.Status):
				default:
				}
			}
		}
	})

	tasks := chromedp.Tasks{network.Enable()}
	if r.opts.AcceptLanguage != "" {
		tasks = append(tasks, network.SetExtraHTTPHeaders(network.Headers{
			"Accept-Language": r.opts.AcceptLanguage,
		}))
	}
	var html, finalURL string
	tasks = append(tasks,
		network.SetBlockedURLs(blockedPatterns),
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Location(&finalURL),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)

	if err := chromedp.Run(browserCtx, tasks); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", rawURL, err)
	}

	status := 0
	select {
	case status = <-statusCh:
	default:
	}

	return &core.RenderResult{
		StatusCode: status,
		HTML:       html,
		FinalURL:   finalURL,
	}, nil
}
