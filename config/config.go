// Package config holds the scraper settings: network identity, stage
// timeouts, content-size bounds, and the workflow engine endpoint.
// Values can be overridden from a YAML file; compiled-in defaults match
// the behavior the pipeline was tuned against.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultUserAgent is a realistic desktop Chrome identity. Some sites
// serve stripped-down or blocked pages to obvious bots.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124 Safari/537.36"

// Workflow configures the external blog-generation engine the payload
// is posted to.
type Workflow struct {
	URL        string `yaml:"url"`
	APIKey     string `yaml:"api_key"`
	User       string `yaml:"user"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// Timeout returns the workflow request timeout.
func (w Workflow) Timeout() time.Duration {
	return time.Duration(w.TimeoutSec) * time.Second
}

// Config is the full scraper configuration.
type Config struct {
	UserAgent        string `yaml:"user_agent"`
	AcceptLanguage   string `yaml:"accept_language"`
	FetchTimeoutSec  int    `yaml:"fetch_timeout_sec"`
	RenderTimeoutSec int    `yaml:"render_timeout_sec"`

	// MinTextChars is the escalation threshold: below it the fast-path
	// result is considered an empty SPA shell and a browser render runs.
	MinTextChars int `yaml:"min_text_chars"`
	// MaxContentChars caps extracted markdown and text.
	MaxContentChars int `yaml:"max_content_chars"`
	// MaxHTMLBytes bounds how much of a response body is read.
	MaxHTMLBytes int64 `yaml:"max_html_bytes"`

	Workflow Workflow `yaml:"workflow"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		UserAgent:        DefaultUserAgent,
		AcceptLanguage:   "zh-CN,zh;q=0.8",
		FetchTimeoutSec:  15,
		RenderTimeoutSec: 15,
		MinTextChars:     200,
		MaxContentChars:  12000,
		MaxHTMLBytes:     5_000_000,
		Workflow: Workflow{
			User:       "seo-blog-agent",
			TimeoutSec: 120,
		},
	}
}

// Load reads a YAML file over the defaults. Fields absent from the
// file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// FetchTimeout returns the fast-path request timeout.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSec) * time.Second
}

// RenderTimeout returns the browser navigation timeout.
func (c Config) RenderTimeout() time.Duration {
	return time.Duration(c.RenderTimeoutSec) * time.Second
}

// Locale returns the primary language tag of AcceptLanguage, e.g.
// "zh-CN" for "zh-CN,zh;q=0.8".
func (c Config) Locale() string {
	locale, _, _ := strings.Cut(c.AcceptLanguage, ",")
	return strings.TrimSpace(locale)
}
