// Package urlutil provides URL helpers shared by the extraction
// pipeline: reference resolution, host matching, and tracking-parameter
// removal.
package urlutil

import (
	"net/url"
	"strings"
)

// Resolve resolves a possibly relative href against base and returns
// the absolute URL. Non-navigational schemes (mailto, javascript, tel)
// and bare fragments resolve to "".
func Resolve(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	if strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "tel:") {
		return ""
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		return parsed.String()
	}
	return base.ResolveReference(parsed).String()
}

// SameHost reports whether rawURL points at the given host.
func SameHost(rawURL string, host string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return parsed.Host != "" && parsed.Host == host
}

// StripParams removes the named query parameters from rawURL. Unrelated
// parameters are kept unchanged. A URL that does not parse is returned
// as-is.
func StripParams(rawURL string, keys []string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := parsed.Query()
	changed := false
	for _, k := range keys {
		if q.Has(k) {
			q.Del(k)
			changed = true
		}
	}
	if !changed {
		return rawURL
	}
	parsed.RawQuery = q.Encode()
	return parsed.String()
}
