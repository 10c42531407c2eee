// Package render — JSON renderer. The scraped page content is already
// fully structured, so this is a straight indented marshal.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/kv-sajeev/sitescribe/core"
)

// JSONRenderer emits the complete standardized page content as JSON.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render marshals the page content.
func (r *JSONRenderer) Render(content *core.PageContent) ([]byte, error) {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}
