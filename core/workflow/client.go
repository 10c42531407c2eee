// Package workflow sends the trimmed scrape payload to the external
// blog-generation engine. The core is a one-way data producer for that
// collaborator; only the answer text of the response is surfaced.
package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kv-sajeev/sitescribe/core/derive"
)

const defaultTimeout = 120 * time.Second

// Client posts workflow runs to a Dify-style HTTP endpoint.
type Client struct {
	endpoint string
	apiKey   string
	user     string
	client   *http.Client
}

// New creates a Client for the given endpoint. apiKey may be empty for
// unauthenticated engines.
func New(endpoint, apiKey, user string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		user:     user,
		client:   &http.Client{Timeout: timeout},
	}
}

// runRequest is the engine's run body. The payload travels as a JSON
// string under inputs.url_content; Keywords is a separately-sourced
// JSON array, also pre-serialized.
type runRequest struct {
	Inputs       runInputs `json:"inputs"`
	ResponseMode string    `json:"response_mode"`
	User         string    `json:"user"`
}

type runInputs struct {
	URLContent string `json:"url_content"`
	Keywords   string `json:"Keywords"`
}

type runResponse struct {
	Data struct {
		Outputs map[string]any `json:"outputs"`
	} `json:"data"`
}

// Run posts the payload plus the keyword array and returns the
// generated blog text, if the engine produced one.
func (c *Client) Run(ctx context.Context, payload *derive.Payload, keywordsJSON string) (string, error) {
	content, err := payload.JSON()
	if err != nil {
		return "", fmt.Errorf("serializing payload: %w", err)
	}
	if keywordsJSON == "" {
		keywordsJSON = "[]"
	}
	body, err := json.Marshal(runRequest{
		Inputs: runInputs{
			URLContent: string(content),
			Keywords:   keywordsJSON,
		},
		ResponseMode: "blocking",
		User:         c.user,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling workflow engine: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("workflow engine returned %d: %s", resp.StatusCode, string(msg))
	}

	var out runResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding workflow response: %w", err)
	}
	if blog, ok := out.Data.Outputs["seo_blog"].(string); ok && blog != "" {
		return blog, nil
	}
	if answer, ok := out.Data.Outputs["answer"].(string); ok {
		return answer, nil
	}
	return "", nil
}
