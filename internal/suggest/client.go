package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrNoStrategy means no AI proxy is configured.
	ErrNoStrategy = errors.New("no AI strategy configured: set AI_PROXY_URL")
	// ErrBadResponse means the proxy answered without usable JSON text.
	ErrBadResponse = errors.New("unusable AI response")
)

// responseSchema constrains the model output to a list of suggestions.
var responseSchema = map[string]any{
	"type": "ARRAY",
	"items": map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"partTitle":   map[string]any{"type": "STRING", "description": "O título exato da parte a ser designada."},
			"studentName": map[string]any{"type": "STRING", "description": "O nome completo do publicador designado."},
			"helperName":  map[string]any{"type": "STRING", "description": "O nome completo do ajudante, ou 'N/A'."},
		},
		"required": []string{"partTitle", "studentName", "helperName"},
	},
}

// Client talks to the AI scheduling proxy.
type Client struct {
	proxyURL string
	client   *http.Client
}

type proxyRequest struct {
	Prompt         string `json:"prompt"`
	ResponseSchema any    `json:"responseSchema"`
}

type proxyResponse struct {
	Text         string `json:"text"`
	RawText      string `json:"rawText"`
	ResponseText string `json:"responseText"`
}

// NewClient creates a proxy client. A nil httpClient gets a client with
// timeout.
func NewClient(proxyURL string, httpClient *http.Client, timeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{proxyURL: strings.TrimSpace(proxyURL), client: httpClient}
}

// Suggest sends prompt to the proxy and decodes the proposed assignments.
func (c *Client) Suggest(ctx context.Context, prompt string) ([]Suggestion, error) {
	if c == nil || c.proxyURL == "" {
		return nil, ErrNoStrategy
	}

	body, err := json.Marshal(proxyRequest{Prompt: strings.TrimSpace(prompt), ResponseSchema: responseSchema})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.proxyURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ai proxy request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ai proxy error %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var result proxyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	text := firstNonEmpty(result.Text, result.RawText, result.ResponseText)
	if text == "" {
		return nil, fmt.Errorf("%w: empty text", ErrBadResponse)
	}
	return ParseSuggestions(text)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
