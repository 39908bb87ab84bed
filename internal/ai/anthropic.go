package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/okhsunrog/big-five-tester/internal/registry"
)

const (
	anthropicMessagesURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion     = "2023-06-01"
)

// --- Anthropic request types ---

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// anthropicThinking is the wire form of the thinking parameter. When the
// caller requests no thinking, the field is absent from the request body
// entirely; some servers reject an explicit-but-disabled value.
type anthropicThinking struct {
	Type         string `json:"type"`
	BudgetTokens int    `json:"budget_tokens,omitempty"`
}

type anthropicOutputConfig struct {
	Effort string `json:"effort"`
}

type anthropicRequest struct {
	Model        string                 `json:"model"`
	MaxTokens    int                    `json:"max_tokens"`
	System       string                 `json:"system,omitempty"`
	Messages     []anthropicMessage     `json:"messages"`
	Thinking     *anthropicThinking     `json:"thinking,omitempty"`
	OutputConfig *anthropicOutputConfig `json:"output_config,omitempty"`
}

// --- Anthropic response types ---

// anthropicContentBlock is one entry of the typed content array. Thinking
// blocks carry no Text and are discarded.
type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicResponse struct {
	Content []anthropicContentBlock `json:"content"`
}

func (c *HTTPCaller) callAnthropic(ctx context.Context, req CallRequest) (string, error) {
	apiKey, err := req.Endpoint.APIKey()
	if err != nil {
		return "", &ConfigError{Msg: err.Error()}
	}

	body := anthropicRequest{
		Model:     req.Model,
		MaxTokens: req.MaxTokens,
		System:    req.System,
		Messages:  []anthropicMessage{{Role: "user", Content: req.User}},
	}
	body.Thinking, body.OutputConfig = buildThinkingParams(req.Thinking)

	payload, err := json.Marshal(body)
	if err != nil {
		return "", &RequestError{Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.anthropicURL, bytes.NewReader(payload))
	if err != nil {
		return "", &RequestError{Err: err}
	}
	httpReq.Header.Set("x-api-key", apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", &RequestError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return "", &APIError{Status: resp.StatusCode, Body: string(raw)}
	}

	var apiResp anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", &ParseError{Err: err}
	}

	return extractText(apiResp.Content)
}

// buildThinkingParams maps the preset's pass-through thinking config onto
// the wire parameters. Effort "high" is the server default for adaptive
// mode and is not sent explicitly.
func buildThinkingParams(t *registry.Thinking) (*anthropicThinking, *anthropicOutputConfig) {
	if t == nil {
		return nil, nil
	}
	switch t.Mode {
	case "adaptive":
		var out *anthropicOutputConfig
		if t.Effort != "" && t.Effort != "high" {
			out = &anthropicOutputConfig{Effort: t.Effort}
		}
		return &anthropicThinking{Type: "adaptive"}, out
	case "enabled":
		return &anthropicThinking{Type: "enabled", BudgetTokens: t.BudgetTokens}, nil
	default:
		return nil, nil
	}
}

// extractText concatenates the text blocks of a response. With thinking
// enabled the content array interleaves thinking and text blocks; only text
// reaches the caller.
func extractText(content []anthropicContentBlock) (string, error) {
	var sb strings.Builder
	for _, block := range content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}
