package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
)

// --- OpenAI-compatible request/response types ---
//
// Works with OpenRouter, OpenAI, Ollama, vLLM and anything else speaking the
// chat completions shape. The endpoint URL comes from config; the registry
// guarantees it is set for this provider kind.

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []openAIMessage `json:"messages"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *HTTPCaller) callOpenAI(ctx context.Context, req CallRequest) (string, error) {
	apiKey, err := req.Endpoint.APIKey()
	if err != nil {
		return "", &ConfigError{Msg: err.Error()}
	}

	messages := make([]openAIMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openAIMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, openAIMessage{Role: "user", Content: req.User})

	payload, err := json.Marshal(openAIRequest{
		Model:     req.Model,
		MaxTokens: req.MaxTokens,
		Messages:  messages,
	})
	if err != nil {
		return "", &RequestError{Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.Endpoint.APIURL, bytes.NewReader(payload))
	if err != nil {
		return "", &RequestError{Err: err}
	}
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
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

	var apiResp openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", &ParseError{Err: err}
	}

	if len(apiResp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return apiResp.Choices[0].Message.Content, nil
}
