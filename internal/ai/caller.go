// Package ai implements the model provider client and the analysis pipeline.
package ai

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/okhsunrog/big-five-tester/internal/registry"
)

// apiTimeout bounds a single provider call. Three minutes allows for slow
// large-model responses; exceeding it is a RequestError, not a hang.
const apiTimeout = 180 * time.Second

// CallRequest holds everything needed for one provider invocation.
type CallRequest struct {
	Endpoint  registry.Endpoint
	Model     string
	System    string // optional system instruction; empty means none
	User      string
	MaxTokens int
	Thinking  *registry.Thinking // nil means the parameter is omitted entirely
}

// Caller sends one prompt to a configured model endpoint and returns the
// extracted text. Implementations make exactly one outbound call per
// invocation and never retry; retry policy belongs to the caller.
type Caller interface {
	Call(ctx context.Context, req CallRequest) (string, error)
}

// HTTPCaller implements Caller over both supported wire protocols.
type HTTPCaller struct {
	client *http.Client

	// anthropicURL is fixed in production; tests point it at a local server.
	anthropicURL string
}

// NewHTTPCaller creates a caller with the per-call timeout applied.
func NewHTTPCaller() *HTTPCaller {
	return &HTTPCaller{
		client:       &http.Client{Timeout: apiTimeout},
		anthropicURL: anthropicMessagesURL,
	}
}

// Call dispatches on the endpoint's provider kind. Callers never branch on
// the kind themselves.
func (c *HTTPCaller) Call(ctx context.Context, req CallRequest) (string, error) {
	slog.Debug("calling model",
		"provider", string(req.Endpoint.Provider),
		"model", req.Model,
		"max_tokens", req.MaxTokens,
		"prompt_len", len(req.User),
	)
	start := time.Now()

	var (
		text string
		err  error
	)
	switch req.Endpoint.Provider {
	case registry.ProviderAnthropic:
		text, err = c.callAnthropic(ctx, req)
	case registry.ProviderOpenAICompatible:
		text, err = c.callOpenAI(ctx, req)
	default:
		err = &ConfigError{Msg: fmt.Sprintf("unknown provider kind %q", req.Endpoint.Provider)}
	}

	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		slog.Warn("model call failed", "model", req.Model, "elapsed_ms", elapsed, "error", err)
		return "", err
	}
	slog.Info("model call succeeded", "model", req.Model, "elapsed_ms", elapsed, "response_len", len(text))
	return text, nil
}

var _ Caller = (*HTTPCaller)(nil)
