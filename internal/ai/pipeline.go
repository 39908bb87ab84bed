package ai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/okhsunrog/big-five-tester/internal/registry"
	"github.com/okhsunrog/big-five-tester/pkg/models"
)

// Request is the transient input to one analysis run. Created per user
// action, consumed by the pipeline, never stored.
type Request struct {
	Profile     models.PersonalityProfile
	UserContext string // optional free-text context; whitespace-only counts as absent
	Lang        string // target interface language code
	ModelID     string // preset id; empty selects the default preset
	ResultID    string // optional saved-result id, used for linking only
}

// Pipeline runs the ordered, conditional stage sequence:
// safeguard gate → generation → optional translation.
// Stages run strictly in sequence; failures are typed values, never retried
// here, and never fatal to the process.
type Pipeline struct {
	registry *registry.Registry
	caller   Caller
}

// NewPipeline creates a pipeline over the given registry and provider caller.
func NewPipeline(reg *registry.Registry, caller Caller) *Pipeline {
	return &Pipeline{registry: reg, caller: caller}
}

// Generate produces the final analysis text for one request.
func (p *Pipeline) Generate(ctx context.Context, req Request) (string, error) {
	preset, err := p.resolvePreset(req.ModelID)
	if err != nil {
		return "", err
	}

	slog.Info("starting analysis pipeline",
		"model_id", preset.ID,
		"model", preset.Model,
		"source_lang", preset.SourceLang,
		"lang", req.Lang,
		"has_context", strings.TrimSpace(req.UserContext) != "",
	)

	// Stage 0: safeguard gate. Entered only when a safeguard is configured,
	// enabled, and the caller supplied non-empty context. On veto the
	// generation stage must never run.
	if userContext := strings.TrimSpace(req.UserContext); userContext != "" {
		if err := p.checkSafeguard(ctx, userContext); err != nil {
			return "", err
		}
	}

	// Stage 1: generation in the preset's native language.
	prompt := analysisPrompt(preset.SourceLang, &req.Profile, req.UserContext)
	analysis, err := p.caller.Call(ctx, CallRequest{
		Endpoint:  preset.API,
		Model:     preset.Model,
		User:      prompt,
		MaxTokens: preset.MaxTokens,
		Thinking:  preset.Thinking,
	})
	if err != nil {
		return "", err
	}

	// Stage 2: translation, only when the native language differs from the
	// interface language and the preset configures a translation block.
	if preset.SourceLang == req.Lang {
		slog.Debug("source matches interface language, skipping translation", "lang", req.Lang)
		return analysis, nil
	}
	if preset.Translation == nil {
		slog.Debug("no translation configured, returning analysis in source language",
			"source_lang", preset.SourceLang)
		return analysis, nil
	}

	slog.Info("translating analysis",
		"model", preset.Translation.Model,
		"from", preset.SourceLang,
		"to", req.Lang,
	)
	translated, err := p.caller.Call(ctx, CallRequest{
		Endpoint:  preset.Translation.API,
		Model:     preset.Translation.Model,
		User:      translationPrompt(analysis, preset.SourceLang, req.Lang),
		MaxTokens: preset.Translation.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	return translated, nil
}

func (p *Pipeline) resolvePreset(modelID string) (*registry.ModelPreset, error) {
	if modelID == "" {
		return p.registry.DefaultModel(), nil
	}
	preset, ok := p.registry.GetModel(modelID)
	if !ok {
		return nil, &InvalidModelError{ID: modelID}
	}
	return preset, nil
}

// checkSafeguard classifies the user context with the safeguard model.
// Policy is "unsafe unless explicitly and exclusively safe": a reply that
// contains "UNSAFE", or does not contain "SAFE" at all, aborts the pipeline.
func (p *Pipeline) checkSafeguard(ctx context.Context, userContext string) error {
	safeguard := p.registry.Safeguard()
	if safeguard == nil || !safeguard.Enabled {
		slog.Debug("safeguard not configured or disabled, skipping")
		return nil
	}

	reply, err := p.caller.Call(ctx, CallRequest{
		Endpoint:  safeguard.API,
		Model:     safeguard.Model,
		System:    safeguardSystemPrompt,
		User:      userContext,
		MaxTokens: safeguard.MaxTokens,
	})
	if err != nil {
		return err
	}

	verdict := strings.ToUpper(strings.TrimSpace(reply))
	if strings.Contains(verdict, "UNSAFE") || !strings.Contains(verdict, "SAFE") {
		slog.Warn("safeguard rejected user context", "verdict_len", len(verdict))
		return ErrUnsafeInput
	}

	slog.Debug("safeguard passed")
	return nil
}
