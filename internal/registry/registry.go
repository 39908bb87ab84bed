// Package registry loads and validates the AI model preset configuration.
//
// Presets are described in a TOML file (path from AI_CONFIG_PATH, default
// ./ai_config.toml), parsed once at process start. The registry is immutable
// after Load; lookups are safe for concurrent use.
package registry

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// ProviderKind selects which wire protocol an endpoint speaks.
type ProviderKind string

const (
	// ProviderAnthropic is the Anthropic Messages API (fixed endpoint).
	ProviderAnthropic ProviderKind = "anthropic"
	// ProviderOpenAICompatible is any OpenAI-compatible chat completions
	// endpoint (OpenRouter, OpenAI, Ollama, vLLM, ...) at a configured URL.
	ProviderOpenAICompatible ProviderKind = "openai"
)

// Default token budgets applied when the config omits max_tokens.
const (
	defaultMaxTokens          = 8192
	defaultSafeguardMaxTokens = 1024
)

// Endpoint describes how to reach a provider. The API key itself is never
// stored in config, only the name of the environment variable holding it.
type Endpoint struct {
	Provider  ProviderKind `mapstructure:"provider"`
	APIKeyEnv string       `mapstructure:"api_key_env"`
	APIURL    string       `mapstructure:"api_url"`
}

// APIKey resolves the key from the environment. A missing variable is a
// call-time error (operator-fixable without a restart of config validation),
// not a load-time one.
func (e Endpoint) APIKey() (string, error) {
	key := os.Getenv(e.APIKeyEnv)
	if key == "" {
		return "", fmt.Errorf("environment variable %q not set", e.APIKeyEnv)
	}
	return key, nil
}

func (e Endpoint) validate(section string) error {
	switch e.Provider {
	case ProviderAnthropic:
	case ProviderOpenAICompatible:
		if e.APIURL == "" {
			return fmt.Errorf("[%s] api_url is required for the %q provider", section, ProviderOpenAICompatible)
		}
	default:
		return fmt.Errorf("[%s] provider must be %q or %q, got %q",
			section, ProviderAnthropic, ProviderOpenAICompatible, e.Provider)
	}
	if e.APIKeyEnv == "" {
		return fmt.Errorf("[%s] api_key_env is required", section)
	}
	return nil
}

// Thinking is pass-through extended-thinking configuration for a preset.
// Exactly one of the two modes applies: an explicit token budget, or
// adaptive mode with an effort tier.
type Thinking struct {
	Mode         string `mapstructure:"mode"`   // "enabled" or "adaptive"
	BudgetTokens int    `mapstructure:"budget_tokens"`
	Effort       string `mapstructure:"effort"` // "low", "medium", "high" (adaptive only)
}

// Translation is the optional second pipeline stage for a preset whose
// native language differs from the interface language. It carries its own
// endpoint and budget, which may differ from the main preset's.
type Translation struct {
	API       Endpoint `mapstructure:"api"`
	Model     string   `mapstructure:"model"`
	MaxTokens int      `mapstructure:"max_tokens"`
}

// ModelPreset is a named, pre-validated configuration bundle selecting one
// model, its provider, and its call parameters. Immutable after Load.
type ModelPreset struct {
	ID          string       `mapstructure:"id"`
	DisplayName string       `mapstructure:"display_name"`
	API         Endpoint     `mapstructure:"api"`
	Model       string       `mapstructure:"model"`
	MaxTokens   int          `mapstructure:"max_tokens"`
	SourceLang  string       `mapstructure:"source_lang"` // language the model answers in natively
	Default     bool         `mapstructure:"default"`
	Thinking    *Thinking    `mapstructure:"thinking"`
	Translation *Translation `mapstructure:"translation"`
}

// Safeguard is the optional prompt-injection classifier, shared across all
// presets.
type Safeguard struct {
	Enabled   bool     `mapstructure:"enabled"`
	API       Endpoint `mapstructure:"api"`
	Model     string   `mapstructure:"model"`
	MaxTokens int      `mapstructure:"max_tokens"`
}

// ModelInfo is the read-only listing entry exposed to clients.
type ModelInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Default     bool   `json:"default"`
}

// Registry holds the validated preset configuration for the process lifetime.
type Registry struct {
	safeguard *Safeguard
	models    []ModelPreset
	byID      map[string]*ModelPreset
	def       *ModelPreset
}

type fileSchema struct {
	Safeguard *Safeguard    `mapstructure:"safeguard"`
	Models    []ModelPreset `mapstructure:"models"`
}

// Load reads and validates the preset file. Any error here is fatal at
// process start; configuration errors are not recoverable at runtime.
func Load(path string) (*Registry, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	var schema fileSchema
	if err := v.Unmarshal(&schema); err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}

	return New(schema.Models, schema.Safeguard)
}

// New builds a Registry from already-parsed presets. Exported separately so
// tests can construct registries without a config file on disk.
func New(models []ModelPreset, safeguard *Safeguard) (*Registry, error) {
	if len(models) == 0 {
		return nil, fmt.Errorf("at least one model preset is required")
	}

	r := &Registry{
		safeguard: safeguard,
		models:    models,
		byID:      make(map[string]*ModelPreset, len(models)),
	}

	for i := range r.models {
		m := &r.models[i]
		section := fmt.Sprintf("models[%d]", i)

		if m.ID == "" {
			return nil, fmt.Errorf("[%s] id is required", section)
		}
		if _, dup := r.byID[m.ID]; dup {
			return nil, fmt.Errorf("[%s] duplicate model id %q", section, m.ID)
		}
		if m.Model == "" {
			return nil, fmt.Errorf("[%s] model is required", section)
		}
		if err := m.API.validate(section + ".api"); err != nil {
			return nil, err
		}
		if m.MaxTokens <= 0 {
			m.MaxTokens = defaultMaxTokens
		}
		if m.Translation != nil {
			if err := m.Translation.API.validate(section + ".translation.api"); err != nil {
				return nil, err
			}
			if m.Translation.MaxTokens <= 0 {
				m.Translation.MaxTokens = defaultMaxTokens
			}
		}

		if m.Default {
			if r.def != nil {
				return nil, fmt.Errorf("[%s] more than one model preset marked default (%q and %q)",
					section, r.def.ID, m.ID)
			}
			r.def = m
		}
		r.byID[m.ID] = m
	}

	// Zero defaults is allowed: the first preset becomes the effective one.
	if r.def == nil {
		r.def = &r.models[0]
	}

	if safeguard != nil && safeguard.Enabled {
		if err := safeguard.API.validate("safeguard.api"); err != nil {
			return nil, err
		}
		if safeguard.Model == "" {
			return nil, fmt.Errorf("[safeguard] model is required when enabled")
		}
		if safeguard.MaxTokens <= 0 {
			safeguard.MaxTokens = defaultSafeguardMaxTokens
		}
	}

	return r, nil
}

// DefaultModel returns the preset marked default, or the first preset when
// none is marked.
func (r *Registry) DefaultModel() *ModelPreset {
	return r.def
}

// GetModel looks up a preset by id.
func (r *Registry) GetModel(id string) (*ModelPreset, bool) {
	m, ok := r.byID[id]
	return m, ok
}

// Safeguard returns the shared safeguard preset, or nil when not configured.
func (r *Registry) Safeguard() *Safeguard {
	return r.safeguard
}

// ListModels returns the client-facing view of all presets, in file order.
func (r *Registry) ListModels() []ModelInfo {
	out := make([]ModelInfo, 0, len(r.models))
	for i := range r.models {
		m := &r.models[i]
		out = append(out, ModelInfo{
			ID:          m.ID,
			DisplayName: m.DisplayName,
			Default:     m == r.def,
		})
	}
	return out
}
