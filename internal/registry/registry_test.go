package registry_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/okhsunrog/big-five-tester/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func anthropicEndpoint() registry.Endpoint {
	return registry.Endpoint{
		Provider:  registry.ProviderAnthropic,
		APIKeyEnv: "TEST_ANTHROPIC_KEY",
	}
}

func openAIEndpoint() registry.Endpoint {
	return registry.Endpoint{
		Provider:  registry.ProviderOpenAICompatible,
		APIKeyEnv: "TEST_OPENROUTER_KEY",
		APIURL:    "https://openrouter.example/api/v1/chat/completions",
	}
}

func preset(id string) registry.ModelPreset {
	return registry.ModelPreset{
		ID:          id,
		DisplayName: "Test " + id,
		API:         anthropicEndpoint(),
		Model:       "claude-test-1",
		SourceLang:  "en",
	}
}

func TestNew_NoPresets(t *testing.T) {
	_, err := registry.New(nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one model preset")
}

func TestNew_MissingID(t *testing.T) {
	p := preset("")
	_, err := registry.New([]registry.ModelPreset{p}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id is required")
}

func TestNew_DuplicateID(t *testing.T) {
	_, err := registry.New([]registry.ModelPreset{preset("a"), preset("a")}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate model id")
}

func TestNew_MissingModel(t *testing.T) {
	p := preset("a")
	p.Model = ""
	_, err := registry.New([]registry.ModelPreset{p}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model is required")
}

func TestNew_OpenAIRequiresURL(t *testing.T) {
	p := preset("a")
	p.API = registry.Endpoint{
		Provider:  registry.ProviderOpenAICompatible,
		APIKeyEnv: "TEST_KEY",
	}
	_, err := registry.New([]registry.ModelPreset{p}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_url is required")
}

func TestNew_TranslationOpenAIRequiresURL(t *testing.T) {
	p := preset("a")
	p.Translation = &registry.Translation{
		API: registry.Endpoint{
			Provider:  registry.ProviderOpenAICompatible,
			APIKeyEnv: "TEST_KEY",
		},
		Model: "translator-1",
	}
	_, err := registry.New([]registry.ModelPreset{p}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "translation.api")
}

func TestNew_UnknownProvider(t *testing.T) {
	p := preset("a")
	p.API.Provider = "bedrock"
	_, err := registry.New([]registry.ModelPreset{p}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider must be")
}

func TestNew_MultipleDefaults(t *testing.T) {
	a := preset("a")
	a.Default = true
	b := preset("b")
	b.Default = true
	_, err := registry.New([]registry.ModelPreset{a, b}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than one model preset marked default")
}

func TestNew_FirstPresetIsEffectiveDefault(t *testing.T) {
	r, err := registry.New([]registry.ModelPreset{preset("a"), preset("b")}, nil)
	require.NoError(t, err)

	assert.Equal(t, "a", r.DefaultModel().ID)

	infos := r.ListModels()
	require.Len(t, infos, 2)
	assert.True(t, infos[0].Default)
	assert.False(t, infos[1].Default)
}

func TestNew_ExplicitDefaultWins(t *testing.T) {
	a := preset("a")
	b := preset("b")
	b.Default = true
	r, err := registry.New([]registry.ModelPreset{a, b}, nil)
	require.NoError(t, err)

	assert.Equal(t, "b", r.DefaultModel().ID)
}

func TestNew_MaxTokensDefaults(t *testing.T) {
	p := preset("a")
	p.Translation = &registry.Translation{
		API:   openAIEndpoint(),
		Model: "translator-1",
	}
	sg := &registry.Safeguard{
		Enabled: true,
		API:     anthropicEndpoint(),
		Model:   "claude-guard-1",
	}

	r, err := registry.New([]registry.ModelPreset{p}, sg)
	require.NoError(t, err)

	m, ok := r.GetModel("a")
	require.True(t, ok)
	assert.Equal(t, 8192, m.MaxTokens)
	assert.Equal(t, 8192, m.Translation.MaxTokens)
	assert.Equal(t, 1024, r.Safeguard().MaxTokens)
}

func TestNew_EnabledSafeguardRequiresModel(t *testing.T) {
	sg := &registry.Safeguard{
		Enabled: true,
		API:     anthropicEndpoint(),
	}
	_, err := registry.New([]registry.ModelPreset{preset("a")}, sg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "safeguard")
}

func TestNew_DisabledSafeguardNotValidated(t *testing.T) {
	// A disabled safeguard can be structurally incomplete.
	sg := &registry.Safeguard{Enabled: false}
	r, err := registry.New([]registry.ModelPreset{preset("a")}, sg)
	require.NoError(t, err)
	assert.NotNil(t, r.Safeguard())
	assert.False(t, r.Safeguard().Enabled)
}

func TestGetModel_Unknown(t *testing.T) {
	r, err := registry.New([]registry.ModelPreset{preset("a")}, nil)
	require.NoError(t, err)

	_, ok := r.GetModel("nope")
	assert.False(t, ok)
}

func TestLoad_FromTOMLFile(t *testing.T) {
	content := `
[safeguard]
enabled = true
model = "claude-guard-1"

[safeguard.api]
provider = "anthropic"
api_key_env = "TEST_ANTHROPIC_KEY"

[[models]]
id = "main"
display_name = "Main Model"
model = "claude-test-1"
source_lang = "en"
default = true

[models.api]
provider = "anthropic"
api_key_env = "TEST_ANTHROPIC_KEY"

[models.thinking]
mode = "enabled"
budget_tokens = 2048

[[models]]
id = "alt"
display_name = "Alt Model"
model = "qwen-test"
source_lang = "zh"

[models.api]
provider = "openai"
api_key_env = "TEST_OPENROUTER_KEY"
api_url = "https://openrouter.example/api/v1/chat/completions"

[models.translation]
model = "translator-1"
max_tokens = 4096

[models.translation.api]
provider = "openai"
api_key_env = "TEST_OPENROUTER_KEY"
api_url = "https://openrouter.example/api/v1/chat/completions"
`
	path := filepath.Join(t.TempDir(), "ai_config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	r, err := registry.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "main", r.DefaultModel().ID)

	main, ok := r.GetModel("main")
	require.True(t, ok)
	require.NotNil(t, main.Thinking)
	assert.Equal(t, "enabled", main.Thinking.Mode)
	assert.Equal(t, 2048, main.Thinking.BudgetTokens)
	assert.Nil(t, main.Translation)
	assert.Equal(t, 8192, main.MaxTokens)

	alt, ok := r.GetModel("alt")
	require.True(t, ok)
	assert.Equal(t, "zh", alt.SourceLang)
	require.NotNil(t, alt.Translation)
	assert.Equal(t, "translator-1", alt.Translation.Model)
	assert.Equal(t, 4096, alt.Translation.MaxTokens)

	require.NotNil(t, r.Safeguard())
	assert.True(t, r.Safeguard().Enabled)
	assert.Equal(t, 1024, r.Safeguard().MaxTokens)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := registry.Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestEndpoint_APIKey(t *testing.T) {
	t.Setenv("TEST_ANTHROPIC_KEY", "sk-test-123")

	key, err := anthropicEndpoint().APIKey()
	require.NoError(t, err)
	assert.Equal(t, "sk-test-123", key)
}

func TestEndpoint_APIKeyMissing(t *testing.T) {
	t.Setenv("TEST_ANTHROPIC_KEY", "")

	_, err := anthropicEndpoint().APIKey()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TEST_ANTHROPIC_KEY")
}
