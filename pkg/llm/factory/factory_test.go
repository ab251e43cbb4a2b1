package factory

import (
	"testing"

	"podbot-be/pkg/llm/anthropic"
	"podbot-be/pkg/llm/ollama"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	p, err := NewLLMProvider(Config{Provider: "ollama", Model: "llama3"})
	require.NoError(t, err)
	o, ok := p.(*ollama.OllamaProvider)
	require.True(t, ok)
	assert.Equal(t, ollama.DefaultBaseURL, o.BaseURL())

	p, err = NewLLMProvider(Config{Provider: "anthropic", Model: "claude-test", AnthropicAPIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &anthropic.AnthropicProvider{}, p)

	_, err = NewLLMProvider(Config{Provider: "anthropic"})
	assert.Error(t, err)

	_, err = NewLLMProvider(Config{Provider: "gpt-9"})
	assert.Error(t, err)
}
