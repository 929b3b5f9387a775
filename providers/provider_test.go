package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Mock(t *testing.T) {
	p, err := New(context.Background(), "mock")
	require.NoError(t, err)
	assert.Equal(t, "mock", p.GetName())
}

func TestNew_Unknown(t *testing.T) {
	_, err := New(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown provider "nope"`)
}

func TestNew_MissingCredentials(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := New(context.Background(), "openai")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create openai provider")
}

func TestNew_OpenAIFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test")
	p, err := New(context.Background(), "openai")
	require.NoError(t, err)
	assert.Equal(t, "openai", p.GetName())
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"anthropic", "gemini", "mock", "openai"}, Names())
}
