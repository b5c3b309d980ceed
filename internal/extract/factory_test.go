package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradedocs/internal/config"
	"tradedocs/internal/domain"
	"tradedocs/internal/port"
)

type stubExtractor struct{}

func (stubExtractor) Extract(context.Context, port.ExtractInput) (*port.ExtractOutput, *domain.ExtractionFailure) {
	return &port.ExtractOutput{}, nil
}

func (stubExtractor) Name() string { return "stub" }

func TestNewExtractor_UnknownProvider(t *testing.T) {
	_, err := NewExtractor(&config.ProviderConfig{Provider: "carrier-pigeon"})
	assert.ErrorIs(t, err, domain.ErrUnknownProvider)
}

func TestNewExtractor_RegisteredProvider(t *testing.T) {
	RegisterProvider("stub", func(cfg *config.ProviderConfig) (port.Extractor, error) {
		return stubExtractor{}, nil
	})
	ext, err := NewExtractor(&config.ProviderConfig{Provider: "stub"})
	require.NoError(t, err)
	assert.Equal(t, "stub", ext.Name())
}

func TestNewExtractor_BuiltinsRegistered(t *testing.T) {
	for _, provider := range []string{"ollama", "ollama_cli"} {
		ext, err := NewExtractor(&config.ProviderConfig{Provider: provider, Model: "qwen3-vl:32b"})
		require.NoError(t, err, provider)
		assert.Equal(t, provider, ext.Name())
	}
	// Gemini refuses to build without an API key.
	_, err := NewExtractor(&config.ProviderConfig{Provider: "gemini"})
	assert.Error(t, err)
}
