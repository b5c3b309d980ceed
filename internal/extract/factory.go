package extract

import (
	"fmt"

	"tradedocs/internal/config"
	"tradedocs/internal/domain"
	"tradedocs/internal/extract/gemini"
	"tradedocs/internal/extract/ollama"
	"tradedocs/internal/extract/ollamacli"
	"tradedocs/internal/port"
)

// ProviderFactory is a function that creates an Extractor from a provider config.
type ProviderFactory func(cfg *config.ProviderConfig) (port.Extractor, error)

// registry of extractor factories. The built-in providers are registered
// below; tests can register stand-ins via RegisterProvider.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers an extractor factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

func init() {
	RegisterProvider("ollama", func(cfg *config.ProviderConfig) (port.Extractor, error) {
		return ollama.NewExtractor(cfg), nil
	})
	RegisterProvider("ollama_cli", func(cfg *config.ProviderConfig) (port.Extractor, error) {
		return ollamacli.NewExtractor(cfg), nil
	})
	RegisterProvider("gemini", func(cfg *config.ProviderConfig) (port.Extractor, error) {
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini provider requires an API key")
		}
		return gemini.NewExtractor(cfg), nil
	})
}

// NewExtractor creates an Extractor from a provider config using the
// registered factory.
func NewExtractor(cfg *config.ProviderConfig) (port.Extractor, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownProvider, cfg.Provider)
	}
	return factory(cfg)
}
