package llm

import "fmt"

// ProviderFactory builds a configured Provider, typically reading its
// settings from the environment.
type ProviderFactory func() (Provider, error)

// factories are registered by provider packages in their init().
var providers = make(map[string]ProviderFactory)

// RegisterProvider makes a factory available under name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewProvider constructs the provider registered under name.
func NewProvider(name string) (Provider, error) {
	factory, exists := providers[name]
	if !exists {
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
	return factory()
}
