package parser

import (
	"fmt"

	"docextract/internal/config"
	"docextract/internal/port"
)

// ProviderFactory is a function that creates a DocumentParser from a provider config.
type ProviderFactory func(cfg *config.ParserProviderConfig) (port.DocumentParser, error)

// registry of parser provider factories, populated by init() in each provider package
// or explicitly via RegisterProvider.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a parser provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewParser creates a DocumentParser from a provider config using the registered factory.
func NewParser(cfg *config.ParserProviderConfig) (port.DocumentParser, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown parser provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// NewFromConfig builds the fallback chain primary → secondary → tertiary from
// the parser config. Unconfigured slots are skipped.
func NewFromConfig(cfg *config.ParserConfig, opts ...FallbackOption) (*FallbackParser, error) {
	var (
		parsers []port.DocumentParser
		names   []string
	)
	for _, pc := range []*config.ParserProviderConfig{cfg.PrimaryConfig(), cfg.SecondaryConfig(), cfg.TertiaryConfig()} {
		if pc == nil {
			continue
		}
		p, err := NewParser(pc)
		if err != nil {
			return nil, err
		}
		parsers = append(parsers, p)
		names = append(names, pc.Provider)
	}
	return NewFallbackParser(parsers, names, opts...), nil
}
