package resolver

import (
	"net/http"

	"github.com/nlp2cmd/nlp2cmd/internal/domain"
	"github.com/nlp2cmd/nlp2cmd/internal/ports"
)

// Factory builds intent resolvers from resolver configurations. An empty
// endpoint selects the offline rule engine.
type Factory struct {
	httpClient *http.Client
}

// NewFactory returns a Factory with a shared HTTP client.
func NewFactory() *Factory {
	return &Factory{
		httpClient: &http.Client{Timeout: domain.DefaultHTTPClientTimeout},
	}
}

// ForConfig implements ports.ResolverFactory.
func (f *Factory) ForConfig(cfg domain.ResolverConfig) (ports.IntentResolver, error) {
	if cfg.Endpoint == "" {
		return newHeuristicResolver(cfg.Name, cfg.RulesFile)
	}
	return newHTTPResolver(cfg, f.httpClient), nil
}

var _ ports.ResolverFactory = (*Factory)(nil)
