// Package config validates loaded configuration before it reaches the
// synthesizer.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/nlp2cmd/nlp2cmd/internal/domain"
)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if len(cfg.Resolvers) == 0 {
		return errors.New("at least one resolver must be configured")
	}
	if cfg.Synthesis.DefaultResolver != "" {
		if _, ok := cfg.Resolver(cfg.Synthesis.DefaultResolver); !ok {
			return fmt.Errorf("default resolver %s not found in resolvers list", cfg.Synthesis.DefaultResolver)
		}
	}
	if err := validateDSL(cfg.Synthesis.DefaultDSL); err != nil {
		return err
	}
	if cfg.Synthesis.TimeoutSeconds < 0 {
		return fmt.Errorf("synthesis.timeout must be >= 0, got %d", cfg.Synthesis.TimeoutSeconds)
	}
	for _, r := range cfg.Resolvers {
		if err := validateResolver(r); err != nil {
			return err
		}
	}
	if err := validateCache(cfg.Cache); err != nil {
		return err
	}
	return nil
}

func validateDSL(dsl string) error {
	switch strings.ToLower(dsl) {
	case "", "shell", "sql", "docker", "kubernetes", "k8s", "kubectl":
		return nil
	default:
		return fmt.Errorf("synthesis.default_dsl must be shell|sql|docker|kubernetes, got %s", dsl)
	}
}

func validateResolver(r domain.ResolverConfig) error {
	if r.Name == "" {
		return errors.New("resolver with empty name")
	}
	if r.Endpoint == "" {
		return nil
	}
	u, err := url.Parse(r.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("resolver %s: endpoint %q is not a valid URL", r.Name, r.Endpoint)
	}
	if r.MaxTokens < 0 {
		return fmt.Errorf("resolver %s: max_tokens must be >= 0", r.Name)
	}
	return nil
}

func validateCache(cache domain.CacheSettings) error {
	if cache.TTL != "" {
		if _, err := time.ParseDuration(cache.TTL); err != nil {
			return fmt.Errorf("cache.ttl invalid: %w", err)
		}
	}
	if cache.MaxEntries < 0 {
		return fmt.Errorf("cache.max_entries must be >= 0")
	}
	return nil
}
