// Package doctor runs environment diagnostics for the CLI and the health
// endpoint.
package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nlp2cmd/nlp2cmd/internal/domain"
	"github.com/nlp2cmd/nlp2cmd/internal/ports"
)

// Service runs diagnostics over the wired adapters.
type Service struct {
	ConfigProvider  ports.ConfigProvider
	Cache           ports.SchemaCache
	ResolverFactory ports.ResolverFactory
	History         ports.HistoryRepository
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("format version %s", cfg.ConfigFormatVersion)))

	if s.Cache != nil {
		entries := s.Cache.Entries()
		if len(entries) == 0 {
			checks = append(checks, warn("Schema cache", "no schemas loaded"))
		} else {
			checks = append(checks, ok("Schema cache", fmt.Sprintf("%d schemas cached", len(entries))))
		}
	}

	if s.ResolverFactory != nil {
		resolverCfg, found := cfg.Resolver("")
		if !found {
			checks = append(checks, fail("Resolver", "no resolver configured"))
		} else if _, err := s.ResolverFactory.ForConfig(resolverCfg); err != nil {
			checks = append(checks, fail("Resolver", err.Error()))
		} else if resolverCfg.Endpoint != "" && resolverCfg.AuthEnvVar != "" && os.Getenv(resolverCfg.AuthEnvVar) == "" {
			checks = append(checks, warn("Resolver", fmt.Sprintf("%s is not set; %s may reject requests", resolverCfg.AuthEnvVar, resolverCfg.Name)))
		} else {
			checks = append(checks, ok("Resolver", resolverCfg.Name))
		}
	}

	if s.History != nil {
		dir := filepath.Dir(s.History.Path())
		if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
			checks = append(checks, warn("History store", fmt.Sprintf("directory not writable: %v", err)))
		} else {
			checks = append(checks, ok("History store", s.History.Path()))
		}
	}

	return domain.HealthReport{Checks: checks}, nil
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
