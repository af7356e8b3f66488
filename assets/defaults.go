package assets

import (
	_ "embed"
)

// DefaultConfigYAML contains the embedded default configuration.
//
//go:embed defaults/config.yaml
var DefaultConfigYAML []byte

// DefaultSchemasJSON contains the embedded default command schemas
// (git, docker, kubectl, sql) used to pre-populate the schema cache.
//
//go:embed defaults/schemas.json
var DefaultSchemasJSON []byte

// DefaultResolverRulesYAML contains the embedded intent rules for the
// offline rule engine.
//
//go:embed defaults/resolver_rules.yaml
var DefaultResolverRulesYAML []byte
