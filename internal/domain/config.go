package domain

import "time"

// Config mirrors ~/.nlp2cmd/config.yaml.
type Config struct {
	ConfigFormatVersion string            `yaml:"config_format_version"`
	Synthesis           SynthesisSettings `yaml:"synthesis"`
	Resolvers           []ResolverConfig  `yaml:"resolvers"`
	Cache               CacheSettings     `yaml:"cache"`
	History             HistorySettings   `yaml:"history"`
	Schemas             SchemaSettings    `yaml:"schemas"`
}

// SynthesisSettings captures user-level synthesis toggles.
type SynthesisSettings struct {
	DefaultDSL      string `yaml:"default_dsl"`
	DefaultResolver string `yaml:"default_resolver"`
	AutoRepair      bool   `yaml:"auto_repair"`
	TimeoutSeconds  int    `yaml:"timeout"`
}

// ResolverConfig declares one intent-resolver endpoint. An empty endpoint
// selects the built-in rule engine.
type ResolverConfig struct {
	Name       string `yaml:"name"`
	Endpoint   string `yaml:"endpoint,omitempty"`
	AuthEnvVar string `yaml:"auth_env_var,omitempty"`
	ModelID    string `yaml:"model_id,omitempty"`
	MaxTokens  int    `yaml:"max_tokens,omitempty"`
	RulesFile  string `yaml:"rules_file,omitempty"`
}

// CacheSettings configures the schema cache.
type CacheSettings struct {
	TTL        string `yaml:"ttl,omitempty"`
	MaxEntries int    `yaml:"max_entries,omitempty"`
	SchemaFile string `yaml:"schema_file,omitempty"`
}

// TTLDuration parses the configured TTL; zero means no expiry.
func (c CacheSettings) TTLDuration() time.Duration {
	if c.TTL == "" {
		return 0
	}
	if d, err := time.ParseDuration(c.TTL); err == nil {
		return d
	}
	return 0
}

// HistorySettings configures synthesis history persistence.
type HistorySettings struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

// SchemaSettings configures persisted schema bulk loading.
type SchemaSettings struct {
	Files []string `yaml:"files,omitempty"`
}

// ResolverTimeout returns the configured resolver deadline.
func (c Config) ResolverTimeout() time.Duration {
	if c.Synthesis.TimeoutSeconds <= 0 {
		return DefaultResolverTimeout
	}
	return time.Duration(c.Synthesis.TimeoutSeconds) * time.Second
}

// Resolver returns the named resolver config, or the default when name is
// empty.
func (c Config) Resolver(name string) (ResolverConfig, bool) {
	if name == "" {
		name = c.Synthesis.DefaultResolver
	}
	if name == "" && len(c.Resolvers) > 0 {
		return c.Resolvers[0], true
	}
	for _, r := range c.Resolvers {
		if r.Name == name {
			return r, true
		}
	}
	return ResolverConfig{}, false
}
