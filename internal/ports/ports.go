// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and
// external adapters (infrastructure). The application depends on these
// abstractions, never on concrete implementations such as the HTTP resolver
// client, the SQLite history store, or the cobra/chi front-ends.
package ports

import (
	"context"

	"github.com/nlp2cmd/nlp2cmd/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.nlp2cmd/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// SchemaExtractor derives an AppSpec from a reference program's observable
// interface. Pure and deterministic: identical input yields specs with equal
// parameter sets and fingerprints.
type SchemaExtractor interface {
	FromHelp(program string, dsl domain.DSLKind, helpText string) (domain.AppSpec, error)
	FromInvocation(program string, dsl domain.DSLKind, sample []string) (domain.AppSpec, error)
}

// SchemaCache memoizes extracted AppSpecs keyed by program identity +
// version fingerprint. Get never triggers extraction; miss handling is the
// caller's responsibility. Put and Invalidate are serialized against
// concurrent Gets for the same key, last-writer-wins.
type SchemaCache interface {
	Get(key string) (domain.AppSpec, bool)
	Put(key string, spec domain.AppSpec)
	Invalidate(key string)
	Entries() []domain.CacheEntry
	Clear()
}

// ResolverFactory builds intent-resolver instances from resolver
// configurations.
type ResolverFactory interface {
	ForConfig(domain.ResolverConfig) (IntentResolver, error)
}

// IntentResolver maps a free-text query onto a subcommand choice plus
// parameter-name to value guesses. The LLM or rule engine behind it is an
// opaque external capability; implementations convert its failures into the
// core error taxonomy.
type IntentResolver interface {
	Name() string
	Resolve(context.Context, ResolveRequest) (ResolveResponse, error)
}

// ResolveRequest is the single well-typed boundary handed to a resolver.
type ResolveRequest struct {
	Query       string
	SpecSummary string
	Spec        domain.AppSpec
	Debug       bool
}

// ParameterGuess is one resolver-proposed slot value.
type ParameterGuess struct {
	Name  string
	Value string
}

// ResolveResponse carries the resolver's subcommand choice and guesses.
type ResolveResponse struct {
	Subcommand  string
	Guesses     []ParameterGuess
	Confidence  float64
	Explanation string
}

// HistoryRepository persists synthesis passes.
type HistoryRepository interface {
	Save(domain.SynthesisRecord) error
	Records(limit int, search string) ([]domain.SynthesisRecord, error)
	Clear() error
	ExportJSON(dest string) error
	Path() string
}

// Logger provides structured logging abstraction for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
