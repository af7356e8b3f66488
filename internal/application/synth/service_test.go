package synth

import (
	"context"
	"errors"
	"testing"

	"github.com/nlp2cmd/nlp2cmd/internal/domain"
	"github.com/nlp2cmd/nlp2cmd/internal/pkg/logger"
	"github.com/nlp2cmd/nlp2cmd/internal/ports"
)

func testConfig() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		Synthesis: domain.SynthesisSettings{
			DefaultResolver: "stub",
			TimeoutSeconds:  5,
		},
		Resolvers: []domain.ResolverConfig{{Name: "stub"}},
	}
}

func statusSpec() domain.AppSpec {
	return domain.AppSpec{
		Program:     "svc",
		DSL:         domain.DSLShell,
		Subcommands: []domain.Subcommand{{Name: "status"}},
	}
}

func commitSpec() domain.AppSpec {
	return domain.AppSpec{
		Program: "git",
		DSL:     domain.DSLShell,
		Subcommands: []domain.Subcommand{{
			Name: "commit",
			Parameters: []domain.Parameter{
				{Name: "message", Kind: domain.KindString, Required: true},
				{Name: "amend", Kind: domain.KindBoolean},
			},
		}},
	}
}

func newService(cache ports.SchemaCache, resolver ports.IntentResolver, hist ports.HistoryRepository) *Service {
	return &Service{
		ConfigProvider:  stubConfigProvider{cfg: testConfig()},
		Cache:           cache,
		Extractor:       stubExtractor{},
		ResolverFactory: stubResolverFactory{resolver: resolver},
		History:         hist,
		Logger:          logger.NewNop(),
	}
}

func TestSynthesizeParameterlessSubcommand(t *testing.T) {
	cache := newStubCache(statusSpec())
	resolver := &stubResolver{resp: ports.ResolveResponse{Subcommand: "status", Confidence: 0.9}}
	hist := &stubHistory{}
	svc := newService(cache, resolver, hist)

	result, err := svc.Synthesize(domain.SynthesisRequest{
		Context: context.Background(),
		Query:   "what is the svc status",
	})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if result.Command != "svc status" {
		t.Fatalf("Command = %q, want %q", result.Command, "svc status")
	}
	if result.Degraded {
		t.Fatal("result must not be degraded")
	}
	if !result.FromCache {
		t.Fatal("expected schema cache hit")
	}
	if len(hist.saved) != 1 || !hist.saved[0].Succeeded {
		t.Fatalf("history record = %+v", hist.saved)
	}
}

func TestSynthesizeMissingParameterRepairDisabled(t *testing.T) {
	cache := newStubCache(commitSpec())
	resolver := &stubResolver{resp: ports.ResolveResponse{Subcommand: "commit", Confidence: 0.8}}
	svc := newService(cache, resolver, nil)

	_, err := svc.Synthesize(domain.SynthesisRequest{
		Context: context.Background(),
		Query:   "commit my changes",
		Program: "git",
	})
	var synthErr *domain.SynthesisError
	if !errors.As(err, &synthErr) {
		t.Fatalf("expected SynthesisError, got %v", err)
	}
	if synthErr.Reason != domain.ReasonIncomplete {
		t.Fatalf("Reason = %s, want %s", synthErr.Reason, domain.ReasonIncomplete)
	}
	if len(synthErr.Missing) != 1 || synthErr.Missing[0] != "message" {
		t.Fatalf("Missing = %v, want [message]", synthErr.Missing)
	}
}

func TestSynthesizeMissingParameterRepairEnabled(t *testing.T) {
	cache := newStubCache(commitSpec())
	resolver := &stubResolver{resp: ports.ResolveResponse{Subcommand: "commit", Confidence: 0.8}}
	svc := newService(cache, resolver, nil)

	result, err := svc.Synthesize(domain.SynthesisRequest{
		Context:       context.Background(),
		Query:         "commit my changes",
		Program:       "git",
		AutoRepair:    true,
		AutoRepairSet: true,
	})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if !result.Degraded {
		t.Fatal("repaired result must be degraded")
	}
	if len(result.Repaired) != 1 || result.Repaired[0] != "message" {
		t.Fatalf("Repaired = %v, want [message]", result.Repaired)
	}
	if result.Command != `git commit --message "<message>"` {
		t.Fatalf("Command = %q", result.Command)
	}
}

func TestSynthesizeTypeMismatchCollectedAsWarning(t *testing.T) {
	spec := commitSpec()
	cache := newStubCache(spec)
	resolver := &stubResolver{resp: ports.ResolveResponse{
		Subcommand: "commit",
		Guesses: []ports.ParameterGuess{
			{Name: "message", Value: "fix bug"},
			{Name: "amend", Value: "sideways"},
		},
		Confidence: 0.8,
	}}
	svc := newService(cache, resolver, nil)

	result, err := svc.Synthesize(domain.SynthesisRequest{
		Context: context.Background(),
		Query:   "commit fix bug",
		Program: "git",
	})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Parameter != "amend" {
		t.Fatalf("Warnings = %+v", result.Warnings)
	}
	if result.Command != `git commit --message "fix bug"` {
		t.Fatalf("Command = %q", result.Command)
	}
}

func TestSynthesizeResolverTimeout(t *testing.T) {
	cache := newStubCache(statusSpec())
	resolver := &stubResolver{err: context.DeadlineExceeded}
	svc := newService(cache, resolver, nil)

	_, err := svc.Synthesize(domain.SynthesisRequest{
		Context: context.Background(),
		Query:   "svc status",
		Program: "svc",
	})
	var synthErr *domain.SynthesisError
	if !errors.As(err, &synthErr) {
		t.Fatalf("expected SynthesisError, got %v", err)
	}
	if synthErr.Reason != domain.ReasonResolverTimeout {
		t.Fatalf("Reason = %s, want %s", synthErr.Reason, domain.ReasonResolverTimeout)
	}
}

func TestSynthesizeResolverFailureNeverPropagatesRaw(t *testing.T) {
	cache := newStubCache(statusSpec())
	resolver := &stubResolver{err: errors.New("upstream exploded")}
	svc := newService(cache, resolver, nil)

	_, err := svc.Synthesize(domain.SynthesisRequest{
		Context: context.Background(),
		Query:   "svc status",
		Program: "svc",
	})
	var synthErr *domain.SynthesisError
	if !errors.As(err, &synthErr) {
		t.Fatalf("expected SynthesisError, got %v", err)
	}
	if synthErr.Reason != domain.ReasonResolver {
		t.Fatalf("Reason = %s, want %s", synthErr.Reason, domain.ReasonResolver)
	}
}

func TestSynthesizeUnknownResolverOverride(t *testing.T) {
	cache := newStubCache(statusSpec())
	svc := newService(cache, &stubResolver{}, nil)

	_, err := svc.Synthesize(domain.SynthesisRequest{
		Context:          context.Background(),
		Query:            "svc status",
		Program:          "svc",
		ResolverOverride: "ghost",
	})
	var synthErr *domain.SynthesisError
	if !errors.As(err, &synthErr) {
		t.Fatalf("expected SynthesisError, got %v", err)
	}
	if synthErr.Reason != domain.ReasonResolver {
		t.Fatalf("Reason = %s, want %s", synthErr.Reason, domain.ReasonResolver)
	}
}

func TestSynthesizeUnknownProgram(t *testing.T) {
	cache := newStubCache()
	svc := newService(cache, &stubResolver{}, nil)

	_, err := svc.Synthesize(domain.SynthesisRequest{
		Context: context.Background(),
		Query:   "do something",
		Program: "mystery",
	})
	var synthErr *domain.SynthesisError
	if !errors.As(err, &synthErr) {
		t.Fatalf("expected SynthesisError, got %v", err)
	}
	if synthErr.Reason != domain.ReasonUnknownProgram {
		t.Fatalf("Reason = %s", synthErr.Reason)
	}
}

func TestSynthesizeExtractsOnMissWithHelpText(t *testing.T) {
	cache := newStubCache()
	resolver := &stubResolver{resp: ports.ResolveResponse{Subcommand: "tool", Confidence: 0.5}}
	svc := newService(cache, resolver, nil)
	svc.Extractor = stubExtractor{spec: domain.AppSpec{
		Program:     "tool",
		DSL:         domain.DSLShell,
		Subcommands: []domain.Subcommand{{Name: "tool"}},
	}}

	result, err := svc.Synthesize(domain.SynthesisRequest{
		Context:  context.Background(),
		Query:    "run the tool",
		Program:  "tool",
		HelpText: "Options:\n  --verbose  enable verbose output\n",
	})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if result.FromCache {
		t.Fatal("first synthesis must not report a cache hit")
	}
	if len(cache.entries) != 1 {
		t.Fatalf("extracted spec not cached, entries = %d", len(cache.entries))
	}
}

type stubConfigProvider struct {
	cfg domain.Config
	err error
}

func (s stubConfigProvider) Load(context.Context) (domain.Config, error) {
	return s.cfg, s.err
}

type stubExtractor struct {
	spec domain.AppSpec
	err  error
}

func (s stubExtractor) FromHelp(string, domain.DSLKind, string) (domain.AppSpec, error) {
	return s.spec, s.err
}

func (s stubExtractor) FromInvocation(string, domain.DSLKind, []string) (domain.AppSpec, error) {
	return s.spec, s.err
}

type stubResolverFactory struct {
	resolver ports.IntentResolver
	err      error
}

func (s stubResolverFactory) ForConfig(domain.ResolverConfig) (ports.IntentResolver, error) {
	return s.resolver, s.err
}

type stubResolver struct {
	resp ports.ResolveResponse
	err  error
}

func (s *stubResolver) Name() string { return "stub" }

func (s *stubResolver) Resolve(context.Context, ports.ResolveRequest) (ports.ResolveResponse, error) {
	return s.resp, s.err
}

type stubCache struct {
	entries map[string]domain.AppSpec
}

func newStubCache(specs ...domain.AppSpec) *stubCache {
	c := &stubCache{entries: make(map[string]domain.AppSpec)}
	for _, spec := range specs {
		c.entries[spec.CacheKey()] = spec
	}
	return c
}

func (c *stubCache) Get(key string) (domain.AppSpec, bool) {
	spec, ok := c.entries[key]
	return spec, ok
}

func (c *stubCache) Put(key string, spec domain.AppSpec) { c.entries[key] = spec }
func (c *stubCache) Invalidate(key string)               { delete(c.entries, key) }
func (c *stubCache) Clear()                              { c.entries = make(map[string]domain.AppSpec) }

func (c *stubCache) Entries() []domain.CacheEntry {
	var out []domain.CacheEntry
	for key, spec := range c.entries {
		out = append(out, domain.CacheEntry{Key: key, Spec: spec})
	}
	return out
}

type stubHistory struct {
	saved []domain.SynthesisRecord
}

func (h *stubHistory) Save(rec domain.SynthesisRecord) error { h.saved = append(h.saved, rec); return nil }
func (h *stubHistory) Records(int, string) ([]domain.SynthesisRecord, error) {
	return h.saved, nil
}
func (h *stubHistory) Clear() error            { h.saved = nil; return nil }
func (h *stubHistory) ExportJSON(string) error { return nil }
func (h *stubHistory) Path() string            { return "stub" }
