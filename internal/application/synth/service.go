// Package synth implements the command synthesizer use case.
package synth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nlp2cmd/nlp2cmd/internal/domain"
	"github.com/nlp2cmd/nlp2cmd/internal/ports"
)

// Service orchestrates one synthesis pass end-to-end: schema lookup (or
// extraction on miss), intent resolution, slot binding, rendering, and the
// single repair attempt.
type Service struct {
	ConfigProvider  ports.ConfigProvider
	Cache           ports.SchemaCache
	Extractor       ports.SchemaExtractor
	ResolverFactory ports.ResolverFactory
	History         ports.HistoryRepository
	Logger          ports.Logger
}

// Synthesize processes a single natural-language query.
func (s *Service) Synthesize(req domain.SynthesisRequest) (domain.SynthesisResult, error) {
	if s.ConfigProvider == nil || s.Cache == nil || s.Extractor == nil ||
		s.ResolverFactory == nil || s.Logger == nil {
		return domain.SynthesisResult{}, errors.New("synth.Service dependencies not satisfied")
	}

	ctx := req.Context
	if ctx == nil {
		ctx = context.Background()
	}
	started := time.Now()

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		return domain.SynthesisResult{}, fmt.Errorf("load config: %w", err)
	}

	dsl := domain.ParseDSLKind(req.DSLHint)
	if req.DSLHint == "" && cfg.Synthesis.DefaultDSL != "" {
		dsl = domain.ParseDSLKind(cfg.Synthesis.DefaultDSL)
	}

	spec, fromCache, err := s.lookupSpec(req, dsl)
	if err != nil {
		return domain.SynthesisResult{}, err
	}

	resolverCfg, ok := cfg.Resolver(req.ResolverOverride)
	if !ok {
		return domain.SynthesisResult{}, &domain.SynthesisError{
			Reason: domain.ReasonResolver,
			Cause:  fmt.Errorf("resolver %s not configured", req.ResolverOverride),
		}
	}
	resolver, err := s.ResolverFactory.ForConfig(resolverCfg)
	if err != nil {
		return domain.SynthesisResult{}, fmt.Errorf("resolver init: %w", err)
	}

	s.Logger.Info("calling resolver", map[string]interface{}{
		"resolver": resolver.Name(),
		"program":  spec.Program,
		"dsl":      string(spec.DSL),
	})

	resolveCtx, cancel := context.WithTimeout(ctx, cfg.ResolverTimeout())
	defer cancel()

	intent, err := resolver.Resolve(resolveCtx, ports.ResolveRequest{
		Query:       req.Query,
		SpecSummary: spec.Summary(),
		Spec:        spec,
		Debug:       req.Debug,
	})
	if err != nil {
		reason := domain.ReasonResolver
		if errors.Is(err, context.DeadlineExceeded) {
			reason = domain.ReasonResolverTimeout
		}
		synthErr := &domain.SynthesisError{Reason: reason, Cause: err}
		s.record(req, spec, domain.SynthesisResult{Resolver: resolver.Name()}, false, started)
		return domain.SynthesisResult{}, synthErr
	}

	adapter := domain.BindSpec(spec)
	subcommand := intent.Subcommand
	if subcommand == "" && len(spec.Subcommands) == 1 {
		subcommand = spec.Subcommands[0].Name
	}
	if err := adapter.Use(subcommand); err != nil {
		return domain.SynthesisResult{}, &domain.SynthesisError{Reason: domain.ReasonResolver, Cause: err}
	}

	var warnings []domain.Warning
	for _, guess := range intent.Guesses {
		if err := adapter.Resolve(guess.Name, guess.Value); err != nil {
			var mismatch *domain.TypeMismatchError
			var unknown *domain.UnknownParameterError
			if errors.As(err, &mismatch) || errors.As(err, &unknown) {
				warnings = append(warnings, domain.Warning{Parameter: guess.Name, Detail: err.Error()})
				continue
			}
			return domain.SynthesisResult{}, err
		}
	}

	autoRepair := cfg.Synthesis.AutoRepair
	if req.AutoRepairSet {
		autoRepair = req.AutoRepair
	}

	result := domain.SynthesisResult{
		ID:         uuid.NewString(),
		DSL:        spec.DSL,
		Subcommand: adapter.Active(),
		Confidence: intent.Confidence,
		Warnings:   warnings,
		Resolver:   resolver.Name(),
		FromCache:  fromCache,
	}
	if req.Explain {
		result.Explanation = intent.Explanation
	}

	command, err := adapter.Render()
	if err != nil {
		var incomplete *domain.IncompleteBindingError
		if !errors.As(err, &incomplete) {
			return domain.SynthesisResult{}, err
		}
		if !autoRepair {
			synthErr := &domain.SynthesisError{Reason: domain.ReasonIncomplete, Missing: incomplete.Missing, Cause: err}
			s.record(req, spec, result, false, started)
			return domain.SynthesisResult{}, synthErr
		}
		// Single repair attempt: substitute defaults and flag degraded.
		repairedCmd, repaired, repairErr := adapter.RenderRepaired()
		if repairErr != nil {
			return domain.SynthesisResult{}, &domain.SynthesisError{
				Reason:  domain.ReasonRepairExhausted,
				Missing: incomplete.Missing,
				Cause:   repairErr,
			}
		}
		command = repairedCmd
		result.Degraded = true
		result.Repaired = repaired
	}

	result.Command = command
	s.record(req, spec, result, true, started)
	return result, nil
}

// lookupSpec finds the AppSpec for the request: cache hit, extraction from
// supplied help text on miss, or a query-token scan over cached programs
// when no program was named.
func (s *Service) lookupSpec(req domain.SynthesisRequest, dsl domain.DSLKind) (domain.AppSpec, bool, error) {
	program := strings.TrimSpace(req.Program)

	if program != "" {
		if spec, ok := s.specForProgram(program); ok {
			return spec, true, nil
		}
		if req.HelpText != "" {
			spec, err := s.Extractor.FromHelp(program, dsl, req.HelpText)
			if err != nil {
				return domain.AppSpec{}, false, err
			}
			s.Cache.Put(spec.CacheKey(), spec)
			return spec, false, nil
		}
		return domain.AppSpec{}, false, &domain.SynthesisError{
			Reason: domain.ReasonUnknownProgram,
			Cause:  fmt.Errorf("no schema cached for program %q and no help text supplied", program),
		}
	}

	// No program named: match a cached program word in the query.
	tokens := strings.Fields(strings.ToLower(req.Query))
	for _, entry := range s.Cache.Entries() {
		for _, tok := range tokens {
			if tok == strings.ToLower(entry.Spec.Program) {
				return entry.Spec, true, nil
			}
		}
	}
	return domain.AppSpec{}, false, &domain.SynthesisError{
		Reason: domain.ReasonUnknownProgram,
		Cause:  errors.New("query names no known program; pass --program or extract a schema first"),
	}
}

func (s *Service) specForProgram(program string) (domain.AppSpec, bool) {
	if spec, ok := s.Cache.Get(program); ok {
		return spec, true
	}
	for _, entry := range s.Cache.Entries() {
		if entry.Spec.Program == program {
			return entry.Spec, true
		}
	}
	return domain.AppSpec{}, false
}

func (s *Service) record(req domain.SynthesisRequest, spec domain.AppSpec, result domain.SynthesisResult, succeeded bool, started time.Time) {
	if s.History == nil {
		return
	}
	rec := domain.SynthesisRecord{
		Timestamp:  started,
		Query:      req.Query,
		Program:    spec.Program,
		DSL:        string(spec.DSL),
		Command:    result.Command,
		Resolver:   result.Resolver,
		Confidence: result.Confidence,
		Degraded:   result.Degraded,
		Succeeded:  succeeded,
		DurationMS: time.Since(started).Milliseconds(),
	}
	if err := s.History.Save(rec); err != nil {
		s.Logger.Warn("history save failed", map[string]interface{}{"error": err.Error()})
	}
}
