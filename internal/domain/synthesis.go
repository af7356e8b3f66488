package domain

import "context"

// SynthesisRequest captures user intent originating from the CLI or the HTTP
// front-end.
type SynthesisRequest struct {
	Context          context.Context
	Query            string
	Program          string
	DSLHint          string
	AutoRepair       bool
	AutoRepairSet    bool
	Explain          bool
	ResolverOverride string
	HelpText         string
	Debug            bool
}

// Warning records a non-fatal slot failure collected during synthesis.
type Warning struct {
	Parameter string `json:"parameter"`
	Detail    string `json:"detail"`
}

// SynthesisResult is the canonical output of one synthesis pass. It is not
// persisted by the core; the history store keeps its own record.
type SynthesisResult struct {
	ID          string    `json:"id"`
	Command     string    `json:"command"`
	DSL         DSLKind   `json:"dsl"`
	Subcommand  string    `json:"subcommand"`
	Explanation string    `json:"explanation,omitempty"`
	Confidence  float64   `json:"confidence"`
	Degraded    bool      `json:"degraded"`
	Repaired    []string  `json:"repaired,omitempty"`
	Warnings    []Warning `json:"warnings,omitempty"`
	Resolver    string    `json:"resolver,omitempty"`
	FromCache   bool      `json:"from_cache"`
}

// Synthesizer exposes the use-case boundary for handling a query.
type Synthesizer interface {
	Synthesize(SynthesisRequest) (SynthesisResult, error)
}
