package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCacheCorruption marks a persisted schema entry that failed to decode.
// Callers treat the entry as a cache miss rather than propagating the error.
var ErrCacheCorruption = errors.New("schema cache entry corrupted")

// SynthesisReason classifies why a synthesis pass failed.
type SynthesisReason string

const (
	ReasonResolver        SynthesisReason = "resolver"
	ReasonResolverTimeout SynthesisReason = "resolver_timeout"
	ReasonIncomplete      SynthesisReason = "incomplete_binding"
	ReasonRepairExhausted SynthesisReason = "repair_exhausted"
	ReasonUnknownProgram  SynthesisReason = "unknown_program"
)

// ExtractionError reports unparseable extraction input. Extraction never
// yields a partially populated spec alongside an error.
type ExtractionError struct {
	Program string
	Detail  string
}

func (e *ExtractionError) Error() string {
	if e.Program == "" {
		return fmt.Sprintf("extraction failed: %s", e.Detail)
	}
	return fmt.Sprintf("extraction failed for %s: %s", e.Program, e.Detail)
}

// TypeMismatchError reports a slot value that violates the declared kind.
type TypeMismatchError struct {
	Parameter string
	Kind      ParamKind
	Value     string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("parameter %s: value %q does not satisfy kind %s", e.Parameter, e.Value, e.Kind)
}

// UnknownParameterError reports a resolver guess naming an undeclared slot.
type UnknownParameterError struct {
	Parameter  string
	Subcommand string
}

func (e *UnknownParameterError) Error() string {
	return fmt.Sprintf("parameter %s is not declared by subcommand %s", e.Parameter, e.Subcommand)
}

// IncompleteBindingError reports a render attempted before every required
// slot was filled, with auto-repair disabled.
type IncompleteBindingError struct {
	Missing []string
}

func (e *IncompleteBindingError) Error() string {
	return fmt.Sprintf("incomplete binding: missing required parameters [%s]", strings.Join(e.Missing, ", "))
}

// SynthesisError surfaces resolver failure, timeout, or repair exhaustion
// with enough structure to render a user-facing message.
type SynthesisError struct {
	Reason  SynthesisReason
	Missing []string
	Cause   error
}

func (e *SynthesisError) Error() string {
	msg := fmt.Sprintf("synthesis failed (%s)", e.Reason)
	if len(e.Missing) > 0 {
		msg += fmt.Sprintf(": missing required parameters [%s]", strings.Join(e.Missing, ", "))
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *SynthesisError) Unwrap() error { return e.Cause }
