// Package domain defines core business entities and value objects for NLP2CMD.
//
// The domain layer is independent of infrastructure concerns and represents
// pure data structures plus the binding logic that turns a schema into a
// concrete command string.
package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// DSLKind identifies the target command language family.
type DSLKind string

const (
	DSLShell      DSLKind = "shell"
	DSLSQL        DSLKind = "sql"
	DSLDocker     DSLKind = "docker"
	DSLKubernetes DSLKind = "kubernetes"
)

// ParseDSLKind maps a user-supplied hint to a DSLKind, defaulting to shell.
func ParseDSLKind(raw string) DSLKind {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "sql":
		return DSLSQL
	case "docker":
		return DSLDocker
	case "kubernetes", "k8s", "kubectl":
		return DSLKubernetes
	default:
		return DSLShell
	}
}

// ParamKind is the closed set of value kinds a parameter may declare.
type ParamKind string

const (
	KindString  ParamKind = "string"
	KindInteger ParamKind = "integer"
	KindBoolean ParamKind = "boolean"
	KindEnum    ParamKind = "enum"
)

// Parameter describes a single flag or positional argument of a subcommand.
type Parameter struct {
	Name        string    `json:"name" yaml:"name"`
	Kind        ParamKind `json:"kind" yaml:"kind"`
	Required    bool      `json:"required" yaml:"required"`
	Default     string    `json:"default,omitempty" yaml:"default,omitempty"`
	Enum        []string  `json:"enum,omitempty" yaml:"enum,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Positional  bool      `json:"positional,omitempty" yaml:"positional,omitempty"`
}

// Subcommand groups the parameters of one program verb.
type Subcommand struct {
	Name       string      `json:"name" yaml:"name"`
	Usage      string      `json:"usage,omitempty" yaml:"usage,omitempty"`
	Parameters []Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`

	// Template optionally overrides flag-style rendering with a literal
	// layout containing {param} placeholders. SQL specs use this to render
	// clause-style statements.
	Template string `json:"template,omitempty" yaml:"template,omitempty"`
}

// Parameter returns the named parameter, if declared.
func (s Subcommand) Parameter(name string) (Parameter, bool) {
	for _, p := range s.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// RequiredParameters lists the names of all required parameters.
func (s Subcommand) RequiredParameters() []string {
	var names []string
	for _, p := range s.Parameters {
		if p.Required {
			names = append(names, p.Name)
		}
	}
	return names
}

// AppSpec is a declarative description of a command-line program: its
// subcommands and their parameters. Specs are immutable once produced by
// extraction; re-extraction supersedes rather than mutates.
type AppSpec struct {
	Program     string       `json:"program" yaml:"program"`
	Version     string       `json:"version,omitempty" yaml:"version,omitempty"`
	DSL         DSLKind      `json:"dsl" yaml:"dsl"`
	Subcommands []Subcommand `json:"subcommands" yaml:"subcommands"`
	Hints       []string     `json:"hints,omitempty" yaml:"hints,omitempty"`
}

// Subcommand returns the named subcommand, if declared.
func (a AppSpec) Subcommand(name string) (Subcommand, bool) {
	for _, sc := range a.Subcommands {
		if sc.Name == name {
			return sc, true
		}
	}
	return Subcommand{}, false
}

// SubcommandNames lists declared subcommand names in declaration order.
func (a AppSpec) SubcommandNames() []string {
	names := make([]string, 0, len(a.Subcommands))
	for _, sc := range a.Subcommands {
		names = append(names, sc.Name)
	}
	return names
}

// Validate enforces the structural invariants: a non-empty program name,
// unique subcommand names, and unique parameter names per subcommand.
func (a AppSpec) Validate() error {
	if strings.TrimSpace(a.Program) == "" {
		return fmt.Errorf("appspec: program name is empty")
	}
	seenSub := make(map[string]struct{}, len(a.Subcommands))
	for _, sc := range a.Subcommands {
		if sc.Name == "" {
			return fmt.Errorf("appspec %s: subcommand with empty name", a.Program)
		}
		if _, dup := seenSub[sc.Name]; dup {
			return fmt.Errorf("appspec %s: duplicate subcommand %q", a.Program, sc.Name)
		}
		seenSub[sc.Name] = struct{}{}

		seenParam := make(map[string]struct{}, len(sc.Parameters))
		for _, p := range sc.Parameters {
			if p.Name == "" {
				return fmt.Errorf("appspec %s/%s: parameter with empty name", a.Program, sc.Name)
			}
			if _, dup := seenParam[p.Name]; dup {
				return fmt.Errorf("appspec %s/%s: duplicate parameter %q", a.Program, sc.Name, p.Name)
			}
			seenParam[p.Name] = struct{}{}
			switch p.Kind {
			case KindString, KindInteger, KindBoolean:
			case KindEnum:
				if len(p.Enum) == 0 {
					return fmt.Errorf("appspec %s/%s: enum parameter %q has no values", a.Program, sc.Name, p.Name)
				}
			default:
				return fmt.Errorf("appspec %s/%s: parameter %q has unknown kind %q", a.Program, sc.Name, p.Name, p.Kind)
			}
		}
	}
	return nil
}

// Fingerprint returns a stable hash over the spec's parameter sets. Field
// encounter order does not affect the result, so structurally identical
// specs always share a fingerprint. Used for cache-key stability.
func (a AppSpec) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "program=%s;version=%s;dsl=%s;", a.Program, a.Version, a.DSL)

	subs := make([]string, 0, len(a.Subcommands))
	for _, sc := range a.Subcommands {
		params := make([]string, 0, len(sc.Parameters))
		for _, p := range sc.Parameters {
			enum := append([]string(nil), p.Enum...)
			sort.Strings(enum)
			params = append(params, fmt.Sprintf("%s:%s:%t:%s:%s", p.Name, p.Kind, p.Required, p.Default, strings.Join(enum, ",")))
		}
		sort.Strings(params)
		subs = append(subs, sc.Name+"{"+strings.Join(params, "|")+"}")
	}
	sort.Strings(subs)
	fmt.Fprint(h, strings.Join(subs, ";"))

	return hex.EncodeToString(h.Sum(nil))
}

// CacheKey derives the canonical cache key for this spec.
func (a AppSpec) CacheKey() string {
	return CacheKeyFor(a.Program, a.Fingerprint())
}

// CacheKeyFor builds a cache key from program identity and fingerprint.
func CacheKeyFor(program, fingerprint string) string {
	if fingerprint == "" {
		return program
	}
	if len(fingerprint) > 12 {
		fingerprint = fingerprint[:12]
	}
	return program + "@" + fingerprint
}

// Summary renders a compact textual view of the spec for resolver prompts.
func (a AppSpec) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "program: %s (dsl: %s)\n", a.Program, a.DSL)
	for _, sc := range a.Subcommands {
		fmt.Fprintf(&b, "  %s", sc.Name)
		if sc.Usage != "" {
			fmt.Fprintf(&b, " - %s", sc.Usage)
		}
		b.WriteString("\n")
		for _, p := range sc.Parameters {
			req := "optional"
			if p.Required {
				req = "required"
			}
			fmt.Fprintf(&b, "    %s (%s, %s)", p.Name, p.Kind, req)
			if len(p.Enum) > 0 {
				fmt.Fprintf(&b, " one of [%s]", strings.Join(p.Enum, ", "))
			}
			if p.Description != "" {
				fmt.Fprintf(&b, ": %s", p.Description)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
