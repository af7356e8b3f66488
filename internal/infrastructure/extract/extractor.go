// Package extract derives AppSpecs from a program's observable interface:
// structured help text or a sample invocation. Extraction is pure and
// deterministic; identical input always yields specs with equal parameter
// sets and fingerprints.
package extract

import (
	"strconv"
	"strings"

	"github.com/nlp2cmd/nlp2cmd/internal/domain"
	"github.com/nlp2cmd/nlp2cmd/internal/ports"
)

// Extractor implements ports.SchemaExtractor.
type Extractor struct{}

// New returns an Extractor.
func New() *Extractor {
	return &Extractor{}
}

// FromInvocation derives a single-subcommand spec from a sample command
// line such as:
//
//	git commit -m <message> --amend
//	docker run --name <name> --detach <image>
//
// Angle-bracket placeholders become required parameters; literal flag values
// become optional parameters with that value as default; bare flags become
// booleans.
func (e *Extractor) FromInvocation(program string, dsl domain.DSLKind, sample []string) (domain.AppSpec, error) {
	if strings.TrimSpace(program) == "" {
		return domain.AppSpec{}, &domain.ExtractionError{Detail: "program identifier is empty"}
	}
	if len(sample) == 0 {
		return domain.AppSpec{}, &domain.ExtractionError{Program: program, Detail: "sample invocation is empty"}
	}

	tokens := sample
	if tokens[0] == program {
		tokens = tokens[1:]
	}

	sub := domain.Subcommand{Name: program}
	if len(tokens) > 0 && !isFlag(tokens[0]) && !isPlaceholder(tokens[0]) {
		sub.Name = tokens[0]
		tokens = tokens[1:]
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case isFlag(tok):
			name := strings.TrimLeft(tok, "-")
			if name == "" {
				return domain.AppSpec{}, &domain.ExtractionError{Program: program, Detail: "bare dash in sample invocation"}
			}
			param := domain.Parameter{Name: name, Kind: domain.KindBoolean}
			if i+1 < len(tokens) && !isFlag(tokens[i+1]) {
				value := tokens[i+1]
				i++
				if isPlaceholder(value) {
					param.Name = trimPlaceholder(value)
					param.Kind = domain.KindString
					param.Required = true
				} else {
					param.Kind = inferKind(value)
					param.Default = value
				}
			}
			sub.Parameters = append(sub.Parameters, param)
		case isPlaceholder(tok):
			sub.Parameters = append(sub.Parameters, domain.Parameter{
				Name:       trimPlaceholder(tok),
				Kind:       domain.KindString,
				Required:   true,
				Positional: true,
			})
		default:
			return domain.AppSpec{}, &domain.ExtractionError{
				Program: program,
				Detail:  "unexpected token " + strconv.Quote(tok) + " in sample invocation",
			}
		}
	}

	spec := domain.AppSpec{
		Program:     program,
		DSL:         dsl,
		Subcommands: []domain.Subcommand{sub},
	}
	if err := spec.Validate(); err != nil {
		return domain.AppSpec{}, &domain.ExtractionError{Program: program, Detail: err.Error()}
	}
	return spec, nil
}

func isFlag(tok string) bool {
	return strings.HasPrefix(tok, "-") && tok != "-" && tok != "--"
}

func isPlaceholder(tok string) bool {
	return strings.HasPrefix(tok, "<") && strings.HasSuffix(tok, ">") && len(tok) > 2
}

func trimPlaceholder(tok string) string {
	return strings.TrimSuffix(strings.TrimPrefix(tok, "<"), ">")
}

func inferKind(value string) domain.ParamKind {
	if _, err := strconv.ParseInt(value, 10, 64); err == nil {
		return domain.KindInteger
	}
	switch strings.ToLower(value) {
	case "true", "false":
		return domain.KindBoolean
	}
	return domain.KindString
}

var _ ports.SchemaExtractor = (*Extractor)(nil)
