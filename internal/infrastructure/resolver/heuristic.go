package resolver

import (
	"context"
	"strings"

	"github.com/nlp2cmd/nlp2cmd/internal/ports"
)

// heuristicResolver is the offline rule engine: regex intent rules with
// parameter captures, plus a token-match fallback over the schema's
// subcommand names. It never fails on an unmatched query; low confidence
// and an empty guess set let the synthesizer surface missing parameters.
type heuristicResolver struct {
	name  string
	rules []compiledRule
}

func newHeuristicResolver(name string, rulesFile string) (ports.IntentResolver, error) {
	rules, err := loadRules(rulesFile)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = "heuristic"
	}
	return &heuristicResolver{name: name, rules: rules}, nil
}

func (r *heuristicResolver) Name() string { return r.name }

func (r *heuristicResolver) Resolve(_ context.Context, req ports.ResolveRequest) (ports.ResolveResponse, error) {
	best := ports.ResolveResponse{}

	for _, cr := range r.rules {
		if cr.rule.Program != "" && cr.rule.Program != req.Spec.Program {
			continue
		}
		if _, declared := req.Spec.Subcommand(cr.rule.Subcommand); !declared {
			continue
		}
		if !cr.match.MatchString(req.Query) {
			continue
		}
		confidence := cr.rule.Confidence
		if confidence == 0 {
			confidence = 0.7
		}
		if confidence <= best.Confidence {
			continue
		}
		resp := ports.ResolveResponse{
			Subcommand:  cr.rule.Subcommand,
			Confidence:  confidence,
			Explanation: cr.rule.Explanation,
		}
		for _, capture := range cr.captures {
			if m := capture.pattern.FindStringSubmatch(req.Query); len(m) > 1 {
				resp.Guesses = append(resp.Guesses, ports.ParameterGuess{
					Name:  capture.name,
					Value: strings.TrimSpace(m[1]),
				})
			}
		}
		best = resp
	}

	if best.Subcommand != "" {
		sortGuesses(best.Guesses)
		return best, nil
	}

	// Fallback: a subcommand named verbatim in the query.
	tokens := strings.Fields(strings.ToLower(req.Query))
	for _, name := range req.Spec.SubcommandNames() {
		for _, tok := range tokens {
			if tok == strings.ToLower(name) {
				return ports.ResolveResponse{
					Subcommand:  name,
					Confidence:  0.4,
					Explanation: "matched subcommand name in query",
				}, nil
			}
		}
	}

	return ports.ResolveResponse{Explanation: "no rule matched the query"}, nil
}
