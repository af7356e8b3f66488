package resolver

import (
	"fmt"
	"sort"

	"github.com/nlp2cmd/nlp2cmd/internal/ports"
)

const systemPrompt = `You map natural-language requests onto a command schema.
Reply with a single JSON object and nothing else:
{"subcommand": "<name>", "parameters": {"<param>": "<value>"}, "confidence": 0.0, "explanation": "<one sentence>"}
Only use subcommands and parameters declared in the schema. Omit parameters
you cannot infer from the request.`

func userPrompt(req ports.ResolveRequest) string {
	return fmt.Sprintf("Schema:\n%s\nRequest: %s", req.SpecSummary, req.Query)
}

func sortGuesses(guesses []ports.ParameterGuess) {
	sort.Slice(guesses, func(i, j int) bool { return guesses[i].Name < guesses[j].Name })
}
