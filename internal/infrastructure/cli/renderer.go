package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nlp2cmd/nlp2cmd/internal/domain"
)

// RenderResult prints the synthesis result in a friendly, ASCII-only format.
func RenderResult(w io.Writer, result domain.SynthesisResult) {
	fmt.Fprintf(w, "Generated Command (%s):\n", result.DSL)
	fmt.Fprintf(w, "  %s\n", result.Command)

	fmt.Fprintf(w, "\nResolver: %s (confidence %.2f)\n", result.Resolver, result.Confidence)
	if result.FromCache {
		fmt.Fprintln(w, "Note: schema served from cache")
	}
	if result.Degraded {
		fmt.Fprintf(w, "Warning: degraded result; defaults substituted for [%s]\n", strings.Join(result.Repaired, ", "))
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, " - %s: %s\n", warning.Parameter, warning.Detail)
	}
	if result.Explanation != "" {
		fmt.Fprintf(w, "\nExplanation: %s\n", result.Explanation)
	}
}

// RenderError prints a structured failure message.
func RenderError(w io.Writer, err error) {
	var synthErr *domain.SynthesisError
	if errors.As(err, &synthErr) {
		fmt.Fprintf(w, "Synthesis failed (%s)\n", synthErr.Reason)
		if len(synthErr.Missing) > 0 {
			fmt.Fprintf(w, "Missing required parameters: %s\n", strings.Join(synthErr.Missing, ", "))
			fmt.Fprintln(w, "Hint: re-run with --auto-repair to substitute defaults.")
		}
		if synthErr.Cause != nil {
			fmt.Fprintf(w, "Detail: %v\n", synthErr.Cause)
		}
		return
	}
	var extractErr *domain.ExtractionError
	if errors.As(err, &extractErr) {
		fmt.Fprintf(w, "Extraction failed: %s\n", extractErr.Detail)
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
