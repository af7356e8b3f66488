// Package commands contains the cobra subcommands of the CLI.
package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nlp2cmd/nlp2cmd/internal/app"
	"github.com/nlp2cmd/nlp2cmd/internal/domain"
)

// NewExtractCommand creates the 'extract' command: derive an AppSpec from
// help text or a sample invocation and store it in the schema cache.
func NewExtractCommand(container *app.Container) *cobra.Command {
	var (
		dsl      string
		helpFile string
		sample   string
		out      string
	)

	cmd := &cobra.Command{
		Use:   "extract <program>",
		Short: "Extract a command schema from help text or a sample invocation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			program := args[0]
			kind := domain.ParseDSLKind(dsl)

			var spec domain.AppSpec
			var err error
			switch {
			case helpFile != "":
				data, readErr := os.ReadFile(helpFile)
				if readErr != nil {
					return readErr
				}
				spec, err = container.Extractor.FromHelp(program, kind, string(data))
			case sample != "":
				spec, err = container.Extractor.FromInvocation(program, kind, strings.Fields(sample))
			default:
				return fmt.Errorf("either --help-file or --sample is required")
			}
			if err != nil {
				return err
			}

			container.Cache.Put(spec.CacheKey(), spec)
			fmt.Fprintf(cmd.OutOrStdout(), "Cached schema %s\n\n%s", spec.CacheKey(), spec.Summary())

			if out != "" {
				payload := map[string]domain.AppSpec{spec.Program: spec}
				data, err := json.MarshalIndent(payload, "", "  ")
				if err != nil {
					return err
				}
				if err := os.WriteFile(out, data, 0o644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nWrote %s\n", out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dsl, "dsl", "d", "shell", "Target DSL for the schema")
	cmd.Flags().StringVar(&helpFile, "help-file", "", "Path to a file holding the program's help output")
	cmd.Flags().StringVar(&sample, "sample", "", "Sample invocation, e.g. \"git commit -m <message> --amend\"")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Also write the schema to a JSON file")
	return cmd
}
