// Package cli wires the cobra command tree.
package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nlp2cmd/nlp2cmd/internal/app"
	"github.com/nlp2cmd/nlp2cmd/internal/domain"
	"github.com/nlp2cmd/nlp2cmd/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}

	queryCmd := newQueryCommand(container)

	root := &cobra.Command{
		Use:   "nlp2cmd [query]",
		Short: "NLP2CMD - natural language to command translation",
		Long:  "NLP2CMD maps natural-language queries to shell, SQL, Docker, and Kubernetes commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			queryCmd.SetArgs(args)
			return queryCmd.ExecuteContext(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(queryCmd)
	root.AddCommand(commands.NewExtractCommand(container))
	root.AddCommand(commands.NewCacheCommand(container))
	root.AddCommand(commands.NewConfigCommand(container))
	root.AddCommand(commands.NewHistoryCommand(container))
	root.AddCommand(commands.NewServeCommand(container))
	root.AddCommand(commands.NewDoctorCommand(container))
	root.AddCommand(commands.NewVersionCommand())
	return root, nil
}

func newQueryCommand(container *app.Container) *cobra.Command {
	var (
		dsl        string
		program    string
		resolver   string
		autoRepair bool
		explain    bool
		debug      bool
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "query [natural language]",
		Short: "Synthesize a command from natural language",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			req := domain.SynthesisRequest{
				Context:          ctx,
				Query:            strings.Join(args, " "),
				Program:          program,
				DSLHint:          dsl,
				AutoRepair:       autoRepair,
				AutoRepairSet:    cmd.Flags().Changed("auto-repair"),
				Explain:          explain,
				ResolverOverride: resolver,
				Debug:            debug,
			}
			result, err := container.SynthService.Synthesize(req)
			if err != nil {
				RenderError(cmd.OutOrStdout(), err)
				return err
			}
			RenderResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dsl, "dsl", "d", "", "Target DSL: shell, sql, docker, kubernetes")
	cmd.Flags().StringVarP(&program, "program", "p", "", "Program to synthesize for (default: inferred from query)")
	cmd.Flags().StringVarP(&resolver, "resolver", "r", "", "Override resolver name (default from config)")
	cmd.Flags().BoolVar(&autoRepair, "auto-repair", false, "Substitute defaults for unresolved required parameters")
	cmd.Flags().BoolVarP(&explain, "explain", "e", false, "Include the resolver's explanation")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable verbose logging")
	cmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "Override request timeout")

	return cmd
}
